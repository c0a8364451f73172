package middleware

import (
	"net/http"

	"fulfillment-be/internal/auth"
	"fulfillment-be/internal/logger"
	"fulfillment-be/internal/utils"

	"github.com/gin-gonic/gin"
)

// Auth parses the bearer token when present and stores the seller identity in
// the request context. Invalid or missing tokens pass through anonymously;
// RequireAuth enforces authentication where needed.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := auth.ExtractAccessToken(c.Request)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := auth.ParseJWT(tokenStr)
		if err != nil {
			c.Next()
			return
		}

		ctx := utils.SetSellerContext(c.Request.Context(), claims.SellerID, claims.Email, claims.Role)
		ctx = logger.WithSellerID(ctx, claims.SellerID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAuth rejects requests that did not authenticate.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetSellerIDFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "unauthorized",
			})
			return
		}
		c.Next()
	}
}
