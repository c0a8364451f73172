package rest

import (
	"net/http"

	"fulfillment-be/internal/seller"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	sellers seller.Service
}

func NewAuthHandler(sellers seller.Service) *AuthHandler {
	return &AuthHandler{sellers: sellers}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	StoreName string `json:"store_name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type sellerView struct {
	ID              uint   `json:"id"`
	Email           string `json:"email"`
	StoreName       string `json:"store_name"`
	NeedsOnboarding bool   `json:"needs_onboarding"`
	OnboardingStep  string `json:"onboarding_step"`
}

func toSellerView(s seller.Seller) sellerView {
	return sellerView{
		ID:              s.ID,
		Email:           s.Email,
		StoreName:       s.StoreName,
		NeedsOnboarding: s.NeedsOnboarding,
		OnboardingStep:  s.OnboardingStep,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	token, s, err := h.sellers.Register(c.Request.Context(), req.Email, req.Password, req.StoreName)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookie(c, token)
	respondCreated(c, gin.H{"token": token, "seller": toSellerView(s)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	token, s, err := h.sellers.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookie(c, token)
	respondOK(c, gin.H{"token": token, "seller": toSellerView(s)})
}

// setAuthCookie mirrors the token into an HTTP-only cookie; browser clients
// use the cookie, API clients the bearer header.
func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", token, 60*60*24, "/", "", false, true)
}
