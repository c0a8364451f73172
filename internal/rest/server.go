package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fulfillment-be/internal/config"
	"fulfillment-be/internal/delivery"
	"fulfillment-be/internal/fulfillment"
	"fulfillment-be/internal/logger"
	"fulfillment-be/internal/metrics"
	"fulfillment-be/internal/middleware"
	"fulfillment-be/internal/onboarding"
	"fulfillment-be/internal/order"
	"fulfillment-be/internal/seller"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	reg        *metrics.Registry
}

type Services struct {
	Sellers    seller.Service
	Gate       onboarding.Service
	Orders     order.Service
	Deliveries delivery.Service
	Flow       fulfillment.Service
}

func NewServer(cfg *config.Config, svcs Services, reg *metrics.Registry) *Server {
	s := &Server{cfg: cfg, reg: reg}
	s.router = s.setupRouter(svcs)
	s.httpServer = &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

func (s *Server) setupRouter(svcs Services) *gin.Engine {
	if s.cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Auth(),
		s.countRequests(),
	)

	authHandler := NewAuthHandler(svcs.Sellers)
	onboardingHandler := NewOnboardingHandler(svcs.Gate, svcs.Sellers)
	orderHandler := NewOrderHandler(svcs.Orders, svcs.Flow)
	deliveryHandler := NewDeliveryHandler(svcs.Deliveries, s.reg, s.cfg.UploadDir)

	router.GET("/health", func(c *gin.Context) {
		respondOK(c, gin.H{"status": "ok"})
	})
	router.GET("/metrics", func(c *gin.Context) {
		respondOK(c, s.reg.Snapshot())
	})
	router.Static("/uploads", s.cfg.UploadDir)

	auth := router.Group("/auth", middleware.RateLimitStrict())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	api := router.Group("/", middleware.RateLimit(), middleware.RequireAuth())
	{
		api.GET("/seller/onboarding/status", onboardingHandler.Status)

		api.POST("/orders", orderHandler.Create)
		api.GET("/orders", orderHandler.List)
		api.GET("/orders/:id", orderHandler.Get)
		api.POST("/orders/:id/delivery-method", orderHandler.ChooseDeliveryMethod)
		api.POST("/orders/:id/confirm", orderHandler.Confirm)
		api.POST("/orders/:id/process", orderHandler.Process)
		api.POST("/orders/:id/ship", orderHandler.Ship)
		api.POST("/orders/:id/cancel", orderHandler.Cancel)

		api.GET("/deliveries", deliveryHandler.List)
		api.GET("/deliveries/:id", deliveryHandler.Get)
		api.POST("/deliveries/:id/status", deliveryHandler.Transition)
		api.POST("/deliveries/:id/assign-courier", deliveryHandler.AssignCourier)
		api.POST("/deliveries/:id/proof", deliveryHandler.AttachProof)
	}

	return router
}

// Handler exposes the configured router, mainly for wiring tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.reg.RequestsServed.Inc()
		c.Next()
	}
}

func (s *Server) Start() error {
	logger.L().Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	logger.L().Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
