package seller

import (
	"context"
	"strings"

	"fulfillment-be/internal/auth"
	"fulfillment-be/internal/logger"
	"fulfillment-be/internal/onboarding"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, email, password, storeName string) (string, Seller, error)
	Login(ctx context.Context, email, password string) (string, Seller, error)
	OnboardingStatus(ctx context.Context, sellerID uint) (*onboarding.Status, error)
	UpdateOnboarding(ctx context.Context, sellerID uint, needsOnboarding bool, step string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, email, password, storeName string) (string, Seller, error) {
	log := logger.FromCtx(ctx)

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", Seller{}, err
	}

	sel, err := s.repo.Create(ctx, email, hashed, storeName)
	if err != nil {
		if strings.Contains(err.Error(), "sellers_email_key") {
			return "", Seller{}, ErrEmailExists
		}
		return "", Seller{}, err
	}

	token, err := auth.GenerateJWT(sel.ID, string(sel.Role), email)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("seller_id", sel.ID), zap.Error(err))
		return "", Seller{}, err
	}

	log.Info("seller registered",
		zap.Uint("seller_id", sel.ID),
		zap.String("email", email),
	)

	return token, sel, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, Seller, error) {
	log := logger.FromCtx(ctx)

	sel, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		log.Warn("login failed: email not found", zap.String("email", email))
		return "", Seller{}, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(password, sel.Password) {
		log.Warn("login failed: password mismatch", zap.Uint("seller_id", sel.ID))
		return "", Seller{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(sel.ID, string(sel.Role), email)
	return token, sel, err
}

func (s *service) OnboardingStatus(ctx context.Context, sellerID uint) (*onboarding.Status, error) {
	return s.repo.OnboardingStatus(ctx, sellerID)
}

func (s *service) UpdateOnboarding(ctx context.Context, sellerID uint, needsOnboarding bool, step string) error {
	return s.repo.UpdateOnboarding(ctx, sellerID, needsOnboarding, step)
}
