package onboarding

import (
	"context"

	"fulfillment-be/internal/logger"
	"fulfillment-be/internal/metrics"

	"go.uber.org/zap"
)

// StatusFetcher reports a seller's current onboarding state. Implemented by
// the seller repository; in the original system this was a remote API call,
// so fetch failures are an expected condition, not a bug.
type StatusFetcher interface {
	OnboardingStatus(ctx context.Context, sellerID uint) (*Status, error)
}

type Service interface {
	CheckAccess(currentStep string, status Status) Decision
	EvaluateAccess(ctx context.Context, sellerID uint, currentStep string) (Decision, error)
}

type service struct {
	fetcher  StatusFetcher
	failMode FailMode
	metrics  *metrics.Registry
}

func NewService(fetcher StatusFetcher, failMode FailMode, reg *metrics.Registry) Service {
	if failMode != FailClosed {
		failMode = FailOpen
	}
	return &service{fetcher: fetcher, failMode: failMode, metrics: reg}
}

// CheckAccess is the pure gate decision: a seller who still needs onboarding
// is redirected to the step the backend says they are on, unless that is
// already the step they are viewing.
func (s *service) CheckAccess(currentStep string, status Status) Decision {
	if status.NeedsOnboarding && status.CurrentStep != currentStep {
		return Redirect(status.CurrentStep)
	}
	return Allow()
}

// EvaluateAccess fetches the onboarding status and applies CheckAccess. When
// the fetch fails the configured FailMode decides: fail-open grants access,
// fail-closed surfaces the error.
func (s *service) EvaluateAccess(ctx context.Context, sellerID uint, currentStep string) (Decision, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "EvaluateAccess"),
		zap.String("current_step", currentStep),
	)

	status, err := s.fetcher.OnboardingStatus(ctx, sellerID)
	if err != nil {
		if s.failMode == FailOpen {
			log.Warn("onboarding status fetch failed, allowing access", zap.Error(err))
			s.metrics.OnboardingFailsOpen.Inc()
			return Allow(), nil
		}
		log.Error("onboarding status fetch failed", zap.Error(err))
		return Decision{}, err
	}

	decision := s.CheckAccess(currentStep, *status)
	if !decision.Allowed {
		log.Info("redirecting to onboarding step", zap.String("redirect_to", decision.RedirectTo))
		s.metrics.OnboardingRedirects.Inc()
	}

	return decision, nil
}
