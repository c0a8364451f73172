package seller

import (
	"context"
	"database/sql"
	"time"

	"fulfillment-be/internal/logger"
	"fulfillment-be/internal/onboarding"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, email, password, storeName string) (Seller, error)
	FindByEmail(ctx context.Context, email string) (Seller, error)
	FindByID(ctx context.Context, sellerID uint) (Seller, error)
	UpdateOnboarding(ctx context.Context, sellerID uint, needsOnboarding bool, step string) error
	OnboardingStatus(ctx context.Context, sellerID uint) (*onboarding.Status, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, email, password, storeName string) (Seller, error) {
	log := logger.FromCtx(ctx)

	var s Seller
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO sellers (email, password, store_name, role, needs_onboarding, onboarding_step, created_at)
		VALUES ($1, $2, $3, $4, TRUE, 'store-basic', $5)
		RETURNING id, email, password, store_name, role, needs_onboarding, onboarding_step
	`, email, password, storeName, RoleSeller, time.Now()).
		Scan(&s.ID, &s.Email, &s.Password, &s.StoreName, &s.Role, &s.NeedsOnboarding, &s.OnboardingStep)

	if err != nil {
		log.Error("db: failed to insert seller",
			zap.String("email", email),
			zap.Error(err),
		)
	}

	return s, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (Seller, error) {
	var s Seller
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password, store_name, role, needs_onboarding, onboarding_step
		FROM sellers
		WHERE email = $1
	`, email).
		Scan(&s.ID, &s.Email, &s.Password, &s.StoreName, &s.Role, &s.NeedsOnboarding, &s.OnboardingStep)

	if err == sql.ErrNoRows {
		return s, ErrSellerNotFound
	}
	return s, err
}

func (r *repository) FindByID(ctx context.Context, sellerID uint) (Seller, error) {
	var s Seller
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password, store_name, role, needs_onboarding, onboarding_step
		FROM sellers
		WHERE id = $1
	`, sellerID).
		Scan(&s.ID, &s.Email, &s.Password, &s.StoreName, &s.Role, &s.NeedsOnboarding, &s.OnboardingStep)

	if err == sql.ErrNoRows {
		return s, ErrSellerNotFound
	}
	return s, err
}

func (r *repository) UpdateOnboarding(ctx context.Context, sellerID uint, needsOnboarding bool, step string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sellers
		SET needs_onboarding = $1, onboarding_step = $2, updated_at = $3
		WHERE id = $4
	`, needsOnboarding, step, time.Now(), sellerID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSellerNotFound
	}

	return nil
}

func (r *repository) OnboardingStatus(ctx context.Context, sellerID uint) (*onboarding.Status, error) {
	var st onboarding.Status
	err := r.db.QueryRowContext(ctx, `
		SELECT needs_onboarding, onboarding_step
		FROM sellers
		WHERE id = $1
	`, sellerID).Scan(&st.NeedsOnboarding, &st.CurrentStep)

	if err == sql.ErrNoRows {
		return nil, ErrSellerNotFound
	}
	if err != nil {
		return nil, err
	}

	return &st, nil
}
