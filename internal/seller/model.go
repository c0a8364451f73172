package seller

import "time"

type Role string

const (
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

type Seller struct {
	ID              uint
	Email           string
	Password        string
	StoreName       string
	Role            Role
	NeedsOnboarding bool
	OnboardingStep  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
