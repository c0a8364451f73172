package onboarding

// Status is the remotely-reported onboarding state of a seller.
type Status struct {
	NeedsOnboarding bool
	CurrentStep     string
}

// Decision is the outcome of an access check for a protected screen.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Redirect(step string) Decision {
	return Decision{RedirectTo: step}
}

// FailMode governs what the gate does when the status fetch itself fails.
type FailMode string

const (
	// FailOpen allows access on fetch failure, matching the dashboard's
	// historical behavior.
	FailOpen FailMode = "allow"
	// FailClosed propagates the fetch error to the caller.
	FailClosed FailMode = "deny"
)
