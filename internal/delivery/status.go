package delivery

// allowedTransitions is the delivery lifecycle. failed and cancelled are
// absorbing; delivered, failed and cancelled are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:        {StatusAwaitingPickup, StatusCancelled},
	StatusAwaitingPickup: {StatusPickedUp, StatusFailed, StatusCancelled},
	StatusPickedUp:       {StatusInTransit, StatusFailed, StatusCancelled},
	StatusInTransit:      {StatusOutForDelivery, StatusFailed, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusFailed},
}

// forwardChain is the happy path in order; used to rank progress when the
// orchestrator synchronizes a delivery with its order.
var forwardChain = []Status{
	StatusPending,
	StatusAwaitingPickup,
	StatusPickedUp,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to Status) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is defined from s.
func IsTerminal(s Status) bool {
	return len(allowedTransitions[s]) == 0
}

// ValidStatus reports whether s is a known delivery status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAwaitingPickup, StatusPickedUp, StatusInTransit,
		StatusOutForDelivery, StatusDelivered, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Rank returns the position of s on the forward chain, or -1 for the
// absorbing failure states.
func Rank(s Status) int {
	for i, step := range forwardChain {
		if step == s {
			return i
		}
	}
	return -1
}

// NextForward returns the next happy-path status after s, if any.
func NextForward(s Status) (Status, bool) {
	r := Rank(s)
	if r < 0 || r+1 >= len(forwardChain) {
		return "", false
	}
	return forwardChain[r+1], true
}
