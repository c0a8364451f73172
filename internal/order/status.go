package order

// allowedTransitions is the full order lifecycle. Cancellation is only
// possible before the order ships.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusShipped, StatusCancelled},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to OrderStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is defined from s.
func IsTerminal(s OrderStatus) bool {
	return len(allowedTransitions[s]) == 0
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidMethod reports whether m is a known delivery method.
func ValidMethod(m DeliveryMethod) bool {
	return m == MethodSeller || m == MethodPlatform
}
