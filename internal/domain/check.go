package domain

// CheckName identifies one scripted probe of a user flow.
type CheckName string

// The five checks, in execution order.
const (
	CheckAvailability CheckName = "availability"
	CheckSearch       CheckName = "search"
	CheckCart         CheckName = "cart"
	CheckCheckout     CheckName = "checkout"
	CheckHealth       CheckName = "health"
)

// String implements fmt.Stringer.
func (c CheckName) String() string {
	return string(c)
}

// Title returns the human label shown in status lines and summaries.
func (c CheckName) Title() string {
	switch c {
	case CheckAvailability:
		return "Availability"
	case CheckSearch:
		return "Search"
	case CheckCart:
		return "Cart"
	case CheckCheckout:
		return "Checkout"
	case CheckHealth:
		return "Health Check"
	default:
		return string(c)
	}
}

// CheckOrder returns the fixed order in which a cycle executes its checks.
// A fresh slice is returned on every call.
func CheckOrder() []CheckName {
	return []CheckName{
		CheckAvailability,
		CheckSearch,
		CheckCart,
		CheckCheckout,
		CheckHealth,
	}
}
