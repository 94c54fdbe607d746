package enums

import "fmt"

// PurchaseOrderStatus tracks a purchase order through fulfillment.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending    PurchaseOrderStatus = "pending"
	PurchaseOrderStatusConfirmed  PurchaseOrderStatus = "confirmed"
	PurchaseOrderStatusProcessing PurchaseOrderStatus = "processing"
	PurchaseOrderStatusShipped    PurchaseOrderStatus = "shipped"
	PurchaseOrderStatusDelivered  PurchaseOrderStatus = "delivered"
	PurchaseOrderStatusCancelled  PurchaseOrderStatus = "cancelled"
)

var validPurchaseOrderStatuses = []PurchaseOrderStatus{
	PurchaseOrderStatusPending,
	PurchaseOrderStatusConfirmed,
	PurchaseOrderStatusProcessing,
	PurchaseOrderStatusShipped,
	PurchaseOrderStatusDelivered,
	PurchaseOrderStatusCancelled,
}

// String implements fmt.Stringer.
func (p PurchaseOrderStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PurchaseOrderStatus.
func (p PurchaseOrderStatus) IsValid() bool {
	for _, candidate := range validPurchaseOrderStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (p PurchaseOrderStatus) IsTerminal() bool {
	switch p {
	case PurchaseOrderStatusDelivered, PurchaseOrderStatusCancelled:
		return true
	default:
		return false
	}
}

// ParsePurchaseOrderStatus converts raw input into a PurchaseOrderStatus.
func ParsePurchaseOrderStatus(value string) (PurchaseOrderStatus, error) {
	for _, candidate := range validPurchaseOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase order status %q", value)
}

// purchaseOrderTransitions is the fulfillment graph: forward one step at a
// time, with cancellation allowed from any non-terminal state.
var purchaseOrderTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	PurchaseOrderStatusPending:    {PurchaseOrderStatusConfirmed, PurchaseOrderStatusCancelled},
	PurchaseOrderStatusConfirmed:  {PurchaseOrderStatusProcessing, PurchaseOrderStatusCancelled},
	PurchaseOrderStatusProcessing: {PurchaseOrderStatusShipped, PurchaseOrderStatusCancelled},
	PurchaseOrderStatusShipped:    {PurchaseOrderStatusDelivered, PurchaseOrderStatusCancelled},
}

// CanTransitionTo reports whether the requested edge exists in the
// fulfillment graph.
func (p PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	for _, candidate := range purchaseOrderTransitions[p] {
		if candidate == target {
			return true
		}
	}
	return false
}
