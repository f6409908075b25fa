package orders

import (
	"context"
	"errors"
)

// ErrOrderNotFound is returned when an id-keyed lookup or mutation has no
// matching record in the active source. Wrapped with the offending id.
var ErrOrderNotFound = errors.New("order not found")

// ListParams filters and pages the order list.
type ListParams struct {
	Status  string
	Channel string
	Search  string
	Page    int
	Limit   int
}

// QueueParams scopes the queue snapshot.
type QueueParams struct {
	Station string
	Channel string
}

// NumberParams feed the order-number generator; the first non-empty of
// Prefix, Channel, Type decides the prefix letter.
type NumberParams struct {
	Prefix  string
	Channel string
	Type    string
}

// AutoFlowUpdate mutates an order's auto-advance sub-object. Action "pause"
// freezes the timer and records Reason; any other action resumes. Nil
// pointer fields keep their previous values.
type AutoFlowUpdate struct {
	Action          string   `json:"action"`
	Reason          string   `json:"reason"`
	TargetStatus    string   `json:"targetStatus"`
	PhaseSequence   *int     `json:"phaseSequence"`
	DurationSeconds *float64 `json:"durationSeconds"`
}

// ItemStateUpdate mutates a single order line's kitchen state.
type ItemStateUpdate struct {
	State string `json:"state"`
	Notes string `json:"notes"`
}

// DataSource is the capability behind the façade: the live REST backend or
// the in-memory mock fixture set. Both return raw (pre-normalization)
// payloads so the service applies the normalizers uniformly; live vs mock
// is a single constructor decision, never a per-method branch.
type DataSource interface {
	ListOrders(ctx context.Context, params ListParams) ([]Raw, Pagination, error)
	GetOrder(ctx context.Context, id string) (Raw, error)
	GenerateOrderNumber(ctx context.Context, params NumberParams) (Raw, error)
	CreateOrder(ctx context.Context, data Raw) (Raw, error)
	UpdateOrderStatus(ctx context.Context, id string, status string, extra Raw) (Raw, error)
	UpdateOrderAutoFlow(ctx context.Context, id string, update AutoFlowUpdate) (Raw, error)
	UpdateOrderItemState(ctx context.Context, orderID, itemID string, update ItemStateUpdate) (Raw, Raw, error)
	OrderQueue(ctx context.Context, params QueueParams) (Raw, error)
	OrderHistory(ctx context.Context, params ListParams) ([]Raw, error)
	ProcessPayment(ctx context.Context, orderID string, data Raw) (Raw, error)
}
