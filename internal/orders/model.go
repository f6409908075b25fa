package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// AutoAdvance is the scheduled, non-interactive promotion of an order into
// its next kitchen phase. The core only computes and carries this metadata;
// an external scheduler polls AutoAdvanceAt and performs the actual advance.
type AutoAdvance struct {
	PhaseSequence   int        `json:"phaseSequence"`
	PhaseStartedAt  *time.Time `json:"phaseStartedAt"`
	AutoAdvanceAt   *time.Time `json:"autoAdvanceAt"`
	TargetStatus    string     `json:"targetStatus"`
	Paused          bool       `json:"paused"`
	PauseReason     string     `json:"pauseReason"`
	DurationSeconds float64    `json:"durationSeconds"`
}

// Order is a customer purchase moving through kitchen fulfillment, in
// canonical shape. Every Order handed to callers has passed through
// NormalizeOrder: timestamps are absolute instants or nil, numeric fields
// are finite, collections are never nil.
type Order struct {
	ID             string `json:"id"`
	OrderNumber    string `json:"orderNumber"`
	OrderReference string `json:"orderReference"`

	Status          string `json:"status"`
	CanonicalStatus string `json:"canonicalStatus"`
	RawStatus       string `json:"rawStatus"`
	StatusDisplay   string `json:"statusDisplay"`

	CustomerName string `json:"customerName"`
	Channel      string `json:"channel"`
	Priority     string `json:"priority"`

	CreatedAt         *time.Time `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt"`
	TimeReceived      *time.Time `json:"timeReceived"`
	TimeCompleted     *time.Time `json:"timeCompleted"`
	PromisedTime      *time.Time `json:"promisedTime"`
	HandoffVerifiedAt *time.Time `json:"handoffVerifiedAt"`

	EtaSeconds        float64 `json:"etaSeconds"`
	QuoteMinutes      float64 `json:"quoteMinutes"`
	PartialReadyItems int     `json:"partialReadyItems"`
	TotalItems        int     `json:"totalItems"`
	PendingItems      int     `json:"pendingItems"`
	LateBySeconds     float64 `json:"lateBySeconds"`
	IsThrottled       bool    `json:"isThrottled"`
	ThrottleReason    string  `json:"throttleReason"`
	ShelfSlot         string  `json:"shelfSlot"`
	HandoffCode       string  `json:"handoffCode"`

	Subtotal    decimal.Decimal `json:"subtotal"`
	TotalAmount decimal.Decimal `json:"totalAmount"`

	AutoAdvance AutoAdvance `json:"autoAdvance"`

	// Flattened mirrors of the auto-advance sub-object, kept in sync for
	// callers that read them straight off the order.
	PhaseSequence  int        `json:"phaseSequence"`
	PhaseStartedAt *time.Time `json:"phaseStartedAt"`
	AutoAdvanceAt  *time.Time `json:"autoAdvanceAt"`
	Paused         bool       `json:"paused"`

	Items []Item         `json:"items"`
	Meta  map[string]any `json:"meta"`
}

// Item is one line within an order, independently tracked through kitchen
// stations. In station/queue views an item additionally carries its parent
// order's id, number and customer for display.
type Item struct {
	ID      string `json:"id"`
	OrderID string `json:"orderId,omitempty"`

	Name           string `json:"name"`
	State          string `json:"state"`
	CanonicalState string `json:"canonicalState"`
	StateDisplay   string `json:"stateDisplay"`
	OrderStatus    string `json:"orderStatus,omitempty"`

	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	FiredAt   *time.Time `json:"firedAt"`
	ReadyAt   *time.Time `json:"readyAt"`
	HoldUntil *time.Time `json:"holdUntil"`

	SecondsInState float64 `json:"secondsInState"`
	AgeSeconds     float64 `json:"ageSeconds"`

	Quantity            int             `json:"quantity"`
	CookSecondsEstimate float64         `json:"cookSecondsEstimate"`
	CookSecondsActual   float64         `json:"cookSecondsActual"`
	UnitPrice           decimal.Decimal `json:"unitPrice"`
	LineTotal           decimal.Decimal `json:"lineTotal"`
	Modifiers           []string        `json:"modifiers"`
	Allergens           []string        `json:"allergens"`
	Notes               string          `json:"notes"`
	Priority            string          `json:"priority"`
	Channel             string          `json:"channel"`

	OrderNumber  string `json:"orderNumber,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
}

// Station is a kitchen production point with its own queue and capacity.
// Expo stations aggregate finished items rather than produce.
type Station struct {
	Code                   string   `json:"code"`
	Name                   string   `json:"name"`
	Tags                   []string `json:"tags"`
	Capacity               int      `json:"capacity"`
	AutoBatchWindowSeconds float64  `json:"autoBatchWindowSeconds"`
	MakeToStock            []string `json:"makeToStock"`
	IsExpo                 bool     `json:"isExpo"`

	QueueCount              int     `json:"queueCount"`
	ActiveQuantity          int     `json:"activeQuantity"`
	Utilization             float64 `json:"utilization"`
	OverCapacity            bool    `json:"overCapacity"`
	AverageSecondsInState   float64 `json:"averageSecondsInState"`
	NextAvailabilitySeconds float64 `json:"nextAvailabilitySeconds"`
	LateCount               int     `json:"lateCount"`

	Items []Item `json:"items"`
}

// QueueSummary carries the headline counters of a queue snapshot.
type QueueSummary struct {
	TotalOrders            int            `json:"totalOrders"`
	ByStatus               map[string]int `json:"byStatus"`
	ByChannel              map[string]int `json:"byChannel"`
	ByPriority             map[string]int `json:"byPriority"`
	ReadyForHandoff        int            `json:"readyForHandoff"`
	LateOrders             int            `json:"lateOrders"`
	AveragePrepSeconds     float64        `json:"averagePrepSeconds"`
	AverageLatenessSeconds float64        `json:"averageLatenessSeconds"`
	OnTimePercent          float64        `json:"onTimePercent"`
}

// QueueCapacity is the capacity-planning view. Its station list may differ
// from the live queue's: a station can report different metrics in the
// planning context, so the two lists stay independently overridable.
type QueueCapacity struct {
	Stations                []Station `json:"stations"`
	ShouldThrottle          bool      `json:"shouldThrottle"`
	PeakUtilization         float64   `json:"peakUtilization"`
	RecommendedQuoteMinutes int       `json:"recommendedQuoteMinutes"`
	ThrottleReasons         []string  `json:"throttleReasons"`
}

// BatchSuggestion recommends firing a group of orders together at one
// station inside its batching window.
type BatchSuggestion struct {
	StationCode       string     `json:"stationCode"`
	StationName       string     `json:"stationName"`
	TotalQuantity     int        `json:"totalQuantity"`
	WindowSeconds     float64    `json:"windowSeconds"`
	RecommendedFireAt *time.Time `json:"recommendedFireAt"`
	Orders            []any      `json:"orders"`
}

// HandoffPending is an order that is ready but not yet collected.
type HandoffPending struct {
	OrderID       string  `json:"orderId"`
	OrderNumber   string  `json:"orderNumber"`
	LateBySeconds float64 `json:"lateBySeconds"`
}

type QueueHandoff struct {
	Pending    []HandoffPending `json:"pending"`
	LateOrders []any            `json:"lateOrders"`
}

// QueueSnapshot is the full point-in-time view of the kitchen: active
// orders, stations, derived capacity and batching signals. It is recomputed
// on every fetch, never persisted, and every nested object has already
// passed through the normalizers.
type QueueSnapshot struct {
	Orders      []Order           `json:"orders"`
	Stations    []Station         `json:"stations"`
	Summary     QueueSummary      `json:"summary"`
	Capacity    QueueCapacity     `json:"capacity"`
	Batches     []BatchSuggestion `json:"batches"`
	Handoff     QueueHandoff      `json:"handoff"`
	GeneratedAt time.Time         `json:"generatedAt"`
	EventCursor *time.Time        `json:"eventCursor"`
}

// Pagination mirrors the list envelope of the orders API.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// GeneratedNumber is the result of the order-number operation.
type GeneratedNumber struct {
	OrderNumber    string `json:"orderNumber"`
	OrderReference string `json:"orderReference"`
}
