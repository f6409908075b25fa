package canon

import "strings"

// Canonical order statuses. Legacy backend and mock-data aliases fold onto
// these; anything unrecognized lower-cases and passes through so a newer
// backend vocabulary survives a round trip.
const (
	StatusNew       = "new"
	StatusAccepted  = "accepted"
	StatusInPrep    = "in_prep"
	StatusStaged    = "staged"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

// Canonical item states. Open vocabulary as well; these are the ones the
// kitchen queue reasons about.
const (
	ItemQueued  = "queued"
	ItemFired   = "fired"
	ItemCooking = "cooking"
	ItemStaged  = "staged"
	ItemReady   = "ready"
)

var statusAliases = map[string]string{
	"pending":     StatusNew,
	"in_queue":    StatusAccepted,
	"in_progress": StatusInPrep,
	"ready":       StatusStaged,
}

// Status maps a raw order status onto the canonical vocabulary. Empty input
// means a freshly received order.
func Status(raw string) string {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return StatusNew
	}
	if mapped, ok := statusAliases[token]; ok {
		return mapped
	}
	return token
}

// ItemState lower-cases a raw item state, defaulting to queued. Item states
// are not run through the order alias table: "ready" is a real item state,
// not a legacy spelling of "staged".
func ItemState(raw string) string {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return ItemQueued
	}
	return token
}

// Terminal reports whether an order status ends the kitchen lifecycle.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// Active reports whether an order status belongs on the live kitchen queue.
func Active(status string) bool {
	switch status {
	case StatusNew, StatusAccepted, StatusInPrep, StatusStaged:
		return true
	}
	return false
}

// Display title-cases a snake/kebab-case token for UI labels,
// e.g. "in_prep" -> "In Prep".
func Display(token string) string {
	parts := strings.FieldsFunc(strings.ToLower(strings.TrimSpace(token)), func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

var nextStatus = map[string]string{
	StatusNew:      StatusAccepted,
	StatusAccepted: StatusInPrep,
	StatusInPrep:   StatusStaged,
	StatusStaged:   StatusCompleted,
}

// NextStatus is the default phase an auto-advance promotes an order into.
// Terminal and unknown statuses have no next phase.
func NextStatus(status string) string {
	if next, ok := nextStatus[status]; ok {
		return next
	}
	return ""
}
