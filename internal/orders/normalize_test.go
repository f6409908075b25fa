package orders

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeOrderScenario(t *testing.T) {
	raw := Raw{
		"id":        "o1",
		"status":    "pending",
		"createdAt": "2024-01-01T00:00:00Z",
		"items":     []any{Raw{"quantity": "2"}},
	}

	order := NormalizeOrder(raw)

	if order.Status != "new" {
		t.Fatalf("expected status new, got %s", order.Status)
	}
	if order.RawStatus != "pending" {
		t.Fatalf("expected rawStatus pending, got %s", order.RawStatus)
	}
	if order.StatusDisplay != "New" {
		t.Fatalf("expected display New, got %s", order.StatusDisplay)
	}
	expected := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if order.CreatedAt == nil || !order.CreatedAt.Equal(expected) {
		t.Fatalf("expected createdAt %v, got %v", expected, order.CreatedAt)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("expected one item with quantity 2, got %+v", order.Items)
	}
	if order.Items[0].State != "queued" {
		t.Fatalf("expected default item state queued, got %s", order.Items[0].State)
	}
}

func TestNormalizeOrderTotality(t *testing.T) {
	inputs := []any{nil, Raw{}, "not an order", 42, Raw{"items": "nope", "totalItems": "NaN", "createdAt": "garbage"}}

	for _, input := range inputs {
		order := NormalizeOrder(input)
		if order.Items == nil {
			t.Fatalf("items must never be nil for input %v", input)
		}
		if order.Meta == nil {
			t.Fatalf("meta must never be nil for input %v", input)
		}
		if order.Status != "new" {
			t.Fatalf("expected default status new for input %v, got %s", input, order.Status)
		}
		if order.CreatedAt != nil && order.CreatedAt.IsZero() {
			t.Fatalf("createdAt must be a real instant or nil for input %v", input)
		}
		if order.AutoAdvance.DurationSeconds != 60 {
			t.Fatalf("expected default duration 60, got %v", order.AutoAdvance.DurationSeconds)
		}
	}
}

func TestNormalizeOrderIdempotent(t *testing.T) {
	raws := []Raw{
		{
			"id":         "o2",
			"status":     "IN_PROGRESS",
			"channel":    "Delivery",
			"created_at": "2024-03-04T08:30:00Z",
			"subtotal":   "120.5",
			"total":      "135.5",
			"items": []any{
				Raw{"id": "i1", "quantity": 3, "state": "cooking", "unit_price": "40.17"},
			},
			"auto_advance": Raw{"phase_sequence": 4, "duration_seconds": 90, "paused": true, "pause_reason": "rush"},
		},
		{},
		{"pendingItems": 5, "totalItems": 2},
	}

	for _, raw := range raws {
		once := NormalizeOrder(raw)

		// Round-trip through JSON to simulate a normalized order coming
		// back from the wire, then normalize again.
		encoded, err := json.Marshal(once)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var decoded Raw
		if err := json.Unmarshal(encoded, &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		twice := NormalizeOrder(decoded)

		onceJSON, _ := json.Marshal(once)
		twiceJSON, _ := json.Marshal(twice)
		if string(onceJSON) != string(twiceJSON) {
			t.Fatalf("normalization drifted:\nfirst:  %s\nsecond: %s", onceJSON, twiceJSON)
		}
	}
}

func TestPendingItemsInvariant(t *testing.T) {
	cases := []struct {
		name     string
		raw      Raw
		expected int
	}{
		{name: "derived from totals", raw: Raw{"totalItems": 5, "partialReadyItems": 2}, expected: 3},
		{name: "clamped at zero", raw: Raw{"totalItems": 1, "partialReadyItems": 4}, expected: 0},
		{name: "explicit value wins", raw: Raw{"totalItems": 5, "partialReadyItems": 2, "pendingItems": 9}, expected: 9},
		{name: "total falls back to item count", raw: Raw{"items": []any{Raw{}, Raw{}}}, expected: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := NormalizeOrder(tc.raw)
			if order.PendingItems != tc.expected {
				t.Fatalf("expected pendingItems %d, got %d", tc.expected, order.PendingItems)
			}
		})
	}
}

func TestAutoAdvanceAliasAssembly(t *testing.T) {
	at := "2024-02-02T10:00:00Z"

	// Flattened snake_case keys on the order itself.
	flattened := NormalizeOrder(Raw{
		"phase_sequence":   3,
		"phase_started_at": at,
		"auto_advance_at":  at,
		"target_status":    "in_progress",
		"paused":           true,
		"pause_reason":     "out of stock",
	})
	if flattened.AutoAdvance.PhaseSequence != 3 {
		t.Fatalf("expected phaseSequence 3, got %d", flattened.AutoAdvance.PhaseSequence)
	}
	if flattened.AutoAdvance.TargetStatus != "in_prep" {
		t.Fatalf("expected canonical target in_prep, got %s", flattened.AutoAdvance.TargetStatus)
	}
	if !flattened.AutoAdvance.Paused || flattened.AutoAdvance.PauseReason != "out of stock" {
		t.Fatalf("pause state lost: %+v", flattened.AutoAdvance)
	}

	// Nested camelCase object wins over flattened keys.
	nested := NormalizeOrder(Raw{
		"phaseSequence": 1,
		"autoAdvance":   Raw{"phaseSequence": 8, "durationSeconds": 45},
	})
	if nested.AutoAdvance.PhaseSequence != 8 {
		t.Fatalf("nested value should win, got %d", nested.AutoAdvance.PhaseSequence)
	}
	if nested.AutoAdvance.DurationSeconds != 45 {
		t.Fatalf("expected duration 45, got %v", nested.AutoAdvance.DurationSeconds)
	}

	// Flattened mirrors stay in sync with the sub-object.
	if nested.PhaseSequence != nested.AutoAdvance.PhaseSequence {
		t.Fatalf("flattened phaseSequence out of sync")
	}
	if flattened.Paused != flattened.AutoAdvance.Paused {
		t.Fatalf("flattened paused out of sync")
	}
}

func TestNormalizeItemAnnotations(t *testing.T) {
	item := NormalizeItem(Raw{
		"id":            "i9",
		"order_id":      "o9",
		"order_number":  "W-240101-ABCDEF",
		"customer_name": "Alma",
		"order_status":  "ready",
		"state":         "FIRED",
		"quantity":      -2,
		"modifiers":     []any{"no onions"},
	})

	if item.OrderID != "o9" || item.OrderNumber != "W-240101-ABCDEF" || item.CustomerName != "Alma" {
		t.Fatalf("order annotations lost: %+v", item)
	}
	if item.OrderStatus != "staged" {
		t.Fatalf("order status should canonicalize, got %s", item.OrderStatus)
	}
	if item.State != "fired" || item.StateDisplay != "Fired" {
		t.Fatalf("unexpected state: %s / %s", item.State, item.StateDisplay)
	}
	if item.Quantity != 0 {
		t.Fatalf("negative quantity should clamp to 0, got %d", item.Quantity)
	}
	if len(item.Modifiers) != 1 || item.Allergens == nil {
		t.Fatalf("collections mishandled: %+v", item)
	}
}
