package orders

import (
	"strings"
	"time"

	"github.com/jsephandrade/canteen-order-service/internal/canon"
)

// defaultAutoAdvanceSeconds is the phase duration used when neither the
// source nor the caller supplies one.
const defaultAutoAdvanceSeconds = 60

// NormalizeOrder converts a raw order record from any source into the
// canonical shape. It is total (malformed input falls back to the field
// defaults, never panics) and idempotent (a normalized order re-normalizes
// to itself). Already-typed orders pass through unchanged.
func NormalizeOrder(v any) Order {
	switch src := v.(type) {
	case Order:
		return src
	case *Order:
		if src != nil {
			return *src
		}
	case map[string]any:
		return normalizeOrderRaw(src)
	}
	return normalizeOrderRaw(nil)
}

func normalizeOrderRaw(raw Raw) Order {
	if raw == nil {
		raw = Raw{}
	}

	rawStatus := rawString(raw, "rawStatus", "raw_status", "status")
	status := canon.Status(rawString(raw, "canonicalStatus", "canonical_status", "status"))

	items := []Item{}
	for _, entry := range rawSlice(raw, "items", "orderItems", "order_items") {
		items = append(items, NormalizeItem(entry))
	}

	totalItems := rawInt(raw, len(items), "totalItems", "total_items")
	partialReady := rawInt(raw, 0, "partialReadyItems", "partial_ready_items")
	pending := rawInt(raw, -1, "pendingItems", "pending_items")
	if pending < 0 {
		pending = totalItems - partialReady
		if pending < 0 {
			pending = 0
		}
	}

	auto := normalizeAutoAdvance(raw)

	meta := rawMap(raw, "meta", "metadata")
	if meta == nil {
		meta = Raw{}
	}

	return Order{
		ID:             rawString(raw, "id", "orderId", "order_id"),
		OrderNumber:    rawString(raw, "orderNumber", "order_number"),
		OrderReference: rawString(raw, "orderReference", "order_reference", "reference"),

		Status:          status,
		CanonicalStatus: status,
		RawStatus:       rawStatus,
		StatusDisplay:   canon.Display(status),

		CustomerName: rawString(raw, "customerName", "customer_name", "customer"),
		Channel:      strings.ToLower(rawString(raw, "channel", "orderType", "order_type", "type")),
		Priority:     strings.ToLower(rawString(raw, "priority")),

		CreatedAt:         rawTime(raw, "createdAt", "created_at", "placedAt", "placed_at"),
		UpdatedAt:         rawTime(raw, "updatedAt", "updated_at"),
		TimeReceived:      rawTime(raw, "timeReceived", "time_received"),
		TimeCompleted:     rawTime(raw, "timeCompleted", "time_completed", "completedAt", "completed_at"),
		PromisedTime:      rawTime(raw, "promisedTime", "promised_time"),
		HandoffVerifiedAt: rawTime(raw, "handoffVerifiedAt", "handoff_verified_at"),

		EtaSeconds:        rawNumber(raw, 0, "etaSeconds", "eta_seconds"),
		QuoteMinutes:      rawNumber(raw, 0, "quoteMinutes", "quote_minutes"),
		PartialReadyItems: partialReady,
		TotalItems:        totalItems,
		PendingItems:      pending,
		LateBySeconds:     rawNumber(raw, 0, "lateBySeconds", "late_by_seconds"),
		IsThrottled:       rawBool(raw, "isThrottled", "is_throttled"),
		ThrottleReason:    rawString(raw, "throttleReason", "throttle_reason"),
		ShelfSlot:         rawString(raw, "shelfSlot", "shelf_slot"),
		HandoffCode:       rawString(raw, "handoffCode", "handoff_code"),

		Subtotal:    rawDecimal(raw, "subtotal", "sub_total"),
		TotalAmount: rawDecimal(raw, "totalAmount", "total_amount", "total"),

		AutoAdvance:    auto,
		PhaseSequence:  auto.PhaseSequence,
		PhaseStartedAt: auto.PhaseStartedAt,
		AutoAdvanceAt:  auto.AutoAdvanceAt,
		Paused:         auto.Paused,

		Items: items,
		Meta:  meta,
	}
}

// normalizeAutoAdvance assembles the auto-advance sub-object from either a
// nested autoAdvance/auto_advance map or flattened keys on the order itself.
// Nested values win over flattened ones so a normalized order round-trips
// without drift.
func normalizeAutoAdvance(raw Raw) AutoAdvance {
	nested := rawMap(raw, "autoAdvance", "auto_advance")
	look := func(keys ...string) (any, bool) {
		if nested != nil {
			if v, ok := pick(nested, keys...); ok {
				return v, true
			}
		}
		return pick(raw, keys...)
	}

	number := func(fallback float64, keys ...string) float64 {
		v, ok := look(keys...)
		if !ok {
			return fallback
		}
		n, ok := toNumber(v)
		if !ok {
			return fallback
		}
		return n
	}
	str := func(keys ...string) string {
		v, ok := look(keys...)
		if !ok {
			return ""
		}
		return toString(v)
	}
	instant := func(keys ...string) *time.Time {
		v, ok := look(keys...)
		if !ok {
			return nil
		}
		return toInstant(v)
	}
	boolean := func(keys ...string) bool {
		v, ok := look(keys...)
		if !ok {
			return false
		}
		return toBool(v)
	}

	duration := number(defaultAutoAdvanceSeconds, "durationSeconds", "duration_seconds")
	if duration <= 0 {
		duration = defaultAutoAdvanceSeconds
	}

	target := str("targetStatus", "target_status")
	if target != "" {
		target = canon.Status(target)
	}

	return AutoAdvance{
		PhaseSequence:   int(number(0, "phaseSequence", "phase_sequence")),
		PhaseStartedAt:  instant("phaseStartedAt", "phase_started_at"),
		AutoAdvanceAt:   instant("autoAdvanceAt", "auto_advance_at"),
		TargetStatus:    target,
		Paused:          boolean("paused", "isPaused", "is_paused"),
		PauseReason:     str("pauseReason", "pause_reason"),
		DurationSeconds: duration,
	}
}

// NormalizeItem converts a raw order line into canonical shape with the
// same totality and idempotence guarantees as NormalizeOrder. Items seen in
// station or queue views carry their parent order's id, number and customer
// under alternate-cased keys; those annotations are preserved.
func NormalizeItem(v any) Item {
	switch src := v.(type) {
	case Item:
		return src
	case *Item:
		if src != nil {
			return *src
		}
	case map[string]any:
		return normalizeItemRaw(src)
	}
	return normalizeItemRaw(nil)
}

func normalizeItemRaw(raw Raw) Item {
	if raw == nil {
		raw = Raw{}
	}

	state := canon.ItemState(rawString(raw, "canonicalState", "canonical_state", "state", "status"))

	quantity := rawInt(raw, 0, "quantity", "qty")
	if quantity < 0 {
		quantity = 0
	}

	orderStatus := rawString(raw, "orderStatus", "order_status")
	if orderStatus != "" {
		orderStatus = canon.Status(orderStatus)
	}

	return Item{
		ID:      rawString(raw, "id", "itemId", "item_id"),
		OrderID: rawString(raw, "orderId", "order_id"),

		Name:           rawString(raw, "name", "menuName", "menu_name"),
		State:          state,
		CanonicalState: state,
		StateDisplay:   canon.Display(state),
		OrderStatus:    orderStatus,

		CreatedAt: rawTime(raw, "createdAt", "created_at"),
		UpdatedAt: rawTime(raw, "updatedAt", "updated_at"),
		FiredAt:   rawTime(raw, "firedAt", "fired_at"),
		ReadyAt:   rawTime(raw, "readyAt", "ready_at"),
		HoldUntil: rawTime(raw, "holdUntil", "hold_until"),

		SecondsInState: rawNumber(raw, 0, "secondsInState", "seconds_in_state"),
		AgeSeconds:     rawNumber(raw, 0, "ageSeconds", "age_seconds"),

		Quantity:            quantity,
		CookSecondsEstimate: rawNumber(raw, 0, "cookSecondsEstimate", "cook_seconds_estimate"),
		CookSecondsActual:   rawNumber(raw, 0, "cookSecondsActual", "cook_seconds_actual"),
		UnitPrice:           rawDecimal(raw, "unitPrice", "unit_price", "price"),
		LineTotal:           rawDecimal(raw, "lineTotal", "line_total", "subtotal"),
		Modifiers:           rawStrings(raw, "modifiers"),
		Allergens:           rawStrings(raw, "allergens"),
		Notes:               rawString(raw, "notes", "note"),
		Priority:            strings.ToLower(rawString(raw, "priority")),
		Channel:             strings.ToLower(rawString(raw, "channel")),

		OrderNumber:  rawString(raw, "orderNumber", "order_number"),
		CustomerName: rawString(raw, "customerName", "customer_name", "customer"),
	}
}
