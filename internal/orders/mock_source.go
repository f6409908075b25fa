package orders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jsephandrade/canteen-order-service/internal/canon"
)

// MockSource is the offline/demo DataSource: a mutable in-memory fixture
// set whose records keep the live API's raw (pre-normalization) shape, so
// the same normalizers run in both modes. Mutations are serialized behind a
// mutex for deterministic tests; this path is not a correctness-critical
// store.
type MockSource struct {
	mu     sync.Mutex
	orders []Raw
	now    func() time.Time
}

func NewMockSource() *MockSource {
	return &MockSource{orders: seedOrders(time.Now().UTC()), now: func() time.Time { return time.Now().UTC() }}
}

// NewMockSourceAt pins the clock and seeds relative to it. Tests use this
// to get stable fixtures.
func NewMockSourceAt(now func() time.Time) *MockSource {
	return &MockSource{orders: seedOrders(now()), now: now}
}

// seedOrders builds the demo fixture set. Key casing is deliberately mixed
// (camelCase and snake_case) to exercise the normalizers' alias tolerance
// the same way real backend payloads do.
func seedOrders(now time.Time) []Raw {
	return []Raw{
		{
			"id":           "ord-1001",
			"orderNumber":  "W-" + now.Format("060102") + "-DEMO2A",
			"status":       "pending",
			"customerName": "Alma Reyes",
			"channel":      "walk-in",
			"priority":     "normal",
			"created_at":   now.Add(-4 * time.Minute).Format(time.RFC3339),
			"timeReceived": now.Add(-4 * time.Minute).Format(time.RFC3339),
			"totalAmount":  "185.00",
			"items": []any{
				Raw{"id": "itm-1", "name": "Pork Sisig", "quantity": 2, "state": "queued", "unit_price": "75.00", "cook_seconds_estimate": 420},
				Raw{"id": "itm-2", "name": "Iced Tea", "quantity": 1, "state": "queued", "unit_price": "35.00", "cook_seconds_estimate": 60},
			},
		},
		{
			"id":           "ord-1002",
			"order_number": "W-" + now.Format("060102") + "-DEMO3B",
			"status":       "in_progress",
			"customerName": "Ben Santos",
			"channel":      "walk-in",
			"priority":     "high",
			"createdAt":    now.Add(-11 * time.Minute).Format(time.RFC3339),
			"timeReceived": now.Add(-11 * time.Minute).Format(time.RFC3339),
			"auto_advance": Raw{
				"phase_sequence":   2,
				"phase_started_at": now.Add(-90 * time.Second).Format(time.RFC3339),
				"auto_advance_at":  now.Add(30 * time.Second).Format(time.RFC3339),
				"target_status":    "staged",
				"duration_seconds": 120,
			},
			"total_amount": "240.00",
			"items": []any{
				Raw{"id": "itm-3", "name": "Chicken Adobo", "quantity": 2, "state": "cooking", "fired_at": now.Add(-5 * time.Minute).Format(time.RFC3339), "unit_price": "95.00", "cook_seconds_estimate": 600},
				Raw{"id": "itm-4", "name": "Rice", "quantity": 2, "state": "ready", "unit_price": "25.00", "cook_seconds_estimate": 120},
			},
		},
		{
			"id":            "ord-1003",
			"orderNumber":   "D-" + now.Format("060102") + "-DEMO4C",
			"status":        "READY",
			"customer_name": "Cora Lim",
			"channel":       "delivery",
			"priority":      "normal",
			"createdAt":     now.Add(-25 * time.Minute).Format(time.RFC3339),
			"timeReceived":  now.Add(-25 * time.Minute).Format(time.RFC3339),
			"promised_time": now.Add(-2 * time.Minute).Format(time.RFC3339),
			"lateBySeconds": 120,
			"totalAmount":   "130.00",
			"items": []any{
				Raw{"id": "itm-5", "name": "Lumpia", "quantity": 4, "state": "ready", "unit_price": "32.50"},
			},
		},
		{
			"id":            "ord-1004",
			"orderNumber":   "W-" + now.Format("060102") + "-DEMO5D",
			"status":        "completed",
			"customerName":  "Dario Cruz",
			"channel":       "walk-in",
			"createdAt":     now.Add(-2 * time.Hour).Format(time.RFC3339),
			"timeReceived":  now.Add(-2 * time.Hour).Format(time.RFC3339),
			"timeCompleted": now.Add(-100 * time.Minute).Format(time.RFC3339),
			"totalAmount":   "95.00",
			"items": []any{
				Raw{"id": "itm-6", "name": "Pancit Canton", "quantity": 1, "state": "ready", "unit_price": "95.00"},
			},
		},
		{
			"id":           "ord-1005",
			"orderNumber":  "W-" + now.Format("060102") + "-DEMO6E",
			"status":       "cancelled",
			"customerName": "Elsa Tan",
			"channel":      "walk-in",
			"createdAt":    now.Add(-3 * time.Hour).Format(time.RFC3339),
			"meta":         Raw{"cancelReason": "customer left"},
			"items":        []any{},
		},
	}
}

func (s *MockSource) ListOrders(ctx context.Context, params ListParams) ([]Raw, Pagination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []Raw{}
	for _, entry := range s.orders {
		if mockMatches(entry, params) {
			matched = append(matched, cloneRaw(entry))
		}
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 20
	}
	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	totalPages := (total + limit - 1) / limit
	return matched[start:end], Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

func mockMatches(entry Raw, params ListParams) bool {
	if params.Status != "" && canon.Status(rawString(entry, "status")) != canon.Status(params.Status) {
		return false
	}
	if params.Channel != "" && !strings.EqualFold(rawString(entry, "channel", "orderType", "order_type"), params.Channel) {
		return false
	}
	if params.Search != "" {
		needle := strings.ToLower(params.Search)
		number := strings.ToLower(rawString(entry, "orderNumber", "order_number"))
		customer := strings.ToLower(rawString(entry, "customerName", "customer_name"))
		if !strings.Contains(number, needle) && !strings.Contains(customer, needle) {
			return false
		}
	}
	return true
}

func (s *MockSource) GetOrder(ctx context.Context, id string) (Raw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.find(id)
	if entry == nil {
		return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}
	return cloneRaw(entry), nil
}

func (s *MockSource) GenerateOrderNumber(ctx context.Context, params NumberParams) (Raw, error) {
	return Raw{
		"orderNumber":    GenerateOrderNumber(s.now(), params.Prefix, params.Channel, params.Type),
		"orderReference": uuid.NewString(),
	}, nil
}

func (s *MockSource) CreateOrder(ctx context.Context, data Raw) (Raw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry := cloneRaw(data)
	if entry == nil {
		entry = Raw{}
	}
	if rawString(entry, "id") == "" {
		entry["id"] = uuid.NewString()
	}
	if rawString(entry, "orderNumber", "order_number") == "" {
		entry["orderNumber"] = GenerateOrderNumber(now, rawString(entry, "channel", "orderType", "order_type", "type"))
	}
	if rawString(entry, "orderReference", "order_reference") == "" {
		entry["orderReference"] = uuid.NewString()
	}
	entry["status"] = canon.StatusAccepted
	entry["createdAt"] = now
	entry["timeReceived"] = now
	entry["updatedAt"] = now
	delete(entry, "timeCompleted")
	delete(entry, "time_completed")

	s.orders = append(s.orders, entry)
	return cloneRaw(entry), nil
}

func (s *MockSource) UpdateOrderStatus(ctx context.Context, id string, status string, extra Raw) (Raw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.find(id)
	if entry == nil {
		return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}

	now := s.now()
	next := canon.Status(status)
	entry["status"] = next
	entry["updatedAt"] = now
	if next == canon.StatusCompleted {
		entry["timeCompleted"] = now
	} else {
		delete(entry, "timeCompleted")
		delete(entry, "time_completed")
	}
	if len(extra) > 0 {
		meta := rawMap(entry, "meta", "metadata")
		if meta == nil {
			meta = Raw{}
		}
		for key, value := range extra {
			meta[key] = value
		}
		entry["meta"] = meta
	}
	return cloneRaw(entry), nil
}

func (s *MockSource) UpdateOrderAutoFlow(ctx context.Context, id string, update AutoFlowUpdate) (Raw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.find(id)
	if entry == nil {
		return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}

	now := s.now()
	current := normalizeAutoAdvance(entry)

	sequence := current.PhaseSequence + 1
	if update.PhaseSequence != nil {
		sequence = *update.PhaseSequence
	}
	duration := current.DurationSeconds
	if update.DurationSeconds != nil && *update.DurationSeconds > 0 {
		duration = *update.DurationSeconds
	}
	target := current.TargetStatus
	if update.TargetStatus != "" {
		target = canon.Status(update.TargetStatus)
	}
	if target == "" {
		target = canon.NextStatus(canon.Status(rawString(entry, "status")))
	}

	auto := Raw{
		"phaseSequence":   sequence,
		"phaseStartedAt":  now,
		"targetStatus":    target,
		"durationSeconds": duration,
	}
	if update.Action == "pause" {
		auto["paused"] = true
		auto["pauseReason"] = update.Reason
	} else {
		auto["paused"] = false
		auto["autoAdvanceAt"] = now.Add(time.Duration(duration * float64(time.Second)))
	}

	entry["autoAdvance"] = auto
	delete(entry, "auto_advance")
	entry["updatedAt"] = now
	return cloneRaw(entry), nil
}

// UpdateOrderItemState synthesizes the full {order, item} response the live
// backend returns: the fixture item is mutated in place so demo mode
// behaves like the real thing instead of echoing nulls.
func (s *MockSource) UpdateOrderItemState(ctx context.Context, orderID, itemID string, update ItemStateUpdate) (Raw, Raw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.find(orderID)
	if entry == nil {
		return nil, nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
	}

	items := rawSlice(entry, "items", "orderItems", "order_items")
	var item Raw
	for _, candidate := range items {
		m, ok := candidate.(map[string]any)
		if !ok {
			continue
		}
		if rawString(m, "id", "itemId", "item_id") == itemID {
			item = m
			break
		}
	}
	if item == nil {
		return nil, nil, fmt.Errorf("order %s item %s: %w", orderID, itemID, ErrOrderNotFound)
	}

	now := s.now()
	state := canon.ItemState(update.State)
	item["state"] = state
	item["updatedAt"] = now
	if update.Notes != "" {
		item["notes"] = update.Notes
	}
	switch state {
	case canon.ItemFired, canon.ItemCooking:
		if _, ok := pick(item, "firedAt", "fired_at"); !ok {
			item["firedAt"] = now
		}
	case canon.ItemReady, canon.ItemStaged:
		if _, ok := pick(item, "readyAt", "ready_at"); !ok {
			item["readyAt"] = now
		}
	}
	entry["updatedAt"] = now

	return cloneRaw(entry), cloneRaw(item), nil
}

// OrderQueue synthesizes a queue payload from the active fixtures: stations,
// capacity and batches stay empty/neutral and items read as freshly queued,
// with the assembler deriving the summary the same way it does for live
// payloads.
func (s *MockSource) OrderQueue(ctx context.Context, params QueueParams) (Raw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := []any{}
	for _, entry := range s.orders {
		if !canon.Active(canon.Status(rawString(entry, "status"))) {
			continue
		}
		if params.Channel != "" && !strings.EqualFold(rawString(entry, "channel", "orderType", "order_type"), params.Channel) {
			continue
		}
		active = append(active, cloneRaw(entry))
	}

	return Raw{
		"orders":      active,
		"stations":    []any{},
		"batches":     []any{},
		"generatedAt": s.now(),
		"eventCursor": s.now(),
	}, nil
}

func (s *MockSource) OrderHistory(ctx context.Context, params ListParams) ([]Raw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := []Raw{}
	for _, entry := range s.orders {
		if !canon.Terminal(canon.Status(rawString(entry, "status"))) {
			continue
		}
		if mockMatches(entry, params) {
			history = append(history, cloneRaw(entry))
		}
	}
	return history, nil
}

func (s *MockSource) ProcessPayment(ctx context.Context, orderID string, data Raw) (Raw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.find(orderID)
	if entry == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
	}

	result := Raw{
		"orderId":     rawString(entry, "id"),
		"orderNumber": rawString(entry, "orderNumber", "order_number"),
		"reference":   uuid.NewString(),
		"processedAt": s.now(),
		"status":      "recorded",
	}
	for key, value := range data {
		result[key] = value
	}
	return result, nil
}

// find matches by id first, then by order number; callers hold the lock.
func (s *MockSource) find(id string) Raw {
	for _, entry := range s.orders {
		if rawString(entry, "id", "orderId", "order_id") == id {
			return entry
		}
	}
	for _, entry := range s.orders {
		if rawString(entry, "orderNumber", "order_number") == id {
			return entry
		}
	}
	return nil
}

// cloneRaw deep-copies maps and slices so callers never alias fixture
// internals.
func cloneRaw(raw Raw) Raw {
	if raw == nil {
		return nil
	}
	out := make(Raw, len(raw))
	for key, value := range raw {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return cloneRaw(value)
	case []any:
		out := make([]any, len(value))
		for i, entry := range value {
			out[i] = cloneValue(entry)
		}
		return out
	}
	return v
}
