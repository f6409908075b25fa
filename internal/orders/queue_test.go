package orders

import (
	"testing"
	"time"
)

func TestNormalizeQueuePayloadEmpty(t *testing.T) {
	snapshot := NormalizeQueuePayload(nil)

	if snapshot.Orders == nil || len(snapshot.Orders) != 0 {
		t.Fatalf("orders must be empty, got %v", snapshot.Orders)
	}
	if snapshot.Stations == nil || snapshot.Batches == nil {
		t.Fatalf("collections must never be nil")
	}
	if snapshot.Capacity.Stations == nil || snapshot.Capacity.ThrottleReasons == nil {
		t.Fatalf("capacity sub-fields must never be nil")
	}
	if snapshot.Handoff.Pending == nil || snapshot.Handoff.LateOrders == nil {
		t.Fatalf("handoff sub-fields must never be nil")
	}
	if snapshot.Summary.TotalOrders != 0 || snapshot.Summary.ByStatus == nil {
		t.Fatalf("summary not zeroed: %+v", snapshot.Summary)
	}
	if snapshot.GeneratedAt.IsZero() {
		t.Fatalf("generatedAt must default to now")
	}
	if snapshot.EventCursor != nil {
		t.Fatalf("eventCursor should be nil when absent")
	}
}

func TestQueueSummaryDerivation(t *testing.T) {
	snapshot := NormalizeQueuePayload(Raw{
		"orders": []any{
			Raw{"id": "o1", "status": "pending", "channel": "walk-in"},
			Raw{"id": "o2", "status": "ready", "channel": "delivery", "lateBySeconds": 90},
			Raw{"id": "o3", "status": "ready", "channel": "walk-in"},
		},
	})

	summary := snapshot.Summary
	if summary.TotalOrders != 3 {
		t.Fatalf("totalOrders should default to order count, got %d", summary.TotalOrders)
	}
	if summary.ByStatus["new"] != 1 || summary.ByStatus["staged"] != 2 {
		t.Fatalf("status breakdown wrong: %v", summary.ByStatus)
	}
	if summary.ByChannel["walk-in"] != 2 || summary.ByChannel["delivery"] != 1 {
		t.Fatalf("channel breakdown wrong: %v", summary.ByChannel)
	}
	if summary.ReadyForHandoff != 2 {
		t.Fatalf("expected 2 staged orders ready for handoff, got %d", summary.ReadyForHandoff)
	}
	if summary.LateOrders != 1 || summary.AverageLatenessSeconds != 90 {
		t.Fatalf("lateness wrong: %+v", summary)
	}

	// Handoff pending derives from the staged orders when the source has
	// no handoff block.
	if len(snapshot.Handoff.Pending) != 2 {
		t.Fatalf("expected 2 pending handoffs, got %v", snapshot.Handoff.Pending)
	}

	// Source counters always win.
	trusted := NormalizeQueuePayload(Raw{
		"orders":  []any{Raw{"id": "o1", "status": "ready"}},
		"summary": Raw{"totalOrders": 40, "byStatus": Raw{"staged": 17}},
	})
	if trusted.Summary.TotalOrders != 40 || trusted.Summary.ByStatus["staged"] != 17 {
		t.Fatalf("source summary should pass through: %+v", trusted.Summary)
	}
}

func TestQueueCapacityAssembly(t *testing.T) {
	snapshot := NormalizeQueuePayload(Raw{
		"stations": []any{
			Raw{"code": "grill", "capacity": 4, "queueCount": 6},
			Raw{"code": "drinks", "capacity": 10, "queueCount": 2},
		},
	})

	capacity := snapshot.Capacity
	if len(capacity.Stations) != 2 {
		t.Fatalf("capacity stations should fall back to the queue stations")
	}
	if capacity.PeakUtilization != 1.5 {
		t.Fatalf("expected peak 1.5, got %v", capacity.PeakUtilization)
	}
	if !capacity.ShouldThrottle {
		t.Fatalf("over-capacity station should trigger throttling")
	}
	if len(capacity.ThrottleReasons) == 0 {
		t.Fatalf("expected a throttle reason for the grill")
	}
	if capacity.RecommendedQuoteMinutes != 23 {
		t.Fatalf("expected quote 23 (15*1.5 rounded), got %d", capacity.RecommendedQuoteMinutes)
	}

	// A capacity-specific station list overrides the queue view.
	overridden := NormalizeQueuePayload(Raw{
		"stations": []any{Raw{"code": "grill", "capacity": 4, "queueCount": 6}},
		"capacity": Raw{
			"stations":       []any{Raw{"code": "grill", "capacity": 8, "queueCount": 6}},
			"shouldThrottle": false,
		},
	})
	if overridden.Capacity.Stations[0].Capacity != 8 {
		t.Fatalf("capacity station list should win")
	}
	if overridden.Capacity.ShouldThrottle {
		t.Fatalf("explicit shouldThrottle should pass through")
	}
	if overridden.Stations[0].Capacity != 4 {
		t.Fatalf("queue station view must stay independent")
	}
}

func TestQueueBatchesAndCursor(t *testing.T) {
	fireAt := "2024-05-05T10:00:00Z"
	snapshot := NormalizeQueuePayload(Raw{
		"batches": []any{
			Raw{"station_code": "grill", "total_quantity": "6", "window_seconds": 45, "recommended_fire_at": fireAt, "orders": []any{"o1", "o2"}},
			"not a batch",
		},
		"generatedAt": "2024-05-05T09:59:00Z",
		"eventCursor": "2024-05-05T09:58:30Z",
	})

	if len(snapshot.Batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(snapshot.Batches))
	}
	batch := snapshot.Batches[0]
	if batch.StationCode != "grill" || batch.TotalQuantity != 6 || batch.WindowSeconds != 45 {
		t.Fatalf("batch coercion wrong: %+v", batch)
	}
	expected := time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC)
	if batch.RecommendedFireAt == nil || !batch.RecommendedFireAt.Equal(expected) {
		t.Fatalf("recommendedFireAt wrong: %v", batch.RecommendedFireAt)
	}
	if len(batch.Orders) != 2 {
		t.Fatalf("constituent orders should pass through: %v", batch.Orders)
	}
	if snapshot.EventCursor == nil {
		t.Fatalf("eventCursor should coerce to an instant")
	}
	if !snapshot.GeneratedAt.Equal(time.Date(2024, 5, 5, 9, 59, 0, 0, time.UTC)) {
		t.Fatalf("generatedAt should pass through, got %v", snapshot.GeneratedAt)
	}
}
