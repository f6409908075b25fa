package orders

import "testing"

func TestNormalizeStationCapacityPolicy(t *testing.T) {
	station := NormalizeStation(Raw{
		"code":       "grill",
		"name":       "Grill",
		"capacity":   10,
		"queueCount": 12,
	})

	if !station.OverCapacity {
		t.Fatalf("queueCount 12 over capacity 10 must flag overCapacity")
	}
	if station.Utilization != 1.2 {
		t.Fatalf("expected utilization 1.2, got %v", station.Utilization)
	}

	// Source-supplied metrics are trusted over the derived ones.
	trusted := NormalizeStation(Raw{
		"capacity":     10,
		"queueCount":   12,
		"overCapacity": false,
		"utilization":  0.4,
	})
	if trusted.OverCapacity || trusted.Utilization != 0.4 {
		t.Fatalf("source metrics should pass through, got %+v", trusted)
	}

	// Zero capacity never divides.
	idle := NormalizeStation(Raw{"code": "expo", "is_expo": true})
	if idle.Utilization != 0 || idle.OverCapacity {
		t.Fatalf("zero-capacity station should be idle, got %+v", idle)
	}
	if !idle.IsExpo {
		t.Fatalf("snake_case is_expo not honored")
	}
}

func TestNormalizeStationDerivedMetrics(t *testing.T) {
	station := NormalizeStation(Raw{
		"code": "fry",
		"items": []any{
			Raw{"id": "a", "state": "cooking", "quantity": 2, "secondsInState": 120, "cookSecondsEstimate": 60},
			Raw{"id": "b", "state": "queued", "quantity": 1, "secondsInState": 40},
			Raw{"id": "c", "state": "fired", "quantity": 3, "secondsInState": 20, "cookSecondsEstimate": 300},
		},
	})

	if station.QueueCount != 3 {
		t.Fatalf("queueCount should default to item count, got %d", station.QueueCount)
	}
	if station.ActiveQuantity != 5 {
		t.Fatalf("active quantity should sum fired+cooking, got %d", station.ActiveQuantity)
	}
	if station.AverageSecondsInState != 60 {
		t.Fatalf("expected average 60, got %v", station.AverageSecondsInState)
	}
	if station.LateCount != 1 {
		t.Fatalf("item a is past its estimate; expected lateCount 1, got %d", station.LateCount)
	}
	if station.Tags == nil || station.MakeToStock == nil {
		t.Fatalf("sequences must default to empty, got %+v", station)
	}
}

func TestNormalizeStationItemAnnotations(t *testing.T) {
	station := NormalizeStation(Raw{
		"station_code": "drinks",
		"items": []any{
			Raw{"id": "d1", "orderId": "o1", "orderNumber": "W-240101-ABCDEF", "customer_name": "Ben"},
		},
		"make_to_stock": []any{"iced-tea"},
	})

	if station.Code != "drinks" {
		t.Fatalf("station_code alias not honored, got %q", station.Code)
	}
	if len(station.MakeToStock) != 1 || station.MakeToStock[0] != "iced-tea" {
		t.Fatalf("make_to_stock alias not honored: %v", station.MakeToStock)
	}
	item := station.Items[0]
	if item.OrderID != "o1" || item.OrderNumber != "W-240101-ABCDEF" || item.CustomerName != "Ben" {
		t.Fatalf("cross-reference annotations lost: %+v", item)
	}
}
