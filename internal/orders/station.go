package orders

import "github.com/jsephandrade/canteen-order-service/internal/canon"

// Capacity policy. The live backend is trusted when it supplies the derived
// metrics; these rules only fill the gaps, and the snapshot assembler reuses
// them for its throttle signals.
//
//	utilization   = queueCount / capacity   (0 when capacity is 0)
//	overCapacity  = capacity > 0 && queueCount > capacity
const (
	throttleUtilization    = 0.85
	baseQuoteMinutes       = 15
	minRecommendedQuoteMin = 10
	maxRecommendedQuoteMin = 60
)

// NormalizeStation converts a raw kitchen-station record into canonical
// shape. Same totality and idempotence guarantees as NormalizeOrder; items
// inside the station run through NormalizeItem and keep their parent-order
// annotations.
func NormalizeStation(v any) Station {
	switch src := v.(type) {
	case Station:
		return src
	case *Station:
		if src != nil {
			return *src
		}
	case map[string]any:
		return normalizeStationRaw(src)
	}
	return normalizeStationRaw(nil)
}

func normalizeStationRaw(raw Raw) Station {
	if raw == nil {
		raw = Raw{}
	}

	items := []Item{}
	for _, entry := range rawSlice(raw, "items", "queue") {
		items = append(items, NormalizeItem(entry))
	}

	capacity := rawInt(raw, 0, "capacity")
	queueCount := rawInt(raw, len(items), "queueCount", "queue_count")

	activeQuantity := rawInt(raw, -1, "activeQuantity", "active_quantity")
	if activeQuantity < 0 {
		activeQuantity = 0
		for _, item := range items {
			if item.CanonicalState == canon.ItemFired || item.CanonicalState == canon.ItemCooking {
				activeQuantity += item.Quantity
			}
		}
	}

	utilization := rawNumber(raw, -1, "utilization")
	if utilization < 0 {
		utilization = 0
		if capacity > 0 {
			utilization = float64(queueCount) / float64(capacity)
		}
	}

	overCapacity := capacity > 0 && queueCount > capacity
	if v, ok := pick(raw, "overCapacity", "over_capacity"); ok {
		overCapacity = toBool(v)
	}

	avgSeconds := rawNumber(raw, -1, "averageSecondsInState", "average_seconds_in_state")
	if avgSeconds < 0 {
		avgSeconds = 0
		if len(items) > 0 {
			total := 0.0
			for _, item := range items {
				total += item.SecondsInState
			}
			avgSeconds = total / float64(len(items))
		}
	}

	lateCount := rawInt(raw, -1, "lateCount", "late_count")
	if lateCount < 0 {
		lateCount = 0
		for _, item := range items {
			if item.CookSecondsEstimate > 0 && item.SecondsInState > item.CookSecondsEstimate {
				lateCount++
			}
		}
	}

	tags := rawStrings(raw, "tags")
	makeToStock := rawStrings(raw, "makeToStock", "make_to_stock")

	return Station{
		Code:                   rawString(raw, "code", "stationCode", "station_code"),
		Name:                   rawString(raw, "name", "stationName", "station_name"),
		Tags:                   tags,
		Capacity:               capacity,
		AutoBatchWindowSeconds: rawNumber(raw, 0, "autoBatchWindowSeconds", "auto_batch_window_seconds"),
		MakeToStock:            makeToStock,
		IsExpo:                 rawBool(raw, "isExpo", "is_expo"),

		QueueCount:              queueCount,
		ActiveQuantity:          activeQuantity,
		Utilization:             utilization,
		OverCapacity:            overCapacity,
		AverageSecondsInState:   avgSeconds,
		NextAvailabilitySeconds: rawNumber(raw, 0, "nextAvailabilitySeconds", "next_availability_seconds"),
		LateCount:               lateCount,

		Items: items,
	}
}
