package orders

import (
	"fmt"
	"math"
	"time"

	"github.com/jsephandrade/canteen-order-service/internal/canon"
)

// NormalizeQueuePayload composes a possibly partial or absent raw queue
// payload into a fully populated snapshot. Callers never null-check snapshot
// sub-fields: collections come back empty, counters zeroed, GeneratedAt set.
func NormalizeQueuePayload(v any) QueueSnapshot {
	switch src := v.(type) {
	case QueueSnapshot:
		return src
	case *QueueSnapshot:
		if src != nil {
			return *src
		}
	case map[string]any:
		return normalizeQueueRaw(src)
	}
	return normalizeQueueRaw(nil)
}

func normalizeQueueRaw(raw Raw) QueueSnapshot {
	if raw == nil {
		raw = Raw{}
	}

	orderList := []Order{}
	for _, entry := range rawSlice(raw, "orders") {
		orderList = append(orderList, NormalizeOrder(entry))
	}

	stations := []Station{}
	for _, entry := range rawSlice(raw, "stations") {
		stations = append(stations, NormalizeStation(entry))
	}

	snapshot := QueueSnapshot{
		Orders:   orderList,
		Stations: stations,
		Summary:  normalizeSummary(rawMap(raw, "summary"), orderList),
		Batches:  normalizeBatches(rawSlice(raw, "batches")),
		Handoff:  normalizeHandoff(rawMap(raw, "handoff"), orderList),
	}
	snapshot.Capacity = normalizeCapacity(rawMap(raw, "capacity"), stations)

	if at := rawTime(raw, "generatedAt", "generated_at"); at != nil {
		snapshot.GeneratedAt = *at
	} else {
		snapshot.GeneratedAt = time.Now().UTC()
	}
	snapshot.EventCursor = rawTime(raw, "eventCursor", "event_cursor")

	return snapshot
}

// normalizeSummary trusts source counters and derives the rest from the
// normalized orders so mock and live snapshots carry the same fields.
func normalizeSummary(raw Raw, orderList []Order) QueueSummary {
	if raw == nil {
		raw = Raw{}
	}

	byStatus := countMap(raw, "byStatus", "by_status")
	byChannel := countMap(raw, "byChannel", "by_channel")
	byPriority := countMap(raw, "byPriority", "by_priority")
	_, hasStatus := pick(raw, "byStatus", "by_status")
	_, hasChannel := pick(raw, "byChannel", "by_channel")
	_, hasPriority := pick(raw, "byPriority", "by_priority")

	derivedReady := 0
	derivedLate := 0
	latenessTotal := 0.0
	prepTotal := 0.0
	prepSamples := 0
	for _, order := range orderList {
		if !hasStatus {
			byStatus[order.Status]++
		}
		if !hasChannel && order.Channel != "" {
			byChannel[order.Channel]++
		}
		if !hasPriority && order.Priority != "" {
			byPriority[order.Priority]++
		}
		if order.Status == canon.StatusStaged {
			derivedReady++
		}
		if order.LateBySeconds > 0 {
			derivedLate++
			latenessTotal += order.LateBySeconds
		}
		if order.EtaSeconds > 0 {
			prepTotal += order.EtaSeconds
			prepSamples++
		}
	}

	summary := QueueSummary{
		TotalOrders:            rawInt(raw, len(orderList), "totalOrders", "total_orders"),
		ByStatus:               byStatus,
		ByChannel:              byChannel,
		ByPriority:             byPriority,
		ReadyForHandoff:        rawInt(raw, derivedReady, "readyForHandoff", "ready_for_handoff"),
		LateOrders:             rawInt(raw, derivedLate, "lateOrders", "late_orders"),
		AveragePrepSeconds:     rawNumber(raw, 0, "averagePrepSeconds", "average_prep_seconds"),
		AverageLatenessSeconds: rawNumber(raw, 0, "averageLatenessSeconds", "average_lateness_seconds"),
		OnTimePercent:          rawNumber(raw, -1, "onTimePercent", "on_time_percent"),
	}

	if _, ok := pick(raw, "averagePrepSeconds", "average_prep_seconds"); !ok && prepSamples > 0 {
		summary.AveragePrepSeconds = prepTotal / float64(prepSamples)
	}
	if _, ok := pick(raw, "averageLatenessSeconds", "average_lateness_seconds"); !ok && derivedLate > 0 {
		summary.AverageLatenessSeconds = latenessTotal / float64(derivedLate)
	}
	if summary.OnTimePercent < 0 {
		summary.OnTimePercent = 100
		if len(orderList) > 0 {
			summary.OnTimePercent = 100 * float64(len(orderList)-derivedLate) / float64(len(orderList))
		}
	}

	return summary
}

// normalizeCapacity builds the capacity-planning view. The planning station
// list falls back to the live queue's stations when the source does not
// supply a capacity-specific one; both lists stay independently overridable.
func normalizeCapacity(raw Raw, stations []Station) QueueCapacity {
	if raw == nil {
		raw = Raw{}
	}

	planStations := []Station{}
	if entries := rawSlice(raw, "stations"); entries != nil {
		for _, entry := range entries {
			planStations = append(planStations, NormalizeStation(entry))
		}
	} else {
		planStations = append(planStations, stations...)
	}

	peak := rawNumber(raw, -1, "peakUtilization", "peak_utilization")
	if peak < 0 {
		peak = 0
		for _, station := range planStations {
			if station.Utilization > peak {
				peak = station.Utilization
			}
		}
	}

	reasons := rawStrings(raw, "throttleReasons", "throttle_reasons")
	derivedThrottle := peak >= throttleUtilization
	for _, station := range planStations {
		if station.OverCapacity {
			derivedThrottle = true
			if _, ok := pick(raw, "throttleReasons", "throttle_reasons"); !ok {
				reasons = append(reasons, fmt.Sprintf("station %s over capacity (%d/%d)", station.Code, station.QueueCount, station.Capacity))
			}
		}
	}

	shouldThrottle := derivedThrottle
	if v, ok := pick(raw, "shouldThrottle", "should_throttle"); ok {
		shouldThrottle = toBool(v)
	}

	quote := rawInt(raw, -1, "recommendedQuoteMinutes", "recommended_quote_minutes")
	if quote < 0 {
		quote = clampInt(int(math.Round(baseQuoteMinutes*math.Max(1, peak))), minRecommendedQuoteMin, maxRecommendedQuoteMin)
	}

	return QueueCapacity{
		Stations:                planStations,
		ShouldThrottle:          shouldThrottle,
		PeakUtilization:         peak,
		RecommendedQuoteMinutes: quote,
		ThrottleReasons:         reasons,
	}
}

func normalizeBatches(entries []any) []BatchSuggestion {
	batches := []BatchSuggestion{}
	for _, entry := range entries {
		raw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		constituents := rawSlice(raw, "orders")
		if constituents == nil {
			constituents = []any{}
		}
		batches = append(batches, BatchSuggestion{
			StationCode:       rawString(raw, "stationCode", "station_code"),
			StationName:       rawString(raw, "stationName", "station_name"),
			TotalQuantity:     rawInt(raw, 0, "totalQuantity", "total_quantity"),
			WindowSeconds:     rawNumber(raw, 0, "windowSeconds", "window_seconds"),
			RecommendedFireAt: rawTime(raw, "recommendedFireAt", "recommended_fire_at"),
			Orders:            constituents,
		})
	}
	return batches
}

func normalizeHandoff(raw Raw, orderList []Order) QueueHandoff {
	handoff := QueueHandoff{Pending: []HandoffPending{}, LateOrders: []any{}}

	if raw == nil {
		// Derive the pending list from staged orders so the mock path and
		// sparse live payloads still surface the handoff view.
		for _, order := range orderList {
			if order.Status == canon.StatusStaged {
				handoff.Pending = append(handoff.Pending, HandoffPending{
					OrderID:       order.ID,
					OrderNumber:   order.OrderNumber,
					LateBySeconds: order.LateBySeconds,
				})
			}
		}
		return handoff
	}

	for _, entry := range rawSlice(raw, "pending") {
		pendingRaw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		handoff.Pending = append(handoff.Pending, HandoffPending{
			OrderID:       rawString(pendingRaw, "orderId", "order_id", "id"),
			OrderNumber:   rawString(pendingRaw, "orderNumber", "order_number"),
			LateBySeconds: rawNumber(pendingRaw, 0, "lateBySeconds", "late_by_seconds"),
		})
	}
	if late := rawSlice(raw, "lateOrders", "late_orders"); late != nil {
		handoff.LateOrders = late
	}
	return handoff
}

func countMap(raw Raw, keys ...string) map[string]int {
	out := map[string]int{}
	source := rawMap(raw, keys...)
	for key, value := range source {
		if n, ok := toNumber(value); ok {
			out[key] = int(n)
		}
	}
	return out
}
