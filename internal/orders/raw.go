package orders

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Raw is a decoded JSON object from either the live API or the mock
// fixtures, before normalization.
type Raw = map[string]any

// pick returns the first non-nil value among the given keys. Alias lists
// (camelCase first, then snake_case) are spelled out at every call site so
// the tolerated source spellings stay auditable in one place per field.
func pick(raw Raw, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func rawString(raw Raw, keys ...string) string {
	v, ok := pick(raw, keys...)
	if !ok {
		return ""
	}
	return toString(v)
}

func rawNumber(raw Raw, fallback float64, keys ...string) float64 {
	v, ok := pick(raw, keys...)
	if !ok {
		return fallback
	}
	n, ok := toNumber(v)
	if !ok {
		return fallback
	}
	return n
}

func rawInt(raw Raw, fallback int, keys ...string) int {
	return int(rawNumber(raw, float64(fallback), keys...))
}

func rawBool(raw Raw, keys ...string) bool {
	v, ok := pick(raw, keys...)
	if !ok {
		return false
	}
	return toBool(v)
}

func rawTime(raw Raw, keys ...string) *time.Time {
	v, ok := pick(raw, keys...)
	if !ok {
		return nil
	}
	return toInstant(v)
}

func rawDecimal(raw Raw, keys ...string) decimal.Decimal {
	v, ok := pick(raw, keys...)
	if !ok {
		return decimal.Decimal{}
	}
	return toDecimal(v)
}

func rawMap(raw Raw, keys ...string) Raw {
	v, ok := pick(raw, keys...)
	if !ok {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func rawSlice(raw Raw, keys ...string) []any {
	v, ok := pick(raw, keys...)
	if !ok {
		return nil
	}
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

func rawStrings(raw Raw, keys ...string) []string {
	out := []string{}
	for _, v := range rawSlice(raw, keys...) {
		if s := toString(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

// toNumber converts any JSON value to a finite float64. NaN, infinities and
// unparseable input report false so callers substitute the field default;
// a NaN never leaves the normalization boundary.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return toNumber(float64(n))
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return toNumber(parsed)
	}
	return 0, false
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes":
			return true
		}
		return false
	case float64:
		return b != 0
	case int:
		return b != 0
	}
	return false
}

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// toInstant parses a timestamp of any tolerated source shape into an
// absolute instant. Unparseable or absent input is nil, never a zero time
// and never the epoch. Numeric input is treated as unix seconds, or unix
// milliseconds when the magnitude gives it away.
func toInstant(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		out := t
		return &out
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil
		}
		out := *t
		return &out
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return nil
		}
		for _, layout := range instantLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return &parsed
			}
		}
		return nil
	case float64, float32, int, int32, int64:
		epoch, ok := toNumber(t)
		if !ok || epoch <= 0 {
			return nil
		}
		if epoch > 1e12 {
			out := time.UnixMilli(int64(epoch)).UTC()
			return &out
		}
		out := time.Unix(int64(epoch), 0).UTC()
		return &out
	}
	return nil
}

func toDecimal(v any) decimal.Decimal {
	switch d := v.(type) {
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(d))
		if err != nil {
			return decimal.Decimal{}
		}
		return parsed
	case float64:
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return decimal.Decimal{}
		}
		return decimal.NewFromFloat(d)
	case int:
		return decimal.NewFromInt(int64(d))
	case int64:
		return decimal.NewFromInt(d)
	}
	return decimal.Decimal{}
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
