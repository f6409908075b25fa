package orders

import (
	"math"
	"testing"
	"time"
)

func TestToNumberNeverYieldsNaN(t *testing.T) {
	cases := []struct {
		name     string
		input    any
		expected float64
		ok       bool
	}{
		{name: "float", input: 3.5, expected: 3.5, ok: true},
		{name: "int", input: 7, expected: 7, ok: true},
		{name: "numeric string", input: "2", expected: 2, ok: true},
		{name: "padded string", input: " 12.25 ", expected: 12.25, ok: true},
		{name: "garbage string", input: "lots", ok: false},
		{name: "NaN", input: math.NaN(), ok: false},
		{name: "infinity", input: math.Inf(1), ok: false},
		{name: "nil", input: nil, ok: false},
		{name: "bool", input: true, ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toNumber(tc.input)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
			if math.IsNaN(got) {
				t.Fatalf("toNumber leaked NaN for %v", tc.input)
			}
		})
	}
}

func TestToInstant(t *testing.T) {
	if got := toInstant("2024-01-01T00:00:00Z"); got == nil || !got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected 2024-01-01, got %v", got)
	}
	if got := toInstant("not a date"); got != nil {
		t.Fatalf("unparseable input should be nil, got %v", got)
	}
	if got := toInstant(""); got != nil {
		t.Fatalf("empty input should be nil, got %v", got)
	}
	if got := toInstant(nil); got != nil {
		t.Fatalf("nil input should be nil, got %v", got)
	}

	// Epoch seconds and milliseconds both resolve to the same instant.
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := toInstant(float64(at.Unix())); got == nil || !got.Equal(at) {
		t.Fatalf("epoch seconds: expected %v, got %v", at, got)
	}
	if got := toInstant(float64(at.UnixMilli())); got == nil || !got.Equal(at) {
		t.Fatalf("epoch millis: expected %v, got %v", at, got)
	}
}

func TestPickHonorsAliasOrder(t *testing.T) {
	raw := Raw{"order_number": "W-240101-ABCDEF", "orderNumber": "W-240101-FEDCBA"}
	if got := rawString(raw, "orderNumber", "order_number"); got != "W-240101-FEDCBA" {
		t.Fatalf("camelCase should win, got %s", got)
	}
	if got := rawString(raw, "missing", "order_number"); got != "W-240101-ABCDEF" {
		t.Fatalf("snake_case fallback failed, got %s", got)
	}
	if got := rawString(raw, "missing"); got != "" {
		t.Fatalf("absent key should be empty, got %s", got)
	}
}

func TestRawStringsFiltersNonStrings(t *testing.T) {
	raw := Raw{"tags": []any{"grill", 4, nil, "expo"}}
	got := rawStrings(raw, "tags")
	if len(got) != 3 || got[0] != "grill" || got[1] != "4" || got[2] != "expo" {
		t.Fatalf("unexpected tags: %v", got)
	}
	if got := rawStrings(raw, "missing"); got == nil || len(got) != 0 {
		t.Fatalf("absent sequence should be empty, not nil: %v", got)
	}
}
