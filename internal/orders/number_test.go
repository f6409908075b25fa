package orders

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var orderNumberPattern = regexp.MustCompile(`^[A-Z]-\d{6}-[2-9A-HJ-NP-TV-Z]{6}$`)

func TestGenerateOrderNumberShape(t *testing.T) {
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		number := GenerateOrderNumber(now)
		if !orderNumberPattern.MatchString(number) {
			t.Fatalf("order number %q does not match expected shape", number)
		}
		if !strings.HasPrefix(number, "W-240715-") {
			t.Fatalf("default prefix/date wrong: %q", number)
		}
	}
}

func TestGenerateOrderNumberPrefixHints(t *testing.T) {
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		hints    []string
		expected string
	}{
		{name: "channel first letter", hints: []string{"delivery"}, expected: "D-"},
		{name: "first non-empty hint wins", hints: []string{"", "takeout"}, expected: "T-"},
		{name: "explicit prefix beats channel", hints: []string{"x", "delivery"}, expected: "X-"},
		{name: "no hints defaults to walk-in", hints: nil, expected: "W-"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			number := GenerateOrderNumber(now, tc.hints...)
			if !strings.HasPrefix(number, tc.expected) {
				t.Fatalf("expected prefix %s, got %s", tc.expected, number)
			}
		})
	}
}

func TestOrderNumberAlphabetUnambiguous(t *testing.T) {
	for _, banned := range "ILOU01" {
		if strings.ContainsRune(orderNumberAlphabet, banned) {
			t.Fatalf("alphabet must not contain %q", banned)
		}
	}
}
