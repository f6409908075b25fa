package orders

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// orderNumberAlphabet is the suffix alphabet: digits 2-9 plus uppercase
// letters excluding I, L, O and U, which read ambiguously on receipts.
const orderNumberAlphabet = "23456789ABCDEFGHJKMNPQRSTVWXYZ"

const orderNumberSuffixLen = 6

// GenerateOrderNumber mints a human-facing order number of the form
// {prefix}-{YYMMDD}-{6 chars}. The prefix is the first letter of the first
// non-empty hint (explicit prefix, channel, type), uppercased; W (walk-in)
// when no hint is given.
func GenerateOrderNumber(now time.Time, hints ...string) string {
	prefix := "W"
	for _, hint := range hints {
		trimmed := strings.TrimSpace(hint)
		if trimmed != "" {
			prefix = strings.ToUpper(trimmed[:1])
			break
		}
	}

	buf := make([]byte, orderNumberSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// time-derived suffix rather than returning an error from a
		// generator callers treat as infallible.
		stamp := now.UnixNano()
		for i := range buf {
			buf[i] = byte(stamp >> (i * 8))
		}
	}
	suffix := make([]byte, orderNumberSuffixLen)
	for i, b := range buf {
		suffix[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}

	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("060102"), suffix)
}
