// internal/daily/daily.go
//
// Deterministic daily challenge selection.
// Every player gets the same recipe group on a given UTC date:
//   index = HMAC-SHA256(salt, "YYYY-MM-DD") mod len(eligible groups),
// applied to the sorted list of groups eligible for the daily gamemode.
// Rotating DAILY_SALT reshuffles the schedule.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// GroupIndex returns a deterministic index in [0, n) for a date.
func GroupIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Pick returns the daily group among sorted eligible keys, or "" when
// there are none.
func Pick(date time.Time, salt string, sortedKeys []string) string {
	if len(sortedKeys) == 0 {
		return ""
	}
	return sortedKeys[GroupIndex(date, salt, len(sortedKeys))]
}
