// internal/daily/daily.go
//
// The board of the day: every player who asks for a daily board on the same
// UTC date gets the same pool order. The order comes from a shuffle seeded
// with HMAC(salt, YYYY-MM-DD), so it cannot be predicted without the salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed derives the shuffle seed for the date of t.
func Seed(t time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	// first 8 bytes, sign bit cleared
	return int64(binary.BigEndian.Uint64(sum[:8]) >> 1)
}

// Rand returns a shuffle source for the date of t.
func Rand(t time.Time, salt string) *rand.Rand {
	return rand.New(rand.NewSource(Seed(t, salt)))
}
