package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKey(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC), "2024-03-09"},
		{time.Date(2024, 3, 10, 1, 0, 0, 0, time.FixedZone("NZDT", 13*3600)), "2024-03-09"},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "2024-12-31"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DateKey(tt.in))
	}
}

func TestSeed(t *testing.T) {
	morning := time.Date(2024, 3, 9, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 9, 22, 0, 0, 0, time.UTC)
	tomorrow := morning.Add(24 * time.Hour)

	assert.Equal(t, Seed(morning, "salt"), Seed(evening, "salt"))
	assert.NotEqual(t, Seed(morning, "salt"), Seed(tomorrow, "salt"))
	assert.NotEqual(t, Seed(morning, "salt"), Seed(morning, "pepper"))
	assert.GreaterOrEqual(t, Seed(morning, "salt"), int64(0))
}

func TestRandIsRepeatable(t *testing.T) {
	day := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	a, b := Rand(day, "s"), Rand(day, "s")
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}
}
