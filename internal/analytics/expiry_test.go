package analytics

import (
	"testing"
	"time"

	"cometstats/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntilBoundary_AlwaysEndsOnBoundary(t *testing.T) {
	instants := []time.Time{
		time.Date(2026, 8, 30, 10, 15, 30, 0, time.UTC),
		time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),  // exactly on a day boundary
		time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC),
		time.Date(2026, 1, 1, 12, 0, 1, 0, time.UTC),
		time.Unix(1, 0),
	}

	for _, iv := range []domain.Interval{domain.IntervalMinute, domain.IntervalHour, domain.IntervalDay} {
		b := BoundarySeconds(iv)
		require.Positive(t, b)

		for _, now := range instants {
			ttl := UntilBoundary(now, iv)
			secs := int64(ttl / time.Second)

			assert.Greater(t, secs, int64(0), "interval=%s now=%s", iv, now)
			assert.LessOrEqual(t, secs, b, "interval=%s now=%s", iv, now)
			assert.Zero(t, (now.Unix()+secs)%b, "interval=%s now=%s", iv, now)
		}
	}
}

func TestUntilBoundary_OnBoundaryGetsFullBucket(t *testing.T) {
	midnight := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 24*time.Hour, UntilBoundary(midnight, domain.IntervalDay))
	assert.Equal(t, time.Hour, UntilBoundary(midnight, domain.IntervalHour))
	assert.Equal(t, time.Minute, UntilBoundary(midnight, domain.IntervalMinute))
}

func TestUntilBoundary_MidBucket(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 15, 30, 0, time.UTC)

	assert.Equal(t, 30*time.Second, UntilBoundary(now, domain.IntervalMinute))
	assert.Equal(t, 44*time.Minute+30*time.Second, UntilBoundary(now, domain.IntervalHour))
	assert.Equal(t, 13*time.Hour+44*time.Minute+30*time.Second, UntilBoundary(now, domain.IntervalDay))
}

func TestUntilBoundary_UnknownIntervalIsZero(t *testing.T) {
	assert.Zero(t, UntilBoundary(time.Now(), domain.Interval("century")))
	assert.Zero(t, BoundarySeconds(""))
}
