package analytics

import (
	"strings"
	"testing"

	"cometstats/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = strings.Repeat("A", 44)

func swapParams() map[string]string {
	return map[string]string{"pool": "0", "user": testUser, "filter": "year"}
}

// ========== Swaps ==========

func TestParseSwaps_Valid(t *testing.T) {
	req, err := ParseSwaps(swapParams())

	require.NoError(t, err)
	require.NotNil(t, req.Pool)
	assert.Equal(t, domain.KindSwaps, req.Kind)
	assert.Equal(t, int64(0), *req.Pool)
	assert.Equal(t, testUser, req.User)
	assert.Equal(t, domain.FilterYear, req.Filter)
}

func TestParseSwaps_RejectsBadPool(t *testing.T) {
	for _, bad := range []string{"-1", "abc", "1.5", ""} {
		p := swapParams()
		p["pool"] = bad

		_, err := ParseSwaps(p)

		var invalid *domain.InvalidInputError
		require.ErrorAs(t, err, &invalid, "pool=%q", bad)
		assert.Equal(t, "pool", invalid.Field)
		assert.Contains(t, invalid.Error(), "base-10 integer")
	}
}

func TestParseSwaps_RejectsBadUser(t *testing.T) {
	for _, bad := range []string{"", "short", strings.Repeat("A", 45), strings.Repeat("0", 40), "'; DROP TABLE swap_event; --"} {
		p := swapParams()
		p["user"] = bad
		if bad == "" {
			delete(p, "user")
		}

		_, err := ParseSwaps(p)

		var invalid *domain.InvalidInputError
		require.ErrorAs(t, err, &invalid, "user=%q", bad)
		assert.Equal(t, "user", invalid.Field)
	}
}

func TestParseSwaps_RejectsBadFilter(t *testing.T) {
	p := swapParams()
	p["filter"] = "decade"

	_, err := ParseSwaps(p)

	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "filter", invalid.Field)
	assert.Contains(t, invalid.Error(), "day, week, month, year")
}

// ========== OHLCV ==========

func TestParseOhlcv_Valid(t *testing.T) {
	for _, iv := range []string{"minute", "hour", "day"} {
		req, err := ParseOhlcv(map[string]string{"pool": "3", "interval": iv, "filter": "week"})

		require.NoError(t, err)
		assert.Equal(t, domain.Interval(iv), req.Interval)
		assert.Equal(t, int64(3), *req.Pool)
	}
}

func TestParseOhlcv_RejectsBadInterval(t *testing.T) {
	_, err := ParseOhlcv(map[string]string{"pool": "3", "interval": "century", "filter": "week"})

	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "interval", invalid.Field)
	assert.Equal(t, "century", invalid.Value)
}

func TestParseOhlcv_PoolRequired(t *testing.T) {
	_, err := ParseOhlcv(map[string]string{"interval": "day", "filter": "week"})

	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "pool", invalid.Field)
}

// ========== Pool stats ==========

func TestParsePoolStats_PoolOptional(t *testing.T) {
	req, err := ParsePoolStats(map[string]string{"interval": "day"})
	require.NoError(t, err)
	assert.Nil(t, req.Pool)

	req, err = ParsePoolStats(map[string]string{"interval": "hour", "pool": "7"})
	require.NoError(t, err)
	require.NotNil(t, req.Pool)
	assert.Equal(t, int64(7), *req.Pool)
}

func TestParsePoolStats_IntervalDomain(t *testing.T) {
	// minute is OHLCV-only
	_, err := ParsePoolStats(map[string]string{"interval": "minute"})

	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "interval", invalid.Field)
	assert.Contains(t, invalid.Error(), "day, hour")
}

func TestParsePoolStats_FilterValidatedWhenPresent(t *testing.T) {
	_, err := ParsePoolStats(map[string]string{"interval": "day", "filter": "decade"})

	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "filter", invalid.Field)

	_, err = ParsePoolStats(map[string]string{"interval": "day", "filter": "month"})
	assert.NoError(t, err)
}

// ========== Borrow stats ==========

func TestParseBorrowStats_Valid(t *testing.T) {
	req, err := ParseBorrowStats(map[string]string{"interval": "hour"})

	require.NoError(t, err)
	assert.Equal(t, domain.KindBorrowStats, req.Kind)
	assert.Equal(t, domain.IntervalHour, req.Interval)
	assert.Empty(t, req.Filter)
}

func TestParseBorrowStats_RejectsBadInterval(t *testing.T) {
	_, err := ParseBorrowStats(map[string]string{"interval": "minute"})

	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "interval", invalid.Field)
}
