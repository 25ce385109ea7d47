package analytics

import (
	"strconv"
	"strings"

	"cometstats/internal/domain"
)

/*
	Canonical cache keys, one per validated request. Fields join in a
	fixed per-kind order with ":"; absent optional fields contribute
	nothing, so a pool-scoped key never collides with an unscoped one.

	swaps:        swaps:<filter>:<user>:<pool>
	ohlcv:        <interval>:<filter>:<pool>
	pool stats:   stats[:<pool>]:<interval>
	borrow stats: borrow-stats:<interval>[:<pool>]
*/

// Key is a pure function of the validated request fields
func Key(req *domain.StatsRequest) string {
	switch req.Kind {
	case domain.KindSwaps:
		return strings.Join([]string{
			"swaps", string(req.Filter), req.User, formatPool(req.Pool),
		}, ":")

	case domain.KindOhlcv:
		return strings.Join([]string{
			string(req.Interval), string(req.Filter), formatPool(req.Pool),
		}, ":")

	case domain.KindPoolStats:
		parts := []string{"stats"}
		if req.Pool != nil {
			parts = append(parts, formatPool(req.Pool))
		}
		parts = append(parts, string(req.Interval))
		return strings.Join(parts, ":")

	case domain.KindBorrowStats:
		parts := []string{"borrow-stats", string(req.Interval)}
		if req.Pool != nil {
			parts = append(parts, formatPool(req.Pool))
		}
		return strings.Join(parts, ":")
	}
	return ""
}

func formatPool(pool *int64) string {
	if pool == nil {
		return ""
	}
	return strconv.FormatInt(*pool, 10)
}
