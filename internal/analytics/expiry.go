package analytics

import (
	"time"

	"cometstats/internal/domain"
)

// DefaultSwapsTTL is the unconditional short cache for the raw swap
// listing, which is not bucketed and has no natural rollover
const DefaultSwapsTTL = 15 * time.Second

// BoundarySeconds returns the bucket width in epoch seconds
func BoundarySeconds(iv domain.Interval) int64 {
	switch iv {
	case domain.IntervalMinute:
		return 60
	case domain.IntervalHour:
		return 3600
	case domain.IntervalDay:
		return 86400
	}
	return 0
}

// UntilBoundary computes the TTL so the entry expires exactly at the
// next wall-clock boundary of the interval, not now+width. Always in
// (0, width]: an entry created on a boundary lives one full bucket
func UntilBoundary(now time.Time, iv domain.Interval) time.Duration {
	b := BoundarySeconds(iv)
	if b == 0 {
		return 0
	}
	return time.Duration(b-now.Unix()%b) * time.Second
}
