package analytics

import (
	"strconv"

	"cometstats/internal/domain"
)

/*
	Per-kind request validation. Raw params are a flat string map; every
	field goes through an enumerated-domain or numeric check before it
	may appear in a cache key or query. This is the only gate between
	caller-controlled text and the query layer.
*/

const (
	allowedFilters       = "one of day, week, month, year"
	allowedOhlcvSteps    = "one of minute, hour, day"
	allowedStatsSteps    = "one of day, hour"
	allowedPool          = "a base-10 integer >= 0"
	allowedUser          = "a base58 account id (32-44 chars)"
	base58Alphabet       = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	userMinLen, userMaxLen = 32, 44
)

// ParseSwaps validates params for the raw swap listing:
// pool and user required, filter required, no interval
func ParseSwaps(params map[string]string) (*domain.StatsRequest, error) {
	req := &domain.StatsRequest{Kind: domain.KindSwaps}

	pool, err := parsePool(params, true)
	if err != nil {
		return nil, err
	}
	req.Pool = pool

	if req.User, err = parseUser(params); err != nil {
		return nil, err
	}

	if req.Filter, err = parseFilter(params, true); err != nil {
		return nil, err
	}

	return req, nil
}

// ParseOhlcv validates params for OHLCV candles:
// pool required, interval in {minute, hour, day}, filter required
func ParseOhlcv(params map[string]string) (*domain.StatsRequest, error) {
	req := &domain.StatsRequest{Kind: domain.KindOhlcv}

	pool, err := parsePool(params, true)
	if err != nil {
		return nil, err
	}
	req.Pool = pool

	req.Interval, err = parseInterval(params, allowedOhlcvSteps,
		domain.IntervalMinute, domain.IntervalHour, domain.IntervalDay)
	if err != nil {
		return nil, err
	}

	if req.Filter, err = parseFilter(params, true); err != nil {
		return nil, err
	}

	return req, nil
}

// ParsePoolStats validates params for pool statistics:
// pool optional, interval in {day, hour}. A filter is accepted for
// compatibility and validated when present, but the view is capped to
// the most recent buckets and ignores it
func ParsePoolStats(params map[string]string) (*domain.StatsRequest, error) {
	req := &domain.StatsRequest{Kind: domain.KindPoolStats}

	pool, err := parsePool(params, false)
	if err != nil {
		return nil, err
	}
	req.Pool = pool

	req.Interval, err = parseInterval(params, allowedStatsSteps,
		domain.IntervalDay, domain.IntervalHour)
	if err != nil {
		return nil, err
	}

	if _, err = parseFilter(params, false); err != nil {
		return nil, err
	}

	return req, nil
}

// ParseBorrowStats validates params for borrow statistics:
// pool optional, interval in {day, hour}, no filter
func ParseBorrowStats(params map[string]string) (*domain.StatsRequest, error) {
	req := &domain.StatsRequest{Kind: domain.KindBorrowStats}

	pool, err := parsePool(params, false)
	if err != nil {
		return nil, err
	}
	req.Pool = pool

	req.Interval, err = parseInterval(params, allowedStatsSteps,
		domain.IntervalDay, domain.IntervalHour)
	if err != nil {
		return nil, err
	}

	return req, nil
}

func parsePool(params map[string]string, required bool) (*int64, error) {
	raw, ok := params["pool"]
	if !ok || raw == "" {
		if required {
			return nil, &domain.InvalidInputError{Field: "pool", Value: "", Allowed: allowedPool}
		}
		return nil, nil
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return nil, &domain.InvalidInputError{Field: "pool", Value: raw, Allowed: allowedPool}
	}
	return &n, nil
}

func parseInterval(params map[string]string, allowed string, members ...domain.Interval) (domain.Interval, error) {
	raw := params["interval"]
	for _, m := range members {
		if raw == string(m) {
			return m, nil
		}
	}
	return "", &domain.InvalidInputError{Field: "interval", Value: raw, Allowed: allowed}
}

func parseFilter(params map[string]string, required bool) (domain.Filter, error) {
	raw, ok := params["filter"]
	if !ok || raw == "" {
		if required {
			return "", &domain.InvalidInputError{Field: "filter", Value: "", Allowed: allowedFilters}
		}
		return "", nil
	}

	switch f := domain.Filter(raw); f {
	case domain.FilterDay, domain.FilterWeek, domain.FilterMonth, domain.FilterYear:
		return f, nil
	}
	return "", &domain.InvalidInputError{Field: "filter", Value: raw, Allowed: allowedFilters}
}

func parseUser(params map[string]string) (string, error) {
	raw := params["user"]
	if len(raw) < userMinLen || len(raw) > userMaxLen {
		return "", &domain.InvalidInputError{Field: "user", Value: raw, Allowed: allowedUser}
	}
	for i := 0; i < len(raw); i++ {
		if !isBase58(raw[i]) {
			return "", &domain.InvalidInputError{Field: "user", Value: raw, Allowed: allowedUser}
		}
	}
	return raw, nil
}

func isBase58(c byte) bool {
	for i := 0; i < len(base58Alphabet); i++ {
		if base58Alphabet[i] == c {
			return true
		}
	}
	return false
}
