package clickhouse

import (
	"fmt"
	"time"

	"cometstats/internal/domain"
)

/*
	Query text for the four aggregation views. Bucket functions come
	from a closed map keyed by the already-validated interval enum;
	every data value is a bound parameter. Defense in depth: even a
	validator regression cannot put caller text into query bodies.
*/

const rowCap = 1000

var bucketFn = map[domain.Interval]string{
	domain.IntervalMinute: "toStartOfMinute(block_time)",
	domain.IntervalHour:   "toStartOfHour(block_time)",
	domain.IntervalDay:    "toStartOfDay(block_time)",
}

// Per-trade price: quote per base on a buy, base per quote on a sell
const priceExpr = "if(is_buy, toFloat64(quote_amount) / toFloat64(base_amount), toFloat64(base_amount) / toFloat64(quote_amount))"

// swapsQuery lists one user's trades in one pool within the lookback
// window, in store order, capped
func swapsQuery(pool int64, user string, since time.Time) (string, []any) {
	q := fmt.Sprintf(`
		SELECT
			block_time,
			pool,
			user_address,
			toFloat64(quote_amount) / toFloat64(base_amount) AS price,
			base_amount AS amount,
			trading_fees + treasury_fees AS fees,
			is_buy
		FROM swap_event
		WHERE pool = ? AND user_address = ? AND block_time >= ?
		LIMIT %d`, rowCap)

	return q, []any{pool, user, since}
}

// ohlcvQuery buckets one pool's trades by calendar truncation.
// Open/close are the chronologically first/last price in the bucket
// (ledger slot breaks block-time ties), volume is the two-sided
// notional
func ohlcvQuery(pool int64, interval domain.Interval, since time.Time) (string, []any) {
	q := fmt.Sprintf(`
		SELECT
			%s AS bucket,
			argMin(%s, (block_time, slot)) AS open,
			max(%s) AS high,
			min(%s) AS low,
			argMax(%s, (block_time, slot)) AS close,
			sum(toFloat64(quote_amount) * 2) AS volume,
			sum(toFloat64(trading_fees + treasury_fees)) AS fees
		FROM swap_event
		WHERE pool = ? AND block_time >= ?
		GROUP BY bucket
		ORDER BY bucket ASC`,
		bucketFn[interval], priceExpr, priceExpr, priceExpr, priceExpr)

	return q, []any{pool, since}
}

// poolStatsQuery full-outer-joins per-bucket state snapshots with
// per-bucket trade sums on (bucket, pool), so buckets with only one
// side still appear with the other side zeroed. Liquidity is
// point-in-time from the latest state row in the bucket, latest ledger
// slot wins on equal times. Capped to the most recent rows, then
// re-ordered ascending
func poolStatsQuery(pool *int64, interval domain.Interval) (string, []any) {
	var (
		scope string
		args  []any
	)
	if pool != nil {
		scope = "WHERE pool = ?"
		// the filter applies to both join sides
		args = []any{*pool, *pool}
	}

	q := fmt.Sprintf(`
		SELECT bucket, pool, total_liquidity, trading_volume, total_trading_fees
		FROM (
			SELECT
				bucket,
				pool,
				ifNull(total_liquidity, 0) AS total_liquidity,
				ifNull(trading_volume, 0) AS trading_volume,
				ifNull(total_trading_fees, 0) AS total_trading_fees
			FROM (
				SELECT
					%s AS bucket,
					pool,
					argMax(toFloat64(quote_reserves) * 2, (block_time, slot)) AS total_liquidity
				FROM pool_state
				%s
				GROUP BY bucket, pool
			) AS state
			FULL OUTER JOIN (
				SELECT
					%s AS bucket,
					pool,
					sum(toFloat64(quote_amount) * 2) AS trading_volume,
					sum(toFloat64(trading_fees + treasury_fees)) AS total_trading_fees
				FROM swap_event
				%s
				GROUP BY bucket, pool
			) AS trades USING (bucket, pool)
			ORDER BY bucket DESC, pool ASC
			LIMIT %d
		)
		ORDER BY bucket ASC, pool ASC`,
		bucketFn[interval], scope, bucketFn[interval], scope, rowCap)

	return q, args
}

// borrowStatsQuery unions all-time cumulative borrow/collateral deltas
// with the same sums restricted to state older than 24h; subtracting
// the two row classes yields a trailing-24h delta
func borrowStatsQuery(pool *int64, now, cutoff time.Time) (string, []any) {
	var (
		scopeAll = ""
		scopeOld = "WHERE block_time <= ?"
		args     = []any{now}
	)
	if pool != nil {
		scopeAll = "WHERE pool = ?"
		scopeOld += " AND pool = ?"
		args = append(args, *pool, cutoff, cutoff, *pool)
	} else {
		args = append(args, cutoff, cutoff)
	}

	q := fmt.Sprintf(`
		SELECT bucket, pool, cumulative_borrowed, cumulative_collateral
		FROM (
			SELECT
				toDateTime(?) AS bucket,
				pool,
				sum(toFloat64(borrowed_delta)) AS cumulative_borrowed,
				sum(toFloat64(collateral_delta)) AS cumulative_collateral
			FROM borrow_update
			%s
			GROUP BY pool
			UNION ALL
			SELECT
				toDateTime(?) AS bucket,
				pool,
				sum(toFloat64(borrowed_delta)) AS cumulative_borrowed,
				sum(toFloat64(collateral_delta)) AS cumulative_collateral
			FROM borrow_update
			%s
			GROUP BY pool
		)
		ORDER BY bucket ASC, pool ASC`,
		scopeAll, scopeOld)

	return q, args
}
