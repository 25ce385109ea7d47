package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind of analytics view served by the API
type Kind string

const (
	KindSwaps       Kind = "swaps"
	KindOhlcv       Kind = "ohlcv"
	KindPoolStats   Kind = "pool-stats"
	KindBorrowStats Kind = "borrow-stats"
)

// Calendar granularity of a time bucket
type Interval string

const (
	IntervalMinute Interval = "minute"
	IntervalHour   Interval = "hour"
	IntervalDay    Interval = "day"
)

// Lookback window for time-filtered views
type Filter string

const (
	FilterDay   Filter = "day"
	FilterWeek  Filter = "week"
	FilterMonth Filter = "month"
	FilterYear  Filter = "year"
)

// Lookback converts the filter to a duration back from now
func (f Filter) Lookback() time.Duration {
	switch f {
	case FilterDay:
		return 24 * time.Hour
	case FilterWeek:
		return 7 * 24 * time.Hour
	case FilterMonth:
		return 30 * 24 * time.Hour
	case FilterYear:
		return 365 * 24 * time.Hour
	}
	return 0
}

// StatsRequest is a validated analytics request; every field present
// has already passed domain-membership validation, nothing free-form
// reaches the query layer
type StatsRequest struct {
	Kind     Kind
	Pool     *int64   // optional for pool/borrow stats, required otherwise
	User     string   // swaps listing only, base58 account
	Interval Interval // empty for the swaps listing
	Filter   Filter   // empty for borrow stats
}

// Row of the raw swaps listing; money columns stay exact
type SwapRow struct {
	BlockTime time.Time       `json:"block_time"`
	Pool      int64           `json:"pool"`
	User      string          `json:"user"`
	Price     float64         `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
	Fees      decimal.Decimal `json:"fees"`
	IsBuy     bool            `json:"is_buy"`
}

// Candle is one OHLCV bucket
type Candle struct {
	Bucket time.Time `json:"bucket"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	Fees   float64   `json:"fees"`
}

// PoolStatRow combines point-in-time liquidity with per-bucket trading
// volume and fees; either side may be zero when the bucket only has the
// other one
type PoolStatRow struct {
	Bucket           time.Time `json:"bucket"`
	Pool             int64     `json:"pool"`
	TotalLiquidity   float64   `json:"total_liquidity"`
	TradingVolume    float64   `json:"trading_volume"`
	TotalTradingFees float64   `json:"total_trading_fees"`
}

// BorrowStatRow carries cumulative borrow/collateral sums; rows come in
// two classes (all-time and older-than-24h) distinguished by bucket time
type BorrowStatRow struct {
	Bucket               time.Time `json:"bucket"`
	Pool                 int64     `json:"pool"`
	CumulativeBorrowed   float64   `json:"cumulative_borrowed"`
	CumulativeCollateral float64   `json:"cumulative_collateral"`
}
