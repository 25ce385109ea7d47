package clickhouse

import (
	"context"
	"fmt"
	"time"

	"cometstats/internal/analytics"
	"cometstats/internal/domain"
)

// AnalyticsStore answers the four aggregation views against the
// ledger-derived tables. Read-only: the ingestion pipeline owns writes
type AnalyticsStore struct {
	conn  *Conn
	clock func() time.Time
}

func NewAnalyticsStore(conn *Conn) (*AnalyticsStore, error) {
	if conn == nil {
		return nil, fmt.Errorf("clickhouse conn is required to the analytics store")
	}
	return &AnalyticsStore{conn: conn, clock: time.Now}, nil
}

// Compile-time interface check.
var _ analytics.DataSource = (*AnalyticsStore)(nil)

func (s *AnalyticsStore) Swaps(ctx context.Context, req *domain.StatsRequest) ([]domain.SwapRow, error) {
	since := s.clock().Add(-req.Filter.Lookback())
	q, args := swapsQuery(*req.Pool, req.User, since)

	rows, err := s.conn.Native.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query swaps: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SwapRow, 0)
	for rows.Next() {
		var r domain.SwapRow
		if err = rows.Scan(&r.BlockTime, &r.Pool, &r.User, &r.Price, &r.Amount, &r.Fees, &r.IsBuy); err != nil {
			return nil, fmt.Errorf("scan swap row: %w", err)
		}
		out = append(out, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap rows: %w", err)
	}
	return out, nil
}

func (s *AnalyticsStore) Ohlcv(ctx context.Context, req *domain.StatsRequest) ([]domain.Candle, error) {
	since := s.clock().Add(-req.Filter.Lookback())
	q, args := ohlcvQuery(*req.Pool, req.Interval, since)

	rows, err := s.conn.Native.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query ohlcv: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Candle, 0)
	for rows.Next() {
		var c domain.Candle
		if err = rows.Scan(&c.Bucket, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &c.Fees); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		out = append(out, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candles: %w", err)
	}
	return out, nil
}

func (s *AnalyticsStore) PoolStats(ctx context.Context, req *domain.StatsRequest) ([]domain.PoolStatRow, error) {
	q, args := poolStatsQuery(req.Pool, req.Interval)

	rows, err := s.conn.Native.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query pool stats: %w", err)
	}
	defer rows.Close()

	out := make([]domain.PoolStatRow, 0)
	for rows.Next() {
		var r domain.PoolStatRow
		if err = rows.Scan(&r.Bucket, &r.Pool, &r.TotalLiquidity, &r.TradingVolume, &r.TotalTradingFees); err != nil {
			return nil, fmt.Errorf("scan pool stat row: %w", err)
		}
		out = append(out, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pool stat rows: %w", err)
	}
	return out, nil
}

func (s *AnalyticsStore) BorrowStats(ctx context.Context, req *domain.StatsRequest) ([]domain.BorrowStatRow, error) {
	now := s.clock()
	q, args := borrowStatsQuery(req.Pool, now, now.Add(-24*time.Hour))

	rows, err := s.conn.Native.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query borrow stats: %w", err)
	}
	defer rows.Close()

	out := make([]domain.BorrowStatRow, 0)
	for rows.Next() {
		var r domain.BorrowStatRow
		if err = rows.Scan(&r.Bucket, &r.Pool, &r.CumulativeBorrowed, &r.CumulativeCollateral); err != nil {
			return nil, fmt.Errorf("scan borrow stat row: %w", err)
		}
		out = append(out, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate borrow stat rows: %w", err)
	}
	return out, nil
}

func (s *AnalyticsStore) Ping(ctx context.Context) error {
	return s.conn.Native.Ping(ctx)
}
