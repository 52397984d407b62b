package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swapEngine/internal/model"
)

// Store provides Postgres persistence for computed pool metrics.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertPool inserts or updates a pool snapshot.
func (s *Store) UpsertPool(ctx context.Context, pool model.Pool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pools (
			pool_address, symbol0, symbol1, reserve0, reserve1,
			precision0, precision1, lp_supply, fee_rate_bps, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (pool_address)
		DO UPDATE SET
			symbol0 = EXCLUDED.symbol0,
			symbol1 = EXCLUDED.symbol1,
			reserve0 = EXCLUDED.reserve0,
			reserve1 = EXCLUDED.reserve1,
			precision0 = EXCLUDED.precision0,
			precision1 = EXCLUDED.precision1,
			lp_supply = EXCLUDED.lp_supply,
			fee_rate_bps = EXCLUDED.fee_rate_bps,
			updated_at = now()
	`,
		pool.Address,
		pool.Symbol0,
		pool.Symbol1,
		pool.Reserve0.String(),
		pool.Reserve1.String(),
		pool.Precision0,
		pool.Precision1,
		pool.LPSupply.String(),
		pool.FeeRateBps,
	)
	return err
}

// UpsertWindowMetrics inserts or updates windowed metrics for a pool.
func (s *Store) UpsertWindowMetrics(ctx context.Context, metrics []model.WindowedMetrics) error {
	if len(metrics) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range metrics {
		batch.Queue(`
			INSERT INTO pool_window_metrics (
				pool_address, window_hours, volume_usd, fees_usd, tvl_usd,
				apr_pct, swap_count, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			ON CONFLICT (pool_address, window_hours)
			DO UPDATE SET
				volume_usd = EXCLUDED.volume_usd,
				fees_usd = EXCLUDED.fees_usd,
				tvl_usd = EXCLUDED.tvl_usd,
				apr_pct = EXCLUDED.apr_pct,
				swap_count = EXCLUDED.swap_count,
				updated_at = now()
		`,
			m.PoolAddress,
			m.WindowHours,
			m.VolumeUSD.String(),
			m.FeesUSD.String(),
			m.TVLUSD.String(),
			m.APRPct.String(),
			int64(m.SwapCount),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range metrics {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
