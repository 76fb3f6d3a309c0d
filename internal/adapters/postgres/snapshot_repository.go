package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinsort/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func (r *SnapshotRepository) GetByBase(ctx context.Context, base string) (domain.ExchangeRateSnapshot, error) {
	const q = `
        select rs.id, rs.base, rs.rates, rs.fetched_at
        from latest_rate_snapshots lrs join rate_snapshots rs on rs.id = lrs.snapshot_id
        where lrs.base = $1;
    `

	var (
		snap     domain.ExchangeRateSnapshot
		ratesRaw []byte
	)
	if err := r.pool.QueryRow(ctx, q, base).Scan(&snap.ID, &snap.Base, &ratesRaw, &snap.FetchedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ExchangeRateSnapshot{}, domain.ErrSnapshotNotFound
		}
		return domain.ExchangeRateSnapshot{}, fmt.Errorf("failed to select snapshot for base %q: %w", base, err)
	}

	var rates map[string]decimal.Decimal
	if err := json.Unmarshal(ratesRaw, &rates); err != nil {
		return domain.ExchangeRateSnapshot{}, fmt.Errorf("failed to decode rates for base %q: %w", base, err)
	}
	snap.Rates = rates
	snap.FetchedAt = snap.FetchedAt.UTC()
	return snap, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, snapshot domain.ExchangeRateSnapshot) error {
	ratesJSON, err := json.Marshal(snapshot.Rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates for base %q: %w", snapshot.Base, err)
	}

	const insertSnapshot = `
		insert into rate_snapshots (id, base, rates, fetched_at)
		values ($1, $2, $3::jsonb, $4)
		on conflict (id) do nothing;
	`
	const pointLatest = `
		insert into latest_rate_snapshots (base, snapshot_id, updated_at)
		values ($1, $2, now())
		on conflict (base) do update
		set snapshot_id = excluded.snapshot_id, updated_at = now()
		where (select fetched_at from rate_snapshots where id = latest_rate_snapshots.snapshot_id) <= $3;
	`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, insertSnapshot, snapshot.ID, snapshot.Base, string(ratesJSON), snapshot.FetchedAt); err != nil {
		return fmt.Errorf("failed to insert snapshot for base %q: %w", snapshot.Base, err)
	}
	if _, err = tx.Exec(ctx, pointLatest, snapshot.Base, snapshot.ID, snapshot.FetchedAt); err != nil {
		return fmt.Errorf("failed to point latest snapshot for base %q: %w", snapshot.Base, err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}
