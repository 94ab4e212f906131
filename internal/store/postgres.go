package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an open pool. The pool's schema must already be applied.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// acquire takes one connection from the pool. Callers must Release it.
func (p *Postgres) acquire(ctx context.Context, op string) (*pgxpool.Conn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, unavailable(op, err)
	}
	return conn, nil
}

func (p *Postgres) Count(ctx context.Context) (int64, error) {
	conn, err := p.acquire(ctx, "count validators")
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var n int64
	if err := conn.QueryRow(ctx, "SELECT count(*) FROM validators").Scan(&n); err != nil {
		return 0, queryFailed("count validators", err)
	}
	return n, nil
}

func (p *Postgres) SumMissedAttestations(ctx context.Context) (int64, error) {
	conn, err := p.acquire(ctx, "sum missed attestations")
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var sum int64
	err = conn.QueryRow(ctx,
		"SELECT COALESCE(SUM(missed_attestations), 0)::BIGINT FROM validators").Scan(&sum)
	if err != nil {
		return 0, queryFailed("sum missed attestations", err)
	}
	return sum, nil
}

func (p *Postgres) Get(ctx context.Context, id int32) (Validator, error) {
	conn, err := p.acquire(ctx, "get validator")
	if err != nil {
		return Validator{}, err
	}
	defer conn.Release()

	var v Validator
	err = conn.QueryRow(ctx,
		"SELECT id, public_key, missed_attestations FROM validators WHERE id=$1", id,
	).Scan(&v.ID, &v.PublicKey, &v.MissedAttestations)
	if errors.Is(err, pgx.ErrNoRows) {
		return Validator{}, notFound("get validator", id)
	}
	if err != nil {
		return Validator{}, queryFailed("get validator", err)
	}
	return v, nil
}

func (p *Postgres) UpsertIgnore(ctx context.Context, rows []Validator) error {
	if len(rows) == 0 {
		return nil
	}
	conn, err := p.acquire(ctx, "upsert validators")
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return queryFailed("upsert validators", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, v := range rows {
		batch.Queue(`
			INSERT INTO validators (id, public_key, missed_attestations)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING`,
			v.ID, v.PublicKey, v.MissedAttestations)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return queryFailed("upsert validators", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return queryFailed("upsert validators", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}
