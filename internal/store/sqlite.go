package store

import (
	"context"
	"database/sql"
	"errors"
)

// SQLite is a Store backed by an embedded SQLite database, used for local
// runs and tests.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) conn(ctx context.Context, op string) (*sql.Conn, error) {
	c, err := s.db.Conn(ctx)
	if err != nil {
		return nil, unavailable(op, err)
	}
	return c, nil
}

func (s *SQLite) Count(ctx context.Context) (int64, error) {
	c, err := s.conn(ctx, "count validators")
	if err != nil {
		return 0, err
	}
	defer c.Close()

	var n int64
	if err := c.QueryRowContext(ctx, "SELECT count(*) FROM validators").Scan(&n); err != nil {
		return 0, queryFailed("count validators", err)
	}
	return n, nil
}

func (s *SQLite) SumMissedAttestations(ctx context.Context) (int64, error) {
	c, err := s.conn(ctx, "sum missed attestations")
	if err != nil {
		return 0, err
	}
	defer c.Close()

	var sum int64
	err = c.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(missed_attestations), 0) FROM validators").Scan(&sum)
	if err != nil {
		return 0, queryFailed("sum missed attestations", err)
	}
	return sum, nil
}

func (s *SQLite) Get(ctx context.Context, id int32) (Validator, error) {
	c, err := s.conn(ctx, "get validator")
	if err != nil {
		return Validator{}, err
	}
	defer c.Close()

	var v Validator
	err = c.QueryRowContext(ctx,
		"SELECT id, public_key, missed_attestations FROM validators WHERE id = ?", id,
	).Scan(&v.ID, &v.PublicKey, &v.MissedAttestations)
	if errors.Is(err, sql.ErrNoRows) {
		return Validator{}, notFound("get validator", id)
	}
	if err != nil {
		return Validator{}, queryFailed("get validator", err)
	}
	return v, nil
}

func (s *SQLite) UpsertIgnore(ctx context.Context, rows []Validator) error {
	if len(rows) == 0 {
		return nil
	}
	c, err := s.conn(ctx, "upsert validators")
	if err != nil {
		return err
	}
	defer c.Close()

	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return queryFailed("upsert validators", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO validators (id, public_key, missed_attestations)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return queryFailed("upsert validators", err)
	}
	defer stmt.Close()

	for _, v := range rows {
		if _, err := stmt.ExecContext(ctx, v.ID, v.PublicKey, v.MissedAttestations); err != nil {
			return queryFailed("upsert validators", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return queryFailed("upsert validators", err)
	}
	return nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *SQLite) Close() {
	s.db.Close()
}
