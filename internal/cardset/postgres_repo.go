package cardset

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const selectSets = `
	SELECT s.id, s.name, s.code, s.set_symbol, COUNT(c.id), s.created_at, s.updated_at
	FROM sets s
	LEFT JOIN cards c ON c.set_id = s.id`

func scanSet(row pgx.Row) (Set, error) {
	var s Set
	err := row.Scan(&s.ID, &s.Name, &s.Code, &s.SetSymbol, &s.CardCount, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *PostgresRepo) List(ctx context.Context) ([]Set, error) {
	const query = selectSets + `
	GROUP BY s.id
	ORDER BY s.name, s.id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Set{}
	for rows.Next() {
		s, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Set, error) {
	const query = selectSets + `
	WHERE s.id = $1
	GROUP BY s.id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	s, err := scanSet(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Set{}, ErrNotFound
		}
		return Set{}, err
	}
	return s, nil
}

func (r *PostgresRepo) Create(ctx context.Context, in Input) (int64, error) {
	const query = `
		INSERT INTO sets (name, code, set_symbol, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var id int64
	err := r.db.QueryRow(timeoutCtx, query, in.Name, in.Code, in.SetSymbol).Scan(&id)
	return id, err
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, in Input) error {
	const query = `
		UPDATE sets
		SET name = $2, code = $3, set_symbol = $4, updated_at = NOW()
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, id, in.Name, in.Code, in.SetSymbol)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM sets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
