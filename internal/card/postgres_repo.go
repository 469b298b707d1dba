package card

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"cardconjurer/internal/cardtext"
)

// dbtx is the query surface shared by the pool and a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepo struct {
	pool    *pgxpool.Pool
	db      dbtx
	timeout time.Duration
}

func NewPostgresRepo(pool *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{pool: pool, db: pool, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) WithTx(ctx context.Context, fn func(Repository) error) error {
	if r.pool == nil {
		// Already inside a transaction.
		return fn(r)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&PostgresRepo{db: tx, timeout: r.timeout})
	})
}

const cardColumns = `id, set_id, front, back, front_art, front_image, back_art, back_image, created_at, updated_at`

func scanCard(row pgx.Row) (Card, error) {
	var c Card
	err := row.Scan(
		&c.ID, &c.SetID, &c.Front, &c.Back,
		&c.FrontArt, &c.FrontImage, &c.BackArt, &c.BackImage,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// faceArg stores an empty face as SQL NULL.
func faceArg(f cardtext.Face) any {
	if len(f) == 0 {
		return nil
	}
	return f
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrSetNotFound
	}
	return err
}

func (r *PostgresRepo) Create(ctx context.Context, c *Card) error {
	const query = `
		INSERT INTO cards (set_id, front, back, front_art, front_image, back_art, back_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		c.SetID, faceArg(c.Front), faceArg(c.Back),
		c.FrontArt, c.FrontImage, c.BackArt, c.BackImage,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapWriteError(err)
}

func (r *PostgresRepo) Update(ctx context.Context, c *Card) error {
	const query = `
		UPDATE cards
		SET set_id = $2, front = $3, back = $4,
		    front_art = $5, front_image = $6, back_art = $7, back_image = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		c.ID, c.SetID, faceArg(c.Front), faceArg(c.Back),
		c.FrontArt, c.FrontImage, c.BackArt, c.BackImage,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return mapWriteError(err)
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Card, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	c, err := scanCard(r.db.QueryRow(timeoutCtx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Card{}, ErrNotFound
		}
		return Card{}, err
	}
	return c, nil
}

func (r *PostgresRepo) ListBySet(ctx context.Context, setID int64) ([]Card, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, `SELECT `+cardColumns+` FROM cards WHERE set_id = $1 ORDER BY id`, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
