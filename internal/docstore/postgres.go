package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PG[T any] struct {
	pool *pgxpool.Pool
	name string
	opts options
}

func NewPG[T any](pool *pgxpool.Pool, name string, opts ...Option) *PG[T] {
	return &PG[T]{pool: pool, name: name, opts: buildOptions(opts)}
}

func (c *PG[T]) Name() string { return c.name }

func (c *PG[T]) Add(ctx context.Context, data T) (Doc[T], error) {
	docs, err := c.AddBatch(ctx, []T{data})
	if err != nil {
		return Doc[T]{}, err
	}
	return docs[0], nil
}

func (c *PG[T]) AddBatch(ctx context.Context, data []T) ([]Doc[T], error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// serialise numbering within the collection
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, c.name); err != nil {
		return nil, fmt.Errorf("lock %s: %w", c.name, err)
	}

	out := make([]Doc[T], 0, len(data))
	for _, d := range data {
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", c.name, err)
		}
		row := tx.QueryRow(ctx, `
			INSERT INTO documents (id, collection, sl_no, data)
			VALUES ($1, $2,
				(SELECT COALESCE(MAX(sl_no), 0) + 1 FROM documents WHERE collection = $2),
				$3)
			RETURNING id, sl_no, created_at, data
		`, uuid.NewString(), c.name, raw)
		doc, err := scanDoc[T](row)
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", c.name, err)
		}
		out = append(out, doc)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	c.opts.observe(c.name, "add")
	return out, nil
}

func (c *PG[T]) Get(ctx context.Context, id string) (Doc[T], error) {
	row := c.pool.QueryRow(ctx, `
		SELECT id, sl_no, created_at, data FROM documents
		WHERE collection = $1 AND id = $2
	`, c.name, id)
	doc, err := scanDoc[T](row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Doc[T]{}, ErrNotFound
	}
	return doc, err
}

func (c *PG[T]) Update(ctx context.Context, id string, data T) (Doc[T], error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Doc[T]{}, fmt.Errorf("marshal %s: %w", c.name, err)
	}
	row := c.pool.QueryRow(ctx, `
		UPDATE documents SET data = $3, updated_at = now()
		WHERE collection = $1 AND id = $2
		RETURNING id, sl_no, created_at, data
	`, c.name, id, raw)
	doc, err := scanDoc[T](row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Doc[T]{}, ErrNotFound
	}
	if err != nil {
		return Doc[T]{}, err
	}
	c.opts.observe(c.name, "update")
	return doc, nil
}

func (c *PG[T]) Delete(ctx context.Context, id string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, c.name, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	c.opts.observe(c.name, "delete")
	return nil
}

func (c *PG[T]) List(ctx context.Context) ([]Doc[T], error) {
	rows, err := c.pool.Query(ctx, `
		SELECT id, sl_no, created_at, data FROM documents
		WHERE collection = $1
		ORDER BY sl_no
	`, c.name)
	if err != nil {
		return nil, err
	}
	return collectDocs[T](rows)
}

func (c *PG[T]) Find(ctx context.Context, field, value string) ([]Doc[T], error) {
	rows, err := c.pool.Query(ctx, `
		SELECT id, sl_no, created_at, data FROM documents
		WHERE collection = $1 AND data->>($2::text) = $3
		ORDER BY sl_no
	`, c.name, field, value)
	if err != nil {
		return nil, err
	}
	return collectDocs[T](rows)
}

func scanDoc[T any](row pgx.Row) (Doc[T], error) {
	var doc Doc[T]
	var raw []byte
	if err := row.Scan(&doc.ID, &doc.SlNo, &doc.CreatedAt, &raw); err != nil {
		return Doc[T]{}, err
	}
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return Doc[T]{}, fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return doc, nil
}

func collectDocs[T any](rows pgx.Rows) ([]Doc[T], error) {
	defer rows.Close()
	out := []Doc[T]{}
	for rows.Next() {
		doc, err := scanDoc[T](rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}
