package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/courseloop/assessment-platform/internal/assessment"
	"github.com/courseloop/assessment-platform/internal/item"
)

// DB is the slice of pgxpool.Pool the repositories use, kept small so
// tests can stub it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ItemRepository stores authored items with the full payload as JSONB;
// the kind column is denormalized for reporting queries.
type ItemRepository struct {
	db DB
}

var _ item.Store = (*ItemRepository)(nil)

func NewItemRepository(db DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Insert(ctx context.Context, it assessment.Item) error {
	payload, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO items (item_id, kind, payload, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())`,
		it.ID, it.Kind, payload)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepository) Update(ctx context.Context, it assessment.Item) error {
	payload, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE items SET kind = $2, payload = $3, updated_at = now()
		WHERE item_id = $1`,
		it.ID, it.Kind, payload)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return item.ErrNotFound
	}
	return nil
}

func (r *ItemRepository) Get(ctx context.Context, id string) (assessment.Item, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, `SELECT payload FROM items WHERE item_id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return assessment.Item{}, item.ErrNotFound
	}
	if err != nil {
		return assessment.Item{}, fmt.Errorf("get item: %w", err)
	}

	var it assessment.Item
	if err := json.Unmarshal(payload, &it); err != nil {
		return assessment.Item{}, fmt.Errorf("unmarshal item: %w", err)
	}
	return it, nil
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE item_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return item.ErrNotFound
	}
	return nil
}
