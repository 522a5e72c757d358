package templates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PGCatalog reads descriptors from the templates table. Rows are validated
// on read.
type PGCatalog struct {
	DB *sql.DB
}

func (c *PGCatalog) List(ctx context.Context) ([]Descriptor, error) {
	rows, err := c.DB.QueryContext(ctx, `SELECT descriptor FROM templates ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Descriptor, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		d, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (c *PGCatalog) Get(ctx context.Context, id string) (Descriptor, error) {
	var raw []byte
	err := c.DB.QueryRowContext(ctx, `SELECT descriptor FROM templates WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Descriptor{}, err
	}
	return Parse(raw)
}

// Seed inserts descriptors that are not stored yet, keeping their order.
func (c *PGCatalog) Seed(ctx context.Context, items []Descriptor) error {
	if len(items) == 0 {
		return nil
	}
	builder := psql.Insert("templates").Columns("id", "name", "descriptor", "sort_order")
	for i, d := range items {
		raw, err := json.Marshal(d)
		if err != nil {
			return err
		}
		builder = builder.Values(d.ID, d.Name, sq.Expr("?::jsonb", string(raw)), i+1)
	}
	query, args, err := builder.Suffix("ON CONFLICT (id) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build seed query: %w", err)
	}
	_, err = c.DB.ExecContext(ctx, query, args...)
	return err
}

var _ Catalog = (*PGCatalog)(nil)
