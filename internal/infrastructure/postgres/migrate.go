package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed migrations/schema.sql
var schemaSQL string

// Migrate aplica el schema embebido. Todas las sentencias son IF NOT EXISTS.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("aplicar schema: %w", err)
	}
	return nil
}
