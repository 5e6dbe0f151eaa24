package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the text store tables for the configured prefix
// if they do not exist. Revisions live one per row so history appends
// are inserts; the composite key makes concurrent appends conflict
// instead of overwriting each other.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	createTexts := `
		CREATE TABLE IF NOT EXISTS ` + tables.Texts + ` (
			id UUID NOT NULL,
			lang TEXT NOT NULL,
			section_id UUID,
			keywords JSONB,
			PRIMARY KEY (id, lang)
		)
	`
	if _, err := pool.Exec(ctx, createTexts); err != nil {
		return fmt.Errorf("create texts table: %w", err)
	}

	createRevisions := `
		CREATE TABLE IF NOT EXISTS ` + tables.TextRevisions + ` (
			text_id UUID NOT NULL,
			lang TEXT NOT NULL,
			revision_seq INTEGER NOT NULL,
			content BYTEA NOT NULL,
			translated BOOLEAN NOT NULL DEFAULT FALSE,
			machine_translation BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by_id UUID NOT NULL,
			PRIMARY KEY (text_id, lang, revision_seq),
			FOREIGN KEY (text_id, lang) REFERENCES ` + tables.Texts + ` (id, lang) ON DELETE CASCADE
		)
	`
	if _, err := pool.Exec(ctx, createRevisions); err != nil {
		return fmt.Errorf("create text revisions table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Texts + `_section ON ` + tables.Texts + ` (section_id, lang)`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}
