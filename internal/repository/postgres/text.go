package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"datadocs/internal/domain"
	"datadocs/internal/domain/models"
	"datadocs/internal/domain/repositories"
)

// appendRetries bounds how often an append chases the tail of a history
// that concurrent writers are extending.
const appendRetries = 3

// PostgresTextRepository implements the TextRepository interface.
// Histories are stored one revision per row keyed
// (text_id, lang, revision_seq), so appending is an insert and existing
// revisions are physically immutable.
type PostgresTextRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewTextRepository creates a new text repository
func NewTextRepository(config *RepositoryConfig) repositories.TextRepository {
	return &PostgresTextRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a text row and its first revision. Callers run this
// inside a transaction when pairing it with a shadow-language sibling.
func (r *PostgresTextRepository) Create(ctx context.Context, text *models.Text) error {
	if len(text.Revisions) != 1 {
		return fmt.Errorf("new text must carry exactly one revision: %w", domain.ErrValidation)
	}

	kws, err := marshalKeywords(text.Keywords)
	if err != nil {
		return err
	}

	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		INSERT INTO %s (id, lang, section_id, keywords)
		VALUES ($1, $2, $3, $4)
	`, r.tables.Texts)
	if _, err := executor.Exec(ctx, query, text.ID.String(), text.Lang.String(), uuidPtr(text.SectionID), kws); err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("text %s (%s): %w", text.ID, text.Lang, domain.ErrConflict)
		}
		return fmt.Errorf("create text: %w", err)
	}

	rev := &text.Revisions[0]
	rev.Seq = 1
	query = fmt.Sprintf(`
		INSERT INTO %s (text_id, lang, revision_seq, content, translated, machine_translation, created_at, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.TextRevisions)
	if _, err := executor.Exec(ctx, query,
		text.ID.String(),
		text.Lang.String(),
		rev.Seq,
		rev.EncryptedContent,
		rev.Translated,
		rev.MachineTranslation,
		rev.CreatedAt,
		rev.CreatedByID.String(),
	); err != nil {
		return fmt.Errorf("create first revision: %w", err)
	}

	return nil
}

// GetByID retrieves the full revision history for (id, lang)
func (r *PostgresTextRepository) GetByID(ctx context.Context, id uuid.UUID, lang models.Lang) (*models.Text, error) {
	query := fmt.Sprintf(`
		SELECT id, lang, section_id, keywords
		FROM %s
		WHERE id = $1 AND lang = $2
	`, r.tables.Texts)

	executor := GetExecutor(ctx, r.pool)
	text, err := r.scanText(executor.QueryRow(ctx, query, id.String(), lang.String()))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("text %s (%s): %w", id, lang, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get text: %w", err)
	}

	if err := r.loadRevisions(ctx, text); err != nil {
		return nil, err
	}

	return text, nil
}

// GetBySection retrieves a text by its owning section
func (r *PostgresTextRepository) GetBySection(ctx context.Context, sectionID uuid.UUID, lang models.Lang) (*models.Text, error) {
	query := fmt.Sprintf(`
		SELECT id, lang, section_id, keywords
		FROM %s
		WHERE section_id = $1 AND lang = $2
	`, r.tables.Texts)

	executor := GetExecutor(ctx, r.pool)
	text, err := r.scanText(executor.QueryRow(ctx, query, sectionID.String(), lang.String()))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("text for section %s (%s): %w", sectionID, lang, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get text by section: %w", err)
	}

	if err := r.loadRevisions(ctx, text); err != nil {
		return nil, err
	}

	return text, nil
}

// AppendRevision claims the next sequence number by insert. When two
// appenders race, one hits the primary key and retries against the new
// tail, so neither revision is lost.
func (r *PostgresTextRepository) AppendRevision(ctx context.Context, id uuid.UUID, lang models.Lang, rev models.Revision, kws []models.KeywordScore) (*models.Text, error) {
	executor := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		INSERT INTO %s (text_id, lang, revision_seq, content, translated, machine_translation, created_at, created_by_id)
		SELECT $1, $2, COALESCE(MAX(revision_seq), 0) + 1, $3, $4, $5, $6, $7
		FROM %s
		WHERE text_id = $1 AND lang = $2
		RETURNING revision_seq
	`, r.tables.TextRevisions, r.tables.TextRevisions)

	var appended bool
	for attempt := 0; attempt < appendRetries; attempt++ {
		err := executor.QueryRow(ctx, query,
			id.String(),
			lang.String(),
			rev.EncryptedContent,
			rev.Translated,
			rev.MachineTranslation,
			rev.CreatedAt,
			rev.CreatedByID.String(),
		).Scan(&rev.Seq)
		if err == nil {
			appended = true
			break
		}
		if IsPgForeignKeyError(err) {
			return nil, fmt.Errorf("text %s (%s): %w", id, lang, domain.ErrNotFound)
		}
		if IsPgDuplicateError(err) {
			r.logger.Debug("revision sequence conflict, retrying",
				"text_id", id.String(),
				"lang", lang.String(),
				"attempt", attempt+1,
			)
			continue
		}
		return nil, fmt.Errorf("append revision: %w", err)
	}
	if !appended {
		return nil, fmt.Errorf("append revision: sequence contention exhausted %d attempts", appendRetries)
	}

	if kws != nil {
		payload, err := marshalKeywords(kws)
		if err != nil {
			return nil, err
		}
		update := fmt.Sprintf(`
			UPDATE %s SET keywords = $1 WHERE id = $2 AND lang = $3
		`, r.tables.Texts)
		if _, err := executor.Exec(ctx, update, payload, id.String(), lang.String()); err != nil {
			return nil, fmt.Errorf("update keywords: %w", err)
		}
	}

	return r.GetByID(ctx, id, lang)
}

// GetBatchLatest fetches the latest encrypted content of many texts in
// one query. Order of evaluation does not matter and missing ids are
// simply absent from the map.
func (r *PostgresTextRepository) GetBatchLatest(ctx context.Context, ids []uuid.UUID, lang models.Lang) (map[uuid.UUID][]byte, error) {
	result := make(map[uuid.UUID][]byte, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT ON (text_id) text_id, content
		FROM %s
		WHERE text_id = ANY($1) AND lang = $2
		ORDER BY text_id, revision_seq DESC
	`, r.tables.TextRevisions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, idStrings, lang.String())
	if err != nil {
		return nil, fmt.Errorf("batch latest query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var content []byte
		if err := rows.Scan(&id, &content); err != nil {
			return nil, fmt.Errorf("scan latest revision: %w", err)
		}
		result[id] = content
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate latest revisions: %w", err)
	}

	return result, nil
}

// loadRevisions fills text.Revisions in sequence order
func (r *PostgresTextRepository) loadRevisions(ctx context.Context, text *models.Text) error {
	query := fmt.Sprintf(`
		SELECT revision_seq, content, translated, machine_translation, created_at, created_by_id
		FROM %s
		WHERE text_id = $1 AND lang = $2
		ORDER BY revision_seq ASC
	`, r.tables.TextRevisions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, text.ID.String(), text.Lang.String())
	if err != nil {
		return fmt.Errorf("load revisions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rev models.Revision
		if err := rows.Scan(
			&rev.Seq,
			&rev.EncryptedContent,
			&rev.Translated,
			&rev.MachineTranslation,
			&rev.CreatedAt,
			&rev.CreatedByID,
		); err != nil {
			return fmt.Errorf("scan revision: %w", err)
		}
		text.Revisions = append(text.Revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate revisions: %w", err)
	}

	// A text row without revisions violates the store invariant
	if len(text.Revisions) == 0 {
		return fmt.Errorf("text %s (%s) has no revisions: %w", text.ID, text.Lang, domain.ErrStorage)
	}

	return nil
}

// scanText scans one texts row, decoding the keyword payload
func (r *PostgresTextRepository) scanText(row interface{ Scan(dest ...interface{}) error }) (*models.Text, error) {
	var text models.Text
	var sectionID *uuid.UUID
	var kws []byte

	if err := row.Scan(&text.ID, &text.Lang, &sectionID, &kws); err != nil {
		return nil, err
	}
	text.SectionID = sectionID

	if len(kws) > 0 {
		if err := json.Unmarshal(kws, &text.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords: %w", err)
		}
	}

	return &text, nil
}

// marshalKeywords encodes a keyword payload for the JSONB column; nil
// stays NULL.
func marshalKeywords(kws []models.KeywordScore) ([]byte, error) {
	if kws == nil {
		return nil, nil
	}
	payload, err := json.Marshal(kws)
	if err != nil {
		return nil, fmt.Errorf("encode keywords: %w", err)
	}
	return payload, nil
}

// uuidPtr renders an optional uuid for a nullable column
func uuidPtr(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}
