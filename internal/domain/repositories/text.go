package repositories

import (
	"context"

	"github.com/google/uuid"

	"datadocs/internal/domain/models"
)

// TextRepository persists language-partitioned revision histories.
// Revision content crosses this boundary encrypted only; the text
// service owns the codec.
type TextRepository interface {
	// Create inserts a new text row together with its first revision.
	// The given text must carry exactly one revision.
	Create(ctx context.Context, text *models.Text) error

	// GetByID loads the full revision history for (id, lang).
	// Returns domain.ErrNotFound when no row exists.
	GetByID(ctx context.Context, id uuid.UUID, lang models.Lang) (*models.Text, error)

	// GetBySection loads the text owned by a section in the given
	// language. Returns domain.ErrNotFound when no row exists.
	GetBySection(ctx context.Context, sectionID uuid.UUID, lang models.Lang) (*models.Text, error)

	// AppendRevision atomically appends one revision to (id, lang) and,
	// when keywords is non-nil, replaces the stored keyword payload.
	// Concurrent appenders never overwrite each other: sequence numbers
	// are claimed by insert, and a loser retries against the new tail.
	// Returns the updated history, or domain.ErrNotFound.
	AppendRevision(ctx context.Context, id uuid.UUID, lang models.Lang, rev models.Revision, kws []models.KeywordScore) (*models.Text, error)

	// GetBatchLatest fetches the latest encrypted revision content for
	// many texts in one pass. Missing ids are absent from the result,
	// not an error.
	GetBatchLatest(ctx context.Context, ids []uuid.UUID, lang models.Lang) (map[uuid.UUID][]byte, error)
}
