package services

import (
	"context"

	"github.com/google/uuid"

	"datadocs/internal/domain/models"
)

// TextService owns the versioned, encrypted text store and the
// processing pipeline that turns stored revisions into display-ready
// views. Every write appends; history is never truncated.
type TextService interface {
	// Create encrypts content and stores it as the sole revision of a
	// new text, plus a shadow sibling in the fallback language holding
	// placeholder content pending translation. Keywords are computed
	// only for section-owned texts.
	Create(ctx context.Context, req *CreateTextRequest) (*models.Text, error)

	// Update appends a new revision to (id, lang), recomputing keywords
	// for section-owned texts. Returns domain.ErrNotFound when the text
	// does not exist in that language.
	Update(ctx context.Context, id uuid.UUID, req *UpdateTextRequest) (*models.Text, error)

	// GetLatest loads the full revision history for (id, lang).
	GetLatest(ctx context.Context, id uuid.UUID, lang models.Lang) (*models.Text, error)

	// GetBySection loads the text owned by a section.
	GetBySection(ctx context.Context, sectionID uuid.UUID, lang models.Lang) (*models.Text, error)

	// LatestView assembles the display projection of a text's current
	// revision. Processing order is fixed: decrypt, then redact, then
	// markdown. Reordering would let redaction markup leak through HTML
	// tags or corrupt table syntax.
	LatestView(text *models.Text, markdown, redact bool) (*models.ReadableText, error)

	// ReadLatest is GetLatest followed by LatestView.
	ReadLatest(ctx context.Context, id uuid.UUID, lang models.Lang, markdown, redact bool) (*models.ReadableText, error)

	// ReadBySection is GetBySection followed by LatestView.
	ReadBySection(ctx context.Context, sectionID uuid.UUID, lang models.Lang, markdown, redact bool) (*models.ReadableText, error)

	// PlainTextMap bulk-fetches the decrypted latest content of many
	// texts, keyed by id. No redaction, no markdown: for contexts that
	// need raw text rather than display text. Missing ids are absent,
	// not an error.
	PlainTextMap(ctx context.Context, ids []uuid.UUID, lang models.Lang) (map[uuid.UUID]string, error)

	// MachineTranslate translates the latest revision of (id, lang) into
	// the fallback language and appends it there with the machine
	// translation flag set.
	MachineTranslate(ctx context.Context, id uuid.UUID, lang models.Lang, authorID uuid.UUID) (*models.Text, error)
}

// CreateTextRequest represents a text creation request
type CreateTextRequest struct {
	SectionID *uuid.UUID `json:"section_id,omitempty"` // nil for document/template-level texts
	Lang      string     `json:"lang"`
	Content   string     `json:"content"`
	AuthorID  uuid.UUID  `json:"-"` // Set by handler from identity context, not from request body
}

// UpdateTextRequest represents an append-revision request
type UpdateTextRequest struct {
	Lang               string    `json:"lang"`
	Content            string    `json:"content"`
	MachineTranslation bool      `json:"machine_translation"`
	AuthorID           uuid.UUID `json:"-"` // Set by handler from identity context
}
