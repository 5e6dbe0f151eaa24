package models

import (
	"time"

	"github.com/google/uuid"
)

// KeywordScore is one ranked keyword phrase extracted from a text's
// plain content. Stored as JSONB alongside the text row.
type KeywordScore struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

// Revision is one historical version of a text's content plus its
// provenance metadata. Content is an opaque encrypted blob; only the
// text service ever sees cleartext.
type Revision struct {
	Seq                int       `json:"seq"`
	EncryptedContent   []byte    `json:"-"`
	Translated         bool      `json:"translated"`
	MachineTranslation bool      `json:"machine_translation"`
	CreatedAt          time.Time `json:"created_at"`
	CreatedByID        uuid.UUID `json:"created_by_id"`
}

// Text is a language-partitioned, append-only revision log. The same
// logical text has one independent history per language, keyed (ID, Lang).
//
// Invariant: len(Revisions) >= 1, ordered by Seq ascending, and the last
// element is current. Revisions are never removed or reordered.
type Text struct {
	ID        uuid.UUID      `json:"id"`
	SectionID *uuid.UUID     `json:"section_id,omitempty"`
	Lang      Lang           `json:"lang"`
	Keywords  []KeywordScore `json:"keywords,omitempty"`
	Revisions []Revision     `json:"revisions"`
}

// Latest returns the current revision. Callers rely on the store
// upholding the non-empty history invariant.
func (t *Text) Latest() Revision {
	return t.Revisions[len(t.Revisions)-1]
}

// ReadableText is the display-ready projection of a text: the latest
// revision decrypted, redaction-processed and optionally rendered as
// HTML, plus a rendered keyword summary. Derived on every read, never
// persisted or cached.
type ReadableText struct {
	ID                 uuid.UUID  `json:"id"`
	SectionID          *uuid.UUID `json:"section_id,omitempty"`
	Lang               Lang       `json:"lang"`
	Content            string     `json:"content"`
	Keywords           string     `json:"keywords"`
	Translated         bool       `json:"translated"`
	MachineTranslation bool       `json:"machine_translation"`
	CreatedAt          time.Time  `json:"created_at"`
	CreatedByID        uuid.UUID  `json:"created_by_id"`
}
