// Package text implements the versioned text store and its display
// pipeline: encryption at rest, append-only revision histories
// partitioned by language, redaction processing, markdown rendering and
// keyword summaries.
package text

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"datadocs/internal/crypto"
	"datadocs/internal/domain"
	"datadocs/internal/domain/models"
	"datadocs/internal/domain/repositories"
	"datadocs/internal/domain/services"
	"datadocs/internal/keywords"
	"datadocs/internal/lang"
	"datadocs/internal/redact"
	"datadocs/internal/render"
)

// textService implements the TextService interface
type textService struct {
	repo       repositories.TextRepository
	txManager  repositories.TransactionManager
	codec      *crypto.Codec
	languages  *lang.Registry
	translator services.Translator
	keywordTop int
	logger     *slog.Logger
}

// NewService creates a new text service. keywordTop is how many ranked
// keywords the readable view's summary shows.
func NewService(
	repo repositories.TextRepository,
	txManager repositories.TransactionManager,
	codec *crypto.Codec,
	languages *lang.Registry,
	translator services.Translator,
	keywordTop int,
	logger *slog.Logger,
) services.TextService {
	return &textService{
		repo:       repo,
		txManager:  txManager,
		codec:      codec,
		languages:  languages,
		translator: translator,
		keywordTop: keywordTop,
		logger:     logger,
	}
}

// Create stores content as the sole revision of a new text and, in the
// same transaction, a shadow sibling in the fallback language carrying
// placeholder content pending translation. Every logical text therefore
// exists in both supported languages from the moment it is created.
func (s *textService) Create(ctx context.Context, req *services.CreateTextRequest) (*models.Text, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.Lang, validation.Required, validation.In("en", "fr")),
		validation.Field(&req.AuthorID, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	textLang := models.ParseLang(req.Lang)
	content := strings.TrimSpace(req.Content)
	now := time.Now().UTC()

	var kws []models.KeywordScore
	if req.SectionID != nil {
		kws = keywords.NewExtractor(s.languages.Stopwords(textLang)).Extract(content)
	}

	blob, err := s.codec.Encrypt(content)
	if err != nil {
		return nil, fmt.Errorf("encrypt content: %w", err)
	}

	text := &models.Text{
		ID:        uuid.New(),
		SectionID: req.SectionID,
		Lang:      textLang,
		Keywords:  kws,
		Revisions: []models.Revision{{
			EncryptedContent: blob,
			CreatedAt:        now,
			CreatedByID:      req.AuthorID,
		}},
	}

	shadowLang := s.languages.Fallback(textLang)
	shadowBlob, err := s.codec.Encrypt(s.languages.Placeholder(shadowLang))
	if err != nil {
		return nil, fmt.Errorf("encrypt placeholder: %w", err)
	}
	shadow := &models.Text{
		ID:        text.ID,
		SectionID: req.SectionID,
		Lang:      shadowLang,
		Keywords:  kws,
		Revisions: []models.Revision{{
			EncryptedContent: shadowBlob,
			CreatedAt:        now,
			CreatedByID:      req.AuthorID,
		}},
	}

	// Both rows land or neither does
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, text); err != nil {
			return err
		}
		return s.repo.Create(txCtx, shadow)
	})
	if err != nil {
		return nil, storageErr("create text", err)
	}

	s.logger.Debug("text created",
		"text_id", text.ID.String(),
		"lang", textLang.String(),
		"shadow_lang", shadowLang.String(),
		"section", req.SectionID != nil,
	)

	return text, nil
}

// Update appends a revision to (id, lang). History is never rewritten:
// previous revisions stay at their original indices.
func (s *textService) Update(ctx context.Context, id uuid.UUID, req *services.UpdateTextRequest) (*models.Text, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.Lang, validation.Required, validation.In("en", "fr")),
		validation.Field(&req.AuthorID, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	textLang := models.ParseLang(req.Lang)
	content := strings.TrimSpace(req.Content)

	current, err := s.repo.GetByID(ctx, id, textLang)
	if err != nil {
		return nil, storageErr("load text", err)
	}

	var kws []models.KeywordScore
	if current.SectionID != nil {
		kws = keywords.NewExtractor(s.languages.Stopwords(textLang)).Extract(content)
	}

	blob, err := s.codec.Encrypt(content)
	if err != nil {
		return nil, fmt.Errorf("encrypt content: %w", err)
	}

	rev := models.Revision{
		EncryptedContent:   blob,
		MachineTranslation: req.MachineTranslation,
		CreatedAt:          time.Now().UTC(),
		CreatedByID:        req.AuthorID,
	}

	// The append claims its sequence number atomically and retries on a
	// conflict, so it must not run inside an outer transaction: the
	// first conflict would abort it.
	updated, err := s.repo.AppendRevision(ctx, id, textLang, rev, kws)
	if err != nil {
		return nil, storageErr("append revision", err)
	}

	return updated, nil
}

// GetLatest loads the full revision history for (id, lang)
func (s *textService) GetLatest(ctx context.Context, id uuid.UUID, textLang models.Lang) (*models.Text, error) {
	text, err := s.repo.GetByID(ctx, id, textLang)
	if err != nil {
		return nil, storageErr("load text", err)
	}
	return text, nil
}

// GetBySection loads the text owned by a section
func (s *textService) GetBySection(ctx context.Context, sectionID uuid.UUID, textLang models.Lang) (*models.Text, error) {
	text, err := s.repo.GetBySection(ctx, sectionID, textLang)
	if err != nil {
		return nil, storageErr("load section text", err)
	}
	return text, nil
}

// LatestView assembles the display projection of the current revision.
// The order is fixed: decrypt, then redact, then markdown. Running
// markdown first would let redaction markup survive inside rendered
// HTML and would corrupt table syntax before redaction could match it.
func (s *textService) LatestView(text *models.Text, markdown, redactContent bool) (*models.ReadableText, error) {
	latest := text.Latest()

	plain, err := s.codec.Decrypt(latest.EncryptedContent)
	if err != nil {
		return nil, fmt.Errorf("text %s (%s): %w", text.ID, text.Lang, err)
	}

	processed := redact.Render(plain, redactContent)

	content := processed
	if markdown {
		content = render.ToHTML(processed, true)
	}

	return &models.ReadableText{
		ID:                 text.ID,
		SectionID:          text.SectionID,
		Lang:               text.Lang,
		Content:            content,
		Keywords:           keywords.RenderTop(text.Keywords, s.keywordTop),
		Translated:         latest.Translated,
		MachineTranslation: latest.MachineTranslation,
		CreatedAt:          latest.CreatedAt,
		CreatedByID:        latest.CreatedByID,
	}, nil
}

// ReadLatest is GetLatest followed by LatestView
func (s *textService) ReadLatest(ctx context.Context, id uuid.UUID, textLang models.Lang, markdown, redactContent bool) (*models.ReadableText, error) {
	text, err := s.GetLatest(ctx, id, textLang)
	if err != nil {
		return nil, err
	}
	return s.LatestView(text, markdown, redactContent)
}

// ReadBySection is GetBySection followed by LatestView
func (s *textService) ReadBySection(ctx context.Context, sectionID uuid.UUID, textLang models.Lang, markdown, redactContent bool) (*models.ReadableText, error) {
	text, err := s.GetBySection(ctx, sectionID, textLang)
	if err != nil {
		return nil, err
	}
	return s.LatestView(text, markdown, redactContent)
}

// PlainTextMap bulk-decrypts the latest content of many texts. Either
// every present id decrypts or the whole call fails: no partial result.
func (s *textService) PlainTextMap(ctx context.Context, ids []uuid.UUID, textLang models.Lang) (map[uuid.UUID]string, error) {
	blobs, err := s.repo.GetBatchLatest(ctx, ids, textLang)
	if err != nil {
		return nil, storageErr("batch latest", err)
	}

	result := make(map[uuid.UUID]string, len(blobs))
	for id, blob := range blobs {
		plain, err := s.codec.Decrypt(blob)
		if err != nil {
			return nil, fmt.Errorf("text %s (%s): %w", id, textLang, err)
		}
		result[id] = plain
	}

	return result, nil
}

// MachineTranslate translates the latest revision of (id, lang) into the
// fallback language and appends it there flagged as machine translated.
func (s *textService) MachineTranslate(ctx context.Context, id uuid.UUID, textLang models.Lang, authorID uuid.UUID) (*models.Text, error) {
	if authorID == uuid.Nil {
		return nil, fmt.Errorf("%w: author is required", domain.ErrValidation)
	}

	source, err := s.repo.GetByID(ctx, id, textLang)
	if err != nil {
		return nil, storageErr("load text", err)
	}

	plain, err := s.codec.Decrypt(source.Latest().EncryptedContent)
	if err != nil {
		return nil, fmt.Errorf("text %s (%s): %w", id, textLang, err)
	}

	target := s.languages.Fallback(textLang)
	translated, err := s.translator.Translate(ctx, plain, textLang, target)
	if err != nil {
		return nil, fmt.Errorf("translate text %s to %s: %w", id, target, err)
	}

	var kws []models.KeywordScore
	if source.SectionID != nil {
		kws = keywords.NewExtractor(s.languages.Stopwords(target)).Extract(translated)
	}

	blob, err := s.codec.Encrypt(translated)
	if err != nil {
		return nil, fmt.Errorf("encrypt translation: %w", err)
	}

	rev := models.Revision{
		EncryptedContent:   blob,
		MachineTranslation: true,
		CreatedAt:          time.Now().UTC(),
		CreatedByID:        authorID,
	}

	updated, err := s.repo.AppendRevision(ctx, id, target, rev, kws)
	if err != nil {
		return nil, storageErr("append translation", err)
	}

	return updated, nil
}

// storageErr maps unexpected persistence failures onto the storage
// sentinel while letting already-typed domain errors pass through.
func storageErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isDomainErr(err):
		return err
	default:
		return fmt.Errorf("%s: %v: %w", op, err, domain.ErrStorage)
	}
}

func isDomainErr(err error) bool {
	for _, sentinel := range []error{
		domain.ErrNotFound,
		domain.ErrConflict,
		domain.ErrValidation,
		domain.ErrDecode,
		domain.ErrStorage,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
