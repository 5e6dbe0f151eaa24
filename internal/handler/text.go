package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"datadocs/internal/domain/models"
	"datadocs/internal/domain/services"
	"datadocs/internal/httputil"
)

// TextHandler handles text HTTP requests
type TextHandler struct {
	textService services.TextService
	logger      *slog.Logger
}

// NewTextHandler creates a new text handler
func NewTextHandler(textService services.TextService, logger *slog.Logger) *TextHandler {
	return &TextHandler{
		textService: textService,
		logger:      logger,
	}
}

// batchRequest is the body of a batch plain-text fetch
type batchRequest struct {
	IDs  []uuid.UUID `json:"ids"`
	Lang string      `json:"lang"`
}

// CreateText creates a new text with its shadow-language sibling
// POST /api/texts
func (h *TextHandler) CreateText(w http.ResponseWriter, r *http.Request) {
	authorID, ok := requireAuthor(w, r)
	if !ok {
		return
	}

	var req services.CreateTextRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.AuthorID = authorID

	text, err := h.textService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("create text failed", "error", err)
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, text)
}

// GetText returns the readable view of a text's latest revision
// GET /api/texts/{id}?lang=en&view=internal|open&markdown=true
func (h *TextHandler) GetText(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	textLang := models.ParseLang(r.URL.Query().Get("lang"))
	markdown := r.URL.Query().Get("markdown") != "false"

	readable, err := h.textService.ReadLatest(r.Context(), id, textLang, markdown, redactView(r))
	if err != nil {
		h.logger.Error("read text failed", "text_id", id.String(), "error", err)
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, readable)
}

// UpdateText appends a new revision
// PUT /api/texts/{id}
func (h *TextHandler) UpdateText(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	authorID, ok := requireAuthor(w, r)
	if !ok {
		return
	}

	var req services.UpdateTextRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.AuthorID = authorID

	text, err := h.textService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("update text failed", "text_id", id.String(), "error", err)
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, text)
}

// GetTextRevisions returns a text's provenance history. Revision
// content stays encrypted at rest and is omitted from the payload.
// GET /api/texts/{id}/revisions?lang=en
func (h *TextHandler) GetTextRevisions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	textLang := models.ParseLang(r.URL.Query().Get("lang"))
	text, err := h.textService.GetLatest(r.Context(), id, textLang)
	if err != nil {
		h.logger.Error("load revisions failed", "text_id", id.String(), "error", err)
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, text)
}

// GetSectionText returns the readable view of a section's text
// GET /api/sections/{sectionID}/text?lang=en&view=internal|open&markdown=true
func (h *TextHandler) GetSectionText(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathUUID(w, r, "sectionID")
	if !ok {
		return
	}

	textLang := models.ParseLang(r.URL.Query().Get("lang"))
	markdown := r.URL.Query().Get("markdown") != "false"

	readable, err := h.textService.ReadBySection(r.Context(), sectionID, textLang, markdown, redactView(r))
	if err != nil {
		h.logger.Error("read section text failed", "section_id", sectionID.String(), "error", err)
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, readable)
}

// TranslateText appends a machine translation to the sibling language
// POST /api/texts/{id}/translate?lang=en
func (h *TextHandler) TranslateText(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	authorID, ok := requireAuthor(w, r)
	if !ok {
		return
	}

	textLang := models.ParseLang(r.URL.Query().Get("lang"))
	text, err := h.textService.MachineTranslate(r.Context(), id, textLang, authorID)
	if err != nil {
		h.logger.Error("machine translate failed", "text_id", id.String(), "error", err)
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, text)
}

// BatchTexts returns the decrypted latest content of many texts keyed by
// id, for callers assembling a page of fields at once
// POST /api/texts/batch
func (h *TextHandler) BatchTexts(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	textLang := models.ParseLang(req.Lang)
	texts, err := h.textService.PlainTextMap(r.Context(), req.IDs, textLang)
	if err != nil {
		h.logger.Error("batch texts failed", "error", err)
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, texts)
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *TextHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathUUID parses a path segment as a UUID, responding 400 on failure
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// requireAuthor resolves the caller's user id, responding 401 when absent
func requireAuthor(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := httputil.GetUserID(r)
	if raw == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "an authenticated author is required")
		return uuid.Nil, false
	}
	authorID, err := uuid.Parse(raw)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, "author id must be a valid UUID")
		return uuid.Nil, false
	}
	return authorID, true
}

// redactView decides between the internal and open rendering. Signed-in
// callers default to the internal view, anonymous ones to the redacted
// open view; an explicit view parameter wins either way.
func redactView(r *http.Request) bool {
	switch r.URL.Query().Get("view") {
	case "open":
		return true
	case "internal":
		return false
	default:
		return httputil.GetUserID(r) == ""
	}
}
