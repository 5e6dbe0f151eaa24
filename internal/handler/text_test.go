package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"datadocs/internal/domain"
	"datadocs/internal/domain/models"
	"datadocs/internal/domain/services"
	"datadocs/internal/middleware"
)

// fakeTextService returns canned values and records view arguments.
type fakeTextService struct {
	text     *models.Text
	readable *models.ReadableText
	err      error

	lastMarkdown bool
	lastRedact   bool
	lastCreate   *services.CreateTextRequest
}

func (f *fakeTextService) Create(_ context.Context, req *services.CreateTextRequest) (*models.Text, error) {
	f.lastCreate = req
	return f.text, f.err
}

func (f *fakeTextService) Update(_ context.Context, _ uuid.UUID, _ *services.UpdateTextRequest) (*models.Text, error) {
	return f.text, f.err
}

func (f *fakeTextService) GetLatest(_ context.Context, _ uuid.UUID, _ models.Lang) (*models.Text, error) {
	return f.text, f.err
}

func (f *fakeTextService) GetBySection(_ context.Context, _ uuid.UUID, _ models.Lang) (*models.Text, error) {
	return f.text, f.err
}

func (f *fakeTextService) LatestView(_ *models.Text, markdown, redact bool) (*models.ReadableText, error) {
	f.lastMarkdown, f.lastRedact = markdown, redact
	return f.readable, f.err
}

func (f *fakeTextService) ReadLatest(_ context.Context, _ uuid.UUID, _ models.Lang, markdown, redact bool) (*models.ReadableText, error) {
	f.lastMarkdown, f.lastRedact = markdown, redact
	return f.readable, f.err
}

func (f *fakeTextService) ReadBySection(_ context.Context, _ uuid.UUID, _ models.Lang, markdown, redact bool) (*models.ReadableText, error) {
	f.lastMarkdown, f.lastRedact = markdown, redact
	return f.readable, f.err
}

func (f *fakeTextService) PlainTextMap(_ context.Context, _ []uuid.UUID, _ models.Lang) (map[uuid.UUID]string, error) {
	return map[uuid.UUID]string{}, f.err
}

func (f *fakeTextService) MachineTranslate(_ context.Context, _ uuid.UUID, _ models.Lang, _ uuid.UUID) (*models.Text, error) {
	return f.text, f.err
}

// newTestServer routes requests the way cmd/server does, including the
// identity middleware.
func newTestServer(svc services.TextService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewTextHandler(svc, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/texts", h.CreateText)
	mux.HandleFunc("GET /api/texts/{id}", h.GetText)
	mux.HandleFunc("PUT /api/texts/{id}", h.UpdateText)
	mux.HandleFunc("GET /api/texts/{id}/revisions", h.GetTextRevisions)

	return middleware.Identity()(mux)
}

func sampleText() *models.Text {
	return &models.Text{
		ID:   uuid.New(),
		Lang: models.LangEnglish,
		Revisions: []models.Revision{
			{Seq: 1, CreatedByID: uuid.New()},
		},
	}
}

func TestCreateTextRequiresAuthor(t *testing.T) {
	srv := newTestServer(&fakeTextService{})

	req := httptest.NewRequest(http.MethodPost, "/api/texts",
		strings.NewReader(`{"lang":"en","content":"hello"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want problem+json", ct)
	}
}

func TestCreateText(t *testing.T) {
	svc := &fakeTextService{text: sampleText()}
	srv := newTestServer(svc)
	author := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/texts",
		strings.NewReader(`{"lang":"en","content":"hello"}`))
	req.Header.Set("X-User-ID", author.String())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if svc.lastCreate == nil {
		t.Fatal("service never called")
	}
	if svc.lastCreate.AuthorID != author {
		t.Errorf("author = %s, want %s (from X-User-ID header)", svc.lastCreate.AuthorID, author)
	}
	if svc.lastCreate.Content != "hello" {
		t.Errorf("content = %q", svc.lastCreate.Content)
	}
}

func TestCreateTextRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(&fakeTextService{})

	req := httptest.NewRequest(http.MethodPost, "/api/texts", strings.NewReader(`{not json`))
	req.Header.Set("X-User-ID", uuid.NewString())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetTextInvalidID(t *testing.T) {
	srv := newTestServer(&fakeTextService{})

	req := httptest.NewRequest(http.MethodGet, "/api/texts/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetTextNotFound(t *testing.T) {
	svc := &fakeTextService{err: fmt.Errorf("text: %w", domain.ErrNotFound)}
	srv := newTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/texts/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var problem struct {
		Status int    `json:"status"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode problem response: %v", err)
	}
	if problem.Status != http.StatusNotFound {
		t.Errorf("problem status = %d", problem.Status)
	}
	// The detail must not leak which lookup failed
	if strings.Contains(problem.Detail, uuid.Nil.String()) {
		t.Errorf("problem detail leaks internals: %q", problem.Detail)
	}
}

func TestGetTextViewSelection(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		userID       string
		wantMarkdown bool
		wantRedact   bool
	}{
		{
			name:         "anonymous defaults to redacted",
			query:        "",
			wantMarkdown: true,
			wantRedact:   true,
		},
		{
			name:         "signed-in defaults to internal",
			query:        "",
			userID:       uuid.NewString(),
			wantMarkdown: true,
			wantRedact:   false,
		},
		{
			name:         "explicit open view wins for signed-in",
			query:        "?view=open",
			userID:       uuid.NewString(),
			wantMarkdown: true,
			wantRedact:   true,
		},
		{
			name:         "explicit internal view",
			query:        "?view=internal",
			wantMarkdown: true,
			wantRedact:   false,
		},
		{
			name:         "markdown disabled",
			query:        "?markdown=false&view=open",
			wantMarkdown: false,
			wantRedact:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeTextService{readable: &models.ReadableText{}}
			srv := newTestServer(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/texts/"+uuid.NewString()+tt.query, nil)
			if tt.userID != "" {
				req.Header.Set("X-User-ID", tt.userID)
			}
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if svc.lastMarkdown != tt.wantMarkdown {
				t.Errorf("markdown = %v, want %v", svc.lastMarkdown, tt.wantMarkdown)
			}
			if svc.lastRedact != tt.wantRedact {
				t.Errorf("redact = %v, want %v", svc.lastRedact, tt.wantRedact)
			}
		})
	}
}

func TestGetTextRevisionsOmitsContent(t *testing.T) {
	text := sampleText()
	text.Revisions[0].EncryptedContent = []byte("ciphertext")
	srv := newTestServer(&fakeTextService{text: text})

	req := httptest.NewRequest(http.MethodGet, "/api/texts/"+text.ID.String()+"/revisions", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "ciphertext") {
		t.Error("revision payload includes stored content")
	}
	if !strings.Contains(rec.Body.String(), `"seq":1`) {
		t.Errorf("revision payload missing sequence: %s", rec.Body.String())
	}
}
