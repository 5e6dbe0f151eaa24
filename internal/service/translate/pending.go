// Package translate holds Translator implementations. A real
// machine-translation backend (e.g. DeepL) plugs in behind the
// services.Translator interface; this package's pending translator is
// the default when no backend is configured.
package translate

import (
	"context"

	"datadocs/internal/domain/models"
	"datadocs/internal/domain/services"
	"datadocs/internal/lang"
)

// PendingTranslator marks content as awaiting translation by returning
// the target language's placeholder. Used in development and in
// deployments without a translation backend, the same way a mock
// provider stands in for a paid API.
type PendingTranslator struct {
	languages *lang.Registry
}

// NewPendingTranslator creates a pending translator over the language
// registry's placeholders.
func NewPendingTranslator(languages *lang.Registry) services.Translator {
	return &PendingTranslator{languages: languages}
}

// Translate ignores the source content and returns the pending
// placeholder for the target language.
func (t *PendingTranslator) Translate(_ context.Context, _ string, _, target models.Lang) (string, error) {
	return t.languages.Placeholder(target), nil
}
