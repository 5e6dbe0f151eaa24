package services

import (
	"context"

	"datadocs/internal/domain/models"
)

// Translator produces a target-language rendering of source-language
// text. Real machine-translation backends live behind this boundary;
// the text core only sees plain strings in and out.
type Translator interface {
	Translate(ctx context.Context, content string, source, target models.Lang) (string, error)
}
