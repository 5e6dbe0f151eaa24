// Package lang holds the registry of supported content languages: the
// fallback pairing used for shadow translations, per-language placeholder
// content, and per-language stopword lists for keyword extraction.
// Definitions are embedded YAML, loaded once at startup.
package lang

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"datadocs/internal/domain/models"
	"datadocs/internal/keywords"
)

//go:embed config/*.yaml config/*.txt
var configFiles embed.FS

// languageConfig is one entry of config/languages.yaml.
type languageConfig struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Fallback    string `yaml:"fallback"`
	Placeholder string `yaml:"placeholder"`
	Stopwords   string `yaml:"stopwords"`
}

type language struct {
	code        models.Lang
	name        string
	fallback    models.Lang
	placeholder string
	stopwords   keywords.StopList
}

// Registry manages supported language definitions.
type Registry struct {
	languages map[models.Lang]*language
	mu        sync.RWMutex
}

// NewRegistry loads the embedded language definitions. A language with a
// missing or empty stopword list is a startup failure: keyword
// extraction cannot run without one.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/languages.yaml")
	if err != nil {
		return nil, fmt.Errorf("read language config: %w", err)
	}

	var cfg struct {
		Languages []languageConfig `yaml:"languages"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal language config: %w", err)
	}
	if len(cfg.Languages) == 0 {
		return nil, fmt.Errorf("language config defines no languages")
	}

	r := &Registry{languages: make(map[models.Lang]*language, len(cfg.Languages))}
	for _, lc := range cfg.Languages {
		stop, err := loadStopwords(lc.Stopwords)
		if err != nil {
			return nil, fmt.Errorf("load stopwords for %s: %w", lc.Code, err)
		}
		r.languages[models.Lang(lc.Code)] = &language{
			code:        models.Lang(lc.Code),
			name:        lc.Name,
			fallback:    models.Lang(lc.Fallback),
			placeholder: lc.Placeholder,
			stopwords:   stop,
		}
	}

	// Every fallback must itself be a supported language
	for code, l := range r.languages {
		if _, ok := r.languages[l.fallback]; !ok {
			return nil, fmt.Errorf("language %s falls back to unsupported language %s", code, l.fallback)
		}
	}

	return r, nil
}

// loadStopwords reads an embedded one-word-per-line stopword file.
func loadStopwords(filename string) (keywords.StopList, error) {
	if filename == "" {
		return nil, fmt.Errorf("no stopword file configured")
	}
	data, err := configFiles.ReadFile("config/" + filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	stop := keywords.NewStopList(strings.Split(string(data), "\n"))
	if len(stop) == 0 {
		return nil, fmt.Errorf("%s contains no stopwords", filename)
	}
	return stop, nil
}

// Supported reports whether code is a registered content language.
func (r *Registry) Supported(code models.Lang) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.languages[code]
	return ok
}

// Fallback returns the sibling language a text is shadowed into when
// created in code. English and French pair with each other.
func (r *Registry) Fallback(code models.Lang) models.Lang {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.languages[code]; ok {
		return l.fallback
	}
	return models.LangEnglish
}

// Placeholder returns the pending-translation content stored in a
// language's shadow row until a real translation is appended.
func (r *Registry) Placeholder(code models.Lang) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.languages[code]; ok {
		return l.placeholder
	}
	return ""
}

// Stopwords returns the keyword-extraction stopword list for a language.
// Falls back to the English list for unregistered codes.
func (r *Registry) Stopwords(code models.Lang) keywords.StopList {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.languages[code]; ok {
		return l.stopwords
	}
	if l, ok := r.languages[models.LangEnglish]; ok {
		return l.stopwords
	}
	return nil
}
