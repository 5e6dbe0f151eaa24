// Package keywords extracts ranked keyword phrases from plain text using
// rapid automatic keyword extraction (RAKE): candidate phrases are runs of
// content words delimited by stopwords and punctuation, scored by word
// degree/frequency.
package keywords

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"datadocs/internal/domain/models"
)

// NoKeywords is the sentinel rendered when a text has no keyword payload.
const NoKeywords = "None"

// StopList is the set of words that terminate a candidate phrase.
type StopList map[string]struct{}

// NewStopList builds a StopList from a word slice, lowercasing entries
// and ignoring blanks.
func NewStopList(words []string) StopList {
	stop := make(StopList, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			stop[w] = struct{}{}
		}
	}
	return stop
}

// Extractor extracts keywords against a fixed stopword list. Safe for
// concurrent use; the stop list is read-only after construction.
type Extractor struct {
	stop StopList
}

// NewExtractor creates an extractor over the given stopword list.
func NewExtractor(stop StopList) *Extractor {
	return &Extractor{stop: stop}
}

// Extract returns the ranked keyword phrases of content, best first.
// Deterministic for identical input and stop list: ties are broken by
// phrase ordering.
func (e *Extractor) Extract(content string) []models.KeywordScore {
	phrases := e.candidatePhrases(content)
	if len(phrases) == 0 {
		return nil
	}

	// Word co-occurrence scores: degree(w)/freq(w)
	freq := make(map[string]int)
	degree := make(map[string]int)
	for _, phrase := range phrases {
		for _, w := range phrase {
			freq[w]++
			degree[w] += len(phrase) - 1
		}
	}
	wordScore := make(map[string]float64, len(freq))
	for w, f := range freq {
		wordScore[w] = float64(degree[w]+f) / float64(f)
	}

	// Phrase score = sum of member word scores; duplicates collapse.
	phraseScore := make(map[string]float64)
	for _, phrase := range phrases {
		var score float64
		for _, w := range phrase {
			score += wordScore[w]
		}
		phraseScore[strings.Join(phrase, " ")] = score
	}

	ranked := make([]models.KeywordScore, 0, len(phraseScore))
	for phrase, score := range phraseScore {
		ranked = append(ranked, models.KeywordScore{Keyword: phrase, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})

	return ranked
}

// candidatePhrases splits content into runs of non-stop words. Stopwords
// and punctuation both end the current phrase; whitespace only ends the
// current word.
func (e *Extractor) candidatePhrases(content string) [][]string {
	var phrases [][]string
	var current []string
	var word strings.Builder

	flush := func() {
		if len(current) > 0 {
			phrases = append(phrases, current)
			current = nil
		}
	}
	endWord := func(breakPhrase bool) {
		w := strings.ToLower(word.String())
		word.Reset()
		if w != "" {
			if _, stop := e.stop[w]; stop {
				flush()
			} else {
				current = append(current, w)
			}
		}
		if breakPhrase {
			flush()
		}
	}

	for _, r := range content {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-':
			word.WriteRune(r)
		case unicode.IsSpace(r):
			endWord(false)
		default:
			// punctuation terminates the phrase
			endWord(true)
		}
	}
	endWord(true)

	return phrases
}

// RenderTop renders the top n keywords as a simple HTML list for display
// context data. Returns the NoKeywords sentinel when there is nothing to
// render; it never fails.
func RenderTop(kws []models.KeywordScore, n int) string {
	if len(kws) == 0 {
		return NoKeywords
	}
	if n < 1 {
		n = 1
	}
	if n > len(kws) {
		n = len(kws)
	}

	var b strings.Builder
	b.WriteString("<ul>")
	for _, kw := range kws[:n] {
		fmt.Fprintf(&b, "<li>%s: %v</li>", kw.Keyword, kw.Score)
	}
	b.WriteString("</ul>")
	return b.String()
}
