// Package redact transforms inline redaction markup into either the
// internal (cleartext) or open (blocked-out) rendering of a text.
//
// A redaction span is written ~~text~~[rationale]. The span text may
// contain newlines; spans do not nest. The rationale annotates the span
// for audit purposes and is dropped from rendered output in both views.
package redact

import (
	"regexp"
	"strings"
)

// spanPattern matches one redaction span. (?s) lets the span text run
// across newlines; the lazy quantifiers keep adjacent spans separate.
// Malformed markup (an unterminated ~~, a missing bracket) simply does
// not match and passes through verbatim.
var spanPattern = regexp.MustCompile(`(?s)~~(.*?)~~\[(.*?)\]`)

const blockRune = "■"

// Render processes every redaction span in content.
//
// redact=false (internal view): spans are replaced by their text alone,
// markup stripped. Applying the internal rendering twice yields the same
// result as once, since no markup survives the first pass.
//
// redact=true (open view): each word of the span text is replaced by a
// run of block characters matching the word's rune length, words joined
// by single spaces.
func Render(content string, redact bool) string {
	if !redact {
		return spanPattern.ReplaceAllString(content, "$1")
	}
	return spanPattern.ReplaceAllStringFunc(content, func(span string) string {
		m := spanPattern.FindStringSubmatch(span)
		return blockOut(m[1])
	})
}

// blockOut rewrites every word of s as block characters, one per rune.
func blockOut(s string) string {
	words := strings.Fields(s)
	blocked := make([]string, len(words))
	for i, w := range words {
		blocked[i] = strings.Repeat(blockRune, len([]rune(w)))
	}
	return strings.Join(blocked, " ")
}
