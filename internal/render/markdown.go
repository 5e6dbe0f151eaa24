// Package render converts processed text content into display HTML.
package render

import (
	"gitlab.com/golang-commonmark/markdown"
)

var (
	tableParser = markdown.New(markdown.HTML(true), markdown.Tables(true), markdown.MaxNesting(10))
	plainParser = markdown.New(markdown.HTML(true), markdown.Tables(false), markdown.MaxNesting(10))
)

// ToHTML renders Markdown content to HTML. Pure and total: constructs
// that are not valid Markdown fall through as literal text.
func ToHTML(content string, tables bool) string {
	if tables {
		return tableParser.RenderToString([]byte(content))
	}
	return plainParser.RenderToString([]byte(content))
}
