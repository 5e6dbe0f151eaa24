package redact

import "testing"

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		content string
		redact  bool
		want    string
	}{
		{
			name:    "internal view strips markup",
			content: "The ~~budget is $5M~~[FinancialDisclosure] this year",
			redact:  false,
			want:    "The budget is $5M this year",
		},
		{
			name:    "open view blocks out words",
			content: "The ~~budget is $5M~~[FinancialDisclosure] this year",
			redact:  true,
			want:    "The ■■■■■■ ■■ ■■■ this year",
		},
		{
			name:    "rationale dropped in open view",
			content: "Contact ~~Alex~~[PersonalInformation].",
			redact:  true,
			want:    "Contact ■■■■.",
		},
		{
			name:    "no markup passes through internal",
			content: "Nothing to hide here.",
			redact:  false,
			want:    "Nothing to hide here.",
		},
		{
			name:    "no markup passes through open",
			content: "Nothing to hide here.",
			redact:  true,
			want:    "Nothing to hide here.",
		},
		{
			name:    "multiple spans",
			content: "~~one~~[A] and ~~two~~[B]",
			redact:  true,
			want:    "■■■ and ■■■",
		},
		{
			name:    "span text across newlines",
			content: "before ~~line one\nline two~~[Multi] after",
			redact:  true,
			want:    "before ■■■■ ■■■ ■■■■ ■■■ after",
		},
		{
			name:    "unterminated span passes through",
			content: "broken ~~span without end",
			redact:  true,
			want:    "broken ~~span without end",
		},
		{
			name:    "missing rationale bracket passes through",
			content: "broken ~~span~~ no bracket",
			redact:  true,
			want:    "broken ~~span~~ no bracket",
		},
		{
			name:    "multibyte runes counted per rune",
			content: "~~café~~[X]",
			redact:  true,
			want:    "■■■■",
		},
		{
			name:    "empty content",
			content: "",
			redact:  true,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.content, tt.redact)
			if got != tt.want {
				t.Errorf("Render(%q, %v) = %q, want %q", tt.content, tt.redact, got, tt.want)
			}
		})
	}
}

func TestRenderInternalIsIdempotent(t *testing.T) {
	content := "The ~~budget is $5M~~[FinancialDisclosure] this year"

	once := Render(content, false)
	twice := Render(once, false)

	if once != twice {
		t.Errorf("second internal pass changed output: %q -> %q", once, twice)
	}
}
