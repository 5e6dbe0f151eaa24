package keywords

import (
	"reflect"
	"testing"

	"datadocs/internal/domain/models"
)

func TestExtract(t *testing.T) {
	stop := NewStopList([]string{"the", "is", "a", "of", "and"})
	e := NewExtractor(stop)

	t.Run("ranks phrases by co-occurrence score", func(t *testing.T) {
		got := e.Extract("keyword extraction is a keyword ranking task.")

		want := []models.KeywordScore{
			{Keyword: "keyword ranking task", Score: 8.5},
			{Keyword: "keyword extraction", Score: 4.5},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Extract() = %v, want %v", got, want)
		}
	})

	t.Run("stopwords and punctuation break phrases", func(t *testing.T) {
		got := e.Extract("red fox, the red barn")

		// Both phrases score identically; the tie breaks on keyword order.
		if len(got) != 2 {
			t.Fatalf("Extract() returned %d phrases, want 2", len(got))
		}
		if got[0].Keyword != "red barn" || got[1].Keyword != "red fox" {
			t.Errorf("Extract() order = [%s, %s], want [red barn, red fox]",
				got[0].Keyword, got[1].Keyword)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		if got := e.Extract(""); got != nil {
			t.Errorf("Extract(\"\") = %v, want nil", got)
		}
	})

	t.Run("stopwords only", func(t *testing.T) {
		if got := e.Extract("the of and a the"); got != nil {
			t.Errorf("Extract() = %v, want nil", got)
		}
	})

	t.Run("case-insensitive against stop list", func(t *testing.T) {
		got := e.Extract("The Red Fox")
		if len(got) != 1 || got[0].Keyword != "red fox" {
			t.Errorf("Extract() = %v, want single phrase \"red fox\"", got)
		}
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		content := "budget allocation across regional offices and program delivery timelines"
		first := e.Extract(content)
		for i := 0; i < 10; i++ {
			if got := e.Extract(content); !reflect.DeepEqual(got, first) {
				t.Fatalf("run %d diverged: %v != %v", i, got, first)
			}
		}
	})
}

func TestRenderTop(t *testing.T) {
	kws := []models.KeywordScore{
		{Keyword: "keyword ranking task", Score: 8.5},
		{Keyword: "keyword extraction", Score: 4.5},
		{Keyword: "stopword", Score: 1},
	}

	tests := []struct {
		name string
		kws  []models.KeywordScore
		n    int
		want string
	}{
		{
			name: "top one",
			kws:  kws,
			n:    1,
			want: "<ul><li>keyword ranking task: 8.5</li></ul>",
		},
		{
			name: "top two",
			kws:  kws,
			n:    2,
			want: "<ul><li>keyword ranking task: 8.5</li><li>keyword extraction: 4.5</li></ul>",
		},
		{
			name: "n beyond available clamps",
			kws:  kws[:1],
			n:    10,
			want: "<ul><li>keyword ranking task: 8.5</li></ul>",
		},
		{
			name: "n below one clamps to one",
			kws:  kws,
			n:    0,
			want: "<ul><li>keyword ranking task: 8.5</li></ul>",
		},
		{
			name: "no keywords",
			kws:  nil,
			n:    3,
			want: NoKeywords,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderTop(tt.kws, tt.n); got != tt.want {
				t.Errorf("RenderTop() = %q, want %q", got, tt.want)
			}
		})
	}
}
