package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-htmlloader/internal/assets"
)

func newTestLorem(t *testing.T) *LoremExpander {
	t.Helper()
	corpus, err := assets.LoadCorpus(assets.DefaultCorpus)
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}
	l, err := NewLoremExpander(corpus)
	if err != nil {
		t.Fatalf("NewLoremExpander() error = %v", err)
	}
	return l
}

func TestLoremExpander(t *testing.T) {
	t.Parallel()

	l := newTestLorem(t)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{
			name:  "words",
			input: `<p><lorem words="5"></lorem></p>`,
			want:  `<p>Lorem ipsum dolor sit amet</p>`,
		},
		{
			name:  "self closing",
			input: `<p><lorem words="2"/></p>`,
			want:  `<p>Lorem ipsum</p>`,
		},
		{
			name:  "bare lorem is one sentence",
			input: `<p><lorem></lorem></p>`,
			want:  `<p>Lorem ipsum dolor sit amet consectetur adipiscing elit.</p>`,
		},
		{
			name:  "cursor continues across elements",
			input: `<div><i><lorem words="2"/></i><b><lorem words="2"/></b></div>`,
			want:  `<div><i>Lorem ipsum</i><b>Dolor sit</b></div>`,
		},
		{
			name:  "no lorem is passthrough",
			input: `<div  class='x'>text</div>`,
			want:  `<div  class='x'>text</div>`,
		},
		{
			name:    "zero count",
			input:   `<div><lorem words="0"></lorem></div>`,
			wantErr: "invalid lorem words count",
		},
		{
			name:    "count too large",
			input:   `<div><lorem paragraphs="1001"></lorem></div>`,
			wantErr: "want 1..1000",
		},
		{
			name:    "not a number",
			input:   `<div><lorem sentences="many"></lorem></div>`,
			wantErr: "invalid lorem sentences count",
		},
		{
			name:    "two units",
			input:   `<div><lorem words="1" sentences="1"></lorem></div>`,
			wantErr: "only one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := l.Transform(context.Background(), tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Transform() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Transform() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Transform() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoremExpander_Paragraphs(t *testing.T) {
	t.Parallel()

	got, err := newTestLorem(t).Transform(context.Background(), `<div><lorem paragraphs="3"></lorem></div>`)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if n := strings.Count(got, "<p>"); n != 3 {
		t.Errorf("got %d paragraphs in %q, want 3", n, got)
	}
	if !strings.HasPrefix(got, "<div><p>Lorem ipsum") {
		t.Errorf("Transform() = %q, want first paragraph to start the corpus", got)
	}
}

func TestLoremExpander_Deterministic(t *testing.T) {
	t.Parallel()

	l := newTestLorem(t)
	input := `<div><lorem paragraphs="4"></lorem><span><lorem sentences="7"></lorem></span></div>`

	first, err := l.Transform(context.Background(), input)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	second, err := l.Transform(context.Background(), input)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if first != second {
		t.Error("two runs over the same template differ")
	}
}

func TestLoremExpander_WrapsCorpus(t *testing.T) {
	t.Parallel()

	l, err := NewLoremExpander("One, two!")
	if err != nil {
		t.Fatalf("NewLoremExpander() error = %v", err)
	}
	got, err := l.Transform(context.Background(), `<p><lorem words="5"/></p>`)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if got != `<p>One two one two one</p>` {
		t.Errorf("Transform() = %q", got)
	}
}

func TestNewLoremExpander_EmptyCorpus(t *testing.T) {
	t.Parallel()

	if _, err := NewLoremExpander(" 123 , ... "); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("NewLoremExpander() error = %v, want ErrEmptyCorpus", err)
	}
}
