package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-htmlloader/internal/markup"
)

// MaxLoremCount bounds the count of a single <lorem> element.
const MaxLoremCount = 1000

// ErrEmptyCorpus indicates a lorem corpus without words.
var ErrEmptyCorpus = errors.New("lorem corpus has no words")

var (
	// sentenceLengths and paragraphLengths cycle to vary the generated text
	// while keeping it deterministic.
	sentenceLengths  = []int{8, 12, 6, 10, 14, 9, 7}
	paragraphLengths = []int{4, 5, 3, 6}

	loremUnits = []string{"words", "sentences", "paragraphs"}
)

// LoremExpander replaces <lorem> elements with placeholder text drawn from a
// fixed corpus. The same template always yields the same text.
//
//	<lorem words="5">       five words
//	<lorem sentences="2">   two sentences
//	<lorem paragraphs="3">  three <p> elements
//
// A bare <lorem> yields one sentence.
type LoremExpander struct {
	words []string
}

// NewLoremExpander creates a LoremExpander over the words of corpus.
func NewLoremExpander(corpus string) (*LoremExpander, error) {
	var words []string
	for _, f := range strings.Fields(corpus) {
		w := strings.ToLower(strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r)
		}))
		if w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return nil, ErrEmptyCorpus
	}
	return &LoremExpander{words: words}, nil
}

// Name implements Transformer.
func (l *LoremExpander) Name() string { return "lorem" }

// Transform implements Transformer.
func (l *LoremExpander) Transform(ctx context.Context, content string) (string, error) {
	if !containsFold(content, "<lorem") {
		return content, nil
	}
	// cases.Caser is stateful; each call gets its own generator.
	g := &loremGen{words: l.words, title: cases.Title(language.English)}
	doc := markup.Parse(content)
	nodes, err := g.expand(ctx, doc.Children)
	if err != nil {
		return "", err
	}
	return markup.Render(nodes), nil
}

type loremGen struct {
	words    []string
	title    cases.Caser
	cursor   int
	sentence int
}

func (g *loremGen) expand(ctx context.Context, nodes []*markup.Node) ([]*markup.Node, error) {
	out := make([]*markup.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != markup.ElementNode {
			out = append(out, n)
			continue
		}
		if n.IsElement("lorem") {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			generated, err := g.element(n)
			if err != nil {
				return nil, err
			}
			out = append(out, generated...)
			continue
		}
		children, err := g.expand(ctx, n.Children)
		if err != nil {
			return nil, err
		}
		n.SetChildren(children)
		out = append(out, n)
	}
	return out, nil
}

func (g *loremGen) element(n *markup.Node) ([]*markup.Node, error) {
	unit, count := "sentences", 1
	found := false
	for _, u := range loremUnits {
		v, ok := n.Attr(u)
		if !ok {
			continue
		}
		if found {
			return nil, fmt.Errorf("<lorem> accepts only one of %s", strings.Join(loremUnits, ", "))
		}
		c, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || c < 1 || c > MaxLoremCount {
			return nil, fmt.Errorf("invalid lorem %s count %q: want 1..%d", u, v, MaxLoremCount)
		}
		unit, count, found = u, c, true
	}

	switch unit {
	case "words":
		return []*markup.Node{markup.NewText(g.capitalize(g.take(count)))}, nil
	case "paragraphs":
		nodes := make([]*markup.Node, count)
		for i := range nodes {
			p := markup.NewElement("p")
			p.AppendChild(markup.NewText(g.sentences(paragraphLengths[i%len(paragraphLengths)])))
			nodes[i] = p
		}
		return nodes, nil
	default:
		return []*markup.Node{markup.NewText(g.sentences(count))}, nil
	}
}

func (g *loremGen) sentences(n int) string {
	parts := make([]string, n)
	for i := range parts {
		length := sentenceLengths[g.sentence%len(sentenceLengths)]
		g.sentence++
		parts[i] = g.capitalize(g.take(length)) + "."
	}
	return strings.Join(parts, " ")
}

// take returns the next n corpus words, wrapping around at the end.
func (g *loremGen) take(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = g.words[g.cursor%len(g.words)]
		g.cursor++
	}
	return strings.Join(out, " ")
}

func (g *loremGen) capitalize(s string) string {
	first, rest, _ := strings.Cut(s, " ")
	first = g.title.String(first)
	if rest == "" {
		return first
	}
	return first + " " + rest
}

// Compile-time interface check.
var _ Transformer = (*LoremExpander)(nil)
