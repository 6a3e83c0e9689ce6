package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-htmlloader/internal/markup"
)

// ErrEnrichment indicates an enrichment stage rejected its input.
var ErrEnrichment = errors.New("enrichment failed")

// Transformer is one enrichment stage. Transform receives the markup produced
// by the previous stage and returns the rewritten markup.
type Transformer interface {
	Name() string
	Transform(ctx context.Context, content string) (string, error)
}

// StageError records which enrichment stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Enricher applies transformers in order, each consuming the previous output.
// An Enricher holds no per-call state and is safe for concurrent use when its
// transformers are.
type Enricher struct {
	stages []Transformer
}

// NewEnricher creates an Enricher running stages in the given order.
func NewEnricher(stages ...Transformer) *Enricher {
	return &Enricher{stages: stages}
}

// Stages returns the stage names in execution order.
func (e *Enricher) Stages() []string {
	names := make([]string, len(e.stages))
	for i, s := range e.stages {
		names[i] = s.Name()
	}
	return names
}

// Enrich runs every stage. The first failure stops the chain and is returned
// as a *StageError wrapping ErrEnrichment.
func (e *Enricher) Enrich(ctx context.Context, content string) (string, error) {
	for _, s := range e.stages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		out, err := s.Transform(ctx, content)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", &StageError{Stage: s.Name(), Err: fmt.Errorf("%w: %w", ErrEnrichment, err)}
		}
		content = out
	}
	return content, nil
}

// treeStage adapts a tree rewrite to a Transformer. The rewrite only runs
// when match reports the markup may contain something to rewrite, so markup
// without matches passes through byte for byte.
type treeStage struct {
	name    string
	match   func(content string) bool
	rewrite func(ctx context.Context, nodes []*markup.Node) ([]*markup.Node, error)
}

func (s treeStage) Name() string { return s.name }

func (s treeStage) Transform(ctx context.Context, content string) (string, error) {
	if s.match != nil && !s.match(content) {
		return content, nil
	}
	doc := markup.Parse(content)
	nodes, err := s.rewrite(ctx, doc.Children)
	if err != nil {
		return "", err
	}
	return markup.Render(nodes), nil
}

// containsFold reports whether s contains substr, ignoring ASCII case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// Compile-time interface check.
var _ Transformer = treeStage{}
