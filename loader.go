package htmlloader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-htmlloader/internal/assets"
	"github.com/alnah/go-htmlloader/internal/compiler"
	"github.com/alnah/go-htmlloader/internal/logfields"
	"github.com/alnah/go-htmlloader/internal/pipeline"
)

// Host message prefixes.
const (
	messagePrefix  = "htmlloader: "
	warningPrefix  = messagePrefix + "[template-validator]: WARNING:\n"
	compilerPrefix = messagePrefix + "[template-compiler]: ERROR: "
	errorPrefix    = messagePrefix + "ERROR: "
)

// Loader transforms HTML templates into renderer modules. A Loader holds no
// per-invocation state and may be shared across goroutines.
type Loader struct {
	logger    *slog.Logger
	highlight bool
	corpus    string
	assetRoot string

	// Replaceable in tests.
	compile  func(string) *compiler.Result
	validate func(string) []string
}

// New creates a Loader. Returns ErrInvalidOption if the lorem corpus has no
// words.
func New(opts ...Option) (*Loader, error) {
	l := &Loader{
		logger:    slog.New(slog.DiscardHandler),
		highlight: true,
		compile:   compiler.Compile,
		validate:  compiler.Validate,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.corpus == "" {
		corpus, err := assets.LoadCorpus(assets.DefaultCorpus)
		if err != nil {
			return nil, fmt.Errorf("loading lorem corpus: %w", err)
		}
		l.corpus = corpus
	}
	if _, err := pipeline.NewLoremExpander(l.corpus); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return l, nil
}

// Transform runs the pipeline on in and returns the module text. A nil host
// discards reports.
//
// Compiler errors do not fail the transform: they are emitted to host and
// the returned module renders by throwing. Any other failure is emitted once
// and returned.
func (l *Loader) Transform(ctx context.Context, in Input, host Host) (string, error) {
	res, err := l.TransformResult(ctx, in, host)
	if err != nil {
		return "", err
	}
	return res.Module, nil
}

// TransformResult is like Transform but also returns the diagnostics and the
// effective options. The returned Result is nil on failure.
func (l *Loader) TransformResult(ctx context.Context, in Input, host Host) (*Result, error) {
	if host == nil {
		host = discardHost{}
	}
	host.Cacheable(true)

	run := &transform{
		Loader: l,
		in:     in,
		start:  time.Now(),
		logger: l.logger.With(logfields.Path(in.ResourcePath), logfields.Query(in.ResourceQuery)),
	}
	res, err := run.execute(ctx)
	if err != nil {
		run.logger.Error("transform failed",
			logfields.Stage(run.stage.String()), logfields.Error(err), logfields.Since(run.start))
		run.stage = StageFailed
		host.EmitError(errorPrefix + err.Error())
		return nil, err
	}

	if len(res.Warnings) > 0 {
		host.EmitWarning(warningPrefix + strings.Join(res.Warnings, "\n"))
	}
	if len(res.CompileErrors) > 0 {
		host.EmitError(compilerPrefix + strings.Join(res.CompileErrors, "\n"))
	}
	run.logger.Info("transform done",
		logfields.Count(len(res.Warnings)),
		slog.Int("compile_errors", len(res.CompileErrors)),
		logfields.Since(run.start))
	return res, nil
}

// transform is the state of one invocation.
type transform struct {
	*Loader
	in     Input
	start  time.Time
	logger *slog.Logger
	stage  Stage
}

func (t *transform) enter(ctx context.Context, s Stage) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", s, err)
	}
	t.stage = s
	t.logger.Debug("stage", logfields.Stage(s.String()))
	return nil
}

func (t *transform) execute(ctx context.Context) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: panic during %s: %v", ErrInternal, t.stage, r)
		}
	}()

	opts, err := resolveOptions(t.in.Options, t.in.ResourceQuery)
	if err != nil {
		return nil, err
	}
	t.logger = t.logger.With(logfields.Scope(opts.Scope), logfields.Minimize(opts.Minimize))

	if err := t.enter(ctx, StageStripping); err != nil {
		return nil, err
	}
	lexer := pipeline.NewLexer(t.in.Source)
	lexer.OnDiscard = func(tok pipeline.Token) {
		t.logger.Debug("discarded leading text",
			slog.String("kind", tok.Kind.String()), logfields.Count(tok.End-tok.Start))
	}
	src := lexer.Collect()

	if err := t.enter(ctx, StageTrimming); err != nil {
		return nil, err
	}
	src = pipeline.TrimTrailing(src)

	if err := t.enter(ctx, StageEnriching); err != nil {
		return nil, err
	}
	enricher, err := t.enricher(opts)
	if err != nil {
		return nil, err
	}
	t.logger.Debug("enrichment chain", slog.Any("stages", enricher.Stages()))
	if src, err = enricher.Enrich(ctx, src); err != nil {
		return nil, err
	}

	if err := t.enter(ctx, StageInlining); err != nil {
		return nil, err
	}
	inliner := pipeline.NewAssetInliner(t.assetLoader(), pipeline.InlineOptions{
		SourceDir: t.sourceDir(),
		Minimize:  opts.Minimize,
	})
	if src, err = inliner.Inline(ctx, src); err != nil {
		if !errors.Is(err, ErrAssetInlining) {
			err = fmt.Errorf("%w: %w", ErrAssetInlining, err)
		}
		return nil, err
	}

	if err := t.enter(ctx, StageValidating); err != nil {
		return nil, err
	}
	warnings := t.validate(src)

	if err := t.enter(ctx, StageCompiling); err != nil {
		return nil, err
	}
	compiled := t.compile(src)
	render, staticFns := compiled.Render, compiled.StaticRenderFns
	if compiled.Failed() {
		render, staticFns = pipeline.FallbackRenderCode, nil
	}

	if err := t.enter(ctx, StageSerializing); err != nil {
		return nil, err
	}
	compileErrors := compiled.Errors
	module, err := pipeline.Serialize(render, staticFns)
	if err != nil && !compiled.Failed() {
		// Unformattable render code degrades like a compile error.
		t.logger.Warn("invalid render code", logfields.Error(err))
		compileErrors = append(slices.Clone(compiled.Errors), "generated render code is invalid: "+err.Error())
		module, err = pipeline.Serialize(pipeline.FallbackRenderCode, nil)
	}
	if err != nil {
		return nil, err
	}

	t.stage = StageDone
	return &Result{
		Module:        module,
		Warnings:      warnings,
		CompileErrors: compileErrors,
		Options:       opts,
		Duration:      time.Since(t.start),
	}, nil
}

// enricher builds the stage chain for one invocation.
func (t *transform) enricher(opts Options) (*pipeline.Enricher, error) {
	lorem, err := pipeline.NewLoremExpander(t.corpus)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnrichment, err)
	}
	return pipeline.NewEnricher(
		pipeline.NewBlockExpander(),
		pipeline.NewScopeRewriter(opts.Scope),
		pipeline.NewMarkdownExpander(t.highlight),
		lorem,
	), nil
}

// sourceDir is the absolute directory of the template, or "" when the
// template has no path.
func (t *transform) sourceDir() string {
	if t.in.ResourcePath == "" {
		return ""
	}
	dir, err := filepath.Abs(filepath.Dir(t.in.ResourcePath))
	if err != nil {
		return filepath.Dir(t.in.ResourcePath)
	}
	return dir
}

func (t *transform) assetLoader() assets.AssetLoader {
	root := t.assetRoot
	if root == "" {
		root = t.sourceDir()
	}
	if root == "" {
		return nil
	}
	return &lazyLoader{root: root}
}

// lazyLoader opens the asset root on first use, so templates without local
// references never touch the filesystem.
type lazyLoader struct {
	root   string
	once   sync.Once
	loader *assets.FilesystemLoader
	err    error
}

func (z *lazyLoader) Load(path string) ([]byte, error) {
	z.once.Do(func() {
		z.loader, z.err = assets.NewFilesystemLoader(z.root)
	})
	if z.err != nil {
		return nil, z.err
	}
	return z.loader.Load(path)
}

// Compile-time interface check.
var _ assets.AssetLoader = (*lazyLoader)(nil)
