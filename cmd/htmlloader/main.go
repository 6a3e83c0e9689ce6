// Command htmlloader compiles HTML templates into renderer modules.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	htmlloader "github.com/alnah/go-htmlloader"
	"github.com/alnah/go-htmlloader/internal/assets"
	"github.com/alnah/go-htmlloader/internal/config"
	"github.com/alnah/go-htmlloader/internal/logfields"
	"github.com/alnah/go-htmlloader/internal/yamlutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain runs the CLI and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseFlags(args, env.Stderr)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "htmlloader %s\n", Version)
		return ExitSuccess
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...any) {
		if flags.verbose {
			fmt.Fprintf(env.Stderr, format+"\n", a...)
		}
	}))

	if err := run(ctx, flags, positional, env); err != nil {
		var be *batchError
		if errors.As(err, &be) {
			// Per-file failures were already reported.
			if !flags.quiet {
				fmt.Fprintln(env.Stderr, err)
			}
		} else {
			fmt.Fprintf(env.Stderr, "htmlloader: %v%s\n", err, hintFor(err))
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// run resolves configuration, transforms every template once and, with
// --watch, keeps rebuilding until ctx is done.
func run(ctx context.Context, flags *cliFlags, positional []string, env *Environment) error {
	if !flags.quiet {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}

	cfg, err := resolveConfig(flags, env)
	if err != nil {
		return err
	}
	if flags.printConfig {
		out, err := yamlutil.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = env.Stdout.Write(out)
		return err
	}

	inputs := positional
	if len(inputs) == 0 {
		if cfg.Input.DefaultDir == "" {
			printUsage(env.Stderr)
			return fmt.Errorf("%w: no input specified", ErrUsage)
		}
		inputs = []string{cfg.Input.DefaultDir}
	}

	logger := newLogger(env.Stderr, flags.quiet, flags.verbose)
	loader, err := newLoader(cfg, logger)
	if err != nil {
		return err
	}
	opts := htmlloader.Options{Scope: cfg.Transform.Scope, Minimize: cfg.Transform.Minimize}

	files, err := discoverTemplates(inputs, cfg.Output.DefaultDir, cfg.Extension())
	if err != nil {
		return err
	}
	results := transformBatch(ctx, loader, files, cfg.Workers, opts, logger)
	printResults(results, flags.quiet, flags.verbose, env.Stdout, env.Stderr)
	batchFailure := batchErr(results)

	if !flags.watch {
		return batchFailure
	}

	dirs, err := watchDirs(inputs, cfg.Assets.Root)
	if err != nil {
		return err
	}
	w := &watcher{debounce: env.Debounce, logger: logger}
	w.trackOutputs(results)
	w.rebuild = func(ctx context.Context, changed []string) {
		current, err := discoverTemplates(inputs, cfg.Output.DefaultDir, cfg.Extension())
		if err != nil {
			fmt.Fprintf(env.Stderr, "htmlloader: %v\n", err)
			return
		}
		todo := planRebuild(current, changed)
		if len(todo) == 0 {
			return
		}
		results := transformBatch(ctx, loader, todo, cfg.Workers, opts, logger)
		w.trackOutputs(results)
		printResults(results, flags.quiet, flags.verbose, env.Stdout, env.Stderr)
	}
	if !flags.quiet {
		fmt.Fprintf(env.Stdout, "Watching %d director(ies) for changes\n", len(dirs))
	}
	return w.watch(ctx, dirs)
}

// newLoader builds the loader from the effective configuration.
func newLoader(cfg *config.Config, logger *slog.Logger) (*htmlloader.Loader, error) {
	resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return nil, fmt.Errorf("%w: assets.basePath: %w", config.ErrInvalidValue, err)
	}
	if resolver.HasCustomLoader() {
		logger.Debug("custom corpus directory", logfields.Path(cfg.Assets.BasePath))
	}
	corpus, err := resolver.LoadCorpus(cfg.CorpusName())
	if err != nil {
		return nil, fmt.Errorf("%w: assets.corpus: %w", config.ErrInvalidValue, err)
	}

	opts := []htmlloader.Option{
		htmlloader.WithLogger(logger),
		htmlloader.WithLoremCorpus(corpus),
		htmlloader.WithMarkdownHighlighting(!cfg.Transform.NoHighlight),
	}
	if cfg.Assets.Root != "" {
		opts = append(opts, htmlloader.WithAssetRoot(cfg.Assets.Root))
	}
	return htmlloader.New(opts...)
}

// newLogger logs to w: debug records when verbose, errors only when quiet,
// warnings otherwise.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
