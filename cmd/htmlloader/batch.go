package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	htmlloader "github.com/alnah/go-htmlloader"
	"github.com/alnah/go-htmlloader/internal/fileutil"
	"github.com/alnah/go-htmlloader/internal/logfields"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrReadTemplate = errors.New("failed to read template")
	ErrWriteModule  = errors.New("failed to write module")
	ErrCompile      = errors.New("template has compile errors")
)

// Transformer is the loader as seen by the CLI.
type Transformer interface {
	TransformResult(ctx context.Context, in htmlloader.Input, host htmlloader.Host) (*htmlloader.Result, error)
}

// Compile-time interface implementation check.
var _ Transformer = (*htmlloader.Loader)(nil)

// fileResult holds the outcome of a single template.
type fileResult struct {
	InputPath  string
	OutputPath string
	Warnings   []string // host warning messages
	Messages   []string // host error messages
	Err        error
	Duration   time.Duration
}

// transformBatch transforms files concurrently with at most workers
// goroutines. Results keep the order of files.
func transformBatch(ctx context.Context, t Transformer, files []templateFile, workers int, opts htmlloader.Options, logger *slog.Logger) []fileResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := resolvePoolSize(workers, len(files))
	results := make([]fileResult, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for w := range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log := logger.With(logfields.Worker(w))
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = fileResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = transformFile(ctx, t, files[idx], opts)
				log.Debug("template processed",
					logfields.Path(files[idx].InputPath),
					logfields.Error(results[idx].Err),
					logfields.DurationMS(float64(results[idx].Duration.Microseconds())/1000))
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// transformFile transforms one template and writes its module. A template
// with compile errors still gets its fallback module written.
func transformFile(ctx context.Context, t Transformer, f templateFile, opts htmlloader.Options) (result fileResult) {
	start := time.Now()
	result = fileResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	defer func() { result.Duration = time.Since(start) }()

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrReadTemplate, err)
		return result
	}

	var diag htmlloader.Diagnostics
	res, err := t.TransformResult(ctx, htmlloader.Input{
		Source:       string(content),
		ResourcePath: f.InputPath,
		Options:      opts,
	}, &diag)
	result.Warnings = diag.Warnings()
	result.Messages = diag.Errors()
	if err != nil {
		result.Err = err
		return result
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: creating output directory: %w", ErrWriteModule, err)
		return result
	}
	if err := fileutil.WriteFileAtomic(f.OutputPath, []byte(res.Module), filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrWriteModule, err)
		return result
	}

	if len(res.CompileErrors) > 0 {
		result.Err = fmt.Errorf("%w: %d error(s)", ErrCompile, len(res.CompileErrors))
	}
	return result
}

// batchError summarizes failed templates. Unwrap exposes every failure so
// exit codes can be derived with errors.Is.
type batchError struct {
	failed int
	total  int
	errs   []error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d template(s) failed", e.failed, e.total)
}

func (e *batchError) Unwrap() []error { return e.errs }

// batchErr returns a *batchError for the failed results, or nil.
func batchErr(results []fileResult) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &batchError{failed: len(errs), total: len(results), errs: errs}
}

// printResults reports each result. Warnings go to stderr unless quiet.
// Returns the number of failed templates.
func printResults(results []fileResult, quiet, verbose bool, stdout, stderr io.Writer) int {
	failed := 0
	for _, r := range results {
		if !quiet {
			for _, w := range r.Warnings {
				fmt.Fprintf(stderr, "%s: %s\n", r.InputPath, w)
			}
		}

		if r.Err != nil {
			failed++
			fmt.Fprintf(stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			if errors.Is(r.Err, ErrCompile) {
				for _, m := range r.Messages {
					fmt.Fprintln(stderr, indent(m))
				}
			}
			continue
		}

		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return failed
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
