package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	htmlloader "github.com/alnah/go-htmlloader"
	"github.com/alnah/go-htmlloader/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "unknown", err: errors.New("boom"), want: ExitGeneral},
		{name: "compile errors", err: fmt.Errorf("%w: 2 error(s)", ErrCompile), want: ExitTemplate},
		{name: "enrichment", err: fmt.Errorf("x: %w", htmlloader.ErrEnrichment), want: ExitTemplate},
		{name: "asset inlining", err: htmlloader.ErrAssetInlining, want: ExitTemplate},
		{name: "internal", err: htmlloader.ErrInternal, want: ExitTemplate},
		{name: "missing file", err: fmt.Errorf("%w: %w", ErrReadTemplate, os.ErrNotExist), want: ExitIO},
		{name: "write failure", err: ErrWriteModule, want: ExitIO},
		{name: "no templates", err: ErrNoTemplates, want: ExitIO},
		{name: "watch", err: ErrWatch, want: ExitIO},
		{name: "usage", err: ErrUsage, want: ExitUsage},
		{name: "not a template", err: ErrNotTemplate, want: ExitUsage},
		{name: "invalid option", err: htmlloader.ErrInvalidOption, want: ExitUsage},
		{name: "config not found", err: fmt.Errorf("loading config: %w", config.ErrConfigNotFound), want: ExitUsage},
		{name: "config value", err: config.ErrInvalidValue, want: ExitUsage},
		{
			name: "template failure wins in a batch",
			err:  &batchError{failed: 2, total: 3, errs: []error{ErrWriteModule, ErrCompile}},
			want: ExitTemplate,
		},
		{
			name: "io failure in a batch",
			err:  &batchError{failed: 1, total: 3, errs: []error{fmt.Errorf("%w: %w", ErrReadTemplate, os.ErrPermission)}},
			want: ExitIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantHint bool
	}{
		{name: "config not found", err: &config.NotFoundError{Name: "x", Tried: []string{"x.yaml"}}, wantHint: true},
		{name: "invalid option", err: fmt.Errorf("%w: scope", htmlloader.ErrInvalidOption), wantHint: true},
		{name: "write failure", err: ErrWriteModule, wantHint: true},
		{name: "watch failure", err: ErrWatch, wantHint: true},
		{name: "plain error", err: errors.New("boom")},
		{name: "compile error", err: ErrCompile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := hintFor(tt.err); (got != "") != tt.wantHint {
				t.Errorf("hintFor(%v) = %q, want hint: %v", tt.err, got, tt.wantHint)
			}
		})
	}
}
