package main

import (
	"errors"
	"os"

	htmlloader "github.com/alnah/go-htmlloader"
	"github.com/alnah/go-htmlloader/internal/config"
	"github.com/alnah/go-htmlloader/internal/fileutil"
)

// Exit codes for the htmlloader CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // All templates transformed
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or environment
	ExitIO       = 3 // File not found, permission denied
	ExitTemplate = 4 // A template failed to transform or compile
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// Template failures win over I/O failures in a batch.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrCompile) ||
		errors.Is(err, htmlloader.ErrEnrichment) ||
		errors.Is(err, htmlloader.ErrAssetInlining) ||
		errors.Is(err, htmlloader.ErrSerialization) ||
		errors.Is(err, htmlloader.ErrInternal) {
		return ExitTemplate
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadTemplate) ||
		errors.Is(err, ErrWriteModule) ||
		errors.Is(err, ErrNoTemplates) ||
		errors.Is(err, ErrWatch) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNotTemplate) ||
		errors.Is(err, htmlloader.ErrInvalidOption) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, fileutil.ErrExtensionEmpty) ||
		errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		return ExitUsage
	}

	return ExitGeneral
}
