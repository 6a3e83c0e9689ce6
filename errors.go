package htmlloader

import (
	"errors"

	"github.com/alnah/go-htmlloader/internal/pipeline"
)

// Sentinel errors for transform failures. Compiler errors are not among
// them: a template the compiler rejects still yields a module.
var (
	// ErrEnrichment indicates a markup enrichment stage failed. The error
	// chain carries a *StageError naming the stage.
	ErrEnrichment = pipeline.ErrEnrichment

	// ErrAssetInlining indicates a referenced asset could not be embedded.
	ErrAssetInlining = pipeline.ErrAssetInlining

	// ErrSerialization indicates the module text could not be formatted.
	ErrSerialization = pipeline.ErrSerialization

	// ErrInvalidOption indicates an option or resource query value is invalid.
	ErrInvalidOption = errors.New("invalid option")

	// ErrInternal indicates an unexpected failure inside a stage.
	ErrInternal = errors.New("internal error")
)

// StageError identifies the enrichment stage that failed.
type StageError = pipeline.StageError
