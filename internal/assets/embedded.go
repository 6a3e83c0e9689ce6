package assets

import (
	"embed"
	"fmt"
)

// DefaultCorpus is the name of the built-in placeholder corpus.
const DefaultCorpus = "lorem"

//go:embed corpus/*.txt
var corpora embed.FS

// EmbeddedLoader loads corpora from the embedded filesystem.
// Implements CorpusLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadCorpus loads a corpus from embedded assets by name.
// The name should not include the .txt extension.
func (e *EmbeddedLoader) LoadCorpus(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := corpora.ReadFile("corpus/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrCorpusNotFound, name)
	}
	return string(content), nil
}

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadCorpus loads a built-in corpus by name.
func LoadCorpus(name string) (string, error) {
	return defaultLoader.LoadCorpus(name)
}

// Compile-time interface check.
var _ CorpusLoader = (*EmbeddedLoader)(nil)
