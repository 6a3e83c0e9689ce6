package assets

import "errors"

// AssetResolver combines a custom corpus directory with the embedded corpora.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the corpus is not found in the custom location.
type AssetResolver struct {
	custom   CorpusLoader // nil if no custom path configured
	embedded CorpusLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded corpora are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadCorpus loads a corpus, trying the custom loader first if available.
func (r *AssetResolver) LoadCorpus(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadCorpus(name)
	}

	content, err := r.custom.LoadCorpus(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !errors.Is(err, ErrCorpusNotFound) {
		return "", err
	}
	return r.embedded.LoadCorpus(name)
}

// HasCustomLoader returns true if a custom corpus loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ CorpusLoader = (*AssetResolver)(nil)
