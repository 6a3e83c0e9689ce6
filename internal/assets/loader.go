package assets

// AssetLoader reads files referenced by a template.
type AssetLoader interface {
	// Load reads the file at path. Relative paths resolve against the loader
	// root. Returns ErrAssetNotFound if the file doesn't exist and
	// ErrPathTraversal if it lies outside the root.
	Load(path string) ([]byte, error)
}

// CorpusLoader loads word corpora for placeholder text.
type CorpusLoader interface {
	// LoadCorpus loads a corpus by name (without .txt extension).
	// Returns ErrCorpusNotFound if the corpus doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadCorpus(name string) (string, error)
}
