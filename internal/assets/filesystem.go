package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads assets from a directory on the filesystem.
// Implements AssetLoader and CorpusLoader.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Resolve symlinks in base path for consistent containment checks
	realPath, err := filepath.EvalSymlinks(absPath)
	if err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}

	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// BasePath returns the resolved root directory.
func (f *FilesystemLoader) BasePath() string {
	return f.basePath
}

// Load reads a file below the base path. Relative paths resolve against the
// base path.
func (f *FilesystemLoader) Load(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrAssetNotFound)
	}
	filePath := path
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(f.basePath, filePath)
	}

	if err := f.verifyPathContainment(filePath); err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}

	content, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return content, nil
}

// LoadCorpus loads a word corpus from the filesystem.
// Looks for {basePath}/corpus/{name}.txt
func (f *FilesystemLoader) LoadCorpus(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	filePath := filepath.Join(f.basePath, "corpus", name+".txt")
	if err := f.verifyPathContainment(filePath); err != nil {
		return "", err
	}

	content, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrCorpusNotFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// verifyPathContainment ensures the resolved file path is within basePath.
// Symlinks are resolved so a link cannot point outside basePath.
func (f *FilesystemLoader) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	realPath, err := filepath.EvalSymlinks(absFilePath)
	if err == nil {
		absFilePath = realPath
	}
	// If EvalSymlinks fails (e.g., file doesn't exist), the prefix check
	// still applies and the read fails afterwards.

	// Separator suffix prevents prefix attacks (/base/path vs /base/pathevil)
	if !strings.HasPrefix(absFilePath, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}

// Compile-time interface checks.
var (
	_ AssetLoader  = (*FilesystemLoader)(nil)
	_ CorpusLoader = (*FilesystemLoader)(nil)
)
