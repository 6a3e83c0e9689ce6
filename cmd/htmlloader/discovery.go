package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-htmlloader/internal/fileutil"
)

// Sentinel errors for template discovery.
var (
	ErrNoTemplates = errors.New("no templates found")
	ErrNotTemplate = errors.New("file must have .html or .htm extension")
)

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
}

// templateFile is one template to transform.
type templateFile struct {
	InputPath  string
	OutputPath string
}

func isTemplate(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// discoverTemplates expands inputs into templates. Directories are walked
// recursively; the output tree mirrors the input tree below outputDir.
func discoverTemplates(inputs []string, outputDir, ext string) ([]templateFile, error) {
	var files []templateFile
	seen := make(map[string]bool)
	add := func(path, base string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		files = append(files, templateFile{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, outputDir, base, ext),
		})
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadTemplate, err)
		}
		if !info.IsDir() {
			if !isTemplate(input) {
				return nil, fmt.Errorf("%w: %s", ErrNotTemplate, input)
			}
			add(input, "")
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() {
				if path != input && (strings.HasPrefix(d.Name(), ".") || skippedDirs[d.Name()]) {
					return filepath.SkipDir
				}
				return nil
			}
			if isTemplate(path) {
				add(path, input)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTemplates, strings.Join(inputs, ", "))
	}
	return files, nil
}

// resolveOutputPath determines the module path for a template.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) string {
	name := fileutil.ReplaceExt(filepath.Base(inputPath), ext)
	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}
	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(rel), name)
		}
	}
	return filepath.Join(outputDir, name)
}
