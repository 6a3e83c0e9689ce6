// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"runtime"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and the user config location that was searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-htmlloader") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForAssetNotFound returns hints for missing inlined assets.
func ForAssetNotFound() string {
	return formatHints([]string{
		"relative references resolve against the template directory",
		"references starting with / resolve against --asset-root",
	})
}

// ForPathTraversal returns hints for assets outside the asset root.
func ForPathTraversal() string {
	return format("set --asset-root to a directory containing both the template and its assets")
}

// ForInvalidOption returns hints for rejected scope or minimize values.
func ForInvalidOption() string {
	return formatHints([]string{
		"scope must match [A-Za-z_][A-Za-z0-9_-]* or be \"none\"",
		"minimize takes true, false, 1 or 0",
	})
}

// ForLoremCount returns hints for out-of-range lorem counts.
func ForLoremCount(max int) string {
	return format(fmt.Sprintf("lorem words, sentences and paragraphs take a count from 1 to %d", max))
}

// ForWatchLimit returns hints for file watcher setup errors.
func ForWatchLimit() string {
	if runtime.GOOS == "linux" {
		return format("raise fs.inotify.max_user_watches or watch fewer directories")
	}
	return format("watch fewer directories")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
