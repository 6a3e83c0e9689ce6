package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlloader [flags] <file|dir>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile HTML templates into renderer modules.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  file|dir    Template or directory of *.html (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to each template)")
	fmt.Fprintln(w, "      --ext <ext>           Output extension (default: .js)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Transform:")
	fmt.Fprintln(w, "  -s, --scope <name>        Class scope (\"none\" disables)")
	fmt.Fprintln(w, "  -m, --minimize            Minify inlined styles and whitespace")
	fmt.Fprintln(w, "      --no-highlight        Disable code highlighting in markdown")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --asset-root <dir>    Directory assets must stay under")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with corpus/<name>.txt")
	fmt.Fprintln(w, "      --corpus <name>       Lorem corpus name (default: lorem)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Modes:")
	fmt.Fprintln(w, "      --watch               Rebuild on change")
	fmt.Fprintln(w, "      --print-config        Print the effective config and exit")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timing and debug logs")
	fmt.Fprintln(w, "      --version             Print version and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  HTMLLOADER_CONFIG, HTMLLOADER_SCOPE, HTMLLOADER_MINIMIZE, HTMLLOADER_OUTPUT_DIR,")
	fmt.Fprintln(w, "  HTMLLOADER_WORKERS, HTMLLOADER_ASSET_ROOT")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 general error, 2 usage or config, 3 I/O, 4 template errors")
}
