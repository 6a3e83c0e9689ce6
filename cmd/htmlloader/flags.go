package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage indicates invalid command-line usage.
var ErrUsage = errors.New("usage error")

// cliFlags holds every command-line flag.
type cliFlags struct {
	config      string
	output      string
	ext         string
	workers     int
	scope       string
	minimize    bool
	noHighlight bool
	assetRoot   string
	assetPath   string
	corpus      string
	watch       bool
	quiet       bool
	verbose     bool
	version     bool
	help        bool
	printConfig bool

	// changed records which flags were set explicitly.
	changed map[string]bool
}

func (f *cliFlags) set(name string) bool {
	return f.changed[name]
}

// parseFlags parses args (without the program name) and returns the
// positional arguments.
func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("htmlloader", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &cliFlags{changed: make(map[string]bool)}

	// I/O
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: next to each template)")
	fs.StringVar(&f.ext, "ext", "", "output extension (default: .js)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")

	// Transform
	fs.StringVarP(&f.scope, "scope", "s", "", "class scope (\"none\" disables)")
	fs.BoolVarP(&f.minimize, "minimize", "m", false, "minify inlined styles and whitespace")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable code highlighting in markdown")

	// Assets
	fs.StringVar(&f.assetRoot, "asset-root", "", "directory assets must stay under")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with corpus/<name>.txt")
	fs.StringVar(&f.corpus, "corpus", "", "lorem corpus name")

	// Modes
	fs.BoolVar(&f.watch, "watch", false, "rebuild on change")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and debug logs")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective config and exit")

	if err := fs.Parse(args); err != nil {
		printUsage(stderr)
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if f.quiet && f.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	fs.Visit(func(fl *flag.Flag) { f.changed[fl.Name] = true })
	return f, fs.Args(), nil
}
