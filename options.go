package htmlloader

import "log/slog"

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the structured logger. Stage transitions are logged at
// Debug level, outcomes at Info and Error.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMarkdownHighlighting toggles syntax highlighting of fenced code in
// Markdown regions. Enabled by default.
func WithMarkdownHighlighting(enabled bool) Option {
	return func(l *Loader) {
		l.highlight = enabled
	}
}

// WithLoremCorpus replaces the embedded placeholder text corpus.
func WithLoremCorpus(text string) Option {
	return func(l *Loader) {
		l.corpus = text
	}
}

// WithAssetRoot confines asset reads to dir. References starting with "/"
// resolve against it. By default the template directory is the root.
func WithAssetRoot(dir string) Option {
	return func(l *Loader) {
		l.assetRoot = dir
	}
}
