// Package assets reads the files a template references and the word corpora
// used for placeholder text.
//
// # Loader Architecture
//
//	AssetLoader (interface)          CorpusLoader (interface)
//	    │                                │
//	    └── FilesystemLoader ────────────┤
//	                                     ├── EmbeddedLoader
//	                                     └── AssetResolver
//
// FilesystemLoader reads files below a root directory: images, stylesheets
// and scripts referenced by a template, and custom corpora stored as
// {root}/corpus/{name}.txt.
//
// EmbeddedLoader serves the built-in corpora compiled into the binary.
//
// AssetResolver tries a custom FilesystemLoader first and falls back to the
// embedded corpora when the name is not found there.
//
// # Security
//
// Corpus names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies every path stays within its root, so a
// template cannot inline files from outside the asset root.
package assets
