// Package compiler turns templates into render functions.
//
// Compile parses a template into an element tree, marks static subtrees,
// and generates render code for a Vue 2 compatible runtime. Expressions in
// bindings, interpolations and handlers are checked with esbuild so syntax
// errors are reported at build time with their template position.
//
// Validate is independent of Compile and reports non-fatal structural
// problems such as invalid nesting or missing alt text.
package compiler
