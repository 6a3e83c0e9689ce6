// Package pipeline implements the text and markup stages that turn a raw
// HTML template into a renderer module:
//   - Leading comment stripping and trailing trimming (plain text)
//   - Enrichment: block, scope, markdown and lorem expansion on the element tree
//   - Asset inlining of images, stylesheets and scripts
//   - Module serialization via esbuild
//
// Template validation and compilation live in the compiler package; the root
// htmlloader package sequences the stages and reports to the host.
package pipeline
