package htmlloader

import (
	"maps"
	"slices"
	"sync"
	"time"
)

// DefaultScope leaves class names unscoped.
const DefaultScope = "none"

// Options are the per-invocation transform settings.
type Options struct {
	// Scope suffixes class names and style selectors; "none" disables it.
	Scope string

	// Minimize minifies inlined stylesheets and collapses whitespace.
	Minimize bool

	// Extra holds host options the loader does not interpret.
	Extra map[string]string
}

// Input is one template to transform.
type Input struct {
	// Source is the raw template text.
	Source string

	// ResourcePath is the template file path. Relative asset references
	// resolve against its directory. Empty for in-memory templates.
	ResourcePath string

	// ResourceQuery is the query part of the import request, such as
	// "?scope=card&minimize". It overrides Options.
	ResourceQuery string

	// Options are the host-supplied settings.
	Options Options
}

// Result is a finished transform.
type Result struct {
	// Module is the generated module text.
	Module string

	// Warnings are the validator findings, in document order.
	Warnings []string

	// CompileErrors are the compiler errors. When set, Module renders by
	// throwing.
	CompileErrors []string

	// Options are the effective options after query resolution.
	Options Options

	// Duration is the wall time of the transform.
	Duration time.Duration
}

// Host receives the side-channel reports of a transform.
type Host interface {
	// Cacheable is called once, before any stage runs.
	Cacheable(bool)

	// EmitWarning reports non-fatal findings.
	EmitWarning(msg string)

	// EmitError reports a failure. It is called at most once per transform.
	EmitError(msg string)
}

// Diagnostics is a Host that records reports. It is safe for concurrent use.
type Diagnostics struct {
	mu        sync.Mutex
	cacheable bool
	warnings  []string
	errors    []string
}

// Cacheable implements Host.
func (d *Diagnostics) Cacheable(ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cacheable = ok
}

// EmitWarning implements Host.
func (d *Diagnostics) EmitWarning(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.warnings = append(d.warnings, msg)
}

// EmitError implements Host.
func (d *Diagnostics) EmitError(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors = append(d.errors, msg)
}

// IsCacheable returns the last cacheability declaration.
func (d *Diagnostics) IsCacheable() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cacheable
}

// Warnings returns a copy of the recorded warnings.
func (d *Diagnostics) Warnings() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.warnings)
}

// Errors returns a copy of the recorded errors.
func (d *Diagnostics) Errors() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.errors)
}

type discardHost struct{}

func (discardHost) Cacheable(bool)     {}
func (discardHost) EmitWarning(string) {}
func (discardHost) EmitError(string)   {}

func (o Options) clone() Options {
	o.Extra = maps.Clone(o.Extra)
	return o
}

// Compile-time interface checks.
var (
	_ Host = (*Diagnostics)(nil)
	_ Host = discardHost{}
)
