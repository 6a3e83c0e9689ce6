// Package htmlloader turns HTML templates into self-contained renderer
// modules for a Vue 2 runtime.
//
// A transform runs a fixed sequence of stages:
//
//	strip leading comments → trim trailing text → enrich → inline assets
//	→ validate → compile → serialize
//
// Enrichment expands <block>, scoped class names, <markdown> regions and
// <lorem> placeholders. Inlining embeds local images, stylesheets and
// scripts. Validation findings are reported as warnings. A template the
// compiler rejects still produces a module whose render function throws,
// with the compiler errors reported to the host.
//
// Basic usage:
//
//	loader, err := htmlloader.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var diag htmlloader.Diagnostics
//	module, err := loader.Transform(ctx, htmlloader.Input{
//	    Source:        src,
//	    ResourcePath:  "components/card.html",
//	    ResourceQuery: "?scope=card",
//	}, &diag)
//
// Options resolve in increasing precedence: defaults, Input.Options, then
// the resource query. The query may be URL-encoded or a JSON object.
package htmlloader
