package compiler

import "github.com/alnah/go-htmlloader/internal/markup"

// emptyRender renders a placeholder element when there is no root to compile.
const emptyRender = `with(this){return _c("div")}`

// Result is a compiled template. Render and each entry of StaticRenderFns are
// function bodies evaluated with the component instance as this.
type Result struct {
	Render          string
	StaticRenderFns []string
	Errors          []string
}

// Failed reports whether compilation produced errors.
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Compile compiles a template into render code. Structural problems and
// invalid expressions are collected in Result.Errors; the code is still
// generated on a best effort basis and should not be used when Failed.
func Compile(template string) *Result {
	doc := markup.Parse(template)
	p := newParser(doc)
	root := p.parseRoot()

	res := &Result{Render: emptyRender, StaticRenderFns: []string{}, Errors: p.errors}
	if root == nil {
		return res
	}

	optimize(root)
	g := &codegen{}
	res.Render = "with(this){return " + g.element(root) + "}"
	if g.staticFns != nil {
		res.StaticRenderFns = g.staticFns
	}
	return res
}
