package compiler

import (
	"strconv"
	"strings"
)

// codegen emits render function code for the runtime helpers:
//
//	_c  create element     _v  text node       _s  to display string
//	_e  empty node         _l  render list     _m  static tree
//	_t  slot outlet        _n  to number
type codegen struct {
	staticFns []string
	pre       bool
}

func (g *codegen) node(n *astNode) string {
	switch n.Kind {
	case exprKind:
		return "_v(" + n.Expression + ")"
	case textKind:
		return "_v(" + jsString(n.Text) + ")"
	}
	return g.element(n)
}

func (g *codegen) element(el *astNode) string {
	if el.Parent != nil {
		el.Pre = el.Pre || el.Parent.Pre
	}
	switch {
	case el.StaticRoot && !el.staticProcessed:
		return g.static(el)
	case el.Once && !el.staticProcessed && el.If == "" && el.For == "" && !el.inFor():
		return g.static(el)
	case el.For != "" && !el.forProcessed:
		return g.forLoop(el)
	case el.If != "" && !el.ifProcessed:
		el.ifProcessed = true
		return g.conditions(el.IfConditions)
	case el.name() == "template" && el.SlotTarget == "" && !g.pre:
		if c := g.children(el); c != "" {
			return c
		}
		return "void 0"
	case el.name() == "slot" && !g.pre:
		return g.slot(el)
	}

	tag := jsString(el.Tag)
	if el.Component != "" {
		tag = el.Component
	}
	code := "_c(" + tag
	if data := g.data(el); data != "" {
		code += "," + data
	}
	if children := g.children(el); children != "" {
		code += "," + children
	}
	return code + ")"
}

// static hoists el into its own render function and references it by index.
func (g *codegen) static(el *astNode) string {
	el.staticProcessed = true
	wasPre := g.pre
	if el.Pre {
		g.pre = true
	}
	idx := len(g.staticFns)
	g.staticFns = append(g.staticFns, "")
	g.staticFns[idx] = "with(this){return " + g.element(el) + "}"
	g.pre = wasPre

	if el.StaticInFor {
		return "_m(" + strconv.Itoa(idx) + ",true)"
	}
	return "_m(" + strconv.Itoa(idx) + ")"
}

func (g *codegen) forLoop(el *astNode) string {
	el.forProcessed = true
	params := forData{Alias: el.Alias, Iterator1: el.Iterator1, Iterator2: el.Iterator2}.params()
	return "_l((" + el.For + "),function(" + params + "){return " + g.element(el) + "})"
}

func (g *codegen) conditions(conds []ifCondition) string {
	if len(conds) == 0 {
		return "_e()"
	}
	c := conds[0]
	block := g.conditionBlock(c.Block)
	if c.Exp == "" {
		return block
	}
	return "(" + c.Exp + ")?" + block + ":" + g.conditions(conds[1:])
}

func (g *codegen) conditionBlock(el *astNode) string {
	if el.Once && !el.staticProcessed {
		return g.static(el)
	}
	return g.element(el)
}

func (g *codegen) slot(el *astNode) string {
	name := el.SlotName
	if name == "" {
		name = `"default"`
	}
	code := "_t(" + name
	children := g.children(el)
	if children != "" {
		code += "," + children
	}
	if len(el.Attrs) > 0 {
		if children == "" {
			code += ",null"
		}
		code += "," + g.props(el.Attrs)
	}
	return code + ")"
}

func (g *codegen) children(el *astNode) string {
	ch := el.Children
	if len(ch) == 0 {
		return ""
	}
	if len(ch) == 1 && ch[0].Kind == elementKind && ch[0].For != "" &&
		ch[0].name() != "template" && ch[0].name() != "slot" {
		norm := ",0"
		if maybeComponent(ch[0]) {
			norm = ",1"
		}
		return g.element(ch[0]) + norm
	}

	parts := make([]string, len(ch))
	for i, c := range ch {
		parts[i] = g.node(c)
	}
	code := "[" + strings.Join(parts, ",") + "]"
	if norm := normalizationType(ch); norm != 0 {
		code += "," + strconv.Itoa(norm)
	}
	return code
}

// normalizationType returns 2 when children may hold nested arrays, 1 when a
// component may return several roots, and 0 otherwise.
func normalizationType(children []*astNode) int {
	res := 0
	for _, c := range children {
		if c.Kind != elementKind {
			continue
		}
		blocks := []*astNode{c}
		for _, cond := range c.IfConditions[min(1, len(c.IfConditions)):] {
			blocks = append(blocks, cond.Block)
		}
		for _, b := range blocks {
			if needsNormalization(b) {
				return 2
			}
			if maybeComponent(b) {
				res = 1
			}
		}
	}
	return res
}

func needsNormalization(el *astNode) bool {
	return el.For != "" || el.name() == "template" || el.name() == "slot"
}

func maybeComponent(el *astNode) bool {
	return el.Component != "" || !isReserved(el.name())
}

// data emits the VNode data object, or "" when there is none.
func (g *codegen) data(el *astNode) string {
	var fields []string
	add := func(key, value string) { fields = append(fields, key+":"+value) }

	if dirs := g.directives(el); dirs != "" {
		add("directives", dirs)
	}
	if el.Key != "" {
		add("key", el.Key)
	}
	if el.Ref != "" {
		add("ref", el.Ref)
	}
	if el.RefInFor {
		add("refInFor", "true")
	}
	if el.Pre {
		add("pre", "true")
	}
	if el.StaticClass != "" {
		add("staticClass", el.StaticClass)
	}
	if el.ClassBinding != "" {
		add("class", el.ClassBinding)
	}
	if el.StaticStyle != "" {
		add("staticStyle", el.StaticStyle)
	}
	if el.StyleBinding != "" {
		add("style", el.StyleBinding)
	}
	if len(el.Attrs) > 0 {
		add("attrs", g.props(el.Attrs))
	}
	if len(el.Props) > 0 {
		add("domProps", g.props(el.Props))
	}
	if on := handlers(el.Events, false); on != "" {
		add("on", on)
	}
	if on := handlers(el.Events, true); on != "" {
		add("nativeOn", on)
	}
	if el.SlotTarget != "" {
		add("slot", el.SlotTarget)
	}
	if el.Model != nil {
		add("model", "{value:"+el.Model.Value+",callback:"+el.Model.Callback+",expression:"+el.Model.Expression+"}")
	}

	if len(fields) == 0 {
		return ""
	}
	return "{" + strings.Join(fields, ",") + "}"
}

func (g *codegen) props(list []binding) string {
	parts := make([]string, len(list))
	for i, b := range list {
		parts[i] = jsString(b.Name) + ":" + b.Value
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func (g *codegen) directives(el *astNode) string {
	if len(el.Directives) == 0 {
		return ""
	}
	parts := make([]string, len(el.Directives))
	for i, d := range el.Directives {
		code := "{name:" + jsString(d.Name) + ",rawName:" + jsString(d.RawName)
		if d.Value != "" {
			code += ",value:(" + d.Value + "),expression:" + jsString(d.Value)
		}
		if d.Arg != "" {
			code += ",arg:" + jsString(d.Arg)
		}
		if len(d.Modifiers) > 0 {
			mods := make([]string, len(d.Modifiers))
			for j, m := range d.Modifiers {
				mods[j] = jsString(m) + ":true"
			}
			code += ",modifiers:{" + strings.Join(mods, ",") + "}"
		}
		parts[i] = code + "}"
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// handlers groups listeners by event name; several listeners for one event
// become an array.
func handlers(events []handler, native bool) string {
	var names []string
	grouped := make(map[string][]string)
	for _, h := range events {
		if h.Native != native {
			continue
		}
		if _, ok := grouped[h.Name]; !ok {
			names = append(names, h.Name)
		}
		grouped[h.Name] = append(grouped[h.Name], h.Code)
	}
	if len(names) == 0 {
		return ""
	}

	parts := make([]string, len(names))
	for i, name := range names {
		codes := grouped[name]
		value := codes[0]
		if len(codes) > 1 {
			value = "[" + strings.Join(codes, ",") + "]"
		}
		parts[i] = jsString(name) + ":" + value
	}
	return "{" + strings.Join(parts, ",") + "}"
}
