package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-htmlloader/internal/markup"
)

var (
	dirRE  = regexp.MustCompile(`^(?:v-|@|:|#)`)
	bindRE = regexp.MustCompile(`^(?::|v-bind:)`)
	onRE   = regexp.MustCompile(`^(?:@|v-on:)`)
)

// parser turns a markup tree into a template AST and collects compilation
// errors with their source positions.
type parser struct {
	doc    *markup.Document
	exprs  *exprChecker
	errors []string

	inVPre bool
	inPre  int
}

func newParser(doc *markup.Document) *parser {
	return &parser{doc: doc, exprs: newExprChecker()}
}

func (p *parser) errorAt(offset int, format string, args ...any) {
	pos := p.doc.Position(offset)
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("%s (line %d, column %d)", msg, pos.Line, pos.Column))
}

// parseRoot builds the AST of the single root element.
func (p *parser) parseRoot() *astNode {
	for _, e := range p.doc.Errors {
		p.errorAt(e.Offset, "%s", e.Msg)
	}

	var root *astNode
	sawText := false
	for _, n := range p.doc.Children {
		switch n.Type {
		case markup.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				sawText = true
				p.errorAt(n.Offset, "text %q outside root element will be ignored.", text)
			}
		case markup.ElementNode:
			el := p.element(n, nil)
			if el == nil {
				continue
			}
			switch {
			case root == nil:
				root = el
				p.checkRoot(el)
			case el.isElse() && root.If != "":
				p.checkRoot(el)
				root.IfConditions = append(root.IfConditions, ifCondition{Exp: el.ElseIf, Block: el})
			default:
				p.errorAt(n.Offset, "Component template should contain exactly one root element. "+
					"If you are using v-if on multiple elements, use v-else-if to chain them instead.")
			}
		}
	}

	if root == nil {
		if sawText {
			p.errorAt(0, "Component template requires a root element, rather than just text.")
		} else {
			p.errorAt(0, "Template is empty: a component template requires a root element.")
		}
	}
	return root
}

func (p *parser) checkRoot(el *astNode) {
	switch {
	case el.name() == "slot" || el.name() == "template":
		p.errorAt(el.Offset, "Cannot use <%s> as component root element because it may contain multiple nodes.", el.Tag)
	case el.For != "":
		p.errorAt(el.Offset, "Cannot use v-for on stateful component root element because it renders multiple elements.")
	}
}

// children converts the child nodes of an element, attaching v-else and
// v-else-if branches to the preceding v-if.
func (p *parser) children(nodes []*markup.Node, parent *astNode) []*astNode {
	var out []*astNode
	for _, n := range nodes {
		switch n.Type {
		case markup.TextNode:
			if t := p.text(n, out); t != nil {
				t.Parent = parent
				out = append(out, t)
			}
		case markup.ElementNode:
			el := p.element(n, parent)
			if el == nil {
				continue
			}
			if el.isElse() {
				out = p.attachCondition(el, out)
				continue
			}
			out = append(out, el)
		}
	}
	if p.inPre == 0 {
		for len(out) > 0 && out[len(out)-1].Kind == textKind && out[len(out)-1].Text == " " {
			out = out[:len(out)-1]
		}
	}
	return out
}

func (p *parser) attachCondition(el *astNode, siblings []*astNode) []*astNode {
	for len(siblings) > 0 && siblings[len(siblings)-1].Kind != elementKind {
		last := siblings[len(siblings)-1]
		if strings.TrimSpace(last.Text) != "" {
			p.errorAt(last.Offset, "text %q between v-if and v-else(-if) will be ignored.", strings.TrimSpace(last.Text))
		}
		siblings = siblings[:len(siblings)-1]
	}

	if len(siblings) > 0 && siblings[len(siblings)-1].If != "" {
		prev := siblings[len(siblings)-1]
		if n := len(prev.IfConditions); n > 0 && prev.IfConditions[n-1].Exp == "" {
			p.errorAt(el.Offset, "v-else-if or v-else used on element <%s> after a v-else branch.", el.Tag)
			return siblings
		}
		prev.IfConditions = append(prev.IfConditions, ifCondition{Exp: el.ElseIf, Block: el})
		return siblings
	}

	if el.ElseIf != "" {
		p.errorAt(el.Offset, "v-else-if=%q used on element <%s> without corresponding v-if.", el.ElseIf, el.Tag)
	} else {
		p.errorAt(el.Offset, "v-else used on element <%s> without corresponding v-if.", el.Tag)
	}
	return siblings
}

// text applies whitespace condensing outside <pre> and parses interpolations.
func (p *parser) text(n *markup.Node, siblings []*astNode) *astNode {
	text := n.Data
	if p.inPre == 0 {
		if strings.TrimSpace(text) == "" {
			if len(siblings) == 0 || strings.ContainsAny(text, "\r\n") {
				return nil
			}
			text = " "
		} else {
			text = whitespaceRE.ReplaceAllString(text, " ")
		}
	}

	if !p.inVPre && text != " " {
		if code, exps, ok := parseText(text); ok {
			for _, e := range exps {
				if msg := p.exprs.expression(e.Exp); msg != "" {
					p.errorAt(n.Offset, "%s", invalidExpression("expression", msg, e.Exp, "{{"+e.Exp+"}}"))
				}
			}
			return &astNode{Kind: exprKind, Text: text, Expression: code, Offset: n.Offset}
		}
	}
	return &astNode{Kind: textKind, Text: text, Offset: n.Offset}
}

// element converts one element and its subtree. It returns nil for elements
// that are dropped from the output.
func (p *parser) element(n *markup.Node, parent *astNode) *astNode {
	el := &astNode{Kind: elementKind, Tag: n.Tag, Parent: parent, Offset: n.Offset}
	name := n.Name()

	if name == "script" {
		typ, _ := n.Attr("type")
		if typ == "" || typ == "text/javascript" || typ == "module" {
			p.errorAt(n.Offset, "Templates should only be responsible for mapping the state to the UI. "+
				"Avoid placing tags with side-effects in your templates, such as <script>, as they will not be parsed.")
			return nil
		}
	}

	attrs := append([]markup.Attr(nil), n.Attrs...)
	enteredVPre := false
	if !p.inVPre {
		if _, ok := takeAttr(&attrs, "v-pre"); ok {
			p.inVPre = true
			enteredVPre = true
			el.Pre = true
		}
	}

	if p.inVPre {
		for _, a := range attrs {
			el.Attrs = append(el.Attrs, binding{Name: a.Key, Value: jsString(a.Val)})
		}
	} else {
		p.processFor(el, &attrs)
		p.processIf(el, &attrs)
		if _, ok := takeAttr(&attrs, "v-once"); ok {
			el.Once = true
		}
		p.processKey(el, &attrs)
		p.processRef(el, &attrs)
		p.processSlot(el, &attrs)
		p.processComponent(el, &attrs)
		p.processAttrs(el, attrs)
	}

	isPre := name == "pre" || name == "textarea"
	if isPre {
		p.inPre++
	}
	el.Children = p.children(n.Children, el)
	if isPre {
		p.inPre--
	}
	if enteredVPre {
		p.inVPre = false
	}
	return el
}

// takeAttr removes the first attribute named one of names and returns it.
func takeAttr(attrs *[]markup.Attr, names ...string) (markup.Attr, bool) {
	for i, a := range *attrs {
		for _, name := range names {
			if a.Key == name {
				*attrs = append((*attrs)[:i], (*attrs)[i+1:]...)
				return a, true
			}
		}
	}
	return markup.Attr{}, false
}

func (p *parser) checkExpression(el *astNode, attr, exp string) {
	if msg := p.exprs.expression(exp); msg != "" {
		p.errorAt(el.Offset, "%s", invalidExpression("expression", msg, exp, attr+"=\""+exp+"\""))
	}
}

func (p *parser) processFor(el *astNode, attrs *[]markup.Attr) {
	a, ok := takeAttr(attrs, "v-for")
	if !ok {
		return
	}
	res, ok := parseFor(a.Val)
	if !ok {
		p.errorAt(el.Offset, "Invalid v-for expression: %s", a.Val)
		return
	}
	p.checkExpression(el, "v-for", res.For)
	if msg := p.exprs.params(res.params()); msg != "" {
		p.errorAt(el.Offset, "%s", invalidExpression("v-for alias", msg, res.params(), "v-for=\""+a.Val+"\""))
	}
	el.For, el.Alias, el.Iterator1, el.Iterator2 = res.For, res.Alias, res.Iterator1, res.Iterator2
}

func (p *parser) processIf(el *astNode, attrs *[]markup.Attr) {
	if a, ok := takeAttr(attrs, "v-if"); ok {
		exp := strings.TrimSpace(a.Val)
		if exp == "" {
			p.errorAt(el.Offset, "v-if on <%s> requires an expression.", el.Tag)
			return
		}
		p.checkExpression(el, "v-if", exp)
		el.If = exp
		el.IfConditions = []ifCondition{{Exp: exp, Block: el}}
		return
	}
	if a, ok := takeAttr(attrs, "v-else-if"); ok {
		exp := strings.TrimSpace(a.Val)
		if exp == "" {
			p.errorAt(el.Offset, "v-else-if on <%s> requires an expression.", el.Tag)
			exp = "false"
		}
		p.checkExpression(el, "v-else-if", exp)
		el.ElseIf = exp
		return
	}
	if _, ok := takeAttr(attrs, "v-else"); ok {
		el.Else = true
	}
}

func (p *parser) processKey(el *astNode, attrs *[]markup.Attr) {
	if a, ok := takeAttr(attrs, ":key", "v-bind:key"); ok {
		p.checkExpression(el, a.Key, a.Val)
		el.Key = a.Val
	} else if a, ok := takeAttr(attrs, "key"); ok {
		el.Key = jsString(a.Val)
	}
	if el.Key != "" && el.name() == "template" {
		p.errorAt(el.Offset, "<template> cannot be keyed. Place the key on real elements instead.")
	}
}

func (p *parser) processRef(el *astNode, attrs *[]markup.Attr) {
	if a, ok := takeAttr(attrs, ":ref", "v-bind:ref"); ok {
		p.checkExpression(el, a.Key, a.Val)
		el.Ref = a.Val
	} else if a, ok := takeAttr(attrs, "ref"); ok {
		el.Ref = jsString(a.Val)
	}
	if el.Ref != "" {
		el.RefInFor = el.inFor()
	}
}

func (p *parser) processSlot(el *astNode, attrs *[]markup.Attr) {
	if el.name() == "slot" {
		if a, ok := takeAttr(attrs, ":name", "v-bind:name"); ok {
			p.checkExpression(el, a.Key, a.Val)
			el.SlotName = a.Val
		} else if a, ok := takeAttr(attrs, "name"); ok {
			el.SlotName = jsString(a.Val)
		}
		if el.Key != "" {
			p.errorAt(el.Offset, "`key` does not work on <slot> because slots are abstract outlets.")
		}
		return
	}
	if a, ok := takeAttr(attrs, "slot"); ok {
		target := a.Val
		if target == "" {
			target = "default"
		}
		el.SlotTarget = jsString(target)
	}
}

func (p *parser) processComponent(el *astNode, attrs *[]markup.Attr) {
	if a, ok := takeAttr(attrs, ":is", "v-bind:is"); ok {
		p.checkExpression(el, a.Key, a.Val)
		el.Component = a.Val
	} else if a, ok := takeAttr(attrs, "is"); ok {
		el.Component = jsString(a.Val)
	}
}

// processAttrs handles the remaining static attributes and directives.
func (p *parser) processAttrs(el *astNode, attrs []markup.Attr) {
	typ := ""
	for _, a := range attrs {
		if a.Key == "type" {
			typ = a.Val
		}
	}

	var model *markup.Attr
	for _, a := range attrs {
		name, value := a.Key, a.Val
		if name == "v-model" || strings.HasPrefix(name, "v-model.") {
			model = &a
			continue
		}
		if !dirRE.MatchString(name) {
			p.staticAttr(el, name, value)
			continue
		}
		el.HasBindings = true

		base, mods := splitModifiers(name)
		switch {
		case bindRE.MatchString(base):
			p.bindAttr(el, bindRE.ReplaceAllString(base, ""), value, mods, typ)
		case onRE.MatchString(base):
			p.addHandler(el, onRE.ReplaceAllString(base, ""), value, mods)
		case strings.HasPrefix(base, "#") || base == "v-slot" || strings.HasPrefix(base, "v-slot:"):
			p.errorAt(el.Offset, "v-slot is not supported by this template compiler; use the slot attribute instead.")
		default:
			dirName, arg, _ := strings.Cut(strings.TrimPrefix(base, "v-"), ":")
			p.directive(el, name, dirName, arg, value, mods)
		}
	}

	// v-model reads the value binding of checkbox and radio inputs.
	if model != nil {
		el.HasBindings = true
		_, mods := splitModifiers(model.Key)
		p.model(el, model.Key, model.Val, mods, typ)
	}
}

// splitModifiers splits "@click.stop.prevent" into "@click" and its modifiers.
func splitModifiers(name string) (string, []string) {
	parts := strings.Split(name, ".")
	if len(parts) == 1 {
		return name, nil
	}
	return parts[0], parts[1:]
}

func (p *parser) staticAttr(el *astNode, name, value string) {
	if interpolationRE.MatchString(value) {
		p.errorAt(el.Offset, "%s=%q: Interpolation inside attributes has been removed. "+
			"Use v-bind or the colon shorthand instead.", name, value)
	}
	switch name {
	case "class":
		el.StaticClass = jsString(condense(value))
	case "style":
		el.StaticStyle = styleObject(value)
	default:
		el.Attrs = append(el.Attrs, binding{Name: name, Value: jsString(value)})
	}
}

func (p *parser) bindAttr(el *astNode, name, value string, mods []string, typ string) {
	if strings.TrimSpace(value) == "" {
		p.errorAt(el.Offset, "The value for a v-bind expression cannot be empty. Found in \"v-bind:%s\"", name)
		return
	}
	if name == "" {
		p.errorAt(el.Offset, "v-bind without an argument is not supported.")
		return
	}
	p.checkExpression(el, ":"+name, value)

	isProp := hasModifier(mods, "prop")
	if hasModifier(mods, "camel") || isProp {
		name = camelize(name)
		if isProp && name == "innerHtml" {
			name = "innerHTML"
		}
	}
	if hasModifier(mods, "sync") {
		if msg := p.exprs.assignable(value); msg != "" {
			p.errorAt(el.Offset, "%s", invalidExpression(".sync target", msg, value, ":"+name+".sync=\""+value+"\""))
		}
		el.Events = append(el.Events, handler{
			Name: "update:" + camelize(name),
			Code: "function($event){" + assignment(value, "$event") + "}",
		})
	}

	switch {
	case name == "class":
		el.ClassBinding = value
	case name == "style":
		el.StyleBinding = value
	case isProp || (el.Component == "" && mustUseProp(el.name(), typ, name)):
		el.Props = append(el.Props, binding{Name: name, Value: value})
	default:
		el.Attrs = append(el.Attrs, binding{Name: name, Value: value})
	}
}

func (p *parser) addHandler(el *astNode, event, value string, mods []string) {
	if event == "" {
		p.errorAt(el.Offset, "v-on without an argument is not supported.")
		return
	}
	if strings.TrimSpace(value) != "" {
		if msg := p.exprs.statement(value); msg != "" {
			p.errorAt(el.Offset, "%s", invalidExpression("handler", msg, value, "v-on:"+event+"=\""+value+"\""))
		}
	}
	el.Events = append(el.Events, handler{
		Name:   eventName(event, mods),
		Code:   handlerCode(event, value, mods),
		Native: hasModifier(mods, "native"),
	})
}

func (p *parser) directive(el *astNode, rawName, name, arg, value string, mods []string) {
	switch name {
	case "cloak":
		return
	case "html", "text":
		if strings.TrimSpace(value) == "" {
			p.errorAt(el.Offset, "v-%s on <%s> requires an expression.", name, el.Tag)
			return
		}
		p.checkExpression(el, rawName, value)
		prop := "innerHTML"
		if name == "text" {
			prop = "textContent"
		}
		el.Props = append(el.Props, binding{Name: prop, Value: "_s(" + value + ")"})
		return
	case "bind", "on":
		p.errorAt(el.Offset, "v-%s without an argument is not supported.", name)
		return
	}

	if strings.TrimSpace(value) != "" {
		p.checkExpression(el, rawName, value)
	}
	el.Directives = append(el.Directives, directive{
		Name: name, RawName: rawName, Value: value, Arg: arg, Modifiers: mods,
	})
}

func (p *parser) model(el *astNode, rawName, value string, mods []string, typ string) {
	if strings.TrimSpace(value) == "" {
		p.errorAt(el.Offset, "v-model on <%s> requires an expression.", el.Tag)
		return
	}
	if msg := p.exprs.assignable(value); msg != "" {
		p.errorAt(el.Offset, "%s", invalidExpression("v-model target", msg, value, rawName+"=\""+value+"\""))
		return
	}
	if el.Alias != "" && (value == el.Alias || value == el.Iterator1 || value == el.Iterator2) {
		p.errorAt(el.Offset, "<%s v-model=%q>: You are binding v-model directly to a v-for iteration alias. "+
			"Use an array of objects and bind to a property instead.", el.Tag, value)
		return
	}

	tag := el.name()
	switch {
	case el.Component != "" || !isReserved(tag):
		el.Model = &componentModel{
			Value:      "(" + value + ")",
			Callback:   "function ($$v) {" + assignment(value, modelValue("$$v", mods)) + "}",
			Expression: jsString(value),
		}
		return

	case tag == "select":
		selected := "Array.prototype.filter.call($event.target.options,function(o){return o.selected})" +
			".map(function(o){var val = \"_value\" in o ? o._value : o.value;return " + modelValue("val", mods) + "})"
		el.Events = append(el.Events, handler{
			Name: "change",
			Code: "function($event){var $$selectedVal = " + selected + "; " +
				assignment(value, "$event.target.multiple ? $$selectedVal : $$selectedVal[0]") + "}",
		})

	case tag == "input" && typ == "checkbox":
		valueBinding := p.valueBinding(el)
		el.Props = append(el.Props, binding{
			Name:  "checked",
			Value: "Array.isArray(" + value + ")?" + value + ".indexOf(" + valueBinding + ")>-1:(" + value + ")",
		})
		el.Events = append(el.Events, handler{
			Name: "change",
			Code: "function($event){var $$a=" + value + ",$$el=$event.target,$$c=$$el.checked?(true):(false);" +
				"if(Array.isArray($$a)){var $$v=" + modelValue(valueBinding, mods) + ",$$i=$$a.indexOf($$v);" +
				"if($$el.checked){$$i<0&&(" + assignment(value, "$$a.concat([$$v])") + ")}" +
				"else{$$i>-1&&(" + assignment(value, "$$a.slice(0,$$i).concat($$a.slice($$i+1))") + ")}}" +
				"else{" + assignment(value, "$$c") + "}}",
		})

	case tag == "input" && typ == "radio":
		valueBinding := modelValue(p.valueBinding(el), mods)
		el.Props = append(el.Props, binding{Name: "checked", Value: "(" + value + ")===(" + valueBinding + ")"})
		el.Events = append(el.Events, handler{
			Name: "change",
			Code: "function($event){" + assignment(value, valueBinding) + "}",
		})

	case tag == "input" || tag == "textarea":
		event := "input"
		if hasModifier(mods, "lazy") {
			event = "change"
		}
		code := assignment(value, modelValue("$event.target.value", mods))
		if !hasModifier(mods, "lazy") {
			code = "if($event.target.composing)return;" + code
		}
		el.Props = append(el.Props, binding{Name: "value", Value: "(" + value + ")"})
		el.Events = append(el.Events, handler{Name: event, Code: "function($event){" + code + "}"})

	default:
		p.errorAt(el.Offset, "<%s v-model=%q>: v-model is not supported on this element type.", el.Tag, value)
		return
	}

	el.Directives = append(el.Directives, directive{
		Name: "model", RawName: rawName, Value: value, Modifiers: mods,
	})
}

// valueBinding returns the value expression of a checkbox or radio input.
func (p *parser) valueBinding(el *astNode) string {
	for _, list := range [][]binding{el.Props, el.Attrs} {
		for _, a := range list {
			if a.Name == "value" {
				return a.Value
			}
		}
	}
	return "null"
}

func isReserved(tag string) bool {
	return markup.IsReservedTag(tag) || tag == "slot" || tag == "component" || tag == "template"
}
