package compiler

// Notes:
// - Expected render code mirrors the Vue 2 compiler output for the same
//   template, with double-quoted string literals
// - Generated code is executed with goja against a tiny string-building
//   runtime that implements the render helpers
// - Positions in error messages are 1-based (line, column)

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dop251/goja"
)

// ---------------------------------------------------------------------------
// TestCompile_Codegen - Generated Render Code
// ---------------------------------------------------------------------------

func TestCompile_Codegen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		render   string
		static   []string
	}{
		{
			name:     "interpolation",
			template: `<div>{{x}}</div>`,
			render:   `with(this){return _c("div",[_v(_s(x))])}`,
		},
		{
			name:     "mixed text",
			template: `<div>Hello {{ name }}!</div>`,
			render:   `with(this){return _c("div",[_v("Hello "+_s(name)+"!")])}`,
		},
		{
			name:     "static root",
			template: `<div><span>a</span></div>`,
			render:   `with(this){return _m(0)}`,
			static:   []string{`with(this){return _c("div",[_c("span",[_v("a")])])}`},
		},
		{
			name:     "static subtree hoisted",
			template: `<div><p><b>x</b></p>{{n}}</div>`,
			render:   `with(this){return _c("div",[_m(0),_v(_s(n))])}`,
			static:   []string{`with(this){return _c("p",[_c("b",[_v("x")])])}`},
		},
		{
			name:     "static and bound attributes",
			template: `<div id="a" class=" x  y " style="color: red; background: url(a;b)" :title="t"></div>`,
			render:   `with(this){return _c("div",{staticClass:"x y",staticStyle:{"color":"red","background":"url(a;b)"},attrs:{"id":"a","title":t}})}`,
		},
		{
			name:     "class binding",
			template: `<div class="a" :class="{b: on}"></div>`,
			render:   `with(this){return _c("div",{staticClass:"a",class:{b: on}})}`,
		},
		{
			name:     "if chain",
			template: `<div><p v-if="a">A</p><p v-else-if="b">B</p><p v-else>C</p></div>`,
			render:   `with(this){return _c("div",[(a)?_c("p",[_v("A")]):(b)?_c("p",[_v("B")]):_c("p",[_v("C")])])}`,
		},
		{
			name:     "if without else",
			template: `<div><p v-if="a">A</p></div>`,
			render:   `with(this){return _c("div",[(a)?_c("p",[_v("A")]):_e()])}`,
		},
		{
			name:     "root if else",
			template: "<div v-if=\"a\">A</div>\n<p v-else>B</p>",
			render:   `with(this){return (a)?_c("div",[_v("A")]):_c("p",[_v("B")])}`,
		},
		{
			name:     "for with key",
			template: `<ul><li v-for="(item, i) in items" :key="item.id">{{ item.name }}</li></ul>`,
			render:   `with(this){return _c("ul",_l((items),function(item,i){return _c("li",{key:item.id},[_v(_s(item.name))])}),0)}`,
		},
		{
			name:     "ref in for",
			template: `<ul :id="x"><li v-for="i in n" :key="i" ref="item">{{i}}</li></ul>`,
			render:   `with(this){return _c("ul",{attrs:{"id":x}},_l((n),function(i){return _c("li",{key:i,ref:"item",refInFor:true},[_v(_s(i))])}),0)}`,
		},
		{
			name:     "static root in for",
			template: `<ul :id="x"><li v-for="i in n" :key="i"><b><i>s</i></b></li></ul>`,
			render:   `with(this){return _c("ul",{attrs:{"id":x}},_l((n),function(i){return _c("li",{key:i},[_m(0,true)])}),0)}`,
			static:   []string{`with(this){return _c("b",[_c("i",[_v("s")])])}`},
		},
		{
			name:     "method handler",
			template: `<button @click="save">s</button>`,
			render:   `with(this){return _c("button",{on:{"click":save}},[_v("s")])}`,
		},
		{
			name:     "handler modifiers",
			template: `<button @click.stop.prevent="save">s</button>`,
			render:   `with(this){return _c("button",{on:{"click":function($event){$event.stopPropagation();$event.preventDefault();return save.apply(null, arguments)}}},[_v("s")])}`,
		},
		{
			name:     "key modifier",
			template: `<input @keyup.enter="submit()">`,
			render:   `with(this){return _c("input",{on:{"keyup":function($event){if(!$event.type.indexOf('key')&&["Enter"].indexOf($event.key)<0)return null;return submit()}}})}`,
		},
		{
			name:     "listener prefixes",
			template: `<div @click.capture.once="go"></div>`,
			render:   `with(this){return _c("div",{on:{"~!click":go}})}`,
		},
		{
			name:     "inline statement",
			template: `<div @click="count++"></div>`,
			render:   `with(this){return _c("div",{on:{"click":function($event){count++}}})}`,
		},
		{
			name:     "input v-model",
			template: `<input v-model="msg">`,
			render:   `with(this){return _c("input",{directives:[{name:"model",rawName:"v-model",value:(msg),expression:"msg"}],domProps:{"value":(msg)},on:{"input":function($event){if($event.target.composing)return;msg=$event.target.value}}})}`,
		},
		{
			name:     "component v-model",
			template: `<my-input v-model="val"></my-input>`,
			render:   `with(this){return _c("my-input",{model:{value:(val),callback:function ($$v) {val=$$v},expression:"val"}})}`,
		},
		{
			name:     "sync modifier",
			template: `<comp :title.sync="t"></comp>`,
			render:   `with(this){return _c("comp",{attrs:{"title":t},on:{"update:title":function($event){t=$event}}})}`,
		},
		{
			name:     "v-show",
			template: `<div v-show="ok"></div>`,
			render:   `with(this){return _c("div",{directives:[{name:"show",rawName:"v-show",value:(ok),expression:"ok"}]})}`,
		},
		{
			name:     "v-html",
			template: `<div v-html="h"></div>`,
			render:   `with(this){return _c("div",{domProps:{"innerHTML":_s(h)}})}`,
		},
		{
			name:     "v-pre",
			template: `<div :id="x"><span v-pre>{{ raw }}</span></div>`,
			render:   `with(this){return _c("div",{attrs:{"id":x}},[_c("span",{pre:true},[_v("{{ raw }}")])])}`,
		},
		{
			name:     "slot with fallback",
			template: `<div :id="x"><slot name="head">fallback</slot></div>`,
			render:   `with(this){return _c("div",{attrs:{"id":x}},[_t("head",[_v("fallback")])],2)}`,
		},
		{
			name:     "component child",
			template: `<div :id="x"><my-comp :a="b"></my-comp></div>`,
			render:   `with(this){return _c("div",{attrs:{"id":x}},[_c("my-comp",{attrs:{"a":b}})],1)}`,
		},
		{
			name:     "template group",
			template: `<div :id="x"><template v-if="ok"><b>1</b><i>2</i></template></div>`,
			render:   `with(this){return _c("div",{attrs:{"id":x}},[(ok)?[_c("b",[_v("1")]),_c("i",[_v("2")])]:_e()],2)}`,
		},
		{
			name:     "whitespace condensed",
			template: "<div :id=\"x\">\n  <span>a</span> <span>b</span>\n</div>",
			render:   `with(this){return _c("div",{attrs:{"id":x}},[_c("span",[_v("a")]),_v(" "),_c("span",[_v("b")])])}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := Compile(tt.template)
			if res.Failed() {
				t.Fatalf("Compile() errors = %v", res.Errors)
			}
			if res.Render != tt.render {
				t.Errorf("Render =\n%s\nwant\n%s", res.Render, tt.render)
			}
			static := tt.static
			if static == nil {
				static = []string{}
			}
			if !reflect.DeepEqual(res.StaticRenderFns, static) {
				t.Errorf("StaticRenderFns =\n%v\nwant\n%v", res.StaticRenderFns, static)
			}
			assertParses(t, res)
		})
	}
}

// assertParses checks that every generated body is valid JavaScript.
func assertParses(t *testing.T, res *Result) {
	t.Helper()
	for _, code := range append([]string{res.Render}, res.StaticRenderFns...) {
		if _, err := goja.Compile("render.js", "(function(){"+code+"})", false); err != nil {
			t.Errorf("generated code does not parse: %v\n%s", err, code)
		}
	}
}

// ---------------------------------------------------------------------------
// TestCompile_Execute - Running Render Code
// ---------------------------------------------------------------------------

// runtimeJS renders VNodes straight to HTML strings.
const runtimeJS = `
function flat(a) {
  var out = [];
  (function f(x) {
    if (x == null) return;
    if (Array.isArray(x)) { x.forEach(f); } else { out.push(x); }
  })(a);
  return out;
}
vm._c = function (tag, data, children) {
  if (Array.isArray(data) || typeof data !== 'object') { children = data; data = {}; }
  if (typeof children === 'number') children = undefined;
  var attrs = '';
  if (data.staticClass) attrs += ' class="' + data.staticClass + '"';
  if (data.attrs) for (var k in data.attrs) attrs += ' ' + k + '="' + data.attrs[k] + '"';
  return '<' + tag + attrs + '>' + flat(children).join('') + '</' + tag + '>';
};
vm._v = function (s) { return String(s); };
vm._s = function (v) { return v == null ? '' : typeof v === 'object' ? JSON.stringify(v) : String(v); };
vm._e = function () { return ''; };
vm._n = function (v) { var n = parseFloat(v); return isNaN(n) ? v : n; };
vm._l = function (list, fn) {
  var out = [];
  if (Array.isArray(list)) { for (var i = 0; i < list.length; i++) out.push(fn(list[i], i)); }
  else if (typeof list === 'number') { for (var j = 0; j < list; j++) out.push(fn(j + 1, j)); }
  return out;
};
vm._m = function (i) { return new Function(staticFns[i]).call(vm); };
vm._t = function (name, fallback) { return flat(fallback).join(''); };
`

func execute(t *testing.T, res *Result, state string) string {
	t.Helper()

	rt := goja.New()
	if err := rt.Set("renderCode", res.Render); err != nil {
		t.Fatalf("Set(renderCode) error = %v", err)
	}
	if err := rt.Set("staticFns", res.StaticRenderFns); err != nil {
		t.Fatalf("Set(staticFns) error = %v", err)
	}
	v, err := rt.RunString("var vm = " + state + ";\n" + runtimeJS + "\nnew Function(renderCode).call(vm)")
	if err != nil {
		t.Fatalf("render error = %v\ncode: %s", err, res.Render)
	}
	return v.String()
}

func TestCompile_Execute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		state    string
		want     string
	}{
		{
			name:     "list",
			template: `<ul><li v-for="item in items" :key="item">{{ item }}</li></ul>`,
			state:    `{items: ["a", "b"]}`,
			want:     `<ul><li>a</li><li>b</li></ul>`,
		},
		{
			name:     "static and dynamic",
			template: `<div><p class="x"><b>static</b></p><span>{{ n * 2 }}</span></div>`,
			state:    `{n: 21}`,
			want:     `<div><p class="x"><b>static</b></p><span>42</span></div>`,
		},
		{
			name:     "else branch",
			template: `<div><p v-if="ok">yes</p><p v-else>no</p></div>`,
			state:    `{ok: false}`,
			want:     `<div><p>no</p></div>`,
		},
		{
			name:     "bound attribute",
			template: `<a :href="url" class="link">go</a>`,
			state:    `{url: "/x"}`,
			want:     `<a class="link" href="/x">go</a>`,
		},
		{
			name:     "slot fallback",
			template: `<div><slot>default text</slot></div>`,
			state:    `{}`,
			want:     `<div>default text</div>`,
		},
		{
			name:     "object interpolation",
			template: `<pre :id="id">{{ obj }}</pre>`,
			state:    `{id: "p", obj: {a: 1}}`,
			want:     `<pre id="p">{"a":1}</pre>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := Compile(tt.template)
			if res.Failed() {
				t.Fatalf("Compile() errors = %v", res.Errors)
			}
			if got := execute(t, res, tt.state); got != tt.want {
				t.Errorf("render() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCompile_Errors - Rejected Templates
// ---------------------------------------------------------------------------

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		wantErr  string
	}{
		{"empty", ``, "Template is empty"},
		{"text only", `hello`, "rather than just text"},
		{"multiple roots", `<div></div><p></p>`, "exactly one root element"},
		{"template root", `<template><div></div></template>`, "Cannot use <template> as component root"},
		{"slot root", `<slot></slot>`, "Cannot use <slot> as component root"},
		{"for on root", `<div v-for="i in items"></div>`, "Cannot use v-for on stateful component root"},
		{"bad for", `<div><p v-for="oops"></p></div>`, "Invalid v-for expression: oops"},
		{"orphan else", `<div><p v-else></p></div>`, "v-else used on element <p> without corresponding v-if"},
		{"orphan else-if", `<div><p v-else-if="x"></p></div>`, "without corresponding v-if"},
		{"bad interpolation", `<div>{{ a + }}</div>`, "invalid expression"},
		{"bad binding", `<div :title="a b"></div>`, "invalid expression"},
		{"bad handler", `<div @click="a b"></div>`, "invalid handler"},
		{"bad model target", `<div><input v-model="a + b"></div>`, "invalid v-model target"},
		{"model on alias", `<div><input v-for="x in xs" :key="x" v-model="x"></div>`, "v-for iteration alias"},
		{"model on div", `<div v-model="a"></div>`, "v-model is not supported on this element type"},
		{"script", `<div><script>alert(1)</script></div>`, "side-effects"},
		{"unclosed", `<div><span></div>`, "tag <span> has no matching end tag"},
		{"stray end", `<div></span></div>`, "stray end tag </span>"},
		{"v-slot", `<div v-slot:x></div>`, "v-slot is not supported"},
		{"empty binding", `<div :title=""></div>`, "cannot be empty"},
		{"attr interpolation", `<div title="{{ t }}"></div>`, "Interpolation inside attributes has been removed"},
		{"keyed template", `<div><template key="a"><b></b></template></div>`, "<template> cannot be keyed"},
		{"brace closes interpolation", `<div>{{ a}function _b(){return 1 }}</div>`, "invalid expression"},
		{"paren closes interpolation", `<div>{{ a)}function _b(){return (1 }}</div>`, "unbalanced brackets"},
		{"brace closes binding", `<div :title="a}function _b(){return 1">x</div>`, "invalid expression"},
		{"brace closes handler", `<div @click="a}function _b(){">x</div>`, "unbalanced brackets"},
		{"brace closes model target", `<div><input v-model="a}function _b(){b"></div>`, "unbalanced brackets"},
		{"paren closes for alias", `<div><p v-for="(x){}function _b( in xs" :key="x"></p></div>`, "unbalanced brackets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := Compile(tt.template)
			if !res.Failed() {
				t.Fatalf("Compile(%q) succeeded, want error containing %q", tt.template, tt.wantErr)
			}
			if !containsAny(res.Errors, tt.wantErr) {
				t.Errorf("Compile() errors = %q, want one containing %q", res.Errors, tt.wantErr)
			}
		})
	}
}

func TestCompile_ErrorPosition(t *testing.T) {
	t.Parallel()

	res := Compile("<div>\n  <p v-else></p>\n</div>")
	if len(res.Errors) != 1 {
		t.Fatalf("Errors = %q, want one error", res.Errors)
	}
	if !strings.HasSuffix(res.Errors[0], "(line 2, column 3)") {
		t.Errorf("Errors[0] = %q, want position (line 2, column 3)", res.Errors[0])
	}
}

func TestCompile_ScriptTemplatesAllowed(t *testing.T) {
	t.Parallel()

	res := Compile(`<div><script type="text/x-template"><p></p></script></div>`)
	if res.Failed() {
		t.Errorf("Compile() errors = %q, want none for non-executable script", res.Errors)
	}
}

func TestCompile_EmptyRenderIsUsable(t *testing.T) {
	t.Parallel()

	res := Compile("")
	if res.Render != emptyRender || len(res.StaticRenderFns) != 0 {
		t.Errorf("Compile(\"\") = %q, %v", res.Render, res.StaticRenderFns)
	}
}

func TestCompile_Deterministic(t *testing.T) {
	t.Parallel()

	tmpl := `<div><p><b>a</b></p><ul><li v-for="i in n" :key="i"><em><i>x</i></em></li></ul>{{ y }}</div>`
	a, b := Compile(tmpl), Compile(tmpl)
	if a.Render != b.Render || !reflect.DeepEqual(a.StaticRenderFns, b.StaticRenderFns) {
		t.Error("Compile() output differs between runs")
	}
	if len(a.StaticRenderFns) != 2 {
		t.Errorf("StaticRenderFns = %v, want 2 hoisted trees", a.StaticRenderFns)
	}
}

func containsAny(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestParseFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want forData
		ok   bool
	}{
		{"item in items", forData{For: "items", Alias: "item"}, true},
		{"(item, i) of list", forData{For: "list", Alias: "item", Iterator1: "i"}, true},
		{"(v, k, i) in obj", forData{For: "obj", Alias: "v", Iterator1: "k", Iterator2: "i"}, true},
		{"{ a, b } in rows", forData{For: "rows", Alias: "{ a, b }"}, true},
		{"n in 10", forData{For: "10", Alias: "n"}, true},
		{"items", forData{}, false},
	}

	for _, tt := range tests {
		got, ok := parseFor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseFor(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStyleObject(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"color: red":                  `{"color":"red"}`,
		"color:red;;margin : 0 ;":     `{"color":"red","margin":"0"}`,
		"background:url(data:a;b) no": `{"background":"url(data:a;b) no"}`,
		"":                            `{}`,
		"font-family: \"A\", serif":   `{"font-family":"\"A\", serif"}`,
	}
	for in, want := range tests {
		if got := styleObject(in); got != want {
			t.Errorf("styleObject(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestJSString_EscapesLineSeparators(t *testing.T) {
	t.Parallel()

	got := jsString("a\u2028b<c>")
	if got != `"a\u2028b<c>"` {
		t.Errorf("jsString() = %s", got)
	}
}
