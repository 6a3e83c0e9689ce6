package markup

// Notes:
// - Parse and Render are tested together: the round trip of an unmodified
//   tree must reproduce the source byte for byte when attributes are
//   double-quoted
// - Error messages are asserted by substring; offsets only where they matter
//   for line/column reporting

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParse_RoundTrip - Unmodified Trees Render Back to Their Source
// ---------------------------------------------------------------------------

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"single element", `<div class="a">hi</div>`},
		{"void and self closing", `<p>a<br>b<img src="x.png" /></p>`},
		{"comments and doctype", `<!DOCTYPE html><!-- c --><div></div>`},
		{"entities in text", `<p>a &amp; b &lt; c</p>`},
		{"raw text style", `<style>.a > .b { color: red }</style>`},
		{"mixed case component", `<MyWidget :fooBar="x"></MyWidget>`},
		{"bare attribute", `<input disabled>`},
		{"stray end tag", `<div></span></div>`},
		{"unclosed element", `<div><span>text</div>`},
		{"optional end tags", `<ul><li>a<li>b</ul>`},
		{"mustache", `<p>{{ a < b ? x : y }}</p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := Parse(tt.src)
			if got := Render(doc.Children); got != tt.src {
				t.Errorf("Render(Parse(%q)) = %q", tt.src, got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParse_Structure - Tree Shape Without HTML5 Corrections
// ---------------------------------------------------------------------------

func TestParse_Structure(t *testing.T) {
	t.Parallel()

	t.Run("div inside p stays nested", func(t *testing.T) {
		t.Parallel()

		doc := Parse(`<p><div>x</div></p>`)
		roots := doc.Elements()
		if len(roots) != 1 || !roots[0].IsElement("p") {
			t.Fatalf("roots = %v, want single <p>", roots)
		}
		if len(roots[0].Children) != 1 || !roots[0].Children[0].IsElement("div") {
			t.Errorf("<p> children = %v, want single <div>", roots[0].Children)
		}
		if len(doc.Errors) != 0 {
			t.Errorf("unexpected errors: %v", doc.Errors)
		}
	})

	t.Run("tag and attribute case preserved", func(t *testing.T) {
		t.Parallel()

		doc := Parse(`<MyWidget :fooBar="x" @Click="y"/>`)
		n := doc.Elements()[0]
		if n.Tag != "MyWidget" {
			t.Errorf("Tag = %q, want %q", n.Tag, "MyWidget")
		}
		if n.Name() != "mywidget" {
			t.Errorf("Name() = %q, want %q", n.Name(), "mywidget")
		}
		if _, ok := n.Attr(":fooBar"); !ok {
			t.Errorf("attribute :fooBar not found in %v", n.Attrs)
		}
		if _, ok := n.Attr("@Click"); !ok {
			t.Errorf("attribute @Click not found in %v", n.Attrs)
		}
		if !n.SelfClosing {
			t.Error("SelfClosing = false, want true")
		}
	})

	t.Run("sibling li closes previous li", func(t *testing.T) {
		t.Parallel()

		doc := Parse(`<ul><li>a<li>b</ul>`)
		ul := doc.Elements()[0]
		if len(ul.Children) != 2 {
			t.Fatalf("ul has %d children, want 2", len(ul.Children))
		}
		if !ul.Children[0].ImplicitlyClosed {
			t.Error("first li should be implicitly closed")
		}
		if len(doc.Errors) != 0 {
			t.Errorf("unexpected errors: %v", doc.Errors)
		}
	})

	t.Run("adjacent text merges", func(t *testing.T) {
		t.Parallel()

		doc := Parse(`<p>a &amp; b</p>`)
		p := doc.Elements()[0]
		if len(p.Children) != 1 {
			t.Fatalf("p has %d children, want 1", len(p.Children))
		}
		if got := p.Children[0].Data; got != "a & b" {
			t.Errorf("Data = %q, want %q", got, "a & b")
		}
	})

	t.Run("parent links", func(t *testing.T) {
		t.Parallel()

		doc := Parse(`<div><span>x</span></div>`)
		span := doc.Elements()[0].Children[0]
		if span.Parent == nil || !span.Parent.IsElement("div") {
			t.Errorf("span.Parent = %v, want div", span.Parent)
		}
	})
}

// ---------------------------------------------------------------------------
// TestParse_Errors - Structural Problems Are Recorded
// ---------------------------------------------------------------------------

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantErr []string
	}{
		{
			name:    "unclosed element",
			src:     `<div><span>text</div>`,
			wantErr: []string{"tag <span> has no matching end tag."},
		},
		{
			name:    "stray end tag",
			src:     `<div></span></div>`,
			wantErr: []string{"stray end tag </span> has no matching start tag."},
		},
		{
			name:    "unclosed at eof",
			src:     `<div>`,
			wantErr: []string{"tag <div> has no matching end tag."},
		},
		{
			name: "optional end at eof is not an error",
			src:  `<p>text`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := Parse(tt.src)
			if len(doc.Errors) != len(tt.wantErr) {
				t.Fatalf("got %d errors %v, want %d", len(doc.Errors), doc.Errors, len(tt.wantErr))
			}
			for i, want := range tt.wantErr {
				if doc.Errors[i].Msg != want {
					t.Errorf("error[%d] = %q, want %q", i, doc.Errors[i].Msg, want)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDocument_Position - Offset to Line and Column
// ---------------------------------------------------------------------------

func TestDocument_Position(t *testing.T) {
	t.Parallel()

	src := "<div>\n  <span>é</span>\n  <img>\n</div>"
	doc := Parse(src)

	tests := []struct {
		name   string
		offset int
		want   Position
	}{
		{"start", 0, Position{Line: 1, Column: 1}},
		{"second line indent", strings.Index(src, "<span>"), Position{Line: 2, Column: 3}},
		{"after multibyte rune", strings.Index(src, "</span>"), Position{Line: 2, Column: 10}},
		{"third line", strings.Index(src, "<img>"), Position{Line: 3, Column: 3}},
		{"past end clamps", len(src) + 10, Position{Line: 4, Column: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := doc.Position(tt.offset); got != tt.want {
				t.Errorf("Position(%d) = %+v, want %+v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestParse_Offsets(t *testing.T) {
	t.Parallel()

	src := `<div><img src="a.png"><p>x</p></div>`
	doc := Parse(src)
	div := doc.Elements()[0]
	if div.Children[0].Offset != strings.Index(src, "<img") {
		t.Errorf("img offset = %d, want %d", div.Children[0].Offset, strings.Index(src, "<img"))
	}
	if div.Children[1].Offset != strings.Index(src, "<p>") {
		t.Errorf("p offset = %d, want %d", div.Children[1].Offset, strings.Index(src, "<p>"))
	}
}

// ---------------------------------------------------------------------------
// TestNode - Attribute and Child Helpers
// ---------------------------------------------------------------------------

func TestNode_Attrs(t *testing.T) {
	t.Parallel()

	n := NewElement("div", Attr{Key: "class", Val: "a"}, Attr{Key: "id", Val: "x"})
	n.SetAttr("class", "b")
	n.SetAttr("title", "t")
	n.RemoveAttr("id")

	if got := RenderNode(n); got != `<div class="b" title="t"></div>` {
		t.Errorf("RenderNode() = %q", got)
	}
	if n.HasAttr("id") {
		t.Error("HasAttr(id) = true after RemoveAttr")
	}
}

func TestNode_SynthesizedText(t *testing.T) {
	t.Parallel()

	doc := Parse(`<p>old</p><style>.a{}</style>`)
	p, style := doc.Elements()[0], doc.Elements()[1]
	p.Children[0].SetText("a < b & c")
	style.Children[0].SetText(".a > .b{}")

	want := `<p>a &lt; b &amp; c</p><style>.a > .b{}</style>`
	if got := Render(doc.Children); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestNode_TextContent(t *testing.T) {
	t.Parallel()

	doc := Parse(`<div>a<span>b<i>c</i></span>d</div>`)
	if got := doc.Elements()[0].TextContent(); got != "abcd" {
		t.Errorf("TextContent() = %q, want %q", got, "abcd")
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	t.Parallel()

	doc := Parse(`<div><pre><b>x</b></pre><b>y</b></div>`)
	var seen []string
	Walk(doc.Children, func(n *Node) bool {
		if n.Type == ElementNode {
			seen = append(seen, n.Name())
		}
		return !n.IsElement("pre")
	})

	if got := strings.Join(seen, ","); got != "div,pre,b" {
		t.Errorf("visited %q, want %q", got, "div,pre,b")
	}
}

// ---------------------------------------------------------------------------
// TestTags - Element Classification
// ---------------------------------------------------------------------------

func TestTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		wantReserved bool
		wantPhrasing bool
	}{
		{"div", true, false},
		{"span", true, true},
		{"svg", true, true},
		{"circle", true, false},
		{"my-widget", false, true},
		{"p", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsReservedTag(tt.name); got != tt.wantReserved {
				t.Errorf("IsReservedTag(%q) = %v, want %v", tt.name, got, tt.wantReserved)
			}
			if got := IsPhrasing(tt.name); got != tt.wantPhrasing {
				t.Errorf("IsPhrasing(%q) = %v, want %v", tt.name, got, tt.wantPhrasing)
			}
		})
	}
}
