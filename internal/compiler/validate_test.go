package compiler

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestValidate - Warning Rules
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		want     []string // substrings, one per expected warning, in order
	}{
		{
			name:     "clean template",
			template: `<div><p>Hi <b>there</b></p><img src="a.png" alt=""><ul><li v-for="i in n" :key="i">{{ i }}</li></ul></div>`,
		},
		{
			name:     "block in paragraph",
			template: `<div><p><div>x</div></p></div>`,
			want:     []string{"<div> cannot be a child of <p>"},
		},
		{
			name:     "block in heading",
			template: `<h1><section></section></h1>`,
			want:     []string{"<section> cannot be a child of <h1>"},
		},
		{
			name:     "nested interactive",
			template: `<a href="#"><button>go</button></a>`,
			want:     []string{"<button> cannot be nested inside <a>"},
		},
		{
			name:     "hidden input in button is fine",
			template: `<button><input type="hidden" name="x"></button>`,
		},
		{
			name:     "li outside list",
			template: `<div><li>x</li></div>`,
			want:     []string{"<li> cannot be a child of <div>"},
		},
		{
			name:     "list child",
			template: `<ul><span>x</span></ul>`,
			want:     []string{"<span> cannot be a child of <ul>"},
		},
		{
			name:     "td outside tr",
			template: `<table><tbody><td>x</td></tbody></table>`,
			want:     []string{"<td> cannot be a child of <tbody>"},
		},
		{
			name:     "img without alt",
			template: `<div><img src="a.png"></div>`,
			want:     []string{"<img> is missing an alt attribute"},
		},
		{
			name:     "bound alt",
			template: `<div><img :alt="label"></div>`,
		},
		{
			name:     "duplicate attribute",
			template: `<div :id="a" v-bind:id="b"></div>`,
			want:     []string{`duplicate attribute "v-bind:id"`},
		},
		{
			name:     "for without key",
			template: `<ul><li v-for="i in n">{{ i }}</li></ul>`,
			want:     []string{`<li v-for="i in n"> should have an explicit :key`},
		},
		{
			name:     "template for needs no key",
			template: `<div><template v-for="i in n"><b :key="i">x</b></template></div>`,
		},
		{
			name:     "unknown directive",
			template: `<div v-focus.lazy="x"></div>`,
			want:     []string{`unknown directive "v-focus"`},
		},
		{
			name:     "obsolete element",
			template: `<div><center>x</center></div>`,
			want:     []string{"<center> is obsolete"},
		},
		{
			name:     "presentational attribute",
			template: `<table align="center"><tr><td valign="top">x</td></tr></table>`,
			want:     []string{`"align" on <table>`, `"valign" on <td>`},
		},
		{
			name:     "components are not checked for nesting",
			template: `<div><my-list><li>x</li></my-list></div>`,
		},
		{
			name:     "v-pre content skipped",
			template: `<div v-pre><p v-unknown><div>x</div></p></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Validate(tt.template)
			if len(got) != len(tt.want) {
				t.Fatalf("Validate() = %q, want %d warnings", got, len(tt.want))
			}
			for i, w := range tt.want {
				if !strings.Contains(got[i], w) {
					t.Errorf("warning[%d] = %q, want it to contain %q", i, got[i], w)
				}
			}
		})
	}
}

func TestValidate_Position(t *testing.T) {
	t.Parallel()

	got := Validate("<div>\n  <img src=\"a.png\">\n</div>")
	if len(got) != 1 || !strings.HasSuffix(got[0], "(line 2, column 3)") {
		t.Errorf("Validate() = %q, want one warning at (line 2, column 3)", got)
	}
}

func TestValidate_DoesNotAffectCompile(t *testing.T) {
	t.Parallel()

	tmpl := `<div><center><img src="a.png"></center></div>`
	if len(Validate(tmpl)) == 0 {
		t.Fatal("Validate() found no warnings")
	}
	if res := Compile(tmpl); res.Failed() {
		t.Errorf("Compile() errors = %q, want warnings to be non-fatal", res.Errors)
	}
}
