package codegen

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/3-lines-studio/glyph/internal/markup"
)

func TestChildrenTextOnly(t *testing.T) {
	root, err := markup.Compile("<svg><g>hi</g></svg>", true)
	if err != nil {
		t.Fatal(err)
	}

	got := Children(root.Children)
	want := "[createElement('g',[createTextNode('hi')])]"
	if got != want {
		t.Errorf("Children() = %q, want %q", got, want)
	}
}

func TestChildrenBareTextChild(t *testing.T) {
	root, err := markup.Compile("<svg>hi</svg>", true)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := Children(root.Children), "[createTextNode('hi')]"; got != want {
		t.Errorf("Children() = %q, want %q", got, want)
	}

	// The attribute-less root itself takes its children positionally,
	// with no data object in between.
	got := Children([]*markup.Node{root})
	want := "[createElement('svg',[createTextNode('hi')])]"
	if got != want {
		t.Errorf("Children() = %q, want %q", got, want)
	}
}

func TestChildrenOmitsEmptyDataObject(t *testing.T) {
	// An element without attributes gets no data argument at all;
	// its children become the second positional argument.
	got := Children([]*markup.Node{
		{
			Tag:   "g",
			Attrs: map[string]string{},
			Children: []*markup.Node{
				{Text: "hi"},
			},
		},
	})

	if strings.Contains(got, "{}") {
		t.Errorf("empty data object emitted: %q", got)
	}
	want := "[createElement('g',[createTextNode('hi')])]"
	if got != want {
		t.Errorf("Children() = %q, want %q", got, want)
	}
}

func TestChildrenDataObject(t *testing.T) {
	got := Children([]*markup.Node{
		{
			Tag:         "path",
			Attrs:       map[string]string{"class": "p", "style": "x", "d": "M0 0"},
			AttrList:    []markup.Attr{{Name: "d", Value: "M0 0"}},
			StaticClass: "p",
			StaticStyle: "x",
		},
	})

	want := `[createElement('path',{staticClass:'p',staticStyle:'x',attrs:{"d":"M0 0"}})]`
	if got != want {
		t.Errorf("Children() = %q, want %q", got, want)
	}
}

func TestChildrenClassOnlyElement(t *testing.T) {
	// class is lifted out of the entry list but still counts as an
	// attribute, so the data object exists with staticClass alone.
	got := Children([]*markup.Node{
		{
			Tag:         "g",
			Attrs:       map[string]string{"class": "grp"},
			StaticClass: "grp",
		},
	})

	want := "[createElement('g',{staticClass:'grp'})]"
	if got != want {
		t.Errorf("Children() = %q, want %q", got, want)
	}
}

func TestChildrenNested(t *testing.T) {
	root, err := markup.Compile(`<svg><g><circle r="1"/><circle r="2"/></g></svg>`, true)
	if err != nil {
		t.Fatal(err)
	}

	got := Children(root.Children)
	want := `[createElement('g',[createElement('circle',{attrs:{"r":"1"}}),createElement('circle',{attrs:{"r":"2"}})])]`
	if got != want {
		t.Errorf("Children() = %q, want %q", got, want)
	}
}

func TestChildrenFragmentPassthrough(t *testing.T) {
	root := &markup.Node{Tag: "svg", Attrs: map[string]string{}}
	if got := ChildrenFragment(root); got != "children" {
		t.Errorf("ChildrenFragment() = %q, want \"children\"", got)
	}
}

func TestChildrenFragmentConcat(t *testing.T) {
	root, err := markup.Compile("<svg><g></g></svg>", true)
	if err != nil {
		t.Fatal(err)
	}

	got := ChildrenFragment(root)
	want := "children.concat([createElement('g')])"
	if got != want {
		t.Errorf("ChildrenFragment() = %q, want %q", got, want)
	}
}

func TestAttrsFragmentPassthrough(t *testing.T) {
	root := &markup.Node{Tag: "svg", Attrs: map[string]string{"class": "icon"}}
	if got := AttrsFragment(root); got != "attrs" {
		t.Errorf("AttrsFragment() = %q, want \"attrs\"", got)
	}
	if _, ok := root.Attrs["class"]; ok {
		t.Error("class key not removed from the attribute mapping")
	}
}

func TestAttrsFragmentMerge(t *testing.T) {
	root := &markup.Node{
		Tag:   "svg",
		Attrs: map[string]string{"class": "icon", "width": "24"},
	}

	got := AttrsFragment(root)
	want := `attrs: Object.assign({}, attrs, {"width":"24"})`
	if got != want {
		t.Errorf("AttrsFragment() = %q, want %q", got, want)
	}
}

func TestClassAndStyleFragments(t *testing.T) {
	tests := []struct {
		name      string
		root      *markup.Node
		wantClass string
		wantStyle string
	}{
		{
			name:      "no static values",
			root:      &markup.Node{Tag: "svg"},
			wantClass: "classes,staticClass",
			wantStyle: "style,staticStyle",
		},
		{
			name:      "static class and style",
			root:      &markup.Node{Tag: "svg", StaticClass: "icon", StaticStyle: "fill:red"},
			wantClass: "'icon',classes,staticClass",
			wantStyle: "'fill:red',style,staticStyle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassFragment(tt.root); got != tt.wantClass {
				t.Errorf("ClassFragment() = %q, want %q", got, tt.wantClass)
			}
			if got := StyleFragment(tt.root); got != tt.wantStyle {
				t.Errorf("StyleFragment() = %q, want %q", got, tt.wantStyle)
			}
		})
	}
}

func TestAttrsJSONRoundTrip(t *testing.T) {
	list := []markup.Attr{
		{Name: "d", Value: "M0 0h24"},
		{Name: "fill", Value: "none"},
		{Name: "stroke-width", Value: "2"},
	}

	var decoded map[string]string
	if err := json.Unmarshal([]byte(attrsJSON(list)), &decoded); err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"d":            "M0 0h24",
		"fill":         "none",
		"stroke-width": "2",
	}
	if !reflect.DeepEqual(decoded, want) {
		t.Errorf("round trip = %v, want %v", decoded, want)
	}
}

func TestRenderModuleShape(t *testing.T) {
	root, err := markup.Compile(`<svg class="icon" width="24"><path d="M0 0"/></svg>`, true)
	if err != nil {
		t.Fatal(err)
	}

	code, err := RenderModule(root)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"functional: true",
		"render(createElement, context)",
		"class: ['icon',classes,staticClass]",
		"style: [style,staticStyle]",
		`attrs: Object.assign({}, attrs, {"width":"24"})`,
		`children.concat([createElement('path',{attrs:{"d":"M0 0"}})])`,
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated module missing %q:\n%s", want, code)
		}
	}
}
