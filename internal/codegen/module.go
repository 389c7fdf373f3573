package codegen

import (
	"bytes"
	"text/template"

	"github.com/3-lines-studio/glyph/internal/markup"
)

const renderModuleTemplate = `module.exports = {
  functional: true,
  render(createElement, context) {
    const { createTextNode, data, children = [] } = context;
    const {
      class: classes,
      staticClass,
      style,
      staticStyle,
      attrs = {},
      ...rest
    } = data;
    return createElement(
      'svg',
      {
        class: [{{.ClassList}}],
        style: [{{.StyleList}}],
        {{.AttrsBlock}},
        ...rest
      },
      {{.ChildrenBlock}}
    );
  },
};
`

var renderModuleParsed = template.Must(template.New("render-module").Parse(renderModuleTemplate))

// RenderModule emits the component module for a compiled markup root:
// the fixed render template with the class, style, attrs and children
// fragments substituted in.
func RenderModule(root *markup.Node) (string, error) {
	var buf bytes.Buffer
	err := renderModuleParsed.Execute(&buf, map[string]string{
		"ClassList":     ClassFragment(root),
		"StyleList":     StyleFragment(root),
		"AttrsBlock":    AttrsFragment(root),
		"ChildrenBlock": ChildrenFragment(root),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
