// Package codegen turns a compiled markup tree into the source text
// of a functional component module.
package codegen

import (
	"encoding/json"
	"strings"

	"github.com/3-lines-studio/glyph/internal/markup"
)

// Children renders an ordered node list as one array literal of
// virtual-node factory calls, depth first, in document order.
func Children(nodes []*markup.Node) string {
	calls := make([]string, 0, len(nodes))
	for _, node := range nodes {
		calls = append(calls, nodeCall(node))
	}
	return "[" + strings.Join(calls, ",") + "]"
}

func nodeCall(node *markup.Node) string {
	if node.IsText() {
		return "createTextNode('" + node.Text + "')"
	}

	args := []string{"'" + node.Tag + "'"}

	// The data argument exists only when the element carries any raw
	// attribute at all; with none, children move up a position.
	if len(node.Attrs) > 0 {
		args = append(args, dataObject(node))
	}
	if len(node.Children) > 0 {
		args = append(args, Children(node.Children))
	}

	return "createElement(" + strings.Join(args, ",") + ")"
}

func dataObject(node *markup.Node) string {
	var fields []string
	if node.StaticClass != "" {
		fields = append(fields, "staticClass:'"+node.StaticClass+"'")
	}
	if node.StaticStyle != "" {
		fields = append(fields, "staticStyle:'"+node.StaticStyle+"'")
	}
	if len(node.AttrList) > 0 {
		fields = append(fields, "attrs:"+attrsJSON(node.AttrList))
	}
	return "{" + strings.Join(fields, ",") + "}"
}

// attrsJSON reduces the ordered attribute entries to a name→value
// mapping serialized as JSON. encoding/json sorts map keys, so the
// emitted text is deterministic.
func attrsJSON(list []markup.Attr) string {
	m := make(map[string]string, len(list))
	for _, attr := range list {
		m[attr.Name] = attr.Value
	}
	return marshal(m)
}

func marshal(m map[string]string) string {
	// Marshalling map[string]string cannot fail.
	out, _ := json.Marshal(m)
	return string(out)
}

// ChildrenFragment builds the children argument of the root call:
// the parent-supplied children as-is, or those children with the
// root's own rendered children appended after them.
func ChildrenFragment(root *markup.Node) string {
	if len(root.Children) == 0 {
		return "children"
	}
	return "children.concat(" + Children(root.Children) + ")"
}

// AttrsFragment builds the attrs entry of the root data object. The
// class key is dropped from the mapping first; class handling goes
// through the static-class path instead. Remaining attributes are
// merged over the caller-supplied attrs, serialized side last so it
// wins on conflict.
func AttrsFragment(root *markup.Node) string {
	delete(root.Attrs, "class")
	if len(root.Attrs) == 0 {
		return "attrs"
	}
	return "attrs: Object.assign({}, attrs, " + marshal(root.Attrs) + ")"
}

// ClassFragment lists the class candidates in precedence order: the
// markup's own static class, the consumer's dynamic binding, then the
// consumer's static binding.
func ClassFragment(root *markup.Node) string {
	return joinPresent(singleQuote(root.StaticClass), "classes", "staticClass")
}

// StyleFragment mirrors ClassFragment for styles.
func StyleFragment(root *markup.Node) string {
	return joinPresent(singleQuote(root.StaticStyle), "style", "staticStyle")
}

func joinPresent(candidates ...string) string {
	present := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != "" {
			present = append(present, c)
		}
	}
	return strings.Join(present, ",")
}

func singleQuote(s string) string {
	if s == "" {
		return ""
	}
	return "'" + s + "'"
}
