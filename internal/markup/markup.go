// Package markup compiles an SVG document into an attributed node
// tree that the code generator walks.
package markup

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrNoElement = errors.New("markup contains no root element")

// Attr is one attribute entry, in document order.
type Attr struct {
	Name  string
	Value string
}

// Node is either a text node (Tag empty, Text set) or an element node.
// Attrs holds every raw attribute of the element; AttrList holds the
// ordered entries with class and style lifted out into StaticClass and
// StaticStyle. The tree is read-only after Compile returns.
type Node struct {
	Text string

	Tag         string
	Attrs       map[string]string
	AttrList    []Attr
	StaticClass string
	StaticStyle string
	Children    []*Node
}

func (n *Node) IsText() bool { return n.Tag == "" }

// Compile parses markup text and returns the first element as the
// root of the node tree. With stripWhitespace set, text nodes that
// contain only whitespace are dropped.
func Compile(text string, stripWhitespace bool) (*Node, error) {
	container := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}

	fragments, err := html.ParseFragment(strings.NewReader(text), container)
	if err != nil {
		return nil, err
	}

	for _, fragment := range fragments {
		if fragment.Type == html.ElementNode {
			return convert(fragment, stripWhitespace), nil
		}
	}
	return nil, ErrNoElement
}

func convert(src *html.Node, stripWhitespace bool) *Node {
	node := &Node{
		Tag:   src.Data,
		Attrs: make(map[string]string, len(src.Attr)),
	}

	for _, attr := range src.Attr {
		name := attr.Key
		if attr.Namespace != "" {
			name = attr.Namespace + ":" + attr.Key
		}
		node.Attrs[name] = attr.Val

		switch name {
		case "class":
			node.StaticClass = attr.Val
		case "style":
			node.StaticStyle = attr.Val
		default:
			node.AttrList = append(node.AttrList, Attr{Name: name, Value: attr.Val})
		}
	}

	for child := src.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			if stripWhitespace && strings.TrimSpace(child.Data) == "" {
				continue
			}
			node.Children = append(node.Children, &Node{Text: child.Data})
		case html.ElementNode:
			node.Children = append(node.Children, convert(child, stripWhitespace))
		}
	}

	return node
}
