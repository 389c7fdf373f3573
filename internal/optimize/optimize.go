// Package optimize rewrites markup text to strip redundancy before
// compilation: comments, document metadata and editor leftovers.
package optimize

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Config is the opaque optimizer configuration. Recognized keys are
// removeComments, removeMetadata and removeEditorData (all default
// on); the host merges the source file path under "path".
type Config map[string]any

func (c Config) flag(name string, def bool) bool {
	if c == nil {
		return def
	}
	v, ok := c[name].(bool)
	if !ok {
		return def
	}
	return v
}

// Merge returns a copy of c with extra applied on top.
func (c Config) Merge(extra Config) Config {
	merged := make(Config, len(c)+len(extra))
	for k, v := range c {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// metadataTags carry document description rather than renderable
// shapes.
var metadataTags = map[string]struct{}{
	"metadata": {},
	"desc":     {},
	"title":    {},
}

var editorPrefixes = []string{"inkscape:", "sodipodi:", "xmlns:inkscape", "xmlns:sodipodi"}

// Optimize parses the markup, prunes everything the configuration
// asks for, and serializes the surviving tree back to text.
func Optimize(text string, cfg Config) (string, error) {
	container := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}

	fragments, err := html.ParseFragment(strings.NewReader(text), container)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for _, fragment := range fragments {
		if !keep(fragment, cfg) {
			continue
		}
		prune(fragment, cfg)
		if err := html.Render(&buf, fragment); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func keep(n *html.Node, cfg Config) bool {
	switch n.Type {
	case html.CommentNode:
		return !cfg.flag("removeComments", true)
	case html.DoctypeNode:
		return false
	case html.TextNode:
		return strings.TrimSpace(n.Data) != ""
	case html.ElementNode:
		if _, ok := metadataTags[n.Data]; ok && cfg.flag("removeMetadata", true) {
			return false
		}
		if cfg.flag("removeEditorData", true) && isEditorName(n.Data) {
			return false
		}
	}
	return true
}

func prune(n *html.Node, cfg Config) {
	if cfg.flag("removeEditorData", true) {
		attrs := n.Attr[:0]
		for _, attr := range n.Attr {
			name := attr.Key
			if attr.Namespace != "" {
				name = attr.Namespace + ":" + attr.Key
			}
			if isEditorName(name) {
				continue
			}
			attrs = append(attrs, attr)
		}
		n.Attr = attrs
	}

	child := n.FirstChild
	for child != nil {
		next := child.NextSibling
		if !keep(child, cfg) {
			n.RemoveChild(child)
		} else {
			prune(child, cfg)
		}
		child = next
	}
}

func isEditorName(name string) bool {
	for _, prefix := range editorPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
