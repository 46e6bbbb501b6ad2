package yw7

import (
	"bytes"
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// document wraps a parsed XML tree. All structural edits the writer performs
// go through the helpers below so that "find or create" stays declarative.
type document struct {
	root *xmlquery.Node // document node
}

// parseDocument parses XML bytes into a document.
func parseDocument(data []byte) (*document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &document{root: root}, nil
}

// rootElement returns the document's top-level element, or nil.
func (d *document) rootElement() *xmlquery.Node {
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}

// query runs a compiled XPath expression over the document.
func (d *document) query(expr string) ([]*xmlquery.Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	return nodes, nil
}

// serialize emits the tree as XML text without a declaration; the
// postprocess pass prepends the canonical one.
func (d *document) serialize() string {
	root := d.rootElement()
	if root == nil {
		return ""
	}
	return root.OutputXML(true)
}

// newDocument creates an empty document holding just the given root element.
func newDocument(rootTag string) *document {
	doc := &xmlquery.Node{Type: xmlquery.DocumentNode}
	xmlquery.AddChild(doc, element(rootTag))
	return &document{root: doc}
}

// element creates a detached element node.
func element(tag string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Data: tag}
}

// child returns the first child element with the given tag, or nil.
func child(parent *xmlquery.Node, tag string) *xmlquery.Node {
	if parent == nil {
		return nil
	}
	return parent.SelectElement(tag)
}

// children returns all child elements with the given tag.
func children(parent *xmlquery.Node, tag string) []*xmlquery.Node {
	if parent == nil {
		return nil
	}
	return parent.SelectElements(tag)
}

// childText returns the text of the named child element, or nil when the
// element is absent. A present but empty element yields a pointer to "".
func childText(parent *xmlquery.Node, tag string) *string {
	c := child(parent, tag)
	if c == nil {
		return nil
	}
	t := c.InnerText()
	return &t
}

// hasChild reports whether the named child element exists.
func hasChild(parent *xmlquery.Node, tag string) bool {
	return child(parent, tag) != nil
}

// setText replaces the node's content with a single text node. Empty text
// leaves the element with no children.
func setText(n *xmlquery.Node, text string) {
	n.FirstChild = nil
	n.LastChild = nil
	if text != "" {
		xmlquery.AddChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
	}
}

// addElement appends a new child element with the given text and returns it.
func addElement(parent *xmlquery.Node, tag, text string) *xmlquery.Node {
	e := element(tag)
	setText(e, text)
	xmlquery.AddChild(parent, e)
	return e
}

// upsertChild is the writer's find-or-create primitive: it locates the named
// child element, creating it if absent, and sets its text.
func upsertChild(parent *xmlquery.Node, tag, text string) *xmlquery.Node {
	c := child(parent, tag)
	if c == nil {
		c = element(tag)
		xmlquery.AddChild(parent, c)
	}
	setText(c, text)
	return c
}

// removeChild removes the first child element with the given tag, if any.
func removeChild(parent *xmlquery.Node, tag string) {
	if c := child(parent, tag); c != nil {
		xmlquery.RemoveFromTree(c)
	}
}

// setFlag maintains a yWriter boolean marker element: present with text "-1"
// when on, absent when off.
func setFlag(parent *xmlquery.Node, tag string, on bool) {
	if on {
		if child(parent, tag) == nil {
			addElement(parent, tag, "-1")
		}
	} else {
		removeChild(parent, tag)
	}
}

// detach removes the node from its parent, keeping the node itself intact so
// it can be re-appended elsewhere.
func detach(n *xmlquery.Node) {
	xmlquery.RemoveFromTree(n)
}

// addChildNode appends a detached or freshly built node to parent.
func addChildNode(parent, n *xmlquery.Node) {
	xmlquery.AddChild(parent, n)
}
