package fmw

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"unicode"
)

// Attr is one attribute of an element, in document order.
type Attr struct {
	Name  string
	Value string
}

// ElementNode is one element of the workspace XML document.
type ElementNode struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*ElementNode

	// Line is the 1-based line of the XML document where the element
	// starts.
	Line int
}

// Attr returns the value of the named attribute.
func (n *ElementNode) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the named attribute or "" when absent.
func (n *ElementNode) AttrValue(name string) string {
	v, _ := n.Attr(name)
	return v
}

// AttrMap returns the attributes as a map. Later duplicates win.
func (n *ElementNode) AttrMap() map[string]string {
	m := make(map[string]string, len(n.Attrs))
	for _, a := range n.Attrs {
		m[a.Name] = a.Value
	}
	return m
}

// Child returns the first direct child with the given tag.
func (n *ElementNode) Child(tag string) *ElementNode {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildrenByTag returns the direct children with the given tag.
func (n *ElementNode) ChildrenByTag(tag string) []*ElementNode {
	var out []*ElementNode
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// ParseTree decodes an XML document into an ElementNode tree. Element and
// attribute order is preserved. Namespace prefixes are dropped from names.
func ParseTree(r io.Reader) (*ElementNode, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		stack      []*ElementNode
		root       *ElementNode
		rootClosed bool
	)

	for {
		line, _ := decoder.InputPos()
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, xmlErr(err, line)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return nil, formatErr("fmw.ParseTree", line, "element <%s> after document end", t.Name.Local)
			}
			node := &ElementNode{
				Tag:   t.Name.Local,
				Attrs: convertAttrs(t.Attr),
				Line:  line,
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			} else {
				root = node
			}
			stack = append(stack, node)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
				if len(stack) == 0 {
					rootClosed = true
				}
			}

		case xml.CharData:
			if len(stack) == 0 {
				if !isBlank(string(t)) {
					return nil, formatErr("fmw.ParseTree", line, "character data outside the root element")
				}
				continue
			}
			stack[len(stack)-1].Text += string(t)
		}
	}

	if root == nil {
		return nil, formatErr("fmw.ParseTree", 0, "empty XML document")
	}
	trimText(root)
	return root, nil
}

func xmlErr(err error, line int) error {
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		return formatErr("fmw.ParseTree", syntax.Line, "%s", syntax.Msg)
	}
	return formatErr("fmw.ParseTree", line, "%v", err)
}

func convertAttrs(in []xml.Attr) []Attr {
	if len(in) == 0 {
		return nil
	}
	out := make([]Attr, len(in))
	for i, a := range in {
		out[i] = Attr{Name: a.Name.Local, Value: a.Value}
	}
	return out
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != '\ufeff' && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// trimText drops whitespace-only text left between child elements.
func trimText(n *ElementNode) {
	if isBlank(n.Text) {
		n.Text = ""
	}
	for _, c := range n.Children {
		trimText(c)
	}
}

// Flatten turns a node into a generic record: the attributes verbatim, the
// tag under ELEMENT_NAME, non-blank text under TEXT and the flattened
// children under CHILDREN.
func Flatten(n *ElementNode) map[string]any {
	if n == nil {
		return nil
	}
	rec := make(map[string]any, len(n.Attrs)+3)
	for _, a := range n.Attrs {
		rec[a.Name] = a.Value
	}
	rec[FlatElementName] = n.Tag
	if n.Text != "" {
		rec[FlatText] = strings.TrimSpace(n.Text)
	}
	children := make([]map[string]any, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, Flatten(c))
	}
	rec[FlatChildren] = children
	return rec
}

// Visitor is called for every node of a tree by Walk. Enter returns false
// to skip the node's children; Leave runs after the children either way.
type Visitor interface {
	Enter(n *ElementNode) bool
	Leave(n *ElementNode)
}

// VisitorFunc adapts a function to a Visitor with a no-op Leave.
type VisitorFunc func(n *ElementNode) bool

func (f VisitorFunc) Enter(n *ElementNode) bool { return f(n) }
func (f VisitorFunc) Leave(*ElementNode)        {}

// Walk traverses the tree depth-first in document order.
func Walk(n *ElementNode, v Visitor) {
	if n == nil {
		return
	}
	if v.Enter(n) {
		for _, c := range n.Children {
			Walk(c, v)
		}
	}
	v.Leave(n)
}

// FindAll returns every node with the given tag, n included, in document
// order.
func FindAll(n *ElementNode, tag string) []*ElementNode {
	var out []*ElementNode
	Walk(n, VisitorFunc(func(e *ElementNode) bool {
		if e.Tag == tag {
			out = append(out, e)
		}
		return true
	}))
	return out
}
