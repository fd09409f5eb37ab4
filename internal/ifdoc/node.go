// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package ifdoc provides the mutable document tree used to represent a
// kernel event together with a snapshot of the affected interface. Policies
// match against and transform these documents.
package ifdoc

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Attr is a named attribute on a Node. Order is preserved.
type Attr struct {
	Name  string
	Value string
}

// Node is one element in a document tree.
type Node struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// New creates a Node with the given element name.
func New(name string) *Node {
	return &Node{Name: name}
}

// SetAttr sets an attribute, replacing an existing one of the same name.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AddChild appends a child element.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// NewChild creates and appends a child element with the given name.
func (n *Node) NewChild(name string) *Node {
	return n.AddChild(New(name))
}

// ReplaceChild replaces the first child with the same element name, or
// appends when no such child exists.
func (n *Node) ReplaceChild(child *Node) {
	for i, c := range n.Children {
		if c.Name == child.Name {
			n.Children[i] = child
			return
		}
	}
	n.Children = append(n.Children, child)
}

// Child returns the first child with the given element name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Find resolves a slash-separated element path relative to n.
// An empty path returns n itself.
func (n *Node) Find(path string) *Node {
	cur := n
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		cur = cur.Child(part)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Name: n.Name, Text: n.Text}
	out.Attrs = append([]Attr(nil), n.Attrs...)
	for _, c := range n.Children {
		out.Children = append(out.Children, c.Clone())
	}
	return out
}

// Equal reports structural equality of two subtrees: element names,
// attribute sequences, text and child order must all match.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Name != other.Name || n.Text != other.Text {
		return false
	}
	if len(n.Attrs) != len(other.Attrs) || len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Attrs {
		if n.Attrs[i] != other.Attrs[i] {
			return false
		}
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// XML renders the subtree as indented XML. Used for responses and logs;
// the tree itself is the canonical representation.
func (n *Node) XML() string {
	var buf bytes.Buffer
	n.render(&buf, 0)
	return buf.String()
}

func (n *Node) render(buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(n.Name)
	for _, a := range n.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		xml.EscapeText(buf, []byte(a.Value))
		buf.WriteString(`"`)
	}
	if n.Text == "" && len(n.Children) == 0 {
		buf.WriteString("/>\n")
		return
	}
	buf.WriteByte('>')
	if n.Text != "" {
		xml.EscapeText(buf, []byte(n.Text))
	}
	if len(n.Children) > 0 {
		buf.WriteByte('\n')
		for _, c := range n.Children {
			c.render(buf, depth+1)
		}
		buf.WriteString(indent)
	}
	buf.WriteString("</")
	buf.WriteString(n.Name)
	buf.WriteString(">\n")
}
