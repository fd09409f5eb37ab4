// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package policy

import (
	"strings"

	"grimm.is/ifpolicyd/internal/errors"
	"grimm.is/ifpolicyd/internal/ifdoc"
)

// Apply executes the policy's transformations against the event document.
// Transformations run against a clone and the document is only rewritten
// once every step has succeeded, so a mid-transformation failure leaves the
// document unchanged.
func Apply(p *Policy, doc *ifdoc.Node) error {
	if len(p.Sets) == 0 {
		return nil
	}

	work := doc.Clone()
	for i, t := range p.Sets {
		if err := applyTransform(t, work); err != nil {
			return errors.Wrapf(err, errors.KindValidation, "policy %q: set block %d", p.Name, i)
		}
	}

	doc.Attrs = work.Attrs
	doc.Text = work.Text
	doc.Children = work.Children
	return nil
}

func applyTransform(t Transform, root *ifdoc.Node) error {
	node := root.Find(t.Element)
	if node == nil {
		if !t.Create {
			return errors.Errorf(errors.KindNotFound, "element %q not in document", t.Element)
		}
		node = makePath(root, t.Element)
	}
	if t.Attr != "" {
		node.SetAttr(t.Attr, t.Value)
	} else {
		node.Text = t.Value
	}
	return nil
}

// makePath walks the element path, creating missing elements.
func makePath(root *ifdoc.Node, path string) *ifdoc.Node {
	cur := root
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		next := cur.Child(part)
		if next == nil {
			next = cur.NewChild(part)
		}
		cur = next
	}
	return cur
}
