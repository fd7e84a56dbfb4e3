// Copyright 2026 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package schema holds the compiled schema model the datastore validates
// against: a tree of container, list, leaf, leaf-list, choice and case
// nodes with their cardinality constraints, defaults and when/must
// expressions.
//
// A schema is built either with the constructors in this package or by
// package yangschema from YANG modules, and must be passed through Compile
// before use. A compiled schema is immutable and may be shared between
// goroutines.
package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"

	"github.com/openconfig/ystore/xpath"
)

// Kind is the kind of a schema node.
type Kind int

const (
	ContainerNode Kind = iota
	ListNode
	LeafNode
	LeafListNode
	ChoiceNode
	CaseNode
)

// String returns the YANG keyword for k.
func (k Kind) String() string {
	switch k {
	case ContainerNode:
		return "container"
	case ListNode:
		return "list"
	case LeafNode:
		return "leaf"
	case LeafListNode:
		return "leaf-list"
	case ChoiceNode:
		return "choice"
	case CaseNode:
		return "case"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// QName is a namespace qualified name.
type QName struct {
	Namespace string
	Revision  string
	// Prefix is the module prefix used when rendering paths.
	Prefix string
	Local  string
}

// String returns the (namespace?revision=rev)local form of q.
func (q QName) String() string {
	return fmt.Sprintf("(%s?revision=%s)%s", q.Namespace, q.Revision, q.Local)
}

// Qualified returns prefix:local, or local if q has no prefix.
func (q QName) Qualified() string {
	if q.Prefix == "" {
		return q.Local
	}
	return q.Prefix + ":" + q.Local
}

// Must is a must statement attached to a data node.
type Must struct {
	// Expr is the XPath source text.
	Expr string
	// ErrorMessage, if set, replaces the default error message.
	ErrorMessage string

	compiled *xpath.Expr
}

// Compiled returns the compiled expression. It is nil before Compile.
func (m *Must) Compiled() *xpath.Expr {
	return m.compiled
}

// Node is a schema node. The goyang Entry behind it carries the node kind,
// defaults, the mandatory flag, list keys and list attributes; Node adds the
// compiled expressions and the lookups the datastore needs.
type Node struct {
	Entry *yang.Entry
	// Kind is derived from Entry by Compile.
	Kind Kind
	Name QName
	// Parent is populated by Compile.
	Parent   *Node
	Children []*Node

	// Presence marks a presence container.
	Presence bool
	// DefaultCase names the default case of a choice.
	DefaultCase string

	// When is the source text of the when statement, if any.
	When string
	Must []*Must

	when  *xpath.Expr
	keys  []string
	index map[string]*Node
	root  bool
}

// kindOf maps a goyang entry onto a Kind.
func kindOf(e *yang.Entry) (Kind, error) {
	switch {
	case e.IsChoice():
		return ChoiceNode, nil
	case e.IsCase():
		return CaseNode, nil
	case e.IsList():
		return ListNode, nil
	case e.IsContainer():
		return ContainerNode, nil
	case e.IsLeafList():
		return LeafListNode, nil
	case e.IsLeaf():
		return LeafNode, nil
	}
	return 0, fmt.Errorf("unsupported entry kind %v", e.Kind)
}

// Default returns the default value of a leaf, or the defaults of a
// leaf-list.
func (n *Node) Default() []string {
	return n.Entry.Default
}

// Mandatory reports whether a leaf or choice is mandatory.
func (n *Node) Mandatory() bool {
	return n.Entry.Mandatory == yang.TSTrue
}

// Keys returns the key leaf names of a list, in declaration order.
func (n *Node) Keys() []string {
	return n.keys
}

// MinElements returns the min-elements of a list or leaf-list.
func (n *Node) MinElements() uint64 {
	if n.Entry.ListAttr == nil {
		return 0
	}
	return n.Entry.ListAttr.MinElements
}

// MaxElements returns the max-elements of a list or leaf-list, or 0 if it is
// unbounded.
func (n *Node) MaxElements() uint64 {
	la := n.Entry.ListAttr
	if la == nil || la.MaxElements == math.MaxUint64 {
		return 0
	}
	return la.MaxElements
}

// OrderedByUser reports ordered-by user on a list or leaf-list.
func (n *Node) OrderedByUser() bool {
	la := n.Entry.ListAttr
	return la != nil && la.OrderedBy != nil && la.OrderedBy.Name == "user"
}

// IsDataNode reports whether n appears in the data tree, i.e. is neither a
// choice nor a case.
func (n *Node) IsDataNode() bool {
	return n.Kind != ChoiceNode && n.Kind != CaseNode
}

// IsRoot reports whether n is the synthesised root of a schema.
func (n *Node) IsRoot() bool {
	return n.root
}

// IsLeafy reports whether n is a leaf or a leaf-list.
func (n *Node) IsLeafy() bool {
	return n.Kind == LeafNode || n.Kind == LeafListNode
}

// HasDefault reports whether n is a leaf or leaf-list with a default.
func (n *Node) HasDefault() bool {
	return n.IsLeafy() && len(n.Default()) != 0
}

// WhenExpr returns the compiled when expression of n, or nil.
func (n *Node) WhenExpr() *xpath.Expr {
	return n.when
}

// DataParent returns the nearest ancestor of n that is a data node, skipping
// choices and cases.
func (n *Node) DataParent() *Node {
	p := n.Parent
	for p != nil && !p.IsDataNode() {
		p = p.Parent
	}
	return p
}

// Child returns the data child of n named local, looking through any
// choices and cases. It returns nil if there is no such child.
func (n *Node) Child(local string) *Node {
	return n.index[local]
}

// DataChildren returns the data children of n in schema order, looking
// through any choices and cases.
func (n *Node) DataChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsDataNode() {
			out = append(out, c)
			continue
		}
		out = append(out, c.DataChildren()...)
	}
	return out
}

// Case returns the case of choice n named name.
func (n *Node) Case(name string) *Node {
	if n.Kind != ChoiceNode {
		return nil
	}
	for _, c := range n.Children {
		if c.Name.Local == name {
			return c
		}
	}
	return nil
}

// DefaultCaseNode returns the default case of choice n, or nil.
func (n *Node) DefaultCaseNode() *Node {
	if n.DefaultCase == "" {
		return nil
	}
	return n.Case(n.DefaultCase)
}

// IsKey reports whether local names a key leaf of list n.
func (n *Node) IsKey(local string) bool {
	for _, k := range n.keys {
		if k == local {
			return true
		}
	}
	return false
}

// IsKeyLeaf reports whether n is a key leaf of its parent list.
func (n *Node) IsKeyLeaf() bool {
	return n.Kind == LeafNode && n.Parent != nil && n.Parent.Kind == ListNode && n.Parent.IsKey(n.Name.Local)
}

// Path returns the schema path of n, including choice and case nodes, in
// prefix:name form.
func (n *Node) Path() string {
	if n == nil || n.root {
		return ""
	}
	return n.Parent.Path() + "/" + n.Name.Qualified()
}

// DataPath returns the schema path of n excluding choice and case nodes and
// module prefixes, e.g. /c/list/leaf.
func (n *Node) DataPath() string {
	if n == nil || n.root {
		return ""
	}
	if !n.IsDataNode() {
		return n.Parent.DataPath()
	}
	return n.Parent.DataPath() + "/" + n.Name.Local
}

// String returns a short description of n for debugging.
func (n *Node) String() string {
	return fmt.Sprintf("%s %s", n.Kind, n.Name.Local)
}

// Find returns the data node at the slash separated data path p below n, or
// nil. Module prefixes in p are ignored.
func (n *Node) Find(p string) *Node {
	cur := n
	for _, e := range strings.Split(strings.Trim(p, "/"), "/") {
		if e == "" {
			continue
		}
		if i := strings.IndexByte(e, ':'); i >= 0 {
			e = e[i+1:]
		}
		if cur = cur.Child(e); cur == nil {
			return nil
		}
	}
	return cur
}
