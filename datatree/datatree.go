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

// Package datatree implements the in-memory configuration tree validated and
// edited by the datastore. Each node mirrors a schema data node: a
// container, a list entry, a leaf or a leaf-list. Leaf and leaf-list values
// record their provenance, i.e. whether a user set them or the validator
// materialized them from a schema default.
package datatree

import (
	"fmt"
	"strings"

	"github.com/openconfig/ystore/schema"
	"golang.org/x/exp/slices"
)

// Provenance records where a value came from.
type Provenance int

const (
	// UserSet values were given explicitly by an edit.
	UserSet Provenance = iota
	// SystemDefault values were materialized from a schema default.
	SystemDefault
)

// String returns a readable form of p.
func (p Provenance) String() string {
	if p == SystemDefault {
		return "default"
	}
	return "user"
}

// Value is one leaf-list value.
type Value struct {
	V          string
	Provenance Provenance
}

// Node is a node of a configuration tree. The zero value is not usable; use
// NewRoot and NewChild.
type Node struct {
	schema   *schema.Node
	parent   *Node
	children []*Node

	// keys holds the key values of a list entry in schema key order.
	keys []string

	value    string
	hasValue bool
	values   []Value
	prov     Provenance

	// scope restricts a root to some top-level schema nodes.
	scope []*schema.Node
}

// NewRoot returns an empty root for the compiled schema root s. If scope is
// given, the root holds only instances of those top-level schema nodes
// (data nodes or choices directly below s).
func NewRoot(s *schema.Node, scope ...*schema.Node) *Node {
	return &Node{schema: s, scope: scope}
}

// Schema returns the schema node of n.
func (n *Node) Schema() *schema.Node {
	return n.schema
}

// Parent returns the parent of n, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsRoot reports whether n is a root.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// Root returns the root of the tree containing n.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Scope returns the top-level schema nodes a root holds, in schema order.
func (n *Node) Scope() []*schema.Node {
	if len(n.scope) != 0 {
		return n.scope
	}
	return n.schema.Children
}

// InScope reports whether the top-level schema node s belongs to root n.
func (n *Node) InScope(s *schema.Node) bool {
	if len(n.scope) == 0 {
		return true
	}
	top := s
	for top.Parent != nil && !top.Parent.IsRoot() {
		top = top.Parent
	}
	for _, sc := range n.scope {
		if sc == top {
			return true
		}
	}
	return false
}

// Name returns the local name of n, or "" for a root.
func (n *Node) Name() string {
	if n.parent == nil {
		return ""
	}
	return n.schema.Name.Local
}

// Children returns the children of n in document order. The slice must not
// be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Keys returns the key values of a list entry.
func (n *Node) Keys() []string {
	return n.keys
}

// KeyMap returns the key values of a list entry by key name.
func (n *Node) KeyMap() map[string]string {
	if n.schema.Kind != schema.ListNode {
		return nil
	}
	m := map[string]string{}
	for i, k := range n.schema.Keys() {
		if i < len(n.keys) {
			m[k] = n.keys[i]
		}
	}
	return m
}

// Child returns the child of n named name, or the first entry of a list of
// that name. It returns nil if there is none.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.schema.Name.Local == name {
			return c
		}
	}
	return nil
}

// ChildFor returns the child of n with schema s (the first entry for a
// list), or nil.
func (n *Node) ChildFor(s *schema.Node) *Node {
	for _, c := range n.children {
		if c.schema == s {
			return c
		}
	}
	return nil
}

// Entries returns all instances of the child schema node s: the entries of
// a list, or the single container, leaf or leaf-list.
func (n *Node) Entries(s *schema.Node) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.schema == s {
			out = append(out, c)
		}
	}
	return out
}

// Entry returns the list entry of s with the given key values, or nil.
func (n *Node) Entry(s *schema.Node, keys []string) *Node {
	for _, c := range n.children {
		if c.schema == s && slices.Equal(c.keys, keys) {
			return c
		}
	}
	return nil
}

// NewChild creates a child of n for the data schema node s and returns it.
// For a list entry keys holds the key values in schema key order, and the
// key leaves are created as user set children. NewChild does not check for
// an existing instance.
func (n *Node) NewChild(s *schema.Node, keys []string) (*Node, error) {
	if !s.IsDataNode() || s.DataParent() != n.schema {
		return nil, fmt.Errorf("%s is not a data child of %s", s.DataPath(), n.schema.DataPath())
	}
	c := &Node{schema: s, parent: n}
	if s.Kind == schema.ListNode {
		if len(keys) != len(s.Keys()) {
			return nil, fmt.Errorf("list %s needs %d keys, got %d", s.Name.Local, len(s.Keys()), len(keys))
		}
		c.keys = append([]string(nil), keys...)
		for i, k := range s.Keys() {
			kl, err := c.NewChild(s.Child(k), nil)
			if err != nil {
				return nil, err
			}
			kl.SetValue(keys[i], UserSet)
		}
	}
	n.insert(c)
	return c, nil
}

// insert places c after the last child whose schema node does not come
// later than c's in schema order, so children stay grouped in schema order
// and list entries keep insertion order.
func (n *Node) insert(c *Node) {
	order := n.schema.DataChildren()
	pos := func(s *schema.Node) int {
		for i, o := range order {
			if o == s {
				return i
			}
		}
		return len(order)
	}
	cp := pos(c.schema)
	at := len(n.children)
	for i := len(n.children) - 1; i >= 0; i-- {
		if pos(n.children[i].schema) <= cp {
			break
		}
		at = i
	}
	n.children = append(n.children, nil)
	copy(n.children[at+1:], n.children[at:])
	n.children[at] = c
}

// Remove detaches the child c from n. It reports whether c was a child.
func (n *Node) Remove(c *Node) bool {
	for i, ch := range n.children {
		if ch == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// Value returns the value of a leaf and whether it is set.
func (n *Node) Value() (string, bool) {
	return n.value, n.hasValue
}

// SetValue sets the value of a leaf.
func (n *Node) SetValue(v string, p Provenance) {
	n.value = v
	n.hasValue = true
	n.prov = p
}

// Provenance returns the provenance of a leaf value.
func (n *Node) Provenance() Provenance {
	return n.prov
}

// Values returns the values of a leaf-list in insertion order. The slice
// must not be modified.
func (n *Node) Values() []Value {
	return n.values
}

// ValueStrings returns the values of a leaf-list.
func (n *Node) ValueStrings() []string {
	var out []string
	for _, v := range n.values {
		out = append(out, v.V)
	}
	return out
}

// HasValue reports whether the leaf-list n holds v.
func (n *Node) HasValue(v string) bool {
	return n.valueIndex(v) >= 0
}

func (n *Node) valueIndex(v string) int {
	for i, x := range n.values {
		if x.V == v {
			return i
		}
	}
	return -1
}

// AddValue appends v to a leaf-list. It returns false, leaving n unchanged,
// if v is already present.
func (n *Node) AddValue(v string, p Provenance) bool {
	if n.HasValue(v) {
		return false
	}
	n.values = append(n.values, Value{V: v, Provenance: p})
	return true
}

// SetValueProvenance changes the provenance of leaf-list value v.
func (n *Node) SetValueProvenance(v string, p Provenance) {
	if i := n.valueIndex(v); i >= 0 {
		n.values[i].Provenance = p
	}
}

// RemoveValue removes v from a leaf-list, reporting whether it was present.
func (n *Node) RemoveValue(v string) bool {
	i := n.valueIndex(v)
	if i < 0 {
		return false
	}
	n.values = append(n.values[:i], n.values[i+1:]...)
	return true
}

// ClearValues removes every value of a leaf-list.
func (n *Node) ClearValues() {
	n.values = nil
}

// IsSystemDefault reports whether n holds only schema defaults: a defaulted
// leaf, a leaf-list whose values are all defaults, or a non-presence
// container whose children are all system defaults. List entries and
// presence containers are always user data.
func (n *Node) IsSystemDefault() bool {
	switch n.schema.Kind {
	case schema.LeafNode:
		return n.prov == SystemDefault
	case schema.LeafListNode:
		for _, v := range n.values {
			if v.Provenance != SystemDefault {
				return false
			}
		}
		return true
	case schema.ContainerNode:
		if n.schema.Presence || n.parent == nil {
			return false
		}
		for _, c := range n.children {
			if !c.IsSystemDefault() {
				return false
			}
		}
		return true
	}
	return false
}

// IsEmpty reports whether n carries no data: a leaf-list without values or
// a container without children.
func (n *Node) IsEmpty() bool {
	switch n.schema.Kind {
	case schema.LeafListNode:
		return len(n.values) == 0
	case schema.ContainerNode:
		return len(n.children) == 0
	case schema.LeafNode:
		return !n.hasValue
	}
	return false
}

// Clone returns a deep copy of n detached from any parent.
func (n *Node) Clone() *Node {
	c := &Node{
		schema:   n.schema,
		keys:     append([]string(nil), n.keys...),
		value:    n.value,
		hasValue: n.hasValue,
		prov:     n.prov,
		scope:    n.scope,
	}
	if n.values != nil {
		c.values = append([]Value(nil), n.values...)
	}
	for _, ch := range n.children {
		cc := ch.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// Path returns the data path of n in prefix:name form with key predicates,
// e.g. /t:c/t:list[t:key='x']/t:leaf.
func (n *Node) Path() string {
	if n.parent == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(n.parent.Path())
	b.WriteString("/")
	b.WriteString(n.schema.Name.Qualified())
	b.WriteString(keyPredicates(n.schema, n.keys))
	return b.String()
}

// ChildPath returns the path a child of n with schema s would have.
func (n *Node) ChildPath(s *schema.Node) string {
	return n.Path() + "/" + s.Name.Qualified()
}

// EntryPath returns the path of the list entry of s with key values keys
// below n.
func (n *Node) EntryPath(s *schema.Node, keys []string) string {
	return n.ChildPath(s) + keyPredicates(s, keys)
}

func keyPredicates(s *schema.Node, keys []string) string {
	var b strings.Builder
	for i, k := range keys {
		if i >= len(s.Keys()) {
			break
		}
		q := s.Name
		q.Local = s.Keys()[i]
		if kl := s.Child(s.Keys()[i]); kl != nil {
			q = kl.Name
		}
		fmt.Fprintf(&b, "[%s='%s']", q.Qualified(), k)
	}
	return b.String()
}

// String returns an indented dump of the tree rooted at n, marking system
// defaults, for debugging and tests.
func (n *Node) String() string {
	var b strings.Builder
	n.dump(&b, "")
	return b.String()
}

func (n *Node) dump(b *strings.Builder, indent string) {
	if n.parent == nil {
		for _, c := range n.children {
			c.dump(b, indent)
		}
		return
	}
	name := n.schema.Name.Local + keyPredicates(n.schema, n.keys)
	switch n.schema.Kind {
	case schema.LeafNode:
		fmt.Fprintf(b, "%s%s = %q", indent, name, n.value)
		if n.prov == SystemDefault {
			b.WriteString(" (default)")
		}
		b.WriteString("\n")
	case schema.LeafListNode:
		for _, v := range n.values {
			fmt.Fprintf(b, "%s%s = %q", indent, name, v.V)
			if v.Provenance == SystemDefault {
				b.WriteString(" (default)")
			}
			b.WriteString("\n")
		}
	default:
		fmt.Fprintf(b, "%s%s\n", indent, name)
		for _, c := range n.children {
			c.dump(b, indent+"  ")
		}
	}
}

// Equal reports whether the trees rooted at n and o hold the same data with
// the same provenance.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.schema != o.schema || !slices.Equal(n.keys, o.keys) || len(n.children) != len(o.children) {
		return false
	}
	if n.hasValue != o.hasValue || n.value != o.value || (n.hasValue && n.prov != o.prov) {
		return false
	}
	if !slices.Equal(n.values, o.values) {
		return false
	}
	for i := range n.children {
		if !n.children[i].Equal(o.children[i]) {
			return false
		}
	}
	return true
}
