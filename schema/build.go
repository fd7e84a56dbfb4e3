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

package schema

import (
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
)

// Constructors used to assemble a schema in Go. Each node is backed by a
// goyang Entry built the way goyang itself lays one out, so a hand-built
// schema and one read from YANG modules are interpreted identically. The
// returned nodes carry no namespace; Compile copies the namespace of the
// enclosing module onto them.

// newEntry returns an entry of kind k. Every kind but leaves holds a Dir.
func newEntry(name string, k yang.EntryKind) *yang.Entry {
	e := &yang.Entry{Name: name, Kind: k}
	if k != yang.LeafEntry {
		e.Dir = map[string]*yang.Entry{}
	}
	return e
}

// adopt links the entries of children below e unless they already have a
// parent entry.
func adopt(e *yang.Entry, children []*Node) {
	for _, c := range children {
		if c == nil || c.Entry == nil || c.Entry.Parent != nil {
			continue
		}
		c.Entry.Parent = e
		if e.Dir != nil {
			e.Dir[c.Entry.Name] = c.Entry
		}
	}
}

func newNode(e *yang.Entry, children []*Node) *Node {
	adopt(e, children)
	return &Node{Entry: e, Name: QName{Local: e.Name}, Children: children}
}

// Container returns a non-presence container.
func Container(name string, children ...*Node) *Node {
	return newNode(newEntry(name, yang.DirectoryEntry), children)
}

// PresenceContainer returns a presence container.
func PresenceContainer(name string, children ...*Node) *Node {
	n := Container(name, children...)
	n.Presence = true
	return n
}

// List returns a list keyed by keys.
func List(name string, keys []string, children ...*Node) *Node {
	e := newEntry(name, yang.DirectoryEntry)
	e.Key = strings.Join(keys, " ")
	e.ListAttr = yang.NewDefaultListAttr()
	return newNode(e, children)
}

// Leaf returns a leaf.
func Leaf(name string) *Node {
	return newNode(newEntry(name, yang.LeafEntry), nil)
}

// LeafList returns a leaf-list.
func LeafList(name string) *Node {
	e := newEntry(name, yang.LeafEntry)
	e.ListAttr = yang.NewDefaultListAttr()
	return newNode(e, nil)
}

// Choice returns a choice. Children that are not cases are wrapped in an
// implicit case of the same name by Compile.
func Choice(name string, cases ...*Node) *Node {
	return newNode(newEntry(name, yang.ChoiceEntry), cases)
}

// Case returns a case.
func Case(name string, children ...*Node) *Node {
	return newNode(newEntry(name, yang.CaseEntry), children)
}

// WithDefault sets the default value(s) of a leaf or leaf-list and returns n.
func (n *Node) WithDefault(v ...string) *Node {
	n.Entry.Default = v
	return n
}

// WithDefaultCase sets the default case of a choice and returns n.
func (n *Node) WithDefaultCase(name string) *Node {
	n.DefaultCase = name
	return n
}

// WithMandatory marks a leaf or choice mandatory and returns n.
func (n *Node) WithMandatory() *Node {
	n.Entry.Mandatory = yang.TSTrue
	return n
}

// WithMinElements sets min-elements of a list or leaf-list and returns n.
// It has no effect on other nodes.
func (n *Node) WithMinElements(v uint64) *Node {
	if n.Entry.ListAttr != nil {
		n.Entry.ListAttr.MinElements = v
	}
	return n
}

// WithMaxElements sets max-elements of a list or leaf-list and returns n.
// It has no effect on other nodes.
func (n *Node) WithMaxElements(v uint64) *Node {
	if n.Entry.ListAttr != nil {
		n.Entry.ListAttr.MaxElements = v
	}
	return n
}

// WithWhen sets the when expression and returns n.
func (n *Node) WithWhen(expr string) *Node {
	n.When = expr
	return n
}

// WithMust appends a must expression and returns n.
func (n *Node) WithMust(expr, errorMessage string) *Node {
	n.Must = append(n.Must, &Must{Expr: expr, ErrorMessage: errorMessage})
	return n
}
