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

// Package edit applies NETCONF edit-config requests to configuration trees.
// A request is a tree of Nodes, each naming a schema node and optionally
// carrying an operation; Apply merges it onto a datatree.Node following the
// merge, create, replace, delete and remove semantics of RFC 6241 section
// 7.2.
package edit

import (
	"fmt"
	"strings"
)

// Operation is the operation attribute of a request node.
type Operation int

const (
	// NotSet inherits the operation of the parent request node.
	NotSet Operation = iota
	Merge
	Create
	Replace
	Delete
	Remove
)

// String returns the NETCONF name of o.
func (o Operation) String() string {
	switch o {
	case Merge:
		return "merge"
	case Create:
		return "create"
	case Replace:
		return "replace"
	case Delete:
		return "delete"
	case Remove:
		return "remove"
	}
	return "none"
}

// Removes reports whether o deletes its target.
func (o Operation) Removes() bool {
	return o == Delete || o == Remove
}

// ParseOperation returns the Operation named s.
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "merge":
		return Merge, nil
	case "create":
		return Create, nil
	case "replace":
		return Replace, nil
	case "delete":
		return Delete, nil
	case "remove":
		return Remove, nil
	}
	return NotSet, fmt.Errorf("invalid operation %q", s)
}

// DefaultOperation is the edit-config default-operation parameter.
type DefaultOperation int

const (
	DefaultMerge DefaultOperation = iota
	DefaultReplace
	// DefaultNone leaves nodes without an operation untouched; they only
	// select the path to nodes that carry one.
	DefaultNone
)

// Operation returns the operation request nodes inherit at the top level.
func (d DefaultOperation) Operation() Operation {
	switch d {
	case DefaultReplace:
		return Replace
	case DefaultNone:
		return NotSet
	}
	return Merge
}

// ParseDefaultOperation returns the DefaultOperation named s.
func ParseDefaultOperation(s string) (DefaultOperation, error) {
	switch s {
	case "", "merge":
		return DefaultMerge, nil
	case "replace":
		return DefaultReplace, nil
	case "none":
		return DefaultNone, nil
	}
	return DefaultMerge, fmt.Errorf("invalid default-operation %q", s)
}

// Node is one element of an edit request. A container or list entry has
// Children, with the key leaves of a list entry among them. A leaf, or one
// value of a leaf-list, has a Value.
type Node struct {
	Name string
	// Namespace, if set, must match the namespace of the schema node.
	Namespace string
	Operation Operation
	Value     *string
	Children  []*Node
}

// Container returns a request node for a container or list entry.
func Container(name string, children ...*Node) *Node {
	return &Node{Name: name, Children: children}
}

// Leaf returns a request node for a leaf or one leaf-list value.
func Leaf(name, value string) *Node {
	return &Node{Name: name, Value: &value}
}

// WithOperation sets the operation of n and returns n.
func (n *Node) WithOperation(op Operation) *Node {
	n.Operation = op
	return n
}

// WithNamespace sets the namespace of n and returns n.
func (n *Node) WithNamespace(ns string) *Node {
	n.Namespace = ns
	return n
}

// String returns a compact single line form of n for debugging.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	b.WriteString(n.Name)
	if n.Operation != NotSet {
		fmt.Fprintf(b, "(%s)", n.Operation)
	}
	if n.Value != nil {
		fmt.Fprintf(b, "=%q", *n.Value)
	}
	if len(n.Children) == 0 {
		return
	}
	b.WriteString("{")
	for i, c := range n.Children {
		if i != 0 {
			b.WriteString(" ")
		}
		c.write(b)
	}
	b.WriteString("}")
}

// Change is a delete or remove applied by Apply.
type Change struct {
	// Path is the data path of the removed node.
	Path      string
	Operation Operation
	// Value is set when a single leaf-list value was removed.
	Value string
}

// Log lists the explicit deletes and removes of one request, in the order
// they were applied.
type Log []Change

// Operation returns the operation that explicitly removed the node at path,
// or the leaf-list value v at path, either directly or by removing one of
// its ancestors. It reports false if the removal was not explicit, for
// instance when another case of a choice was selected.
func (l Log) Operation(path, v string) (Operation, bool) {
	for i := len(l) - 1; i >= 0; i-- {
		c := l[i]
		switch {
		case c.Path == path && (c.Value == "" || c.Value == v):
			return c.Operation, true
		case strings.HasPrefix(path, c.Path+"/") && c.Value == "":
			return c.Operation, true
		}
	}
	return NotSet, false
}
