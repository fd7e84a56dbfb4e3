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
	"fmt"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
	"github.com/openconfig/ystore/util"
	"github.com/openconfig/ystore/xpath"
)

// Module describes the module whose top-level nodes form a schema root.
type Module struct {
	Name      string
	Namespace string
	Prefix    string
	Revision  string
}

// NewRoot returns a compiled schema root holding the top-level nodes of
// module m.
func NewRoot(m Module, children ...*Node) (*Node, error) {
	e := newEntry(m.Name, yang.DirectoryEntry)
	adopt(e, children)
	root := &Node{
		Entry:    e,
		Name:     QName{Namespace: m.Namespace, Revision: m.Revision, Prefix: m.Prefix},
		Children: children,
		root:     true,
	}
	if errs := Compile(root); errs != nil {
		return nil, errs
	}
	return root, nil
}

// MergeRoots returns a compiled root holding the top-level nodes of all the
// supplied roots, each keeping its own namespace.
func MergeRoots(roots ...*Node) (*Node, error) {
	merged := &Node{Entry: newEntry("", yang.DirectoryEntry), root: true}
	for _, r := range roots {
		merged.Children = append(merged.Children, r.Children...)
	}
	if errs := Compile(merged); errs != nil {
		return nil, errs
	}
	return merged, nil
}

// Compile links parent pointers, inherits namespaces, wraps choice shorthand
// members in implicit cases, compiles when and must expressions and checks
// the structural rules the datastore relies on. n becomes a schema root.
func Compile(n *Node) util.Errors {
	n.root = true
	n.Parent = nil
	var errs util.Errors
	errs = util.AppendErrs(errs, compileNode(n))
	if len(errs) == 0 {
		errs = util.AppendErrs(errs, compileExprs(n, prefixes(n)))
		errs = util.AppendErrs(errs, buildIndex(n))
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func isCase(n *Node) bool {
	return n.Entry != nil && n.Entry.IsCase()
}

func compileNode(n *Node) []error {
	if n.Entry == nil {
		return []error{fmt.Errorf("%s: node %s has no schema entry", n.Parent.Path(), n.Name.Local)}
	}
	k, err := kindOf(n.Entry)
	if err != nil {
		return []error{fmt.Errorf("%s: %v", n.Path(), err)}
	}
	n.Kind = k

	var errs []error
	if n.Kind == ChoiceNode {
		for i, c := range n.Children {
			if !isCase(c) {
				ce := newEntry(c.Name.Local, yang.CaseEntry)
				ce.Parent = n.Entry
				if c.Entry != nil && c.Entry.Parent == n.Entry {
					c.Entry.Parent = ce
					ce.Dir[c.Entry.Name] = c.Entry
					n.Entry.Dir[c.Entry.Name] = ce
				}
				n.Children[i] = &Node{Entry: ce, Name: c.Name, Children: []*Node{c}}
			}
		}
		if n.DefaultCase != "" && n.Case(n.DefaultCase) == nil {
			errs = append(errs, fmt.Errorf("%s: default case %s does not exist", n.Path(), n.DefaultCase))
		}
		if n.DefaultCase != "" && n.Mandatory() {
			errs = append(errs, fmt.Errorf("%s: a mandatory choice cannot have a default case", n.Path()))
		}
	}

	for _, c := range n.Children {
		c.Parent = n
		c.root = false
		if c.Name.Namespace == "" {
			c.Name.Namespace = n.Name.Namespace
			c.Name.Revision = n.Name.Revision
		}
		if c.Name.Prefix == "" {
			c.Name.Prefix = n.Name.Prefix
		}
		switch {
		case isCase(c) && n.Kind != ChoiceNode:
			errs = append(errs, fmt.Errorf("%s: case outside of a choice", c.Path()))
		case n.IsLeafy():
			errs = append(errs, fmt.Errorf("%s: %s cannot have children", n.Path(), n.Kind))
		}
		errs = append(errs, compileNode(c)...)
	}

	switch n.Kind {
	case ListNode:
		n.keys = strings.Fields(n.Entry.Key)
		if len(n.keys) == 0 {
			errs = append(errs, fmt.Errorf("%s: list has no keys", n.Path()))
		}
		for _, k := range n.keys {
			var found bool
			for _, c := range n.Children {
				if c.Kind == LeafNode && c.Name.Local == k {
					found = true
				}
			}
			if !found {
				errs = append(errs, fmt.Errorf("%s: key %s is not a leaf of the list", n.Path(), k))
			}
		}
	case LeafNode:
		if d := n.Default(); len(d) > 1 {
			errs = append(errs, fmt.Errorf("%s: leaf has %d default values", n.Path(), len(d)))
		}
		if n.Mandatory() && len(n.Default()) != 0 {
			errs = append(errs, fmt.Errorf("%s: a mandatory leaf cannot have a default", n.Path()))
		}
	}
	if hi := n.MaxElements(); hi != 0 && n.MinElements() > hi {
		errs = append(errs, fmt.Errorf("%s: min-elements %d exceeds max-elements %d", n.Path(), n.MinElements(), hi))
	}
	return errs
}

// prefixes maps every module prefix used in the schema below n onto its
// namespace.
func prefixes(n *Node) map[string]string {
	m := map[string]string{}
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Name.Prefix != "" {
			m[n.Name.Prefix] = n.Name.Namespace
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return m
}

// compileExprs compiles the when and must expressions below n. Unprefixed
// names in an expression resolve to the namespace of the node that carries
// it.
func compileExprs(n *Node, prefixes map[string]string) []error {
	var errs []error
	if n.When != "" || len(n.Must) != 0 {
		ns := map[string]string{"": n.Name.Namespace}
		for p, v := range prefixes {
			ns[p] = v
		}
		if n.When != "" {
			e, err := xpath.Compile(n.When, ns)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: when: %v", n.Path(), err))
			}
			n.when = e
		}
		for _, m := range n.Must {
			e, err := xpath.Compile(m.Expr, ns)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: must: %v", n.Path(), err))
			}
			m.compiled = e
		}
	}
	for _, c := range n.Children {
		errs = append(errs, compileExprs(c, prefixes)...)
	}
	return errs
}

// buildIndex indexes the data children of every data node by local name.
// Two data nodes with the same name below one data node, for instance in two
// cases of a choice, are rejected.
func buildIndex(n *Node) []error {
	var errs []error
	if n.IsDataNode() {
		n.index = map[string]*Node{}
		for _, c := range n.DataChildren() {
			if _, ok := n.index[c.Name.Local]; ok {
				errs = append(errs, fmt.Errorf("%s: duplicate data node %s", n.Path(), c.Name.Local))
				continue
			}
			n.index[c.Name.Local] = c
		}
	}
	for _, c := range n.Children {
		errs = append(errs, buildIndex(c)...)
	}
	return errs
}
