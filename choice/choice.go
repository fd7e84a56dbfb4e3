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

// Package choice resolves YANG choice and case membership for the data
// children of one configuration node. It enforces that at most one case of
// each choice is present, and reports which case, if any, is active.
//
// Refer to: https://tools.ietf.org/html/rfc7950#section-7.9.
package choice

import (
	"github.com/openconfig/ystore/datatree"
	"github.com/openconfig/ystore/rpcerr"
	"github.com/openconfig/ystore/schema"
	"github.com/openconfig/ystore/util"
)

// Membership is one choice enclosing a data node, with the case of that
// choice the node belongs to.
type Membership struct {
	Choice *schema.Node
	Case   *schema.Node
}

// CaseOf returns the choices enclosing the data schema node s below its
// data parent, innermost first. It returns nil for a node that is not
// inside any choice.
func CaseOf(s *schema.Node) []Membership {
	var out []Membership
	for c := s.Parent; c != nil && !c.IsDataNode(); c = c.Parent {
		if c.Kind == schema.CaseNode && c.Parent != nil {
			out = append(out, Membership{Choice: c.Parent, Case: c})
		}
	}
	return out
}

// State is the selection state of one choice position.
type State int

const (
	// NoCaseSelected means no node of any case is present.
	NoCaseSelected State = iota
	// CaseActive means nodes of one case are present, and either the case is
	// not the default case or some of its nodes were set by the user.
	CaseActive
	// DefaultCaseActive means only system defaults of the default case are
	// present.
	DefaultCaseActive
)

// String returns a readable form of s.
func (s State) String() string {
	switch s {
	case CaseActive:
		return "CaseActive"
	case DefaultCaseActive:
		return "DefaultCaseActive"
	}
	return "NoCaseSelected"
}

// ActiveCase returns the case of choice ch that has nodes present below
// parent, the data node holding ch. Nodes of any provenance count. It
// returns nil if no case has nodes present.
func ActiveCase(parent *datatree.Node, ch *schema.Node) *schema.Node {
	if parent == nil {
		return nil
	}
	for _, cs := range ch.Children {
		if len(Present(parent, cs)) != 0 {
			return cs
		}
	}
	return nil
}

// Present returns the instances below parent of the data nodes of case or
// choice cs, including those inside nested choices.
func Present(parent *datatree.Node, cs *schema.Node) []*datatree.Node {
	var out []*datatree.Node
	for _, s := range cs.DataChildren() {
		out = append(out, parent.Entries(s)...)
	}
	return out
}

// StateOf returns the state of choice ch below parent and the active case.
func StateOf(parent *datatree.Node, ch *schema.Node) (State, *schema.Node) {
	cs := ActiveCase(parent, ch)
	switch {
	case cs == nil:
		return NoCaseSelected, nil
	case cs.Name.Local != ch.DefaultCase:
		return CaseActive, cs
	}
	for _, n := range Present(parent, cs) {
		if !n.IsSystemDefault() {
			return CaseActive, cs
		}
	}
	return DefaultCaseActive, cs
}

// Select makes the case holding the data schema node s the selected case of
// every choice enclosing s below parent. Nodes of every other case of those
// choices are removed from parent, whatever their provenance, and returned
// in removal order.
func Select(parent *datatree.Node, s *schema.Node) []*datatree.Node {
	var removed []*datatree.Node
	for _, m := range CaseOf(s) {
		for _, cs := range m.Choice.Children {
			if cs == m.Case {
				continue
			}
			for _, n := range Present(parent, cs) {
				util.DbgPrint("case %s of %s replaces %s", m.Case.Name.Local, m.Choice.Name.Local, n.Path())
				parent.Remove(n)
				removed = append(removed, n)
			}
		}
	}
	return removed
}

// Element is one immediate child of a request node, checked for case
// exclusivity against its siblings.
type Element struct {
	// Schema is the data schema node the element instantiates.
	Schema *schema.Node
	// Path is the data path the element addresses.
	Path string
	// Removes marks delete and remove operations, which select no case.
	Removes bool
}

// CheckExclusive checks that the elements, the immediate children of one
// request node, do not select two different cases of the same choice. One
// bad-element error is returned per conflicting choice, at the path of the
// first element that selects a second case.
func CheckExclusive(elems []Element) rpcerr.List {
	var errs rpcerr.List
	selected := map[*schema.Node]*schema.Node{}
	reported := map[*schema.Node]bool{}
	for _, e := range elems {
		if e.Removes {
			continue
		}
		for _, m := range CaseOf(e.Schema) {
			cs, ok := selected[m.Choice]
			if !ok {
				selected[m.Choice] = m.Case
				continue
			}
			if cs != m.Case && !reported[m.Choice] {
				reported[m.Choice] = true
				errs = append(errs, rpcerr.InvalidChoiceElement(e.Path, e.Schema.Name.Local))
			}
		}
	}
	return errs
}

// Exclusive reports whether at most one case of every choice below the data
// node n has nodes present, descending into present cases.
func Exclusive(n *datatree.Node) bool {
	return exclusive(n, n.Schema())
}

func exclusive(n *datatree.Node, s *schema.Node) bool {
	for _, c := range s.Children {
		if c.Kind != schema.ChoiceNode {
			continue
		}
		var active int
		for _, cs := range c.Children {
			if len(Present(n, cs)) == 0 {
				continue
			}
			active++
			if !exclusive(n, cs) {
				return false
			}
		}
		if active > 1 {
			return false
		}
	}
	if s.Kind == schema.CaseNode {
		return true
	}
	for _, ch := range n.Children() {
		if !ch.Schema().IsLeafy() && !exclusive(ch, ch.Schema()) {
			return false
		}
	}
	return true
}
