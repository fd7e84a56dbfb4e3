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

package edit

import (
	"github.com/openconfig/ystore/choice"
	"github.com/openconfig/ystore/datatree"
	"github.com/openconfig/ystore/rpcerr"
	"github.com/openconfig/ystore/schema"
	"github.com/openconfig/ystore/util"
	"golang.org/x/exp/slices"
)

// Options control how Apply treats a request.
type Options struct {
	DefaultOperation DefaultOperation
}

// Apply merges the request nodes config onto root, the root of a
// configuration tree, and returns the explicit removals it performed. root
// is modified in place even when errors are returned, so callers apply
// requests to a copy. The returned errors are the structural failures of
// the merge: unknown elements, missing keys, create of existing nodes,
// delete of absent nodes, duplicate leaf-list values and requests selecting
// two cases of one choice. Schema constraints are left to the validator.
func Apply(root *datatree.Node, config []*Node, opts Options) (Log, rpcerr.List) {
	m := &merger{}
	m.children(root, config, opts.DefaultOperation.Operation())
	return m.log, m.errs
}

type merger struct {
	log  Log
	errs rpcerr.List
}

// target is a request node resolved against the schema.
type target struct {
	req  *Node
	s    *schema.Node
	op   Operation
	keys []string
	path string
}

// children applies the request nodes reqs below the data node parent. The
// case exclusivity of the immediate children is checked before any of them
// is applied.
func (m *merger) children(parent *datatree.Node, reqs []*Node, inherited Operation) {
	var (
		targets []target
		elems   []choice.Element
		seen    = map[*schema.Node]map[string]bool{}
	)
	for _, r := range reqs {
		s := parent.Schema().Child(r.Name)
		if s == nil || (r.Namespace != "" && r.Namespace != s.Name.Namespace) || (parent.IsRoot() && !parent.InScope(s)) {
			m.errs = append(m.errs, rpcerr.UnknownElementError(parent.Path()+"/"+r.Name, r.Name))
			continue
		}
		t := target{req: r, s: s, op: r.Operation, path: parent.ChildPath(s)}
		if t.op == NotSet {
			t.op = inherited
		}

		switch s.Kind {
		case schema.ListNode:
			keys, ok := m.listKeys(parent, r, s)
			if !ok {
				continue
			}
			t.keys = keys
			t.path = parent.EntryPath(s, keys)
		case schema.LeafNode:
			if s.IsKeyLeaf() && parent.Schema() == s.Parent {
				// Key leaves identify the entry and were set when it was
				// created.
				continue
			}
		case schema.LeafListNode:
			if r.Value != nil && !t.op.Removes() {
				if seen[s] == nil {
					seen[s] = map[string]bool{}
				}
				if seen[s][*r.Value] {
					m.errs = append(m.errs, rpcerr.DuplicateElements(t.path, s.Name.Namespace, s.Name.Revision, s.Name.Local))
					continue
				}
				seen[s][*r.Value] = true
			}
		}
		targets = append(targets, t)
		elems = append(elems, choice.Element{Schema: s, Path: t.path, Removes: t.op.Removes()})
	}

	if errs := choice.CheckExclusive(elems); len(errs) != 0 {
		m.errs = append(m.errs, errs...)
		return
	}
	// Removals go first so that a case can be removed and its replacement
	// selected in either order within one request.
	slices.SortStableFunc(targets, func(a, b target) int {
		switch {
		case a.op.Removes() && !b.op.Removes():
			return -1
		case b.op.Removes() && !a.op.Removes():
			return 1
		}
		return 0
	})
	for _, t := range targets {
		switch t.s.Kind {
		case schema.LeafNode:
			m.leaf(parent, t)
		case schema.LeafListNode:
			m.leafList(parent, t)
		default:
			m.interior(parent, t)
		}
	}
}

// listKeys returns the key values of the list entry request r.
func (m *merger) listKeys(parent *datatree.Node, r *Node, s *schema.Node) ([]string, bool) {
	var keys []string
	for _, k := range s.Keys() {
		var found bool
		for _, c := range r.Children {
			if c.Name == k && c.Value != nil {
				keys = append(keys, *c.Value)
				found = true
				break
			}
		}
		if !found {
			m.errs = append(m.errs, rpcerr.MissingKey(parent.ChildPath(s), s.Name.Local, k))
			return nil, false
		}
	}
	return keys, true
}

func (m *merger) leaf(parent *datatree.Node, t target) {
	if len(t.req.Children) != 0 {
		m.errs = append(m.errs, rpcerr.Malformed(t.path, "leaf %s cannot have children", t.s.Name.Local))
		return
	}
	var v string
	if t.req.Value != nil {
		v = *t.req.Value
	}
	existing := parent.ChildFor(t.s)
	switch t.op {
	case Delete:
		if existing == nil {
			m.errs = append(m.errs, rpcerr.NotFound(t.path))
			return
		}
		m.remove(parent, existing, Delete)
	case Remove:
		if existing != nil {
			m.remove(parent, existing, Remove)
		}
	case NotSet:
		if existing == nil {
			m.errs = append(m.errs, rpcerr.NotFound(t.path))
		}
	case Create:
		if existing != nil && !existing.IsSystemDefault() {
			m.errs = append(m.errs, rpcerr.AlreadyExists(t.path))
			return
		}
		fallthrough
	default:
		choice.Select(parent, t.s)
		if existing == nil {
			if existing = m.newChild(parent, t.s, nil, t.path); existing == nil {
				return
			}
		}
		existing.SetValue(v, datatree.UserSet)
	}
}

func (m *merger) leafList(parent *datatree.Node, t target) {
	if len(t.req.Children) != 0 {
		m.errs = append(m.errs, rpcerr.Malformed(t.path, "leaf-list %s cannot have children", t.s.Name.Local))
		return
	}
	ll := parent.ChildFor(t.s)
	if t.req.Value == nil {
		// Without a value the operation applies to every value.
		switch t.op {
		case Delete:
			if ll == nil {
				m.errs = append(m.errs, rpcerr.NotFound(t.path))
				return
			}
			m.remove(parent, ll, Delete)
		case Remove:
			if ll != nil {
				m.remove(parent, ll, Remove)
			}
		default:
			m.errs = append(m.errs, rpcerr.Malformed(t.path, "leaf-list %s needs a value", t.s.Name.Local))
		}
		return
	}

	v := *t.req.Value
	switch t.op {
	case Delete, Remove:
		if ll == nil || !ll.HasValue(v) {
			if t.op == Delete {
				m.errs = append(m.errs, rpcerr.NotFound(t.path))
			}
			return
		}
		m.log = append(m.log, Change{Path: ll.Path(), Operation: t.op, Value: v})
		ll.RemoveValue(v)
		if len(ll.Values()) == 0 {
			parent.Remove(ll)
		}
	case NotSet:
		if ll == nil || !ll.HasValue(v) {
			m.errs = append(m.errs, rpcerr.NotFound(t.path))
		}
	case Create:
		if ll != nil && valueProvenance(ll, v) == datatree.UserSet {
			m.errs = append(m.errs, rpcerr.AlreadyExists(t.path))
			return
		}
		fallthrough
	default:
		choice.Select(parent, t.s)
		if ll == nil {
			if ll = m.newChild(parent, t.s, nil, t.path); ll == nil {
				return
			}
		}
		// Schema defaults apply only while the user has set no value.
		for _, dv := range append([]datatree.Value(nil), ll.Values()...) {
			if dv.Provenance == datatree.SystemDefault && dv.V != v {
				ll.RemoveValue(dv.V)
			}
		}
		if !ll.AddValue(v, datatree.UserSet) {
			ll.SetValueProvenance(v, datatree.UserSet)
		}
	}
}

// valueProvenance returns the provenance of leaf-list value v, or
// SystemDefault if v is not present.
func valueProvenance(ll *datatree.Node, v string) datatree.Provenance {
	for _, x := range ll.Values() {
		if x.V == v {
			return x.Provenance
		}
	}
	return datatree.SystemDefault
}

// interior applies a container or list entry request.
func (m *merger) interior(parent *datatree.Node, t target) {
	if t.req.Value != nil && *t.req.Value != "" {
		m.errs = append(m.errs, rpcerr.Malformed(t.path, "%s %s cannot have a value", t.s.Kind, t.s.Name.Local))
		return
	}
	var existing *datatree.Node
	if t.s.Kind == schema.ListNode {
		existing = parent.Entry(t.s, t.keys)
	} else {
		existing = parent.ChildFor(t.s)
	}

	switch t.op {
	case Delete:
		if existing == nil {
			m.errs = append(m.errs, rpcerr.NotFound(t.path))
			return
		}
		m.remove(parent, existing, Delete)
	case Remove:
		if existing != nil {
			m.remove(parent, existing, Remove)
		}
	case NotSet:
		if existing == nil {
			m.errs = append(m.errs, rpcerr.NotFound(t.path))
			return
		}
		m.children(existing, t.req.Children, NotSet)
	case Create:
		if existing != nil && !existing.IsSystemDefault() {
			m.errs = append(m.errs, rpcerr.AlreadyExists(t.path))
			return
		}
		fallthrough
	default:
		choice.Select(parent, t.s)
		switch {
		case existing == nil:
			if existing = m.newChild(parent, t.s, t.keys, t.path); existing == nil {
				return
			}
		case t.op == Replace:
			for _, c := range append([]*datatree.Node(nil), existing.Children()...) {
				if !c.Schema().IsKeyLeaf() {
					existing.Remove(c)
				}
			}
		}
		m.children(existing, t.req.Children, t.op)
	}
}

func (m *merger) newChild(parent *datatree.Node, s *schema.Node, keys []string, path string) *datatree.Node {
	n, err := parent.NewChild(s, keys)
	if err != nil {
		m.errs = append(m.errs, rpcerr.Malformed(path, "%v", err))
		return nil
	}
	return n
}

// remove detaches n from parent and logs the operation that removed it.
func (m *merger) remove(parent *datatree.Node, n *datatree.Node, op Operation) {
	util.DbgPrint("%s %s", op, n.Path())
	m.log = append(m.log, Change{Path: n.Path(), Operation: op})
	parent.Remove(n)
}
