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

package notify

import (
	"github.com/openconfig/ystore/datatree"
	"github.com/openconfig/ystore/edit"
	"github.com/openconfig/ystore/schema"
	"github.com/openconfig/ystore/util"
)

// Diff returns the changes that turn the tree pre into post, two trees of
// the same schema and scope. Within each node the removals come first, in
// the order of pre, followed by the creations and value changes in the
// order of post. log classifies removals: a node the edit removed with the
// remove operation is reported as Remove, any other removal, whether an
// explicit delete, a case switch or a dropped default, as Delete.
//
// System defaults are reported like user values, so a subsystem sees the
// configuration in effect. A value that only changes provenance is not a
// change.
func Diff(pre, post *datatree.Node, log edit.Log) []ChangeRecord {
	d := &differ{log: log}
	d.interior(pre, post)
	util.DbgPrint("%d changes", len(d.records))
	return d.records
}

type differ struct {
	log     edit.Log
	records []ChangeRecord
}

// counterpart returns the instance of c's schema node and keys below n.
func counterpart(n, c *datatree.Node) *datatree.Node {
	if c.Schema().Kind == schema.ListNode {
		return n.Entry(c.Schema(), c.Keys())
	}
	return n.ChildFor(c.Schema())
}

func (d *differ) interior(pre, post *datatree.Node) {
	for _, c := range pre.Children() {
		if counterpart(post, c) == nil {
			d.removed(c)
		}
	}
	for _, c := range post.Children() {
		pc := counterpart(pre, c)
		switch {
		case pc == nil:
			d.created(c)
		case c.Schema().Kind == schema.LeafNode:
			ov, _ := pc.Value()
			if nv, _ := c.Value(); nv != ov {
				d.add(c.Path(), Merge, c.Parent(), leafData(c, nv))
			}
		case c.Schema().Kind == schema.LeafListNode:
			d.leafList(pc, c)
		default:
			d.interior(pc, c)
		}
	}
}

func (d *differ) leafList(pre, post *datatree.Node) {
	for _, v := range pre.ValueStrings() {
		if !post.HasValue(v) {
			d.add(pre.Path(), d.removal(pre.Path(), v), pre.Parent(), leafData(pre, v))
		}
	}
	for _, v := range post.ValueStrings() {
		if !pre.HasValue(v) {
			d.add(post.Path(), Create, post.Parent(), leafData(post, v))
		}
	}
}

func (d *differ) created(c *datatree.Node) {
	switch c.Schema().Kind {
	case schema.LeafNode:
		v, _ := c.Value()
		d.add(c.Path(), Create, c.Parent(), leafData(c, v))
	case schema.LeafListNode:
		for _, v := range c.ValueStrings() {
			d.add(c.Path(), Create, c.Parent(), leafData(c, v))
		}
	default:
		t := subtree(c)
		t.Target = true
		d.add(c.Path(), Create, c.Parent(), t)
	}
}

func (d *differ) removed(c *datatree.Node) {
	switch c.Schema().Kind {
	case schema.LeafNode:
		v, _ := c.Value()
		d.add(c.Path(), d.removal(c.Path(), ""), c.Parent(), leafData(c, v))
	case schema.LeafListNode:
		for _, v := range c.ValueStrings() {
			d.add(c.Path(), d.removal(c.Path(), v), c.Parent(), leafData(c, v))
		}
	default:
		t := containment(c)
		t.Target = true
		d.add(c.Path(), d.removal(c.Path(), ""), c.Parent(), t)
	}
}

// removal classifies the removal of the node at path, or of the leaf-list
// value v at path.
func (d *differ) removal(path, v string) ChangeType {
	if op, ok := d.log.Operation(path, v); ok && op == edit.Remove {
		return Remove
	}
	return Delete
}

// add records a change of type t to the child target of parent, wrapping
// target in the containment chain of parent.
func (d *differ) add(id string, t ChangeType, parent *datatree.Node, target *Data) {
	for p := parent; p != nil && !p.IsRoot(); p = p.Parent() {
		c := containment(p)
		c.Children = append(c.Children, target)
		target = c
	}
	d.records = append(d.records, ChangeRecord{ModelNodeID: id, Type: t, Data: target})
}

func leafData(n *datatree.Node, v string) *Data {
	return &Data{Kind: Change, Name: n.Schema().Name, Value: v, LeafList: n.Schema().Kind == schema.LeafListNode, Target: true}
}

// containment returns the Containment node for the container or list entry
// n, with a Match child per key.
func containment(n *datatree.Node) *Data {
	c := &Data{Kind: Containment, Name: n.Schema().Name}
	s := n.Schema()
	for i, k := range n.Keys() {
		kl := s.Child(s.Keys()[i])
		c.Children = append(c.Children, &Data{Kind: Match, Name: kl.Name, Value: k})
	}
	return c
}

// subtree returns the data tree of the container or list entry n and
// everything below it.
func subtree(n *datatree.Node) *Data {
	t := containment(n)
	for _, c := range n.Children() {
		switch c.Schema().Kind {
		case schema.LeafNode:
			if c.Schema().IsKeyLeaf() && n.Schema().Kind == schema.ListNode {
				continue
			}
			v, _ := c.Value()
			t.Children = append(t.Children, &Data{Kind: Change, Name: c.Schema().Name, Value: v})
		case schema.LeafListNode:
			for _, v := range c.ValueStrings() {
				t.Children = append(t.Children, &Data{Kind: Change, Name: c.Schema().Name, Value: v, LeafList: true})
			}
		default:
			t.Children = append(t.Children, subtree(c))
		}
	}
	return t
}
