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

// Package yvalidate validates configuration trees against their schema. It
// runs in two phases. The first materializes schema defaults: default
// leaves and leaf-lists, the default case of choices with no case present,
// and the non-presence containers holding them; system defaults whose when
// condition turned false are dropped. The second checks the tree in schema
// pre-order and collects one rpc-error per violation of a when, mandatory,
// min-elements, max-elements or must constraint.
package yvalidate

import (
	log "github.com/golang/glog"
	"github.com/openconfig/ystore/choice"
	"github.com/openconfig/ystore/datatree"
	"github.com/openconfig/ystore/rpcerr"
	"github.com/openconfig/ystore/schema"
	"github.com/openconfig/ystore/util"
	"github.com/openconfig/ystore/xpath"
)

// maxPasses bounds the materialization phase. Defaults whose when
// conditions depend on each other could otherwise flip forever.
const maxPasses = 16

// Validate materializes defaults in root and checks every constraint on the
// result, returning the violations in schema pre-order. forest is the
// document when and must expressions are evaluated in; it must include
// root. A nil forest evaluates against root alone.
func Validate(root *datatree.Node, forest *datatree.Forest) rpcerr.List {
	v := newValidator(root, forest)
	v.materialize(root)
	v.check(root, root.Scope(), false)
	return v.errs
}

// Materialize runs only the default materialization phase on root.
func Materialize(root *datatree.Node, forest *datatree.Forest) {
	newValidator(root, forest).materialize(root)
}

// Check runs only the constraint checks on root, which must already hold
// its defaults.
func Check(root *datatree.Node, forest *datatree.Forest) rpcerr.List {
	v := newValidator(root, forest)
	v.check(root, root.Scope(), false)
	return v.errs
}

type validator struct {
	f       *datatree.Forest
	errs    rpcerr.List
	changed bool
}

func newValidator(root *datatree.Node, forest *datatree.Forest) *validator {
	if forest == nil {
		forest = datatree.NewForest(root)
	}
	return &validator{f: forest}
}

// when evaluates the when condition of s for the data node n, the parent
// of s's instances. The context is the instance of a data node, or a
// stand-in when there is none, and n itself for a choice or case.
func (v *validator) when(n *datatree.Node, s *schema.Node) bool {
	ctx := v.f.Node(n)
	if s.IsDataNode() {
		ctx = v.f.Context(n, s)
	}
	return v.eval(s, ctx)
}

func (v *validator) eval(s *schema.Node, ctx xpath.Node) bool {
	e := s.WhenExpr()
	if e == nil {
		return true
	}
	ok, err := e.EvaluateBool(ctx)
	if err != nil {
		log.Warningf("cannot evaluate when %q of %s: %v", s.When, s.Path(), err)
		return false
	}
	return ok
}

func (v *validator) materialize(root *datatree.Node) {
	for i := 0; i < maxPasses; i++ {
		v.changed = false
		v.fill(root, root.Scope())
		if !v.changed {
			return
		}
		util.DbgPrint("materialization pass %d changed the tree", i)
	}
	log.Warningf("defaults of %s did not settle after %d passes", root.Schema().Name.Namespace, maxPasses)
}

// fill materializes defaults for the schema children cs of the data node n.
func (v *validator) fill(n *datatree.Node, cs []*schema.Node) {
	for _, s := range cs {
		switch s.Kind {
		case schema.ChoiceNode:
			v.fillChoice(n, s)
		case schema.LeafNode, schema.LeafListNode:
			v.fillLeafy(n, s)
		case schema.ContainerNode:
			v.fillContainer(n, s)
		case schema.ListNode:
			for _, e := range n.Entries(s) {
				v.fill(e, s.Children)
			}
		}
	}
}

func (v *validator) fillLeafy(n *datatree.Node, s *schema.Node) {
	c := n.ChildFor(s)
	ok := v.when(n, s)
	if c != nil {
		if !ok && c.IsSystemDefault() {
			util.DbgPrint("dropping default %s, when %q is false", c.Path(), s.When)
			n.Remove(c)
			v.changed = true
		}
		return
	}
	if !ok || !s.HasDefault() {
		return
	}
	c, err := n.NewChild(s, nil)
	if err != nil {
		log.Errorf("cannot materialize %s: %v", s.Path(), err)
		return
	}
	if s.Kind == schema.LeafNode {
		c.SetValue(s.Default()[0], datatree.SystemDefault)
	} else {
		for _, d := range s.Default() {
			c.AddValue(d, datatree.SystemDefault)
		}
	}
	v.changed = true
}

func (v *validator) fillContainer(n *datatree.Node, s *schema.Node) {
	c := n.ChildFor(s)
	ok := v.when(n, s)
	if c == nil {
		if s.Presence || !ok {
			return
		}
		// Materialize into a new container and keep it only if it ends up
		// holding something.
		tmp, err := n.NewChild(s, nil)
		if err != nil {
			log.Errorf("cannot materialize %s: %v", s.Path(), err)
			return
		}
		changed := v.changed
		v.fill(tmp, s.Children)
		if tmp.IsEmpty() {
			n.Remove(tmp)
			v.changed = changed
		}
		return
	}
	if !ok {
		if c.IsSystemDefault() {
			n.Remove(c)
			v.changed = true
		}
		return
	}
	v.fill(c, s.Children)
	if !s.Presence && c.IsEmpty() {
		n.Remove(c)
		v.changed = true
	}
}

func (v *validator) fillChoice(n *datatree.Node, ch *schema.Node) {
	if !v.when(n, ch) {
		for _, cs := range ch.Children {
			v.dropDefaults(n, cs)
		}
		return
	}
	active := choice.ActiveCase(n, ch)
	if active == nil {
		def := ch.DefaultCaseNode()
		if def == nil || !v.when(n, def) {
			return
		}
		v.fill(n, def.Children)
		return
	}
	if !v.when(n, active) {
		v.dropDefaults(n, active)
		return
	}
	v.fill(n, active.Children)
}

// dropDefaults removes the system default nodes of case cs below n.
func (v *validator) dropDefaults(n *datatree.Node, cs *schema.Node) {
	for _, c := range choice.Present(n, cs) {
		if c.IsSystemDefault() {
			n.Remove(c)
			v.changed = true
		}
	}
}
