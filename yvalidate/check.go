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

package yvalidate

import (
	log "github.com/golang/glog"
	"github.com/openconfig/ystore/choice"
	"github.com/openconfig/ystore/datatree"
	"github.com/openconfig/ystore/rpcerr"
	"github.com/openconfig/ystore/schema"
)

// check checks the schema children cs of the data node n. implicit is set
// inside a default case that is active only because no other case is, where
// mandatory nodes are not enforced.
func (v *validator) check(n *datatree.Node, cs []*schema.Node, implicit bool) {
	for _, s := range cs {
		switch s.Kind {
		case schema.ChoiceNode:
			v.checkChoice(n, s, implicit)
		case schema.LeafNode:
			v.checkLeaf(n, s, implicit)
		case schema.LeafListNode:
			v.checkLeafList(n, s, implicit)
		case schema.ContainerNode:
			v.checkContainer(n, s, implicit)
		case schema.ListNode:
			v.checkList(n, s, implicit)
		}
	}
}

// whenUser reports whether the when condition of s holds for its present
// instance c. A user instance with a false condition is an error.
func (v *validator) whenUser(c *datatree.Node, s *schema.Node) bool {
	ctx := v.f.Node(c)
	if xs := v.f.Instances(c); len(xs) != 0 {
		ctx = xs[0]
	}
	if v.eval(s, ctx) {
		return true
	}
	if !c.IsSystemDefault() {
		v.errs = append(v.errs, rpcerr.WhenViolation(c.Path(), s.Name.Local, s.When))
	}
	return false
}

func (v *validator) checkLeaf(n *datatree.Node, s *schema.Node, implicit bool) {
	c := n.ChildFor(s)
	if c == nil {
		if s.Mandatory() && !implicit && v.when(n, s) {
			v.errs = append(v.errs, rpcerr.MissingMandatory(n.ChildPath(s), s.Name.Local))
		}
		return
	}
	if v.whenUser(c, s) {
		v.checkMust(c)
	}
}

func (v *validator) checkLeafList(n *datatree.Node, s *schema.Node, implicit bool) {
	c := n.ChildFor(s)
	var count uint64
	if c != nil {
		if !v.whenUser(c, s) {
			return
		}
		count = uint64(len(c.Values()))
	} else if !v.when(n, s) {
		return
	}
	v.checkCount(n, s, count, implicit)
	if c != nil {
		v.checkMust(c)
	}
}

func (v *validator) checkContainer(n *datatree.Node, s *schema.Node, implicit bool) {
	c := n.ChildFor(s)
	if c == nil {
		if s.Presence || !v.when(n, s) {
			return
		}
		// Constraints below an absent non-presence container still apply,
		// so check a temporary empty one.
		tmp, err := n.NewChild(s, nil)
		if err != nil {
			log.Errorf("cannot check %s: %v", s.Path(), err)
			return
		}
		v.check(tmp, s.Children, implicit)
		n.Remove(tmp)
		return
	}
	if !v.whenUser(c, s) {
		return
	}
	v.checkMust(c)
	v.check(c, s.Children, implicit)
}

func (v *validator) checkList(n *datatree.Node, s *schema.Node, implicit bool) {
	entries := n.Entries(s)
	if len(entries) == 0 && !v.when(n, s) {
		return
	}
	v.checkCount(n, s, uint64(len(entries)), implicit)
	for _, e := range entries {
		if !v.whenUser(e, s) {
			continue
		}
		v.checkMust(e)
		v.check(e, s.Children, false)
	}
}

// checkCount checks the number of instances of the list or leaf-list s.
func (v *validator) checkCount(n *datatree.Node, s *schema.Node, count uint64, implicit bool) {
	if count < s.MinElements() && !implicit {
		v.errs = append(v.errs, rpcerr.MinElements(n.ChildPath(s), s.Name.Local, s.MinElements()))
	}
	if s.MaxElements() != 0 && count > s.MaxElements() {
		v.errs = append(v.errs, rpcerr.MaxElements(n.ChildPath(s), s.Name.Local, s.MaxElements()))
	}
}

func (v *validator) checkChoice(n *datatree.Node, ch *schema.Node, implicit bool) {
	if !v.when(n, ch) {
		for _, cs := range ch.Children {
			v.userWhenViolations(n, cs, ch.When)
		}
		return
	}
	st, active := choice.StateOf(n, ch)
	if active == nil {
		if ch.Mandatory() && !implicit {
			v.errs = append(v.errs, missingChoice(n, ch))
		}
		return
	}
	if !v.when(n, active) {
		v.userWhenViolations(n, active, active.When)
		return
	}
	v.check(n, active.Children, implicit || st == choice.DefaultCaseActive)
}

// missingChoice returns the error for an absent mandatory choice. The
// message depends on where the choice is declared.
func missingChoice(n *datatree.Node, ch *schema.Node) *rpcerr.Error {
	path := n.ChildPath(ch)
	switch {
	case ch.Parent.IsRoot():
		return rpcerr.MissingMandatoryChoice(path, ch.Name.Local, true)
	case ch.Parent.Kind == schema.CaseNode:
		return rpcerr.MissingMandatoryChoice(path, ch.Name.Local, false)
	}
	return rpcerr.MissingMandatory(path, ch.Name.Local)
}

// userWhenViolations reports every user node of case cs below n, whose
// enclosing when expr is false.
func (v *validator) userWhenViolations(n *datatree.Node, cs *schema.Node, expr string) {
	for _, c := range choice.Present(n, cs) {
		if !c.IsSystemDefault() {
			v.errs = append(v.errs, rpcerr.WhenViolation(c.Path(), c.Name(), expr))
		}
	}
}

// checkMust evaluates the must expressions of c. For a leaf-list each value
// is a separate context; one failing value fails the expression.
func (v *validator) checkMust(c *datatree.Node) {
	for _, m := range c.Schema().Must {
		e := m.Compiled()
		if e == nil {
			continue
		}
		for _, x := range v.f.Instances(c) {
			ok, err := e.EvaluateBool(x)
			if err != nil {
				log.Warningf("cannot evaluate must %q of %s: %v", m.Expr, c.Path(), err)
			}
			if !ok {
				v.errs = append(v.errs, rpcerr.MustViolation(c.Path(), m.Expr, m.ErrorMessage))
				break
			}
		}
	}
}
