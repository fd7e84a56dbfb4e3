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

package datatree

import (
	"github.com/openconfig/ystore/schema"
	"github.com/openconfig/ystore/xpath"
)

// Forest presents several roots, each holding different top-level nodes of
// the same schema, as a single document to the XPath evaluator. This lets
// when and must expressions reach across roots that are locked and edited
// independently.
type Forest struct {
	roots []*Node
}

// NewForest returns a Forest over roots. The roots must not hold instances
// of the same top-level schema node.
func NewForest(roots ...*Node) *Forest {
	return &Forest{roots: roots}
}

// Node returns the XPath view of n, which must belong to one of the roots
// of f.
func (f *Forest) Node(n *Node) xpath.Node {
	if n.parent == nil {
		return xnode{f: f, idx: -1}
	}
	return xnode{n: n, f: f, idx: -1}
}

// Instances returns the XPath views of n: one per value for a leaf-list,
// otherwise the single view of n.
func (f *Forest) Instances(n *Node) []xpath.Node {
	if n.schema.Kind != schema.LeafListNode {
		return []xpath.Node{f.Node(n)}
	}
	var out []xpath.Node
	for i := range n.values {
		out = append(out, xnode{n: n, f: f, idx: i})
	}
	return out
}

// Context returns the XPath context node for the data schema node s below
// parent: the first existing instance of s, or, when s has no instance, a
// stand-in with the name of s that has no children and no value. The
// stand-in gives expressions such as ../sibling on absent nodes (for
// instance the when of a default leaf) a context to start from.
func (f *Forest) Context(parent *Node, s *schema.Node) xpath.Node {
	if c := parent.ChildFor(s); c != nil {
		return f.Node(c)
	}
	return absent{name: s.Name.Local, ns: s.Name.Namespace, parent: f.Node(parent).(xnode)}
}

// xnode is the XPath view of a Node. A root is represented with a nil n and
// stands for every root of the forest. idx selects one value of a
// leaf-list.
type xnode struct {
	n   *Node
	f   *Forest
	idx int
}

func (x xnode) Name() string {
	if x.n == nil {
		return ""
	}
	return x.n.schema.Name.Local
}

func (x xnode) Namespace() string {
	if x.n == nil {
		return ""
	}
	return x.n.schema.Name.Namespace
}

func (x xnode) Parent() xpath.Node {
	if x.n == nil {
		return nil
	}
	return x.f.Node(x.n.parent)
}

func (x xnode) Children() []xpath.Node {
	if x.idx >= 0 {
		return nil
	}
	if x.n == nil {
		var out []xpath.Node
		for _, r := range x.f.roots {
			out = append(out, x.f.children(r)...)
		}
		return out
	}
	return x.f.children(x.n)
}

func (f *Forest) children(n *Node) []xpath.Node {
	var out []xpath.Node
	for _, c := range n.children {
		if c.schema.Kind == schema.LeafListNode {
			for i := range c.values {
				out = append(out, xnode{n: c, f: f, idx: i})
			}
			continue
		}
		out = append(out, xnode{n: c, f: f, idx: -1})
	}
	return out
}

func (x xnode) Value() (string, bool) {
	if x.n == nil {
		return "", false
	}
	if x.idx >= 0 {
		return x.n.values[x.idx].V, true
	}
	if x.n.schema.Kind == schema.LeafNode {
		return x.n.Value()
	}
	return "", false
}

// absent stands in for a data node that has no instance.
type absent struct {
	name   string
	ns     string
	parent xnode
}

func (a absent) Name() string           { return a.name }
func (a absent) Namespace() string      { return a.ns }
func (a absent) Parent() xpath.Node     { return a.parent }
func (a absent) Children() []xpath.Node { return nil }
func (a absent) Value() (string, bool)  { return "", false }
