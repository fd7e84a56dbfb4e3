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

// Package xpath compiles and evaluates the XPath 1.0 expressions of YANG
// when and must statements with goxpath. Expressions are compiled once,
// when the schema is built, and evaluated against any tree that implements
// Node.
//
// Each evaluation takes a snapshot of the tree holding the context node as
// an XML document, one element per data node. Names resolve against the
// namespaces given to Compile, and current() is bound to the context node.
package xpath

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/ChrisTrenkamp/goxpath"
	"github.com/ChrisTrenkamp/goxpath/tree"
	"github.com/ChrisTrenkamp/goxpath/tree/xmltree/xmlele"
	"github.com/ChrisTrenkamp/goxpath/tree/xmltree/xmlnode"
)

// Node is a data tree node as seen by the evaluator. Implementations must be
// comparable, since they key the snapshot of the tree.
type Node interface {
	// Name returns the local name of the node. The root returns "".
	Name() string
	// Namespace returns the namespace of the node. The root returns "".
	Namespace() string
	// Parent returns the parent node, or nil for the root.
	Parent() Node
	// Children returns the child nodes in document order. A leaf-list
	// contributes one child per value.
	Children() []Node
	// Value returns the value of a leaf or leaf-list entry, and whether the
	// node carries a value at all.
	Value() (string, bool)
}

// Expr is a compiled expression.
type Expr struct {
	src  string
	ns   map[string]string
	exec goxpath.XPathExec
}

// Compile parses s into an Expr. namespaces maps the prefixes s may use onto
// namespaces. Its "" entry is the namespace of unprefixed names, normally
// the namespace of the module that defines the expression.
func Compile(s string, namespaces map[string]string) (x *Expr, err error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("invalid xpath %q: empty expression", s)
	}
	defer func() {
		if r := recover(); r != nil {
			x, err = nil, fmt.Errorf("invalid xpath %q: %v", s, r)
		}
	}()
	exec, err := goxpath.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %v", s, err)
	}
	ns := map[string]string{}
	for p, n := range namespaces {
		ns[p] = n
	}
	return &Expr{src: s, ns: ns, exec: exec}, nil
}

// MustCompile is like Compile but panics if s does not parse.
func MustCompile(s string, namespaces map[string]string) *Expr {
	e, err := Compile(s, namespaces)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the source text of the expression.
func (e *Expr) String() string {
	return e.src
}

// Evaluate evaluates e with ctx as the context node, returning a []Node,
// string, float64 or bool.
func (e *Expr) Evaluate(ctx Node) (interface{}, error) {
	d, res, err := e.run(ctx)
	if err != nil {
		return nil, err
	}
	switch r := res.(type) {
	case tree.NodeSet:
		return d.toNodes(r), nil
	case tree.Num:
		return float64(r), nil
	case tree.String:
		return string(r), nil
	case tree.Bool:
		return bool(r), nil
	}
	return nil, fmt.Errorf("evaluating %q: unexpected result type %T", e.src, res)
}

// EvaluateBool evaluates e with ctx as the context node and converts the
// result to a boolean.
func (e *Expr) EvaluateBool(ctx Node) (bool, error) {
	_, res, err := e.run(ctx)
	if err != nil {
		return false, err
	}
	b, ok := res.(tree.IsBool)
	if !ok {
		return false, fmt.Errorf("evaluating %q: %T has no boolean value", e.src, res)
	}
	return bool(b.Bool()), nil
}

func (e *Expr) run(ctx Node) (d *document, res tree.Result, err error) {
	d = newDocument(ctx)
	cur := d.elem(ctx)
	current := func(tree.Ctx, ...tree.Result) (tree.Result, error) {
		return tree.NodeSet{cur}, nil
	}
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("evaluating %q: %v", e.src, r)
		}
	}()
	res, err = e.exec.Exec(cur, func(o *goxpath.Opts) {
		o.NS = e.ns
		o.Funcs[xml.Name{Local: "current"}] = tree.Wrap{Fn: current}
	})
	if err != nil {
		return nil, nil, fmt.Errorf("evaluating %q: %v", e.src, err)
	}
	return d, res, nil
}

// document is the XML snapshot of the tree a context node belongs to.
// Elements are numbered in document order.
type document struct {
	elems map[Node]*xmlele.XMLEle
	nodes map[*xmlele.XMLEle]Node
	pos   int
}

func newDocument(ctx Node) *document {
	top := ctx
	for p := top.Parent(); p != nil; p = p.Parent() {
		top = p
	}
	d := &document{
		elems: map[Node]*xmlele.XMLEle{},
		nodes: map[*xmlele.XMLEle]Node{},
	}
	root := &xmlele.XMLEle{NodeType: tree.NtRoot}
	d.elems[top] = root
	d.nodes[root] = top
	d.fill(root, top)
	return d
}

func (d *document) fill(e *xmlele.XMLEle, n Node) {
	for _, c := range n.Children() {
		ce := d.newElem(c, e)
		e.Children = append(e.Children, ce)
		d.fill(ce, c)
	}
}

func (d *document) newElem(n Node, parent *xmlele.XMLEle) *xmlele.XMLEle {
	d.pos++
	e := &xmlele.XMLEle{
		StartElement: xml.StartElement{Name: xml.Name{Space: n.Namespace(), Local: n.Name()}},
		Parent:       parent,
		NodePos:      tree.NodePos(d.pos),
		NodeType:     tree.NtElem,
	}
	if v, ok := n.Value(); ok {
		d.pos++
		e.Children = append(e.Children, xmlnode.XMLNode{
			Token:    xml.CharData(v),
			NodePos:  tree.NodePos(d.pos),
			NodeType: tree.NtChd,
			Parent:   e,
		})
	}
	d.elems[n] = e
	d.nodes[e] = n
	return e
}

// elem returns the element of n. A node that is not among the children of
// its parent, such as a stand-in for a node with no instance, gets an
// element that points at its parent without being one of its children.
func (d *document) elem(n Node) *xmlele.XMLEle {
	if e, ok := d.elems[n]; ok {
		return e
	}
	return d.newElem(n, d.elem(n.Parent()))
}

// toNodes maps a node-set back onto the tree. Text nodes are reported
// through their element.
func (d *document) toNodes(ns tree.NodeSet) []Node {
	out := []Node{}
	for _, n := range ns {
		e, ok := n.(*xmlele.XMLEle)
		if !ok {
			e, ok = n.GetParent().(*xmlele.XMLEle)
		}
		if !ok {
			continue
		}
		if x, ok := d.nodes[e]; ok {
			out = append(out, x)
		}
	}
	return out
}
