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

// Package yangschema builds the compiled schema used by the datastore from
// YANG modules, using goyang to parse and resolve them. Only configuration
// data nodes are kept: state data, RPCs, notifications and anydata are
// dropped.
package yangschema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	log "github.com/golang/glog"
	"github.com/openconfig/goyang/pkg/yang"
	"github.com/openconfig/ystore/schema"
	"github.com/openconfig/ystore/util"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// LoadFiles reads the YANG files named by yangFiles, searching includePaths
// for imported and included modules, and returns the compiled schema of
// every module they define.
func LoadFiles(yangFiles, includePaths []string) (*schema.Node, error) {
	ms := yang.NewModules()
	ms.AddPath(includePaths...)
	var errs util.Errors
	for _, name := range yangFiles {
		errs = util.AppendErr(errs, ms.Read(name))
	}
	if errs != nil {
		return nil, errs
	}
	return process(ms)
}

// LoadSources parses the YANG module texts in sources, keyed by a name
// used in error locations, and returns the compiled schema of every module
// they define.
func LoadSources(sources map[string]string) (*schema.Node, error) {
	ms := yang.NewModules()
	names := maps.Keys(sources)
	slices.Sort(names)
	var errs util.Errors
	for _, name := range names {
		errs = util.AppendErr(errs, ms.Parse(sources[name], name))
	}
	if errs != nil {
		return nil, errs
	}
	return process(ms)
}

func process(ms *yang.Modules) (*schema.Node, error) {
	if errs := ms.Process(); len(errs) != 0 {
		// goyang reports an error once per path that reaches it.
		return nil, util.UniqueErrors(util.Errors(errs))
	}

	// ms.Modules holds each module under both its name and name@revision.
	c := &converter{byNS: map[string]*yang.Module{}}
	var mods []*yang.Module
	seen := map[string]bool{}
	for _, m := range ms.Modules {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		mods = append(mods, m)
		if m.Namespace != nil {
			c.byNS[m.Namespace.Name] = m
		}
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })

	var roots []*schema.Node
	for _, m := range mods {
		r, err := c.module(yang.ToEntry(m))
		if err != nil {
			return nil, err
		}
		if r != nil {
			roots = append(roots, r)
		}
	}
	if c.errs != nil {
		return nil, c.errs
	}
	switch len(roots) {
	case 0:
		return nil, fmt.Errorf("no configuration data nodes in %d modules", len(mods))
	case 1:
		return roots[0], nil
	}
	return schema.MergeRoots(roots...)
}

// FromEntries converts module entries that goyang has already processed.
func FromEntries(modules ...*yang.Entry) (*schema.Node, error) {
	c := &converter{byNS: map[string]*yang.Module{}}
	for _, e := range modules {
		if m, ok := e.Node.(*yang.Module); ok && m.Namespace != nil {
			c.byNS[m.Namespace.Name] = m
		}
	}
	var roots []*schema.Node
	for _, e := range modules {
		r, err := c.module(e)
		if err != nil {
			return nil, err
		}
		if r != nil {
			roots = append(roots, r)
		}
	}
	if c.errs != nil {
		return nil, c.errs
	}
	if len(roots) == 1 {
		return roots[0], nil
	}
	return schema.MergeRoots(roots...)
}

type converter struct {
	// byNS maps a namespace to the module that declares it, to find the
	// prefix and revision of nodes added by augments and groupings.
	byNS map[string]*yang.Module
	errs util.Errors
}

// module returns the compiled root for the module entry e, or nil if the
// module has no configuration data nodes.
func (c *converter) module(e *yang.Entry) (*schema.Node, error) {
	if e == nil {
		return nil, fmt.Errorf("nil module entry")
	}
	util.DbgPrint("converting module %s", e.Name)
	var kids []*schema.Node
	for _, ch := range orderedChildren(e) {
		if n := c.convert(ch); n != nil {
			kids = append(kids, n)
		}
	}
	if len(kids) == 0 {
		log.V(1).Infof("module %s has no configuration data nodes", e.Name)
		return nil, nil
	}
	ns := c.qname(e)
	root, err := schema.NewRoot(schema.Module{
		Name:      e.Name,
		Namespace: ns.Namespace,
		Prefix:    ns.Prefix,
		Revision:  ns.Revision,
	}, kids...)
	if errs, ok := err.(util.Errors); ok {
		return nil, util.PrefixErrors(errs, "module "+e.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("module %s: %v", e.Name, err)
	}
	return root, nil
}

// convert returns the schema node for e and its subtree, or nil if e is not
// configuration data.
func (c *converter) convert(e *yang.Entry) *schema.Node {
	if e.RPC != nil || e.ReadOnly() {
		return nil
	}
	// Defaults and the mandatory flag of a choice are normalized onto the
	// entry, which the schema node reads them from.
	n := &schema.Node{Entry: e, Name: c.qname(e)}
	switch {
	case e.IsChoice():
		if ch, ok := e.Node.(*yang.Choice); ok {
			if ch.Default != nil {
				n.DefaultCase = ch.Default.Name
			}
			if isTrue(ch.Mandatory) {
				e.Mandatory = yang.TSTrue
			}
		}
	case e.IsCase(), e.IsList():
	case e.IsContainer():
		if e.Kind != yang.DirectoryEntry {
			return nil
		}
		if ct, ok := e.Node.(*yang.Container); ok {
			n.Presence = ct.Presence != nil
		}
	case e.IsLeafList(), e.IsLeaf():
		e.Default = e.DefaultValues()
	default:
		log.V(2).Infof("skipping %s: unsupported entry kind %v", e.Path(), e.Kind)
		return nil
	}

	if w, ok := e.GetWhenXPath(); ok {
		n.When = w
	}
	for _, m := range mustStatements(e.Node) {
		sm := &schema.Must{Expr: m.Name}
		if m.ErrorMessage != nil {
			sm.ErrorMessage = m.ErrorMessage.Name
		}
		n.Must = append(n.Must, sm)
	}

	for _, ch := range orderedChildren(e) {
		if cn := c.convert(ch); cn != nil {
			n.Children = append(n.Children, cn)
		}
	}
	if (e.IsChoice() || e.IsCase()) && len(n.Children) == 0 {
		return nil
	}
	return n
}

// qname returns the qualified name of e. The namespace is the one e is
// mounted in, which for augmented nodes is the augmenting module's.
func (c *converter) qname(e *yang.Entry) schema.QName {
	q := schema.QName{Local: e.Name}
	if ns := e.Namespace(); ns != nil {
		q.Namespace = ns.Name
	}
	m := c.byNS[q.Namespace]
	if m == nil && e.Node != nil {
		m = yang.RootNode(e.Node)
		if m != nil && m.Namespace != nil && q.Namespace == "" {
			q.Namespace = m.Namespace.Name
		}
	}
	if m != nil {
		if m.Prefix != nil {
			q.Prefix = m.Prefix.Name
		} else if m.BelongsTo != nil && m.BelongsTo.Prefix != nil {
			q.Prefix = m.BelongsTo.Prefix.Name
		}
		q.Revision = latestRevision(m)
	}
	return q
}

// latestRevision returns the most recent revision date of m, or "".
func latestRevision(m *yang.Module) string {
	var rev string
	for _, r := range m.Revision {
		if r.Name > rev {
			rev = r.Name
		}
	}
	return rev
}

func isTrue(v *yang.Value) bool {
	return v != nil && v.Name == "true"
}

func mustStatements(n yang.Node) []*yang.Must {
	switch n := n.(type) {
	case *yang.Container:
		return n.Must
	case *yang.List:
		return n.Must
	case *yang.Leaf:
		return n.Must
	case *yang.LeafList:
		return n.Must
	}
	return nil
}

// orderedChildren returns the children of e in the order their statements
// appear in the YANG source. Nodes from other files, such as augments,
// follow in file name order.
func orderedChildren(e *yang.Entry) []*yang.Entry {
	kids := maps.Values(e.Dir)
	sort.Slice(kids, func(i, j int) bool {
		li, lj := location(kids[i]), location(kids[j])
		if li.file != lj.file {
			return li.file < lj.file
		}
		if li.line != lj.line {
			return li.line < lj.line
		}
		if li.col != lj.col {
			return li.col < lj.col
		}
		return kids[i].Name < kids[j].Name
	})
	return kids
}

type srcLoc struct {
	file      string
	line, col int
}

// location parses the file:line:col location of the statement defining e.
func location(e *yang.Entry) srcLoc {
	if e.Node == nil || e.Node.Statement() == nil {
		return srcLoc{}
	}
	parts := strings.Split(e.Node.Statement().Location(), ":")
	if len(parts) < 3 {
		return srcLoc{file: strings.Join(parts, ":")}
	}
	l := srcLoc{file: strings.Join(parts[:len(parts)-2], ":")}
	l.line, _ = strconv.Atoi(parts[len(parts)-2])
	l.col, _ = strconv.Atoi(parts[len(parts)-1])
	return l
}
