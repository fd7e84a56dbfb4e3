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

package datastore

import (
	"context"
	"fmt"
	"strings"

	"github.com/derekparker/trie"
	"github.com/openconfig/ystore/datatree"
	"github.com/openconfig/ystore/schema"
	"golang.org/x/exp/slices"
)

// WithDefaults selects how get-config reports default values, after
// RFC 6243.
type WithDefaults int

const (
	// ReportAll reports every value, defaults included.
	ReportAll WithDefaults = iota
	// Trim omits every value equal to its schema default, whether it
	// was set by a client or from the schema.
	Trim
	// Explicit reports the values set by a client, including those equal
	// to their schema default, and omits the values set from the schema.
	Explicit
)

// String returns the RFC 6243 name of w.
func (w WithDefaults) String() string {
	switch w {
	case ReportAll:
		return "report-all"
	case Trim:
		return "trim"
	case Explicit:
		return "explicit"
	}
	return fmt.Sprintf("WithDefaults(%d)", int(w))
}

// ParseWithDefaults parses an RFC 6243 with-defaults mode.
func ParseWithDefaults(s string) (WithDefaults, error) {
	switch s {
	case "", "report-all":
		return ReportAll, nil
	case "trim":
		return Trim, nil
	case "explicit":
		return Explicit, nil
	}
	return ReportAll, fmt.Errorf("unknown with-defaults mode %q", s)
}

// GetOptions are the parameters of a get-config.
type GetOptions struct {
	// Filter selects subtrees by schema path, such as /c/list or
	// /t:c/t:list/t:leaf. Module prefixes are optional. An empty Filter
	// selects everything.
	Filter       []string
	WithDefaults WithDefaults
}

// GetConfig returns copies of the committed configuration trees holding
// data, in schema order, restricted to opts.Filter.
func (s *Store) GetConfig(ctx context.Context, opts GetOptions) ([]*datatree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	committed := s.snapshot()
	f := newFilter(opts.Filter)
	var out []*datatree.Node
	for _, k := range s.order {
		t := committed[k].Clone()
		if opts.WithDefaults != ReportAll {
			dropDefaults(t, opts.WithDefaults)
		}
		f.apply(t)
		if len(t.Children()) != 0 {
			out = append(out, t)
		}
	}
	return out, nil
}

// dropDefaults removes the values below n that mode w does not report:
// system defaults in both modes, and for Trim also client values equal to
// the schema default. Containers left empty are removed.
func dropDefaults(n *datatree.Node, w WithDefaults) {
	for _, c := range append([]*datatree.Node(nil), n.Children()...) {
		s := c.Schema()
		switch s.Kind {
		case schema.LeafNode:
			v, _ := c.Value()
			if c.Provenance() == datatree.SystemDefault || (w == Trim && s.HasDefault() && v == s.Default()[0]) {
				n.Remove(c)
			}
		case schema.LeafListNode:
			if w == Trim && s.HasDefault() && slices.Equal(c.ValueStrings(), s.Default()) {
				n.Remove(c)
				continue
			}
			for _, v := range append([]datatree.Value(nil), c.Values()...) {
				if v.Provenance == datatree.SystemDefault {
					c.RemoveValue(v.V)
				}
			}
			if c.IsEmpty() {
				n.Remove(c)
			}
		default:
			dropDefaults(c, w)
			if s.Kind == schema.ContainerNode && !s.Presence && c.IsEmpty() {
				n.Remove(c)
			}
		}
	}
}

// filter is a set of selected schema data paths.
type filter struct {
	t *trie.Trie
}

func newFilter(paths []string) *filter {
	if len(paths) == 0 {
		return &filter{}
	}
	t := trie.New()
	for _, p := range paths {
		t.Add(normalize(p), nil)
	}
	return &filter{t: t}
}

// normalize strips module prefixes and trailing slashes from the schema
// path p.
func normalize(p string) string {
	var b strings.Builder
	for _, e := range strings.Split(strings.Trim(p, "/"), "/") {
		if e == "" {
			continue
		}
		if i := strings.IndexByte(e, ':'); i >= 0 {
			e = e[i+1:]
		}
		b.WriteString("/")
		b.WriteString(e)
	}
	return b.String()
}

// selected reports whether the data path p is selected by f, and whether
// only part of it, below p, is.
func (f *filter) selected(p string) (all, part bool) {
	if _, ok := f.t.Find(p); ok {
		return true, false
	}
	return false, len(f.t.PrefixSearch(p+"/")) != 0
}

// apply removes the children of n that f does not select. Key leaves of
// kept list entries are kept.
func (f *filter) apply(n *datatree.Node) {
	if f.t == nil {
		return
	}
	for _, c := range append([]*datatree.Node(nil), n.Children()...) {
		if c.Schema().IsKeyLeaf() && n.Schema().Kind == schema.ListNode {
			continue
		}
		all, part := f.selected(c.Schema().DataPath())
		switch {
		case all:
		case part:
			f.apply(c)
		default:
			n.Remove(c)
		}
	}
}
