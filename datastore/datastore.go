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

// Package datastore implements a configuration datastore over a compiled
// schema. The configuration is held as one tree per top-level schema node,
// each with its own lock. An edit-config locks the trees it touches and
// every tree carrying when or must expressions, since those may read any
// other tree. It merges and validates on copies and swaps the copies in
// when they are valid, so committed trees are never modified and can be
// read without locking them.
package datastore

import (
	"context"
	"fmt"
	"sync"

	"github.com/openconfig/ystore/datatree"
	"github.com/openconfig/ystore/edit"
	"github.com/openconfig/ystore/notify"
	"github.com/openconfig/ystore/rpcerr"
	"github.com/openconfig/ystore/schema"
	"github.com/openconfig/ystore/yvalidate"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	log "github.com/golang/glog"
)

// Options configure a Store.
type Options struct {
	// Registerer, if set, is given a collector exporting the edit and
	// error counters of the store.
	Registerer prometheus.Registerer
}

// EditOptions are the parameters of an edit-config.
type EditOptions struct {
	// DefaultOperation applies to request nodes without an operation.
	DefaultOperation edit.DefaultOperation
	// TestOnly validates the edit and reports its errors without
	// committing it.
	TestOnly bool
}

// EditRequest is an edit-config request.
type EditRequest struct {
	Config  []*edit.Node
	Options EditOptions
}

// EditResult is the outcome of an edit-config.
type EditResult struct {
	// OK is set when the edit was valid, and committed unless TestOnly
	// was requested.
	OK bool
	// Errors lists every error found. The configuration is unchanged when
	// it is non-empty.
	Errors rpcerr.List
	// Changes are the changes the commit made, as delivered to the
	// registered subsystems.
	Changes []notify.ChangeRecord
}

// Store is a configuration datastore. It is safe for concurrent use.
type Store struct {
	schema *schema.Node
	// order lists the root keys in schema order.
	order []string
	roots map[string]*root

	// mu guards the committed tree of every root and subsystems.
	mu         sync.RWMutex
	subsystems []notify.Subsystem

	stats *stats
}

// root holds the configuration of one top-level schema node.
type root struct {
	// mu serializes the edits of the root.
	mu   sync.Mutex
	s    *schema.Node
	tree *datatree.Node
	// exprs is set when the schema below the root has when or must
	// expressions.
	exprs bool
}

// hasExprs reports whether s or any node below it has a when or must
// expression.
func hasExprs(s *schema.Node) bool {
	if s.When != "" || len(s.Must) != 0 {
		return true
	}
	for _, c := range s.Children {
		if hasExprs(c) {
			return true
		}
	}
	return false
}

// NewStore returns a Store for the compiled schema root s, holding the
// defaults of the schema.
func NewStore(s *schema.Node, opts Options) (*Store, error) {
	if s == nil || !s.IsRoot() {
		return nil, fmt.Errorf("datastore: %v is not a schema root", s)
	}
	st := &Store{
		schema: s,
		roots:  map[string]*root{},
		stats:  newStats(),
	}
	var trees []*datatree.Node
	for _, c := range s.Children {
		k := rootKey(c)
		if _, ok := st.roots[k]; ok {
			return nil, fmt.Errorf("datastore: duplicate top-level node %s", k)
		}
		r := &root{s: c, tree: datatree.NewRoot(s, c), exprs: hasExprs(c)}
		st.roots[k] = r
		st.order = append(st.order, k)
		trees = append(trees, r.tree)
	}
	f := datatree.NewForest(trees...)
	for _, t := range trees {
		yvalidate.Materialize(t, f)
	}
	if opts.Registerer != nil {
		if err := opts.Registerer.Register(newCollector(st)); err != nil {
			return nil, fmt.Errorf("datastore: cannot register metrics: %v", err)
		}
	}
	return st, nil
}

// Schema returns the schema root of s.
func (s *Store) Schema() *schema.Node {
	return s.schema
}

func rootKey(top *schema.Node) string {
	return top.Name.Qualified()
}

// topLevel returns the child of the schema root that holds s.
func topLevel(s *schema.Node) *schema.Node {
	for s.Parent != nil && !s.Parent.IsRoot() {
		s = s.Parent
	}
	return s
}

// RegisterSubsystem adds sub to the subsystems notified of every commit.
func (s *Store) RegisterSubsystem(sub notify.Subsystem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subsystems = append(s.subsystems, sub)
}

// snapshot returns the committed tree of every root.
func (s *Store) snapshot() map[string]*datatree.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := make(map[string]*datatree.Node, len(s.roots))
	for k, r := range s.roots {
		m[k] = r.tree
	}
	return m
}

// EditConfig applies req. Either every change of the request is committed,
// or none is and the result lists the errors. Subsystems are notified of a
// commit before EditConfig returns.
func (s *Store) EditConfig(ctx context.Context, req EditRequest) EditResult {
	if err := ctx.Err(); err != nil {
		return s.reject(rpcerr.List{rpcerr.New(rpcerr.OperationFailed, "", "%v", err)})
	}

	byRoot := map[string][]*edit.Node{}
	var errs rpcerr.List
	for _, n := range req.Config {
		c := s.schema.Child(n.Name)
		if c == nil {
			errs = append(errs, rpcerr.UnknownElementError("/"+n.Name, n.Name))
			continue
		}
		k := rootKey(topLevel(c))
		byRoot[k] = append(byRoot[k], n)
	}
	if errs != nil {
		return s.reject(errs)
	}

	// Roots with expressions are validated again on every edit, as an
	// edit elsewhere can change what their expressions see.
	locked := map[string]bool{}
	for k := range byRoot {
		locked[k] = true
	}
	for k, r := range s.roots {
		if r.exprs {
			locked[k] = true
		}
	}
	keys := maps.Keys(locked)
	slices.Sort(keys)
	for _, k := range keys {
		r := s.roots[k]
		r.mu.Lock()
		defer r.mu.Unlock()
	}

	committed := s.snapshot()
	clones := map[string]*datatree.Node{}
	var logs edit.Log
	for _, k := range keys {
		c := committed[k].Clone()
		clones[k] = c
		if len(byRoot[k]) == 0 {
			continue
		}
		l, merrs := edit.Apply(c, byRoot[k], edit.Options{DefaultOperation: req.Options.DefaultOperation})
		logs = append(logs, l...)
		errs = append(errs, merrs...)
	}
	if errs != nil {
		return s.reject(errs)
	}

	f := s.forest(committed, clones)
	for _, k := range s.order {
		if locked[k] {
			errs = append(errs, yvalidate.Validate(clones[k], f)...)
		}
	}
	if errs != nil {
		return s.reject(errs)
	}
	if req.Options.TestOnly {
		s.stats.edit(resultTestOnly)
		log.V(1).Infof("test-only edit of %v is valid", keys)
		return EditResult{OK: true}
	}

	var records []notify.ChangeRecord
	for _, k := range keys {
		records = append(records, notify.Diff(committed[k], clones[k], logs)...)
	}

	s.mu.Lock()
	for _, k := range keys {
		s.roots[k].tree = clones[k]
	}
	subs := append([]notify.Subsystem(nil), s.subsystems...)
	s.mu.Unlock()

	if len(records) == 0 {
		s.stats.edit(resultNoop)
		log.V(1).Infof("edit of %v committed without changes", keys)
		return EditResult{OK: true}
	}
	s.stats.edit(resultCommitted)
	log.V(1).Infof("edit of %v committed, %d changes", keys, len(records))
	for _, sub := range subs {
		if err := sub.NotifyChanges(ctx, records); err != nil {
			log.Warningf("subsystem %T failed to apply %d changes: %v", sub, len(records), err)
		}
	}
	return EditResult{OK: true, Changes: records}
}

func (s *Store) reject(errs rpcerr.List) EditResult {
	s.stats.edit(resultRejected)
	s.stats.errors(errs)
	log.V(1).Infof("edit rejected: %v", errs)
	return EditResult{Errors: errs}
}

// forest returns a Forest over every root, taking the edited copy of a
// root where there is one.
func (s *Store) forest(committed, edited map[string]*datatree.Node) *datatree.Forest {
	var trees []*datatree.Node
	for _, k := range s.order {
		if t, ok := edited[k]; ok {
			trees = append(trees, t)
			continue
		}
		trees = append(trees, committed[k])
	}
	return datatree.NewForest(trees...)
}

// Validate checks the committed configuration against the schema and
// returns the errors found. It does not change the configuration.
func (s *Store) Validate(ctx context.Context) rpcerr.List {
	if err := ctx.Err(); err != nil {
		return rpcerr.List{rpcerr.New(rpcerr.OperationFailed, "", "%v", err)}
	}
	committed := s.snapshot()
	clones := map[string]*datatree.Node{}
	for k, t := range committed {
		clones[k] = t.Clone()
	}
	f := s.forest(nil, clones)
	var errs rpcerr.List
	for _, k := range s.order {
		errs = append(errs, yvalidate.Validate(clones[k], f)...)
	}
	s.stats.errors(errs)
	return errs
}
