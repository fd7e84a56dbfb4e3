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

// Package notify turns a committed edit into ordered change records and
// delivers them to the subsystems that consume configuration. A record names
// the changed node and carries the containment tree from the top-level node
// down to the change, with list entries identified by their key matches.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/openconfig/ystore/schema"
)

// ChangeType is the kind of a change.
type ChangeType int

const (
	Create ChangeType = iota
	Merge
	Delete
	Remove
)

// String returns the edit operation name of t.
func (t ChangeType) String() string {
	switch t {
	case Create:
		return "create"
	case Merge:
		return "merge"
	case Delete:
		return "delete"
	case Remove:
		return "remove"
	}
	return fmt.Sprintf("ChangeType(%d)", int(t))
}

// DataKind is the kind of a node of a record's data tree.
type DataKind int

const (
	// Containment is a container or list entry on the way to, or inside,
	// the change.
	Containment DataKind = iota
	// Match is a key leaf identifying the enclosing list entry.
	Match
	// Change is a leaf or one leaf-list value.
	Change
)

// Data is a node of a change record's data tree.
type Data struct {
	Kind DataKind
	Name schema.QName
	// Value is the value of a Match or Change node. For a removal it is the
	// value that was removed.
	Value string
	// LeafList marks a Change node holding one leaf-list value.
	LeafList bool
	// Target marks the node the record is about.
	Target   bool
	Children []*Data
}

// String returns a compact form of d such as
// c{l[k='a']{leaf="v"}}, with the target marked by a '*'.
func (d *Data) String() string {
	var b strings.Builder
	d.write(&b)
	return b.String()
}

func (d *Data) write(b *strings.Builder) {
	b.WriteString(d.Name.Local)
	if d.Target {
		b.WriteString("*")
	}
	if d.Kind == Change {
		fmt.Fprintf(b, "=%q", d.Value)
		return
	}
	var rest []*Data
	for _, c := range d.Children {
		if c.Kind == Match {
			fmt.Fprintf(b, "[%s='%s']", c.Name.Local, c.Value)
			continue
		}
		rest = append(rest, c)
	}
	if len(rest) == 0 {
		return
	}
	b.WriteString("{")
	for i, c := range rest {
		if i > 0 {
			b.WriteString(" ")
		}
		c.write(b)
	}
	b.WriteString("}")
}

// ChangeRecord describes one change made by a committed edit.
type ChangeRecord struct {
	// ModelNodeID is the data path of the changed node. For a leaf-list it
	// is the path of the leaf-list, and Data holds the value.
	ModelNodeID string
	Type        ChangeType
	Data        *Data
}

// String returns a single line form of r.
func (r ChangeRecord) String() string {
	return fmt.Sprintf("%s %s %s", r.Type, r.ModelNodeID, r.Data)
}

// Subsystem consumes the changes of committed edits. NotifyChanges is called
// once per commit that changed something, after the new configuration is
// visible, with the records in document order.
type Subsystem interface {
	NotifyChanges(ctx context.Context, records []ChangeRecord) error
}

// SubsystemFunc adapts a function to a Subsystem.
type SubsystemFunc func(ctx context.Context, records []ChangeRecord) error

// NotifyChanges calls f.
func (f SubsystemFunc) NotifyChanges(ctx context.Context, records []ChangeRecord) error {
	return f(ctx, records)
}

// Recorder is a Subsystem that keeps every batch it is given.
type Recorder struct {
	mu      sync.Mutex
	batches [][]ChangeRecord
}

// NotifyChanges stores records.
func (r *Recorder) NotifyChanges(_ context.Context, records []ChangeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, append([]ChangeRecord(nil), records...))
	return nil
}

// Batches returns the batches received so far.
func (r *Recorder) Batches() [][]ChangeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]ChangeRecord(nil), r.batches...)
}

// Reset drops the stored batches.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = nil
}
