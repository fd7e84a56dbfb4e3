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
	"github.com/golang/protobuf/proto"

	gnmipb "github.com/openconfig/gnmi/proto/gnmi"
)

// selfKey is the path element key addressing one leaf-list value, after the
// XPath predicate [.='v'].
const selfKey = "."

// ToNotification converts records into a gNMI Notification with timestamp
// ts. Created and merged leaves become updates carrying string values; for
// a created container or list entry every leaf below it is an update.
// Deleted and removed nodes become deletes of their path. Path elements
// carry local names and list keys, leaf-list values are addressed by a "."
// key on the leaf-list element.
func ToNotification(records []ChangeRecord, ts int64) *gnmipb.Notification {
	n := &gnmipb.Notification{Timestamp: ts}
	for _, r := range records {
		removal := r.Type == Delete || r.Type == Remove
		walk(&gnmipb.Path{}, r.Data, func(p *gnmipb.Path, d *Data) {
			if removal {
				if d.Target {
					n.Delete = append(n.Delete, p)
				}
				return
			}
			if d.Kind == Change {
				n.Update = append(n.Update, &gnmipb.Update{
					Path: p,
					Val:  &gnmipb.TypedValue{Value: &gnmipb.TypedValue_StringVal{StringVal: d.Value}},
				})
			}
		})
	}
	return n
}

// walk calls fn for every Change node of d and for the target of the
// record, with its gNMI path below parent.
func walk(parent *gnmipb.Path, d *Data, fn func(*gnmipb.Path, *Data)) {
	e := &gnmipb.PathElem{Name: d.Name.Local}
	for _, c := range d.Children {
		if c.Kind != Match {
			continue
		}
		if e.Key == nil {
			e.Key = map[string]string{}
		}
		e.Key[c.Name.Local] = c.Value
	}
	if d.Kind == Change && d.LeafList {
		e.Key = map[string]string{selfKey: d.Value}
	}
	p := joinPaths(parent, &gnmipb.Path{Elem: []*gnmipb.PathElem{e}})
	if d.Kind == Change || d.Target {
		fn(p, d)
	}
	for _, c := range d.Children {
		if c.Kind != Match {
			walk(p, c, fn)
		}
	}
}

func joinPaths(parent, child *gnmipb.Path) *gnmipb.Path {
	p := proto.Clone(parent).(*gnmipb.Path)
	p.Elem = append(p.Elem, child.Elem...)
	return p
}
