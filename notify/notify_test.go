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
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/openconfig/ystore/datatree"
	"github.com/openconfig/ystore/edit"
	"github.com/openconfig/ystore/internal/ytestutil"
	"github.com/openconfig/ystore/yvalidate"
	"google.golang.org/protobuf/testing/protocmp"

	gnmipb "github.com/openconfig/gnmi/proto/gnmi"
)

var (
	C = edit.Container
	L = edit.Leaf
)

// commit applies config to a copy of root and materializes its defaults.
func commit(t *testing.T, root *datatree.Node, config ...*edit.Node) (*datatree.Node, edit.Log) {
	t.Helper()
	post := root.Clone()
	log, errs := edit.Apply(post, config, edit.Options{})
	if errs != nil {
		t.Fatalf("Apply(%v): %v", config, errs)
	}
	yvalidate.Materialize(post, nil)
	return post, log
}

func recordStrings(rs []ChangeRecord) []string {
	var out []string
	for _, r := range rs {
		out = append(out, r.String())
	}
	return out
}

func TestDiff(t *testing.T) {
	const cc = "/ct:choice-container"
	tests := []struct {
		desc   string
		setup  []*edit.Node
		config []*edit.Node
		want   []string
	}{{
		desc:   "no change",
		config: []*edit.Node{C("choice-container", L("leaf-case-mixed", "Default value for mixed case"))},
	}, {
		desc:   "deleted default comes back",
		config: []*edit.Node{C("choice-container", L("plain", "").WithOperation(edit.Delete))},
	}, {
		desc:   "case switch drops the default case",
		config: []*edit.Node{C("choice-container", C("list-case-list", L("name", "a"), L("value", "1")))},
		want: []string{
			`delete ` + cc + `/ct:leaf-case-mixed choice-container{leaf-case-mixed*="Default value for mixed case"}`,
			`create ` + cc + `/ct:list-case-list[ct:name='a'] choice-container{list-case-list*[name='a']{value="1"}}`,
		},
	}, {
		desc:   "removing the last entry restores the default case",
		setup:  []*edit.Node{C("choice-container", C("list-case-list", L("name", "a")))},
		config: []*edit.Node{C("choice-container", C("list-case-list", L("name", "a")).WithOperation(edit.Remove))},
		want: []string{
			`remove ` + cc + `/ct:list-case-list[ct:name='a'] choice-container{list-case-list*[name='a']}`,
			`create ` + cc + `/ct:leaf-case-mixed choice-container{leaf-case-mixed*="Default value for mixed case"}`,
		},
	}, {
		desc:   "leaf value change",
		setup:  []*edit.Node{C("choice-container", L("outer-b-leaf", "1"))},
		config: []*edit.Node{C("choice-container", L("outer-b-leaf", "2"))},
		want: []string{
			`merge ` + cc + `/ct:outer-b-leaf choice-container{outer-b-leaf*="2"}`,
		},
	}, {
		desc: "new subtree",
		config: []*edit.Node{C("choice-container", C("choicecase", C("list1-type",
			L("list-key", "k"),
			C("case3Container", L("case3Leaf2", "a"), L("case3Leaf2", "b")),
		)))},
		want: []string{
			`create ` + cc + `/ct:choicecase choice-container{choicecase*{list1-type[list-key='k']{case3Container{case3Leaf2="a" case3Leaf2="b"}}}}`,
		},
	}, {
		desc: "leaf-list values",
		setup: []*edit.Node{C("choice-container", C("choicecase", C("list1-type",
			L("list-key", "k"),
			C("case3Container", L("case3Leaf2", "a"), L("case3Leaf2", "b")),
		)))},
		config: []*edit.Node{C("choice-container", C("choicecase", C("list1-type",
			L("list-key", "k"),
			C("case3Container", L("case3Leaf2", "a").WithOperation(edit.Remove), L("case3Leaf2", "c")),
		)))},
		want: []string{
			`remove ` + cc + `/ct:choicecase/ct:list1-type[ct:list-key='k']/ct:case3Container/ct:case3Leaf2 choice-container{choicecase{list1-type[list-key='k']{case3Container{case3Leaf2*="a"}}}}`,
			`create ` + cc + `/ct:choicecase/ct:list1-type[ct:list-key='k']/ct:case3Container/ct:case3Leaf2 choice-container{choicecase{list1-type[list-key='k']{case3Container{case3Leaf2*="c"}}}}`,
		},
	}, {
		desc:   "case switch inside a list entry",
		setup:  []*edit.Node{C("choice-container", C("testMandatory", L("key", "x"), L("address", "a")))},
		config: []*edit.Node{C("choice-container", C("testMandatory", L("key", "x"), L("device-id", "d")))},
		want: []string{
			`delete ` + cc + `/ct:testMandatory[ct:key='x']/ct:address choice-container{testMandatory[key='x']{address*="a"}}`,
			`create ` + cc + `/ct:testMandatory[ct:key='x']/ct:device-id choice-container{testMandatory[key='x']{device-id*="d"}}`,
		},
	}, {
		desc:   "when default appears",
		config: []*edit.Node{C("when-container", L("mode", "tcp"))},
		want: []string{
			`create /ct:when-container when-container*{mode="tcp" tcp-port="22"}`,
		},
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			root := datatree.NewRoot(ytestutil.ChoiceSchema())
			yvalidate.Materialize(root, nil)
			pre, _ := commit(t, root, tt.setup...)
			post, log := commit(t, pre, tt.config...)
			if diff := cmp.Diff(tt.want, recordStrings(Diff(pre, post, log))); diff != "" {
				t.Errorf("Diff: (-want, +got):\n%s", diff)
			}
		})
	}
}

func path(elems ...*gnmipb.PathElem) *gnmipb.Path {
	return &gnmipb.Path{Elem: elems}
}

func elem(name string, kv ...string) *gnmipb.PathElem {
	e := &gnmipb.PathElem{Name: name}
	for i := 0; i+1 < len(kv); i += 2 {
		if e.Key == nil {
			e.Key = map[string]string{}
		}
		e.Key[kv[i]] = kv[i+1]
	}
	return e
}

func update(p *gnmipb.Path, v string) *gnmipb.Update {
	return &gnmipb.Update{Path: p, Val: &gnmipb.TypedValue{Value: &gnmipb.TypedValue_StringVal{StringVal: v}}}
}

func TestToNotification(t *testing.T) {
	root := datatree.NewRoot(ytestutil.ChoiceSchema())
	yvalidate.Materialize(root, nil)
	pre, _ := commit(t, root, C("choice-container", C("choicecase", C("list1-type",
		L("list-key", "k"),
		C("case3Container", L("case3Leaf2", "a"), L("case3Leaf2", "b")),
	))))
	post, log := commit(t, pre,
		C("choice-container",
			C("list-case-list", L("name", "n"), L("value", "1")),
			C("choicecase", C("list1-type",
				L("list-key", "k"),
				C("case3Container", L("case3Leaf2", "a").WithOperation(edit.Delete)),
			)),
		),
	)

	got := ToNotification(Diff(pre, post, log), 42)
	cc := elem("choice-container")
	ll := []*gnmipb.PathElem{cc, elem("choicecase"), elem("list1-type", "list-key", "k"), elem("case3Container")}
	want := &gnmipb.Notification{
		Timestamp: 42,
		Delete: []*gnmipb.Path{
			path(cc, elem("leaf-case-mixed")),
			path(append(ll, elem("case3Leaf2", ".", "a"))...),
		},
		Update: []*gnmipb.Update{
			update(path(cc, elem("list-case-list", "name", "n"), elem("value")), "1"),
		},
	}
	if diff := cmp.Diff(want, got, protocmp.Transform()); diff != "" {
		t.Errorf("ToNotification: (-want, +got):\n%s", diff)
	}

	created := ToNotification(Diff(root, pre, nil), 1)
	wantCreated := &gnmipb.Notification{
		Timestamp: 1,
		Update: []*gnmipb.Update{
			update(path(append(ll, elem("case3Leaf2", ".", "a"))...), "a"),
			update(path(append(ll, elem("case3Leaf2", ".", "b"))...), "b"),
		},
	}
	if diff := cmp.Diff(wantCreated, created, protocmp.Transform()); diff != "" {
		t.Errorf("ToNotification of a new subtree: (-want, +got):\n%s", diff)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var s Subsystem = &r
	batch := []ChangeRecord{{ModelNodeID: "/a", Type: Create, Data: &Data{Name: ytestutil.ChoiceSchema().Find("/choice-container").Name}}}
	if err := s.NotifyChanges(context.Background(), batch); err != nil {
		t.Fatalf("NotifyChanges: %v", err)
	}
	if got := len(r.Batches()); got != 1 {
		t.Errorf("Batches: got %d, want 1", got)
	}
	r.Reset()
	if got := len(r.Batches()); got != 0 {
		t.Errorf("Batches after Reset: got %d, want 0", got)
	}

	var called int
	f := SubsystemFunc(func(_ context.Context, rs []ChangeRecord) error {
		called += len(rs)
		return nil
	})
	f.NotifyChanges(context.Background(), batch)
	if called != 1 {
		t.Errorf("SubsystemFunc: got %d records, want 1", called)
	}
}

func TestChangeTypeString(t *testing.T) {
	for ct, want := range map[ChangeType]string{Create: "create", Merge: "merge", Delete: "delete", Remove: "remove", 9: "ChangeType(9)"} {
		if got := ct.String(); got != want {
			t.Errorf("%d.String(): got %q, want %q", int(ct), got, want)
		}
	}
}
