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

package edit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kylelemons/godebug/pretty"
	"github.com/openconfig/ystore/datatree"
	"github.com/openconfig/ystore/internal/ytestutil"
	"github.com/openconfig/ystore/rpcerr"
	"github.com/openconfig/ystore/schema"
)

const (
	cc    = "/ct:choice-container"
	entry = cc + "/ct:choicecase/ct:list1-type[ct:list-key='key']"
)

func list1(children ...*Node) []*Node {
	return []*Node{Container("choice-container",
		Container("choicecase",
			Container("list1-type", append([]*Node{Leaf("list-key", "key")}, children...)...),
		),
	)}
}

func TestApply(t *testing.T) {
	tests := []struct {
		desc       string
		inStart    [][]*Node
		inConfig   []*Node
		inOpts     Options
		wantLeaves map[string]string
		wantErrs   []ytestutil.ErrSummary
		wantLog    Log
	}{{
		desc:     "merge creates the path",
		inConfig: list1(Leaf("case1Leaf1", "v")),
		wantLeaves: map[string]string{
			entry + "/ct:list-key":   "key",
			entry + "/ct:case1Leaf1": "v",
		},
	}, {
		desc: "two cases in one entry",
		inConfig: list1(
			Container("case3Container", Leaf("case3Leaf1", "a")),
			Container("case4Container", Leaf("case4Leaf1", "b")),
		),
		wantErrs: []ytestutil.ErrSummary{{
			Tag:     rpcerr.BadElement,
			Path:    entry + "/ct:case4Container",
			Message: "Invalid element in choice node ",
		}},
	}, {
		desc:    "a new case replaces the old one",
		inStart: [][]*Node{list1(Leaf("case1Leaf1", "v"))},
		inConfig: list1(
			Container("case4Container", Leaf("case4Leaf1", "b")),
		),
		wantLeaves: map[string]string{
			entry + "/ct:list-key":                      "key",
			entry + "/ct:case4Container/ct:case4Leaf1": "b",
		},
	}, {
		desc:    "removing the old case while selecting a new one",
		inStart: [][]*Node{list1(Leaf("case1Leaf1", "v"))},
		inConfig: list1(
			Leaf("case1Leaf1", "").WithOperation(Remove),
			Container("case4Container", Leaf("case4Leaf1", "b")),
		),
		wantLeaves: map[string]string{
			entry + "/ct:list-key":                      "key",
			entry + "/ct:case4Container/ct:case4Leaf1": "b",
		},
		wantLog: Log{{Path: entry + "/ct:case1Leaf1", Operation: Remove}},
	}, {
		desc:    "selecting a new case before deleting the old one",
		inStart: [][]*Node{list1(Leaf("case1Leaf1", "v"))},
		inConfig: list1(
			Container("case4Container", Leaf("case4Leaf1", "b")),
			Leaf("case1Leaf1", "").WithOperation(Delete),
		),
		wantLeaves: map[string]string{
			entry + "/ct:list-key":                      "key",
			entry + "/ct:case4Container/ct:case4Leaf1": "b",
		},
		wantLog: Log{{Path: entry + "/ct:case1Leaf1", Operation: Delete}},
	}, {
		desc:    "deleting the old case before selecting a new one",
		inStart: [][]*Node{list1(Leaf("case1Leaf1", "v"))},
		inConfig: list1(
			Leaf("case1Leaf1", "").WithOperation(Delete),
			Container("case4Container", Leaf("case4Leaf1", "b")),
		),
		wantLeaves: map[string]string{
			entry + "/ct:list-key":                      "key",
			entry + "/ct:case4Container/ct:case4Leaf1": "b",
		},
		wantLog: Log{{Path: entry + "/ct:case1Leaf1", Operation: Delete}},
	}, {
		desc:     "create of an existing leaf",
		inStart:  [][]*Node{list1(Leaf("case1Leaf1", "v"))},
		inConfig: list1(Leaf("case1Leaf1", "w").WithOperation(Create)),
		wantErrs: []ytestutil.ErrSummary{{
			Tag:     rpcerr.DataExists,
			Path:    entry + "/ct:case1Leaf1",
			Message: "Data already exists; cannot be created",
		}},
	}, {
		desc:     "delete of an absent leaf",
		inStart:  [][]*Node{list1()},
		inConfig: list1(Leaf("case1Leaf1", "").WithOperation(Delete)),
		wantErrs: []ytestutil.ErrSummary{{
			Tag:     rpcerr.DataMissing,
			Path:    entry + "/ct:case1Leaf1",
			Message: "Data does not exist",
		}},
	}, {
		desc:     "remove of an absent leaf",
		inStart:  [][]*Node{list1()},
		inConfig: list1(Leaf("case1Leaf1", "").WithOperation(Remove)),
		wantLeaves: map[string]string{
			entry + "/ct:list-key": "key",
		},
	}, {
		desc: "delete of a list entry",
		inStart: [][]*Node{list1(
			Container("case3Container", Leaf("case3Leaf1", "a")),
		)},
		inConfig: []*Node{Container("choice-container",
			Container("choicecase",
				Container("list1-type", Leaf("list-key", "key")).WithOperation(Delete),
			),
		)},
		wantLeaves: map[string]string{},
		wantLog:    Log{{Path: entry, Operation: Delete}},
	}, {
		desc: "replace drops unmentioned children",
		inStart: [][]*Node{list1(
			Container("case3Container", Leaf("case3Leaf1", "a"), Leaf("case3Leaf2", "x")),
		)},
		inConfig: list1(
			Container("case3Container", Leaf("case3Leaf2", "y")).WithOperation(Replace),
		),
		wantLeaves: map[string]string{
			entry + "/ct:list-key":                      "key",
			entry + "/ct:case3Container/ct:case3Leaf2": "y",
		},
	}, {
		desc: "leaf-list values accumulate",
		inStart: [][]*Node{list1(
			Container("case3Container", Leaf("case3Leaf2", "x")),
		)},
		inConfig: list1(
			Container("case3Container", Leaf("case3Leaf2", "y")),
		),
		wantLeaves: map[string]string{
			entry + "/ct:list-key":                      "key",
			entry + "/ct:case3Container/ct:case3Leaf2": "x,y",
		},
	}, {
		desc: "removing one leaf-list value",
		inStart: [][]*Node{list1(
			Container("case3Container", Leaf("case3Leaf2", "x"), Leaf("case3Leaf2", "y")),
		)},
		inConfig: list1(
			Container("case3Container", Leaf("case3Leaf2", "x").WithOperation(Remove)),
		),
		wantLeaves: map[string]string{
			entry + "/ct:list-key":                      "key",
			entry + "/ct:case3Container/ct:case3Leaf2": "y",
		},
		wantLog: Log{{Path: entry + "/ct:case3Container/ct:case3Leaf2", Operation: Remove, Value: "x"}},
	}, {
		desc: "duplicate leaf-list value",
		inConfig: list1(
			Container("case3Container", Leaf("case3Leaf2", "x"), Leaf("case3Leaf2", "x")),
		),
		wantErrs: []ytestutil.ErrSummary{{
			Tag:     rpcerr.OperationFailed,
			Path:    entry + "/ct:case3Container/ct:case3Leaf2",
			Message: "Duplicate elements in node (urn:choice-case-test?revision=2015-12-14)case3Leaf2",
		}},
	}, {
		desc:     "unknown element",
		inConfig: []*Node{Container("choice-container", Leaf("bogus", "x"))},
		wantErrs: []ytestutil.ErrSummary{{
			Tag:     rpcerr.UnknownElement,
			Path:    cc + "/bogus",
			Message: "An unexpected element bogus is present",
		}},
	}, {
		desc:     "wrong namespace",
		inConfig: []*Node{Container("choice-container").WithNamespace("urn:other")},
		wantErrs: []ytestutil.ErrSummary{{
			Tag:     rpcerr.UnknownElement,
			Path:    "/choice-container",
			Message: "An unexpected element choice-container is present",
		}},
	}, {
		desc: "missing key",
		inConfig: []*Node{Container("choice-container",
			Container("choicecase", Container("list1-type", Leaf("case1Leaf1", "v"))),
		)},
		wantErrs: []ytestutil.ErrSummary{{
			Tag:     rpcerr.MissingElement,
			Path:    cc + "/ct:choicecase/ct:list1-type",
			Message: "Missing key list-key for list list1-type",
		}},
	}, {
		desc:     "default operation none navigates",
		inStart:  [][]*Node{list1(Leaf("case1Leaf1", "v"))},
		inConfig: list1(Leaf("case1Leaf1", "w").WithOperation(Merge)),
		inOpts:   Options{DefaultOperation: DefaultNone},
		wantLeaves: map[string]string{
			entry + "/ct:list-key":   "key",
			entry + "/ct:case1Leaf1": "w",
		},
	}, {
		desc:     "default operation none on a missing path",
		inConfig: list1(Leaf("case1Leaf1", "w").WithOperation(Merge)),
		inOpts:   Options{DefaultOperation: DefaultNone},
		wantErrs: []ytestutil.ErrSummary{{
			Tag:     rpcerr.DataMissing,
			Path:    cc,
			Message: "Data does not exist",
		}},
	}, {
		desc:     "container with a value",
		inConfig: []*Node{Leaf("choice-container", "x")},
		wantErrs: []ytestutil.ErrSummary{{
			Tag:     rpcerr.MalformedMessage,
			Path:    cc,
			Message: "container choice-container cannot have a value",
		}},
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			root := datatree.NewRoot(ytestutil.ChoiceSchema())
			for _, start := range tt.inStart {
				if _, errs := Apply(root, start, Options{}); errs != nil {
					t.Fatalf("cannot apply start config %v: %v", start, errs)
				}
			}

			log, errs := Apply(root, tt.inConfig, tt.inOpts)
			if diff := pretty.Compare(tt.wantErrs, ytestutil.Summarize(errs)); diff != "" {
				t.Fatalf("Apply(%v): errors (-want, +got):\n%s", tt.inConfig, diff)
			}
			if errs != nil {
				return
			}
			if diff := cmp.Diff(tt.wantLeaves, ytestutil.Leaves(root)); diff != "" {
				t.Errorf("Apply(%v): leaves (-want, +got):\n%s", tt.inConfig, diff)
			}
			if diff := cmp.Diff(tt.wantLog, log); diff != "" {
				t.Errorf("Apply(%v): log (-want, +got):\n%s", tt.inConfig, diff)
			}
		})
	}
}

func TestApplyReplacesDefaultCase(t *testing.T) {
	s := ytestutil.ChoiceSchema()
	root := datatree.NewRoot(s)
	c, err := root.NewChild(s.Find("/choice-container"), nil)
	if err != nil {
		t.Fatalf("NewChild: %v", err)
	}
	l, err := c.NewChild(s.Find("/choice-container/leaf-case-mixed"), nil)
	if err != nil {
		t.Fatalf("NewChild: %v", err)
	}
	l.SetValue("Default value for mixed case", datatree.SystemDefault)

	_, errs := Apply(root, []*Node{Container("choice-container",
		Container("list-case-list", Leaf("name", "a"), Leaf("value", "1")),
	)}, Options{})
	if errs != nil {
		t.Fatalf("Apply: %v", errs)
	}
	want := map[string]string{
		cc + "/ct:list-case-list[ct:name='a']/ct:name":  "a",
		cc + "/ct:list-case-list[ct:name='a']/ct:value": "1",
	}
	if diff := cmp.Diff(want, ytestutil.Leaves(root)); diff != "" {
		t.Errorf("Apply: (-want, +got):\n%s", diff)
	}
}

func TestApplyCreateOverDefault(t *testing.T) {
	s := ytestutil.ChoiceSchema()
	root := datatree.NewRoot(s)
	c, _ := root.NewChild(s.Find("/choice-container"), nil)
	l, _ := c.NewChild(s.Find("/choice-container/leaf-case-mixed"), nil)
	l.SetValue("Default value for mixed case", datatree.SystemDefault)

	_, errs := Apply(root, []*Node{Container("choice-container",
		Leaf("leaf-case-mixed", "mine").WithOperation(Create),
	)}, Options{})
	if errs != nil {
		t.Fatalf("Apply: create over a system default: %v", errs)
	}
	if v, _ := l.Value(); v != "mine" || l.Provenance() != datatree.UserSet {
		t.Errorf("leaf-case-mixed: got %q (%s), want mine (user)", v, l.Provenance())
	}
}

func TestLogOperation(t *testing.T) {
	l := Log{
		{Path: "/t:a/t:b", Operation: Delete},
		{Path: "/t:a/t:ll", Operation: Remove, Value: "x"},
	}
	tests := []struct {
		path, value string
		want        Operation
		wantOK      bool
	}{
		{"/t:a/t:b", "", Delete, true},
		{"/t:a/t:b/t:c", "", Delete, true},
		{"/t:a/t:bc", "", NotSet, false},
		{"/t:a/t:ll", "x", Remove, true},
		{"/t:a/t:ll", "y", NotSet, false},
	}
	for _, tt := range tests {
		got, ok := l.Operation(tt.path, tt.value)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Operation(%s, %q): got %s, %v, want %s, %v", tt.path, tt.value, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseOperation(t *testing.T) {
	for _, op := range []Operation{Merge, Create, Replace, Delete, Remove} {
		got, err := ParseOperation(op.String())
		if err != nil || got != op {
			t.Errorf("ParseOperation(%s): got %s, %v", op, got, err)
		}
	}
	if _, err := ParseOperation("none"); err == nil {
		t.Errorf("ParseOperation(none): got no error")
	}
	for in, want := range map[string]DefaultOperation{"": DefaultMerge, "merge": DefaultMerge, "replace": DefaultReplace, "none": DefaultNone} {
		if got, err := ParseDefaultOperation(in); err != nil || got != want {
			t.Errorf("ParseDefaultOperation(%q): got %v, %v, want %v", in, got, err, want)
		}
	}
}

func TestApplyLeafListOverDefaults(t *testing.T) {
	s, err := schema.NewRoot(schema.Module{Name: "d", Namespace: "urn:d", Prefix: "d"},
		schema.Container("c", schema.LeafList("servers").WithDefault("a", "b", "c")),
	)
	if err != nil {
		t.Fatalf("NewRoot: %v", err)
	}
	root := datatree.NewRoot(s)
	c, err := root.NewChild(s.Find("/c"), nil)
	if err != nil {
		t.Fatalf("NewChild: %v", err)
	}
	ll, err := c.NewChild(s.Find("/c/servers"), nil)
	if err != nil {
		t.Fatalf("NewChild: %v", err)
	}
	for _, v := range []string{"a", "b", "c"} {
		ll.AddValue(v, datatree.SystemDefault)
	}

	if _, errs := Apply(root, []*Node{Container("c", Leaf("servers", "z"))}, Options{}); errs != nil {
		t.Fatalf("Apply: %v", errs)
	}
	if diff := cmp.Diff(map[string]string{"/d:c/d:servers": "z"}, ytestutil.Leaves(root)); diff != "" {
		t.Errorf("Apply: leaves (-want, +got):\n%s", diff)
	}
}
