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

// Package ytestutil holds schemas and helpers shared by the tests of the
// datastore packages.
package ytestutil

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kr/pretty"
	"github.com/openconfig/ystore/datatree"
	"github.com/openconfig/ystore/rpcerr"
	"github.com/openconfig/ystore/schema"
)

// ChoiceModule is the module of ChoiceSchema.
var ChoiceModule = schema.Module{
	Name:      "choice-case-test",
	Namespace: "urn:choice-case-test",
	Prefix:    "ct",
	Revision:  "2015-12-14",
}

// ChoiceSchema returns a freshly compiled schema exercising choices: case
// exclusivity inside list entries, a default case displaced by a list case,
// nested choices, a mandatory choice inside a list, when-gated cases and
// must expressions.
func ChoiceSchema() *schema.Node {
	root, err := schema.NewRoot(ChoiceModule,
		schema.Container("choice-container",
			schema.Container("choicecase",
				schema.List("list1-type", []string{"list-key"},
					schema.Leaf("list-key"),
					schema.Choice("list1-choice",
						schema.Case("case1", schema.Leaf("case1Leaf1")),
						schema.Case("case3", schema.Container("case3Container",
							schema.Leaf("case3Leaf1"),
							schema.LeafList("case3Leaf2").WithMinElements(2),
						)),
						schema.Case("case4", schema.Container("case4Container",
							schema.Leaf("case4Leaf1"),
						)),
					),
				),
			),
			schema.Choice("mixed-choice",
				schema.Case("default-case",
					schema.Leaf("leaf-case-mixed").WithDefault("Default value for mixed case"),
					schema.Leaf("other-mixed"),
				),
				schema.Case("list-case",
					schema.List("list-case-list", []string{"name"},
						schema.Leaf("name"),
						schema.Leaf("value"),
					).WithMaxElements(3),
				),
			).WithDefaultCase("default-case"),
			schema.Choice("nested-outer",
				schema.Case("outer-a",
					schema.Leaf("outer-a-leaf"),
					schema.Choice("inner",
						schema.Leaf("inner-x"),
						schema.Leaf("inner-y"),
					).WithMandatory(),
				),
				schema.Case("outer-b", schema.Leaf("outer-b-leaf")),
			),
			schema.Choice("min-choice",
				schema.Case("min-case",
					schema.List("min-list", []string{"id"}, schema.Leaf("id")).WithMinElements(2),
				),
				schema.Case("plain-case", schema.Leaf("plain").WithDefault("plain-default")),
			).WithDefaultCase("plain-case"),
			schema.List("testMandatory", []string{"key"},
				schema.Leaf("key"),
				schema.Choice("device-connection",
					schema.Case("direct", schema.Leaf("address")),
					schema.Case("call-home", schema.Leaf("device-id")),
				).WithMandatory(),
			),
		),
		schema.Container("when-container",
			schema.Leaf("mode"),
			schema.Choice("transport",
				schema.Case("tcp", schema.Leaf("tcp-port").WithDefault("22")).WithWhen("mode = 'tcp'"),
				schema.Case("udp", schema.Leaf("udp-port")).WithWhen("mode = 'udp'"),
			).WithDefaultCase("tcp"),
			schema.Leaf("debug-level").WithDefault("1").WithWhen("../mode = 'debug'"),
		),
		schema.Container("must-container",
			schema.Leaf("max"),
			schema.Leaf("current").WithMust(". <= ../max", ""),
			schema.Container("limits",
				schema.Leaf("low"),
				schema.Leaf("high"),
			).WithMust("not(low) or not(high) or low < high", "low must be below high"),
		),
	)
	if err != nil {
		panic(fmt.Sprintf("invalid test schema: %v", err))
	}
	return root
}

// TopLevelChoiceSchema returns a schema whose only top-level node is a
// mandatory choice.
func TopLevelChoiceSchema() *schema.Node {
	root, err := schema.NewRoot(schema.Module{Name: "top", Namespace: "urn:top", Prefix: "top", Revision: "2020-01-01"},
		schema.Choice("mandatory-choice",
			schema.Leaf("top-a"),
			schema.Container("top-b", schema.Leaf("x")),
		).WithMandatory(),
	)
	if err != nil {
		panic(fmt.Sprintf("invalid test schema: %v", err))
	}
	return root
}

// ErrSummary is the part of an rpc-error the tests compare.
type ErrSummary struct {
	Tag     rpcerr.Tag
	Path    string
	Message string
}

// Summarize returns the summary of each error in errs.
func Summarize(errs rpcerr.List) []ErrSummary {
	var out []ErrSummary
	for _, e := range errs {
		out = append(out, ErrSummary{Tag: e.Tag, Path: e.Path, Message: e.Message})
	}
	return out
}

// Leaves returns every leaf and leaf-list value below n keyed by data path,
// with system defaults marked by a trailing " (default)". Leaf-list values
// are joined with commas.
func Leaves(n *datatree.Node) map[string]string {
	m := map[string]string{}
	var walk func(*datatree.Node)
	walk = func(n *datatree.Node) {
		switch n.Schema().Kind {
		case schema.LeafNode:
			v, _ := n.Value()
			if n.Provenance() == datatree.SystemDefault {
				v += " (default)"
			}
			m[n.Path()] = v
			return
		case schema.LeafListNode:
			var vs []string
			for _, v := range n.Values() {
				s := v.V
				if v.Provenance == datatree.SystemDefault {
					s += " (default)"
				}
				vs = append(vs, s)
			}
			m[n.Path()] = strings.Join(vs, ",")
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(n)
	return m
}

// Paths returns the sorted data paths of every node below n.
func Paths(n *datatree.Node) []string {
	var out []string
	var walk func(*datatree.Node)
	walk = func(n *datatree.Node) {
		for _, c := range n.Children() {
			out = append(out, c.Path())
			walk(c)
		}
	}
	walk(n)
	sort.Strings(out)
	return out
}

// Sprint formats v for test failure messages.
func Sprint(v interface{}) string {
	return pretty.Sprint(v)
}
