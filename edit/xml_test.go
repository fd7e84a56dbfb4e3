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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseXML(t *testing.T) {
	tests := []struct {
		desc    string
		in      string
		want    []*Node
		wantErr bool
	}{{
		desc: "config wrapper with operations",
		in: `<config xmlns="urn:ietf:params:xml:ns:netconf:base:1.0" xmlns:nc="urn:ietf:params:xml:ns:netconf:base:1.0">
  <choice-container xmlns="urn:choice-case-test">
    <choicecase>
      <list1-type nc:operation="create">
        <list-key>key</list-key>
        <case3Container/>
      </list1-type>
    </choicecase>
  </choice-container>
</config>`,
		want: []*Node{{
			Name:      "choice-container",
			Namespace: "urn:choice-case-test",
			Children: []*Node{{
				Name:      "choicecase",
				Namespace: "urn:choice-case-test",
				Children: []*Node{{
					Name:      "list1-type",
					Namespace: "urn:choice-case-test",
					Operation: Create,
					Children: []*Node{
						Leaf("list-key", "key").WithNamespace("urn:choice-case-test"),
						{Name: "case3Container", Namespace: "urn:choice-case-test"},
					},
				}},
			}},
		}},
	}, {
		desc: "bare top-level elements",
		in:   `<a xmlns:nc="urn:ietf:params:xml:ns:netconf:base:1.0"><b nc:operation="remove">  v  </b></a><c/>`,
		want: []*Node{
			{Name: "a", Children: []*Node{Leaf("b", "v").WithOperation(Remove)}},
			{Name: "c"},
		},
	}, {
		desc:    "invalid operation",
		in:      `<a xmlns:nc="urn:ietf:params:xml:ns:netconf:base:1.0" nc:operation="frob"/>`,
		wantErr: true,
	}, {
		desc:    "truncated",
		in:      `<a><b>`,
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := ParseXML(strings.NewReader(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseXML: got error %v, want error %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseXML: (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestNodeString(t *testing.T) {
	n := Container("a", Leaf("b", "1").WithOperation(Delete), Container("c"))
	if got, want := n.String(), `a{b(delete)="1" c}`; got != want {
		t.Errorf("String(): got %s, want %s", got, want)
	}
}
