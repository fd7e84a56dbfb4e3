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
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// NetconfNS is the NETCONF base namespace, which qualifies the operation
// attribute and the config element.
const NetconfNS = "urn:ietf:params:xml:ns:netconf:base:1.0"

// ParseXML decodes the XML edit content read from r into request nodes. The
// content is either a <config> element or a sequence of top-level data
// elements. Operations are read from the operation attribute in the NETCONF
// namespace. An element with child elements is a container or list entry;
// any other element carries its trimmed text as value, or no value when the
// text is empty.
func ParseXML(r io.Reader) ([]*Node, error) {
	type frame struct {
		n       *Node
		text    strings.Builder
		wrapper bool
	}
	var (
		top   []*Node
		stack []*frame
	)
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && t.Name.Local == "config" && (t.Name.Space == NetconfNS || t.Name.Space == "") {
				stack = append(stack, &frame{wrapper: true})
				continue
			}
			n := &Node{Name: t.Name.Local}
			if t.Name.Space != NetconfNS {
				n.Namespace = t.Name.Space
			}
			for _, a := range t.Attr {
				if a.Name.Space != NetconfNS || a.Name.Local != "operation" {
					continue
				}
				op, err := ParseOperation(a.Value)
				if err != nil {
					return nil, fmt.Errorf("element %s: %v", t.Name.Local, err)
				}
				n.Operation = op
			}
			if len(stack) == 0 || stack[len(stack)-1].wrapper {
				top = append(top, n)
			} else {
				p := stack[len(stack)-1].n
				p.Children = append(p.Children, n)
			}
			stack = append(stack, &frame{n: n})
		case xml.CharData:
			if len(stack) != 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected end element %s", t.Name.Local)
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if f.wrapper || len(f.n.Children) != 0 {
				continue
			}
			if v := strings.TrimSpace(f.text.String()); v != "" {
				f.n.Value = &v
			}
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unterminated element")
	}
	return top, nil
}
