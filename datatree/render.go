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

package datatree

import (
	"encoding/xml"
	"io"

	"github.com/openconfig/ystore/schema"
)

// RenderXML writes nodes, and everything below them, to w as indented XML
// elements. A namespace declaration is emitted on each element whose
// namespace differs from its parent's.
func RenderXML(w io.Writer, nodes []*Node) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	for _, n := range nodes {
		if n.parent == nil {
			for _, c := range n.children {
				if err := renderNode(enc, c, ""); err != nil {
					return err
				}
			}
			continue
		}
		if err := renderNode(enc, n, ""); err != nil {
			return err
		}
	}
	return enc.Flush()
}

func renderNode(enc *xml.Encoder, n *Node, parentNS string) error {
	ns := n.schema.Name.Namespace
	start := xml.StartElement{Name: xml.Name{Local: n.schema.Name.Local}}
	if ns != parentNS {
		start.Attr = []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: ns}}
	}

	leaf := func(v string) error {
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if err := enc.EncodeToken(xml.CharData(v)); err != nil {
			return err
		}
		return enc.EncodeToken(start.End())
	}

	switch n.schema.Kind {
	case schema.LeafNode:
		return leaf(n.value)
	case schema.LeafListNode:
		for _, v := range n.values {
			if err := leaf(v.V); err != nil {
				return err
			}
		}
		return nil
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := renderNode(enc, c, ns); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
