// Copyright 2024 Nokia
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
	"testing"

	"github.com/iptecharch/leafref-server/pkg/qname"
	"github.com/iptecharch/leafref-server/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNs = "urn:test"

func q(local string) qname.QName {
	return qname.New(testNs, "", local)
}

func str(v string) *LeafNode {
	return NewLeaf(q(v), utils.ConvertString(v))
}

func entry(list, key, value string, children ...NormalizedNode) *MapEntryNode {
	id := NewNodeIdentifierWithPredicates(q(list), KeyValue{Key: q(key), Value: utils.ConvertString(value)})
	return NewMapEntry(id, append([]NormalizedNode{NewLeaf(q(key), utils.ConvertString(value))}, children...)...)
}

func TestInstanceIdentifier(t *testing.T) {
	root := NewInstanceIdentifier()
	assert.Equal(t, "/", root.String())
	_, ok := root.Parent()
	assert.False(t, ok)

	c := root.Node(NodeIdentifier{QName: q("c")})
	l := c.Node(NodeIdentifier{QName: q("l")})
	e1 := l.Node(NewNodeIdentifierWithPredicates(q("l"), KeyValue{Key: q("k"), Value: utils.ConvertString("1")}))
	e2 := l.Node(NewNodeIdentifierWithPredicates(q("l"), KeyValue{Key: q("k"), Value: utils.ConvertString("2")}))

	assert.Equal(t, 3, e1.Len())
	assert.Equal(t, "/(urn:test)c/(urn:test)l/(urn:test)l[k=1]", e1.String())
	assert.Equal(t, "/(urn:test)c/(urn:test)l/(urn:test)l[k=2]", e2.String())
	p, ok := e1.Parent()
	require.True(t, ok)
	assert.Equal(t, l.String(), p.String())
	assert.Equal(t, q("l"), e1.LastArgument().NodeType())
}

func TestNodes_ChildLookup(t *testing.T) {
	tree := NewContainer(q("root"),
		NewContainer(q("c"),
			str("target"),
			NewLeafSet(q("ll"), utils.ConvertString("a"), utils.ConvertString("b"), utils.ConvertString("a")),
			NewMap(q("l"), entry("l", "k", "1", str("val")), entry("l", "k", "2")),
			NewChoice(q("ch"), str("x")),
		),
	)

	c, ok := DirectChild(tree, NodeIdentifier{QName: q("c")})
	require.True(t, ok)
	_, ok = c.(DataContainerNode)
	assert.True(t, ok)

	ll, ok := DirectChild(c, NodeIdentifier{QName: q("ll")})
	require.True(t, ok)
	assert.Len(t, ll.(*LeafSetNode).Values(), 2)

	m, ok := DirectChild(c, NodeIdentifier{QName: q("l")})
	require.True(t, ok)
	_, isContainer := m.(DataContainerNode)
	assert.False(t, isContainer)
	assert.Len(t, m.(*MapNode).Entries(), 2)

	id := NewInstanceIdentifier(
		NodeIdentifier{QName: q("c")},
		NodeIdentifier{QName: q("l")},
		NewNodeIdentifierWithPredicates(q("l"), KeyValue{Key: q("k"), Value: utils.ConvertString("1")}),
		NodeIdentifier{QName: q("val")},
	)
	v, ok := FindNode(tree, id)
	require.True(t, ok)
	assert.Equal(t, "val", utils.TypedValueToString(v.(ValueNode).Value()))

	_, ok = DirectChild(v, NodeIdentifier{QName: q("x")})
	assert.False(t, ok)
}

func TestNewCandidate(t *testing.T) {
	before := NewContainer(q("root"),
		NewContainer(q("c"), str("target"), str("other")),
		NewContainer(q("gone"), str("a")),
		NewMap(q("l"), entry("l", "k", "1"), entry("l", "k", "2")),
		NewLeafSet(q("ll"), utils.ConvertString("a")),
	)
	after := NewContainer(q("root"),
		NewContainer(q("c"), str("target"), NewLeaf(q("other"), utils.ConvertString("changed"))),
		NewContainer(q("new"), str("a")),
		NewMap(q("l"), entry("l", "k", "1"), entry("l", "k", "3")),
		NewLeafSet(q("ll"), utils.ConvertString("a"), utils.ConvertString("b")),
	)

	cand := NewCandidate(before, after)
	root := cand.Root()
	assert.Equal(t, SubtreeModified, root.ModificationType())

	mods := map[string]ModificationType{}
	for _, c := range root.Children() {
		mods[c.Identifier().NodeType().Local] = c.ModificationType()
	}
	assert.Equal(t, map[string]ModificationType{
		"c":    SubtreeModified,
		"gone": Delete,
		"new":  Write,
		"l":    SubtreeModified,
		"ll":   Write,
	}, mods)

	for _, c := range root.Children() {
		switch c.Identifier().NodeType().Local {
		case "c":
			for _, leaf := range c.Children() {
				want := Unmodified
				if leaf.Identifier().NodeType().Local == "other" {
					want = Write
				}
				assert.Equal(t, want, leaf.ModificationType(), leaf.Identifier().String())
			}
		case "l":
			entries := map[string]ModificationType{}
			for _, e := range c.Children() {
				entries[e.Identifier().String()] = e.ModificationType()
				if e.ModificationType() == Delete {
					assert.Nil(t, e.DataAfter())
					assert.NotNil(t, e.Data())
				}
			}
			assert.Equal(t, map[string]ModificationType{
				"(urn:test)l[k=1]": Unmodified,
				"(urn:test)l[k=2]": Delete,
				"(urn:test)l[k=3]": Write,
			}, entries)
		}
	}
}

func TestNewCandidate_Unmodified(t *testing.T) {
	build := func() NormalizedNode {
		return NewContainer(q("root"),
			NewContainer(q("c"), str("target")),
			NewUnkeyedList(q("u"), []NormalizedNode{str("a")}, []NormalizedNode{str("b")}),
		)
	}
	cand := NewCandidate(build(), build())
	assert.Equal(t, Unmodified, cand.Root().ModificationType())
	assert.Empty(t, cand.Root().Children())
}

func TestNewCandidate_NilTrees(t *testing.T) {
	after := NewContainer(q("root"), NewContainer(q("c"), str("target")))
	cand := NewCandidate(nil, after)
	assert.Equal(t, Write, cand.Root().ModificationType())
	require.Len(t, cand.Root().Children(), 1)
	assert.Equal(t, Write, cand.Root().Children()[0].ModificationType())

	cand = NewCandidate(after, nil)
	assert.Equal(t, Delete, cand.Root().ModificationType())
	assert.Nil(t, cand.Root().DataAfter())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b NormalizedNode
		want bool
	}{
		{name: "same leaf", a: str("a"), b: str("a"), want: true},
		{name: "different value", a: str("a"), b: NewLeaf(q("a"), utils.ConvertString("b")), want: false},
		{name: "kind mismatch", a: NewContainer(q("a")), b: NewChoice(q("a")), want: false},
		{
			name: "leafset order ignored",
			a:    NewLeafSet(q("ll"), utils.ConvertString("a"), utils.ConvertString("b")),
			b:    NewLeafSet(q("ll"), utils.ConvertString("b"), utils.ConvertString("a")),
			want: true,
		},
		{
			name: "unkeyed order matters",
			a:    NewUnkeyedList(q("u"), []NormalizedNode{str("a")}, []NormalizedNode{str("b")}),
			b:    NewUnkeyedList(q("u"), []NormalizedNode{str("b")}, []NormalizedNode{str("a")}),
			want: false,
		},
		{name: "nil", a: nil, b: nil, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}
