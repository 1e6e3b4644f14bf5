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
	"github.com/iptecharch/leafref-server/pkg/qname"
	"github.com/openconfig/gnmi/proto/gnmi"
)

// NormalizedNode is a node of the data tree. Trees are built once and not
// modified afterwards.
type NormalizedNode interface {
	Identifier() PathArgument
}

// ValueNode is a leaf or a leaf-list entry.
type ValueNode interface {
	NormalizedNode
	Value() *gnmi.TypedValue
}

// ParentNode is a node with addressable children.
type ParentNode interface {
	NormalizedNode
	// Children returns the children in insertion order.
	Children() []NormalizedNode
	Child(arg PathArgument) (NormalizedNode, bool)
}

// DataContainerNode is a node whose children are data nodes of different
// kinds: containers, list entries, choices and augmentations. Lists and
// leaf-lists are parents but not data containers.
type DataContainerNode interface {
	ParentNode
	isDataContainer()
}

type childSet struct {
	order []NormalizedNode
	index map[string]int
}

func newChildSet(children []NormalizedNode) childSet {
	cs := childSet{
		order: make([]NormalizedNode, 0, len(children)),
		index: make(map[string]int, len(children)),
	}
	for _, c := range children {
		cs.add(c)
	}
	return cs
}

// add appends c, replacing an earlier child with the same identifier.
func (cs *childSet) add(c NormalizedNode) {
	if c == nil {
		return
	}
	k := c.Identifier().Key()
	if i, ok := cs.index[k]; ok {
		cs.order[i] = c
		return
	}
	cs.index[k] = len(cs.order)
	cs.order = append(cs.order, c)
}

func (cs *childSet) Children() []NormalizedNode {
	return cs.order
}

func (cs *childSet) Child(arg PathArgument) (NormalizedNode, bool) {
	i, ok := cs.index[arg.Key()]
	if !ok {
		return nil, false
	}
	return cs.order[i], true
}

type LeafNode struct {
	id    NodeIdentifier
	value *gnmi.TypedValue
}

func NewLeaf(q qname.QName, v *gnmi.TypedValue) *LeafNode {
	return &LeafNode{id: NodeIdentifier{QName: q}, value: v}
}

func (n *LeafNode) Identifier() PathArgument { return n.id }
func (n *LeafNode) Value() *gnmi.TypedValue  { return n.value }

type LeafSetEntryNode struct {
	id NodeWithValue
}

func (n *LeafSetEntryNode) Identifier() PathArgument { return n.id }
func (n *LeafSetEntryNode) Value() *gnmi.TypedValue  { return n.id.Value }

type LeafSetNode struct {
	id NodeIdentifier
	childSet
}

// NewLeafSet returns a leaf-list holding values in order. Duplicate values
// collapse into one entry.
func NewLeafSet(q qname.QName, values ...*gnmi.TypedValue) *LeafSetNode {
	entries := make([]NormalizedNode, 0, len(values))
	for _, v := range values {
		entries = append(entries, &LeafSetEntryNode{id: NodeWithValue{QName: q, Value: v}})
	}
	return &LeafSetNode{id: NodeIdentifier{QName: q}, childSet: newChildSet(entries)}
}

func (n *LeafSetNode) Identifier() PathArgument { return n.id }

// Values returns the entry values in order.
func (n *LeafSetNode) Values() []*gnmi.TypedValue {
	values := make([]*gnmi.TypedValue, 0, len(n.order))
	for _, e := range n.order {
		values = append(values, e.(*LeafSetEntryNode).Value())
	}
	return values
}

type ContainerNode struct {
	id NodeIdentifier
	childSet
}

func NewContainer(q qname.QName, children ...NormalizedNode) *ContainerNode {
	return &ContainerNode{id: NodeIdentifier{QName: q}, childSet: newChildSet(children)}
}

func (n *ContainerNode) Identifier() PathArgument { return n.id }
func (n *ContainerNode) isDataContainer()         {}

// ChoiceNode wraps the data nodes of the active case of a choice.
type ChoiceNode struct {
	id NodeIdentifier
	childSet
}

func NewChoice(q qname.QName, children ...NormalizedNode) *ChoiceNode {
	return &ChoiceNode{id: NodeIdentifier{QName: q}, childSet: newChildSet(children)}
}

func (n *ChoiceNode) Identifier() PathArgument { return n.id }
func (n *ChoiceNode) isDataContainer()         {}

// AugmentationNode wraps the data nodes one augment statement adds.
type AugmentationNode struct {
	id AugmentationIdentifier
	childSet
}

func NewAugmentation(children ...NormalizedNode) *AugmentationNode {
	names := make([]qname.QName, 0, len(children))
	for _, c := range children {
		names = append(names, c.Identifier().NodeType())
	}
	return &AugmentationNode{
		id:       AugmentationIdentifier{ChildNames: names},
		childSet: newChildSet(children),
	}
}

func (n *AugmentationNode) Identifier() PathArgument { return n.id }
func (n *AugmentationNode) isDataContainer()         {}

type MapEntryNode struct {
	id NodeIdentifierWithPredicates
	childSet
}

// NewMapEntry returns a list entry. The key leaves are expected among
// children.
func NewMapEntry(id NodeIdentifierWithPredicates, children ...NormalizedNode) *MapEntryNode {
	return &MapEntryNode{id: id, childSet: newChildSet(children)}
}

func (n *MapEntryNode) Identifier() PathArgument { return n.id }
func (n *MapEntryNode) isDataContainer()         {}

// EntryIdentifier returns the typed identifier of the entry.
func (n *MapEntryNode) EntryIdentifier() NodeIdentifierWithPredicates { return n.id }

// MapNode is a keyed list.
type MapNode struct {
	id NodeIdentifier
	childSet
}

func NewMap(q qname.QName, entries ...*MapEntryNode) *MapNode {
	children := make([]NormalizedNode, 0, len(entries))
	for _, e := range entries {
		children = append(children, e)
	}
	return &MapNode{id: NodeIdentifier{QName: q}, childSet: newChildSet(children)}
}

func (n *MapNode) Identifier() PathArgument { return n.id }

// Entries returns the list entries in order.
func (n *MapNode) Entries() []*MapEntryNode {
	entries := make([]*MapEntryNode, 0, len(n.order))
	for _, e := range n.order {
		entries = append(entries, e.(*MapEntryNode))
	}
	return entries
}

type UnkeyedListEntryNode struct {
	id NodeIdentifier
	childSet
}

func (n *UnkeyedListEntryNode) Identifier() PathArgument { return n.id }
func (n *UnkeyedListEntryNode) isDataContainer()         {}

// Children of an unkeyed list entry are found by identifier, entries
// themselves are addressed by position only.
type UnkeyedListNode struct {
	id      NodeIdentifier
	entries []*UnkeyedListEntryNode
}

// NewUnkeyedList returns a list without keys, one entry per children slice.
func NewUnkeyedList(q qname.QName, entries ...[]NormalizedNode) *UnkeyedListNode {
	n := &UnkeyedListNode{id: NodeIdentifier{QName: q}}
	for _, children := range entries {
		n.entries = append(n.entries, &UnkeyedListEntryNode{
			id:       NodeIdentifier{QName: q},
			childSet: newChildSet(children),
		})
	}
	return n
}

func (n *UnkeyedListNode) Identifier() PathArgument { return n.id }

func (n *UnkeyedListNode) Entries() []*UnkeyedListEntryNode {
	return n.entries
}

// DirectChild returns the child of node addressed by arg.
func DirectChild(node NormalizedNode, arg PathArgument) (NormalizedNode, bool) {
	if p, ok := node.(ParentNode); ok {
		return p.Child(arg)
	}
	return nil, false
}

// FindNode walks id down from root.
func FindNode(root NormalizedNode, id InstanceIdentifier) (NormalizedNode, bool) {
	cur := root
	for _, arg := range id.PathArguments() {
		next, ok := DirectChild(cur, arg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// RootName names the data root container. It belongs to no module.
var RootName = qname.QName{Local: "root"}

// NewRoot returns a data root holding the top level nodes.
func NewRoot(children ...NormalizedNode) *ContainerNode {
	return NewContainer(RootName, children...)
}
