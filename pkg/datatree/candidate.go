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
	"google.golang.org/protobuf/proto"
)

type ModificationType int

const (
	Unmodified ModificationType = iota
	// Write stores a new node or replaces the node and its subtree.
	Write
	Delete
	// SubtreeModified marks a node that exists in both trees with at least
	// one modified descendant.
	SubtreeModified
)

func (m ModificationType) String() string {
	switch m {
	case Unmodified:
		return "UNMODIFIED"
	case Write:
		return "WRITE"
	case Delete:
		return "DELETE"
	case SubtreeModified:
		return "SUBTREE_MODIFIED"
	}
	return "UNKNOWN"
}

// CandidateNode is the change of one data node between two trees.
type CandidateNode struct {
	identifier   PathArgument
	modification ModificationType
	dataBefore   NormalizedNode
	dataAfter    NormalizedNode
	children     []*CandidateNode
}

func (n *CandidateNode) Identifier() PathArgument           { return n.identifier }
func (n *CandidateNode) ModificationType() ModificationType { return n.modification }

// DataBefore is the node in the tree before the change, nil if it did not
// exist.
func (n *CandidateNode) DataBefore() NormalizedNode { return n.dataBefore }

// DataAfter is the node in the tree after the change, nil if it was deleted.
func (n *CandidateNode) DataAfter() NormalizedNode { return n.dataAfter }

// Children returns the candidates of the child nodes present in either tree.
func (n *CandidateNode) Children() []*CandidateNode { return n.children }

// Data returns the node after the change, or before it for deletions.
func (n *CandidateNode) Data() NormalizedNode {
	if n.dataAfter != nil {
		return n.dataAfter
	}
	return n.dataBefore
}

// Candidate is the difference between two versions of a data tree.
type Candidate struct {
	root *CandidateNode
}

func (c *Candidate) Root() *CandidateNode {
	return c.root
}

// NewCandidate computes the candidate turning before into after. Either tree
// may be nil.
func NewCandidate(before, after NormalizedNode) *Candidate {
	var id PathArgument
	switch {
	case after != nil:
		id = after.Identifier()
	case before != nil:
		id = before.Identifier()
	}
	return &Candidate{root: diff(id, before, after)}
}

func diff(id PathArgument, before, after NormalizedNode) *CandidateNode {
	n := &CandidateNode{identifier: id, dataBefore: before, dataAfter: after}
	switch {
	case before == nil && after == nil:
		n.modification = Unmodified
	case before == nil:
		n.modification = Write
		n.children = childCandidates(nil, after)
	case after == nil:
		n.modification = Delete
		n.children = childCandidates(before, nil)
	default:
		n.modification = compare(before, after)
		if n.modification == Unmodified {
			return n
		}
		n.children = childCandidates(before, after)
		if n.modification == SubtreeModified && !anyModified(n.children) {
			n.modification = Unmodified
			n.children = nil
		}
	}
	return n
}

// compare classifies a node present in both trees. Data containers and keyed
// lists report SubtreeModified and leave the decision to their children.
// Leaf-lists and unkeyed lists are compared as a whole.
func compare(before, after NormalizedNode) ModificationType {
	if !sameKind(before, after) {
		return Write
	}
	switch after.(type) {
	case DataContainerNode, *MapNode:
		return SubtreeModified
	}
	if Equal(before, after) {
		return Unmodified
	}
	return Write
}

func anyModified(children []*CandidateNode) bool {
	for _, c := range children {
		if c.modification != Unmodified {
			return true
		}
	}
	return false
}

func childCandidates(before, after NormalizedNode) []*CandidateNode {
	var bp, ap ParentNode
	if p, ok := before.(ParentNode); ok {
		bp = p
	}
	if p, ok := after.(ParentNode); ok {
		ap = p
	}
	var result []*CandidateNode
	if bp != nil {
		for _, b := range bp.Children() {
			var a NormalizedNode
			if ap != nil {
				a, _ = ap.Child(b.Identifier())
			}
			result = append(result, diff(b.Identifier(), b, a))
		}
	}
	if ap != nil {
		for _, a := range ap.Children() {
			if bp != nil {
				if _, ok := bp.Child(a.Identifier()); ok {
					continue
				}
			}
			result = append(result, diff(a.Identifier(), nil, a))
		}
	}
	return result
}

func sameKind(a, b NormalizedNode) bool {
	switch a.(type) {
	case *LeafNode:
		_, ok := b.(*LeafNode)
		return ok
	case *LeafSetEntryNode:
		_, ok := b.(*LeafSetEntryNode)
		return ok
	case *LeafSetNode:
		_, ok := b.(*LeafSetNode)
		return ok
	case *ContainerNode:
		_, ok := b.(*ContainerNode)
		return ok
	case *ChoiceNode:
		_, ok := b.(*ChoiceNode)
		return ok
	case *AugmentationNode:
		_, ok := b.(*AugmentationNode)
		return ok
	case *MapNode:
		_, ok := b.(*MapNode)
		return ok
	case *MapEntryNode:
		_, ok := b.(*MapEntryNode)
		return ok
	case *UnkeyedListNode:
		_, ok := b.(*UnkeyedListNode)
		return ok
	case *UnkeyedListEntryNode:
		_, ok := b.(*UnkeyedListEntryNode)
		return ok
	}
	return false
}

// Equal reports whether a and b are the same subtree. Leaf values are
// compared with proto.Equal, children regardless of order except for
// unkeyed list entries.
func Equal(a, b NormalizedNode) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !sameKind(a, b) || a.Identifier().Key() != b.Identifier().Key() {
		return false
	}
	switch a := a.(type) {
	case ValueNode:
		return proto.Equal(a.Value(), b.(ValueNode).Value())
	case *UnkeyedListNode:
		be := b.(*UnkeyedListNode).Entries()
		if len(a.entries) != len(be) {
			return false
		}
		for i := range a.entries {
			if !Equal(a.entries[i], be[i]) {
				return false
			}
		}
		return true
	case ParentNode:
		bp := b.(ParentNode)
		if len(a.Children()) != len(bp.Children()) {
			return false
		}
		for _, c := range a.Children() {
			other, ok := bp.Child(c.Identifier())
			if !ok || !Equal(c, other) {
				return false
			}
		}
		return true
	}
	return false
}
