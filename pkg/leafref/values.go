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

package leafref

import (
	"fmt"

	"github.com/iptecharch/leafref-server/pkg/datatree"
	"github.com/iptecharch/leafref-server/pkg/leafref/lrefpath"
	"github.com/iptecharch/leafref-server/pkg/qname"
	"github.com/iptecharch/leafref-server/pkg/utils"
	"github.com/openconfig/gnmi/proto/gnmi"
)

// valueSet holds leaf values by their canonical string form.
type valueSet map[string]*gnmi.TypedValue

func (s valueSet) add(tv *gnmi.TypedValue) {
	s[utils.TypedValueToString(tv)] = tv
}

func (s valueSet) contains(tv *gnmi.TypedValue) bool {
	return s.has(utils.TypedValueToString(tv))
}

func (s valueSet) has(k string) bool {
	_, ok := s[k]
	return ok
}

// leafRefValueKey renders a leafref value the way its target type renders
// it, so 1.50 matches a decimal64 target 1.5. Text the target type rejects
// is kept as written.
func leafRefValueKey(lr *Context, tv *gnmi.TypedValue) string {
	s := utils.TypedValueToString(tv)
	if lr.TargetType() == nil {
		return s
	}
	c, err := utils.Convert(s, lr.TargetType())
	if err != nil {
		return s
	}
	return utils.TypedValueToString(c)
}

// canonical returns s keyed the way leafRefValueKey keys values of lr.
// Values a leafref target holds as written are brought into the form of the
// final target type.
func (s valueSet) canonical(lr *Context) valueSet {
	if lr.TargetType() == nil {
		return s
	}
	out := make(valueSet, len(s))
	for _, tv := range s {
		out[leafRefValueKey(lr, tv)] = tv
	}
	return out
}

// instanceValue is a leaf value with the data node holding it.
type instanceValue struct {
	path  datatree.InstanceIdentifier
	value *gnmi.TypedValue
}

// collectInstances appends the values found at steps below the node at pos.
// Leaf-list entries are returned one by one.
func collectInstances(out []instanceValue, pos position, steps []lrefpath.QNameWithPredicate) []instanceValue {
	node := pos.nodes[len(pos.nodes)-1]
	switch n := node.(type) {
	case datatree.ValueNode:
		return append(out, instanceValue{path: pos.path, value: n.Value()})
	case *datatree.LeafSetNode:
		for _, e := range n.Children() {
			out = append(out, instanceValue{path: pos.path.Node(e.Identifier()), value: e.(datatree.ValueNode).Value()})
		}
		return out
	}

	if len(steps) == 0 || steps[0].IsParent() {
		return out
	}
	arg := datatree.NodeIdentifier{QName: steps[0].QName()}

	switch n := node.(type) {
	case datatree.DataContainerNode:
		if child, ok := n.Child(arg); ok {
			return collectInstances(out, pos.child(child), steps[1:])
		}
		for _, mixin := range n.Children() {
			switch mixin.(type) {
			case *datatree.ChoiceNode, *datatree.AugmentationNode:
				out = collectInstances(out, pos.child(mixin), steps)
			}
		}
	case *datatree.MapNode:
		for _, e := range n.Entries() {
			out = collectInstances(out, pos.child(e), steps)
		}
	case *datatree.UnkeyedListNode:
		for _, e := range n.Entries() {
			out = collectInstances(out, pos.child(e), steps)
		}
	}
	return out
}

// String renders the values sorted, as [a b].
func (s valueSet) String() string {
	return "[" + utils.MapToString(s, " ", func(k string, _ *gnmi.TypedValue) string { return k }) + "]"
}

// position is the data node under validation with its ancestors, from the
// data root down.
type position struct {
	path  datatree.InstanceIdentifier
	nodes []datatree.NormalizedNode
}

func rootPosition(root datatree.NormalizedNode) position {
	return position{nodes: []datatree.NormalizedNode{root}}
}

func (p position) child(n datatree.NormalizedNode) position {
	nodes := make([]datatree.NormalizedNode, len(p.nodes), len(p.nodes)+1)
	copy(nodes, p.nodes)
	return position{
		path:  p.path.Node(n.Identifier()),
		nodes: append(nodes, n),
	}
}

// ancestor climbs ups data levels from the current node. List entries climb
// out of their list as well, choice and augmentation wrappers are passed
// through.
func (p position) ancestor(ups int) (datatree.NormalizedNode, error) {
	idx := len(p.nodes) - 1
	for i := 0; i < ups; i++ {
		idx--
		for idx >= 0 && transparent(p.nodes[idx]) {
			idx--
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: %w: %d parent steps from %s", ErrInconsistentData, ErrParentUnderflow, ups, p.path)
		}
	}
	return p.nodes[idx], nil
}

func transparent(n datatree.NormalizedNode) bool {
	switch n.(type) {
	case *datatree.ChoiceNode, *datatree.AugmentationNode, *datatree.MapNode, *datatree.UnkeyedListNode:
		return true
	}
	return false
}

// computeValues collects the values found at path below node. With cur set,
// list entries are filtered by the predicates of the step that reached
// their list, evaluated relative to cur.
func (v *validation) computeValues(node datatree.NormalizedNode, path *lrefpath.LeafRefPath, cur *position) (valueSet, error) {
	values := valueSet{}
	if node == nil || path == nil {
		return values, nil
	}
	err := v.addValues(values, node, nil, path.PathFromRoot(), cur)
	return values, err
}

func (v *validation) addValues(values valueSet, node datatree.NormalizedNode, nodePredicates []lrefpath.QNamePredicate,
	steps []lrefpath.QNameWithPredicate, cur *position) error {
	switch n := node.(type) {
	case datatree.ValueNode:
		values.add(n.Value())
		return nil
	case *datatree.LeafSetNode:
		for _, tv := range n.Values() {
			values.add(tv)
		}
		return nil
	}

	if len(steps) == 0 || steps[0].IsParent() {
		return nil
	}
	next := steps[0]
	arg := datatree.NodeIdentifier{QName: next.QName()}

	switch n := node.(type) {
	case datatree.DataContainerNode:
		return v.processChildNode(values, n, arg, next.Predicates(), steps, cur)
	case *datatree.MapNode:
		entries := n.Entries()
		if len(nodePredicates) > 0 && cur != nil {
			keep, err := v.mapEntryFilter(nodePredicates, *cur)
			if err != nil {
				return err
			}
			filtered := entries[:0:0]
			for _, e := range entries {
				if keep(e) {
					filtered = append(filtered, e)
				}
			}
			entries = filtered
		}
		for _, e := range entries {
			if err := v.processChildNode(values, e, arg, next.Predicates(), steps, cur); err != nil {
				return err
			}
		}
	case *datatree.UnkeyedListNode:
		for _, e := range n.Entries() {
			if err := v.processChildNode(values, e, arg, next.Predicates(), steps, cur); err != nil {
				return err
			}
		}
	}
	return nil
}

// processChildNode continues below the child arg of parent. A child not
// found directly is searched for in the choice and augmentation wrappers of
// parent.
func (v *validation) processChildNode(values valueSet, parent datatree.DataContainerNode, arg datatree.PathArgument,
	nodePredicates []lrefpath.QNamePredicate, steps []lrefpath.QNameWithPredicate, cur *position) error {
	child, ok := parent.Child(arg)
	if ok {
		return v.addValues(values, child, nodePredicates, steps[1:], cur)
	}
	for _, mixin := range parent.Children() {
		switch mixin.(type) {
		case *datatree.ChoiceNode, *datatree.AugmentationNode:
			if err := v.addValues(values, mixin, nodePredicates, steps, cur); err != nil {
				return err
			}
		}
	}
	return nil
}

// mapEntryFilter evaluates the predicates against cur. An entry passes if
// every key that is constrained holds one of the permitted values.
func (v *validation) mapEntryFilter(predicates []lrefpath.QNamePredicate, cur position) (func(*datatree.MapEntryNode) bool, error) {
	keyValues := make(map[qname.QName]valueSet, len(predicates))
	for _, p := range predicates {
		allowed, err := v.pathKeyExpressionValues(p.PathKeyExpression(), cur)
		if err != nil {
			return nil, err
		}
		keyValues[p.Identifier()] = allowed
	}
	return func(e *datatree.MapEntryNode) bool {
		for _, kv := range e.EntryIdentifier().KeyValues() {
			allowed, ok := keyValues[kv.Key]
			if ok && !allowed.contains(kv.Value) {
				return false
			}
		}
		return true
	}, nil
}

// pathKeyExpressionValues evaluates current()/<expr> for the node at cur.
func (v *validation) pathKeyExpressionValues(expr *lrefpath.LeafRefPath, cur position) (valueSet, error) {
	if expr == nil {
		return valueSet{}, nil
	}
	ups, rest := expr.SplitParentSteps()
	start, err := cur.ancestor(ups)
	if err != nil {
		return nil, err
	}
	values := valueSet{}
	if err := v.addValues(values, start, nil, rest, nil); err != nil {
		return nil, err
	}
	return values, nil
}
