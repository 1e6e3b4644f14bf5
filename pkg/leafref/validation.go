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
	"github.com/iptecharch/leafref-server/pkg/qname"
	"github.com/iptecharch/leafref-server/pkg/utils"
	log "github.com/sirupsen/logrus"
)

const (
	failed  = " -> FAILED"
	success = " -> OK"
)

// Result is the outcome of one validation run.
type Result struct {
	Messages []string
	Warnings []string
}

type ValidateOption func(*validation)

// WithStrictOptionalInstance reports violations of require-instance false
// leafrefs as errors instead of warnings.
func WithStrictOptionalInstance() ValidateOption {
	return func(v *validation) {
		v.strictOptional = true
	}
}

// Validate checks the leafrefs touched by c against the tree after the
// change. It returns a *ValidationFailedError listing all violations, or an
// error wrapping ErrInconsistentData if the data does not fit the index.
func Validate(c *datatree.Candidate, root *Context, opts ...ValidateOption) error {
	res, err := Run(c, root, opts...)
	if err != nil {
		return err
	}
	if len(res.Messages) == 0 {
		return nil
	}
	return &ValidationFailedError{
		Count:    len(res.Messages),
		Messages: res.Messages,
		Warnings: res.Warnings,
	}
}

// Run is Validate returning violations and warnings as a Result.
func Run(c *datatree.Candidate, root *Context, opts ...ValidateOption) (*Result, error) {
	res := &Result{}
	if c == nil || c.Root() == nil || c.Root().DataAfter() == nil || root == nil {
		return res, nil
	}
	v := &validation{
		root:      c.Root().DataAfter(),
		validated: map[*Context]struct{}{},
		reported:  map[violation]struct{}{},
	}
	for _, o := range opts {
		o(v)
	}
	if err := v.validateChildren(root, c.Root().Children()); err != nil {
		return nil, err
	}
	res.Messages = v.messages
	res.Warnings = v.warnings
	return res, nil
}

// violation is a leafref instance found invalid, from either side.
type violation struct {
	leafRef  *Context
	instance string
	value    string
}

// validation is the scratch state of one run.
type validation struct {
	// data root after the change
	root           datatree.NormalizedNode
	validated      map[*Context]struct{}
	reported       map[violation]struct{}
	messages       []string
	warnings       []string
	strictOptional bool
}

func (v *validation) validateChildren(rootCtx *Context, children []*datatree.CandidateNode) error {
	pos := rootPosition(v.root)
	for _, n := range children {
		if n.ModificationType() == datatree.Unmodified {
			continue
		}
		referencedByCtx := referencedByChild(rootCtx, n)
		referencingCtx := referencingChild(rootCtx, n)
		if referencedByCtx == nil && referencingCtx == nil {
			continue
		}
		if err := v.validateNode(n, referencedByCtx, referencingCtx, pos); err != nil {
			return err
		}
	}
	return nil
}

func (v *validation) validateNode(n *datatree.CandidateNode, referencedByCtx, referencingCtx *Context, parent position) error {
	data := n.Data()
	if data == nil {
		return fmt.Errorf("%w: no data before or after the change at %s", ErrInconsistentData, parent.path.Node(n.Identifier()))
	}
	pos := parent.child(data)

	switch n.ModificationType() {
	case datatree.Write:
		if n.DataAfter() != nil {
			return v.validateNodeData(n.DataAfter(), referencedByCtx, referencingCtx, n.ModificationType(), pos)
		}
	case datatree.Delete:
		if referencedByCtx != nil {
			return v.validateNodeData(n.DataBefore(), referencedByCtx, nil, n.ModificationType(), pos)
		}
	}

	for _, child := range n.Children() {
		if child.ModificationType() == datatree.Unmodified {
			continue
		}
		childReferencedByCtx := referencedByChild(referencedByCtx, child)
		childReferencingCtx := referencingChild(referencingCtx, child)
		if childReferencedByCtx == nil && childReferencingCtx == nil {
			continue
		}
		if err := v.validateNode(child, childReferencedByCtx, childReferencingCtx, pos); err != nil {
			return err
		}
	}
	return nil
}

// referencingChild finds the context of a candidate child. List entries and
// augmentations have no index level of their own and stay at ctx.
func referencingChild(ctx *Context, n *datatree.CandidateNode) *Context {
	if ctx == nil {
		return nil
	}
	q := n.Identifier().NodeType()
	if ctx.choice {
		return referencingUnderChoice(ctx, q)
	}
	if c := ctx.ReferencingChildByName(q); c != nil {
		return c
	}
	if staysAtContext(n.Data()) {
		return ctx
	}
	return nil
}

func referencedByChild(ctx *Context, n *datatree.CandidateNode) *Context {
	if ctx == nil {
		return nil
	}
	q := n.Identifier().NodeType()
	if ctx.choice {
		return referencedByUnderChoice(ctx, q)
	}
	if c := ctx.ReferencedChildByName(q); c != nil {
		return c
	}
	if staysAtContext(n.Data()) {
		return ctx
	}
	return nil
}

func staysAtContext(n datatree.NormalizedNode) bool {
	switch n.(type) {
	case *datatree.MapEntryNode, *datatree.UnkeyedListEntryNode, *datatree.AugmentationNode:
		return true
	}
	return false
}

// referencingUnderChoice looks q up in the cases of a choice context.
func referencingUnderChoice(ctx *Context, q qname.QName) *Context {
	for _, caseCtx := range ctx.ReferencingChildren() {
		if c := caseCtx.ReferencingChildByName(q); c != nil {
			return c
		}
	}
	return nil
}

func referencedByUnderChoice(ctx *Context, q qname.QName) *Context {
	for _, caseCtx := range ctx.ReferencedByChildren() {
		if c := caseCtx.ReferencedChildByName(q); c != nil {
			return c
		}
	}
	return nil
}

func (v *validation) validateNodeData(node datatree.NormalizedNode, referencedByCtx, referencingCtx *Context,
	mod datatree.ModificationType, pos position) error {
	switch n := node.(type) {
	case *datatree.LeafNode:
		return v.validateValue(n, referencedByCtx, referencingCtx, mod, pos)
	case *datatree.LeafSetNode:
		for _, e := range n.Children() {
			if err := v.validateValue(e.(datatree.ValueNode), referencedByCtx, referencingCtx, mod, pos); err != nil {
				return err
			}
		}
	case *datatree.ChoiceNode:
		for _, child := range n.Children() {
			q := child.Identifier().NodeType()
			var childReferencedByCtx, childReferencingCtx *Context
			if referencedByCtx != nil {
				childReferencedByCtx = referencedByUnderChoice(referencedByCtx, q)
			}
			if referencingCtx != nil {
				childReferencingCtx = referencingUnderChoice(referencingCtx, q)
			}
			if childReferencedByCtx == nil && childReferencingCtx == nil {
				continue
			}
			if err := v.validateNodeData(child, childReferencedByCtx, childReferencingCtx, mod, pos.child(child)); err != nil {
				return err
			}
		}
	case datatree.DataContainerNode:
		return v.validateDataContainerChildren(n, referencedByCtx, referencingCtx, mod, pos)
	case *datatree.MapNode:
		for _, e := range n.Entries() {
			if err := v.validateDataContainerChildren(e, referencedByCtx, referencingCtx, mod, pos.child(e)); err != nil {
				return err
			}
		}
	case *datatree.UnkeyedListNode:
		for _, e := range n.Entries() {
			if err := v.validateDataContainerChildren(e, referencedByCtx, referencingCtx, mod, pos.child(e)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *validation) validateDataContainerChildren(n datatree.DataContainerNode, referencedByCtx, referencingCtx *Context,
	mod datatree.ModificationType, pos position) error {
	for _, child := range n.Children() {
		if _, ok := child.(*datatree.AugmentationNode); ok {
			if err := v.validateNodeData(child, referencedByCtx, referencingCtx, mod, pos.child(child)); err != nil {
				return err
			}
			continue
		}
		q := child.Identifier().NodeType()
		var childReferencedByCtx, childReferencingCtx *Context
		if referencedByCtx != nil {
			childReferencedByCtx = referencedByCtx.ReferencedChildByName(q)
		}
		if referencingCtx != nil {
			childReferencingCtx = referencingCtx.ReferencingChildByName(q)
		}
		if childReferencedByCtx == nil && childReferencingCtx == nil {
			continue
		}
		if err := v.validateNodeData(child, childReferencedByCtx, childReferencingCtx, mod, pos.child(child)); err != nil {
			return err
		}
	}
	return nil
}

func (v *validation) validateValue(node datatree.ValueNode, referencedByCtx, referencingCtx *Context,
	mod datatree.ModificationType, pos position) error {
	if referencedByCtx != nil && referencedByCtx.IsReferenced() {
		if err := v.validateLeafRefTargetNodeData(node, referencedByCtx, mod); err != nil {
			return err
		}
	}
	if referencingCtx != nil && referencingCtx.IsReferencing() {
		return v.validateLeafRefNodeData(node, referencingCtx, mod, pos)
	}
	return nil
}

// validateLeafRefTargetNodeData re-checks every leafref targeting the node.
// Each target is checked once per run.
func (v *validation) validateLeafRefTargetNodeData(node datatree.ValueNode, referencedByCtx *Context, mod datatree.ModificationType) error {
	value := utils.TypedValueToString(node.Value())
	if _, ok := v.validated[referencedByCtx]; ok {
		log.Tracef("Operation [%s] validate data of leafref TARGET node: name[%s] = value[%s] -> SKIP: Already validated",
			mod, referencedByCtx.NodeName(), value)
		return nil
	}
	v.validated[referencedByCtx] = struct{}{}

	log.Tracef("Operation [%s] validate data of leafref TARGET node: name[%s] = value[%s]", mod, referencedByCtx.NodeName(), value)
	var leafRefs []*Context
	for _, lr := range referencedByCtx.AllReferencedByLeafRefCtxs() {
		if lr.IsReferencing() {
			leafRefs = append(leafRefs, lr)
		}
	}
	if len(leafRefs) == 0 {
		return nil
	}

	targetValues, err := v.computeValues(v.root, referencedByCtx.CurrentNodePath(), nil)
	if err != nil {
		return err
	}
	for _, lr := range leafRefs {
		allowed := targetValues.canonical(lr)
		for _, inst := range collectInstances(nil, rootPosition(v.root), lr.CurrentNodePath().PathFromRoot()) {
			lrValue := utils.TypedValueToString(inst.value)
			if allowed.has(leafRefValueKey(lr, inst.value)) {
				log.Tracef("Valid leafref value [%s] at %s%s", lrValue, inst.path, success)
				continue
			}
			msg := fmt.Sprintf("Invalid leafref value [%s] allowed values %s by validation of leafref TARGET node: %s path of invalid LEAFREF node: %s leafRef target path: %s%s",
				lrValue, allowed, node.Identifier().NodeType(), inst.path, lr.AbsoluteLeafRefTargetPath(), failed)
			v.report(lr, inst.path, lrValue, msg)
		}
	}
	return nil
}

func (v *validation) validateLeafRefNodeData(node datatree.ValueNode, referencingCtx *Context, mod datatree.ModificationType, pos position) error {
	values, err := v.computeValues(v.root, referencingCtx.AbsoluteLeafRefTargetPath(), &pos)
	if err != nil {
		return err
	}
	values = values.canonical(referencingCtx)
	instance := pos.path
	if _, ok := node.(*datatree.LeafSetEntryNode); ok {
		instance = pos.path.Node(node.Identifier())
	}
	value := utils.TypedValueToString(node.Value())
	if values.has(leafRefValueKey(referencingCtx, node.Value())) {
		log.Debugf("Operation [%s] validate data of LEAFREF node: name[%s] = value[%s]%s", mod, referencingCtx.NodeName(), value, success)
		return nil
	}
	log.Debugf("Operation [%s] validate data of LEAFREF node: name[%s] = value[%s]%s", mod, referencingCtx.NodeName(), value, failed)
	v.report(referencingCtx, instance, value, fmt.Sprintf("Invalid leafref value [%s] allowed values %s of LEAFREF node: %s leafRef target path: %s",
		value, values, instance, referencingCtx.AbsoluteLeafRefTargetPath()))
	return nil
}

// report records a violation of a leafref instance once, whichever side
// found it first. Leafrefs with require-instance false only warn unless
// strict.
func (v *validation) report(leafRef *Context, instance datatree.InstanceIdentifier, value, msg string) {
	k := violation{leafRef: leafRef, instance: instance.String(), value: value}
	if _, ok := v.reported[k]; ok {
		log.Tracef("%s -> SKIP: Already reported", msg)
		return
	}
	v.reported[k] = struct{}{}
	if leafRef.IsOptionalInstance() && !v.strictOptional {
		log.Warn(msg)
		v.warnings = append(v.warnings, msg)
		return
	}
	log.Debug(msg)
	v.messages = append(v.messages, msg)
}
