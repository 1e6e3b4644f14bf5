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
	"maps"
	"sync/atomic"

	"github.com/iptecharch/leafref-server/pkg/leafref/lrefpath"
	"github.com/iptecharch/leafref-server/pkg/qname"
	"github.com/openconfig/goyang/pkg/yang"
	log "github.com/sirupsen/logrus"
)

// Context is one node of the leafref index. The index mirrors the schema
// tree, keeping only the nodes that are leafrefs, leafref targets or
// ancestors of either. A Context is never modified once built and may be
// shared by concurrent validations.
type Context struct {
	qname       qname.QName
	entry       *yang.Entry
	module      *yang.Module
	currentPath *lrefpath.LeafRefPath
	// choice and case levels have no data node of their own
	choice bool

	referencing      bool
	referenced       bool
	optionalInstance bool
	targetPathString string
	targetPath       *lrefpath.LeafRefPath
	absoluteTarget   atomic.Pointer[lrefpath.LeafRefPath]
	// type of the leaf the value finally refers to, leafref chains followed
	valueType *yang.YangType

	referencingChildren  map[qname.QName]*Context
	referencedByChildren map[qname.QName]*Context
	referencedByByName   map[qname.QName]*Context
	referencedBy         []*Context

	// set on the root only
	leafRefs []*Context
	targets  []*Context
}

func (c *Context) QName() qname.QName {
	return c.qname
}

// NodeName is the local name of the schema node.
func (c *Context) NodeName() string {
	return c.qname.Local
}

// CurrentNodePath is the absolute schema path of the node, choice and case
// levels left out.
func (c *Context) CurrentNodePath() *lrefpath.LeafRefPath {
	return c.currentPath
}

// Entry is the schema node, nil for the root.
func (c *Context) Entry() *yang.Entry {
	return c.entry
}

// Module is the module whose namespace the node is instantiated in.
func (c *Context) Module() *yang.Module {
	return c.module
}

func (c *Context) IsReferencing() bool {
	return c.referencing
}

func (c *Context) IsReferenced() bool {
	return c.referenced
}

// IsOptionalInstance reports require-instance false on a leafref.
func (c *Context) IsOptionalInstance() bool {
	return c.optionalInstance
}

// LeafRefTargetPathString is the path statement argument as written.
func (c *Context) LeafRefTargetPathString() string {
	return c.targetPathString
}

// LeafRefTargetPath is the parsed path statement, relative or absolute as
// written.
func (c *Context) LeafRefTargetPath() *lrefpath.LeafRefPath {
	return c.targetPath
}

// AbsoluteLeafRefTargetPath returns the target path resolved against the
// node location. It is computed on first use. Nil for nodes that are not
// leafrefs.
func (c *Context) AbsoluteLeafRefTargetPath() *lrefpath.LeafRefPath {
	p, err := c.absoluteLeafRefTargetPath()
	if err != nil {
		log.Errorf("leafref %s: %v", c.currentPath, err)
		return nil
	}
	return p
}

func (c *Context) absoluteLeafRefTargetPath() (*lrefpath.LeafRefPath, error) {
	if !c.referencing {
		return nil, nil
	}
	if p := c.absoluteTarget.Load(); p != nil {
		return p, nil
	}
	p, err := ToAbsolute(c.targetPath, c.currentPath)
	if err != nil {
		return nil, err
	}
	c.absoluteTarget.Store(p)
	return p, nil
}

// TargetType is the type of the node the leafref points at, following
// chains of leafrefs. Nil if the target is not in the schema or the chain
// loops.
func (c *Context) TargetType() *yang.YangType {
	return c.valueType
}

func (c *Context) ReferencingChildByName(q qname.QName) *Context {
	return c.referencingChildren[q]
}

func (c *Context) ReferencedChildByName(q qname.QName) *Context {
	return c.referencedByChildren[q]
}

// ReferencingChildren returns the children on the way to leafrefs. The map
// must not be modified.
func (c *Context) ReferencingChildren() map[qname.QName]*Context {
	return c.referencingChildren
}

// ReferencedByChildren returns the children on the way to leafref targets.
// The map must not be modified.
func (c *Context) ReferencedByChildren() map[qname.QName]*Context {
	return c.referencedByChildren
}

// AllReferencedByLeafRefCtxs returns the leafrefs targeting this node, in
// schema path order.
func (c *Context) AllReferencedByLeafRefCtxs() []*Context {
	return c.referencedBy
}

// ReferencedByLeafRefCtxByName returns the leafref named q targeting this
// node. With several such leafrefs the first in schema path order wins.
func (c *Context) ReferencedByLeafRefCtxByName(q qname.QName) *Context {
	return c.referencedByByName[q]
}

func (c *Context) HasReferencingChild() bool {
	return len(c.referencingChildren) > 0
}

func (c *Context) HasReferencedChild() bool {
	return len(c.referencedByChildren) > 0
}

// HasLeafRefContextChild reports whether any leafref relationship exists
// below c.
func (c *Context) HasLeafRefContextChild() bool {
	return c.HasReferencingChild() || c.HasReferencedChild()
}

// LeafRefs returns every leafref of the schema. Only the root holds it.
func (c *Context) LeafRefs() []*Context {
	return c.leafRefs
}

// Targets returns every leafref target of the schema. Only the root holds
// it.
func (c *Context) Targets() []*Context {
	return c.targets
}

// contextBuilder accumulates the children of a Context during the build.
type contextBuilder struct {
	ctx                  *Context
	referencingChildren  map[qname.QName]*Context
	referencedByChildren map[qname.QName]*Context
	referencedByByName   map[qname.QName]*Context
	referencedBy         []*Context
}

func newContextBuilder(q qname.QName, path *lrefpath.LeafRefPath) *contextBuilder {
	return &contextBuilder{
		ctx: &Context{
			qname:       q,
			currentPath: path,
		},
		referencingChildren:  map[qname.QName]*Context{},
		referencedByChildren: map[qname.QName]*Context{},
		referencedByByName:   map[qname.QName]*Context{},
	}
}

func (b *contextBuilder) addReferencingChild(c *Context) {
	b.referencingChildren[c.qname] = c
}

func (b *contextBuilder) addReferencedByChild(c *Context) {
	b.referencedByChildren[c.qname] = c
}

func (b *contextBuilder) addReferencedBy(c *Context) {
	b.referencedBy = append(b.referencedBy, c)
	if _, ok := b.referencedByByName[c.qname]; !ok {
		b.referencedByByName[c.qname] = c
	}
}

// build freezes the accumulated children into the Context.
func (b *contextBuilder) build() *Context {
	b.ctx.referencingChildren = maps.Clone(b.referencingChildren)
	b.ctx.referencedByChildren = maps.Clone(b.referencedByChildren)
	b.ctx.referencedByByName = maps.Clone(b.referencedByByName)
	b.ctx.referencedBy = append([]*Context(nil), b.referencedBy...)
	return b.ctx
}
