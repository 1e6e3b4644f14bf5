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
	"strings"
	"time"

	"github.com/iptecharch/leafref-server/pkg/datatree"
	"github.com/iptecharch/leafref-server/pkg/leafref/lrefpath"
	"github.com/iptecharch/leafref-server/pkg/schema"
	"github.com/openconfig/goyang/pkg/yang"
	log "github.com/sirupsen/logrus"
)

// Build indexes the leafrefs of s. The first pass records every leafref
// with the path to it, the second every node a leafref targets with the path
// to it. A leafref path that does not parse or resolve fails the whole
// build.
func Build(s *schema.Schema) (*Context, error) {
	now := time.Now()
	b := &treeBuilder{
		schema:        s,
		byTarget:      map[string][]*Context{},
		byEntry:       map[*yang.Entry]*Context{},
		targetEntries: map[*Context]*yang.Entry{},
	}
	root := newContextBuilder(datatree.RootName, lrefpath.Root)

	for _, m := range s.ModuleEntries() {
		for _, c := range schema.DataChildren(m) {
			ctx, err := b.buildReferencing(c, lrefpath.Root)
			if err != nil {
				return nil, err
			}
			if ctx != nil {
				root.addReferencingChild(ctx)
			}
		}
	}

	for _, lr := range b.leafRefs {
		abs, err := lr.absoluteLeafRefTargetPath()
		if err != nil {
			return nil, fmt.Errorf("%w %s path %q: %w", ErrInvalidLeafRef, lr.currentPath, lr.targetPathString, err)
		}
		k := pathKey(abs)
		b.byTarget[k] = append(b.byTarget[k], lr)
	}

	for _, m := range s.ModuleEntries() {
		for _, c := range schema.DataChildren(m) {
			if ctx := b.buildReferencedBy(c, lrefpath.Root); ctx != nil {
				root.addReferencedByChild(ctx)
			}
		}
	}

	for _, lr := range b.leafRefs {
		lr.valueType = b.resolveValueType(lr)
	}

	rootCtx := root.build()
	rootCtx.leafRefs = b.leafRefs
	rootCtx.targets = b.targets
	log.Debugf("leafref index for schema %s built in %s: %d leafrefs, %d targets",
		s.UniqueName(), time.Since(now), len(b.leafRefs), len(b.targets))
	return rootCtx, nil
}

type treeBuilder struct {
	schema *schema.Schema

	leafRefs []*Context
	targets  []*Context
	// leafrefs by the key of their absolute target path
	byTarget map[string][]*Context
	// leafrefs by their schema node
	byEntry map[*yang.Entry]*Context
	// schema node each leafref points at
	targetEntries map[*Context]*yang.Entry
}

// resolveValueType follows lr through targets that are leafrefs themselves
// until a leaf of another type is reached.
func (b *treeBuilder) resolveValueType(lr *Context) *yang.YangType {
	seen := map[*Context]struct{}{}
	for cur := lr; cur != nil; cur = b.byEntry[b.targetEntries[cur]] {
		if _, ok := seen[cur]; ok {
			log.Warnf("leafref %s: target chain loops", lr.currentPath)
			return nil
		}
		seen[cur] = struct{}{}
		e, ok := b.targetEntries[cur]
		if !ok {
			return nil
		}
		if e.Type == nil || e.Type.Kind != yang.Yleafref {
			return e.Type
		}
	}
	return nil
}

func (b *treeBuilder) newBuilder(e *yang.Entry, parentPath *lrefpath.LeafRefPath) *contextBuilder {
	q := b.schema.QNameOf(e)
	path := parentPath
	if !schema.IsChoiceOrCase(e) {
		path = parentPath.CreateChild(lrefpath.NewStep(q, b.schema.PrefixOf(e)))
	}
	cb := newContextBuilder(q, path)
	cb.ctx.entry = e
	cb.ctx.module, _ = b.schema.FindModuleByNamespace(q.Module.Namespace)
	cb.ctx.choice = e.IsChoice()
	return cb
}

// buildReferencing returns the context of e if e is a leafref or has one
// below it, nil otherwise.
func (b *treeBuilder) buildReferencing(e *yang.Entry, parentPath *lrefpath.LeafRefPath) (*Context, error) {
	cb := b.newBuilder(e, parentPath)
	if e.Kind == yang.LeafEntry {
		def, ok := b.schema.LeafRefType(e)
		if !ok {
			return nil, nil
		}
		if def.Module == nil {
			return nil, fmt.Errorf("%w %s: no module for path %q", ErrInvalidLeafRef, cb.ctx.currentPath, def.Path)
		}
		path, err := lrefpath.Parse(def.Path, newModuleContext(b.schema, def.Module))
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrInvalidLeafRef, cb.ctx.currentPath, err)
		}
		cb.ctx.referencing = true
		cb.ctx.targetPathString = def.Path
		cb.ctx.targetPath = path
		cb.ctx.optionalInstance = def.OptionalInstance
		ctx := cb.build()
		b.leafRefs = append(b.leafRefs, ctx)
		b.byEntry[e] = ctx
		log.Tracef("leafref %s -> %s", ctx.currentPath, def.Path)
		return ctx, nil
	}
	for _, c := range schema.DataChildren(e) {
		child, err := b.buildReferencing(c, cb.ctx.currentPath)
		if err != nil {
			return nil, err
		}
		if child != nil {
			cb.addReferencingChild(child)
		}
	}
	if len(cb.referencingChildren) == 0 {
		return nil, nil
	}
	return cb.build(), nil
}

// buildReferencedBy returns the context of e if e is a leafref target or has
// one below it, nil otherwise.
func (b *treeBuilder) buildReferencedBy(e *yang.Entry, parentPath *lrefpath.LeafRefPath) *Context {
	cb := b.newBuilder(e, parentPath)
	if e.Kind == yang.LeafEntry {
		lrs := b.byTarget[pathKey(cb.ctx.currentPath)]
		if len(lrs) == 0 {
			return nil
		}
		for _, lr := range lrs {
			cb.addReferencedBy(lr)
			if _, ok := b.targetEntries[lr]; !ok {
				b.targetEntries[lr] = e
			}
		}
		cb.ctx.referenced = true
		ctx := cb.build()
		b.targets = append(b.targets, ctx)
		return ctx
	}
	for _, c := range schema.DataChildren(e) {
		if child := b.buildReferencedBy(c, cb.ctx.currentPath); child != nil {
			cb.addReferencedByChild(child)
		}
	}
	if len(cb.referencedByChildren) == 0 {
		return nil
	}
	return cb.build()
}

// pathKey identifies a path by its step names, predicates and prefixes
// left out. Paths with equal keys are Equal.
func pathKey(p *lrefpath.LeafRefPath) string {
	sb := &strings.Builder{}
	for _, s := range p.PathFromRoot() {
		sb.WriteString("/")
		if s.IsParent() {
			sb.WriteString("..")
			continue
		}
		sb.WriteString(s.QName().String())
	}
	return sb.String()
}
