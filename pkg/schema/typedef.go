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

package schema

import (
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
)

// typedef chains deeper than this are treated as cyclic
const maxTypedefDepth = 32

// LeafRefDef is the leafref type statement a leaf or leaf-list resolves to.
type LeafRefDef struct {
	// Path is the argument of the path statement as written.
	Path string
	// Module is the module that contains the leafref type statement. Prefixes
	// in Path are bound by its import table.
	Module *yang.Module
	// OptionalInstance is set for require-instance false.
	OptionalInstance bool
}

// LeafRefType unwinds the typedef chain of a leaf or leaf-list and returns
// its leafref definition, if the type resolves to leafref.
func (s *Schema) LeafRefType(e *yang.Entry) (*LeafRefDef, bool) {
	if e == nil || e.Kind != yang.LeafEntry {
		return nil, false
	}
	var t *yang.Type
	switch n := e.Node.(type) {
	case *yang.Leaf:
		t = n.Type
	case *yang.LeafList:
		t = n.Type
	}
	if lt := s.findLeafRefType(t, 0); lt != nil && lt.Path != nil {
		def := &LeafRefDef{
			Path:   lt.Path.Name,
			Module: yang.RootNode(lt),
		}
		if lt.RequireInstance != nil {
			def.OptionalInstance = lt.RequireInstance.Name == "false"
		} else if e.Type != nil {
			def.OptionalInstance = e.Type.OptionalInstance
		}
		return def, true
	}
	// resolved type says leafref but the statement could not be located
	if e.Type != nil && e.Type.Kind == yang.Yleafref && e.Type.Path != "" {
		return &LeafRefDef{
			Path:             e.Type.Path,
			Module:           yang.RootNode(e.Node),
			OptionalInstance: e.Type.OptionalInstance,
		}, true
	}
	return nil, false
}

func (s *Schema) findLeafRefType(t *yang.Type, depth int) *yang.Type {
	if t == nil || depth > maxTypedefDepth {
		return nil
	}
	if t.Name == "leafref" {
		return t
	}
	td := s.findTypedef(t)
	if td == nil {
		return nil
	}
	return s.findLeafRefType(td.Type, depth+1)
}

type typedefScope interface {
	Typedefs() []*yang.Typedef
}

// findTypedef resolves the typedef t refers to: through the import table for
// a foreign prefix, else by lexical scope up to the module and its includes.
func (s *Schema) findTypedef(t *yang.Type) *yang.Typedef {
	mod := yang.RootNode(t)
	if mod == nil {
		return nil
	}
	prefix, name, found := strings.Cut(t.Name, ":")
	if !found {
		name = prefix
		prefix = ""
	}
	if prefix != "" && prefix != mod.GetPrefix() {
		imported, ok := s.ImportedModule(mod, prefix)
		if !ok {
			return nil
		}
		return moduleTypedef(imported, name)
	}
	for n := t.Parent; n != nil; n = n.ParentNode() {
		if scope, ok := n.(typedefScope); ok {
			if td := lookupTypedef(scope.Typedefs(), name); td != nil {
				return td
			}
		}
	}
	if mod.BelongsTo != nil {
		if parent, ok := s.FindModule(mod.BelongsTo.Name); ok {
			if td := moduleTypedef(parent, name); td != nil {
				return td
			}
		}
	}
	return moduleTypedef(mod, name)
}

// moduleTypedef looks name up in the top level typedefs of m and its
// submodules.
func moduleTypedef(m *yang.Module, name string) *yang.Typedef {
	if m == nil {
		return nil
	}
	if td := lookupTypedef(m.Typedef, name); td != nil {
		return td
	}
	for _, inc := range m.Include {
		if inc.Module == nil {
			continue
		}
		if td := lookupTypedef(inc.Module.Typedef, name); td != nil {
			return td
		}
	}
	return nil
}

func lookupTypedef(tds []*yang.Typedef, name string) *yang.Typedef {
	for _, td := range tds {
		if td.Name == name {
			return td
		}
	}
	return nil
}
