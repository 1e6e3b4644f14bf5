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

	"github.com/iptecharch/leafref-server/pkg/leafref/lrefpath"
	"github.com/iptecharch/leafref-server/pkg/qname"
	"github.com/iptecharch/leafref-server/pkg/schema"
	"github.com/openconfig/goyang/pkg/yang"
)

// moduleContext binds the prefixes of a path statement through the import
// table of the module the statement is written in.
type moduleContext struct {
	schema *schema.Schema
	module *yang.Module
}

func newModuleContext(s *schema.Schema, m *yang.Module) *moduleContext {
	return &moduleContext{schema: s, module: m}
}

func (m *moduleContext) Name() string {
	return m.module.Name
}

func (m *moduleContext) Namespace() qname.Module {
	return m.schema.ModuleIdentity(m.module)
}

func (m *moduleContext) ResolvePrefix(prefix string) (qname.Module, bool) {
	imported, ok := m.schema.ImportedModule(m.module, prefix)
	if !ok || imported == nil {
		return qname.Module{}, false
	}
	return m.schema.ModuleIdentity(imported), true
}

// ParsePath parses a leafref path as if written in module moduleName of s.
func ParsePath(s *schema.Schema, moduleName, path string) (*lrefpath.LeafRefPath, error) {
	m, ok := s.FindModule(moduleName)
	if !ok {
		return nil, fmt.Errorf("unknown module %q in schema %s", moduleName, s.UniqueName())
	}
	return lrefpath.Parse(path, newModuleContext(s, m))
}

var _ lrefpath.ModuleContext = (*moduleContext)(nil)
