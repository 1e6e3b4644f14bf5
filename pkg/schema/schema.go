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
	"fmt"
	"sort"
	"time"

	"github.com/iptecharch/leafref-server/pkg/config"
	"github.com/iptecharch/leafref-server/pkg/qname"
	"github.com/openconfig/goyang/pkg/yang"
	log "github.com/sirupsen/logrus"
)

// Schema is a processed set of YANG modules. It is read only once built.
type Schema struct {
	config  *config.SchemaConfig
	sources map[string]string

	root    *yang.Entry
	modules *yang.Modules

	// module entries sorted by module name, submodules excluded
	moduleList  []*yang.Module
	byName      map[string]*yang.Module
	byNamespace map[string]*yang.Module
}

// NewSchema reads the YANG files referenced by sCfg.
func NewSchema(sCfg *config.SchemaConfig) (*Schema, error) {
	now := time.Now()
	files, err := findYangFiles(sCfg.Files)
	if err != nil {
		return nil, err
	}
	ms := yang.NewModules()
	err = readYANGFiles(ms, sCfg, files)
	if err != nil {
		return nil, err
	}
	sc := newSchema(sCfg, ms)
	log.Infof("schema %s parsed in %s", sc.UniqueName(), time.Since(now))
	return sc, nil
}

// NewSchemaFromSources parses in-memory YANG sources, keyed by file name.
func NewSchemaFromSources(name string, sources map[string]string) (*Schema, error) {
	now := time.Now()
	ms := yang.NewModules()
	names := make([]string, 0, len(sources))
	for n := range sources {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if err := ms.Parse(sources[n], n); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", n, err)
		}
	}
	if err := processModules(ms); err != nil {
		return nil, err
	}
	sc := newSchema(&config.SchemaConfig{Name: name}, ms)
	sc.sources = sources
	log.Infof("schema %s parsed in %s", sc.UniqueName(), time.Since(now))
	return sc, nil
}

func newSchema(sCfg *config.SchemaConfig, ms *yang.Modules) *Schema {
	sc := &Schema{
		config:      sCfg,
		modules:     ms,
		byName:      map[string]*yang.Module{},
		byNamespace: map[string]*yang.Module{},
	}
	for _, m := range ms.Modules {
		if prev, ok := sc.byName[m.Name]; ok && prev.Current() >= m.Current() {
			continue
		}
		sc.byName[m.Name] = m
	}
	for _, m := range sc.byName {
		sc.moduleList = append(sc.moduleList, m)
		if m.Namespace != nil {
			sc.byNamespace[m.Namespace.Name] = m
		}
	}
	sort.Slice(sc.moduleList, func(i, j int) bool {
		return sc.moduleList[i].Name < sc.moduleList[j].Name
	})

	sc.root = &yang.Entry{
		Name: "root",
		Kind: yang.DirectoryEntry,
		Dir:  make(map[string]*yang.Entry, len(sc.moduleList)),
		Annotation: map[string]interface{}{
			"schemapath": "/",
			"root":       true,
		},
	}
	for _, m := range sc.moduleList {
		e := yang.ToEntry(m)
		sc.root.Dir[e.Name] = e
	}
	return sc
}

// Reload builds a new Schema from the same sources. The receiver is left
// untouched.
func (s *Schema) Reload() (*Schema, error) {
	if s.sources != nil {
		return NewSchemaFromSources(s.config.Name, s.sources)
	}
	return NewSchema(s.config)
}

func (s *Schema) UniqueName() string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%s@%s@%s", s.config.Name, s.config.Vendor, s.config.Version)
}

func (s *Schema) Name() string {
	if s == nil {
		return ""
	}
	return s.config.Name
}

// Root returns a synthetic entry holding one child per module.
func (s *Schema) Root() *yang.Entry {
	return s.root
}

// Modules returns the modules sorted by name.
func (s *Schema) Modules() []*yang.Module {
	return s.moduleList
}

// ModuleEntries returns the module entries sorted by module name.
func (s *Schema) ModuleEntries() []*yang.Entry {
	entries := make([]*yang.Entry, 0, len(s.moduleList))
	for _, m := range s.moduleList {
		if e, ok := s.root.Dir[m.Name]; ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func (s *Schema) FindModule(name string) (*yang.Module, bool) {
	m, ok := s.byName[name]
	return m, ok
}

func (s *Schema) FindModuleByNamespace(ns string) (*yang.Module, bool) {
	m, ok := s.byNamespace[ns]
	return m, ok
}

// ModuleIdentity returns the namespace and revision of m. Submodules resolve
// to the module they belong to.
func (s *Schema) ModuleIdentity(m *yang.Module) qname.Module {
	if m == nil {
		return qname.Module{}
	}
	if m.BelongsTo != nil {
		if parent, ok := s.byName[m.BelongsTo.Name]; ok {
			m = parent
		}
	}
	id := qname.Module{Revision: m.Current()}
	if m.Namespace != nil {
		id.Namespace = m.Namespace.Name
	}
	return id
}

// QNameOf returns the qualified name of e as instantiated in the data tree.
// Augmented nodes carry the namespace of the augmenting module.
func (s *Schema) QNameOf(e *yang.Entry) qname.QName {
	ns := e.Namespace().Name
	q := qname.QName{
		Module: qname.Module{Namespace: ns},
		Local:  e.Name,
	}
	if m, ok := s.byNamespace[ns]; ok {
		q.Module.Revision = m.Current()
	}
	return q
}

// ImportedModule returns the module bound to prefix in the import table of m.
// The module's own prefix resolves to m.
func (s *Schema) ImportedModule(m *yang.Module, prefix string) (*yang.Module, bool) {
	if prefix == "" || prefix == m.GetPrefix() {
		return m, true
	}
	for _, imp := range m.Import {
		if imp.Prefix == nil || imp.Prefix.Name != prefix {
			continue
		}
		if imp.Module != nil {
			return imp.Module, true
		}
		mod, ok := s.byName[imp.Name]
		return mod, ok
	}
	return nil, false
}

// PrefixOf returns the prefix of the module whose namespace e is
// instantiated in.
func (s *Schema) PrefixOf(e *yang.Entry) string {
	if m, ok := s.byNamespace[e.Namespace().Name]; ok {
		return m.GetPrefix()
	}
	return ""
}
