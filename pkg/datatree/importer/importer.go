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

package importer

import (
	"errors"
	"fmt"

	"github.com/iptecharch/leafref-server/pkg/datatree"
	"github.com/iptecharch/leafref-server/pkg/schema"
	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/openconfig/goyang/pkg/yang"
	log "github.com/sirupsen/logrus"
)

var ErrUnknownElement = errors.New("unknown element")

// Import builds the normalized data tree of the document behind adapter. The
// schema decides the node kinds: case members are wrapped in their choice,
// list entries are keyed by the key statement and leaf values are converted
// by type.
func Import(s *schema.Schema, adapter ImportConfigAdapter) (*datatree.ContainerNode, error) {
	if adapter == nil {
		return datatree.NewRoot(), nil
	}
	imp := &treeImporter{schema: s}
	children, err := imp.importChildren(nil, adapter.GetElements())
	if err != nil {
		return nil, err
	}
	return datatree.NewRoot(children...), nil
}

type treeImporter struct {
	schema *schema.Schema
}

// level collects the nodes of one data level, with case members grouped
// below their choices.
type level struct {
	nodes       []datatree.NormalizedNode
	choices     map[*yang.Entry]*level
	choiceOrder []*yang.Entry
}

func (l *level) add(choices []*yang.Entry, n datatree.NormalizedNode) {
	if len(choices) == 0 {
		l.nodes = append(l.nodes, n)
		return
	}
	if l.choices == nil {
		l.choices = map[*yang.Entry]*level{}
	}
	sub, ok := l.choices[choices[0]]
	if !ok {
		sub = &level{}
		l.choices[choices[0]] = sub
		l.choiceOrder = append(l.choiceOrder, choices[0])
	}
	sub.add(choices[1:], n)
}

func (l *level) finish(s *schema.Schema) []datatree.NormalizedNode {
	result := l.nodes
	for _, ch := range l.choiceOrder {
		result = append(result, datatree.NewChoice(s.QNameOf(ch), l.choices[ch].finish(s)...))
	}
	return result
}

// lookup finds the schema node of a child element. A nil parent stands for
// the data root, whose children are the top level nodes of all modules.
func (t *treeImporter) lookup(parent *yang.Entry, name string) (*yang.Entry, []*yang.Entry) {
	if parent != nil {
		return schema.FindDataChild(parent, name)
	}
	for _, m := range t.schema.ModuleEntries() {
		if e, choices := schema.FindDataChild(m, name); e != nil {
			return e, choices
		}
	}
	return nil, nil
}

func isAnyData(parent *yang.Entry, name string) bool {
	if parent == nil {
		return false
	}
	e, ok := parent.Dir[name]
	return ok && (e.Kind == yang.AnyDataEntry || e.Kind == yang.AnyXMLEntry)
}

func (t *treeImporter) importChildren(parent *yang.Entry, elems []ImportConfigAdapter) ([]datatree.NormalizedNode, error) {
	// group elements by name, keeping the order of first appearance
	groups := map[string][]ImportConfigAdapter{}
	var names []string
	for _, e := range elems {
		n := e.GetName()
		if _, ok := groups[n]; !ok {
			names = append(names, n)
		}
		groups[n] = append(groups[n], e)
	}

	lvl := &level{}
	for _, name := range names {
		entry, choices := t.lookup(parent, name)
		if entry == nil {
			if isAnyData(parent, name) {
				log.Debugf("skipping anydata element %q", name)
				continue
			}
			return nil, fmt.Errorf("%w %q under %s", ErrUnknownElement, name, parentName(parent))
		}
		n, err := t.importNode(entry, groups[name])
		if err != nil {
			return nil, err
		}
		lvl.add(choices, n)
	}
	return lvl.finish(t.schema), nil
}

func (t *treeImporter) importNode(e *yang.Entry, elems []ImportConfigAdapter) (datatree.NormalizedNode, error) {
	q := t.schema.QNameOf(e)
	switch {
	case e.IsLeafList():
		values := make([]*gnmi.TypedValue, 0, len(elems))
		for _, elem := range elems {
			v, err := elem.GetTVValue(e.Type)
			if err != nil {
				return nil, fmt.Errorf("leaf-list %s: %w", e.Path(), err)
			}
			values = append(values, v)
		}
		return datatree.NewLeafSet(q, values...), nil
	case e.IsLeaf():
		if len(elems) > 1 {
			return nil, fmt.Errorf("leaf %s given %d times", e.Path(), len(elems))
		}
		v, err := elems[0].GetTVValue(e.Type)
		if err != nil {
			return nil, fmt.Errorf("leaf %s: %w", e.Path(), err)
		}
		return datatree.NewLeaf(q, v), nil
	case e.IsList():
		if !schema.IsKeyedList(e) {
			entries := make([][]datatree.NormalizedNode, 0, len(elems))
			for _, elem := range elems {
				children, err := t.importChildren(e, elem.GetElements())
				if err != nil {
					return nil, err
				}
				entries = append(entries, children)
			}
			return datatree.NewUnkeyedList(q, entries...), nil
		}
		entries := make([]*datatree.MapEntryNode, 0, len(elems))
		for _, elem := range elems {
			me, err := t.importListEntry(e, elem)
			if err != nil {
				return nil, err
			}
			entries = append(entries, me)
		}
		return datatree.NewMap(q, entries...), nil
	case e.IsContainer():
		if len(elems) > 1 {
			return nil, fmt.Errorf("container %s given %d times", e.Path(), len(elems))
		}
		children, err := t.importChildren(e, elems[0].GetElements())
		if err != nil {
			return nil, err
		}
		return datatree.NewContainer(q, children...), nil
	}
	return nil, fmt.Errorf("unsupported schema node %s of kind %s", e.Path(), e.Kind)
}

func (t *treeImporter) importListEntry(e *yang.Entry, elem ImportConfigAdapter) (*datatree.MapEntryNode, error) {
	keys := make([]datatree.KeyValue, 0, len(schema.KeyNames(e)))
	for _, k := range schema.KeyNames(e) {
		kElem := elem.GetElement(k)
		if kElem == nil {
			return nil, fmt.Errorf("list %s: entry without key %q", e.Path(), k)
		}
		kEntry, ok := e.Dir[k]
		if !ok {
			return nil, fmt.Errorf("list %s: key leaf %q not in schema", e.Path(), k)
		}
		v, err := kElem.GetTVValue(kEntry.Type)
		if err != nil {
			return nil, fmt.Errorf("list %s key %s: %w", e.Path(), k, err)
		}
		keys = append(keys, datatree.KeyValue{Key: t.schema.QNameOf(kEntry), Value: v})
	}
	children, err := t.importChildren(e, elem.GetElements())
	if err != nil {
		return nil, err
	}
	id := datatree.NewNodeIdentifierWithPredicates(t.schema.QNameOf(e), keys...)
	return datatree.NewMapEntry(id, children...), nil
}

func parentName(e *yang.Entry) string {
	if e == nil {
		return "the data root"
	}
	return e.Path()
}
