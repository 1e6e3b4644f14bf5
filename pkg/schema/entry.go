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
	"sort"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
)

// IsChoiceOrCase reports whether e is a schema only level that has no
// counterpart in instance paths.
func IsChoiceOrCase(e *yang.Entry) bool {
	return e.IsChoice() || e.IsCase()
}

// IsModule reports whether e is the entry of a module.
func IsModule(e *yang.Entry) bool {
	return e.Parent == nil
}

// IsDataNode reports whether e is part of the data tree, or a choice or case
// holding data nodes. RPCs and notifications are not.
func IsDataNode(e *yang.Entry) bool {
	if e == nil || e.RPC != nil {
		return false
	}
	switch e.Kind {
	case yang.LeafEntry, yang.DirectoryEntry, yang.ChoiceEntry, yang.CaseEntry:
		return true
	}
	return false
}

// DataChildren returns the data children of e sorted by name.
func DataChildren(e *yang.Entry) []*yang.Entry {
	children := make([]*yang.Entry, 0, len(e.Dir))
	for _, c := range e.Dir {
		if IsDataNode(c) {
			children = append(children, c)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].Name < children[j].Name
	})
	return children
}

// DataParent returns the closest ancestor that is a data node, skipping
// choice and case levels. It returns nil for top level nodes.
func DataParent(e *yang.Entry) *yang.Entry {
	for p := e.Parent; p != nil; p = p.Parent {
		if IsModule(p) {
			return nil
		}
		if !IsChoiceOrCase(p) {
			return p
		}
	}
	return nil
}

// DataPath returns the data node ancestors of e from the top level node down
// to e itself, with choice and case levels removed.
func DataPath(e *yang.Entry) []*yang.Entry {
	var path []*yang.Entry
	for cur := e; cur != nil && !IsModule(cur); cur = cur.Parent {
		if !IsChoiceOrCase(cur) {
			path = append(path, cur)
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindDataChild looks up the data child name of e, descending through choice
// and case levels. The choices passed on the way are returned outermost first.
func FindDataChild(e *yang.Entry, name string) (*yang.Entry, []*yang.Entry) {
	if c, ok := e.Dir[name]; ok && IsDataNode(c) && !IsChoiceOrCase(c) {
		return c, nil
	}
	for _, c := range DataChildren(e) {
		if !IsChoiceOrCase(c) {
			continue
		}
		found, choices := FindDataChild(c, name)
		if found == nil {
			continue
		}
		if c.IsChoice() {
			choices = append([]*yang.Entry{c}, choices...)
		}
		return found, choices
	}
	return nil, nil
}

// KeyNames returns the key leaf names of a list in declaration order.
func KeyNames(e *yang.Entry) []string {
	return strings.Fields(e.Key)
}

// IsKeyedList reports whether e is a list with a key statement.
func IsKeyedList(e *yang.Entry) bool {
	return e.IsList() && e.Key != ""
}
