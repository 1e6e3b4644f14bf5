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
	"github.com/iptecharch/leafref-server/pkg/schema"
	"github.com/openconfig/goyang/pkg/yang"
)

// ToAbsolute resolves rel against location, the absolute schema path of the
// node holding rel. Every leading ".." drops one trailing step of location,
// the remaining steps of rel are appended. Absolute paths are returned as
// they are.
func ToAbsolute(rel, location *lrefpath.LeafRefPath) (*lrefpath.LeafRefPath, error) {
	if rel.IsAbsolute() {
		return rel, nil
	}
	ups, rest := rel.SplitParentSteps()
	base := location
	for i := 0; i < ups; i++ {
		if base.Len() == 0 {
			return nil, fmt.Errorf("%w: %s climbs %d levels from %s", ErrParentUnderflow, rel, ups, location)
		}
		base = base.Parent()
	}
	return base.CreateChild(rest...), nil
}

// SchemaNodePath returns the absolute path of e as it appears in instance
// data: one step per data node ancestor, choice and case levels skipped.
func SchemaNodePath(s *schema.Schema, e *yang.Entry) *lrefpath.LeafRefPath {
	p := lrefpath.Root
	for _, n := range schema.DataPath(e) {
		p = p.CreateChild(lrefpath.NewStep(s.QNameOf(n), s.PrefixOf(n)))
	}
	return p
}
