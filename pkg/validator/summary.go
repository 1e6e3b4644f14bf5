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

package validator

import (
	"slices"
	"strings"
)

type LeafRefInfo struct {
	Path             string `yaml:"path" json:"path"`
	Module           string `yaml:"module,omitempty" json:"module,omitempty"`
	TargetPath       string `yaml:"target-path" json:"target-path"`
	AbsoluteTarget   string `yaml:"absolute-target" json:"absolute-target"`
	OptionalInstance bool   `yaml:"optional-instance,omitempty" json:"optional-instance,omitempty"`
}

type TargetInfo struct {
	Path         string   `yaml:"path" json:"path"`
	ReferencedBy []string `yaml:"referenced-by" json:"referenced-by"`
}

// Summary describes the leafref index of a schema.
type Summary struct {
	Schema   string        `yaml:"schema" json:"schema"`
	LeafRefs []LeafRefInfo `yaml:"leafrefs" json:"leafrefs"`
	Targets  []TargetInfo  `yaml:"targets" json:"targets"`
}

func (v *Validator) Summary() (*Summary, error) {
	h, err := v.Current()
	if err != nil {
		return nil, err
	}
	return Summarize(h), nil
}

// Summarize lists the leafrefs and targets of h sorted by path.
func Summarize(h *Handle) *Summary {
	s := &Summary{
		Schema:   h.Schema.UniqueName(),
		LeafRefs: make([]LeafRefInfo, 0, len(h.Index.LeafRefs())),
		Targets:  make([]TargetInfo, 0, len(h.Index.Targets())),
	}
	for _, lr := range h.Index.LeafRefs() {
		info := LeafRefInfo{
			Path:             lr.CurrentNodePath().String(),
			TargetPath:       lr.LeafRefTargetPathString(),
			OptionalInstance: lr.IsOptionalInstance(),
		}
		if m := lr.Module(); m != nil {
			info.Module = m.Name
		}
		if abs := lr.AbsoluteLeafRefTargetPath(); abs != nil {
			info.AbsoluteTarget = abs.String()
		}
		s.LeafRefs = append(s.LeafRefs, info)
	}
	for _, t := range h.Index.Targets() {
		info := TargetInfo{Path: t.CurrentNodePath().String()}
		for _, lr := range t.AllReferencedByLeafRefCtxs() {
			info.ReferencedBy = append(info.ReferencedBy, lr.CurrentNodePath().String())
		}
		slices.Sort(info.ReferencedBy)
		s.Targets = append(s.Targets, info)
	}
	slices.SortFunc(s.LeafRefs, func(a, b LeafRefInfo) int { return strings.Compare(a.Path, b.Path) })
	slices.SortFunc(s.Targets, func(a, b TargetInfo) int { return strings.Compare(a.Path, b.Path) })
	return s
}

