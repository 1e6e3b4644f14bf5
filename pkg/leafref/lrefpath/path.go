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

package lrefpath

import (
	"strings"
	"sync/atomic"
)

// LeafRefPath is an immutable chain of steps, either from the schema root
// (absolute) or from the position of the node holding the path (relative).
// Child paths share the chain of their parent.
type LeafRefPath struct {
	parent   *LeafRefPath
	step     QNameWithPredicate
	absolute bool
	length   int

	// root first form of the chain, computed on first use
	fromRoot atomic.Pointer[[]QNameWithPredicate]
}

var (
	// Root is the empty absolute path.
	Root = &LeafRefPath{absolute: true}
	// Same is the empty relative path.
	Same = &LeafRefPath{}
)

// Create returns a path of the given steps starting at Root or Same.
func Create(absolute bool, steps ...QNameWithPredicate) *LeafRefPath {
	if absolute {
		return Root.CreateChild(steps...)
	}
	return Same.CreateChild(steps...)
}

// CreateChild appends steps to p. p itself is not modified.
func (p *LeafRefPath) CreateChild(steps ...QNameWithPredicate) *LeafRefPath {
	cur := p
	for _, s := range steps {
		cur = &LeafRefPath{
			parent:   cur,
			step:     s,
			absolute: p.absolute,
			length:   cur.length + 1,
		}
	}
	return cur
}

// CreateChildPath appends all steps of rel to p. The absoluteness of rel is
// ignored.
func (p *LeafRefPath) CreateChildPath(rel *LeafRefPath) *LeafRefPath {
	return p.CreateChild(rel.PathFromRoot()...)
}

// Parent returns the path without its last step, nil for an empty path.
func (p *LeafRefPath) Parent() *LeafRefPath {
	return p.parent
}

// LastStep returns the last step of the path, false for an empty path.
func (p *LeafRefPath) LastStep() (QNameWithPredicate, bool) {
	if p.length == 0 {
		return QNameWithPredicate{}, false
	}
	return p.step, true
}

func (p *LeafRefPath) IsAbsolute() bool {
	return p.absolute
}

func (p *LeafRefPath) Len() int {
	return p.length
}

// PathFromRoot returns the steps in root to leaf order. The slice is cached
// and must not be modified.
func (p *LeafRefPath) PathFromRoot() []QNameWithPredicate {
	if cached := p.fromRoot.Load(); cached != nil {
		return *cached
	}
	steps := make([]QNameWithPredicate, p.length)
	for cur := p; cur.length > 0; cur = cur.parent {
		steps[cur.length-1] = cur.step
	}
	p.fromRoot.Store(&steps)
	return steps
}

// PathTowardsRoot returns the steps in leaf to root order.
func (p *LeafRefPath) PathTowardsRoot() []QNameWithPredicate {
	steps := make([]QNameWithPredicate, 0, p.length)
	for cur := p; cur.length > 0; cur = cur.parent {
		steps = append(steps, cur.step)
	}
	return steps
}

// SplitParentSteps returns the number of leading ".." steps and the
// remaining steps.
func (p *LeafRefPath) SplitParentSteps() (int, []QNameWithPredicate) {
	steps := p.PathFromRoot()
	ups := 0
	for ups < len(steps) && steps[ups].IsParent() {
		ups++
	}
	return ups, steps[ups:]
}

// Equal is structural: same absoluteness and pairwise equal steps.
func (p *LeafRefPath) Equal(o *LeafRefPath) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.absolute != o.absolute || p.length != o.length {
		return false
	}
	for a, b := p, o; a.length > 0; a, b = a.parent, b.parent {
		if a == b {
			return true
		}
		if !a.step.Equal(b.step) {
			return false
		}
	}
	return true
}

func (p *LeafRefPath) String() string {
	sb := &strings.Builder{}
	if p.absolute {
		sb.WriteString("/")
	}
	for i, s := range p.PathFromRoot() {
		if i > 0 {
			sb.WriteString("/")
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}
