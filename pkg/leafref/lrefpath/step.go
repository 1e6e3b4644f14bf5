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

	"github.com/iptecharch/leafref-server/pkg/qname"
)

// QNamePredicate is a single [identifier=current()/<pathKeyExpression>] constraint.
type QNamePredicate struct {
	identifier        qname.QName
	identifierPrefix  string
	pathKeyExpression *LeafRefPath
}

func NewQNamePredicate(identifier qname.QName, prefix string, pathKeyExpression *LeafRefPath) QNamePredicate {
	return QNamePredicate{
		identifier:        identifier,
		identifierPrefix:  prefix,
		pathKeyExpression: pathKeyExpression,
	}
}

// Identifier is the key leaf the predicate constrains.
func (p QNamePredicate) Identifier() qname.QName {
	return p.identifier
}

// PathKeyExpression is the path following current(), evaluated relative to
// the node holding the leafref value.
func (p QNamePredicate) PathKeyExpression() *LeafRefPath {
	return p.pathKeyExpression
}

func (p QNamePredicate) String() string {
	sb := &strings.Builder{}
	sb.WriteString("[")
	if p.identifierPrefix != "" {
		sb.WriteString(p.identifierPrefix)
		sb.WriteString(":")
	}
	sb.WriteString(p.identifier.Local)
	sb.WriteString("=current()")
	if p.pathKeyExpression != nil && p.pathKeyExpression.Len() > 0 {
		sb.WriteString("/")
		sb.WriteString(p.pathKeyExpression.String())
	}
	sb.WriteString("]")
	return sb.String()
}

// QNameWithPredicate is one step of a LeafRefPath.
type QNameWithPredicate struct {
	qname      qname.QName
	prefix     string
	predicates []QNamePredicate
	up         bool
}

// ParentStep is the ".." step. It carries no module and no name.
var ParentStep = QNameWithPredicate{up: true}

// NewStep returns a step for q. prefix is kept for rendering only.
func NewStep(q qname.QName, prefix string, predicates ...QNamePredicate) QNameWithPredicate {
	var preds []QNamePredicate
	if len(predicates) > 0 {
		preds = make([]QNamePredicate, len(predicates))
		copy(preds, predicates)
	}
	return QNameWithPredicate{
		qname:      q,
		prefix:     prefix,
		predicates: preds,
	}
}

func (s QNameWithPredicate) QName() qname.QName {
	return s.qname
}

func (s QNameWithPredicate) Prefix() string {
	return s.prefix
}

// Predicates returns the step predicates in declaration order. The returned
// slice must not be modified.
func (s QNameWithPredicate) Predicates() []QNamePredicate {
	return s.predicates
}

func (s QNameWithPredicate) IsParent() bool {
	return s.up
}

// Equal compares module and local name. Predicates are not part of step
// identity.
func (s QNameWithPredicate) Equal(o QNameWithPredicate) bool {
	return s.up == o.up && s.qname == o.qname
}

func (s QNameWithPredicate) String() string {
	if s.up {
		return ".."
	}
	sb := &strings.Builder{}
	if s.prefix != "" {
		sb.WriteString(s.prefix)
		sb.WriteString(":")
	}
	sb.WriteString(s.qname.Local)
	for _, p := range s.predicates {
		sb.WriteString(p.String())
	}
	return sb.String()
}
