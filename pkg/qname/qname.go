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

// Package qname holds the qualified names shared by the schema adapter,
// the leafref path model and the data tree.
package qname

import "strings"

// Module identifies a YANG module by namespace and revision.
type Module struct {
	Namespace string
	Revision  string
}

func (m Module) String() string {
	if m.Revision == "" {
		return m.Namespace
	}
	return m.Namespace + "?revision=" + m.Revision
}

// QName is a namespace qualified node name. It is comparable and used as map key.
type QName struct {
	Module Module
	Local  string
}

func New(namespace, revision, local string) QName {
	return QName{
		Module: Module{Namespace: namespace, Revision: revision},
		Local:  local,
	}
}

// IsZero reports whether q carries neither a module nor a local name.
func (q QName) IsZero() bool {
	return q == QName{}
}

// WithModule returns a copy of q bound to module m.
func (q QName) WithModule(m Module) QName {
	return QName{Module: m, Local: q.Local}
}

// String renders q as (namespace?revision=rev)local.
func (q QName) String() string {
	if q.Module == (Module{}) {
		return q.Local
	}
	sb := &strings.Builder{}
	sb.WriteString("(")
	sb.WriteString(q.Module.String())
	sb.WriteString(")")
	sb.WriteString(q.Local)
	return sb.String()
}

// Compare orders QNames by namespace, revision and local name.
func Compare(a, b QName) int {
	if c := strings.Compare(a.Module.Namespace, b.Module.Namespace); c != 0 {
		return c
	}
	if c := strings.Compare(a.Module.Revision, b.Module.Revision); c != 0 {
		return c
	}
	return strings.Compare(a.Local, b.Local)
}
