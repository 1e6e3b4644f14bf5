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

package datatree

import (
	"fmt"
	"strings"

	"github.com/iptecharch/leafref-server/pkg/qname"
	"github.com/iptecharch/leafref-server/pkg/utils"
	"github.com/openconfig/gnmi/proto/gnmi"
)

// PathArgument identifies a node among the children of its parent.
type PathArgument interface {
	// NodeType is the schema name of the node. List entries carry the name of
	// their list, leaf-list entries the name of their leaf-list.
	NodeType() qname.QName
	// Key is unique among the siblings of the node.
	Key() string
	String() string
}

// NodeIdentifier addresses containers, leaves, choices, lists and leaf-lists.
type NodeIdentifier struct {
	QName qname.QName
}

func (n NodeIdentifier) NodeType() qname.QName { return n.QName }
func (n NodeIdentifier) Key() string           { return n.QName.String() }
func (n NodeIdentifier) String() string        { return n.QName.String() }

// KeyValue is one key leaf value of a list entry.
type KeyValue struct {
	Key   qname.QName
	Value *gnmi.TypedValue
}

// NodeIdentifierWithPredicates addresses a list entry by its key values, in
// key statement order.
type NodeIdentifierWithPredicates struct {
	QName qname.QName
	keys  []KeyValue
}

func NewNodeIdentifierWithPredicates(q qname.QName, keys ...KeyValue) NodeIdentifierWithPredicates {
	kvs := make([]KeyValue, len(keys))
	copy(kvs, keys)
	return NodeIdentifierWithPredicates{QName: q, keys: kvs}
}

func (n NodeIdentifierWithPredicates) NodeType() qname.QName { return n.QName }

// KeyValues returns the entry keys in declaration order. The returned slice
// must not be modified.
func (n NodeIdentifierWithPredicates) KeyValues() []KeyValue {
	return n.keys
}

// KeyValue returns the value of key k.
func (n NodeIdentifierWithPredicates) KeyValue(k qname.QName) (*gnmi.TypedValue, bool) {
	for _, kv := range n.keys {
		if kv.Key == k {
			return kv.Value, true
		}
	}
	return nil, false
}

func (n NodeIdentifierWithPredicates) Key() string { return n.String() }

func (n NodeIdentifierWithPredicates) String() string {
	sb := &strings.Builder{}
	sb.WriteString(n.QName.String())
	for _, kv := range n.keys {
		fmt.Fprintf(sb, "[%s=%s]", kv.Key.Local, utils.TypedValueToString(kv.Value))
	}
	return sb.String()
}

// NodeWithValue addresses a leaf-list entry by its value.
type NodeWithValue struct {
	QName qname.QName
	Value *gnmi.TypedValue
}

func (n NodeWithValue) NodeType() qname.QName { return n.QName }
func (n NodeWithValue) Key() string           { return n.String() }

func (n NodeWithValue) String() string {
	return fmt.Sprintf("%s[.=%s]", n.QName, utils.TypedValueToString(n.Value))
}

// AugmentationIdentifier addresses the wrapper of the nodes one augment
// statement adds. It is named by its child nodes.
type AugmentationIdentifier struct {
	ChildNames []qname.QName
}

// NodeType of an augmentation is the zero QName, it has no schema name.
func (n AugmentationIdentifier) NodeType() qname.QName { return qname.QName{} }
func (n AugmentationIdentifier) Key() string           { return n.String() }

func (n AugmentationIdentifier) String() string {
	names := make([]string, 0, len(n.ChildNames))
	for _, c := range n.ChildNames {
		names = append(names, c.String())
	}
	return "augmentation{" + strings.Join(names, ",") + "}"
}

// InstanceIdentifier is the position of a data node below the data root. It
// is immutable, Node returns an extended copy.
type InstanceIdentifier struct {
	args []PathArgument
}

// NewInstanceIdentifier returns the identifier made of args.
func NewInstanceIdentifier(args ...PathArgument) InstanceIdentifier {
	a := make([]PathArgument, len(args))
	copy(a, args)
	return InstanceIdentifier{args: a}
}

// Node returns id extended by arg.
func (id InstanceIdentifier) Node(arg PathArgument) InstanceIdentifier {
	a := make([]PathArgument, len(id.args), len(id.args)+1)
	copy(a, id.args)
	return InstanceIdentifier{args: append(a, arg)}
}

// Parent returns id without its last argument, false for the empty identifier.
func (id InstanceIdentifier) Parent() (InstanceIdentifier, bool) {
	if len(id.args) == 0 {
		return id, false
	}
	return InstanceIdentifier{args: id.args[:len(id.args)-1]}, true
}

// LastArgument returns the final path argument, nil for the empty identifier.
func (id InstanceIdentifier) LastArgument() PathArgument {
	if len(id.args) == 0 {
		return nil
	}
	return id.args[len(id.args)-1]
}

// PathArguments returns the arguments from the root down. The returned slice
// must not be modified.
func (id InstanceIdentifier) PathArguments() []PathArgument {
	return id.args
}

func (id InstanceIdentifier) Len() int {
	return len(id.args)
}

func (id InstanceIdentifier) String() string {
	sb := &strings.Builder{}
	for _, a := range id.args {
		sb.WriteString("/")
		sb.WriteString(a.String())
	}
	if sb.Len() == 0 {
		return "/"
	}
	return sb.String()
}
