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
	"errors"
	"strings"
	"testing"

	"github.com/iptecharch/leafref-server/pkg/datatree"
	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *gnmi.TypedValue {
	return &gnmi.TypedValue{Value: &gnmi.TypedValue_StringVal{StringVal: s}}
}

func leaf(name, value string) datatree.NormalizedNode {
	return datatree.NewLeaf(q(name), str(value))
}

func container(name string, children ...datatree.NormalizedNode) datatree.NormalizedNode {
	return datatree.NewContainer(q(name), children...)
}

func listEntry(key, val string) *datatree.MapEntryNode {
	id := datatree.NewNodeIdentifierWithPredicates(q("l"), datatree.KeyValue{Key: q("key"), Value: str(key)})
	return datatree.NewMapEntry(id, leaf("key", key), leaf("val", val))
}

func TestValidate(t *testing.T) {
	root := testIndex(t)

	tests := []struct {
		name         string
		before       datatree.NormalizedNode
		after        datatree.NormalizedNode
		opts         []ValidateOption
		wantMessages []string
		wantWarnings int
	}{
		{
			name:   "leafref value missing",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c", leaf("target", "A")),
				container("c2", leaf("ref", "B")),
			),
			wantMessages: []string{"[B] allowed values [A]"},
		},
		{
			name:   "leafref value present",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c", leaf("target", "A")),
				container("c2", leaf("ref", "A")),
			),
		},
		{
			name: "leafref changed to a missing value",
			before: datatree.NewRoot(
				container("c", leaf("target", "A")),
				container("c2", leaf("ref", "A")),
			),
			after: datatree.NewRoot(
				container("c", leaf("target", "A")),
				container("c2", leaf("ref", "C")),
			),
			wantMessages: []string{"Invalid leafref value [C] allowed values [A] of LEAFREF node: /(urn:t)c2/(urn:t)ref leafRef target path: /t:c/t:target"},
		},
		{
			name: "list key predicate rejects other entry",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c", datatree.NewMap(q("l"), listEntry("1", "x"), listEntry("2", "y"))),
				container("c2", leaf("k", "2"), leaf("lref", "x")),
			),
			wantMessages: []string{"[x] allowed values [y]"},
		},
		{
			name: "list key predicate accepts matching entry",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c", datatree.NewMap(q("l"), listEntry("1", "x"), listEntry("2", "y"))),
				container("c2", leaf("k", "2"), leaf("lref", "y")),
			),
		},
		{
			name: "target deleted",
			before: datatree.NewRoot(
				container("c", leaf("target", "A")),
				container("c2", leaf("ref", "A")),
			),
			after: datatree.NewRoot(
				container("c2", leaf("ref", "A")),
			),
			wantMessages: []string{"Invalid leafref value [A] allowed values [] by validation of leafref TARGET node: (urn:t)target path of invalid LEAFREF node: /(urn:t)c2/(urn:t)ref"},
		},
		{
			name: "target and leafref deleted together",
			before: datatree.NewRoot(
				container("c", leaf("target", "A")),
				container("c2", leaf("ref", "A")),
			),
			after: datatree.NewRoot(),
		},
		{
			name: "target changed below container",
			before: datatree.NewRoot(
				container("c", leaf("target", "A")),
				container("c2", leaf("ref", "A")),
			),
			after: datatree.NewRoot(
				container("c", leaf("target", "B")),
				container("c2", leaf("ref", "A")),
			),
			wantMessages: []string{"[A] allowed values [B] by validation of leafref TARGET node"},
		},
		{
			name:   "leaf-list reported once per value",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c", datatree.NewLeafSet(q("targets"), str("a"), str("b"))),
				container("c2", datatree.NewLeafSet(q("refs"), str("a"), str("z"))),
			),
			wantMessages: []string{"[z] allowed values [a b]"},
		},
		{
			name:   "leafref inside choice",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c", leaf("target", "A")),
				container("c2", datatree.NewChoice(q("ch"), leaf("cref", "B"))),
			),
			wantMessages: []string{"[B] allowed values [A]"},
		},
		{
			name:   "optional instance warns",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c2", leaf("opt", "A")),
			),
			wantWarnings: 1,
		},
		{
			name:   "optional instance strict",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c2", leaf("opt", "A")),
			),
			opts:         []ValidateOption{WithStrictOptionalInstance()},
			wantMessages: []string{"[A] allowed values []"},
		},
		{
			name:   "unrelated data",
			before: datatree.NewRoot(),
			after:  datatree.NewRoot(container("plain", leaf("p", "x"))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(datatree.NewCandidate(tt.before, tt.after), root, tt.opts...)
			require.NoError(t, err)
			require.Len(t, res.Messages, len(tt.wantMessages), "messages: %s", strings.Join(res.Messages, "\n"))
			for i, want := range tt.wantMessages {
				assert.Contains(t, res.Messages[i], want)
			}
			assert.Len(t, res.Warnings, tt.wantWarnings)

			err = Validate(datatree.NewCandidate(tt.before, tt.after), root, tt.opts...)
			if len(tt.wantMessages) == 0 {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationFailedError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, len(tt.wantMessages), vErr.Count)
			assert.True(t, strings.HasPrefix(vErr.Error(), "leafref validation failed with"))
		})
	}
}

const listModule = `module t {
  yang-version 1.1;
  namespace "urn:t";
  prefix t;

  container c {
    leaf target { type string; }
    list l {
      key key;
      leaf key { type string; }
      leaf val { type string; }
    }
  }
  container c2 {
    leaf ref { type leafref { path "/c/target"; } }
  }
  augment "/t:c2" {
    leaf aref { type leafref { path "../../c/target"; } }
  }
  container c3 {
    leaf sel { type string; }
    list m {
      key name;
      leaf name { type string; }
      leaf k { type string; }
      leaf r { type leafref { path "../../../c/l[key=current()/../k]/val"; } }
      leaf r2 { type leafref { path "../../../c/l[key=current()/../../sel]/val"; } }
    }
  }
  container bad {
    leaf k { type string; }
    leaf r { type leafref { path "/c/l[key=current()/../../../k]/val"; } }
  }
}`

func listIndex(t *testing.T) *Context {
	t.Helper()
	root, err := Build(testSchema(t, map[string]string{"t.yang": listModule}))
	require.NoError(t, err)
	return root
}

func mEntry(name string, children ...datatree.NormalizedNode) *datatree.MapEntryNode {
	id := datatree.NewNodeIdentifierWithPredicates(q("m"), datatree.KeyValue{Key: q("name"), Value: str(name)})
	return datatree.NewMapEntry(id, append([]datatree.NormalizedNode{leaf("name", name)}, children...)...)
}

func lList(entries ...*datatree.MapEntryNode) datatree.NormalizedNode {
	return datatree.NewMap(q("l"), entries...)
}

func mList(entries ...*datatree.MapEntryNode) datatree.NormalizedNode {
	return datatree.NewMap(q("m"), entries...)
}

func TestValidate_ListsAndAugmentations(t *testing.T) {
	root := listIndex(t)

	tests := []struct {
		name         string
		before       datatree.NormalizedNode
		after        datatree.NormalizedNode
		wantMessages []string
	}{
		{
			name:   "same dangling value in two list entries",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c", lList(listEntry("1", "x"), listEntry("2", "y"))),
				container("c3", mList(
					mEntry("a", leaf("k", "2"), leaf("r", "x")),
					mEntry("b", leaf("k", "2"), leaf("r", "x")),
				)),
			),
			wantMessages: []string{
				"[x] allowed values [y] of LEAFREF node: /(urn:t)c3/(urn:t)m/(urn:t)m[name=a]/(urn:t)r",
				"[x] allowed values [y] of LEAFREF node: /(urn:t)c3/(urn:t)m/(urn:t)m[name=b]/(urn:t)r",
			},
		},
		{
			name:   "list entries with valid values",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c", lList(listEntry("1", "x"), listEntry("2", "y"))),
				container("c3", mList(
					mEntry("a", leaf("k", "1"), leaf("r", "x")),
					mEntry("b", leaf("k", "2"), leaf("r", "y")),
				)),
			),
		},
		{
			name:   "predicate climbs out of the list entry",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c", lList(listEntry("1", "x"), listEntry("2", "y"))),
				container("c3", leaf("sel", "1"), mList(mEntry("a", leaf("r2", "x")))),
			),
		},
		{
			name:   "predicate out of the list entry rejects",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c", lList(listEntry("1", "x"), listEntry("2", "y"))),
				container("c3", leaf("sel", "1"), mList(mEntry("a", leaf("r2", "y")))),
			),
			wantMessages: []string{"[y] allowed values [x] of LEAFREF node: /(urn:t)c3/(urn:t)m/(urn:t)m[name=a]/(urn:t)r2"},
		},
		{
			name: "list entry holding the target deleted",
			before: datatree.NewRoot(
				container("c", lList(listEntry("1", "x"), listEntry("2", "y"))),
				container("c3", mList(mEntry("a", leaf("k", "2"), leaf("r", "y")))),
			),
			after: datatree.NewRoot(
				container("c", lList(listEntry("1", "x"))),
				container("c3", mList(mEntry("a", leaf("k", "2"), leaf("r", "y")))),
			),
			wantMessages: []string{"[y] allowed values [x] by validation of leafref TARGET node: (urn:t)val"},
		},
		{
			name:   "augmented leafref",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c", leaf("target", "A")),
				container("c2", datatree.NewAugmentation(leaf("aref", "B"))),
			),
			wantMessages: []string{"LEAFREF node: /(urn:t)c2/augmentation{(urn:t)aref}/(urn:t)aref"},
		},
		{
			name: "augmented leafref changed",
			before: datatree.NewRoot(
				container("c", leaf("target", "A")),
				container("c2", datatree.NewAugmentation(leaf("aref", "A"))),
			),
			after: datatree.NewRoot(
				container("c", leaf("target", "A")),
				container("c2", datatree.NewAugmentation(leaf("aref", "B"))),
			),
			wantMessages: []string{"[B] allowed values [A]"},
		},
		{
			name:   "target inside augmentation",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c", datatree.NewAugmentation(leaf("target", "A"))),
				container("c2", leaf("ref", "A")),
			),
		},
		{
			name:   "target inside augmentation rejects",
			before: datatree.NewRoot(),
			after: datatree.NewRoot(
				container("c", datatree.NewAugmentation(leaf("target", "A"))),
				container("c2", leaf("ref", "B")),
			),
			wantMessages: []string{"[B] allowed values [A] by validation of leafref TARGET node"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(datatree.NewCandidate(tt.before, tt.after), root)
			require.NoError(t, err)
			require.Len(t, res.Messages, len(tt.wantMessages), "messages: %s", strings.Join(res.Messages, "\n"))
			for i, want := range tt.wantMessages {
				assert.Contains(t, res.Messages[i], want)
			}
		})
	}
}

func TestRun_InconsistentData(t *testing.T) {
	root := listIndex(t)
	after := datatree.NewRoot(
		container("c", lList(listEntry("1", "x"))),
		container("bad", leaf("k", "1"), leaf("r", "x")),
	)
	_, err := Run(datatree.NewCandidate(datatree.NewRoot(), after), root)
	assert.ErrorIs(t, err, ErrInconsistentData)
	assert.ErrorIs(t, err, ErrParentUnderflow)

	err = Validate(datatree.NewCandidate(datatree.NewRoot(), after), root)
	var vErr *ValidationFailedError
	assert.False(t, errors.As(err, &vErr))
	assert.ErrorIs(t, err, ErrInconsistentData)
}

func TestRun_NoData(t *testing.T) {
	root := testIndex(t)
	res, err := Run(datatree.NewCandidate(datatree.NewRoot(container("c2", leaf("ref", "A"))), nil), root)
	require.NoError(t, err)
	assert.Empty(t, res.Messages)

	res, err = Run(nil, root)
	require.NoError(t, err)
	assert.Empty(t, res.Messages)
}

func TestPosition_Ancestor(t *testing.T) {
	e := listEntry("1", "x")
	c := container("c", datatree.NewMap(q("l"), e))
	l, _ := c.(datatree.ParentNode).Child(datatree.NodeIdentifier{QName: q("l")})
	val, _ := e.Child(datatree.NodeIdentifier{QName: q("val")})

	pos := rootPosition(datatree.NewRoot(c)).child(c).child(l).child(e).child(val)

	got, err := pos.ancestor(0)
	require.NoError(t, err)
	assert.Same(t, val, got)

	got, err = pos.ancestor(1)
	require.NoError(t, err)
	assert.Same(t, e, got)

	got, err = pos.ancestor(2)
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = pos.ancestor(4)
	assert.ErrorIs(t, err, ErrParentUnderflow)
	assert.ErrorIs(t, err, ErrInconsistentData)
}

func TestValueSet_String(t *testing.T) {
	s := valueSet{}
	assert.Equal(t, "[]", s.String())
	s.add(str("b"))
	s.add(str("a"))
	s.add(str("a"))
	assert.Equal(t, "[a b]", s.String())
	assert.True(t, s.contains(str("a")))
	assert.False(t, s.contains(str("c")))
}
