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
	"testing"

	"github.com/iptecharch/leafref-server/pkg/leafref/lrefpath"
	"github.com/iptecharch/leafref-server/pkg/qname"
	"github.com/iptecharch/leafref-server/pkg/schema"
	"github.com/openconfig/goyang/pkg/yang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModule = `module t {
  yang-version 1.1;
  namespace "urn:t";
  prefix t;

  container c {
    leaf target { type string; }
    leaf-list targets { type string; }
    list l {
      key key;
      leaf key { type string; }
      leaf val { type string; }
    }
  }
  container c2 {
    leaf ref { type leafref { path "/t:c/t:target"; } }
    leaf-list refs { type leafref { path "/c/targets"; } }
    leaf k { type string; }
    leaf lref { type leafref { path "../../c/l[key=current()/../k]/val"; } }
    choice ch {
      case a {
        leaf cref { type leafref { path "../../c/target"; } }
      }
      case b {
        leaf other { type string; }
      }
    }
    leaf opt {
      type leafref {
        path "/c/target";
        require-instance false;
      }
    }
  }
  container plain {
    leaf p { type string; }
  }
}`

func q(local string) qname.QName {
	return qname.New("urn:t", "", local)
}

func testSchema(t *testing.T, sources map[string]string) *schema.Schema {
	t.Helper()
	s, err := schema.NewSchemaFromSources("test", sources)
	require.NoError(t, err)
	return s
}

func testIndex(t *testing.T) *Context {
	t.Helper()
	root, err := Build(testSchema(t, map[string]string{"t.yang": testModule}))
	require.NoError(t, err)
	return root
}

func names(ctxs []*Context) []string {
	out := make([]string, 0, len(ctxs))
	for _, c := range ctxs {
		out = append(out, c.NodeName())
	}
	return out
}

func TestBuild(t *testing.T) {
	root := testIndex(t)

	assert.ElementsMatch(t, []string{"ref", "refs", "lref", "cref", "opt"}, names(root.LeafRefs()))
	assert.ElementsMatch(t, []string{"target", "targets", "val"}, names(root.Targets()))

	c2 := root.ReferencingChildByName(q("c2"))
	require.NotNil(t, c2)
	assert.False(t, c2.IsReferencing())
	assert.Nil(t, c2.ReferencingChildByName(q("k")), "plain leaf indexed")
	assert.Nil(t, root.ReferencingChildByName(q("plain")))
	assert.Nil(t, root.ReferencedChildByName(q("plain")))
	assert.Nil(t, root.ReferencingChildByName(q("c")))

	ref := c2.ReferencingChildByName(q("ref"))
	require.NotNil(t, ref)
	assert.True(t, ref.IsReferencing())
	assert.False(t, ref.IsOptionalInstance())
	assert.Equal(t, "/t:c/t:target", ref.LeafRefTargetPathString())
	assert.Equal(t, "/t:c2/t:ref", ref.CurrentNodePath().String())

	opt := c2.ReferencingChildByName(q("opt"))
	require.NotNil(t, opt)
	assert.True(t, opt.IsOptionalInstance())

	ch := c2.ReferencingChildByName(q("ch"))
	require.NotNil(t, ch)
	caseA := ch.ReferencingChildByName(q("a"))
	require.NotNil(t, caseA)
	cref := caseA.ReferencingChildByName(q("cref"))
	require.NotNil(t, cref)
	assert.Equal(t, "/t:c2/t:cref", cref.CurrentNodePath().String())
	assert.Equal(t, "/c/target", cref.AbsoluteLeafRefTargetPath().String())
	assert.Nil(t, ch.ReferencingChildByName(q("b")))

	c := root.ReferencedChildByName(q("c"))
	require.NotNil(t, c)
	target := c.ReferencedChildByName(q("target"))
	require.NotNil(t, target)
	assert.True(t, target.IsReferenced())
	assert.ElementsMatch(t, []string{"ref", "cref", "opt"}, names(target.AllReferencedByLeafRefCtxs()))
	assert.Same(t, ref, target.ReferencedByLeafRefCtxByName(q("ref")))

	l := c.ReferencedChildByName(q("l"))
	require.NotNil(t, l)
	assert.Nil(t, l.ReferencedChildByName(q("key")), "predicate key indexed as target")
	val := l.ReferencedChildByName(q("val"))
	require.NotNil(t, val)
	assert.Equal(t, []string{"lref"}, names(val.AllReferencedByLeafRefCtxs()))
}

func TestBuild_NoLeafRefs(t *testing.T) {
	root, err := Build(testSchema(t, map[string]string{
		"p.yang": `module p { namespace "urn:p"; prefix p; container c { leaf x { type string; } } }`,
	}))
	require.NoError(t, err)
	assert.Empty(t, root.LeafRefs())
	assert.Empty(t, root.Targets())
	assert.False(t, root.HasLeafRefContextChild())
}

func TestBuild_TargetType(t *testing.T) {
	root, err := Build(testSchema(t, map[string]string{
		"p.yang": `module p {
  namespace "urn:p";
  prefix p;
  typedef money { type decimal64 { fraction-digits 2; } }
  container c {
    leaf price { type money; }
    leaf count { type uint32; }
    leaf r1 { type leafref { path "../price"; } }
    leaf r2 { type leafref { path "../r1"; } }
    leaf r3 { type leafref { path "../count"; } }
    leaf loop1 { type leafref { path "../loop2"; } }
    leaf loop2 { type leafref { path "../loop1"; } }
    leaf dangling { type leafref { path "../missing"; } }
  }
}`,
	}))
	require.NoError(t, err)

	byName := map[string]*Context{}
	for _, lr := range root.LeafRefs() {
		byName[lr.NodeName()] = lr
	}
	tests := []struct {
		leafRef string
		want    yang.TypeKind
	}{
		{leafRef: "r1", want: yang.Ydecimal64},
		{leafRef: "r2", want: yang.Ydecimal64},
		{leafRef: "r3", want: yang.Yuint32},
	}
	for _, tt := range tests {
		t.Run(tt.leafRef, func(t *testing.T) {
			lr := byName[tt.leafRef]
			require.NotNil(t, lr)
			require.NotNil(t, lr.TargetType())
			assert.Equal(t, tt.want, lr.TargetType().Kind)
		})
	}
	for _, n := range []string{"loop1", "loop2", "dangling"} {
		require.NotNil(t, byName[n], n)
		assert.Nil(t, byName[n].TargetType(), n)
	}
}

func TestBuild_Invalid(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "syntax", path: "../[x"},
		{name: "unresolved prefix", path: "/nope:c/nope:x"},
		{name: "parent underflow", path: "../../../../x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSchema(t, map[string]string{
				"bad.yang": `module bad {
  namespace "urn:bad";
  prefix bad;
  container c {
    leaf x { type string; }
    leaf r { type leafref { path "` + tt.path + `"; } }
  }
}`,
			})
			_, err := Build(s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidLeafRef), "got %v", err)
		})
	}
}

func TestToAbsolute(t *testing.T) {
	location := lrefpath.Create(true,
		lrefpath.NewStep(q("c2"), "t"),
		lrefpath.NewStep(q("lref"), "t"),
	)
	tests := []struct {
		name    string
		rel     *lrefpath.LeafRefPath
		want    string
		wantErr error
	}{
		{
			name: "sibling",
			rel:  lrefpath.Create(false, lrefpath.ParentStep, lrefpath.NewStep(q("k"), "")),
			want: "/t:c2/k",
		},
		{
			name: "from root",
			rel: lrefpath.Create(false, lrefpath.ParentStep, lrefpath.ParentStep,
				lrefpath.NewStep(q("c"), ""), lrefpath.NewStep(q("target"), "")),
			want: "/c/target",
		},
		{
			name: "absolute",
			rel:  lrefpath.Create(true, lrefpath.NewStep(q("x"), "t")),
			want: "/t:x",
		},
		{
			name:    "underflow",
			rel:     lrefpath.Create(false, lrefpath.ParentStep, lrefpath.ParentStep, lrefpath.ParentStep),
			wantErr: ErrParentUnderflow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToAbsolute(tt.rel, location)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.IsAbsolute())
			assert.Equal(t, tt.want, got.String())

			again, err := ToAbsolute(tt.rel, location)
			require.NoError(t, err)
			assert.True(t, got.Equal(again))
		})
	}
}

func TestSchemaNodePath(t *testing.T) {
	s := testSchema(t, map[string]string{"t.yang": testModule})
	m, ok := s.Root().Dir["t"]
	require.True(t, ok)
	cref, _ := schema.FindDataChild(m.Dir["c2"], "cref")
	require.NotNil(t, cref)
	assert.Equal(t, "/t:c2/t:cref", SchemaNodePath(s, cref).String())
}
