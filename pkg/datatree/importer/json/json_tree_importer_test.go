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

package json

import (
	"reflect"
	"testing"

	"github.com/iptecharch/leafref-server/pkg/datatree/importer"
	"github.com/iptecharch/leafref-server/pkg/utils"
	"github.com/openconfig/goyang/pkg/yang"
)

func TestJsonTreeImporter_GetElement(t *testing.T) {
	type fields struct {
		data any
	}
	type args struct {
		key string
	}
	tests := []struct {
		name   string
		fields fields
		args   args
		want   importer.ImportConfigAdapter
	}{
		{
			name: "one",
			args: args{
				key: "foo",
			},
			fields: fields{
				data: map[string]any{
					"foo": "bar",
				},
			},
			want: &JsonTreeImporter{
				data: "bar",
				name: "foo",
			},
		},
		{
			name: "module prefixed",
			args: args{
				key: "foo",
			},
			fields: fields{
				data: map[string]any{
					"mod:foo": "bar",
				},
			},
			want: &JsonTreeImporter{
				data: "bar",
				name: "foo",
			},
		},
		{
			name: "missing",
			args: args{
				key: "nope",
			},
			fields: fields{
				data: map[string]any{
					"foo": "bar",
				},
			},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := NewJsonTreeImporter(tt.fields.data)
			got := j.GetElement(tt.args.key)
			if tt.want == nil {
				if got != nil {
					t.Errorf("JsonTreeImporter.GetElement() = %v, want nil", got)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("JsonTreeImporter.GetElement() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJsonTreeImporter_GetElements(t *testing.T) {
	j := NewJsonTreeImporter(map[string]any{
		"b:list": []any{
			map[string]any{"name": "x"},
			map[string]any{"name": "y"},
		},
		"a": "value",
		"e": []any{nil},
	})
	got := j.GetElements()
	names := make([]string, 0, len(got))
	for _, e := range got {
		names = append(names, e.GetName())
	}
	want := []string{"a", "list", "list", "e"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("JsonTreeImporter.GetElements() names = %v, want %v", names, want)
	}
}

func TestJsonTreeImporter_GetKeyValue(t *testing.T) {
	type fields struct {
		data any
		name string
	}
	tests := []struct {
		name   string
		fields fields
		want   string
	}{
		{
			name: "string",
			fields: fields{
				data: "bar",
				name: "foo",
			},
			want: "bar",
		},
		{
			name: "int",
			fields: fields{
				data: 5,
				name: "bar",
			},
			want: "5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := newJsonTreeImporterInternal(tt.fields.name, tt.fields.data)

			if got := j.GetKeyValue(); got != tt.want {
				t.Errorf("JsonTreeImporter.GetKeyValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJsonTreeImporter_GetTVValue(t *testing.T) {
	b := []byte(`{"n": 18446744073709551615}`)
	j, err := NewJsonTreeImporterFromBytes(b)
	if err != nil {
		t.Fatal(err)
	}
	tv, err := j.GetElement("n").GetTVValue(&yang.YangType{Kind: yang.Yuint64})
	if err != nil {
		t.Fatal(err)
	}
	if got := utils.TypedValueToString(tv); got != "18446744073709551615" {
		t.Errorf("JsonTreeImporter.GetTVValue() = %v", got)
	}
}

func TestNewJsonTreeImporterFromBytes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "object", in: `{"a": 1}`},
		{name: "array", in: `[1]`, wantErr: true},
		{name: "garbage", in: `{`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJsonTreeImporterFromBytes([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Errorf("NewJsonTreeImporterFromBytes() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
