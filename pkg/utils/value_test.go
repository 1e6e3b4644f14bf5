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

package utils

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/openconfig/gnmi/proto/gnmi"
)

func TestTypedValueToString(t *testing.T) {
	tests := []struct {
		name string
		tv   *gnmi.TypedValue
		want string
	}{
		{name: "nil", tv: nil, want: ""},
		{name: "string", tv: &gnmi.TypedValue{Value: &gnmi.TypedValue_StringVal{StringVal: "a"}}, want: "a"},
		{name: "int", tv: &gnmi.TypedValue{Value: &gnmi.TypedValue_IntVal{IntVal: -3}}, want: "-3"},
		{name: "uint", tv: &gnmi.TypedValue{Value: &gnmi.TypedValue_UintVal{UintVal: 3}}, want: "3"},
		{name: "bool", tv: &gnmi.TypedValue{Value: &gnmi.TypedValue_BoolVal{BoolVal: true}}, want: "true"},
		{name: "decimal", tv: &gnmi.TypedValue{Value: &gnmi.TypedValue_DecimalVal{DecimalVal: &gnmi.Decimal64{Digits: 150, Precision: 2}}}, want: "1.5"},
		{name: "decimal small negative", tv: &gnmi.TypedValue{Value: &gnmi.TypedValue_DecimalVal{DecimalVal: &gnmi.Decimal64{Digits: -5, Precision: 3}}}, want: "-0.005"},
		{name: "decimal integral", tv: &gnmi.TypedValue{Value: &gnmi.TypedValue_DecimalVal{DecimalVal: &gnmi.Decimal64{Digits: 200, Precision: 2}}}, want: "2"},
		{
			name: "leaflist",
			tv: &gnmi.TypedValue{Value: &gnmi.TypedValue_LeaflistVal{LeaflistVal: &gnmi.ScalarArray{Element: []*gnmi.TypedValue{
				{Value: &gnmi.TypedValue_StringVal{StringVal: "a"}},
				{Value: &gnmi.TypedValue_UintVal{UintVal: 1}},
			}}}},
			want: "[a,1]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypedValueToString(tt.tv); got != tt.want {
				t.Errorf("TypedValueToString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDecimal64(t *testing.T) {
	tests := []struct {
		in      string
		want    *gnmi.Decimal64
		wantErr bool
	}{
		{in: "1.25", want: &gnmi.Decimal64{Digits: 125, Precision: 2}},
		{in: " 7 ", want: &gnmi.Decimal64{Digits: 7}},
		{in: "-0.5", want: &gnmi.Decimal64{Digits: -5, Precision: 1}},
		{in: "", want: nil},
		{in: "1.x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimal64(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDecimal64() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got.GetDigits() != tt.want.GetDigits() || got.GetPrecision() != tt.want.GetPrecision() {
				t.Errorf("ParseDecimal64() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetValue(t *testing.T) {
	v, err := GetValue(&gnmi.TypedValue{Value: &gnmi.TypedValue_JsonIetfVal{JsonIetfVal: []byte(`{"a":1}`)}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"a": float64(1)}, v); diff != "" {
		t.Errorf("GetValue() mismatch (-want +got):\n%s", diff)
	}
}

func TestMapHelpers(t *testing.T) {
	m := map[string]int{"b": 2, "a": 1}
	if diff := cmp.Diff([]string{"a", "b"}, SortedKeys(m)); diff != "" {
		t.Errorf("SortedKeys() mismatch (-want +got):\n%s", diff)
	}
	got := MapToStringEmptyMessage(m, ", ", func(k string, v int) string { return k }, "none")
	if got != "a, b" {
		t.Errorf("MapToStringEmptyMessage() = %q", got)
	}
	if got := MapToStringEmptyMessage(map[string]int{}, ", ", func(k string, v int) string { return k }, "none"); got != "none" {
		t.Errorf("MapToStringEmptyMessage() = %q, want none", got)
	}
	sum := MapToSlice(m, func(k string, v int) int { return v * 10 })
	if diff := cmp.Diff([]int{10, 20}, sum); diff != "" {
		t.Errorf("MapToSlice() mismatch (-want +got):\n%s", diff)
	}
}
