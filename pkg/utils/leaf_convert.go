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
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/openconfig/goyang/pkg/yang"
	log "github.com/sirupsen/logrus"
)

// Convert turns the lexical value of a leaf into a TypedValue according to
// the resolved YANG type. Only the encoding is checked, restrictions such as
// ranges or patterns are not.
func Convert(value string, t *yang.YangType) (*gnmi.TypedValue, error) {
	if t == nil {
		return ConvertString(value), nil
	}
	switch t.Kind {
	case yang.Ystring, yang.Yenum, yang.Ybits, yang.Ybinary, yang.Yidentityref, yang.YinstanceIdentifier:
		return ConvertString(value), nil
	case yang.Yleafref:
		// the value is compared with its target in canonical string form
		return ConvertString(value), nil
	case yang.Ybool:
		return ConvertBoolean(value)
	case yang.Yint8:
		return convertInt(value, 8)
	case yang.Yint16:
		return convertInt(value, 16)
	case yang.Yint32:
		return convertInt(value, 32)
	case yang.Yint64:
		return convertInt(value, 64)
	case yang.Yuint8:
		return convertUint(value, 8)
	case yang.Yuint16:
		return convertUint(value, 16)
	case yang.Yuint32:
		return convertUint(value, 32)
	case yang.Yuint64:
		return convertUint(value, 64)
	case yang.Ydecimal64:
		return ConvertDecimal64(value)
	case yang.Yempty:
		return ConvertString(""), nil
	case yang.Yunion:
		return ConvertUnion(value, t.Type)
	}
	log.Warnf("type %q not implemented", t.Name)
	return ConvertString(value), nil
}

func ConvertString(value string) *gnmi.TypedValue {
	return &gnmi.TypedValue{
		Value: &gnmi.TypedValue_StringVal{StringVal: value},
	}
}

func ConvertBoolean(value string) (*gnmi.TypedValue, error) {
	var bval bool
	switch value {
	case "true":
		bval = true
	case "false":
		bval = false
	default:
		return nil, fmt.Errorf("illegal value %q for boolean type", value)
	}
	return &gnmi.TypedValue{
		Value: &gnmi.TypedValue_BoolVal{BoolVal: bval},
	}, nil
}

func convertInt(value string, bitSize int) (*gnmi.TypedValue, error) {
	i, err := strconv.ParseInt(value, 10, bitSize)
	if err != nil {
		return nil, fmt.Errorf("illegal value %q for int%d type: %w", value, bitSize, err)
	}
	return &gnmi.TypedValue{
		Value: &gnmi.TypedValue_IntVal{IntVal: i},
	}, nil
}

func convertUint(value string, bitSize int) (*gnmi.TypedValue, error) {
	u, err := strconv.ParseUint(value, 10, bitSize)
	if err != nil {
		return nil, fmt.Errorf("illegal value %q for uint%d type: %w", value, bitSize, err)
	}
	return &gnmi.TypedValue{
		Value: &gnmi.TypedValue_UintVal{UintVal: u},
	}, nil
}

func ConvertDecimal64(value string) (*gnmi.TypedValue, error) {
	d, err := ParseDecimal64(value)
	if err != nil {
		return nil, fmt.Errorf("illegal value %q for decimal64 type: %w", value, err)
	}
	if d == nil {
		return nil, fmt.Errorf("empty value for decimal64 type")
	}
	return &gnmi.TypedValue{
		//lint:ignore SA1019 gnmi has no other decimal encoding
		Value: &gnmi.TypedValue_DecimalVal{DecimalVal: d},
	}, nil
}

// ConvertUnion returns the conversion of the first member type that accepts
// value.
func ConvertUnion(value string, members []*yang.YangType) (*gnmi.TypedValue, error) {
	var errs []error
	for _, m := range members {
		tv, err := Convert(value, m)
		if err == nil {
			return tv, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return ConvertString(value), nil
	}
	return nil, fmt.Errorf("value %q does not match any union member: %w", value, errors.Join(errs...))
}

// ConvertJSONValue converts a value decoded by encoding/json (with UseNumber)
// according to the YANG type.
func ConvertJSONValue(v any, t *yang.YangType) (*gnmi.TypedValue, error) {
	switch v := v.(type) {
	case string:
		return Convert(v, t)
	case json.Number:
		return Convert(v.String(), t)
	case bool:
		return Convert(strconv.FormatBool(v), t)
	case float64:
		return Convert(strconv.FormatFloat(v, 'f', -1, 64), t)
	case []any:
		// RFC 7951 encodes the empty type as [null]
		if len(v) == 1 && v[0] == nil {
			return Convert("", t)
		}
	}
	return nil, fmt.Errorf("unsupported json value %v (%T) for a leaf", v, v)
}
