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
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/openconfig/gnmi/proto/gnmi"
)

func GetValue(updValue *gnmi.TypedValue) (interface{}, error) {
	if updValue == nil {
		return nil, nil
	}
	var value interface{}
	var jsondata []byte
	switch updValue.Value.(type) {
	case *gnmi.TypedValue_AsciiVal:
		value = updValue.GetAsciiVal()
	case *gnmi.TypedValue_BoolVal:
		value = updValue.GetBoolVal()
	case *gnmi.TypedValue_BytesVal:
		value = updValue.GetBytesVal()
	case *gnmi.TypedValue_DecimalVal:
		//lint:ignore SA1019 still need DecimalVal for backward compatibility
		value = updValue.GetDecimalVal()
	case *gnmi.TypedValue_FloatVal:
		//lint:ignore SA1019 still need GetFloatVal for backward compatibility
		value = updValue.GetFloatVal()
	case *gnmi.TypedValue_DoubleVal:
		value = updValue.GetDoubleVal()
	case *gnmi.TypedValue_IntVal:
		value = updValue.GetIntVal()
	case *gnmi.TypedValue_StringVal:
		value = updValue.GetStringVal()
	case *gnmi.TypedValue_UintVal:
		value = updValue.GetUintVal()
	case *gnmi.TypedValue_JsonIetfVal:
		jsondata = updValue.GetJsonIetfVal()
	case *gnmi.TypedValue_JsonVal:
		jsondata = updValue.GetJsonVal()
	case *gnmi.TypedValue_LeaflistVal:
		value = updValue.GetLeaflistVal()
	case *gnmi.TypedValue_ProtoBytes:
		value = updValue.GetProtoBytes()
	case *gnmi.TypedValue_AnyVal:
		value = updValue.GetAnyVal()
	}
	if value == nil && len(jsondata) != 0 {
		err := json.Unmarshal(jsondata, &value)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

// TypedValueToString renders tv in its canonical lexical form. Values of
// different numeric encodings with the same number render identically, so the
// result is usable as a set key for value comparison.
func TypedValueToString(tv *gnmi.TypedValue) string {
	if tv == nil {
		return ""
	}
	switch v := tv.Value.(type) {
	case *gnmi.TypedValue_StringVal:
		return v.StringVal
	case *gnmi.TypedValue_AsciiVal:
		return v.AsciiVal
	case *gnmi.TypedValue_BoolVal:
		return strconv.FormatBool(v.BoolVal)
	case *gnmi.TypedValue_IntVal:
		return strconv.FormatInt(v.IntVal, 10)
	case *gnmi.TypedValue_UintVal:
		return strconv.FormatUint(v.UintVal, 10)
	case *gnmi.TypedValue_DecimalVal:
		return FormatDecimal64(v.DecimalVal)
	case *gnmi.TypedValue_DoubleVal:
		return strconv.FormatFloat(v.DoubleVal, 'g', -1, 64)
	case *gnmi.TypedValue_FloatVal:
		return strconv.FormatFloat(float64(v.FloatVal), 'g', -1, 32)
	case *gnmi.TypedValue_BytesVal:
		return base64.StdEncoding.EncodeToString(v.BytesVal)
	case *gnmi.TypedValue_JsonVal:
		return string(v.JsonVal)
	case *gnmi.TypedValue_JsonIetfVal:
		return string(v.JsonIetfVal)
	case *gnmi.TypedValue_LeaflistVal:
		elems := make([]string, 0, len(v.LeaflistVal.GetElement()))
		for _, e := range v.LeaflistVal.GetElement() {
			elems = append(elems, TypedValueToString(e))
		}
		return "[" + strings.Join(elems, ",") + "]"
	}
	return FormatProtoJSON(tv)
}

// ParseDecimal64 parses a decimal string into digits and precision.
func ParseDecimal64(v string) (*gnmi.Decimal64, error) {
	trimmed := strings.TrimSpace(v)
	if len(trimmed) == 0 {
		return nil, nil
	}
	intPart, fracPart, _ := strings.Cut(trimmed, ".")
	digits, err := strconv.ParseInt(intPart+fracPart, 10, 64)
	if err != nil {
		return nil, err
	}
	return &gnmi.Decimal64{
		Digits:    digits,
		Precision: uint32(len(fracPart)),
	}, nil
}

// FormatDecimal64 renders d with trailing fraction zeros removed.
func FormatDecimal64(d *gnmi.Decimal64) string {
	if d == nil {
		return ""
	}
	neg := d.Digits < 0
	digits := strconv.FormatInt(d.Digits, 10)
	if neg {
		digits = digits[1:]
	}
	p := int(d.Precision)
	for len(digits) <= p {
		digits = "0" + digits
	}
	intPart, fracPart := digits[:len(digits)-p], strings.TrimRight(digits[len(digits)-p:], "0")
	sb := &strings.Builder{}
	if neg {
		sb.WriteString("-")
	}
	sb.WriteString(intPart)
	if fracPart != "" {
		sb.WriteString(".")
		sb.WriteString(fracPart)
	}
	return sb.String()
}
