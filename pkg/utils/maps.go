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
	"cmp"
	"slices"
	"strings"
)

// MapToString converts a map into a string using a formatter function. Keys
// are visited in sorted order.
func MapToString[K cmp.Ordered, V any](m map[K]V, sep string, format func(K, V) string) string {
	var b strings.Builder
	for i, k := range SortedKeys(m) {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(format(k, m[k]))
	}
	return b.String()
}

// MapToStringEmptyMessage converts a map into a string using a formatter function, returning the emptyMessage if the map does not contain entries.
func MapToStringEmptyMessage[K cmp.Ordered, V any](m map[K]V, sep string, format func(K, V) string, emptyMessage string) string {
	if len(m) == 0 {
		return emptyMessage
	}
	return MapToString(m, sep, format)
}

// MapToSlice executes a function on all the elements of a map, taking in key and value and returns the
// collected results in a slice, in sorted key order.
func MapToSlice[K cmp.Ordered, V any, X any](m map[K]V, f func(K, V) X) []X {
	result := make([]X, 0, len(m))
	for _, k := range SortedKeys(m) {
		result = append(result, f(k, m[k]))
	}
	return result
}

func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
