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

package importer

import (
	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/openconfig/goyang/pkg/yang"
)

// ImportConfigAdapter is used by Import(). It allows to import hierarchically organized config data into the data tree with little overhead.
// implementation for JSON and XML do exist.
type ImportConfigAdapter interface {
	// GetElements returns the elements of a certain level.
	// This can be maps or arrays.
	// In case of arrays, the name is the key of the map that pointed to the List and
	// the content are the array values one after the other.
	// For maps, the key is the GetName() result and the GetElements() result is the referenced value
	GetElements() []ImportConfigAdapter
	// GetElement returns the value TreeImportable for a given field.
	// if the field is not present, nil is returned
	GetElement(key string) ImportConfigAdapter
	// GetKeyValue can be called on Leafs or LeafList elements to retrieve the underlaying value
	// When and were to expect a Leafs or LeafList is defined by the yang schema.
	// The String value is typically used for the keys.
	GetKeyValue() string
	// GetTVValue returns the TypedValue based value defined via the yang type. Can also only be called on Leafs or LeafLists
	GetTVValue(t *yang.YangType) (*gnmi.TypedValue, error)
	// returns the name of the actual Level.
	GetName() string
}
