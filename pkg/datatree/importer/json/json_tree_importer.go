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
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iptecharch/leafref-server/pkg/datatree/importer"
	"github.com/iptecharch/leafref-server/pkg/utils"
	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/openconfig/goyang/pkg/yang"
	log "github.com/sirupsen/logrus"
)

type JsonTreeImporter struct {
	data any
	name string
}

func newJsonTreeImporterInternal(name string, d any) *JsonTreeImporter {
	return &JsonTreeImporter{
		data: d,
		name: name,
	}
}

func NewJsonTreeImporter(d any) *JsonTreeImporter {
	return &JsonTreeImporter{
		data: d,
		name: "root",
	}
}

// NewJsonTreeImporterFromBytes decodes an RFC 7951 document. Numbers are
// kept as json.Number so 64 bit values survive.
func NewJsonTreeImporterFromBytes(b []byte) (*JsonTreeImporter, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var d any
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode json document: %w", err)
	}
	if _, ok := d.(map[string]any); !ok {
		return nil, fmt.Errorf("json document must be an object, got %T", d)
	}
	return NewJsonTreeImporter(d), nil
}

func (j *JsonTreeImporter) GetElement(key string) importer.ImportConfigAdapter {
	switch d := j.data.(type) {
	case map[string]any:
		for k, v := range d {
			beforeColon, elemName, found := strings.Cut(k, ":")
			if !found {
				elemName = beforeColon
			}
			if key == elemName {
				return newJsonTreeImporterInternal(key, v)
			}
		}
	}
	return nil
}

func (j *JsonTreeImporter) GetElements() []importer.ImportConfigAdapter {
	var result []importer.ImportConfigAdapter
	switch d := j.data.(type) {
	case map[string]any:
		result = make([]importer.ImportConfigAdapter, 0, len(d))
		for _, k := range utils.SortedKeys(d) {
			v := d[k]
			beforeColon, key, found := strings.Cut(k, ":")
			if !found {
				key = beforeColon
			}
			switch subElem := v.(type) {
			case []any:
				// [null] is the encoding of the empty type, not a list
				if len(subElem) == 1 && subElem[0] == nil {
					result = append(result, newJsonTreeImporterInternal(key, v))
					continue
				}
				for _, listElem := range subElem {
					result = append(result, newJsonTreeImporterInternal(key, listElem))
				}
			default:
				result = append(result, newJsonTreeImporterInternal(key, v))
			}
		}
	case nil:
	default:
		log.Errorf("element %q of type %T has no child elements", j.name, j.data)
	}
	return result
}

func (j *JsonTreeImporter) GetKeyValue() string {
	return fmt.Sprintf("%v", j.data)
}

func (j *JsonTreeImporter) GetTVValue(t *yang.YangType) (*gnmi.TypedValue, error) {
	return utils.ConvertJSONValue(j.data, t)
}

func (j *JsonTreeImporter) GetName() string {
	return j.name
}

// Function to ensure JsonTreeImporter implements ImportConfigAdapter (optional)
var _ importer.ImportConfigAdapter = (*JsonTreeImporter)(nil)
