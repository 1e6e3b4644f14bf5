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

package xml

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/iptecharch/leafref-server/pkg/datatree/importer"
	"github.com/iptecharch/leafref-server/pkg/utils"
	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/openconfig/goyang/pkg/yang"
)

type XmlTreeImporter struct {
	elem *etree.Element
}

func NewXmlTreeImporter(d *etree.Element) *XmlTreeImporter {
	return &XmlTreeImporter{
		elem: d,
	}
}

// NewXmlTreeImporterFromBytes parses a document whose root element (for
// example <config> or <data>) holds the top level data nodes.
func NewXmlTreeImporterFromBytes(b []byte) (*XmlTreeImporter, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, fmt.Errorf("failed to parse xml document: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("xml document has no root element")
	}
	return NewXmlTreeImporter(root), nil
}

func (x *XmlTreeImporter) GetElement(key string) importer.ImportConfigAdapter {
	e := x.elem.SelectElement(key)
	if e == nil {
		return nil
	}
	return NewXmlTreeImporter(e)
}

func (x *XmlTreeImporter) GetElements() []importer.ImportConfigAdapter {
	childs := x.elem.ChildElements()
	if len(childs) == 0 {
		return nil
	}

	result := make([]importer.ImportConfigAdapter, 0, len(childs))

	for _, c := range childs {
		result = append(result, NewXmlTreeImporter(c))
	}

	return result
}

func (x *XmlTreeImporter) GetKeyValue() string {
	return strings.TrimSpace(x.elem.Text())
}

func (x *XmlTreeImporter) GetTVValue(t *yang.YangType) (*gnmi.TypedValue, error) {
	return utils.Convert(x.GetKeyValue(), t)
}

func (x *XmlTreeImporter) GetName() string {
	return x.elem.Tag
}

// Function to ensure XmlTreeImporter implements ImportConfigAdapter (optional)
var _ importer.ImportConfigAdapter = (*XmlTreeImporter)(nil)
