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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v2"

	"github.com/iptecharch/leafref-server/pkg/datatree"
	"github.com/iptecharch/leafref-server/pkg/utils"
	"github.com/iptecharch/leafref-server/pkg/validator"
)

var importFile string

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "import a document and print its normalized data tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := validator.ParseFormat(docFormat)
		if err != nil {
			return err
		}
		b, err := readInput(cmd, importFile)
		if err != nil {
			return err
		}
		if len(b) == 0 {
			return fmt.Errorf("--file is required")
		}
		v, err := loadValidator(cmd.Context())
		if err != nil {
			return err
		}
		h, err := v.Current()
		if err != nil {
			return err
		}
		root, err := validator.ImportDocument(h.Schema, b, format)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch output {
		case "yaml":
			y, err := yaml.Marshal(toYAML(root))
			if err != nil {
				return err
			}
			_, err = out.Write(y)
			return err
		case "text", "":
			printLeaves(out, datatree.InstanceIdentifier{}, root)
			return nil
		}
		return fmt.Errorf("unknown output %q", output)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importFile, "file", "", "document to import")
	importCmd.Flags().StringVarP(&docFormat, "format", "f", "json", "document format, 'json' or 'xml'")
	importCmd.Flags().StringVarP(&output, "output", "o", "text", "output format, 'text' or 'yaml'")
}

// printLeaves prints one line per leaf and leaf-list entry below n.
func printLeaves(w io.Writer, id datatree.InstanceIdentifier, n datatree.NormalizedNode) {
	switch n := n.(type) {
	case datatree.ValueNode:
		fmt.Fprintf(w, "%s = %s\n", id, utils.FormatProtoText(n.Value()))
	case *datatree.LeafSetNode:
		for _, e := range n.Children() {
			printLeaves(w, id.Node(e.Identifier()), e)
		}
	case *datatree.MapNode:
		for _, e := range n.Entries() {
			printLeaves(w, id.Node(e.Identifier()), e)
		}
	case *datatree.UnkeyedListNode:
		for _, e := range n.Entries() {
			printLeaves(w, id.Node(e.Identifier()), e)
		}
	case datatree.ParentNode:
		for _, c := range n.Children() {
			switch c.(type) {
			case *datatree.ChoiceNode, *datatree.AugmentationNode:
				// not part of instance paths
				printLeaves(w, id, c)
			case *datatree.MapNode, *datatree.UnkeyedListNode, *datatree.LeafSetNode:
				printLeaves(w, id, c)
			default:
				printLeaves(w, id.Node(c.Identifier()), c)
			}
		}
	}
}

// toYAML renders n as nested yaml maps keyed by local names.
func toYAML(n datatree.NormalizedNode) any {
	switch n := n.(type) {
	case datatree.ValueNode:
		return yamlValue(n)
	case *datatree.LeafSetNode:
		values := make([]any, 0, len(n.Children()))
		for _, e := range n.Children() {
			values = append(values, toYAML(e))
		}
		return values
	case *datatree.MapNode:
		entries := make([]any, 0, len(n.Entries()))
		for _, e := range n.Entries() {
			entries = append(entries, toYAML(e))
		}
		return entries
	case *datatree.UnkeyedListNode:
		entries := make([]any, 0, len(n.Entries()))
		for _, e := range n.Entries() {
			entries = append(entries, toYAML(e))
		}
		return entries
	case datatree.ParentNode:
		return yamlChildren(n)
	}
	return nil
}

func yamlChildren(n datatree.ParentNode) yaml.MapSlice {
	m := yaml.MapSlice{}
	for _, c := range n.Children() {
		switch c := c.(type) {
		case *datatree.ChoiceNode:
			m = append(m, yamlChildren(c)...)
		case *datatree.AugmentationNode:
			m = append(m, yamlChildren(c)...)
		default:
			m = append(m, yaml.MapItem{Key: c.Identifier().NodeType().Local, Value: toYAML(c)})
		}
	}
	return m
}

func yamlValue(n datatree.ValueNode) any {
	v, err := utils.GetValue(n.Value())
	if err != nil {
		return utils.TypedValueToString(n.Value())
	}
	if _, ok := v.(proto.Message); ok {
		return utils.TypedValueToString(n.Value())
	}
	return v
}
