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
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var output string

// leafrefsCmd represents the leafrefs command
var leafrefsCmd = &cobra.Command{
	Use:   "leafrefs",
	Short: "list the leafrefs of the schema and their targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadValidator(cmd.Context())
		if err != nil {
			return err
		}
		sum, err := v.Summary()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch output {
		case "yaml":
			b, err := yaml.Marshal(sum)
			if err != nil {
				return err
			}
			_, err = out.Write(b)
			return err
		case "text", "":
			fmt.Fprintf(out, "schema %s: %d leafrefs, %d targets\n", sum.Schema, len(sum.LeafRefs), len(sum.Targets))
			for _, lr := range sum.LeafRefs {
				opt := ""
				if lr.OptionalInstance {
					opt = " (require-instance false)"
				}
				fmt.Fprintf(out, "%s -> %s%s\n", lr.Path, lr.AbsoluteTarget, opt)
			}
			for _, t := range sum.Targets {
				fmt.Fprintf(out, "%s <- %s\n", t.Path, strings.Join(t.ReferencedBy, ", "))
			}
			return nil
		}
		return fmt.Errorf("unknown output %q", output)
	},
}

func init() {
	rootCmd.AddCommand(leafrefsCmd)

	leafrefsCmd.Flags().StringVarP(&output, "output", "o", "text", "output format, 'text' or 'yaml'")
}
