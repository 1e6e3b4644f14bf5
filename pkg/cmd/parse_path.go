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

	"github.com/spf13/cobra"

	"github.com/iptecharch/leafref-server/pkg/leafref"
	"github.com/iptecharch/leafref-server/pkg/schema"
)

var moduleName string

// parsePathCmd represents the parse-path command
var parsePathCmd = &cobra.Command{
	Use:   "parse-path PATH",
	Short: "parse a leafref path in the context of a module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if moduleName == "" {
			return fmt.Errorf("--module is required")
		}
		s, err := schema.NewSchema(cfg.Schema)
		if err != nil {
			return err
		}
		p, err := leafref.ParsePath(s, moduleName, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "path: %s\n", p)
		fmt.Fprintf(out, "absolute: %t\n", p.IsAbsolute())
		for i, step := range p.PathFromRoot() {
			if step.IsParent() {
				fmt.Fprintf(out, "%d: ..\n", i)
				continue
			}
			fmt.Fprintf(out, "%d: %s\n", i, step.QName())
			for _, pred := range step.Predicates() {
				fmt.Fprintf(out, "   [%s = current()/%s]\n", pred.Identifier(), pred.PathKeyExpression())
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parsePathCmd)

	parsePathCmd.Flags().StringVarP(&moduleName, "module", "m", "", "module the path is written in")
}
