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
	"github.com/iptecharch/leafref-server/pkg/validator"
)

var beforeFile string
var afterFile string
var docFormat string

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "validate the leafrefs of a change between two documents",
	Long: `validate imports the before and after documents and checks every leafref
touched by the change. Without --before the after document is validated as a
whole. A file name of - reads stdin.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := validator.ParseFormat(docFormat)
		if err != nil {
			return err
		}
		if afterFile == "" {
			return fmt.Errorf("--after is required")
		}
		before, err := readInput(cmd, beforeFile)
		if err != nil {
			return err
		}
		after, err := readInput(cmd, afterFile)
		if err != nil {
			return err
		}
		v, err := loadValidator(cmd.Context())
		if err != nil {
			return err
		}
		res, err := v.ValidateDocuments(cmd.Context(), before, after, format)
		if mErr := writeMetrics(); mErr != nil {
			return mErr
		}
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, w := range res.WarningsString() {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		msgs := res.ErrorsString()
		if len(msgs) == 0 {
			fmt.Fprintln(out, "valid")
			return nil
		}
		return &leafref.ValidationFailedError{
			Count:    len(msgs),
			Messages: msgs,
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&beforeFile, "before", "", "document before the change")
	validateCmd.Flags().StringVar(&afterFile, "after", "", "document after the change")
	validateCmd.Flags().StringVarP(&docFormat, "format", "f", "json", "document format, 'json' or 'xml'")
}
