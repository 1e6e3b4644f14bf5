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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iptecharch/leafref-server/pkg/config"
	"github.com/iptecharch/leafref-server/pkg/validator"
)

var configFile string
var schemaFiles []string
var schemaDirs []string
var debug bool
var trace bool
var logFormat string
var metricsFile string

// set in PersistentPreRunE
var cfg *config.Config
var reg *prometheus.Registry

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               "leafref-server",
	Short:             "YANG leafref validation",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringSliceVar(&schemaFiles, "schema-file", nil, "YANG file or directory, overrides the config")
	rootCmd.PersistentFlags().StringSliceVar(&schemaDirs, "schema-dir", nil, "YANG import search directory, overrides the config")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "set log level to DEBUG")
	rootCmd.PersistentFlags().BoolVarP(&trace, "trace", "t", false, "set log level to TRACE")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format, 'text' or 'json'")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write the metrics in text format to this file on exit")
}

func setup(cmd *cobra.Command, _ []string) error {
	log.SetOutput(cmd.ErrOrStderr())
	switch logFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", logFormat)
	}
	log.SetLevel(log.InfoLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}
	if trace {
		log.SetLevel(log.TraceLevel)
	}

	var err error
	cfg, err = config.New(configFile)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if len(schemaFiles) > 0 {
		cfg.Schema.Files = schemaFiles
	}
	if len(schemaDirs) > 0 {
		cfg.Schema.Directories = schemaDirs
	}
	reg = prometheus.NewRegistry()
	return nil
}

// loadValidator builds a validator for the configured schema.
func loadValidator(ctx context.Context) (*validator.Validator, error) {
	v := validator.New(cfg, validator.WithRegisterer(reg))
	if err := v.Load(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

func writeMetrics() error {
	if metricsFile == "" {
		return nil
	}
	f, err := homedir.Expand(metricsFile)
	if err != nil {
		return err
	}
	return prometheus.WriteToTextfile(f, reg)
}

// readInput reads a file, or stdin for "-". An empty name reads nothing.
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	f, err := homedir.Expand(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(f)
}
