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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *Config
		wantErr bool
	}{
		{
			name:    "empty file gets defaults",
			content: "",
			want: &Config{
				Schema:     &SchemaConfig{Name: defaultSchemaName},
				Validation: &Validation{Concurrency: defaultValidationConcurrency},
				HTTPServer: &HTTPServer{Address: defaultHTTPAddress, MaxBodySize: defaultMaxBodySize},
			},
		},
		{
			name: "full",
			content: `
schema:
  name: srl
  files:
    - ./yang
  excludes:
    - .*tools.*
validation:
  concurrency: 2
  disable-concurrency: true
http-server:
  address: ":9000"
prometheus:
  address: ":9090"
`,
			want: &Config{
				Schema: &SchemaConfig{
					Name:     "srl",
					Files:    []string{"./yang"},
					Excludes: []string{".*tools.*"},
				},
				Validation: &Validation{Concurrency: 1, DisableConcurrency: true},
				HTTPServer: &HTTPServer{Address: ":9000", MaxBodySize: defaultMaxBodySize},
				Prometheus: &PromConfig{Address: ":9090"},
			},
		},
		{
			name: "invalid exclude",
			content: `
schema:
  excludes:
    - "("
`,
			wantErr: true,
		},
		{
			name: "tls without key",
			content: `
http-server:
  tls:
    cert: /tmp/cert.pem
`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(f, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			got, err := New(f)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("New() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNew_NoFile(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if !c.Schema.IsEmpty() {
		t.Errorf("expected empty schema config")
	}
}
