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
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
	"sigs.k8s.io/controller-runtime/pkg/certwatcher"
)

type Config struct {
	Schema     *SchemaConfig `yaml:"schema,omitempty" json:"schema,omitempty"`
	Validation *Validation   `yaml:"validation,omitempty" json:"validation,omitempty"`
	HTTPServer *HTTPServer   `yaml:"http-server,omitempty" json:"http-server,omitempty"`
	Prometheus *PromConfig   `yaml:"prometheus,omitempty" json:"prometheus,omitempty"`
}

type TLS struct {
	CA         string `yaml:"ca,omitempty" json:"ca,omitempty"`
	Cert       string `yaml:"cert,omitempty" json:"cert,omitempty"`
	Key        string `yaml:"key,omitempty" json:"key,omitempty"`
	SkipVerify bool   `yaml:"skip-verify,omitempty" json:"skip-verify,omitempty"`
}

type HTTPServer struct {
	Address string `yaml:"address,omitempty" json:"address,omitempty"`
	TLS     *TLS   `yaml:"tls,omitempty" json:"tls,omitempty"`
	// MaxBodySize bounds the size of documents accepted for validation.
	MaxBodySize int64 `yaml:"max-body-size,omitempty" json:"max-body-size,omitempty"`
}

type PromConfig struct {
	Address string `yaml:"address,omitempty" json:"address,omitempty"`
}

// New reads the config file, if any, and applies defaults.
func New(file string) (*Config, error) {
	c := new(Config)
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		err = yaml.Unmarshal(b, c)
		if err != nil {
			return nil, err
		}
	}
	err := c.validateSetDefaults()
	return c, err
}

func (c *Config) validateSetDefaults() error {
	if c.Schema == nil {
		c.Schema = &SchemaConfig{}
	}
	if err := c.Schema.validateSetDefaults(); err != nil {
		return err
	}
	if c.Validation == nil {
		c.Validation = &Validation{}
	}
	if err := c.Validation.validateSetDefaults(); err != nil {
		return err
	}
	if c.HTTPServer == nil {
		c.HTTPServer = &HTTPServer{}
	}
	if c.HTTPServer.Address == "" {
		c.HTTPServer.Address = defaultHTTPAddress
	}
	if c.HTTPServer.MaxBodySize <= 0 {
		c.HTTPServer.MaxBodySize = defaultMaxBodySize
	}
	if c.HTTPServer.TLS != nil {
		if (c.HTTPServer.TLS.Cert == "") != (c.HTTPServer.TLS.Key == "") {
			return errors.New("http-server tls requires both cert and key")
		}
	}
	return nil
}

// NewConfig builds a server side tls.Config. The certificate is watched and
// reloaded until ctx is done.
func (t *TLS) NewConfig(ctx context.Context) (*tls.Config, error) {
	tlsCfg := &tls.Config{InsecureSkipVerify: t.SkipVerify}
	if t.CA != "" {
		ca, err := os.ReadFile(t.CA)
		if err != nil {
			return nil, fmt.Errorf("failed to read client CA cert: %w", err)
		}
		if len(ca) != 0 {
			caCertPool := x509.NewCertPool()
			caCertPool.AppendCertsFromPEM(ca)
			tlsCfg.ClientCAs = caCertPool
			tlsCfg.ClientAuth = tls.VerifyClientCertIfGiven
		}
	}

	if t.Cert != "" && t.Key != "" {
		certWatcher, err := certwatcher.New(t.Cert, t.Key)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := certWatcher.Start(ctx); err != nil {
				log.Errorf("certificate watcher error: %v", err)
			}
		}()
		tlsCfg.GetCertificate = certWatcher.GetCertificate
	}
	return tlsCfg, nil
}
