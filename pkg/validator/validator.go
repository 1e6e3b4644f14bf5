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

package validator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/iptecharch/leafref-server/pkg/config"
	"github.com/iptecharch/leafref-server/pkg/datatree"
	"github.com/iptecharch/leafref-server/pkg/datatree/importer"
	jsonImporter "github.com/iptecharch/leafref-server/pkg/datatree/importer/json"
	xmlImporter "github.com/iptecharch/leafref-server/pkg/datatree/importer/xml"
	"github.com/iptecharch/leafref-server/pkg/leafref"
	"github.com/iptecharch/leafref-server/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoSchema         = errors.New("no schema loaded")
	ErrDuplicateRequest = errors.New("duplicate request name")
)

type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// ParseFormat maps the empty string to FormatJSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatXML:
		return FormatXML, nil
	}
	return "", fmt.Errorf("unknown document format %q", s)
}

// Handle is a loaded schema with its leafref index. A reload replaces the
// handle, a handle itself never changes.
type Handle struct {
	Schema   *schema.Schema
	Index    *leafref.Context
	LoadedAt time.Time
}

type Validator struct {
	cfg     *config.Config
	handle  atomic.Pointer[Handle]
	metrics *metrics
}

type Option func(*Validator)

// WithRegisterer registers the validator metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(v *Validator) {
		if reg != nil {
			v.metrics.register(reg)
		}
	}
}

func New(cfg *config.Config, opts ...Option) *Validator {
	v := &Validator{
		cfg:     cfg,
		metrics: newMetrics(),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Load reads the configured schema and builds its index. The current handle
// is only replaced on success.
func (v *Validator) Load(ctx context.Context) error {
	if v.cfg.Schema.IsEmpty() {
		return fmt.Errorf("schema %s: %w: no yang files configured", v.cfg.Schema.Name, ErrNoSchema)
	}
	s, err := schema.NewSchema(v.cfg.Schema)
	if err != nil {
		return err
	}
	return v.install(ctx, s)
}

// Reload rebuilds the schema of the current handle from its sources. Without
// a current handle it falls back to Load.
func (v *Validator) Reload(ctx context.Context) error {
	h := v.handle.Load()
	if h == nil {
		return v.Load(ctx)
	}
	s, err := h.Schema.Reload()
	if err != nil {
		return err
	}
	return v.install(ctx, s)
}

// LoadSources builds the schema from in memory YANG sources keyed by file
// name.
func (v *Validator) LoadSources(ctx context.Context, name string, sources map[string]string) error {
	s, err := schema.NewSchemaFromSources(name, sources)
	if err != nil {
		return err
	}
	return v.install(ctx, s)
}

func (v *Validator) install(ctx context.Context, s *schema.Schema) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	idx, err := leafref.Build(s)
	if err != nil {
		return fmt.Errorf("schema %s: %w", s.UniqueName(), err)
	}
	v.handle.Store(&Handle{
		Schema:   s,
		Index:    idx,
		LoadedAt: time.Now(),
	})
	v.metrics.leafRefs.Set(float64(len(idx.LeafRefs())))
	v.metrics.targets.Set(float64(len(idx.Targets())))
	log.Infof("schema %s loaded: %d modules, %d leafrefs, %d targets",
		s.UniqueName(), len(s.Modules()), len(idx.LeafRefs()), len(idx.Targets()))
	return nil
}

func (v *Validator) Current() (*Handle, error) {
	h := v.handle.Load()
	if h == nil {
		return nil, ErrNoSchema
	}
	return h, nil
}

// Validate checks the leafrefs of candidate c. Violations are reported in
// the Result, a non nil error means the candidate could not be validated.
func (v *Validator) Validate(ctx context.Context, c *datatree.Candidate) (*Result, error) {
	h, err := v.Current()
	if err != nil {
		return nil, err
	}
	return v.validate(ctx, NewResult(""), h, c)
}

// validate runs the index of h, the handle the candidate was imported with.
func (v *Validator) validate(ctx context.Context, res *Result, h *Handle, c *datatree.Candidate) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if v.cfg.Validation.Disabled {
		log.Debug("leafref validation disabled")
		return res, nil
	}
	var opts []leafref.ValidateOption
	if v.cfg.Validation.StrictOptionalInstance {
		opts = append(opts, leafref.WithStrictOptionalInstance())
	}

	start := time.Now()
	run, err := leafref.Run(c, h.Index, opts...)
	v.metrics.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		v.metrics.validations.WithLabelValues(resultError).Inc()
		return nil, err
	}
	for _, m := range run.Messages {
		res.AddError(errors.New(m))
	}
	for _, w := range run.Warnings {
		res.AddWarning(errors.New(w))
	}
	v.metrics.violations.Add(float64(len(run.Messages)))
	if len(run.Messages) > 0 {
		v.metrics.validations.WithLabelValues(resultInvalid).Inc()
	} else {
		v.metrics.validations.WithLabelValues(resultValid).Inc()
	}
	return res, nil
}

// ValidateDocuments imports before and after in the given format and
// validates the change between them. An empty before is an empty datastore.
func (v *Validator) ValidateDocuments(ctx context.Context, before, after []byte, format Format) (*Result, error) {
	return v.validateDocuments(ctx, NewResult(""), before, after, format)
}

func (v *Validator) validateDocuments(ctx context.Context, res *Result, before, after []byte, format Format) (*Result, error) {
	h, err := v.Current()
	if err != nil {
		return nil, err
	}
	var beforeTree, afterTree datatree.NormalizedNode
	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		n, err := ImportDocument(h.Schema, before, format)
		if err != nil {
			return fmt.Errorf("before: %w", err)
		}
		beforeTree = n
		return nil
	})
	eg.Go(func() error {
		n, err := ImportDocument(h.Schema, after, format)
		if err != nil {
			return fmt.Errorf("after: %w", err)
		}
		afterTree = n
		return nil
	})
	if err := eg.Wait(); err != nil {
		v.metrics.validations.WithLabelValues(resultError).Inc()
		return nil, err
	}
	return v.validate(ctx, res, h, datatree.NewCandidate(beforeTree, afterTree))
}

// ImportDocument builds the data tree of document b. An empty document is an
// empty data tree.
func ImportDocument(s *schema.Schema, b []byte, format Format) (datatree.NormalizedNode, error) {
	if len(b) == 0 {
		return importer.Import(s, nil)
	}
	switch format {
	case FormatXML:
		a, err := xmlImporter.NewXmlTreeImporterFromBytes(b)
		if err != nil {
			return nil, err
		}
		return importer.Import(s, a)
	case FormatJSON, "":
		a, err := jsonImporter.NewJsonTreeImporterFromBytes(b)
		if err != nil {
			return nil, err
		}
		return importer.Import(s, a)
	}
	return nil, fmt.Errorf("unknown document format %q", format)
}

// Request is one change of a batch.
type Request struct {
	Name   string
	Format Format
	Before []byte
	After  []byte
}

// ValidateBatch validates the requests concurrently, up to the configured
// concurrency. Requests not started when ctx is done fail with the context
// error.
func (v *Validator) ValidateBatch(ctx context.Context, reqs []Request) (BatchResult, error) {
	names, err := requestNames(reqs)
	if err != nil {
		return nil, err
	}
	results := make(BatchResult, len(reqs))
	for _, name := range names {
		results.AddRequest(name)
	}

	eg := new(errgroup.Group)
	eg.SetLimit(v.cfg.Validation.Concurrency)
	for i, req := range reqs {
		req := req
		name := names[i]
		res := results[name]
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				res.AddError(err)
				return nil
			}
			if _, err := v.validateDocuments(ctx, res, req.Before, req.After, req.Format); err != nil {
				log.Debugf("batch request %s: %v", name, err)
				res.AddError(err)
			}
			return nil
		})
	}
	_ = eg.Wait()
	return results, nil
}

// requestNames returns the result name of every request. Unnamed requests
// are called request-<index>, with a suffix if a named request took that
// name already. Names given twice fail with ErrDuplicateRequest.
func requestNames(reqs []Request) ([]string, error) {
	names := make([]string, len(reqs))
	taken := make(map[string]struct{}, len(reqs))
	for i, r := range reqs {
		if r.Name == "" {
			continue
		}
		if _, ok := taken[r.Name]; ok {
			return nil, fmt.Errorf("%w %q", ErrDuplicateRequest, r.Name)
		}
		taken[r.Name] = struct{}{}
		names[i] = r.Name
	}
	for i := range reqs {
		if names[i] != "" {
			continue
		}
		name := fmt.Sprintf("request-%d", i)
		for n := 1; ; n++ {
			if _, ok := taken[name]; !ok {
				break
			}
			name = fmt.Sprintf("request-%d-%d", i, n)
		}
		taken[name] = struct{}{}
		names[i] = name
	}
	return names, nil
}
