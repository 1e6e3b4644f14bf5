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

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/iptecharch/leafref-server/pkg/validator"
)

type validateRequest struct {
	Name   string `json:"name,omitempty"`
	Format string `json:"format,omitempty"`
	Before string `json:"before,omitempty"`
	After  string `json:"after"`
}

type validateResponse struct {
	Name     string   `json:"name,omitempty"`
	Valid    bool     `json:"valid"`
	Count    int      `json:"count,omitempty"`
	Messages []string `json:"messages,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newValidateResponse(res *validator.Result) *validateResponse {
	msgs := res.ErrorsString()
	return &validateResponse{
		Name:     res.Name(),
		Valid:    len(msgs) == 0,
		Count:    len(msgs),
		Messages: msgs,
		Warnings: res.WarningsString(),
	}
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req := new(validateRequest)
	if err := s.decode(w, r, req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	format, err := validator.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.validator.ValidateDocuments(r.Context(), []byte(req.Before), []byte(req.After), format)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	resp := newValidateResponse(res)
	if !resp.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidateBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []validateRequest
	if err := s.decode(w, r, &reqs); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := s.validator.Current(); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	batch := make([]validator.Request, 0, len(reqs))
	for i, req := range reqs {
		format, err := validator.ParseFormat(req.Format)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("request %d: %w", i, err))
			return
		}
		batch = append(batch, validator.Request{
			Name:   req.Name,
			Format: format,
			Before: []byte(req.Before),
			After:  []byte(req.After),
		})
	}
	results, err := s.validator.ValidateBatch(r.Context(), batch)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	resp := make([]*validateResponse, 0, len(results))
	for _, name := range results.Names() {
		resp = append(resp, newValidateResponse(results[name]))
	}
	status := http.StatusOK
	if results.HasErrors() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleLeafRefs(w http.ResponseWriter, r *http.Request) {
	sum, err := s.validator.Summary()
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.validator.Reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	h, err := s.validator.Current()
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"schema":    h.Schema.UniqueName(),
		"loaded-at": h.LoadedAt,
		"leafrefs":  len(h.Index.LeafRefs()),
		"targets":   len(h.Index.Targets()),
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.config.HTTPServer.MaxBodySize)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func statusOf(err error) int {
	if errors.Is(err, validator.ErrNoSchema) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

func writeError(w http.ResponseWriter, status int, err error) {
	log.Debugf("request failed with status %d: %v", status, err)
	writeJSON(w, status, &errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}
