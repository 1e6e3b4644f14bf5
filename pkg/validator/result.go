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
	"slices"
	"sync"
)

// Result collects the violations and warnings of one validated change.
type Result struct {
	name          string
	errors        []error
	errorsMutex   sync.Mutex
	warnings      []error
	warningsMutex sync.Mutex
}

func NewResult(name string) *Result {
	return &Result{
		name:     name,
		errors:   []error{},
		warnings: []error{},
	}
}

func (r *Result) Name() string {
	return r.name
}

// Valid reports whether no error was recorded. Warnings do not count.
func (r *Result) Valid() bool {
	r.errorsMutex.Lock()
	defer r.errorsMutex.Unlock()
	return len(r.errors) == 0
}

func (r *Result) AddError(err error) {
	r.errorsMutex.Lock()
	defer r.errorsMutex.Unlock()
	r.errors = append(r.errors, err)
}

func (r *Result) AddWarning(warn error) {
	r.warningsMutex.Lock()
	defer r.warningsMutex.Unlock()
	r.warnings = append(r.warnings, warn)
}

func (r *Result) Errors() []error {
	r.errorsMutex.Lock()
	defer r.errorsMutex.Unlock()
	return slices.Clone(r.errors)
}

func (r *Result) ErrorsString() []string {
	r.errorsMutex.Lock()
	defer r.errorsMutex.Unlock()
	result := make([]string, 0, len(r.errors))
	for _, e := range r.errors {
		result = append(result, e.Error())
	}
	return result
}

func (r *Result) Warnings() []error {
	r.warningsMutex.Lock()
	defer r.warningsMutex.Unlock()
	return slices.Clone(r.warnings)
}

func (r *Result) WarningsString() []string {
	r.warningsMutex.Lock()
	defer r.warningsMutex.Unlock()
	result := make([]string, 0, len(r.warnings))
	for _, e := range r.warnings {
		result = append(result, e.Error())
	}
	return result
}

// BatchResult holds the results of a batch by request name.
type BatchResult map[string]*Result

func (b BatchResult) AddRequest(name string) {
	if _, exists := b[name]; exists {
		return
	}
	b[name] = NewResult(name)
}

func (b BatchResult) HasErrors() bool {
	for _, r := range b {
		if !r.Valid() {
			return true
		}
	}
	return false
}

func (b BatchResult) HasWarnings() bool {
	for _, r := range b {
		if len(r.Warnings()) > 0 {
			return true
		}
	}
	return false
}

// Names returns the request names sorted.
func (b BatchResult) Names() []string {
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
