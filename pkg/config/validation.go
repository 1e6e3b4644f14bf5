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

import "fmt"

type Validation struct {
	// Disabled turns every validation run into a no-op success.
	Disabled bool `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	// Concurrency is the number of candidates validated in parallel by a batch.
	Concurrency        int  `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	DisableConcurrency bool `yaml:"disable-concurrency,omitempty" json:"disable-concurrency,omitempty"`
	// StrictOptionalInstance reports leafrefs with require-instance false as
	// violations instead of warnings.
	StrictOptionalInstance bool `yaml:"strict-optional-instance,omitempty" json:"strict-optional-instance,omitempty"`
}

func (v *Validation) validateSetDefaults() error {
	if v.Concurrency < 0 {
		return fmt.Errorf("validation concurrency must not be negative: %d", v.Concurrency)
	}
	if v.Concurrency == 0 {
		v.Concurrency = defaultValidationConcurrency
	}
	if v.DisableConcurrency {
		v.Concurrency = 1
	}
	return nil
}
