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

package leafref

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidLeafRef marks a leafref path statement the index could not
	// be built from.
	ErrInvalidLeafRef = errors.New("invalid leafref")
	// ErrParentUnderflow is returned when a path climbs above the root.
	ErrParentUnderflow = errors.New("parent step above the root")
	// ErrInconsistentData is returned when the data tree does not match the
	// schema the index was built from.
	ErrInconsistentData = errors.New("data tree inconsistent with leafref index")
)

// ValidationFailedError carries every violation found in one run.
type ValidationFailedError struct {
	Count    int
	Messages []string
	// Warnings are violations of leafrefs with require-instance false.
	Warnings []string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("leafref validation failed with %d errors:\n%s", e.Count, strings.Join(e.Messages, "\n"))
}
