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

package lrefpath

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnresolvedPrefix is returned when a path uses a prefix that is neither the
// module's own nor bound by one of its imports.
var ErrUnresolvedPrefix = errors.New("unresolved prefix")

// SyntaxErrorEntry is a single lexer or parser error.
type SyntaxErrorEntry struct {
	Line    int
	Column  int
	Message string
}

func (e SyntaxErrorEntry) String() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// SyntaxError aggregates all errors found while parsing one path statement.
type SyntaxError struct {
	Module  string
	Path    string
	Entries []SyntaxErrorEntry
}

func (e *SyntaxError) Error() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "%d syntax error(s) in leafref path %q of module %s:", len(e.Entries), e.Path, e.Module)
	for _, entry := range e.Entries {
		fmt.Fprintf(sb, "\n  %s:%s", e.Module, entry)
	}
	return sb.String()
}
