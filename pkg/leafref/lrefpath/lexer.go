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

import "fmt"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokSlash
	tokDotDot
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokEquals
	tokColon
	tokIdent
	tokIllegal
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of path"
	case tokSlash:
		return "'/'"
	case tokDotDot:
		return "'..'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokEquals:
		return "'='"
	case tokColon:
		return "':'"
	case tokIdent:
		return "identifier"
	}
	return "illegal character"
}

var singleCharTokens = map[byte]tokenKind{
	'/': tokSlash,
	'[': tokLBracket,
	']': tokRBracket,
	'(': tokLParen,
	')': tokRParen,
	'=': tokEquals,
	':': tokColon,
}

type token struct {
	kind   tokenKind
	text   string
	line   int
	column int
}

// lexer splits a path statement into tokens. Whitespace is skipped, errors
// are reported through the errs slice and lexing continues.
type lexer struct {
	input  string
	pos    int
	line   int
	column int
	errs   []SyntaxErrorEntry
}

func newLexer(input string) *lexer {
	return &lexer{input: input, line: 1, column: 1}
}

func (l *lexer) tokens() []token {
	var toks []token
	for {
		t := l.next()
		if t.kind == tokIllegal {
			l.errs = append(l.errs, SyntaxErrorEntry{
				Line:    t.line,
				Column:  t.column,
				Message: fmt.Sprintf("token recognition error at: %q", t.text),
			})
			continue
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			return toks
		}
	}
}

func (l *lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

func (l *lexer) next() token {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.advance(1)
	}
	t := token{line: l.line, column: l.column}
	if l.pos >= len(l.input) {
		t.kind = tokEOF
		return t
	}
	c := l.input[l.pos]
	if k, ok := singleCharTokens[c]; ok {
		t.kind = k
		t.text = string(c)
		l.advance(1)
		return t
	}
	if c == '.' {
		if l.pos+1 < len(l.input) && l.input[l.pos+1] == '.' {
			t.kind = tokDotDot
			t.text = ".."
			l.advance(2)
			return t
		}
		t.kind = tokIllegal
		t.text = "."
		l.advance(1)
		return t
	}
	if isIdentStart(c) {
		start := l.pos
		l.advance(1)
		for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
			l.advance(1)
		}
		t.kind = tokIdent
		t.text = l.input[start:l.pos]
		return t
	}
	t.kind = tokIllegal
	t.text = string(c)
	l.advance(1)
	return t
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '-' || c == '.'
}
