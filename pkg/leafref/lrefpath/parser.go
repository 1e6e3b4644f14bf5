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
	"fmt"

	"github.com/iptecharch/leafref-server/pkg/qname"
)

// ModuleContext is the module a path statement is written in. It binds
// unprefixed names and the module's own prefix to the module namespace and
// other prefixes through the module's imports.
type ModuleContext interface {
	Name() string
	Namespace() qname.Module
	// ResolvePrefix returns the module bound to prefix.
	ResolvePrefix(prefix string) (qname.Module, bool)
}

// Parse parses the argument of a leafref path statement.
//
//	path        = absolute | relative
//	absolute    = 1*("/" step)
//	relative    = *(".." "/") step *("/" step)
//	step        = [prefix ":"] identifier *predicate
//	predicate   = "[" [prefix ":"] identifier "=" "current" "(" ")" "/" keypath "]"
//	keypath     = 1*(".." "/") *(node "/") node
//
// All syntax errors are collected and returned as a single *SyntaxError.
// Prefixes are resolved only when the path is syntactically valid.
func Parse(path string, module ModuleContext) (*LeafRefPath, error) {
	raw, err := parseRaw(path, module.Name())
	if err != nil {
		return nil, err
	}
	return raw.resolve(module)
}

type rawPredicate struct {
	prefix string
	name   string
	key    rawPath
}

type rawStep struct {
	up     bool
	prefix string
	name   string
	preds  []rawPredicate
}

type rawPath struct {
	absolute bool
	steps    []rawStep
}

func (rp rawPath) resolve(module ModuleContext) (*LeafRefPath, error) {
	steps := make([]QNameWithPredicate, 0, len(rp.steps))
	for _, s := range rp.steps {
		if s.up {
			steps = append(steps, ParentStep)
			continue
		}
		q, err := resolveName(module, s.prefix, s.name)
		if err != nil {
			return nil, err
		}
		preds := make([]QNamePredicate, 0, len(s.preds))
		for _, pr := range s.preds {
			id, err := resolveName(module, pr.prefix, pr.name)
			if err != nil {
				return nil, err
			}
			key, err := pr.key.resolve(module)
			if err != nil {
				return nil, err
			}
			preds = append(preds, NewQNamePredicate(id, pr.prefix, key))
		}
		steps = append(steps, NewStep(q, s.prefix, preds...))
	}
	return Create(rp.absolute, steps...), nil
}

func resolveName(module ModuleContext, prefix, name string) (qname.QName, error) {
	if prefix == "" {
		return qname.QName{Module: module.Namespace(), Local: name}, nil
	}
	m, ok := module.ResolvePrefix(prefix)
	if !ok {
		return qname.QName{}, fmt.Errorf("%w %q in module %s: no import with this prefix", ErrUnresolvedPrefix, prefix, module.Name())
	}
	return qname.QName{Module: m, Local: name}, nil
}

func parseRaw(path, module string) (rawPath, error) {
	lex := newLexer(path)
	p := &parser{toks: lex.tokens()}
	p.errs = append(p.errs, lex.errs...)
	rp := p.parsePath()
	if len(p.errs) > 0 {
		return rawPath{}, &SyntaxError{Module: module, Path: path, Entries: p.errs}
	}
	return rp, nil
}

type parser struct {
	toks []token
	pos  int
	errs []SyntaxErrorEntry
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) {
	p.errs = append(p.errs, SyntaxErrorEntry{
		Line:    t.line,
		Column:  t.column,
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *parser) expect(kind tokenKind) bool {
	t := p.peek()
	if t.kind != kind {
		p.errorf(t, "mismatched input %s expecting %s", describe(t), kind)
		return false
	}
	p.next()
	return true
}

// recover skips to the next step separator.
func (p *parser) recover() {
	for {
		switch p.peek().kind {
		case tokSlash, tokEOF:
			return
		}
		p.next()
	}
}

// skipPredicate skips past the closing bracket of the current predicate.
func (p *parser) skipPredicate() {
	for {
		switch p.next().kind {
		case tokRBracket, tokEOF:
			return
		}
	}
}

func (p *parser) parsePath() rawPath {
	rp := rawPath{}
	switch p.peek().kind {
	case tokSlash:
		rp.absolute = true
		for p.peek().kind == tokSlash {
			p.next()
			if s, ok := p.parseStep(); ok {
				rp.steps = append(rp.steps, s)
			}
		}
	case tokDotDot, tokIdent:
		for p.peek().kind == tokDotDot {
			p.next()
			rp.steps = append(rp.steps, rawStep{up: true})
			if !p.expect(tokSlash) {
				p.recover()
				if p.peek().kind == tokSlash {
					p.next()
				}
			}
		}
		if s, ok := p.parseStep(); ok {
			rp.steps = append(rp.steps, s)
		}
		for p.peek().kind == tokSlash {
			p.next()
			if s, ok := p.parseStep(); ok {
				rp.steps = append(rp.steps, s)
			}
		}
	default:
		p.errorf(p.peek(), "mismatched input %s expecting '/' or '..'", describe(p.peek()))
		return rp
	}
	if t := p.peek(); t.kind != tokEOF {
		p.errorf(t, "extraneous input %s expecting end of path", describe(t))
	}
	return rp
}

func (p *parser) parseStep() (rawStep, bool) {
	prefix, name, ok := p.parseNodeIdentifier()
	if !ok {
		p.recover()
		return rawStep{}, false
	}
	s := rawStep{prefix: prefix, name: name}
	for p.peek().kind == tokLBracket {
		if pr, ok := p.parsePredicate(); ok {
			s.preds = append(s.preds, pr)
		}
	}
	return s, true
}

func (p *parser) parseNodeIdentifier() (string, string, bool) {
	t := p.peek()
	if t.kind != tokIdent {
		p.errorf(t, "mismatched input %s expecting identifier", describe(t))
		return "", "", false
	}
	p.next()
	if p.peek().kind != tokColon {
		return "", t.text, true
	}
	p.next()
	n := p.peek()
	if n.kind != tokIdent {
		p.errorf(n, "mismatched input %s expecting identifier after prefix %q", describe(n), t.text)
		return "", "", false
	}
	p.next()
	return t.text, n.text, true
}

func (p *parser) parsePredicate() (rawPredicate, bool) {
	p.next()
	prefix, name, ok := p.parseNodeIdentifier()
	if !ok || !p.expect(tokEquals) {
		p.skipPredicate()
		return rawPredicate{}, false
	}
	if t := p.peek(); t.kind != tokIdent || t.text != "current" {
		p.errorf(t, "mismatched input %s expecting 'current'", describe(t))
		p.skipPredicate()
		return rawPredicate{}, false
	}
	p.next()
	if !p.expect(tokLParen) || !p.expect(tokRParen) || !p.expect(tokSlash) {
		p.skipPredicate()
		return rawPredicate{}, false
	}
	key, ok := p.parseKeyPath()
	if !ok {
		p.skipPredicate()
		return rawPredicate{}, false
	}
	if !p.expect(tokRBracket) {
		p.skipPredicate()
		return rawPredicate{}, false
	}
	return rawPredicate{prefix: prefix, name: name, key: key}, true
}

func (p *parser) parseKeyPath() (rawPath, bool) {
	rp := rawPath{}
	if p.peek().kind != tokDotDot {
		p.errorf(p.peek(), "mismatched input %s expecting '..'", describe(p.peek()))
		return rp, false
	}
	for p.peek().kind == tokDotDot {
		p.next()
		rp.steps = append(rp.steps, rawStep{up: true})
		if !p.expect(tokSlash) {
			return rp, false
		}
	}
	for {
		prefix, name, ok := p.parseNodeIdentifier()
		if !ok {
			return rp, false
		}
		rp.steps = append(rp.steps, rawStep{prefix: prefix, name: name})
		if p.peek().kind != tokSlash {
			return rp, true
		}
		p.next()
	}
}

func describe(t token) string {
	if t.kind == tokEOF {
		return "<EOF>"
	}
	return fmt.Sprintf("%q", t.text)
}
