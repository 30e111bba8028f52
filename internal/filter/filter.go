// Package filter builds and parses the textual filter expressions accepted by
// list endpoints, e.g. `listId eq "42"` or `listId eq "42" and isPurchased eq "false"`.
package filter

import (
	"errors"
	"fmt"
	"strings"
)

var ErrSyntax = errors.New("filter syntax")

// Cond is a single `field eq "value"` comparison.
type Cond struct {
	Field string
	Value string
}

// Expr is a conjunction of conditions.
type Expr []Cond

func Eq(field, value string) Expr {
	return Expr{{Field: field, Value: value}}
}

func (e Expr) And(field, value string) Expr {
	out := make(Expr, len(e), len(e)+1)
	copy(out, e)
	return append(out, Cond{Field: field, Value: value})
}

func (e Expr) String() string {
	parts := make([]string, len(e))
	for i, c := range e {
		v := strings.ReplaceAll(c.Value, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		parts[i] = fmt.Sprintf(`%s eq "%s"`, c.Field, v)
	}
	return strings.Join(parts, " and ")
}

// Lookup returns the value compared against field, if any.
func (e Expr) Lookup(field string) (string, bool) {
	for _, c := range e {
		if strings.EqualFold(c.Field, field) {
			return c.Value, true
		}
	}
	return "", false
}

// Parse reads an expression produced by Expr.String. An empty input yields an
// empty expression.
func Parse(s string) (Expr, error) {
	p := parser{src: s}
	var out Expr
	p.skipSpace()
	if p.done() {
		return out, nil
	}
	for {
		field := p.word()
		if field == "" {
			return nil, fmt.Errorf("%w: expected field at %d", ErrSyntax, p.pos)
		}
		p.skipSpace()
		if op := p.word(); !strings.EqualFold(op, "eq") {
			return nil, fmt.Errorf("%w: unsupported operator %q", ErrSyntax, op)
		}
		p.skipSpace()
		value, err := p.quoted()
		if err != nil {
			return nil, err
		}
		out = append(out, Cond{Field: field, Value: value})

		p.skipSpace()
		if p.done() {
			return out, nil
		}
		if conj := p.word(); !strings.EqualFold(conj, "and") {
			return nil, fmt.Errorf("%w: expected 'and', got %q", ErrSyntax, conj)
		}
		p.skipSpace()
	}
}

type parser struct {
	src string
	pos int
}

func (p *parser) done() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpace() {
	for !p.done() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) word() string {
	start := p.pos
	for !p.done() {
		c := p.src[p.pos]
		if c == ' ' || c == '\t' || c == '"' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) quoted() (string, error) {
	if p.done() || p.src[p.pos] != '"' {
		return "", fmt.Errorf("%w: expected quoted value at %d", ErrSyntax, p.pos)
	}
	p.pos++
	var b strings.Builder
	for !p.done() {
		c := p.src[p.pos]
		switch c {
		case '\\':
			p.pos++
			if p.done() {
				return "", fmt.Errorf("%w: dangling escape", ErrSyntax)
			}
			b.WriteByte(p.src[p.pos])
		case '"':
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
		p.pos++
	}
	return "", fmt.Errorf("%w: unterminated string", ErrSyntax)
}
