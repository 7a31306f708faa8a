// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdl parses the small pin description language used to declare part
// inputs and outputs and to wire parts together.
//
// I/O specs are comma separated pin names with an optional bus size:
//
//	"a, b, bus[8]"
//
// Connection strings assign part pins to chip wires:
//
//	"in=i_value, out[0..3]=x[4..7], sel=false"
//
package hdl

import (
	"github.com/pkg/errors"
)

// Pin is a pin reference as found in a connection string: a plain name, an
// indexed pin name[i] or a range name[start..end]. For plain names, Start and
// End are both -1. For indexed pins, Start == End.
//
type Pin struct {
	Name  string
	Pos   int
	Start int
	End   int
}

// IsRange returns true if p has a bracketed index or range.
//
func (p Pin) IsRange() bool { return p.Start >= 0 }

// Len returns the number of pins referenced by p or 0 if p is a plain name.
//
func (p Pin) Len() int {
	if !p.IsRange() {
		return 0
	}
	if p.End >= p.Start {
		return p.End - p.Start + 1
	}
	return p.Start - p.End + 1
}

// Index returns the i-th pin index in the range.
//
func (p Pin) Index(i int) int {
	if p.End >= p.Start {
		return p.Start + i
	}
	return p.Start - i
}

// Assignment is a part pin to chip pin assignment: pp=cp
//
type Assignment struct {
	PP Pin
	CP Pin
}

// IOSpec parses a pin specification and returns the declared pins together
// with their bus size (0 for single pins).
//
func IOSpec(input string) ([]Pin, error) {
	var out []Pin
	l := NewLexer(input)
	i := l.Lex()
	if i.Type == EOF {
		return nil, nil
	}
	for {
		if i.Type != Ident {
			return nil, parseError(input, i, "expected pin name")
		}
		p := Pin{Name: i.Value.(string), Pos: i.Pos, Start: -1, End: -1}
		i = l.Lex()
		if i.Type == BracketOpen {
			i = l.Lex()
			if i.Type != Int {
				return nil, parseError(input, i, "missing bus size")
			}
			if i.Value.(int) < 1 {
				return nil, parseError(input, i, "invalid bus size")
			}
			p.Start, p.End = 0, i.Value.(int)-1
			if i = l.Lex(); i.Type != BracketClose {
				return nil, parseError(input, i, "missing close bracket")
			}
			i = l.Lex()
		}
		out = append(out, p)
		switch i.Type {
		case EOF:
			return out, nil
		case Comma:
			i = l.Lex()
		default:
			return nil, parseError(input, i, "expected bus size specification or comma")
		}
	}
}

// Connections parses a connection string.
//
func Connections(input string) ([]Assignment, error) {
	var out []Assignment
	l := NewLexer(input)
	i := l.Lex()
	if i.Type == EOF {
		return nil, nil
	}
	for {
		var a Assignment
		var err error
		if a.PP, i, err = pin(l, i, input); err != nil {
			return nil, err
		}
		if i.Type != Equal {
			return nil, parseError(input, i, "expected '='")
		}
		if a.CP, i, err = pin(l, l.Lex(), input); err != nil {
			return nil, err
		}
		if a.PP.IsRange() && a.CP.IsRange() && a.PP.Len() != a.CP.Len() && a.CP.Len() != 1 {
			return nil, errors.Errorf("in %q: pin count mismatch in %s[%d..%d]=%s[%d..%d]",
				input, a.PP.Name, a.PP.Start, a.PP.End, a.CP.Name, a.CP.Start, a.CP.End)
		}
		out = append(out, a)
		switch i.Type {
		case EOF:
			return out, nil
		case Comma:
			i = l.Lex()
		default:
			return nil, parseError(input, i, "expected comma or end of input")
		}
	}
}

// pin parses a pin reference starting at item i and returns the pin and the
// item following it.
//
func pin(l *Lexer, i Item, input string) (Pin, Item, error) {
	if i.Type != Ident {
		return Pin{}, i, parseError(input, i, "expected pin name")
	}
	p := Pin{Name: i.Value.(string), Pos: i.Pos, Start: -1, End: -1}
	i = l.Lex()
	if i.Type != BracketOpen {
		return p, i, nil
	}
	i = l.Lex()
	if i.Type != Int {
		return p, i, parseError(input, i, "integer value expected after '['")
	}
	p.Start = i.Value.(int)
	p.End = p.Start
	i = l.Lex()
	if i.Type == Range {
		i = l.Lex()
		if i.Type != Int {
			return p, i, parseError(input, i, "integer value expected after '..'")
		}
		p.End = i.Value.(int)
		i = l.Lex()
	}
	if i.Type != BracketClose {
		return p, i, parseError(input, i, "closing ']' expected after index or range")
	}
	return p, l.Lex(), nil
}

func parseError(in string, i Item, msg string) error {
	return errors.Errorf("in %q at pos %d: %s, got %s", in, i.Pos+1, msg, i)
}
