// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdl

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Type is the type of a lexed item.
//
type Type int

// Tokens
const (
	EOF Type = iota
	Raw
	Ident
	BracketOpen
	BracketClose
	Comma
	Int
	Range
	Equal
)

var typeNames = [...]string{
	EOF:          "end of input",
	Raw:          "character",
	Ident:        "identifier",
	BracketOpen:  "'['",
	BracketClose: "']'",
	Comma:        "','",
	Int:          "integer",
	Range:        "'..'",
	Equal:        "'='",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "token(" + strconv.Itoa(int(t)) + ")"
}

// Item is a lexed token.
//
type Item struct {
	Type  Type
	Pos   int
	Value interface{}
}

func (i Item) String() string {
	switch i.Type {
	case Ident:
		return "identifier " + strconv.Quote(i.Value.(string))
	case Int:
		return "integer " + strconv.Itoa(i.Value.(int))
	case Raw:
		return "character " + strconv.QuoteRune(i.Value.(rune))
	}
	return i.Type.String()
}

// Lexer splits i/o specs and connection descriptions into tokens.
//
type Lexer struct {
	input string
	pos   int
}

// NewLexer returns a new lexer for i/o specs and connection descriptions.
//
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func (l *Lexer) peek(off int) rune {
	if l.pos+off >= len(l.input) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos+off:])
	return r
}

// Lex returns the next token. Once the end of input has been reached, it keeps
// returning EOF.
//
func (l *Lexer) Lex() Item {
	for l.pos < len(l.input) {
		r, sz := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		l.pos += sz
	}
	if l.pos >= len(l.input) {
		return Item{EOF, l.pos, nil}
	}

	start := l.pos
	r, sz := utf8.DecodeRuneInString(l.input[l.pos:])
	switch {
	case unicode.IsLetter(r) || r == '_':
		return l.lexIdent()
	case '0' <= r && r <= '9':
		return l.lexNumber()
	case r == '[':
		l.pos += sz
		return Item{BracketOpen, start, "["}
	case r == ']':
		l.pos += sz
		return Item{BracketClose, start, "]"}
	case r == ',':
		l.pos += sz
		return Item{Comma, start, ","}
	case r == '=':
		l.pos += sz
		return Item{Equal, start, "="}
	case r == '.' && l.peek(1) == '.':
		l.pos += 2
		return Item{Range, start, ".."}
	}
	l.pos += sz
	return Item{Raw, start, r}
}

func (l *Lexer) lexNumber() Item {
	start := l.pos
	i := 0
	for l.pos < len(l.input) && '0' <= l.input[l.pos] && l.input[l.pos] <= '9' {
		i = i*10 + int(l.input[l.pos]-'0')
		l.pos++
	}
	return Item{Int, start, i}
}

// lexIdent accepts dotted names like "fir_0.o_wavelet". A dot is part of a
// name only when followed by a letter or '_', so that ranges like "a[0..3]"
// still lex properly.
//
func (l *Lexer) lexIdent() Item {
	start := l.pos
	for l.pos < len(l.input) {
		r, sz := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			l.pos += sz
			continue
		}
		if r == '.' {
			if n := l.peek(1); unicode.IsLetter(n) || n == '_' {
				l.pos += sz
				continue
			}
		}
		break
	}
	return Item{Ident, start, l.input[start:l.pos]}
}
