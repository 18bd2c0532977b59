// Copyright 2026 The rasdaman WCPS Authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package formula

import (
	"fmt"
	"strconv"
)

type token int

const (
	tokEOF token = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPow
	tokLParen
	tokRParen
)

func (t token) String() string {
	switch t {
	case tokEOF:
		return "end of input"
	case tokNumber:
		return "number"
	case tokIdent:
		return "identifier"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokPow:
		return "'**'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return "<unknown token>"
	}
}

// SyntaxError describes a malformed formula
type SyntaxError struct {
	Position int    // offset in the input string
	Message  string // textual description of the error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("at position %d: %s", e.Position, e.Message)
}

type scanner struct {
	from []byte
	pos  int

	// the current token and its text
	tok   token
	start int
	text  string
	num   any
}

func isdigit(x byte) bool {
	return x >= '0' && x <= '9'
}

func isalpha(x byte) bool {
	return (x >= 'a' && x <= 'z') || (x >= 'A' && x <= 'Z')
}

func isident(x byte) bool {
	return isalpha(x) || isdigit(x) || x == '_'
}

func isspace(x byte) bool {
	return x == ' ' || x == '\n' || x == '\t' || x == '\r' || x == '\f' || x == '\v'
}

func (s *scanner) errorf(pos int, f string, args ...any) error {
	return &SyntaxError{Position: pos, Message: fmt.Sprintf(f, args...)}
}

// next advances to the next token
func (s *scanner) next() error {
	for s.pos < len(s.from) && isspace(s.from[s.pos]) {
		s.pos++
	}
	s.start = s.pos
	s.text = ""
	s.num = nil
	if s.pos >= len(s.from) {
		s.tok = tokEOF
		return nil
	}
	c := s.from[s.pos]
	switch {
	case isdigit(c) || (c == '.' && s.pos+1 < len(s.from) && isdigit(s.from[s.pos+1])):
		return s.lexNumber()
	case isalpha(c) || c == '_':
		for s.pos < len(s.from) && isident(s.from[s.pos]) {
			s.pos++
		}
		s.tok = tokIdent
		s.text = string(s.from[s.start:s.pos])
		return nil
	}
	s.pos++
	switch c {
	case '+':
		s.tok = tokPlus
	case '-':
		s.tok = tokMinus
	case '/':
		s.tok = tokSlash
	case '(':
		s.tok = tokLParen
	case ')':
		s.tok = tokRParen
	case '*':
		s.tok = tokStar
		if s.pos < len(s.from) && s.from[s.pos] == '*' {
			s.pos++
			s.tok = tokPow
		}
	default:
		return s.errorf(s.start, "unexpected character %q", c)
	}
	return nil
}

// lexNumber lexes an integer or a
// floating-point literal with an
// optional exponent
func (s *scanner) lexNumber() error {
	floatnum := false
scan:
	for s.pos < len(s.from) {
		c := s.from[s.pos]
		switch {
		case isdigit(c):
		case c == '.':
			floatnum = true
		case (c == 'e' || c == 'E') && s.pos+1 < len(s.from):
			n := s.from[s.pos+1]
			if n == '+' || n == '-' {
				s.pos++
			}
			floatnum = true
		default:
			break scan
		}
		s.pos++
	}
	s.tok = tokNumber
	s.text = string(s.from[s.start:s.pos])
	if !floatnum {
		i, err := strconv.ParseInt(s.text, 10, 64)
		if err == nil {
			s.num = i
			return nil
		}
	}
	f, err := strconv.ParseFloat(s.text, 64)
	if err != nil {
		return s.errorf(s.start, "invalid number %q", s.text)
	}
	s.num = f
	return nil
}
