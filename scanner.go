package machan

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	nl        = '\n'
	cr        = '\r'
	dot       = '.'
	slash     = '/'
	star      = '*'
	backslash = '\\'
	squote    = '\''
	dquote    = '"'
)

// Tokenize splits source into tokens. It never fails and the result always
// ends with a single EOF token.
func Tokenize(src string) []Token {
	var (
		scan = Scan(strings.NewReader(src))
		list []Token
	)
	for {
		tok := scan.Scan()
		list = append(list, tok)
		if tok.Type == EOF {
			break
		}
	}
	return list
}

type cursor struct {
	char rune
	curr int
	next int
	Position
}

type Scanner struct {
	input []byte
	cursor

	str bytes.Buffer
}

func Scan(r io.Reader) *Scanner {
	buf, _ := io.ReadAll(r)
	buf, _ = bytes.CutPrefix(buf, []byte{0xef, 0xbb, 0xbf})
	s := Scanner{
		input: buf,
	}
	s.cursor.Line = 1
	s.read()
	return &s
}

func (s *Scanner) Scan() Token {
	defer s.reset()
	for {
		s.skip(unicode.IsSpace)
		if !s.skipComment() {
			break
		}
	}
	var tok Token
	tok.Position = s.cursor.Position
	if s.done() {
		tok.Type = EOF
		return tok
	}
	if isQuote(s.char) && s.scanString(&tok) {
		return tok
	}
	if s.scanOperator(&tok) {
		return tok
	}
	if isDigit(s.char) && s.scanDecimal(&tok) {
		return tok
	}
	if s.scanPunct(&tok) {
		return tok
	}
	s.scanWord(&tok)
	return tok
}

func (s *Scanner) skipComment() bool {
	if s.char != slash {
		return false
	}
	switch s.peek() {
	case slash:
		for !s.done() && s.char != nl {
			s.read()
		}
		return true
	case star:
		old := s.cursor
		s.read()
		s.read()
		for !s.done() {
			if s.char == star && s.peek() == slash {
				s.read()
				s.read()
				return true
			}
			s.read()
		}
		s.cursor = old
	}
	return false
}

func (s *Scanner) scanString(tok *Token) bool {
	var (
		old   = s.cursor
		quote = s.char
	)
	s.read()
	for !s.done() && s.char != quote && !isNL(s.char) {
		if s.char == backslash {
			s.write()
			s.read()
			if s.done() || isNL(s.char) {
				break
			}
		}
		s.write()
		s.read()
	}
	if s.done() || s.char != quote {
		s.cursor = old
		s.reset()
		return false
	}
	s.read()
	tok.Type = String
	tok.Literal = s.literal()
	return true
}

func (s *Scanner) scanOperator(tok *Token) bool {
	if s.done() {
		return false
	}
	str := string([]rune{s.char, s.peek()})
	op, ok := operators[str]
	if !ok || len(str) != 2 {
		return false
	}
	s.read()
	s.read()
	tok.Type = op
	tok.Literal = str
	return true
}

func (s *Scanner) scanDecimal(tok *Token) bool {
	old := s.cursor
	for !s.done() && isDigit(s.char) {
		s.write()
		s.read()
	}
	if s.char != dot || !isDigit(s.peek()) {
		s.cursor = old
		s.reset()
		return false
	}
	s.write()
	s.read()
	for !s.done() && isDigit(s.char) {
		s.write()
		s.read()
	}
	tok.Type = Number
	tok.Literal = s.literal()
	return true
}

func (s *Scanner) scanPunct(tok *Token) bool {
	if !isPunct(s.char) {
		return false
	}
	tok.Literal = string(s.char)
	tok.Type = operators[tok.Literal]
	s.read()
	return true
}

func (s *Scanner) scanWord(tok *Token) {
	for !s.done() && !unicode.IsSpace(s.char) && !isPunct(s.char) {
		s.write()
		s.read()
	}
	tok.Literal = s.literal()
	tok.Type = classify(tok.Literal)
}

func classify(word string) rune {
	if isNumeric(word) {
		return Number
	}
	if kw, ok := lookupKeyword(word); ok {
		return kw
	}
	if isIdentifier(word) && word == "undefined" {
		return Undefined
	}
	return Ident
}

func (s *Scanner) done() bool {
	return s.curr >= len(s.input)
}

func (s *Scanner) read() {
	if s.next >= len(s.input) {
		s.char = utf8.RuneError
		s.curr = len(s.input)
		return
	}
	r, n := utf8.DecodeRune(s.input[s.next:])
	if s.char == nl {
		s.cursor.Line++
		s.cursor.Column = 0
	}
	s.cursor.Column++
	s.char, s.curr, s.next = r, s.next, s.next+n
}

func (s *Scanner) peek() rune {
	if s.next >= len(s.input) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRune(s.input[s.next:])
	return r
}

func (s *Scanner) reset() {
	s.str.Reset()
}

func (s *Scanner) write() {
	s.str.WriteRune(s.char)
}

func (s *Scanner) literal() string {
	return s.str.String()
}

func (s *Scanner) skip(accept func(rune) bool) {
	for !s.done() && accept(s.char) {
		s.read()
	}
}

func isNumeric(str string) bool {
	if str == "" || !(isDigit(rune(str[0])) || str[0] == dot) {
		return false
	}
	_, err := strconv.ParseFloat(str, 64)
	return err == nil
}

func isIdentifier(str string) bool {
	for i, r := range str {
		if r == '_' || isLetter(r) {
			continue
		}
		if i > 0 && isDigit(r) {
			continue
		}
		return false
	}
	return str != ""
}

func isPunct(r rune) bool {
	_, ok := operators[string(r)]
	return ok
}

func isQuote(r rune) bool {
	return r == squote || r == dquote
}

func isNL(r rune) bool {
	return r == nl || r == cr
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
