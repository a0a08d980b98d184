package pdfmodel

import (
	"bytes"
	"strconv"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokName
	tokString
	tokDelim
	tokKeyword
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

// lexer splits a content stream into tokens. It understands just enough of
// the syntax to keep operands and operators apart; strings, dictionaries and
// arrays are passed through as opaque tokens.
type lexer struct {
	data []byte
	pos  int
}

func isSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isSpace(c) {
			l.pos++
			continue
		}
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

func (l *lexer) next() (token, bool) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return token{}, false
	}
	c := l.data[l.pos]
	switch {
	case c == '/':
		l.pos++
		start := l.pos
		for l.pos < len(l.data) && !isSpace(l.data[l.pos]) && !isDelim(l.data[l.pos]) {
			l.pos++
		}
		return token{kind: tokName, text: decodeName(l.data[start:l.pos])}, true
	case c == '(':
		l.skipLiteralString()
		return token{kind: tokString}, true
	case c == '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return token{kind: tokDelim, text: "<<"}, true
		}
		end := bytes.IndexByte(l.data[l.pos:], '>')
		if end < 0 {
			l.pos = len(l.data)
		} else {
			l.pos += end + 1
		}
		return token{kind: tokString}, true
	case c == '>':
		l.pos++
		if l.pos < len(l.data) && l.data[l.pos] == '>' {
			l.pos++
			return token{kind: tokDelim, text: ">>"}, true
		}
		return token{kind: tokDelim, text: ">"}, true
	case c == '[' || c == ']' || c == '{' || c == '}' || c == ')':
		l.pos++
		return token{kind: tokDelim, text: string(c)}, true
	}

	start := l.pos
	for l.pos < len(l.data) && !isSpace(l.data[l.pos]) && !isDelim(l.data[l.pos]) {
		l.pos++
	}
	word := string(l.data[start:l.pos])
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return token{kind: tokNumber, text: word, num: f}, true
	}
	return token{kind: tokKeyword, text: word}, true
}

func (l *lexer) skipLiteralString() {
	depth := 0
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '\\':
			l.pos++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// skipInlineImage advances past the binary data following an ID operator,
// stopping at the EI keyword.
func (l *lexer) skipInlineImage() {
	if l.pos < len(l.data) && isSpace(l.data[l.pos]) {
		l.pos++
	}
	for i := l.pos; i+1 < len(l.data); i++ {
		if l.data[i] != 'E' || l.data[i+1] != 'I' {
			continue
		}
		if i > 0 && !isSpace(l.data[i-1]) {
			continue
		}
		if i+2 < len(l.data) && !isSpace(l.data[i+2]) && !isDelim(l.data[i+2]) {
			continue
		}
		l.pos = i
		return
	}
	l.pos = len(l.data)
}

func decodeName(b []byte) string {
	if bytes.IndexByte(b, '#') < 0 {
		return string(b)
	}
	var out []byte
	for i := 0; i < len(b); i++ {
		if b[i] == '#' && i+2 < len(b) {
			if v, err := strconv.ParseUint(string(b[i+1:i+3]), 16, 8); err == nil {
				out = append(out, byte(v))
				i += 2
				continue
			}
		}
		out = append(out, b[i])
	}
	return string(out)
}

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// concat returns m × n, the matrix that applies m first and then n.
func (m matrix) concat(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

// operator is a content stream operator together with its operands.
type operator struct {
	name     string
	operands []token
}

// walkOperators calls fn for every operator in data, in stream order.
// Inline image data is skipped.
func walkOperators(data []byte, fn func(op operator)) {
	l := &lexer{data: data}
	var operands []token
	for {
		tok, ok := l.next()
		if !ok {
			return
		}
		if tok.kind != tokKeyword {
			operands = append(operands, tok)
			continue
		}
		switch tok.text {
		case "true", "false", "null":
			operands = append(operands, tok)
			continue
		case "ID":
			l.skipInlineImage()
		}
		fn(operator{name: tok.text, operands: operands})
		operands = operands[:0]
	}
}

// numbers returns the trailing n operands as numbers.
func (op operator) numbers(n int) ([]float64, bool) {
	if len(op.operands) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i, t := range op.operands[len(op.operands)-n:] {
		if t.kind != tokNumber {
			return nil, false
		}
		out[i] = t.num
	}
	return out, true
}

// nameOperand returns the operand at position fromEnd counted from the end
// (0 = last) if it is a name.
func (op operator) nameOperand(fromEnd int) (string, bool) {
	i := len(op.operands) - 1 - fromEnd
	if i < 0 || op.operands[i].kind != tokName {
		return "", false
	}
	return op.operands[i].text, true
}
