package expr

import (
	"strings"
	"unicode"
)

var singleCharTokens = map[byte]TokenType{
	'+': PLUS,
	'-': MINUS,
	'/': SLASH,
	'^': POWER,
	',': COMMA,
	'(': LPAREN,
	')': RPAREN,
	'[': LBRACKET,
	']': RBRACKET,
}

// Lexer splits a rewritten expression into tokens.
type Lexer struct {
	input  string
	pos    int
	length int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input, length: len(input)}
}

// NextToken returns the next token, or an EOF token once the input is
// exhausted.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= l.length {
		return Token{Type: EOF, Position: l.pos}
	}

	start := l.pos
	ch := l.input[l.pos]

	if ch == '*' {
		if l.pos+1 < l.length && l.input[l.pos+1] == '*' {
			l.pos += 2
			return l.createToken(POWER, "**", start)
		}
		l.pos++
		return l.createToken(ASTERISK, "*", start)
	}
	if tt, ok := singleCharTokens[ch]; ok {
		l.pos++
		return l.createToken(tt, string(ch), start)
	}

	switch {
	case ch == '"' || ch == '\'':
		return l.readString(start)
	case isDigit(ch) || (ch == '.' && l.pos+1 < l.length && isDigit(l.input[l.pos+1])):
		return l.readNumber(start)
	case unicode.IsLetter(rune(ch)) || ch == '_':
		return l.readIdentifier(start)
	default:
		l.pos++
		return l.createToken(INVALID, string(ch), start)
	}
}

// Tokenize lexes the whole input, ending with the EOF token.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < l.length && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
}

// readString reads a quoted literal. An unterminated string is INVALID.
func (l *Lexer) readString(start int) Token {
	quote := l.input[l.pos]
	l.pos++

	end := strings.IndexByte(l.input[l.pos:], quote)
	if end < 0 {
		l.pos = l.length
		return l.createToken(INVALID, l.input[start:], start)
	}
	value := l.input[l.pos : l.pos+end]
	l.pos += end + 1
	return l.createToken(STRING, value, start)
}

// readNumber reads a decimal literal with optional exponent and an optional
// trailing j marking it imaginary.
func (l *Lexer) readNumber(start int) Token {
	l.readDigits()
	if l.peek() == '.' {
		l.pos++
		l.readDigits()
	}
	if c := l.peek(); c == 'e' || c == 'E' {
		save := l.pos
		l.pos++
		if c := l.peek(); c == '+' || c == '-' {
			l.pos++
		}
		if !isDigit(l.peek()) {
			l.pos = save
		} else {
			l.readDigits()
		}
	}
	if c := l.peek(); c == 'j' || c == 'J' {
		l.pos++
	}
	return l.createToken(NUMBER, l.input[start:l.pos], start)
}

func (l *Lexer) readDigits() {
	for l.pos < l.length && isDigit(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) readIdentifier(start int) Token {
	for l.pos < l.length && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	return l.createToken(IDENTIFIER, l.input[start:l.pos], start)
}

func (l *Lexer) peek() byte {
	if l.pos < l.length {
		return l.input[l.pos]
	}
	return 0
}

func (l *Lexer) createToken(t TokenType, value string, start int) Token {
	return Token{
		Type:     t,
		Value:    value,
		Position: start,
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || isDigit(ch) || ch == '_'
}
