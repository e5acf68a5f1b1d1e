package expr

type TokenType int

const (
	EOF TokenType = iota
	INVALID
	NUMBER
	STRING
	IDENTIFIER
	PLUS
	MINUS
	ASTERISK
	SLASH
	POWER
	COMMA
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
)

var tokenNames = map[TokenType]string{
	EOF:        "end of input",
	INVALID:    "invalid character",
	NUMBER:     "number",
	STRING:     "string",
	IDENTIFIER: "identifier",
	PLUS:       "'+'",
	MINUS:      "'-'",
	ASTERISK:   "'*'",
	SLASH:      "'/'",
	POWER:      "'**'",
	COMMA:      "','",
	LPAREN:     "'('",
	RPAREN:     "')'",
	LBRACKET:   "'['",
	RBRACKET:   "']'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown"
}

// Token is a lexical unit with its byte offset in the input.
type Token struct {
	Type     TokenType
	Value    string
	Position int
}
