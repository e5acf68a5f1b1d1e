package expr

import (
	"errors"
	"testing"
)

func TestLexer(t *testing.T) {
	tokens := NewLexer(`ecc("ed",2,2)**2.5e-1j`).Tokenize()
	expected := []Token{
		{Type: IDENTIFIER, Value: "ecc", Position: 0},
		{Type: LPAREN, Value: "(", Position: 3},
		{Type: STRING, Value: "ed", Position: 4},
		{Type: COMMA, Value: ",", Position: 8},
		{Type: NUMBER, Value: "2", Position: 9},
		{Type: COMMA, Value: ",", Position: 10},
		{Type: NUMBER, Value: "2", Position: 11},
		{Type: RPAREN, Value: ")", Position: 12},
		{Type: POWER, Value: "**", Position: 13},
		{Type: NUMBER, Value: "2.5e-1j", Position: 15},
		{Type: EOF, Value: "", Position: 22},
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, tok := range tokens {
		if tok != expected[i] {
			t.Errorf("token %d: expected %+v, got %+v", i, expected[i], tok)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "1+2*3", expected: "(1 + (2 * 3))"},
		{input: "1-2-3", expected: "((1 - 2) - 3)"},
		{input: "-2**2", expected: "(-(2 ** 2))"},
		{input: "2**3**2", expected: "(2 ** (3 ** 2))"},
		{input: "2^-1", expected: "(2 ** (-1))"},
		{input: "abs(V(\"pion\",2))/2", expected: `(abs(V("pion", 2)) / 2)`},
		{input: "[0.5, 1, 3j]", expected: "[0.5, 1, 3j]"},
		{input: "f()", expected: "f()"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if got := node.String(); got != tt.expected {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		position int
	}{
		{input: "", position: 0},
		{input: "1+", position: 2},
		{input: "(1", position: 2},
		{input: "1 2", position: 2},
		{input: "f(1,", position: 4},
		{input: `"open`, position: 0},
		{input: "1 $ 2", position: 2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("expected SyntaxError, got %v", err)
			}
			if syntaxErr.Position != tt.position {
				t.Errorf("expected position %d, got %d (%v)", tt.position, syntaxErr.Position, err)
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("expected ErrSyntax kind")
			}
		})
	}
}
