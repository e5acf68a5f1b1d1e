package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser is a recursive descent parser over the token stream. Precedence
// from loosest: + -, * /, unary sign, ** (right associative), calls.
type Parser struct {
	input  string
	tokens []Token
	pos    int
}

// Parse parses a complete expression.
func Parse(input string) (Node, error) {
	p := &Parser{input: input, tokens: NewLexer(input).Tokenize()}
	if p.peek().Type == EOF {
		return nil, p.errorf(p.peek(), "empty expression")
	}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != EOF {
		return nil, p.errorf(tok, "unexpected %s %q", tok.Type, tok.Value)
	}
	return node, nil
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.next()
	if tok.Type != tt {
		return tok, p.errorf(tok, "expected %s, got %s %q", tt, tok.Type, tok.Value)
	}
	return tok, nil
}

func (p *Parser) errorf(tok Token, format string, args ...any) error {
	return &SyntaxError{Expression: p.input, Position: tok.Position, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) parseExpression() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Type != PLUS && tok.Type != MINUS {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: tok.Type, Left: left, Right: right, Position: tok.Position}
	}
}

func (p *Parser) parseTerm() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Type != ASTERISK && tok.Type != SLASH {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: tok.Type, Left: left, Right: right, Position: tok.Position}
	}
}

// parseUnary binds looser than ** so that -2**2 is -(2**2).
func (p *Parser) parseUnary() (Node, error) {
	tok := p.peek()
	if tok.Type == PLUS || tok.Type == MINUS {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: tok.Type, Operand: operand, Position: tok.Position}, nil
	}
	return p.parsePower()
}

func (p *Parser) parsePower() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.Type != POWER {
		return base, nil
	}
	p.next()
	exponent, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: POWER, Left: base, Right: exponent, Position: tok.Position}, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.next()
	switch tok.Type {
	case NUMBER:
		value, err := parseNumber(tok.Value)
		if err != nil {
			return nil, p.errorf(tok, "invalid number %q", tok.Value)
		}
		return &Number{Value: value, Position: tok.Position}, nil
	case STRING:
		return &String{Value: tok.Value, Position: tok.Position}, nil
	case IDENTIFIER:
		if p.peek().Type == LPAREN {
			p.next()
			args, err := p.parseList(RPAREN)
			if err != nil {
				return nil, err
			}
			return &Call{Name: tok.Value, Args: args, Position: tok.Position}, nil
		}
		return &Ident{Name: tok.Value, Position: tok.Position}, nil
	case LPAREN:
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return node, nil
	case LBRACKET:
		items, err := p.parseList(RBRACKET)
		if err != nil {
			return nil, err
		}
		return &List{Items: items, Position: tok.Position}, nil
	case EOF:
		return nil, p.errorf(tok, "unexpected end of expression")
	default:
		return nil, p.errorf(tok, "unexpected %s %q", tok.Type, tok.Value)
	}
}

// parseList reads comma separated expressions up to and including closer.
func (p *Parser) parseList(closer TokenType) ([]Node, error) {
	var items []Node
	if p.peek().Type == closer {
		p.next()
		return items, nil
	}
	for {
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		tok := p.next()
		switch tok.Type {
		case COMMA:
			continue
		case closer:
			return items, nil
		default:
			return nil, p.errorf(tok, "expected ',' or %s, got %s %q", closer, tok.Type, tok.Value)
		}
	}
}

func parseNumber(text string) (complex128, error) {
	if strings.HasSuffix(text, "j") || strings.HasSuffix(text, "J") {
		v, err := strconv.ParseFloat(text[:len(text)-1], 64)
		if err != nil {
			return 0, err
		}
		return complex(0, v), nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	return complex(v, 0), nil
}
