package query

import (
	"fmt"
	"strings"

	"github.com/rulego/udfexample/spi"
)

// maxDepth 限制嵌套深度，防止恶意输入导致栈溢出
const maxDepth = 64

type Parser struct {
	lexer *Lexer
	input string
	cur   Token
	peek  Token
	depth int
}

func NewParser(input string) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
		input: input,
	}
	p.next()
	p.next()
	return p
}

// Parse 解析一个完整的标量表达式，表达式后不允许有多余的 token
func Parse(input string) (Node, error) {
	return NewParser(input).Parse()
}

func (p *Parser) Parse() (Node, error) {
	if p.cur.Type == TokenEOF {
		return nil, &ParseError{Message: "empty expression", Position: 0}
	}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != TokenEOF {
		return nil, unexpected(p.cur, TokenEOF.String())
	}
	return node, nil
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) expect(t TokenType) (Token, error) {
	tok := p.cur
	if tok.Type != t {
		return tok, unexpected(tok, t.String())
	}
	p.next()
	return tok, nil
}

func (p *Parser) parseExpression() (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, &ParseError{Message: "expression nested too deeply", Position: p.cur.Pos}
	}

	tok := p.cur
	switch tok.Type {
	case TokenMinus:
		p.next()
		operand, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &Negative{Expr: operand, Pos: tok.Pos}, nil
	case TokenNumber:
		p.next()
		if strings.Count(tok.Value, ".") > 1 || strings.HasSuffix(tok.Value, ".") {
			return nil, &ParseError{Message: "invalid number", Position: tok.Pos, Token: tok.Value}
		}
		kind := LiteralInteger
		if strings.Contains(tok.Value, ".") {
			kind = LiteralNumber
		}
		return &Literal{Kind: kind, Text: tok.Value, Pos: tok.Pos}, nil
	case TokenString:
		p.next()
		return &Literal{Kind: LiteralString, Text: tok.Value, Pos: tok.Pos}, nil
	case TokenDECIMAL, TokenTIMESTAMP:
		return p.parseTypedLiteral()
	case TokenCAST:
		return p.parseCast()
	case TokenIdent:
		return p.parseCall()
	case TokenIllegal:
		return nil, &ParseError{Message: "illegal character", Position: tok.Pos, Token: tok.Value}
	}
	return nil, unexpected(tok, "expression")
}

// parseTypedLiteral DECIMAL '1.5' / TIMESTAMP '2001-01-02 03:04:05 UTC'
func (p *Parser) parseTypedLiteral() (Node, error) {
	keyword := p.cur
	p.next()
	text, err := p.expect(TokenString)
	if err != nil {
		return nil, err
	}
	kind := LiteralDecimal
	if keyword.Type == TokenTIMESTAMP {
		kind = LiteralTimestamp
	}
	return &Literal{Kind: kind, Text: text.Value, Pos: keyword.Pos}, nil
}

func (p *Parser) parseCast() (Node, error) {
	start := p.cur
	p.next()
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	operand, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenAS); err != nil {
		return nil, err
	}
	target, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &Cast{Expr: operand, Target: target, Pos: start.Pos}, nil
}

// parseType 读取到与 CAST 匹配的右括号为止，类型文本直接从输入中截取
func (p *Parser) parseType() (spi.Type, error) {
	start := p.cur.Pos
	depth := 0
	for {
		switch p.cur.Type {
		case TokenEOF:
			return nil, unexpected(p.cur, TokenRParen.String())
		case TokenLParen:
			depth++
		case TokenRParen:
			if depth == 0 {
				text := strings.TrimSpace(p.input[start:p.cur.Pos])
				if text == "" {
					return nil, unexpected(p.cur, "type")
				}
				t, err := spi.ParseType(text)
				if err != nil {
					return nil, &ParseError{Message: fmt.Sprintf("unknown type '%s'", text), Position: start}
				}
				return t, nil
			}
			depth--
		case TokenIllegal, TokenString:
			return nil, unexpected(p.cur, "type")
		}
		p.next()
	}
}

func (p *Parser) parseCall() (Node, error) {
	name := p.cur
	p.next()
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	call := &Call{Name: strings.ToLower(name.Value), Pos: name.Pos}
	if p.cur.Type == TokenRParen {
		p.next()
		return call, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.cur.Type == TokenComma {
			p.next()
			continue
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return call, nil
	}
}
