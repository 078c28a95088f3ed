package query

import "strings"

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal
	TokenIdent
	TokenNumber
	TokenString
	TokenComma
	TokenLParen
	TokenRParen
	TokenMinus
	TokenCAST
	TokenAS
	TokenDECIMAL
	TokenTIMESTAMP
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenIllegal:
		return "illegal character"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenComma:
		return "','"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenMinus:
		return "'-'"
	case TokenCAST:
		return "CAST"
	case TokenAS:
		return "AS"
	case TokenDECIMAL:
		return "DECIMAL"
	case TokenTIMESTAMP:
		return "TIMESTAMP"
	}
	return "unknown"
}

type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	start := l.pos
	switch l.ch {
	case 0:
		return Token{Type: TokenEOF, Pos: start}
	case ',':
		l.readChar()
		return Token{Type: TokenComma, Value: ",", Pos: start}
	case '(':
		l.readChar()
		return Token{Type: TokenLParen, Value: "(", Pos: start}
	case ')':
		l.readChar()
		return Token{Type: TokenRParen, Value: ")", Pos: start}
	case '-':
		l.readChar()
		return Token{Type: TokenMinus, Value: "-", Pos: start}
	}

	if isLetter(l.ch) {
		ident := l.readIdentifier()
		return l.lookupIdent(ident, start)
	}

	if isDigit(l.ch) {
		return Token{Type: TokenNumber, Value: l.readNumber(), Pos: start}
	}

	if l.ch == '\'' {
		s, ok := l.readString()
		if !ok {
			return Token{Type: TokenIllegal, Value: l.input[start:], Pos: start}
		}
		return Token{Type: TokenString, Value: s, Pos: start}
	}

	ch := l.ch
	l.readChar()
	return Token{Type: TokenIllegal, Value: string(ch), Pos: start}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func (l *Lexer) readNumber() string {
	pos := l.pos
	for isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

// readString 读取单引号字符串，'' 表示一个单引号
func (l *Lexer) readString() (string, bool) {
	l.readChar() // 跳过开头单引号
	var b strings.Builder
	for {
		switch {
		case l.ch == 0 && l.pos >= len(l.input):
			return "", false
		case l.ch == '\'' && l.peekChar() == '\'':
			b.WriteByte('\'')
			l.readChar()
			l.readChar()
		case l.ch == '\'':
			l.readChar() // 跳过结尾单引号
			return b.String(), true
		default:
			b.WriteByte(l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) lookupIdent(ident string, pos int) Token {
	switch strings.ToUpper(ident) {
	case "CAST":
		return Token{Type: TokenCAST, Value: ident, Pos: pos}
	case "AS":
		return Token{Type: TokenAS, Value: ident, Pos: pos}
	case "DECIMAL":
		return Token{Type: TokenDECIMAL, Value: ident, Pos: pos}
	case "TIMESTAMP":
		return Token{Type: TokenTIMESTAMP, Value: ident, Pos: pos}
	default:
		return Token{Type: TokenIdent, Value: ident, Pos: pos}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
