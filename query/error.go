package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax 是所有解析错误的哨兵错误，可用 errors.Is 判断
var ErrSyntax = errors.New("syntax error")

// ParseError 解析错误，携带出错位置和期望的 token
type ParseError struct {
	Message  string
	Position int
	Token    string
	Expected []string
}

// Error 实现 error 接口
func (e *ParseError) Error() string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s: %s at position %d", ErrSyntax, e.Message, e.Position))
	if e.Token != "" {
		builder.WriteString(fmt.Sprintf(" (found '%s')", e.Token))
	}
	if len(e.Expected) > 0 {
		builder.WriteString(fmt.Sprintf(", expected: %s", strings.Join(e.Expected, ", ")))
	}
	return builder.String()
}

func (e *ParseError) Unwrap() error {
	return ErrSyntax
}

func unexpected(tok Token, expected ...string) *ParseError {
	found := tok.Value
	if tok.Type == TokenEOF {
		found = tok.Type.String()
	}
	return &ParseError{
		Message:  "unexpected token",
		Position: tok.Pos,
		Token:    found,
		Expected: expected,
	}
}
