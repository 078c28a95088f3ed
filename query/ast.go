/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// ast.go 定义标量表达式的抽象语法树

package query

import (
	"bytes"
	"strings"

	"github.com/rulego/udfexample/spi"
)

// Node 是 AST 的基础接口，所有表达式节点都实现了这个接口
type Node interface {
	// Format 用于将节点格式化为 SQL 文本
	Format(buf *bytes.Buffer)
	// Position 节点在输入中的起始位置
	Position() int
}

// LiteralKind 字面量种类
type LiteralKind int

const (
	LiteralInteger LiteralKind = iota
	LiteralNumber
	LiteralString
	LiteralDecimal
	LiteralTimestamp
)

// Literal 字面量节点，Text 为未解释的原始文本
type Literal struct {
	Kind LiteralKind
	Text string
	Pos  int
}

func (l *Literal) Format(buf *bytes.Buffer) {
	switch l.Kind {
	case LiteralInteger, LiteralNumber:
		buf.WriteString(l.Text)
	case LiteralString:
		buf.WriteString(quote(l.Text))
	case LiteralDecimal:
		buf.WriteString("DECIMAL ")
		buf.WriteString(quote(l.Text))
	case LiteralTimestamp:
		buf.WriteString("TIMESTAMP ")
		buf.WriteString(quote(l.Text))
	}
}

func (l *Literal) Position() int { return l.Pos }

// Cast CAST(expr AS type)
type Cast struct {
	Expr   Node
	Target spi.Type
	Pos    int
}

func (c *Cast) Format(buf *bytes.Buffer) {
	buf.WriteString("CAST(")
	c.Expr.Format(buf)
	buf.WriteString(" AS ")
	buf.WriteString(c.Target.Signature())
	buf.WriteString(")")
}

func (c *Cast) Position() int { return c.Pos }

// Call 函数调用
type Call struct {
	Name string
	Args []Node
	Pos  int
}

func (c *Call) Format(buf *bytes.Buffer) {
	buf.WriteString(c.Name)
	buf.WriteString("(")
	for i, arg := range c.Args {
		if i > 0 {
			buf.WriteString(", ")
		}
		arg.Format(buf)
	}
	buf.WriteString(")")
}

func (c *Call) Position() int { return c.Pos }

// Negative 一元负号
type Negative struct {
	Expr Node
	Pos  int
}

func (n *Negative) Format(buf *bytes.Buffer) {
	buf.WriteString("-")
	n.Expr.Format(buf)
}

func (n *Negative) Position() int { return n.Pos }

// String 返回节点的 SQL 文本
func String(n Node) string {
	var buf bytes.Buffer
	n.Format(&buf)
	return buf.String()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
