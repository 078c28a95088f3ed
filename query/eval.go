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

package query

import (
	"fmt"
	"strconv"

	"github.com/rulego/udfexample/functions"
	"github.com/rulego/udfexample/logger"
	"github.com/rulego/udfexample/spi"
)

// Evaluator 对解析后的表达式做常量求值，函数调用经注册表解析后执行
type Evaluator struct {
	registry *functions.FunctionRegistry
	logger   logger.Logger
}

// NewEvaluator 创建求值器，registry 为 nil 时使用全局注册表
func NewEvaluator(registry *functions.FunctionRegistry, log logger.Logger) *Evaluator {
	if registry == nil {
		registry = functions.GlobalRegistry()
	}
	if log == nil {
		log = logger.NewDiscardLogger()
	}
	return &Evaluator{registry: registry, logger: log}
}

// Execute 解析并求值一个表达式
func (e *Evaluator) Execute(sql string) (spi.TypedValue, error) {
	node, err := Parse(sql)
	if err != nil {
		return spi.TypedValue{}, err
	}
	return e.Evaluate(node)
}

func (e *Evaluator) Evaluate(node Node) (spi.TypedValue, error) {
	switch n := node.(type) {
	case *Literal:
		return e.literal(n)
	case *Negative:
		v, err := e.Evaluate(n.Expr)
		if err != nil {
			return spi.TypedValue{}, err
		}
		return spi.Negate(v)
	case *Cast:
		v, err := e.Evaluate(n.Expr)
		if err != nil {
			return spi.TypedValue{}, err
		}
		return spi.Cast(v, n.Target)
	case *Call:
		return e.call(n)
	}
	return spi.TypedValue{}, fmt.Errorf("unsupported expression node %T", node)
}

func (e *Evaluator) literal(n *Literal) (spi.TypedValue, error) {
	switch n.Kind {
	case LiteralInteger:
		if i, err := strconv.ParseInt(n.Text, 10, 64); err == nil {
			return spi.TypedValue{Type: spi.Bigint, Value: i}, nil
		}
		// 超出 bigint 范围的整数按 decimal 处理
		return spi.DecimalLiteral(n.Text)
	case LiteralNumber, LiteralDecimal:
		return spi.DecimalLiteral(n.Text)
	case LiteralTimestamp:
		return spi.TimestampWithTimeZoneLiteral(n.Text)
	case LiteralString:
		return spi.TypedValue{Type: spi.Varchar, Value: n.Text}, nil
	}
	return spi.TypedValue{}, fmt.Errorf("unsupported literal kind %d", n.Kind)
}

func (e *Evaluator) call(n *Call) (spi.TypedValue, error) {
	args := make([]spi.TypedValue, len(n.Args))
	types := make([]spi.Type, len(n.Args))
	for i, arg := range n.Args {
		v, err := e.Evaluate(arg)
		if err != nil {
			return spi.TypedValue{}, err
		}
		args[i] = v
		types[i] = v.Type
	}

	resolved, err := e.registry.Resolve(n.Name, types)
	if err != nil {
		return spi.TypedValue{}, err
	}
	e.logger.Debug("resolved %s to variant %s returning %s", String(n), resolved.Variant().Name, resolved.ReturnType().Signature())
	return resolved.Invoke(args...)
}
