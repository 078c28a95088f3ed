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

package udfexample

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/markkurossi/tabulate"

	"github.com/rulego/udfexample/functions"
	"github.com/rulego/udfexample/logger"
	"github.com/rulego/udfexample/query"
	"github.com/rulego/udfexample/spi"
	"github.com/rulego/udfexample/utils/table"
)

// Engine 安装函数插件并对标量表达式求值。
//
// 使用示例:
//
//	engine := udfexample.New()
//	_ = engine.InstallPlugin(example.FunctionsPlugin{})
//	v, err := engine.Execute("add_one(DECIMAL '1.50')")
type Engine struct {
	registry  *functions.FunctionRegistry
	evaluator *query.Evaluator
	bridge    *functions.ExprBridge
	logger    logger.Logger

	logLevel *logger.Level
}

// New 创建引擎实例。未指定注册表时使用独立的新注册表，
// 与全局注册表互不影响。
//
// 示例:
//
//	// 使用全局注册表并输出调试日志
//	engine := udfexample.New(
//	    udfexample.WithRegistry(functions.GlobalRegistry()),
//	    udfexample.WithLogLevel(logger.DEBUG),
//	)
func New(options ...Option) *Engine {
	e := &Engine{}
	for _, option := range options {
		option(e)
	}
	if e.registry == nil {
		e.registry = functions.NewFunctionRegistry()
	}
	switch {
	case e.logger == nil && e.logLevel != nil:
		// 只调整本引擎的级别，不修改全局默认日志器
		e.logger = logger.NewLogger(*e.logLevel, os.Stderr)
	case e.logger == nil:
		e.logger = logger.GetDefault()
	case e.logLevel != nil:
		e.logger.SetLevel(*e.logLevel)
	}
	e.evaluator = query.NewEvaluator(e.registry, e.logger)
	e.bridge = functions.NewExprBridge(e.registry)
	return e
}

// Registry 返回引擎使用的函数注册表
func (e *Engine) Registry() *functions.FunctionRegistry {
	return e.registry
}

// Logger 返回引擎日志器
func (e *Engine) Logger() logger.Logger {
	return e.logger
}

// InstallPlugin 注册插件提供的全部函数。任一函数注册失败时不会留下部分注册的结果。
func (e *Engine) InstallPlugin(plugin functions.Plugin) error {
	names, err := e.registry.InstallPlugin(plugin)
	if err != nil {
		e.logger.Error("install plugin %T: %v", plugin, err)
		return err
	}
	e.logger.Info("installed plugin %T: %s", plugin, strings.Join(names, ", "))
	return nil
}

// Execute 解析并执行一个 SQL 标量表达式。
//
// 支持的语法:
//   - 字面量: DECIMAL '1.5', TIMESTAMP '2001-01-02 03:04:05.321 Europe/Berlin', 12, 1.5, 'text'
//   - 类型转换: CAST(expr AS decimal(18,0)), CAST(expr AS timestamp(6) with time zone)
//   - 函数调用: add_one(expr), yesterday(expr)
//
// 示例:
//
//	v, err := engine.Execute("add_one(CAST(0 AS DECIMAL(18,0)))")
//	// v.Type.Signature() == "decimal(18,0)", v.String() == "1"
func (e *Engine) Execute(sql string) (spi.TypedValue, error) {
	v, err := e.evaluator.Execute(sql)
	if err != nil {
		e.logger.Debug("execute %q failed: %v", sql, err)
		return spi.TypedValue{}, err
	}
	e.logger.Debug("execute %q = %s %s", sql, v.Type.Signature(), v)
	return v, nil
}

// Evaluate 使用 expr-lang 语法求值，env 中的值可作为变量引用。
//
// 示例:
//
//	v, err := engine.Evaluate("add_one(decimal_cast(x, 18, 0))", map[string]interface{}{"x": 41})
func (e *Engine) Evaluate(expression string, env map[string]interface{}) (spi.TypedValue, error) {
	v, err := e.bridge.EvaluateExpression(expression, env)
	if err != nil {
		e.logger.Debug("evaluate %q failed: %v", expression, err)
		return spi.TypedValue{}, err
	}
	return v, nil
}

// Functions 返回已注册函数的描述，每个函数一行
func (e *Engine) Functions() []map[string]interface{} {
	names := e.registry.Names()
	rows := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		fn, ok := e.registry.Get(name)
		if !ok {
			continue
		}
		variants := make([]string, 0, len(fn.Variants()))
		for _, v := range fn.Variants() {
			variants = append(variants, v.Name)
		}
		rows = append(rows, map[string]interface{}{
			"name":        name,
			"signature":   fn.DisplaySignature(),
			"category":    fn.GetCategory(),
			"variants":    strings.Join(variants, ", "),
			"description": fn.GetDescription(),
		})
	}
	return rows
}

// FunctionFields 函数列表的列顺序
var FunctionFields = []string{"name", "signature", "category", "variants", "description"}

// PrintFunctions 以表格形式输出已注册函数
func (e *Engine) PrintFunctions(w io.Writer, style tabulate.Style) {
	rows := e.Functions()
	if len(rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}
	table.PrintTableFromSlice(w, style, rows, FunctionFields)
}
