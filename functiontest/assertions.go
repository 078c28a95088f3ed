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

// Package functiontest 提供函数插件的测试辅助：安装插件后对 SQL 表达式断言结果值与类型。
//
//	assertions := functiontest.New(t)
//	assertions.InstallPlugin(example.FunctionsPlugin{})
//	assertions.AssertFunction("add_one(DECIMAL '0')", spi.MustDecimalType(1, 0), spi.MustSqlDecimal("1"))
package functiontest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/udfexample"
	"github.com/rulego/udfexample/functions"
	"github.com/rulego/udfexample/spi"
)

// FunctionAssertions 持有一个独立注册表的引擎，各测试之间互不影响
type FunctionAssertions struct {
	t      testing.TB
	engine *udfexample.Engine
}

// New 创建断言辅助，日志默认丢弃
func New(t testing.TB, options ...udfexample.Option) *FunctionAssertions {
	t.Helper()
	options = append([]udfexample.Option{udfexample.WithDiscardLog()}, options...)
	return &FunctionAssertions{
		t:      t,
		engine: udfexample.New(options...),
	}
}

// Engine 返回底层引擎
func (a *FunctionAssertions) Engine() *udfexample.Engine {
	return a.engine
}

// InstallPlugin 安装插件，失败时终止测试
func (a *FunctionAssertions) InstallPlugin(plugin functions.Plugin) {
	a.t.Helper()
	require.NoError(a.t, a.engine.InstallPlugin(plugin))
}

// Execute 执行表达式并返回 SqlDecimal、SqlTimestampWithTimeZone 等对象形式的结果
func (a *FunctionAssertions) Execute(sql string) (spi.Type, interface{}, error) {
	v, err := a.engine.Execute(sql)
	if err != nil {
		return nil, nil, err
	}
	obj, err := spi.ToObjectValue(v)
	if err != nil {
		return nil, nil, err
	}
	return v.Type, obj, nil
}

// AssertFunction 断言表达式结果的类型与值。SqlDecimal 按数值比较。
func (a *FunctionAssertions) AssertFunction(sql string, expectedType spi.Type, expected interface{}) bool {
	a.t.Helper()
	actualType, actual, err := a.Execute(sql)
	if !assert.NoError(a.t, err, sql) {
		return false
	}
	ok := assert.Equal(a.t, expectedType.Signature(), actualType.Signature(), "type of %s", sql)
	if want, isDecimal := expected.(spi.SqlDecimal); isDecimal {
		got, isDecimal := actual.(spi.SqlDecimal)
		return assert.True(a.t, isDecimal && want.Equal(got), "%s: expected %s, got %v", sql, want, actual) && ok
	}
	return assert.Equal(a.t, expected, actual, sql) && ok
}

// AssertInvalidFunction 断言表达式求值失败且错误链中包含 target
func (a *FunctionAssertions) AssertInvalidFunction(sql string, target error) bool {
	a.t.Helper()
	_, actual, err := a.Execute(sql)
	if !assert.Error(a.t, err, "%s returned %v", sql, actual) {
		return false
	}
	return assert.True(a.t, errors.Is(err, target), "%s: expected %v, got %v", sql, target, err)
}
