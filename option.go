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
	"io"

	"github.com/rulego/udfexample/functions"
	"github.com/rulego/udfexample/logger"
)

// Option 表示对引擎默认行为的修改配置。
type Option func(*Engine)

// WithLogger 设置自定义日志记录器。
//
// 示例:
//
//	customLogger := logger.NewLogger(logger.DEBUG, os.Stderr)
//	engine := udfexample.New(udfexample.WithLogger(customLogger))
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		e.logger = log
	}
}

// WithLogLevel 设置日志级别，在所有选项应用之后生效。
// 未指定日志器时引擎使用自己的 stderr 日志器，全局默认日志器不受影响。
//
// 示例:
//
//	engine := udfexample.New(udfexample.WithLogLevel(logger.OFF))
func WithLogLevel(level logger.Level) Option {
	return func(e *Engine) {
		e.logLevel = &level
	}
}

// WithLogOutput 设置日志输出目标。
//
// 示例:
//
//	logFile, _ := os.OpenFile("udf.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
//	engine := udfexample.New(udfexample.WithLogOutput(logFile, logger.INFO))
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return func(e *Engine) {
		e.logger = logger.NewLogger(level, output)
	}
}

// WithDiscardLog 禁用所有日志输出。
func WithDiscardLog() Option {
	return func(e *Engine) {
		e.logger = logger.NewDiscardLogger()
	}
}

// WithRegistry 使用指定的函数注册表，例如 functions.GlobalRegistry()。
func WithRegistry(registry *functions.FunctionRegistry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}
