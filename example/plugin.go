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

// Package example is a plugin showing how scalar functions are written against
// the dual-representation types of package spi.
//
// It provides two functions:
//
//	add_one(decimal(p, s)) -> decimal(p, s)
//	yesterday(timestamp(p) with time zone) -> timestamp(p) with time zone
//
// Install it into a registry or an engine:
//
//	engine := udfexample.New()
//	err := engine.InstallPlugin(example.FunctionsPlugin{})
//	v, err := engine.Execute("add_one(DECIMAL '0')")
package example

import "github.com/rulego/udfexample/functions"

// FunctionsPlugin bundles the example functions.
type FunctionsPlugin struct{}

var _ functions.Plugin = FunctionsPlugin{}

// Functions returns new declarations of add_one and yesterday.
func (FunctionsPlugin) Functions() []*functions.ScalarFunction {
	return []*functions.ScalarFunction{
		NewAddOneFunction(),
		NewYesterdayFunction(),
	}
}
