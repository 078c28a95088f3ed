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

/*
Package functions is the scalar function extensibility API.

A scalar function is declared once under a SQL name with a signature that may
be parameterized by literal parameters, and implemented by one or more
variants. Each variant handles one combination of native representations
(see package spi): a decimal(p, s) argument arrives as an int64 when p is
small and as an Int128 otherwise, so a function over decimals usually carries
a short and a long variant.

# Declaring a function

	fn := functions.NewScalarFunction("add_one", functions.TypeMath, "decimal", "Add +1 to the value given").
		LiteralParameters("p", "s").
		Signature("decimal(p, s)", "decimal(p, s)").
		Variant("addOneShort",
			[]spi.Representation{spi.RepresentationShort}, spi.RepresentationShort,
			func(ctx *functions.FunctionContext, args []interface{}) (interface{}, error) {
				return args[0].(int64) + 1, nil
			})

# Resolution

FunctionRegistry.Resolve binds the literal parameters from the concrete
argument types (decimal(18,0) binds p=18, s=0), derives the return type from
the bound return signature and selects the variant whose representations match.
The result is a ResolvedFunction that can be invoked any number of times from
any goroutine.

	resolved, err := registry.Resolve("add_one", []spi.Type{spi.MustDecimalType(18, 0)})
	result, err := resolved.Invoke(arg)

# Plugins

A Plugin returns a bundle of declarations; FunctionRegistry.InstallPlugin
registers all of them or none.

# expr-lang integration

ExprBridge exposes every registered function to expr-lang/expr programs,
together with the constructors decimal("1.5"), decimal_cast(v, p, s) and
timestamp_tz("2001-01-02 03:04:05.321 Europe/Berlin"):

	bridge := functions.NewExprBridge(registry)
	v, err := bridge.EvaluateExpression(`add_one(decimal_cast(x, 18, 0))`, map[string]interface{}{"x": 41})
*/
package functions
