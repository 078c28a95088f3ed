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

package example

import (
	"fmt"

	"github.com/rulego/udfexample/functions"
	"github.com/rulego/udfexample/spi"
)

// AddOneName is the SQL name of the decimal increment function.
const AddOneName = "add_one"

// NewAddOneFunction declares add_one(decimal(p, s)) -> decimal(p, s).
//
// Decimals are carried in one of two forms: an int64 unscaled magnitude when
// the precision fits, an Int128 otherwise. The implementations receive p and s
// through the function context even though only the overflow check reads p.
func NewAddOneFunction() *functions.ScalarFunction {
	short, long := spi.RepresentationShort, spi.RepresentationLong
	return functions.NewScalarFunction(AddOneName, functions.TypeMath, "decimal", "Add +1 to the value given").
		LiteralParameters("p", "s").
		Signature("decimal(p, s)", "decimal(p, s)").
		Variant("addOneShort", []spi.Representation{short}, short, addOneShort).
		Variant("addOneLong", []spi.Representation{long}, long, addOneLong).
		Variant("addOneShortLong", []spi.Representation{short}, long, addOneShortLong)
}

func addOneShort(ctx *functions.FunctionContext, args []interface{}) (interface{}, error) {
	num := args[0].(int64)
	result := num + 1
	if spi.ShortOverflowsPrecision(result, ctx.Literal("p")) {
		return nil, overflow(ctx, spi.UnscaledDecimal(num))
	}
	return result, nil
}

func addOneLong(ctx *functions.FunctionContext, args []interface{}) (interface{}, error) {
	num := args[0].(spi.Int128)
	addAmount := spi.UnscaledDecimal(1)
	result, err := spi.AddDecimal(num, addAmount)
	if err != nil {
		return nil, err
	}
	if spi.OverflowsPrecision(result, ctx.Literal("p")) {
		return nil, overflow(ctx, num)
	}
	return result, nil
}

func addOneShortLong(ctx *functions.FunctionContext, args []interface{}) (interface{}, error) {
	return addOneLong(ctx, []interface{}{spi.UnscaledDecimal(args[0].(int64))})
}

func overflow(ctx *functions.FunctionContext, unscaled spi.Int128) error {
	return fmt.Errorf("%w: %s + 1 exceeds decimal(%d,%d)",
		spi.ErrDecimalOverflow, unscaled, ctx.Literal("p"), ctx.Literal("s"))
}
