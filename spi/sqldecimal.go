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

package spi

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// SqlDecimal is the engine-independent form of a decimal value, used for
// literals, display and test expectations.
type SqlDecimal struct {
	unscaled  *big.Int
	precision int64
	scale     int64
}

// NewSqlDecimal builds a value from an unscaled magnitude.
func NewSqlDecimal(unscaled *big.Int, precision, scale int64) SqlDecimal {
	return SqlDecimal{unscaled: new(big.Int).Set(unscaled), precision: precision, scale: scale}
}

// ParseSqlDecimal parses decimal literal text. Precision and scale are derived
// from the digits: "0" is decimal(1,0), "1.50" is decimal(3,2), "0.01" is decimal(2,2).
func ParseSqlDecimal(text string) (SqlDecimal, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.ContainsAny(text, "eE") {
		return SqlDecimal{}, fmt.Errorf("%w: decimal %q", ErrInvalidLiteral, text)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return SqlDecimal{}, fmt.Errorf("%w: decimal %q: %v", ErrInvalidLiteral, text, err)
	}
	scale := int64(0)
	if exp := d.Exponent(); exp < 0 {
		scale = int64(-exp)
	}
	unscaled := d.Shift(int32(scale)).BigInt()
	precision := digitCount(unscaled)
	if precision < scale {
		precision = scale
	}
	if precision > MaxPrecision {
		return SqlDecimal{}, fmt.Errorf("%w: decimal %q exceeds %d digits", ErrDecimalOverflow, text, MaxPrecision)
	}
	return SqlDecimal{unscaled: unscaled, precision: precision, scale: scale}, nil
}

// MustSqlDecimal is like ParseSqlDecimal but panics on error.
func MustSqlDecimal(text string) SqlDecimal {
	d, err := ParseSqlDecimal(text)
	if err != nil {
		panic(err)
	}
	return d
}

func digitCount(v *big.Int) int64 {
	s := new(big.Int).Abs(v).String()
	return int64(len(s))
}

// Unscaled returns a copy of the unscaled magnitude.
func (d SqlDecimal) Unscaled() *big.Int {
	if d.unscaled == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(d.unscaled)
}

func (d SqlDecimal) Precision() int64 { return d.precision }
func (d SqlDecimal) Scale() int64     { return d.scale }

// Type returns decimal(precision, scale) for the value.
func (d SqlDecimal) Type() (DecimalType, error) {
	return NewDecimalType(d.precision, d.scale)
}

// Decimal returns the value as an arbitrary-precision decimal.
func (d SqlDecimal) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(d.Unscaled(), int32(-d.scale))
}

// Equal reports numeric equality. Precision and scale are type concerns and
// are compared by the caller when needed.
func (d SqlDecimal) Equal(o SqlDecimal) bool {
	return d.Decimal().Equal(o.Decimal())
}

func (d SqlDecimal) String() string {
	return d.Decimal().StringFixed(int32(d.scale))
}

// Rescale rounds the value half away from zero to t's scale and checks it
// fits t's precision.
func (d SqlDecimal) Rescale(t DecimalType) (SqlDecimal, error) {
	rounded := d.Decimal().Round(int32(t.scale))
	unscaled := rounded.Shift(int32(t.scale)).BigInt()
	if unscaled.CmpAbs(bigPowersOfTen[t.precision]) >= 0 {
		return SqlDecimal{}, fmt.Errorf("%w: cannot cast %s to %s", ErrDecimalOverflow, d, t.Signature())
	}
	return SqlDecimal{unscaled: unscaled, precision: t.precision, scale: t.scale}, nil
}

// ReadDecimal decodes a native short or long value of type t.
func ReadDecimal(t DecimalType, v interface{}) (SqlDecimal, error) {
	if err := CheckDecimal(t, v); err != nil {
		return SqlDecimal{}, err
	}
	wide, err := ToWideDecimal(v)
	if err != nil {
		return SqlDecimal{}, err
	}
	return SqlDecimal{unscaled: wide.BigInt(), precision: t.precision, scale: t.scale}, nil
}

// WriteDecimal encodes d in the native representation of t. d is rescaled
// to t first.
func WriteDecimal(t DecimalType, d SqlDecimal) (interface{}, error) {
	r, err := d.Rescale(t)
	if err != nil {
		return nil, err
	}
	if t.IsShort() {
		return r.unscaled.Int64(), nil
	}
	return Int128FromBigInt(r.unscaled)
}
