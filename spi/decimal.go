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
)

const (
	// MaxShortPrecision is the largest precision stored in the int64 form.
	// Precision 18 and above use Int128.
	MaxShortPrecision = 17
	// MaxPrecision is the largest supported decimal precision.
	MaxPrecision = 38
)

// DecimalType is decimal(precision, scale).
type DecimalType struct {
	precision int64
	scale     int64
}

// NewDecimalType validates 1 <= precision <= 38 and 0 <= scale <= precision.
func NewDecimalType(precision, scale int64) (DecimalType, error) {
	if precision < 1 || precision > MaxPrecision {
		return DecimalType{}, fmt.Errorf("%w: decimal precision must be in range [1, %d]: %d", ErrInvalidType, MaxPrecision, precision)
	}
	if scale < 0 || scale > precision {
		return DecimalType{}, fmt.Errorf("%w: decimal scale must be in range [0, %d]: %d", ErrInvalidType, precision, scale)
	}
	return DecimalType{precision: precision, scale: scale}, nil
}

// MustDecimalType is like NewDecimalType but panics on error.
func MustDecimalType(precision, scale int64) DecimalType {
	t, err := NewDecimalType(precision, scale)
	if err != nil {
		panic(err)
	}
	return t
}

func (t DecimalType) Precision() int64 { return t.precision }
func (t DecimalType) Scale() int64     { return t.scale }

// IsShort reports whether values are carried as an int64 unscaled magnitude.
func (t DecimalType) IsShort() bool {
	return t.precision <= MaxShortPrecision
}

func (t DecimalType) Base() string { return BaseDecimal }

func (t DecimalType) Parameters() []int64 {
	return []int64{t.precision, t.scale}
}

func (t DecimalType) Representation() Representation {
	if t.IsShort() {
		return RepresentationShort
	}
	return RepresentationLong
}

func (t DecimalType) Signature() string {
	return fmt.Sprintf("decimal(%d,%d)", t.precision, t.scale)
}

var (
	shortPowersOfTen [MaxShortPrecision + 2]int64
	bigPowersOfTen   [MaxPrecision + 1]*big.Int
)

func init() {
	p := int64(1)
	for i := range shortPowersOfTen {
		shortPowersOfTen[i] = p
		p *= 10
	}
	for i := range bigPowersOfTen {
		bigPowersOfTen[i] = new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(i)), nil)
	}
}

// UnscaledDecimal encodes an int64 unscaled magnitude in the wide form.
func UnscaledDecimal(v int64) Int128 {
	return Int128FromInt64(v)
}

// AddDecimal adds two wide unscaled magnitudes of the same scale. The sum must
// stay within MaxPrecision digits.
func AddDecimal(a, b Int128) (Int128, error) {
	sum, err := a.Add(b)
	if err != nil {
		return Int128{}, fmt.Errorf("%w: %v", ErrDecimalOverflow, err)
	}
	if OverflowsPrecision(sum, MaxPrecision) {
		return Int128{}, fmt.Errorf("%w: result exceeds %d digits", ErrDecimalOverflow, MaxPrecision)
	}
	return sum, nil
}

// OverflowsPrecision reports whether |v| >= 10^precision.
func OverflowsPrecision(v Int128, precision int64) bool {
	if precision >= MaxPrecision+1 {
		return false
	}
	return v.BigInt().CmpAbs(bigPowersOfTen[precision]) >= 0
}

// ShortOverflowsPrecision reports whether |v| >= 10^precision for a short magnitude.
func ShortOverflowsPrecision(v int64, precision int64) bool {
	if precision > MaxShortPrecision+1 {
		return false
	}
	limit := shortPowersOfTen[precision]
	return v >= limit || v <= -limit
}

// CheckDecimal verifies that a native value has the representation t expects
// and fits into t's precision.
func CheckDecimal(t DecimalType, v interface{}) error {
	switch n := v.(type) {
	case int64:
		if !t.IsShort() {
			return fmt.Errorf("%w: %s expects Int128, got int64", ErrInvalidValue, t.Signature())
		}
		if ShortOverflowsPrecision(n, t.precision) {
			return fmt.Errorf("%w: %d does not fit %s", ErrDecimalOverflow, n, t.Signature())
		}
	case Int128:
		if t.IsShort() {
			return fmt.Errorf("%w: %s expects int64, got Int128", ErrInvalidValue, t.Signature())
		}
		if OverflowsPrecision(n, t.precision) {
			return fmt.Errorf("%w: %s does not fit %s", ErrDecimalOverflow, n, t.Signature())
		}
	default:
		return fmt.Errorf("%w: %T is not a decimal value", ErrInvalidValue, v)
	}
	return nil
}

// ToWideDecimal widens a short or long native value to Int128.
func ToWideDecimal(v interface{}) (Int128, error) {
	switch n := v.(type) {
	case int64:
		return UnscaledDecimal(n), nil
	case Int128:
		return n, nil
	}
	return Int128{}, fmt.Errorf("%w: %T is not a decimal value", ErrInvalidValue, v)
}

// NormalizeDecimal converts a short or long native value to the form t uses.
func NormalizeDecimal(t DecimalType, v interface{}) (interface{}, error) {
	wide, err := ToWideDecimal(v)
	if err != nil {
		return nil, err
	}
	if !t.IsShort() {
		return wide, nil
	}
	if !wide.IsInt64() {
		return nil, fmt.Errorf("%w: %s does not fit %s", ErrDecimalOverflow, wide, t.Signature())
	}
	return wide.Int64(), nil
}
