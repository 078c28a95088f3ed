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
	"math"

	"github.com/spf13/cast"
)

// TypedValue is a native value together with its SQL type.
type TypedValue struct {
	Type  Type
	Value interface{}
}

func (v TypedValue) String() string {
	obj, err := ToObjectValue(v)
	if err != nil {
		return fmt.Sprintf("%v", v.Value)
	}
	return fmt.Sprintf("%v", obj)
}

// CheckValue verifies that v's native value matches its type's representation.
func CheckValue(v TypedValue) error {
	if v.Type == nil {
		return fmt.Errorf("%w: untyped value", ErrInvalidValue)
	}
	switch t := v.Type.(type) {
	case DecimalType:
		return CheckDecimal(t, v.Value)
	case TimestampWithTimeZoneType:
		return CheckTimestampWithTimeZone(t, v.Value)
	case BigintType:
		if _, ok := v.Value.(int64); !ok {
			return fmt.Errorf("%w: bigint expects int64, got %T", ErrInvalidValue, v.Value)
		}
	case VarcharType:
		if _, ok := v.Value.(string); !ok {
			return fmt.Errorf("%w: varchar expects string, got %T", ErrInvalidValue, v.Value)
		}
	default:
		return fmt.Errorf("%w: unsupported type %s", ErrInvalidType, v.Type.Signature())
	}
	return nil
}

// ToObjectValue converts a native value to its engine-independent form:
// SqlDecimal, SqlTimestampWithTimeZone, int64 or string.
func ToObjectValue(v TypedValue) (interface{}, error) {
	switch t := v.Type.(type) {
	case DecimalType:
		return ReadDecimal(t, v.Value)
	case TimestampWithTimeZoneType:
		return ReadTimestampWithTimeZone(t, v.Value)
	}
	if err := CheckValue(v); err != nil {
		return nil, err
	}
	return v.Value, nil
}

// ValueOf wraps a loosely typed Go value. Integers become bigint, strings
// varchar; TypedValue, SqlDecimal and SqlTimestampWithTimeZone keep their type.
func ValueOf(x interface{}) (TypedValue, error) {
	switch n := x.(type) {
	case TypedValue:
		return n, CheckValue(n)
	case SqlDecimal:
		return DecimalValue(n)
	case SqlTimestampWithTimeZone:
		return TimestampWithTimeZoneValue(n)
	case string:
		return TypedValue{Type: Varchar, Value: n}, nil
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		i, err := cast.ToInt64E(n)
		if err != nil {
			return TypedValue{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return TypedValue{Type: Bigint, Value: i}, nil
	}
	return TypedValue{}, fmt.Errorf("%w: cannot type %T", ErrInvalidValue, x)
}

// DecimalValue encodes d in the native form of its own decimal(p, s) type.
func DecimalValue(d SqlDecimal) (TypedValue, error) {
	t, err := d.Type()
	if err != nil {
		return TypedValue{}, err
	}
	native, err := WriteDecimal(t, d)
	if err != nil {
		return TypedValue{}, err
	}
	return TypedValue{Type: t, Value: native}, nil
}

// TimestampWithTimeZoneValue encodes ts in the native form of timestamp(p) with time zone.
func TimestampWithTimeZoneValue(ts SqlTimestampWithTimeZone) (TypedValue, error) {
	t, err := NewTimestampWithTimeZoneType(ts.precision)
	if err != nil {
		return TypedValue{}, err
	}
	native, err := WriteTimestampWithTimeZone(t, ts)
	if err != nil {
		return TypedValue{}, err
	}
	return TypedValue{Type: t, Value: native}, nil
}

// DecimalLiteral types literal text such as "1.50" as decimal(3,2).
func DecimalLiteral(text string) (TypedValue, error) {
	d, err := ParseSqlDecimal(text)
	if err != nil {
		return TypedValue{}, err
	}
	return DecimalValue(d)
}

// TimestampWithTimeZoneLiteral types literal text, taking the precision from
// the fractional digits.
func TimestampWithTimeZoneLiteral(text string) (TypedValue, error) {
	ts, err := ParseTimestampWithTimeZone(text)
	if err != nil {
		return TypedValue{}, err
	}
	return TimestampWithTimeZoneValue(ts)
}

// Cast converts v to target. Supported: bigint, varchar and decimal to
// decimal; varchar and timestamp with time zone to timestamp with time zone;
// anything to varchar.
func Cast(v TypedValue, target Type) (TypedValue, error) {
	if err := CheckValue(v); err != nil {
		return TypedValue{}, err
	}
	switch t := target.(type) {
	case DecimalType:
		d, err := toSqlDecimal(v)
		if err != nil {
			return TypedValue{}, err
		}
		native, err := WriteDecimal(t, d)
		if err != nil {
			return TypedValue{}, err
		}
		return TypedValue{Type: t, Value: native}, nil
	case TimestampWithTimeZoneType:
		var ts SqlTimestampWithTimeZone
		switch src := v.Type.(type) {
		case TimestampWithTimeZoneType:
			r, err := ReadTimestampWithTimeZone(src, v.Value)
			if err != nil {
				return TypedValue{}, err
			}
			ts = r
		case VarcharType:
			r, err := ParseTimestampWithTimeZone(v.Value.(string))
			if err != nil {
				return TypedValue{}, err
			}
			ts = r
		default:
			return TypedValue{}, castError(v.Type, target)
		}
		native, err := WriteTimestampWithTimeZone(t, ts)
		if err != nil {
			return TypedValue{}, err
		}
		return TypedValue{Type: t, Value: native}, nil
	case VarcharType:
		obj, err := ToObjectValue(v)
		if err != nil {
			return TypedValue{}, err
		}
		s, err := cast.ToStringE(obj)
		if err != nil {
			s = fmt.Sprintf("%v", obj)
		}
		return TypedValue{Type: Varchar, Value: s}, nil
	case BigintType:
		if _, ok := v.Type.(BigintType); ok {
			return v, nil
		}
	}
	return TypedValue{}, castError(v.Type, target)
}

func toSqlDecimal(v TypedValue) (SqlDecimal, error) {
	switch src := v.Type.(type) {
	case DecimalType:
		return ReadDecimal(src, v.Value)
	case BigintType:
		return ParseSqlDecimal(cast.ToString(v.Value))
	case VarcharType:
		return ParseSqlDecimal(v.Value.(string))
	}
	return SqlDecimal{}, castError(v.Type, DecimalType{})
}

func castError(from, to Type) error {
	name := to.Base()
	if to.Parameters() != nil && len(to.Parameters()) > 0 && to.Parameters()[0] != 0 {
		name = to.Signature()
	}
	return fmt.Errorf("%w: cannot cast %s to %s", ErrInvalidType, from.Signature(), name)
}

// Negate returns -v for bigint and decimal values.
func Negate(v TypedValue) (TypedValue, error) {
	if err := CheckValue(v); err != nil {
		return TypedValue{}, err
	}
	switch t := v.Type.(type) {
	case BigintType:
		n := v.Value.(int64)
		if n == math.MinInt64 {
			return TypedValue{}, fmt.Errorf("%w: bigint negation", ErrArithmeticOverflow)
		}
		return TypedValue{Type: t, Value: -n}, nil
	case DecimalType:
		switch n := v.Value.(type) {
		case int64:
			return TypedValue{Type: t, Value: -n}, nil
		case Int128:
			return TypedValue{Type: t, Value: n.Negate()}, nil
		}
	}
	return TypedValue{}, fmt.Errorf("%w: cannot negate %s", ErrInvalidType, v.Type.Signature())
}
