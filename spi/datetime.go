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
)

const (
	// DefaultTimestampPrecision is the precision of "timestamp with time zone".
	DefaultTimestampPrecision = 3
	// MaxShortTimestampPrecision is the largest precision stored packed in an int64.
	MaxShortTimestampPrecision = 3
	// MaxTimestampPrecision is the largest supported fractional second precision (picoseconds).
	MaxTimestampPrecision = 12

	timeZoneKeyBits = 12
	timeZoneKeyMask = 1<<timeZoneKeyBits - 1

	// MaxPackedMillis and MinPackedMillis bound instants that fit next to a zone key.
	MaxPackedMillis int64 = 1<<51 - 1
	MinPackedMillis int64 = -1 << 51

	PicosPerMilli = 1_000_000_000
	MillisPerDay  = 86_400_000
)

// TimestampWithTimeZoneType is timestamp(p) with time zone.
type TimestampWithTimeZoneType struct {
	precision int64
}

// NewTimestampWithTimeZoneType validates 0 <= precision <= 12.
func NewTimestampWithTimeZoneType(precision int64) (TimestampWithTimeZoneType, error) {
	if precision < 0 || precision > MaxTimestampPrecision {
		return TimestampWithTimeZoneType{}, fmt.Errorf("%w: timestamp with time zone precision must be in range [0, %d]: %d",
			ErrInvalidType, MaxTimestampPrecision, precision)
	}
	return TimestampWithTimeZoneType{precision: precision}, nil
}

// MustTimestampWithTimeZoneType is like NewTimestampWithTimeZoneType but panics on error.
func MustTimestampWithTimeZoneType(precision int64) TimestampWithTimeZoneType {
	t, err := NewTimestampWithTimeZoneType(precision)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimestampWithTimeZoneType) Precision() int64 { return t.precision }

// IsShort reports whether values are carried packed in an int64.
func (t TimestampWithTimeZoneType) IsShort() bool {
	return t.precision <= MaxShortTimestampPrecision
}

func (t TimestampWithTimeZoneType) Base() string        { return BaseTimestampWithTimeZone }
func (t TimestampWithTimeZoneType) Parameters() []int64 { return []int64{t.precision} }

func (t TimestampWithTimeZoneType) Representation() Representation {
	if t.IsShort() {
		return RepresentationShort
	}
	return RepresentationLong
}

func (t TimestampWithTimeZoneType) Signature() string {
	return fmt.Sprintf("timestamp(%d) with time zone", t.precision)
}

// PackDateTimeWithZone packs a UTC millisecond instant and a zone key into one word.
func PackDateTimeWithZone(millisUtc int64, zoneKey TimeZoneKey) (int64, error) {
	if millisUtc < MinPackedMillis || millisUtc > MaxPackedMillis {
		return 0, fmt.Errorf("%w: %d", ErrMillisOutOfRange, millisUtc)
	}
	if !zoneKey.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTimeZoneKey, uint16(zoneKey))
	}
	return millisUtc<<timeZoneKeyBits | int64(zoneKey&timeZoneKeyMask), nil
}

// UnpackMillisUtc extracts the UTC millisecond instant.
func UnpackMillisUtc(packed int64) int64 {
	return packed >> timeZoneKeyBits
}

// UnpackZoneKey extracts the zone key.
func UnpackZoneKey(packed int64) TimeZoneKey {
	return TimeZoneKey(packed & timeZoneKeyMask)
}

// LongTimestampWithTimeZone is the wide form used above millisecond precision.
type LongTimestampWithTimeZone struct {
	EpochMillis  int64
	PicosOfMilli int32
	TimeZoneKey  TimeZoneKey
}

// FromEpochMillisAndFraction validates the fraction and zone.
func FromEpochMillisAndFraction(epochMillis int64, picosOfMilli int32, zoneKey TimeZoneKey) (LongTimestampWithTimeZone, error) {
	if picosOfMilli < 0 || picosOfMilli >= PicosPerMilli {
		return LongTimestampWithTimeZone{}, fmt.Errorf("%w: picos of milli %d out of range", ErrInvalidValue, picosOfMilli)
	}
	if !zoneKey.Valid() {
		return LongTimestampWithTimeZone{}, fmt.Errorf("%w: %d", ErrInvalidTimeZoneKey, uint16(zoneKey))
	}
	return LongTimestampWithTimeZone{EpochMillis: epochMillis, PicosOfMilli: picosOfMilli, TimeZoneKey: zoneKey}, nil
}

// IntervalDayTimeToMillis converts an interval day to second into milliseconds.
func IntervalDayTimeToMillis(day, hour, minute, second, millis int64) int64 {
	return (((day*24+hour)*60+minute)*60+second)*1000 + millis
}

// TimestampPlusIntervalDayToSecond adds a day-time interval to the instant.
// The offset is applied in UTC, so the result does not depend on daylight
// saving rules of the zone.
func TimestampPlusIntervalDayToSecond(ts LongTimestampWithTimeZone, intervalMillis int64) (LongTimestampWithTimeZone, error) {
	if intervalMillis > 0 && ts.EpochMillis > math.MaxInt64-intervalMillis ||
		intervalMillis < 0 && ts.EpochMillis < math.MinInt64-intervalMillis {
		return LongTimestampWithTimeZone{}, fmt.Errorf("%w: timestamp plus interval", ErrArithmeticOverflow)
	}
	return FromEpochMillisAndFraction(ts.EpochMillis+intervalMillis, ts.PicosOfMilli, ts.TimeZoneKey)
}

// CheckTimestampWithTimeZone verifies that a native value has the
// representation t expects and a valid zone.
func CheckTimestampWithTimeZone(t TimestampWithTimeZoneType, v interface{}) error {
	switch n := v.(type) {
	case int64:
		if !t.IsShort() {
			return fmt.Errorf("%w: %s expects LongTimestampWithTimeZone, got int64", ErrInvalidValue, t.Signature())
		}
		if !UnpackZoneKey(n).Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidTimeZoneKey, uint16(UnpackZoneKey(n)))
		}
	case LongTimestampWithTimeZone:
		if t.IsShort() {
			return fmt.Errorf("%w: %s expects int64, got LongTimestampWithTimeZone", ErrInvalidValue, t.Signature())
		}
		if !n.TimeZoneKey.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidTimeZoneKey, uint16(n.TimeZoneKey))
		}
	default:
		return fmt.Errorf("%w: %T is not a timestamp with time zone value", ErrInvalidValue, v)
	}
	return nil
}

// ReadTimestampWithTimeZone decodes a native short or long value of type t.
func ReadTimestampWithTimeZone(t TimestampWithTimeZoneType, v interface{}) (SqlTimestampWithTimeZone, error) {
	if err := CheckTimestampWithTimeZone(t, v); err != nil {
		return SqlTimestampWithTimeZone{}, err
	}
	switch n := v.(type) {
	case int64:
		return NewSqlTimestampWithTimeZone(t.precision, UnpackMillisUtc(n), 0, UnpackZoneKey(n)), nil
	case LongTimestampWithTimeZone:
		return NewSqlTimestampWithTimeZone(t.precision, n.EpochMillis, n.PicosOfMilli, n.TimeZoneKey), nil
	}
	return SqlTimestampWithTimeZone{}, fmt.Errorf("%w: %T", ErrInvalidValue, v)
}

// WriteTimestampWithTimeZone rounds ts to t's precision and encodes it in
// t's native representation.
func WriteTimestampWithTimeZone(t TimestampWithTimeZoneType, ts SqlTimestampWithTimeZone) (interface{}, error) {
	r := ts.RoundTo(t.precision)
	if t.IsShort() {
		return PackDateTimeWithZone(r.epochMillis, r.zone)
	}
	return FromEpochMillisAndFraction(r.epochMillis, r.picosOfMilli, r.zone)
}
