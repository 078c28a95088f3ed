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
	"strconv"
	"strings"
	"time"
)

// SqlTimestampWithTimeZone is the engine-independent form of a timestamp with
// time zone value, used for literals, display and test expectations.
type SqlTimestampWithTimeZone struct {
	precision    int64
	epochMillis  int64
	picosOfMilli int32
	zone         TimeZoneKey
}

// NewSqlTimestampWithTimeZone builds a value from its parts.
func NewSqlTimestampWithTimeZone(precision, epochMillis int64, picosOfMilli int32, zone TimeZoneKey) SqlTimestampWithTimeZone {
	return SqlTimestampWithTimeZone{precision: precision, epochMillis: epochMillis, picosOfMilli: picosOfMilli, zone: zone}
}

func (ts SqlTimestampWithTimeZone) Precision() int64         { return ts.precision }
func (ts SqlTimestampWithTimeZone) EpochMillis() int64       { return ts.epochMillis }
func (ts SqlTimestampWithTimeZone) PicosOfMilli() int32      { return ts.picosOfMilli }
func (ts SqlTimestampWithTimeZone) TimeZoneKey() TimeZoneKey { return ts.zone }

// Time returns the instant in the value's zone, truncated to nanoseconds.
func (ts SqlTimestampWithTimeZone) Time() (time.Time, error) {
	loc, err := ts.zone.Location()
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ts.epochMillis).Add(time.Duration(ts.picosOfMilli / 1000)).In(loc), nil
}

// RoundTo rounds half up to the given number of fractional second digits.
func (ts SqlTimestampWithTimeZone) RoundTo(precision int64) SqlTimestampWithTimeZone {
	r := ts
	r.precision = precision
	if precision >= MaxTimestampPrecision {
		return r
	}
	if precision >= 3 {
		unit := pow10(MaxTimestampPrecision - precision)
		picos := (int64(ts.picosOfMilli) + unit/2) / unit * unit
		if picos >= PicosPerMilli {
			r.epochMillis++
			picos -= PicosPerMilli
		}
		r.picosOfMilli = int32(picos)
		return r
	}
	unit := pow10(3 - precision)
	rem := floorMod(ts.epochMillis, unit)
	base := ts.epochMillis - rem
	if rem*PicosPerMilli+int64(ts.picosOfMilli) >= unit*PicosPerMilli/2 {
		base += unit
	}
	r.epochMillis = base
	r.picosOfMilli = 0
	return r
}

func (ts SqlTimestampWithTimeZone) String() string {
	loc, err := ts.zone.Location()
	if err != nil {
		return fmt.Sprintf("%d.%09d %s", ts.epochMillis, ts.picosOfMilli, ts.zone)
	}
	seconds := floorDiv(ts.epochMillis, 1000)
	local := time.Unix(seconds, 0).In(loc)
	var b strings.Builder
	b.WriteString(local.Format("2006-01-02 15:04:05"))
	if ts.precision > 0 {
		fraction := floorMod(ts.epochMillis, 1000)*PicosPerMilli + int64(ts.picosOfMilli)
		digits := fraction / pow10(MaxTimestampPrecision-ts.precision)
		b.WriteByte('.')
		b.WriteString(fmt.Sprintf("%0*d", int(ts.precision), digits))
	}
	b.WriteByte(' ')
	b.WriteString(ts.zone.ID())
	return b.String()
}

// ParseTimestampWithTimeZone parses literal text such as
// "2001-01-02 03:04:05.321 Europe/Berlin". The precision is the number of
// fractional second digits. A missing zone means UTC.
func ParseTimestampWithTimeZone(text string) (SqlTimestampWithTimeZone, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return SqlTimestampWithTimeZone{}, fmt.Errorf("%w: empty timestamp", ErrInvalidLiteral)
	}
	zone := UTCKey
	if last := fields[len(fields)-1]; len(fields) > 1 && !isDigit(last[0]) {
		key, err := GetTimeZoneKey(last)
		if err != nil {
			return SqlTimestampWithTimeZone{}, fmt.Errorf("%w: timestamp %q: %v", ErrInvalidLiteral, text, err)
		}
		zone = key
		fields = fields[:len(fields)-1]
	}
	if len(fields) > 2 {
		return SqlTimestampWithTimeZone{}, fmt.Errorf("%w: timestamp %q", ErrInvalidLiteral, text)
	}

	datePart, timePart, fractionPart := fields[0], "", ""
	if len(fields) == 2 {
		timePart = fields[1]
		if dot := strings.IndexByte(timePart, '.'); dot >= 0 {
			timePart, fractionPart = timePart[:dot], timePart[dot+1:]
			if fractionPart == "" || len(fractionPart) > MaxTimestampPrecision {
				return SqlTimestampWithTimeZone{}, fmt.Errorf("%w: timestamp %q: bad fraction", ErrInvalidLiteral, text)
			}
		}
	}

	layout, value := "2006-01-02", datePart
	switch strings.Count(timePart, ":") {
	case 0:
		if timePart != "" {
			return SqlTimestampWithTimeZone{}, fmt.Errorf("%w: timestamp %q", ErrInvalidLiteral, text)
		}
	case 1:
		layout, value = layout+" 15:04", value+" "+timePart
	case 2:
		layout, value = layout+" 15:04:05", value+" "+timePart
	default:
		return SqlTimestampWithTimeZone{}, fmt.Errorf("%w: timestamp %q", ErrInvalidLiteral, text)
	}
	if fractionPart != "" && strings.Count(timePart, ":") != 2 {
		return SqlTimestampWithTimeZone{}, fmt.Errorf("%w: timestamp %q: fraction without seconds", ErrInvalidLiteral, text)
	}

	loc, err := zone.Location()
	if err != nil {
		return SqlTimestampWithTimeZone{}, err
	}
	local, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return SqlTimestampWithTimeZone{}, fmt.Errorf("%w: timestamp %q: %v", ErrInvalidLiteral, text, err)
	}

	var fractionPicos int64
	if fractionPart != "" {
		digits, err := strconv.ParseInt(fractionPart, 10, 64)
		if err != nil || digits < 0 {
			return SqlTimestampWithTimeZone{}, fmt.Errorf("%w: timestamp %q: bad fraction", ErrInvalidLiteral, text)
		}
		fractionPicos = digits * pow10(MaxTimestampPrecision-int64(len(fractionPart)))
	}
	return SqlTimestampWithTimeZone{
		precision:    int64(len(fractionPart)),
		epochMillis:  local.Unix()*1000 + fractionPicos/PicosPerMilli,
		picosOfMilli: int32(fractionPicos % PicosPerMilli),
		zone:         zone,
	}, nil
}

// MustTimestampWithTimeZone is like ParseTimestampWithTimeZone but panics on error.
func MustTimestampWithTimeZone(text string) SqlTimestampWithTimeZone {
	ts, err := ParseTimestampWithTimeZone(text)
	if err != nil {
		panic(err)
	}
	return ts
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func pow10(n int64) int64 {
	r := int64(1)
	for ; n > 0; n-- {
		r *= 10
	}
	return r
}

func floorDiv(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

func floorMod(x, y int64) int64 {
	return x - floorDiv(x, y)*y
}
