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
	"github.com/rulego/udfexample/functions"
	"github.com/rulego/udfexample/spi"
)

// YesterdayName is the SQL name of the timestamp shift function.
const YesterdayName = "yesterday"

var oneDayMillis = spi.IntervalDayTimeToMillis(1, 0, 0, 0, 0)

// NewYesterdayFunction declares
// yesterday(timestamp(p) with time zone) -> timestamp(p) with time zone.
//
// A timestamp with time zone is either packed into an int64 (epoch millis and
// zone key) or, above millisecond precision, a LongTimestampWithTimeZone.
func NewYesterdayFunction() *functions.ScalarFunction {
	short, long := spi.RepresentationShort, spi.RepresentationLong
	return functions.NewScalarFunction(YesterdayName, functions.TypeDateTime, "timestamp with time zone",
		"Return the timestamp 1 day before the timestamp given").
		LiteralParameters("p").
		Signature("timestamp(p) with time zone", "timestamp(p) with time zone").
		Variant("yesterdayShort", []spi.Representation{short}, short, yesterdayShort).
		Variant("yesterdayLong", []spi.Representation{long}, long, yesterdayLong)
}

func yesterdayShort(ctx *functions.FunctionContext, args []interface{}) (interface{}, error) {
	packedEpochMillis := args[0].(int64)
	timestamp, err := spi.FromEpochMillisAndFraction(
		spi.UnpackMillisUtc(packedEpochMillis), 0, spi.UnpackZoneKey(packedEpochMillis))
	if err != nil {
		return nil, err
	}
	timestamp, err = spi.TimestampPlusIntervalDayToSecond(timestamp, -oneDayMillis)
	if err != nil {
		return nil, err
	}
	return spi.PackDateTimeWithZone(timestamp.EpochMillis, timestamp.TimeZoneKey)
}

func yesterdayLong(ctx *functions.FunctionContext, args []interface{}) (interface{}, error) {
	return spi.TimestampPlusIntervalDayToSecond(args[0].(spi.LongTimestampWithTimeZone), -oneDayMillis)
}
