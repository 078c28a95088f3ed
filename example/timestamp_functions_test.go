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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/udfexample/spi"
)

func berlinMillis(t *testing.T, year int, month time.Month, day, hour, minute, sec, milli int) int64 {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, minute, sec, milli*int(time.Millisecond), loc).UnixMilli()
}

func TestYesterdayDeclaration(t *testing.T) {
	fn := NewYesterdayFunction()
	require.NoError(t, fn.Validate())
	assert.Equal(t, "yesterday", fn.GetName())
	assert.Equal(t, "Return the timestamp 1 day before the timestamp given", fn.GetDescription())
	assert.Equal(t, []string{"p"}, fn.LiteralParameterNames())
	assert.Equal(t, int64(86_400_000), oneDayMillis)
}

func TestYesterdayShort(t *testing.T) {
	registry := newRegistry(t)
	resolved, err := registry.Resolve(YesterdayName, []spi.Type{spi.MustTimestampWithTimeZoneType(3)})
	require.NoError(t, err)
	assert.Equal(t, "yesterdayShort", resolved.Variant().Name)

	berlin := spi.MustTimeZoneKey("Europe/Berlin")
	millis := berlinMillis(t, 2001, time.January, 2, 3, 4, 5, 321)
	packed, err := spi.PackDateTimeWithZone(millis, berlin)
	require.NoError(t, err)

	result, err := resolved.InvokeNative(packed)
	require.NoError(t, err)
	assert.Equal(t, berlinMillis(t, 2001, time.January, 1, 3, 4, 5, 321), spi.UnpackMillisUtc(result.(int64)))
	assert.Equal(t, berlin, spi.UnpackZoneKey(result.(int64)))
}

func TestYesterdayLong(t *testing.T) {
	registry := newRegistry(t)
	typ := spi.MustTimestampWithTimeZoneType(9)
	resolved, err := registry.Resolve(YesterdayName, []spi.Type{typ})
	require.NoError(t, err)
	assert.Equal(t, "yesterdayLong", resolved.Variant().Name)
	assert.Equal(t, typ, resolved.ReturnType())

	zone := spi.MustTimeZoneKey("Asia/Kathmandu")
	ts, err := spi.FromEpochMillisAndFraction(978_404_645_321, 456_789_000, zone)
	require.NoError(t, err)

	result, err := resolved.InvokeNative(ts)
	require.NoError(t, err)
	assert.Equal(t, spi.LongTimestampWithTimeZone{
		EpochMillis:  978_404_645_321 - 86_400_000,
		PicosOfMilli: 456_789_000,
		TimeZoneKey:  zone,
	}, result)
}

// TestYesterdayIgnoresDaylightSaving 固定减去 86400000 毫秒，跨夏令时切换时本地时间会变化
func TestYesterdayIgnoresDaylightSaving(t *testing.T) {
	registry := newRegistry(t)
	resolved, err := registry.Resolve(YesterdayName, []spi.Type{spi.MustTimestampWithTimeZoneType(0)})
	require.NoError(t, err)

	berlin := spi.MustTimeZoneKey("Europe/Berlin")
	// 2001-03-25 01:00 UTC 切换到夏令时
	millis := berlinMillis(t, 2001, time.March, 25, 12, 0, 0, 0)
	packed, err := spi.PackDateTimeWithZone(millis, berlin)
	require.NoError(t, err)

	result, err := resolved.InvokeNative(packed)
	require.NoError(t, err)
	shifted := spi.UnpackMillisUtc(result.(int64))
	assert.Equal(t, millis-86_400_000, shifted)
	assert.Equal(t, berlinMillis(t, 2001, time.March, 24, 11, 0, 0, 0), shifted)
}

// TestYesterdayRepresentationEquivalence short 与 long 形式结果一致
func TestYesterdayRepresentationEquivalence(t *testing.T) {
	registry := newRegistry(t)
	shortFn, err := registry.Resolve(YesterdayName, []spi.Type{spi.MustTimestampWithTimeZoneType(3)})
	require.NoError(t, err)
	longFn, err := registry.Resolve(YesterdayName, []spi.Type{spi.MustTimestampWithTimeZoneType(6)})
	require.NoError(t, err)

	for _, zoneID := range []string{"UTC", "Europe/Berlin", "Pacific/Honolulu"} {
		zone := spi.MustTimeZoneKey(zoneID)
		for _, millis := range []int64{0, -1, 978_404_645_321, -62_135_596_800_000} {
			packed, err := spi.PackDateTimeWithZone(millis, zone)
			require.NoError(t, err)
			short, err := shortFn.InvokeNative(packed)
			require.NoError(t, err)

			ts, err := spi.FromEpochMillisAndFraction(millis, 0, zone)
			require.NoError(t, err)
			long, err := longFn.InvokeNative(ts)
			require.NoError(t, err)

			assert.Equal(t, spi.UnpackMillisUtc(short.(int64)), long.(spi.LongTimestampWithTimeZone).EpochMillis)
			assert.Equal(t, spi.UnpackZoneKey(short.(int64)), long.(spi.LongTimestampWithTimeZone).TimeZoneKey)
		}
	}
}

func TestYesterdayOutOfRange(t *testing.T) {
	registry := newRegistry(t)
	resolved, err := registry.Resolve(YesterdayName, []spi.Type{spi.MustTimestampWithTimeZoneType(3)})
	require.NoError(t, err)

	packed, err := spi.PackDateTimeWithZone(spi.MinPackedMillis, spi.UTCKey)
	require.NoError(t, err)
	_, err = resolved.InvokeNative(packed)
	assert.True(t, errors.Is(err, spi.ErrMillisOutOfRange), "%v", err)
}
