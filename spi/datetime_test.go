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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	millis := []int64{0, 1, -1, 978_404_645_321, -62_135_596_800_000, MaxPackedMillis, MinPackedMillis}
	for _, m := range millis {
		for _, zone := range []string{"UTC", "Europe/Berlin", "Pacific/Honolulu", "Asia/Kathmandu"} {
			key := MustTimeZoneKey(zone)
			packed, err := PackDateTimeWithZone(m, key)
			require.NoError(t, err)
			assert.Equal(t, m, UnpackMillisUtc(packed), "millis %d %s", m, zone)
			assert.Equal(t, key, UnpackZoneKey(packed), "zone %d %s", m, zone)
		}
	}
}

func TestPackOutOfRange(t *testing.T) {
	_, err := PackDateTimeWithZone(MaxPackedMillis+1, UTCKey)
	assert.ErrorIs(t, err, ErrMillisOutOfRange)
	_, err = PackDateTimeWithZone(MinPackedMillis-1, UTCKey)
	assert.ErrorIs(t, err, ErrMillisOutOfRange)
	_, err = PackDateTimeWithZone(0, MaxTimeZoneKey)
	assert.ErrorIs(t, err, ErrInvalidTimeZoneKey)
}

func TestTimeZoneKey(t *testing.T) {
	assert.Equal(t, UTCKey, MustTimeZoneKey("UTC"))
	assert.Equal(t, UTCKey, MustTimeZoneKey("Z"))
	berlin, err := GetTimeZoneKey("europe/berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", berlin.ID())
	assert.True(t, berlin <= MaxTimeZoneKey)

	_, err = GetTimeZoneKey("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrInvalidTimeZoneKey)

	for _, id := range ZoneIDs() {
		key, err := GetTimeZoneKey(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, key.ID())
		loc, err := key.Location()
		require.NoError(t, err, id)
		assert.NotNil(t, loc)
	}
}

func TestTimeZoneKeyFullIndex(t *testing.T) {
	// 早期索引中的键保持不变
	assert.Equal(t, TimeZoneKey(1), MustTimeZoneKey("Africa/Cairo"))
	assert.Equal(t, TimeZoneKey(60), MustTimeZoneKey("Pacific/Honolulu"))

	for _, id := range []string{"America/Lima", "Asia/Kuala_Lumpur", "US/Eastern", "CET", "Europe/Kiev", "Australia/Melbourne"} {
		key, err := GetTimeZoneKey(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, key.ID())
		assert.True(t, key.Valid())
		loc, err := key.Location()
		require.NoError(t, err, id)
		assert.Equal(t, id, loc.String())
	}

	for _, id := range []string{"Etc/UTC", "GMT", "Zulu", "UCT", "Etc/GMT+0", "+00:00", "-00:00"} {
		assert.Equal(t, UTCKey, MustTimeZoneKey(id), id)
	}
}

func TestTimeZoneKeyFixedOffset(t *testing.T) {
	tests := []struct {
		id      string
		want    string
		seconds int
	}{
		{"+01:00", "+01:00", 3600},
		{"+0100", "+01:00", 3600},
		{"+1:00", "+01:00", 3600},
		{"+01", "+01:00", 3600},
		{"-05:30", "-05:30", -19800},
		{"+14:00", "+14:00", 50400},
		{"-14:00", "-14:00", -50400},
	}
	for _, tt := range tests {
		key, err := GetTimeZoneKey(tt.id)
		require.NoError(t, err, tt.id)
		assert.Equal(t, tt.want, key.ID())
		assert.True(t, key.Valid())
		assert.NotEqual(t, MaxTimeZoneKey, key)

		packed, err := PackDateTimeWithZone(978_404_645_321, key)
		require.NoError(t, err)
		assert.Equal(t, key, UnpackZoneKey(packed))

		loc, err := key.Location()
		require.NoError(t, err)
		_, offset := time.UnixMilli(0).In(loc).Zone()
		assert.Equal(t, tt.seconds, offset, tt.id)
	}

	for _, id := range []string{"+14:01", "+15:00", "+1:5", "+01:60", "+", "+abc", "01:00"} {
		_, err := GetTimeZoneKey(id)
		assert.ErrorIs(t, err, ErrInvalidTimeZoneKey, id)
	}
}

func TestTimestampPlusIntervalDayToSecond(t *testing.T) {
	oneDay := IntervalDayTimeToMillis(1, 0, 0, 0, 0)
	assert.Equal(t, int64(MillisPerDay), oneDay)
	assert.Equal(t, int64(93_784_005), IntervalDayTimeToMillis(1, 2, 3, 4, 5))

	ts, err := FromEpochMillisAndFraction(1_000, 123_456, MustTimeZoneKey("Europe/Berlin"))
	require.NoError(t, err)
	shifted, err := TimestampPlusIntervalDayToSecond(ts, -oneDay)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000-MillisPerDay), shifted.EpochMillis)
	assert.Equal(t, int32(123_456), shifted.PicosOfMilli)
	assert.Equal(t, ts.TimeZoneKey, shifted.TimeZoneKey)

	_, err = FromEpochMillisAndFraction(0, PicosPerMilli, UTCKey)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseTimestampWithTimeZone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	ts, err := ParseTimestampWithTimeZone("2001-01-02 03:04:05.321 Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, int64(3), ts.Precision())
	assert.Equal(t, time.Date(2001, 1, 2, 3, 4, 5, 321_000_000, berlin).UnixMilli(), ts.EpochMillis())
	assert.Equal(t, int32(0), ts.PicosOfMilli())
	assert.Equal(t, MustTimeZoneKey("Europe/Berlin"), ts.TimeZoneKey())
	assert.Equal(t, "2001-01-02 03:04:05.321 Europe/Berlin", ts.String())

	ts, err = ParseTimestampWithTimeZone("2020-06-30 23:59:59.123456789 UTC")
	require.NoError(t, err)
	assert.Equal(t, int64(9), ts.Precision())
	assert.Equal(t, int32(456_789_000), ts.PicosOfMilli())
	assert.Equal(t, "2020-06-30 23:59:59.123456789 UTC", ts.String())

	ts, err = ParseTimestampWithTimeZone("2020-06-30")
	require.NoError(t, err)
	assert.Equal(t, int64(0), ts.Precision())
	assert.Equal(t, "2020-06-30 00:00:00 UTC", ts.String())

	for _, bad := range []string{"", "yesterday", "2020-13-01 00:00:00 UTC", "2020-01-01 00:00:00. UTC", "2020-01-01 00:00:00 Nowhere/Land"} {
		_, err := ParseTimestampWithTimeZone(bad)
		assert.ErrorIs(t, err, ErrInvalidLiteral, bad)
	}
}

func TestSqlTimestampRoundTo(t *testing.T) {
	ts := MustTimestampWithTimeZone("2001-01-02 03:04:05.3215 UTC")
	assert.Equal(t, "2001-01-02 03:04:05.322 UTC", ts.RoundTo(3).String())
	assert.Equal(t, "2001-01-02 03:04:05 UTC", ts.RoundTo(0).String())
	assert.Equal(t, "2001-01-02 03:04:05.3 UTC", ts.RoundTo(1).String())

	ts = MustTimestampWithTimeZone("2001-01-02 03:04:05.9999996 UTC")
	assert.Equal(t, "2001-01-02 03:04:06.000000 UTC", ts.RoundTo(6).String())
}

func TestReadWriteTimestampWithTimeZone(t *testing.T) {
	ts := MustTimestampWithTimeZone("2001-01-02 03:04:05.321 Europe/Berlin")

	short := MustTimestampWithTimeZoneType(3)
	native, err := WriteTimestampWithTimeZone(short, ts)
	require.NoError(t, err)
	require.IsType(t, int64(0), native)
	back, err := ReadTimestampWithTimeZone(short, native)
	require.NoError(t, err)
	assert.Equal(t, ts, back)

	long := MustTimestampWithTimeZoneType(9)
	native, err = WriteTimestampWithTimeZone(long, ts)
	require.NoError(t, err)
	require.IsType(t, LongTimestampWithTimeZone{}, native)
	back, err = ReadTimestampWithTimeZone(long, native)
	require.NoError(t, err)
	assert.Equal(t, ts.EpochMillis(), back.EpochMillis())
	assert.Equal(t, int64(9), back.Precision())

	_, err = ReadTimestampWithTimeZone(long, int64(0))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseTimestampWithTimeZoneAnyZone(t *testing.T) {
	for _, text := range []string{
		"2001-01-02 03:04:05.321 America/Lima",
		"2001-01-02 03:04:05.321 Europe/Kiev",
		"2001-01-02 03:04:05.321 +01:00",
		"2001-01-02 03:04:05.321 -09:30",
	} {
		ts, err := ParseTimestampWithTimeZone(text)
		require.NoError(t, err, text)
		assert.Equal(t, text, ts.String())
	}

	ts, err := ParseTimestampWithTimeZone("2001-01-02 03:04:05.321 America/Lima")
	require.NoError(t, err)
	// Lima 全年 UTC-5
	assert.Equal(t, time.Date(2001, time.January, 2, 8, 4, 5, 321_000_000, time.UTC).UnixMilli(), ts.EpochMillis())
}
