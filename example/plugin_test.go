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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/udfexample/functions"
	"github.com/rulego/udfexample/functiontest"
	"github.com/rulego/udfexample/spi"
)

func TestFunctionsPlugin(t *testing.T) {
	fns := FunctionsPlugin{}.Functions()
	require.Len(t, fns, 2)
	assert.Equal(t, AddOneName, fns[0].GetName())
	assert.Equal(t, YesterdayName, fns[1].GetName())

	registry := functions.NewFunctionRegistry()
	names, err := registry.InstallPlugin(FunctionsPlugin{})
	require.NoError(t, err)
	assert.Equal(t, []string{"add_one", "yesterday"}, names)
	assert.Len(t, registry.GetByType(functions.TypeMath), 1)
	assert.Len(t, registry.GetByType(functions.TypeDateTime), 1)
}

func TestAddOne(t *testing.T) {
	assertions := functiontest.New(t)
	assertions.InstallPlugin(FunctionsPlugin{})

	// addOne short DECIMAL -> short DECIMAL
	assertions.AssertFunction("add_one(DECIMAL '0')", spi.MustDecimalType(1, 0), spi.MustSqlDecimal("1"))
	// addOne long DECIMAL -> long DECIMAL
	assertions.AssertFunction("add_one(CAST(0 AS DECIMAL(18,0)))", spi.MustDecimalType(18, 0), spi.MustSqlDecimal("1"))

	assertions.AssertFunction("add_one(DECIMAL '1.50')", spi.MustDecimalType(3, 2), spi.MustSqlDecimal("1.51"))
	assertions.AssertFunction("add_one(DECIMAL '-1')", spi.MustDecimalType(1, 0), spi.MustSqlDecimal("0"))
	assertions.AssertFunction("add_one(CAST(DECIMAL '-0.01' AS DECIMAL(20,2)))", spi.MustDecimalType(20, 2), spi.MustSqlDecimal("0.00"))
	assertions.AssertFunction("add_one(DECIMAL '99999999999999998')", spi.MustDecimalType(17, 0), spi.MustSqlDecimal("99999999999999999"))

	assertions.AssertInvalidFunction("add_one(DECIMAL '99999999999999999')", spi.ErrDecimalOverflow)
	assertions.AssertInvalidFunction("add_one(CAST(DECIMAL '999999999999999999' AS DECIMAL(18,0)))", spi.ErrDecimalOverflow)
	assertions.AssertInvalidFunction("add_one(1)", functions.ErrNoMatchingSignature)
	assertions.AssertInvalidFunction("add_one(DECIMAL '1', DECIMAL '2')", functions.ErrNoMatchingSignature)
}

func TestYesterday(t *testing.T) {
	assertions := functiontest.New(t)
	assertions.InstallPlugin(FunctionsPlugin{})

	berlin := spi.MustTimeZoneKey("Europe/Berlin")
	assertions.AssertFunction("yesterday(cast('2001-01-02 03:04:05.321 Europe/Berlin' as timestamp with time zone))",
		spi.MustTimestampWithTimeZoneType(3),
		spi.NewSqlTimestampWithTimeZone(3, berlinMillis(t, 2001, time.January, 1, 3, 4, 5, 321), 0, berlin))

	assertions.AssertFunction("yesterday(TIMESTAMP '2001-01-02 03:04:05.321987 Europe/Berlin')",
		spi.MustTimestampWithTimeZoneType(6),
		spi.NewSqlTimestampWithTimeZone(6, berlinMillis(t, 2001, time.January, 1, 3, 4, 5, 321), 987_000_000, berlin))

	assertions.AssertFunction("yesterday(TIMESTAMP '1970-01-01 00:00:00 UTC')",
		spi.MustTimestampWithTimeZoneType(0),
		spi.NewSqlTimestampWithTimeZone(0, -86_400_000, 0, spi.UTCKey))

	assertions.AssertInvalidFunction("yesterday(DECIMAL '1')", functions.ErrNoMatchingSignature)
}

func TestYesterdayAnyZone(t *testing.T) {
	tests := []struct {
		zone      string
		precision int64
		literal   string
	}{
		{"America/Lima", 3, "2001-01-02 03:04:05.321"},
		{"Asia/Kuala_Lumpur", 3, "2001-01-02 03:04:05.321"},
		{"US/Eastern", 6, "2001-01-02 03:04:05.321000"},
		{"Australia/Melbourne", 3, "2001-01-02 03:04:05.321"},
		{"+01:00", 3, "2001-01-02 03:04:05.321"},
		{"-09:30", 6, "2001-01-02 03:04:05.321000"},
	}
	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			assertions := functiontest.New(t)
			assertions.InstallPlugin(FunctionsPlugin{})

			key, err := spi.GetTimeZoneKey(tt.zone)
			require.NoError(t, err)
			loc, err := key.Location()
			require.NoError(t, err)
			want := time.Date(2001, time.January, 1, 3, 4, 5, 321*int(time.Millisecond), loc).UnixMilli()

			sql := "yesterday(CAST('" + tt.literal + " " + tt.zone + "' AS timestamp with time zone))"
			assertions.AssertFunction(sql,
				spi.MustTimestampWithTimeZoneType(tt.precision),
				spi.NewSqlTimestampWithTimeZone(tt.precision, want, 0, key))

			_, v, err := assertions.Execute(sql)
			require.NoError(t, err)
			assert.Equal(t, "2001-01-01 03:04:05.321", v.(spi.SqlTimestampWithTimeZone).String()[:23])
			assert.Contains(t, v.(spi.SqlTimestampWithTimeZone).String(), tt.zone)
		})
	}
}
