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

// Package spi is the type SPI that scalar functions are written against.
//
// It defines the SQL types functions can declare (decimal, timestamp with
// time zone, bigint, varchar), the native Go values those types take at
// invocation time, and the encoding primitives a function needs to work on
// them.
//
// # Dual representation
//
// Decimals and timestamps with time zone have two native forms. Small values
// travel as a single int64 word; large values use a wider structure:
//
//	decimal(p, s), p <= 17                 int64 unscaled magnitude
//	decimal(p, s), p >= 18                 Int128 unscaled magnitude
//	timestamp(p) with time zone, p <= 3    int64, epoch millis << 12 | zone key
//	timestamp(p) with time zone, p > 3     LongTimestampWithTimeZone
//
// The form is chosen by the type, never by the value, so the function
// resolver can pick an implementation at compile time from the argument types
// alone.
//
// # Engine-independent values
//
// SqlDecimal and SqlTimestampWithTimeZone are the display and comparison forms
// used for literals and test expectations. ReadDecimal/WriteDecimal and
// ReadTimestampWithTimeZone/WriteTimestampWithTimeZone convert between them and
// the native forms.
package spi
