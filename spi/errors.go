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

import "errors"

var (
	// ErrArithmeticOverflow is returned when an integer result leaves its machine range.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrDecimalOverflow is returned when a decimal result exceeds its declared precision.
	ErrDecimalOverflow = errors.New("decimal overflow")
	// ErrInvalidType is returned for malformed or unsupported type signatures.
	ErrInvalidType = errors.New("invalid type")
	// ErrInvalidValue is returned when a native value does not match its type's representation.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidTimeZoneKey is returned for unknown zone ids and out-of-range zone keys.
	ErrInvalidTimeZoneKey = errors.New("invalid time zone key")
	// ErrMillisOutOfRange is returned when an instant cannot be packed.
	ErrMillisOutOfRange = errors.New("millis out of range")
	// ErrInvalidLiteral is returned for unparsable literal text.
	ErrInvalidLiteral = errors.New("invalid literal")
)
