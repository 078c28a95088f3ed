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
)

// Representation identifies the native Go form a value of a type takes while it
// flows through function invocation. Functions declare one implementation per
// representation combination and the resolver picks among them.
type Representation int

const (
	// RepresentationShort values are a single int64 word.
	RepresentationShort Representation = iota
	// RepresentationLong values are a wider structure: Int128 for decimals,
	// LongTimestampWithTimeZone for timestamps.
	RepresentationLong
	// RepresentationObject values are reference values such as strings.
	RepresentationObject
)

func (r Representation) String() string {
	switch r {
	case RepresentationShort:
		return "short"
	case RepresentationLong:
		return "long"
	case RepresentationObject:
		return "object"
	default:
		return "unknown"
	}
}

const (
	BaseBigint                = "bigint"
	BaseVarchar               = "varchar"
	BaseDecimal               = "decimal"
	BaseTimestampWithTimeZone = "timestamp with time zone"
)

// Type is a concrete SQL type.
type Type interface {
	// Base returns the type constructor name, e.g. "decimal".
	Base() string
	// Parameters returns the literal parameters in declaration order.
	Parameters() []int64
	// Representation returns the native form of the type's values.
	Representation() Representation
	// Signature returns the display form, e.g. "decimal(18,0)".
	Signature() string
}

// BigintType is the 64-bit integer type.
type BigintType struct{}

var Bigint Type = BigintType{}

func (BigintType) Base() string                   { return BaseBigint }
func (BigintType) Parameters() []int64            { return nil }
func (BigintType) Representation() Representation { return RepresentationShort }
func (BigintType) Signature() string              { return BaseBigint }

// VarcharType is the unbounded character type.
type VarcharType struct{}

var Varchar Type = VarcharType{}

func (VarcharType) Base() string                   { return BaseVarchar }
func (VarcharType) Parameters() []int64            { return nil }
func (VarcharType) Representation() Representation { return RepresentationObject }
func (VarcharType) Signature() string              { return BaseVarchar }

// TypeParameter is either a literal value or a named placeholder bound at
// resolution time.
type TypeParameter struct {
	Name  string
	Value int64
}

// IsVariable reports whether the parameter is a named placeholder.
func (p TypeParameter) IsVariable() bool {
	return p.Name != ""
}

func (p TypeParameter) String() string {
	if p.IsVariable() {
		return p.Name
	}
	return strconv.FormatInt(p.Value, 10)
}

// TypeSignature is a possibly parameterized type such as "decimal(p, s)".
type TypeSignature struct {
	Base       string
	Parameters []TypeParameter
}

// ParseTypeSignature parses signatures like "decimal(p, s)",
// "timestamp(p) with time zone" or "decimal(18,0)".
func ParseTypeSignature(text string) (TypeSignature, error) {
	s := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if s == "" {
		return TypeSignature{}, fmt.Errorf("%w: empty type", ErrInvalidType)
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return TypeSignature{Base: s}, nil
	}
	closing := strings.IndexByte(s, ')')
	if closing < open {
		return TypeSignature{}, fmt.Errorf("%w: unbalanced parentheses in %q", ErrInvalidType, text)
	}
	base := strings.TrimSpace(s[:open])
	if suffix := strings.TrimSpace(s[closing+1:]); suffix != "" {
		// timestamp(p) with time zone
		base = base + " " + suffix
	}
	sig := TypeSignature{Base: base}
	for _, raw := range strings.Split(s[open+1:closing], ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return TypeSignature{}, fmt.Errorf("%w: empty parameter in %q", ErrInvalidType, text)
		}
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			sig.Parameters = append(sig.Parameters, TypeParameter{Value: v})
			continue
		}
		if !isParameterName(raw) {
			return TypeSignature{}, fmt.Errorf("%w: bad parameter %q in %q", ErrInvalidType, raw, text)
		}
		sig.Parameters = append(sig.Parameters, TypeParameter{Name: raw})
	}
	return sig, nil
}

// MustParseTypeSignature is like ParseTypeSignature but panics on error.
func MustParseTypeSignature(text string) TypeSignature {
	sig, err := ParseTypeSignature(text)
	if err != nil {
		panic(err)
	}
	return sig
}

func isParameterName(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c == '_' || i > 0 && c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// IsConcrete reports whether all parameters are literal values.
func (s TypeSignature) IsConcrete() bool {
	for _, p := range s.Parameters {
		if p.IsVariable() {
			return false
		}
	}
	return true
}

// Variables returns the placeholder names in order of appearance.
func (s TypeSignature) Variables() []string {
	var names []string
	for _, p := range s.Parameters {
		if p.IsVariable() {
			names = append(names, p.Name)
		}
	}
	return names
}

// Bind substitutes placeholders with the given literal values.
func (s TypeSignature) Bind(literals map[string]int64) (TypeSignature, error) {
	bound := TypeSignature{Base: s.Base, Parameters: make([]TypeParameter, len(s.Parameters))}
	for i, p := range s.Parameters {
		if !p.IsVariable() {
			bound.Parameters[i] = p
			continue
		}
		v, ok := literals[p.Name]
		if !ok {
			return TypeSignature{}, fmt.Errorf("%w: unbound literal parameter %s in %s", ErrInvalidType, p.Name, s)
		}
		bound.Parameters[i] = TypeParameter{Value: v}
	}
	return bound, nil
}

// Match checks t against the signature, recording placeholder bindings in
// literals. A placeholder already bound must agree with t.
func (s TypeSignature) Match(t Type, literals map[string]int64) bool {
	if s.Base != t.Base() {
		return false
	}
	params := t.Parameters()
	if len(s.Parameters) == 0 {
		return true
	}
	if len(params) != len(s.Parameters) {
		return false
	}
	for i, p := range s.Parameters {
		if !p.IsVariable() {
			if p.Value != params[i] {
				return false
			}
			continue
		}
		if bound, ok := literals[p.Name]; ok && bound != params[i] {
			return false
		}
		literals[p.Name] = params[i]
	}
	return true
}

func (s TypeSignature) String() string {
	if len(s.Parameters) == 0 {
		return s.Base
	}
	parts := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		parts[i] = p.String()
	}
	params := "(" + strings.Join(parts, ", ") + ")"
	if s.Base == BaseTimestampWithTimeZone {
		return "timestamp" + params + " with time zone"
	}
	return s.Base + params
}

// CreateType builds the concrete type named by a concrete signature. Missing
// parameters take the engine defaults: decimal(38,0) and timestamp(3) with time zone.
func CreateType(sig TypeSignature) (Type, error) {
	if !sig.IsConcrete() {
		return nil, fmt.Errorf("%w: %s is not concrete", ErrInvalidType, sig)
	}
	params := make([]int64, len(sig.Parameters))
	for i, p := range sig.Parameters {
		params[i] = p.Value
	}
	switch sig.Base {
	case BaseBigint, "integer", "int":
		if len(params) != 0 {
			break
		}
		return Bigint, nil
	case BaseVarchar:
		if len(params) > 1 {
			break
		}
		return Varchar, nil
	case BaseDecimal:
		switch len(params) {
		case 0:
			return NewDecimalType(MaxPrecision, 0)
		case 1:
			return NewDecimalType(params[0], 0)
		case 2:
			return NewDecimalType(params[0], params[1])
		}
	case BaseTimestampWithTimeZone:
		switch len(params) {
		case 0:
			return NewTimestampWithTimeZoneType(DefaultTimestampPrecision)
		case 1:
			return NewTimestampWithTimeZoneType(params[0])
		}
	default:
		return nil, fmt.Errorf("%w: unknown type %s", ErrInvalidType, sig.Base)
	}
	return nil, fmt.Errorf("%w: wrong number of parameters for %s", ErrInvalidType, sig)
}

// ParseType parses and creates a concrete type, e.g. "decimal(18, 0)".
func ParseType(text string) (Type, error) {
	sig, err := ParseTypeSignature(text)
	if err != nil {
		return nil, err
	}
	return CreateType(sig)
}

// MustParseType is like ParseType but panics on error.
func MustParseType(text string) Type {
	t, err := ParseType(text)
	if err != nil {
		panic(err)
	}
	return t
}
