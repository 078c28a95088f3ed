package functions

import (
	"fmt"
	"strings"

	"github.com/rulego/udfexample/spi"
)

// ResolvedFunction is a scalar function bound to concrete argument types with
// one variant selected. It is immutable and safe for concurrent use.
type ResolvedFunction struct {
	function      *ScalarFunction
	variant       Variant
	literals      map[string]int64
	argumentTypes []spi.Type
	returnType    spi.Type
}

func (f *ScalarFunction) resolve(argumentTypes []spi.Type, wantReturn *spi.Representation) (*ResolvedFunction, error) {
	if len(argumentTypes) != len(f.argumentTypes) {
		return nil, f.mismatch(argumentTypes)
	}
	literals := make(map[string]int64, len(f.literalParameters))
	for i, sig := range f.argumentTypes {
		if argumentTypes[i] == nil || !sig.Match(argumentTypes[i], literals) {
			return nil, f.mismatch(argumentTypes)
		}
	}
	boundReturn, err := f.returnType.Bind(literals)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.GetName(), err)
	}
	returnType, err := spi.CreateType(boundReturn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.GetName(), err)
	}

	want := returnType.Representation()
	if wantReturn != nil {
		want = *wantReturn
	}
	variant, ok := f.selectVariant(argumentTypes, want, wantReturn != nil)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no implementation for %s returning %s representation",
			ErrNoMatchingSignature, f.GetName(), typeList(argumentTypes), want)
	}
	return &ResolvedFunction{
		function:      f,
		variant:       variant,
		literals:      literals,
		argumentTypes: append([]spi.Type(nil), argumentTypes...),
		returnType:    returnType,
	}, nil
}

// selectVariant prefers an exact representation match. Unless strict, a variant
// matching the arguments with another return representation is accepted and its
// result is converted on invocation.
func (f *ScalarFunction) selectVariant(argumentTypes []spi.Type, ret spi.Representation, strict bool) (Variant, bool) {
	var fallback *Variant
	for i := range f.variants {
		v := f.variants[i]
		if !argumentsMatch(v, argumentTypes) {
			continue
		}
		if v.ReturnRepresentation == ret {
			return v, true
		}
		if fallback == nil {
			fallback = &f.variants[i]
		}
	}
	if fallback != nil && !strict {
		return *fallback, true
	}
	return Variant{}, false
}

func argumentsMatch(v Variant, argumentTypes []spi.Type) bool {
	for i, t := range argumentTypes {
		if v.ArgumentRepresentations[i] != t.Representation() {
			return false
		}
	}
	return true
}

func (f *ScalarFunction) mismatch(argumentTypes []spi.Type) error {
	args := make([]string, len(f.argumentTypes))
	for i, a := range f.argumentTypes {
		args[i] = a.String()
	}
	return fmt.Errorf("%w: unexpected parameters %s for function %s. Expected: %s(%s)",
		ErrNoMatchingSignature, typeList(argumentTypes), f.GetName(), f.GetName(), strings.Join(args, ", "))
}

func typeList(ts []spi.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		if t == nil {
			parts[i] = "unknown"
			continue
		}
		parts[i] = t.Signature()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Function returns the resolved declaration.
func (r *ResolvedFunction) Function() *ScalarFunction { return r.function }

// Variant returns the selected implementation.
func (r *ResolvedFunction) Variant() Variant { return r.variant }

// ArgumentTypes returns the concrete argument types.
func (r *ResolvedFunction) ArgumentTypes() []spi.Type {
	return append([]spi.Type(nil), r.argumentTypes...)
}

// ReturnType returns the concrete return type.
func (r *ResolvedFunction) ReturnType() spi.Type { return r.returnType }

// Literals returns a copy of the bound literal parameters.
func (r *ResolvedFunction) Literals() map[string]int64 {
	m := make(map[string]int64, len(r.literals))
	for k, v := range r.literals {
		m[k] = v
	}
	return m
}

// InvokeNative calls the selected variant with native argument values and
// returns its native result unchanged.
func (r *ResolvedFunction) InvokeNative(args ...interface{}) (interface{}, error) {
	name := r.function.GetName()
	if len(args) != len(r.argumentTypes) {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", name, len(r.argumentTypes), len(args))
	}
	for i, a := range args {
		if err := spi.CheckValue(spi.TypedValue{Type: r.argumentTypes[i], Value: a}); err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", name, i+1, err)
		}
	}
	ctx := &FunctionContext{
		FunctionName:  name,
		Literals:      r.literals,
		ArgumentTypes: r.argumentTypes,
		ReturnType:    r.returnType,
	}
	result, err := r.variant.Implementation(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return result, nil
}

// Invoke calls the function and returns the result in the canonical
// representation of the return type.
func (r *ResolvedFunction) Invoke(args ...spi.TypedValue) (spi.TypedValue, error) {
	native := make([]interface{}, len(args))
	for i, a := range args {
		native[i] = a.Value
	}
	result, err := r.InvokeNative(native...)
	if err != nil {
		return spi.TypedValue{}, err
	}
	value, err := normalize(r.returnType, result)
	if err != nil {
		return spi.TypedValue{}, fmt.Errorf("%s: %w", r.function.GetName(), err)
	}
	out := spi.TypedValue{Type: r.returnType, Value: value}
	if err := spi.CheckValue(out); err != nil {
		return spi.TypedValue{}, fmt.Errorf("%s: result: %w", r.function.GetName(), err)
	}
	return out, nil
}

// normalize converts a variant result to the representation t uses.
func normalize(t spi.Type, v interface{}) (interface{}, error) {
	switch tt := t.(type) {
	case spi.DecimalType:
		return spi.NormalizeDecimal(tt, v)
	case spi.TimestampWithTimeZoneType:
		switch n := v.(type) {
		case int64:
			if tt.IsShort() {
				return n, nil
			}
			return spi.FromEpochMillisAndFraction(spi.UnpackMillisUtc(n), 0, spi.UnpackZoneKey(n))
		case spi.LongTimestampWithTimeZone:
			if !tt.IsShort() {
				return n, nil
			}
			sql := spi.NewSqlTimestampWithTimeZone(tt.Precision(), n.EpochMillis, n.PicosOfMilli, n.TimeZoneKey)
			return spi.WriteTimestampWithTimeZone(tt, sql)
		}
	}
	return v, nil
}
