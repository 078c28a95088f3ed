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

package functions

import (
	"fmt"
	"strings"

	"github.com/rulego/udfexample/spi"
)

// FunctionContext 函数执行上下文
type FunctionContext struct {
	// FunctionName is the registered name of the function being invoked.
	FunctionName string
	// Literals holds the literal parameters bound from the argument types, e.g. p and s.
	Literals map[string]int64
	// ArgumentTypes are the concrete argument types.
	ArgumentTypes []spi.Type
	// ReturnType is the concrete return type.
	ReturnType spi.Type
}

// Literal returns a bound literal parameter, or 0 when it is not bound.
func (ctx *FunctionContext) Literal(name string) int64 {
	if ctx == nil {
		return 0
	}
	return ctx.Literals[name]
}

// ScalarImplementation receives native argument values in the representations
// declared by its variant and returns a native value.
type ScalarImplementation func(ctx *FunctionContext, args []interface{}) (interface{}, error)

// Variant is one implementation of a scalar function, selected by the
// representations of its arguments and result.
type Variant struct {
	Name                    string
	ArgumentRepresentations []spi.Representation
	ReturnRepresentation    spi.Representation
	Implementation          ScalarImplementation
}

func (v Variant) key() string {
	parts := make([]string, len(v.ArgumentRepresentations))
	for i, r := range v.ArgumentRepresentations {
		parts[i] = r.String()
	}
	return "(" + strings.Join(parts, ",") + ")" + v.ReturnRepresentation.String()
}

// ScalarFunction is a named SQL scalar function: one signature, possibly
// parameterized by literal parameters, with one or more variants.
type ScalarFunction struct {
	*BaseFunction
	literalParameters []string
	returnType        spi.TypeSignature
	argumentTypes     []spi.TypeSignature
	hasSignature      bool
	variants          []Variant
	err               error
}

var _ Function = (*ScalarFunction)(nil)

// NewScalarFunction starts a function declaration.
//
// Example:
//
//	fn := NewScalarFunction("add_one", TypeMath, "decimal", "Add +1 to the value given").
//		LiteralParameters("p", "s").
//		Signature("decimal(p, s)", "decimal(p, s)").
//		Variant("addOneShort", []spi.Representation{spi.RepresentationShort}, spi.RepresentationShort, addOneShort)
func NewScalarFunction(name string, fnType FunctionType, category, description string) *ScalarFunction {
	return &ScalarFunction{BaseFunction: NewBaseFunction(name, fnType, category, description)}
}

// LiteralParameters declares the type parameter names the signature uses.
func (f *ScalarFunction) LiteralParameters(names ...string) *ScalarFunction {
	for _, n := range names {
		f.literalParameters = append(f.literalParameters, strings.ToLower(n))
	}
	return f
}

// Signature declares the SQL return and argument types.
func (f *ScalarFunction) Signature(returnType string, argumentTypes ...string) *ScalarFunction {
	ret, err := spi.ParseTypeSignature(returnType)
	if err != nil {
		f.fail(err)
		return f
	}
	args := make([]spi.TypeSignature, len(argumentTypes))
	for i, a := range argumentTypes {
		if args[i], err = spi.ParseTypeSignature(a); err != nil {
			f.fail(err)
			return f
		}
	}
	f.returnType, f.argumentTypes, f.hasSignature = ret, args, true
	return f
}

// Variant adds an implementation for one representation combination.
func (f *ScalarFunction) Variant(name string, args []spi.Representation, ret spi.Representation, impl ScalarImplementation) *ScalarFunction {
	f.variants = append(f.variants, Variant{
		Name:                    name,
		ArgumentRepresentations: args,
		ReturnRepresentation:    ret,
		Implementation:          impl,
	})
	return f
}

func (f *ScalarFunction) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// Validate checks the declaration is complete and unambiguous.
func (f *ScalarFunction) Validate() error {
	name := f.GetName()
	if f.err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFunction, name, f.err)
	}
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidFunction)
	}
	if !f.hasSignature {
		return fmt.Errorf("%w: %s has no signature", ErrInvalidFunction, name)
	}
	if len(f.variants) == 0 {
		return fmt.Errorf("%w: %s has no implementation", ErrInvalidFunction, name)
	}

	declared := make(map[string]bool, len(f.literalParameters))
	for _, p := range f.literalParameters {
		declared[p] = true
	}
	boundByArgs := make(map[string]bool)
	for _, a := range f.argumentTypes {
		for _, v := range a.Variables() {
			if !declared[v] {
				return fmt.Errorf("%w: %s uses undeclared literal parameter %s", ErrInvalidFunction, name, v)
			}
			boundByArgs[v] = true
		}
	}
	for _, v := range f.returnType.Variables() {
		if !boundByArgs[v] {
			return fmt.Errorf("%w: %s return type parameter %s is not bound by any argument", ErrInvalidFunction, name, v)
		}
	}

	seen := make(map[string]string, len(f.variants))
	for _, v := range f.variants {
		if v.Implementation == nil {
			return fmt.Errorf("%w: %s variant %s has no implementation", ErrInvalidFunction, name, v.Name)
		}
		if len(v.ArgumentRepresentations) != len(f.argumentTypes) {
			return fmt.Errorf("%w: %s variant %s takes %d arguments, signature has %d",
				ErrInvalidFunction, name, v.Name, len(v.ArgumentRepresentations), len(f.argumentTypes))
		}
		if other, dup := seen[v.key()]; dup {
			return fmt.Errorf("%w: %s variants %s and %s have the same representations %s",
				ErrInvalidFunction, name, other, v.Name, v.key())
		}
		seen[v.key()] = v.Name
	}
	return nil
}

// LiteralParameterNames returns the declared literal parameter names.
func (f *ScalarFunction) LiteralParameterNames() []string {
	return append([]string(nil), f.literalParameters...)
}

// ReturnType returns the declared return type signature.
func (f *ScalarFunction) ReturnType() spi.TypeSignature {
	return f.returnType
}

// ArgumentTypes returns the declared argument type signatures.
func (f *ScalarFunction) ArgumentTypes() []spi.TypeSignature {
	return append([]spi.TypeSignature(nil), f.argumentTypes...)
}

// Variants returns the declared implementations.
func (f *ScalarFunction) Variants() []Variant {
	return append([]Variant(nil), f.variants...)
}

// DisplaySignature renders e.g. "add_one(decimal(p, s)):decimal(p, s)".
func (f *ScalarFunction) DisplaySignature() string {
	args := make([]string, len(f.argumentTypes))
	for i, a := range f.argumentTypes {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s):%s", f.GetName(), strings.Join(args, ", "), f.returnType)
}
