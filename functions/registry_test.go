package functions

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/udfexample/spi"
)

func echo(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	return args[0], nil
}

func newEchoFunction(name string) *ScalarFunction {
	return NewScalarFunction(name, TypeCustom, "test", "returns its argument").
		Signature("bigint", "bigint").
		Variant("echo", []spi.Representation{spi.RepresentationShort}, spi.RepresentationShort, echo)
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewFunctionRegistry()
	v0 := reg.Version()

	require.NoError(t, reg.Register(newEchoFunction("Echo")))
	assert.Greater(t, reg.Version(), v0)

	// 名称大小写不敏感
	for _, name := range []string{"echo", "ECHO", "eChO"} {
		fn, ok := reg.Get(name)
		assert.True(t, ok, name)
		assert.Equal(t, "Echo", fn.GetName())
	}
	_, ok := reg.Get("missing")
	assert.False(t, ok)

	err := reg.Register(newEchoFunction("ECHO"))
	assert.True(t, errors.Is(err, ErrAlreadyRegistered), "%v", err)

	assert.Equal(t, []string{"echo"}, reg.Names())
	assert.Len(t, reg.ListAll(), 1)
	assert.Len(t, reg.GetByType(TypeCustom), 1)
	assert.Empty(t, reg.GetByType(TypeMath))
}

func TestScalarFunctionDescribesItself(t *testing.T) {
	var fn Function = newEchoFunction("echo")
	assert.Equal(t, "echo", fn.GetName())
	assert.Equal(t, TypeCustom, fn.GetType())
	assert.Equal(t, "test", fn.GetCategory())
	assert.Equal(t, "returns its argument", fn.GetDescription())
}

func TestRegistryUnregister(t *testing.T) {
	reg := NewFunctionRegistry()
	assert.False(t, reg.Unregister("not_exist"))

	require.NoError(t, reg.Register(newEchoFunction("a")))
	require.NoError(t, reg.Register(newEchoFunction("b")))
	v := reg.Version()

	assert.True(t, reg.Unregister("A"))
	assert.Greater(t, reg.Version(), v)
	assert.Equal(t, []string{"b"}, reg.Names())
	require.Len(t, reg.GetByType(TypeCustom), 1)
	assert.Equal(t, "b", reg.GetByType(TypeCustom)[0].GetName())
}

func TestRegistryRejectsInvalidFunction(t *testing.T) {
	reg := NewFunctionRegistry()
	err := reg.Register(NewScalarFunction("", TypeCustom, "", ""))
	assert.True(t, errors.Is(err, ErrInvalidFunction), "%v", err)
	assert.Empty(t, reg.Names())
}

func TestRegistryInstallPlugin(t *testing.T) {
	reg := NewFunctionRegistry()
	require.NoError(t, reg.Register(newEchoFunction("taken")))

	names, err := reg.InstallPlugin(PluginFunc(func() []*ScalarFunction {
		return []*ScalarFunction{newEchoFunction("First"), newEchoFunction("second")}
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, names)

	// 任一函数失败时整体回滚
	_, err = reg.InstallPlugin(PluginFunc(func() []*ScalarFunction {
		return []*ScalarFunction{newEchoFunction("third"), newEchoFunction("taken")}
	}))
	assert.True(t, errors.Is(err, ErrAlreadyRegistered), "%v", err)
	assert.Equal(t, []string{"first", "second", "taken"}, reg.Names())
}

func TestRegistryResolveNotFound(t *testing.T) {
	reg := NewFunctionRegistry()
	_, err := reg.Resolve("nope", []spi.Type{spi.Bigint})
	assert.True(t, errors.Is(err, ErrFunctionNotFound), "%v", err)
	_, err = reg.ResolveWithReturn("nope", nil, spi.RepresentationLong)
	assert.True(t, errors.Is(err, ErrFunctionNotFound), "%v", err)
}

func TestGlobalRegistry(t *testing.T) {
	name := "global_echo_test"
	require.NoError(t, Register(newEchoFunction(name)))
	defer Unregister(name)

	_, ok := Get(name)
	assert.True(t, ok)
	assert.Contains(t, ListAll(), name)
	assert.NotEmpty(t, GetByType(TypeCustom))

	result, err := Execute(name, spi.TypedValue{Type: spi.Bigint, Value: int64(7)})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Value)

	_, err = Resolve(name, []spi.Type{spi.Varchar})
	assert.True(t, errors.Is(err, ErrNoMatchingSignature), "%v", err)
}

// TestRegistryConcurrentAccess 并发注册、解析与注销
func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewFunctionRegistry()
	require.NoError(t, reg.Register(newEchoFunction("shared")))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("fn_%d", i)
			assert.NoError(t, reg.Register(newEchoFunction(name)))
			assert.True(t, reg.Unregister(name))
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				resolved, err := reg.Resolve("shared", []spi.Type{spi.Bigint})
				if !assert.NoError(t, err) {
					return
				}
				_, err = resolved.Invoke(spi.TypedValue{Type: spi.Bigint, Value: int64(j)})
				assert.NoError(t, err)
				_ = reg.Names()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"shared"}, reg.Names())
}
