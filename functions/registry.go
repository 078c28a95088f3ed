package functions

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rulego/udfexample/spi"
)

// FunctionType 函数类型枚举
type FunctionType string

const (
	// 数学函数
	TypeMath FunctionType = "math"
	// 时间日期函数
	TypeDateTime FunctionType = "datetime"
	// 用户自定义函数
	TypeCustom FunctionType = "custom"
)

var (
	// ErrFunctionNotFound is returned when no function is registered under a name.
	ErrFunctionNotFound = errors.New("function not found")
	// ErrAlreadyRegistered is returned when a name is registered twice.
	ErrAlreadyRegistered = errors.New("function already registered")
	// ErrNoMatchingSignature is returned when argument types do not fit any signature or variant.
	ErrNoMatchingSignature = errors.New("no matching function signature")
	// ErrInvalidFunction is returned by Validate for malformed declarations.
	ErrInvalidFunction = errors.New("invalid function declaration")
)

// Function 函数接口定义
type Function interface {
	// GetName 获取函数名称
	GetName() string
	// GetType 获取函数类型
	GetType() FunctionType
	// GetCategory 获取函数分类
	GetCategory() string
	// GetDescription 获取函数描述
	GetDescription() string
}

// FunctionRegistry 函数注册器
type FunctionRegistry struct {
	mu         sync.RWMutex
	functions  map[string]*ScalarFunction
	categories map[FunctionType][]*ScalarFunction
	version    atomic.Uint64
}

// 全局函数注册器实例
var globalRegistry = NewFunctionRegistry()

// NewFunctionRegistry 创建新的函数注册器
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions:  make(map[string]*ScalarFunction),
		categories: make(map[FunctionType][]*ScalarFunction),
	}
}

// GlobalRegistry returns the process-wide registry used by the package-level helpers.
func GlobalRegistry() *FunctionRegistry {
	return globalRegistry
}

// Register 注册函数，注册前校验函数声明
func (r *FunctionRegistry) Register(fn *ScalarFunction) error {
	if err := fn.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(fn.GetName())

	// 检查函数是否已存在
	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	r.functions[name] = fn
	r.categories[fn.GetType()] = append(r.categories[fn.GetType()], fn)
	r.version.Add(1)
	return nil
}

// Get 获取函数
func (r *FunctionRegistry) Get(name string) (*ScalarFunction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.functions[strings.ToLower(name)]
	return fn, exists
}

// GetByType 按类型获取函数列表
func (r *FunctionRegistry) GetByType(fnType FunctionType) []*ScalarFunction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*ScalarFunction, len(r.categories[fnType]))
	copy(result, r.categories[fnType])
	return result
}

// ListAll 列出所有注册的函数
func (r *FunctionRegistry) ListAll() map[string]*ScalarFunction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*ScalarFunction, len(r.functions))
	for name, fn := range r.functions {
		result[name] = fn
	}
	return result
}

// Names returns the registered names in sorted order.
func (r *FunctionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Version changes every time the set of registered functions changes.
func (r *FunctionRegistry) Version() uint64 {
	return r.version.Load()
}

// Unregister 注销函数
func (r *FunctionRegistry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(name)
	fn, exists := r.functions[name]
	if !exists {
		return false
	}

	delete(r.functions, name)

	// 从分类中移除
	fnType := fn.GetType()
	if funcs, ok := r.categories[fnType]; ok {
		for i, f := range funcs {
			if f == fn {
				r.categories[fnType] = append(funcs[:i:i], funcs[i+1:]...)
				break
			}
		}
	}
	r.version.Add(1)
	return true
}

// InstallPlugin registers every function the plugin provides. Installation is
// all or nothing: on failure the functions registered so far are removed again.
func (r *FunctionRegistry) InstallPlugin(p Plugin) ([]string, error) {
	var installed []string
	for _, fn := range p.Functions() {
		if err := r.Register(fn); err != nil {
			for _, name := range installed {
				r.Unregister(name)
			}
			return nil, fmt.Errorf("install plugin: %w", err)
		}
		installed = append(installed, strings.ToLower(fn.GetName()))
	}
	return installed, nil
}

// Resolve binds the named function to concrete argument types and selects the
// implementation variant for their representations.
func (r *FunctionRegistry) Resolve(name string, argumentTypes []spi.Type) (*ResolvedFunction, error) {
	fn, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}
	return fn.resolve(argumentTypes, nil)
}

// ResolveWithReturn is like Resolve but selects the variant producing the
// requested return representation.
func (r *FunctionRegistry) ResolveWithReturn(name string, argumentTypes []spi.Type, ret spi.Representation) (*ResolvedFunction, error) {
	fn, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}
	return fn.resolve(argumentTypes, &ret)
}

// 全局函数注册和获取方法
func Register(fn *ScalarFunction) error {
	return globalRegistry.Register(fn)
}

func Get(name string) (*ScalarFunction, bool) {
	return globalRegistry.Get(name)
}

func GetByType(fnType FunctionType) []*ScalarFunction {
	return globalRegistry.GetByType(fnType)
}

func ListAll() map[string]*ScalarFunction {
	return globalRegistry.ListAll()
}

func Unregister(name string) bool {
	return globalRegistry.Unregister(name)
}

func Resolve(name string, argumentTypes []spi.Type) (*ResolvedFunction, error) {
	return globalRegistry.Resolve(name, argumentTypes)
}

// Execute resolves name against the argument types and invokes it.
func Execute(name string, args ...spi.TypedValue) (spi.TypedValue, error) {
	types := make([]spi.Type, len(args))
	for i, a := range args {
		types[i] = a.Type
	}
	resolved, err := Resolve(name, types)
	if err != nil {
		return spi.TypedValue{}, err
	}
	return resolved.Invoke(args...)
}
