package functions

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rulego/udfexample/spi"
	"github.com/spf13/cast"
)

// ExprBridge 桥接函数注册器与 expr-lang/expr，使注册的标量函数可在 expr 表达式中调用
type ExprBridge struct {
	registry *FunctionRegistry
	programs map[string]*vm.Program
	version  uint64
	mutex    sync.RWMutex // 保护编译缓存
}

// NewExprBridge 创建新的表达式桥接器
func NewExprBridge(registry *FunctionRegistry) *ExprBridge {
	if registry == nil {
		registry = globalRegistry
	}
	return &ExprBridge{
		registry: registry,
		programs: make(map[string]*vm.Program),
	}
}

// RegisterFunctionsToExpr 将注册器中的函数与辅助构造函数转换为 expr 选项
func (bridge *ExprBridge) RegisterFunctionsToExpr() []expr.Option {
	options := make([]expr.Option, 0)

	for _, name := range bridge.registry.Names() {
		// 为了避免闭包问题，复制函数名
		fnName := name
		options = append(options, expr.Function(fnName, func(params ...interface{}) (interface{}, error) {
			return bridge.call(fnName, params)
		}))
	}

	options = append(options,
		expr.Function("decimal", func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("decimal function requires 1 parameter")
			}
			text, err := literalText(params[0])
			if err != nil {
				return nil, fmt.Errorf("decimal: %w", err)
			}
			return spi.DecimalLiteral(text)
		}),
		expr.Function("decimal_cast", func(params ...interface{}) (interface{}, error) {
			if len(params) != 3 {
				return nil, fmt.Errorf("decimal_cast function requires 3 parameters")
			}
			v, err := spi.ValueOf(params[0])
			if err != nil {
				return nil, fmt.Errorf("decimal_cast: %w", err)
			}
			precision, err := cast.ToInt64E(params[1])
			if err != nil {
				return nil, fmt.Errorf("decimal_cast precision: %w", err)
			}
			scale, err := cast.ToInt64E(params[2])
			if err != nil {
				return nil, fmt.Errorf("decimal_cast scale: %w", err)
			}
			t, err := spi.NewDecimalType(precision, scale)
			if err != nil {
				return nil, fmt.Errorf("decimal_cast: %w", err)
			}
			return spi.Cast(v, t)
		}),
		expr.Function("timestamp_tz", func(params ...interface{}) (interface{}, error) {
			if len(params) < 1 || len(params) > 2 {
				return nil, fmt.Errorf("timestamp_tz function requires 1 or 2 parameters")
			}
			text, err := cast.ToStringE(params[0])
			if err != nil {
				return nil, fmt.Errorf("timestamp_tz: %w", err)
			}
			if len(params) == 1 {
				return spi.TimestampWithTimeZoneLiteral(text)
			}
			precision, err := cast.ToInt64E(params[1])
			if err != nil {
				return nil, fmt.Errorf("timestamp_tz precision: %w", err)
			}
			t, err := spi.NewTimestampWithTimeZoneType(precision)
			if err != nil {
				return nil, fmt.Errorf("timestamp_tz: %w", err)
			}
			return spi.Cast(spi.TypedValue{Type: spi.Varchar, Value: text}, t)
		}),
	)
	return options
}

// call resolves the function against the runtime argument types and invokes it.
func (bridge *ExprBridge) call(name string, params []interface{}) (interface{}, error) {
	args := make([]spi.TypedValue, len(params))
	types := make([]spi.Type, len(params))
	for i, p := range params {
		v, err := spi.ValueOf(p)
		if err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", name, i+1, err)
		}
		args[i], types[i] = v, v.Type
	}
	resolved, err := bridge.registry.Resolve(name, types)
	if err != nil {
		return nil, err
	}
	return resolved.Invoke(args...)
}

// Compile 编译表达式，包含注册函数；编译结果按注册器版本缓存
func (bridge *ExprBridge) Compile(expression string) (*vm.Program, error) {
	version := bridge.registry.Version()

	bridge.mutex.RLock()
	program, ok := bridge.programs[expression]
	cacheValid := bridge.version == version
	bridge.mutex.RUnlock()
	if ok && cacheValid {
		return program, nil
	}

	options := append(bridge.RegisterFunctionsToExpr(), expr.AllowUndefinedVariables())
	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}

	bridge.mutex.Lock()
	if bridge.version != version {
		bridge.programs = make(map[string]*vm.Program)
		bridge.version = version
	}
	bridge.programs[expression] = program
	bridge.mutex.Unlock()
	return program, nil
}

// EvaluateExpression 评估表达式并返回带类型的结果
func (bridge *ExprBridge) EvaluateExpression(expression string, data map[string]interface{}) (spi.TypedValue, error) {
	program, err := bridge.Compile(expression)
	if err != nil {
		return spi.TypedValue{}, err
	}
	env := make(map[string]interface{}, len(data))
	for k, v := range data {
		env[k] = v
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return spi.TypedValue{}, fmt.Errorf("evaluate %q: %w", expression, err)
	}
	return spi.ValueOf(result)
}

func literalText(v interface{}) (string, error) {
	switch n := v.(type) {
	case float32, float64:
		return strconv.FormatFloat(cast.ToFloat64(n), 'f', -1, 64), nil
	}
	return cast.ToStringE(v)
}
