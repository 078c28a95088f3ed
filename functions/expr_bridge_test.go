package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/udfexample/spi"
)

func TestExprBridge(t *testing.T) {
	bridge := NewExprBridge(newIncrementRegistry(t))

	t.Run("Registered Functions Available", func(t *testing.T) {
		result, err := bridge.EvaluateExpression("inc(decimal('1.50'))", nil)
		require.NoError(t, err)
		assert.Equal(t, spi.MustDecimalType(3, 2), result.Type)
		assert.Equal(t, int64(151), result.Value)

		result, err = bridge.EvaluateExpression("inc(inc(decimal(41)))", nil)
		require.NoError(t, err)
		assert.Equal(t, "43", result.String())
	})

	t.Run("Decimal Helpers", func(t *testing.T) {
		result, err := bridge.EvaluateExpression("decimal(1.25)", nil)
		require.NoError(t, err)
		assert.Equal(t, spi.MustDecimalType(3, 2), result.Type)

		result, err = bridge.EvaluateExpression("inc(decimal_cast(x, 20, 0))", map[string]interface{}{"x": 5})
		require.NoError(t, err)
		assert.Equal(t, spi.MustDecimalType(20, 0), result.Type)
		assert.Equal(t, spi.Int128FromInt64(6), result.Value)

		result, err = bridge.EvaluateExpression("decimal_cast(decimal('1.25'), 2, 1)", nil)
		require.NoError(t, err)
		assert.Equal(t, "1.3", result.String())
	})

	t.Run("Timestamp Helper", func(t *testing.T) {
		result, err := bridge.EvaluateExpression("timestamp_tz('2001-01-02 03:04:05.321 Europe/Berlin')", nil)
		require.NoError(t, err)
		assert.Equal(t, spi.MustTimestampWithTimeZoneType(3), result.Type)
		assert.Equal(t, "2001-01-02 03:04:05.321 Europe/Berlin", result.String())

		result, err = bridge.EvaluateExpression("timestamp_tz(ts, 9)", map[string]interface{}{"ts": "2001-01-02 03:04:05 UTC"})
		require.NoError(t, err)
		assert.Equal(t, spi.MustTimestampWithTimeZoneType(9), result.Type)
		assert.IsType(t, spi.LongTimestampWithTimeZone{}, result.Value)
	})

	t.Run("Plain Values", func(t *testing.T) {
		result, err := bridge.EvaluateExpression("x + 1", map[string]interface{}{"x": 41})
		require.NoError(t, err)
		assert.Equal(t, spi.Bigint, result.Type)
		assert.Equal(t, int64(42), result.Value)
	})

	t.Run("Errors", func(t *testing.T) {
		// expr 运行时错误不保留错误链，只检查失败
		for _, expression := range []string{
			"inc(1)",
			"inc(decimal('9'))",
			"decimal()",
			"decimal('abc')",
			"decimal_cast(1, 0, 0)",
			"decimal_cast(1, 2)",
			"timestamp_tz()",
			"timestamp_tz('2001-01-02', 13)",
			"inc(",
		} {
			_, err := bridge.EvaluateExpression(expression, nil)
			assert.Error(t, err, expression)
		}
	})
}

// TestExprBridgeCache 编译结果按注册表版本缓存
func TestExprBridgeCache(t *testing.T) {
	reg := newIncrementRegistry(t)
	bridge := NewExprBridge(reg)

	p1, err := bridge.Compile("inc(decimal('1'))")
	require.NoError(t, err)
	p2, err := bridge.Compile("inc(decimal('1'))")
	require.NoError(t, err)
	assert.Same(t, p1, p2)

	require.NoError(t, reg.Register(newEchoFunction("echo")))
	p3, err := bridge.Compile("inc(decimal('1'))")
	require.NoError(t, err)
	assert.NotSame(t, p1, p3)

	result, err := bridge.EvaluateExpression("echo(x)", map[string]interface{}{"x": 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Value)
}

func TestNewExprBridgeDefaultsToGlobal(t *testing.T) {
	bridge := NewExprBridge(nil)
	assert.Same(t, GlobalRegistry(), bridge.registry)
}
