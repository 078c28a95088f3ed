/*
Package udfexample 是一个标量函数扩展示例：通过插件向 SQL 函数引擎注册
自定义函数，并提供表达式求值入口。

示例插件提供两个函数：

  - add_one(decimal(p, s)) -> decimal(p, s)：未缩放整数加一（即按标度加最小单位，1.50 得 1.51），精度与标度不变。
    p <= 17 时值以 int64 未缩放整数承载，更大精度使用 spi.Int128。
  - yesterday(timestamp(p) with time zone) -> timestamp(p) with time zone：
    向前固定偏移 86400000 毫秒，时区保持不变，不考虑夏令时。
    p <= 3 时值打包为 int64（毫秒左移 12 位加时区编号），否则为 spi.LongTimestampWithTimeZone。

# 快速开始

	engine := udfexample.New()
	if err := engine.InstallPlugin(example.FunctionsPlugin{}); err != nil {
		panic(err)
	}

	v, err := engine.Execute("add_one(DECIMAL '1.50')")
	// v.Type.Signature() == "decimal(3,2)", v.String() == "1.51"

	v, err = engine.Execute("yesterday(TIMESTAMP '2001-01-02 03:04:05.321 Europe/Berlin')")
	// v.String() == "2001-01-01 03:04:05.321 Europe/Berlin"

# expr-lang 表达式

注册的函数同时可在 expr-lang 表达式中使用，decimal、decimal_cast 和 timestamp_tz
用于构造带类型的参数：

	v, err := engine.Evaluate("add_one(decimal_cast(x, 18, 0))", map[string]interface{}{"x": 41})

# 自定义函数

实现 functions.Plugin 即可提供自己的函数，参见 functions 包中的 ScalarFunction 构建器。
*/
package udfexample
