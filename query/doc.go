// Package query 实现标量 SQL 表达式的解析与求值。
//
// 支持的语法：
//
//	expr := literal | '-' expr | CAST '(' expr AS type ')' | name '(' [expr {',' expr}] ')'
//	literal := DECIMAL 'text' | TIMESTAMP 'text' | 123 | 1.5 | 'string'
//
// 示例：
//
//	ev := query.NewEvaluator(registry, nil)
//	v, err := ev.Execute("add_one(CAST(0 AS DECIMAL(18,0)))")
package query
