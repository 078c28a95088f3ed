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

package table

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/markkurossi/tabulate"
	"github.com/markkurossi/vt100"
)

// ParseStyle 按名称查找表格样式，空名称返回默认样式
func ParseStyle(name string) (tabulate.Style, error) {
	if name == "" {
		return tabulate.Unicode, nil
	}
	style, ok := tabulate.Styles[strings.ToLower(name)]
	if !ok {
		return tabulate.Unicode, fmt.Errorf("unknown table style %q, available: %s",
			name, strings.Join(tabulate.StyleNames(), ", "))
	}
	return style, nil
}

// PrintTableFromSlice prints rows to w.
// Supports custom field order, uses alphabetical order if fieldOrder is empty
func PrintTableFromSlice(w io.Writer, style tabulate.Style, data []map[string]interface{}, fieldOrder []string) {
	if len(data) == 0 {
		return
	}

	columns := orderColumns(data, fieldOrder)

	tab := tabulate.New(style)
	// 按终端显示宽度对齐，时区名等可能含宽字符
	tab.Measure = func(column string) int {
		w, _, _ := vt100.DisplayWidth(column)
		return w
	}
	for _, col := range columns {
		tab.Header(col).SetAlign(columnAlign(data, col))
	}
	for _, values := range data {
		row := tab.Row()
		for _, col := range columns {
			v, ok := values[col]
			if !ok || v == nil {
				row.Column("")
				continue
			}
			row.Column(fmt.Sprintf("%v", v))
		}
	}
	tab.Print(w)

	fmt.Fprintf(w, "(%d rows)\n", len(data))
}

// FormatTableData formats table data, supports multiple data types
func FormatTableData(w io.Writer, style tabulate.Style, result interface{}, fieldOrder []string) {
	switch v := result.(type) {
	case []map[string]interface{}:
		if len(v) == 0 {
			fmt.Fprintln(w, "(0 rows)")
			return
		}
		PrintTableFromSlice(w, style, v, fieldOrder)
	case map[string]interface{}:
		if len(v) == 0 {
			fmt.Fprintln(w, "(0 rows)")
			return
		}
		PrintTableFromSlice(w, style, []map[string]interface{}{v}, fieldOrder)
	default:
		fmt.Fprintf(w, "Result: %v\n", result)
	}
}

func orderColumns(data []map[string]interface{}, fieldOrder []string) []string {
	columnSet := make(map[string]bool)
	for _, row := range data {
		for col := range row {
			columnSet[col] = true
		}
	}

	columns := make([]string, 0, len(columnSet))
	for _, field := range fieldOrder {
		if columnSet[field] {
			columns = append(columns, field)
			delete(columnSet, field)
		}
	}
	rest := make([]string, 0, len(columnSet))
	for col := range columnSet {
		rest = append(rest, col)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

// columnAlign 数值列右对齐，其余左对齐
func columnAlign(data []map[string]interface{}, col string) tabulate.Align {
	for _, row := range data {
		switch row[col].(type) {
		case nil:
			continue
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return tabulate.MR
		default:
			return tabulate.ML
		}
	}
	return tabulate.ML
}
