// Command udfexample evaluates SQL scalar expressions against the example
// function plugin.
//
//	udfexample "add_one(DECIMAL '1.50')" "yesterday(TIMESTAMP '2001-01-02 03:04:05.321 Europe/Berlin')"
//	udfexample -list
//	echo "add_one(CAST(0 AS DECIMAL(18,0)))" | udfexample
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/markkurossi/tabulate"

	"github.com/rulego/udfexample"
	"github.com/rulego/udfexample/example"
	"github.com/rulego/udfexample/logger"
	"github.com/rulego/udfexample/spi"
	"github.com/rulego/udfexample/utils/table"
)

func main() {
	list := flag.Bool("list", false, "list registered functions")
	tableFmt := flag.String("t", "uc", "table formatting style")
	exprLang := flag.Bool("expr", false, "evaluate arguments as expr-lang expressions")
	verbose := flag.Bool("v", false, "verbose (debug) logging")
	logLevel := flag.String("log", "warn", "log level: debug, info, warn, error, off")
	flag.Parse()
	log.SetFlags(0)

	program := os.Args[0]
	idx := strings.LastIndex(program, "/")
	if idx >= 0 {
		program = program[idx+1:]
	}

	style, err := table.ParseStyle(*tableFmt)
	if err != nil {
		log.Fatalf("%s: %s\n", program, err)
	}
	level, err := logger.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("%s: %s\n", program, err)
	}
	if *verbose {
		level = logger.DEBUG
	}

	engine := udfexample.New(udfexample.WithLogOutput(os.Stderr, level))
	if err := engine.InstallPlugin(example.FunctionsPlugin{}); err != nil {
		log.Fatalf("%s: %s\n", program, err)
	}

	if *list {
		engine.PrintFunctions(os.Stdout, style)
		return
	}

	expressions := flag.Args()
	if len(expressions) == 0 {
		expressions, err = readLines(os.Stdin)
		if err != nil {
			log.Fatalf("%s: %s\n", program, err)
		}
	}

	if !run(engine, expressions, *exprLang, os.Stdout, style) {
		os.Exit(1)
	}
}

// run 逐个求值并以表格输出结果，任一表达式失败时返回 false
func run(engine *udfexample.Engine, expressions []string, exprLang bool, w io.Writer, style tabulate.Style) bool {
	ok := true
	rows := make([]map[string]interface{}, 0, len(expressions))
	for _, expression := range expressions {
		row := map[string]interface{}{"expression": expression}
		evaluate := engine.Execute
		if exprLang {
			evaluate = func(s string) (spi.TypedValue, error) { return engine.Evaluate(s, nil) }
		}
		v, err := evaluate(expression)
		if err != nil {
			row["error"] = err.Error()
			ok = false
		} else {
			row["type"] = v.Type.Signature()
			row["value"] = v.String()
		}
		rows = append(rows, row)
	}
	table.FormatTableData(w, style, rows, []string{"expression", "type", "value", "error"})
	return ok
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		lines = append(lines, strings.TrimSuffix(line, ";"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read expressions: %w", err)
	}
	return lines, nil
}
