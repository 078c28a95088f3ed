package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/udfexample/spi"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DECIMAL '0'", "DECIMAL '0'"},
		{"add_one(DECIMAL '1.50')", "add_one(DECIMAL '1.50')"},
		{"ADD_ONE(1)", "add_one(1)"},
		{"add_one(CAST(0 AS DECIMAL(18,0)))", "add_one(CAST(0 AS decimal(18,0)))"},
		{"cast('2001-01-02 03:04:05.321 Europe/Berlin' as timestamp with time zone)", "CAST('2001-01-02 03:04:05.321 Europe/Berlin' AS timestamp(3) with time zone)"},
		{"cast('x' as timestamp(6) with time zone)", "CAST('x' AS timestamp(6) with time zone)"},
		{"-1.5", "-1.5"},
		{"'it''s'", "'it''s'"},
		{"now()", "now()"},
		{"f(1, 'a', DECIMAL '2')", "f(1, 'a', DECIMAL '2')"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			node, err := Parse(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.expected, String(node))
		})
	}
}

func TestParseCastType(t *testing.T) {
	node, err := Parse("CAST(0 AS DECIMAL(18,0))")
	require.NoError(t, err)
	c, ok := node.(*Cast)
	require.True(t, ok)
	assert.Equal(t, spi.MustDecimalType(18, 0), c.Target)
	assert.Equal(t, 0, c.Pos)
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"add_one(",
		"add_one(1,)",
		"add_one 1",
		"DECIMAL 1",
		"CAST(1 DECIMAL)",
		"CAST(1 AS )",
		"CAST(1 AS foo(1))",
		"1 2",
		"1.2.3",
		"#",
		")",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax), err.Error())
			var pe *ParseError
			assert.True(t, errors.As(err, &pe))
		})
	}
}

func TestParseDepthLimit(t *testing.T) {
	input := ""
	for i := 0; i < maxDepth+1; i++ {
		input += "-"
	}
	_, err := Parse(input + "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nested too deeply")
}
