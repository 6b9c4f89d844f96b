package render

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vyPal/exprtree/lib/pipeline"
)

func init() {
	color.NoColor = true
}

func run(t *testing.T, expr string) *pipeline.Result {
	t.Helper()
	res, err := pipeline.Run(expr)
	require.NoError(t, err)
	return res
}

func TestWriteTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "tree", run(t, "max(1, 2*3) - 4").ParseTree))
	assert.Equal(t, `BinaryExpression -
├── FunctionCall max
│   ├── Number 1
│   └── BinaryExpression *
│       ├── Number 2
│       └── Number 3
└── Number 4
`, buf.String())
}

func TestWriteTreeResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "tree", run(t, "f()")))
	assert.Equal(t, "Parse tree\nFunctionCall f\nAST\nFunctionCall f\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, "tree", run(t, "7").AST))
	assert.Equal(t, "Literal 7\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", run(t, "1")))
	assert.Equal(t, `{
  "parseTree": {
    "type": "Number",
    "value": "1"
  },
  "ast": {
    "type": "Literal",
    "value": "1"
  }
}
`, buf.String())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "yaml", run(t, "1+2")))

	var got map[string]map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "BinaryExpression", got["parseTree"]["type"])
	assert.Equal(t, "+", got["ast"]["operator"])
	assert.Equal(t, map[string]interface{}{"type": "Literal", "value": "2"}, got["ast"]["right"])
}

func TestWriteErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.EqualError(t, Write(&buf, "xml", 1), `unknown format "xml", want one of json, yaml, tree`)
	assert.EqualError(t, Write(&buf, "tree", 1), "cannot draw int as a tree")
}
