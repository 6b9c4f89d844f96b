// Package render writes parse results in the formats the CLI offers.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/vyPal/exprtree/lib/ast"
	"github.com/vyPal/exprtree/lib/parser"
)

// Formats lists the accepted format names.
var Formats = []string{"json", "yaml", "tree"}

var (
	kindColor  = color.New(color.FgCyan, color.Bold)
	valueColor = color.New(color.FgYellow)
	titleColor = color.New(color.FgGreen, color.Bold)
)

// Write encodes v in format. The tree format is only defined for
// parse trees, ASTs and values with ParseTree and AST fields.
func Write(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "tree":
		return writeTree(w, v)
	default:
		return fmt.Errorf("unknown format %q, want one of %s", format, strings.Join(Formats, ", "))
	}
}

// Trees is anything carrying both trees, such as *pipeline.Result.
type Trees interface {
	Trees() (parser.Node, ast.Node)
}

func writeTree(w io.Writer, v interface{}) error {
	switch v := v.(type) {
	case parser.Node:
		return printItem(w, fromParse(v))
	case ast.Node:
		return printItem(w, fromAST(v))
	case Trees:
		pt, a := v.Trees()
		if _, err := titleColor.Fprintln(w, "Parse tree"); err != nil {
			return err
		}
		if err := printItem(w, fromParse(pt)); err != nil {
			return err
		}
		if _, err := titleColor.Fprintln(w, "AST"); err != nil {
			return err
		}
		return printItem(w, fromAST(a))
	default:
		return fmt.Errorf("cannot draw %T as a tree", v)
	}
}

// item is one line of a drawn tree.
type item struct {
	kind     string
	value    string
	children []item
}

func fromParse(n parser.Node) item {
	switch n := n.(type) {
	case *parser.Number:
		return item{kind: "Number", value: n.Value}
	case *parser.BinaryExpression:
		return item{kind: "BinaryExpression", value: n.Operator, children: []item{fromParse(n.Left), fromParse(n.Right)}}
	case *parser.FunctionCall:
		it := item{kind: "FunctionCall", value: n.Name}
		for _, arg := range n.Arguments {
			it.children = append(it.children, fromParse(arg))
		}
		return it
	}
	return item{kind: "<nil>"}
}

func fromAST(n ast.Node) item {
	switch n := n.(type) {
	case *ast.Literal:
		return item{kind: "Literal", value: n.Value}
	case *ast.BinaryExpression:
		return item{kind: "BinaryExpression", value: n.Operator, children: []item{fromAST(n.Left), fromAST(n.Right)}}
	case *ast.FunctionCall:
		it := item{kind: "FunctionCall", value: n.Name}
		for _, arg := range n.Arguments {
			it.children = append(it.children, fromAST(arg))
		}
		return it
	}
	return item{kind: "<nil>"}
}

func printItem(w io.Writer, root item) error {
	var sb strings.Builder
	line(&sb, root, "", "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func line(sb *strings.Builder, it item, branch, indent string) {
	sb.WriteString(branch)
	sb.WriteString(kindColor.Sprint(it.kind))
	if it.value != "" {
		sb.WriteString(" ")
		sb.WriteString(valueColor.Sprint(it.value))
	}
	sb.WriteString("\n")
	for i, child := range it.children {
		if i == len(it.children)-1 {
			line(sb, child, indent+"└── ", indent+"    ")
		} else {
			line(sb, child, indent+"├── ", indent+"│   ")
		}
	}
}
