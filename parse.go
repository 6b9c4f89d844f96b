package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/vyPal/exprtree/lib/analyzer"
	"github.com/vyPal/exprtree/lib/compiler"
	"github.com/vyPal/exprtree/lib/config"
	"github.com/vyPal/exprtree/lib/grammar"
	"github.com/vyPal/exprtree/lib/lexer"
	"github.com/vyPal/exprtree/lib/pipeline"
	"github.com/vyPal/exprtree/lib/render"
)

var inputFlag = &cli.StringFlag{
	Name:    "input-str",
	Aliases: []string{"s"},
	Usage:   "The expression to read, instead of the arguments or stdin",
}

var permissiveFlag = &cli.BoolFlag{
	Name:  "permissive",
	Usage: "Ignore tokens left over after a complete expression",
}

var engineFlag = &cli.StringFlag{
	Name:  "engine",
	Usage: "Parser engine: descent or grammar",
}

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "The path to the config file. Defaults to " + config.FileName,
}

func init() {
	commands = append(commands, &cli.Command{
		Name:      "parse",
		Usage:     "Print the parse tree and AST of an expression",
		ArgsUsage: "[expression]",
		Category:  "trees",
		Flags: []cli.Flag{
			inputFlag,
			configFlag,
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, yaml or tree",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
			permissiveFlag,
			engineFlag,
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "Print node counts and depth instead of the trees",
			},
			&cli.BoolFlag{
				Name: "ebnf",
				Usage: "Print the EBNF of the grammar engine. " +
					"Useful for debugging the parser.",
			},
		},
		Action: parseAction,
	}, &cli.Command{
		Name:      "tokens",
		Usage:     "Print the tokens of an expression",
		ArgsUsage: "[expression]",
		Category:  "trees",
		Flags: []cli.Flag{
			inputFlag,
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: json or text",
			},
		},
		Action: tokensAction,
	}, &cli.Command{
		Name:      "ir",
		Usage:     "Compile an expression to LLVM IR",
		ArgsUsage: "[expression]",
		Category:  "trees",
		Flags: []cli.Flag{
			inputFlag,
			configFlag,
			permissiveFlag,
			engineFlag,
			&cli.StringFlag{
				Name:  "name",
				Value: compiler.DefaultFuncName,
				Usage: "The name of the generated function",
			},
		},
		Action: irAction,
	})
}

// parseConfig applies the parse and ir command flags on top of the config
// file.
func parseConfig(c *cli.Context) (config.Config, error) {
	conf, err := loadConfig(c)
	if err != nil {
		return conf, err
	}
	if c.IsSet("format") {
		conf.Output.Format = c.String("format")
	}
	if c.IsSet("engine") {
		conf.Parser.Engine = c.String("engine")
	}
	if c.Bool("permissive") {
		conf.Parser.Trailing = config.TrailingIgnore
	}
	return conf, conf.Validate()
}

func parseAction(c *cli.Context) error {
	if c.Bool("ebnf") {
		fmt.Fprintln(c.App.Writer, grammar.EBNF())
		return nil
	}

	conf, err := parseConfig(c)
	if err != nil {
		return fail("Error: %s", err)
	}
	expr, err := readExpression(c)
	if err != nil {
		return fail("Error reading expression: %s", err)
	}

	res, err := pipeline.RunWith(conf.Parser.Engine, expr, conf.ParserOptions()...)
	if err != nil {
		return fail("Error: %s", err)
	}

	var out io.Writer = c.App.Writer
	if path := c.String("output"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fail("Error creating output file: %s", err)
		}
		defer file.Close()
		out = file
	}

	var v interface{} = res
	format := conf.Output.Format
	if c.Bool("summary") {
		v = analyzer.Analyze(res.AST)
		if format == "tree" {
			format = "yaml"
		}
	}
	if err := render.Write(out, format, v); err != nil {
		return fail("Error writing output: %s", err)
	}
	return nil
}

func tokensAction(c *cli.Context) error {
	expr, err := readExpression(c)
	if err != nil {
		return fail("Error reading expression: %s", err)
	}
	tokens, err := lexer.Tokenize(expr)
	if err != nil {
		return fail("Error: %s", err)
	}

	switch c.String("format") {
	case "json":
		return render.Write(c.App.Writer, "json", tokens)
	case "text":
		for _, tok := range tokens {
			fmt.Fprintf(c.App.Writer, "%d\t%s\n", tok.Pos, tok)
		}
		return nil
	default:
		return fail("Error: unknown format %q, want json or text", c.String("format"))
	}
}

func irAction(c *cli.Context) error {
	conf, err := parseConfig(c)
	if err != nil {
		return fail("Error: %s", err)
	}
	expr, err := readExpression(c)
	if err != nil {
		return fail("Error reading expression: %s", err)
	}
	res, err := pipeline.RunWith(conf.Parser.Engine, expr, conf.ParserOptions()...)
	if err != nil {
		return fail("Error: %s", err)
	}

	mod, err := compiler.Compile(res.AST, c.String("name"))
	if err != nil {
		return fail("Error compiling: %s", err)
	}
	fmt.Fprint(c.App.Writer, mod.String())
	return nil
}
