package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/vyPal/exprtree/lib/config"
)

var commands []*cli.Command

func newApp() *cli.App {
	return &cli.App{
		Name:                   "exprtree",
		Usage:                  "Turn arithmetic expressions into parse trees and ASTs",
		EnableBashCompletion:   true,
		UseShortOptionHandling: true,
		Commands:               commands,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the file named by --config, falling back to
// exprtree.yaml in the working directory.
func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.Find(".")
}

// readExpression takes the expression from --input-str, then the
// positional arguments, then stdin.
func readExpression(c *cli.Context) (string, error) {
	if c.IsSet("input-str") {
		return c.String("input-str"), nil
	}
	if c.Args().Present() {
		return strings.Join(c.Args().Slice(), " "), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

func fail(format string, args ...interface{}) error {
	return cli.Exit(color.RedString(format, args...), 1)
}
