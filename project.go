package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/vyPal/exprtree/lib/config"
	"github.com/vyPal/exprtree/util"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:      "init",
		Usage:     "Write an " + config.FileName + " with the default settings",
		ArgsUsage: "[directory]",
		Category:  "config",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file without asking",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Accept the defaults instead of prompting for each setting",
			},
		},
		Action: initConfig,
	})
}

func initConfig(c *cli.Context) error {
	rootDir := c.Args().First()
	if rootDir == "" {
		rootDir = "."
	}

	conf := config.Default()
	if !c.Bool("yes") && !util.PromptYN("Use default configuration?", true) {
		conf.Server.Address = util.PromptString("Listen address", conf.Server.Address)
		conf.Parser.Engine = util.PromptString("Parser engine", conf.Parser.Engine)
		conf.Parser.Trailing = util.PromptString("Trailing tokens (error/ignore)", conf.Parser.Trailing)
		conf.Output.Format = util.PromptString("Output format", conf.Output.Format)

		size := util.PromptString("Result cache size", strconv.Itoa(conf.Server.CacheSize))
		n, err := strconv.Atoi(size)
		if err != nil {
			return fail("Error: cache size %q is not a number", size)
		}
		conf.Server.CacheSize = n
	}
	if err := conf.Validate(); err != nil {
		return fail("Error: %s", err)
	}

	path := filepath.Join(rootDir, config.FileName)
	saved, err := conf.Save(path, c.Bool("force"))
	if err != nil {
		return fail("Error: %s", err)
	}
	if !saved {
		color.New(color.FgYellow).Fprintln(c.App.Writer, "Kept existing file:", path)
		return nil
	}
	fmt.Fprintln(c.App.Writer, "Created file:", path)
	return nil
}
