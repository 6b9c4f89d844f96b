package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jcgregorio/logger"
	"github.com/urfave/cli/v2"

	"github.com/vyPal/exprtree/lib/config"
	"github.com/vyPal/exprtree/lib/server"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:     "serve",
		Usage:    "Serve POST /parse over HTTP",
		Category: "service",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address, or a bare port number",
				EnvVars: []string{"PORT"},
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log rejected expressions",
			},
		},
		Action: serve,
	})
}

// serveConfig applies the serve flags on top of the config file.
func serveConfig(c *cli.Context) (config.Config, error) {
	conf, err := loadConfig(c)
	if err != nil {
		return conf, err
	}
	if c.IsSet("addr") {
		conf.Server.Address = listenAddress(c.String("addr"))
	}
	if c.Bool("debug") {
		conf.Server.Debug = true
	}
	return conf, nil
}

// listenAddress turns a bare port, as PORT usually holds, into ":port".
func listenAddress(addr string) string {
	if _, err := strconv.Atoi(addr); err != nil {
		return addr
	}
	return ":" + addr
}

func serve(c *cli.Context) error {
	conf, err := serveConfig(c)
	if err != nil {
		return fail("Error: %s", err)
	}

	log := logger.NewFromOptions(&logger.Options{
		SyncWriter:   os.Stderr,
		IncludeDebug: conf.Server.Debug,
	})
	srv, err := server.New(conf, log)
	if err != nil {
		return fail("Error: %s", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Errorf("%s", err)
		return fail("Error: %s", err)
	}
	return nil
}
