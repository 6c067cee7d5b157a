// Command contactd serves the contact form endpoints and inspects the
// security event log.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/electroredes/contactguard/pkg/config"
)

func main() {
	cmd := &cli.Command{
		Name:  "contactd",
		Usage: "contact form security pipeline",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "dotenv files to load before reading the environment",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, config.LoadEnv(cmd.StringSlice("env-file")...)
		},
		Commands: []*cli.Command{
			serveCommand(),
			checkCommand(),
			eventsCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "contactd:", err)
		os.Exit(1)
	}
}
