package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/yungbote/recipe-backend/internal/app"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML config file; environment variables override its values",
		Sources: cli.EnvVars("CONFIG_FILE"),
	}
}

func addrFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "addr",
		Usage: "Listen address (defaults to :$PORT)",
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the recipe API server",
		Flags:  []cli.Flag{configFlag(), addrFlag()},
		Action: serve,
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the database schema and exit",
		Flags: []cli.Flag{configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return app.Migrate(cmd.String("config"))
		},
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	a, err := app.New(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()
	return a.Run(ctx, cmd.String("addr"))
}

func main() {
	root := &cli.Command{
		Name:     "recipe-backend",
		Usage:    "Recipe management API",
		Flags:    []cli.Flag{configFlag(), addrFlag()},
		Commands: []*cli.Command{serveCmd(), migrateCmd()},
		Action:   serve,
	}
	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
