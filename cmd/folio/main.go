package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jorge-barreto/folio/internal/docs"
	"github.com/jorge-barreto/folio/internal/scaffold"
	"github.com/jorge-barreto/folio/internal/ux"
	cli "github.com/urfave/cli/v3"
)

const version = "0.1.0"

// exitError ends the process with a status code and no message. Commands
// use it after they have already printed their own diagnostics.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	app := &cli.Command{
		Name:        "folio",
		Usage:       "Collision-safe content registry for documentation topics",
		Description: "Run 'folio docs' for documentation on content formats, resolution, and checks.",
		Version:     version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Path to config.yaml (default: search upward for .folio/config.yaml)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn, or error (overrides config)"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json (overrides config)"},
		},
		Commands: []*cli.Command{
			initCmd(),
			buildCmd(),
			checkCmd(),
			resolveCmd(),
			listCmd(),
			serveCmd(),
			docsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new .folio/ directory with example content",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir, os.Stdout)
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'folio docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}
