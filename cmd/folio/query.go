package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jorge-barreto/folio/internal/content"
	"github.com/jorge-barreto/folio/internal/registry"
	"github.com/jorge-barreto/folio/internal/ux"
	cli "github.com/urfave/cli/v3"
)

func snapshotFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "snapshot", Usage: "Read from this snapshot instead of building"}
}

func resolveCmd() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Print the body of a topic",
		ArgsUsage: "<namespace/key>",
		Flags:     []cli.Flag{snapshotFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref := cmd.Args().First()
			if ref == "" {
				return fmt.Errorf("ref argument is required")
			}
			ctx, cfg, err := loadProject(ctx, cmd)
			if err != nil {
				return err
			}
			reg, err := loadRegistry(ctx, cfg, cmd.String("snapshot"))
			if err != nil {
				return err
			}

			ns, key := registry.ParseRef(ref)
			res := reg.Resolve(ns, key)
			if !res.Found() {
				ux.RenderNotFound(os.Stderr, res.NotFound)
				return exitError{code: 1}
			}
			ux.RenderResolved(os.Stderr, res)
			fmt.Print(res.Entry.Body)
			if !strings.HasSuffix(res.Entry.Body, "\n") {
				fmt.Println()
			}
			return nil
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List topics and child namespaces",
		ArgsUsage: "[namespace]",
		Flags:     []cli.Flag{snapshotFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cfg, err := loadProject(ctx, cmd)
			if err != nil {
				return err
			}
			reg, err := loadRegistry(ctx, cfg, cmd.String("snapshot"))
			if err != nil {
				return err
			}

			ns := content.ParsePath(cmd.Args().First())
			if !reg.HasNamespace(ns) {
				return fmt.Errorf("namespace %q does not exist", ns.String())
			}
			ux.RenderListing(os.Stdout, reg, ns)
			return nil
		},
	}
}
