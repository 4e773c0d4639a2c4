package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jorge-barreto/folio/internal/integrity"
	"github.com/jorge-barreto/folio/internal/pipeline"
	"github.com/jorge-barreto/folio/internal/snapshot"
	"github.com/jorge-barreto/folio/internal/ux"
	cli "github.com/urfave/cli/v3"
)

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build and check the registry, then write a snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "snapshot", Usage: "Snapshot path (overrides config; '-' disables)"},
			&cli.BoolFlag{Name: "parallel", Usage: "Use the parallel builder"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cfg, err := loadProject(ctx, cmd)
			if err != nil {
				return err
			}

			opts := pipelineOptions(cfg)
			if cmd.Bool("parallel") {
				opts.Parallel = true
			}
			out := pipeline.Run(ctx, gatherFor(cfg), opts)
			ux.RenderOutcome(os.Stdout, "folio build", out)

			if !out.Published() {
				if out.Err != nil {
					return out.Err
				}
				return exitError{code: out.Report.ExitCode()}
			}

			path := cfg.SnapshotPath()
			switch v := cmd.String("snapshot"); v {
			case "":
			case "-":
				path = ""
			default:
				path = v
			}
			if path == "" {
				return nil
			}
			if err := snapshot.Save(path, out.Registry); err != nil {
				return fmt.Errorf("writing snapshot: %w", err)
			}
			fmt.Printf("  %sSnapshot:%s %s\n\n", ux.Bold, ux.Reset, path)
			return nil
		},
	}
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Print the integrity report for the content tree or a snapshot",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print findings as JSON records"},
			&cli.StringFlag{Name: "snapshot", Usage: "Check this snapshot instead of building"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cfg, err := loadProject(ctx, cmd)
			if err != nil {
				return err
			}

			var report *integrity.Report
			if path := cmd.String("snapshot"); path != "" {
				reg, err := snapshot.Load(path)
				if err != nil {
					return fmt.Errorf("loading snapshot: %w", err)
				}
				report = integrity.Check(reg, checkOptions(cfg))
			} else {
				out := pipeline.Run(ctx, gatherFor(cfg), pipelineOptions(cfg))
				report = out.Report
			}

			if cmd.Bool("json") {
				data, err := report.JSON()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			} else {
				ux.RenderReport(os.Stdout, report)
				errs, warns := report.Counts()
				fmt.Printf("\n  %d errors, %d warnings\n", errs, warns)
			}
			if code := report.ExitCode(); code != 0 {
				return exitError{code: code}
			}
			return nil
		},
	}
}
