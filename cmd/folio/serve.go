package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jorge-barreto/folio/internal/logging"
	"github.com/jorge-barreto/folio/internal/pipeline"
	"github.com/jorge-barreto/folio/internal/serve"
	cli "github.com/urfave/cli/v3"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the registry as MCP tools over stdio, rebuilding on change",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-watch", Usage: "Do not poll the content directory"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cfg, err := loadProject(ctx, cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()
			logger := logging.FromContext(ctx)

			rebuild := func(ctx context.Context) *pipeline.Outcome {
				return pipeline.Run(ctx, gatherFor(cfg), pipelineOptions(cfg))
			}

			live := serve.NewLive(nil)
			if out := live.Rebuild(ctx, rebuild); !out.Published() {
				errs, _ := out.Report.Counts()
				logger.Warn("serve.initial_build_rejected", "errors", errs, "err", out.Err)
			}

			if !cmd.Bool("no-watch") {
				w := serve.NewWatcher(cfg.ContentPath(), live, rebuild)
				w.Ignore = cfg.Ignore
				w.MaxInterval = time.Duration(cfg.Watch.MaxInterval) * time.Second
				go w.Run(ctx)
			}

			srv := serve.NewServer(cfg.Name, version, live, rebuild, checkOptions(cfg))
			logger.Info("serve.started", "project", cfg.Name, "content", cfg.ContentPath())
			return srv.Run(ctx)
		},
	}
}
