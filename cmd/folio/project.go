package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jorge-barreto/folio/internal/config"
	"github.com/jorge-barreto/folio/internal/content"
	"github.com/jorge-barreto/folio/internal/integrity"
	"github.com/jorge-barreto/folio/internal/loader"
	"github.com/jorge-barreto/folio/internal/logging"
	"github.com/jorge-barreto/folio/internal/pipeline"
	"github.com/jorge-barreto/folio/internal/registry"
	"github.com/jorge-barreto/folio/internal/snapshot"
	"github.com/jorge-barreto/folio/internal/ux"
	cli "github.com/urfave/cli/v3"
)

// loadProject finds and loads the config, then attaches a logger to ctx.
func loadProject(ctx context.Context, cmd *cli.Command) (context.Context, *config.Config, error) {
	var root, path string
	if p := cmd.String("config"); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return ctx, nil, err
		}
		path = abs
		root = filepath.Dir(abs)
		if filepath.Base(root) == config.Dir {
			root = filepath.Dir(root)
		}
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return ctx, nil, err
		}
		root, err = config.FindProjectRoot(cwd)
		if err != nil {
			return ctx, nil, err
		}
		path = config.Path(root)
	}

	cfg, err := config.Load(path, root)
	if err != nil {
		return ctx, nil, fmt.Errorf("loading config: %w", err)
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if v := cmd.String("log-level"); v != "" {
		level = v
	}
	if v := cmd.String("log-format"); v != "" {
		format = v
	}
	logger := logging.New(level, format, os.Stderr)
	return logging.WithLogger(ctx, logger), cfg, nil
}

func gatherFor(cfg *config.Config) pipeline.GatherFunc {
	return func(ctx context.Context) ([]content.Module, error) {
		return loader.Load(ctx, cfg.ContentPath(), &loader.Options{
			Ignore:  cfg.Ignore,
			Workers: cfg.Workers,
		})
	}
}

func checkOptions(cfg *config.Config) integrity.Options {
	return integrity.Options{
		Extractor: integrity.HTMLLinks{Prefix: cfg.Links.Prefix},
		Strict:    cfg.Strict,
	}
}

func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Parallel: cfg.Parallel,
		Workers:  cfg.Workers,
		Check:    checkOptions(cfg),
	}
}

// loadRegistry returns a checked registry, either from a snapshot or by
// building the content tree. Diagnostics go to stderr.
func loadRegistry(ctx context.Context, cfg *config.Config, snapshotPath string) (*registry.Registry, error) {
	if snapshotPath != "" {
		reg, err := snapshot.Load(snapshotPath)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot: %w", err)
		}
		report := integrity.Check(reg, checkOptions(cfg))
		if report.HasErrors() {
			ux.RenderReport(os.Stderr, report)
			errs, _ := report.Counts()
			return nil, fmt.Errorf("snapshot %s failed integrity check with %d errors", snapshotPath, errs)
		}
		return reg, nil
	}

	out := pipeline.Run(ctx, gatherFor(cfg), pipelineOptions(cfg))
	if !out.Published() {
		ux.RenderReport(os.Stderr, out.Report)
		errs, _ := out.Report.Counts()
		return nil, fmt.Errorf("content rejected with %d errors; run 'folio check' for details", errs)
	}
	return out.Registry, nil
}
