// Package loader reads content modules from disk. It is the only place
// that touches the filesystem on the way into the registry.
//
// A content root is a directory tree. Each .json/.jsonc/.yaml/.yml file is
// one module whose namespace is the file's directory (or the "namespace"
// field of a descriptor document); each .html/.htm file is a single-entry
// module keyed by its file stem.
package loader

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jorge-barreto/folio/internal/content"
	"github.com/jorge-barreto/folio/internal/logging"
)

// Options configures Load.
type Options struct {
	Ignore  []string // glob patterns matched against names and relative paths
	Workers int      // parse concurrency; 0 means NumCPU
}

// Load discovers and parses every content module under root. Modules come
// back in RelPath order. Per-file errors are collected and returned
// together, each prefixed with the file's relative path; when any file
// fails no modules are returned.
func Load(ctx context.Context, root string, opts *Options) ([]content.Module, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, root, opts.Ignore)
	if err != nil {
		return nil, fmt.Errorf("discovering content: %w", err)
	}
	logger.Debug("loader.discovered", "root", root, "files", len(files))

	modules, err := ParseAll(ctx, files, opts.Workers)
	if err != nil {
		return nil, err
	}
	logger.Debug("loader.parsed", "modules", len(modules))
	return modules, nil
}

// ParseAll parses files concurrently, preserving their order.
func ParseAll(ctx context.Context, files []File, workers int) ([]content.Module, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	modules := make([]content.Module, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := ParseFile(f)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", f.RelPath, err)
				return nil
			}
			modules[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return modules, nil
}
