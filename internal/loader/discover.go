package loader

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
}

// Kind identifies how a file is parsed.
type Kind string

const (
	KindJSON Kind = "json"
	KindYAML Kind = "yaml"
	KindHTML Kind = "html"
)

var kindByExt = map[string]Kind{
	".json":  KindJSON,
	".jsonc": KindJSON,
	".yaml":  KindYAML,
	".yml":   KindYAML,
	".html":  KindHTML,
	".htm":   KindHTML,
}

// KindForExtension maps a file extension (with dot) to its Kind.
func KindForExtension(ext string) (Kind, bool) {
	k, ok := kindByExt[strings.ToLower(ext)]
	return k, ok
}

// File is a discovered content module file.
type File struct {
	Path    string // absolute path
	RelPath string // slash-separated, relative to the content root
	Kind    Kind
	Size    int64
	ModTime int64 // unix nanos
}

func ignored(name, rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Discover walks root and returns every content module file, sorted by
// RelPath. Dot files and dot directories are skipped.
func Discover(ctx context.Context, root string, ignore []string) ([]File, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "discover", Path: root, Err: os.ErrInvalid}
	}

	var files []File
	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)
		name := info.Name()

		if info.IsDir() {
			if strings.HasPrefix(name, ".") || skipDirs[name] || ignored(name, rel, ignore) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || ignored(name, rel, ignore) {
			return nil
		}
		kind, ok := KindForExtension(filepath.Ext(name))
		if !ok {
			return nil
		}
		files = append(files, File{
			Path:    path,
			RelPath: rel,
			Kind:    kind,
			Size:    info.Size(),
			ModTime: info.ModTime().UnixNano(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}
