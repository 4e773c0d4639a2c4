// Package docs holds folio's built-in help. The topics are shipped as an
// ordinary content module and looked up through a registry, so `folio docs`
// exercises the same resolution path as user content.
package docs

import (
	"fmt"
	"sync"

	"github.com/jorge-barreto/folio/internal/content"
	"github.com/jorge-barreto/folio/internal/registry"
)

// Namespace is where the help topics live.
const Namespace = "folio"

// SourceRef names the built-in module in diagnostics.
const SourceRef = "builtin:docs"

// Topic holds a single documentation article.
type Topic struct {
	Name    string // short slug used as CLI argument
	Title   string // human-readable title
	Summary string // one-line description for topic listing
	Content string // full article text (plain text, no ANSI)
}

// All returns every topic in display order.
func All() []Topic {
	return topics
}

// Module returns the topics as a content module keyed by Name.
func Module() content.Module {
	entries := make(map[string]string, len(topics))
	for _, t := range topics {
		entries[t.Name] = t.Content
	}
	return content.NewModule(Namespace, SourceRef, entries)
}

var (
	regOnce sync.Once
	reg     *registry.Registry
	regErr  error
)

// Registry returns the help registry, built once.
func Registry() (*registry.Registry, error) {
	regOnce.Do(func() {
		reg, regErr = registry.Build([]content.Module{Module()})
	})
	return reg, regErr
}

// Get looks up a topic by name. Returns an error with a hint if not found.
func Get(name string) (Topic, error) {
	r, err := Registry()
	if err != nil {
		return Topic{}, fmt.Errorf("docs: %w", err)
	}
	res := r.Resolve(content.ParsePath(Namespace), name)
	if !res.Found() {
		if s := res.NotFound.Suggestion; s != "" {
			return Topic{}, fmt.Errorf("unknown topic %q (did you mean %q?); run 'folio docs' to list available topics", name, s)
		}
		return Topic{}, fmt.Errorf("unknown topic %q; run 'folio docs' to list available topics", name)
	}
	for _, t := range topics {
		if t.Name == res.Entry.Key {
			return t, nil
		}
	}
	return Topic{Name: res.Entry.Key, Title: res.Entry.Key, Content: res.Entry.Body}, nil
}
