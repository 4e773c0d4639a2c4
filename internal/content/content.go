// Package content defines the values that flow into the registry: entries,
// modules, and the namespace paths that place them in the topic tree.
//
// A Module is what an author produces (one file's worth of topic slugs mapped
// to markup). An Entry is one normalized (namespace, key, body) triple. The
// registry package consumes modules and only ever hands out entries.
package content

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// Entry is a single topic in the registry.
type Entry struct {
	Namespace Path   // where the topic lives; nil for top-level topics
	Key       string // slug, unique within Namespace, case-sensitive
	Body      string // raw markup, never parsed by the registry
	SourceRef string // originating module, for diagnostics only
}

// Composite returns the flat lookup string for the entry.
func (e *Entry) Composite() string {
	return Composite(e.Namespace, e.Key)
}

// Fingerprint is an xxh3 digest of the composite key and body. Two entries
// with the same address and content have the same fingerprint regardless of
// where they came from.
func (e *Entry) Fingerprint() string {
	h := xxh3.New()
	h.WriteString(e.Composite())
	h.WriteString("\x00")
	h.WriteString(e.Body)
	return fmt.Sprintf("%016x", h.Sum64())
}

// IsBlank reports whether body is empty or whitespace-only.
func IsBlank(body string) bool {
	return strings.TrimSpace(body) == ""
}

// Module is one author-provided dictionary of topics under a single
// namespace.
type Module struct {
	Namespace Path
	Entries   map[string]string
	SourceRef string
}

// Keys returns the module's keys in sorted order. Map iteration order is
// random; everything that reports on a module walks it through Keys.
func (m Module) Keys() []string {
	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Normalize expands the module into entries, sorted by key. No validation is
// performed; that is the builder's job.
func (m Module) Normalize() []Entry {
	keys := m.Keys()
	out := make([]Entry, 0, len(keys))
	ns := m.Namespace.Clone()
	for _, k := range keys {
		out = append(out, Entry{
			Namespace: ns,
			Key:       k,
			Body:      m.Entries[k],
			SourceRef: m.SourceRef,
		})
	}
	return out
}

// NewModule is a convenience constructor taking a slash-separated namespace.
func NewModule(namespace, sourceRef string, entries map[string]string) Module {
	return Module{
		Namespace: ParsePath(namespace),
		Entries:   entries,
		SourceRef: sourceRef,
	}
}
