// Package integrity validates a built registry before it is published.
//
// Check does not trust the builder. It re-derives every invariant from the
// registry's entries, so a registry that reached it by another route
// (a decoded snapshot, FromEntries in a test) gets the same scrutiny.
// Cross-reference checking is delegated to a LinkExtractor; HTMLLinks is
// the one folio ships.
package integrity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jorge-barreto/folio/internal/content"
	"github.com/jorge-barreto/folio/internal/registry"
)

// Options configures a check.
type Options struct {
	// Extractor finds cross-references in entry bodies. Nil disables link
	// checking.
	Extractor LinkExtractor

	// Strict promotes every warning to an error.
	Strict bool
}

// Check validates reg and returns a sorted report.
func Check(reg *registry.Registry, opts Options) *Report {
	entries := reg.Entries()
	r := &Report{}

	checkEntries(r, entries)
	checkDuplicates(r, entries)
	checkLeafPrefix(r, entries)
	checkCaseCollisions(r, entries)
	if opts.Extractor != nil {
		checkLinks(r, reg, entries, opts.Extractor)
	}

	if opts.Strict {
		for i := range r.Findings {
			r.Findings[i].Severity = SeverityError
		}
	}
	r.Sort()
	return r
}

func checkEntries(r *Report, entries []*content.Entry) {
	for _, e := range entries {
		if err := e.Namespace.Validate(); err != nil {
			r.add(SeverityError, e, err.Error())
		}
		if err := content.ValidateSegment(e.Key, "key"); err != nil {
			r.add(SeverityError, e, err.Error())
		}
		if content.IsBlank(e.Body) {
			r.add(SeverityError, e, "body is empty")
		}
	}
}

// checkDuplicates relies on Entries being sorted by composite.
func checkDuplicates(r *Report, entries []*content.Entry) {
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if prev.Composite() == cur.Composite() {
			r.add(SeverityError, cur, fmt.Sprintf("duplicate key: also defined by %s", prev.SourceRef))
		}
	}
}

func checkLeafPrefix(r *Report, entries []*content.Entry) {
	prefixes := make(map[string]*content.Entry)
	for _, e := range entries {
		for _, p := range e.Namespace.Prefixes() {
			if _, ok := prefixes[p.String()]; !ok {
				prefixes[p.String()] = e
			}
		}
	}
	for _, e := range entries {
		if user, ok := prefixes[e.Composite()]; ok {
			r.add(SeverityError, e, fmt.Sprintf("key is also a namespace (used by %s)", user.SourceRef))
		}
	}
}

// checkCaseCollisions warns about keys in one namespace that differ only by
// letter case. Keys are case-sensitive, but such pairs break on
// case-insensitive filesystems and confuse authors.
func checkCaseCollisions(r *Report, entries []*content.Entry) {
	seen := make(map[string]*content.Entry)
	for _, e := range entries {
		folded := strings.ToLower(e.Composite())
		if other, ok := seen[folded]; ok && other.Composite() != e.Composite() {
			r.add(SeverityWarning, e, fmt.Sprintf("key differs only in case from %q (%s)", other.Composite(), other.SourceRef))
			continue
		}
		seen[folded] = e
	}
}

func checkLinks(r *Report, reg *registry.Registry, entries []*content.Entry, x LinkExtractor) {
	for _, e := range entries {
		links, err := x.Extract(e)
		if err != nil {
			r.add(SeverityWarning, e, fmt.Sprintf("link extraction failed: %v", err))
			continue
		}
		sort.SliceStable(links, func(i, j int) bool { return links[i].Raw < links[j].Raw })
		for _, l := range links {
			res := reg.Resolve(l.Namespace, l.Key)
			switch {
			case res.Found() && !res.Fallback():
			case res.Found():
				r.add(SeverityWarning, e, fmt.Sprintf("link %q resolves only through fallback to %q",
					l.Raw, res.Entry.Composite()))
			default:
				msg := fmt.Sprintf("dangling link %q", l.Raw)
				if s := res.NotFound.Suggestion; s != "" {
					msg += fmt.Sprintf(" (did you mean %q?)", content.Composite(l.Namespace, s))
				}
				r.add(SeverityError, e, msg)
			}
		}
	}
}
