package registry

import (
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"

	"github.com/jorge-barreto/folio/internal/content"
)

// maxSuggestDistance bounds "did you mean" suggestions.
const maxSuggestDistance = 2

// Result is the outcome of a query. Exactly one of Entry and NotFound is
// set.
type Result struct {
	// Requested is the namespace the caller asked for.
	Requested content.Path

	// Entry is the matched entry, shared with the registry.
	Entry *content.Entry

	// Via is the namespace the entry was found in. It differs from
	// Requested when ancestor fallback served the query.
	Via content.Path

	NotFound *NotFound
}

// Found reports whether the query matched an entry.
func (r Result) Found() bool { return r.Entry != nil }

// Fallback reports whether the match came from an ancestor namespace.
func (r Result) Fallback() bool {
	return r.Entry != nil && !r.Via.Equal(r.Requested)
}

// NotFound describes a query that matched nothing at any ancestor level. It
// is an ordinary outcome, not an error.
type NotFound struct {
	Namespace content.Path
	Key       string

	// Nearest is the deepest prefix of Namespace that exists in the
	// registry. It is the root when nothing else matches.
	Nearest content.Path

	// Suggestion is the closest key in Namespace within edit distance 2,
	// or "" when there is none. It is for tooling only.
	Suggestion string
}

func (n *NotFound) String() string {
	var b strings.Builder
	b.WriteString("topic ")
	b.WriteString(quote(content.Composite(n.Namespace, n.Key)))
	b.WriteString(" not found")
	if len(n.Nearest) > 0 {
		b.WriteString("; nearest namespace is ")
		b.WriteString(quote(n.Nearest.String()))
	}
	if n.Suggestion != "" {
		b.WriteString("; did you mean ")
		b.WriteString(quote(content.Composite(n.Namespace, n.Suggestion)))
		b.WriteString("?")
	}
	return b.String()
}

func quote(s string) string { return `"` + s + `"` }

// Resolve answers a query against reg. See (*Registry).Resolve.
func Resolve(reg *Registry, ns content.Path, key string) Result {
	return reg.Resolve(ns, key)
}

// Resolve looks up key in ns, then in each ancestor of ns from the most to
// the least specific, and returns the first match. With no match anywhere it
// returns a NotFound carrying the original query.
func (r *Registry) Resolve(ns content.Path, key string) Result {
	res := Result{Requested: ns}
	if e, ok := r.Lookup(ns, key); ok {
		res.Entry = e
		res.Via = e.Namespace
		return res
	}
	for _, anc := range ns.Ancestors() {
		if e, ok := r.Lookup(anc, key); ok {
			res.Entry = e
			res.Via = e.Namespace
			return res
		}
	}
	res.NotFound = &NotFound{
		Namespace:  ns.Clone(),
		Key:        key,
		Nearest:    r.nearest(ns),
		Suggestion: r.suggest(ns, key),
	}
	return res
}

// suggest returns the key in ns closest to key, if within
// maxSuggestDistance. Keys are sorted, so ties go to the lexicographically
// smaller key.
func (r *Registry) suggest(ns content.Path, key string) string {
	best := ""
	bestDistance := maxSuggestDistance + 1
	keyLen := utf8.RuneCountInString(key)
	for _, candidate := range r.keys[ns.String()] {
		if abs(utf8.RuneCountInString(candidate)-keyLen) > maxSuggestDistance {
			continue
		}
		d := levenshtein.Distance(key, candidate, nil)
		if d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ParseRef splits "temas/cicd/herramientas-cicd" into namespace
// "temas/cicd" and key "herramientas-cicd". A ref without slashes is a
// root-level key.
func ParseRef(ref string) (content.Path, string) {
	p := content.ParsePath(ref)
	if len(p) == 0 {
		return nil, ""
	}
	return p[: len(p)-1 : len(p)-1], p[len(p)-1]
}
