package ux

import (
	"fmt"
	"io"

	"github.com/jorge-barreto/folio/internal/content"
	"github.com/jorge-barreto/folio/internal/registry"
)

// RenderListing prints the keys and child namespaces of ns.
func RenderListing(w io.Writer, reg *registry.Registry, ns content.Path) {
	label := ns.String()
	if ns.IsRoot() {
		label = "(root)"
	}
	fmt.Fprintf(w, "%sNamespace:%s %s\n", Bold, Reset, label)

	children := reg.Children(ns)
	if len(children) > 0 {
		fmt.Fprintf(w, "\n%sNamespaces:%s\n", Bold, Reset)
		for _, c := range children {
			fmt.Fprintf(w, "  %s%s/%s  %s%d topics%s\n",
				Cyan, c[len(c)-1], Reset, Dim, len(reg.Keys(c)), Reset)
		}
	}

	keys := reg.Keys(ns)
	fmt.Fprintf(w, "\n%sTopics:%s\n", Bold, Reset)
	if len(keys) == 0 {
		fmt.Fprintf(w, "  %s(none)%s\n", Dim, Reset)
	}
	for _, k := range keys {
		e, _ := reg.Lookup(ns, k)
		fmt.Fprintf(w, "  %-32s %s%s%s\n", k, Dim, e.SourceRef, Reset)
	}
	fmt.Fprintln(w)
}

// RenderResolved prints where a resolved topic came from. The body itself
// goes to stdout unadorned so it can be piped.
func RenderResolved(w io.Writer, res registry.Result) {
	if res.Fallback() {
		fmt.Fprintf(w, "%s↺ served from %q via ancestor fallback (%s)%s\n",
			Yellow, res.Entry.Composite(), res.Entry.SourceRef, Reset)
		return
	}
	fmt.Fprintf(w, "%s%s (%s)%s\n", Dim, res.Entry.Composite(), res.Entry.SourceRef, Reset)
}

// RenderNotFound prints a not-found result with its hints.
func RenderNotFound(w io.Writer, nf *registry.NotFound) {
	fmt.Fprintf(w, "%s✗ topic %q not found%s\n", Red, content.Composite(nf.Namespace, nf.Key), Reset)
	nearest := nf.Nearest.String()
	if nf.Nearest.IsRoot() {
		nearest = "(root)"
	}
	fmt.Fprintf(w, "  %snearest namespace:%s %s\n", Dim, Reset, nearest)
	if nf.Suggestion != "" {
		fmt.Fprintf(w, "  %sdid you mean:%s %s\n", Yellow, Reset, content.Composite(nf.Namespace, nf.Suggestion))
	}
}
