package integrity

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/jorge-barreto/folio/internal/content"
	"github.com/jorge-barreto/folio/internal/registry"
)

// Link is a cross-reference found in an entry body.
type Link struct {
	Namespace content.Path
	Key       string
	Raw       string // as written in the body
}

// LinkExtractor finds cross-references in an entry body. Implementations
// must not modify the entry.
type LinkExtractor interface {
	Extract(e *content.Entry) ([]Link, error)
}

// ExtractorFunc adapts a function to LinkExtractor.
type ExtractorFunc func(e *content.Entry) ([]Link, error)

func (f ExtractorFunc) Extract(e *content.Entry) ([]Link, error) { return f(e) }

// HTMLLinks extracts topic references from HTML fragments. It recognises
//
//	<a href="#/temas/cicd/herramientas-cicd">   (href starting with Prefix)
//	<span data-topic="sintaxis/tipos-escalares">
//
// A reference without any slash ("hooks") is relative to the entry's own
// namespace; anything with a slash ("/indice", "sintaxis/x") is absolute
// from the root.
type HTMLLinks struct {
	Prefix string
}

func (h HTMLLinks) Extract(e *content.Entry) ([]Link, error) {
	var links []Link
	z := html.NewTokenizer(strings.NewReader(e.Body))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return links, err
			}
			return links, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			isAnchor := bytes.Equal(name, []byte("a"))
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				switch {
				case isAnchor && bytes.Equal(key, []byte("href")) && h.Prefix != "":
					ref := string(val)
					if strings.HasPrefix(ref, h.Prefix) {
						links = append(links, h.link(e, strings.TrimPrefix(ref, h.Prefix), ref))
					}
				case bytes.Equal(key, []byte("data-topic")):
					links = append(links, h.link(e, string(val), string(val)))
				}
			}
		}
	}
}

func (h HTMLLinks) link(e *content.Entry, ref, raw string) Link {
	// Drop any in-page fragment after the topic ref.
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		ref = ref[:i]
	}
	if !strings.Contains(ref, "/") {
		return Link{Namespace: e.Namespace, Key: ref, Raw: raw}
	}
	ns, key := registry.ParseRef(ref)
	return Link{Namespace: ns, Key: key, Raw: raw}
}
