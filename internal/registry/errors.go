package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jorge-barreto/folio/internal/content"
)

// DuplicateKeyError reports two modules defining the same (namespace, key).
// First is the module seen earlier in input order.
type DuplicateKeyError struct {
	Namespace content.Path
	Key       string
	First     string
	Second    string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q in namespace %q: defined by both %s and %s",
		e.Key, e.Namespace.String(), e.First, e.Second)
}

// EmptyContentError reports a key whose body is empty or whitespace-only.
type EmptyContentError struct {
	Namespace content.Path
	Key       string
	SourceRef string
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("empty content for key %q in namespace %q (%s)",
		e.Key, e.Namespace.String(), e.SourceRef)
}

// Reasons carried by InvalidNamespaceError.
const (
	ReasonBadSegment          = "bad-segment"
	ReasonBadKey              = "bad-key"
	ReasonLeafPrefixCollision = "leaf-prefix-collision"
)

// InvalidNamespaceError reports a segment or key outside the allowed
// charset, or a key that is simultaneously a leaf and a namespace prefix.
type InvalidNamespaceError struct {
	Namespace content.Path
	Key       string
	SourceRef string
	Reason    string
	Detail    string
}

func (e *InvalidNamespaceError) Error() string {
	at := e.Namespace.String()
	if e.Key != "" {
		at = content.Composite(e.Namespace, e.Key)
	}
	return fmt.Sprintf("invalid namespace at %q (%s): %s", at, e.SourceRef, e.Detail)
}

// BuildErrors is the batch returned by Build. It is never empty when
// returned as an error.
type BuildErrors []error

func (b BuildErrors) Error() string {
	if len(b) == 1 {
		return b[0].Error()
	}
	msgs := make([]string, len(b))
	for i, err := range b {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d build errors:\n  %s", len(b), strings.Join(msgs, "\n  "))
}

// Unwrap exposes every error to errors.Is and errors.As.
func (b BuildErrors) Unwrap() []error {
	return b
}

// errorSite returns the sort key for a build error.
func errorSite(err error) (string, int) {
	switch e := err.(type) {
	case *DuplicateKeyError:
		return content.Composite(e.Namespace, e.Key), 0
	case *EmptyContentError:
		return content.Composite(e.Namespace, e.Key), 1
	case *InvalidNamespaceError:
		return content.Composite(e.Namespace, e.Key), 2
	}
	return err.Error(), 3
}

// sortErrors orders errors by (composite, kind) so the batch does not depend
// on map iteration or discovery order.
func sortErrors(errs []error) {
	sort.SliceStable(errs, func(i, j int) bool {
		si, ki := errorSite(errs[i])
		sj, kj := errorSite(errs[j])
		if si != sj {
			return si < sj
		}
		return ki < kj
	})
}
