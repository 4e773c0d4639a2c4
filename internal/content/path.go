package content

import (
	"fmt"
	"strings"
)

// Separator joins namespace segments and keys in composite strings. It is
// never allowed inside a segment or key.
const Separator = "/"

// allowedChars is the set of bytes permitted in namespace segments and keys:
// ASCII letters, digits, hyphen and underscore. Anything else is unsafe as a
// URL path segment.
var allowedChars [256]bool

func init() {
	for c := byte('a'); c <= 'z'; c++ {
		allowedChars[c] = true
	}
	for c := byte('A'); c <= 'Z'; c++ {
		allowedChars[c] = true
	}
	for c := byte('0'); c <= '9'; c++ {
		allowedChars[c] = true
	}
	allowedChars['-'] = true
	allowedChars['_'] = true
}

// Path is a namespace: an ordered list of segments. The zero value is the
// root namespace.
type Path []string

// ParsePath splits a slash-separated namespace. Leading and trailing slashes
// are ignored, so "", "/" and "temas/" are all accepted. Empty inner segments
// ("a//b") are kept so that validation can report them.
func ParsePath(s string) Path {
	s = strings.Trim(s, Separator)
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, Separator))
}

// String returns the slash-joined namespace; the root namespace is "".
func (p Path) String() string {
	return strings.Join(p, Separator)
}

// IsRoot reports whether p is the empty namespace.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Parent returns the namespace one level up. The parent of the root is the
// root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[: len(p)-1 : len(p)-1]
}

// Ancestors returns the strict ancestors of p from most to least specific,
// ending with the root namespace. The root has no ancestors.
func (p Path) Ancestors() []Path {
	out := make([]Path, 0, len(p))
	for i := len(p) - 1; i >= 0; i-- {
		out = append(out, p[:i:i])
	}
	return out
}

// Prefixes returns every non-empty prefix of p, shortest first, including p
// itself.
func (p Path) Prefixes() []Path {
	out := make([]Path, 0, len(p))
	for i := 1; i <= len(p); i++ {
		out = append(out, p[:i:i])
	}
	return out
}

// Child returns a new path with seg appended. p is not modified.
func (p Path) Child(seg string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Equal reports whether p and q have identical segments.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether q is a (non-strict) prefix of p.
func (p Path) HasPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	return p[:len(q)].Equal(q)
}

// Clone returns a copy of p that shares no memory with it.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Composite joins a namespace and key into the flat lookup string used by
// the registry, e.g. "temas/cicd/herramientas-cicd". A root-level key is its
// own composite.
func Composite(ns Path, key string) string {
	if len(ns) == 0 {
		return key
	}
	return ns.String() + Separator + key
}

// ValidateSegment checks a single namespace segment or key against the
// allowed charset. label names the thing being checked in the message.
func ValidateSegment(s, label string) error {
	if s == "" {
		return fmt.Errorf("%s is empty", label)
	}
	for i := 0; i < len(s); i++ {
		if !allowedChars[s[i]] {
			return fmt.Errorf("%s %q: invalid character %q at position %d (allowed: A-Z, a-z, 0-9, -, _)", label, s, s[i], i)
		}
	}
	return nil
}

// Validate checks every segment of p.
func (p Path) Validate() error {
	for i, seg := range p {
		if err := ValidateSegment(seg, fmt.Sprintf("namespace segment %d", i+1)); err != nil {
			return err
		}
	}
	return nil
}
