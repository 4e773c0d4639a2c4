// Package snapshot stores a published registry on disk and reads it back.
//
// The encoding is CBOR with Core Deterministic Encoding, so the same
// registry always produces the same bytes. A decoded snapshot is rebuilt
// through registry.FromEntries, which skips the builder's checks; callers
// must run integrity.Check on it before serving.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"

	"github.com/jorge-barreto/folio/internal/content"
	"github.com/jorge-barreto/folio/internal/registry"
)

// Version is the current snapshot format.
const Version = 1

var (
	ErrVersion     = errors.New("snapshot: unsupported version")
	ErrFingerprint = errors.New("snapshot: fingerprint mismatch")
)

type record struct {
	Namespace []string `cbor:"ns"`
	Key       string   `cbor:"key"`
	Body      string   `cbor:"body"`
	SourceRef string   `cbor:"src"`
}

type document struct {
	Version     int      `cbor:"version"`
	Fingerprint string   `cbor:"fingerprint"`
	Entries     []record `cbor:"entries"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode serializes reg. Entries are written in composite-key order.
func Encode(reg *registry.Registry) ([]byte, error) {
	entries := reg.Entries()
	doc := document{
		Version:     Version,
		Fingerprint: reg.Fingerprint(),
		Entries:     make([]record, len(entries)),
	}
	for i, e := range entries {
		doc.Entries[i] = record{
			Namespace: e.Namespace,
			Key:       e.Key,
			Body:      e.Body,
			SourceRef: e.SourceRef,
		}
	}
	return encMode.Marshal(doc)
}

// Decode rebuilds a registry from Encode output and verifies its
// fingerprint. The result has not been validated.
func Decode(data []byte) (*registry.Registry, error) {
	var doc document
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("snapshot: decoding: %w", err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w %d (want %d)", ErrVersion, doc.Version, Version)
	}
	entries := make([]content.Entry, len(doc.Entries))
	for i, r := range doc.Entries {
		entries[i] = content.Entry{
			Namespace: content.Path(r.Namespace),
			Key:       r.Key,
			Body:      r.Body,
			SourceRef: r.SourceRef,
		}
	}
	reg := registry.FromEntries(entries)
	if got := reg.Fingerprint(); got != doc.Fingerprint {
		return nil, fmt.Errorf("%w: recorded %s, computed %s", ErrFingerprint, doc.Fingerprint, got)
	}
	return reg, nil
}

// Save writes reg to path atomically, creating parent directories.
func Save(path string, reg *registry.Registry) error {
	data, err := Encode(reg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return writeFileAtomic(path, data, 0644)
}

// Load reads a snapshot written by Save.
func Load(path string) (*registry.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
