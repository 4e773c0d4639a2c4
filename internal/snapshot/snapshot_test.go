package snapshot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/jorge-barreto/folio/internal/content"
	"github.com/jorge-barreto/folio/internal/integrity"
	"github.com/jorge-barreto/folio/internal/registry"
)

func sample(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Build([]content.Module{
		content.NewModule("", "indice.yaml", map[string]string{"indice": "<p>Inicio</p>"}),
		content.NewModule("temas/cicd", "temas/cicd/a.yaml", map[string]string{
			"herramientas-cicd": "<h1>CI/CD</h1>",
			"pipelines":         "<p>stages</p>",
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestEncodeDecode(t *testing.T) {
	reg := sample(t)
	data, err := Encode(reg)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != reg.Len() || got.Fingerprint() != reg.Fingerprint() {
		t.Fatalf("decoded registry differs: len %d fp %s", got.Len(), got.Fingerprint())
	}
	e, ok := got.Lookup(content.ParsePath("temas/cicd"), "herramientas-cicd")
	if !ok || e.Body != "<h1>CI/CD</h1>" || e.SourceRef != "temas/cicd/a.yaml" {
		t.Errorf("Lookup = %+v, %v", e, ok)
	}
	if e, ok := got.Lookup(nil, "indice"); !ok || !e.Namespace.IsRoot() {
		t.Errorf("root entry = %+v, %v", e, ok)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	a, err := Encode(sample(t))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encode(sample(t))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same registry encoded to different bytes")
	}
}

func TestDecode_FingerprintMismatch(t *testing.T) {
	data, err := Encode(sample(t))
	if err != nil {
		t.Fatal(err)
	}
	var doc document
	if err := cbor.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	doc.Entries[0].Body = "<p>tampered</p>"
	tampered, err := encMode.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(tampered); !errors.Is(err, ErrFingerprint) {
		t.Fatalf("expected ErrFingerprint, got %v", err)
	}
}

func TestDecode_Version(t *testing.T) {
	data, err := encMode.Marshal(document{Version: 99})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(data); !errors.Is(err, ErrVersion) {
		t.Fatalf("expected ErrVersion, got %v", err)
	}
}

func TestDecode_Garbage(t *testing.T) {
	if _, err := Decode([]byte("not cbor at all")); err == nil {
		t.Fatal("expected error")
	}
}

// A snapshot bypasses the builder, so a hand-made one can carry violations
// that only the integrity check catches.
func TestDecode_UncheckedThenChecked(t *testing.T) {
	entries := []content.Entry{
		{Namespace: content.ParsePath("x"), Key: "k", Body: "<p>a</p>", SourceRef: "one"},
		{Namespace: content.ParsePath("x"), Key: "k", Body: "<p>b</p>", SourceRef: "two"},
	}
	data, err := Encode(registry.FromEntries(entries))
	if err != nil {
		t.Fatal(err)
	}
	reg, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rep := integrity.Check(reg, integrity.Options{}); !rep.HasErrors() {
		t.Error("duplicate in snapshot should fail the integrity check")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".folio", "registry.cbor")
	reg := sample(t)
	if err := Save(path, reg); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not exist after save")
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Fingerprint() != reg.Fingerprint() {
		t.Error("loaded registry differs")
	}
}

func TestSave_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.cbor")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Save(path, sample(t)); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load after overwrite: %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cbor"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}
