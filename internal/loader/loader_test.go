package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jorge-barreto/folio/internal/content"
)

func writeFile(t *testing.T, root, rel, data string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_AllFormats(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "indice.yaml", "indice: <p>Inicio</p>\n")
	writeFile(t, root, "sintaxis/basico.jsonc", `{
  // tipos primitivos
  "tipos-escalares": "<p>int, float</p>",
  "variables": "<p>$x</p>",
}`)
	writeFile(t, root, "temas/cicd/herramientas-cicd.html", "<h1>CI/CD</h1>")
	writeFile(t, root, "temas/cicd/README.md", "not content")

	mods, err := Load(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(mods) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(mods))
	}

	// Sorted by relative path.
	wantRefs := []string{"indice.yaml", "sintaxis/basico.jsonc", "temas/cicd/herramientas-cicd.html"}
	for i, want := range wantRefs {
		if mods[i].SourceRef != want {
			t.Errorf("mods[%d].SourceRef = %q, want %q", i, mods[i].SourceRef, want)
		}
	}

	if !mods[0].Namespace.IsRoot() || mods[0].Entries["indice"] != "<p>Inicio</p>" {
		t.Errorf("root module = %+v", mods[0])
	}
	if mods[1].Namespace.String() != "sintaxis" || len(mods[1].Entries) != 2 {
		t.Errorf("jsonc module = %+v", mods[1])
	}
	html := mods[2]
	if html.Namespace.String() != "temas/cicd" || html.Entries["herramientas-cicd"] != "<h1>CI/CD</h1>" {
		t.Errorf("html module = %+v", html)
	}
}

func TestLoad_DescriptorNamespace(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "extra/hooks.json", `{"namespace": "/temas/git/", "entries": {"hooks": "<p>pre-commit</p>"}}`)
	writeFile(t, root, "raiz.yml", "namespace: \"\"\nentries:\n  acerca: <p>about</p>\n")

	mods, err := Load(context.Background(), root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := mods[0].Namespace.String(); got != "temas/git" {
		t.Errorf("descriptor namespace = %q, want temas/git", got)
	}
	if !mods[1].Namespace.IsRoot() {
		t.Errorf("empty descriptor namespace should be root, got %q", mods[1].Namespace)
	}
}

func TestLoad_SkipsHiddenAndIgnored(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.yaml", "a: x\n")
	writeFile(t, root, ".git/b.yaml", "b: x\n")
	writeFile(t, root, "node_modules/c.json", `{"c": "x"}`)
	writeFile(t, root, "drafts/d.yaml", "d: x\n")
	writeFile(t, root, "e.bak.yaml", "e: x\n")
	writeFile(t, root, ".hidden.yaml", "f: x\n")

	mods, err := Load(context.Background(), root, &Options{Ignore: []string{"drafts", "*.bak.yaml"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(mods) != 1 || mods[0].SourceRef != "a.yaml" {
		t.Fatalf("expected only a.yaml, got %+v", mods)
	}
}

func TestLoad_CollectsFileErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.yaml", "ok: x\n")
	writeFile(t, root, "num.yaml", "count: 3\n")
	writeFile(t, root, "dup.yaml", "a: x\na: y\n")
	writeFile(t, root, "dup.json", `{"a": "x", "a": "y"}`)
	writeFile(t, root, "arr.json", `["x"]`)

	mods, err := Load(context.Background(), root, &Options{Workers: 2})
	if err == nil {
		t.Fatal("expected error")
	}
	if mods != nil {
		t.Errorf("expected no modules on error, got %d", len(mods))
	}
	msg := err.Error()
	for _, want := range []string{
		`num.yaml: key "count": body must be a string, got number`,
		"dup.yaml:",
		`dup.json: duplicate key "a"`,
		"arr.json: top-level value must be an object",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "ok.yaml") {
		t.Errorf("valid file reported: %s", msg)
	}
}

func TestLoad_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.yaml", "a: x\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, root, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoad_MissingRoot(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"), nil)
	if err == nil || !strings.Contains(err.Error(), "discovering content") {
		t.Fatalf("got %v", err)
	}
}

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		rel     string
		kind    Kind
		data    string
		ns      string
		entries map[string]string
		wantErr string
	}{
		{
			name:    "flat json",
			rel:     "a/b/m.json",
			kind:    KindJSON,
			data:    `{"k": "v"}`,
			ns:      "a/b",
			entries: map[string]string{"k": "v"},
		},
		{
			name:    "flat map with string entries key",
			rel:     "m.json",
			kind:    KindJSON,
			data:    `{"entries": "<p>a topic named entries</p>"}`,
			entries: map[string]string{"entries": "<p>a topic named entries</p>"},
		},
		{
			name:    "yaml block scalar",
			rel:     "x/m.yaml",
			kind:    KindYAML,
			data:    "k: |\n  <p>one</p>\n  <p>two</p>\n",
			ns:      "x",
			entries: map[string]string{"k": "<p>one</p>\n<p>two</p>\n"},
		},
		{
			name:    "descriptor unknown field",
			rel:     "m.yaml",
			kind:    KindYAML,
			data:    "namespace: a\nentries: {k: v}\nextra: 1\n",
			wantErr: `unknown field "extra"`,
		},
		{
			name:    "descriptor namespace not string",
			rel:     "m.json",
			kind:    KindJSON,
			data:    `{"namespace": 3, "entries": {}}`,
			wantErr: "must be a string",
		},
		{
			name:    "null body",
			rel:     "m.json",
			kind:    KindJSON,
			data:    `{"k": null}`,
			wantErr: "got null",
		},
		{
			name:    "empty yaml",
			rel:     "m.yaml",
			kind:    KindYAML,
			data:    "",
			wantErr: "document is empty",
		},
		{
			name:    "trailing data",
			rel:     "m.json",
			kind:    KindJSON,
			data:    `{"k": "v"} {"j": "w"}`,
			wantErr: "unexpected data",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.rel, tt.kind, []byte(tt.data))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !m.Namespace.Equal(content.ParsePath(tt.ns)) {
				t.Errorf("namespace = %q, want %q", m.Namespace, tt.ns)
			}
			if m.SourceRef != tt.rel {
				t.Errorf("SourceRef = %q", m.SourceRef)
			}
			if len(m.Entries) != len(tt.entries) {
				t.Fatalf("entries = %v, want %v", m.Entries, tt.entries)
			}
			for k, v := range tt.entries {
				if m.Entries[k] != v {
					t.Errorf("entries[%q] = %q, want %q", k, m.Entries[k], v)
				}
			}
		})
	}
}

func TestKindForExtension(t *testing.T) {
	if k, ok := KindForExtension(".JSONC"); !ok || k != KindJSON {
		t.Errorf("KindForExtension(.JSONC) = %q, %v", k, ok)
	}
	if _, ok := KindForExtension(".md"); ok {
		t.Error(".md should not be content")
	}
}
