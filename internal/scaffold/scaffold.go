package scaffold

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jorge-barreto/folio/internal/config"
	"github.com/jorge-barreto/folio/internal/ux"
)

const defaultName = "my-docs"

var configTemplate = `name: %s
content-dir: content
ignore: ["drafts"]
strict: false
links:
  prefix: "#/"
snapshot: .folio/registry.cbor
log:
  level: info
  format: text
`

// exampleContent is a small tree covering each module format, a nested
// namespace, and a cross-link in each direction.
var exampleContent = map[string]string{
	"indice.html": `<h1>Inicio</h1>
<p>Start with <a href="#/sintaxis/tipos-escalares">scalar types</a>
or jump to <a href="#/temas/cicd/herramientas-cicd">CI/CD tools</a>.</p>
`,
	"sintaxis/tipos-escalares.html": `<h1>Tipos escalares</h1>
<p>int, float, string, bool. Back to <span data-topic="/indice">the index</span>.</p>
`,
	"temas/general.jsonc": `{
  // Topics here are visible from every namespace under temas/.
  "hooks": "<h1>Hooks</h1><p>Scripts that run on repository events.</p>",
}
`,
	"temas/cicd/herramientas.yaml": `herramientas-cicd: |
  <h1>Herramientas CI/CD</h1>
  <p>Pipelines often start from <span data-topic="temas/hooks">hooks</span>.</p>
`,
}

// ProjectName derives a config name from a directory.
func ProjectName(dir string) string {
	base := filepath.Base(dir)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	name := strings.TrimLeft(b.String(), "-_.")
	if name == "" {
		return defaultName
	}
	return name
}

// Init creates .folio/config.yaml and an example content tree in
// targetDir.
func Init(targetDir string, w io.Writer) error {
	folioDir := filepath.Join(targetDir, config.Dir)
	if _, err := os.Stat(folioDir); err == nil {
		return fmt.Errorf("%s directory already exists in %s", config.Dir, targetDir)
	}
	contentDir := filepath.Join(targetDir, "content")
	if _, err := os.Stat(contentDir); err == nil {
		return fmt.Errorf("content directory already exists in %s", targetDir)
	}

	if err := os.MkdirAll(folioDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", config.Dir, err)
	}
	cfg := fmt.Sprintf(configTemplate, ProjectName(targetDir))
	if err := os.WriteFile(config.Path(targetDir), []byte(cfg), 0644); err != nil {
		return fmt.Errorf("writing config.yaml: %w", err)
	}

	for rel, body := range exampleContent {
		path := filepath.Join(contentDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(rel), err)
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", rel, err)
		}
	}

	fmt.Fprintf(w, "\n%s%s✓ Initialized folio project%s\n\n", ux.Bold, ux.Green, ux.Reset)
	fmt.Fprintf(w, "  Created:\n")
	fmt.Fprintf(w, "    %s.folio/config.yaml%s  project configuration\n", ux.Cyan, ux.Reset)
	fmt.Fprintf(w, "    %scontent/%s            example topics\n\n", ux.Cyan, ux.Reset)
	fmt.Fprintf(w, "  Next steps:\n")
	fmt.Fprintf(w, "    1. Add topics under %scontent/%s\n", ux.Cyan, ux.Reset)
	fmt.Fprintf(w, "    2. Run %sfolio build%s to check and publish them\n", ux.Cyan, ux.Reset)
	fmt.Fprintf(w, "    3. Run %sfolio docs content%s for the file formats\n\n", ux.Cyan, ux.Reset)

	return nil
}
