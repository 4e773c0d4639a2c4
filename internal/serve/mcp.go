package serve

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jorge-barreto/folio/internal/content"
	"github.com/jorge-barreto/folio/internal/integrity"
	"github.com/jorge-barreto/folio/internal/logging"
	"github.com/jorge-barreto/folio/internal/registry"
)

// Server wraps the MCP server with registry tools.
type Server struct {
	mcp     *mcp.Server
	live    *Live
	rebuild RebuildFunc
	check   integrity.Options
}

// NewServer creates an MCP server reading from live. rebuild may be nil,
// in which case the rebuild_registry tool is not offered.
func NewServer(name, version string, live *Live, rebuild RebuildFunc, check integrity.Options) *Server {
	srv := &Server{
		live:    live,
		rebuild: rebuild,
		check:   check,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    name,
				Version: version,
			},
			nil,
		),
	}
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "resolve_topic",
		Description: "Resolve a topic to its HTML body. Looks in the given namespace first, then each ancestor up to the root. When nothing matches, returns the nearest existing namespace and a close key suggestion instead of content.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"namespace": {
					"type": "string",
					"description": "Slash-separated namespace, e.g. 'temas/cicd'. Omit for the root."
				},
				"key": {
					"type": "string",
					"description": "Topic slug, e.g. 'herramientas-cicd'"
				},
				"ref": {
					"type": "string",
					"description": "Full reference 'namespace/key' as an alternative to namespace + key"
				}
			}
		}`),
	}, s.handleResolve)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_topics",
		Description: "List the topic keys defined directly in a namespace and its child namespaces.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"namespace": {
					"type": "string",
					"description": "Slash-separated namespace. Omit for the root."
				}
			}
		}`),
	}, s.handleList)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "check_registry",
		Description: "Run the integrity checker on the served registry and return its findings (severity, namespace, key, sourceRef, message).",
		InputSchema: json.RawMessage(`{"type": "object"}`),
	}, s.handleCheck)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "registry_info",
		Description: "Return the entry count, content fingerprint, and namespace list of the served registry.",
		InputSchema: json.RawMessage(`{"type": "object"}`),
	}, s.handleInfo)

	if s.rebuild != nil {
		s.mcp.AddTool(&mcp.Tool{
			Name:        "rebuild_registry",
			Description: "Reload content from disk and rebuild. The served registry is replaced only if the build is published; a rejected build leaves it untouched.",
			InputSchema: json.RawMessage(`{"type": "object"}`),
		}, s.handleRebuild)
	}
}

func (s *Server) current() (*registry.Registry, *mcp.CallToolResult) {
	reg := s.live.Current()
	if reg == nil {
		return nil, errResult("no registry has been published yet")
	}
	return reg, nil
}

func (s *Server) handleResolve(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	reg, res := s.current()
	if res != nil {
		return res, nil
	}

	ns := content.ParsePath(getStringArg(args, "namespace"))
	key := getStringArg(args, "key")
	if ref := getStringArg(args, "ref"); ref != "" {
		ns, key = registry.ParseRef(ref)
	}
	if key == "" {
		return errResult("key or ref is required"), nil
	}

	r := reg.Resolve(ns, key)
	if !r.Found() {
		return jsonResult(map[string]any{
			"found":      false,
			"namespace":  ns.String(),
			"key":        key,
			"nearest":    r.NotFound.Nearest.String(),
			"suggestion": r.NotFound.Suggestion,
			"message":    r.NotFound.String(),
		}), nil
	}
	return jsonResult(map[string]any{
		"found":     true,
		"namespace": ns.String(),
		"key":       key,
		"via":       r.Via.String(),
		"fallback":  r.Fallback(),
		"sourceRef": r.Entry.SourceRef,
		"body":      r.Entry.Body,
	}), nil
}

func (s *Server) handleList(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	reg, res := s.current()
	if res != nil {
		return res, nil
	}

	ns := content.ParsePath(getStringArg(args, "namespace"))
	if !reg.HasNamespace(ns) {
		return errResult(fmt.Sprintf("namespace %q does not exist", ns.String())), nil
	}
	children := make([]string, 0)
	for _, c := range reg.Children(ns) {
		children = append(children, c.String())
	}
	return jsonResult(map[string]any{
		"namespace": ns.String(),
		"keys":      reg.Keys(ns),
		"children":  children,
	}), nil
}

func (s *Server) handleCheck(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reg, res := s.current()
	if res != nil {
		return res, nil
	}
	report := integrity.Check(reg, s.check)
	errs, warns := report.Counts()
	findings := report.Findings
	if findings == nil {
		findings = []integrity.Finding{}
	}
	return jsonResult(map[string]any{
		"errors":   errs,
		"warnings": warns,
		"findings": findings,
	}), nil
}

func (s *Server) handleInfo(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reg, res := s.current()
	if res != nil {
		return res, nil
	}
	namespaces := make([]string, 0)
	for _, ns := range reg.Namespaces() {
		namespaces = append(namespaces, ns.String())
	}
	return jsonResult(map[string]any{
		"entries":     reg.Len(),
		"fingerprint": reg.Fingerprint(),
		"namespaces":  namespaces,
	}), nil
}

func (s *Server) handleRebuild(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := s.live.Rebuild(ctx, s.rebuild)
	if out.Published() {
		logging.FromContext(ctx).Info("serve.swapped", "run", out.RunID.String(), "entries", out.Registry.Len())
	}
	errs, warns := out.Report.Counts()
	result := map[string]any{
		"run":      out.RunID.String(),
		"state":    out.State.String(),
		"errors":   errs,
		"warnings": warns,
	}
	if out.Registry != nil {
		result["entries"] = out.Registry.Len()
		result["fingerprint"] = out.Registry.Fingerprint()
	}
	if out.Err != nil {
		result["err"] = out.Err.Error()
	}
	if !out.Published() {
		findings := out.Report.Findings
		if findings == nil {
			findings = []integrity.Finding{}
		}
		result["findings"] = findings
	}
	return jsonResult(result), nil
}

func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

func getStringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
