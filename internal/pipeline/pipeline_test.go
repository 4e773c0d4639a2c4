package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jorge-barreto/folio/internal/content"
	"github.com/jorge-barreto/folio/internal/integrity"
	"github.com/jorge-barreto/folio/internal/logging"
	"github.com/jorge-barreto/folio/internal/registry"
)

func mod(ns, src string, kv ...string) content.Module {
	entries := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		entries[kv[i]] = kv[i+1]
	}
	return content.NewModule(ns, src, entries)
}

func stages(o *Outcome) []State {
	var s []State
	for _, t := range o.Timings {
		s = append(s, t.Stage)
	}
	return s
}

func TestRun_Published(t *testing.T) {
	out := Run(context.Background(), Modules(
		mod("patrones-diseno", "patrones-diseno.js", "match-expression", "<h1>Match</h1>"),
		mod("sintaxis", "sintaxis.js", "tipos-escalares", "<h1>Tipos</h1>"),
	), Options{})

	if out.State != Published || !out.Published() {
		t.Fatalf("State = %s, report = %+v", out.State, out.Report)
	}
	if out.Registry == nil || out.Registry.Len() != 2 {
		t.Fatalf("Registry = %v", out.Registry)
	}
	res := out.Registry.Resolve(content.ParsePath("patrones-diseno"), "match-expression")
	if !res.Found() || res.Entry.Body != "<h1>Match</h1>" {
		t.Errorf("resolve patrones-diseno/match-expression = %+v", res)
	}
	if out.RunID == uuid.Nil {
		t.Error("RunID not set")
	}
	if out.Modules != 2 {
		t.Errorf("Modules = %d", out.Modules)
	}
	got := stages(out)
	want := []State{Gathering, Building, Validating}
	if len(got) != len(want) {
		t.Fatalf("timed stages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stage %d = %s, want %s", i, got[i], want[i])
		}
		if out.Timings[i].Elapsed == "" || out.Timings[i].End.IsZero() {
			t.Errorf("stage %s not closed: %+v", got[i], out.Timings[i])
		}
	}
}

func TestRun_GatherErrorRejects(t *testing.T) {
	boom := errors.New("disk on fire")
	out := Run(context.Background(), func(context.Context) ([]content.Module, error) {
		return nil, boom
	}, Options{})

	if out.State != Rejected || out.Registry != nil {
		t.Fatalf("State = %s", out.State)
	}
	if !errors.Is(out.Err, boom) {
		t.Errorf("Err = %v", out.Err)
	}
	if !out.Report.HasErrors() || !strings.Contains(out.Report.Findings[0].Message, "disk on fire") {
		t.Errorf("report = %+v", out.Report)
	}
	if s := stages(out); len(s) != 1 || s[0] != Gathering {
		t.Errorf("stages = %v", s)
	}
}

func TestRun_BuildErrorsReject(t *testing.T) {
	out := Run(context.Background(), Modules(
		mod("temas/cicd", "a.js", "herramientas-cicd", "<p>one</p>"),
		mod("temas/cicd", "b.js", "herramientas-cicd", "<p>two</p>"),
		mod("temas", "c.js", "vacio", "  "),
	), Options{})

	if out.State != Rejected || out.Registry != nil {
		t.Fatalf("State = %s", out.State)
	}
	if len(out.BuildErrs) != 2 {
		t.Fatalf("BuildErrs = %v", out.BuildErrs)
	}
	if out.Err != nil {
		t.Errorf("content errors should not set Err: %v", out.Err)
	}
	if errs, _ := out.Report.Counts(); errs != 2 {
		t.Fatalf("report errors = %d, want 2", errs)
	}
	for _, f := range out.Report.Findings {
		switch f.Key {
		case "herramientas-cicd":
			if f.SourceRef != "b.js" || f.Namespace.String() != "temas/cicd" {
				t.Errorf("duplicate finding = %+v", f)
			}
		case "vacio":
			if f.SourceRef != "c.js" {
				t.Errorf("empty finding = %+v", f)
			}
		default:
			t.Errorf("unexpected finding %+v", f)
		}
	}
}

func TestRun_IntegrityErrorsReject(t *testing.T) {
	x := integrity.ExtractorFunc(func(e *content.Entry) ([]integrity.Link, error) {
		return []integrity.Link{{Key: "missing", Raw: "#/missing"}}, nil
	})
	out := Run(context.Background(), Modules(mod("", "a.js", "indice", "<p>x</p>")),
		Options{Check: integrity.Options{Extractor: x}})

	if out.State != Rejected || out.Registry != nil {
		t.Fatalf("State = %s", out.State)
	}
	if len(out.BuildErrs) != 0 {
		t.Errorf("BuildErrs = %v", out.BuildErrs)
	}
	if s := stages(out); len(s) != 3 {
		t.Errorf("stages = %v", s)
	}
}

func TestRun_WarningsStillPublish(t *testing.T) {
	out := Run(context.Background(), Modules(
		mod("x", "a.js", "Hooks", "<p>a</p>", "hooks", "<p>b</p>"),
	), Options{})
	if out.State != Published {
		t.Fatalf("State = %s", out.State)
	}
	if _, warns := out.Report.Counts(); warns != 1 {
		t.Errorf("warnings = %d, want 1", warns)
	}
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	mods := []content.Module{
		mod("a", "a.js", "k1", "v1", "k2", "v2"),
		mod("b/c", "c.js", "k3", "v3"),
		mod("", "root.js", "k4", "v4"),
	}
	seq := Run(context.Background(), Modules(mods...), Options{})
	par := Run(context.Background(), Modules(mods...), Options{Parallel: true, Workers: 2})
	if seq.State != Published || par.State != Published {
		t.Fatalf("states = %s, %s", seq.State, par.State)
	}
	if seq.Registry.Fingerprint() != par.Registry.Fingerprint() {
		t.Error("parallel build differs from sequential")
	}
}

func TestRun_CancelledParallelBuild(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := Run(ctx, Modules(mod("a", "a.js", "k", "v")), Options{Parallel: true, Workers: 1})
	if out.State != Rejected {
		t.Fatalf("State = %s", out.State)
	}
	if !errors.Is(out.Err, context.Canceled) {
		t.Errorf("Err = %v", out.Err)
	}
}

func TestRun_NewRunIDEachTime(t *testing.T) {
	a := Run(context.Background(), Modules(), Options{})
	b := Run(context.Background(), Modules(), Options{})
	if a.RunID == b.RunID {
		t.Error("run IDs must differ")
	}
	if a.State != Published || a.Registry.Len() != 0 {
		t.Errorf("empty run: %s", a.State)
	}
}

func TestRun_LogsWithRunID(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.New("debug", "text", &buf))
	out := Run(ctx, Modules(mod("", "a.js", "k", "v")), Options{})

	logs := buf.String()
	for _, want := range []string{"pipeline.gathering", "pipeline.building", "pipeline.validating", "pipeline.published", out.RunID.String()} {
		if !strings.Contains(logs, want) {
			t.Errorf("log missing %q:\n%s", want, logs)
		}
	}
}

func TestFindingFor_Unknown(t *testing.T) {
	f := findingFor(errors.New("odd"))
	if f.Severity != integrity.SeverityError || f.Message != "odd" || f.Key != "" {
		t.Errorf("finding = %+v", f)
	}
	f = findingFor(&registry.InvalidNamespaceError{Namespace: content.ParsePath("a b"), SourceRef: "x.js", Detail: "bad"})
	if f.SourceRef != "x.js" {
		t.Errorf("finding = %+v", f)
	}
}

func TestMachine_Transitions(t *testing.T) {
	var m machine
	if m.state != Pending {
		t.Fatalf("zero machine state = %s, want pending", m.state)
	}
	for _, s := range []State{Gathering, Building, Validating, Published} {
		if err := m.advance(s); err != nil {
			t.Fatalf("advance(%s): %v", s, err)
		}
	}
	if err := m.advance(Rejected); err == nil {
		t.Error("terminal state must be final")
	}

	m = machine{}
	if err := m.advance(Building); err == nil {
		t.Error("pending -> building must fail")
	}
	if err := m.advance(Gathering); err != nil {
		t.Fatalf("first entry into Gathering: %v", err)
	}
	if err := m.advance(Gathering); err == nil {
		t.Error("re-entering Gathering must fail")
	}
	if err := m.advance(Validating); err == nil {
		t.Error("skipping Building must fail")
	}
	if err := m.advance(Published); err == nil {
		t.Error("Gathering -> Published must fail")
	}
	if err := m.advance(Rejected); err != nil {
		t.Errorf("any stage may reject: %v", err)
	}
}

func TestState_String(t *testing.T) {
	if Validating.String() != "validating" || Pending.String() != "pending" || State(42).String() != "state(42)" {
		t.Error("unexpected State.String")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{850 * time.Millisecond, "850ms"},
		{2400 * time.Millisecond, "2.4s"},
		{65 * time.Second, "1m 05s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
