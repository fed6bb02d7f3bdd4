package diagnostics

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
)

func TestCreateSubstitutesParams(t *testing.T) {
	d := Create(TypeMismatch, ast.Pos{File: "a.vf", Line: 3, Column: 5}, map[string]string{
		"expected": "Int", "found": "String",
	})
	if d.Message != "expected `Int`, found `String`" {
		t.Fatalf("got %q", d.Message)
	}
	if d.Severity != SeverityError || d.Phase != PhaseTypecheck {
		t.Fatalf("wrong severity/phase: %v %v", d.Severity, d.Phase)
	}
}

func TestThrowRoundTripsAsReport(t *testing.T) {
	err := Throw(ModuleNotFound, ast.Pos{File: "x.vf"}, map[string]string{"path": "std/foo"})
	diag, ok := AsReport(err)
	if !ok {
		t.Fatal("expected AsReport to succeed")
	}
	if diag.Code != ModuleNotFound {
		t.Fatalf("got code %s", diag.Code)
	}
}

func TestCollectorOrderingAndFilters(t *testing.T) {
	c := NewCollector()
	c.AddCode(CircularDependency, ast.Pos{File: "b.vf", Line: 1}, map[string]string{"cycle": "a, b"})
	c.AddCode(TypeMismatch, ast.Pos{File: "a.vf", Line: 1}, map[string]string{"expected": "Int", "found": "Bool"})

	if !c.HasErrors() {
		t.Fatal("expected HasErrors true")
	}
	if len(c.Warnings()) != 1 || len(c.Errors()) != 1 {
		t.Fatalf("expected 1 warning and 1 error, got %d/%d", len(c.Warnings()), len(c.Errors()))
	}

	sorted := c.SortByLocation()
	if sorted[0].Pos.File != "a.vf" {
		t.Fatalf("expected a.vf first after sort, got %s", sorted[0].Pos.File)
	}
}

func TestEncodeJSONShape(t *testing.T) {
	c := NewCollector()
	c.AddCode(SelfImport, ast.Pos{File: "m.vf", Line: 2, Column: 1}, map[string]string{"path": "m"})
	enc := Encode(c, "", nil)
	if enc.Success {
		t.Fatal("expected success=false when an error was collected")
	}
	raw, err := json.Marshal(enc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := back["diagnostics"]; !ok {
		t.Fatal("expected diagnostics key")
	}
}

func TestRenderPlainNoColor(t *testing.T) {
	r := &Renderer{ForceNoColor: true, Source: func(file string, line int) (string, bool) {
		if file == "m.vf" && line == 1 {
			return `let x = "oops"`, true
		}
		return "", false
	}}
	d := Create(TypeMismatch, ast.Pos{File: "m.vf", Line: 1, Column: 9}, map[string]string{
		"expected": "Int", "found": "String",
	})
	var buf bytes.Buffer
	r.Render(&buf, d)
	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("error[VF4001]")) {
		t.Fatalf("missing error header, got %s", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`let x = "oops"`)) {
		t.Fatalf("missing source line, got %s", out)
	}
}
