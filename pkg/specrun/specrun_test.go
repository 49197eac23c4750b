package specrun

import (
	"context"
	"testing"
)

func TestParseAndExecute(t *testing.T) {
	t.Parallel()
	s, err := ParseSpec("name: greet\ntest:\n  command: echo hello\n  expect_output_contains: hello\n")
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	if s.Name != "greet" {
		t.Errorf("Name = %q", s.Name)
	}

	r := NewRunner(t.TempDir(), nil)
	res := r.ExecuteSpec(context.Background(), s)
	if res.Status != StatusPassed {
		t.Errorf("Status = %q (%s)", res.Status, res.Error)
	}
}

func TestProjectSpecRoundTrip(t *testing.T) {
	t.Parallel()
	p, err := ParseProjectSpec("name: suite\nspecs:\n  - name: a\n    test:\n      command: \"true\"\n")
	if err != nil {
		t.Fatalf("ParseProjectSpec: %v", err)
	}

	r := NewRunner(t.TempDir(), nil)
	results := r.ExecuteProjectSpec(context.Background(), p, t.TempDir())
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	summary := Summarize(results)
	if summary.Total != 1 || summary.Passed != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestIsProjectFile(t *testing.T) {
	t.Parallel()
	if !IsProjectFile("suite/project.spec") {
		t.Error("project.spec not recognized")
	}
	if IsProjectFile("suite/auth.spec") {
		t.Error("auth.spec misrecognized")
	}
}
