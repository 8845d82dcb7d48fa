package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}
	r.Begin(2)
	r.File(Outcome{File: "petstore.json", API: "Petstore"})
	r.File(Outcome{File: "broken.yaml", Reason: "Invalid JSON format. Please check your JSON syntax."})
	tally := r.Done()

	want := "Importing 2 spec files\n" +
		"[1/2] petstore.json -> Petstore\n" +
		"[2/2] broken.yaml skipped: Invalid JSON format. Please check your JSON syntax.\n" +
		"Import complete: 1 imported, 1 skipped\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	if tally != (Tally{Imported: 1, Skipped: 1}) {
		t.Errorf("unexpected tally: %+v", tally)
	}
}

func TestCIReporter_BeginResets(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}
	r.Begin(1)
	r.File(Outcome{File: "a.json", API: "A"})
	r.Done()

	buf.Reset()
	r.Begin(1)
	r.File(Outcome{File: "b.json", API: "B"})
	if got := r.Done(); got.Imported != 1 {
		t.Errorf("expected a fresh tally, got %+v", got)
	}
	if !strings.Contains(buf.String(), "[1/1] b.json -> B") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestTerminalReporter_ListsSkipped(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{Out: &buf}
	r.Begin(3)
	r.File(Outcome{File: "a.json", API: "A"})
	r.File(Outcome{File: "b.json", Reason: "duplicate"})
	r.File(Outcome{File: "c.json", API: "C"})
	tally := r.Done()

	if tally != (Tally{Imported: 2, Skipped: 1}) {
		t.Errorf("unexpected tally: %+v", tally)
	}
	out := buf.String()
	if !strings.Contains(out, "skipped b.json: duplicate\n") {
		t.Errorf("skipped file not listed:\n%s", out)
	}
	if !strings.Contains(out, "Import complete: 2 imported, 1 skipped\n") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestNop(t *testing.T) {
	r := &Nop{}
	r.Begin(2)
	r.File(Outcome{File: "x", API: "X"})
	r.File(Outcome{File: "y", Reason: "bad"})
	if got := r.Done().String(); got != "1 imported, 1 skipped" {
		t.Errorf("unexpected tally %q", got)
	}
}
