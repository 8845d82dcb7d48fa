// Package progress reports a bulk spec import file by file.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Outcome is what happened to one file. Reason is empty when the file was
// imported.
type Outcome struct {
	File   string
	API    string
	Reason string
}

// Imported reports whether the file became an API.
func (o Outcome) Imported() bool { return o.Reason == "" }

// Tally counts outcomes.
type Tally struct {
	Imported int
	Skipped  int
}

func (t *Tally) add(o Outcome) {
	if o.Imported() {
		t.Imported++
	} else {
		t.Skipped++
	}
}

func (t Tally) String() string {
	return fmt.Sprintf("%d imported, %d skipped", t.Imported, t.Skipped)
}

// Reporter receives one Outcome per file between Begin and Done.
type Reporter interface {
	Begin(total int)
	File(o Outcome)
	Done() Tally
}

// NewReporter returns a CIReporter when running under CI and a
// TerminalReporter otherwise.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: os.Stderr}
	}
	return &TerminalReporter{Out: os.Stderr}
}

// TerminalReporter draws a bar while importing and lists the skipped files
// once it is done.
type TerminalReporter struct {
	Out     io.Writer
	bar     *progressbar.ProgressBar
	tally   Tally
	skipped []Outcome
}

func (r *TerminalReporter) Begin(total int) {
	r.tally = Tally{}
	r.skipped = nil
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out(r.Out)),
		progressbar.OptionSetDescription("Importing specs"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) File(o Outcome) {
	r.tally.add(o)
	if !o.Imported() {
		r.skipped = append(r.skipped, o)
	}
	if r.bar != nil {
		r.bar.Describe(o.File)
		_ = r.bar.Add(1)
	}
}

func (r *TerminalReporter) Done() Tally {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
	w := out(r.Out)
	for _, o := range r.skipped {
		fmt.Fprintf(w, "skipped %s: %s\n", o.File, o.Reason)
	}
	fmt.Fprintf(w, "Import complete: %s\n", r.tally)
	return r.tally
}

// CIReporter prints one line per file, suitable for CI logs.
type CIReporter struct {
	Out   io.Writer
	total int
	seen  int
	tally Tally
}

func (r *CIReporter) Begin(total int) {
	*r = CIReporter{Out: r.Out, total: total}
	fmt.Fprintf(out(r.Out), "Importing %d spec files\n", total)
}

func (r *CIReporter) File(o Outcome) {
	r.seen++
	r.tally.add(o)
	if o.Imported() {
		fmt.Fprintf(out(r.Out), "[%d/%d] %s -> %s\n", r.seen, r.total, o.File, o.API)
		return
	}
	fmt.Fprintf(out(r.Out), "[%d/%d] %s skipped: %s\n", r.seen, r.total, o.File, o.Reason)
}

func (r *CIReporter) Done() Tally {
	fmt.Fprintf(out(r.Out), "Import complete: %s\n", r.tally)
	return r.tally
}

// Nop only counts.
type Nop struct {
	tally Tally
}

func (n *Nop) Begin(int)      { n.tally = Tally{} }
func (n *Nop) File(o Outcome) { n.tally.add(o) }
func (n *Nop) Done() Tally    { return n.tally }

func out(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}
