// Package progress renders analyzer lifecycle events as progress spinners.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
)

var _ analyzer.Listener = (*Tracker)(nil)

// Tracker is an analyzer.Listener that shows one spinner per running
// analyzer and counts the artifacts it visits.
type Tracker struct {
	mu      sync.Mutex
	w       io.Writer
	bar     *progressbar.ProgressBar
	visits  map[analyzer.Kind]int
	current analyzer.Kind
	depth   int
}

// NewTracker creates a tracker writing to w. A nil w writes to stderr.
func NewTracker(w io.Writer) *Tracker {
	if w == nil {
		w = os.Stderr
	}
	return &Tracker{w: w, visits: make(map[analyzer.Kind]int)}
}

func (t *Tracker) newSpinner(kind analyzer.Kind) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(t.w),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(string(kind)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// StartAnalyzer implements analyzer.Listener. A dependency started while
// another analyzer is running nests under it and shares its spinner.
func (t *Tracker) StartAnalyzer(kind analyzer.Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.depth++
	t.visits[kind] = 0
	if t.bar == nil {
		t.current = kind
		t.bar = t.newSpinner(kind)
	}
}

// EndAnalyzer implements analyzer.Listener.
func (t *Tracker) EndAnalyzer(kind analyzer.Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.depth > 0 {
		t.depth--
	}
	if t.depth == 0 && t.bar != nil {
		_ = t.bar.Finish()
		_ = t.bar.Clear()
		t.bar = nil
		t.current = ""
	}
}

// StartVisit implements analyzer.Listener.
func (t *Tracker) StartVisit(analyzer.Kind, ast.Artifact) {}

// EndVisit implements analyzer.Listener.
func (t *Tracker) EndVisit(kind analyzer.Kind, _ ast.Artifact) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visits[kind]++
	if t.bar != nil {
		_ = t.bar.Add(1)
	}
}

// Visits returns the number of artifacts kind visited in its last run.
func (t *Tracker) Visits(kind analyzer.Kind) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visits[kind]
}

// Running reports whether an analyzer is in progress.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.depth > 0
}

// Skipped prints a skip notice for an analyzer that did not run.
func (t *Tracker) Skipped(kind analyzer.Kind, reason string) {
	fmt.Fprintf(t.w, "  %s skipped (%s)\n", kind, reason)
}

// Failed clears the spinner of a failed run and prints an error notice.
// A failed analyzer never reports EndAnalyzer.
func (t *Tracker) Failed(kind analyzer.Kind, err error) {
	t.mu.Lock()
	if t.bar != nil {
		_ = t.bar.Clear()
		t.bar = nil
	}
	t.current = ""
	t.depth = 0
	t.mu.Unlock()
	fmt.Fprintf(t.w, "  %s error: %v\n", kind, err)
}
