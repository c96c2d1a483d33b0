package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while an archive is uploaded.
// A total of -1 means the size is unknown.
type Reporter interface {
	Start(total int64, label string)
	Update(sent int64)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{}
	}
	return &TerminalReporter{}
}

// Track adapts a Reporter to a sent/total byte callback. The reporter is
// started on the first call.
func Track(r Reporter, label string) func(sent, total int64) {
	var once sync.Once
	return func(sent, total int64) {
		once.Do(func() { r.Start(total, label) })
		r.Update(sent)
	}
}

// TerminalReporter displays a byte progress bar in the terminal.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int64, label string) {
	r.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(sent int64) {
	if r.bar != nil {
		_ = r.bar.Set64(sent)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints a line every ten percent, suitable for CI logs.
type CIReporter struct {
	// Out defaults to os.Stderr.
	Out io.Writer

	total    int64
	label    string
	lastStep int64
	sent     int64
	started  bool
}

func (r *CIReporter) out() io.Writer {
	if r.Out == nil {
		return os.Stderr
	}
	return r.Out
}

func (r *CIReporter) Start(total int64, label string) {
	r.total = total
	r.label = label
	r.lastStep = -1
	r.started = true
	if total < 0 {
		fmt.Fprintf(r.out(), "Uploading %s\n", label)
		return
	}
	fmt.Fprintf(r.out(), "Uploading %s (%d bytes)\n", label, total)
}

func (r *CIReporter) Update(sent int64) {
	r.sent = sent
	if r.total <= 0 {
		return
	}
	step := sent * 10 / r.total
	if step > r.lastStep {
		r.lastStep = step
		fmt.Fprintf(r.out(), "[%d/%d] %d%%\n", sent, r.total, step*10)
	}
}

// Finish prints the summary line. It prints nothing when no upload started.
func (r *CIReporter) Finish() {
	if !r.started {
		return
	}
	fmt.Fprintf(r.out(), "Upload of %s complete (%d bytes sent)\n", r.label, r.sent)
}
