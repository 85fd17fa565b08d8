package batch

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Progress receives one Increment per finished document.
// Implementations must be safe for concurrent use.
type Progress interface {
	Increment(path string)
	Complete()
}

// NewProgress returns a progress bar on stderr when enabled and stderr is a
// terminal, and a no-op otherwise.
func NewProgress(enabled bool, total int) Progress {
	if !enabled || !IsInteractive(os.Stderr) {
		return NoOpProgress{}
	}
	return NewBar(os.Stderr, total)
}

// IsInteractive reports whether f is a terminal.
func IsInteractive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Bar is a progressbar-backed Progress.
type Bar struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// NewBar draws a bar of total documents on w.
func NewBar(w io.Writer, total int) *Bar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(18),
		progressbar.OptionSetDescription("Scoring"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &Bar{bar: bar}
}

func (b *Bar) Increment(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bar.Describe(filepath.Base(path))
	_ = b.bar.Add(1)
}

func (b *Bar) Complete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.bar.Finish()
}

// NoOpProgress discards progress.
type NoOpProgress struct{}

func (NoOpProgress) Increment(string) {}

func (NoOpProgress) Complete() {}
