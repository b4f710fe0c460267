// Package spinner provides a terminal progress indicator for long-running
// crawl and train operations.
package spinner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Spinner animates a progress message on a terminal. Output degrades to a
// plain carriage return when the writer is not a TTY.
type Spinner struct {
	frames  []string
	delay   time.Duration
	writer  io.Writer
	message string
	started time.Time

	mu     sync.RWMutex
	active bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a spinner writing to w with an initial message.
func New(ctx context.Context, w io.Writer, message string) *Spinner {
	spinCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		frames:  []string{"|", "/", "-", "\\"},
		delay:   120 * time.Millisecond,
		writer:  w,
		message: message,
		ctx:     spinCtx,
		cancel:  cancel,
	}
}

// Start begins the animation. Calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return
	}
	s.active = true
	s.started = time.Now()

	s.wg.Add(1)
	go s.run()
}

// Stop halts the animation and clears the spinner line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()

	// clear the line only when writing to a real terminal
	if f, ok := s.writer.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(s.writer, "\r\033[2K")
	} else {
		fmt.Fprint(s.writer, "\r")
	}
}

// SetMessage replaces the progress message while the spinner runs.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Active reports whether the spinner is currently running.
func (s *Spinner) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Spinner) run() {
	defer s.wg.Done()

	frame := 0
	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			glyph := s.frames[frame%len(s.frames)]
			message := s.message
			elapsed := time.Since(s.started).Round(time.Second)
			s.mu.RUnlock()

			fmt.Fprintf(s.writer, "\r%s %s (%s)", glyph, message, elapsed)
			frame++
		}
	}
}
