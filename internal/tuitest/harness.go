// Package tuitest drives a terminal program inside a pseudo terminal and
// records what it draws, so integration tests can assert on rendered
// content without a real terminal attached.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
)

const (
	defaultCols    = 110
	defaultRows    = 34
	defaultTimeout = 10 * time.Second
)

// Step is one scripted interaction: wait Delay, then write Input to the
// program's terminal. Either part may be zero.
type Step struct {
	Delay time.Duration
	Input []byte
}

// Type scripts literal text entry.
func Type(s string) Step { return Step{Input: []byte(s)} }

// Press scripts a key sequence such as KeyTab or KeyCtrlC.
func Press(seq []byte) Step { return Step{Input: seq} }

// Pause scripts a delay with no input, giving the program time to render.
func Pause(d time.Duration) Step { return Step{Delay: d} }

// Session describes the program under test and the script to replay.
type Session struct {
	Command []string
	Dir     string
	Env     []string
	Cols    int
	Rows    int
	Steps   []Step
	Timeout time.Duration

	// ExitOK reports whether a non-nil wait error still counts as a clean
	// run. Nil accepts only exit status 0 and SIGINT, which is how the
	// program dies when the script ends with Ctrl+C.
	ExitOK func(error) bool
}

// Recording is the captured terminal stream.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// Run spawns the session's command in a PTY, replays its steps, and drains
// the terminal output until the program exits.
func Run(ctx context.Context, s Session) (*Recording, error) {
	if len(s.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	cols, rows := s.Cols, s.Rows
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.Command[0], s.Command[1:]...)
	cmd.Dir = s.Dir
	cmd.Env = sessionEnv(s.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start %s: %w", s.Command[0], err)
	}
	defer func() { _ = ptmx.Close() }()

	var output bytes.Buffer
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		replies := newQueryReplier(ptmx)
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				chunk := buf[:n]
				replies.Feed(chunk)
				output.Write(chunk)
			}
			if readErr != nil {
				// PTY reads fail with EIO once the child is gone; the
				// drain is done either way.
				return
			}
		}
	}()

	start := time.Now()
	for _, step := range s.Steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("tuitest: script interrupted: %w", ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if len(step.Input) > 0 {
			if _, err := ptmx.Write(step.Input); err != nil {
				return nil, fmt.Errorf("tuitest: write input: %w", err)
			}
		}
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case waitErr := <-waitCh:
		if waitErr != nil && !exitAccepted(s, waitErr) {
			return nil, fmt.Errorf("tuitest: program exited with error: %w", waitErr)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for exit: %w", ctx.Err())
	}

	_ = ptmx.Close()
	<-drained

	raw := output.Bytes()
	return &Recording{
		Raw:      raw,
		Frames:   parseFrames(raw),
		Duration: time.Since(start),
	}, nil
}

func exitAccepted(s Session, err error) bool {
	if s.ExitOK != nil {
		return s.ExitOK(err)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return strings.Contains(exitErr.String(), "interrupt")
	}
	return false
}

func sessionEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

// Key sequences used by the editor under test.
var (
	KeyEnter    = []byte{'\r'}
	KeyTab      = []byte{'\t'}
	KeyShiftTab = []byte("\x1b[Z")
	KeyEsc      = []byte{27}
	KeyCtrlC    = []byte{3}
	KeyCtrlG    = []byte{7}
	KeyCtrlO    = []byte{15}
	KeyCtrlP    = []byte{16}
	KeyCtrlR    = []byte{18}
	KeyCtrlS    = []byte{19}
)
