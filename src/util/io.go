package util

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Writer buffers compiler output in memory. Nothing reaches the destination before Flush is called, so a
// compilation that fails half way never leaves a truncated output file behind.
type Writer struct {
	sb   strings.Builder
	path string // Output file. Empty means stdout.
}

// Logger prints compiler statistics when verbose mode is enabled.
type Logger struct {
	verbose bool
	w       io.Writer
	start   time.Time // Time the logger was created, reported by Elapsed.
}

// ---------------------
// ----- Constants -----
// ---------------------

const stdinTimeout = 500 * time.Millisecond // Time to wait for source code on stdin.

// ---------------------
// ----- Functions -----
// ---------------------

// NewWriter returns a Writer that flushes to the file at path, or to stdout if path is empty.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.sb.Write(p)
}

// WriteString appends s to the buffer.
func (w *Writer) WriteString(s string) {
	w.sb.WriteString(s)
}

// Printf appends a formatted string to the buffer.
func (w *Writer) Printf(format string, args ...interface{}) {
	w.sb.WriteString(fmt.Sprintf(format, args...))
}

// Len returns the number of buffered bytes.
func (w *Writer) Len() int {
	return w.sb.Len()
}

// String returns the buffered output.
func (w *Writer) String() string {
	return w.sb.String()
}

// Flush writes the buffer to its destination and empties it.
func (w *Writer) Flush() error {
	defer w.sb.Reset()
	if len(w.path) == 0 {
		_, err := io.WriteString(os.Stdout, w.sb.String())
		return err
	}
	f, err := os.OpenFile(w.path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if _, err := bw.WriteString(w.sb.String()); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadSource reads source code from the file opt.Src. If opt.Src is "-" the function waits for a short period
// for input on stdin and returns an error if none arrives.
func ReadSource(opt Options) (string, error) {
	if opt.Src != "-" {
		b, err := os.ReadFile(opt.Src)
		return string(b), err
	}

	c := make(chan string, 1)
	cerr := make(chan error, 1)

	// Concurrently wait for input on stdin.
	go func() {
		b, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			cerr <- err
			return
		}
		c <- string(b)
	}()

	select {
	case <-time.After(stdinTimeout):
		return "", errors.New("expected input from stdin, got none")
	case err := <-cerr:
		return "", err
	case s := <-c:
		return s, nil
	}
}

// NewLogger returns a Logger writing to w. The logger prints only if opt.Verbose is set.
func NewLogger(opt Options, w io.Writer) *Logger {
	return &Logger{verbose: opt.Verbose, w: w, start: time.Now()}
}

// Logf prints a formatted line if verbose mode is enabled.
func (l *Logger) Logf(format string, args ...interface{}) {
	if l == nil || !l.verbose {
		return
	}
	_, _ = fmt.Fprintf(l.w, format+"\n", args...)
}

// Verbose returns true if the logger prints.
func (l *Logger) Verbose() bool {
	return l != nil && l.verbose
}

// Elapsed returns the time passed since the logger was created.
func (l *Logger) Elapsed() time.Duration {
	return time.Since(l.start)
}
