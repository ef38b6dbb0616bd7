package ports

import (
	"bufio"
	"fmt"
	"io"
)

// LineSink receives the interpreter's output, one call per printed line.
type LineSink interface {
	WriteLine(line string) error
}

// Flusher is implemented by sinks that buffer output.
type Flusher interface {
	Flush() error
}

// WriterSink writes newline-terminated lines to an io.Writer through a buffer.
type WriterSink struct {
	w *bufio.Writer
}

// NewWriterSink wraps w. Callers must Flush once the run completes.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

func (s *WriterSink) WriteLine(line string) error {
	if _, err := s.w.WriteString(line); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write line terminator: %w", err)
	}
	return nil
}

func (s *WriterSink) Flush() error {
	return s.w.Flush()
}

// Recorder keeps every line in memory, in order.
type Recorder struct {
	lines []string
}

func NewRecorder() *Recorder {
	return &Recorder{lines: []string{}}
}

func (r *Recorder) WriteLine(line string) error {
	r.lines = append(r.lines, line)
	return nil
}

// Lines returns a copy of the recorded output.
func (r *Recorder) Lines() []string {
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

func (r *Recorder) Reset() {
	r.lines = r.lines[:0]
}
