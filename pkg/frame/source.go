package frame

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
)

// DefaultPrompt is printed before each console read.
const DefaultPrompt = "Ingrese el texto: "

// TextSource supplies one block of text per frame. Next may block; it is
// the frame loop's suspension point. Absence of input is "", never an
// error.
type TextSource interface {
	Next(ctx context.Context) (string, error)
}

// ConsoleSource reads one line per frame from a reader, printing a prompt.
type ConsoleSource struct {
	Prompt string

	out       io.Writer
	lines     chan string
	start     sync.Once
	in        io.Reader
	readErr   error // set before lines is closed
	exhausted atomic.Bool
}

// NewConsoleSource reads lines from in and writes the prompt to out. A nil
// out disables the prompt.
func NewConsoleSource(in io.Reader, out io.Writer) *ConsoleSource {
	return &ConsoleSource{Prompt: DefaultPrompt, in: in, out: out}
}

// Next prints the prompt and waits for a line or ctx cancellation.
// Once input is exhausted it returns "" immediately. A read failure, such
// as a line longer than MaxLineBytes, is returned once and exhausts the
// source.
func (c *ConsoleSource) Next(ctx context.Context) (string, error) {
	c.start.Do(func() {
		c.lines = make(chan string)
		go c.read()
	})
	if c.exhausted.Load() {
		return "", nil
	}
	if c.out != nil && c.Prompt != "" {
		fmt.Fprint(c.out, c.Prompt)
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			c.exhausted.Store(true)
			if c.readErr != nil {
				return "", cerrors.Wrap(cerrors.ErrCodeInvalidInput, c.readErr, "read input")
			}
			return "", nil
		}
		return line, nil
	}
}

// MaxLineBytes is the longest line a ConsoleSource accepts.
const MaxLineBytes = 1 << 20

func (c *ConsoleSource) read() {
	defer close(c.lines)
	sc := bufio.NewScanner(c.in)
	sc.Buffer(make([]byte, 64*1024), MaxLineBytes)
	for sc.Scan() {
		c.lines <- sc.Text()
	}
	c.readErr = sc.Err()
}

// Exhausted reports whether Next has reported the end of input.
func (c *ConsoleSource) Exhausted() bool { return c.exhausted.Load() }

// StaticSource returns Texts in order, then "" forever.
type StaticSource struct {
	Texts []string
	next  int
	done  bool
}

// Next returns the next text.
func (s *StaticSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.next >= len(s.Texts) {
		s.done = true
		return "", nil
	}
	t := s.Texts[s.next]
	s.next++
	return t, nil
}

// Exhausted reports whether Next has returned "" past the last text.
func (s *StaticSource) Exhausted() bool { return s.done }

// ChanSource receives texts from a channel, for reactive UIs.
type ChanSource <-chan string

// Next waits for the next text. A closed channel yields "".
func (c ChanSource) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case t := <-c:
		return t, nil
	}
}

var (
	_ TextSource = (*ConsoleSource)(nil)
	_ TextSource = (*StaticSource)(nil)
	_ TextSource = ChanSource(nil)
)
