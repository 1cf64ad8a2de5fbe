package frame

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
)

// CommandPrefix starts a view command line.
const CommandPrefix = ":"

// CommandSource wraps a TextSource. Lines starting with CommandPrefix are
// parsed into events and pushed onto Queue; Next then returns the last text
// again so the frame is redrawn with the event applied. Unknown commands are
// logged and also redraw.
type CommandSource struct {
	Source TextSource
	Queue  *Queue
	Logger *log.Logger

	last string
}

// Next returns the next text, handling command lines on the way.
func (c *CommandSource) Next(ctx context.Context) (string, error) {
	line, err := c.Source.Next(ctx)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(strings.TrimSpace(line), CommandPrefix) {
		c.last = line
		return line, nil
	}
	ev, err := ParseCommand(line)
	if err != nil {
		c.logger().Warn("ignoring command", "line", line, "err", err)
		return c.last, nil
	}
	c.Queue.Push(ev)
	return c.last, nil
}

// Exhausted reports whether the wrapped source is exhausted.
func (c *CommandSource) Exhausted() bool {
	ex, ok := c.Source.(Exhaustible)
	return ok && ex.Exhausted()
}

func (c *CommandSource) logger() *log.Logger {
	if c.Logger == nil {
		return log.New(io.Discard)
	}
	return c.Logger
}

// ParseCommand parses a view command:
//
//	:pan DX DY        pan by DX, DY logical units
//	:reset            reset the pan offset
//	:resize W H       change the device viewport
//	:quit             stop the loop
func ParseCommand(line string) (Event, error) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), CommandPrefix))
	if len(fields) == 0 {
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "empty command")
	}
	name, args := fields[0], fields[1:]
	switch name {
	case "pan", "p":
		x, y, err := floatPair(args)
		if err != nil {
			return nil, err
		}
		return Pan{DX: x, DY: y}, nil
	case "reset", "r":
		return ResetPan{}, nil
	case "resize":
		if len(args) != 2 {
			return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "resize takes width and height")
		}
		w, err1 := strconv.Atoi(args[0])
		h, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
			return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "resize needs positive integers, got %q %q", args[0], args[1])
		}
		return Resize{Width: w, Height: h}, nil
	case "quit", "q":
		return Quit{}, nil
	default:
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "unknown command %q", name)
	}
}

func floatPair(args []string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, cerrors.New(cerrors.ErrCodeInvalidInput, "pan takes two offsets")
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "pan x")
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "pan y")
	}
	return x, y, nil
}

var (
	_ TextSource  = (*CommandSource)(nil)
	_ Exhaustible = (*CommandSource)(nil)
)
