package sheetpeek

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Pauser suspends a run until the operator resumes it.
type Pauser interface {
	Pause(ctx context.Context, after string) error
}

// PauserFunc adapts a function to the Pauser interface.
type PauserFunc func(ctx context.Context, after string) error

// Pause calls f(ctx, after).
func (f PauserFunc) Pause(ctx context.Context, after string) error {
	return f(ctx, after)
}

// NopPauser never pauses.
type NopPauser struct{}

// Pause returns immediately.
func (NopPauser) Pause(context.Context, string) error { return nil }

// StdinPauser prompts on Out and waits for a line on In. A single
// goroutine reads In for the lifetime of the pauser, so a line typed while
// no pause is waiting resumes the next one. That goroutine stays blocked on
// In until it returns a line or an error.
type StdinPauser struct {
	in    *bufio.Reader
	out   io.Writer
	once  sync.Once
	lines chan error
}

// NewStdinPauser creates a pauser reading operator input from in.
func NewStdinPauser(in io.Reader, out io.Writer) *StdinPauser {
	return &StdinPauser{in: bufio.NewReader(in), out: out, lines: make(chan error)}
}

// readLines delivers one result per line read; the channel is closed after
// the first read error.
func (p *StdinPauser) readLines() {
	defer close(p.lines)
	for {
		line, err := p.in.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		p.lines <- err
		if err != nil {
			return
		}
	}
}

// Pause blocks until the operator enters a line or ctx is cancelled.
// There is no timeout.
func (p *StdinPauser) Pause(ctx context.Context, after string) error {
	if after == "" {
		after = "start"
	}
	fmt.Fprintf(p.out, "-- paused after %s; press Enter to continue --", after)
	p.once.Do(func() { go p.readLines() })

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return ctx.Err()
	case err, ok := <-p.lines:
		if !ok || err == io.EOF {
			fmt.Fprintln(p.out)
			return errors.Wrapf(ErrNoOperator, "paused after %s", after)
		}
		return err
	}
}
