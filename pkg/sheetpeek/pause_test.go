package sheetpeek

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestStdinPauserResumes(t *testing.T) {
	var out bytes.Buffer
	p := NewStdinPauser(strings.NewReader("\nc\n"), &out)

	if err := p.Pause(context.Background(), "cell(7,2)"); err != nil {
		t.Fatalf("first Pause failed: %v", err)
	}
	if err := p.Pause(context.Background(), ""); err != nil {
		t.Fatalf("second Pause failed: %v", err)
	}
	if !strings.Contains(out.String(), "paused after cell(7,2)") {
		t.Errorf("Prompt = %q, expected step label", out.String())
	}
	if !strings.Contains(out.String(), "paused after start") {
		t.Errorf("Prompt = %q, expected start label", out.String())
	}
}

func TestStdinPauserClosedInput(t *testing.T) {
	p := NewStdinPauser(strings.NewReader(""), io.Discard)
	if err := p.Pause(context.Background(), "image B8"); !errors.Is(err, ErrNoOperator) {
		t.Errorf("Pause error = %v, expected ErrNoOperator", err)
	}

	// a final line without newline still resumes
	p = NewStdinPauser(strings.NewReader("go"), io.Discard)
	if err := p.Pause(context.Background(), "image B8"); err != nil {
		t.Errorf("Pause error = %v, expected nil", err)
	}
}

func TestStdinPauserCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	p := NewStdinPauser(r, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := p.Pause(ctx, "cell(7,1)"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Pause error = %v, expected context.DeadlineExceeded", err)
	}
}

func TestStdinPauserResumesAfterCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	p := NewStdinPauser(r, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Pause(ctx, "cell(7,1)"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Pause error = %v, expected context.Canceled", err)
	}

	go w.Write([]byte("\n"))
	if err := p.Pause(context.Background(), "cell(8,1)"); err != nil {
		t.Errorf("Pause after cancel failed: %v", err)
	}
}

func TestStdinPauserEOFRepeats(t *testing.T) {
	p := NewStdinPauser(strings.NewReader(""), io.Discard)
	for i := 0; i < 2; i++ {
		if err := p.Pause(context.Background(), "image D7"); !errors.Is(err, ErrNoOperator) {
			t.Errorf("Pause %d error = %v, expected ErrNoOperator", i, err)
		}
	}
}
