package plain

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// LineInput turns lines read from r into keys. Reading happens on its own
// goroutine, which exits at EOF, on a read error, or after Close once its
// pending read returns.
type LineInput struct {
	lines  chan string
	done   chan error
	quit   chan struct{}
	exited chan struct{}
	once   sync.Once
}

func NewLineInput(r io.Reader) *LineInput {
	in := &LineInput{
		lines:  make(chan string),
		done:   make(chan error, 1),
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go func() {
		defer close(in.exited)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case in.lines <- sc.Text():
			case <-in.quit:
				return
			}
		}
		in.done <- sc.Err()
	}()
	return in
}

// Close stops delivering lines. It does not close r.
func (in *LineInput) Close() error {
	in.once.Do(func() { close(in.quit) })
	return nil
}

// Poll waits up to timeout for a line. After EOF it only waits out the
// timeout. Blank lines count as no key.
func (in *LineInput) Poll(ctx context.Context, timeout time.Duration) (string, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", false, nil
		case <-timer.C:
			return "", false, nil
		case line := <-in.lines:
			key := strings.TrimSpace(line)
			return key, key != "", nil
		case err := <-in.done:
			in.done = nil
			if err != nil {
				return "", false, errors.Wrap(err, "failed to read stdin")
			}
		}
	}
}
