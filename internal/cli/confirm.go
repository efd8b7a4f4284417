package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// Confirmer reads yes/no answers from an input stream, respecting context
// cancellation so an interrupted import does not hang on stdin.
type Confirmer struct {
	reader      *bufio.Reader
	out         io.Writer
	readingLock sync.Mutex
}

// NewConfirmer creates a Confirmer reading from in and prompting on out.
func NewConfirmer(in io.Reader, out io.Writer) *Confirmer {
	if in == nil {
		panic("input reader cannot be nil")
	}

	return &Confirmer{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Confirm prints the prompt and waits for a y/n answer. Empty input takes
// the provided default. Returns ErrInputCancelled when ctx is done first.
func (c *Confirmer) Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error) {
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}
	fmt.Fprint(c.out, FormatPrompt(prompt+" "+suffix))

	line, err := c.readLine(ctx)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(line) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (c *Confirmer) readLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		c.readingLock.Lock()
		defer c.readingLock.Unlock()

		value, err := c.reader.ReadString('\n')
		// EOF with partial input still counts as an answer.
		if err != nil && !(errors.Is(err, io.EOF) && value != "") {
			resultCh <- result{err: err}
			return
		}
		resultCh <- result{value: strings.TrimSpace(value)}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}
