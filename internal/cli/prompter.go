package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// Prompter asks the user yes/no questions and shows blocking notices. It is
// the terminal stand-in for confirm() and alert() dialogs.
type Prompter struct {
	reader  *bufio.Reader
	writer  io.Writer
	readMu  sync.Mutex
	writeMu sync.Mutex
}

// NewPrompter creates a prompter. Nil arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// Confirm asks question and reports whether the user answered yes. Anything
// other than y/yes, including end of input, counts as no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	if err := p.write(FormatPrompt(question + " [y/N]")); err != nil {
		return false, err
	}

	answer, err := p.readLine(ctx)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Notify shows a message the user must see, such as a validation failure.
func (p *Prompter) Notify(message string) error {
	return p.write(FormatWarning(message) + "\n")
}

// Success shows a confirmation message.
func (p *Prompter) Success(message string) error {
	return p.write(FormatSuccess(message) + "\n")
}

// Writer returns the prompter's output.
func (p *Prompter) Writer() io.Writer {
	return p.writer
}

func (p *Prompter) write(s string) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if _, err := fmt.Fprint(p.writer, s); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}
	return nil
}

// readLine reads one trimmed line, returning early if ctx is canceled.
// A canceled read leaves its goroutine blocked until input arrives.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		p.readMu.Lock()
		defer p.readMu.Unlock()

		value, err := p.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && value != "" {
			err = nil
		}
		resultCh <- result{value: strings.TrimSpace(value), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}
