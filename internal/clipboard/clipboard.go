// Package clipboard copies text to the system clipboard, falling back to an
// OSC 52 terminal sequence when no clipboard utility is available.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// ErrCopyFailed is returned when both copy paths fail.
var ErrCopyFailed = errors.New("copy to clipboard failed")

// Method reports which path performed the copy.
type Method string

const (
	MethodSystem   Method = "system"
	MethodTerminal Method = "osc52"
)

// Copier tries the system clipboard first and the terminal second.
type Copier struct {
	primary  func(string) error
	fallback func(string) error
}

// New returns a Copier whose OSC 52 fallback writes to out. A nil out opens
// the controlling terminal on each copy.
func New(out io.Writer) *Copier {
	return &Copier{
		primary:  writeSystem,
		fallback: terminalWriter(out, os.Getenv),
	}
}

// Copy places text on the clipboard.
func (c *Copier) Copy(text string) (Method, error) {
	primaryErr := c.primary(text)
	if primaryErr == nil {
		return MethodSystem, nil
	}
	fallbackErr := c.fallback(text)
	if fallbackErr == nil {
		return MethodTerminal, nil
	}
	return "", fmt.Errorf("%w: %w", ErrCopyFailed, errors.Join(primaryErr, fallbackErr))
}

func writeSystem(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

func terminalWriter(out io.Writer, getenv func(string) string) func(string) error {
	return func(text string) error {
		w := out
		if w == nil {
			tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			defer tty.Close()
			w = tty
		}
		seq := osc52.New(text)
		term := getenv("TERM")
		switch {
		case getenv("TMUX") != "" || strings.HasPrefix(term, "tmux"):
			seq = seq.Tmux()
		case strings.HasPrefix(term, "screen"):
			seq = seq.Screen()
		}
		_, err := seq.WriteTo(w)
		return err
	}
}
