// Package prompt reads interactive answers from standard input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/shubhampopalghat/userbot/internal/ports"
)

type Stdin struct {
	reader *bufio.Reader
	out    io.Writer
}

var _ ports.Prompter = (*Stdin)(nil)

func New(in io.Reader, out io.Writer) *Stdin {
	return &Stdin{reader: bufio.NewReader(in), out: out}
}

func (s *Stdin) Line(prompt string) (string, error) {
	if _, err := fmt.Fprint(s.out, prompt); err != nil {
		return "", err
	}

	line, err := s.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// Secret reads without echo when stdin is a terminal, falling back to a
// plain line read otherwise (piped input in tests and scripts).
func (s *Stdin) Secret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return s.Line(prompt)
	}

	if _, err := fmt.Fprint(s.out, prompt); err != nil {
		return "", err
	}

	secret, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(s.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}
