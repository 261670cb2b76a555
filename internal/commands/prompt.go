package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var errNoInput = errors.New("no input")

// prompter reads answers from one input stream. It buffers, so a single
// prompter must be used for all questions of one command.
type prompter struct {
	in     io.Reader
	r      *bufio.Reader
	errOut io.Writer
}

func newPrompter(in io.Reader, errOut io.Writer) *prompter {
	p := &prompter{in: in, errOut: errOut}
	if in != nil {
		p.r = bufio.NewReader(in)
	}
	return p
}

// line prints label and reads one trimmed line.
func (p *prompter) line(label string) (string, error) {
	if p.r == nil {
		return "", errNoInput
	}
	fmt.Fprintf(p.errOut, "%s: ", label)
	s, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", errNoInput
	}
	return strings.TrimSpace(s), nil
}

// secret reads a password, without echo when the input is a terminal.
func (p *prompter) secret(label string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(p.errOut, "%s: ", label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.errOut)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	s, err := p.line(label)
	if err != nil {
		return "", err
	}
	return s, nil
}

// confirm asks a yes/no question. Only y or yes confirms.
func (p *prompter) confirm(question string) bool {
	if p.r == nil {
		return false
	}
	fmt.Fprintf(p.errOut, "%s [y/N] ", question)
	s, _ := p.r.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
