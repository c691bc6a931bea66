package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// prompt asks Y/n questions on the operator console. Anything but an
// explicit "n" affirms; with assumeYes set no input is read at all.
type prompt struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func newPrompt(in io.Reader, out io.Writer, assumeYes bool) *prompt {
	return &prompt{
		in:        bufio.NewReader(in),
		out:       out,
		assumeYes: assumeYes,
	}
}

func (p *prompt) Confirm(msg string) bool {
	if p.assumeYes {
		fmt.Fprintf(p.out, "%s (Y/n) y\n", msg)

		return true
	}

	fmt.Fprintf(p.out, "%s (Y/n) ", msg)

	line, err := p.in.ReadString('\n')
	if err != nil {
		// Exhausted input counts as refusal, not affirmation.
		return false
	}

	return strings.ToLower(strings.TrimSpace(line)) != "n"
}
