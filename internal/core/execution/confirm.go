package execution

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptConfirmer asks on Out and approves only an exact "Y" on In.
type PromptConfirmer struct {
	In     io.Reader
	Out    io.Writer
	Prompt string
}

func (p PromptConfirmer) Confirm() bool {
	fmt.Fprint(p.Out, p.Prompt)
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.TrimRight(line, "\r\n") == "Y"
}

// AutoConfirm approves unconditionally, for sandbox and job mode.
type AutoConfirm struct{}

func (AutoConfirm) Confirm() bool { return true }
