// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompt asks on a terminal. Off a terminal it declines unless AssumeYes.
type Prompt struct {
	In        io.Reader
	Out       io.Writer
	AssumeYes bool

	// Interactive reports whether In is a terminal.
	Interactive func() bool
}

// NewPrompt builds a Prompt on the process's stdin/stdout.
func NewPrompt(assumeYes bool) *Prompt {
	return &Prompt{
		In:        os.Stdin,
		Out:       os.Stdout,
		AssumeYes: assumeYes,
		Interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

func (p *Prompt) Confirm(ctx context.Context, a Action) (bool, error) {
	if p.AssumeYes {
		return true, nil
	}
	if p.Interactive != nil && !p.Interactive() {
		fmt.Fprintln(p.Out, "not a terminal; pass --yes to confirm:", a.Message)
		return false, nil
	}

	prefix := ""
	if a.Destructive {
		prefix = "PERINGATAN: "
	}
	fmt.Fprintf(p.Out, "%s%s [y/N]: ", prefix, a.Message)

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(p.In).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "ya":
			return true, nil
		}
		return false, nil
	}
}
