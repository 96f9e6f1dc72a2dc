package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// InteractiveApprover prompts on stderr and requires the user to type the
// subject back before a destructive operation proceeds.
type InteractiveApprover struct {
	in  io.Reader
	out io.Writer
}

// NewInteractiveApprover creates an approver reading stdin and prompting
// on stderr.
func NewInteractiveApprover() *InteractiveApprover {
	return &InteractiveApprover{in: os.Stdin, out: os.Stderr}
}

// RequestApproval implements Approver.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, subject string) (bool, error) {
	fmt.Fprintf(a.out, "\nWARNING: this drops every matching database on '%s'.\n", subject)
	fmt.Fprintf(a.out, "To confirm, type '%s' and press Enter: ", subject)

	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(a.in)
		input, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("read confirmation: %w", err)
	case input := <-inputChan:
		if input == subject {
			return true, nil
		}
		fmt.Fprintf(a.out, "Input %q does not match %q. Operation cancelled.\n", input, subject)
		return false, nil
	}
}

var _ Approver = (*InteractiveApprover)(nil)
