package ui

import "context"

// ForcedApprover approves everything without prompting. Backs the --force
// flag and non-interactive pipelines.
type ForcedApprover struct{}

// NewForcedApprover creates a ForcedApprover.
func NewForcedApprover() *ForcedApprover { return &ForcedApprover{} }

// RequestApproval implements Approver.
func (*ForcedApprover) RequestApproval(context.Context, string) (bool, error) {
	return true, nil
}

var _ Approver = (*ForcedApprover)(nil)
