// Package ui implements the confirmation prompts used before destructive
// commands.
package ui

import "context"

// Approver decides whether a destructive operation on subject may proceed.
type Approver interface {
	RequestApproval(ctx context.Context, subject string) (bool, error)
}
