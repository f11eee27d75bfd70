package services

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the claim and event lifecycles. Handlers map
// them to user-facing messages; none should escape as a server error.
var (
	ErrEventNotFound     = errors.New("SRP event not found")
	ErrEventNotActive    = errors.New("SRP event is not accepting claims")
	ErrEventCompleted    = errors.New("SRP event is completed")
	ErrClaimNotFound     = errors.New("SRP request not found")
	ErrDuplicateClaim    = errors.New("a claim for this loss has already been submitted")
	ErrReasonRequired    = errors.New("a rejection reason is required")
	ErrInvalidPayout     = errors.New("invalid payout amount")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// OwnershipError means the requesting account does not control the victim
// character. The message names the offending character id.
type OwnershipError struct {
	CharacterID int64
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("character %d is not linked to your account", e.CharacterID)
}
