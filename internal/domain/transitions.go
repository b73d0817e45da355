package domain

import "errors"

var (
	ErrNotAuthorized     = errors.New("not authorized for this transition")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// CanTransitionSwap validates a swap status change. Only the responder may
// accept or reject a pending swap; either party may complete an accepted one.
func CanTransitionSwap(current, next string, isRequester, isResponder bool) error {
	if !isRequester && !isResponder {
		return ErrNotAuthorized
	}
	switch next {
	case SwapStatusAccepted, SwapStatusRejected:
		if current != SwapStatusPending {
			return ErrInvalidTransition
		}
		if !isResponder {
			return ErrNotAuthorized
		}
	case SwapStatusCompleted:
		if current != SwapStatusAccepted {
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}
	return nil
}

// CanDeleteSwap permits deletion only for pending or rejected swaps.
// Accepted and completed swaps are kept as history.
func CanDeleteSwap(status string, isRequester, isResponder bool) error {
	if !isRequester && !isResponder {
		return ErrNotAuthorized
	}
	if status == SwapStatusAccepted || status == SwapStatusCompleted {
		return ErrInvalidTransition
	}
	return nil
}

// CanTransitionSession validates a session status change.
// pending -> confirmed|cancelled: participant only (confirm or decline).
// confirmed -> completed|cancelled: either party.
func CanTransitionSession(current, next string, isCreator, isParticipant bool) error {
	if !isCreator && !isParticipant {
		return ErrNotAuthorized
	}
	switch current {
	case SessionStatusPending:
		if next != SessionStatusConfirmed && next != SessionStatusCancelled {
			return ErrInvalidTransition
		}
		if !isParticipant {
			return ErrNotAuthorized
		}
	case SessionStatusConfirmed:
		if next != SessionStatusCompleted && next != SessionStatusCancelled {
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}
	return nil
}

// CanEditSession permits content edits by the creator while the session is
// still pending or confirmed. Completed and cancelled sessions are frozen.
func CanEditSession(status string, isCreator bool) error {
	if !isCreator {
		return ErrNotAuthorized
	}
	if status != SessionStatusPending && status != SessionStatusConfirmed {
		return ErrInvalidTransition
	}
	return nil
}
