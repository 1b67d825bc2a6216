// internal/workflow/workflow.go
package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a moderatable entity kind.
type Kind string

const (
	KindVerification Kind = "verification"
	KindRefund       Kind = "refund"
	KindPayout       Kind = "payout"
	KindListing      Kind = "listing"
	KindDispute      Kind = "dispute"
)

// Status is the lifecycle position of a moderatable entity.
type Status string

const (
	StatusPending           Status = "pending"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
	StatusRevisionRequested Status = "revision_requested"
	StatusCompleted         Status = "completed"
)

// Action is a moderation decision an admin can take.
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionRevision Action = "revision"
	ActionComplete Action = "complete"
)

var (
	ErrUnknownKind       = errors.New("unknown entity kind")
	ErrInvalidTransition = errors.New("action not allowed for current status")
	ErrNotReviewable     = errors.New("entity is no longer reviewable")
	ErrReasonRequired    = errors.New("a non-empty reason is required")
)

// transitions is the single source of truth for legal moves. Every kind
// starts at pending; revision is only offered where the subject can
// resubmit (verification, listing), and complete only where funds move
// after approval (payout).
var transitions = map[Kind]map[Status]map[Action]Status{
	KindVerification: {
		StatusPending: {
			ActionApprove:  StatusApproved,
			ActionReject:   StatusRejected,
			ActionRevision: StatusRevisionRequested,
		},
	},
	KindRefund: {
		StatusPending: {
			ActionApprove: StatusApproved,
			ActionReject:  StatusRejected,
		},
	},
	KindPayout: {
		StatusPending: {
			ActionApprove: StatusApproved,
			ActionReject:  StatusRejected,
		},
		StatusApproved: {
			ActionComplete: StatusCompleted,
		},
	},
	KindListing: {
		StatusPending: {
			ActionApprove:  StatusApproved,
			ActionReject:   StatusRejected,
			ActionRevision: StatusRevisionRequested,
		},
	},
	KindDispute: {
		StatusPending: {
			ActionApprove: StatusApproved,
			ActionReject:  StatusRejected,
		},
	},
}

// Kinds returns every registered entity kind.
func Kinds() []Kind {
	return []Kind{KindVerification, KindRefund, KindPayout, KindListing, KindDispute}
}

func IsKind(k Kind) bool {
	_, ok := transitions[k]
	return ok
}

// Supports reports whether the action exists anywhere in the kind's table.
func Supports(kind Kind, action Action) bool {
	for _, actions := range transitions[kind] {
		if _, ok := actions[action]; ok {
			return true
		}
	}
	return false
}

// RequiresReason reports whether the action must carry a reason string.
func RequiresReason(action Action) bool {
	return action == ActionReject || action == ActionRevision
}

// Next returns the target status for (kind, from, action), or
// ErrInvalidTransition when the triple is not in the table.
func Next(kind Kind, from Status, action Action) (Status, error) {
	byStatus, ok := transitions[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	to, ok := byStatus[from][action]
	if !ok {
		return "", fmt.Errorf("%w: %s %s -> %s", ErrInvalidTransition, kind, from, action)
	}
	return to, nil
}

// Guard validates a proposed transition before any I/O is attempted. The
// server re-runs the same check and remains authoritative; callers treat a
// server-side rejection of a guard-passed request as a conflict.
func Guard(kind Kind, from Status, reviewable bool, action Action, reason string) error {
	if _, err := Next(kind, from, action); err != nil {
		return err
	}
	if from == StatusPending && !reviewable {
		return ErrNotReviewable
	}
	if RequiresReason(action) && strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w for %s", ErrReasonRequired, action)
	}
	return nil
}

// IsTerminal reports whether no further moderation action is defined for
// the status under this kind. Approved is terminal everywhere except
// payout, which still awaits completion; revision_requested returns to
// pending via the subject-side resubmit flow, outside this workflow.
func IsTerminal(kind Kind, status Status) bool {
	if status == StatusRevisionRequested {
		return false
	}
	return len(transitions[kind][status]) == 0
}

// Statuses returns every status a kind can occupy, pending first.
func Statuses(kind Kind) []Status {
	seen := map[Status]bool{StatusPending: true}
	out := []Status{StatusPending}
	for _, actions := range transitions[kind] {
		for _, to := range actions {
			if !seen[to] {
				seen[to] = true
				out = append(out, to)
			}
		}
	}
	return out
}
