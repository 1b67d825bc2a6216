// internal/workflow/workflow_test.go
package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusRevisionRequested, StatusCompleted}
var allActions = []Action{ActionApprove, ActionReject, ActionRevision, ActionComplete}

// legal enumerates the full transition table; everything outside this set
// must fail the guard.
var legal = map[Kind]map[Status][]Action{
	KindVerification: {StatusPending: {ActionApprove, ActionReject, ActionRevision}},
	KindRefund:       {StatusPending: {ActionApprove, ActionReject}},
	KindPayout:       {StatusPending: {ActionApprove, ActionReject}, StatusApproved: {ActionComplete}},
	KindListing:      {StatusPending: {ActionApprove, ActionReject, ActionRevision}},
	KindDispute:      {StatusPending: {ActionApprove, ActionReject}},
}

func isLegal(kind Kind, from Status, action Action) bool {
	for _, a := range legal[kind][from] {
		if a == action {
			return true
		}
	}
	return false
}

func TestGuardRejectsEveryTripleOutsideTable(t *testing.T) {
	for _, kind := range Kinds() {
		for _, from := range allStatuses {
			for _, action := range allActions {
				err := Guard(kind, from, true, action, "because")
				if isLegal(kind, from, action) {
					assert.NoError(t, err, "%s/%s/%s should pass", kind, from, action)
				} else {
					assert.ErrorIs(t, err, ErrInvalidTransition, "%s/%s/%s should be rejected", kind, from, action)
				}
			}
		}
	}
}

func TestGuardRequiresReviewableForPendingDecisions(t *testing.T) {
	for _, kind := range Kinds() {
		err := Guard(kind, StatusPending, false, ActionApprove, "")
		assert.ErrorIs(t, err, ErrNotReviewable, "kind %s", kind)
	}
}

func TestGuardReasonRequirement(t *testing.T) {
	cases := []struct {
		kind   Kind
		action Action
		reason string
		want   error
	}{
		{KindListing, ActionReject, "", ErrReasonRequired},
		{KindListing, ActionReject, "   \t", ErrReasonRequired},
		{KindListing, ActionReject, "photos missing", nil},
		{KindVerification, ActionRevision, "", ErrReasonRequired},
		{KindVerification, ActionRevision, "blurry document", nil},
		{KindRefund, ActionApprove, "", nil},
	}
	for _, tc := range cases {
		err := Guard(tc.kind, StatusPending, true, tc.action, tc.reason)
		if tc.want == nil {
			assert.NoError(t, err, "%s/%s reason=%q", tc.kind, tc.action, tc.reason)
		} else {
			assert.ErrorIs(t, err, tc.want, "%s/%s reason=%q", tc.kind, tc.action, tc.reason)
		}
	}
}

func TestCompleteNeverRequiresReasonOrReviewable(t *testing.T) {
	// complete runs after the review concluded, so the reviewable flag is
	// false by then and must not block it.
	assert.NoError(t, Guard(KindPayout, StatusApproved, false, ActionComplete, ""))
}

func TestNextTargets(t *testing.T) {
	cases := []struct {
		kind   Kind
		from   Status
		action Action
		to     Status
	}{
		{KindRefund, StatusPending, ActionApprove, StatusApproved},
		{KindDispute, StatusPending, ActionReject, StatusRejected},
		{KindListing, StatusPending, ActionRevision, StatusRevisionRequested},
		{KindPayout, StatusApproved, ActionComplete, StatusCompleted},
	}
	for _, tc := range cases {
		to, err := Next(tc.kind, tc.from, tc.action)
		assert.NoError(t, err)
		assert.Equal(t, tc.to, to)
	}

	_, err := Next(Kind("bogus"), StatusPending, ActionApprove)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestTerminality(t *testing.T) {
	for _, kind := range Kinds() {
		assert.True(t, IsTerminal(kind, StatusRejected), "rejected is terminal for %s", kind)
		assert.True(t, IsTerminal(kind, StatusCompleted), "completed is terminal for %s", kind)
		assert.False(t, IsTerminal(kind, StatusPending), "pending is not terminal for %s", kind)
		assert.False(t, IsTerminal(kind, StatusRevisionRequested), "revision awaits resubmit for %s", kind)
	}
	assert.False(t, IsTerminal(KindPayout, StatusApproved))
	assert.True(t, IsTerminal(KindRefund, StatusApproved))
	assert.True(t, IsTerminal(KindVerification, StatusApproved))
	assert.True(t, IsTerminal(KindListing, StatusApproved))
	assert.True(t, IsTerminal(KindDispute, StatusApproved))
}

func TestSupports(t *testing.T) {
	assert.True(t, Supports(KindPayout, ActionComplete))
	assert.False(t, Supports(KindRefund, ActionComplete))
	assert.False(t, Supports(KindDispute, ActionRevision))
	assert.True(t, Supports(KindListing, ActionRevision))
}
