// pkg/adminclient/gateway.go
package adminclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/parkspot/admin-backend/internal/workflow"
)

// Entity is the client-side view of a moderatable record. Status and
// Reviewable come from the server and are never recomputed locally; Raw
// holds the full server payload for fields this struct does not name.
type Entity struct {
	ID                string          `json:"id"`
	Status            workflow.Status `json:"status"`
	Reviewable        bool            `json:"reviewable"`
	AdminNotes        string          `json:"admin_notes,omitempty"`
	RejectionReason   string          `json:"rejection_reason,omitempty"`
	RevisionReason    string          `json:"revision_reason,omitempty"`
	RequestedAmount   float64         `json:"requested_amount,omitempty"`
	ApprovedAmount    *float64        `json:"approved_amount,omitempty"`
	FinalAmount       *float64        `json:"final_amount,omitempty"`
	ExternalReference string          `json:"external_reference,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (e *Entity) UnmarshalJSON(data []byte) error {
	type entityAlias Entity
	var alias entityAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*e = Entity(alias)
	e.Raw = append(e.Raw[:0], data...)
	return nil
}

// ActionRequest is the admin-supplied part of a moderation decision.
type ActionRequest struct {
	Reason         string   `json:"reason,omitempty"`
	AdminNotes     string   `json:"admin_notes,omitempty"`
	ApprovedAmount *float64 `json:"approved_amount,omitempty"`
	Reference      string   `json:"reference,omitempty"`
}

type actionResponse struct {
	Message string  `json:"message"`
	Entity  *Entity `json:"entity"`
}

// kindPaths maps moderation kinds onto their URL segments.
var kindPaths = map[workflow.Kind]string{
	workflow.KindVerification: "verifications",
	workflow.KindRefund:       "refunds",
	workflow.KindPayout:       "payouts",
	workflow.KindListing:      "listings",
	workflow.KindDispute:      "disputes",
}

// Perform applies one moderation action against the server. The local
// transition guard runs first: an action the current entity state cannot
// accept fails here with the same error class the server would return, and
// no request is sent. On success the returned entity is authoritative and
// should replace the caller's copy.
func (c *Client) Perform(ctx context.Context, kind workflow.Kind, entity Entity, action workflow.Action, req ActionRequest) (*Entity, error) {
	path, ok := kindPaths[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown moderation kind %q", ErrNotFound, kind)
	}

	if err := workflow.Guard(kind, entity.Status, entity.Reviewable, action, req.Reason); err != nil {
		return nil, guardError(err)
	}

	var resp actionResponse
	url := fmt.Sprintf("/v1/admin/%s/%s/%s", path, entity.ID, action)
	if err := c.do(ctx, http.MethodPost, url, req, &resp); err != nil {
		return nil, err
	}
	if resp.Entity == nil {
		return nil, fmt.Errorf("%w: response missing entity", ErrServer)
	}

	return resp.Entity, nil
}

// guardError maps local guard failures onto the same typed errors a server
// round trip produces, so callers handle both paths identically.
func guardError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrReasonRequired):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	case errors.Is(err, workflow.ErrUnknownKind):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
}
