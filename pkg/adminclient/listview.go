// pkg/adminclient/listview.go
package adminclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/parkspot/admin-backend/internal/workflow"
)

// FilterAll shows every status in a list view.
const FilterAll = "all"

// ListQuery narrows a queue fetch.
type ListQuery struct {
	Status string // "", "all", or a concrete status value
	Page   int
	Limit  int
	Search string
}

// QueuePage is one page of a moderation queue.
type QueuePage struct {
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	Total      int64    `json:"total"`
	TotalPages int      `json:"total_pages"`
	Data       []Entity `json:"data"`
}

// Queue fetches one page of a moderation queue.
func (c *Client) Queue(ctx context.Context, kind workflow.Kind, query ListQuery) (*QueuePage, error) {
	path, ok := kindPaths[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown moderation kind %q", ErrNotFound, kind)
	}

	values := url.Values{}
	if query.Status != "" {
		values.Set("status", query.Status)
	}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Search != "" {
		values.Set("search", query.Search)
	}

	endpoint := "/v1/admin/" + path
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var page QueuePage
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// ListView is an in-memory, order-preserving view over one queue's
// entities with a status filter on top. The backing order never changes
// while filtering; switching the filter back restores the original view.
type ListView struct {
	kind     workflow.Kind
	entities []Entity
	filter   string
}

func NewListView(kind workflow.Kind) *ListView {
	return &ListView{
		kind:   kind,
		filter: FilterAll,
	}
}

// Load replaces the backing slice, preserving the given order.
func (v *ListView) Load(entities []Entity) {
	v.entities = make([]Entity, len(entities))
	copy(v.entities, entities)
}

// Apply replaces the entity with a matching ID in place, keeping its
// position. Applying the same authoritative entity twice is a no-op the
// second time; an unknown ID changes nothing.
func (v *ListView) Apply(updated Entity) bool {
	for i := range v.entities {
		if v.entities[i].ID == updated.ID {
			v.entities[i] = updated
			return true
		}
	}
	return false
}

// Remove drops an entity by ID, preserving the order of the rest.
func (v *ListView) Remove(id string) bool {
	for i := range v.entities {
		if v.entities[i].ID == id {
			v.entities = append(v.entities[:i], v.entities[i+1:]...)
			return true
		}
	}
	return false
}

// SetFilter selects which statuses Visible returns. Use FilterAll or a
// concrete status value; unknown values simply match nothing.
func (v *ListView) SetFilter(filter string) {
	if filter == "" {
		filter = FilterAll
	}
	v.filter = filter
}

func (v *ListView) Filter() string {
	return v.filter
}

// Visible returns the entities passing the current filter in backing
// order. The result is a copy; mutating it does not touch the view.
func (v *ListView) Visible() []Entity {
	if v.filter == FilterAll {
		out := make([]Entity, len(v.entities))
		copy(out, v.entities)
		return out
	}

	var out []Entity
	for _, e := range v.entities {
		if string(e.Status) == v.filter {
			out = append(out, e)
		}
	}
	return out
}

// Len reports the backing size, ignoring the filter.
func (v *ListView) Len() int {
	return len(v.entities)
}

func (v *ListView) Kind() workflow.Kind {
	return v.kind
}
