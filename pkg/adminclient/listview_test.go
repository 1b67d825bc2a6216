// pkg/adminclient/listview_test.go
package adminclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkspot/admin-backend/internal/workflow"
)

func loadedView() *ListView {
	v := NewListView(workflow.KindListing)
	v.Load([]Entity{
		{ID: "a", Status: workflow.StatusPending, Reviewable: true},
		{ID: "b", Status: workflow.StatusApproved},
		{ID: "c", Status: workflow.StatusPending, Reviewable: true},
		{ID: "d", Status: workflow.StatusRejected},
		{ID: "e", Status: workflow.StatusRevisionRequested},
	})
	return v
}

func ids(entities []Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.ID
	}
	return out
}

func TestListViewFilterPreservesOrder(t *testing.T) {
	v := loadedView()

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(v.Visible()))

	v.SetFilter(string(workflow.StatusPending))
	assert.Equal(t, []string{"a", "c"}, ids(v.Visible()))

	v.SetFilter(string(workflow.StatusRejected))
	assert.Equal(t, []string{"d"}, ids(v.Visible()))

	// Switching back restores the original order untouched.
	v.SetFilter(FilterAll)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(v.Visible()))
}

func TestListViewFilterUnknownStatusMatchesNothing(t *testing.T) {
	v := loadedView()

	v.SetFilter("archived")
	assert.Empty(t, v.Visible())
	assert.Equal(t, 5, v.Len())
}

func TestListViewApplyReplacesInPlace(t *testing.T) {
	v := loadedView()

	updated := Entity{ID: "c", Status: workflow.StatusApproved, Reviewable: false}
	require.True(t, v.Apply(updated))

	visible := v.Visible()
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(visible), "position must not change")
	assert.Equal(t, workflow.StatusApproved, visible[2].Status)
	assert.False(t, visible[2].Reviewable)

	// Applying the same authoritative entity again changes nothing.
	require.True(t, v.Apply(updated))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(v.Visible()))
	assert.Equal(t, workflow.StatusApproved, v.Visible()[2].Status)
}

func TestListViewApplyUnknownIDIsNoop(t *testing.T) {
	v := loadedView()

	assert.False(t, v.Apply(Entity{ID: "zz", Status: workflow.StatusApproved}))
	assert.Equal(t, 5, v.Len())
}

func TestListViewRemove(t *testing.T) {
	v := loadedView()

	require.True(t, v.Remove("b"))
	assert.Equal(t, []string{"a", "c", "d", "e"}, ids(v.Visible()))
	assert.False(t, v.Remove("b"))
}

func TestListViewVisibleReturnsCopy(t *testing.T) {
	v := loadedView()

	visible := v.Visible()
	visible[0].Status = workflow.StatusRejected

	assert.Equal(t, workflow.StatusPending, v.Visible()[0].Status)
}
