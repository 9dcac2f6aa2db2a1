package dashboard

import (
	"testing"

	"go-lms/internal/common/errs"
	"go-lms/internal/features/layout"
	"go-lms/internal/features/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReportsEveryWidget(t *testing.T) {
	d := &Dashboard{
		Name:             "",
		DefaultTimeRange: "2w",
		Widgets: []Widget{
			{ID: "draft-a", Type: widget.TypePieChart, Title: "Logins", DataSource: widget.SourceLoginFrequency},
			{ID: "draft-b", Type: widget.TypeStatCard, Title: " ", DataSource: ""},
			{ID: "draft-b", Type: widget.TypeStatCard, Title: "ok", DataSource: widget.SourceActiveUsers},
		},
	}

	err := d.Validate()
	var ves errs.ValidationErrors
	require.ErrorAs(t, err, &ves)

	type key struct{ widget, field string }
	got := map[key]bool{}
	for _, v := range ves {
		got[key{v.WidgetID, v.Field}] = true
	}
	assert.True(t, got[key{"", "name"}])
	assert.True(t, got[key{"", "default_time_range"}])
	assert.True(t, got[key{"draft-a", "data_source"}])
	assert.True(t, got[key{"draft-b", "title"}])
	assert.True(t, got[key{"draft-b", "data_source"}])
	assert.True(t, got[key{"draft-b", "id"}])
}

func TestLayoutRoundTrip(t *testing.T) {
	d := &Dashboard{Widgets: []Widget{
		{ID: "a", PositionX: 0, PositionY: 0, Width: 6, Height: 4, Order: 0},
		{ID: "b", PositionX: 6, PositionY: 0, Width: 6, Height: 4, Order: 1},
	}}

	d.ApplyLayout(layout.ApplyMove(d.Layout(), "b", 0, 0))
	b, ok := d.Widget("b")
	require.True(t, ok)
	assert.Equal(t, 0, b.PositionX)
	assert.Equal(t, 1, b.Order)
}

func TestCopyIsDeep(t *testing.T) {
	d := &Dashboard{Widgets: []Widget{{ID: "a", Config: widget.Config{"stacked": true}}}}
	c := d.Copy()
	c.Widgets[0].Config["stacked"] = false
	c.Widgets[0].Title = "changed"
	assert.Equal(t, true, d.Widgets[0].Config["stacked"])
	assert.Empty(t, d.Widgets[0].Title)
}

func TestTimeRange(t *testing.T) {
	assert.True(t, Range90Days.Valid())
	assert.False(t, TimeRange("2w").Valid())
	assert.True(t, IsDraftID(NewDraftID()))
	assert.False(t, IsDraftID("65f0a0a0a0a0a0a0a0a0a0a1"))
}
