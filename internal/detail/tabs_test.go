package detail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTabsStartsOnTimeline(t *testing.T) {
	tabs := NewTabs("b-1")
	assert.Equal(t, PaneTimeline, tabs.Selected())
	assert.Equal(t, "b-1", tabs.BusinessID())

	var zero Tabs
	assert.Equal(t, PaneTimeline, zero.Selected())
}

func TestSelectIsExclusive(t *testing.T) {
	for _, p := range Panes() {
		tabs := NewTabs("b-1")
		tabs.Select(p)
		assert.Equal(t, p, tabs.Selected())
		for _, other := range Panes() {
			if other != p {
				assert.NotEqual(t, other, tabs.Selected())
			}
		}
	}
}

func TestSelectReportsChange(t *testing.T) {
	tabs := NewTabs("b-1")
	assert.False(t, tabs.Select(PaneTimeline), "reselecting the current pane is a no-op")
	assert.True(t, tabs.Select(PaneNotes))
	assert.False(t, tabs.Select(PaneNotes))
	assert.False(t, tabs.Select(Pane("contacts")))
	assert.Equal(t, PaneNotes, tabs.Selected())
}

func TestCycling(t *testing.T) {
	tabs := NewTabs("b-1")
	assert.Equal(t, PaneTasks, tabs.Next())
	assert.Equal(t, PaneTimeline, tabs.Prev())
	assert.Equal(t, PaneEmails, tabs.Prev())
	assert.Equal(t, PaneTimeline, tabs.Next())
}

func TestParsePane(t *testing.T) {
	p, err := ParsePane("files")
	require.NoError(t, err)
	assert.Equal(t, PaneFiles, p)

	p, err = ParsePane("3")
	require.NoError(t, err)
	assert.Equal(t, PaneNotes, p)

	_, err = ParsePane("6")
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, []Pane{PaneTimeline, PaneTasks, PaneNotes, PaneFiles, PaneEmails}, Panes())
	for _, p := range Panes() {
		info := Describe(p)
		assert.NotEmpty(t, info.Title, p)
		assert.NotEmpty(t, info.Action, p)
		assert.NotEmpty(t, info.EmptyTitle, p)
	}
	assert.Equal(t, "Upload File", Describe(PaneFiles).Action)
}
