package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatuses(t *testing.T) {
	assert.Equal(t, []Status{
		StatusUnassigned,
		StatusOpen,
		StatusInProgress,
		StatusWaitingOnCustomer,
		StatusWaitingOnThirdParty,
		StatusResolved,
		StatusClosed,
	}, Statuses())
}

func TestPresent(t *testing.T) {
	t.Run("terminal statuses share the completed treatment", func(t *testing.T) {
		resolved := Present("resolved")
		closed := Present("closed")
		assert.Equal(t, ToneDone, resolved.Tone)
		assert.Equal(t, IconCheck, resolved.Icon)
		assert.Equal(t, resolved.Tone, closed.Tone)
		assert.Equal(t, resolved.Icon, closed.Icon)
		assert.NotEqual(t, resolved.Label, closed.Label)
	})

	t.Run("in progress is the only active indicator", func(t *testing.T) {
		for _, s := range Statuses() {
			p := Present(string(s))
			require.True(t, p.Known)
			if s == StatusInProgress {
				assert.Equal(t, IconSpinner, p.Icon)
				assert.Equal(t, ToneActive, p.Tone)
				continue
			}
			assert.NotEqual(t, IconSpinner, p.Icon, s)
			assert.NotEqual(t, ToneActive, p.Tone, s)
		}
	})

	t.Run("non terminal statuses have no icon", func(t *testing.T) {
		for _, s := range []Status{StatusUnassigned, StatusOpen, StatusWaitingOnCustomer, StatusWaitingOnThirdParty} {
			p := Present(string(s))
			assert.Equal(t, IconNone, p.Icon, s)
			assert.NotEqual(t, ToneDone, p.Tone, s)
		}
	})

	t.Run("unknown values fall back to neutral", func(t *testing.T) {
		p := Present("escalated_to_legal")
		assert.False(t, p.Known)
		assert.Equal(t, "escalated_to_legal", p.Label)
		assert.Equal(t, ToneNeutral, p.Tone)
		assert.Equal(t, IconNone, p.Icon)

		empty := Present("")
		assert.False(t, empty.Known)
		assert.Equal(t, ToneNeutral, empty.Tone)
	})

	t.Run("surrounding whitespace is ignored", func(t *testing.T) {
		p := Present(" resolved\n")
		require.True(t, p.Known)
		assert.Equal(t, StatusResolved, p.Status)
		assert.Equal(t, "Resolved", p.Label)
		assert.Equal(t, ToneDone, p.Tone)
		assert.Equal(t, IconCheck, p.Icon)

		unknown := Present("  escalated_to_legal ")
		assert.False(t, unknown.Known)
		assert.Equal(t, "escalated_to_legal", unknown.Label)
	})
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" waiting_on_customer ")
	require.NoError(t, err)
	assert.Equal(t, StatusWaitingOnCustomer, s)

	_, err = ParseStatus("done")
	assert.Error(t, err)
}

func TestClassification(t *testing.T) {
	assert.True(t, StatusResolved.IsTerminal())
	assert.True(t, StatusClosed.IsTerminal())
	assert.False(t, StatusOpen.IsTerminal())
	assert.True(t, StatusInProgress.IsActive())
	assert.False(t, StatusWaitingOnThirdParty.IsActive())
	assert.False(t, StatusResolved.IsActive())
}
