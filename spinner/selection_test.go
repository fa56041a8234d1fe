package spinner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindleui/spindle/toolkit"
	"github.com/spindleui/spindle/toolkit/toolkittest"
)

func TestApplySelectionPolicy(t *testing.T) {
	t.Parallel()

	newChildren := func(n int) []toolkit.Widget {
		cls := &toolkittest.FakeWidgetClass{ClassName: "option"}
		out := make([]toolkit.Widget, n)
		for i := range out {
			out[i] = cls.NewWidget()
		}
		return out
	}

	setup := func(t *testing.T) *Behavior {
		t.Helper()
		behavior, err := New(toolkittest.NewFakeControl(40))
		require.NoError(t, err)
		return behavior
	}

	t.Run("surviving selection is kept", func(t *testing.T) {
		behavior := setup(t)
		children := newChildren(3)
		behavior.setSelection(children[1])

		behavior.applySelectionPolicy(children, config{autoSelect: 0, hasAutoSelect: true})
		assert.Same(t, children[1], behavior.Selection())
	})

	t.Run("stale selection is replaced by auto-select", func(t *testing.T) {
		behavior := setup(t)
		gone := newChildren(1)[0]
		behavior.setSelection(gone)

		children := newChildren(3)
		behavior.applySelectionPolicy(children, config{autoSelect: 0, hasAutoSelect: true})
		assert.Same(t, children[2], behavior.Selection(), "index 0 counts from the end")
	})

	t.Run("no auto-select clears", func(t *testing.T) {
		behavior := setup(t)
		behavior.setSelection(newChildren(1)[0])

		behavior.applySelectionPolicy(newChildren(2), config{})
		assert.Nil(t, behavior.Selection())
	})

	t.Run("out of range clears", func(t *testing.T) {
		behavior := setup(t)
		children := newChildren(2)

		behavior.applySelectionPolicy(children, config{autoSelect: 2, hasAutoSelect: true})
		assert.Nil(t, behavior.Selection())
	})

	t.Run("zero children always clears", func(t *testing.T) {
		behavior := setup(t)
		behavior.setSelection(newChildren(1)[0])

		behavior.applySelectionPolicy(nil, config{autoSelect: 0, hasAutoSelect: true})
		assert.Nil(t, behavior.Selection())
	})
}
