package spinner

import "github.com/spindleui/spindle/toolkit"

// Selection returns the currently chosen option widget, or nil.
func (b *Behavior) Selection() toolkit.Widget {
	b.selMu.RLock()
	defer b.selMu.RUnlock()
	return b.selection
}

func (b *Behavior) setSelection(w toolkit.Widget) {
	b.selMu.Lock()
	defer b.selMu.Unlock()
	b.selection = w
}

// applySelectionPolicy decides the selection after setup:
//
//   - a current selection that is still among the populated children stays,
//   - otherwise, with no auto-select index (or one out of range), the
//     selection clears,
//   - otherwise the widget at position len-1-index is selected; the index
//     counts from the end of the option list, so index 0 picks the last
//     option.
func (b *Behavior) applySelectionPolicy(children []toolkit.Widget, cfg config) {
	current := b.Selection()
	if current != nil {
		for _, w := range children {
			if w == current {
				return
			}
		}
	}

	if !cfg.hasAutoSelect || cfg.autoSelect < 0 || cfg.autoSelect >= len(children) {
		b.setSelection(nil)
		return
	}
	b.setSelection(children[len(children)-1-cfg.autoSelect])
}
