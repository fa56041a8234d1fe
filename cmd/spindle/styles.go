package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/spindleui/spindle/optionsfile"
	"github.com/spindleui/spindle/toolkit/toolkittest"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Italic(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	branchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// renderDocument prints a parsed options file as a styled tree.
func renderDocument(doc *optionsfile.Document) string {
	t := tree.New()
	t.EnumeratorStyle(branchStyle)
	t.Enumerator(tree.RoundedEnumerator)
	t.Root(titleStyle.Render("options"))

	t.Child(infoStyle.Render(fmt.Sprintf("overlay_class: %s", doc.OverlayClass)))
	t.Child(infoStyle.Render(fmt.Sprintf("option_class: %s", doc.OptionClass)))
	if doc.AutoSelect != nil {
		t.Child(infoStyle.Render(fmt.Sprintf("auto_select: %d (from the end)", *doc.AutoSelect)))
	}
	t.Child(infoStyle.Render(fmt.Sprintf("sync_height: %v", doc.SyncHeight)))

	entries := tree.New().Root(titleStyle.Render(fmt.Sprintf("entries (%d)", len(doc.Options))))
	for _, entry := range doc.Options {
		entries.Child(renderFields(entry))
	}
	t.Child(entries)

	return t.String()
}

// renderSelection formats the chosen widget for terminal output.
func renderSelection(w *toolkittest.FakeWidget) string {
	if w == nil {
		return infoStyle.Render("selection: (none)")
	}
	return selectedStyle.Render(fmt.Sprintf("selection: %s", renderFakeWidget(w)))
}

func renderFakeWidget(w *toolkittest.FakeWidget) string {
	if text, ok := w.Field("text").(string); ok {
		return text
	}
	return "(untitled option)"
}

func renderFields(fields map[string]any) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, fields[name]))
	}
	return strings.Join(parts, " ")
}
