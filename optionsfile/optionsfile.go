// Package optionsfile loads spinner configuration from TOML documents. The
// demo binary uses it to feed descriptor data into a Behavior; edits to the
// file map directly onto configuration mutations.
package optionsfile

import (
	"errors"
	"fmt"
	"os"

	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/spindleui/spindle/spinner"
	"github.com/spindleui/spindle/toolkit"
)

// Version is the options file format version this loader supports.
const Version = "v1"

// Document is the parsed form of an options TOML file.
type Document struct {
	Version      string           `toml:"version"`
	OverlayClass string           `toml:"overlay_class"`
	OptionClass  string           `toml:"option_class"`
	AutoSelect   *int             `toml:"auto_select"`
	SyncHeight   bool             `toml:"sync_height"`
	Spacing      []float64        `toml:"spacing"`
	Padding      []float64        `toml:"padding"`
	Options      []map[string]any `toml:"options"`
}

// Load parses and validates an options document from raw TOML.
func Load(source []byte) (*Document, error) {
	if len(source) == 0 {
		return nil, ErrNoSourceData
	}

	var doc Document
	if err := gotoml.Unmarshal(source, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseToml, err)
	}

	if doc.Version == "" {
		doc.Version = Version
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFile reads and parses an options document from disk.
func LoadFile(path string) (*Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}
	return Load(source)
}

// Validate checks the structural rules of the document.
func (d *Document) Validate() error {
	errList := []error{}

	if d.Version != Version {
		errList = append(errList, fmt.Errorf("%w: %q", ErrUnsupportedVersion, d.Version))
	}
	if len(d.Spacing) != 0 && len(d.Spacing) != 2 {
		errList = append(errList, fmt.Errorf("%w: got %d", ErrInvalidSpacing, len(d.Spacing)))
	}
	if len(d.Padding) != 0 && len(d.Padding) != 4 {
		errList = append(errList, fmt.Errorf("%w: got %d", ErrInvalidPadding, len(d.Padding)))
	}
	if d.AutoSelect != nil && *d.AutoSelect < 0 {
		errList = append(errList, fmt.Errorf("%w: got %d", ErrNegativeAutoSelect, *d.AutoSelect))
	}
	for i, entry := range d.Options {
		if len(entry) == 0 {
			errList = append(errList, fmt.Errorf("%w: entry %d", ErrMissingDescriptorData, i))
		}
	}

	return errors.Join(errList...)
}

// Descriptors converts the option entries to toolkit descriptors, preserving
// order.
func (d *Document) Descriptors() []toolkit.Descriptor {
	out := make([]toolkit.Descriptor, 0, len(d.Options))
	for _, entry := range d.Options {
		out = append(out, toolkit.Descriptor(entry))
	}
	return out
}

// ApplyTo pushes the whole document into a Behavior's configuration. Each
// setter schedules at most one restart; the behavior's change trigger
// coalesces the batch into a single one.
func (d *Document) ApplyTo(b *spinner.Behavior) {
	b.SetOverlayClassName(d.OverlayClass)
	b.SetOptionClassName(d.OptionClass)
	b.SetOptionData(d.Descriptors())
	if d.AutoSelect != nil {
		b.SetAutoSelect(*d.AutoSelect)
	} else {
		b.ClearAutoSelect()
	}
	b.SetSyncHeight(d.SyncHeight)
	if len(d.Spacing) == 2 {
		b.SetSpacing(d.Spacing[0], d.Spacing[1])
	}
	if len(d.Padding) == 4 {
		b.SetPadding(d.Padding[0], d.Padding[1], d.Padding[2], d.Padding[3])
	}
}
