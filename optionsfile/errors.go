package optionsfile

import "errors"

var (
	ErrNoSourceData          = errors.New("no source data provided")
	ErrParseToml             = errors.New("failed to parse TOML")
	ErrUnsupportedVersion    = errors.New("unsupported options file version")
	ErrInvalidSpacing        = errors.New("spacing must have exactly 2 components")
	ErrInvalidPadding        = errors.New("padding must have exactly 4 components")
	ErrNegativeAutoSelect    = errors.New("auto_select must not be negative")
	ErrMissingDescriptorData = errors.New("option entry must set at least one field")
)
