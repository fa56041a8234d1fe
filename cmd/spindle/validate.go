package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/spindleui/spindle/optionsfile"
)

var validateCmd = &cli.Command{
	Name:      "validate",
	Usage:     "Validate an options TOML file",
	ArgsUsage: "<options-file>",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() < 1 {
			return fmt.Errorf("options file path required")
		}

		path := cmd.Args().Get(0)
		doc, err := optionsfile.LoadFile(path)
		if err != nil {
			return fmt.Errorf("failed to load options file: %w", err)
		}

		fmt.Printf("Options file %s is valid\n\n", path)
		fmt.Println(renderDocument(doc))
		return nil
	},
}
