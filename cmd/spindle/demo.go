package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robbyt/go-supervisor/supervisor"
	"github.com/urfave/cli/v3"

	"github.com/spindleui/spindle/internal/logging"
	"github.com/spindleui/spindle/optionsfile"
	"github.com/spindleui/spindle/spinner"
	"github.com/spindleui/spindle/toolkit/registry"
	"github.com/spindleui/spindle/toolkit/toolkittest"
)

var demoCmd = &cli.Command{
	Name:  "demo",
	Usage: "Run the selector behavior against the in-memory toolkit",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "options",
			Usage:    "Path to the options TOML file",
			Aliases:  []string{"o"},
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "Watch the options file and apply edits live until interrupted",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (trace, debug, info, warn, error)",
			Value: "info",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format (text, json)",
			Value: "text",
		},
		&cli.StringFlag{
			Name:  "log-output",
			Usage: "Log destination (stderr, stdout, or a file path)",
			Value: "stderr",
		},
	},
	Action: runDemo,
}

func runDemo(ctx context.Context, cmd *cli.Command) error {
	if err := logging.SetupLogger(
		cmd.String("log-format"),
		cmd.String("log-level"),
		cmd.String("log-output"),
	); err != nil {
		return cli.Exit(fmt.Errorf("failed to set up logging: %w", err), 1)
	}
	logger := slog.Default()
	handler := logger.Handler()

	path := cmd.String("options")
	doc, err := optionsfile.LoadFile(path)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to load options file: %w", err), 1)
	}

	// The demo toolkit: one registered overlay class, one option class, and a
	// host control of fixed height.
	reg := registry.New()
	overlayClass := &toolkittest.FakeOverlayClass{ClassName: doc.OverlayClass}
	optionClass := &toolkittest.FakeWidgetClass{ClassName: doc.OptionClass}
	reg.RegisterOverlayClass(overlayClass)
	reg.RegisterWidgetClass(optionClass)
	control := toolkittest.NewFakeControl(48)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	behavior, err := spinner.New(control,
		spinner.WithRegistry(reg),
		spinner.WithLogHandler(handler),
		spinner.WithContext(runCtx),
	)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to create behavior: %w", err), 1)
	}
	doc.ApplyTo(behavior)

	super, err := supervisor.New(
		supervisor.WithContext(runCtx),
		supervisor.WithLogHandler(handler),
		supervisor.WithRunnables(behavior),
	)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to create supervisor: %w", err), 1)
	}

	if cmd.Bool("watch") {
		go logStateChanges(runCtx, behavior, logger)
		go watchOptions(runCtx, path, behavior, logger)
	} else {
		go func() {
			defer cancel()
			if err := runScript(runCtx, behavior, control, overlayClass); err != nil {
				logger.Error("Demo script failed", "error", err)
				if playErr := behavior.PlaybackLastRun(handler); playErr != nil {
					logger.Error("Failed to replay run logs", "error", playErr)
				}
			}
		}()
	}

	return super.Run()
}

// runScript drives one activation/selection/dismissal cycle and prints the
// outcome.
func runScript(
	ctx context.Context,
	behavior *spinner.Behavior,
	control *toolkittest.FakeControl,
	overlayClass *toolkittest.FakeOverlayClass,
) error {
	if !waitForState(ctx, behavior, "awaiting_activation") {
		return fmt.Errorf("behavior never reached steady state (check the configured classes)")
	}

	control.Activate()
	if !waitForState(ctx, behavior, "open") {
		return fmt.Errorf("overlay did not open")
	}

	overlay := overlayClass.Last()
	children := overlay.Container().Children()
	fmt.Printf("overlay open with %d options\n", len(children))
	if len(children) == 0 {
		return fmt.Errorf("no option widgets were built")
	}

	// Pick the first option, as a user would.
	children[0].(*toolkittest.FakeWidget).Release()
	if !waitForState(ctx, behavior, "awaiting_activation") {
		return fmt.Errorf("overlay did not dismiss after selection")
	}

	selected, _ := behavior.Selection().(*toolkittest.FakeWidget)
	fmt.Println(renderSelection(selected))
	return nil
}

// watchOptions reloads the options file on every write and applies it to the
// running behavior, exercising the debounced restart path.
func watchOptions(ctx context.Context, path string, behavior *spinner.Behavior, logger *slog.Logger) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("Failed to create file watcher", "error", err)
		return
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Error("Failed to close file watcher", "error", err)
		}
	}()

	// Watch the directory; editors often replace the file on save.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Error("Failed to watch options directory", "error", err)
		return
	}
	logger.Info("Watching options file", "path", path)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != path || !event.Op.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			doc, err := optionsfile.LoadFile(path)
			if err != nil {
				logger.Error("Ignoring invalid options file", "error", err)
				continue
			}
			doc.ApplyTo(behavior)
			logger.Info("Options applied", "entries", len(doc.Options))
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Error("File watcher error", "error", err)
		}
	}
}

// logStateChanges mirrors the behavior's lifecycle transitions to the logger.
func logStateChanges(ctx context.Context, behavior *spinner.Behavior, logger *slog.Logger) {
	for state := range behavior.GetStateChan(ctx) {
		logger.Info("Loop state changed", "state", state)
	}
}

// waitForState blocks until the behavior reaches the wanted state, the
// context is done, or a timeout elapses.
func waitForState(ctx context.Context, behavior *spinner.Behavior, want string) bool {
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		if behavior.GetState() == want {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-deadline:
			return false
		case <-ticker.C:
		}
	}
}
