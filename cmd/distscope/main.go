package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/distscope/distscope/internal/explorer"
	"github.com/distscope/distscope/internal/observability"
	"github.com/distscope/distscope/internal/sentry_ext"
	"github.com/distscope/distscope/internal/version"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	exitCode := mainWithExitCode()
	os.Exit(exitCode)
}

func mainWithExitCode() int {
	modeFlag := flag.String("mode", "", "initial threshold comparison: lt, lte, gt or gte")
	logFlag := flag.Bool("log", false, "use a logarithmic value axis (needs all-positive data)")
	thresholdFlag := flag.Float64("threshold", 0, "initial threshold value (default: dataset midpoint)")
	ticksFlag := flag.Int("ticks", 0, "value-axis tick count, 0 for automatic")
	columnFlag := flag.String("column", "", "column (CSV) or field (JSON/YAML) to read")
	watchFlag := flag.Bool("watch", false, "reload when the file changes on disk")
	versionFlag := flag.Bool("version", false, "print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "distscope - Cumulative Distribution Explorer\n\n")
		fmt.Fprintf(os.Stderr, "A terminal UI for exploring how much of a dataset falls on either\n")
		fmt.Fprintf(os.Stderr, "side of a movable threshold.\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  distscope [flags] <data-file>\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  <data-file>           Numbers in JSON, JSONL, CSV, YAML or plain text,\n")
		fmt.Fprintf(os.Stderr, "                        or \"-\" to read from stdin\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DISTSCOPE_DEBUG       Path for a debug log file\n")
		fmt.Fprintf(os.Stderr, "  DISTSCOPE_CONFIG_DIR  Directory for the preferences file\n")
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("distscope %s\n", version.Version)
		return 0
	}

	if flag.NArg() != 1 {
		flag.Usage()
		return 1
	}

	// Sentry reporting.
	enableErrorReporting := true
	if os.Getenv("DISTSCOPE_ERROR_REPORTING") != "" {
		enableErrorReporting, _ = strconv.ParseBool(os.Getenv("DISTSCOPE_ERROR_REPORTING"))
	}

	sentryClient := sentry_ext.New(sentry_ext.Params{
		Disabled:         !enableErrorReporting,
		DSN:              os.Getenv("DISTSCOPE_SENTRY_DSN"),
		AttachStacktrace: true,
		Release:          version.Version,
		Environment:      version.Environment,
	})
	defer sentryClient.Flush(2 * time.Second)

	// Debug logging goes to the file named by DISTSCOPE_DEBUG, if any.
	var writer io.Writer
	if debugPath := os.Getenv("DISTSCOPE_DEBUG"); debugPath != "" {
		loggerFile, err := os.OpenFile(debugPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Println("fatal:", err)
			return 1
		}
		writer = loggerFile
		defer func() {
			_ = loggerFile.Close()
		}()
	} else {
		writer = io.Discard
	}

	logger := observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(
			writer,
			&slog.HandlerOptions{
				Level: slog.LevelDebug,
			},
		)),
		&observability.CoreLoggerParams{
			Tags:   observability.Tags{},
			Sentry: sentryClient,
		},
	)

	config := explorer.NewConfigManager(explorer.DefaultConfigPath(), logger)

	// Flags beat persisted preferences, but only when given explicitly.
	var initialThreshold *float64
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		var err error
		switch f.Name {
		case "mode":
			err = config.SetMode(*modeFlag)
		case "log":
			err = config.SetLogScale(*logFlag)
		case "ticks":
			err = config.SetXAxisTicks(*ticksFlag)
		case "threshold":
			v := *thresholdFlag
			initialThreshold = &v
		}
		if err != nil && flagErr == nil {
			flagErr = err
		}
	})
	if flagErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", flagErr)
		return 1
	}

	source := explorer.NewDataSource(explorer.DataSourceParams{
		Column: *columnFlag,
		Logger: logger,
	})

	model := explorer.NewModel(explorer.Params{
		Path:             flag.Arg(0),
		Source:           source,
		Config:           config,
		Watch:            *watchFlag,
		InitialThreshold: initialThreshold,
		Logger:           logger,
	})
	defer model.Cleanup()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logger.Error(fmt.Sprintf("distscope: %v", err))
		return 1
	}

	return 0
}
