// Package cmd implements the facetnav command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/facetnav/internal/formatter"
	"github.com/oakwood-commons/facetnav/internal/limiter"
	"github.com/oakwood-commons/facetnav/pkg/logger"
	"github.com/oakwood-commons/facetnav/pkg/settings"
	"github.com/oakwood-commons/facetnav/pkg/tui"
)

var (
	configFile     string
	whereExpr      string
	delimiter      string
	encodingName   string
	keyColumn      string
	picks          []string
	interactive    bool
	watch          bool
	noColor        bool
	outputWidth    int
	outputHeight   int
	debug          bool
	logFile        string
	renderSnapshot bool
	startKeys      []string
	limitRecords   int
	offsetRecords  int
	tailRecords    int

	rootCtx     = context.Background()
	runSettings = settings.NewCliParams()
	logSink     io.Closer
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [source]",
	Short: "Drill down through a product catalog by category",
	Long: `facetnav reads a delimited product table and narrows it one category
level at a time. The source is a file path, "-" for stdin, or an http(s) URL;
it defaults to source.location from the config file.

Without -i it prints the trail, the next level's options and the matching
rows for the categories given with -p. With -i it opens the interactive
navigator.`,
	Example: "\n  facetnav 商品マスタ.csv\n  facetnav 商品マスタ.csv -p 工具 -p 電動工具\n  facetnav -i --watch 商品マスタ.csv\n  facetnav export -o markdown -p 資材 商品マスタ.csv\n",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupRun(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logSink != nil {
			_ = logSink.Close()
			logSink = nil
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := limitConfig().Validate(); err != nil {
			return fmt.Errorf("record limiting: %w", err)
		}
		if interactive || renderSnapshot {
			return runInteractive(cmd, args)
		}

		s, err := newSession(rootCtx, cmd, args)
		if err != nil {
			return err
		}
		v := s.engine.View()
		lc := limitConfig()
		opts := s.viewOptions()
		opts.Window = lc

		out := cmd.OutOrStdout()
		fmt.Fprint(out, formatter.RenderView(s.cfg.FacetSchema(), v, opts))
		if total := len(v.Results); lc.IsActive() && total > 0 {
			fmt.Fprintln(out, lc.Describe(total))
		}
		return nil
	},
}

// setupRun builds the logger and run settings from the parsed flags.
func setupRun(cmd *cobra.Command) error {
	var level int8
	if debug {
		level = -1
	}
	opts := logger.Options{Level: level}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logSink = f
		opts.Writer = f
	case interactive:
		// stderr shares the terminal with the TUI.
		opts.Writer = io.Discard
	}
	lgr := logger.Setup(opts)
	lgr = logger.WithValues(lgr, logger.CommandKey, cmd.Name())

	runSettings = &settings.Run{
		MinLogLevel: level,
		LogFile:     logFile,
		Source:      settings.SourceSettings{Watch: watch},
		Interactive: interactive,
		NoColor:     noColor,
		Width:       outputWidth,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rootCtx = settings.IntoContext(logger.WithLogger(ctx, lgr), runSettings)
	return nil
}

func limitConfig() limiter.Config {
	return limiter.Config{Limit: limitRecords, Offset: offsetRecords, Tail: tailRecords}
}

func runInteractive(cmd *cobra.Command, args []string) error {
	c, location, err := newCatalog(rootCtx, cmd, args)
	if err != nil {
		return err
	}
	lgr := logger.WithValues(logger.FromContext(rootCtx), logger.SourceKey, location).WithName("tui")
	tcfg := tui.Config{
		Width:     c.Config().Display.Width,
		Height:    outputHeight,
		Watch:     c.Config().Source.Watch,
		Picks:     picks,
		StartKeys: startKeys,
		Logger:    lgr,
	}

	if renderSnapshot {
		tcfg.NoColor = !formatter.StdoutIsTerminal()
		fmt.Fprintln(cmd.OutOrStdout(), tui.Snapshot(rootCtx, c, location, tcfg))
		return nil
	}

	progOpts, cleanup := getProgramOptions(rootCtx)
	defer cleanup()
	tcfg.ProgramOptions = progOpts
	return tui.Run(rootCtx, c, location, tcfg)
}

// cliVersionString builds the string printed by `version` and --version.
func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)",
		settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config-file", "", "path to a YAML or TOML config file")
	pf.StringVar(&whereExpr, "where", "", "CEL expression over 'row' (map of column to cell) that rows must satisfy, e.g. 'row[\"備考１\"] != \"\"'")
	pf.StringVar(&delimiter, "delimiter", "", "cell delimiter: a single character or 'tab' (default from config)")
	pf.StringVar(&encodingName, "encoding", "", "source text encoding: auto, utf-8, utf-16, shift_jis, or any WHATWG label (default from config)")
	pf.StringVar(&keyColumn, "key-column", "", "column whose empty cells drop a row (default: first column)")
	pf.StringArrayVarP(&picks, "pick", "p", nil, "select a value at the next level; repeat for deeper levels")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")
	pf.IntVar(&outputWidth, "width", 0, "output width in columns (default: terminal width)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.StringVar(&logFile, "log-file", "", "write JSON logs to this file instead of stderr")
	pf.IntVar(&limitRecords, "limit", 0, "limit the number of result rows")
	pf.IntVar(&offsetRecords, "offset", 0, "skip the first N result rows")
	pf.IntVar(&tailRecords, "tail", 0, "show the last N result rows (mutually exclusive with --limit; ignores --offset)")

	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "start the interactive navigator")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "reload when the source file changes (interactive only)")
	rootCmd.Flags().BoolVar(&renderSnapshot, "snapshot", false, "render a single TUI frame and exit; honors --width/--height")
	rootCmd.Flags().StringArrayVar(&startKeys, "press", nil, "simulate keys on startup, e.g. --press \"<CR>\" --press \"<Down><CR>\"")
	rootCmd.Flags().IntVar(&outputHeight, "height", 0, "snapshot height in rows")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	exportCmd.Flags().StringVarP(&exportFormat, "output", "o", string(formatter.FormatCSV), "export format: csv|json|yaml|toml|markdown|html")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "title for markdown and html output (default: app name and trail)")
	configCmd.Flags().StringVarP(&configOutput, "output", "o", "yaml", "config output format: yaml|toml")

	rootCmd.AddCommand(optionsCmd, trailCmd, exportCmd, configCmd, versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
