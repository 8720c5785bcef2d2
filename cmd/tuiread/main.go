// Package main provides the CLI entrypoint for tuiread.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuiread/internal/config"
	"github.com/verte-zerg/tuiread/internal/document"
	"github.com/verte-zerg/tuiread/internal/engine"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/stats"
	"github.com/verte-zerg/tuiread/internal/statsui"
	"github.com/verte-zerg/tuiread/internal/store"
	"github.com/verte-zerg/tuiread/internal/tui"
)

const (
	defaultStep        = 25
	defaultFrameMs     = 16
	defaultCurveWindow = 5
)

var (
	readerWPM        int
	readerMinWPM     int
	readerMaxWPM     int
	readerStep       int
	readerFocusGuide bool
	readerFrameMs    int
	readerWatch      bool
	readerClipboard  bool
	readerAutoplay   bool

	statsSource      string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsFormat      string

	logFile io.Closer
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "tuiread [file]",
		Short:             "Terminal speed reader",
		Long:              "Read text one word at a time at a fixed pace (RSVP). Reads a file, piped stdin, or the clipboard.",
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		RunE:              runReaderCmd,
	}
	addReaderFlags(rootCmd)
	rootCmd.Flags().BoolVar(&readerWatch, "watch", false, "reload the file when it changes")
	rootCmd.Flags().BoolVar(&readerAutoplay, "autoplay", false, "start reading immediately")
	rootCmd.Flags().BoolVar(&readerFocusGuide, "focus-guide", true, "draw guide marks around the focus letter")

	rootCmd.AddCommand(newPlainCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func addReaderFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&readerWPM, "wpm", engine.DefaultRate, "reading rate in words per minute")
	cmd.Flags().IntVar(&readerMinWPM, "min-wpm", engine.DefaultMinRate, "lowest selectable rate")
	cmd.Flags().IntVar(&readerMaxWPM, "max-wpm", engine.DefaultMaxRate, "highest selectable rate")
	cmd.Flags().IntVar(&readerStep, "step", defaultStep, "rate change per key press")
	cmd.Flags().IntVar(&readerFrameMs, "frame-ms", defaultFrameMs, "frame interval in milliseconds")
	cmd.Flags().BoolVar(&readerClipboard, "clipboard", false, "read text from the clipboard")
}

func setupLogging(_ *cobra.Command, _ []string) error {
	envCfg, err := config.LoadEnv()
	if err != nil {
		return err
	}
	closer, err := openLog(envCfg)
	if err != nil {
		// The reader still works without a log file.
		log.SetOutput(io.Discard)
		logErrf("failed to open log file: %v\n", err)
		return nil
	}
	logFile = closer
	return nil
}

func openLog(envCfg config.Env) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(envCfg.LogFile), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(envCfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	level := log.InfoLevel
	if envCfg.Debug {
		level = log.DebugLevel
	}
	log.SetDefault(log.NewWithOptions(file, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
		Prefix:          "tuiread",
	}))
	return file, nil
}

func closeLog() {
	if logFile == nil {
		return
	}
	if err := logFile.Close(); err != nil {
		// Best-effort close of the log file.
		_ = err
	}
}

func runReaderCmd(cmd *cobra.Command, args []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error("failed to close db", "err", cerr)
		}
	}()

	cfg, err := resolveReaderConfig(cmd, st)
	if err != nil {
		return err
	}
	doc, fromStdin, err := loadDocument(args, readerClipboard)
	if err != nil {
		return err
	}
	if cfg.Watch && doc.Path == "" {
		return fmt.Errorf("--watch needs a file argument")
	}
	log.Info("opening reader", "source", doc.Name, "wpm", cfg.WPM, "watch", cfg.Watch)

	m, err := tui.NewModel(cfg, st, doc)
	if err != nil {
		return fmt.Errorf("failed to start reader: %w", err)
	}
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if fromStdin {
		opts = append(opts, tea.WithInputTTY())
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveReaderConfig applies flag > config file > stored rate > default.
func resolveReaderConfig(cmd *cobra.Command, st *store.Store) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if !cmd.Flags().Changed("wpm") && fileCfg.Reader.WPM == nil && st != nil {
		applyStoredRate(cmd.Context(), st, &readerWPM)
	}
	applyIntConfig(cmd, "wpm", &readerWPM, fileCfg.Reader.WPM)
	applyIntConfig(cmd, "min-wpm", &readerMinWPM, fileCfg.Reader.MinWPM)
	applyIntConfig(cmd, "max-wpm", &readerMaxWPM, fileCfg.Reader.MaxWPM)
	applyIntConfig(cmd, "step", &readerStep, fileCfg.Reader.WPMStep)
	applyIntConfig(cmd, "frame-ms", &readerFrameMs, fileCfg.Reader.FrameMs)
	applyBoolConfig(cmd, "focus-guide", &readerFocusGuide, fileCfg.Reader.FocusGuide)
	applyBoolConfig(cmd, "autoplay", &readerAutoplay, fileCfg.Reader.Autoplay)

	cfg := model.Config{
		WPM:        readerWPM,
		MinWPM:     readerMinWPM,
		MaxWPM:     readerMaxWPM,
		WPMStep:    readerStep,
		FocusGuide: readerFocusGuide,
		Frame:      time.Duration(readerFrameMs) * time.Millisecond,
		Autoplay:   readerAutoplay,
		Watch:      readerWatch,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func applyStoredRate(ctx context.Context, st *store.Store, target *int) {
	if ctx == nil {
		ctx = context.Background()
	}
	value, ok, err := st.GetSetting(ctx, store.PreferredRateKey)
	if err != nil {
		log.Warn("failed to read preferred rate", "err", err)
		return
	}
	if !ok {
		return
	}
	rate, err := strconv.Atoi(value)
	if err != nil {
		log.Warn("ignoring malformed preferred rate", "value", value)
		return
	}
	*target = rate
}

// loadDocument picks the text source: clipboard, a file, or piped stdin.
func loadDocument(args []string, fromClipboard bool) (document.Document, bool, error) {
	switch {
	case fromClipboard:
		if len(args) > 0 {
			return document.Document{}, false, fmt.Errorf("--clipboard cannot be combined with a file argument")
		}
		doc, err := document.FromClipboard()
		return doc, false, err
	case len(args) == 0 || args[0] == "-":
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return document.Document{}, false, fmt.Errorf("nothing to read: pass a file, pipe text on stdin, or use --clipboard")
		}
		doc, err := document.Read(os.Stdin, "stdin")
		return doc, true, err
	default:
		doc, err := document.Load(args[0])
		if errors.Is(err, document.ErrUnsupportedType) {
			return document.Document{}, false, fmt.Errorf("%w (supported: .txt, .md, .markdown, optionally .gz)", err)
		}
		return doc, false, err
	}
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show reading history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSource, "source", "", "only sessions read from this source")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsFormat, "format", stats.FormatText, "output format: text, json or yaml")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}
	switch statsFormat {
	case stats.FormatText, stats.FormatJSON, stats.FormatYAML:
	default:
		return fmt.Errorf("--format must be one of text, json, yaml")
	}

	cfg := model.StatsConfig{
		Source:      statsSource,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error("failed to close db", "err", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	interactive := !cmd.Flags().Changed("format") && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if statsFormat == stats.FormatText {
		return stats.Render(out, report, stats.TerminalWidth())
	}
	return stats.Export(out, report, statsFormat)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := config.EnsureConfig(path); err != nil {
		return err
	}
	c, err := editor.Cmd("tuiread", path)
	if err != nil {
		return fmt.Errorf("failed to prepare editor: %w", err)
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		return fmt.Errorf("config saved but invalid: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Config file:", path)
	return err
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	if cfg.MinWPM <= 0 {
		return fmt.Errorf("--min-wpm must be > 0")
	}
	if cfg.MaxWPM < cfg.MinWPM {
		return fmt.Errorf("--max-wpm must be >= --min-wpm")
	}
	if cfg.WPM <= 0 {
		return fmt.Errorf("--wpm must be > 0")
	}
	if cfg.WPMStep <= 0 {
		return fmt.Errorf("--step must be > 0")
	}
	if cfg.Frame <= 0 {
		return fmt.Errorf("--frame-ms must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
