// Package main provides the CLI entrypoint for workmanship.
package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/workmanship/internal/config"
	"github.com/verte-zerg/workmanship/internal/generator"
	"github.com/verte-zerg/workmanship/internal/layout"
	"github.com/verte-zerg/workmanship/internal/lessons"
	"github.com/verte-zerg/workmanship/internal/logging"
	"github.com/verte-zerg/workmanship/internal/menu"
	"github.com/verte-zerg/workmanship/internal/model"
	"github.com/verte-zerg/workmanship/internal/scoresui"
	"github.com/verte-zerg/workmanship/internal/stats"
	"github.com/verte-zerg/workmanship/internal/store"
	"github.com/verte-zerg/workmanship/internal/tui"
	"github.com/verte-zerg/workmanship/internal/wordlist"
)

const (
	defaultLayout      = layout.Dvorak
	defaultWords       = 30
	defaultCaps        = 0.0
	defaultPunct       = 0.0
	defaultLineWidth   = 60
	defaultScoreWindow = 10
	defaultTermWidth   = 80
)

const drillTitle = "Drill"

var (
	rootLayout  string
	rootBeep    bool
	rootLessons string
	rootDebug   bool

	layoutsLayout string

	convertFrom string
	convertTo   []string
	convertIn   string
	convertOut  string

	drillLayout    string
	drillWords     int
	drillWordList  string
	drillCaps      float64
	drillPunct     float64
	drillLineWidth int

	scoresLayout string
	scoresLesson string
	scoresSince  string
	scoresLast   int
	scoresWindow int
	scoresPlain  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "workmanship",
		Short:         "Typing tutor for alternative keyboard layouts",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runMenuCmd,
	}

	rootCmd.Flags().StringVar(&rootLayout, "layout", defaultLayout, "selected layout")
	rootCmd.Flags().BoolVar(&rootBeep, "beep", false, "beep on typing errors")
	rootCmd.PersistentFlags().StringVar(&rootLessons, "lessons", "", "lessons file (default: built-in lessons)")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "write debug entries to the log file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLayoutsCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newDrillCmd())
	rootCmd.AddCommand(newScoresCmd())

	return rootCmd
}

func runMenuCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	prefsPath := config.DefaultPrefsPath()
	saved, err := config.LoadPrefs(prefsPath)
	if err != nil {
		return fmt.Errorf("failed to load prefs: %w", err)
	}
	// Saved selections override config.toml, flags override both.
	for _, prefs := range []config.PrefsConfig{fileCfg.Prefs, saved} {
		applyStringConfig(cmd, "layout", &rootLayout, prefs.Layout)
		applyBoolConfig(cmd, "beep", &rootBeep, prefs.Beep)
	}
	applyStringConfig(cmd, "lessons", &rootLessons, fileCfg.Prefs.Lessons)

	settings := model.Settings{
		Layout:      rootLayout,
		Beep:        rootBeep,
		LessonsPath: rootLessons,
	}
	catalog, err := loadCatalog(settings.LessonsPath)
	if err != nil {
		return err
	}

	log := openLogger()
	defer log.Sync()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	app, err := tui.NewApp(catalog, settings, st, log)
	if err != nil {
		return fmt.Errorf("failed to build menu: %w", err)
	}
	log.Info("menu started", "layout", app.Settings().Layout, "lessons", settings.LessonsPath)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if app.Aborted() {
		log.Info("menu aborted, prefs not saved")
		return nil
	}

	final := app.Settings()
	if err := config.SavePrefs(prefsPath, config.PrefsConfig{
		Layout: &final.Layout,
		Beep:   &final.Beep,
	}); err != nil {
		return err
	}
	log.Info("prefs saved", "path", prefsPath, "layout", final.Layout, "beep", final.Beep)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLayoutsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "List layouts, or the lessons of one layout",
		Args:  cobra.NoArgs,
		RunE:  runLayoutsCmd,
	}
	cmd.Flags().StringVar(&layoutsLayout, "layout", "", "list the lessons of this layout")
	return cmd
}

func runLayoutsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lessons", &rootLessons, fileCfg.Prefs.Lessons)
	catalog, err := loadCatalog(rootLessons)
	if err != nil {
		return err
	}

	entries := make([]menu.Entry, 0)
	if layoutsLayout == "" {
		for _, l := range catalog.Layouts {
			entries = append(entries, menu.Entry{
				Key:   l.Key,
				Title: fmt.Sprintf("%s (%d lessons)", l.Title, len(l.Lessons)),
			})
		}
	} else {
		l, ok := catalog.Layout(layoutsLayout)
		if !ok {
			return fmt.Errorf("unknown layout %q (available: %s)", layoutsLayout, strings.Join(catalog.Titles(), ", "))
		}
		for _, lesson := range l.Lessons {
			entries = append(entries, menu.Entry{Title: lesson.Title})
		}
	}
	m, err := menu.New(entries...)
	if err != nil {
		return err
	}

	const gutter = "  "
	grid, err := menu.Tabulate(m.Labels(), terminalWidth(), math.MaxInt32, 0, gutter)
	if err != nil {
		return err
	}
	for _, line := range grid.Lines(gutter, func(text string, _ menu.Style) string { return text }) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newDrillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Type a random drill built from a word list",
		Args:  cobra.NoArgs,
		RunE:  runDrillCmd,
	}
	cmd.Flags().StringVar(&drillLayout, "layout", defaultLayout, "layout whose characters the drill may use")
	cmd.Flags().IntVar(&drillWords, "words", defaultWords, "words per drill")
	cmd.Flags().StringVar(&drillWordList, "wordlist", "", "word list file, one word per line (default: built-in list)")
	cmd.Flags().Float64Var(&drillCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	cmd.Flags().Float64Var(&drillPunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	cmd.Flags().IntVar(&drillLineWidth, "line-width", defaultLineWidth, "maximum characters per drill line")
	cmd.Flags().BoolVar(&rootBeep, "beep", false, "beep on typing errors")
	return cmd
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	saved, err := config.LoadPrefs(config.DefaultPrefsPath())
	if err != nil {
		return fmt.Errorf("failed to load prefs: %w", err)
	}
	for _, prefs := range []config.PrefsConfig{fileCfg.Prefs, saved} {
		applyStringConfig(cmd, "layout", &drillLayout, prefs.Layout)
		applyBoolConfig(cmd, "beep", &rootBeep, prefs.Beep)
	}
	applyIntConfig(cmd, "words", &drillWords, fileCfg.Drill.Words)
	applyStringConfig(cmd, "wordlist", &drillWordList, fileCfg.Drill.WordList)
	applyFloatConfig(cmd, "caps", &drillCaps, fileCfg.Drill.CapsPct)
	applyFloatConfig(cmd, "punct", &drillPunct, fileCfg.Drill.PunctPct)
	applyIntConfig(cmd, "line-width", &drillLineWidth, fileCfg.Drill.LineWidth)

	cfg := model.DrillConfig{
		Layout:       drillLayout,
		WordListPath: drillWordList,
		Words:        drillWords,
		CapsPct:      drillCaps,
		PunctPct:     drillPunct,
		LineWidth:    drillLineWidth,
	}
	if err := validateDrillConfig(cfg); err != nil {
		return err
	}
	table, err := layout.Lookup(cfg.Layout)
	if err != nil {
		return err
	}

	words, err := loadDrillWords(cfg.WordListPath)
	if err != nil {
		return err
	}
	words = wordlist.Filter(words, wordlist.FilterForCharset(table.Charset()))
	text, err := generator.New().Drill(words, generator.Options{
		Words:     cfg.Words,
		CapsPct:   cfg.CapsPct,
		PunctPct:  cfg.PunctPct,
		PunctSet:  generator.Punctuation(table),
		LineWidth: cfg.LineWidth,
	})
	if err != nil {
		return fmt.Errorf("no words of the list can be typed on %s: %w", cfg.Layout, err)
	}

	log := openLogger()
	defer log.Sync()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	settings := model.Settings{Layout: cfg.Layout, Beep: rootBeep}
	lesson, err := tui.NewLessonModel(cfg.Layout, drillTitle, text, settings,
		tui.StoreSink{Store: st}, tui.Standalone(), tui.WithLogger(log))
	if err != nil {
		return err
	}
	program := tea.NewProgram(lesson, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := lesson.SaveErr(); err != nil {
		logErrf("failed to save score: %v\n", err)
	}
	if snap, ok := lesson.Session().Result(); ok {
		logErrln(snap.StatusLine(lesson.Session().Total()))
	}
	return nil
}

func loadDrillWords(path string) ([]string, error) {
	if path == "" {
		path = config.DefaultWordListPath()
		if _, err := os.Stat(path); err != nil {
			return wordlist.Default(), nil
		}
	}
	words, err := wordlist.LoadWords(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list %s: %w", path, err)
	}
	return words, nil
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Browse score history",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
	cmd.Flags().StringVar(&scoresLayout, "layout", "", "layout filter")
	cmd.Flags().StringVar(&scoresLesson, "lesson", "", "lesson title filter")
	cmd.Flags().StringVar(&scoresSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&scoresLast, "last", 0, "limit to last N attempts")
	cmd.Flags().IntVar(&scoresWindow, "window", defaultScoreWindow, "moving average window")
	cmd.Flags().BoolVar(&scoresPlain, "plain", false, "print a report instead of opening the scores TUI")
	return cmd
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if scoresSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", scoresSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if scoresLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if scoresWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}

	filter := model.ScoreFilter{
		Layout: scoresLayout,
		Lesson: scoresLesson,
		Since:  sinceTime,
		Last:   scoresLast,
		Window: scoresWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if scoresPlain {
		return printScores(cmd.Context(), cmd.OutOrStdout(), st, filter)
	}
	program := tea.NewProgram(scoresui.NewModel(st, filter), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run scores TUI: %w", err)
	}
	return nil
}

func printScores(ctx context.Context, w io.Writer, st *store.Store, filter model.ScoreFilter) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, filter)
	if err != nil {
		return fmt.Errorf("failed to load scores: %w", err)
	}
	if err := stats.RenderSummary(w, report.Scores); err != nil {
		return err
	}
	if err := stats.RenderTrend(w, report.Scores, filter.Window); err != nil {
		return err
	}
	return stats.RenderLessonTable(w, report.Lessons)
}

func loadCatalog(path string) (*lessons.Catalog, error) {
	if path == "" {
		catalog, err := lessons.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in lessons: %w", err)
		}
		return catalog, nil
	}
	catalog, err := lessons.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load lessons %s: %w", path, err)
	}
	return catalog, nil
}

// openLogger falls back to a no-op logger; the TUI runs without diagnostics
// rather than failing.
func openLogger() *logging.Logger {
	log, err := logging.New(config.DefaultLogPath(), rootDebug)
	if err != nil {
		logErrf("failed to open log file: %v\n", err)
		return logging.Nop()
	}
	return log
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultTermWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
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
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# workmanship configuration
# Uncomment a value to enable it. CLI flags override config values.
# Menu selections are remembered separately in %s.

[prefs]
# layout = %q          # Selected layout
# beep = false              # Beep on typing errors
# lessons = ""              # Lessons file (default: built-in lessons)

[drill]
# words = %d                # Words per drill
# wordlist = ""             # Word list file, one word per line
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# line-width = %d           # Maximum characters per drill line
`,
		config.DefaultPrefsPath(),
		defaultLayout,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultLineWidth,
	)
}

func validateDrillConfig(cfg model.DrillConfig) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.LineWidth < 0 {
		return fmt.Errorf("--line-width must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
