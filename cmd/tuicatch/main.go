// Package main provides the CLI entrypoint for tuicatch.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuicatch/internal/config"
	"github.com/verte-zerg/tuicatch/internal/difficulty"
	"github.com/verte-zerg/tuicatch/internal/generator"
	"github.com/verte-zerg/tuicatch/internal/model"
	"github.com/verte-zerg/tuicatch/internal/session"
	"github.com/verte-zerg/tuicatch/internal/sound"
	"github.com/verte-zerg/tuicatch/internal/store"
	"github.com/verte-zerg/tuicatch/internal/tui"
	"github.com/verte-zerg/tuicatch/internal/wordlist"
)

const (
	defaultLang            = "en"
	defaultTick            = 180 * time.Millisecond
	defaultCompletionDelay = 600 * time.Millisecond
	defaultSoundVolume     = 0.4
	defaultLogLevel        = "info"
)

var (
	playLang            string
	playWordList        string
	playTick            time.Duration
	playDuration        time.Duration
	playAdaptive        bool
	playShowCompletion  bool
	playShowProgression bool
	playMinLength       int
	playMaxLength       int
	playStartLength     int
	playPerfectStreak   int
	playSound           bool

	logLevel string
	logFile  string
)

func main() {
	_ = godotenv.Load()
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuicatch",
		Short:         "Catch falling letters to spell the target word",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&playLang, "lang", defaultLang, "language code of the word list")
	flags.StringVar(&playWordList, "word-list", "", "path to a word list (one word per line)")
	flags.DurationVar(&playTick, "tick", defaultTick, "time between board steps")
	flags.DurationVar(&playDuration, "duration", 0, "session length (0 for unlimited)")
	flags.BoolVar(&playAdaptive, "adaptive", true, "adjust word length from round results")
	flags.BoolVar(&playShowCompletion, "show-completion", true, "show the round completion screen")
	flags.BoolVar(&playShowProgression, "show-progression", true, "show level changes between rounds")
	flags.IntVar(&playMinLength, "min-length", difficulty.DefaultMinWordLength, "shortest target word")
	flags.IntVar(&playMaxLength, "max-length", difficulty.DefaultMaxWordLength, "longest target word")
	flags.IntVar(&playStartLength, "start-length", difficulty.DefaultMinWordLength, "word length of the first round")
	flags.IntVar(&playPerfectStreak, "perfect-streak", difficulty.DefaultPerfectStreakRequired, "perfect rounds needed to level up")
	flags.BoolVar(&playSound, "sound", true, "play sound cues")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("TUICATCH_LOG_LEVEL", defaultLogLevel), "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", os.Getenv("TUICATCH_LOG_FILE"), "write logs to this file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newWordsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := resolvePlayConfig(cmd, fileCfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tuicatch needs an interactive terminal")
	}

	words, err := loadCorpus(cfg)
	if err != nil {
		return err
	}
	pool := wordlist.BuildPool(wordlist.Filter(words, wordlist.FilterForLang(cfg.Lang)))
	if pool.Size() == 0 {
		return fmt.Errorf("word list has no usable words for language %q", cfg.Lang)
	}

	ledger, err := store.OpenMemory()
	if err != nil {
		return fmt.Errorf("failed to open round ledger: %w", err)
	}
	defer func() {
		if cerr := ledger.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close round ledger")
		}
	}()

	player := newPlayer(cfg, logger)
	defer player.Close()

	sess, err := session.New(cfg, session.Deps{
		Pool:   pool,
		Gen:    generator.New(),
		Sound:  player,
		Ledger: ledger,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	program := tea.NewProgram(tui.NewModel(cfg, sess, ledger, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	sess.Stop()

	if err := sess.WriteSummary(context.Background(), cmd.OutOrStdout()); err != nil {
		logger.Error().Err(err).Msg("failed to write summary")
	}
	return nil
}

func resolvePlayConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.Config {
	game := fileCfg.Game
	applyConfig(cmd, "lang", &playLang, game.Lang)
	applyConfig(cmd, "word-list", &playWordList, game.WordList)
	applyDurationConfig(cmd, "tick", &playTick, game.Tick)
	applyDurationConfig(cmd, "duration", &playDuration, game.Duration)
	applyConfig(cmd, "adaptive", &playAdaptive, game.Adaptive)
	applyConfig(cmd, "show-completion", &playShowCompletion, game.ShowCompletion)
	applyConfig(cmd, "show-progression", &playShowProgression, game.ShowProgression)
	applyConfig(cmd, "min-length", &playMinLength, game.MinLength)
	applyConfig(cmd, "max-length", &playMaxLength, game.MaxLength)
	applyConfig(cmd, "start-length", &playStartLength, game.StartLength)
	applyConfig(cmd, "perfect-streak", &playPerfectStreak, game.PerfectStreak)
	applyConfig(cmd, "sound", &playSound, game.Sound)

	return model.Config{
		Lang:            playLang,
		TickInterval:    playTick,
		Duration:        playDuration,
		Adaptive:        playAdaptive,
		ShowCompletion:  playShowCompletion,
		ShowProgression: playShowProgression,
		MinWordLength:   playMinLength,
		MaxWordLength:   playMaxLength,
		StartWordLength: playStartLength,
		PerfectStreak:   playPerfectStreak,
		CompletionDelay: defaultCompletionDelay,
		Sound:           playSound,
		WordListPath:    playWordList,
	}
}

func validateConfig(cfg model.Config) error {
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("--tick must be > 0")
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("--duration must be >= 0")
	}
	if cfg.MinWordLength <= 0 {
		return fmt.Errorf("--min-length must be > 0")
	}
	if cfg.MaxWordLength < cfg.MinWordLength {
		return fmt.Errorf("--max-length must be >= --min-length")
	}
	if cfg.PerfectStreak <= 0 {
		return fmt.Errorf("--perfect-streak must be > 0")
	}
	if cfg.Lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	return nil
}

// loadCorpus reads the explicit word list, then the downloaded list for the
// language, then falls back to the built-in English words.
func loadCorpus(cfg model.Config) ([]string, error) {
	if cfg.WordListPath != "" {
		words, err := wordlist.LoadWords(cfg.WordListPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load word list %s: %w", cfg.WordListPath, err)
		}
		return words, nil
	}
	path := config.DefaultWordListPath(cfg.Lang)
	words, err := wordlist.LoadWords(path)
	if err == nil {
		return words, nil
	}
	if os.IsNotExist(err) && cfg.Lang == defaultLang {
		return wordlist.DefaultCorpus(), nil
	}
	return nil, wordListLoadError(cfg.Lang, path, err)
}

func newPlayer(cfg model.Config, logger zerolog.Logger) sound.Player {
	if !cfg.Sound {
		return sound.Nop{}
	}
	player, err := sound.NewBeepPlayer(defaultSoundVolume)
	if err != nil {
		logger.Warn().Err(err).Msg("sound unavailable, continuing without cues")
		return sound.Nop{}
	}
	return player
}

// newLogger logs to a file only; the alt screen owns the terminal while playing.
func newLogger(cmd *cobra.Command, fileCfg config.FileConfig) (zerolog.Logger, func(), error) {
	applyConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("invalid --log-level: %w", err)
	}
	if logFile == "" {
		return zerolog.Nop(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	return logger, func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}, nil
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
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	langs, err := listLangs(config.DefaultWordListDir())
	if err != nil {
		return err
	}
	return printLines(cmd.OutOrStdout(), langs)
}

// listLangs returns the languages with a word list in dir plus the built-in one.
func listLangs(dir string) ([]string, error) {
	set := map[string]struct{}{defaultLang: {}}
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read word list directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}
		set[strings.TrimSuffix(name, ".txt")] = struct{}{}
	}
	langs := make([]string, 0, len(set))
	for lang := range set {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Show how many words the active word list has per length",
		Args:  cobra.NoArgs,
		RunE:  runWordsCmd,
	}
	cmd.Flags().StringVar(&playLang, "lang", defaultLang, "language code of the word list")
	cmd.Flags().StringVar(&playWordList, "word-list", "", "path to a word list (one word per line)")
	return cmd
}

func runWordsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "lang", &playLang, fileCfg.Game.Lang)
	applyConfig(cmd, "word-list", &playWordList, fileCfg.Game.WordList)
	cfg := model.Config{Lang: playLang, WordListPath: playWordList}
	words, err := loadCorpus(cfg)
	if err != nil {
		return err
	}
	pool := wordlist.BuildPool(wordlist.Filter(words, wordlist.FilterForLang(cfg.Lang)))
	return printLines(cmd.OutOrStdout(), poolHistogram(pool))
}

func poolHistogram(pool wordlist.Pool) []string {
	lengths := pool.Lengths()
	if len(lengths) == 0 {
		return []string{"No usable words."}
	}
	lines := make([]string, 0, len(lengths)+1)
	for _, n := range lengths {
		lines = append(lines, fmt.Sprintf("%2d letters: %d words", n, len(pool[n])))
	}
	return append(lines, fmt.Sprintf("total: %d words", pool.Size()))
}

func printLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *config.Duration) {
	if value == nil {
		return
	}
	applyConfig(cmd, name, target, &value.Duration)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuicatch configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# lang = %q               # Word list language
# word-list = ""            # Explicit word list path
# tick = %q             # Time between board steps
# duration = "0s"           # Session length, 0s for unlimited
# adaptive = true           # Adjust word length from round results
# show-completion = true    # Show the round completion screen
# show-progression = true   # Show level changes between rounds
# min-length = %d            # Shortest target word
# max-length = %d           # Longest target word
# start-length = %d          # Word length of the first round
# perfect-streak = %d        # Perfect rounds needed to level up
# sound = true              # Play sound cues

[log]
# level = %q            # debug, info, warn, error
# file = %q
`,
		defaultLang,
		defaultTick.String(),
		difficulty.DefaultMinWordLength,
		difficulty.DefaultMaxWordLength,
		difficulty.DefaultMinWordLength,
		difficulty.DefaultPerfectStreakRequired,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: tuicatch langs",
		"Or pass one explicitly: tuicatch --word-list <file>",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
