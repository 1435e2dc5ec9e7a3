// Package main provides the CLI entrypoint for tuifit.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/verte-zerg/tuifit/internal/app"
	"github.com/verte-zerg/tuifit/internal/config"
	"github.com/verte-zerg/tuifit/internal/kv"
	"github.com/verte-zerg/tuifit/internal/logging"
	"github.com/verte-zerg/tuifit/internal/metrics"
	"github.com/verte-zerg/tuifit/internal/model"
	"github.com/verte-zerg/tuifit/internal/session"
	"github.com/verte-zerg/tuifit/internal/tui"
)

const (
	defaultLogLevel    = "info"
	defaultRedisPrefix = ""
	closeTimeout       = 5 * time.Second
)

var (
	storageBackend   string
	storagePath      string
	storageEphemeral bool
	redisAddr        string
	redisPassword    string
	redisDB          int
	redisPrefix      string

	logLevel        string
	logFile         string
	logJSON         bool
	metricsTextfile string
	noBell          bool

	sessionRest    = session.DefaultRestSeconds
	sessionRoutine string
	timerSeconds   = session.DefaultTimerSeconds
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuifit",
		Short:         "TUI workout tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runWorkoutCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&storageBackend, "backend", kv.BackendSQLite, "storage backend (sqlite, redis, memory)")
	pf.StringVar(&storagePath, "db", config.DefaultDBPath(), "sqlite database path")
	pf.BoolVar(&storageEphemeral, "ephemeral", false, "keep everything in memory for this run")
	pf.StringVar(&redisAddr, "redis-addr", "", "redis address (host:port)")
	pf.StringVar(&redisPassword, "redis-password", "", "redis password")
	pf.IntVar(&redisDB, "redis-db", 0, "redis database number")
	pf.StringVar(&redisPrefix, "redis-prefix", defaultRedisPrefix, "prefix for redis keys")
	pf.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (trace, debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", config.DefaultLogPath(), "log file path (empty disables logging)")
	pf.BoolVar(&logJSON, "log-json", false, "write logs as JSON")
	pf.StringVar(&metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")
	pf.BoolVar(&noBell, "no-bell", false, "do not ring the terminal bell on timer events")

	rootCmd.Flags().StringVar(&sessionRoutine, "routine", "", "open this routine directly")
	rootCmd.Flags().IntVar(&sessionRest, "rest", session.DefaultRestSeconds, "rest in seconds for exercises without one")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newExercisesCmd())
	rootCmd.AddCommand(newRoutinesCmd())
	rootCmd.AddCommand(newTimerCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newReportCmd())

	return rootCmd
}

func runWorkoutCmd(cmd *cobra.Command, _ []string) error {
	env, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer env.close()

	opts := []tui.Option{tui.WithLogger(env.log)}
	if sessionRoutine != "" {
		if _, ok := env.state.Routines.Get(sessionRoutine); !ok {
			return fmt.Errorf("%w: %q", app.ErrUnknownRoutine, sessionRoutine)
		}
		opts = append(opts, tui.StartInRoutine(sessionRoutine))
	}
	program := tea.NewProgram(tui.NewModel(env.state, opts...), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newTimerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Run the quick timer",
		Args:  cobra.NoArgs,
		RunE:  runTimerCmd,
	}
	cmd.Flags().IntVar(&timerSeconds, "seconds", session.DefaultTimerSeconds, "initial timer length in seconds")
	return cmd
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	env, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer env.close()

	program := tea.NewProgram(tui.NewModel(env.state, tui.WithLogger(env.log), tui.StartInTimer()), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run timer: %w", err)
	}
	return nil
}

// env is everything a command needs: the opened state plus the resources to
// release when the command ends.
type env struct {
	state     *app.State
	metrics   *metrics.Manager
	log       logrus.FieldLogger
	logCloser io.Closer
	textfile  string
}

func openEnv(cmd *cobra.Command, interactive bool) (*env, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "backend", &storageBackend, fileCfg.Storage.Backend)
	applyStringConfig(cmd, "db", &storagePath, fileCfg.Storage.Path)
	applyStringConfig(cmd, "redis-addr", &redisAddr, fileCfg.Storage.RedisAddr)
	applyStringConfig(cmd, "redis-password", &redisPassword, fileCfg.Storage.RedisPassword)
	applyIntConfig(cmd, "redis-db", &redisDB, fileCfg.Storage.RedisDB)
	applyStringConfig(cmd, "redis-prefix", &redisPrefix, fileCfg.Storage.RedisPrefix)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	applyBoolConfig(cmd, "log-json", &logJSON, fileCfg.Log.JSON)
	applyStringConfig(cmd, "metrics-textfile", &metricsTextfile, fileCfg.Metrics.Textfile)
	applyIntConfig(cmd, "rest", &sessionRest, fileCfg.Session.DefaultRest)
	applyIntConfig(cmd, "seconds", &timerSeconds, fileCfg.Timer.DefaultSeconds)

	if sessionRest < 0 {
		return nil, fmt.Errorf("--rest must be >= 0")
	}
	if timerSeconds <= 0 {
		return nil, fmt.Errorf("--seconds must be > 0")
	}

	closer := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   logFile,
		LogLevel:      logLevel,
		LogToStderr:   !interactive,
		LogFormatJSON: logJSON,
	})
	logger := logrus.WithField("cmd", cmd.Name())

	var feedback session.Feedback = logFeedback{log: logger}
	if interactive && !noBell {
		feedback = bellFeedback{log: logger, out: os.Stderr}
	}

	m := metrics.NewManager()
	st, err := app.Open(cmd.Context(), app.Options{
		Storage: kv.Options{
			Backend:     storageBackend,
			Path:        storagePath,
			RedisAddr:   redisAddr,
			RedisPass:   redisPassword,
			RedisDB:     redisDB,
			RedisPrefix: redisPrefix,
		},
		Metrics:  m,
		Logger:   logger,
		Feedback: feedback,
		Session: model.Config{
			DefaultRest:  sessionRest,
			TimerSeconds: timerSeconds,
			Ephemeral:    storageEphemeral,
		},
	})
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	return &env{
		state:     st,
		metrics:   m,
		log:       logger,
		logCloser: closer,
		textfile:  metricsTextfile,
	}, nil
}

// close flushes pending writes and releases everything openEnv acquired. Errors
// are reported on stderr; the command's own result stands.
func (e *env) close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	err := e.state.Close(ctx)
	if e.textfile != "" {
		if werr := e.metrics.WriteTextfile(e.textfile); werr != nil {
			err = multierr.Append(err, werr)
		}
	}
	if err != nil {
		e.log.WithError(err).Error("failed to close state")
		logErrf("failed to save: %v\n", err)
	}
	if cerr := e.logCloser.Close(); cerr != nil {
		logErrf("failed to close log: %v\n", cerr)
	}
}

// logFeedback records session signals in the log.
type logFeedback struct {
	log logrus.FieldLogger
}

func (f logFeedback) Signal(s session.Signal) {
	f.log.WithField("signal", s.String()).Debug("feedback")
}

// bellFeedback also rings the terminal bell when a countdown ends or a workout
// completes.
type bellFeedback struct {
	log logrus.FieldLogger
	out io.Writer
}

func (f bellFeedback) Signal(s session.Signal) {
	f.log.WithField("signal", s.String()).Debug("feedback")
	switch s {
	case session.RestFinished, session.TimerDone, session.WorkoutCompleted:
		if _, err := io.WriteString(f.out, "\a"); err != nil {
			// Best-effort bell.
			_ = err
		}
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings and when each record was last saved",
		Args:  cobra.NoArgs,
		RunE:  runConfigShowCmd,
	})
	return cmd
}

func runConfigShowCmd(cmd *cobra.Command, _ []string) error {
	env, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.close()

	backend := storageBackend
	if storageEphemeral {
		backend = kv.BackendMemory
	}
	rows := [][]string{
		{"config", config.DefaultConfigPath()},
		{"backend", backend},
	}
	switch backend {
	case kv.BackendSQLite:
		rows = append(rows, []string{"database", storagePath})
	case kv.BackendRedis:
		rows = append(rows, []string{"redis", redisAddr})
	}
	rows = append(rows,
		[]string{"default rest", fmt.Sprintf("%ds", sessionRest)},
		[]string{"timer", session.FormatClock(timerSeconds)},
		[]string{"log file", orNone(logFile)},
		[]string{"metrics textfile", orNone(metricsTextfile)},
	)
	out := cmd.OutOrStdout()
	if err := writeTable(out, []string{"Setting", "Value"}, rows); err != nil {
		return err
	}

	saved, ok, err := env.state.LastSaved(cmd.Context())
	if err != nil {
		return err
	}
	if !ok {
		return writeLine(out, "Last saved times are not recorded by this backend.")
	}
	savedRows := make([][]string, 0, len(kv.Keys))
	for _, key := range kv.Keys {
		when := "never"
		if at, found := saved[key]; found {
			when = at.Local().Format("2006-01-02 15:04:05")
		}
		savedRows = append(savedRows, []string{key, when})
	}
	return writeTable(out, []string{"Record", "Last saved"}, savedRows)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
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

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuifit configuration
# Uncomment a value to enable it. CLI flags override config values.

[storage]
# backend = %q          # sqlite, redis or memory
# path = %q
# redis-addr = "localhost:6379"
# redis-password = ""
# redis-db = 0
# redis-prefix = ""

[session]
# default-rest = %d        # Rest in seconds for exercises without one

[timer]
# default-seconds = %d     # Quick timer length

[log]
# level = %q
# file = %q
# json = false

[metrics]
# textfile = ""            # Prometheus textfile written on exit
`,
		kv.BackendSQLite,
		config.DefaultDBPath(),
		session.DefaultRestSeconds,
		session.DefaultTimerSeconds,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
