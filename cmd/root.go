package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studypulse/internal/config"
	"github.com/abhisek/studypulse/internal/performance"
	"github.com/abhisek/studypulse/internal/session"
	"github.com/abhisek/studypulse/internal/store"
)

// cfg is resolved once per invocation in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "studypulse",
	Short:         "Adaptive study performance tracker",
	Long:          "StudyPulse tracks answer batches per study session and reports mastery, strain, stress and weaknesses.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			loaded.LogLevel = lvl
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		cfg = loaded

		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
		slog.SetDefault(logger)
		return nil
	},
}

func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STUDYPULSE_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides STUDYPULSE_CONFIG env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides STUDYPULSE_LOG_LEVEL)")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(weaknessesCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(stressCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then STUDYPULSE_DB or the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openService opens the store and builds the session service. The returned
// close function releases the store.
func openService(cmd *cobra.Command) (*session.Service, func(), error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	engine := performance.NewEngine(cfg.Policy)
	svc := session.NewService(st.SessionRepo(), st.EventRepo(), engine, slog.Default())
	return svc, func() { st.Close() }, nil
}
