package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wordlestats/wordlebot/wordlebot"
	"github.com/wordlestats/wordlebot/wordlebot/logger"
	"github.com/wordlestats/wordlebot/wordlebot/migration"
)

var (
	configPath string
	from       string
	to         string
	workers    int
	dryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "copy every player's Wordle results from one storage backend to another",
	Long: `migrate reads every player's results from the --from backend and replaces
that player's results on the --to backend. Stats on the target are recomputed
from the copied results. Both backends are configured in the same config file.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "config.toml", "path to config")
	rootCmd.Flags().StringVar(&from, "from", "", "source backend (postgres, redis, mongo, file, spaces)")
	rootCmd.Flags().StringVar(&to, "to", "", "target backend (postgres, redis, mongo, file, spaces)")
	rootCmd.Flags().IntVar(&workers, "workers", 4, "players migrated in parallel")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "read the source without writing the target")
	_ = rootCmd.MarkFlagRequired("from")
	_ = rootCmd.MarkFlagRequired("to")
}

func run(cmd *cobra.Command, _ []string) error {
	if strings.EqualFold(from, to) {
		return fmt.Errorf("--from and --to are both %q", from)
	}
	for _, name := range []string{from, to} {
		if strings.EqualFold(name, wordlebot.BackendHistory) {
			return fmt.Errorf("the %s backend only lives in memory and cannot be migrated", name)
		}
	}

	cfg, err := wordlebot.LoadConfig(configPath)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(logger.NewHandler(os.Stdout, logger.Options{Level: cfg.Log.Level, NoColor: cfg.Log.NoColor})))

	ctx := cmd.Context()
	source, err := wordlebot.OpenBackend(ctx, from, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open %s: %w", from, err)
	}
	defer source.Close()

	target, err := wordlebot.OpenBackend(ctx, to, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open %s: %w", to, err)
	}
	defer target.Close()

	stats, err := migration.NewMigrator(source, target,
		migration.WithWorkers(workers),
		migration.WithDryRun(dryRun),
	).MigrateAll(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Migrated %d/%d players (%d results) from %s to %s in %s\n",
		stats.Migrated, stats.Users, stats.Results, from, to, stats.Duration)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
