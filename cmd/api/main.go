package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pawnshop-ledger/internal/config"
	"pawnshop-ledger/internal/infrastructure/db"
	"pawnshop-ledger/internal/infrastructure/logging"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "pawnshop",
	Short:         "Pawn-loan ledger service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap loads config, installs the default logger and opens the database.
func bootstrap(ctx context.Context) (*config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(log)

	gdb, err := db.OpenGorm(ctx, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("db connect: %w", err)
	}
	return cfg, log, gdb, nil
}
