package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	httpadp "pawnshop-ledger/internal/adapter/http"
	"pawnshop-ledger/internal/adapter/middleware"
	"pawnshop-ledger/internal/adapter/notifier"
	"pawnshop-ledger/internal/adapter/repository/gormrepo"
	"pawnshop-ledger/internal/domain/notify"
	"pawnshop-ledger/internal/infrastructure/cache"
	"pawnshop-ledger/internal/infrastructure/metrics"
	"pawnshop-ledger/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("migrate", true, "Create or update tables before serving")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, gdb, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := gormrepo.AutoMigrate(gdb); err != nil {
			return err
		}
	}

	rdb, err := cache.OpenRedis(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	settings, err := cfg.Ledger()
	if err != nil {
		return err
	}

	var sink notify.Sink = notifier.NewLogSink(log)
	var idem echo.MiddlewareFunc
	if rdb != nil {
		defer rdb.Close()
		sink = notifier.NewRedisSink(rdb, cfg.NotifyChannel)
		idem = middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)
	} else {
		log.Warn("redis disabled: notifications go to the log and idempotency keys are not enforced")
	}

	obs := metrics.New(prometheus.DefaultRegisterer)
	eng := ledger.NewEngine(gormrepo.NewGormUoW(gdb), settings,
		ledger.WithLogger(log),
		ledger.WithNotifier(sink),
		ledger.WithObserver(obs),
	)
	// seeds the capital gauge and flags a diverged ledger early
	rep, err := eng.GetCurrentCapital(cmd.Context())
	if err != nil {
		return err
	}
	log.Info("ledger ready", "capital", rep.Capital.String(), "consistent", rep.Consistent)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	httpadp.NewHandler(eng, log).Routes(e, idem, promhttp.Handler())

	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-cmd.Context().Done()

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
