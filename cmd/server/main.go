package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personnel_app_go/config"
	"personnel_app_go/db"
	"personnel_app_go/handlers"
	"personnel_app_go/logger"
	"personnel_app_go/metrics"
	"personnel_app_go/middleware"
	"personnel_app_go/services"
	"personnel_app_go/services/jobs"

	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	snapshotDate string
	skipSeed     bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(cfg *config.Config, database *gorm.DB) error {
				return nil
			})
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Seed units, reference data and the admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(cfg *config.Config, database *gorm.DB) error {
				return services.SeedAll(database, cfg)
			})
		},
	}

	snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "Record the daily situation of every unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now()
			if snapshotDate != "" {
				d, err := services.ParseDate(snapshotDate)
				if err != nil {
					return err
				}
				date = d
			}
			return withDatabase(func(cfg *config.Config, database *gorm.DB) error {
				_, err := jobs.RecordDailySituations(database, date)
				return err
			})
		},
	}

	rootCmd = &cobra.Command{
		Use:   "personnel-server",
		Short: "Personnel management API",
		Long:  `Personnel management API for institutes, central directorates and command posts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
		SilenceUsage: true,
	}
)

func init() {
	snapshotCmd.Flags().StringVar(&snapshotDate, "date", "", "day to record (YYYY-MM-DD), defaults to today")
	serveCmd.Flags().BoolVar(&skipSeed, "no-seed", false, "skip seeding even when SEED_ON_START is set")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, snapshotCmd)
}

// bootstrap loads the configuration and installs the global logger
func bootstrap() (*config.Config, error) {
	cfg := config.Load()

	zapLogger, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	zap.ReplaceGlobals(zapLogger)
	return cfg, nil
}

// withDatabase opens and migrates the database, runs fn, then closes it
func withDatabase(fn func(cfg *config.Config, database *gorm.DB) error) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	defer zap.L().Sync()

	database, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close(database)

	if err := db.Migrate(database); err != nil {
		return err
	}
	return fn(cfg, database)
}

func serve() error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	defer zap.L().Sync()

	database, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close(database)

	if err := db.Migrate(database); err != nil {
		return err
	}

	if cfg.SeedOnStart && !skipSeed {
		if err := services.SeedAll(database, cfg); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration, cfg.ResetTokenExpiration)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	m := metrics.New(cfg.MetricsNamespace)

	scheduler, err := jobs.NewScheduler(database, cfg)
	if err != nil {
		return err
	}
	scheduler.OnRecorded(m.SnapshotsRecorded)
	scheduler.Start()

	limiters := handlers.NewRateLimiters()
	monitor := services.NewSecurityMonitor(database, cfg)

	e := handlers.NewEcho()
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestLogger(zap.L()))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))
	e.Use(echomiddleware.BodyLimit("2M"))
	e.Use(m.Middleware())

	h := handlers.New(database, cfg, tokens, m)
	h.Monitor = monitor
	handlers.RegisterRoutes(e, h, limiters)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zap.L().Info("Server starting", zap.String("port", cfg.ServerPort), zap.String("env", cfg.Environment))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("Server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	limiters.Stop()
	monitor.Stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
