package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evindahl/punchcard/internal/api"
	"github.com/evindahl/punchcard/internal/config"
	"github.com/evindahl/punchcard/internal/metrics"
	"github.com/evindahl/punchcard/internal/project"
	"github.com/evindahl/punchcard/internal/ratelimit"
	"github.com/evindahl/punchcard/internal/stats"
	"github.com/evindahl/punchcard/internal/team"
	"github.com/evindahl/punchcard/internal/ticket"
	"github.com/evindahl/punchcard/internal/tracking"
	"github.com/evindahl/punchcard/internal/user"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Punchcard server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	userStore := user.NewStore(pool)
	teamStore := team.NewStore(pool)
	projectStore := project.NewStore(pool)
	ticketStore := ticket.NewStore(pool)
	trackingStore := tracking.NewStore(pool)
	statsStore := stats.NewStore(pool)

	trackingService := tracking.NewService(trackingStore, trackingStore, ticketStore)
	statsService := stats.NewService(statsStore, cfg.Stats.DefaultRangeDays, cfg.Stats.TopProjectsLimit)

	limiter := ratelimit.New(cfg.RateLimit.Default, cfg.RateLimit.Window)

	m := metrics.New()
	m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
		st := pool.Stat()
		return st.TotalConns(), st.IdleConns(), st.AcquiredConns()
	})

	// Expired sessions accumulate; sweep them in the background.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := userStore.CleanExpiredSessions(ctx); err != nil {
					slog.Warn("session cleanup failed", "error", err)
				} else if n > 0 {
					slog.Info("cleaned expired sessions", "count", n)
				}
			}
		}
	}()

	router := api.NewRouter(api.RouterDeps{
		Users:          userStore,
		Sessions:       user.NewAuthAdapter(userStore),
		Teams:          teamStore,
		Projects:       projectStore,
		Tickets:        ticketStore,
		Tracking:       trackingService,
		TrackingStore:  trackingStore,
		Stats:          statsService,
		WorkLogs:       statsStore,
		Limiter:        limiter,
		Metrics:        m,
		DBPool:         pool,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
