package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Spok95/linetrack/internal/bot"
	"github.com/Spok95/linetrack/internal/infra/db"
	httpx "github.com/Spok95/linetrack/internal/infra/http"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and, when a token is configured, the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	a, err := openApp(ctx, memoryMode)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.pool != nil {
		if err := db.Migrate(ctx, a.cfg.Postgres.DSN, db.Up, os.Stderr); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		a.log.Info("migrations applied")
	}
	if err := a.preload(ctx); err != nil {
		return err
	}

	var gatherer prometheus.Gatherer
	if a.cfg.Metrics.Enabled {
		gatherer = a.registry
	}
	srv := httpx.New(a.cfg.HTTP.Addr, a.log, httpx.Deps{
		Production: a.production,
		Overtime:   a.overtime,
		Employees:  a.employees,
		Inputs:     a.inputs,
		Outputs:    a.outputs,
		Breakdowns: a.breakdowns,
		Location:   a.loc,
		Metrics:    a.metrics,
		Gatherer:   gatherer,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("HTTP server started", "addr", a.cfg.HTTP.Addr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if token := a.cfg.Telegram.Token; token != "" {
		api, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		a.log.Info("bot authorized", "username", api.Self.UserName)
		b := bot.New(api, a.log, bot.Deps{
			Users:       a.users,
			States:      a.states,
			Production:  a.production,
			Overtime:    a.overtime,
			AdminChatID: a.cfg.Telegram.AdminChatID,
			Location:    a.loc,
			Metrics:     a.metrics,
		})
		g.Go(func() error {
			if err := b.Run(gctx, a.cfg.Telegram.PollTimeout); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("bot: %w", err)
			}
			return nil
		})
	} else {
		a.log.Warn("telegram.token is empty, bot disabled")
	}

	err = g.Wait()
	a.log.Info("graceful shutdown complete")
	return err
}
