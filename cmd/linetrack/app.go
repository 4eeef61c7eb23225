package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Spok95/linetrack/internal/bot"
	"github.com/Spok95/linetrack/internal/config"
	"github.com/Spok95/linetrack/internal/dialog"
	"github.com/Spok95/linetrack/internal/docstore"
	"github.com/Spok95/linetrack/internal/domain/breakdown"
	"github.com/Spok95/linetrack/internal/domain/employees"
	"github.com/Spok95/linetrack/internal/domain/inputs"
	"github.com/Spok95/linetrack/internal/domain/outputs"
	"github.com/Spok95/linetrack/internal/domain/overtime"
	"github.com/Spok95/linetrack/internal/domain/production"
	"github.com/Spok95/linetrack/internal/domain/users"
	"github.com/Spok95/linetrack/internal/infra/db"
	"github.com/Spok95/linetrack/internal/infra/logger"
	"github.com/Spok95/linetrack/internal/infra/metrics"
	"github.com/Spok95/linetrack/internal/seed"
)

// app holds the wired stores and services shared by every subcommand.
type app struct {
	cfg      config.Config
	log      *slog.Logger
	loc      *time.Location
	pool     *pgxpool.Pool
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	employees  *employees.Repo
	inputs     *inputs.Repo
	outputs    *outputs.Repo
	breakdowns *breakdown.Repo
	overtime   *overtime.Repo
	production *production.Service
	users      bot.UserStore
	states     bot.StateStore
}

func loadConfig(memory bool) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if memory {
		_, err = cfg.Location()
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// openApp connects to Postgres, or keeps everything in process when
// memory is set.
func openApp(ctx context.Context, memory bool) (*app, error) {
	cfg, err := loadConfig(memory)
	if err != nil {
		return nil, err
	}
	loc, _ := cfg.Location()
	a := &app{
		cfg:      cfg,
		log:      logger.New(cfg.App.Env),
		loc:      loc,
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(a.registry)

	if !memory {
		a.pool, err = db.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.ConnectAttempts, a.log)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		a.log.Info("db connected")
	}
	a.wire()
	return a, nil
}

func collection[T any](a *app, name string) docstore.Collection[T] {
	obs := docstore.WithObserver(a.metrics.DocumentWrite)
	if a.pool == nil {
		return docstore.NewMemory[T](name, obs)
	}
	return docstore.NewPG[T](a.pool, name, obs)
}

func (a *app) wire() {
	a.employees = employees.NewRepo(collection[employees.Employee](a, employees.CollectionName))
	a.inputs = inputs.NewRepo(collection[inputs.Input](a, inputs.CollectionName))
	a.outputs = outputs.NewRepo(collection[outputs.Output](a, outputs.CollectionName), a.inputs)
	a.breakdowns = breakdown.NewRepo(collection[breakdown.Breakdown](a, breakdown.CollectionName))
	a.overtime = overtime.NewRepo(collection[overtime.List](a, overtime.CollectionName), a.employees, a.breakdowns)
	a.production = production.NewService(
		production.NewRepo(collection[production.Section](a, production.CollectionName)), a.log, a.metrics)

	if a.pool == nil {
		a.users, a.states = users.NewMemory(), dialog.NewMemory()
		return
	}
	a.users, a.states = users.NewRepo(a.pool), dialog.NewRepo(a.pool)
}

func (a *app) seedTargets() seed.Targets {
	return seed.Targets{
		Employees:  a.employees,
		Inputs:     a.inputs,
		Breakdowns: a.breakdowns,
		Production: a.production,
		Overtime:   a.overtime,
	}
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
