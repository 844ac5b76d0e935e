package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vsinha/coilplan/pkg/application/services/optimizer"
	"github.com/vsinha/coilplan/pkg/application/services/planning"
	"github.com/vsinha/coilplan/pkg/infrastructure/config"
	"github.com/vsinha/coilplan/pkg/infrastructure/events"
	"github.com/vsinha/coilplan/pkg/infrastructure/repositories/jsonfile"
	"github.com/vsinha/coilplan/pkg/infrastructure/repositories/memory"
)

// Environment is the planning service with its stores, wired from configuration
type Environment struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Service    *planning.Service
	EventStore *events.InMemoryEventStore
	State      *jsonfile.StateStore
}

// NewEnvironment builds in-memory stores, the event store with a logging
// subscriber, and the planning service. State is nil unless cfg.State.File
// is set.
func NewEnvironment(cfg *config.Config, logger zerolog.Logger) (*Environment, error) {
	logged := append([]string{
		events.CoilsImportedEvent,
		events.OrdersImportedEvent,
		events.LinesImportedEvent,
	}, events.PlanEventTypes...)

	eventStore := events.NewBoundedEventStore(logger, cfg.Events.Retention)
	if err := eventStore.Subscribe(logged, events.NewLogHandler(logger, logged...)); err != nil {
		return nil, fmt.Errorf("failed to subscribe event logger: %w", err)
	}

	service := planning.NewService(
		optimizer.NewOptimizerWithConfig(OptimizerConfig(cfg.Engine)),
		memory.NewCoilRepository(0),
		memory.NewOrderRepository(0),
		memory.NewLineRepository(),
		memory.NewPlanRepository(),
		eventStore,
		logger,
	)

	env := &Environment{
		Config:     cfg,
		Logger:     logger,
		Service:    service,
		EventStore: eventStore,
	}
	if cfg.State.File != "" {
		env.State = jsonfile.NewStateStore(cfg.State.File)
	}
	return env, nil
}

// OptimizerConfig maps the engine section of the configuration
func OptimizerConfig(cfg config.EngineConfig) optimizer.Config {
	return optimizer.Config{
		ChangeoverCost:       cfg.ChangeoverCost,
		WidthTolerance:       cfg.WidthTolerance,
		FulfilmentThreshold:  cfg.FulfilmentThreshold,
		ForecastWidthMargin:  cfg.ForecastWidthMargin,
		ForecastWeightBuffer: cfg.ForecastWeightBuffer,
	}
}

// RestoreState loads the saved state into the service. It reports false
// when there is no state file or nothing has been saved yet.
func (e *Environment) RestoreState(ctx context.Context) (bool, error) {
	if e.State == nil {
		return false, nil
	}
	snapshot, err := e.State.Load()
	if errors.Is(err, jsonfile.ErrNoState) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := e.Service.Restore(ctx, snapshot); err != nil {
		return false, err
	}
	e.Logger.Info().
		Str("file", e.State.Path()).
		Time("saved_at", snapshot.SavedAt).
		Msg("state restored")
	return true, nil
}

// SaveState writes the current state when a state file is configured
func (e *Environment) SaveState(ctx context.Context) error {
	if e.State == nil {
		return nil
	}
	if err := e.Service.Persist(ctx, e.State); err != nil {
		return err
	}
	e.Logger.Debug().Str("file", e.State.Path()).Msg("state saved")
	return nil
}
