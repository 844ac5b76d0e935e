package planning

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vsinha/coilplan/pkg/application/dto"
	"github.com/vsinha/coilplan/pkg/application/services/optimizer"
	"github.com/vsinha/coilplan/pkg/application/services/reporting"
	"github.com/vsinha/coilplan/pkg/domain/entities"
	"github.com/vsinha/coilplan/pkg/domain/repositories"
	"github.com/vsinha/coilplan/pkg/domain/services"
	"github.com/vsinha/coilplan/pkg/infrastructure/events"
)

// Service coordinates the optimizer with the coil, order, line and plan
// stores. Every operation holds mu, so a confirm or clear is one transition
// no import can interleave with.
type Service struct {
	mu         sync.Mutex
	optimizer  *optimizer.Optimizer
	validator  *services.InputValidator
	coilRepo   repositories.CoilRepository
	orderRepo  repositories.OrderRepository
	lineRepo   repositories.LineRepository
	planRepo   repositories.PlanRepository
	eventStore events.EventStore
	logger     zerolog.Logger
}

// NewService creates a new planning service
func NewService(
	opt *optimizer.Optimizer,
	coilRepo repositories.CoilRepository,
	orderRepo repositories.OrderRepository,
	lineRepo repositories.LineRepository,
	planRepo repositories.PlanRepository,
	eventStore events.EventStore,
	logger zerolog.Logger,
) *Service {
	return &Service{
		optimizer:  opt,
		validator:  services.NewInputValidator(),
		coilRepo:   coilRepo,
		orderRepo:  orderRepo,
		lineRepo:   lineRepo,
		planRepo:   planRepo,
		eventStore: eventStore,
		logger:     logger,
	}
}

// Optimize runs the optimizer over the stored inventory and replaces the
// proposed plan and forecasts with the result. Coil and order records are
// left untouched until the plan is confirmed.
func (s *Service) Optimize(ctx context.Context) (*dto.OptimizationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	coils, err := s.coilRepo.GetAllCoils()
	if err != nil {
		return nil, fmt.Errorf("failed to load coils: %w", err)
	}
	orders, err := s.orderRepo.GetAllOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	lines, err := s.lineRepo.GetAllLines()
	if err != nil {
		return nil, fmt.Errorf("failed to load lines: %w", err)
	}

	validation := s.validator.Validate(coils, orders, lines)
	for _, msg := range validation.Errors {
		s.logger.Warn().Msg(msg)
	}
	for _, msg := range validation.Warnings {
		s.logger.Debug().Msg(msg)
	}

	input := dto.OptimizationInput{
		Coils:  derefAll(coils),
		Orders: derefAll(orders),
		Lines:  derefAll(lines),
	}

	start := time.Now()
	result := s.optimizer.Optimize(input)
	LogTrace(s.logger, result.Trace)

	if err := s.planRepo.SaveProposed(result.Assignments, result.Forecasts); err != nil {
		return nil, fmt.Errorf("failed to save proposed plan: %w", err)
	}

	var allocated float64
	for _, a := range result.Assignments {
		allocated += a.AllocatedWeight
	}

	s.logger.Info().
		Str("run_id", result.RunID).
		Int("coils", len(coils)).
		Int("orders", len(orders)).
		Int("assignments", len(result.Assignments)).
		Int("forecasts", len(result.Forecasts)).
		Int("unfulfilled", len(result.Unfulfilled)).
		Float64("allocated_t", allocated).
		Dur("took", time.Since(start)).
		Msg("plan proposed")

	s.publish(events.NewPlanProposedEvent(events.PlanProposed{
		RunID:       result.RunID,
		Assignments: len(result.Assignments),
		Forecasts:   len(result.Forecasts),
		Unfulfilled: result.Unfulfilled,
		Allocated:   allocated,
	}))

	return result, nil
}

// Confirm applies the proposed plan. See ConfirmPlan.
func (s *Service) Confirm(ctx context.Context) (*Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	proposed, err := s.planRepo.GetProposed()
	if err != nil {
		return nil, fmt.Errorf("failed to load proposed plan: %w", err)
	}
	coils, err := s.coilRepo.GetAllCoils()
	if err != nil {
		return nil, fmt.Errorf("failed to load coils: %w", err)
	}
	orders, err := s.orderRepo.GetAllOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	confirmation, err := ConfirmPlan(proposed, derefAll(coils), derefAll(orders), s.optimizer.Config().FulfilmentThreshold)
	if err != nil {
		return nil, err
	}

	if err := s.coilRepo.ReplaceCoils(pointers(confirmation.Coils)); err != nil {
		return nil, fmt.Errorf("failed to update coils: %w", err)
	}
	if err := s.orderRepo.ReplaceOrders(pointers(confirmation.Orders)); err != nil {
		return nil, fmt.Errorf("failed to update orders: %w", err)
	}
	if err := s.planRepo.SaveConfirmed(confirmation.Assignments); err != nil {
		return nil, fmt.Errorf("failed to save confirmed plan: %w", err)
	}

	orderStatus := make(map[entities.OrderID]entities.OrderStatus, len(confirmation.Orders))
	for _, order := range confirmation.Orders {
		orderStatus[order.ID] = order.Status
	}

	s.logger.Info().
		Int("assignments", len(confirmation.Assignments)).
		Int("coils_used", len(confirmation.CoilsUsed())).
		Msg("plan confirmed")

	s.publish(events.NewPlanConfirmedEvent(events.PlanConfirmed{
		Assignments: len(confirmation.Assignments),
		CoilsUsed:   confirmation.CoilsUsed(),
		OrderStatus: orderStatus,
	}))

	return confirmation, nil
}

// Clear discards the proposed and confirmed plans and the forecasts, and
// returns every coil to available and every order to pending
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	coils, err := s.coilRepo.GetAllCoils()
	if err != nil {
		return fmt.Errorf("failed to load coils: %w", err)
	}
	orders, err := s.orderRepo.GetAllOrders()
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	proposed, err := s.planRepo.GetProposed()
	if err != nil {
		return fmt.Errorf("failed to load proposed plan: %w", err)
	}
	confirmed, err := s.planRepo.GetConfirmed()
	if err != nil {
		return fmt.Errorf("failed to load confirmed plan: %w", err)
	}
	forecasts, err := s.planRepo.GetForecasts()
	if err != nil {
		return fmt.Errorf("failed to load forecasts: %w", err)
	}

	clearedCoils, clearedOrders := ClearPlan(derefAll(coils), derefAll(orders))
	if err := s.coilRepo.ReplaceCoils(pointers(clearedCoils)); err != nil {
		return fmt.Errorf("failed to reset coils: %w", err)
	}
	if err := s.orderRepo.ReplaceOrders(pointers(clearedOrders)); err != nil {
		return fmt.Errorf("failed to reset orders: %w", err)
	}
	if err := s.planRepo.Clear(); err != nil {
		return fmt.Errorf("failed to clear plan: %w", err)
	}

	s.logger.Info().Int("coils_reset", len(clearedCoils)).Msg("plan cleared")

	s.publish(events.NewPlanClearedEvent(events.PlanCleared{
		Assignments: len(proposed) + len(confirmed),
		Forecasts:   len(forecasts),
		CoilsReset:  len(clearedCoils),
	}))
	return nil
}

// Snapshot returns the complete planning state
func (s *Service) Snapshot(ctx context.Context) (*dto.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.snapshot()
}

// SnapshotSaver persists a planning snapshot
type SnapshotSaver interface {
	Save(snapshot *dto.Snapshot) error
}

// Persist takes a snapshot and saves it while holding the service lock, so
// saves land in the same order as the changes they capture
func (s *Service) Persist(ctx context.Context, saver SnapshotSaver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot, err := s.snapshot()
	if err != nil {
		return err
	}
	if err := saver.Save(snapshot); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (s *Service) snapshot() (*dto.Snapshot, error) {
	coils, err := s.coilRepo.GetAllCoils()
	if err != nil {
		return nil, fmt.Errorf("failed to load coils: %w", err)
	}
	orders, err := s.orderRepo.GetAllOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	lines, err := s.lineRepo.GetAllLines()
	if err != nil {
		return nil, fmt.Errorf("failed to load lines: %w", err)
	}
	proposed, err := s.planRepo.GetProposed()
	if err != nil {
		return nil, fmt.Errorf("failed to load proposed plan: %w", err)
	}
	confirmed, err := s.planRepo.GetConfirmed()
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmed plan: %w", err)
	}
	forecasts, err := s.planRepo.GetForecasts()
	if err != nil {
		return nil, fmt.Errorf("failed to load forecasts: %w", err)
	}

	return &dto.Snapshot{
		Coils:     derefAll(coils),
		Orders:    derefAll(orders),
		Lines:     derefAll(lines),
		Proposed:  proposed,
		Confirmed: confirmed,
		Forecasts: forecasts,
		SavedAt:   time.Now().UTC(),
	}, nil
}

// Restore replaces the stored state with a snapshot
func (s *Service) Restore(ctx context.Context, snapshot *dto.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.coilRepo.ReplaceCoils(pointers(snapshot.Coils)); err != nil {
		return fmt.Errorf("failed to restore coils: %w", err)
	}
	if err := s.orderRepo.ReplaceOrders(pointers(snapshot.Orders)); err != nil {
		return fmt.Errorf("failed to restore orders: %w", err)
	}
	if err := s.lineRepo.LoadLines(pointers(snapshot.Lines)); err != nil {
		return fmt.Errorf("failed to restore lines: %w", err)
	}
	if err := s.planRepo.Clear(); err != nil {
		return fmt.Errorf("failed to reset plan: %w", err)
	}
	if len(snapshot.Confirmed) > 0 {
		if err := s.planRepo.SaveConfirmed(snapshot.Confirmed); err != nil {
			return fmt.Errorf("failed to restore confirmed plan: %w", err)
		}
	}
	if err := s.planRepo.SaveProposed(snapshot.Proposed, snapshot.Forecasts); err != nil {
		return fmt.Errorf("failed to restore proposed plan: %w", err)
	}

	s.logger.Debug().
		Int("coils", len(snapshot.Coils)).
		Int("orders", len(snapshot.Orders)).
		Int("lines", len(snapshot.Lines)).
		Msg("state restored")
	return nil
}

// Summary computes metrics for the current plan: the proposed plan when
// there is one, else the confirmed plan
func (s *Service) Summary(ctx context.Context) (*reporting.PlanMetrics, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	metrics := reporting.Compute(
		snapshot.CurrentPlan(),
		snapshot.Coils,
		snapshot.Orders,
		snapshot.Forecasts,
		s.optimizer.Config().FulfilmentThreshold,
	)
	return &metrics, nil
}

// AddCoils stores coils, replacing any with the same id
func (s *Service) AddCoils(ctx context.Context, coils []*entities.Coil, source string, skipped int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.coilRepo.LoadCoils(coils); err != nil {
		return fmt.Errorf("failed to store coils: %w", err)
	}
	s.publish(events.NewImportedEvent(events.CoilsImportedEvent, events.Imported{
		Source: source, Imported: len(coils), Skipped: skipped,
	}))
	return nil
}

// AddOrders stores orders, replacing any with the same id
func (s *Service) AddOrders(ctx context.Context, orders []*entities.Order, source string, skipped int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.orderRepo.LoadOrders(orders); err != nil {
		return fmt.Errorf("failed to store orders: %w", err)
	}
	s.publish(events.NewImportedEvent(events.OrdersImportedEvent, events.Imported{
		Source: source, Imported: len(orders), Skipped: skipped,
	}))
	return nil
}

// AddLines stores lines, replacing any with the same id
func (s *Service) AddLines(ctx context.Context, lines []*entities.Line, source string, skipped int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.lineRepo.LoadLines(lines); err != nil {
		return fmt.Errorf("failed to store lines: %w", err)
	}
	s.publish(events.NewImportedEvent(events.LinesImportedEvent, events.Imported{
		Source: source, Imported: len(lines), Skipped: skipped,
	}))
	return nil
}

func (s *Service) publish(event events.Event) {
	if s.eventStore == nil {
		return
	}
	if err := s.eventStore.AppendEvent(event.StreamID(), event); err != nil {
		s.logger.Error().Err(err).Str("event", event.Type()).Msg("failed to append event")
	}
}

// LogTrace replays an optimization trace through the logger at debug level
func LogTrace(logger zerolog.Logger, trace []dto.TraceEvent) {
	if logger.GetLevel() > zerolog.DebugLevel {
		return
	}
	for _, e := range trace {
		entry := logger.Debug().
			Int("seq", e.Seq).
			Int("pass", e.Pass).
			Str("action", string(e.Action))
		if e.CoilID != "" {
			entry = entry.Str("coil", string(e.CoilID))
		}
		if len(e.OrderIDs) > 0 {
			ids := make([]string, len(e.OrderIDs))
			for i, id := range e.OrderIDs {
				ids[i] = string(id)
			}
			entry = entry.Strs("orders", ids)
		}
		entry.Float64("weight_t", e.Weight).Int("count", e.Count).Msg("trace")
	}
}

func derefAll[T any](items []*T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}

func pointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
