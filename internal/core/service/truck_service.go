package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dockside/truck-management/internal/core/domain"
	"github.com/dockside/truck-management/internal/core/ports"
)

// TruckService implements CRUD over truck records. Every successful
// mutation is pushed to realtime clients through the broadcaster.
type TruckService struct {
	repo        ports.TruckRepository
	broadcaster ports.Broadcaster
	logger      zerolog.Logger
}

func NewTruckService(repo ports.TruckRepository, broadcaster ports.Broadcaster, logger zerolog.Logger) *TruckService {
	return &TruckService{repo: repo, broadcaster: broadcaster, logger: logger}
}

func (s *TruckService) List(ctx context.Context, filter ports.ListTrucksFilter) ([]*domain.Truck, error) {
	return s.repo.List(ctx, filter)
}

func (s *TruckService) Get(ctx context.Context, id string) (*domain.Truck, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TruckService) Create(ctx context.Context, input ports.CreateTruckInput) (*domain.Truck, error) {
	truck := &domain.Truck{
		ID:                uuid.NewString(),
		Terminal:          input.Terminal,
		TruckNo:           input.TruckNo,
		DockCode:          input.DockCode,
		TruckRoute:        input.TruckRoute,
		PreparationStart:  input.PreparationStart,
		PreparationEnd:    input.PreparationEnd,
		LoadingStart:      input.LoadingStart,
		LoadingEnd:        input.LoadingEnd,
		StatusPreparation: domain.Status(input.StatusPreparation).Normalize(),
		StatusLoading:     domain.Status(input.StatusLoading).Normalize(),
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, truck); err != nil {
		s.logger.Error().Err(err).Str("truck_no", truck.TruckNo).Msg("failed to create truck")
		return nil, err
	}

	s.logger.Info().Str("id", truck.ID).Str("truck_no", truck.TruckNo).Msg("truck created")

	s.broadcaster.Broadcast(domain.ChangeEvent{Type: domain.EventTruckCreated, Data: truck})
	return truck, nil
}

func (s *TruckService) Update(ctx context.Context, id string, input ports.UpdateTruckInput) (*domain.Truck, error) {
	patch := ports.TruckPatch{
		Terminal:         input.Terminal,
		TruckNo:          input.TruckNo,
		DockCode:         input.DockCode,
		TruckRoute:       input.TruckRoute,
		PreparationStart: input.PreparationStart,
		PreparationEnd:   input.PreparationEnd,
		LoadingStart:     input.LoadingStart,
		LoadingEnd:       input.LoadingEnd,
		UpdatedAt:        time.Now().UTC(),
	}
	if input.StatusPreparation != nil {
		st := domain.Status(*input.StatusPreparation).Normalize()
		patch.StatusPreparation = &st
	}
	if input.StatusLoading != nil {
		st := domain.Status(*input.StatusLoading).Normalize()
		patch.StatusLoading = &st
	}

	truck, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", id).Msg("truck updated")
	s.broadcaster.Broadcast(domain.ChangeEvent{Type: domain.EventTruckUpdated, Data: truck})
	return truck, nil
}

func (s *TruckService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("id", id).Msg("truck deleted")
	s.broadcaster.Broadcast(domain.ChangeEvent{Type: domain.EventTruckDeleted, Data: domain.DeletedRef{ID: id}})
	return nil
}

// UpdateStatus sets one stage status. Unlike create and import, an invalid
// status value here is an error, not a lenient default: the caller picked
// the value from an enumerated control.
func (s *TruckService) UpdateStatus(ctx context.Context, id, statusType, status string) (*domain.Truck, error) {
	if statusType != "preparation" && statusType != "loading" {
		return nil, fmt.Errorf("%w: status type must be preparation or loading, got %q", domain.ErrInvalidInput, statusType)
	}
	st := domain.Status(status)
	if !st.IsValid() {
		return nil, fmt.Errorf("%w: unknown status value %q", domain.ErrInvalidInput, status)
	}

	patch := ports.TruckPatch{UpdatedAt: time.Now().UTC()}
	if statusType == "preparation" {
		patch.StatusPreparation = &st
	} else {
		patch.StatusLoading = &st
	}

	truck, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", id).Str("status_type", statusType).Str("status", status).Msg("truck status updated")
	s.broadcaster.Broadcast(domain.ChangeEvent{Type: domain.EventStatusUpdated, Data: truck})
	return truck, nil
}

// Stats aggregates truck counts by stage status and terminal over the
// filtered record set.
func (s *TruckService) Stats(ctx context.Context, filter ports.StatsFilter) (*ports.StatsResult, error) {
	listFilter := ports.ListTrucksFilter{Terminal: filter.Terminal}
	if filter.DateFrom != "" {
		from, err := time.Parse("2006-01-02", filter.DateFrom)
		if err != nil {
			return nil, fmt.Errorf("%w: date_from must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		listFilter.DateFrom = from
	}
	if filter.DateTo != "" {
		to, err := time.Parse("2006-01-02", filter.DateTo)
		if err != nil {
			return nil, fmt.Errorf("%w: date_to must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		listFilter.DateTo = to.Add(24*time.Hour - time.Second)
	}

	trucks, err := s.repo.List(ctx, listFilter)
	if err != nil {
		return nil, err
	}

	result := &ports.StatsResult{
		TotalTrucks:      len(trucks),
		PreparationStats: map[string]int{string(domain.StatusOnProcess): 0, string(domain.StatusDelay): 0, string(domain.StatusFinished): 0},
		LoadingStats:     map[string]int{string(domain.StatusOnProcess): 0, string(domain.StatusDelay): 0, string(domain.StatusFinished): 0},
		TerminalStats:    map[string]int{},
	}
	for _, t := range trucks {
		if _, ok := result.PreparationStats[string(t.StatusPreparation)]; ok {
			result.PreparationStats[string(t.StatusPreparation)]++
		}
		if _, ok := result.LoadingStats[string(t.StatusLoading)]; ok {
			result.LoadingStats[string(t.StatusLoading)]++
		}
		result.TerminalStats[t.Terminal]++
	}
	return result, nil
}
