package ports

import (
	"context"

	"github.com/dockside/truck-management/internal/core/domain"
)

// CreateTruckInput carries all data needed to register a new truck.
// Status fields are normalized leniently: anything outside the three
// valid values becomes "On Process".
type CreateTruckInput struct {
	Terminal          string
	TruckNo           string
	DockCode          string
	TruckRoute        string
	PreparationStart  *string
	PreparationEnd    *string
	LoadingStart      *string
	LoadingEnd        *string
	StatusPreparation string
	StatusLoading     string
}

// UpdateTruckInput is a partial update; nil fields are left untouched.
type UpdateTruckInput struct {
	Terminal          *string
	TruckNo           *string
	DockCode          *string
	TruckRoute        *string
	PreparationStart  *string
	PreparationEnd    *string
	LoadingStart      *string
	LoadingEnd        *string
	StatusPreparation *string
	StatusLoading     *string
}

// StatsResult aggregates truck counts by stage status and terminal.
type StatsResult struct {
	TotalTrucks      int
	PreparationStats map[string]int
	LoadingStats     map[string]int
	TerminalStats    map[string]int
}

// StatsFilter narrows the record set the statistics are computed over.
type StatsFilter struct {
	Terminal string
	DateFrom string // YYYY-MM-DD, inclusive start of day
	DateTo   string // YYYY-MM-DD, inclusive end of day
}

// TruckService defines use-case operations for truck records. Every
// successful mutation is broadcast to connected realtime clients.
type TruckService interface {
	List(ctx context.Context, filter ListTrucksFilter) ([]*domain.Truck, error)
	Get(ctx context.Context, id string) (*domain.Truck, error)
	Create(ctx context.Context, input CreateTruckInput) (*domain.Truck, error)
	Update(ctx context.Context, id string, input UpdateTruckInput) (*domain.Truck, error)
	Delete(ctx context.Context, id string) error
	// UpdateStatus sets one stage status. statusType must be "preparation"
	// or "loading" and status must be a valid Status value; unlike create
	// and import, this operation rejects invalid values.
	UpdateStatus(ctx context.Context, id, statusType, status string) (*domain.Truck, error)
	Stats(ctx context.Context, filter StatsFilter) (*StatsResult, error)
}
