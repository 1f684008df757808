package ports

import (
	"context"
	"time"

	"github.com/dockside/truck-management/internal/core/domain"
)

// ListTrucksFilter carries all query parameters for listing trucks.
type ListTrucksFilter struct {
	Terminal          string    // optional: equality on terminal
	StatusPreparation string    // optional: equality on status_preparation
	StatusLoading     string    // optional: equality on status_loading
	DateFrom          time.Time // optional: created_at >= DateFrom
	DateTo            time.Time // optional: created_at <= DateTo
	Skip              int
	Limit             int // <= 0 means no limit
}

// TruckPatch describes a partial update. Nil fields are left untouched.
// UpdatedAt is always set by the caller (the service layer owns the clock).
type TruckPatch struct {
	Terminal          *string
	TruckNo           *string
	DockCode          *string
	TruckRoute        *string
	PreparationStart  *string
	PreparationEnd    *string
	LoadingStart      *string
	LoadingEnd        *string
	StatusPreparation *domain.Status
	StatusLoading     *domain.Status
	UpdatedAt         time.Time

	// ReplaceTimes makes the four time fields authoritative: nil writes
	// through and clears the stored value instead of leaving it untouched.
	// Used by spreadsheet imports, where a blank cell means "no time".
	ReplaceTimes bool
}

// TruckRepository is the record store gateway: filtered CRUD over truck
// records with per-record atomicity delegated to the backing store.
type TruckRepository interface {
	Insert(ctx context.Context, t *domain.Truck) error
	FindByID(ctx context.Context, id string) (*domain.Truck, error)
	// FindByTruckNo retrieves a truck by its business key. Returns
	// domain.ErrTruckNotFound when no record matches.
	FindByTruckNo(ctx context.Context, truckNo string) (*domain.Truck, error)
	// List returns trucks matching filter, newest first.
	List(ctx context.Context, filter ListTrucksFilter) ([]*domain.Truck, error)
	// Update applies patch to the record with the given id and returns the
	// updated document. ID and CreatedAt are never modified.
	Update(ctx context.Context, id string, patch TruckPatch) (*domain.Truck, error)
	Delete(ctx context.Context, id string) error
}
