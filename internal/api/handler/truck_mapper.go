package handler

import (
	"github.com/dockside/truck-management/internal/core/domain"
	"github.com/dockside/truck-management/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createTruckRequest) ports.CreateTruckInput {
	return ports.CreateTruckInput{
		Terminal:          req.Terminal,
		TruckNo:           req.TruckNo,
		DockCode:          req.DockCode,
		TruckRoute:        req.TruckRoute,
		PreparationStart:  req.PreparationStart,
		PreparationEnd:    req.PreparationEnd,
		LoadingStart:      req.LoadingStart,
		LoadingEnd:        req.LoadingEnd,
		StatusPreparation: req.StatusPreparation,
		StatusLoading:     req.StatusLoading,
	}
}

func toUpdateInput(req updateTruckRequest) ports.UpdateTruckInput {
	return ports.UpdateTruckInput{
		Terminal:          req.Terminal,
		TruckNo:           req.TruckNo,
		DockCode:          req.DockCode,
		TruckRoute:        req.TruckRoute,
		PreparationStart:  req.PreparationStart,
		PreparationEnd:    req.PreparationEnd,
		LoadingStart:      req.LoadingStart,
		LoadingEnd:        req.LoadingEnd,
		StatusPreparation: req.StatusPreparation,
		StatusLoading:     req.StatusLoading,
	}
}

// --- Service result → HTTP response ---

func toTruckResponse(t *domain.Truck) truckResponse {
	return truckResponse{
		ID:                t.ID,
		Terminal:          t.Terminal,
		TruckNo:           t.TruckNo,
		DockCode:          t.DockCode,
		TruckRoute:        t.TruckRoute,
		PreparationStart:  t.PreparationStart,
		PreparationEnd:    t.PreparationEnd,
		LoadingStart:      t.LoadingStart,
		LoadingEnd:        t.LoadingEnd,
		StatusPreparation: string(t.StatusPreparation),
		StatusLoading:     string(t.StatusLoading),
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func toTruckListResponse(trucks []*domain.Truck) []truckResponse {
	out := make([]truckResponse, len(trucks))
	for i, t := range trucks {
		out[i] = toTruckResponse(t)
	}
	return out
}

func toStatsResponse(r *ports.StatsResult) statsResponse {
	return statsResponse{
		TotalTrucks:      r.TotalTrucks,
		PreparationStats: r.PreparationStats,
		LoadingStats:     r.LoadingStats,
		TerminalStats:    r.TerminalStats,
	}
}
