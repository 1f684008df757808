package handler

import "time"

// --- Request types ---

type createTruckRequest struct {
	Terminal          string  `json:"terminal"   validate:"required"`
	TruckNo           string  `json:"truck_no"   validate:"required"`
	DockCode          string  `json:"dock_code"  validate:"required"`
	TruckRoute        string  `json:"truck_route" validate:"required"`
	PreparationStart  *string `json:"preparation_start"`
	PreparationEnd    *string `json:"preparation_end"`
	LoadingStart      *string `json:"loading_start"`
	LoadingEnd        *string `json:"loading_end"`
	StatusPreparation string  `json:"status_preparation"`
	StatusLoading     string  `json:"status_loading"`
}

// updateTruckRequest is a partial update; absent fields are left untouched.
type updateTruckRequest struct {
	Terminal          *string `json:"terminal"`
	TruckNo           *string `json:"truck_no"`
	DockCode          *string `json:"dock_code"`
	TruckRoute        *string `json:"truck_route"`
	PreparationStart  *string `json:"preparation_start"`
	PreparationEnd    *string `json:"preparation_end"`
	LoadingStart      *string `json:"loading_start"`
	LoadingEnd        *string `json:"loading_end"`
	StatusPreparation *string `json:"status_preparation"`
	StatusLoading     *string `json:"status_loading"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal domain changes.

type truckResponse struct {
	ID                string     `json:"id"`
	Terminal          string     `json:"terminal"`
	TruckNo           string     `json:"truck_no"`
	DockCode          string     `json:"dock_code"`
	TruckRoute        string     `json:"truck_route"`
	PreparationStart  *string    `json:"preparation_start"`
	PreparationEnd    *string    `json:"preparation_end"`
	LoadingStart      *string    `json:"loading_start"`
	LoadingEnd        *string    `json:"loading_end"`
	StatusPreparation string     `json:"status_preparation"`
	StatusLoading     string     `json:"status_loading"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

type statsResponse struct {
	TotalTrucks      int            `json:"total_trucks"`
	PreparationStats map[string]int `json:"preparation_stats"`
	LoadingStats     map[string]int `json:"loading_stats"`
	TerminalStats    map[string]int `json:"terminal_stats"`
}

type deleteTruckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
