package domain

import (
	"errors"
	"time"
)

// Status represents the state of one stage (preparation or loading) of a
// truck's turnaround at a terminal.
type Status string

const (
	StatusOnProcess Status = "On Process"
	StatusDelay     Status = "Delay"
	StatusFinished  Status = "Finished"
)

var ErrTruckNotFound = errors.New("truck not found")
var ErrSessionNotFound = errors.New("import session not found")
var ErrNotSessionOwner = errors.New("import session belongs to another user")
var ErrMalformedUpload = errors.New("upload is not a readable spreadsheet")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidInput = errors.New("invalid input")

// IsValid reports whether s is one of the three recognized statuses.
// Status values are case- and spelling-exact on the wire.
func (s Status) IsValid() bool {
	switch s {
	case StatusOnProcess, StatusDelay, StatusFinished:
		return true
	}
	return false
}

// Normalize coerces any unrecognized value (including empty) to "On Process".
// Lenient-default policy: bad status input is never a validation error.
func (s Status) Normalize() Status {
	if s.IsValid() {
		return s
	}
	return StatusOnProcess
}

// Truck is the core record tracked through preparation and loading.
// TruckNo is the business key used for import matching; uniqueness is by
// convention only, not enforced here.
type Truck struct {
	ID                string     `json:"id" bson:"_id,omitempty"`
	Terminal          string     `json:"terminal" bson:"terminal"`
	TruckNo           string     `json:"truck_no" bson:"truck_no"`
	DockCode          string     `json:"dock_code" bson:"dock_code"`
	TruckRoute        string     `json:"truck_route" bson:"truck_route"`
	PreparationStart  *string    `json:"preparation_start" bson:"preparation_start"`
	PreparationEnd    *string    `json:"preparation_end" bson:"preparation_end"`
	LoadingStart      *string    `json:"loading_start" bson:"loading_start"`
	LoadingEnd        *string    `json:"loading_end" bson:"loading_end"`
	StatusPreparation Status     `json:"status_preparation" bson:"status_preparation"`
	StatusLoading     Status     `json:"status_loading" bson:"status_loading"`
	CreatedAt         time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at" bson:"updated_at"`
}

// MissingColumnsError reports required spreadsheet columns absent from an
// uploaded file. The whole preview fails; no rows are staged.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	msg := "missing required columns: "
	for i, c := range e.Columns {
		if i > 0 {
			msg += ", "
		}
		msg += c
	}
	return msg
}

// ImportSession holds a validated batch of staged candidates awaiting a
// confirm call by the user who uploaded them. Consumed exactly once.
type ImportSession struct {
	Token      string    `json:"token"`
	Owner      string    `json:"owner"`
	Candidates []Truck   `json:"candidates"`
	CreatedAt  time.Time `json:"created_at"`
}
