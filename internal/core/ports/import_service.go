package ports

import (
	"context"
	"io"

	"github.com/dockside/truck-management/internal/core/domain"
)

// Table is the parsed form of an uploaded tabular file: the header row as
// declared, plus one map per data row keyed by header name. Blank cells are
// absent from the map.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// TableParser turns an uploaded file into a Table. Implementations return
// an error wrapping domain.ErrMalformedUpload when the content cannot be
// read as tabular data at all.
type TableParser interface {
	Parse(r io.Reader) (*Table, error)
}

// ImportPreviewResult is returned by the preview phase.
type ImportPreviewResult struct {
	SessionID    string
	Preview      []domain.Truck // first 10 staged candidates
	TotalRows    int            // total staged candidates
	Errors       []string       // row-level validation errors
	ColumnsFound []string
}

// ImportRowFailure records one candidate that could not be persisted.
type ImportRowFailure struct {
	Row     int    `json:"row"`
	TruckNo string `json:"truck_no"`
	Error   string `json:"error"`
}

// ImportConfirmResult is returned by the confirm phase.
type ImportConfirmResult struct {
	Imported      int
	Failed        int
	FailedDetails []ImportRowFailure
	Message       string
}

// ImportService reconciles spreadsheet uploads against the record store in
// two phases: a preview that validates and stages candidates without
// touching persistent state, and a confirm that applies each staged
// candidate as update-if-exists-else-insert keyed on truck number.
type ImportService interface {
	Preview(ctx context.Context, upload io.Reader, principal string) (*ImportPreviewResult, error)
	Confirm(ctx context.Context, sessionID, principal string) (*ImportConfirmResult, error)
}
