package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dockside/truck-management/internal/core/domain"
	"github.com/dockside/truck-management/internal/core/ports"
)

// Spreadsheet column headers. The first four are required; the rest are
// optional and default leniently.
const (
	colTerminal  = "Terminal"
	colTruckNo   = "Truck No"
	colDockCode  = "Dock Code"
	colRoute     = "Route"
	colPrepStart = "Prep Start"
	colPrepEnd   = "Prep End"
	colLoadStart = "Load Start"
	colLoadEnd   = "Load End"
	colStatPrep  = "Status Prep"
	colStatLoad  = "Status Load"
)

const previewLimit = 10

// ImportService reconciles spreadsheet uploads against the truck store in
// two phases. Preview validates and stages candidates without touching
// persistent state; Confirm applies each staged candidate independently as
// update-if-exists-else-insert keyed on truck number.
type ImportService struct {
	parser      ports.TableParser
	sessions    ports.ImportSessionStore
	repo        ports.TruckRepository
	broadcaster ports.Broadcaster
	logger      zerolog.Logger
}

func NewImportService(
	parser ports.TableParser,
	sessions ports.ImportSessionStore,
	repo ports.TruckRepository,
	broadcaster ports.Broadcaster,
	logger zerolog.Logger,
) *ImportService {
	return &ImportService{
		parser:      parser,
		sessions:    sessions,
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Preview parses and validates an uploaded table, staging the candidates
// that pass row validation under a fresh session token. Row failures are
// collected and returned; they never abort the batch. The two batch-fatal
// cases are an unreadable upload and missing required columns.
func (s *ImportService) Preview(ctx context.Context, upload io.Reader, principal string) (*ports.ImportPreviewResult, error) {
	table, err := s.parser.Parse(upload)
	if err != nil {
		return nil, fmt.Errorf("import preview: %w", err)
	}

	if missing := missingColumns(table.Columns); len(missing) > 0 {
		return nil, &domain.MissingColumnsError{Columns: missing}
	}

	var candidates []domain.Truck
	var rowErrors []string
	for i, row := range table.Rows {
		truck, errs := buildCandidate(i+1, row)
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}
		candidates = append(candidates, truck)
	}

	session := &domain.ImportSession{
		Token:      uuid.NewString(),
		Owner:      principal,
		Candidates: candidates,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("import preview: stage session: %w", err)
	}

	s.logger.Info().
		Str("session", session.Token).
		Str("owner", principal).
		Int("candidates", len(candidates)).
		Int("row_errors", len(rowErrors)).
		Msg("import batch staged")

	preview := candidates
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}
	if rowErrors == nil {
		rowErrors = []string{}
	}

	return &ports.ImportPreviewResult{
		SessionID:    session.Token,
		Preview:      preview,
		TotalRows:    len(candidates),
		Errors:       rowErrors,
		ColumnsFound: table.Columns,
	}, nil
}

// Confirm consumes a staged session and persists each candidate
// independently: a row's failure is recorded and the batch continues. The
// session is consumed atomically, so a replayed or concurrent confirm sees
// domain.ErrSessionNotFound. A confirm by a non-owner is rejected and the
// session is preserved for the rightful owner.
func (s *ImportService) Confirm(ctx context.Context, sessionID, principal string) (*ports.ImportConfirmResult, error) {
	session, err := s.sessions.Take(ctx, sessionID, principal)
	if err != nil {
		return nil, fmt.Errorf("import confirm: %w", err)
	}

	imported := 0
	var failures []ports.ImportRowFailure
	for i, candidate := range session.Candidates {
		persisted, err := s.applyCandidate(ctx, candidate)
		if err != nil {
			s.logger.Warn().Err(err).Str("truck_no", candidate.TruckNo).Int("row", i+1).Msg("import row failed")
			failures = append(failures, ports.ImportRowFailure{
				Row:     i + 1,
				TruckNo: candidate.TruckNo,
				Error:   err.Error(),
			})
			continue
		}
		imported++
		s.broadcaster.Broadcast(domain.ChangeEvent{Type: domain.EventTruckCreated, Data: persisted})
	}

	s.logger.Info().
		Str("session", sessionID).
		Int("imported", imported).
		Int("failed", len(failures)).
		Msg("import batch committed")

	if failures == nil {
		failures = []ports.ImportRowFailure{}
	}
	return &ports.ImportConfirmResult{
		Imported:      imported,
		Failed:        len(failures),
		FailedDetails: failures,
		Message:       fmt.Sprintf("Successfully imported %d trucks", imported),
	}, nil
}

// applyCandidate persists one staged candidate: an existing record with the
// same truck number is updated in place (identity and creation timestamp
// preserved), otherwise a new record is inserted.
func (s *ImportService) applyCandidate(ctx context.Context, candidate domain.Truck) (*domain.Truck, error) {
	existing, err := s.repo.FindByTruckNo(ctx, candidate.TruckNo)
	switch {
	case err == nil:
		// The spreadsheet row is authoritative: a blank time cell clears
		// the stored value rather than keeping it.
		patch := ports.TruckPatch{
			Terminal:          &candidate.Terminal,
			TruckNo:           &candidate.TruckNo,
			DockCode:          &candidate.DockCode,
			TruckRoute:        &candidate.TruckRoute,
			PreparationStart:  candidate.PreparationStart,
			PreparationEnd:    candidate.PreparationEnd,
			LoadingStart:      candidate.LoadingStart,
			LoadingEnd:        candidate.LoadingEnd,
			StatusPreparation: &candidate.StatusPreparation,
			StatusLoading:     &candidate.StatusLoading,
			UpdatedAt:         time.Now().UTC(),
			ReplaceTimes:      true,
		}
		return s.repo.Update(ctx, existing.ID, patch)
	case err == domain.ErrTruckNotFound:
		truck := candidate
		truck.ID = uuid.NewString()
		truck.CreatedAt = time.Now().UTC()
		if err := s.repo.Insert(ctx, &truck); err != nil {
			return nil, err
		}
		return &truck, nil
	default:
		return nil, err
	}
}

// missingColumns returns the required headers absent from the declared
// column set, in canonical order.
func missingColumns(columns []string) []string {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[strings.TrimSpace(c)] = struct{}{}
	}
	var missing []string
	for _, required := range []string{colTerminal, colTruckNo, colDockCode, colRoute} {
		if _, ok := present[required]; !ok {
			missing = append(missing, required)
		}
	}
	return missing
}

// buildCandidate validates one data row and maps it to a truck candidate.
// row is 1-based over data rows (the header row is not counted).
func buildCandidate(row int, cells map[string]string) (domain.Truck, []string) {
	var errs []string
	required := func(col string) string {
		v := strings.TrimSpace(cells[col])
		if v == "" {
			errs = append(errs, fmt.Sprintf("Row %d: %s is required", row, col))
		}
		return v
	}

	truck := domain.Truck{
		Terminal:   required(colTerminal),
		TruckNo:    required(colTruckNo),
		DockCode:   required(colDockCode),
		TruckRoute: required(colRoute),
	}
	if len(errs) > 0 {
		return domain.Truck{}, errs
	}

	truck.PreparationStart = optionalClock(cells, colPrepStart)
	truck.PreparationEnd = optionalClock(cells, colPrepEnd)
	truck.LoadingStart = optionalClock(cells, colLoadStart)
	truck.LoadingEnd = optionalClock(cells, colLoadEnd)
	truck.StatusPreparation = domain.Status(strings.TrimSpace(cells[colStatPrep])).Normalize()
	truck.StatusLoading = domain.Status(strings.TrimSpace(cells[colStatLoad])).Normalize()
	return truck, nil
}

// optionalClock returns the cell normalized to HH:MM, or nil when blank.
func optionalClock(cells map[string]string, col string) *string {
	v := strings.TrimSpace(cells[col])
	if v == "" {
		return nil
	}
	normalized := NormalizeClock(v)
	return &normalized
}

// clockLayouts are the accepted time-of-day spellings, tried in order.
var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04:05 PM"}

// NormalizeClock converts a time-of-day string to HH:MM. Values that match
// none of the accepted layouts pass through unchanged, mirroring the
// lenient handling of the rest of the import pipeline.
func NormalizeClock(v string) string {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("15:04")
		}
	}
	return v
}
