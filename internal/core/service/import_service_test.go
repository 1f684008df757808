package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dockside/truck-management/internal/core/domain"
	"github.com/dockside/truck-management/internal/core/ports"
)

// stubParser hands back a fixed table, ignoring the upload bytes.
type stubParser struct {
	table *ports.Table
	err   error
}

func (p *stubParser) Parse(io.Reader) (*ports.Table, error) {
	return p.table, p.err
}

// memSessionStore mirrors the Redis store's semantics in memory: Take is
// atomic, rejects non-owners without consuming, and deletes on success.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.ImportSession
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*domain.ImportSession)}
}

func (s *memSessionStore) Put(_ context.Context, session *domain.ImportSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *memSessionStore) Take(_ context.Context, token, owner string) (*domain.ImportSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if session.Owner != owner {
		return nil, domain.ErrNotSessionOwner
	}
	delete(s.sessions, token)
	return session, nil
}

var importColumns = []string{
	"Terminal", "Truck No", "Dock Code", "Route",
	"Prep Start", "Prep End", "Load Start", "Load End",
	"Status Prep", "Status Load",
}

func importFixture(parser ports.TableParser, repo ports.TruckRepository, bc ports.Broadcaster) (*ImportService, *memSessionStore) {
	sessions := newMemSessionStore()
	svc := NewImportService(parser, sessions, repo, bc, zerolog.Nop())
	return svc, sessions
}

func TestImportService_Preview_StagesValidRows(t *testing.T) {
	parser := &stubParser{table: &ports.Table{
		Columns: importColumns,
		Rows: []map[string]string{
			{"Terminal": "A", "Truck No": "TRK001", "Dock Code": "D1", "Route": "R1", "Prep Start": "8:00 AM", "Status Prep": "Finished"},
			{"Terminal": "A", "Truck No": "TRK002", "Route": "R2"},
			{"Terminal": "B", "Truck No": "TRK003", "Dock Code": "D3", "Route": "R3", "Status Load": "whatever"},
		},
	}}
	repo := newStubTruckRepo()
	svc, sessions := importFixture(parser, repo, &stubBroadcaster{})

	result, err := svc.Preview(context.Background(), strings.NewReader(""), "alice")
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if result.SessionID == "" {
		t.Fatalf("expected session id")
	}
	if result.TotalRows != 2 {
		t.Fatalf("expected 2 staged candidates, got %d", result.TotalRows)
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Row 2: Dock Code is required" {
		t.Fatalf("unexpected row errors: %v", result.Errors)
	}
	if len(result.ColumnsFound) != len(importColumns) {
		t.Fatalf("expected declared columns echoed back, got %v", result.ColumnsFound)
	}

	first := result.Preview[0]
	if got := *first.PreparationStart; got != "08:00" {
		t.Fatalf("expected clock normalized to 08:00, got %q", got)
	}
	if first.StatusPreparation != domain.StatusFinished {
		t.Fatalf("expected status preserved, got %q", first.StatusPreparation)
	}
	if result.Preview[1].StatusLoading != domain.StatusOnProcess {
		t.Fatalf("expected unknown status coerced, got %q", result.Preview[1].StatusLoading)
	}

	// Nothing persisted until confirm.
	if trucks, _ := repo.List(context.Background(), ports.ListTrucksFilter{}); len(trucks) != 0 {
		t.Fatalf("preview must not persist records")
	}

	// The staged session holds exactly the valid candidates.
	session, err := sessions.Take(context.Background(), result.SessionID, "alice")
	if err != nil {
		t.Fatalf("staged session missing: %v", err)
	}
	if len(session.Candidates) != 2 {
		t.Fatalf("expected 2 candidates staged, got %d", len(session.Candidates))
	}
}

func TestImportService_Preview_MissingColumns(t *testing.T) {
	parser := &stubParser{table: &ports.Table{
		Columns: []string{"Terminal", "Route"},
		Rows:    []map[string]string{{"Terminal": "A", "Route": "R1"}},
	}}
	svc, _ := importFixture(parser, newStubTruckRepo(), &stubBroadcaster{})

	_, err := svc.Preview(context.Background(), strings.NewReader(""), "alice")
	var mc *domain.MissingColumnsError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	if len(mc.Columns) != 2 || mc.Columns[0] != "Truck No" || mc.Columns[1] != "Dock Code" {
		t.Fatalf("unexpected missing columns: %v", mc.Columns)
	}
}

func TestImportService_Preview_MalformedUpload(t *testing.T) {
	parser := &stubParser{err: domain.ErrMalformedUpload}
	svc, _ := importFixture(parser, newStubTruckRepo(), &stubBroadcaster{})

	_, err := svc.Preview(context.Background(), strings.NewReader("not a spreadsheet"), "alice")
	if !errors.Is(err, domain.ErrMalformedUpload) {
		t.Fatalf("expected ErrMalformedUpload, got %v", err)
	}
}

func TestImportService_Preview_CapsPreviewRows(t *testing.T) {
	rows := make([]map[string]string, 25)
	for i := range rows {
		rows[i] = map[string]string{
			"Terminal": "A", "Truck No": "TRK" + string(rune('A'+i)), "Dock Code": "D", "Route": "R",
		}
	}
	parser := &stubParser{table: &ports.Table{Columns: importColumns, Rows: rows}}
	svc, _ := importFixture(parser, newStubTruckRepo(), &stubBroadcaster{})

	result, err := svc.Preview(context.Background(), strings.NewReader(""), "alice")
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if len(result.Preview) != 10 {
		t.Fatalf("expected preview capped at 10, got %d", len(result.Preview))
	}
	if result.TotalRows != 25 {
		t.Fatalf("expected all 25 candidates staged, got %d", result.TotalRows)
	}
}

func TestImportService_Confirm_InsertAndUpdate(t *testing.T) {
	repo := newStubTruckRepo()
	bc := &stubBroadcaster{}

	// Existing record that the import should update in place.
	existing, err := newTruckService(repo, &stubBroadcaster{}).Create(context.Background(), ports.CreateTruckInput{
		Terminal: "OLD", TruckNo: "TRK001", DockCode: "OLD", TruckRoute: "OLD",
	})
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	parser := &stubParser{table: &ports.Table{
		Columns: importColumns,
		Rows: []map[string]string{
			{"Terminal": "A", "Truck No": "TRK001", "Dock Code": "D1", "Route": "R1"},
			{"Terminal": "B", "Truck No": "TRK999", "Dock Code": "D9", "Route": "R9"},
		},
	}}
	svc, _ := importFixture(parser, repo, bc)

	preview, err := svc.Preview(context.Background(), strings.NewReader(""), "alice")
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}

	result, err := svc.Confirm(context.Background(), preview.SessionID, "alice")
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if result.Imported != 2 || result.Failed != 0 {
		t.Fatalf("expected 2 imported, got %+v", result)
	}
	if result.Message != "Successfully imported 2 trucks" {
		t.Fatalf("unexpected message: %q", result.Message)
	}

	// Matched row: same identity, new field values.
	updated, err := repo.FindByID(context.Background(), existing.ID)
	if err != nil {
		t.Fatalf("updated record missing: %v", err)
	}
	if updated.Terminal != "A" || updated.DockCode != "D1" {
		t.Fatalf("expected matched record updated, got %+v", updated)
	}
	if !updated.CreatedAt.Equal(existing.CreatedAt) {
		t.Fatalf("created_at must survive an import update")
	}

	// Unmatched row: new record inserted.
	inserted, err := repo.FindByTruckNo(context.Background(), "TRK999")
	if err != nil {
		t.Fatalf("inserted record missing: %v", err)
	}
	if inserted.ID == existing.ID {
		t.Fatalf("insert reused an existing id")
	}

	events := bc.recorded()
	if len(events) != 2 {
		t.Fatalf("expected 2 broadcast events, got %d", len(events))
	}
	for _, ev := range events {
		if ev.Type != domain.EventTruckCreated {
			t.Fatalf("expected truck_created events, got %q", ev.Type)
		}
	}
}

func TestImportService_Confirm_BlankTimesClearExisting(t *testing.T) {
	repo := newStubTruckRepo()

	prep := "08:00"
	existing, err := newTruckService(repo, &stubBroadcaster{}).Create(context.Background(), ports.CreateTruckInput{
		Terminal: "A", TruckNo: "TRK001", DockCode: "D1", TruckRoute: "R1",
		PreparationStart: &prep, PreparationEnd: &prep,
	})
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	// Re-import the same truck with a Prep Start but no Prep End.
	parser := &stubParser{table: &ports.Table{
		Columns: importColumns,
		Rows: []map[string]string{
			{"Terminal": "A", "Truck No": "TRK001", "Dock Code": "D1", "Route": "R1", "Prep Start": "09:00"},
		},
	}}
	svc, _ := importFixture(parser, repo, &stubBroadcaster{})

	preview, _ := svc.Preview(context.Background(), strings.NewReader(""), "alice")
	if _, err := svc.Confirm(context.Background(), preview.SessionID, "alice"); err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}

	updated, err := repo.FindByID(context.Background(), existing.ID)
	if err != nil {
		t.Fatalf("updated record missing: %v", err)
	}
	if updated.PreparationStart == nil || *updated.PreparationStart != "09:00" {
		t.Fatalf("expected prep start replaced, got %v", updated.PreparationStart)
	}
	if updated.PreparationEnd != nil {
		t.Fatalf("blank cell must clear the stored time, got %q", *updated.PreparationEnd)
	}
}

func TestImportService_Confirm_Replay(t *testing.T) {
	parser := &stubParser{table: &ports.Table{
		Columns: importColumns,
		Rows:    []map[string]string{{"Terminal": "A", "Truck No": "T1", "Dock Code": "D", "Route": "R"}},
	}}
	svc, _ := importFixture(parser, newStubTruckRepo(), &stubBroadcaster{})

	preview, _ := svc.Preview(context.Background(), strings.NewReader(""), "alice")
	if _, err := svc.Confirm(context.Background(), preview.SessionID, "alice"); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	if _, err := svc.Confirm(context.Background(), preview.SessionID, "alice"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on replay, got %v", err)
	}
}

func TestImportService_Confirm_WrongOwnerPreservesSession(t *testing.T) {
	parser := &stubParser{table: &ports.Table{
		Columns: importColumns,
		Rows:    []map[string]string{{"Terminal": "A", "Truck No": "T1", "Dock Code": "D", "Route": "R"}},
	}}
	svc, _ := importFixture(parser, newStubTruckRepo(), &stubBroadcaster{})

	preview, _ := svc.Preview(context.Background(), strings.NewReader(""), "alice")

	if _, err := svc.Confirm(context.Background(), preview.SessionID, "mallory"); !errors.Is(err, domain.ErrNotSessionOwner) {
		t.Fatalf("expected ErrNotSessionOwner, got %v", err)
	}

	// The rejected attempt must not consume the session.
	if _, err := svc.Confirm(context.Background(), preview.SessionID, "alice"); err != nil {
		t.Fatalf("owner confirm after rejected attempt failed: %v", err)
	}
}

func TestImportService_Confirm_ConcurrentExactlyOne(t *testing.T) {
	parser := &stubParser{table: &ports.Table{
		Columns: importColumns,
		Rows:    []map[string]string{{"Terminal": "A", "Truck No": "T1", "Dock Code": "D", "Route": "R"}},
	}}
	svc, _ := importFixture(parser, newStubTruckRepo(), &stubBroadcaster{})

	preview, _ := svc.Preview(context.Background(), strings.NewReader(""), "alice")

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Confirm(context.Background(), preview.SessionID, "alice")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("unexpected error from concurrent confirm: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one confirm to succeed, got %d", succeeded)
	}
}

func TestImportService_Confirm_RowFailureContinues(t *testing.T) {
	repo := newStubTruckRepo()
	repo.failTruckNos["TRK002"] = errors.New("storage unavailable")

	parser := &stubParser{table: &ports.Table{
		Columns: importColumns,
		Rows: []map[string]string{
			{"Terminal": "A", "Truck No": "TRK001", "Dock Code": "D1", "Route": "R1"},
			{"Terminal": "A", "Truck No": "TRK002", "Dock Code": "D2", "Route": "R2"},
			{"Terminal": "A", "Truck No": "TRK003", "Dock Code": "D3", "Route": "R3"},
		},
	}}
	svc, _ := importFixture(parser, repo, &stubBroadcaster{})

	preview, _ := svc.Preview(context.Background(), strings.NewReader(""), "alice")
	result, err := svc.Confirm(context.Background(), preview.SessionID, "alice")
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if result.Imported != 2 || result.Failed != 1 {
		t.Fatalf("expected 2 imported and 1 failed, got %+v", result)
	}
	failure := result.FailedDetails[0]
	if failure.Row != 2 || failure.TruckNo != "TRK002" {
		t.Fatalf("unexpected failure detail: %+v", failure)
	}
	if failure.Error == "" {
		t.Fatalf("expected failure reason recorded")
	}
}

func TestNormalizeClock(t *testing.T) {
	cases := map[string]string{
		"08:00":      "08:00",
		"8:00 AM":    "08:00",
		"1:30 PM":    "13:30",
		"14:05:30":   "14:05",
		"not a time": "not a time",
	}
	for in, want := range cases {
		if got := NormalizeClock(in); got != want {
			t.Fatalf("NormalizeClock(%q) = %q, want %q", in, got, want)
		}
	}
}
