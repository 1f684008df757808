package ports

import (
	"context"

	"github.com/dockside/truck-management/internal/core/domain"
)

// ImportSessionStore holds staged import batches between the preview and
// confirm phases.
type ImportSessionStore interface {
	Put(ctx context.Context, session *domain.ImportSession) error
	// Take resolves a session by token and consumes it atomically, so two
	// concurrent Take calls for the same token yield exactly one session.
	// When the session exists but belongs to a different owner, it returns
	// domain.ErrNotSessionOwner and leaves the session in place so the
	// rightful owner can still confirm it. Absent or already-consumed
	// tokens return domain.ErrSessionNotFound.
	Take(ctx context.Context, token, owner string) (*domain.ImportSession, error)
}
