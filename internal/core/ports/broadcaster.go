package ports

import "github.com/dockside/truck-management/internal/core/domain"

// Broadcaster pushes a change event to every connected realtime client.
// Delivery is best-effort: individual connection failures are handled
// inside the implementation and never surface to the caller.
type Broadcaster interface {
	Broadcast(event domain.ChangeEvent)
}
