package domain

// Event types pushed to realtime clients after a successful mutation.
const (
	EventTruckCreated  = "truck_created"
	EventTruckUpdated  = "truck_updated"
	EventTruckDeleted  = "truck_deleted"
	EventStatusUpdated = "status_updated"
)

// ChangeEvent is the envelope broadcast to every connected client.
// Data is a full Truck for create/update/status events, or
// DeletedRef for deletes.
type ChangeEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// DeletedRef identifies a removed record in a truck_deleted event.
type DeletedRef struct {
	ID string `json:"id"`
}
