package domain

// UpdateStatus reports how a graph refresh ended.
type UpdateStatus string

const (
	UpdateSuccess UpdateStatus = "success"
	UpdateError   UpdateStatus = "error"
)

// EventSourceBroadcast is the From value of every refresh completion event.
const EventSourceBroadcast = "broadcast"

// UpdateEvent is broadcast exactly once when a graph refresh completes.
type UpdateEvent struct {
	From   string       `json:"from"`
	Status UpdateStatus `json:"status"`
}
