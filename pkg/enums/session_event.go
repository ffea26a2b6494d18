package enums

// SessionEventType describes a change in a user's signed-in state.
type SessionEventType string

const (
	SessionEventSignedIn  SessionEventType = "signed_in"
	SessionEventSignedOut SessionEventType = "signed_out"
)

func (t SessionEventType) String() string {
	return string(t)
}

// OrderEventType names the messages published on the orders topic.
type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "order.created"
	OrderEventStatusChanged OrderEventType = "order.status_changed"
)

func (t OrderEventType) String() string {
	return string(t)
}
