package service

// RealtimeChannel is the injected push abstraction. Delivery is best-effort
// and at-most-once: every method resolves even when no transport is attached,
// and no caller may treat an emit as a correctness dependency. Clients
// reconcile by re-fetching thread history and polling unread counts.
type RealtimeChannel interface {
	JoinRoom(roomID, userID string)
	LeaveRoom(roomID, userID string)
	EmitToRoom(roomID string, event interface{})
	EmitToUser(userID string, event interface{})
}

// NopChannel satisfies RealtimeChannel with no transport. Used when the hub
// is unavailable and as the default in tests.
type NopChannel struct{}

func (NopChannel) JoinRoom(string, string)          {}
func (NopChannel) LeaveRoom(string, string)         {}
func (NopChannel) EmitToRoom(string, interface{})   {}
func (NopChannel) EmitToUser(string, interface{})   {}
