package websocket

import (
	"encoding/json"
	"sync"

	"unimarket/pkg/logger"
)

// Manager tracks connected clients and the ephemeral room memberships used
// for push delivery. Rooms are keyed by thread ID (conversation rooms) or by
// user ID (the per-user room every client joins on connect). Membership is
// per-connection state and is rebuilt on reconnect; nothing here is a
// correctness dependency.
type Manager struct {
	mutex   sync.RWMutex
	clients map[string]*Client            // userID -> connection (latest wins)
	rooms   map[string]map[string]*Client // roomID -> userID -> connection
}

func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// Register attaches a client and joins its per-user room. An earlier
// connection for the same user is superseded.
func (m *Manager) Register(client *Client) {
	m.mutex.Lock()
	if old, ok := m.clients[client.UserID]; ok && old != client {
		m.detachLocked(old)
	}
	m.clients[client.UserID] = client
	m.joinLocked(client.UserID, client)
	m.mutex.Unlock()

	logger.Info("websocket: client registered: %s", client.UserID)
}

// Unregister drops a client and all of its room memberships.
func (m *Manager) Unregister(client *Client) {
	m.mutex.Lock()
	if current, ok := m.clients[client.UserID]; ok && current == client {
		delete(m.clients, client.UserID)
	}
	m.detachLocked(client)
	m.mutex.Unlock()

	logger.Info("websocket: client unregistered: %s", client.UserID)
}

func (m *Manager) JoinRoom(roomID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[userID]
	if !ok {
		return
	}
	m.joinLocked(roomID, client)
}

func (m *Manager) LeaveRoom(roomID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	members, ok := m.rooms[roomID]
	if !ok {
		return
	}
	delete(members, userID)
	if len(members) == 0 {
		delete(m.rooms, roomID)
	}
}

// EmitToRoom pushes an event to every connection in the room. Slow or gone
// consumers are dropped, never waited on.
func (m *Manager) EmitToRoom(roomID string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("websocket: failed to marshal event for room %s: %v", roomID, err)
		return
	}

	m.mutex.RLock()
	members := make([]*Client, 0, len(m.rooms[roomID]))
	for _, client := range m.rooms[roomID] {
		members = append(members, client)
	}
	m.mutex.RUnlock()

	for _, client := range members {
		m.deliver(client, payload)
	}
}

// EmitToUser pushes an event to one user's connection, if any.
func (m *Manager) EmitToUser(userID string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("websocket: failed to marshal event for user %s: %v", userID, err)
		return
	}

	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if ok {
		m.deliver(client, payload)
	}
}

// RoomSize reports current membership, for diagnostics.
func (m *Manager) RoomSize(roomID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms[roomID])
}

// deliver never blocks and never closes Send: a stale snapshot of a dropped
// client must stay safe to send to from any emitter.
func (m *Manager) deliver(client *Client, payload []byte) {
	select {
	case <-client.done:
	case client.Send <- payload:
	default:
		logger.Warn("websocket: client %s send buffer full, dropping connection", client.UserID)
		m.Unregister(client)
		client.shutdown()
	}
}

func (m *Manager) joinLocked(roomID string, client *Client) {
	members, ok := m.rooms[roomID]
	if !ok {
		members = make(map[string]*Client)
		m.rooms[roomID] = members
	}
	members[client.UserID] = client
}

func (m *Manager) detachLocked(client *Client) {
	for roomID, members := range m.rooms {
		if members[client.UserID] == client {
			delete(members, client.UserID)
			if len(members) == 0 {
				delete(m.rooms, roomID)
			}
		}
	}
}
