package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Manager ведет активные WebSocket-соединения, сгруппированные по
// пользователю. Один пользователь может держать несколько соединений
// (несколько вкладок); событие доставляется в каждое.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool
}

// NewManager создает менеджер соединений
func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]map[*Client]bool),
	}
}

// Register привязывает новое соединение к пользователю и запускает
// его насосы чтения и записи
func (m *Manager) Register(userID string, conn *websocket.Conn) *Client {
	client := &Client{
		UserID:  userID,
		manager: m,
		conn:    conn,
		send:    make(chan []byte, clientBufferSize),
	}

	m.mu.Lock()
	if m.clients[userID] == nil {
		m.clients[userID] = make(map[*Client]bool)
	}
	m.clients[userID][client] = true
	total := len(m.clients[userID])
	m.mu.Unlock()

	go client.writePump()
	go client.readPump()

	log.Printf("[WebSocket] Пользователь %s подключен (%d соединений)", userID, total)
	return client
}

func (m *Manager) unregister(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conns, ok := m.clients[client.UserID]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(m.clients, client.UserID)
	}
	log.Printf("[WebSocket] Пользователь %s отключен", client.UserID)
}

// SendEventToUser доставляет событие во все соединения пользователя.
// Отсутствие соединений не является ошибкой: клиент мог играть без
// открытого сокета.
func (m *Manager) SendEventToUser(userID string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for client := range m.clients[userID] {
		select {
		case client.send <- data:
		default:
			// Буфер переполнен — событие для этого соединения теряется
			log.Printf("[WebSocket] Буфер соединения пользователя %s переполнен, событие пропущено", userID)
		}
	}
	return nil
}

// BroadcastEvent доставляет событие всем подключенным пользователям
// (обновления таблиц лидеров)
func (m *Manager) BroadcastEvent(event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, conns := range m.clients {
		for client := range conns {
			select {
			case client.send <- data:
			default:
			}
		}
	}
	return nil
}

// ConnectedUsers возвращает число пользователей с активными соединениями
func (m *Manager) ConnectedUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
