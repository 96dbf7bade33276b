package websocket

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Время, которое разрешено писать сообщение клиенту.
	writeWait = 10 * time.Second

	// Время, которое разрешено клиенту читать следующее сообщение.
	pongWait = 30 * time.Second

	// Периодичность отправки ping-сообщений клиенту.
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер входящего сообщения
	maxMessageSize = 512

	// Размер буфера канала отправки сообщений клиенту
	clientBufferSize = 64
)

// Client является посредником между WebSocket соединением и менеджером.
// Соединение push-only: сервер отправляет события сессий и таблиц
// лидеров, входящие сообщения от клиента игнорируются.
type Client struct {
	// ID пользователя
	UserID string

	manager *Manager
	conn    *websocket.Conn

	// Буферизованный канал для исходящих сообщений
	send chan []byte
}

// readPump вычитывает соединение ради контроля pong и закрытия.
// Завершение readPump означает отключение клиента.
func (c *Client) readPump() {
	defer func() {
		c.manager.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WebSocket] Соединение пользователя %s закрыто с ошибкой: %v", c.UserID, err)
			}
			return
		}
	}
}

// writePump переносит сообщения из канала send в соединение
// и поддерживает его ping-сообщениями
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// Менеджер закрыл канал
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
