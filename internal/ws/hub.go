package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yourusername/exam-api/internal/service"
)

// Message — конверт сообщения живой ленты
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub раздает события завершения сессий подключенным админ-клиентам.
// Один процесс, без шардирования: лента обзорная, потеря сообщения при
// обрыве соединения допустима — клиент перечитывает результаты по REST.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewHub создает новый хаб админ-ленты
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// AddClient регистрирует подключение администратора
func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[conn] = true
	log.Printf("[WS] Админ-клиент подключен (всего: %d)", len(h.clients))
}

// RemoveClient снимает подключение и закрывает его
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
		log.Printf("[WS] Админ-клиент отключен (всего: %d)", len(h.clients))
	}
}

// PublishSessionCompleted реализует service.EventPublisher: рассылает
// событие завершения сессии всем подключенным администраторам
func (h *Hub) PublishSessionCompleted(event service.SessionCompletedEvent) {
	h.broadcast(Message{Type: "session_completed", Data: event})
}

func (h *Hub) broadcast(message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Ошибка сериализации сообщения: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[WS] Ошибка записи, отключаю клиента: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
