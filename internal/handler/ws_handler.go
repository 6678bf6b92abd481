package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/exam-api/internal/ws"
)

// WSHandler обрабатывает WebSocket соединения живой админ-ленты
type WSHandler struct {
	hub *ws.Hub
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Не-браузерные клиенты (curl, мониторинг) приходят без Origin
		if r.Header.Get("Origin") == "" {
			return true
		}
		// Браузерные клиенты проходят CORS на HTTP-слое; доступ к ленте
		// ограничен ролью admin до апгрейда
		return true
	},
}

// HandleAdminFeed апгрейдит соединение и держит его до отключения клиента.
// Лента односторонняя: входящие сообщения читаются и отбрасываются, чтение
// нужно только для обнаружения обрыва.
func (h *WSHandler) HandleAdminFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] Ошибка апгрейда соединения: %v", err)
		return
	}

	h.hub.AddClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.hub.RemoveClient(conn)
}
