package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	clientSendSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // фронтенд живёт на другом домене
	},
}

// GlobalHub - единственный экземпляр хаба для всего приложения.
var GlobalHub = NewHub()

// Message - то, что уходит клиенту по websocket.
type Message struct {
	Type    string              `json:"type"`
	Payload models.Notification `json:"payload"`
}

type delivery struct {
	userID uint
	data   []byte
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

// Hub держит открытые соединения по пользователям. У одного пользователя
// может быть несколько вкладок.
type Hub struct {
	clients    map[uint]map[*Client]struct{}
	push       chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]struct{}),
		push:       make(chan delivery, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run обслуживает хаб до отмены ctx, затем закрывает все соединения.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, set := range h.clients {
				for client := range set {
					close(client.send)
				}
			}
			h.clients = make(map[uint]map[*Client]struct{})
			h.mu.Unlock()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]struct{})
			}
			h.clients[client.userID][client] = struct{}{}
			h.mu.Unlock()
			slog.Info("Client registered", "userID", client.userID)

		case client := <-h.unregister:
			h.removeClient(client)
			slog.Info("Client unregistered", "userID", client.userID)

		case d := <-h.push:
			h.deliver(d)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; ok {
		delete(set, client)
		close(client.send)
	}
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

// deliver отправляет сообщение всем вкладкам пользователя. Медленный клиент отключается.
func (h *Hub) deliver(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[d.userID] {
		select {
		case client.send <- d.data:
		default:
			close(client.send)
			delete(h.clients[d.userID], client)
		}
	}
	if len(h.clients[d.userID]) == 0 {
		delete(h.clients, d.userID)
	}
}

// Online - количество открытых соединений пользователя.
func (h *Hub) Online(userID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// Push ставит уведомление в очередь доставки. Не блокирует: при
// переполненной очереди уведомление остаётся только в БД.
func (h *Hub) Push(n models.Notification) {
	data, err := json.Marshal(Message{Type: "notification", Payload: n})
	if err != nil {
		slog.Error("Failed to marshal notification for push", "error", err)
		return
	}
	select {
	case h.push <- delivery{userID: n.UserID, data: data}:
	default:
		slog.Warn("Notification push queue is full, dropping live delivery", "user_id", n.UserID)
	}
}

// Notify сохраняет уведомление и отправляет его пользователю, если он онлайн.
func Notify(userID uint, kind, title, body string, contractID *uint) {
	n := models.Notification{
		UserID:     userID,
		Kind:       kind,
		Title:      title,
		Body:       body,
		ContractID: contractID,
	}
	if err := config.DB.Create(&n).Error; err != nil {
		slog.Error("Failed to save notification", "error", err, "user_id", userID, "kind", kind)
		return
	}
	GlobalHub.Push(n)
}

// NotifyAdmins рассылает уведомление всем активным администраторам.
func NotifyAdmins(kind, title, body string, contractID *uint) {
	var adminIDs []uint
	if err := config.DB.Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleAdmin, true).
		Pluck("id", &adminIDs).Error; err != nil {
		slog.Error("Failed to load admins for notification", "error", err)
		return
	}
	for _, id := range adminIDs {
		Notify(id, kind, title, body, contractID)
	}
}

// --- Методы клиента и WebSocket endpoint ---

// readPump читает только control-фреймы: клиент ничего не отправляет.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("Unexpected websocket close error", "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Error("Failed to write message to websocket", "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func NotificationsWSEndpoint(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}

	client := &Client{
		hub:    GlobalHub,
		conn:   conn,
		send:   make(chan []byte, clientSendSize),
		userID: p.UserID,
	}
	select {
	case client.hub.register <- client:
	case <-client.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
