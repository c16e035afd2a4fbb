package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"todo_bank/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
	sendBuffer     = 256
)

// EventPublisher 讓服務在資料變動時發布事件
type EventPublisher interface {
	Publish(topic, eventType string, payload any)
}

// NopPublisher 丟棄所有事件
type NopPublisher struct{}

func (NopPublisher) Publish(string, string, any) {}

// Client 代表一個訂閱某主題的 WebSocket 連接
type Client struct {
	conn  *websocket.Conn
	topic string
	send  chan []byte
}

// EventHub 管理所有的 WebSocket 訂閱者並依主題廣播事件
type EventHub struct {
	clients    map[string]map[*Client]struct{} // topic -> clients
	clientsMux sync.RWMutex
	logger     *zap.Logger
	now        func() time.Time
}

func NewEventHub(logger *zap.Logger) *EventHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHub{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logger,
		now:     time.Now,
	}
}

// HandleConnection 註冊連接並阻塞到連接關閉為止
func (h *EventHub) HandleConnection(conn *websocket.Conn, topic string) {
	client := &Client{
		conn:  conn,
		topic: topic,
		send:  make(chan []byte, sendBuffer),
	}

	h.addClient(client)
	h.logger.Debug("subscriber connected", zap.String("topic", topic))

	go h.writePump(client)
	h.readPump(client)

	h.removeClient(client)
	h.logger.Debug("subscriber disconnected", zap.String("topic", topic))
}

// readPump 只處理 pong 與關閉，訂閱者送來的內容會被忽略
func (h *EventHub) readPump(client *Client) {
	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket unexpected close", zap.String("topic", client.topic), zap.Error(err))
			}
			return
		}
	}
}

// writePump 將事件寫給客戶端並定期發送心跳
func (h *EventHub) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Publish 向主題內的所有訂閱者廣播事件；佇列已滿的訂閱者會被移除
func (h *EventHub) Publish(topic, eventType string, payload any) {
	event := models.Event{
		Type:      eventType,
		Topic:     topic,
		Payload:   payload,
		Timestamp: h.now().UTC(),
	}

	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("event encoding failed", zap.String("type", eventType), zap.Error(err))
		return
	}

	var slow []*Client
	h.clientsMux.RLock()
	for client := range h.clients[topic] {
		select {
		case client.send <- message:
		default:
			slow = append(slow, client)
		}
	}
	h.clientsMux.RUnlock()

	for _, client := range slow {
		h.logger.Warn("dropping slow subscriber", zap.String("topic", topic))
		h.removeClient(client)
	}
}

func (h *EventHub) addClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if h.clients[client.topic] == nil {
		h.clients[client.topic] = make(map[*Client]struct{})
	}
	h.clients[client.topic][client] = struct{}{}
}

// removeClient 移除訂閱者並關閉其發送通道，重複呼叫是安全的
func (h *EventHub) removeClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	clients, ok := h.clients[client.topic]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.topic)
	}
}

// Subscribers 回傳主題目前的訂閱者數量
func (h *EventHub) Subscribers(topic string) int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	return len(h.clients[topic])
}
