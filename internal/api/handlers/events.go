package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"todo_bank/internal/middleware"
	"todo_bank/internal/models"
	"todo_bank/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsHandler 將帳戶與待辦事項的事件推送給 WebSocket 訂閱者
type EventsHandler struct {
	hub *service.EventHub
}

func NewEventsHandler(hub *service.EventHub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// AccountEvents 訂閱目前帳戶的事件，需經過 AccountMiddleware
func (h *EventsHandler) AccountEvents(c *gin.Context) {
	h.subscribe(c, models.AccountTopic(middleware.CurrentAccount(c).ID))
}

// TodoEvents 訂閱目前用戶的待辦事項事件，需經過 UserMiddleware
func (h *EventsHandler) TodoEvents(c *gin.Context) {
	h.subscribe(c, models.UserTopic(middleware.CurrentUser(c).ID))
}

func (h *EventsHandler) subscribe(c *gin.Context, topic string) {
	// Upgrade 失敗時已經回覆了錯誤
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.hub.HandleConnection(conn, topic)
}
