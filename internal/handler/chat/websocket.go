package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/calm-companion/backend/internal/model/chat"
	chatService "github.com/zhouzirui/calm-companion/backend/internal/service/chat"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// WebSocketHandler 通过 WebSocket 推送聊天消息
type WebSocketHandler struct {
	chatSvc  *chatService.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(chatSvc *chatService.Service) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/chat/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TextMessage 文本消息
type TextMessage struct {
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// wsConn 串行化写操作，gorilla/websocket 不允许并发写。
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	events, unsubscribe, err := h.chatSvc.Subscribe(sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	defer unsubscribe()

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer raw.Close()
	conn := &wsConn{conn: raw}

	log.Printf("[websocket] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	raw.SetReadDeadline(time.Now().Add(wsReadTimeout))
	raw.SetPongHandler(func(string) error {
		raw.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	go h.pingLoop(ctx, conn)
	go h.forwardEvents(ctx, cancel, conn, sessionID, events)
	go func() {
		// 关闭连接以解除 ReadJSON 的阻塞
		<-ctx.Done()
		raw.Close()
	}()

	h.send(conn, sessionID, "connected", nil)

	for {
		var msg inboundMessage
		if err := raw.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}
		raw.SetReadDeadline(time.Now().Add(wsReadTimeout))

		if ctx.Err() != nil {
			return
		}
		h.handleMessage(ctx, conn, sessionID, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, conn *wsConn, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "text":
		var text TextMessage
		if err := json.Unmarshal(msg.Data, &text); err != nil {
			h.sendError(conn, sessionID, "invalid text payload")
			return
		}
		h.handleText(ctx, conn, sessionID, text.Text)
	case "ping":
		h.send(conn, sessionID, "pong", nil)
	default:
		h.sendError(conn, sessionID, "unsupported message type: "+msg.Type)
	}
}

func (h *WebSocketHandler) handleText(ctx context.Context, conn *wsConn, sessionID, text string) {
	msg, err := h.chatSvc.Submit(ctx, sessionID, text)
	switch {
	case errors.Is(err, chatService.ErrAwaitingReply):
		h.sendError(conn, sessionID, "please wait for the companion to reply")
	case err != nil:
		h.sendError(conn, sessionID, err.Error())
	case msg != nil:
		h.send(conn, sessionID, "typing", map[string]bool{"typing": true})
	}
}

// forwardEvents 将会话中新追加的消息推送给客户端
func (h *WebSocketHandler) forwardEvents(ctx context.Context, cancel context.CancelFunc, conn *wsConn, sessionID string, events <-chan chat.Message) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				h.send(conn, sessionID, "closed", nil)
				return
			}
			if err := conn.writeJSON(outgoingMessage{
				Type:      string(msg.Sender),
				SessionID: sessionID,
				Data:      msg,
				Timestamp: time.Now().UnixMilli(),
			}); err != nil {
				log.Printf("[websocket] write failed session=%s: %v", sessionID, err)
				return
			}
		}
	}
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *wsConn) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				log.Printf("[websocket] ping failed: %v", err)
				return
			}
		}
	}
}

func (h *WebSocketHandler) send(conn *wsConn, sessionID, msgType string, data interface{}) {
	if err := conn.writeJSON(outgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}); err != nil {
		log.Printf("[websocket] failed to send %s: %v", msgType, err)
	}
}

func (h *WebSocketHandler) sendError(conn *wsConn, sessionID, message string) {
	h.send(conn, sessionID, "error", map[string]string{"message": message})
}
