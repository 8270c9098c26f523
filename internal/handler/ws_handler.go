package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/config"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/domain"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/hub"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/service"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/log"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades authenticated requests to WebSocket sessions and
// dispatches inbound events to the coordinator.
type WSHandler struct {
	coordinator service.Coordinator
	wsCfg       config.WebSocketConfig
}

func NewWSHandler(coordinator service.Coordinator, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		coordinator: coordinator,
		wsCfg:       wsCfg,
	}
}

// Handle serves GET /ws. The credential travels in the token query
// parameter because browsers cannot set headers on WebSocket
// handshakes; a bad credential refuses the upgrade outright.
func (h *WSHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = bearerToken(c.GetHeader("Authorization"))
	}

	ctx := c.Request.Context()
	userID, name, err := h.coordinator.Authenticate(ctx, token)
	if err != nil {
		response.Unauthorized(c, "invalid or missing credentials")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), conn, h.wsCfg)

	base := log.Ctx(ctx)
	l := base.With().
		Str(log.FieldUserID, userID).
		Str(log.FieldConnID, client.ID).
		Logger()
	ctx = log.WithLogger(ctx, l)

	if err := h.coordinator.Connect(ctx, client, userID, name); err != nil {
		l.Error().Err(err).Msg("session activation failed")
		client.Close()
		return
	}

	go client.WritePump()
	client.ReadPump(func(cl *hub.Client, raw []byte) {
		h.dispatch(ctx, cl, raw)
	})
	h.coordinator.Disconnect(ctx, client)
}

func (h *WSHandler) dispatch(ctx context.Context, client *hub.Client, raw []byte) {
	var base domain.BaseEvent
	if err := json.Unmarshal(raw, &base); err != nil {
		client.Enqueue(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid event format"))
		return
	}

	switch base.Type {
	case domain.EventTypeTyping:
		var ev domain.TypingEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			client.Enqueue(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid typing event"))
			return
		}
		h.coordinator.HandleTyping(ctx, client, ev.IsTyping)

	case domain.EventTypeMessage:
		var ev domain.MessageEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			client.Enqueue(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid message event"))
			return
		}
		if err := h.coordinator.HandleMessage(ctx, client, &ev); err != nil {
			l := log.Ctx(ctx)
			l.Error().Err(err).Msg("message handling failed")
		}

	case domain.EventTypeRead:
		var ev domain.ReadEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			client.Enqueue(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid read event"))
			return
		}
		if err := h.coordinator.HandleRead(ctx, client, ev.MessageID); err != nil {
			l := log.Ctx(ctx)
			l.Error().Err(err).Msg("read receipt handling failed")
		}

	case domain.EventTypeAlert:
		if err := h.coordinator.HandleAlert(ctx, client); err != nil {
			l := log.Ctx(ctx)
			l.Error().Err(err).Msg("alert handling failed")
		}

	default:
		client.Enqueue(domain.NewErrorEvent(domain.ErrCodeBadRequest, "unknown event type"))
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
