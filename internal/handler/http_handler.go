package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/audit"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/cache"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/domain"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/hub"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/repository"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/service"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/jwt"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/log"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/middleware"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/response"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/storage"
)

const (
	defaultMessageLimit = 100
	maxMessageLimit     = 200
	mediaURLTTL         = 15 * time.Minute
)

// Handler handles the HTTP surface: login, message history, push
// subscriptions, partner lookup, and voice media.
type Handler struct {
	coordinator    service.Coordinator
	users          repository.UserRepository
	pairs          repository.PairRepository
	ledger         repository.MessageLedger
	subs           repository.PushSubscriptionRepository
	presence       *hub.Presence
	status         cache.StatusCache
	store          storage.BlobStore
	tokens         *jwt.Manager
	authMiddleware *middleware.AuthMiddleware
	vapidPublicKey string
}

// NewHandler creates a new HTTP handler. status may be nil.
func NewHandler(
	coordinator service.Coordinator,
	users repository.UserRepository,
	pairs repository.PairRepository,
	ledger repository.MessageLedger,
	subs repository.PushSubscriptionRepository,
	presence *hub.Presence,
	status cache.StatusCache,
	store storage.BlobStore,
	tokens *jwt.Manager,
	authMiddleware *middleware.AuthMiddleware,
	vapidPublicKey string,
) *Handler {
	return &Handler{
		coordinator:    coordinator,
		users:          users,
		pairs:          pairs,
		ledger:         ledger,
		subs:           subs,
		presence:       presence,
		status:         status,
		store:          store,
		tokens:         tokens,
		authMiddleware: authMiddleware,
		vapidPublicKey: vapidPublicKey,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine, ws *WSHandler) {
	r.GET("/health", h.Health)
	r.GET("/ws", ws.Handle)

	api := r.Group("/api")
	{
		api.POST("/auth/login", h.Login)

		messages := api.Group("/messages")
		messages.Use(h.authMiddleware.RequireAuth())
		{
			messages.GET("", h.ListMessages)
			messages.POST("", h.SendMessage)
			messages.PATCH("/:id/read", h.MarkRead)
		}

		notifications := api.Group("/notifications")
		notifications.Use(h.authMiddleware.RequireAuth())
		{
			notifications.GET("/key", h.PushKey)
			notifications.POST("/subscribe", h.Subscribe)
			notifications.DELETE("/unsubscribe", h.Unsubscribe)
		}

		users := api.Group("/users")
		users.Use(h.authMiddleware.RequireAuth())
		{
			users.GET("/partner", h.GetPartner)
			users.POST("/status", h.SetStatus)
		}

		media := api.Group("/media")
		{
			media.POST("/voice", h.authMiddleware.RequireAuth(), h.UploadVoice)
			media.GET("/voice/:id", h.StreamVoice)
		}
	}
}

func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// Login upserts the participant identified by {name, user_id} and
// issues a bearer token. Pairing with the first unpaired participant
// happens here; being alone is not a login failure.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid login request")
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Upsert(ctx, req.Name, req.UserID)
	if err != nil {
		l.Error().Err(err).Msg("login upsert failed")
		response.InternalError(c, "failed to log in")
		return
	}

	if _, err := h.pairs.EnsureFor(ctx, user.ID); err != nil && !errors.Is(err, repository.ErrNoPartner) {
		l.Error().Err(err).Msg("pairing failed")
		response.InternalError(c, "failed to log in")
		return
	}

	token, expiresAt, err := h.tokens.Generate(user.ID, user.Name)
	if err != nil {
		l.Error().Err(err).Msg("token generation failed")
		response.InternalError(c, "failed to log in")
		return
	}

	if err := h.users.SetOnline(ctx, user.ID, true); err != nil {
		l.Warn().Err(err).Msg("persisting online flag failed")
	}

	audit.Log(ctx, audit.ActionLogin, user.ID, "user logged in")
	response.Success(c, &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// ListMessages returns up to limit recent messages in ascending
// timestamp order.
func (h *Handler) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	limit := defaultMessageLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	messages, err := h.ledger.ListRecent(ctx, limit)
	if err != nil {
		l.Error().Err(err).Msg("listing messages failed")
		response.InternalError(c, "failed to list messages")
		return
	}

	response.Success(c, gin.H{"messages": messages})
}

// SendMessage persists a message out of band and delivers it through
// the same path as socket sends.
func (h *Handler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.coordinator.SendMessage(ctx, userID, req.Content, req.Kind)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMessage) {
			response.BadRequest(c, "invalid message content or kind")
			return
		}
		l.Error().Err(err).Msg("sending message failed")
		response.InternalError(c, "failed to send message")
		return
	}

	response.Created(c, msg)
}

// MarkRead flips the read flag on a message and relays the receipt to
// a connected counterpart. Marking an already-read message succeeds.
func (h *Handler) MarkRead(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	messageID := c.Param("id")
	if err := h.coordinator.MarkRead(ctx, userID, messageID); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			response.NotFound(c, "message not found")
			return
		}
		l.Error().Err(err).Msg("marking message read failed")
		response.InternalError(c, "failed to mark message read")
		return
	}

	response.Success(c, gin.H{"id": messageID, "read": true})
}

// PushKey returns the VAPID public key browsers need to subscribe.
func (h *Handler) PushKey(c *gin.Context) {
	response.Success(c, gin.H{"public_key": h.vapidPublicKey})
}

// Subscribe registers a web push endpoint for the caller.
func (h *Handler) Subscribe(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	var req domain.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sub := &domain.PushSubscription{
		UserID:   userID,
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	}
	if err := h.subs.Add(ctx, sub); err != nil {
		l.Error().Err(err).Msg("subscription registration failed")
		response.InternalError(c, "failed to register subscription")
		return
	}

	audit.Log(ctx, audit.ActionSubscribe, userID, "push endpoint registered")
	response.Created(c, gin.H{"subscribed": true})
}

// Unsubscribe drops every push endpoint registered for the caller.
func (h *Handler) Unsubscribe(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	if err := h.subs.RemoveAllForUser(ctx, userID); err != nil {
		l.Error().Err(err).Msg("subscription removal failed")
		response.InternalError(c, "failed to remove subscriptions")
		return
	}

	audit.Log(ctx, audit.ActionUnsubscribe, userID, "push endpoints removed")
	response.Success(c, gin.H{"subscribed": false})
}

// GetPartner returns the caller's counterpart and their live presence.
func (h *Handler) GetPartner(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	pair, err := h.pairs.GetFor(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoPartner) {
			response.NotFound(c, "no partner yet")
			return
		}
		l.Error().Err(err).Msg("pair lookup failed")
		response.InternalError(c, "failed to look up partner")
		return
	}

	partner, err := h.users.GetByID(ctx, pair.Counterpart(userID))
	if err != nil {
		l.Error().Err(err).Msg("partner lookup failed")
		response.InternalError(c, "failed to look up partner")
		return
	}

	response.Success(c, &domain.PartnerResponse{
		User:   partner,
		Online: h.resolveOnline(ctx, partner),
	})
}

// resolveOnline answers the partner's connectivity for read paths: a
// live presence entry wins, then the cached projection, then the
// persisted flag.
func (h *Handler) resolveOnline(ctx context.Context, u *domain.User) bool {
	if h.presence.IsPresent(u.ID) {
		return true
	}
	if h.status != nil {
		online, err := h.status.IsOnline(ctx, u.ID)
		if err == nil {
			return online
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldUserID, u.ID).Msg("reading cached status failed")
		}
	}
	return u.IsOnline
}

// SetStatus writes the caller's persisted online projection. Live
// delivery decisions never consult it.
func (h *Handler) SetStatus(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	var req domain.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.users.SetOnline(ctx, userID, *req.Online); err != nil {
		l.Error().Err(err).Msg("status update failed")
		response.InternalError(c, "failed to update status")
		return
	}
	if h.status != nil {
		if err := h.status.SetOnline(ctx, userID, *req.Online); err != nil {
			l.Warn().Err(err).Msg("caching status failed")
		}
	}

	response.Success(c, gin.H{"online": *req.Online})
}

// UploadVoice stores a voice recording and returns its key and URL.
// The caller then sends a voice message whose content is the URL.
func (h *Handler) UploadVoice(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	fileHeader, err := c.FormFile("voice")
	if err != nil {
		response.BadRequest(c, "voice file is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		l.Error().Err(err).Msg("opening uploaded file failed")
		response.InternalError(c, "failed to store voice message")
		return
	}
	defer f.Close()

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".webm"
	}
	key := "voice/" + uuid.New().String() + ext

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.store.Write(ctx, key, f, fileHeader.Size, contentType); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("storing voice blob failed")
		response.InternalError(c, "failed to store voice message")
		return
	}

	url, err := h.store.GetURL(ctx, key, mediaURLTTL)
	if err != nil {
		l.Error().Err(err).Msg("resolving media url failed")
		response.InternalError(c, "failed to store voice message")
		return
	}

	response.Created(c, &domain.MediaResponse{Key: key, URL: url})
}

// StreamVoice serves a stored voice blob. Only used with the local
// store; S3 URLs are presigned and bypass the server.
func (h *Handler) StreamVoice(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	r, err := h.store.Read(ctx, "voice/"+id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(c, "voice message not found")
			return
		}
		response.InternalError(c, "failed to read voice message")
		return
	}
	defer r.Close()

	contentType := mime.TypeByExtension(filepath.Ext(id))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(200)
	io.Copy(c.Writer, r)
}
