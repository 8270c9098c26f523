package service

import (
	"context"
	"errors"
	"time"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/audit"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/cache"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/config"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/domain"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/hub"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/push"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/repository"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/log"
)

const messageSummaryLimit = 50

// coordinatorImpl implements the Coordinator interface.
type coordinatorImpl struct {
	presence *hub.Presence
	ledger   repository.MessageLedger
	users    repository.UserRepository
	pairs    repository.PairRepository
	notifier push.Notifier
	status   cache.StatusCache
	verifier TokenVerifier
	timeouts config.TimeoutConfig
}

// NewCoordinator creates the session coordinator. status may be nil when
// no cache backend is configured; the online flag is then persisted
// through the user repository only.
func NewCoordinator(
	presence *hub.Presence,
	ledger repository.MessageLedger,
	users repository.UserRepository,
	pairs repository.PairRepository,
	notifier push.Notifier,
	status cache.StatusCache,
	verifier TokenVerifier,
	timeouts config.TimeoutConfig,
) Coordinator {
	return &coordinatorImpl{
		presence: presence,
		ledger:   ledger,
		users:    users,
		pairs:    pairs,
		notifier: notifier,
		status:   status,
		verifier: verifier,
		timeouts: timeouts,
	}
}

func (s *coordinatorImpl) Authenticate(ctx context.Context, token string) (string, string, error) {
	userID, name, err := s.verifier.Verify(token)
	if err != nil {
		audit.LogWithDetail(ctx, audit.ActionAuthFailed, "", err.Error(), "handshake credential rejected")
		return "", "", ErrAuthFailed
	}
	return userID, name, nil
}

func (s *coordinatorImpl) Connect(ctx context.Context, c *hub.Client, userID, name string) error {
	l := log.Ctx(ctx)

	if !c.Session.Activate(userID, name) {
		return ErrNotActive
	}

	// Last connect wins: an existing connection for the same user is
	// displaced and closed, never left racing the new one.
	if prev := s.presence.Set(userID, c); prev != nil {
		l.Info().
			Str(log.FieldUserID, userID).
			Str(log.FieldConnID, prev.ID).
			Msg("displacing previous connection")
		prev.Close()
	}

	s.setOnline(ctx, userID, true)
	s.relayPartnerStatus(ctx, userID, true)
	audit.Log(ctx, audit.ActionConnect, userID, "session activated")
	return nil
}

func (s *coordinatorImpl) Disconnect(ctx context.Context, c *hub.Client) {
	defer c.Close()

	userID := c.Session.UserID
	if userID == "" {
		// Never activated; nothing was registered.
		return
	}

	// Only the connection that owns the presence entry may clear it. A
	// displaced socket's teardown must not evict its replacement.
	if !s.presence.ClearIf(userID, c) {
		return
	}

	s.setOnline(ctx, userID, false)
	s.relayPartnerStatus(ctx, userID, false)
	audit.Log(ctx, audit.ActionDisconnect, userID, "session closed")
}

func (s *coordinatorImpl) HandleTyping(ctx context.Context, c *hub.Client, isTyping bool) {
	if !c.Session.IsActive() {
		return
	}
	partnerID, err := s.partnerOf(ctx, c.Session.UserID)
	if err != nil {
		return
	}
	if pc, online := s.presence.Get(partnerID); online {
		pc.Enqueue(domain.TypingEvent{Type: domain.EventTypeTyping, IsTyping: isTyping})
	}
}

func (s *coordinatorImpl) HandleMessage(ctx context.Context, c *hub.Client, ev *domain.MessageEvent) error {
	l := log.Ctx(ctx)

	if !c.Session.IsActive() {
		return ErrNotActive
	}
	userID, name := c.Session.UserID, c.Session.Name

	kind := ev.Kind
	if kind == "" {
		kind = domain.KindText
	}
	if ev.Content == "" || !kind.Valid() {
		c.Enqueue(domain.NewErrorEvent(domain.ErrCodeValidation, "message content is required"))
		return nil
	}

	var msg *domain.Message
	if ev.ID != "" {
		// Late echo of a message already persisted through the HTTP
		// path. Skip the ledger append and deliver the stored copy.
		stored, err := s.getStored(ctx, ev.ID)
		if err != nil {
			l.Warn().Err(err).
				Str("message_id", ev.ID).
				Msg("echoed message not found in ledger")
			msg = &domain.Message{
				ID:         ev.ID,
				SenderID:   userID,
				SenderName: name,
				Content:    ev.Content,
				Kind:       kind,
				Timestamp:  time.Now().UTC(),
			}
		} else {
			msg = stored
		}
	} else {
		appended, err := s.appendMessage(ctx, &domain.Message{
			SenderID:   userID,
			SenderName: name,
			Content:    ev.Content,
			Kind:       kind,
		})
		if err != nil {
			l.Error().Err(err).
				Str(log.FieldUserID, userID).
				Msg("ledger append failed")
			c.Enqueue(domain.NewErrorEvent(domain.ErrCodeInternalError, "message could not be saved"))
			return nil
		}
		msg = appended
	}

	s.deliver(ctx, userID, msg)
	audit.LogWithDetail(ctx, audit.ActionSendMessage, userID, msg.ID, "message sent")
	return nil
}

func (s *coordinatorImpl) HandleRead(ctx context.Context, c *hub.Client, messageID string) error {
	l := log.Ctx(ctx)

	if !c.Session.IsActive() {
		return ErrNotActive
	}
	if messageID == "" {
		c.Enqueue(domain.NewErrorEvent(domain.ErrCodeValidation, "message id is required"))
		return nil
	}

	if err := s.MarkRead(ctx, c.Session.UserID, messageID); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			l.Warn().
				Str("message_id", messageID).
				Msg("read receipt for unknown message")
			return nil
		}
		l.Error().Err(err).
			Str("message_id", messageID).
			Msg("mark read failed")
		return err
	}
	return nil
}

func (s *coordinatorImpl) MarkRead(ctx context.Context, userID, messageID string) error {
	lctx, cancel := context.WithTimeout(ctx, s.timeouts.Ledger)
	defer cancel()
	if err := s.ledger.MarkRead(lctx, messageID); err != nil {
		return err
	}

	if partnerID, err := s.partnerOf(ctx, userID); err == nil {
		if pc, online := s.presence.Get(partnerID); online {
			pc.Enqueue(domain.ReadEvent{Type: domain.EventTypeRead, MessageID: messageID})
		}
	}
	audit.LogWithDetail(ctx, audit.ActionMarkRead, userID, messageID, "message marked read")
	return nil
}

func (s *coordinatorImpl) HandleAlert(ctx context.Context, c *hub.Client) error {
	if !c.Session.IsActive() {
		return ErrNotActive
	}
	userID, name := c.Session.UserID, c.Session.Name

	partnerID, err := s.partnerOf(ctx, userID)
	if err != nil {
		return nil
	}

	// Alerts always push, even to a counterpart that is connected. The
	// live event is delivered in addition when possible.
	pctx, cancel := context.WithTimeout(ctx, s.timeouts.Push)
	defer cancel()
	s.notifier.Notify(pctx, partnerID, push.Notification{
		Title: "Alert",
		Body:  name + " is trying to reach you!",
	})

	if pc, online := s.presence.Get(partnerID); online {
		pc.Enqueue(domain.AlertEvent{Type: domain.EventTypeAlert, From: name})
	}
	audit.Log(ctx, audit.ActionAlert, userID, "alert sent")
	return nil
}

func (s *coordinatorImpl) SendMessage(ctx context.Context, senderID string, content string, kind domain.MessageKind) (*domain.Message, error) {
	if kind == "" {
		kind = domain.KindText
	}
	if content == "" || !kind.Valid() {
		return nil, domain.ErrInvalidMessage
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg, err := s.appendMessage(ctx, &domain.Message{
		SenderID:   senderID,
		SenderName: sender.Name,
		Content:    content,
		Kind:       kind,
	})
	if err != nil {
		return nil, err
	}

	s.deliver(ctx, senderID, msg)
	audit.LogWithDetail(ctx, audit.ActionSendMessage, senderID, msg.ID, "message sent")
	return msg, nil
}

// deliver routes a persisted message: live relay when the counterpart
// holds a presence entry, push summary otherwise. A missing pairing
// leaves the message in the ledger with nothing to deliver.
func (s *coordinatorImpl) deliver(ctx context.Context, senderID string, msg *domain.Message) {
	partnerID, err := s.partnerOf(ctx, senderID)
	if err != nil {
		return
	}

	if pc, online := s.presence.Get(partnerID); online {
		pc.Enqueue(domain.NewMessageOut(msg))
		return
	}

	pctx, cancel := context.WithTimeout(ctx, s.timeouts.Push)
	defer cancel()
	s.notifier.Notify(pctx, partnerID, push.Notification{
		Title: "New message from " + msg.SenderName,
		Body:  summarize(msg),
	})
}

func (s *coordinatorImpl) appendMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	lctx, cancel := context.WithTimeout(ctx, s.timeouts.Ledger)
	defer cancel()
	return s.ledger.Append(lctx, msg)
}

func (s *coordinatorImpl) getStored(ctx context.Context, id string) (*domain.Message, error) {
	lctx, cancel := context.WithTimeout(ctx, s.timeouts.Ledger)
	defer cancel()
	return s.ledger.GetByID(lctx, id)
}

func (s *coordinatorImpl) partnerOf(ctx context.Context, userID string) (string, error) {
	pair, err := s.pairs.GetFor(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNoPartner) {
			l := log.Ctx(ctx)
			l.Error().Err(err).
				Str(log.FieldUserID, userID).
				Msg("pair lookup failed")
		}
		return "", err
	}
	return pair.Counterpart(userID), nil
}

// setOnline records the connectivity projection. Both writes are best
// effort; presence routing never consults them.
func (s *coordinatorImpl) setOnline(ctx context.Context, userID string, online bool) {
	l := log.Ctx(ctx)
	if err := s.users.SetOnline(ctx, userID, online); err != nil {
		l.Warn().Err(err).
			Str(log.FieldUserID, userID).
			Msg("persisting online flag failed")
	}
	if s.status != nil {
		if err := s.status.SetOnline(ctx, userID, online); err != nil {
			l.Warn().Err(err).
				Str(log.FieldUserID, userID).
				Msg("caching online flag failed")
		}
	}
}

func (s *coordinatorImpl) relayPartnerStatus(ctx context.Context, userID string, online bool) {
	partnerID, err := s.partnerOf(ctx, userID)
	if err != nil {
		return
	}
	if pc, ok := s.presence.Get(partnerID); ok {
		pc.Enqueue(domain.PartnerStatusEvent{Type: domain.EventTypePartnerStatus, Online: online})
	}
}

func summarize(msg *domain.Message) string {
	if msg.Kind == domain.KindVoice {
		return "Voice message"
	}
	runes := []rune(msg.Content)
	if len(runes) <= messageSummaryLimit {
		return msg.Content
	}
	return string(runes[:messageSummaryLimit])
}
