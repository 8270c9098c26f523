package push

import (
	"context"
	"encoding/json"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/config"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/repository"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/log"
)

// WebPushNotifier implements Notifier over the Web Push protocol with
// VAPID authentication.
type WebPushNotifier struct {
	subs   repository.PushSubscriptionRepository
	cfg    config.PushConfig
	client *http.Client
}

func NewWebPushNotifier(subs repository.PushSubscriptionRepository, cfg config.PushConfig, client *http.Client) *WebPushNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebPushNotifier{
		subs:   subs,
		cfg:    cfg,
		client: client,
	}
}

// Notify sends the notification to every endpoint registered for
// userID. One endpoint failing does not stop the others; failed
// endpoints are kept registered.
func (n *WebPushNotifier) Notify(ctx context.Context, userID string, notification Notification) {
	l := log.Ctx(ctx)

	subs, err := n.subs.ListForUser(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to list push endpoints")
		return
	}
	if len(subs) == 0 {
		l.Debug().Str(log.FieldUserID, userID).Msg("no push endpoints registered")
		return
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		l.Error().Err(err).Msg("failed to marshal push payload")
		return
	}

	for _, sub := range subs {
		target := &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}

		resp, err := webpush.SendNotificationWithContext(ctx, payload, target, &webpush.Options{
			HTTPClient:      n.client,
			Subscriber:      n.cfg.Subject,
			VAPIDPublicKey:  n.cfg.VAPIDPublicKey,
			VAPIDPrivateKey: n.cfg.VAPIDPrivateKey,
			TTL:             n.cfg.TTL,
		})
		if err != nil {
			l.Warn().Err(err).
				Str(log.FieldUserID, userID).
				Str("endpoint", sub.Endpoint).
				Msg("push dispatch failed")
			continue
		}
		if resp.StatusCode >= 400 {
			l.Warn().
				Int("status", resp.StatusCode).
				Str(log.FieldUserID, userID).
				Str("endpoint", sub.Endpoint).
				Msg("push endpoint rejected notification")
		}
		resp.Body.Close()
	}
}
