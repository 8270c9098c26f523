package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/config"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/domain"
)

type stubSubs struct {
	subs    []domain.PushSubscription
	listErr error
}

func (s *stubSubs) Add(ctx context.Context, sub *domain.PushSubscription) error { return nil }
func (s *stubSubs) RemoveAllForUser(ctx context.Context, userID string) error   { return nil }
func (s *stubSubs) ListForUser(ctx context.Context, userID string) ([]domain.PushSubscription, error) {
	return s.subs, s.listErr
}

// browserKeys fabricates a valid client key pair the way a browser
// would: an uncompressed P-256 point and a 16 byte auth secret.
func browserKeys(t *testing.T) (p256dh, auth string) {
	t.Helper()

	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate client key: %v", err)
	}
	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		t.Fatalf("generate auth secret: %v", err)
	}
	return base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		base64.RawURLEncoding.EncodeToString(secret)
}

func newTestNotifier(t *testing.T, subs *stubSubs) *WebPushNotifier {
	t.Helper()

	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate vapid keys: %v", err)
	}

	return NewWebPushNotifier(subs, config.PushConfig{
		VAPIDPublicKey:  publicKey,
		VAPIDPrivateKey: privateKey,
		Subject:         "mailto:test@example.com",
		TTL:             30,
	}, http.DefaultClient)
}

func TestNotifyHitsEveryEndpoint(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	p256dh, auth := browserKeys(t)
	subs := &stubSubs{subs: []domain.PushSubscription{
		{UserID: "u1", Endpoint: server.URL + "/ep1", P256dh: p256dh, Auth: auth},
		{UserID: "u1", Endpoint: server.URL + "/ep2", P256dh: p256dh, Auth: auth},
	}}

	n := newTestNotifier(t, subs)
	n.Notify(context.Background(), "u1", Notification{Title: "Alert", Body: "ping"})

	if got := atomic.LoadInt64(&hits); got != 2 {
		t.Fatalf("endpoints hit = %d, want 2", got)
	}
}

func TestNotifyFailureDoesNotStopOthers(t *testing.T) {
	var okHits, failHits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			atomic.AddInt64(&failHits, 1)
			w.WriteHeader(http.StatusGone)
			return
		}
		atomic.AddInt64(&okHits, 1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	p256dh, auth := browserKeys(t)
	subs := &stubSubs{subs: []domain.PushSubscription{
		{UserID: "u1", Endpoint: server.URL + "/fail", P256dh: p256dh, Auth: auth},
		{UserID: "u1", Endpoint: server.URL + "/ok", P256dh: p256dh, Auth: auth},
	}}

	n := newTestNotifier(t, subs)
	n.Notify(context.Background(), "u1", Notification{Title: "New message from alice", Body: "hi"})

	if atomic.LoadInt64(&failHits) != 1 || atomic.LoadInt64(&okHits) != 1 {
		t.Fatalf("hits = %d fail / %d ok, want 1/1", failHits, okHits)
	}
}

func TestNotifyNoEndpointsIsQuiet(t *testing.T) {
	n := newTestNotifier(t, &stubSubs{})
	// Must not panic or block with nothing registered.
	n.Notify(context.Background(), "u1", Notification{Title: "Alert", Body: "ping"})
}
