package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A second pooled connection to :memory: would see an empty database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("underlying db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&domain.UserModel{},
		&domain.PairModel{},
		&domain.MessageModel{},
		&domain.PushSubscriptionModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestUserUpsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	created, err := repo.Upsert(ctx, "alice", "login-1")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created user has no id")
	}

	// Same login id keeps the row, refreshes the name.
	again, err := repo.Upsert(ctx, "alicia", "login-1")
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("upsert created a new row: %s vs %s", again.ID, created.ID)
	}
	if again.Name != "alicia" {
		t.Fatalf("name = %q, want alicia", again.Name)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "alicia" {
		t.Fatalf("persisted name = %q, want alicia", got.Name)
	}
}

func TestUserGetByIDMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
}

func TestUserSetOnline(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	u, err := repo.Upsert(ctx, "alice", "login-1")
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.SetOnline(ctx, u.ID, true); err != nil {
		t.Fatalf("SetOnline: %v", err)
	}
	got, _ := repo.GetByID(ctx, u.ID)
	if !got.IsOnline {
		t.Fatal("online flag not persisted")
	}

	// Writing the same value again must not error.
	if err := repo.SetOnline(ctx, u.ID, true); err != nil {
		t.Fatalf("idempotent SetOnline: %v", err)
	}
}

func TestPairEnsureFor(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	pairs := NewGormPairRepository(db)
	ctx := context.Background()

	alice, err := users.Upsert(ctx, "alice", "login-a")
	if err != nil {
		t.Fatal(err)
	}

	// Alone: no partner to pair with.
	if _, err := pairs.EnsureFor(ctx, alice.ID); !errors.Is(err, ErrNoPartner) {
		t.Fatalf("EnsureFor alone error = %v, want ErrNoPartner", err)
	}

	bob, err := users.Upsert(ctx, "bob", "login-b")
	if err != nil {
		t.Fatal(err)
	}

	pair, err := pairs.EnsureFor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("EnsureFor: %v", err)
	}
	if pair.Counterpart(alice.ID) != bob.ID {
		t.Fatalf("counterpart = %s, want %s", pair.Counterpart(alice.ID), bob.ID)
	}

	// Both members resolve the same pair afterwards.
	fromBob, err := pairs.GetFor(ctx, bob.ID)
	if err != nil {
		t.Fatalf("GetFor(bob): %v", err)
	}
	if fromBob.ID != pair.ID {
		t.Fatalf("bob resolves pair %s, want %s", fromBob.ID, pair.ID)
	}
	if fromBob.Counterpart(bob.ID) != alice.ID {
		t.Fatalf("bob's counterpart = %s, want %s", fromBob.Counterpart(bob.ID), alice.ID)
	}

	// EnsureFor is idempotent.
	same, err := pairs.EnsureFor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("second EnsureFor: %v", err)
	}
	if same.ID != pair.ID {
		t.Fatal("EnsureFor created a second pair")
	}
}

func TestPairEnsureForSkipsPairedUsers(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	pairs := NewGormPairRepository(db)
	ctx := context.Background()

	alice, _ := users.Upsert(ctx, "alice", "login-a")
	bob, _ := users.Upsert(ctx, "bob", "login-b")
	carol, _ := users.Upsert(ctx, "carol", "login-c")

	if _, err := pairs.EnsureFor(ctx, alice.ID); err != nil {
		t.Fatal(err)
	}

	// Carol cannot be paired with either member of the existing pair.
	if _, err := pairs.EnsureFor(ctx, carol.ID); !errors.Is(err, ErrNoPartner) {
		t.Fatalf("EnsureFor(carol) error = %v, want ErrNoPartner", err)
	}
	_ = bob
}

func TestMessageLedgerAppendAndList(t *testing.T) {
	db := newTestDB(t)
	ledger := NewGormMessageLedger(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := ledger.Append(ctx, &domain.Message{
		SenderID:   "u1",
		SenderName: "alice",
		Content:    "first",
		Kind:       domain.KindText,
		Timestamp:  base,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if first.ID == "" {
		t.Fatal("Append did not fill the id")
	}

	second, err := ledger.Append(ctx, &domain.Message{
		SenderID:   "u2",
		SenderName: "bob",
		Content:    "second",
		Kind:       domain.KindText,
		Timestamp:  base.Add(time.Second),
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := ledger.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("listed %d messages, want 2", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatal("messages not in ascending timestamp order")
	}

	limited, err := ledger.ListRecent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID != second.ID {
		t.Fatal("limit did not keep the newest message")
	}
}

func TestMessageLedgerMarkRead(t *testing.T) {
	db := newTestDB(t)
	ledger := NewGormMessageLedger(db)
	ctx := context.Background()

	msg, err := ledger.Append(ctx, &domain.Message{
		SenderID:   "u1",
		SenderName: "alice",
		Content:    "unread",
		Kind:       domain.KindText,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := ledger.MarkRead(ctx, msg.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	got, err := ledger.GetByID(ctx, msg.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Read {
		t.Fatal("read flag not set")
	}

	// Idempotent.
	if err := ledger.MarkRead(ctx, msg.ID); err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}

	if err := ledger.MarkRead(ctx, "missing"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("MarkRead(missing) error = %v, want ErrMessageNotFound", err)
	}
}

func TestSubscriptionRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPushSubscriptionRepository(db)
	ctx := context.Background()

	sub := &domain.PushSubscription{
		UserID:   "u1",
		Endpoint: "https://push.example.com/ep1",
		P256dh:   "key",
		Auth:     "auth",
	}
	if err := repo.Add(ctx, sub); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Re-registering the same endpoint is a no-op.
	if err := repo.Add(ctx, sub); err != nil {
		t.Fatalf("duplicate Add: %v", err)
	}

	if err := repo.Add(ctx, &domain.PushSubscription{
		UserID:   "u1",
		Endpoint: "https://push.example.com/ep2",
		P256dh:   "key2",
		Auth:     "auth2",
	}); err != nil {
		t.Fatal(err)
	}

	subs, err := repo.ListForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("listed %d subscriptions, want 2", len(subs))
	}

	if err := repo.RemoveAllForUser(ctx, "u1"); err != nil {
		t.Fatalf("RemoveAllForUser: %v", err)
	}
	subs, err = repo.ListForUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 0 {
		t.Fatalf("%d subscriptions survived removal", len(subs))
	}
}
