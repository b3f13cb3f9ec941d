package session

import (
	"context"
	"testing"
	"time"

	"github.com/lotesmx/leadbot/internal/models"
)

func TestMemoryStoreGetOrCreate(t *testing.T) {
	store := NewMemoryStore(WithIdleTTL(0))
	defer store.Stop()
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if sess.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", sess.UserID, "user-1")
	}
	if sess.Step != models.StepIdle || sess.Intent != models.IntentNone {
		t.Errorf("new session not idle: step=%q intent=%q", sess.Step, sess.Intent)
	}

	sess.Name = "Ana Lopez"
	again, err := store.GetOrCreate(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetOrCreate failed on second call: %v", err)
	}
	if again != sess {
		t.Error("GetOrCreate returned a different session for the same user")
	}
	if again.Name != "Ana Lopez" {
		t.Errorf("session mutation lost: name=%q", again.Name)
	}
}

func TestMemoryStoreRejectsEmptyUserID(t *testing.T) {
	store := NewMemoryStore(WithIdleTTL(0))
	defer store.Stop()

	if _, err := store.GetOrCreate(context.Background(), ""); err == nil {
		t.Error("GetOrCreate accepted empty user id")
	}
	if err := store.Reset(context.Background(), ""); err == nil {
		t.Error("Reset accepted empty user id")
	}
}

func TestMemoryStoreReset(t *testing.T) {
	store := NewMemoryStore(WithIdleTTL(0))
	defer store.Stop()
	ctx := context.Background()

	sess, _ := store.GetOrCreate(ctx, "user-1")
	sess.Intent = models.IntentContado
	sess.Name = "Ana Lopez"
	sess.Phone = "+529991234567"
	sess.Step = models.StepAskPhone
	sess.Confirmation = &models.Confirmation{OnYes: "A", OnNo: "B"}
	sess.AwaitingCallPreference = true

	if err := store.Reset(ctx, "user-1"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	after, _ := store.GetOrCreate(ctx, "user-1")
	if after.Intent != models.IntentNone || after.Name != "" || after.Phone != "" {
		t.Errorf("Reset left data behind: %+v", after)
	}
	if after.Step != models.StepIdle || after.Confirmation != nil || after.AwaitingCallPreference {
		t.Errorf("Reset left flow state behind: %+v", after)
	}
	if after.UserID != "user-1" {
		t.Errorf("Reset lost user id: %q", after.UserID)
	}
}

// The engine saves sessions from worker goroutines while the sweeper ticks;
// activity bookkeeping and expiry must share the store mutex.
func TestMemoryStoreSaveConcurrentWithSweep(t *testing.T) {
	store := NewMemoryStore(WithIdleTTL(time.Nanosecond), WithSweepInterval(time.Millisecond))
	defer store.Stop()
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		sess, err := store.GetOrCreate(ctx, "user-1")
		if err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}
		if err := store.Save(ctx, sess); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
}

func TestMemoryStoreSweepSparesActiveSessions(t *testing.T) {
	store := NewMemoryStore(WithIdleTTL(40*time.Millisecond), WithSweepInterval(10*time.Millisecond))
	defer store.Stop()
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	sess.Name = "Ana Lopez"

	// Keep saving within the TTL; the session must survive every sweep.
	for i := 0; i < 10; i++ {
		time.Sleep(10 * time.Millisecond)
		if err := store.Save(ctx, sess); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	again, err := store.GetOrCreate(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if again != sess || again.Name != "Ana Lopez" {
		t.Errorf("active session was swept: %+v", again)
	}
}

func TestMemoryStoreSweepsIdleSessions(t *testing.T) {
	store := NewMemoryStore(WithIdleTTL(20*time.Millisecond), WithSweepInterval(10*time.Millisecond))
	defer store.Stop()
	ctx := context.Background()

	if _, err := store.GetOrCreate(ctx, "user-1"); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("Len = %d, want 1", store.Len())
	}

	deadline := time.After(2 * time.Second)
	for store.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("idle session was never swept")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
