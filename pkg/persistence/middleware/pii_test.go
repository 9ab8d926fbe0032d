package middleware_test

import (
	"context"
	"testing"
	"time"

	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	// Setup
	underlyingStore := NewMockStore()
	mw := middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	sessionID := "pii-session"
	state := domain.NewState(sessionID, "user-1")
	state.AppendUser("reach me at jdoe@example.com or +1 (555) 123-4567, thanks", time.Now())
	state.AppendSystem("What would you like to work on?", time.Now())
	state.PushHistory()

	// 1. Save
	if err := secureStore.Save(ctx, sessionID, state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Verify In-Memory State is NOT MODIFIED (Immutability check)
	if state.Transcript[0].Text != "reach me at jdoe@example.com or +1 (555) 123-4567, thanks" {
		t.Error("Middleware modified original state in memory!")
	}

	// 2. Load from Underlying Store (Should be masked)
	storedState, err := underlyingStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}

	if got := storedState.Transcript[0].Text; got != "reach me at *** or ***, thanks" {
		t.Errorf("Expected masked transcript, got: %q", got)
	}
	if got := storedState.Transcript[1].Text; got != "What would you like to work on?" {
		t.Errorf("Scripted prompt shouldn't be masked, got: %q", got)
	}
	// History snapshots carry transcript copies; they must be masked too.
	if got := storedState.History[0].Transcript[0].Text; got != "reach me at *** or ***, thanks" {
		t.Errorf("Expected masked history transcript, got: %q", got)
	}
}

func TestChain_Ordering(t *testing.T) {
	underlyingStore := NewMockStore()
	key := generateKey(t)

	// PII outermost so masking happens before sealing.
	store := middleware.Chain(underlyingStore,
		middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
	)

	ctx := context.Background()
	state := domain.NewState("chained", "user-1")
	state.AppendUser("email me: jdoe@example.com", time.Now())

	if err := store.Save(ctx, "chained", state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "chained")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := loaded.Transcript[0].Text; got != "email me: ***" {
		t.Errorf("Expected masked and unsealed transcript, got: %q", got)
	}
	if loaded.Sealed != "" {
		t.Error("Expected Sealed cleared after load")
	}
}
