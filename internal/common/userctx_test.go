package common

import (
	"context"
	"testing"

	"github.com/bobmcallan/fintrack/internal/models"
)

func TestSessionContext_RoundTrip(t *testing.T) {
	ctx := context.Background()

	// Absent by default
	if sc := SessionFromContext(ctx); sc != nil {
		t.Error("Expected nil SessionContext from empty context")
	}
	if id := ResolveAccountID(ctx); id != "" {
		t.Errorf("Expected empty account id, got %q", id)
	}

	sc := &models.SessionContext{Account: &models.Account{ID: "acc-123", Email: "a@gmail.com"}}
	ctx = WithSession(ctx, sc)

	got := SessionFromContext(ctx)
	if got == nil {
		t.Fatal("Expected non-nil SessionContext")
	}
	if got.Account.Email != "a@gmail.com" {
		t.Errorf("Expected a@gmail.com, got %s", got.Account.Email)
	}
	if id := ResolveAccountID(ctx); id != "acc-123" {
		t.Errorf("Expected acc-123, got %s", id)
	}
}
