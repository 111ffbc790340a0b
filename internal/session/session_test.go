package session

import (
	"testing"

	"bytecore/internal/cart"
	"bytecore/internal/checkout"
)

func newTestManager() *Manager {
	return NewManager(func(c *cart.Cart) *checkout.Workflow {
		return checkout.New(c, nil, nil, nil)
	})
}

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	m := newTestManager()

	s := m.GetOrCreate("")
	if s.ID == "" || s.Cart == nil || s.Checkout == nil {
		t.Fatalf("incomplete session: %+v", s)
	}

	again := m.GetOrCreate(s.ID)
	if again != s {
		t.Fatal("expected the same session for a known id")
	}
}

func TestUnknownIDGetsFreshSession(t *testing.T) {
	m := newTestManager()

	s := m.GetOrCreate("deadbeefdeadbeefdeadbeefdeadbeef")
	if s.ID == "deadbeefdeadbeefdeadbeefdeadbeef" {
		t.Fatal("unknown ids must not be adopted")
	}
}

func TestDrop(t *testing.T) {
	m := newTestManager()
	s := m.GetOrCreate("")

	m.Drop(s.ID)

	if again := m.GetOrCreate(s.ID); again == s {
		t.Fatal("expected a fresh session after Drop")
	}
}
