package upload

import (
	"testing"
	"time"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestManager() (*Manager, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	m := NewManager()
	m.now = clock.Now
	return m, clock
}

func TestKey(t *testing.T) {
	if got := Key("S", "U"); got != "S_U" {
		t.Errorf("Key = %q, want S_U", got)
	}
}

func TestCheckWithoutOpen(t *testing.T) {
	m, _ := newTestManager()
	if _, ok := m.Check("S_U"); ok {
		t.Error("Check on empty manager returned a session")
	}
}

func TestOpenCheckConsume(t *testing.T) {
	m, clock := newTestManager()
	m.Open("S_U", "开心", 30*time.Second)

	// Check does not consume.
	for i := 0; i < 2; i++ {
		category, ok := m.Check("S_U")
		if !ok || category != "开心" {
			t.Fatalf("Check #%d = (%q, %v)", i, category, ok)
		}
	}

	// Still valid right at the boundary.
	clock.now = clock.now.Add(30 * time.Second)
	if _, ok := m.Check("S_U"); !ok {
		t.Error("session expired exactly at ttl; should still be live")
	}

	m.Consume("S_U")
	if _, ok := m.Check("S_U"); ok {
		t.Error("session survived Consume")
	}
}

func TestCheckExpiryRemovesEntry(t *testing.T) {
	m, clock := newTestManager()
	m.Open("S_U", "开心", 30*time.Second)

	clock.now = clock.now.Add(31 * time.Second)
	if _, ok := m.Check("S_U"); ok {
		t.Fatal("expired session still returned")
	}
	// Stale entry removed as a side effect.
	if m.Len() != 0 {
		t.Errorf("Len = %d after expired Check, want 0", m.Len())
	}
}

func TestOpenOverwrites(t *testing.T) {
	m, _ := newTestManager()
	m.Open("S_U", "开心", 30*time.Second)
	m.Open("S_U", "生气", 30*time.Second)

	category, ok := m.Check("S_U")
	if !ok || category != "生气" {
		t.Errorf("Check = (%q, %v), want latest category", category, ok)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestSweep(t *testing.T) {
	m, clock := newTestManager()
	m.Open("a", "开心", 10*time.Second)
	m.Open("b", "生气", 60*time.Second)

	clock.now = clock.now.Add(30 * time.Second)
	if removed := m.Sweep(); removed != 1 {
		t.Errorf("Sweep removed %d, want 1", removed)
	}
	if _, ok := m.Check("b"); !ok {
		t.Error("live session swept")
	}
}
