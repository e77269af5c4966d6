package multiplayer

import (
	"testing"
	"time"

	"github.com/life423/Ascend-Avoid-sub000/internal/core"
)

func newTestCoordinator(finishAt int) (*Coordinator, *SessionRegistry) {
	registry := NewSessionRegistry()
	factory := func(cfg core.RuntimeConfig) (RaceGame, error) {
		return &stubRace{finishAt: finishAt, winner: Player1}, nil
	}
	cfg := CoordinatorConfig{
		LobbyTimeout:  time.Minute,
		TickRate:      200,
		CleanupPeriod: time.Minute,
	}
	c := NewCoordinator(cfg, factory, registry, nil)
	c.Start()
	return c, registry
}

// nextEvent reads events until one of type T arrives or the timeout hits.
func nextEvent[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if typed, ok := evt.(T); ok {
				return typed
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func TestCoordinatorLobbyLifecycle(t *testing.T) {
	c, registry := newTestCoordinator(3)
	defer c.Stop()

	host := NewChannelSession("host", 64)
	joiner := NewChannelSession("joiner", 64)
	registry.Register(host)
	registry.Register(joiner)

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	created := nextEvent[LobbyCreatedEvent](t, host)
	if len(created.Code) != 6 {
		t.Errorf("join code %q, expected 6 characters", created.Code)
	}

	c.Send(JoinLobbyMsg{SessionID: joiner.ID(), Code: created.Code})

	hostStart := nextEvent[RaceStartedEvent](t, host)
	joinerStart := nextEvent[RaceStartedEvent](t, joiner)
	if hostStart.Side != Player1 || joinerStart.Side != Player2 {
		t.Errorf("sides = %v/%v, expected Player1/Player2", hostStart.Side, joinerStart.Side)
	}
	if hostStart.Seed != joinerStart.Seed {
		t.Error("racers received different seeds")
	}

	// Stub race finishes after 3 ticks; both sides learn the outcome.
	hostEnd := nextEvent[RaceEndedEvent](t, host)
	if hostEnd.Reason != RaceEndReasonCompleted {
		t.Errorf("Reason = %v, expected completed", hostEnd.Reason)
	}
	if hostEnd.Winner != Player1 {
		t.Errorf("Winner = %v, expected Player1", hostEnd.Winner)
	}
	nextEvent[RaceEndedEvent](t, joiner)

	if got := c.MatchCount(); got != 0 {
		t.Errorf("MatchCount() = %d after race ended, expected 0", got)
	}
}

func TestCoordinatorRejectsBadJoins(t *testing.T) {
	c, registry := newTestCoordinator(0)
	defer c.Stop()

	host := NewChannelSession("host", 64)
	registry.Register(host)

	c.Send(JoinLobbyMsg{SessionID: host.ID(), Code: "NOPE42"})
	evt := nextEvent[LobbyErrorEvent](t, host)
	if evt.Message != "Lobby not found" {
		t.Errorf("error = %q, expected lobby not found", evt.Message)
	}

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	created := nextEvent[LobbyCreatedEvent](t, host)

	// Hosts cannot join their own lobby.
	c.Send(JoinLobbyMsg{SessionID: host.ID(), Code: created.Code})
	evt = nextEvent[LobbyErrorEvent](t, host)
	if evt.Message == "" {
		t.Error("joining own lobby produced no error")
	}
}

func TestCoordinatorHostLeavesLobby(t *testing.T) {
	c, registry := newTestCoordinator(0)
	defer c.Stop()

	host := NewChannelSession("host", 64)
	registry.Register(host)

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	created := nextEvent[LobbyCreatedEvent](t, host)

	c.Send(LeaveLobbyMsg{SessionID: host.ID(), Code: created.Code})

	waitFor(t, func() bool { return c.LobbyCount() == 0 })
}

func TestCoordinatorSessionDisconnectClosesLobby(t *testing.T) {
	c, registry := newTestCoordinator(0)
	defer c.Stop()

	host := NewChannelSession("host", 64)
	registry.Register(host)

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	nextEvent[LobbyCreatedEvent](t, host)

	c.Send(SessionDisconnectedMsg{SessionID: host.ID()})

	waitFor(t, func() bool { return c.LobbyCount() == 0 })
}

func TestGenerateJoinCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := generateJoinCode()
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, expected 6", code, len(code))
		}
		seen[code] = true
	}
	if len(seen) < 90 {
		t.Errorf("only %d unique codes out of 100, generator looks broken", len(seen))
	}
}

// waitFor polls cond until it holds or the timeout hits.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
