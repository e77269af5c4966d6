package multiplayer

import (
	"sync"
	"time"

	"github.com/life423/Ascend-Avoid-sub000/internal/core"
)

// RaceGame is the interface a game must implement to be raced online.
// The race loop is authoritative: both players' inputs feed one
// simulation and snapshots flow back to the sessions.
type RaceGame interface {
	// Reset initializes the race state.
	Reset(cfg core.RuntimeConfig)

	// StepMulti advances the race by one tick using both players' input.
	StepMulti(input core.MultiInputFrame) core.StepResult

	// Snapshot returns the current race state for transmission.
	Snapshot() GameSnapshot

	// Finished returns true if a racer reached the target.
	Finished() bool

	// Winner returns the winning player, or 0 if none yet.
	Winner() PlayerID

	// Score1 returns Player 1's crossings.
	Score1() int

	// Score2 returns Player 2's crossings.
	Score2() int
}

// RaceResult contains the outcome of a completed race.
type RaceResult struct {
	MatchID MatchID
	Reason  RaceEndReason
	Winner  PlayerID
	Score1  int
	Score2  int
	Ticks   uint64
}

// RaceMatch runs one authoritative two-player race.
type RaceMatch struct {
	id   MatchID
	code string
	game RaceGame
	seed int64

	hostSession   SessionHandle
	joinerSession SessionHandle

	inputMu    sync.Mutex
	hostInput  core.InputFrame
	guestInput core.InputFrame
	inputChan  chan playerInput

	tick     uint64
	tickRate int
	done     chan struct{}
	doneOnce sync.Once

	disconnectChan chan SessionID
}

type playerInput struct {
	player PlayerID
	input  core.InputFrame
}

// NewRaceMatch creates a race between two sessions.
func NewRaceMatch(id MatchID, code string, game RaceGame, seed int64,
	host, joiner SessionHandle, tickRate int) *RaceMatch {
	if tickRate < 1 {
		tickRate = 60
	}
	return &RaceMatch{
		id:             id,
		code:           code,
		game:           game,
		seed:           seed,
		hostSession:    host,
		joinerSession:  joiner,
		hostInput:      core.NewInputFrame(),
		guestInput:     core.NewInputFrame(),
		inputChan:      make(chan playerInput, 64),
		tickRate:       tickRate,
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, 2),
	}
}

// ID returns the match identifier.
func (m *RaceMatch) ID() MatchID {
	return m.id
}

// Code returns the join code used to pair this race.
func (m *RaceMatch) Code() string {
	return m.code
}

// Seed returns the shared obstacle seed.
func (m *RaceMatch) Seed() int64 {
	return m.seed
}

// SendInput queues player input. Non-blocking; a full buffer drops the
// frame rather than stalling the race loop.
func (m *RaceMatch) SendInput(player PlayerID, input core.InputFrame) {
	select {
	case m.inputChan <- playerInput{player: player, input: input}:
	default:
	}
}

// PlayerDisconnected signals that a player has dropped.
func (m *RaceMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run starts the authoritative race loop. The callback fires once when
// the race ends for any reason.
func (m *RaceMatch) Run(onComplete func(RaceResult)) {
	defer m.doneOnce.Do(func() { close(m.done) })

	ticker := time.NewTicker(time.Second / time.Duration(m.tickRate))
	defer ticker.Stop()

	go m.monitorSessions()

	for {
		select {
		case <-ticker.C:
			result, finished := m.runTick()
			if finished {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case sessionID := <-m.disconnectChan:
			if onComplete != nil {
				onComplete(m.forfeit(sessionID))
			}
			return

		case <-m.done:
			return
		}
	}
}

func (m *RaceMatch) runTick() (RaceResult, bool) {
	m.drainInputs()

	m.inputMu.Lock()
	multiInput := core.NewMultiInputFrame()
	multiInput.SetPlayer(Player1, m.hostInput.Clone())
	multiInput.SetPlayer(Player2, m.guestInput.Clone())
	m.hostInput.Clear()
	m.guestInput.Clear()
	m.inputMu.Unlock()

	m.game.StepMulti(multiInput)
	m.tick++

	evt := SnapshotEvent{
		MatchID:  m.id,
		Tick:     m.tick,
		Snapshot: m.game.Snapshot(),
	}
	m.hostSession.Send(evt)
	m.joinerSession.Send(evt)

	if m.game.Finished() {
		return RaceResult{
			MatchID: m.id,
			Reason:  RaceEndReasonCompleted,
			Winner:  m.game.Winner(),
			Score1:  m.game.Score1(),
			Score2:  m.game.Score2(),
			Ticks:   m.tick,
		}, true
	}

	return RaceResult{}, false
}

// drainInputs merges all queued input frames into the per-player state
// consumed on the next tick. Actions are OR-ed together so a tap between
// ticks is never lost.
func (m *RaceMatch) drainInputs() {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()

	for {
		select {
		case pi := <-m.inputChan:
			dst := &m.hostInput
			if pi.player == Player2 {
				dst = &m.guestInput
			}
			for action, pressed := range pi.input.Actions {
				if pressed {
					dst.Set(action)
				}
			}
		default:
			return
		}
	}
}

// forfeit ends the race in favor of the player who stayed connected.
func (m *RaceMatch) forfeit(sessionID SessionID) RaceResult {
	winner := Player1
	if sessionID == m.hostSession.ID() {
		winner = Player2
	}
	return RaceResult{
		MatchID: m.id,
		Reason:  RaceEndReasonDisconnect,
		Winner:  winner,
		Score1:  m.game.Score1(),
		Score2:  m.game.Score2(),
		Ticks:   m.tick,
	}
}

func (m *RaceMatch) monitorSessions() {
	select {
	case <-m.hostSession.Done():
		m.PlayerDisconnected(m.hostSession.ID())
	case <-m.joinerSession.Done():
		m.PlayerDisconnected(m.joinerSession.ID())
	case <-m.done:
	}
}

// Stop gracefully stops the race.
func (m *RaceMatch) Stop() {
	m.doneOnce.Do(func() { close(m.done) })
}
