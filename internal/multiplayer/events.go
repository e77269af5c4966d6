package multiplayer

import "github.com/life423/Ascend-Avoid-sub000/internal/core"

// SessionEvent represents an event sent from the coordinator to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent is sent when a lobby is successfully created.
type LobbyCreatedEvent struct {
	Code string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent is sent when a lobby operation fails.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyJoinedEvent is sent to both host and joiner when someone joins.
type LobbyJoinedEvent struct {
	Code       string
	Side       PlayerID // Which side this session races as
	OpponentID SessionID
}

func (LobbyJoinedEvent) sessionEvent() {}

// LobbyPlayerLeftEvent is sent when a player leaves before the race starts.
type LobbyPlayerLeftEvent struct {
	Code string
}

func (LobbyPlayerLeftEvent) sessionEvent() {}

// RaceStartedEvent is sent when the race begins. Seed lets both clients
// predict the same obstacle field locally.
type RaceStartedEvent struct {
	MatchID MatchID
	Side    PlayerID
	Code    string
	Seed    int64
}

func (RaceStartedEvent) sessionEvent() {}

// RaceEndedEvent is sent when the race ends.
type RaceEndedEvent struct {
	MatchID MatchID
	Reason  RaceEndReason
	Winner  PlayerID // 0 if no winner
	Score1  int
	Score2  int
}

func (RaceEndedEvent) sessionEvent() {}

// RaceEndReason describes why a race ended.
type RaceEndReason int

const (
	RaceEndReasonCompleted  RaceEndReason = iota // A racer reached the target
	RaceEndReasonDisconnect                      // Opponent disconnected, forfeit
	RaceEndReasonCancelled                       // Race was cancelled
	RaceEndReasonHostLeft                        // Host left the lobby
)

func (r RaceEndReason) String() string {
	switch r {
	case RaceEndReasonCompleted:
		return "Race completed"
	case RaceEndReasonDisconnect:
		return "Opponent disconnected"
	case RaceEndReasonCancelled:
		return "Race cancelled"
	case RaceEndReasonHostLeft:
		return "Host left"
	default:
		return "Unknown"
	}
}

// SnapshotEvent carries a race state snapshot to both sessions each tick.
type SnapshotEvent struct {
	MatchID  MatchID
	Tick     uint64
	Snapshot GameSnapshot
}

func (SnapshotEvent) sessionEvent() {}

// GameSnapshot is the interface for game-specific snapshot data.
type GameSnapshot interface {
	IsGameSnapshot() // Marker method for type safety
}

// CoordinatorMessage represents a message from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg requests creation of a new lobby.
type CreateLobbyMsg struct {
	SessionID SessionID
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg requests joining an existing lobby by code.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg requests cancellation of a hosted lobby.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveLobbyMsg requests leaving a joined lobby.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (LeaveLobbyMsg) coordinatorMessage() {}

// LeaveRaceMsg requests leaving an active race (counts as forfeit).
type LeaveRaceMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveRaceMsg) coordinatorMessage() {}

// PlayerInputMsg sends player input to a race.
type PlayerInputMsg struct {
	MatchID MatchID
	Player  PlayerID
	Input   core.InputFrame
}

func (PlayerInputMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session drops.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
