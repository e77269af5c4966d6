// Package multiplayer implements the online race: lobby pairing by join
// code, an authoritative fixed-tick race loop, and transport-neutral
// session plumbing so nothing here depends on Wish or Bubble Tea.
package multiplayer

import "github.com/life423/Ascend-Avoid-sub000/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 is always the lobby host; Player2 is the joiner.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a player's connection (e.g., SSH session).
type SessionID string

// MatchID uniquely identifies a race.
type MatchID string

// MatchMode defines how a game session is configured.
type MatchMode int

const (
	// MatchModeSolo is a local single-player climb.
	MatchModeSolo MatchMode = iota

	// MatchModeRace is a two-player online race: both players climb the
	// same obstacle field, first to the target crossings wins.
	MatchModeRace
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeSolo:
		return "Solo"
	case MatchModeRace:
		return "Online Race"
	default:
		return "Unknown"
	}
}
