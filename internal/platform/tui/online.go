package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/life423/Ascend-Avoid-sub000/internal/config"
	"github.com/life423/Ascend-Avoid-sub000/internal/core"
	"github.com/life423/Ascend-Avoid-sub000/internal/display"
	"github.com/life423/Ascend-Avoid-sub000/internal/games/ascend"
	"github.com/life423/Ascend-Avoid-sub000/internal/multiplayer"
)

// OnlineState represents the current state of the online race flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting to connect to host
	OnlineStateRacing                           // In active race
	OnlineStateEnded                            // Race has ended
)

// OnlineRaceModel handles the online race flow: lobby matchmaking, the
// race itself, and the result screen. The server simulation is
// authoritative; the client runs a local predicted copy of its own racer
// for smooth rendering and draws the opponent as a ghost from snapshots.
type OnlineRaceModel struct {
	state       OnlineState
	width       int
	height      int
	keyMapper   *KeyMapper
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator
	events      <-chan multiplayer.SessionEvent

	// Lobby state
	codeInput textinput.Model
	joinError string
	lobbyCode string

	// Race state
	matchID    multiplayer.MatchID
	side       multiplayer.PlayerID
	opponentID multiplayer.SessionID
	local      *ascend.Game
	canvas     *core.PixelCanvas
	hud        *core.Screen
	engine     *display.Engine
	viewport   display.Viewport
	displayCfg config.DisplayConfig
	quality    display.QualitySettings
	inputFrame core.InputFrame
	latest     ascend.RaceSnapshot
	haveSnap   bool

	// Result state
	result     *multiplayer.RaceEndedEvent
	backToMenu bool
	quitting   bool
}

// NewOnlineRaceModel creates a new online race model.
func NewOnlineRaceModel(
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	events <-chan multiplayer.SessionEvent,
	displayCfg config.DisplayConfig,
	quality display.QualitySettings,
	width, height int,
) OnlineRaceModel {
	ti := textinput.New()
	ti.Placeholder = "ABC123"
	ti.CharLimit = 6
	ti.Width = 10

	return OnlineRaceModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		keyMapper:   NewKeyMapper(),
		sessionID:   sessionID,
		coordinator: coordinator,
		events:      events,
		codeInput:   ti,
		canvas:      core.NewPixelCanvas(1, 1),
		hud:         core.NewScreen(width, hudRows),
		engine:      display.NewEngine(display.NewTermProvider()),
		displayCfg:  displayCfg,
		quality:     quality,
		inputFrame:  core.NewInputFrame(),
	}
}

// Init initializes the lobby model.
func (m OnlineRaceModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for coordinator events.
func (m OnlineRaceModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.events == nil {
			return nil
		}
		evt, ok := <-m.events
		if !ok {
			return nil
		}
		return evt
	}
}

// Update handles messages.
func (m OnlineRaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.state == OnlineStateRacing {
			m.recompute()
		}
		return m, nil

	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
		return m, m.waitForEvent()

	case multiplayer.LobbyJoinedEvent:
		m.opponentID = msg.OpponentID
		return m, m.waitForEvent()

	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		if m.state == OnlineStateJoinWaiting {
			m.state = OnlineStateJoinEnterCode
		}
		return m, m.waitForEvent()

	case multiplayer.LobbyPlayerLeftEvent:
		// Joiner left before the race; keep hosting.
		return m, m.waitForEvent()

	case multiplayer.RaceStartedEvent:
		return m.startRace(msg)

	case multiplayer.SnapshotEvent:
		return m.applySnapshot(msg)

	case multiplayer.RaceEndedEvent:
		result := msg
		m.result = &result
		m.state = OnlineStateEnded
		return m, nil
	}
	return m, nil
}

// startRace sets up the local predicted game with the shared seed.
func (m OnlineRaceModel) startRace(msg multiplayer.RaceStartedEvent) (tea.Model, tea.Cmd) {
	m.matchID = msg.MatchID
	m.side = msg.Side
	m.lobbyCode = msg.Code

	m.local = ascend.New()
	m.local.SetForgiving(true)
	m.local.SetEffects(m.quality.ParticleBudget, m.quality.EffectsEnabled)
	m.local.Reset(core.RuntimeConfig{Seed: msg.Seed})

	m.haveSnap = false
	m.state = OnlineStateRacing
	m.recompute()

	return m, m.waitForEvent()
}

// applySnapshot advances the local prediction one tick and stores the
// authoritative race state.
func (m OnlineRaceModel) applySnapshot(msg multiplayer.SnapshotEvent) (tea.Model, tea.Cmd) {
	if m.state != OnlineStateRacing || msg.MatchID != m.matchID {
		return m, m.waitForEvent()
	}

	if snap, ok := msg.Snapshot.(ascend.RaceSnapshot); ok {
		m.latest = snap
		m.haveSnap = true
	}

	if m.local != nil {
		m.local.Step(m.inputFrame)
		m.inputFrame.Clear()
	}

	return m, m.waitForEvent()
}

// recompute maps the game space onto the terminal for the race screen.
func (m *OnlineRaceModel) recompute() {
	rows := m.height - hudRows
	if rows < 1 {
		rows = 1
	}
	cols := m.width
	if cols < 1 {
		cols = 1
	}
	container := display.Size{Width: float64(cols), Height: float64(rows * 2)}

	vp, err := m.engine.Compute(
		container,
		m.displayCfg.InternalSize(),
		m.quality,
		m.displayCfg.ViewportOptions(),
	)
	if err != nil {
		return
	}
	m.viewport = vp
	m.canvas.Resize(vp.Backing.Width, vp.Backing.Height)
	m.hud.Resize(cols, hudRows)
}

func (m OnlineRaceModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.leaveAndQuit()
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	case OnlineStateRacing:
		return m.handleRacingKey(msg)
	case OnlineStateEnded:
		return m.handleEndedKey(msg)
	}

	return m, nil
}

func (m OnlineRaceModel) leaveAndQuit() (tea.Model, tea.Cmd) {
	m.sendLeave()
	m.quitting = true
	return m, tea.Quit
}

// sendLeave tells the coordinator this session is abandoning whatever it
// is currently part of.
func (m OnlineRaceModel) sendLeave() {
	switch m.state {
	case OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
	case OnlineStateJoinWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{
			SessionID: m.sessionID,
			Code:      strings.ToUpper(m.codeInput.Value()),
		})
	case OnlineStateRacing:
		m.coordinator.Send(multiplayer.LeaveRaceMsg{
			SessionID: m.sessionID,
			MatchID:   m.matchID,
		})
	}
}

func (m OnlineRaceModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.coordinator.Send(multiplayer.CreateLobbyMsg{SessionID: m.sessionID})
		return m, nil
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinError = ""
		m.codeInput.Reset()
		m.codeInput.Focus()
		return m, textinput.Blink
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "q":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineRaceModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.sendLeave()
		m.backToMenu = true
		return m, nil
	case "q":
		return m.leaveAndQuit()
	}

	return m, nil
}

func (m OnlineRaceModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.backToMenu = true
		return m, nil
	case "enter":
		code := strings.ToUpper(strings.TrimSpace(m.codeInput.Value()))
		if code != "" {
			m.state = OnlineStateJoinWaiting
			m.joinError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      code,
			})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(msg)
	return m, cmd
}

func (m OnlineRaceModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.sendLeave()
		m.state = OnlineStateJoinEnterCode
		return m, nil
	}

	return m, nil
}

func (m OnlineRaceModel) handleRacingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		return m.leaveAndQuit()
	}
	if action == core.ActionBack {
		m.sendLeave()
		m.backToMenu = true
		return m, nil
	}
	if action == core.ActionNone || action == core.ActionPause || action == core.ActionRestart {
		// Pausing and restarting are not available in a race.
		return m, nil
	}

	// Feed the local prediction and the authoritative server in parallel.
	m.inputFrame.Set(action)
	frame := core.NewInputFrame()
	frame.Set(action)
	m.coordinator.Send(multiplayer.PlayerInputMsg{
		MatchID: m.matchID,
		Player:  m.side,
		Input:   frame,
	})

	return m, nil
}

func (m OnlineRaceModel) handleEndedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", "b":
		m.backToMenu = true
		return m, nil
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the current state.
func (m OnlineRaceModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.viewChooseMode()
	case OnlineStateHostWaiting:
		return m.viewHostWaiting()
	case OnlineStateJoinEnterCode:
		return m.viewJoinEnterCode()
	case OnlineStateJoinWaiting:
		return m.viewJoinWaiting()
	case OnlineStateRacing:
		return m.viewRacing()
	case OnlineStateEnded:
		return m.viewEnded()
	}

	return ""
}

func (m OnlineRaceModel) viewChooseMode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("ONLINE RACE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("First to the target number of crossings wins.", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("[H] Host a race", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join a race", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineRaceModel) viewHostWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("HOSTING RACE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Share this code with your opponent:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", m.lobbyCode), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Waiting for a player to join...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineRaceModel) viewJoinEnterCode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("JOIN RACE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the race code:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.codeInput.View(), m.width))
	b.WriteString("\n")

	if m.joinError != "" {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.joinError), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(centerText("Enter: Connect  |  Esc: Back", m.width))

	return b.String()
}

func (m OnlineRaceModel) viewJoinWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("CONNECTING", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Joining race: %s", strings.ToUpper(m.codeInput.Value())), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Please wait...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel", m.width))

	return b.String()
}

// viewRacing renders the predicted local field with the opponent ghost
// overlaid from the latest authoritative snapshot.
func (m OnlineRaceModel) viewRacing() string {
	if m.local == nil {
		return centerText("Starting...", m.width)
	}

	m.canvas.Clear()
	m.local.Render(m.canvas)
	m.drawGhost()

	displayCols := int(m.viewport.Display.Width)
	displayRows := int(m.viewport.Display.Height) / 2
	if displayCols < 1 {
		displayCols = 1
	}
	if displayRows < 1 {
		displayRows = 1
	}

	return m.raceHUD() + "\n" + CanvasView(m.canvas, displayCols, displayRows, m.quality.AntiAliasing)
}

// drawGhost overlays the opponent's position from the latest snapshot.
func (m *OnlineRaceModel) drawGhost() {
	if !m.haveSnap {
		return
	}

	opp := m.latest.P1
	if m.side == multiplayer.Player1 {
		opp = m.latest.P2
	}

	world := m.local.Config().World
	player := m.local.Config().Player
	sx := float64(m.canvas.Width()) / world.Width
	sy := float64(m.canvas.Height()) / world.Height

	m.canvas.FillRect(
		int(opp.X*sx), int(opp.Y*sy),
		int(player.Width*sx), int(player.Height*sy),
		core.ColorBrightMagenta,
	)
}

// raceHUD composes the race status row into the HUD screen buffer.
func (m OnlineRaceModel) raceHUD() string {
	m.hud.Clear()

	if !m.haveSnap {
		m.hud.DrawText(1, 0, "Race starting...", core.ColorGray)
		return RenderScreen(m.hud)
	}

	you, them := m.latest.P1.Score, m.latest.P2.Score
	if m.side == multiplayer.Player2 {
		you, them = them, you
	}

	x := drawHUDSegment(m.hud, 1, fmt.Sprintf("You %d", you), core.ColorBrightGreen)
	x = drawHUDSegment(m.hud, x+2, fmt.Sprintf("Opponent %d", them), core.ColorBrightMagenta)
	drawHUDSegment(m.hud, x+2, fmt.Sprintf("First to %d", m.latest.Target), core.ColorGray)
	return RenderScreen(m.hud)
}

func (m OnlineRaceModel) viewEnded() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("RACE OVER", m.width))
	b.WriteString("\n\n")

	if m.result != nil {
		outcome := "Draw"
		switch {
		case m.result.Winner == m.side:
			outcome = "You won!"
		case m.result.Winner != 0:
			outcome = "You lost."
		}
		b.WriteString(centerText(outcome, m.width))
		b.WriteString("\n\n")

		you, them := m.result.Score1, m.result.Score2
		if m.side == multiplayer.Player2 {
			you, them = them, you
		}
		b.WriteString(centerText(fmt.Sprintf("You %d  -  %d Opponent", you, them), m.width))
		b.WriteString("\n")
		b.WriteString(centerText(m.result.Reason.String(), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(centerText("Enter: Back to menu  |  Q: Quit", m.width))

	return b.String()
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineRaceModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineRaceModel) IsQuitting() bool {
	return m.quitting
}
