package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/life423/Ascend-Avoid-sub000/internal/config"
	"github.com/life423/Ascend-Avoid-sub000/internal/core"
	"github.com/life423/Ascend-Avoid-sub000/internal/display"
)

// stubGame is a minimal registry.Game for exercising the model without
// real simulation.
type stubGame struct {
	state core.GameState
}

func (g *stubGame) ID() string                           { return "stub" }
func (g *stubGame) Title() string                        { return "Stub" }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{State: g.state} }
func (g *stubGame) Render(*core.PixelCanvas)             {}
func (g *stubGame) State() core.GameState                { return g.state }

func newTestGameModel(g *stubGame) GameModel {
	cfg := core.RuntimeConfig{ScreenW: 60, ScreenH: 20, TickRate: 60, Seed: 1}
	caps := display.DeviceCapabilities{
		Screen: display.ScreenInfo{Width: 60, Height: 20, PixelRatio: 2},
		Perf:   display.PerfInfo{Tier: display.TierMedium},
	}
	return NewGameModel(g, nil, cfg, config.DefaultDisplayConfig(), caps,
		display.SettingsFor(display.TierMedium))
}

func TestGameModelHUDThroughScreenBuffer(t *testing.T) {
	m := newTestGameModel(&stubGame{})

	first := strings.Split(m.View(), "\n")[0]
	if !strings.Contains(first, "Stub") {
		t.Errorf("HUD row = %q, expected the game title", first)
	}
	if !strings.Contains(first, "score 0") {
		t.Errorf("HUD row = %q, expected the score", first)
	}
	if !strings.Contains(first, "tier medium") {
		t.Errorf("HUD row = %q, expected the quality tier", first)
	}
}

func TestGameModelHUDShowsGameOver(t *testing.T) {
	g := &stubGame{state: core.GameState{GameOver: true, Score: 3}}
	m := newTestGameModel(g)

	model, _ := m.Update(TickMsg(time.Now()))
	m = model.(GameModel)

	first := strings.Split(m.View(), "\n")[0]
	if !strings.Contains(first, "GAME OVER") {
		t.Errorf("HUD row = %q, expected the game-over banner", first)
	}
	if !strings.Contains(first, "score 3") {
		t.Errorf("HUD row = %q, expected the final score", first)
	}
}

func TestGameModelHUDTracksResize(t *testing.T) {
	m := newTestGameModel(&stubGame{})

	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = model.(GameModel)
	m.resize.Flush()
	model, _ = m.Update(TickMsg(time.Now()))
	m = model.(GameModel)

	if got := m.hud.Width(); got != 100 {
		t.Errorf("HUD width after resize = %d, expected 100", got)
	}
}

func TestGameModelKeyAccumulatesInput(t *testing.T) {
	m := newTestGameModel(&stubGame{})

	model, _ := m.Update(keyMsg("w"))
	m = model.(GameModel)
	model, _ = m.Update(keyMsg("d"))
	m = model.(GameModel)

	if !m.inputFrame.Has(core.ActionUp) || !m.inputFrame.Has(core.ActionRight) {
		t.Error("held keys did not accumulate in the model's input frame")
	}
}
