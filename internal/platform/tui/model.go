package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/life423/Ascend-Avoid-sub000/internal/config"
	"github.com/life423/Ascend-Avoid-sub000/internal/core"
	"github.com/life423/Ascend-Avoid-sub000/internal/display"
	"github.com/life423/Ascend-Avoid-sub000/internal/registry"
	"github.com/life423/Ascend-Avoid-sub000/internal/storage"
)

// qualityCheckTicks is how often (in simulation ticks) the frame stats are
// inspected for a quality downgrade.
const qualityCheckTicks = 120

// slowFrameFactor marks a frame budget as blown when the rolling average
// exceeds budget * factor.
const slowFrameFactor = 1.5

// hudRows is the number of terminal rows reserved above the playfield.
const hudRows = 1

// effectsSetter is implemented by games whose cosmetics adapt to the
// active quality settings.
type effectsSetter interface {
	SetEffects(budget int, enabled bool)
}

// playerLocator is implemented by games that expose the player hitbox,
// enabling mouse steering toward a clicked point.
type playerLocator interface {
	Player() core.RectF
}

// resizeCoalescer bridges the display debouncer into the Bubble Tea loop.
// WindowSizeMsg events are offered as they arrive; the debounced result is
// parked in a one-slot channel and drained on the next tick, so a resize
// storm costs one viewport recomputation and never blocks Update.
type resizeCoalescer struct {
	mu      sync.Mutex
	deb     *display.Debouncer
	pending display.Size
	ready   chan display.Size
}

func newResizeCoalescer(window time.Duration) *resizeCoalescer {
	rc := &resizeCoalescer{ready: make(chan display.Size, 1)}
	rc.deb = display.NewDebouncer(window, rc.emit)
	return rc
}

// Offer records the latest container size and triggers the debouncer.
func (rc *resizeCoalescer) Offer(size display.Size) {
	rc.mu.Lock()
	rc.pending = size
	rc.mu.Unlock()
	rc.deb.Trigger()
}

func (rc *resizeCoalescer) emit() {
	rc.mu.Lock()
	size := rc.pending
	rc.mu.Unlock()

	// Replace any stale parked size with the newest one.
	select {
	case <-rc.ready:
	default:
	}
	select {
	case rc.ready <- size:
	default:
	}
}

// Take returns the settled size, if any burst has completed since the
// last call.
func (rc *resizeCoalescer) Take() (display.Size, bool) {
	select {
	case size := <-rc.ready:
		return size, true
	default:
		return display.Size{}, false
	}
}

// Flush forces a pending burst to settle immediately.
func (rc *resizeCoalescer) Flush() {
	rc.deb.Flush()
}

func (rc *resizeCoalescer) Stop() {
	rc.deb.Stop()
}

// GameModel is the Bubble Tea model for running a single-player game with
// adaptive quality and viewport scaling.
type GameModel struct {
	game       registry.Game
	store      *storage.Store
	config     core.RuntimeConfig
	displayCfg config.DisplayConfig

	caps     display.DeviceCapabilities
	quality  display.QualitySettings
	engine   *display.Engine
	viewport display.Viewport
	canvas   *core.PixelCanvas
	hud      *core.Screen
	monitor  *display.FrameMonitor
	resize   *resizeCoalescer
	keys     *KeyMapper

	cols int // Terminal width in cells
	rows int // Terminal height in cells

	inputFrame      core.InputFrame
	gameState       core.GameState
	lastTick        time.Time
	ticksSinceCheck int
	quitting        bool
	backToMenu      bool
	scoreSaved      bool // Whether score has been saved for current game over
}

// NewGameModel creates a Bubble Tea model for the given game, with quality
// settings already selected from the device profile.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig,
	displayCfg config.DisplayConfig, caps display.DeviceCapabilities,
	quality display.QualitySettings) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	window := time.Duration(displayCfg.DebounceMs) * time.Millisecond

	m := GameModel{
		game:       game,
		store:      store,
		config:     cfg,
		displayCfg: displayCfg,
		caps:       caps,
		quality:    quality,
		engine:     display.NewEngine(display.NewTermProvider()),
		canvas:     core.NewPixelCanvas(1, 1),
		hud:        core.NewScreen(caps.Screen.Width, hudRows),
		monitor:    display.NewFrameMonitor(display.DefaultFrameSamples),
		resize:     newResizeCoalescer(window),
		keys:       NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		cols:       caps.Screen.Width,
		rows:       caps.Screen.Height,
	}
	m.applyQuality()
	m.recompute()
	return m
}

// Init initializes the model and starts the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// container returns the playfield size in viewport units: terminal cells
// minus the HUD, with two pixel rows per cell row (half-block rendering).
func (m GameModel) container() display.Size {
	rows := m.rows - hudRows
	if rows < 1 {
		rows = 1
	}
	cols := m.cols
	if cols < 1 {
		cols = 1
	}
	return display.Size{
		Width:  float64(cols),
		Height: float64(rows * 2),
	}
}

// recompute maps the internal game space onto the current container and
// resizes the backing canvas and the HUD screen to match. This is the
// apply step paired with the engine's pure computation.
func (m *GameModel) recompute() {
	vp, err := m.engine.Compute(
		m.container(),
		m.displayCfg.InternalSize(),
		m.quality,
		m.displayCfg.ViewportOptions(),
	)
	if err != nil {
		return
	}
	m.viewport = vp
	m.canvas.Resize(vp.Backing.Width, vp.Backing.Height)

	cols := m.cols
	if cols < 1 {
		cols = 1
	}
	m.hud.Resize(cols, hudRows)
}

// applyQuality pushes the active quality settings into the game.
func (m *GameModel) applyQuality() {
	if es, ok := m.game.(effectsSetter); ok {
		es.SetEffects(m.quality.ParticleBudget, m.quality.EffectsEnabled)
	}
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		m.resize.Stop()
		return m, tea.Quit
	}
	if action == core.ActionBack {
		m.backToMenu = true
		m.resize.Stop()
		return m, tea.Quit
	}
	if action == core.ActionRestart && !m.gameState.GameOver {
		return m, nil
	}
	m.keys.MapKeyToFrame(msg, &m.inputFrame)
	return m, nil
}

// handleResize records the new terminal size. The expensive viewport
// recomputation is deferred until the resize burst settles.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	if msg.Width <= 0 || msg.Height <= 0 {
		return m, nil
	}
	m.cols = msg.Width
	m.rows = msg.Height
	m.resize.Offer(m.container())
	return m, nil
}

// handleMouse steers the player toward a clicked point by translating the
// screen position back into game units.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	pl, ok := m.game.(playerLocator)
	if !ok {
		return m, nil
	}

	// Screen y is in cells below the HUD; the viewport works in pixel
	// rows, two per cell.
	t := m.viewport.Transform(0, 0)
	gx, gy := t.ScreenToGame(float64(msg.X), float64((msg.Y-hudRows)*2))

	cx, cy := pl.Player().Center()
	dx, dy := gx-cx, gy-cy
	if dx == 0 && dy == 0 {
		return m, nil
	}

	// Dominant axis wins; one step per click.
	if abs(dx) > abs(dy) {
		if dx > 0 {
			m.inputFrame.Set(core.ActionRight)
		} else {
			m.inputFrame.Set(core.ActionLeft)
		}
	} else {
		if dy > 0 {
			m.inputFrame.Set(core.ActionDown)
		} else {
			m.inputFrame.Set(core.ActionUp)
		}
	}
	return m, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	now := time.Now()
	if !m.lastTick.IsZero() {
		m.monitor.Record(float64(now.Sub(m.lastTick)) / float64(time.Millisecond))
	}
	m.lastTick = now

	// Apply a settled resize, if any.
	if _, ok := m.resize.Take(); ok {
		m.recompute()
	}

	m.maybeDowngrade()

	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		// Reset seed for new game
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.monitor.Reset()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	// Run game simulation
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Save score on game over (once)
	if m.gameState.GameOver && !m.scoreSaved && m.gameState.Score > 0 {
		if m.store != nil {
			//nolint:errcheck // Best-effort save, game continues regardless
			m.store.SaveScore(m.game.ID(), m.gameState.Score)
		}
		m.scoreSaved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// maybeDowngrade periodically checks the rolling frame stats against the
// active frame budget and drops one quality tier when frames are
// consistently slow. Upgrades never happen here; recovering quality
// requires a fresh profile run.
func (m *GameModel) maybeDowngrade() {
	m.ticksSinceCheck++
	if m.ticksSinceCheck < qualityCheckTicks {
		return
	}
	m.ticksSinceCheck = 0

	stats := m.monitor.Stats()
	if stats.SampleCount < display.DefaultFrameSamples/2 {
		return
	}

	budget := 1000.0 / float64(m.quality.TargetFPS)
	if stats.Avg <= budget*slowFrameFactor {
		return
	}

	next := display.Adjust(m.quality, -1)
	if next.Tier == m.quality.Tier {
		return
	}
	m.quality = next
	m.applyQuality()
	m.recompute()
	m.monitor.Reset()
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	// Rasterize game units onto the backing canvas, then downsample the
	// canvas into terminal cells.
	m.canvas.Clear()
	m.game.Render(m.canvas)

	displayCols := int(m.viewport.Display.Width)
	displayRows := int(m.viewport.Display.Height) / 2
	if displayCols < 1 {
		displayCols = 1
	}
	if displayRows < 1 {
		displayRows = 1
	}
	field := CanvasView(m.canvas, displayCols, displayRows, m.quality.AntiAliasing)

	// Letterbox the playfield inside the container.
	padX := int(m.viewport.Offset.X)
	padY := int(m.viewport.Offset.Y) / 2
	if padX > 0 || padY > 0 {
		var sb strings.Builder
		for i := 0; i < padY; i++ {
			sb.WriteRune('\n')
		}
		indent := strings.Repeat(" ", padX)
		for i, line := range strings.Split(field, "\n") {
			if i > 0 {
				sb.WriteRune('\n')
			}
			sb.WriteString(indent)
			sb.WriteString(line)
		}
		field = sb.String()
	}

	return m.hudView() + "\n" + field
}

// hudView composes the status row into the HUD screen buffer and renders
// it. The buffer spans the full terminal width, so stale text from the
// previous frame never bleeds through.
func (m GameModel) hudView() string {
	m.hud.Clear()

	x := 1
	x = drawHUDSegment(m.hud, x, m.game.Title(), core.ColorBrightWhite)
	x = drawHUDSegment(m.hud, x+2, fmt.Sprintf("score %d", m.gameState.Score), core.ColorBrightGreen)
	x = drawHUDSegment(m.hud, x+2, fmt.Sprintf("tier %s", m.quality.Tier), core.ColorGray)

	stats := m.monitor.Stats()
	if stats.Avg > 0 {
		x = drawHUDSegment(m.hud, x+2, fmt.Sprintf("%.0f fps", 1000.0/stats.Avg), core.ColorGray)
	}

	switch {
	case m.gameState.GameOver:
		drawHUDSegment(m.hud, x+2, "GAME OVER - r to restart, b for menu", core.ColorBrightRed)
	case m.gameState.Paused:
		drawHUDSegment(m.hud, x+2, "PAUSED - p to resume", core.ColorBrightYellow)
	}

	return RenderScreen(m.hud)
}

// drawHUDSegment writes one colored HUD segment and returns the x past it.
func drawHUDSegment(s *core.Screen, x int, text string, c core.Color) int {
	s.DrawText(x, 0, text, c)
	return x + len(text)
}

// BackToMenu reports whether the player exited the game back to the menu
// rather than quitting the program.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting reports whether the player requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// Run starts the Bubble Tea program for a single game, profiling the
// device first to pick quality settings.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig,
	displayCfg config.DisplayConfig, caps display.DeviceCapabilities) error {
	tier := caps.Perf.Tier
	if displayCfg.ForceTier != "" {
		tier = display.ParseTier(displayCfg.ForceTier)
	}

	model := NewGameModel(game, store, cfg, displayCfg, caps, display.SettingsFor(tier))

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
