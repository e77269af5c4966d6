package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/life423/Ascend-Avoid-sub000/internal/config"
	"github.com/life423/Ascend-Avoid-sub000/internal/core"
	"github.com/life423/Ascend-Avoid-sub000/internal/display"
	"github.com/life423/Ascend-Avoid-sub000/internal/games/ascend"
	"github.com/life423/Ascend-Avoid-sub000/internal/multiplayer"
	"github.com/life423/Ascend-Avoid-sub000/internal/registry"
	"github.com/life423/Ascend-Avoid-sub000/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.ascend/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Display carries the device-adaptation settings applied to sessions.
	Display config.DisplayConfig
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.ascend/scores.db",
		IdleTimeout: 30 * time.Minute,
		Display:     config.DefaultDisplayConfig(),
	}
}

// SSHServer wraps a Wish SSH server hosting Ascend sessions and the
// race coordinator.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
	logger      *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ascend-ssh",
	})

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	}

	sessions := multiplayer.NewSessionRegistry()

	coordinator := multiplayer.NewCoordinator(
		multiplayer.DefaultCoordinatorConfig(),
		func(rc core.RuntimeConfig) (multiplayer.RaceGame, error) {
			return ascend.NewRace(config.DefaultAscendConfig()), nil
		},
		sessions,
		logger,
	)
	if store != nil {
		coordinator.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		sessions:    sessions,
		coordinator: coordinator,
		logger:      logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".ascend", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
		Seed:     time.Now().UnixNano(),
	}

	// Remote clients cannot be benchmarked from here; start from the
	// configured tier (or the conservative medium default) and let the
	// frame monitor downgrade at runtime if the connection struggles.
	caps := s.sessionCapabilities(pty)

	sessionID := multiplayer.SessionID(fmt.Sprintf("%s-%d", sshSession.User(), time.Now().UnixNano()))
	channel := multiplayer.NewChannelSession(sessionID, 64)
	s.sessions.Register(channel)

	// Tear the session down when the SSH connection ends, so an abrupt
	// disconnect forfeits any race in progress.
	go func() {
		<-sshSession.Context().Done()
		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: sessionID})
		s.sessions.Unregister(sessionID)
		channel.Close()
	}()

	model := NewSessionModel(s.store, cfg, s.config.Display, caps,
		sshSession.User(), channel, s.coordinator)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// sessionCapabilities builds a capabilities snapshot for a remote session
// from the PTY geometry and the server's display config.
func (s *SSHServer) sessionCapabilities(pty ssh.Pty) display.DeviceCapabilities {
	w, h := pty.Window.Width, pty.Window.Height
	if w <= 0 || h <= 0 {
		w, h = 80, 24
	}
	orientation := display.OrientationLandscape
	if h > w {
		orientation = display.OrientationPortrait
	}

	tier := display.TierMedium
	if s.config.Display.ForceTier != "" {
		tier = display.ParseTier(s.config.Display.ForceTier)
	}

	return display.DeviceCapabilities{
		Screen: display.ScreenInfo{
			Width:       w,
			Height:      h,
			PixelRatio:  2,
			Orientation: orientation,
		},
		Perf: display.PerfInfo{
			Tier:         tier,
			RendererName: pty.Term,
		},
		Input:    display.InputModes{Keyboard: true},
		Features: display.Features{UTF8: true, AltScreen: true},
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coordinator.Stop()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen identifies which screen a session is showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScores
	screenOnline
)

// SessionModel manages the full session flow: menu, game, scoreboard,
// and online race. This is the top-level model used for SSH sessions.
type SessionModel struct {
	store       *storage.Store
	config      core.RuntimeConfig
	displayCfg  config.DisplayConfig
	caps        display.DeviceCapabilities
	username    string
	channel     *multiplayer.ChannelSession
	coordinator *multiplayer.Coordinator

	screen     sessionScreen
	menu       MenuModel
	gameModel  *GameModel
	scoreboard *ScoreboardModel
	online     *OnlineRaceModel
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig,
	displayCfg config.DisplayConfig, caps display.DeviceCapabilities,
	username string, channel *multiplayer.ChannelSession,
	coordinator *multiplayer.Coordinator) SessionModel {
	return SessionModel{
		store:       store,
		config:      cfg,
		displayCfg:  displayCfg,
		caps:        caps,
		username:    username,
		channel:     channel,
		coordinator: coordinator,
		menu:        NewMenuModel(store, cfg, true),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Track window size globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
		m.caps.Screen.Width = wsm.Width
		m.caps.Screen.Height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	case screenOnline:
		return m.updateOnline(msg)
	default:
		return m.updateMenu(msg)
	}
}

// backToMenu returns the session to a fresh menu.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.gameModel = nil
	m.scoreboard = nil
	m.online = nil
	m.menu = NewMenuModel(m.store, m.config, true)
	return m, m.menu.Init()
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.menu.Selected() {
	case MenuChoicePlay:
		game, err := registry.Create("ascend")
		if err != nil {
			return m, nil
		}
		m.config = m.menu.Config()

		tier := m.caps.Perf.Tier
		if m.displayCfg.ForceTier != "" {
			tier = display.ParseTier(m.displayCfg.ForceTier)
		}
		gameModel := NewGameModel(game, m.store, m.config, m.displayCfg,
			m.caps, display.SettingsFor(tier))
		m.gameModel = &gameModel
		m.screen = screenGame
		return m, m.gameModel.Init()

	case MenuChoiceScores:
		sb := NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.scoreboard = &sb
		m.screen = screenScores
		return m, m.scoreboard.Init()

	case MenuChoiceRace:
		tier := m.caps.Perf.Tier
		if m.displayCfg.ForceTier != "" {
			tier = display.ParseTier(m.displayCfg.ForceTier)
		}
		online := NewOnlineRaceModel(m.channel.ID(), m.coordinator,
			m.channel.Events(), m.displayCfg, display.SettingsFor(tier),
			m.config.ScreenW, m.config.ScreenH)
		m.online = &online
		m.screen = screenOnline
		return m, m.online.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.BackToMenu() {
		return m.backToMenu()
	}
	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateScores handles updates when showing the scoreboard.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = &sb
	}

	if m.scoreboard.IsGoingBack() {
		return m.backToMenu()
	}
	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateOnline handles updates when in the online race flow.
func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.online.Update(msg)
	if online, ok := newModel.(OnlineRaceModel); ok {
		m.online = &online
	}

	if m.online.BackToMenu() {
		return m.backToMenu()
	}
	if m.online.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.gameModel.View()
	case screenScores:
		return m.scoreboard.View()
	case screenOnline:
		return m.online.View()
	default:
		return m.menu.View()
	}
}
