package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/logging"
	"github.com/san-kum/gravbox/internal/metrics"
	"github.com/san-kum/gravbox/internal/scene"
	"github.com/san-kum/gravbox/internal/sim"
	"github.com/san-kum/gravbox/internal/storage"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	gifPath         = "gravbox.gif"
)

type TickMsg time.Time

// Options configures a live session. Registry and World are required.
type Options struct {
	Registry    *scene.Registry
	World       *sim.World
	Store       *storage.Store
	Scene       string
	Spawn       dynamo.Vec2
	FPS         int
	MaxStep     float64
	WorldWidth  float64
	WorldHeight float64
	Theme       string
	Logger      *zap.Logger
}

// Model is the Bubble Tea model of an interactive world.
type Model struct {
	world    *sim.World
	registry *scene.Registry
	store    *storage.Store
	clock    *sim.Clock
	canvas   *Canvas
	view     *Viewport
	logger   *zap.Logger

	sceneName string
	spawn     dynamo.Vec2
	interval  time.Duration
	running   bool
	showHelp  bool
	status    string
	theme     Theme

	energyHistory []float64
	bodyHistory   []float64

	recording bool
	gif       *Recording
}

func NewModel(opts Options) (Model, error) {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.WorldWidth <= 0 || opts.WorldHeight <= 0 {
		opts.WorldWidth, opts.WorldHeight = 800, 700
	}

	view := FitViewport(opts.WorldWidth, opts.WorldHeight, canvasWidth*2, canvasHeight*4)
	m := Model{
		world:         opts.World,
		registry:      opts.Registry,
		store:         opts.Store,
		clock:         sim.NewClock(opts.MaxStep, nil),
		canvas:        NewCanvas(canvasWidth, canvasHeight, view),
		view:          view,
		logger:        logging.OrNop(opts.Logger),
		sceneName:     opts.Scene,
		spawn:         opts.Spawn,
		interval:      time.Second / time.Duration(opts.FPS),
		running:       true,
		theme:         GetTheme(opts.Theme),
		energyHistory: make([]float64, 0, historyCapacity),
		bodyHistory:   make([]float64, 0, historyCapacity),
	}
	if err := m.registry.Apply(m.world, m.sceneName); err != nil {
		return Model{}, err
	}
	m.world.Draw(m.canvas)
	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the world once per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stopRecording()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.loadScene(m.sceneName)
		case "n":
			m.loadScene(m.registry.Next(m.sceneName))
		case "b":
			id := m.world.SpawnBlackHole(m.spawn)
			m.status = fmt.Sprintf("black hole %d spawned", id)
		case "o":
			m.world.SetDebug(!m.world.Debug())
		case "s":
			m.save()
		case "l":
			m.load()
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording, m.gif = true, NewRecording()
				m.status = "recording"
			}
		case "t":
			m.theme = NextTheme(m.theme)
		case "+", "=":
			m.view.ZoomIn()
		case "-", "_":
			m.view.ZoomOut()
		case "left", "h":
			m.view.Pan(-8, 0)
		case "right":
			m.view.Pan(8, 0)
		case "up", "k":
			m.view.Pan(0, -8)
		case "down", "j":
			m.view.Pan(0, 8)
		case "?":
			m.showHelp = !m.showHelp
		}
		m.world.Draw(m.canvas)
		return m, nil
	case TickMsg:
		m.clock.Tick()
		if m.running {
			m.step()
		}
		m.world.Draw(m.canvas)
		if m.recording {
			m.gif.Capture(m.canvas)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	if err := m.world.Update(); err != nil {
		m.running = false
		m.status = err.Error()
		m.logger.Error("update failed", zap.Error(err))
		return
	}

	m.energyHistory = appendCapped(m.energyHistory, metrics.TotalEnergy(m.world.Bodies(), m.world.Gravity()))
	m.bodyHistory = appendCapped(m.bodyHistory, float64(len(m.world.Bodies())))
}

func appendCapped(values []float64, v float64) []float64 {
	values = append(values, v)
	if len(values) > historyCapacity {
		values = values[1:]
	}
	return values
}

func (m *Model) loadScene(name string) {
	if err := m.registry.Apply(m.world, name); err != nil {
		m.status = err.Error()
		return
	}
	m.sceneName = name
	m.energyHistory = m.energyHistory[:0]
	m.bodyHistory = m.bodyHistory[:0]
	m.status = "scene " + name
}

func (m *Model) save() {
	if m.store == nil {
		m.status = "no save directory"
		return
	}
	id, err := m.store.Save(storage.SlotMetadata{
		Name:   m.sceneName,
		Scene:  m.sceneName,
		Tick:   m.world.Tick(),
		Bodies: len(m.world.Bodies()),
	}, m.world.Save(), nil)
	if err != nil {
		m.status = "save failed: " + err.Error()
		m.logger.Error("save failed", zap.Error(err))
		return
	}
	m.status = "saved " + id
	m.logger.Info("world saved", zap.String("slot", id), zap.Int("tick", m.world.Tick()))
}

func (m *Model) load() {
	if m.store == nil {
		m.status = "no save directory"
		return
	}
	slot, err := m.store.Latest()
	if err != nil {
		m.status = "load failed: " + err.Error()
		return
	}
	record, err := m.store.LoadRecord(slot.ID)
	if err == nil {
		err = m.world.Load(record)
	}
	if err != nil {
		m.status = "load failed: " + err.Error()
		m.logger.Error("load failed", zap.String("slot", slot.ID), zap.Error(err))
		return
	}
	m.sceneName = slot.Scene
	m.status = "loaded " + slot.ID
}

func (m *Model) stopRecording() {
	if !m.recording {
		return
	}
	m.recording = false
	if err := m.gif.Save(gifPath); err != nil {
		m.status = "gif failed: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("wrote %d frames to %s", m.gif.Len(), gifPath)
}

// View renders the canvas beside the stats panel.
func (m Model) View() string {
	var s strings.Builder
	s.WriteString(GradientText("GRAVBOX", m.theme.Primary, m.theme.Secondary) + "  ")
	s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Accent).Render(m.sceneName) + "\n\n")

	switch {
	case m.recording:
		s.WriteString(StatusRecording.Render("● REC") + "\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n")
	}
	if m.status != "" {
		s.WriteString(keyHint(m.theme).Render(m.status) + "\n")
	}
	s.WriteString("\n")

	stats := m.world.Stats()
	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.world.Tick()))
	row("Time", fmt.Sprintf("%.1fs", m.clock.Elapsed()))
	row("Bodies", fmt.Sprintf("%d", len(m.world.Bodies())))
	row("Merges", fmt.Sprintf("%d", stats.Merges))
	row("Collapses", fmt.Sprintf("%d", stats.Collapses))
	row("Zoom", fmt.Sprintf("%.2f", m.view.Zoom))
	if m.world.Debug() {
		row("Outlines", "on")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString("\n" + chart + "\n")
	}
	s.WriteString("\n" + SparklineChart(m.bodyHistory, 30) + "\n")
	s.WriteString(Separator(32, m.theme) + "\n")
	s.WriteString(keyHint(m.theme).Render("SP:Pause R:Reset N:Next B:Hole\nS:Save L:Load O:Outline ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.Render(), panelStyle(m.theme).Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Restart current scene    ║
║  N        - Next scene               ║
║  B        - Spawn a black hole       ║
║  O        - Toggle collider outlines ║
║  S / L    - Save / load latest slot  ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  + / -    - Zoom                     ║
║  Arrows   - Pan                      ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts an interactive session in the alternate screen.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
