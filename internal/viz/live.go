package viz

import (
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/export"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/physics"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/spawn"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
	maxGIFFrames    = 600
	frameInterval   = time.Second / 60
	svgSize         = 800
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type Options struct {
	Spawner  *spawn.Spawner
	Emitter  *spawn.Emitter
	Smoother *sim.DeltaSmoother
	Logger   dynamo.Logger
	Theme    string
	Title    string
	GIFPath  string
	SVGPath  string
}

// Model owns the particle system for the lifetime of the program. All
// mutation happens inside Update, so the system never crosses goroutines.
type Model struct {
	sys      *physics.System
	spawner  *spawn.Spawner
	emitter  *spawn.Emitter
	smoother *sim.DeltaSmoother
	log      dynamo.Logger

	canvas *Canvas
	view   Viewport
	theme  Theme
	styles styles
	title  string

	cursor   dynamo.Vec2
	lastTick time.Time
	fps      float64
	dt       float64
	steps    int
	energy   []float64
	counts   []float64

	running   bool
	showInfo  bool
	showHelp  bool
	recording bool
	frames    []*image.Paletted
	status    string

	gifPath string
	svgPath string
}

func NewModel(sys *physics.System, opts Options) Model {
	if opts.Spawner == nil {
		opts.Spawner = spawn.New(config.DefaultConfig().Spawn, time.Now().UnixNano())
	}
	if opts.Smoother == nil {
		opts.Smoother = sim.NewDeltaSmoother(sim.DefaultSmootherWindow, 1.0/240, 1.0/15)
	}
	if opts.Logger == nil {
		opts.Logger = dynamo.NoOpLogger{}
	}
	if opts.Title == "" {
		opts.Title = "verletsim"
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "verletsim.gif"
	}
	if opts.SVGPath == "" {
		opts.SVGPath = "verletsim.svg"
	}

	theme := GetTheme(opts.Theme)
	m := Model{
		sys:      sys,
		spawner:  opts.Spawner,
		emitter:  opts.Emitter,
		smoother: opts.Smoother,
		log:      opts.Logger,
		theme:    theme,
		styles:   newStyles(theme),
		title:    opts.Title,
		cursor:   sys.Boundary().Center(),
		energy:   make([]float64, 0, historyCapacity),
		counts:   make([]float64, 0, historyCapacity),
		running:  true,
		showInfo: true,
		gifPath:  opts.GIFPath,
		svgPath:  opts.SVGPath,
	}
	m.resize(width, height)
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "p":
			m.spawn(m.spawner.Key(m.cursor))
		case "up", "k":
			m.moveCursor(0, -1)
		case "down", "j":
			m.moveCursor(0, 1)
		case "left", "h":
			m.moveCursor(-1, 0)
		case "right", "l":
			m.moveCursor(1, 0)
		case "d":
			m.showInfo = !m.showInfo
		case "r":
			m.reset()
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
				m.status = "recording"
			}
		case "s":
			m.saveSVG()
		case "?":
			m.showHelp = !m.showHelp
		}
		m.draw()
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			break
		}
		col, row := msg.X-canvasPadX, msg.Y-canvasPadY
		if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
			break
		}
		m.cursor = m.view.CellToWorld(col, row)
		m.spawn(m.spawner.Click(m.cursor))
		m.draw()
	case tea.WindowSizeMsg:
		w := msg.Width - 2*canvasPadX - panelWidth - 6
		h := msg.Height - 2*canvasPadY - 2
		m.resize(max(w, 20), max(h, 8))
	case TickMsg:
		m.advance(time.Time(msg))
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// advance feeds the wall-clock delta through the smoother and steps once.
// The first tick only starts the clock.
func (m *Model) advance(now time.Time) {
	if m.lastTick.IsZero() {
		m.lastTick = now
		return
	}
	dt := m.smoother.Push(now.Sub(m.lastTick).Seconds())
	m.lastTick = now
	m.fps = 1 / dt
	if !m.running {
		return
	}
	m.stepOnce(dt)
}

func (m *Model) stepOnce(dt float64) {
	if m.emitter != nil {
		if _, err := m.emitter.Emit(m.sys, m.steps); err != nil {
			m.log.Warnf("emitter: %v", err)
			m.status = err.Error()
		}
	}
	m.sys.Step(dt)
	m.dt = dt
	m.steps++
	m.energy = pushHistory(m.energy, metrics.Kinetic(m.sys, dt))
	m.counts = pushHistory(m.counts, float64(m.sys.Len()))
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) spawn(req spawn.Request) {
	ids, err := m.spawner.Spawn(m.sys, req)
	if err != nil {
		m.log.Warnf("spawn: %v", err)
		m.status = err.Error()
		return
	}
	m.log.Debugf("spawned %d at %v r=%.1f", len(ids), req.Position, req.Radius)
}

// moveCursor nudges the cursor by a twentieth of the boundary radius and
// keeps it inside the boundary.
func (m *Model) moveCursor(dx, dy float64) {
	b := m.sys.Boundary()
	step := b.Radius() / 20
	next := m.cursor.Add(dynamo.Vec2{X: dx * step, Y: dy * step})
	offset := next.Sub(b.Center())
	if offset.Length() > b.Radius() {
		if dir, ok := offset.Normalize(); ok {
			next = b.Center().Add(dir.Scale(b.Radius()))
		}
	}
	m.cursor = next
}

func (m *Model) reset() {
	m.sys.Reset()
	if m.emitter != nil {
		m.emitter.Reset()
	}
	m.steps = 0
	m.energy = m.energy[:0]
	m.counts = m.counts[:0]
	m.status = "reset"
}

func (m *Model) resize(w, h int) {
	m.canvas = NewCanvas(w, h)
	b := m.sys.Boundary()
	m.view = NewViewport(physics.BoundaryView{X: b.Center().X, Y: b.Center().Y, Radius: b.Radius()}, m.canvas)
	m.draw()
}

func (m *Model) draw() {
	m.canvas.Clear()
	DrawFrame(m.canvas, m.view, m.sys.Snapshot(), m.theme.Boundary)
	cx, cy := m.view.ToCanvas(m.cursor)
	m.canvas.DrawLine(cx-2, cy, cx+2, cy, m.theme.Cursor)
	m.canvas.DrawLine(cx, cy-2, cx, cy+2, m.theme.Cursor)
}

func (m *Model) saveSVG() {
	svg := export.FrameToSVG(m.sys.Snapshot(), svgSize)
	if err := os.WriteFile(m.svgPath, []byte(svg), 0644); err != nil {
		m.log.Errorf("save svg: %v", err)
		m.status = err.Error()
		return
	}
	m.status = "saved " + m.svgPath
}

func (m *Model) captureFrame() {
	if len(m.frames) >= maxGIFFrames {
		m.stopRecording()
		return
	}
	m.frames = append(m.frames, CanvasImage(m.canvas, m.theme.Fallback))
}

func (m *Model) stopRecording() {
	m.recording = false
	frames := m.frames
	m.frames = nil
	if len(frames) == 0 {
		return
	}
	if err := SaveGIF(m.gifPath, frames); err != nil {
		m.log.Errorf("save gif: %v", err)
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %s (%d frames)", m.gifPath, len(frames))
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := m.styles.canvas.Render(m.canvas.Render(m.theme.Fallback))
	if m.showHelp {
		return helpText + "\n\n" + canvasView
	}
	if !m.showInfo {
		return canvasView
	}

	var s strings.Builder
	s.WriteString(m.styles.header.Render(strings.ToUpper(m.title)) + "\n")
	switch {
	case m.recording:
		s.WriteString(m.styles.recording.Render(fmt.Sprintf("REC %d", len(m.frames))))
	case m.running:
		s.WriteString(m.styles.running.Render("RUNNING"))
	default:
		s.WriteString(m.styles.paused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	stats := m.sys.Stats()
	rows := []struct{ label, value string }{
		{"FPS", fmt.Sprintf("%.1f", m.fps)},
		{"Particles", fmt.Sprintf("%d", m.sys.Len())},
		{"Step", fmt.Sprintf("%d", m.steps)},
		{"dt", fmt.Sprintf("%.4fs", m.dt)},
		{"Collisions", fmt.Sprintf("%d", stats.Collisions)},
		{"Degenerate", fmt.Sprintf("%d", stats.DegenerateSkips)},
		{"Cursor", m.cursor.String()},
		{"Theme", m.theme.Name},
	}
	if m.emitter != nil {
		rows = append(rows, struct{ label, value string }{"Emitted", fmt.Sprintf("%d", m.emitter.Emitted())})
	}
	for _, r := range rows {
		s.WriteString(m.styles.label.Render(r.label) + m.styles.value.Render(r.value) + "\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(m.styles.graph.Render(chart) + "\n")
	}
	if len(m.counts) > 0 {
		s.WriteString(m.styles.label.Render("Count") + m.styles.value.Render(Sparkline(m.counts, 24)) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + m.styles.value.Render(m.status) + "\n")
	}
	s.WriteString(m.styles.hint.Render("SP:Pause P:Spawn D:Info R:Reset\nG:Record S:SVG T:Theme ?:Help Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(s.String()))
}

// Steps is the number of frames simulated since the last reset.
func (m Model) Steps() int { return m.steps }

func (m Model) System() *physics.System { return m.sys }

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  P        - Spawn at cursor          ║
║  Arrows   - Move cursor              ║
║  Click    - Spawn large particle     ║
║  D        - Toggle info panel        ║
║  R        - Remove all particles     ║
║  G        - Toggle GIF recording     ║
║  S        - Save frame as SVG        ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
