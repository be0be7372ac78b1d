package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/gfx"
	"github.com/vovakirdan/tui-stage/internal/gfx/soft"
	"github.com/vovakirdan/tui-stage/internal/input"
	"github.com/vovakirdan/tui-stage/internal/stage"
)

// StatusLines is the number of terminal rows the status bar takes.
const StatusLines = 1

// End reasons reported in Result.
const (
	ReasonQuit    = "quit"
	ReasonContext = "context"
)

// Result describes a finished run.
type Result struct {
	Frames uint64
	Reason string
}

type options struct {
	logger          *log.Logger
	tickRate        int
	keyReleaseAfter time.Duration
	statusBar       bool
	renderer        *lipgloss.Renderer
	programOpts     []tea.ProgramOption
	now             func() time.Time
}

// Option configures the terminal backend.
type Option func(*options)

// WithLogger sets the backend logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTickRate sets the number of frames per second.
func WithTickRate(fps int) Option {
	return func(o *options) { o.tickRate = fps }
}

// WithKeyReleaseAfter sets how long a key counts as held after its last
// press. Terminals report presses only.
func WithKeyReleaseAfter(d time.Duration) Option {
	return func(o *options) { o.keyReleaseAfter = d }
}

// WithStatusBar shows or hides the status bar.
func WithStatusBar(on bool) Option {
	return func(o *options) { o.statusBar = on }
}

// WithRenderer styles output through r, for SSH sessions.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithIO reads from in and writes to out instead of the process terminal.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *options) {
		o.programOpts = append(o.programOpts, tea.WithInput(in), tea.WithOutput(out))
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func newOptions(opts []Option) options {
	o := options{
		logger:          log.New(io.Discard),
		tickRate:        60,
		keyReleaseAfter: 150 * time.Millisecond,
		statusBar:       true,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	return o
}

// Model is the Bubble Tea model driving one stage.
type Model struct {
	stage     *stage.Stage
	device    *soft.Device
	presenter *Presenter
	opts      options
	keys      KeyMap
	help      help.Model
	status    lipgloss.Style

	// held maps keys reported pressed to the time of their last press.
	held       map[input.Key]time.Time
	lastButton input.MouseButton
	cols, rows int
	frames     uint64
	quitting   bool
}

// NewModel creates a model presenting device, which must be the graphics
// context st was started with.
func NewModel(st *stage.Stage, device *soft.Device, opts ...Option) Model {
	o := newOptions(opts)
	p := NewPresenter(o.renderer)
	h := help.New()
	return Model{
		stage:      st,
		device:     device,
		presenter:  p,
		opts:       o,
		keys:       DefaultKeyMap(),
		help:       h,
		status:     p.renderer.NewStyle().Reverse(true),
		held:       make(map[input.Key]time.Time),
		lastButton: input.MouseUnknown,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.opts.tickRate), tea.SetWindowTitle(m.stage.Conf().Title))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.FocusMsg:
		m.stage.WindowRestoredEvent()

	case tea.BlurMsg:
		m.stage.WindowMinimizedEvent()

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey forwards a key press. A press of a key that is already held only
// extends the hold. Runes read together arrive in one message and are
// forwarded one by one.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes && !msg.Paste && len(msg.Runes) > 1 {
		var cmds []tea.Cmd
		for _, r := range msg.Runes {
			next, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: msg.Alt})
			m = next.(Model)
			cmds = append(cmds, cmd)
			if m.quitting {
				break
			}
		}
		return m, tea.Batch(cmds...)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	k, mods, ok := m.keys.Lookup(msg)
	if msg.Type == tea.KeyRunes && !msg.Paste {
		for _, r := range msg.Runes {
			m.stage.CharEvent(r, mods, ok && m.isHeld(k))
		}
	}
	if !ok {
		m.stage.KeyDownEvent(input.KeyUnknown, mods, false)
		return m, nil
	}

	now := m.opts.now()
	if m.isHeld(k) {
		m.held[k] = now
		return m, nil
	}
	m.held[k] = now
	m.stage.KeyDownEvent(k, mods, false)
	return m, nil
}

func (m Model) isHeld(k input.Key) bool {
	_, ok := m.held[k]
	return ok
}

var mouseButtons = map[tea.MouseButton]input.MouseButton{
	tea.MouseButtonLeft:   input.MouseLeft,
	tea.MouseButtonRight:  input.MouseRight,
	tea.MouseButtonMiddle: input.MouseMiddle,
}

// handleMouse forwards a mouse message. One cell covers one pixel across and
// two down.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := float32(msg.X), float32(msg.Y*2)

	if tea.MouseEvent(msg).IsWheel() {
		var dx, dy float32
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			dy = 1
		case tea.MouseButtonWheelDown:
			dy = -1
		case tea.MouseButtonWheelLeft:
			dx = -1
		case tea.MouseButtonWheelRight:
			dx = 1
		}
		m.stage.MouseWheelEvent(dx, dy)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		b, ok := mouseButtons[msg.Button]
		if !ok {
			b = input.MouseUnknown
		}
		m.lastButton = b
		m.stage.MouseButtonDownEvent(b, x, y)
	case tea.MouseActionRelease:
		// Most terminals do not say which button was released.
		b, ok := mouseButtons[msg.Button]
		if !ok {
			b = m.lastButton
		}
		m.lastButton = input.MouseUnknown
		m.stage.MouseButtonUpEvent(b, x, y)
	case tea.MouseActionMotion:
		m.stage.MouseMotionEvent(x, y)
	}
	return m, nil
}

// handleResize resizes the framebuffer to the terminal, minus the status
// bar, and reports the new size in pixels.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	rows := msg.Height
	if m.opts.statusBar {
		rows -= StatusLines
	}
	m.cols, m.rows = max(msg.Width, 0), max(rows, 0)
	m.help.Width = m.cols

	w, h := m.cols, m.rows*2
	m.device.Resize(w, h)
	m.stage.ResizeEvent(float32(w), float32(h))
	return m, nil
}

// handleTick releases keys whose hold expired and runs one frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	now := m.opts.now()
	for k, t := range m.held {
		if now.Sub(t) >= m.opts.keyReleaseAfter {
			delete(m.held, k)
			m.stage.KeyUpEvent(k, input.Mods{})
		}
	}

	m.stage.Frame()
	m.frames++
	return m, tickCmd(m.opts.tickRate)
}

// View renders the framebuffer and the status bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// The full key table replaces the frame until ? is pressed again.
	if m.help.ShowAll {
		return m.help.View(m.keys)
	}

	frame := m.presenter.Render(m.device.Frame())
	if !m.opts.statusBar {
		return frame
	}
	return lipgloss.JoinVertical(lipgloss.Left, frame, m.statusBar())
}

func (m Model) statusBar() string {
	win := m.stage.Published().Window
	info := m.status.Render(fmt.Sprintf(" %s  frame %d  %.0fx%.0f ",
		m.stage.Conf().Title, m.stage.Published().Time.Frame, win.Width, win.Height))
	return info + " " + m.help.ShortHelpView(m.keys.ShortHelp())
}

// Frames returns the number of frames run.
func (m Model) Frames() uint64 {
	return m.frames
}

// Start runs the terminal backend until the user quits or ctx is done. It
// creates a framebuffer of the configured size, hands it to factory as the
// graphics context, and drives the returned stage. A factory error is
// returned before the terminal is touched.
func Start(ctx context.Context, conf stage.Conf, factory func(gfx.Context) (*stage.Stage, error), opts ...Option) (Result, error) {
	o := newOptions(opts)

	device := soft.New(conf.Width, conf.Height)
	st, err := factory(device)
	if err != nil {
		return Result{}, err
	}

	m := NewModel(st, device, opts...)
	programOpts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	}, o.programOpts...)

	o.logger.Info("terminal backend started", "tick_rate", o.tickRate)
	final, err := tea.NewProgram(m, programOpts...).Run()

	res := Result{Reason: ReasonQuit}
	if fm, ok := final.(Model); ok {
		res.Frames = fm.frames
	}
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			res.Reason = ReasonContext
			return res, nil
		}
		return res, fmt.Errorf("tui: %w", err)
	}
	o.logger.Info("terminal backend stopped", "frames", res.Frames)
	return res, nil
}
