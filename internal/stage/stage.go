// Package stage connects an event-driven backend to the frame scheduler.
//
// Backends call the capture methods (KeyDownEvent, MouseMotionEvent, ...) as
// raw input arrives. Those write into the active input snapshot. Once per
// frame the backend calls Update, which publishes the active snapshot to the
// scheduler and runs the update phase, and then Draw, which runs the draw
// phase inside the default render pass. All calls must come from a single
// goroutine.
package stage

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/engine"
	"github.com/vovakirdan/tui-stage/internal/gfx"
	"github.com/vovakirdan/tui-stage/internal/input"
	"github.com/vovakirdan/tui-stage/internal/render"
)

// Errors returned by Start.
var (
	ErrNoGraphics     = errors.New("stage: no graphics context")
	ErrAlreadyStarted = errors.New("stage: already started")
)

// State is the lifecycle state of a Stage.
type State int

const (
	StateConstructing State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateConstructing:
		return "constructing"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Conf is the initial window configuration.
type Conf struct {
	Title      string
	Width      int
	Height     int
	ClearColor render.Color

	// StatsEvery is the number of frames between debug statistics lines.
	// Zero disables them.
	StatsEvery int
}

// DefaultConf returns the configuration used when nothing else is given.
func DefaultConf() Conf {
	return Conf{
		Title:      "FlappyBird",
		Width:      1024,
		Height:     768,
		ClearColor: render.Charcoal,
		StatsEvery: 60,
	}
}

// Option configures a Stage.
type Option func(*Stage)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Stage) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Stage) {
		if now != nil {
			s.now = now
		}
	}
}

// Stage owns the active and published input snapshots and sequences
// capture, publish, update and draw.
type Stage struct {
	conf   Conf
	sched  *engine.Scheduler
	gfx    gfx.Context
	logger *log.Logger
	now    func() time.Time

	state     State
	start     time.Time
	active    input.Frame
	published input.Frame
	last      input.Frame
	busy      bool

	statsFrom  time.Time
	statsCount int
}

// New returns a Stage in the Constructing state. g may be nil, in which case
// Start fails with ErrNoGraphics.
func New(conf Conf, sched *engine.Scheduler, g gfx.Context, opts ...Option) *Stage {
	s := &Stage{
		conf:   conf,
		sched:  sched,
		gfx:    g,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.start = s.now()
	s.statsFrom = s.start
	return s
}

// Start builds the render pipeline, installs the graphics context, the
// pipeline and the published snapshot as scheduler resources, and seeds the
// window size. It may succeed only once.
func (s *Stage) Start() error {
	if s.state == StateRunning {
		return ErrAlreadyStarted
	}
	if s.gfx == nil {
		return ErrNoGraphics
	}

	p, err := render.NewPipeline(s.gfx)
	if err != nil {
		return fmt.Errorf("stage: cannot build render pipeline: %w", err)
	}
	p.Attach(s.sched.World(), s.gfx)

	res := s.sched.Resources()
	res.Graphics = s.gfx
	res.Pipeline = p
	res.Input = &s.published

	s.active.Window = input.Window{Width: float32(s.conf.Width), Height: float32(s.conf.Height)}
	s.published = s.active
	s.last = s.active
	s.state = StateRunning

	s.logger.Info("stage started",
		"title", s.conf.Title,
		"width", s.conf.Width,
		"height", s.conf.Height,
		"systems", s.sched.Len(),
	)
	return nil
}

// Update publishes the active snapshot and runs the scheduler's update phase.
// It panics when called from inside another Update or Draw.
func (s *Stage) Update() {
	if s.state != StateRunning {
		s.logger.Warn("update before start ignored")
		return
	}
	s.enter("Update")
	defer s.leave()

	s.publish()
	s.sched.Update()
}

// Draw runs the scheduler's draw phase inside the default pass, cleared to
// the configured color, and commits the frame.
func (s *Stage) Draw() {
	if s.state != StateRunning {
		s.logger.Warn("draw before start ignored")
		return
	}
	s.enter("Draw")
	defer s.leave()

	s.gfx.BeginDefaultPass(gfx.PassAction{Clear: true, Color: s.conf.ClearColor.Array()})
	s.sched.Draw()
	s.gfx.EndRenderPass()
	s.gfx.Commit()
	s.stats()
}

// Frame runs Update then Draw, for backends with a single frame callback.
func (s *Stage) Frame() {
	s.Update()
	s.Draw()
}

func (s *Stage) enter(op string) {
	if s.busy {
		panic("stage: reentrant " + op)
	}
	s.busy = true
}

func (s *Stage) leave() {
	s.busy = false
}

// publish moves the active snapshot into the published slot, keeping the
// previous one as the last frame, then advances the clock and decays every
// edge state of the active snapshot.
func (s *Stage) publish() {
	now := s.now()

	s.last = s.published
	s.published = s.active

	t := &s.active.Time
	t.Frame++
	if elapsed := now.Sub(s.start).Seconds(); elapsed > t.SinceStart {
		t.SinceStart = elapsed
	}
	t.LastFrame = now
	s.active.Decay()
}

func (s *Stage) stats() {
	if s.conf.StatsEvery <= 0 {
		return
	}
	s.statsCount++
	if s.statsCount < s.conf.StatsEvery {
		return
	}

	now := s.now()
	fps := 0.0
	if d := now.Sub(s.statsFrom).Seconds(); d > 0 {
		fps = float64(s.statsCount) / d
	}
	draws := 0
	if p := s.sched.Resources().Pipeline; p != nil {
		draws = p.Drawn()
	}
	s.logger.Debug("frame stats",
		"frame", s.published.Time.Frame,
		"fps", fmt.Sprintf("%.1f", fps),
		"entities", s.sched.World().Len(),
		"draws", draws,
	)
	s.statsFrom = now
	s.statsCount = 0
}

// State returns the lifecycle state.
func (s *Stage) State() State { return s.state }

// Conf returns the configuration the stage was created with.
func (s *Stage) Conf() Conf { return s.conf }

// Scheduler returns the scheduler driven by the stage.
func (s *Stage) Scheduler() *engine.Scheduler { return s.sched }

// Published returns a copy of the snapshot systems currently see.
func (s *Stage) Published() input.Frame { return s.published }

// Active returns a copy of the snapshot receiving input.
func (s *Stage) Active() input.Frame { return s.active }

// LastFrame returns a copy of the snapshot published before the current one.
func (s *Stage) LastFrame() input.Frame { return s.last }

// Factory returns the constructor a backend calls once it has a graphics
// context: it creates a scheduler, lets build populate it, then creates and
// starts the stage.
func Factory(conf Conf, build func(gfx.Context, *engine.Scheduler) error, opts ...Option) func(gfx.Context) (*Stage, error) {
	return func(g gfx.Context) (*Stage, error) {
		sched := engine.NewScheduler()
		if g != nil && build != nil {
			if err := build(g, sched); err != nil {
				return nil, fmt.Errorf("stage: cannot build scheduler: %w", err)
			}
		}
		s := New(conf, sched, g, opts...)
		if err := s.Start(); err != nil {
			return nil, err
		}
		return s, nil
	}
}
