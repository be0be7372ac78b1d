// Package flappy implements a Flappy Bird-style app on the stage.
// The player controls a bird that must navigate through gaps in vertical
// pipes. The bird and every pipe half are quad entities; a single update
// system runs the game from the published input snapshot.
package flappy

import (
	"time"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/ecs"
	"github.com/vovakirdan/tui-stage/internal/engine"
	"github.com/vovakirdan/tui-stage/internal/gfx"
	"github.com/vovakirdan/tui-stage/internal/input"
	"github.com/vovakirdan/tui-stage/internal/registry"
	"github.com/vovakirdan/tui-stage/internal/render"
)

// ID is the registry and score table identifier.
const ID = "flappy"

// maxStep caps the simulated time of a single frame.
const maxStep = 0.1

// noEntity is never alive, so destroying it does nothing.
var noEntity = ecs.NewEntityID(^uint32(0), ^uint32(0))

var (
	birdColor = render.Yellow
	deadColor = render.Red
	pipeColor = render.Green
)

func init() {
	registry.Register(ID, func() registry.App { return New() })
}

// Game implements the Flappy Bird app.
type Game struct {
	seed int64
	cfg  config.FlappyConfig
	env  registry.Env
	g    gfx.Context
	step float64 // fallback frame time, 1/tick_rate

	bird      ecs.EntityID
	playerY   float64 // bird center
	playerVel float64 // positive is up
	pipes     *PipeManager
	score     int
	best      int
	gameOver  bool
	paused    bool
	frames    uint64 // simulated frames since the last reset
	lastTime  float64
}

// New creates a game seeded from the clock.
func New() *Game {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed creates a game whose pipes follow seed.
func NewWithSeed(seed int64) *Game {
	return &Game{seed: seed}
}

// ID returns the unique identifier for this app.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name for this app.
func (g *Game) Title() string {
	return "Flappy Bird"
}

// Build creates the camera and the bird and registers the game and render
// systems.
func (g *Game) Build(gc gfx.Context, s *engine.Scheduler, env registry.Env) error {
	g.g = gc
	g.env = env
	g.cfg = env.Config.Flappy
	g.step = 1.0 / 60
	if tr := env.Config.Frame.TickRate; tr > 0 {
		g.step = 1 / float64(tr)
	}
	g.pipes = NewPipeManager(g.seed, g.cfg, config.NewDifficulty(g.cfg.Difficulty))

	w := s.World()
	ecs.Add(w, w.Create(), render.Camera2D{Extent: 1})

	size := float32(g.cfg.Player.Size)
	mesh, err := render.NewQuad(gc, size, size)
	if err != nil {
		return err
	}
	g.bird = w.Create()
	ecs.Add(w, g.bird, mesh)
	ecs.Add(w, g.bird, render.Tint{Color: birdColor})
	ecs.Add(w, g.bird, render.Transform{})

	if env.Scores != nil {
		if best, err := env.Scores.HighScore(ID); err == nil {
			g.best = best
		} else if env.Logger != nil {
			env.Logger.Warn("cannot read high score", "app", ID, "err", err)
		}
	}

	g.reset(w)

	s.Register(engine.Func(engine.PhaseUpdate, g.update))
	s.Register(engine.RenderSystem{})
	return nil
}

// reset restarts the round: pipes are destroyed and the bird is centered.
func (g *Game) reset(w *ecs.World) {
	for _, p := range g.pipes.Pipes() {
		w.Destroy(p.Top)
		w.Destroy(p.Bottom)
	}
	g.pipes.Reset(g.seed)
	g.playerY = 0
	g.playerVel = 0
	g.score = 0
	g.gameOver = false
	g.paused = false
	g.frames = 0
	g.sync(w)
}

// update advances the game by one published frame.
func (g *Game) update(w *ecs.World, r *engine.Resources) {
	in := r.Input
	if in == nil {
		return
	}
	dt := in.Time.SinceStart - g.lastTime
	g.lastTime = in.Time.SinceStart
	if dt <= 0 || dt > maxStep {
		dt = g.step
	}

	if g.gameOver {
		if in.Key(input.KeyR).Pressed() {
			g.reset(w)
		}
		return
	}

	if in.Key(input.KeyP).Pressed() {
		g.paused = !g.paused
	}
	if g.paused {
		return
	}

	g.frames++

	if in.Key(input.KeySpace).Pressed() || in.Key(input.KeyUp).Pressed() || in.Mouse.Left.Pressed() {
		g.playerVel = g.cfg.Physics.JumpImpulse
	}

	g.playerVel += g.cfg.Physics.Gravity * dt
	if g.playerVel < -g.cfg.Physics.MaxFallSpeed {
		g.playerVel = -g.cfg.Physics.MaxFallSpeed
	}
	g.playerY += g.playerVel * dt

	half := float64(in.Window.Aspect())
	passed, removed, spawned := g.pipes.Update(dt, g.cfg.Player.X-g.cfg.Player.Size/2, -half, half, g.score, g.frames)
	g.score += passed
	for _, p := range removed {
		w.Destroy(p.Top)
		w.Destroy(p.Bottom)
	}
	if spawned {
		g.spawn(w, g.pipes.Last())
	}

	size := g.cfg.Player.Size
	// The ceiling stops the bird, the ground ends the round.
	if g.playerY+size/2 > 1 {
		g.playerY = 1 - size/2
		g.playerVel = 0
	}
	if g.playerY-size/2 <= -1 {
		g.playerY = -1 + size/2
		g.end()
	}
	if g.pipes.CheckCollision(g.playerRect()) {
		g.end()
	}

	g.sync(w)
}

// end finishes the round and saves the score.
func (g *Game) end() {
	if g.gameOver {
		return
	}
	g.gameOver = true
	if g.score > g.best {
		g.best = g.score
	}

	logger := g.env.Logger
	if logger != nil {
		logger.Info("game over", "app", ID, "score", g.score, "best", g.best, "frames", g.frames)
	}
	if g.env.Scores == nil {
		return
	}
	if _, err := g.env.Scores.SaveScore(ID, g.score, g.frames); err != nil && logger != nil {
		logger.Error("cannot save score", "app", ID, "err", err)
	}
}

// spawn creates the two quad entities of p.
func (g *Game) spawn(w *ecs.World, p *Pipe) {
	width := g.cfg.Obstacles.PipeWidth
	for _, half := range []struct {
		id   *ecs.EntityID
		rect box
	}{
		{&p.Top, p.TopRect(width)},
		{&p.Bottom, p.BottomRect(width)},
	} {
		mesh, err := render.NewQuad(g.g, 1, 1)
		if err != nil {
			if g.env.Logger != nil {
				g.env.Logger.Error("cannot create pipe", "err", err)
			}
			*half.id = noEntity
			continue
		}
		id := w.Create()
		ecs.Add(w, id, mesh)
		ecs.Add(w, id, render.Tint{Color: pipeColor})
		ecs.Add(w, id, pipeTransform(half.rect))
		*half.id = id
	}
}

func pipeTransform(b box) render.Transform {
	cx, cy := b.center()
	sw, sh := b.size()
	if sh <= 0 {
		// Hidden: a zero scale would mean 1.
		sh = 1e-6
	}
	return render.Transform{
		Position: input.Vec2{X: float32(cx), Y: float32(cy)},
		Scale:    input.Vec2{X: float32(sw), Y: float32(sh)},
	}
}

// sync copies game state into the entity components.
func (g *Game) sync(w *ecs.World) {
	if t, ok := ecs.Components[render.Transform](w).Get(g.bird); ok {
		t.Position = input.Vec2{X: float32(g.cfg.Player.X), Y: float32(g.playerY)}
	}
	if t, ok := ecs.Components[render.Tint](w).Get(g.bird); ok {
		t.Color = birdColor
		if g.gameOver {
			t.Color = deadColor
		}
	}

	width := g.cfg.Obstacles.PipeWidth
	transforms := ecs.Components[render.Transform](w)
	for _, p := range g.pipes.Pipes() {
		if t, ok := transforms.Get(p.Top); ok {
			*t = pipeTransform(p.TopRect(width))
		}
		if t, ok := transforms.Get(p.Bottom); ok {
			*t = pipeTransform(p.BottomRect(width))
		}
	}
}

// playerRect returns the bird's collision rectangle.
func (g *Game) playerRect() box {
	size := g.cfg.Player.Size
	return boxAt(g.cfg.Player.X, g.playerY, size, size)
}

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// GameOver reports whether the round has ended.
func (g *Game) GameOver() bool { return g.gameOver }
