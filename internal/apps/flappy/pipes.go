package flappy

import (
	"math/rand"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/ecs"
)

// box is an axis-aligned rectangle in world units.
type box struct {
	minX, minY, maxX, maxY float64
}

func boxAt(cx, cy, w, h float64) box {
	return box{minX: cx - w/2, minY: cy - h/2, maxX: cx + w/2, maxY: cy + h/2}
}

func (b box) intersects(o box) bool {
	return b.minX < o.maxX && o.minX < b.maxX && b.minY < o.maxY && o.minY < b.maxY
}

func (b box) center() (float64, float64) {
	return (b.minX + b.maxX) / 2, (b.minY + b.maxY) / 2
}

func (b box) size() (float64, float64) {
	return b.maxX - b.minX, b.maxY - b.minY
}

// Pipe represents a vertical obstacle with a gap for the bird to pass
// through. X is the pipe's center, GapY the center of the gap.
type Pipe struct {
	X         float64
	GapY      float64
	GapHeight float64
	Passed    bool // the bird is past it and it was scored

	Top, Bottom ecs.EntityID
}

// TopRect returns the rectangle of the upper half, from the gap to the top
// of the view.
func (p Pipe) TopRect(width float64) box {
	return box{minX: p.X - width/2, minY: p.GapY + p.GapHeight/2, maxX: p.X + width/2, maxY: 1}
}

// BottomRect returns the rectangle of the lower half, from the bottom of the
// view to the gap.
func (p Pipe) BottomRect(width float64) box {
	return box{minX: p.X - width/2, minY: -1, maxX: p.X + width/2, maxY: p.GapY - p.GapHeight/2}
}

// PipeManager handles spawning, movement and removal of pipes.
type PipeManager struct {
	pipes      []Pipe
	rng        *rand.Rand
	cfg        config.FlappyConfig
	difficulty *config.Difficulty
}

// NewPipeManager creates a pipe manager with the given RNG seed.
func NewPipeManager(seed int64, cfg config.FlappyConfig, diff *config.Difficulty) *PipeManager {
	pm := &PipeManager{
		pipes:      make([]Pipe, 0, 8),
		cfg:        cfg,
		difficulty: diff,
	}
	pm.Reset(seed)
	return pm
}

// Reset clears all pipes and reseeds the RNG.
func (pm *PipeManager) Reset(seed int64) {
	pm.pipes = pm.pipes[:0]
	pm.rng = rand.New(rand.NewSource(seed))
}

// Update moves pipes left by dt seconds of travel, scores pipes the bird at
// playerX has passed, drops pipes left of left and spawns a new one at right
// once the last is far enough in. It returns the number of pipes passed, the
// pipes removed and whether a pipe was spawned (it is then the last one).
func (pm *PipeManager) Update(dt, playerX, left, right float64, score int, frames uint64) (passed int, removed []Pipe, spawned bool) {
	speed := pm.difficulty.Speed(pm.cfg.Physics.BaseSpeed, score, frames)
	width := pm.cfg.Obstacles.PipeWidth

	for i := range pm.pipes {
		pm.pipes[i].X -= speed * dt
	}

	for i := range pm.pipes {
		if !pm.pipes[i].Passed && pm.pipes[i].X+width/2 < playerX {
			pm.pipes[i].Passed = true
			passed++
		}
	}

	valid := pm.pipes[:0]
	for _, p := range pm.pipes {
		if p.X+width/2 > left {
			valid = append(valid, p)
		} else {
			removed = append(removed, p)
		}
	}
	pm.pipes = valid

	spacing := pm.difficulty.Spacing(pm.cfg.Obstacles.PipeSpacing, width*2, score, frames)
	if len(pm.pipes) == 0 || pm.pipes[len(pm.pipes)-1].X < right+width/2-spacing {
		pm.spawnPipe(right+width/2, score, frames)
		spawned = true
	}
	return passed, removed, spawned
}

// spawnPipe appends a pipe centered at x with a gap shaped by difficulty.
func (pm *PipeManager) spawnPipe(x float64, score int, frames uint64) {
	obs := pm.cfg.Obstacles
	minGap := obs.MinGapSize
	current := pm.difficulty.Gap(obs.MaxGapSize, minGap, score, frames)

	// Random gap height between minGap and the current maximum.
	gap := minGap
	if r := current - minGap; r > 0 {
		gap = minGap + pm.rng.Float64()*r
	}

	lo := -1 + obs.Margin + gap/2
	hi := 1 - obs.Margin - gap/2
	if hi < lo {
		hi = lo
	}
	gapY := lo + pm.rng.Float64()*(hi-lo)

	pm.pipes = append(pm.pipes, Pipe{X: x, GapY: gapY, GapHeight: gap, Top: noEntity, Bottom: noEntity})
}

// Pipes returns the current pipes, oldest first.
func (pm *PipeManager) Pipes() []Pipe {
	return pm.pipes
}

// Last returns the most recently spawned pipe.
func (pm *PipeManager) Last() *Pipe {
	if len(pm.pipes) == 0 {
		return nil
	}
	return &pm.pipes[len(pm.pipes)-1]
}

// CheckCollision tests whether r overlaps any pipe.
func (pm *PipeManager) CheckCollision(r box) bool {
	width := pm.cfg.Obstacles.PipeWidth
	for _, p := range pm.pipes {
		if r.intersects(p.TopRect(width)) || r.intersects(p.BottomRect(width)) {
			return true
		}
	}
	return false
}
