// Package engine runs systems over an ecs.World in two phases per frame.
// Update systems read the published input snapshot and may create or destroy
// entities; draw systems read entity and window state and issue draws.
package engine

import (
	"sort"

	"github.com/vovakirdan/tui-stage/internal/ecs"
	"github.com/vovakirdan/tui-stage/internal/gfx"
	"github.com/vovakirdan/tui-stage/internal/input"
	"github.com/vovakirdan/tui-stage/internal/render"
)

// Phase selects when a system runs.
type Phase int

const (
	PhaseUpdate Phase = iota // game logic, once per published snapshot
	PhaseDraw                // rendering, inside the default pass
)

func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "update"
	case PhaseDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Resources are the shared values systems read. The stage fills them in at
// start; systems must not replace them.
type Resources struct {
	Graphics gfx.Context
	Input    *input.Frame     // published snapshot for the current frame
	Pipeline *render.Pipeline // quad renderer
}

// System is the interface every system implements.
type System interface {
	Phase() Phase
	Run(w *ecs.World, r *Resources)
}

type funcSystem struct {
	phase Phase
	fn    func(*ecs.World, *Resources)
}

func (s funcSystem) Phase() Phase                   { return s.phase }
func (s funcSystem) Run(w *ecs.World, r *Resources) { s.fn(w, r) }

// Func wraps fn as a system running in phase.
func Func(phase Phase, fn func(*ecs.World, *Resources)) System {
	return funcSystem{phase: phase, fn: fn}
}

// Scheduler owns the world, the resources and the registered systems.
type Scheduler struct {
	world     *ecs.World
	resources Resources
	systems   []System
	sorted    bool
}

// NewScheduler returns a scheduler with an empty world and no systems.
func NewScheduler() *Scheduler {
	return &Scheduler{
		world:   ecs.NewWorld(),
		systems: make([]System, 0, 8),
	}
}

// Register adds s. Systems of the same phase run in registration order.
func (s *Scheduler) Register(sys System) {
	s.systems = append(s.systems, sys)
	s.sorted = false
}

// World returns the entity world.
func (s *Scheduler) World() *ecs.World {
	return s.world
}

// Resources returns the shared resources.
func (s *Scheduler) Resources() *Resources {
	return &s.resources
}

// Len returns the number of registered systems.
func (s *Scheduler) Len() int {
	return len(s.systems)
}

// Update runs the update phase, then destroys entities queued during it.
func (s *Scheduler) Update() {
	s.run(PhaseUpdate)
	s.world.FlushDestroyQueue()
}

// Draw runs the draw phase.
func (s *Scheduler) Draw() {
	s.run(PhaseDraw)
}

func (s *Scheduler) run(phase Phase) {
	s.ensureSorted()
	for _, sys := range s.systems {
		if sys.Phase() == phase {
			sys.Run(s.world, &s.resources)
		}
	}
}

func (s *Scheduler) ensureSorted() {
	if !s.sorted {
		sort.SliceStable(s.systems, func(i, j int) bool {
			return s.systems[i].Phase() < s.systems[j].Phase()
		})
		s.sorted = true
	}
}
