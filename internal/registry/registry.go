// Package registry provides a global registry of stage apps.
// Apps register themselves in init() functions, allowing the CLI and the
// backends to discover and build them without hardcoded dependencies.
package registry

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/engine"
	"github.com/vovakirdan/tui-stage/internal/gfx"
)

// ScoreSink persists scores. Implemented by *storage.Store.
type ScoreSink interface {
	SaveScore(appID string, score int, frames uint64) (int64, error)
	HighScore(appID string) (int, error)
}

// Env is what an app gets besides the scheduler when it is built.
type Env struct {
	Config config.Config
	Scores ScoreSink // may be nil
	Logger *log.Logger
}

// App is a program that runs on the stage. It contains no backend code:
// Build creates its entities and registers its systems, which then read the
// published input snapshot and draw through the shared render pipeline.
type App interface {
	// ID returns a unique identifier (e.g., "flappy").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Build populates s. Called once per stage, before the stage starts.
	Build(g gfx.Context, s *engine.Scheduler, env Env) error
}

// AppInfo contains metadata about a registered app.
type AppInfo struct {
	ID    string
	Title string
}

// Factory creates a new instance of an app.
type Factory func() App

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds an app factory to the registry.
// Panics if an app with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: app %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered apps, sorted by ID.
func List() []AppInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]AppInfo, 0, len(factories))
	for id := range factories {
		result = append(result, AppInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a new app by its ID.
func Create(id string) (App, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown app %q", id)
	}
	return f(), nil
}

// Exists checks if an app with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Builder adapts app to the build hook of stage.Factory.
func Builder(app App, env Env) func(gfx.Context, *engine.Scheduler) error {
	if env.Logger == nil {
		env.Logger = log.New(io.Discard)
	}
	return func(g gfx.Context, s *engine.Scheduler) error {
		if err := app.Build(g, s, env); err != nil {
			return fmt.Errorf("registry: cannot build %s: %w", app.ID(), err)
		}
		return nil
	}
}
