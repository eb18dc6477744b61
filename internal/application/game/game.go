// Package game provides the main game loop manager that handles Scene transitions.
package game

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/younwookim/duet/internal/application/scene"
)

// ErrNoScene is returned by Update when no scene has been started
var ErrNoScene = errors.New("no current scene")

// Factory builds a fresh instance of a registered scene
type Factory func() (scene.Scene, error)

// Game implements ebiten.Game and manages Scene transitions.
// It is also the scene.Navigator handed to scenes.
type Game struct {
	current scene.Scene
	scenes  map[string]Factory
	pending string
	screenW int
	screenH int
	dt      float64

	focused   func() bool
	suspended bool

	logger *zap.Logger
}

// New creates a new Game with the given initial scene.
// The initial scene's OnEnter is called immediately. initialScene may be
// nil when the first scene is started by name with Start.
func New(initialScene scene.Scene, screenW, screenH int) *Game {
	g := &Game{
		current: initialScene,
		scenes:  make(map[string]Factory),
		screenW: screenW,
		screenH: screenH,
		dt:      1.0 / 60.0, // Default to 60 FPS
		focused: ebiten.IsFocused,
		logger:  zap.NewNop(),
	}
	if g.current != nil {
		g.current.OnEnter()
	}
	return g
}

// SetLogger sets the logger used for scene transitions
func (g *Game) SetLogger(logger *zap.Logger) {
	g.logger = logger
}

// SetFocusFunc overrides how window focus is detected
func (g *Game) SetFocusFunc(fn func() bool) {
	g.focused = fn
}

// Register adds a named scene factory
func (g *Game) Register(name string, f Factory) {
	g.scenes[name] = f
}

// Start switches to a registered scene immediately
func (g *Game) Start(name string) error {
	return g.switchTo(name)
}

// RunScene implements scene.Navigator. The switch happens on the next Update.
func (g *Game) RunScene(name string) {
	g.pending = name
}

// Update updates the current scene and handles scene transitions.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	if g.pending != "" {
		name := g.pending
		g.pending = ""
		if err := g.switchTo(name); err != nil {
			return err
		}
	}
	if g.current == nil {
		return ErrNoScene
	}

	g.syncFocus()

	next, err := g.current.Update(g.dt)
	if err != nil {
		return err
	}

	// Handle scene transition
	if next != nil {
		g.enter(next)
	}

	return nil
}

// Draw renders the current scene.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.current == nil {
		return
	}
	g.current.Draw(screen)
}

// Layout returns the game's logical screen dimensions.
// Scenes implementing scene.Layouter choose their own.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if l, ok := g.current.(scene.Layouter); ok {
		return l.Layout(outsideWidth, outsideHeight)
	}
	return g.screenW, g.screenH
}

// SetDT sets the delta time used for updates.
// Useful for testing or custom frame rates.
func (g *Game) SetDT(dt float64) {
	g.dt = dt
}

// Current returns the active scene
func (g *Game) Current() scene.Scene {
	return g.current
}

func (g *Game) switchTo(name string) error {
	f, ok := g.scenes[name]
	if !ok {
		return fmt.Errorf("failed to run scene %q: not registered", name)
	}
	next, err := f()
	if err != nil {
		return fmt.Errorf("failed to create scene %q: %w", name, err)
	}
	g.logger.Info("scene switch", zap.String("scene", name))
	g.enter(next)
	return nil
}

func (g *Game) enter(next scene.Scene) {
	if g.current != nil {
		g.current.OnExit()
	}
	g.current = next
	g.current.OnEnter()

	// a scene entered in the background starts suspended
	if g.suspended {
		if s, ok := g.current.(scene.Suspender); ok {
			s.Suspend()
		}
	}
}

// syncFocus suspends the scene when the window loses focus and resumes it on return
func (g *Game) syncFocus() {
	if g.focused == nil {
		return
	}
	focused := g.focused()
	if focused == !g.suspended {
		return
	}
	g.suspended = !focused

	s, ok := g.current.(scene.Suspender)
	if !ok {
		return
	}
	if g.suspended {
		g.logger.Debug("suspend")
		s.Suspend()
	} else {
		g.logger.Debug("resume")
		s.Resume()
	}
}
