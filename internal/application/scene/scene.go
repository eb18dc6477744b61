// Package scene defines the Scene interface for game screens.
//
// Each game screen (main menu, game) implements the Scene interface to
// handle its own update logic and rendering. Optional behaviour such as
// custom layout or suspend/resume is expressed through small extra
// interfaces the game loop checks for.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// Scene represents a game screen.
//
// The game loop delegates Update and Draw calls to the current scene.
// Scene transitions are handled by returning a new Scene from Update, or
// by asking the Navigator for a registered scene by name.
type Scene interface {
	// Update updates the scene state.
	// dt is the delta time in seconds (typically 1/60).
	// Returns the next scene if a transition is needed, nil to stay on current scene.
	// Returns an error to terminate the game.
	Update(dt float64) (next Scene, err error)

	// Draw renders the scene to the screen.
	Draw(screen *ebiten.Image)

	// OnEnter is called when entering this scene.
	OnEnter()

	// OnExit is called when leaving this scene.
	OnExit()
}

// Layouter is implemented by scenes that choose their own logical screen size.
type Layouter interface {
	Layout(outsideWidth, outsideHeight int) (int, int)
}

// Suspender is implemented by scenes that stop updating while the app is in the background.
type Suspender interface {
	Suspend()
	Resume()
}

// Navigator switches to a registered scene by name.
// The switch happens at the start of the next frame.
type Navigator interface {
	RunScene(name string)
}
