// Package menu provides the main menu scene.
package menu

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/younwookim/duet/internal/application/scene"
	"github.com/younwookim/duet/internal/application/system"
	"github.com/younwookim/duet/internal/domain/entity"
	"github.com/younwookim/duet/internal/infrastructure/config"
	"github.com/younwookim/duet/internal/infrastructure/logging"
)

// Option IDs
const (
	OptionPlay = "play"
	OptionHelp = "help"
)

// GameScene is the scene name requested by the play option
const GameScene = "game"

const pressedScale = 0.75

var (
	colorBG      = color.RGBA{18, 18, 28, 255}
	colorOption  = color.RGBA{60, 60, 170, 255}
	colorPressed = color.RGBA{40, 120, 230, 255}
)

const helpText = "Touch the left half to rotate counter-clockwise,\nthe right half to rotate clockwise.\nDodge the blocks."

// Menu is the main menu scene
type Menu struct {
	level    *config.LevelConfig
	nav      scene.Navigator
	source   system.EventSource
	logger   *zap.Logger
	menu     *entity.Menu
	labels   map[string]string
	canvasW  float64
	canvasH  float64
	adjusted bool
	showHelp bool
}

// New creates the main menu. source may be nil to read ebiten input.
func New(level *config.LevelConfig, nav scene.Navigator, source system.EventSource, logger *zap.Logger) *Menu {
	if source == nil {
		source = system.NewInputSystem()
	}

	labels := make(map[string]string, len(level.MainMenu.Options))
	for _, o := range level.MainMenu.Options {
		labels[o.ID] = o.Label
	}

	m := &Menu{
		level:   level,
		nav:     nav,
		source:  source,
		logger:  logging.OrNop(logger),
		menu:    entity.NewMenu(level.MenuOptions(level.MainMenu)...),
		labels:  labels,
		canvasW: float64(level.Canvas.Width),
		canvasH: float64(level.Canvas.Height),
	}
	m.menu.Layout(m.canvasW, m.canvasH)
	return m
}

// OnEnter implements scene.Scene
func (m *Menu) OnEnter() {
	m.logger.Info("menu enter")
	m.menu.ReleaseAll()
	m.showHelp = false
}

// OnExit implements scene.Scene
func (m *Menu) OnExit() {}

// Update routes touches to the options (implements scene.Scene)
func (m *Menu) Update(_ float64) (scene.Scene, error) {
	for _, e := range m.source.Poll(m.canvasH) {
		m.HandleEvent(e)
	}
	return nil, nil
}

// HandleEvent presses the option under a touch and activates it on release
func (m *Menu) HandleEvent(e system.TouchEvent) {
	pt := e.Point()

	switch e.Kind {
	case system.TouchStarted, system.TouchMoved:
		m.menu.Press(pt)
	case system.TouchEnded:
		m.menu.ReleaseAll()
		if m.showHelp {
			m.showHelp = false
			return
		}
		switch m.menu.IDAt(pt) {
		case OptionPlay:
			m.logger.Info("play selected")
			m.nav.RunScene(GameScene)
		case OptionHelp:
			m.showHelp = true
		}
	}
}

// Layout adjusts the canvas width to the surface aspect ratio once and lays out the options
func (m *Menu) Layout(outsideWidth, outsideHeight int) (int, int) {
	if m.level.Canvas.AdjustAspect && !m.adjusted && outsideHeight > 0 {
		m.canvasW = float64(uint(m.canvasH * float64(outsideWidth) / float64(outsideHeight)))
		m.adjusted = true
		m.menu.Layout(m.canvasW, m.canvasH)
	}
	return int(m.canvasW), int(m.canvasH)
}

// Draw renders the options (implements scene.Scene)
func (m *Menu) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	if m.showHelp {
		ebitenutil.DebugPrintAt(screen, helpText, int(m.canvasW/2)-150, int(m.canvasH/2)-30)
		return
	}

	for _, o := range m.menu.Options {
		c := colorOption
		scale := 1.0
		if o.Pressed {
			c = colorPressed
			scale = pressedScale
		}
		w, h := o.Size.W*scale, o.Size.H*scale
		x, y := o.Position.X-w/2, m.canvasH-o.Position.Y
		ebitenutil.DrawRect(screen, x, y, w, h, c)

		label := m.labels[o.ID]
		ebitenutil.DebugPrintAt(screen, label, int(o.Position.X)-len(label)*3, int(y+h/2)-8)
	}
}

// Options returns the menu options
func (m *Menu) Options() []entity.MenuOption {
	return m.menu.Options
}

// HelpVisible reports whether the help text is shown
func (m *Menu) HelpVisible() bool {
	return m.showHelp
}
