package playing

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/younwookim/duet/internal/application/state"
	"github.com/younwookim/duet/internal/domain/entity"
	"github.com/younwookim/duet/internal/domain/pool"
)

// Colors for rendering
var (
	colorBG       = color.RGBA{18, 18, 28, 255}
	colorFallback = color.RGBA{200, 200, 200, 255}
	colorOverlay  = color.RGBA{0, 0, 0, 140}
	colorGameOver = color.RGBA{100, 0, 0, 180}
)

// pressedScale shrinks a pressed menu option
const pressedScale = 0.75

// Draw renders the scene (implements scene.Scene).
// Canvas y points up, so every position is flipped against the canvas height.
func (p *Playing) Draw(screen *ebiten.Image) {
	if p.suspended {
		return
	}

	screen.Fill(colorBG)

	switch p.state {
	case state.StateLoading:
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Loading %d/%d", p.loaded, len(p.level.Textures)))
		return
	case state.StateError:
		ebitenutil.DebugPrint(screen, fmt.Sprintf("ERROR\n%v", p.err))
		return
	}

	p.drawRect(screen, p.level.PauseButton.Texture, p.pauseButton)
	p.obstacles.Each(func(_ pool.Handle, o *entity.Obstacle) {
		p.drawRect(screen, o.Texture, o.Bounds())
	})
	for _, m := range p.actor.Markers {
		p.drawRect(screen, m.Texture, m.Bounds())
	}

	switch p.state {
	case state.StatePaused:
		ebitenutil.DrawRect(screen, 0, 0, p.canvasW, p.canvasH, colorOverlay)
		p.drawMenu(screen, p.pauseMenu)
	case state.StateGameOver:
		ebitenutil.DrawRect(screen, 0, 0, p.canvasW, p.canvasH, colorGameOver)
		ebitenutil.DebugPrintAt(screen, "GAME OVER\n\nTap to restart", int(p.canvasW/2)-40, int(p.canvasH/2)-20)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  TPS: %0.1f", p.state, ebiten.ActualTPS()))
}

// drawRect draws the texture id into the canvas rectangle r
func (p *Playing) drawRect(screen *ebiten.Image, id string, r entity.Rect) {
	x, y := r.X, p.canvasH-r.Top()

	img, ok := p.textures[id].(*ebiten.Image)
	if !ok {
		ebitenutil.DrawRect(screen, x, y, r.W, r.H, colorFallback)
		return
	}

	op := &ebiten.DrawImageOptions{}
	b := img.Bounds()
	op.GeoM.Scale(r.W/float64(b.Dx()), r.H/float64(b.Dy()))
	op.GeoM.Translate(x, y)
	screen.DrawImage(img, op)
}

// drawMenu draws each option's atlas slice hanging from its top-center anchor
func (p *Playing) drawMenu(screen *ebiten.Image, menu *entity.Menu) {
	atlas, _ := p.textures[p.level.Atlas.Texture].(*ebiten.Image)

	for _, o := range menu.Options {
		scale := 1.0
		if o.Pressed {
			scale = pressedScale
		}

		ax, ay := o.Position.X, p.canvasH-o.Position.Y

		slice, ok := p.level.Slice(o.Slice)
		if atlas == nil || !ok {
			w, h := o.Size.W*scale, o.Size.H*scale
			ebitenutil.DrawRect(screen, ax-w/2, ay, w, h, colorFallback)
			ebitenutil.DebugPrintAt(screen, o.ID, int(ax)-len(o.ID)*3, int(ay+h/2)-8)
			continue
		}

		sub := atlas.SubImage(image.Rect(slice.X, slice.Y, slice.X+slice.Width, slice.Y+slice.Height)).(*ebiten.Image)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-o.Size.W/2, 0)
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(ax, ay)
		screen.DrawImage(sub, op)
	}
}
