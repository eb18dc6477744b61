// Package assets loads textures from an fs.FS.
//
// ImageProvider decodes into GPU images for rendering; HeadlessProvider only
// reads PNG headers so that scenes can be exercised without a graphics context.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/duet/internal/domain/entity"
)

// ErrNotFound is returned when a texture file does not exist
var ErrNotFound = errors.New("texture not found")

// Texture is anything with pixel bounds. *ebiten.Image satisfies it.
type Texture interface {
	Bounds() image.Rectangle
}

// Provider loads a single texture. id names the texture for the caller;
// path locates it inside the provider's filesystem.
type Provider interface {
	Load(id, path string) (Texture, error)
}

// ImageProvider decodes textures into ebiten images
type ImageProvider struct {
	fsys fs.FS
}

// NewImageProvider creates a provider reading from fsys
func NewImageProvider(fsys fs.FS) *ImageProvider {
	return &ImageProvider{fsys: fsys}
}

// Load decodes the image at path
func (p *ImageProvider) Load(_, path string) (Texture, error) {
	data, err := readFile(p.fsys, path)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", path, err)
	}

	return ebiten.NewImageFromImage(img), nil
}

// HeadlessProvider reads only image headers and returns bare rectangles
type HeadlessProvider struct {
	fsys fs.FS
}

// NewHeadlessProvider creates a provider reading from fsys
func NewHeadlessProvider(fsys fs.FS) *HeadlessProvider {
	return &HeadlessProvider{fsys: fsys}
}

// Load returns a texture with the dimensions stored in the image header
func (p *HeadlessProvider) Load(_, path string) (Texture, error) {
	data, err := readFile(p.fsys, path)
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", path, err)
	}

	return Rect{W: cfg.Width, H: cfg.Height}, nil
}

// Rect is a texture with dimensions and no pixels
type Rect struct {
	W, H int
}

// Bounds implements Texture
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.W, r.H)
}

// SizeOf returns the dimensions of t in canvas units
func SizeOf(t Texture) entity.Size {
	b := t.Bounds()
	return entity.Size{W: float64(b.Dx()), H: float64(b.Dy())}
}

func readFile(fsys fs.FS, path string) ([]byte, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read texture %s: %w", path, err)
	}
	return data, nil
}
