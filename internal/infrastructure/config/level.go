package config

import (
	"errors"
	"fmt"

	"github.com/younwookim/duet/internal/domain/entity"
)

// ErrInvalidLevel wraps every level validation failure
var ErrInvalidLevel = errors.New("invalid level")

// Spawn modes for obstacles
const (
	SpawnFixed  = "fixed"
	SpawnRandom = "random"
)

// Recycle policies for obstacles leaving the canvas
const (
	RecycleKeep    = "keep"    // never released, obstacles fly on forever
	RecycleRelease = "release" // released once off-screen, the stream ends when the pool runs dry
	RecycleRespawn = "recycle" // released and immediately respawned
)

// LevelConfig is the root config for levels/<name>.yaml.
// It carries every constant and skin reference the game scene needs.
type LevelConfig struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Canvas      CanvasConfig      `yaml:"canvas"`
	Loading     LoadingConfig     `yaml:"loading"`
	Textures    []TextureConfig   `yaml:"textures"`
	Atlas       AtlasConfig       `yaml:"atlas"`
	Player      PlayerConfig      `yaml:"player"`
	Obstacles   ObstaclesConfig   `yaml:"obstacles"`
	PauseButton PauseButtonConfig `yaml:"pauseButton"`
	PauseMenu   MenuConfig        `yaml:"pauseMenu"`
	MainMenu    MenuConfig        `yaml:"mainMenu"`
}

// CanvasConfig is the virtual resolution gameplay is authored in
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// AdjustAspect rescales the width once to the real surface aspect ratio
	AdjustAspect bool `yaml:"adjustAspect"`
}

// LoadingConfig tunes the loading state
type LoadingConfig struct {
	SettleDelay float64 `yaml:"settleDelay"` // seconds after the last texture before running
}

// TextureConfig maps a texture ID to its path in the asset tree
type TextureConfig struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

// AtlasConfig names the texture holding menu slices and the slice rectangles inside it
type AtlasConfig struct {
	Texture string        `yaml:"texture"`
	Slices  []SliceConfig `yaml:"slices"`
}

// SliceConfig is a named rectangle inside the atlas texture
type SliceConfig struct {
	Name   string `yaml:"name"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// FractionConfig is a point given as fractions of the canvas size
type FractionConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PlayerConfig describes the rotating markers and their pivot
type PlayerConfig struct {
	RotationSpeed float64        `yaml:"rotationSpeed"`
	Pivot         FractionConfig `yaml:"pivot"`
	Markers       []MarkerConfig `yaml:"markers"`
}

// MarkerConfig is one marker: its texture and home position
type MarkerConfig struct {
	Texture  string         `yaml:"texture"`
	Position FractionConfig `yaml:"position"`
}

// ObstaclesConfig configures the obstacle pool, spawning and recycling
type ObstaclesConfig struct {
	Pool        []ObstacleKindConfig `yaml:"pool"`  // one entry per pooled obstacle
	Count       int                  `yaml:"count"` // requested when loading completes
	Speed       float64              `yaml:"speed"` // reasserted every frame
	SpawnOffset float64              `yaml:"spawnOffset"`
	Spawn       string               `yaml:"spawn"`
	Recycle     string               `yaml:"recycle"`
	Lethal      bool                 `yaml:"lethal"` // collisions end the run
}

// ObstacleKindConfig is one pooled obstacle: its texture and anchor
type ObstacleKindConfig struct {
	Texture string `yaml:"texture"`
	Anchor  string `yaml:"anchor"`
}

// PauseButtonConfig places the pause button relative to the top-right corner
type PauseButtonConfig struct {
	Texture string  `yaml:"texture"`
	OffsetX float64 `yaml:"offsetX"`
	OffsetY float64 `yaml:"offsetY"`
}

// MenuConfig lists the options of a menu from top to bottom
type MenuConfig struct {
	Options []MenuOptionConfig `yaml:"options"`
}

// MenuOptionConfig is one menu entry. Slice refers to an atlas slice;
// Width/Height size options drawn without artwork.
type MenuOptionConfig struct {
	ID     string `yaml:"id"`
	Label  string `yaml:"label"`
	Slice  string `yaml:"slice"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

func (c *LevelConfig) applyDefaults() {
	if c.Canvas.Width == 0 {
		c.Canvas.Width = 1920
	}
	if c.Canvas.Height == 0 {
		c.Canvas.Height = 1080
	}
	if c.Loading.SettleDelay == 0 {
		c.Loading.SettleDelay = 1.0
	}
	if c.Obstacles.Spawn == "" {
		c.Obstacles.Spawn = SpawnRandom
	}
	if c.Obstacles.Recycle == "" {
		c.Obstacles.Recycle = RecycleRespawn
	}
}

// Validate checks references between sections
func (c *LevelConfig) Validate() error {
	textures := make(map[string]bool, len(c.Textures))
	for _, t := range c.Textures {
		if t.ID == "" || t.Path == "" {
			return fmt.Errorf("%w: texture entries need id and path", ErrInvalidLevel)
		}
		if textures[t.ID] {
			return fmt.Errorf("%w: duplicate texture %s", ErrInvalidLevel, t.ID)
		}
		textures[t.ID] = true
	}

	need := func(section, id string) error {
		if !textures[id] {
			return fmt.Errorf("%w: %s references unknown texture %q", ErrInvalidLevel, section, id)
		}
		return nil
	}

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas must be positive", ErrInvalidLevel)
	}
	if len(c.Player.Markers) == 0 {
		return fmt.Errorf("%w: player needs at least one marker", ErrInvalidLevel)
	}
	for _, m := range c.Player.Markers {
		if err := need("player marker", m.Texture); err != nil {
			return err
		}
	}
	for _, k := range c.Obstacles.Pool {
		if err := need("obstacle", k.Texture); err != nil {
			return err
		}
		if _, err := entity.ParseAnchor(k.Anchor); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
		}
	}
	if c.Obstacles.Count < 0 {
		return fmt.Errorf("%w: obstacle count must not be negative", ErrInvalidLevel)
	}
	switch c.Obstacles.Spawn {
	case SpawnFixed, SpawnRandom:
	default:
		return fmt.Errorf("%w: unknown spawn mode %q", ErrInvalidLevel, c.Obstacles.Spawn)
	}
	switch c.Obstacles.Recycle {
	case RecycleKeep, RecycleRelease, RecycleRespawn:
	default:
		return fmt.Errorf("%w: unknown recycle policy %q", ErrInvalidLevel, c.Obstacles.Recycle)
	}
	if err := need("pause button", c.PauseButton.Texture); err != nil {
		return err
	}

	slices := make(map[string]bool, len(c.Atlas.Slices))
	for _, s := range c.Atlas.Slices {
		slices[s.Name] = true
	}
	if len(c.PauseMenu.Options) > 0 {
		if err := need("atlas", c.Atlas.Texture); err != nil {
			return err
		}
	}
	for _, o := range c.PauseMenu.Options {
		if !slices[o.Slice] {
			return fmt.Errorf("%w: pause menu option %q references unknown slice %q", ErrInvalidLevel, o.ID, o.Slice)
		}
	}
	return nil
}

// Slice returns the atlas slice with the given name
func (c *LevelConfig) Slice(name string) (SliceConfig, bool) {
	for _, s := range c.Atlas.Slices {
		if s.Name == name {
			return s, true
		}
	}
	return SliceConfig{}, false
}

// MenuOptions builds menu entries in order, sizing each from its atlas slice
// when it has one and from Width/Height otherwise
func (c *LevelConfig) MenuOptions(m MenuConfig) []entity.MenuOption {
	options := make([]entity.MenuOption, 0, len(m.Options))
	for _, o := range m.Options {
		size := entity.Size{W: float64(o.Width), H: float64(o.Height)}
		if s, ok := c.Slice(o.Slice); ok {
			size = entity.Size{W: float64(s.Width), H: float64(s.Height)}
		}
		options = append(options, entity.MenuOption{ID: o.ID, Slice: o.Slice, Size: size})
	}
	return options
}
