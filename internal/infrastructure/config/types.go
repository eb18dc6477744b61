package config

// GameConfig is the root config for game.yaml
type GameConfig struct {
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
	Start   string        `yaml:"start"` // name of the first scene
	Level   string        `yaml:"level"` // level loaded by the game scene
}

// DisplayConfig configures the window
type DisplayConfig struct {
	WindowWidth  int    `yaml:"windowWidth"`
	WindowHeight int    `yaml:"windowHeight"`
	Framerate    int    `yaml:"framerate"`
	Title        string `yaml:"title"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultGameConfig returns the settings used when game.yaml leaves fields empty
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Display: DisplayConfig{
			WindowWidth:  540,
			WindowHeight: 960,
			Framerate:    60,
			Title:        "Duet",
		},
		Log: LogConfig{
			Level: "info",
		},
		Start: "menu",
		Level: "classic",
	}
}

func (c *GameConfig) applyDefaults() {
	d := DefaultGameConfig()
	if c.Display.WindowWidth == 0 {
		c.Display.WindowWidth = d.Display.WindowWidth
	}
	if c.Display.WindowHeight == 0 {
		c.Display.WindowHeight = d.Display.WindowHeight
	}
	if c.Display.Framerate == 0 {
		c.Display.Framerate = d.Display.Framerate
	}
	if c.Display.Title == "" {
		c.Display.Title = d.Display.Title
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Start == "" {
		c.Start = d.Start
	}
	if c.Level == "" {
		c.Level = d.Level
	}
}
