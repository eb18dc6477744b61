package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader loads game configuration from YAML files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// LoadGame loads game.yaml. A missing file yields the defaults.
func (l *Loader) LoadGame() (*GameConfig, error) {
	cfg := DefaultGameConfig()

	data, err := fs.ReadFile(l.fsys, "game.yaml")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read game.yaml: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game.yaml: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// LoadLevel loads and validates a level YAML file
func (l *Loader) LoadLevel(name string) (*LevelConfig, error) {
	path := "levels/" + name + ".yaml"
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level %s: %w", name, err)
	}

	var cfg LevelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse level %s: %w", name, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate level %s: %w", name, err)
	}

	return &cfg, nil
}

// LoadAll loads game.yaml and the level it names
func (l *Loader) LoadAll() (*GameConfig, *LevelConfig, error) {
	game, err := l.LoadGame()
	if err != nil {
		return nil, nil, err
	}

	level, err := l.LoadLevel(game.Level)
	if err != nil {
		return nil, nil, err
	}

	return game, level, nil
}
