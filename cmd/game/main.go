package main

import (
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/younwookim/duet/internal/application/game"
	"github.com/younwookim/duet/internal/application/replay"
	"github.com/younwookim/duet/internal/application/scene"
	"github.com/younwookim/duet/internal/application/scene/menu"
	"github.com/younwookim/duet/internal/application/scene/playing"
	"github.com/younwookim/duet/internal/infrastructure/assets"
	"github.com/younwookim/duet/internal/infrastructure/config"
	"github.com/younwookim/duet/internal/infrastructure/logging"
)

//go:embed configs assets
var embedded embed.FS

type flags struct {
	level     string
	configDir string
	assetDir  string
	record    string
	replay    string
	headless  bool
	logLevel  string
	dev       bool
	seed      int64
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.level, "level", "", "Level to play (overrides game.yaml)")
	flag.StringVar(&f.configDir, "config", "", "Read configs from this directory instead of the embedded ones")
	flag.StringVar(&f.assetDir, "assets", "", "Read assets from this directory instead of the embedded ones")
	flag.StringVar(&f.record, "record", "", "Record input to file (e.g., -record replay.json)")
	flag.StringVar(&f.replay, "replay", "", "Play back a recorded replay file")
	flag.BoolVar(&f.headless, "headless", false, "With -replay, simulate without a window and print the result")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&f.dev, "dev", false, "Human readable development logging")
	flag.Int64Var(&f.seed, "seed", 0, "Random seed for obstacle placement (0 = time based)")
	flag.Parse()
	return f
}

// filesystems returns the config and asset trees, embedded unless overridden
func filesystems(f flags) (fs.FS, fs.FS, error) {
	configs, err := fs.Sub(embedded, "configs")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config subfs: %w", err)
	}
	assetFS, err := fs.Sub(embedded, "assets")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get asset subfs: %w", err)
	}

	if f.configDir != "" {
		configs = os.DirFS(f.configDir)
	}
	if f.assetDir != "" {
		assetFS = os.DirFS(f.assetDir)
	}
	return configs, assetFS, nil
}

func main() {
	f := parseFlags()
	if err := run(f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(f flags) error {
	configs, assetFS, err := filesystems(f)
	if err != nil {
		return err
	}

	loader := config.NewFSLoader(configs, "configs")
	cfg, err := loader.LoadGame()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := logging.Config{Level: cfg.Log.Level, Development: cfg.Log.Development || f.dev}
	if f.logLevel != "" {
		logCfg.Level = f.logLevel
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	var replayData *replay.ReplayData
	if f.replay != "" {
		replayData, err = replay.LoadReplay(f.replay)
		if err != nil {
			return err
		}
		// a replay only reproduces on the level and seed it was recorded with
		f.level = replayData.Level
		f.seed = replayData.Seed
	}

	levelName := cfg.Level
	if f.level != "" {
		levelName = f.level
	}
	level, err := loader.LoadLevel(levelName)
	if err != nil {
		return fmt.Errorf("failed to load level: %w", err)
	}

	if replayData != nil && f.headless {
		res, err := RunReplay(level, assets.NewHeadlessProvider(assetFS), *replayData, cfg.Display.Framerate, logger)
		if err != nil {
			return err
		}
		fmt.Println(res)
		return nil
	}

	g := game.New(nil, level.Canvas.Width, level.Canvas.Height)
	g.SetLogger(logger)
	g.SetDT(1.0 / float64(cfg.Display.Framerate))

	provider := assets.NewImageProvider(assetFS)
	opts := playing.Options{
		Seed:        f.seed,
		RecordPath:  f.record,
		ExitOnError: true,
		Logger:      logger,
	}

	start := cfg.Start
	if replayData != nil {
		opts.Source = replay.NewReplayer(*replayData)
		opts.Canvas = replayData.Canvas()
		opts.RecordPath = ""
		start = menu.GameScene
	}

	g.Register(playing.MenuScene, func() (scene.Scene, error) {
		return menu.New(level, g, nil, logger), nil
	})
	g.Register(menu.GameScene, func() (scene.Scene, error) {
		return playing.New(level, provider, g, opts), nil
	})

	if err := g.Start(start); err != nil {
		return err
	}

	logger.Info("starting",
		zap.String("level", level.ID),
		zap.String("scene", start),
		zap.Int("tps", cfg.Display.Framerate),
	)

	ebiten.SetWindowSize(cfg.Display.WindowWidth, cfg.Display.WindowHeight)
	ebiten.SetWindowTitle(cfg.Display.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Display.Framerate)

	return ebiten.RunGame(g)
}
