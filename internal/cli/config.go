package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodecanvas/pkg/command"
	"github.com/matzehuels/nodecanvas/pkg/engine"
	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
	"github.com/matzehuels/nodecanvas/pkg/layout/tree"
	"github.com/matzehuels/nodecanvas/pkg/pipeline"
)

// configFile is the on-disk config layout. Zero values fall back to the
// library defaults.
//
//	history_capacity = 200
//
//	[node]
//	width = 160
//	default_mode = "diagram"
//
//	[tree]
//	horizontal_spacing = 64
//
//	[area]
//	shape = "hull"
//	default_direction = "down"
type configFile struct {
	HistoryCapacity int          `toml:"history_capacity"`
	Node            nodeConfig   `toml:"node"`
	Tree            tree.Options `toml:"tree"`
	Area            areaConfig   `toml:"area"`
}

type nodeConfig struct {
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	Gap         float64 `toml:"gap"`
	MoveStep    float64 `toml:"move_step"`
	NudgeStep   float64 `toml:"nudge_step"`
	DefaultMode string  `toml:"default_mode"`
}

type areaConfig struct {
	MinimumSpacing   float64 `toml:"minimum_spacing"`
	MaxIterations    int     `toml:"max_iterations"`
	Shape            string  `toml:"shape"`
	DefaultDirection string  `toml:"default_direction"`
}

// loadConfig reads the config file at path. An empty path means the default
// location, where a missing file is not an error.
func loadConfig(path string) (configFile, error) {
	var cfg configFile
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return configFile{}, nil
		}
		return configFile{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return configFile{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// engineConfig converts the file settings into an engine configuration.
func (f configFile) engineConfig(logger *log.Logger) (engine.Config, error) {
	env := command.Env{
		NodeWidth:  f.Node.Width,
		NodeHeight: f.Node.Height,
		Gap:        f.Node.Gap,
		MoveStep:   f.Node.MoveStep,
		NudgeStep:  f.Node.NudgeStep,
	}
	if f.Node.DefaultMode != "" {
		mode := graph.Mode(f.Node.DefaultMode)
		if !mode.Valid() {
			return engine.Config{}, fmt.Errorf("invalid node.default_mode: %q (must be tree or diagram)", f.Node.DefaultMode)
		}
		env.DefaultMode = mode
	}

	opts := pipeline.Options{Tree: f.Tree, Logger: logger}
	opts.Area.MinimumSpacing = f.Area.MinimumSpacing
	opts.Area.MaxIterations = f.Area.MaxIterations

	shape, err := pipeline.ParseShape(f.Area.Shape)
	if err != nil {
		return engine.Config{}, err
	}
	opts.Area.Shape = shape

	if f.Area.DefaultDirection != "" {
		dir, ok := geom.ParseDirection(f.Area.DefaultDirection)
		if !ok {
			return engine.Config{}, fmt.Errorf("invalid area.default_direction: %q", f.Area.DefaultDirection)
		}
		opts.Area.DefaultDirection = dir
	}

	cfg := engine.Config{
		HistoryCapacity: f.HistoryCapacity,
		Env:             env,
		Pipeline:        opts,
		Logger:          logger,
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// engineConfig loads the config file and builds an engine configuration.
func (c *CLI) engineConfig() (engine.Config, error) {
	f, err := loadConfig(c.configPath)
	if err != nil {
		return engine.Config{}, err
	}
	return f.engineConfig(c.Logger)
}
