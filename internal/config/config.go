package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravbox/internal/physics"
)

const (
	DefaultScene         = "binary"
	DefaultG             = physics.DefaultG
	DefaultBlackHolePull = physics.DefaultBlackHolePull
	DefaultMaxStep       = 0.05
	DefaultFPS           = 60
	DefaultTicks         = 1000
	DefaultWidth         = 800
	DefaultHeight        = 700
	DefaultSpawnX        = 100.0
	DefaultSpawnY        = 100.0
	DefaultDataDir       = ".gravbox"
	DefaultLogLevel      = "info"
)

type Config struct {
	Scene   string                 `yaml:"scene"`
	Ticks   int                    `yaml:"ticks"`
	DataDir string                 `yaml:"data_dir"`
	Physics PhysicsConfig          `yaml:"physics"`
	Render  RenderConfig           `yaml:"render"`
	Log     LogConfig              `yaml:"log"`
	Spawn   PointConfig            `yaml:"black_hole_spawn"`
	Scenes  map[string]SceneConfig `yaml:"scenes,omitempty"`
}

type PhysicsConfig struct {
	G             float64 `yaml:"g"`
	BlackHolePull float64 `yaml:"black_hole_pull"`
	ValidateState bool    `yaml:"validate_state"`
}

type RenderConfig struct {
	FPS     int     `yaml:"fps"`
	MaxStep float64 `yaml:"max_step"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Debug   bool    `yaml:"debug"`
	Stars   int     `yaml:"stars"`
	Theme   string  `yaml:"theme"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// SceneConfig declares a custom scene. Zero mass or radius means the
// kind's default.
type SceneConfig struct {
	Description string       `yaml:"description"`
	Bodies      []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	Kind   string  `yaml:"kind"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Mass   float64 `yaml:"mass,omitempty"`
	Radius float64 `yaml:"radius,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:   DefaultScene,
		Ticks:   DefaultTicks,
		DataDir: DefaultDataDir,
		Physics: PhysicsConfig{
			G:             DefaultG,
			BlackHolePull: DefaultBlackHolePull,
			ValidateState: true,
		},
		Render: RenderConfig{
			FPS:     DefaultFPS,
			MaxStep: DefaultMaxStep,
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Stars:   120,
			Theme:   "deep_space",
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: "console",
		},
		Spawn: PointConfig{X: DefaultSpawnX, Y: DefaultSpawnY},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Physics.G <= 0 {
		return fmt.Errorf("physics.g must be positive, got %f", c.Physics.G)
	}
	if c.Physics.BlackHolePull <= 0 {
		return fmt.Errorf("physics.black_hole_pull must be positive, got %f", c.Physics.BlackHolePull)
	}
	if c.Render.MaxStep <= 0 {
		return fmt.Errorf("render.max_step must be positive, got %f", c.Render.MaxStep)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %.0fx%.0f", c.Render.Width, c.Render.Height)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", c.Ticks)
	}
	for name, sc := range c.Scenes {
		for i, b := range sc.Bodies {
			if _, ok := physics.KindByName(b.Kind); !ok {
				return fmt.Errorf("scene %s body %d: unknown kind %q (available: %v)", name, i, b.Kind, physics.KindNames())
			}
			if b.Mass < 0 || b.Radius < 0 {
				return fmt.Errorf("scene %s body %d: mass and radius must not be negative", name, i)
			}
		}
	}
	return nil
}

func (c *Config) Gravity() physics.Gravity {
	return physics.Gravity{G: c.Physics.G, BlackHolePull: c.Physics.BlackHolePull}
}
