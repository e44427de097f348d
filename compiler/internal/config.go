package internal

import (
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
)

// ConfigFileNames are looked for in the working directory and then in its parents.
var ConfigFileNames = []string{"minijava.yaml", "minijava.yml"}

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	// OutputDir is where <file>.ll is written. Empty means next to the source.
	OutputDir string `yaml:"output_dir,omitempty"`

	PrintDeclarations bool `yaml:"print_declarations,omitempty"`

	PrintOffsets bool `yaml:"print_offsets,omitempty"`

	Color string `yaml:"color,omitempty"`
}

func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config %s", path)
	}
	return ParseConfig(data, path)
}

func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing %s", path)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig returns the closest config file from dir upwards, or "" if there is none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "resolving directory")
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.New("%s: color must be one of auto, always, never: got %q", path, c.Color)
	}
	return nil
}

// SetColor overrides the color setting, rejecting anything but auto, always and never.
func (c *Config) SetColor(color string) error {
	old := c.Color
	c.Color = color
	if err := c.validate("color flag"); err != nil {
		c.Color = old
		return err
	}
	c.setDefaults()
	return nil
}

func (c *Config) setDefaults() {
	if c.Color == "" {
		c.Color = ColorAuto
	}
}

// OutputPath is where the IR of the source file src goes.
func (c *Config) OutputPath(src string) string {
	base := filepath.Base(src)
	base = base[:len(base)-len(filepath.Ext(base))] + ".ll"
	if c.OutputDir == "" {
		return filepath.Join(filepath.Dir(src), base)
	}
	return filepath.Join(c.OutputDir, base)
}

// UseColor resolves the color setting for the file f. NO_COLOR disables auto coloring.
func (c *Config) UseColor(f *os.File) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
