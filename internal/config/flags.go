package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds command-line overrides. Zero values leave the config untouched.
type Flags struct {
	ConfigPath      string
	Debug           bool
	LogFile         string
	MaxDimension    float32
	Center          bool
	Origin          string // "x,y,z"
	Materials       string
	GlobalMaterials bool
	KeepMaterials   bool
}

// Bind registers the flags on fs.
func (f *Flags) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file (rotated)")
	fs.Float32Var(&f.MaxDimension, "max-dim", 0, "Scale the model so its largest extent equals this")
	fs.BoolVar(&f.Center, "center", false, "Move the bounding box center to --origin")
	fs.StringVar(&f.Origin, "origin", "", "Target center for --center as x,y,z (default 0,0,0)")
	fs.StringVar(&f.Materials, "materials", "", "MTL library preloaded as shared materials")
	fs.BoolVar(&f.GlobalMaterials, "global-materials", false, "Promote materials into the shared map")
	fs.BoolVar(&f.KeepMaterials, "keep-materials", false, "Keep materials between loads")
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) error {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.MaxDimension > 0 {
		cfg.Transform.MaxDimension = f.MaxDimension
	}
	if f.Center {
		cfg.Transform.Center = true
	}
	if f.Origin != "" {
		origin, err := ParseVec3(f.Origin)
		if err != nil {
			return fmt.Errorf("--origin: %w", err)
		}
		cfg.Transform.Origin = origin
		cfg.Transform.Center = true
	}
	if f.Materials != "" {
		cfg.Loader.SharedMaterials = f.Materials
	}
	if f.GlobalMaterials {
		cfg.Loader.GlobalMaterials = true
	}
	if f.KeepMaterials {
		cfg.Loader.KeepMaterials = true
	}
	return nil
}

// ParseVec3 parses "x,y,z".
func ParseVec3(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected x,y,z, got %q", s)
	}
	out := make([]float32, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", p)
		}
		out[i] = float32(v)
	}
	return out, nil
}
