// Package config handles objmesh configuration loading and management.
package config

// Config holds all objmesh settings.
type Config struct {
	Loader    LoaderConfig    `yaml:"loader"`
	Transform TransformConfig `yaml:"transform"`
	Export    ExportConfig    `yaml:"export"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoaderConfig holds OBJ loader options.
type LoaderConfig struct {
	KeepMaterials   bool   `yaml:"keep_materials"`
	GlobalMaterials bool   `yaml:"global_materials"`
	BufferSize      int    `yaml:"buffer_size"`
	SharedMaterials string `yaml:"shared_materials"` // MTL file preloaded into the shared map
}

// TransformConfig holds the load-time vertex transform.
type TransformConfig struct {
	MaxDimension float32   `yaml:"max_dimension"` // 0 disables scaling
	Center       bool      `yaml:"center"`
	Origin       []float32 `yaml:"origin,flow"` // x, y, z; used when Center is set
}

// ExportConfig holds conversion settings.
type ExportConfig struct {
	Format string `yaml:"format"` // "glb" or "stl"; used when the output has no extension
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Loader: LoaderConfig{
			KeepMaterials:   false,
			GlobalMaterials: false,
			BufferSize:      1024,
		},
		Transform: TransformConfig{
			MaxDimension: 0,
			Center:       false,
			Origin:       []float32{0, 0, 0},
		},
		Export: ExportConfig{
			Format: "glb",
		},
		Logging: LoggingConfig{
			Level:   "warn",
			LogFile: "",
		},
	}
}
