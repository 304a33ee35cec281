// Package config handles tool configuration loading.
package config

// Config holds settings for the collision tools.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Scene   SceneConfig   `yaml:"scene"`
	Stress  StressConfig  `yaml:"stress"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds viewer display settings.
type WindowConfig struct {
	Width    int  `yaml:"width"`
	Height   int  `yaml:"height"`
	VSync    bool `yaml:"vsync"`
	FPSLimit int  `yaml:"fps_limit"`
}

// SceneConfig holds the demo scene parameters.
type SceneConfig struct {
	GroundExtent   float32 `yaml:"ground_extent"`
	GroundSegments int     `yaml:"ground_segments"`
	SphereCount    int     `yaml:"sphere_count"`
	BoxCount       int     `yaml:"box_count"`
	Seed           int64   `yaml:"seed"`
}

// StressConfig holds benchmark settings.
type StressConfig struct {
	TriangleCounts []int `yaml:"triangle_counts"`
	QueriesPerMesh int   `yaml:"queries_per_mesh"`
	Seed           int64 `yaml:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:    1280,
			Height:   720,
			VSync:    true,
			FPSLimit: 0,
		},
		Scene: SceneConfig{
			GroundExtent:   40,
			GroundSegments: 16,
			SphereCount:    24,
			BoxCount:       8,
			Seed:           42,
		},
		Stress: StressConfig{
			TriangleCounts: []int{64, 256, 1024, 4096},
			QueriesPerMesh: 10000,
			Seed:           42,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
