package config

import (
	"fmt"
	"runtime"

	"code.cloudfoundry.org/bytefmt"
	"github.com/BurntSushi/toml"
)

// Backends able to resize tiles.
const (
	BackendDraw = "draw"
	BackendVips = "vips"
)

// Config stores the configuration shared by the commands.
type Config struct {
	Host   string       `toml:"host"`
	Port   int          `toml:"port"`
	Images ImagesConfig `toml:"images"`
	Tiles  TilesConfig  `toml:"tiles"`
	Cache  CacheConfig  `toml:"cache"`
	Export ExportConfig `toml:"export"`
	Log    LogConfig    `toml:"log"`
}

// ImagesConfig tells where source images come from and how they are read.
type ImagesConfig struct {
	Root    string `toml:"root"`
	Remote  bool   `toml:"remote"`
	Backend string `toml:"backend"`
	Quality int    `toml:"quality"`
}

// TilesConfig shapes the pyramid.
type TilesConfig struct {
	Size         int   `toml:"size"`
	ScaleFactors []int `toml:"scaleFactors"`
	SkipEmpty    bool  `toml:"skipEmpty"`
}

// CacheConfig represents the configuration information regarding the cache.
type CacheConfig struct {
	HTTP        int64  `toml:"http"`
	Images      string `toml:"images"`
	Tiles       string `toml:"tiles"`
	Rasters     string `toml:"rasters"`
	ImagesSize  int64  `toml:"-"`
	TilesSize   int64  `toml:"-"`
	RastersSize int64  `toml:"-"`
}

// ExportConfig drives the static exports.
type ExportConfig struct {
	Concurrency int `toml:"concurrency"`
}

// LogConfig sets the logger up. An empty File logs to stderr.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"maxSize"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{
		Host: "0.0.0.0",
		Port: 8080,
		Images: ImagesConfig{
			Root:    "images",
			Backend: BackendDraw,
			Quality: 90,
		},
		Tiles: TilesConfig{
			Size: 512,
		},
		Cache: CacheConfig{
			HTTP:    86400,
			Images:  "128M",
			Tiles:   "512M",
			Rasters: "256M",
		},
		Export: ExportConfig{
			Concurrency: runtime.NumCPU(),
		},
		Log: LogConfig{
			Level:   "info",
			MaxSize: 100,
		},
	}
	_ = c.Validate()
	return c
}

// Load reads a TOML file over the defaults.
func Load(file string) (*Config, error) {
	c := Default()
	if _, err := toml.DecodeFile(file, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return c, nil
}

// Validate checks the values and computes the cache sizes.
func (c *Config) Validate() error {
	if c.Tiles.Size <= 0 {
		return fmt.Errorf("tiles.size must be positive, got %d", c.Tiles.Size)
	}
	for _, sf := range c.Tiles.ScaleFactors {
		if sf <= 0 {
			return fmt.Errorf("tiles.scaleFactors must be positive, got %v", c.Tiles.ScaleFactors)
		}
	}

	switch c.Images.Backend {
	case BackendDraw, BackendVips:
	default:
		return fmt.Errorf("images.backend %#v is neither %#v nor %#v", c.Images.Backend, BackendDraw, BackendVips)
	}

	if c.Export.Concurrency <= 0 {
		c.Export.Concurrency = 1
	}

	var err error
	if c.Cache.ImagesSize, err = size(c.Cache.Images); err != nil {
		return fmt.Errorf("cache.images: %w", err)
	}
	if c.Cache.TilesSize, err = size(c.Cache.Tiles); err != nil {
		return fmt.Errorf("cache.tiles: %w", err)
	}
	if c.Cache.RastersSize, err = size(c.Cache.Rasters); err != nil {
		return fmt.Errorf("cache.rasters: %w", err)
	}
	return nil
}

// Listen is the address the server binds.
func (c *Config) Listen() string {
	return fmt.Sprintf("%v:%v", c.Host, c.Port)
}

func size(s string) (int64, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	b, err := bytefmt.ToBytes(s)
	if err != nil {
		return 0, err
	}
	return int64(b), nil
}
