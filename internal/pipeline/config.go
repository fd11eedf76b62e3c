package pipeline

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/overlay"
	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/shm"
)

// EnvPrefix prefixes every environment override, e.g. IPCDOG_SHM_NAME.
const EnvPrefix = "IPCDOG"

// Config defines the runtime configuration for a single reader run.
type Config struct {
	ShmName         string  `split_words:"true"`
	ShmDir          string  `split_words:"true"`
	ImagePath       string  `split_words:"true"`
	OutputPath      string  `split_words:"true"`
	JPEGQuality     int     `split_words:"true"`
	BoxColor        string  `split_words:"true"`
	LineThickness   int     `split_words:"true"`
	FontScale       float64 `split_words:"true"`
	TextThickness   int     `split_words:"true"`
	LabelOffset     int     `split_words:"true"`
	LabelPrefix     string  `split_words:"true"`
	MetricsTextfile string  `split_words:"true"`
	LogLevel        string  `split_words:"true"`
	LogColor        bool    `split_words:"true"`
}

// DefaultConfig returns the fixed paths and style the producer pairs with.
func DefaultConfig() Config {
	style := overlay.DefaultStyle()
	return Config{
		ShmName:       shm.DefaultName,
		ShmDir:        shm.DefaultDir,
		ImagePath:     "dog.jpg",
		OutputPath:    "ipc_dog_out.jpg",
		JPEGQuality:   overlay.DefaultJPEGQuality,
		BoxColor:      "#00ff00",
		LineThickness: style.LineThickness,
		FontScale:     style.FontScale,
		TextThickness: style.TextThickness,
		LabelOffset:   style.LabelOffset,
		LabelPrefix:   style.LabelPrefix,
		LogLevel:      "info",
		LogColor:      true,
	}
}

// LoadConfig returns DefaultConfig overridden by IPCDOG_* environment
// variables. Unset variables keep their defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Style builds the overlay style described by the config.
func (c Config) Style() (overlay.Style, error) {
	col, err := overlay.ParseColor(c.BoxColor)
	if err != nil {
		return overlay.Style{}, err
	}
	style := overlay.Style{
		Color:         col,
		LineThickness: c.LineThickness,
		FontScale:     c.FontScale,
		TextThickness: c.TextThickness,
		LabelOffset:   c.LabelOffset,
		LabelPrefix:   c.LabelPrefix,
	}
	if err := style.Validate(); err != nil {
		return overlay.Style{}, err
	}
	return style, nil
}

// Validate checks the config before anything is opened.
func (c Config) Validate() error {
	if _, err := shm.Path(c.ShmDir, c.ShmName); err != nil {
		return err
	}
	if c.ImagePath == "" {
		return fmt.Errorf("image path is empty")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path is empty")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be 1-100, got %d", c.JPEGQuality)
	}
	if _, err := c.Style(); err != nil {
		return err
	}
	return nil
}
