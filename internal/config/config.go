package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/saves"
)

// EnvPrefix is prepended to every environment variable FromEnv reads
const EnvPrefix = "HAMLET_"

type Config struct {
	DataDir          string         `env:"DATA_DIR"`
	SaveDriver       saves.Driver   `env:"SAVE_DRIVER"`
	SaveTarget       string         `env:"SAVE_TARGET"`
	Slot             string         `env:"SLOT"`
	ListenAddr       string         `env:"LISTEN_ADDR"`
	TickInterval     time.Duration  `env:"TICK_INTERVAL"`
	AutoSaveInterval time.Duration  `env:"AUTOSAVE_INTERVAL"`
	ClickRate        float64        `env:"CLICK_RATE"` // Clicks per second allowed through the API
	ClickBurst       int            `env:"CLICK_BURST"`
	LogLevel         slog.Level     `env:"LOG_LEVEL"`
	S3               saves.S3Config `envPrefix:"S3_"`
}

func Default() Config {
	return Config{
		DataDir:          "data",
		SaveDriver:       saves.DriverFile,
		SaveTarget:       saves.DefaultSaveDir,
		Slot:             models.DefaultAutoSaveKey,
		ListenAddr:       ":8080",
		TickInterval:     time.Second,
		AutoSaveInterval: models.DefaultGameConfig().AutoSaveInterval,
		ClickRate:        10,
		ClickBurst:       20,
		LogLevel:         slog.LevelInfo,
	}
}

// SaveOptions returns the saves.Open options for this configuration
func (c Config) SaveOptions() saves.Options {
	return saves.Options{Driver: c.SaveDriver, Target: c.SaveTarget, S3: c.S3}
}

// FromEnv starts from Default and overrides every field whose HAMLET_*
// variable is set.
//
//	HAMLET_DATA_DIR, HAMLET_SAVE_DRIVER, HAMLET_SAVE_TARGET, HAMLET_SLOT,
//	HAMLET_LISTEN_ADDR, HAMLET_TICK_INTERVAL, HAMLET_AUTOSAVE_INTERVAL,
//	HAMLET_CLICK_RATE, HAMLET_CLICK_BURST, HAMLET_LOG_LEVEL,
//	HAMLET_S3_BUCKET, HAMLET_S3_PREFIX, HAMLET_S3_REGION,
//	HAMLET_S3_ENDPOINT, HAMLET_S3_PATH_STYLE
func FromEnv() (Config, error) {
	c := Default()
	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("failed to read %s* environment: %w", EnvPrefix, err)
	}

	c.SaveDriver = saves.Driver(strings.ToLower(string(c.SaveDriver)))
	// The file default target makes no sense for other drivers
	if c.SaveDriver != saves.DriverFile && os.Getenv(EnvPrefix+"SAVE_TARGET") == "" {
		c.SaveTarget = ""
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the server cannot run with
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.AutoSaveInterval < 0 {
		return fmt.Errorf("autosave interval must not be negative, got %s", c.AutoSaveInterval)
	}
	if c.ClickRate <= 0 || c.ClickBurst <= 0 {
		return fmt.Errorf("click rate and burst must be positive")
	}
	if err := saves.ValidateSlot(c.Slot); err != nil {
		return err
	}
	return nil
}
