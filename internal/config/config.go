package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/ironsheep/docscan/internal/camera"
	"github.com/ironsheep/docscan/internal/capture"
	"github.com/ironsheep/docscan/internal/detection"
	"github.com/ironsheep/docscan/internal/dialogue"
	"github.com/ironsheep/docscan/internal/events"
	"github.com/ironsheep/docscan/internal/guidance"
	"github.com/ironsheep/docscan/internal/logging"
	"github.com/ironsheep/docscan/internal/ocr"
	"github.com/ironsheep/docscan/internal/remote"
	"github.com/ironsheep/docscan/internal/session"
	"github.com/ironsheep/docscan/internal/speech"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DotEnvFile           = ".env"
	BaseConfigFile       = "docscan.toml"
	OverlayConfigPattern = "docscan.%s.toml"

	EnvDocscanEnv = "DOCSCAN_ENV"

	EnvLogLevel      = "DOCSCAN_LOG_LEVEL"
	EnvLogFile       = "DOCSCAN_LOG_FILE"
	EnvCameraDir     = "DOCSCAN_CAMERA_DIR"
	EnvFPS           = "DOCSCAN_FPS"
	EnvSpeechLang    = "DOCSCAN_SPEECH_LANG"
	EnvOCREngine     = "DOCSCAN_OCR_ENGINE"
	EnvTessdataDir   = "DOCSCAN_TESSDATA_DIR"
	EnvAPIBaseURL    = "DOCSCAN_API_BASE_URL"
	EnvUserID        = "DOCSCAN_USER_ID"
	EnvModel         = "DOCSCAN_MODEL"
	EnvProvider      = "DOCSCAN_PROVIDER"
	EnvRedisAddr     = "DOCSCAN_REDIS_ADDR"
	EnvRedisPassword = "DOCSCAN_REDIS_PASSWORD"
	EnvRedisDB       = "DOCSCAN_REDIS_DB"
)

// Config is the root configuration of a docscan process.
type Config struct {
	Log       logging.Config     `toml:"log"`
	Camera    camera.Config      `toml:"camera"`
	Detection detection.Config   `toml:"detection"`
	Guidance  guidance.Config    `toml:"guidance"`
	Capture   capture.Config     `toml:"capture"`
	Speech    speech.Config      `toml:"speech"`
	Dialogue  dialogue.Config    `toml:"dialogue"`
	OCR       ocr.Config         `toml:"ocr"`
	Remote    remote.Config      `toml:"remote"`
	Redis     events.RedisConfig `toml:"redis"`
	Session   session.Config     `toml:"session"`

	// Env is the DOCSCAN_ENV value that selected the overlay, if any.
	Env string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:       logging.DefaultConfig(),
		Camera:    camera.DefaultConfig(),
		Detection: detection.DefaultConfig(),
		Guidance:  guidance.DefaultConfig(),
		Capture:   capture.DefaultConfig(),
		Speech:    speech.DefaultConfig(),
		Dialogue:  dialogue.DefaultConfig(),
		OCR:       ocr.DefaultConfig(),
		Remote:    remote.DefaultConfig(),
		Redis:     events.DefaultRedisConfig(),
		Session:   session.DefaultConfig(),
	}
}

// Load builds the configuration from dir.
//
// Sources are applied in order, each overriding the previous one:
//   - built-in defaults
//   - dir/docscan.toml, if present
//   - dir/docscan.<DOCSCAN_ENV>.toml, if DOCSCAN_ENV is set and the file exists
//   - DOCSCAN_* environment variables, including those from dir/.env
//
// The result is validated before it is returned.
func Load(dir string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(dir, DotEnvFile)); err != nil {
		return nil, err
	}

	cfg := Default()

	base := filepath.Join(dir, BaseConfigFile)
	if _, err := os.Stat(base); err == nil {
		if err := decodeFile(base, cfg); err != nil {
			return nil, err
		}
	}

	if env := os.Getenv(EnvDocscanEnv); env != "" {
		cfg.Env = env
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			if err := decodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("load overlay %s: %w", path, err)
			}
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadDotEnv exports the variables of a .env file. Variables already set in
// the environment win. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// decodeFile decodes a TOML file on top of cfg. Keys absent from the file
// keep their current values.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString(EnvLogLevel, &c.Log.Level)
	setString(EnvLogFile, &c.Log.File)
	setString(EnvCameraDir, &c.Camera.Dir)
	setString(EnvSpeechLang, &c.Speech.Lang)
	setString(EnvOCREngine, &c.OCR.Engine)
	setString(EnvTessdataDir, &c.OCR.TessdataDir)
	setString(EnvAPIBaseURL, &c.Remote.BaseURL)
	setString(EnvModel, &c.Remote.Model)
	setString(EnvProvider, &c.Remote.Provider)
	setString(EnvRedisAddr, &c.Redis.Addr)
	setString(EnvRedisPassword, &c.Redis.Password)

	if err := setInt(EnvFPS, &c.Session.FPS); err != nil {
		return err
	}
	if err := setInt(EnvRedisDB, &c.Redis.DB); err != nil {
		return err
	}
	if v := os.Getenv(EnvUserID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvUserID, err)
		}
		c.Remote.UserID = id
	}
	return nil
}

// Validate checks field constraints and the cross-field band rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if err := c.Guidance.Validate(); err != nil {
		return fmt.Errorf("guidance: %w", err)
	}
	return nil
}
