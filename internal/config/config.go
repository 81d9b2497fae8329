// Package config handles fbxconv configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Faultbox/fbxscene/pkg/convert"
	"github.com/Faultbox/fbxscene/pkg/encoding"
)

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all converter settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert" toml:"convert"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Data    DataConfig    `yaml:"data" toml:"data"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// ConvertConfig mirrors convert.Options.
type ConvertConfig struct {
	ReadAllMaterials  bool   `yaml:"read_all_materials" toml:"read_all_materials"`
	DiffuseAsEmissive bool   `yaml:"diffuse_as_emissive" toml:"diffuse_as_emissive"`
	LegacyCharset     string `yaml:"legacy_charset" toml:"legacy_charset" validate:"charset"`
	Workers           int    `yaml:"workers" toml:"workers" validate:"min=1,max=64"` // documents converted in parallel
}

// OutputConfig controls how converted scenes are written.
type OutputConfig struct {
	Format string `yaml:"format" toml:"format" validate:"oneof=yaml toml"`
	Path   string `yaml:"path" toml:"path"` // empty means stdout
}

// DataConfig holds document search paths.
type DataConfig struct {
	SearchPaths []string `yaml:"search_paths" toml:"search_paths" validate:"dive,required"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level" validate:"omitempty,oneof=debug info warn error"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			DiffuseAsEmissive: true,
			Workers:           4,
		},
		Output: OutputConfig{
			Format: "yaml",
		},
		Data: DataConfig{
			SearchPaths: []string{"."},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("charset", validateCharset)
}

// validateCharset accepts the names known to encoding.Lookup.
func validateCharset(fl validator.FieldLevel) bool {
	_, err := encoding.Lookup(fl.Field().String())
	return err == nil
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ConvertOptions returns the conversion options described by the config.
func (c *Config) ConvertOptions(log *zap.Logger) convert.Options {
	return convert.Options{
		ReadAllMaterials:  c.Convert.ReadAllMaterials,
		DiffuseAsEmissive: c.Convert.DiffuseAsEmissive,
		Charset:           c.Convert.LegacyCharset,
		Logger:            log,
	}
}
