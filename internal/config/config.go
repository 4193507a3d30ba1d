// Package config loads runtime settings from an optional config file and
// CLUSTERLENS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/spf13/viper"

	"github.com/spektr-org/clusterlens/dataset"
)

const envPrefix = "CLUSTERLENS"

// Config holds every tunable of the CLI and session layer.
type Config struct {
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" json:"max_upload_bytes" validate:"gt=0"`
	ClusterColumn  string `mapstructure:"cluster_column" json:"cluster_column"`
	PreviewRows    int    `mapstructure:"preview_rows" json:"preview_rows" validate:"gte=0"`
	Delimiter      string `mapstructure:"delimiter" json:"delimiter" validate:"len=1"`
	LogLevel       string `mapstructure:"log_level" json:"log_level" validate:"oneof=trace debug info warn error"`
	LogFile        string `mapstructure:"log_file" json:"log_file"`
}

// Comma returns the delimiter as a rune.
func (c *Config) Comma() rune {
	return []rune(c.Delimiter)[0]
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("max_upload_bytes", dataset.DefaultMaxBytes)
	v.SetDefault("cluster_column", "")
	v.SetDefault("preview_rows", 50)
	v.SetDefault("delimiter", ",")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// Load reads the config file at path (optional; "" skips it), overlays
// environment variables and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ============================================================================
// VALIDATION
// ============================================================================

// use a single instance, it caches struct info
var (
	uni      *ut.UniversalTranslator
	validate *validator.Validate
	trans    ut.Translator
)

// Validate checks struct tags and returns the English messages joined by "; ".
func Validate[T any](structure T) error {
	err := validate.Struct(structure)
	if err == nil {
		return nil
	}

	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return err
	}
	msgs := make([]string, 0, len(validatorErrs))
	for _, e := range validatorErrs {
		msgs = append(msgs, e.Translate(trans))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func init() {
	english := en.New()
	uni = ut.New(english, english)
	trans, _ = uni.GetTranslator("en")

	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
}
