// Package interviewer assembles configured providers into runnable interview
// sessions.
package interviewer

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full YAML configuration surface.
type Config struct {
	Environment   string              `mapstructure:"environment"`
	LogLevel      string              `mapstructure:"log_level"`
	LogFormat     string              `mapstructure:"log_format"`
	Vendors       VendorsConfig       `mapstructure:"vendors"`
	Models        ModelsConfig        `mapstructure:"models"`
	Interview     InterviewConfig     `mapstructure:"interview"`
	Privacy       PrivacyConfig       `mapstructure:"privacy"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// VendorConfig selects one provider and carries its free-form settings map.
type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type VendorsConfig struct {
	STT VendorConfig `mapstructure:"stt"`
	TTS VendorConfig `mapstructure:"tts"`
	LLM VendorConfig `mapstructure:"llm"`
}

// ModelsConfig is the fallback order for text generation. Preferred goes
// first; Candidates follow in configured order.
type ModelsConfig struct {
	Preferred  string   `mapstructure:"preferred"`
	Candidates []string `mapstructure:"candidates"`
}

type InterviewConfig struct {
	HardLimitSeconds  int      `mapstructure:"hard_limit_seconds"`
	FinalWarnSeconds  int      `mapstructure:"final_warn_seconds"`
	ConcludingSeconds int      `mapstructure:"concluding_seconds"`
	Voice             string   `mapstructure:"voice"`
	AbuseKeywords     []string `mapstructure:"abuse_keywords"`
	ClosingPhrases    []string `mapstructure:"closing_phrases"`
}

type PrivacyConfig struct {
	RedactPII bool `mapstructure:"redact_pii"`
}

type ObservabilityConfig struct {
	ArtifactsDir string `mapstructure:"artifacts_dir"`
}

// LoadConfig reads and validates the YAML config at path. Every string value
// supports ${ENV_VAR} expansion so keys stay out of config files.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("models.preferred", "gpt-4o")
	v.SetDefault("models.candidates", []string{"gpt-4o", "gpt-4o-mini"})
	v.SetDefault("interview.hard_limit_seconds", 890)
	v.SetDefault("interview.final_warn_seconds", 780)
	v.SetDefault("interview.concluding_seconds", 600)
	v.SetDefault("interview.voice", "aura-asteria-en")
	v.SetDefault("privacy.redact_pii", true)
	v.SetDefault("observability.artifacts_dir", "")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}

	expandEnvStrings(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Vendors.STT.Provider) == "" {
		return fmt.Errorf("vendors.stt.provider is required")
	}
	if strings.TrimSpace(c.Vendors.TTS.Provider) == "" {
		return fmt.Errorf("vendors.tts.provider is required")
	}
	if strings.TrimSpace(c.Vendors.LLM.Provider) == "" {
		return fmt.Errorf("vendors.llm.provider is required")
	}
	if strings.TrimSpace(c.Models.Preferred) == "" && len(c.Models.Candidates) == 0 {
		return fmt.Errorf("models.preferred or models.candidates is required")
	}
	if c.Interview.HardLimitSeconds <= c.Interview.FinalWarnSeconds {
		return fmt.Errorf("interview.hard_limit_seconds must exceed interview.final_warn_seconds")
	}
	if c.Interview.FinalWarnSeconds <= c.Interview.ConcludingSeconds {
		return fmt.Errorf("interview.final_warn_seconds must exceed interview.concluding_seconds")
	}
	return nil
}

func expandEnvStrings(cfg *Config) {
	expandValue(reflect.ValueOf(cfg))
	cfg.Vendors.STT.Settings = expandSettings(cfg.Vendors.STT.Settings)
	cfg.Vendors.TTS.Settings = expandSettings(cfg.Vendors.TTS.Settings)
	cfg.Vendors.LLM.Settings = expandSettings(cfg.Vendors.LLM.Settings)
}

func expandSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	for k, v := range settings {
		settings[k] = expandAny(v)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		for k, v := range val {
			val[k] = expandAny(v)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = expandAny(v)
		}
		return out
	default:
		return v
	}
}

func expandValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		expandValue(v.Elem())
		return
	}
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			expandValue(v.Field(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(os.ExpandEnv(v.String()))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			expandValue(v.Index(i))
		}
	}
}
