package ama

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
)

// LoadConfig reads configuration from path (YAML, JSON, TOML or JSONC) and
// from AMA_* environment variables, which take precedence over the file.
// An empty path reads the environment only. Defaults are applied and the
// result is validated.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setConfigDefaults(v)

	if path != "" {
		if err := readConfigFile(v, path); err != nil {
			return Config{}, &ConfigurationError{Field: "file", Err: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, &ConfigurationError{Field: "file", Err: fmt.Errorf("decode: %w", err)}
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".jsonc") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		v.SetConfigType("json")
		return v.ReadConfig(bytes.NewReader(jsonc.ToJSON(raw)))
	}
	v.SetConfigFile(path)
	return v.ReadInConfig()
}

// setConfigDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("app_id", "")
	v.SetDefault("app_title", "")
	v.SetDefault("app_version_name", "")
	v.SetDefault("app_version_code", "")
	v.SetDefault("app_package_name", "")
	v.SetDefault("make", "")
	v.SetDefault("model", "")
	v.SetDefault("platform", "")
	v.SetDefault("platform_version", "")
	v.SetDefault("region", DefaultRegion)
	v.SetDefault("credentials_pool_id", "")
	v.SetDefault("endpoint", "")

	v.SetDefault("ignore_users", []string{})
	v.SetDefault("suppress_sending", false)
	v.SetDefault("enable_verbose_logging", false)

	v.SetDefault("initial_state", DefaultInitialState)
	v.SetDefault("clear_on_flush", false)
	v.SetDefault("legacy_transition_event", false)

	v.SetDefault("compress", false)
	v.SetDefault("timeout", "10s")
	v.SetDefault("retry.max_retries", 0)
	v.SetDefault("retry.initial_interval", "1s")
	v.SetDefault("retry.max_interval", "30s")
	v.SetDefault("spool.driver", SpoolNone)
	v.SetDefault("spool.path", "")
}
