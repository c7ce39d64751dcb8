package config

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
)

// EnvPrefix is the environment variable prefix of every setting.
const EnvPrefix = "OAREJ"

// newViper builds a pre-configured Viper instance: YAML file type, OAREJ_ env
// prefix, automatic env binding and a key replacer mapping "." to "_" so that
// "upstream.base_url" resolves to "OAREJ_UPSTREAM_BASE_URL".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, value := range defaultValues {
		v.SetDefault(key, value)
	}
	return v
}

// Load reads the YAML file at configPath, merges OAREJ_* environment
// overrides, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidConfig, "config: failed to read config file").
			WithDetail(configPath)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from OAREJ_* environment variables and
// defaults, with no config file.
//
//	OAREJ_<SECTION>_<FIELD>   e.g.  OAREJ_UPSTREAM_MAX_ROWS, OAREJ_LOG_LEVEL
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidConfig, "config: failed to unmarshal configuration")
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

//Personal.AI order the ending
