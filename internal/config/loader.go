package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering sources, low to high precedence:
//  1. defaults (Default())
//  2. YAML file, when path is non-empty
//  3. environment (prefix RIFTGRADE_, e.g. RIFTGRADE_RIOT_API_KEY)
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// RIFTGRADE_RIOT_API_KEY -> riot.api_key, RIFTGRADE_DB_PATH -> db_path.
	envProvider := env.Provider("RIFTGRADE_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "RIFTGRADE_"))
		for _, section := range []string{"riot_", "ingest_", "scoring_", "combat_", "extract_"} {
			if strings.HasPrefix(s, section) {
				return strings.TrimSuffix(section, "_") + "." + strings.TrimPrefix(s, section)
			}
		}
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.DBPath == "" {
		return nil, errors.New("db_path must not be empty")
	}
	if cfg.Scoring.FallbackStdDevRatio <= 0 {
		return nil, errors.New("fallback_stddev_ratio must be positive")
	}
	return &cfg, nil
}

// LoadDefaultPath loads from the file named by RIFTGRADE_CONFIG, when set.
func LoadDefaultPath() (*Config, error) {
	return Load(os.Getenv("RIFTGRADE_CONFIG"))
}
