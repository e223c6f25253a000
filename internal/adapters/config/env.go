package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/zerr"
)

// Environment variables that override cairn.yaml.
const (
	EnvHashCacheMode     = "CAIRN_HASH_CACHE_MODE"
	EnvParallelism       = "CAIRN_PARALLELISM"
	EnvCheckActionGraphs = "CAIRN_CHECK_ACTION_GRAPHS"
	EnvRuleKeySeed       = "CAIRN_RULE_KEY_SEED"
)

// DotEnvFileName is read from the project root when present.
const DotEnvFileName = ".env"

// environment resolves override variables from the process first and the project's .env second.
type environment struct {
	getenv func(string) string
	dotenv map[string]string
}

func readEnvironment(fsys afero.Fs, root string, getenv func(string) string) (environment, error) {
	env := environment{getenv: getenv}
	f, err := fsys.Open(filepath.Join(root, DotEnvFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return env, nil
	}
	if err != nil {
		return env, zerr.Wrap(err, "failed to open .env file")
	}
	defer f.Close() //nolint:errcheck // Read-only file

	env.dotenv, err = godotenv.Parse(f)
	if err != nil {
		return env, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "failed to parse .env file"), "error", err.Error())
	}
	return env, nil
}

func (e environment) lookup(key string) (string, bool) {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v, true
	}
	v, ok := e.dotenv[key]
	return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
}

// apply overlays the override variables on settings.
func (e environment) apply(settings *domain.Settings) error {
	if v, ok := e.lookup(EnvHashCacheMode); ok {
		settings.HashCacheMode = domain.HashCacheMode(v)
	}
	if v, ok := e.lookup(EnvParallelism); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalidValue(EnvParallelism, v)
		}
		settings.Parallelism = n
	}
	if v, ok := e.lookup(EnvCheckActionGraphs); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return invalidValue(EnvCheckActionGraphs, v)
		}
		settings.CheckActionGraphs = b
	}
	if v, ok := e.lookup(EnvRuleKeySeed); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalidValue(EnvRuleKeySeed, v)
		}
		settings.RuleKeySeed = n
	}
	return nil
}

func invalidValue(key, value string) error {
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "invalid environment override"), "variable", key), "value", value)
}
