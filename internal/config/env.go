// Package config reads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/krakowski/BombermanVR/pkg/logger"
)

// Load merges the given .env files (default ".env") into the environment.
// Variables that are already set win. A missing file is not an error.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Log.WithField("file", p).Debug("No env file")
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
		logger.Log.WithField("file", p).Info("Loaded environment variables")
	}
	return nil
}

// String returns the variable or fallback when it is unset or blank.
func String(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Int32 parses the variable, returning fallback when it is unset.
func Int32(key string, fallback int32) (int32, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return int32(n), nil
}

// Bool parses the variable, returning fallback when it is unset.
func Bool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
