// Package configutil reads json5 configuration files with local overrides.
package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// Layers returns the files read for name, lowest priority first:
// `config.json5` is overridden by `config.local.json5`.
func Layers(name string) []string {
	ext := filepath.Ext(name)
	return []string{
		name,
		strings.TrimSuffix(name, ext) + ".local" + ext,
	}
}

// readLayer decodes path into out, found is false when the file does not exist
// or is empty.
func readLayer[T any](path string, out *T) (found bool, err error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig reads every layer of name and merges them, non-zero fields of a
// later layer win. It returns os.ErrNotExist when no layer exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found := false

	for i, path := range Layers(name) {
		var layer T
		ok, err := readLayer(path, &layer)
		if err != nil {
			return out, err
		}
		if !ok {
			continue
		}
		if i > 0 {
			slog.Info("merging config with local overrides", "local", path)
		}
		err = mergo.Merge(&out, layer, mergo.WithOverride)
		if err != nil {
			return out, fmt.Errorf("merge %s: %w", path, err)
		}
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively is ReadConfig on name in the working directory and then in
// each of its parents until one is found.
func ReadRecursively[T any](name string) (T, error) {
	var out T

	dir, err := os.Getwd()
	if err != nil {
		return out, err
	}
	for {
		config, err := ReadConfig[T](filepath.Join(dir, name))
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return out, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return out, os.ErrNotExist
		}
		dir = parent
	}
}

// WithDefaults fills every zero field of cfg from defaults.
func WithDefaults[T any](cfg T, defaults T) (T, error) {
	err := mergo.Merge(&cfg, defaults)
	return cfg, err
}
