// Package configfile decodes registry files written in YAML or JSON.
package configfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type unmarshalFn func([]byte, any) error

var decoders = []struct {
	name string
	ext  string
	fn   unmarshalFn
}{
	{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
	{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
	{name: "json", ext: ".json", fn: json.Unmarshal},
}

// Load reads path and decodes it into T. kind names the file in errors
// (e.g. "requests").
func Load[T any](path, kind string) (T, error) {
	var zero T
	path = strings.TrimSpace(path)
	if path == "" {
		return zero, fmt.Errorf("%s file path is empty", kind)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("read %s file: %w", kind, err)
	}
	return Parse[T](raw, filepath.Ext(path), kind)
}

// Parse decodes data by extension. An empty extension tries every format.
func Parse[T any](data []byte, ext, kind string) (T, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out T
		if err := d.fn(data, &out); err != nil {
			errs = append(errs, fmt.Errorf("decode %s %s: %w", d.name, kind, err))
			continue
		}
		return out, nil
	}

	var zero T
	if len(errs) == 0 {
		return zero, fmt.Errorf("%s file format not recognized (expected YAML or JSON)", kind)
	}
	return zero, errors.Join(errs...)
}
