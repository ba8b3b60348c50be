package exercise

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// Load reads a single exercise definition from a TOML file. The file name
// without extension is used when the definition has no id.
func Load(path string) (*Exercise, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read exercise file: %w", err)
	}
	ex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if ex.ID == "" {
		base := filepath.Base(path)
		ex.ID = base[:len(base)-len(filepath.Ext(base))]
	}
	return ex, nil
}

func Parse(data []byte) (*Exercise, error) {
	var ex Exercise
	if err := toml.Unmarshal(data, &ex); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return &ex, nil
}

// LoadDir loads every *.toml exercise in dir, ordered by file name.
func LoadDir(dir string) ([]*Exercise, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	res := make([]*Exercise, 0, len(paths))
	for _, p := range paths {
		ex, err := Load(p)
		if err != nil {
			return nil, err
		}
		res = append(res, ex)
	}
	return res, nil
}
