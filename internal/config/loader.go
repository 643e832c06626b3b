package config

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultFS embed.FS

func loadYAML(fsys fs.FS, name string, out any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func loadTables(fsys fs.FS) (*Tables, error) {
	t := &Tables{}
	if err := loadYAML(fsys, "floors.yaml", &t.Floors); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "enemies.yaml", &t.Enemies); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "bosses.yaml", &t.Bosses); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "curses.yaml", &t.Curses); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "match.yaml", &t.Match); err != nil {
		return nil, err
	}
	t.fillDefaults()
	if err := t.index(); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadAll reads every table from dir. The result is immutable once returned.
func LoadAll(dir string) (*Tables, error) {
	t, err := loadTables(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("load tables from %s: %w", dir, err)
	}
	return t, nil
}

var loadDefault = sync.OnceValues(func() (*Tables, error) {
	sub, err := fs.Sub(defaultFS, "defaults")
	if err != nil {
		return nil, err
	}
	return loadTables(sub)
})

// Default returns the embedded tables, decoded once per process and shared
// read-only by every match.
func Default() (*Tables, error) {
	return loadDefault()
}

func MustDefault() *Tables {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}
