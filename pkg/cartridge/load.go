package cartridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files that are not YAML, JSON or Lua.
var ErrUnsupportedFormat = errors.New("unsupported cartridge format")

// LoadFile reads, strictly decodes and builds a cartridge.
func LoadFile(path string) (*Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cartridge: %w", err)
	}
	g, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if g.ID == "" {
		g.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := g.Build(); err != nil {
		return nil, err
	}
	return g, nil
}

// Decode parses cartridge bytes. ext selects the format (".yaml", ".yml",
// ".json" or ".lua"). Unknown fields are rejected. The returned game is not
// built.
func Decode(data []byte, ext string) (*Game, error) {
	var g Game
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&g); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&g); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
	case ".lua":
		return decodeLua(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return &g, nil
}

// LoadDir loads every cartridge file in dir, keyed by game id.
func LoadDir(dir string) (map[string]*Game, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cartridge dir: %w", err)
	}
	games := make(map[string]*Game)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json", ".lua":
		default:
			continue
		}
		g, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := games[g.ID]; dup {
			return nil, fmt.Errorf("duplicate cartridge id %q in %s", g.ID, dir)
		}
		games[g.ID] = g
	}
	return games, nil
}
