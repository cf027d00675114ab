// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package config loads formatter settings from a configuration file.
//
// YAML files (.yaml, .yml) and JSON files (.json, .hujson) are supported.
// JSON files may contain comments and trailing commas. For example:
//
//	indent: tab
//	relaxed: true
//
// or
//
//	{
//	  // Four spaces, to match the house style.
//	  "indent": "space",
//	  "width": 4,
//	}
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/creachadair/jfmt/ast"
	"github.com/creachadair/jfmt/format"
	"github.com/creachadair/jfmt/pretty"
)

// EnvVar names the environment variable consulted for the configuration file
// path when none is given explicitly.
const EnvVar = "JFMT_CONFIG"

// DefaultMaxBytes is the default limit on the size of an input.
const DefaultMaxBytes = 8 << 20

// Config holds formatter settings.
type Config struct {
	Indent   string `yaml:"indent"`    // "space" or "tab"
	Width    int    `yaml:"width"`     // spaces per level, for space indents
	Relaxed  bool   `yaml:"relaxed"`   // accept comments and trailing commas
	MaxBytes int64  `yaml:"max_bytes"` // maximum input size in bytes
}

// Default returns the default settings.
func Default() Config {
	return Config{
		Indent:   "space",
		Width:    pretty.DefaultWidth,
		MaxBytes: DefaultMaxBytes,
	}
}

// Path returns the configuration file path to use: explicit if it is
// non-empty, otherwise the value of $JFMT_CONFIG. An empty result means no
// file should be read.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(EnvVar)
}

// Load reads the configuration file at path over the default settings.
// If path is empty, Load returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = cfg.decodeYAML(data)
	case ".json", ".hujson":
		err = cfg.decodeJSON(data)
	default:
		return cfg, fmt.Errorf("config %s: unsupported file type %q", path, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decodeYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) decodeJSON(data []byte) error {
	std, err := hujson.Standardize(data)
	if err != nil {
		return err
	}
	v, err := ast.ParseSingle(bytes.NewReader(std))
	if err != nil {
		return err
	}
	obj, ok := v.(ast.Object)
	if !ok {
		return errors.New("settings must be a JSON object")
	}
	for _, m := range obj {
		var err error
		switch m.Key {
		case "indent":
			c.Indent, err = stringSetting(m)
		case "width":
			var z int64
			z, err = intSetting(m)
			c.Width = int(z)
		case "relaxed":
			c.Relaxed, err = boolSetting(m)
		case "max_bytes":
			c.MaxBytes, err = intSetting(m)
		default:
			err = fmt.Errorf("unknown setting %q", m.Key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func stringSetting(m *ast.Member) (string, error) {
	if s, ok := m.Value.(ast.String); ok {
		return string(s), nil
	}
	return "", fmt.Errorf("setting %q must be a string", m.Key)
}

func intSetting(m *ast.Member) (int64, error) {
	if n, ok := m.Value.(ast.Number); ok && n.IsInt() {
		return strconv.ParseInt(string(n), 10, 64)
	}
	return 0, fmt.Errorf("setting %q must be an integer", m.Key)
}

func boolSetting(m *ast.Member) (bool, error) {
	if b, ok := m.Value.(ast.Bool); ok {
		return bool(b), nil
	}
	return false, fmt.Errorf("setting %q must be true or false", m.Key)
}

// Validate reports whether c describes a usable configuration.
func (c Config) Validate() error {
	if _, err := pretty.ParseIndent(c.Indent, c.Width); err != nil {
		return err
	}
	if c.MaxBytes <= 0 {
		return fmt.Errorf("invalid max_bytes %d: must be positive", c.MaxBytes)
	}
	return nil
}

// Options returns the formatting options described by c.
func (c Config) Options() (format.Options, error) {
	in, err := pretty.ParseIndent(c.Indent, c.Width)
	if err != nil {
		return format.Options{}, err
	}
	return format.Options{Indent: in, Relaxed: c.Relaxed}, nil
}
