package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const pyprojectFile = "pyproject.toml"

// configFileNames is the ordered list of config file names to search for in
// each directory.
var configFileNames = []string{
	".pyfmt.toml",
	"pyfmt.toml",
	".pyfmt.yml",
	".pyfmt.yaml",
	pyprojectFile,
}

// Discover returns the path of the first config file found in dir,
// following the standard search order. A pyproject.toml only counts when it
// has a [tool.pyfmt] table. It returns an empty string if no config file is
// found.
func Discover(dir string) (string, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if name != pyprojectFile {
			return path, nil
		}

		ok, err := hasToolTable(path)
		if err != nil {
			return "", err
		}
		if ok {
			return path, nil
		}
	}
	return "", nil
}

// LoadFile reads and parses a pyfmt config file. The format is chosen by
// extension. Unknown keys are rejected.
func LoadFile(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := &Configuration{}
	switch {
	case filepath.Base(path) == pyprojectFile:
		cfg, err = decodePyproject(data)
		if err == nil && cfg == nil {
			err = errors.New("no [tool.pyfmt] table")
		}
	case strings.HasSuffix(path, ".yml"), strings.HasSuffix(path, ".yaml"):
		err = decodeYAML(data, cfg)
	default:
		err = decodeTOML(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config file %s: %w", path, err)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(abs)
	return cfg, nil
}

func decodeTOML(data []byte, cfg *Configuration) error {
	return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
}

func decodeYAML(data []byte, cfg *Configuration) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// decodePyproject extracts [tool.pyfmt] from a pyproject.toml. Other tables
// are not validated. It returns nil when the table is absent.
func decodePyproject(data []byte) (*Configuration, error) {
	var doc struct {
		Tool map[string]any `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	raw, ok := doc.Tool["pyfmt"]
	if !ok {
		return nil, nil
	}
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("tool.pyfmt must be a table")
	}

	// Re-encode the table so it gets the same strict decoding as a
	// standalone file.
	sub, err := toml.Marshal(table)
	if err != nil {
		return nil, err
	}
	cfg := &Configuration{}
	if err := decodeTOML(sub, cfg); err != nil {
		return nil, fmt.Errorf("tool.pyfmt: %w", err)
	}
	return cfg, nil
}

func hasToolTable(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := decodePyproject(data)
	if err != nil {
		return false, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg != nil, nil
}
