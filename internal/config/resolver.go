package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// WalkPolicy controls which directories are searched for a config file.
type WalkPolicy int

const (
	// WalkAncestors searches the target's directory and then each parent
	// up to the filesystem root. The nearest config file wins.
	WalkAncestors WalkPolicy = iota
	// WalkParent searches only the directory containing the target.
	WalkParent
)

// ParseWalkPolicy parses "ancestor" or "parent".
func ParseWalkPolicy(s string) (WalkPolicy, error) {
	switch s {
	case "", "ancestor", "ancestors":
		return WalkAncestors, nil
	case "parent":
		return WalkParent, nil
	}
	return 0, fmt.Errorf("unknown config walk policy %q (want ancestor or parent)", s)
}

func (p WalkPolicy) String() string {
	if p == WalkParent {
		return "parent"
	}
	return "ancestor"
}

// Transformer rewrites a loaded configuration before it is turned into
// settings.
type Transformer func(*Configuration) *Configuration

// Identity is the default Transformer.
func Identity(c *Configuration) *Configuration { return c }

// Resolver finds and finalizes the settings that apply to a file.
type Resolver struct {
	Policy    WalkPolicy
	Transform Transformer
	// ConfigFile, when set, is used for every target instead of
	// discovery.
	ConfigFile string
	// DefaultRoot anchors the default excludes when no config file is
	// found. Empty means the working directory.
	DefaultRoot string
	Logger      *slog.Logger
}

// NewResolver returns a Resolver with the default policy.
func NewResolver() *Resolver {
	return &Resolver{Policy: WalkAncestors, Transform: Identity}
}

// Resolve returns the settings for targetPath. When no config file is found
// the default settings are returned.
func (r *Resolver) Resolve(targetPath string) (*Settings, error) {
	path := r.ConfigFile
	if path == "" {
		abs, err := filepath.Abs(targetPath)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", targetPath, err)
		}
		if path, err = r.find(filepath.Dir(abs)); err != nil {
			return nil, err
		}
	}

	if path == "" {
		root, err := r.defaultRoot()
		if err != nil {
			return nil, err
		}
		r.logger().Debug("no config file found, using defaults", "target", targetPath)
		return DefaultSettings(root), nil
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if r.Transform != nil {
		if cfg = r.Transform(cfg); cfg == nil {
			return nil, fmt.Errorf("config transform returned nil for %s", path)
		}
	}
	settings, err := cfg.IntoSettings()
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	r.logger().Debug("resolved settings", "target", targetPath, "config", path)
	return settings, nil
}

func (r *Resolver) find(dir string) (string, error) {
	for {
		path, err := Discover(dir)
		if err != nil || path != "" {
			return path, err
		}
		if r.Policy == WalkParent {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (r *Resolver) defaultRoot() (string, error) {
	if r.DefaultRoot != "" {
		return r.DefaultRoot, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return wd, nil
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
