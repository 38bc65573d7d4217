package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aurceive/drop_viewer/internal/dataset"
	"github.com/aurceive/drop_viewer/internal/domain"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FileName marks the app root.
const FileName = "drop_viewer.yaml"

const (
	DefaultLocale    = "zh-CN"
	DefaultListen    = ":8000"
	DefaultExportDir = "output"
	DefaultLogLevel  = "info"
)

// Loaded is a validated configuration together with where it came from.
type Loaded struct {
	domain.Config
	// Root is the directory relative paths are resolved against.
	Root string
	// Path is the config file that was read; empty when running on defaults.
	Path string
}

// FindRoot walks up from start looking for drop_viewer.yaml. When none is
// found the start directory itself is the root.
func FindRoot(start string) (root string, found bool) {
	dir := start
	for i := 0; i < 10; i++ {
		probe := filepath.Join(dir, FileName)
		if _, err := os.Stat(probe); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return start, false
}

// Load reads explicitPath, or discovers drop_viewer.yaml from cwd upwards.
// An explicit path that does not exist is an error; a missing discovered file is not.
func Load(cwd, explicitPath string) (Loaded, error) {
	var out Loaded
	if strings.TrimSpace(explicitPath) != "" {
		p, err := filepath.Abs(explicitPath)
		if err != nil {
			return Loaded{}, err
		}
		cfg, err := readFile(p)
		if err != nil {
			return Loaded{}, err
		}
		out = Loaded{Config: cfg, Root: filepath.Dir(p), Path: p}
	} else {
		root, found := FindRoot(cwd)
		out.Root = root
		if found {
			p := filepath.Join(root, FileName)
			cfg, err := readFile(p)
			if err != nil {
				return Loaded{}, err
			}
			out.Config = cfg
			out.Path = p
		}
	}

	ApplyDefaults(&out.Config)
	return out, nil
}

func readFile(path string) (domain.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Config{}, fmt.Errorf("config %s not found", path)
		}
		return domain.Config{}, err
	}
	var cfg domain.Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

func ApplyDefaults(cfg *domain.Config) {
	if strings.TrimSpace(cfg.Data) == "" {
		cfg.Data = dataset.DefaultLocation
	}
	if strings.TrimSpace(cfg.Locale) == "" {
		cfg.Locale = DefaultLocale
	}
	if strings.TrimSpace(cfg.Listen) == "" {
		cfg.Listen = DefaultListen
	}
	if strings.TrimSpace(cfg.ExportDir) == "" {
		cfg.ExportDir = DefaultExportDir
	}
	if strings.TrimSpace(cfg.DefaultSort) == "" {
		cfg.DefaultSort = string(domain.SortByName)
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// Validate checks values after defaults and flag overrides have been applied.
func Validate(cfg domain.Config) error {
	if _, err := domain.ParseSortKey(cfg.DefaultSort); err != nil {
		return fmt.Errorf("default_sort: %w", err)
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		return fmt.Errorf("locale %q: %w", cfg.Locale, err)
	}
	if strings.TrimSpace(cfg.Listen) == "" {
		return errors.New("listen must not be empty")
	}
	if _, err := dataset.Resolve("", cfg.Data); err != nil {
		return fmt.Errorf("data: %w", err)
	}
	return nil
}

// Abs resolves p against the config root unless it is already absolute.
func (l Loaded) Abs(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.Root, p)
}
