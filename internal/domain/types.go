package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Data is the dataset location: a path, a file:// URL or an http(s) URL.
	// Relative paths are resolved against the app root.
	Data   string `yaml:"data"`
	Locale string `yaml:"locale"`
	Listen string `yaml:"listen"`
	// StaticDir optionally points to a directory served under /data/ by `serve`.
	StaticDir   string `yaml:"static_dir"`
	ExportDir   string `yaml:"export_dir"`
	DefaultSort string `yaml:"default_sort"`
	LogLevel    string `yaml:"log_level"`
}

func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	if value != nil && value.Kind == yaml.MappingNode {
		allowed := map[string]struct{}{
			"data":         {},
			"locale":       {},
			"listen":       {},
			"static_dir":   {},
			"export_dir":   {},
			"default_sort": {},
			"log_level":    {},
		}

		for i := 0; i+1 < len(value.Content); i += 2 {
			k := value.Content[i]
			if k.Kind != yaml.ScalarNode {
				continue
			}
			if _, ok := allowed[k.Value]; !ok {
				return fmt.Errorf("config: unsupported key %q", k.Value)
			}
		}
	}

	type raw Config
	var tmp raw
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*c = Config(tmp)
	return nil
}

// Record is one equipment item with its drop statistics.
type Record struct {
	Name             string      `json:"name"`
	Type             string      `json:"type"`
	BestMonster      string      `json:"bestMonster,omitempty"`
	BestProbability  string      `json:"bestProbability,omitempty"`
	ProbabilityValue float64     `json:"probabilityValue"`
	AllDrops         []DropEntry `json:"allDrops"`
}

type DropEntry struct {
	Monster     string  `json:"monster"`
	Probability string  `json:"probability"`
	Denominator float64 `json:"denominator"`
}

type SortKey string

const (
	SortByName        SortKey = "name"
	SortByType        SortKey = "type"
	SortByProbability SortKey = "probability"
)

// SortKeys lists the keys offered by the sort selector, default first.
var SortKeys = []SortKey{SortByName, SortByType, SortByProbability}

func (k SortKey) Label() string {
	switch k {
	case SortByName:
		return "Name"
	case SortByType:
		return "Type"
	case SortByProbability:
		return "Drop rate"
	default:
		return string(k)
	}
}

// ParseSortKey accepts the selector values plus the record field name
// "probabilityValue" as an alias.
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "", "name":
		return SortByName, nil
	case "type":
		return SortByType, nil
	case "probability", "probabilityValue":
		return SortByProbability, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (expected name|type|probability)", s)
	}
}
