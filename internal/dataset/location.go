package dataset

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// DefaultLocation is the well-known dataset name, resolved relative to the app root.
const DefaultLocation = "equipment_data.json"

// Location is a resolved dataset location: either a served origin (http/https)
// or a local file.
type Location struct {
	Raw  string
	URL  *url.URL // set for served origins
	Path string   // set for local files
}

// Resolve classifies loc and resolves it against root when it is a relative path.
// An empty loc means DefaultLocation.
func Resolve(root, loc string) (Location, error) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		loc = DefaultLocation
	}

	if u, err := url.Parse(loc); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			if u.Host == "" {
				return Location{}, fmt.Errorf("dataset location %q: missing host", loc)
			}
			return Location{Raw: loc, URL: u}, nil
		case "file":
			p := u.Path
			if p == "" {
				p = u.Opaque
			}
			if p == "" {
				return Location{}, fmt.Errorf("dataset location %q: empty file path", loc)
			}
			return Location{Raw: loc, Path: filepath.FromSlash(p)}, nil
		default:
			return Location{}, fmt.Errorf("dataset location %q: unsupported scheme %q", loc, u.Scheme)
		}
	}

	p := loc
	if !filepath.IsAbs(p) && root != "" {
		p = filepath.Join(root, p)
	}
	return Location{Raw: loc, Path: filepath.Clean(p)}, nil
}

// FileScheme reports whether the dataset is read from the local filesystem
// rather than fetched from a served origin.
func (l Location) FileScheme() bool { return l.URL == nil }

// Scheme is "file", "http" or "https".
func (l Location) Scheme() string {
	if l.URL == nil {
		return "file"
	}
	return strings.ToLower(l.URL.Scheme)
}

// Dir is the directory holding a local dataset; empty for served origins.
func (l Location) Dir() string {
	if l.URL != nil {
		return ""
	}
	return filepath.Dir(l.Path)
}

func (l Location) String() string {
	if l.URL != nil {
		return l.URL.String()
	}
	return l.Path
}

func (l Location) isXLSX() bool {
	name := l.Path
	if l.URL != nil {
		name = l.URL.Path
	}
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}
