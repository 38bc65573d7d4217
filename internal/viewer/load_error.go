package viewer

import (
	"fmt"
	"path/filepath"

	"github.com/aurceive/drop_viewer/internal/dataset"
)

// DataLoadError covers every way the single dataset fetch can fail:
// transport errors, non-2xx statuses and decode errors.
type DataLoadError struct {
	Location   string
	FileScheme bool
	Err        error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load dataset from %s: %v", e.Location, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Diagnostic is the user-facing form of a DataLoadError.
type Diagnostic struct {
	Title      string
	Location   string
	Cause      string
	FileScheme bool
	// Reason explains a file-scheme failure.
	Reason string
	// Steps are remediation steps (file scheme) or a checklist (served origin).
	Steps []string
	// Reload offers a full reload; only set for served origins.
	Reload bool
}

func diagnose(loc dataset.Location, err error) Diagnostic {
	d := Diagnostic{
		Title:      "Failed to load data",
		Location:   loc.String(),
		Cause:      err.Error(),
		FileScheme: loc.FileScheme(),
	}
	if loc.FileScheme() {
		dir := loc.Dir()
		file := filepath.Base(loc.Path)
		d.Reason = "The dataset was opened straight from the local filesystem and could not be read."
		d.Steps = []string{
			fmt.Sprintf("Start the bundled static server: drop_viewer serve --static %s --data http://localhost:8000/data/%s", dir, file),
			fmt.Sprintf("Or use Python: run python3 -m http.server 8000 in %s, then pass --data http://localhost:8000/%s", dir, file),
			fmt.Sprintf("Check that %s exists and is a readable JSON array", loc.Path),
		}
		return d
	}
	d.Steps = []string{
		"equipment_data.json exists at the configured location",
		"the URL path is correct",
		"the log has no further errors",
	}
	d.Reload = true
	return d
}
