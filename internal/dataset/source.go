package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/aurceive/drop_viewer/internal/domain"
)

// Source fetches the full dataset once.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Record, error)
	Location() Location
}

// StatusError is returned when a served origin answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dataset status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Open returns the source matching the location's scheme.
func Open(loc Location, userAgent string) Source {
	if loc.FileScheme() {
		return &FileSource{loc: loc}
	}
	return NewHTTPSource(loc, userAgent)
}

type HTTPSource struct {
	loc        Location
	httpClient *http.Client
	userAgent  string
}

// NewHTTPSource uses a client without a timeout: the only deadline is the caller's context.
func NewHTTPSource(loc Location, userAgent string) *HTTPSource {
	return &HTTPSource{
		loc:        loc,
		httpClient: &http.Client{},
		userAgent:  userAgent,
	}
}

func (s *HTTPSource) Location() Location { return s.loc }

func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.Record, error) {
	u := s.loc.URL.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode, Body: string(b)}
	}

	if s.loc.isXLSX() {
		records, err := ImportXLSXReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decode xlsx from %s: %w", u, err)
		}
		return records, nil
	}
	records, err := decodeJSON(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode json from %s: %w", u, err)
	}
	return records, nil
}

type FileSource struct {
	loc Location
}

func NewFileSource(loc Location) *FileSource { return &FileSource{loc: loc} }

func (s *FileSource) Location() Location { return s.loc }

func (s *FileSource) Fetch(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.loc.isXLSX() {
		return ImportXLSX(s.loc.Path)
	}
	f, err := os.Open(s.loc.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := decodeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("decode json %s: %w", s.loc.Path, err)
	}
	return records, nil
}

func decodeJSON(r io.Reader) ([]domain.Record, error) {
	var records []domain.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}
