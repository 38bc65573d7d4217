package tui

import "github.com/aurceive/drop_viewer/internal/viewer"

// screen is the controller's View inside the bubbletea program. It is only
// touched from Update, so it needs no locking.
type screen struct {
	loading   bool
	failed    *viewer.Diagnostic
	total     int
	page      viewer.Page
	detail    *viewer.Detail
	scrollTop bool
}

func (s *screen) ShowLoading() { s.loading = true }

func (s *screen) Loaded(total int) {
	s.loading = false
	s.failed = nil
	s.total = total
}

func (s *screen) LoadFailed(d viewer.Diagnostic) {
	s.loading = false
	s.failed = &d
}

func (s *screen) Render(p viewer.Page) { s.page = p }

func (s *screen) ScrollToTop() { s.scrollTop = true }

func (s *screen) OpenDetail(d viewer.Detail) { s.detail = &d }

func (s *screen) CloseDetail() { s.detail = nil }
