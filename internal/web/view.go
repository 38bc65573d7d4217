package web

import (
	"github.com/aurceive/drop_viewer/internal/viewer"
)

// pageView keeps the last state the controller pushed, ready to be rendered
// into HTML by the next GET /.
type pageView struct {
	loading   bool
	failed    *viewer.Diagnostic
	total     int
	page      viewer.Page
	detail    *viewer.Detail
	scrollTop bool
}

func (v *pageView) ShowLoading() { v.loading = true }

func (v *pageView) Loaded(total int) {
	v.loading = false
	v.failed = nil
	v.total = total
}

func (v *pageView) LoadFailed(d viewer.Diagnostic) {
	v.loading = false
	v.failed = &d
}

func (v *pageView) Render(p viewer.Page) { v.page = p }

func (v *pageView) ScrollToTop() { v.scrollTop = true }

func (v *pageView) OpenDetail(d viewer.Detail) { v.detail = &d }

func (v *pageView) CloseDetail() { v.detail = nil }

// takeScroll reports and clears a pending scroll-to-top request.
func (v *pageView) takeScroll() bool {
	s := v.scrollTop
	v.scrollTop = false
	return s
}
