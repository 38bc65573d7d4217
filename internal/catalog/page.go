package catalog

import "github.com/aurceive/drop_viewer/internal/domain"

// ItemsPerPage is fixed for the lifetime of the process.
const ItemsPerPage = 50

// TotalPages is ceil(n / perPage); zero records means zero pages.
func TotalPages(n, perPage int) int {
	if n <= 0 || perPage <= 0 {
		return 0
	}
	return (n + perPage - 1) / perPage
}

// PageSlice returns records[(page-1)*perPage : page*perPage], clamped to the slice.
func PageSlice(records []domain.Record, page, perPage int) []domain.Record {
	if page < 1 || perPage <= 0 {
		return nil
	}
	start := (page - 1) * perPage
	if start >= len(records) {
		return nil
	}
	end := start + perPage
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// StepPage applies delta to page and reports whether the result stays within [1, totalPages].
func StepPage(page, delta, totalPages int) (int, bool) {
	next := page + delta
	if next < 1 || next > totalPages {
		return page, false
	}
	return next, true
}
