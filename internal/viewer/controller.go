package viewer

import (
	"context"
	"errors"

	"github.com/aurceive/drop_viewer/internal/catalog"
	"github.com/aurceive/drop_viewer/internal/dataset"
	"github.com/aurceive/drop_viewer/internal/domain"

	"go.uber.org/zap"
)

var ErrAlreadyLoaded = errors.New("dataset already loaded")

// State is the controller's view state. AllData is assigned once on a
// successful load; FilteredData is replaced wholesale on every interaction.
type State struct {
	AllData      []domain.Record
	FilteredData []domain.Record
	CurrentPage  int
	ItemsPerPage int
}

type Options struct {
	Source      dataset.Source
	View        View
	Collator    *catalog.Collator
	Logger      *zap.Logger
	DefaultSort domain.SortKey
}

// Controller owns the dataset, the filtered view and pagination. It is not
// safe for concurrent use: front ends call it from a single dispatch goroutine.
type Controller struct {
	source   dataset.Source
	view     View
	collator *catalog.Collator
	logger   *zap.Logger

	state State

	// control values
	search      string
	category    string
	sortKey     domain.SortKey
	defaultSort domain.SortKey

	loaded  bool
	loadErr *DataLoadError
	detail  *Detail
}

func New(opts Options) *Controller {
	c := &Controller{
		source:      opts.Source,
		view:        opts.View,
		collator:    opts.Collator,
		logger:      opts.Logger,
		defaultSort: opts.DefaultSort,
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.collator == nil {
		c.collator, _ = catalog.NewCollator("und")
	}
	if c.defaultSort == "" {
		c.defaultSort = domain.SortByName
	}
	c.sortKey = c.defaultSort
	c.state = State{
		AllData:      []domain.Record{},
		FilteredData: []domain.Record{},
		CurrentPage:  1,
		ItemsPerPage: catalog.ItemsPerPage,
	}
	return c
}

// Start loads the dataset and performs the first render, even when the load failed.
func (c *Controller) Start(ctx context.Context) error {
	err := c.Load(ctx)
	c.Render()
	return err
}

// Load fetches the dataset and completes it. It blocks until the fetch returns.
func (c *Controller) Load(ctx context.Context) error {
	c.view.ShowLoading()
	records, err := c.source.Fetch(ctx)
	return c.Complete(records, err)
}

// Complete applies the outcome of a fetch. Front ends that fetch
// asynchronously call it back on their dispatch goroutine.
func (c *Controller) Complete(records []domain.Record, err error) error {
	if c.loaded {
		return ErrAlreadyLoaded
	}
	loc := c.source.Location()
	if err != nil {
		le := &DataLoadError{Location: loc.String(), FileScheme: loc.FileScheme(), Err: err}
		c.loadErr = le
		c.logger.Error("dataset load failed",
			zap.String("location", le.Location),
			zap.String("scheme", loc.Scheme()),
			zap.Error(err))
		c.view.LoadFailed(diagnose(loc, err))
		return le
	}

	c.loaded = true
	c.loadErr = nil
	c.state.AllData = catalog.Clone(records)
	c.state.FilteredData = catalog.Clone(records)
	c.state.CurrentPage = 1
	c.logger.Info("dataset loaded",
		zap.String("location", loc.String()),
		zap.Int("records", len(records)))
	c.view.Loaded(len(c.state.AllData))
	return nil
}

// Search filters by a case-insensitive substring of name or best monster.
// An empty keyword falls back to the category filter alone.
func (c *Controller) Search(keyword string) {
	c.search = keyword
	kw := catalog.NormalizeKeyword(keyword)
	if kw == "" {
		c.ApplyFilters()
		return
	}
	c.state.FilteredData = catalog.Search(c.state.AllData, kw)
	c.state.CurrentPage = 1
	c.logger.Debug("search", zap.String("keyword", kw), zap.Int("matches", len(c.state.FilteredData)))
	c.Render()
}

// SelectCategory sets the category selector and applies it.
func (c *Controller) SelectCategory(category string) {
	c.category = category
	c.ApplyFilters()
}

// ApplyFilters rebuilds the view from the selected category alone; an active
// search is discarded rather than combined.
func (c *Controller) ApplyFilters() {
	c.state.FilteredData = catalog.SelectByType(c.state.AllData, c.category)
	c.state.CurrentPage = 1
	c.logger.Debug("filter", zap.String("type", c.category), zap.Int("matches", len(c.state.FilteredData)))
	c.Render()
}

// ApplySort sorts the current view in place. The page is kept.
func (c *Controller) ApplySort(key domain.SortKey) {
	c.sortKey = key
	catalog.SortRecords(c.state.FilteredData, key, c.collator)
	c.logger.Debug("sort", zap.String("key", string(key)))
	c.Render()
}

// Reset clears search and category and restores the default sort selector.
// The view returns to load order; it is not re-sorted.
func (c *Controller) Reset() {
	c.search = ""
	c.category = ""
	c.sortKey = c.defaultSort
	c.state.FilteredData = catalog.Clone(c.state.AllData)
	c.state.CurrentPage = 1
	c.Render()
}

// ChangePage moves by delta when the target page exists and reports whether it moved.
func (c *Controller) ChangePage(delta int) bool {
	total := catalog.TotalPages(len(c.state.FilteredData), c.state.ItemsPerPage)
	next, ok := catalog.StepPage(c.state.CurrentPage, delta, total)
	if !ok {
		return false
	}
	c.state.CurrentPage = next
	c.Render()
	c.view.ScrollToTop()
	return true
}

// Render redraws the full page.
func (c *Controller) Render() {
	c.view.Render(c.Page())
}

// Page builds the current page without rendering it.
func (c *Controller) Page() Page {
	n := len(c.state.FilteredData)
	total := catalog.TotalPages(n, c.state.ItemsPerPage)
	if c.state.CurrentPage > total {
		c.state.CurrentPage = max(1, total)
	}
	if c.state.CurrentPage < 1 {
		c.state.CurrentPage = 1
	}

	visible := catalog.PageSlice(c.state.FilteredData, c.state.CurrentPage, c.state.ItemsPerPage)
	p := Page{
		Rows:         make([]Row, 0, len(visible)),
		Empty:        len(visible) == 0,
		CurrentPage:  c.state.CurrentPage,
		TotalPages:   total,
		PrevDisabled: c.state.CurrentPage == 1,
		NextDisabled: c.state.CurrentPage == total || total == 0,
		DisplayCount: n,
		TotalCount:   len(c.state.AllData),
		Search:       c.search,
		Category:     c.category,
		SortKey:      c.sortKey,
		Categories:   catalog.Types(c.state.AllData),
	}
	for _, r := range visible {
		p.Rows = append(p.Rows, rowOf(r))
	}
	if !p.Empty {
		p.First = (c.state.CurrentPage-1)*c.state.ItemsPerPage + 1
		p.Last = p.First + len(visible) - 1
	}
	return p
}

// ShowDetail opens the detail for the record with exactly this name.
// It reports false and changes nothing when no such record exists.
func (c *Controller) ShowDetail(name string) bool {
	r, ok := catalog.FindByName(c.state.AllData, name)
	if !ok {
		return false
	}
	d := detailOf(r)
	c.detail = &d
	c.view.OpenDetail(d)
	return true
}

func (c *Controller) CloseDetail() {
	c.detail = nil
	c.view.CloseDetail()
}

// State returns the current state. The slices are shared and must not be modified.
func (c *Controller) State() State { return c.state }

func (c *Controller) CurrentPage() int { return c.state.CurrentPage }

func (c *Controller) TotalPages() int {
	return catalog.TotalPages(len(c.state.FilteredData), c.state.ItemsPerPage)
}

func (c *Controller) Loaded() bool { return c.loaded }

// LoadError returns the last load failure, if any.
func (c *Controller) LoadError() *DataLoadError { return c.loadErr }

func (c *Controller) Detail() (Detail, bool) {
	if c.detail == nil {
		return Detail{}, false
	}
	return *c.detail, true
}

func (c *Controller) SearchText() string { return c.search }

func (c *Controller) Category() string { return c.category }

func (c *Controller) SortKey() domain.SortKey { return c.sortKey }

// Categories lists the dataset's categories in first-seen order.
func (c *Controller) Categories() []catalog.TypeCount { return catalog.Types(c.state.AllData) }
