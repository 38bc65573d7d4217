package viewer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aurceive/drop_viewer/internal/dataset"
	"github.com/aurceive/drop_viewer/internal/domain"
	"github.com/aurceive/drop_viewer/internal/viewer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	loc     dataset.Location
	records []domain.Record
	err     error
	calls   int
}

func (s *fakeSource) Fetch(ctx context.Context) ([]domain.Record, error) {
	s.calls++
	return s.records, s.err
}

func (s *fakeSource) Location() dataset.Location { return s.loc }

type fakeView struct {
	loading   int
	loaded    []int
	failures  []viewer.Diagnostic
	pages     []viewer.Page
	scrolls   int
	detail    *viewer.Detail
	closes    int
	callOrder []string
}

func (v *fakeView) ShowLoading() {
	v.loading++
	v.callOrder = append(v.callOrder, "loading")
}

func (v *fakeView) Loaded(total int) {
	v.loaded = append(v.loaded, total)
	v.callOrder = append(v.callOrder, "loaded")
}

func (v *fakeView) LoadFailed(d viewer.Diagnostic) {
	v.failures = append(v.failures, d)
	v.callOrder = append(v.callOrder, "failed")
}

func (v *fakeView) Render(p viewer.Page) {
	v.pages = append(v.pages, p)
	v.callOrder = append(v.callOrder, "render")
}

func (v *fakeView) ScrollToTop() {
	v.scrolls++
	v.callOrder = append(v.callOrder, "scroll")
}

func (v *fakeView) OpenDetail(d viewer.Detail) { v.detail = &d }

func (v *fakeView) CloseDetail() {
	v.detail = nil
	v.closes++
}

func (v *fakeView) last() viewer.Page { return v.pages[len(v.pages)-1] }

func mustResolve(t *testing.T, loc string) dataset.Location {
	t.Helper()
	l, err := dataset.Resolve(t.TempDir(), loc)
	require.NoError(t, err)
	return l
}

func generated(n int) []domain.Record {
	out := make([]domain.Record, n)
	types := []string{"Sword", "Bow", "Staff"}
	for i := range out {
		out[i] = domain.Record{
			Name:             fmt.Sprintf("Item %03d", i+1),
			Type:             types[i%len(types)],
			BestMonster:      fmt.Sprintf("Monster %d", i%7),
			BestProbability:  fmt.Sprintf("1/%d", 100+i),
			ProbabilityValue: 1 / float64(100+i),
		}
	}
	return out
}

func threeWeapons() []domain.Record {
	return []domain.Record{
		{Name: "Iron Sword", Type: "Sword", BestMonster: "Goblin", BestProbability: "1/10", ProbabilityValue: 0.1},
		{Name: "Long Bow", Type: "Bow", BestMonster: "Skeleton Archer", BestProbability: "1/50", ProbabilityValue: 0.02},
		{
			Name: "Dragon Sword", Type: "Sword", BestMonster: "B", BestProbability: "1/100", ProbabilityValue: 0.01,
			AllDrops: []domain.DropEntry{
				{Monster: "A", Probability: "1/500", Denominator: 500},
				{Monster: "B", Probability: "1/100", Denominator: 100},
			},
		},
	}
}

func started(t *testing.T, records []domain.Record) (*viewer.Controller, *fakeView) {
	t.Helper()
	view := &fakeView{}
	src := &fakeSource{loc: mustResolve(t, "http://localhost:8000/equipment_data.json"), records: records}
	ctrl := viewer.New(viewer.Options{Source: src, View: view})
	require.NoError(t, ctrl.Start(context.Background()))
	return ctrl, view
}

func TestStart_LoadsAndRendersFirstPage(t *testing.T) {
	ctrl, view := started(t, generated(120))

	assert.Equal(t, []string{"loading", "loaded", "render"}, view.callOrder)
	assert.Equal(t, []int{120}, view.loaded)
	assert.True(t, ctrl.Loaded())

	p := view.last()
	assert.Len(t, p.Rows, 50)
	assert.Equal(t, "Page 1 / 3", p.Info())
	assert.Equal(t, 1, p.First)
	assert.Equal(t, 50, p.Last)
	assert.Equal(t, 120, p.DisplayCount)
	assert.True(t, p.PrevDisabled)
	assert.False(t, p.NextDisabled)
	assert.Equal(t, domain.SortByName, p.SortKey)
	assert.Equal(t, "Item 001", p.Rows[0].Name)
}

func TestChangePage_WalksAllPagesAndStopsAtBounds(t *testing.T) {
	ctrl, view := started(t, generated(120))

	assert.False(t, ctrl.ChangePage(-1))
	assert.Equal(t, 1, ctrl.CurrentPage())
	assert.Zero(t, view.scrolls)

	require.True(t, ctrl.ChangePage(1))
	p := view.last()
	assert.Equal(t, 51, p.First)
	assert.Equal(t, 100, p.Last)
	assert.Equal(t, "Item 051", p.Rows[0].Name)
	assert.False(t, p.PrevDisabled)

	require.True(t, ctrl.ChangePage(1))
	p = view.last()
	assert.Equal(t, 101, p.First)
	assert.Equal(t, 120, p.Last)
	assert.Len(t, p.Rows, 20)
	assert.True(t, p.NextDisabled)
	assert.Equal(t, "Page 3 / 3", p.Info())

	renders := len(view.pages)
	assert.False(t, ctrl.ChangePage(1))
	assert.Equal(t, renders, len(view.pages), "a rejected step must not render")
	assert.Equal(t, 2, view.scrolls)
}

func TestSearch_ResetsPageAndMatchesMonster(t *testing.T) {
	ctrl, view := started(t, threeWeapons())

	ctrl.Search("archer")
	p := view.last()
	require.Len(t, p.Rows, 1)
	assert.Equal(t, "Long Bow", p.Rows[0].Name)
	assert.Equal(t, 1, p.DisplayCount)
	assert.Equal(t, 3, p.TotalCount)

	ctrl.Search("nothing matches this")
	p = view.last()
	assert.True(t, p.Empty)
	assert.Equal(t, 0, p.DisplayCount)
	assert.Equal(t, "Page 1 / 0", p.Info())
	assert.True(t, p.PrevDisabled)
	assert.True(t, p.NextDisabled)
}

func TestSearch_EmptyKeywordFallsBackToCategory(t *testing.T) {
	ctrl, view := started(t, threeWeapons())

	ctrl.SelectCategory("Sword")
	ctrl.Search("bow")
	ctrl.Search("   ")
	p := view.last()
	assert.Equal(t, 2, p.DisplayCount)
	for _, r := range p.Rows {
		assert.Equal(t, "Sword", r.Type)
	}
}

func TestSearchAndCategory_ReplaceEachOther(t *testing.T) {
	ctrl, view := started(t, threeWeapons())

	ctrl.Search("bow")
	ctrl.SelectCategory("Sword")
	assert.Equal(t, 2, view.last().DisplayCount, "category filter ignores the active search")

	ctrl.Search("long")
	p := view.last()
	require.Len(t, p.Rows, 1)
	assert.Equal(t, "Long Bow", p.Rows[0].Name, "search ignores the selected category")
	assert.Equal(t, "Sword", p.Category)
}

func TestApplySort_SortsViewByEachKey(t *testing.T) {
	ctrl, view := started(t, threeWeapons())

	ctrl.ApplySort(domain.SortByProbability)
	p := view.last()
	assert.Equal(t, []string{"Dragon Sword", "Long Bow", "Iron Sword"}, rowNames(p))
	assert.Equal(t, domain.SortByProbability, p.SortKey)

	ctrl.ApplySort(domain.SortByName)
	assert.Equal(t, []string{"Dragon Sword", "Iron Sword", "Long Bow"}, rowNames(view.last()))

	ctrl.ApplySort(domain.SortByType)
	assert.Equal(t, []string{"Long Bow", "Dragon Sword", "Iron Sword"}, rowNames(view.last()), "type sort is stable over the current view")
}

func TestApplySort_DoesNotReorderAllData(t *testing.T) {
	ctrl, _ := started(t, threeWeapons())
	ctrl.ApplySort(domain.SortByName)
	assert.Equal(t, "Iron Sword", ctrl.State().AllData[0].Name)
}

func TestReset_RestoresLoadOrderAndDefaultSort(t *testing.T) {
	ctrl, view := started(t, generated(120))

	ctrl.ApplySort(domain.SortByProbability)
	ctrl.SelectCategory("Bow")
	ctrl.ChangePage(1)
	ctrl.Reset()

	p := view.last()
	assert.Equal(t, "", p.Search)
	assert.Equal(t, "", p.Category)
	assert.Equal(t, domain.SortByName, p.SortKey)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 120, p.DisplayCount)
	assert.Equal(t, "Item 001", p.Rows[0].Name)
}

func TestShowDetail_RanksDropsByDenominator(t *testing.T) {
	ctrl, view := started(t, threeWeapons())

	require.True(t, ctrl.ShowDetail("Dragon Sword"))
	require.NotNil(t, view.detail)
	d := *view.detail
	assert.Equal(t, "Dragon Sword - Details", d.Title())
	require.Len(t, d.Drops, 2)
	assert.Equal(t, viewer.RankedDrop{Rank: 1, Monster: "B", Probability: "1/100", Denominator: 100}, d.Drops[0])
	assert.Equal(t, viewer.RankedDrop{Rank: 2, Monster: "A", Probability: "1/500", Denominator: 500}, d.Drops[1])

	got, ok := ctrl.Detail()
	assert.True(t, ok)
	assert.Equal(t, d, got)

	ctrl.CloseDetail()
	assert.Nil(t, view.detail)
	_, ok = ctrl.Detail()
	assert.False(t, ok)
}

func TestShowDetail_UnknownNameIsNoop(t *testing.T) {
	ctrl, view := started(t, threeWeapons())
	assert.False(t, ctrl.ShowDetail("dragon sword"))
	assert.Nil(t, view.detail)
}

func TestShowDetail_SearchesAllDataNotJustView(t *testing.T) {
	ctrl, view := started(t, threeWeapons())
	ctrl.SelectCategory("Bow")
	require.True(t, ctrl.ShowDetail("Iron Sword"))
	assert.Equal(t, "Sword", view.detail.Type)
}

func TestRows_FallbackText(t *testing.T) {
	_, view := started(t, []domain.Record{{Name: "Mystery Ring", Type: "Ring"}})
	r := view.last().Rows[0]
	assert.Equal(t, viewer.UnknownMonster, r.BestMonster)
	assert.Equal(t, viewer.UnknownProbability, r.BestProbability)
	assert.Zero(t, r.DropCount)
}

func TestStart_EmptyDataset(t *testing.T) {
	_, view := started(t, nil)
	p := view.last()
	assert.True(t, p.Empty)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, []int{0}, view.loaded)
}

func TestLoad_HTTPFailureOffersReload(t *testing.T) {
	view := &fakeView{}
	src := &fakeSource{
		loc: mustResolve(t, "http://localhost:8000/equipment_data.json"),
		err: &dataset.StatusError{URL: "http://localhost:8000/equipment_data.json", StatusCode: 404},
	}
	ctrl := viewer.New(viewer.Options{Source: src, View: view})

	err := ctrl.Start(context.Background())
	var le *viewer.DataLoadError
	require.ErrorAs(t, err, &le)
	assert.False(t, le.FileScheme)
	var se *dataset.StatusError
	assert.ErrorAs(t, err, &se)

	require.Len(t, view.failures, 1)
	d := view.failures[0]
	assert.True(t, d.Reload)
	assert.False(t, d.FileScheme)
	assert.Len(t, d.Steps, 3)
	assert.Equal(t, "Failed to load data", d.Title)

	assert.False(t, ctrl.Loaded())
	assert.Empty(t, ctrl.State().AllData)
	assert.Equal(t, le, ctrl.LoadError())
}

func TestLoad_FileFailureExplainsServing(t *testing.T) {
	view := &fakeView{}
	src := &fakeSource{loc: mustResolve(t, "equipment_data.json"), err: errors.New("open: no such file")}
	ctrl := viewer.New(viewer.Options{Source: src, View: view})

	require.Error(t, ctrl.Start(context.Background()))
	require.Len(t, view.failures, 1)
	d := view.failures[0]
	assert.True(t, d.FileScheme)
	assert.False(t, d.Reload)
	assert.NotEmpty(t, d.Reason)
	require.Len(t, d.Steps, 3)
	assert.Contains(t, d.Steps[0], "drop_viewer serve")
	assert.Contains(t, d.Steps[1], "python3 -m http.server 8000")
}

func TestComplete_OnlyOnceAfterSuccess(t *testing.T) {
	view := &fakeView{}
	src := &fakeSource{loc: mustResolve(t, "http://example.com/data.json")}
	ctrl := viewer.New(viewer.Options{Source: src, View: view})

	require.Error(t, ctrl.Complete(nil, errors.New("boom")))
	require.NoError(t, ctrl.Complete(threeWeapons(), nil))
	assert.ErrorIs(t, ctrl.Complete(generated(5), nil), viewer.ErrAlreadyLoaded)
	assert.Len(t, ctrl.State().AllData, 3)
	assert.Nil(t, ctrl.LoadError())
}

func TestInteractionsBeforeLoadRenderEmpty(t *testing.T) {
	view := &fakeView{}
	src := &fakeSource{loc: mustResolve(t, "http://example.com/data.json")}
	ctrl := viewer.New(viewer.Options{Source: src, View: view})

	ctrl.Search("sword")
	assert.True(t, view.last().Empty)
	assert.False(t, ctrl.ChangePage(1))
	assert.False(t, ctrl.ShowDetail("Iron Sword"))
}

func rowNames(p viewer.Page) []string {
	out := make([]string, 0, len(p.Rows))
	for _, r := range p.Rows {
		out = append(out, r.Name)
	}
	return out
}

// onPage starts on 120 generated records and moves to page n.
func onPage(t *testing.T, n int) (*viewer.Controller, *fakeView) {
	t.Helper()
	ctrl, view := started(t, generated(120))
	for ctrl.CurrentPage() < n {
		require.True(t, ctrl.ChangePage(1))
	}
	require.Equal(t, n, ctrl.CurrentPage())
	return ctrl, view
}

func TestSearch_ReturnsToFirstPage(t *testing.T) {
	ctrl, view := onPage(t, 3)

	// Every record matches, so page 3 would still exist.
	ctrl.Search("item")
	assert.Equal(t, 1, ctrl.CurrentPage())
	assert.Equal(t, 120, view.last().DisplayCount)
	assert.Equal(t, "Item 001", view.last().Rows[0].Name)
}

func TestSelectCategory_ReturnsToFirstPage(t *testing.T) {
	ctrl, view := onPage(t, 2)

	ctrl.SelectCategory("")
	assert.Equal(t, 1, ctrl.CurrentPage())
	assert.Equal(t, 1, view.last().First)
}

func TestReset_ReturnsToFirstPage(t *testing.T) {
	ctrl, view := onPage(t, 3)

	ctrl.Reset()
	assert.Equal(t, 1, ctrl.CurrentPage())
	assert.Equal(t, "Page 1 / 3", view.last().Info())
}

func TestApplySort_KeepsCurrentPage(t *testing.T) {
	ctrl, view := onPage(t, 2)

	ctrl.ApplySort(domain.SortByProbability)
	assert.Equal(t, 2, ctrl.CurrentPage())
	p := view.last()
	assert.Equal(t, 51, p.First)
	assert.Equal(t, 100, p.Last)
	// Values fall as the index grows, so ascending order reverses the load order.
	assert.Equal(t, "Item 070", p.Rows[0].Name)

	ctrl.ApplySort(domain.SortByName)
	assert.Equal(t, 2, ctrl.CurrentPage())
	assert.Equal(t, "Item 051", view.last().Rows[0].Name)
}

func TestSelectCategory_SmallCategoryFitsOnePage(t *testing.T) {
	records := generated(120)
	for _, i := range []int{10, 60, 110} {
		records[i].Type = "Ring"
	}
	ctrl, view := started(t, records)
	require.True(t, ctrl.ChangePage(1))

	ctrl.SelectCategory("Ring")
	assert.Len(t, ctrl.State().FilteredData, 3)
	assert.Equal(t, 1, ctrl.CurrentPage())
	assert.Equal(t, 1, ctrl.TotalPages())

	p := view.last()
	assert.Equal(t, "Page 1 / 1", p.Info())
	assert.True(t, p.PrevDisabled)
	assert.True(t, p.NextDisabled)
	assert.Equal(t, []string{"Item 011", "Item 061", "Item 111"}, rowNames(p))
}
