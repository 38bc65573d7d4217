package viewer

import (
	"fmt"

	"github.com/aurceive/drop_viewer/internal/catalog"
	"github.com/aurceive/drop_viewer/internal/domain"
)

// Fallback display text for optional record fields.
const (
	UnknownMonster     = "Unknown"
	UnknownProbability = "-"
)

// View is the rendering boundary. The controller calls it synchronously from
// the front end's dispatch goroutine.
type View interface {
	ShowLoading()
	Loaded(total int)
	LoadFailed(d Diagnostic)
	Render(p Page)
	ScrollToTop()
	OpenDetail(d Detail)
	CloseDetail()
}

type Row struct {
	Name             string
	Type             string
	BestMonster      string
	BestProbability  string
	ProbabilityValue float64
	DropCount        int
}

// Page is everything a view needs for one full redraw.
type Page struct {
	Rows         []Row
	Empty        bool
	CurrentPage  int
	TotalPages   int
	PrevDisabled bool
	NextDisabled bool
	// First and Last are 1-based positions of the visible rows in the filtered view.
	First        int
	Last         int
	DisplayCount int
	TotalCount   int

	Search     string
	Category   string
	SortKey    domain.SortKey
	Categories []catalog.TypeCount
}

func (p Page) Info() string {
	return fmt.Sprintf("Page %d / %d", p.CurrentPage, p.TotalPages)
}

type RankedDrop struct {
	Rank        int
	Monster     string
	Probability string
	Denominator float64
}

type Detail struct {
	Name            string
	Type            string
	BestMonster     string
	BestProbability string
	Drops           []RankedDrop
}

func (d Detail) Title() string {
	return d.Name + " - Details"
}

func rowOf(r domain.Record) Row {
	row := Row{
		Name:             r.Name,
		Type:             r.Type,
		BestMonster:      r.BestMonster,
		BestProbability:  r.BestProbability,
		ProbabilityValue: r.ProbabilityValue,
		DropCount:        len(r.AllDrops),
	}
	if row.BestMonster == "" {
		row.BestMonster = UnknownMonster
	}
	if row.BestProbability == "" {
		row.BestProbability = UnknownProbability
	}
	return row
}

func detailOf(r domain.Record) Detail {
	d := Detail{
		Name:            r.Name,
		Type:            r.Type,
		BestMonster:     r.BestMonster,
		BestProbability: r.BestProbability,
	}
	if d.BestMonster == "" {
		d.BestMonster = UnknownMonster
	}
	if d.BestProbability == "" {
		d.BestProbability = UnknownProbability
	}
	sorted := catalog.SortedDrops(r.AllDrops)
	d.Drops = make([]RankedDrop, 0, len(sorted))
	for i, drop := range sorted {
		d.Drops = append(d.Drops, RankedDrop{
			Rank:        i + 1,
			Monster:     drop.Monster,
			Probability: drop.Probability,
			Denominator: drop.Denominator,
		})
	}
	return d
}
