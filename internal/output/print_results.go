package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aurceive/drop_viewer/internal/catalog"
	"github.com/aurceive/drop_viewer/internal/viewer"
)

// TextView renders the controller to a plain-text writer. It backs the
// headless list/detail commands: renders are buffered and Flush prints the
// final state once.
type TextView struct {
	w      io.Writer
	errW   io.Writer
	page   *viewer.Page
	detail *viewer.Detail
}

// NewTextView prints results to w and load diagnostics to errW.
func NewTextView(w, errW io.Writer) *TextView { return &TextView{w: w, errW: errW} }

func (v *TextView) ShowLoading() {}

func (v *TextView) Loaded(total int) {}

func (v *TextView) LoadFailed(d viewer.Diagnostic) { PrintDiagnostic(v.errW, d) }

func (v *TextView) Render(p viewer.Page) { v.page = &p }

func (v *TextView) ScrollToTop() {}

func (v *TextView) OpenDetail(d viewer.Detail) { v.detail = &d }

func (v *TextView) CloseDetail() { v.detail = nil }

// Flush prints the open detail, or else the last rendered page.
func (v *TextView) Flush() {
	switch {
	case v.detail != nil:
		PrintDetail(v.w, *v.detail)
	case v.page != nil:
		PrintPage(v.w, *v.page)
	}
}

func PrintPage(w io.Writer, p viewer.Page) {
	if p.Empty {
		fmt.Fprintln(w, "No matching equipment")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tTYPE\tNAME\tBEST MONSTER\tBEST PROBABILITY")
		for i, r := range p.Rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.First+i, r.Type, r.Name, r.BestMonster, r.BestProbability)
		}
		_ = tw.Flush()
	}
	fmt.Fprintf(w, "%s · showing %d of %d\n", p.Info(), p.DisplayCount, p.TotalCount)
}

func PrintDetail(w io.Writer, d viewer.Detail) {
	fmt.Fprintln(w, d.Title())
	fmt.Fprintf(w, "Type: %s\n", d.Type)
	fmt.Fprintf(w, "Best drop: %s (%s)\n", d.BestMonster, d.BestProbability)
	fmt.Fprintf(w, "All drop sources (%d monsters):\n", len(d.Drops))
	for _, drop := range d.Drops {
		fmt.Fprintf(w, "  %d. %s  %s\n", drop.Rank, drop.Monster, drop.Probability)
	}
}

func PrintTypes(w io.Writer, types []catalog.TypeCount) {
	if len(types) == 0 {
		fmt.Fprintln(w, "No categories")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tITEMS")
	for _, t := range types {
		fmt.Fprintf(tw, "%s\t%d\n", t.Type, t.Count)
	}
	_ = tw.Flush()
}

func PrintDiagnostic(w io.Writer, d viewer.Diagnostic) {
	fmt.Fprintf(w, "%s: %s\n", d.Title, d.Location)
	fmt.Fprintf(w, "  cause: %s\n", d.Cause)
	if d.FileScheme {
		fmt.Fprintf(w, "  %s\n", d.Reason)
		fmt.Fprintln(w, "  Fix (pick one):")
		for i, s := range d.Steps {
			fmt.Fprintf(w, "    %d. %s\n", i+1, s)
		}
		return
	}
	fmt.Fprintln(w, "  Please check:")
	fmt.Fprintf(w, "    - %s\n", strings.Join(d.Steps, "\n    - "))
	if d.Reload {
		fmt.Fprintln(w, "  Then run the command again to reload.")
	}
}
