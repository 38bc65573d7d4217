package catalog

import (
	"sort"
	"sync"

	"github.com/aurceive/drop_viewer/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator compares strings in locale order. The zero value is not usable; see NewCollator.
type Collator struct {
	mu  sync.Mutex
	col *collate.Collator
	tag language.Tag
}

// NewCollator builds a collator for a BCP 47 locale such as "zh-CN".
// An unparseable locale falls back to the root collation and is reported.
func NewCollator(locale string) (*Collator, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return &Collator{col: collate.New(language.Und), tag: language.Und}, err
	}
	return &Collator{col: collate.New(tag), tag: tag}, nil
}

func (c *Collator) Tag() language.Tag { return c.tag }

// Compare returns -1, 0 or +1. collate.Collator reuses internal buffers, hence the lock.
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.col.CompareString(a, b)
}

// SortRecords sorts in place and stably. Unknown keys leave the order untouched.
func SortRecords(records []domain.Record, key domain.SortKey, c *Collator) {
	switch key {
	case domain.SortByName:
		sort.SliceStable(records, func(i, j int) bool {
			return c.Compare(records[i].Name, records[j].Name) < 0
		})
	case domain.SortByType:
		sort.SliceStable(records, func(i, j int) bool {
			return c.Compare(records[i].Type, records[j].Type) < 0
		})
	case domain.SortByProbability:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].ProbabilityValue < records[j].ProbabilityValue
		})
	}
}

// SortedDrops returns a copy of drops ordered by ascending denominator
// (most likely first). Equal denominators keep their source order.
func SortedDrops(drops []domain.DropEntry) []domain.DropEntry {
	out := make([]domain.DropEntry, len(drops))
	copy(out, drops)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Denominator < out[j].Denominator
	})
	return out
}
