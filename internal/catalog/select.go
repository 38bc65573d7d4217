package catalog

import (
	"strings"

	"github.com/aurceive/drop_viewer/internal/domain"
)

// SelectByType keeps records whose type equals typ exactly, preserving order.
// An empty typ means "all" and returns a copy of records.
func SelectByType(records []domain.Record, typ string) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if typ == "" || r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}

// Search keeps records whose name or best monster contains keyword, case-insensitively.
// The keyword is trimmed first; callers treat an empty keyword as "no search".
func Search(records []domain.Record, keyword string) []domain.Record {
	keyword = NormalizeKeyword(keyword)
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), keyword) {
			out = append(out, r)
			continue
		}
		if r.BestMonster != "" && strings.Contains(strings.ToLower(r.BestMonster), keyword) {
			out = append(out, r)
		}
	}
	return out
}

func NormalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// FindByName returns the first record with exactly this name.
func FindByName(records []domain.Record, name string) (domain.Record, bool) {
	for _, r := range records {
		if r.Name == name {
			return r, true
		}
	}
	return domain.Record{}, false
}

type TypeCount struct {
	Type  string
	Count int
}

// Types lists distinct categories in first-seen order.
func Types(records []domain.Record) []TypeCount {
	idx := make(map[string]int)
	out := make([]TypeCount, 0, 8)
	for _, r := range records {
		if i, ok := idx[r.Type]; ok {
			out[i].Count++
			continue
		}
		idx[r.Type] = len(out)
		out = append(out, TypeCount{Type: r.Type, Count: 1})
	}
	return out
}

func Clone(records []domain.Record) []domain.Record {
	if records == nil {
		return []domain.Record{}
	}
	out := make([]domain.Record, len(records))
	copy(out, records)
	return out
}
