package database

import (
	"sort"
)

// DefaultPriorityLimit is the size of the priority list.
const DefaultPriorityLimit = 5

// Priority returns applications that need attention: in-progress rows first,
// then late rows, newest registration first within each group. Rows without
// a parseable registration date sort last. A limit <= 0 uses
// DefaultPriorityLimit.
func (db *Database) Priority(limit int) []*Application {
	if limit <= 0 {
		limit = DefaultPriorityLimit
	}

	var pending []*Application
	for _, app := range db.apps {
		if app.Status.NeedsAttention() {
			pending = append(pending, app)
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		// Sort by status weight (lower = more urgent)
		wi := pending[i].Status.Weight()
		wj := pending[j].Status.Weight()
		if wi != wj {
			return wi < wj
		}
		// Then by registration date, newest first
		ti, oki := pending[i].RegisteredAt()
		tj, okj := pending[j].RegisteredAt()
		if oki != okj {
			return oki
		}
		return ti.After(tj)
	})

	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending
}
