// Package listview keeps the side panel widgets in step with the snapshot
// stream without rebuilding them.
package listview

import (
	"github.com/OCAP2/radar/internal/util"
	"github.com/OCAP2/radar/pkg/core"
)

// Row is one target line in the list. A row is created once per id and
// updated in place for as long as the id stays in the snapshots.
type Row struct {
	ID       string
	Summary  string
	Risk     core.RiskLevel
	Selected bool
}

// List is the target list. Hooks, when set, are called on the goroutine
// running Reconcile.
type List struct {
	rows []*Row
	byID map[string]*Row

	OnCreate func(*Row)
	OnRemove func(*Row)
}

// NewList creates an empty list.
func NewList() *List {
	return &List{byID: make(map[string]*Row)}
}

// Reconcile brings the rows in line with snap: a row is created for every
// non-reference ship without one, every row's text and highlight is
// rewritten, and rows whose ship is gone are removed. Rows follow snapshot
// order. selected is the selected id, empty for none.
func (l *List) Reconcile(snap core.Snapshot, selected, referenceID string) {
	present := make(map[string]struct{}, len(snap.Ships))
	ordered := l.rows[:0:0]

	for _, s := range snap.Ships {
		if s.ID == referenceID {
			continue
		}
		if _, dup := present[s.ID]; dup {
			continue
		}
		present[s.ID] = struct{}{}

		row, ok := l.byID[s.ID]
		if !ok {
			row = &Row{ID: s.ID}
			l.byID[s.ID] = row
			if l.OnCreate != nil {
				l.OnCreate(row)
			}
		}
		row.Summary = util.ShipSummary(s.Speed, s.Heading)
		row.Risk = snap.RiskOf(s.ID)
		row.Selected = selected != "" && s.ID == selected
		ordered = append(ordered, row)
	}

	for _, row := range l.rows {
		if _, ok := present[row.ID]; ok {
			continue
		}
		delete(l.byID, row.ID)
		if l.OnRemove != nil {
			l.OnRemove(row)
		}
	}
	l.rows = ordered
}

// Rows returns the rows in display order.
func (l *List) Rows() []*Row {
	return l.rows
}

// Len returns the number of rows.
func (l *List) Len() int {
	return len(l.rows)
}

// RowAt returns the row at index i.
func (l *List) RowAt(i int) (*Row, bool) {
	if i < 0 || i >= len(l.rows) {
		return nil, false
	}
	return l.rows[i], true
}

// Row returns the row for id.
func (l *List) Row(id string) (*Row, bool) {
	r, ok := l.byID[id]
	return r, ok
}
