package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/radar/pkg/core"
)

func ships(ids ...string) []core.Ship {
	out := make([]core.Ship, len(ids))
	for i, id := range ids {
		out[i] = core.Ship{ID: id, Speed: float64(i + 1), Heading: float64(10 * i)}
	}
	return out
}

func TestReconcile_SkipsReference(t *testing.T) {
	l := NewList()
	l.Reconcile(core.Snapshot{Ships: ships("OWN", "A", "B")}, "", "OWN")

	require.Equal(t, 2, l.Len())
	_, ok := l.Row("OWN")
	assert.False(t, ok)
}

func TestReconcile_KeepsRowIdentity(t *testing.T) {
	l := NewList()
	created := 0
	l.OnCreate = func(*Row) { created++ }

	l.Reconcile(core.Snapshot{Ships: ships("OWN", "A", "B")}, "", "OWN")
	a1, _ := l.Row("A")
	b1, _ := l.Row("B")

	next := core.Snapshot{Ships: ships("OWN", "A", "B")}
	next.Ships[1].Speed = 22.7
	l.Reconcile(next, "", "OWN")

	a2, _ := l.Row("A")
	b2, _ := l.Row("B")
	assert.Same(t, a1, a2)
	assert.Same(t, b1, b2)
	assert.Equal(t, 2, created)
	assert.Equal(t, "23kts / 10°", a2.Summary)
}

func TestReconcile_RemovesVanishedRowOnce(t *testing.T) {
	l := NewList()
	var removed []string
	l.OnRemove = func(r *Row) { removed = append(removed, r.ID) }

	l.Reconcile(core.Snapshot{Ships: ships("OWN", "A", "B", "C")}, "", "OWN")
	a, _ := l.Row("A")
	c, _ := l.Row("C")

	l.Reconcile(core.Snapshot{Ships: ships("OWN", "A", "C")}, "", "OWN")
	l.Reconcile(core.Snapshot{Ships: ships("OWN", "A", "C")}, "", "OWN")

	assert.Equal(t, []string{"B"}, removed)
	assert.Equal(t, 2, l.Len())

	a2, _ := l.Row("A")
	c2, _ := l.Row("C")
	assert.Same(t, a, a2)
	assert.Same(t, c, c2)
}

func TestReconcile_FollowsSnapshotOrder(t *testing.T) {
	l := NewList()
	l.Reconcile(core.Snapshot{Ships: ships("A", "B", "C")}, "", "OWN")
	l.Reconcile(core.Snapshot{Ships: ships("C", "D", "A")}, "", "OWN")

	var ids []string
	for _, r := range l.Rows() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"C", "D", "A"}, ids)
}

func TestReconcile_HighlightAndRisk(t *testing.T) {
	l := NewList()
	snap := core.Snapshot{
		Ships:  ships("A", "B"),
		Alerts: []core.Alert{{TargetID: "B", Level: core.RiskDanger}},
	}

	l.Reconcile(snap, "A", "OWN")
	a, _ := l.Row("A")
	b, _ := l.Row("B")
	assert.True(t, a.Selected)
	assert.False(t, b.Selected)
	assert.Equal(t, core.RiskDanger, b.Risk)

	l.Reconcile(core.Snapshot{Ships: ships("A", "B")}, "B", "OWN")
	assert.False(t, a.Selected)
	assert.True(t, b.Selected)
	assert.Equal(t, core.RiskSafe, b.Risk, "risk is rewritten every snapshot")
}

func TestReconcile_DanglingSelection(t *testing.T) {
	l := NewList()
	l.Reconcile(core.Snapshot{Ships: ships("A")}, "GONE", "OWN")
	a, _ := l.Row("A")
	assert.False(t, a.Selected)
}

func TestRowAt(t *testing.T) {
	l := NewList()
	l.Reconcile(core.Snapshot{Ships: ships("A", "B")}, "", "OWN")

	r, ok := l.RowAt(1)
	require.True(t, ok)
	assert.Equal(t, "B", r.ID)

	_, ok = l.RowAt(2)
	assert.False(t, ok)
	_, ok = l.RowAt(-1)
	assert.False(t, ok)
}

func TestAlertBox(t *testing.T) {
	var box AlertBox
	box.Update(core.Snapshot{})
	assert.True(t, box.Clear())

	box.Update(core.Snapshot{Alerts: []core.Alert{
		{TargetID: "TGT_001", Level: core.RiskDanger, TCPA: 42.5, CPA: 120},
		{TargetID: "TGT_002", Level: core.RiskWarning, TCPA: 90, CPA: 310.25},
	}})
	require.False(t, box.Clear())
	lines := box.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "TGT_001: DANGER", lines[0].Title)
	assert.Equal(t, "TCPA: 42.5s | CPA: 120px", lines[0].Detail)
	assert.Equal(t, "TGT_002: WARNING", lines[1].Title)
	assert.Equal(t, "TCPA: 90s | CPA: 310.25px", lines[1].Detail)

	box.Update(core.Snapshot{Alerts: []core.Alert{}})
	assert.True(t, box.Clear())
}
