package listview

import (
	"github.com/OCAP2/radar/internal/util"
	"github.com/OCAP2/radar/pkg/core"
)

// ClearText is shown when there are no alerts.
const ClearText = "SECTOR CLEAR"

// AlertLine is the text of one alert entry.
type AlertLine struct {
	TargetID string
	Level    core.RiskLevel
	Title    string // "<id>: <LEVEL>"
	Detail   string // "TCPA: <tcpa>s | CPA: <cpa>px"
}

// AlertBox summarises the alerts of the latest snapshot.
type AlertBox struct {
	lines []AlertLine
}

// Update replaces the lines with the alerts of snap, in snapshot order.
func (b *AlertBox) Update(snap core.Snapshot) {
	b.lines = b.lines[:0]
	for _, a := range snap.Alerts {
		b.lines = append(b.lines, AlertLine{
			TargetID: a.TargetID,
			Level:    a.Level,
			Title:    a.TargetID + ": " + a.Level.String(),
			Detail:   "TCPA: " + util.FormatNumber(a.TCPA) + "s | CPA: " + util.FormatNumber(a.CPA) + "px",
		})
	}
}

// Lines returns the current alert lines.
func (b *AlertBox) Lines() []AlertLine {
	return b.lines
}

// Clear reports whether there is nothing to show.
func (b *AlertBox) Clear() bool {
	return len(b.lines) == 0
}
