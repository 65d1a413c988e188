package streaming

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/OCAP2/radar/pkg/core"
)

// Endpoint paths of the radar server.
const (
	PathStream       = "/ws"
	PathControlBase  = "/api/control"
	PathPause        = PathControlBase + "/pause"
	PathAdd          = PathControlBase + "/add"
	PathRemovePrefix = PathControlBase + "/remove/"
	PathUpdatePrefix = PathControlBase + "/update/"
)

// ErrMalformed wraps every snapshot decoding failure.
var ErrMalformed = errors.New("malformed snapshot")

// SnapshotMessage is the JSON document pushed by the server on the stream.
// Ships and alerts are required keys; a payload without them is not a snapshot.
type SnapshotMessage struct {
	Ships  *[]core.Ship  `json:"ships"`
	Alerts *[]core.Alert `json:"alerts"`
	Paused bool          `json:"is_paused"`
}

// DecodeSnapshot parses and validates a full stream payload. Either a complete
// snapshot is returned or an error wrapping ErrMalformed; nothing in between.
func DecodeSnapshot(data []byte) (core.Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return core.Snapshot{}, fmt.Errorf("%w: empty payload", ErrMalformed)
	}

	var msg SnapshotMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if msg.Ships == nil {
		return core.Snapshot{}, fmt.Errorf("%w: missing ships", ErrMalformed)
	}
	if msg.Alerts == nil {
		return core.Snapshot{}, fmt.Errorf("%w: missing alerts", ErrMalformed)
	}

	seen := make(map[string]struct{}, len(*msg.Ships))
	for i, s := range *msg.Ships {
		if s.ID == "" {
			return core.Snapshot{}, fmt.Errorf("%w: ship %d has no id", ErrMalformed, i)
		}
		if _, dup := seen[s.ID]; dup {
			return core.Snapshot{}, fmt.Errorf("%w: duplicate ship id %q", ErrMalformed, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	for i, a := range *msg.Alerts {
		if a.TargetID == "" {
			return core.Snapshot{}, fmt.Errorf("%w: alert %d has no target", ErrMalformed, i)
		}
	}

	return core.Snapshot{
		Ships:  *msg.Ships,
		Alerts: *msg.Alerts,
		Paused: msg.Paused,
	}, nil
}

// EncodeSnapshot renders a snapshot in the stream wire format.
func EncodeSnapshot(s core.Snapshot) ([]byte, error) {
	ships := s.Ships
	if ships == nil {
		ships = []core.Ship{}
	}
	alerts := s.Alerts
	if alerts == nil {
		alerts = []core.Alert{}
	}
	data, err := json.Marshal(SnapshotMessage{Ships: &ships, Alerts: &alerts, Paused: s.Paused})
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}
