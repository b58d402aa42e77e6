package remote

import (
	"fmt"

	"github.com/zeusync/bigtime/internal/core/input"
	"github.com/zeusync/bigtime/internal/core/render"
	"github.com/zeusync/bigtime/internal/core/vmath"
)

const (
	TypeKey    = "key"
	TypeMotion = "motion"
	TypeAck    = "ack"
	TypeError  = "error"
)

// Message is a client to server input message:
//
//	{"type":"key","key":"w","down":true}
//	{"type":"motion","dx":3.5,"dy":-1}
type Message struct {
	Type string  `json:"type"`
	Key  string  `json:"key,omitempty"`
	Down bool    `json:"down,omitempty"`
	DX   float32 `json:"dx,omitempty"`
	DY   float32 `json:"dy,omitempty"`
}

// Event converts m to an input event.
func (m Message) Event() (input.Event, error) {
	switch m.Type {
	case TypeKey:
		k, ok := input.ParseKey(m.Key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, m.Key)
		}
		return input.KeyEvent{Key: k, Down: m.Down}, nil
	case TypeMotion:
		return input.PointerMotion(m.DX, m.DY), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
	}
}

// Reply answers every client message. Accepted is false when the queue was full.
type Reply struct {
	Type     string `json:"type"`
	Accepted bool   `json:"accepted,omitempty"`
	Error    string `json:"error,omitempty"`
}

type SnapshotView struct {
	Position  vmath.Vec3 `json:"position"`
	Direction vmath.Vec3 `json:"direction"`
	Tick      uint64     `json:"tick"`
	TimeNanos int64      `json:"time_ns"`
	Digest    string     `json:"digest"`
}

type RenderView struct {
	Previous     SnapshotView `json:"previous"`
	Current      SnapshotView `json:"current"`
	Blend        float32      `json:"blend"`
	Interpolated SnapshotView `json:"interpolated"`
}

// Stats is reported by GET /v1/stats.
type Stats struct {
	Ticks         uint64 `json:"ticks"`
	Running       bool   `json:"running"`
	QueueLen      int    `json:"queue_len"`
	QueueCap      int    `json:"queue_cap"`
	Dropped       uint64 `json:"dropped"`
	Clients       int64  `json:"clients"`
	RenderVersion uint64 `json:"render_version"`
}

func snapshotView(s render.Snapshot) SnapshotView {
	return SnapshotView{
		Position:  s.Position,
		Direction: s.Direction,
		Tick:      s.Tick,
		TimeNanos: int64(s.Time),
		Digest:    fmt.Sprintf("%016x", s.Digest()),
	}
}

func renderView(info render.Info) RenderView {
	return RenderView{
		Previous:     snapshotView(info.Previous),
		Current:      snapshotView(info.Current),
		Blend:        info.Blend,
		Interpolated: snapshotView(info.Interpolate()),
	}
}
