// payload.go implements lazy decoding of per-event payloads.
//
// Payloads arrive as arbitrary JSON per event kind. Rather than decoding
// everything at load time, the raw bytes are carried through and decoded
// only when a detail view asks for them. Known kinds decode to closed
// typed variants; unrecognised kinds fall back to an opaque map.

package session

import "encoding/json"

// Payload wraps the raw, undecoded JSON payload of an event.
// The zero value is an absent payload.
type Payload struct {
	raw json.RawMessage
}

// RawPayload constructs a Payload from raw JSON bytes. Used by the
// persistence layer and by tests.
func RawPayload(data []byte) Payload {
	return Payload{raw: data}
}

// IsZero reports whether the payload is absent.
func (p Payload) IsZero() bool { return len(p.raw) == 0 }

// MarshalJSON emits the raw payload bytes unchanged.
func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		return []byte("null"), nil
	}
	return p.raw, nil
}

// UnmarshalJSON captures the raw payload bytes without decoding them.
func (p *Payload) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		p.raw = nil
		return nil
	}
	p.raw = append(p.raw[:0], data...)
	return nil
}

// Detail is the decoded form of an event payload. Exactly one concrete
// type is produced per known event kind; everything else decodes to
// OpaqueDetail.
type Detail interface {
	detail()
}

// Event kinds with typed payload variants.
const (
	KindMarker            = "marker"
	KindScreenshot        = "screenshot"
	KindVoiceAnnouncement = "voice-announcement"
	KindInteraction       = "interaction"
)

// MarkerDetail is the payload of a "marker" event.
type MarkerDetail struct {
	Label     string `json:"label"`
	Criterion string `json:"criterion,omitempty"`
}

func (MarkerDetail) detail() {}

// ScreenshotDetail is the payload of a "screenshot" event.
type ScreenshotDetail struct {
	Path   string `json:"path"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

func (ScreenshotDetail) detail() {}

// VoiceAnnouncementDetail is the payload of a "voice-announcement" event.
type VoiceAnnouncementDetail struct {
	Text        string `json:"text"`
	Interrupted bool   `json:"interrupted,omitempty"`
}

func (VoiceAnnouncementDetail) detail() {}

// InteractionDetail is the payload of an "interaction" event.
type InteractionDetail struct {
	Action string  `json:"action"`
	Target string  `json:"target,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

func (InteractionDetail) detail() {}

// OpaqueDetail is the fallback for unrecognised event kinds.
type OpaqueDetail map[string]any

func (OpaqueDetail) detail() {}

// Detail decodes the event's payload according to its kind.
// Absent payloads decode to a nil Detail with no error.
func (e Event) Detail() (Detail, error) {
	if e.Payload.IsZero() {
		return nil, nil
	}
	switch e.Kind {
	case KindMarker:
		var d MarkerDetail
		if err := json.Unmarshal(e.Payload.raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case KindScreenshot:
		var d ScreenshotDetail
		if err := json.Unmarshal(e.Payload.raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case KindVoiceAnnouncement:
		var d VoiceAnnouncementDetail
		if err := json.Unmarshal(e.Payload.raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case KindInteraction:
		var d InteractionDetail
		if err := json.Unmarshal(e.Payload.raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		var d OpaqueDetail
		if err := json.Unmarshal(e.Payload.raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	}
}
