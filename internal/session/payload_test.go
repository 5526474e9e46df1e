package session_test

import (
	"encoding/json"
	"testing"

	"github.com/jpl-au/revu/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_LazyDecodeKnownKinds(t *testing.T) {
	tests := []struct {
		kind    string
		payload string
		want    session.Detail
	}{
		{
			kind:    session.KindMarker,
			payload: `{"label":"contrast check","criterion":"1.4.3"}`,
			want:    session.MarkerDetail{Label: "contrast check", Criterion: "1.4.3"},
		},
		{
			kind:    session.KindScreenshot,
			payload: `{"path":"frames/0042.png","width":1280,"height":800}`,
			want:    session.ScreenshotDetail{Path: "frames/0042.png", Width: 1280, Height: 800},
		},
		{
			kind:    session.KindVoiceAnnouncement,
			payload: `{"text":"button, Submit","interrupted":true}`,
			want:    session.VoiceAnnouncementDetail{Text: "button, Submit", Interrupted: true},
		},
		{
			kind:    session.KindInteraction,
			payload: `{"action":"click","target":"Submit","x":10,"y":20}`,
			want:    session.InteractionDetail{Action: "click", Target: "Submit", X: 10, Y: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			e := session.Event{Kind: tt.kind, Payload: session.RawPayload([]byte(tt.payload))}
			got, err := e.Detail()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayload_UnknownKindFallsBackToOpaque(t *testing.T) {
	e := session.Event{Kind: "window-resize", Payload: session.RawPayload([]byte(`{"w":640,"h":480}`))}
	got, err := e.Detail()
	require.NoError(t, err)
	assert.Equal(t, session.OpaqueDetail{"w": float64(640), "h": float64(480)}, got)
}

func TestPayload_AbsentDecodesToNil(t *testing.T) {
	e := session.Event{Kind: session.KindMarker}
	got, err := e.Detail()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPayload_RoundTripsRawBytes(t *testing.T) {
	raw := `{"events":[{"timestamp":42,"source":"system","kind":"custom","payload":{"nested":{"deep":[1,2,3]}},"originalIndex":0}]}`

	var decoded struct {
		Events []session.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded.Events, 1)

	// Raw payload bytes survive a decode/encode cycle untouched
	out, err := json.Marshal(decoded.Events[0].Payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nested":{"deep":[1,2,3]}}`, string(out))
}

func TestAnnotation_EndTimeDerived(t *testing.T) {
	a := session.Annotation{StartTime: 1000, Duration: 250}
	assert.Equal(t, int64(1250), a.EndTime())
}

func TestAnnotationSet_Lifecycle(t *testing.T) {
	s := session.NewAnnotationSet(nil)

	a := s.Add(session.Annotation{StartTime: 2000, Duration: 100, Type: "highlight"})
	require.NotEmpty(t, a.ID)

	b := s.Add(session.Annotation{StartTime: 1000, Duration: 100, Type: "issue"})
	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "sorted by start time")

	a.Text = "low contrast"
	prev, err := s.Update(a)
	require.NoError(t, err)
	assert.Empty(t, prev.Text)

	got, ok := s.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, "low contrast", got.Text)

	removed, ok := s.Remove(a.ID)
	require.True(t, ok)
	assert.Equal(t, a.ID, removed.ID)
	assert.Equal(t, 1, s.Len())

	_, err = s.Update(session.Annotation{ID: "missing"})
	assert.ErrorIs(t, err, session.ErrNotFound)
}
