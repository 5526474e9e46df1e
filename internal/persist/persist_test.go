package persist_test

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpl-au/revu/internal/gaps"
	"github.com/jpl-au/revu/internal/persist"
	"github.com/jpl-au/revu/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadEvents_MissingFileLoadsEmpty(t *testing.T) {
	s := persist.New(t.TempDir())
	e := s.LoadEvents()
	assert.Empty(t, e.Events)
	assert.Empty(t, e.Metadata.CropGaps)
}

func TestLoadEvents_MalformedFileLoadsEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, persist.EventsFile, "{not json")
	s := persist.New(dir)
	assert.Empty(t, s.LoadEvents().Events)
}

func TestEvents_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := persist.New(dir)

	in := persist.Events{
		Events: []session.Event{
			{Timestamp: 1000, Source: session.SourceInteraction, Kind: "click"},
			{Timestamp: 2000, Source: session.SourceSystem, Kind: "marker"},
		},
		Metadata: persist.TimelineMetadata{
			PauseGaps:   []gaps.Gap{{Start: 1200, End: 1500, Kind: gaps.KindPause}},
			CropGaps:    []gaps.Gap{{Start: 1600, End: 1700, Kind: gaps.KindCrop}},
			Transitions: []gaps.Transition{{ID: "t1", Timestamp: 1800, Duration: 50, Type: "fade"}},
			AccessibilityMarkers: []session.Annotation{
				{ID: "m1", StartTime: 1100, Duration: 100, Type: "highlight", Text: "look here"},
			},
			Status:    "reviewed",
			StartTime: 1000,
		},
	}
	require.NoError(t, s.SaveEvents(in))

	out := s.LoadEvents()
	assert.Equal(t, in.Events, out.Events)
	assert.Equal(t, in.Metadata, out.Metadata)
}

func TestTags_RoundTrip(t *testing.T) {
	s := persist.New(t.TempDir())
	in := persist.Tags{
		EventTags:    map[string][]string{"0": {"bug"}, "2": {"bug", "ui"}},
		EventNotes:   map[string]string{"1": base64.StdEncoding.EncodeToString([]byte("needs a look"))},
		EventMarkers: map[string]string{"0": "m1"},
		CustomTags:   []string{"bug", "ui"},
	}
	require.NoError(t, s.SaveTags(in))
	assert.Equal(t, in, s.LoadTags())
}

func TestMetadata_RoundTrip(t *testing.T) {
	s := persist.New(t.TempDir())
	require.NoError(t, s.SaveMetadata(persist.Metadata{RecordingStartTimestamp: 1_700_000_000_000_000}))
	assert.Equal(t, int64(1_700_000_000_000_000), s.LoadMetadata().RecordingStartTimestamp)
}

func TestSlotsFromFiles_JoinsSideTables(t *testing.T) {
	e := persist.Events{Events: []session.Event{
		{Timestamp: 100, Kind: "click"},
		{Timestamp: 200, Kind: "scroll"},
		{Timestamp: 300, Kind: "click"},
	}}
	tags := persist.Tags{
		EventTags: map[string][]string{"0": {"bug"}, "2": {"ui"}},
		EventNotes: map[string]string{
			"1": base64.StdEncoding.EncodeToString([]byte("hello")),
		},
	}

	slots := persist.SlotsFromFiles(e, tags)
	require.Len(t, slots, 3)
	assert.Equal(t, []string{"bug"}, slots[0].Tags)
	assert.Equal(t, []byte("hello"), slots[1].Note)
	assert.Equal(t, []string{"ui"}, slots[2].Tags)
}

func TestSlotsFromFiles_DropsUnresolvableIndices(t *testing.T) {
	e := persist.Events{Events: []session.Event{{Timestamp: 100}}}
	tags := persist.Tags{
		EventTags: map[string][]string{"5": {"orphan"}, "x": {"junk"}, "-1": {"neg"}},
		EventNotes: map[string]string{
			"0": "!!! not base64 !!!",
		},
	}

	slots := persist.SlotsFromFiles(e, tags)
	require.Len(t, slots, 1)
	assert.Empty(t, slots[0].Tags)
	assert.Empty(t, slots[0].Note, "undecodable note dropped")
}

func TestTagsFromTimeline_DerivedViews(t *testing.T) {
	tl := session.New([]session.Event{
		{Timestamp: 100}, {Timestamp: 200}, {Timestamp: 300},
	})
	tl.AddTag(0, "bug")
	tl.AddTag(2, "ui")
	tl.SetNote(1, []byte("check this"))

	out := persist.TagsFromTimeline(tl, map[string]string{"0": "m1"}, []string{"bug", "ui"})
	assert.Equal(t, []string{"bug"}, out.EventTags["0"])
	assert.Equal(t, []string{"ui"}, out.EventTags["2"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("check this")), out.EventNotes["1"])
	assert.Equal(t, map[string]string{"0": "m1"}, out.EventMarkers)
	assert.Equal(t, []string{"bug", "ui"}, out.CustomTags)
}

func TestSaveEvents_WritesValidIndentedJSON(t *testing.T) {
	dir := t.TempDir()
	s := persist.New(dir)
	require.NoError(t, s.SaveEvents(persist.Events{
		Events: []session.Event{{Timestamp: 42, Kind: "click"}},
	}))

	data, err := os.ReadFile(filepath.Join(dir, persist.EventsFile))
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.Contains(t, string(data), "\n  ")
}
