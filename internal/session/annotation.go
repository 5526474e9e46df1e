// annotation.go implements time-range annotations (accessibility markers).
//
// Annotations are independent of events: they overlay a time range on the
// playback timeline. The end time is always derived from start + duration,
// never stored.

package session

import (
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"
)

// Annotation is a time-range overlay on the session timeline.
type Annotation struct {
	ID        string `json:"id"`
	StartTime int64  `json:"startTime"`
	Duration  int64  `json:"duration"`
	Type      string `json:"type"`
	Style     string `json:"style,omitempty"`
	Text      string `json:"text,omitempty"`
}

// EndTime returns the derived end of the annotated range.
func (a Annotation) EndTime() int64 { return a.StartTime + a.Duration }

// AnnotationSet owns the session's annotations, kept sorted by start time.
type AnnotationSet struct {
	items []Annotation
}

// NewAnnotationSet builds a set from existing annotations (load path).
func NewAnnotationSet(items []Annotation) *AnnotationSet {
	s := &AnnotationSet{items: slices.Clone(items)}
	s.sort()
	return s
}

func (s *AnnotationSet) sort() {
	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].StartTime < s.items[j].StartTime
	})
}

// Len returns the number of annotations.
func (s *AnnotationSet) Len() int { return len(s.items) }

// All returns the annotations in start-time order.
func (s *AnnotationSet) All() []Annotation {
	return slices.Clone(s.items)
}

// Get returns the annotation with the given ID.
func (s *AnnotationSet) Get(id string) (Annotation, bool) {
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return Annotation{}, false
}

// Add inserts an annotation, assigning an ID if none is set, and returns
// the stored value.
func (s *AnnotationSet) Add(a Annotation) Annotation {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.items = append(s.items, a)
	s.sort()
	return a
}

// Update replaces the annotation with a matching ID and returns the
// previous value, for undo.
func (s *AnnotationSet) Update(a Annotation) (Annotation, error) {
	for i := range s.items {
		if s.items[i].ID == a.ID {
			prev := s.items[i]
			s.items[i] = a
			s.sort()
			return prev, nil
		}
	}
	return Annotation{}, fmt.Errorf("annotation %s: %w", a.ID, ErrNotFound)
}

// Remove deletes the annotation with the given ID and returns it.
func (s *AnnotationSet) Remove(id string) (Annotation, bool) {
	for i, a := range s.items {
		if a.ID == id {
			s.items = slices.Delete(s.items, i, i+1)
			return a, true
		}
	}
	return Annotation{}, false
}
