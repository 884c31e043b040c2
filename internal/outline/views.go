package outline

import (
	"sort"

	"courseforge/internal/model"
)

// Read-only derived views. All return copies; callers never see the store's
// internal pointers.

func (s *Store) Course() (model.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.course == nil {
		return model.Course{}, false
	}
	return s.course.Clone(), true
}

// Quests returns the course's quests in outline order.
func (s *Store) Quests() []model.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Quest, 0, len(s.quests))
	for _, q := range s.quests {
		out = append(out, q.Clone())
	}
	sortQuests(out)
	return out
}

// LessonsOf returns the quest's lessons in sequence order.
func (s *Store) LessonsOf(questID string) []model.Lesson {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lessonsOfLocked(questID)
}

func (s *Store) lessonsOfLocked(questID string) []model.Lesson {
	var out []model.Lesson
	for _, l := range s.lessons {
		if l.QuestID == questID {
			out = append(out, l.Clone())
		}
	}
	sortLessons(out)
	return out
}

// StepsOf returns the lesson's steps in order. ok is false for an unknown
// lesson.
func (s *Store) StepsOf(lessonID string) ([]model.Step, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lessons[lessonID]
	if !ok {
		return nil, false
	}
	steps := append([]model.Step(nil), l.Content.Steps...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	return steps, true
}

// TasksOf returns the lesson's cached linked tasks. loaded is false when the
// cache slot has never been populated (which is not the same as "no tasks").
func (s *Store) TasksOf(lessonID string) (tasks []model.Task, loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.tasks[lessonID]
	if !ok {
		return nil, false
	}
	out := make([]model.Task, 0, len(slot))
	for _, t := range slot {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, true
}

// TasksLoaded reports whether the lesson's task cache slot is populated.
func (s *Store) TasksLoaded(lessonID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[lessonID]
	return ok
}

// HasLessonsWithoutContent reports whether any lesson lacks content: zero
// steps, or no step with non-trivial text, a video reference, or an attached
// file. Memoized on the revision counter; bulk-generation actions are gated
// on it.
func (s *Store) HasLessonsWithoutContent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.missingKnown && s.missingRev == s.rev {
		return s.missingValue
	}
	val := false
	for _, l := range s.lessons {
		if lessonLacksContent(l) {
			val = true
			break
		}
	}
	s.missingRev = s.rev
	s.missingValue = val
	s.missingKnown = true
	return val
}

// LessonsWithoutContent returns the ids of lessons that lack content.
func (s *Store) LessonsWithoutContent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for id, l := range s.lessons {
		if lessonLacksContent(l) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func lessonLacksContent(l *model.Lesson) bool {
	if len(l.Content.Steps) == 0 {
		return true
	}
	for _, st := range l.Content.Steps {
		if st.HasContent() {
			return false
		}
	}
	return true
}

func (s *Store) questsOrderedLocked() []model.Quest {
	out := make([]model.Quest, 0, len(s.quests))
	for _, q := range s.quests {
		out = append(out, *q)
	}
	sortQuests(out)
	return out
}

func sortStepsLocked(l *model.Lesson) {
	sort.SliceStable(l.Content.Steps, func(i, j int) bool {
		return l.Content.Steps[i].Order < l.Content.Steps[j].Order
	})
}

func sortQuests(qs []model.Quest) {
	sort.SliceStable(qs, func(i, j int) bool {
		if qs[i].OrderIndex != qs[j].OrderIndex {
			return qs[i].OrderIndex < qs[j].OrderIndex
		}
		return qs[i].ID < qs[j].ID
	})
}

func sortLessons(ls []model.Lesson) {
	sort.SliceStable(ls, func(i, j int) bool {
		if ls[i].SequenceOrder != ls[j].SequenceOrder {
			return ls[i].SequenceOrder < ls[j].SequenceOrder
		}
		return ls[i].ID < ls[j].ID
	})
}
