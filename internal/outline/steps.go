package outline

import (
	"context"

	"courseforge/internal/model"
)

// Steps are embedded in their lesson's content, so every step mutation
// persists as a content update on the owning lesson. Server-assigned step ids
// replace client temp ids when the response comes back.

// AddStep appends a step to the lesson under a temp id and returns the id the
// caller can address it by until the server id is merged in.
func (s *Store) AddStep(ctx context.Context, lessonID string, draft model.Step) (string, error) {
	s.mu.Lock()
	l, ok := s.lessons[lessonID]
	if !ok {
		s.mu.Unlock()
		return "", NotFoundError{Kind: "lesson", ID: lessonID}
	}
	snap := s.snapshotLocked()
	draft.ID = tempID()
	draft.Order = len(l.Content.Steps)
	l.Content.Steps = append(l.Content.Steps, draft)
	content := l.Content.Clone()
	s.rev++
	tmp := draft.ID
	s.mu.Unlock()

	stored, err := s.api.UpdateLesson(ctx, lessonID, model.LessonPatch{Content: &content})
	if err != nil {
		s.rollback("step.add", snap, err)
		return "", err
	}

	s.mergeLessonContent(lessonID, stored)
	return s.resolveStepID(lessonID, tmp, stored), nil
}

// UpdateStep replaces the step with a matching id.
func (s *Store) UpdateStep(ctx context.Context, lessonID string, step model.Step) error {
	s.mu.Lock()
	l, ok := s.lessons[lessonID]
	if !ok {
		s.mu.Unlock()
		return NotFoundError{Kind: "lesson", ID: lessonID}
	}
	idx := stepIndex(l.Content.Steps, step.ID)
	if idx < 0 {
		s.mu.Unlock()
		return NotFoundError{Kind: "step", ID: step.ID}
	}
	snap := s.snapshotLocked()
	step.Order = l.Content.Steps[idx].Order
	l.Content.Steps[idx] = step
	content := l.Content.Clone()
	s.rev++
	s.mu.Unlock()

	stored, err := s.api.UpdateLesson(ctx, lessonID, model.LessonPatch{Content: &content})
	if err != nil {
		s.rollback("step.update", snap, err)
		return err
	}
	s.mergeLessonContent(lessonID, stored)
	return nil
}

// DeleteStep removes the step and renumbers the survivors contiguously.
func (s *Store) DeleteStep(ctx context.Context, lessonID, stepID string) error {
	s.mu.Lock()
	l, ok := s.lessons[lessonID]
	if !ok {
		s.mu.Unlock()
		return NotFoundError{Kind: "lesson", ID: lessonID}
	}
	idx := stepIndex(l.Content.Steps, stepID)
	if idx < 0 {
		s.mu.Unlock()
		return NotFoundError{Kind: "step", ID: stepID}
	}
	snap := s.snapshotLocked()
	l.Content.Steps = append(l.Content.Steps[:idx], l.Content.Steps[idx+1:]...)
	for i := range l.Content.Steps {
		l.Content.Steps[i].Order = i
	}
	content := l.Content.Clone()
	s.rev++
	s.mu.Unlock()

	stored, err := s.api.UpdateLesson(ctx, lessonID, model.LessonPatch{Content: &content})
	if err != nil {
		s.rollback("step.delete", snap, err)
		return err
	}
	s.mergeLessonContent(lessonID, stored)
	return nil
}

// mergeLessonContent writes the server's stored content back over the
// optimistic one, unless the lesson was deleted while the call was in flight.
func (s *Store) mergeLessonContent(lessonID string, stored *model.Lesson) {
	if stored == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lessons[lessonID]
	if !ok {
		return
	}
	l.Content = stored.Content.Clone()
	s.rev++
}

// resolveStepID maps a temp step id to its server-assigned replacement. When
// the response doesn't identify the new step (or the lesson vanished), the
// temp id is returned; it stays addressable until the next content merge.
func (s *Store) resolveStepID(lessonID, tmp string, stored *model.Lesson) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lessons[lessonID]
	if !ok || stored == nil {
		return tmp
	}
	if idx := stepIndex(stored.Content.Steps, tmp); idx >= 0 {
		return tmp
	}
	// Server replaced ids wholesale: find the step we don't know yet by
	// position. The optimistic append put the new step last.
	if n := len(l.Content.Steps); n > 0 && len(stored.Content.Steps) == n {
		return l.Content.Steps[n-1].ID
	}
	return tmp
}

func stepIndex(steps []model.Step, id string) int {
	for i := range steps {
		if steps[i].ID == id {
			return i
		}
	}
	return -1
}
