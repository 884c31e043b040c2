package outline

import (
	"context"

	"courseforge/internal/model"
)

// Every structural mutation follows the same contract: apply the new tree
// shape locally first, then persist; on failure restore the pre-mutation
// snapshot. Callers always observe either the optimistic shape or the exact
// prior one, never an intermediate.

func (s *Store) UpdateCourse(ctx context.Context, patch model.CoursePatch) error {
	s.mu.Lock()
	if s.course == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	courseID := s.course.ID
	snap := s.snapshotLocked()
	patch.Apply(s.course)
	s.rev++
	s.mu.Unlock()

	if err := s.api.UpdateCourse(ctx, courseID, patch); err != nil {
		s.rollback("course.update", snap, err)
		return err
	}
	return nil
}

func (s *Store) UpdateQuest(ctx context.Context, questID string, patch model.QuestPatch) error {
	s.mu.Lock()
	q, ok := s.quests[questID]
	if !ok {
		s.mu.Unlock()
		return NotFoundError{Kind: "quest", ID: questID}
	}
	snap := s.snapshotLocked()
	patch.Apply(q)
	s.rev++
	s.mu.Unlock()

	if err := s.api.UpdateQuest(ctx, questID, patch); err != nil {
		s.rollback("quest.update", snap, err)
		return err
	}
	return nil
}

func (s *Store) UpdateLesson(ctx context.Context, lessonID string, patch model.LessonPatch) error {
	s.mu.Lock()
	l, ok := s.lessons[lessonID]
	if !ok {
		s.mu.Unlock()
		return NotFoundError{Kind: "lesson", ID: lessonID}
	}
	snap := s.snapshotLocked()
	patch.Apply(l)
	s.rev++
	s.mu.Unlock()

	if _, err := s.api.UpdateLesson(ctx, lessonID, patch); err != nil {
		s.rollback("lesson.update", snap, err)
		return err
	}
	return nil
}

// UpdateTask patches the task everywhere it appears in the per-lesson cache.
// The task may be cached under several lessons; all occurrences stay in sync.
func (s *Store) UpdateTask(ctx context.Context, taskID string, patch model.TaskPatch) error {
	s.mu.Lock()
	snap := s.snapshotLocked()
	touched := false
	for _, slot := range s.tasks {
		if t, ok := slot[taskID]; ok {
			patch.Apply(&t)
			slot[taskID] = t
			touched = true
		}
	}
	if touched {
		s.rev++
	}
	s.mu.Unlock()

	if err := s.api.UpdateTask(ctx, taskID, patch); err != nil {
		if touched {
			s.rollback("task.update", snap, err)
		}
		return err
	}
	return nil
}

// CreateQuest appends a quest optimistically under a temp id, then merges the
// server-assigned entity over it. Returns the final quest id.
func (s *Store) CreateQuest(ctx context.Context, draft model.Quest) (string, error) {
	s.mu.Lock()
	if s.course == nil {
		s.mu.Unlock()
		return "", ErrNotLoaded
	}
	courseID := s.course.ID
	snap := s.snapshotLocked()
	draft.ID = tempID()
	draft.CourseID = courseID
	draft.OrderIndex = len(s.quests)
	q := draft.Clone()
	s.quests[q.ID] = &q
	s.rev++
	tmp := q.ID
	s.mu.Unlock()

	created, err := s.api.CreateQuest(ctx, courseID, draft)
	if err != nil {
		s.rollback("quest.create", snap, err)
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quests[tmp]; ok {
		delete(s.quests, tmp)
		merged := created.Clone()
		s.quests[merged.ID] = &merged
		s.rev++
	}
	return created.ID, nil
}

// CreateLesson appends a lesson to the quest optimistically under a temp id.
func (s *Store) CreateLesson(ctx context.Context, questID string, draft model.Lesson) (string, error) {
	s.mu.Lock()
	if _, ok := s.quests[questID]; !ok {
		s.mu.Unlock()
		return "", NotFoundError{Kind: "quest", ID: questID}
	}
	snap := s.snapshotLocked()
	draft.ID = tempID()
	draft.QuestID = questID
	draft.SequenceOrder = len(s.lessonsOfLocked(questID)) + 1
	l := draft.Clone()
	s.lessons[l.ID] = &l
	s.rev++
	tmp := l.ID
	s.mu.Unlock()

	created, err := s.api.CreateLesson(ctx, questID, draft)
	if err != nil {
		s.rollback("lesson.create", snap, err)
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lessons[tmp]; ok {
		delete(s.lessons, tmp)
		merged := created.Clone()
		s.lessons[merged.ID] = &merged
		s.rev++
	}
	return created.ID, nil
}

// CreateTask persists a new task under the quest. Tasks only enter the local
// cache through a lesson link, so there is no optimistic local shape to
// apply; callers typically LinkTask the result next.
func (s *Store) CreateTask(ctx context.Context, questID string, draft model.Task) (*model.Task, error) {
	s.mu.Lock()
	if _, ok := s.quests[questID]; !ok {
		s.mu.Unlock()
		return nil, NotFoundError{Kind: "quest", ID: questID}
	}
	s.mu.Unlock()
	draft.QuestID = questID
	return s.api.CreateTask(ctx, questID, draft)
}

// PublishOutcome reports a successful draft -> published transition. BadgeID
// identifies the completion badge the collaborator provisioned as a side
// effect.
type PublishOutcome struct {
	Status  model.CourseStatus
	BadgeID string
}

func (s *Store) PublishCourse(ctx context.Context) (PublishOutcome, error) {
	s.mu.Lock()
	if s.course == nil {
		s.mu.Unlock()
		return PublishOutcome{}, ErrNotLoaded
	}
	courseID := s.course.ID
	snap := s.snapshotLocked()
	s.course.Status = model.CourseStatusPublished
	s.rev++
	s.mu.Unlock()

	res, err := s.api.PublishCourse(ctx, courseID)
	if err != nil {
		s.rollback("course.publish", snap, err)
		return PublishOutcome{}, err
	}

	out := PublishOutcome{Status: model.CourseStatusPublished, BadgeID: res.BadgeID}
	if res.Status != "" {
		out.Status = res.Status
		s.mu.Lock()
		if s.course != nil && s.course.ID == courseID {
			s.course.Status = res.Status
			s.rev++
		}
		s.mu.Unlock()
	}
	return out, nil
}
