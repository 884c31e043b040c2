package outline

import (
	"context"

	"courseforge/internal/model"
)

// Task<->lesson links are two-sided: the lesson's linked_task_ids set is
// authoritative, and the per-lesson task cache mirrors it. Every operation
// here maintains both sides together so link symmetry holds after link,
// unlink, and move, including when the second half of a move fails.

// LinkTask links the task to the lesson. The task must belong to the lesson's
// quest.
func (s *Store) LinkTask(ctx context.Context, lessonID string, task model.Task) error {
	s.mu.Lock()
	l, ok := s.lessons[lessonID]
	if !ok {
		s.mu.Unlock()
		return NotFoundError{Kind: "lesson", ID: lessonID}
	}
	if task.QuestID != "" && task.QuestID != l.QuestID {
		s.mu.Unlock()
		return ConsistencyError{Reason: "task belongs to a different quest than the lesson"}
	}
	if l.LinksTask(task.ID) {
		s.mu.Unlock()
		return nil
	}
	snap := s.snapshotLocked()
	l.LinkedTaskIDs = append(l.LinkedTaskIDs, task.ID)
	s.cacheTaskLocked(lessonID, task)
	s.rev++
	s.mu.Unlock()

	if err := s.api.LinkTask(ctx, lessonID, task.ID); err != nil {
		s.rollback("task.link", snap, err)
		return err
	}
	return nil
}

// UnlinkTask removes the task from the lesson's link set and cache slot.
func (s *Store) UnlinkTask(ctx context.Context, lessonID, taskID string) error {
	s.mu.Lock()
	l, ok := s.lessons[lessonID]
	if !ok {
		s.mu.Unlock()
		return NotFoundError{Kind: "lesson", ID: lessonID}
	}
	if !l.LinksTask(taskID) {
		s.mu.Unlock()
		return nil
	}
	snap := s.snapshotLocked()
	s.removeLinkLocked(l, taskID)
	s.rev++
	s.mu.Unlock()

	if err := s.api.UnlinkTask(ctx, lessonID, taskID); err != nil {
		s.rollback("task.unlink", snap, err)
		return err
	}
	return nil
}

// MoveTask relinks the task from one lesson to another as an atomic pair:
// unlink from the source, link to the destination. If the link phase fails
// after the unlink succeeded, the unlink is compensated remotely and the
// local tree restored, so the task is never orphaned from both lessons.
func (s *Store) MoveTask(ctx context.Context, taskID, fromLessonID, toLessonID string) error {
	s.mu.Lock()
	from, okFrom := s.lessons[fromLessonID]
	to, okTo := s.lessons[toLessonID]
	if !okFrom {
		s.mu.Unlock()
		return NotFoundError{Kind: "lesson", ID: fromLessonID}
	}
	if !okTo {
		s.mu.Unlock()
		return NotFoundError{Kind: "lesson", ID: toLessonID}
	}
	if !from.LinksTask(taskID) {
		s.mu.Unlock()
		return NotFoundError{Kind: "task", ID: taskID}
	}
	task, cached := s.cachedTaskLocked(fromLessonID, taskID)
	if !cached {
		task = model.Task{ID: taskID, QuestID: from.QuestID}
	}
	snap := s.snapshotLocked()
	s.removeLinkLocked(from, taskID)
	if !to.LinksTask(taskID) {
		to.LinkedTaskIDs = append(to.LinkedTaskIDs, taskID)
	}
	s.cacheTaskLocked(toLessonID, task)
	s.rev++
	s.mu.Unlock()

	err := runSaga(ctx, s.log, "task.move", []sagaStep{
		{
			name: "unlink-source",
			run: func(ctx context.Context) error {
				return s.api.UnlinkTask(ctx, fromLessonID, taskID)
			},
			compensate: func(ctx context.Context) error {
				return s.api.LinkTask(ctx, fromLessonID, taskID)
			},
		},
		{
			name: "link-destination",
			run: func(ctx context.Context) error {
				return s.api.LinkTask(ctx, toLessonID, taskID)
			},
		},
	})
	if err != nil {
		s.rollback("task.move", snap, err)
		return err
	}
	return nil
}

// cacheTaskLocked mirrors the task into the lesson's cache slot. A slot that
// was never loaded stays absent: seeding it with just this task would make it
// look loaded while the lesson's other linked tasks are missing. The next
// load fetches the full linked set, new link included.
func (s *Store) cacheTaskLocked(lessonID string, task model.Task) {
	slot, ok := s.tasks[lessonID]
	if !ok {
		return
	}
	slot[task.ID] = task.Clone()
}

func (s *Store) cachedTaskLocked(lessonID, taskID string) (model.Task, bool) {
	slot, ok := s.tasks[lessonID]
	if !ok {
		return model.Task{}, false
	}
	t, ok := slot[taskID]
	return t, ok
}

// removeLinkLocked drops taskID from both sides of the lesson's relation.
func (s *Store) removeLinkLocked(l *model.Lesson, taskID string) {
	kept := l.LinkedTaskIDs[:0]
	for _, id := range l.LinkedTaskIDs {
		if id != taskID {
			kept = append(kept, id)
		}
	}
	l.LinkedTaskIDs = kept
	if slot, ok := s.tasks[l.ID]; ok {
		delete(slot, taskID)
	}
}
