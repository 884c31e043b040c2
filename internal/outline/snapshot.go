package outline

import "courseforge/internal/model"

// snapshot is a deep copy of the whole tree, captured before an optimistic
// apply. Restoring it must leave the store deep-equal to the pre-mutation
// state, task cache and link sets included.
type snapshot struct {
	course  *model.Course
	quests  map[string]*model.Quest
	lessons map[string]*model.Lesson
	tasks   map[string]map[string]model.Task
}

func (s *Store) snapshotLocked() snapshot {
	snap := snapshot{
		quests:  make(map[string]*model.Quest, len(s.quests)),
		lessons: make(map[string]*model.Lesson, len(s.lessons)),
		tasks:   make(map[string]map[string]model.Task, len(s.tasks)),
	}
	if s.course != nil {
		c := s.course.Clone()
		snap.course = &c
	}
	for id, q := range s.quests {
		cp := q.Clone()
		snap.quests[id] = &cp
	}
	for id, l := range s.lessons {
		cp := l.Clone()
		snap.lessons[id] = &cp
	}
	for lessonID, byTask := range s.tasks {
		slot := make(map[string]model.Task, len(byTask))
		for id, t := range byTask {
			slot[id] = t.Clone()
		}
		snap.tasks[lessonID] = slot
	}
	return snap
}

// restoreLocked rolls the tree back to snap and bumps the revision so
// memoized views recompute.
func (s *Store) restoreLocked(snap snapshot) {
	s.course = snap.course
	s.quests = snap.quests
	s.lessons = snap.lessons
	s.tasks = snap.tasks
	s.rev++
}

// rollback re-locks, restores, and logs the failed operation. Continuations
// call it after a persistence failure; if the store was disposed meanwhile
// the restore is skipped.
func (s *Store) rollback(op string, snap snapshot, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.restoreLocked(snap)
	s.log.Warn("mutation rolled back", "op", op, "error", cause)
}
