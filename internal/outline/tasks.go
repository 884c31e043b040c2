package outline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"courseforge/internal/model"
)

// Lazy task loading. The per-lesson cache populates on first expansion of a
// lesson node, or via LoadAllLessonTasks which groups lessons by owning quest
// so there is one fetch per distinct quest, not one per lesson.

// EnsureLessonTasks populates the lesson's cache slot if it hasn't been
// loaded yet. Safe to call on every expansion; already-loaded slots are left
// alone.
func (s *Store) EnsureLessonTasks(ctx context.Context, lessonID string) error {
	s.mu.Lock()
	l, ok := s.lessons[lessonID]
	if !ok {
		s.mu.Unlock()
		return NotFoundError{Kind: "lesson", ID: lessonID}
	}
	if _, loaded := s.tasks[lessonID]; loaded {
		s.mu.Unlock()
		return nil
	}
	questID := l.QuestID
	s.mu.Unlock()

	tasks, err := s.api.ListTasks(ctx, questID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The lesson may have been deleted while the fetch was in flight; never
	// write into a cache slot that no longer has an owner.
	l, ok = s.lessons[lessonID]
	if !ok {
		return nil
	}
	s.tasks[lessonID] = linkedSubset(l, tasks)
	s.rev++
	return nil
}

// LoadAllLessonTasks fills the cache for every lesson in one merged update.
// Fetch fan-out is bounded to one request per distinct quest.
func (s *Store) LoadAllLessonTasks(ctx context.Context) error {
	s.mu.Lock()
	if s.course == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	questIDs := make([]string, 0, len(s.quests))
	for id := range s.quests {
		questIDs = append(questIDs, id)
	}
	s.mu.Unlock()

	var fetchMu sync.Mutex
	byQuest := make(map[string][]model.Task, len(questIDs))
	g, gctx := errgroup.WithContext(ctx)
	for _, questID := range questIDs {
		g.Go(func() error {
			tasks, err := s.api.ListTasks(gctx, questID)
			if err != nil {
				return err
			}
			fetchMu.Lock()
			byQuest[questID] = tasks
			fetchMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Single merged write-back: one revision bump, lessons deleted while the
	// fetches ran are skipped.
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lessons {
		tasks, ok := byQuest[l.QuestID]
		if !ok {
			continue
		}
		s.tasks[l.ID] = linkedSubset(l, tasks)
	}
	s.rev++
	return nil
}

// linkedSubset filters a quest's task list down to the lesson's linked set,
// keyed by task id.
func linkedSubset(l *model.Lesson, tasks []model.Task) map[string]model.Task {
	slot := map[string]model.Task{}
	for _, t := range tasks {
		if l.LinksTask(t.ID) {
			slot[t.ID] = t.Clone()
		}
	}
	return slot
}
