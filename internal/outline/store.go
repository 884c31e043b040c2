package outline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"courseforge/internal/api"
	"courseforge/internal/logging"
	"courseforge/internal/model"
)

// Store is the single source of truth for one course's content tree. All
// mutation flows through it: every structural change applies optimistically,
// persists through the API client, and rolls back to the pre-mutation
// snapshot when persistence fails.
//
// Stores are created per authoring session (create -> Load -> Dispose); there
// is no ambient global instance.
type Store struct {
	mu  sync.Mutex
	log *logging.Logger
	api api.Client

	course  *model.Course
	quests  map[string]*model.Quest
	lessons map[string]*model.Lesson

	// tasks is the per-lesson task cache ("tasksMap"). A lesson id is present
	// as a key only once its tasks have been fetched; a missing key means
	// "not yet loaded", not "has no tasks".
	tasks map[string]map[string]model.Task

	// rev increments on every applied mutation. Derived views memoize on it.
	rev uint64

	missingRev   uint64
	missingValue bool
	missingKnown bool

	disposed bool
}

func New(log *logging.Logger, client api.Client) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		log:     log.With("component", "outline"),
		api:     client,
		quests:  map[string]*model.Quest{},
		lessons: map[string]*model.Lesson{},
		tasks:   map[string]map[string]model.Task{},
	}
}

// Dispose marks the store dead. In-flight persistence calls still run to
// completion server-side; their continuations become no-ops locally.
func (s *Store) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	s.course = nil
	s.quests = map[string]*model.Quest{}
	s.lessons = map[string]*model.Lesson{}
	s.tasks = map[string]map[string]model.Task{}
	s.rev++
}

// LoadCourse fetches the course, its quests, and every quest's lessons. Task
// lists are not eagerly fetched. A failure loading one quest's lessons
// degrades that quest to an empty lesson list (logged, not returned); the
// author retries by re-expanding the node.
func (s *Store) LoadCourse(ctx context.Context, courseID string) error {
	course, err := s.api.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	quests, err := s.api.ListQuests(ctx, courseID)
	if err != nil {
		return err
	}

	lessonsByQuest := make([][]model.Lesson, len(quests))
	g, gctx := errgroup.WithContext(ctx)
	for i := range quests {
		g.Go(func() error {
			ls, err := s.api.ListLessons(gctx, quests[i].ID)
			if err != nil {
				s.log.Warn("lesson load failed; degrading quest to empty",
					"quest_id", quests[i].ID, "error", err)
				return nil
			}
			lessonsByQuest[i] = ls
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return nil
	}
	s.course = course
	s.quests = map[string]*model.Quest{}
	s.lessons = map[string]*model.Lesson{}
	s.tasks = map[string]map[string]model.Task{}
	for i := range quests {
		q := quests[i]
		s.quests[q.ID] = &q
		for _, l := range lessonsByQuest[i] {
			lesson := l.Clone()
			s.lessons[lesson.ID] = &lesson
		}
	}
	s.rev++
	s.log.Info("course loaded", "course_id", courseID, "quests", len(s.quests), "lessons", len(s.lessons))
	return nil
}

// EnsureQuestLessons refetches the quest's lessons when none are loaded. This
// is the recovery path for a quest whose lesson load degraded to empty: the
// next expansion of the quest node retries the fetch. A genuinely empty quest
// refetches too, which costs one call and changes nothing.
func (s *Store) EnsureQuestLessons(ctx context.Context, questID string) error {
	s.mu.Lock()
	if _, ok := s.quests[questID]; !ok {
		s.mu.Unlock()
		return NotFoundError{Kind: "quest", ID: questID}
	}
	if len(s.lessonsOfLocked(questID)) > 0 {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	fetched, err := s.api.ListLessons(ctx, questID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The quest may have been deleted while the fetch was in flight.
	if s.disposed {
		return nil
	}
	if _, ok := s.quests[questID]; !ok {
		return nil
	}
	for _, l := range fetched {
		lesson := l.Clone()
		s.lessons[lesson.ID] = &lesson
	}
	s.rev++
	return nil
}

// RefreshContent refetches quests and lessons and merges them over the
// current tree. Task cache entries survive for lessons that still exist;
// slots for removed lessons are dropped. Used after bulk generation, where
// created ids and counts are not predictable client-side.
func (s *Store) RefreshContent(ctx context.Context) error {
	s.mu.Lock()
	if s.course == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	courseID := s.course.ID
	s.mu.Unlock()

	quests, err := s.api.ListQuests(ctx, courseID)
	if err != nil {
		return err
	}
	lessonsByQuest := make([][]model.Lesson, len(quests))
	g, gctx := errgroup.WithContext(ctx)
	for i := range quests {
		g.Go(func() error {
			ls, err := s.api.ListLessons(gctx, quests[i].ID)
			if err != nil {
				s.log.Warn("lesson refresh failed; keeping quest empty",
					"quest_id", quests[i].ID, "error", err)
				return nil
			}
			lessonsByQuest[i] = ls
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed || s.course == nil || s.course.ID != courseID {
		return nil
	}
	s.quests = map[string]*model.Quest{}
	s.lessons = map[string]*model.Lesson{}
	for i := range quests {
		q := quests[i]
		s.quests[q.ID] = &q
		for _, l := range lessonsByQuest[i] {
			lesson := l.Clone()
			s.lessons[lesson.ID] = &lesson
		}
	}
	for lessonID := range s.tasks {
		if _, ok := s.lessons[lessonID]; !ok {
			delete(s.tasks, lessonID)
		}
	}
	s.rev++
	return nil
}

// Revision returns the tree's mutation counter.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}
