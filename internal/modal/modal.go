// Package modal tracks which overlay dialogs are open and the contextual
// payload each carries (the lesson being edited, the lesson a task is being
// added to, ...). Closing a modal clears its payload so stale context can
// never flash on the next open.
package modal

import "sync"

type Kind string

const (
	KindAddQuest        Kind = "add_quest"
	KindEditQuest       Kind = "edit_quest"
	KindMoveLesson      Kind = "move_lesson"
	KindAddLesson       Kind = "add_lesson"
	KindLessonEditor    Kind = "lesson_editor"
	KindAddStep         Kind = "add_step"
	KindStepEditor      Kind = "step_editor"
	KindAddTask         Kind = "add_task"
	KindEditTask        Kind = "edit_task"
	KindMoveTask        Kind = "move_task"
	KindBulkTasks       Kind = "bulk_tasks"
	KindGenerateLessons Kind = "generate_lessons"
	KindGenerateContent Kind = "generate_content"
	KindAIRefine        Kind = "ai_refine"
	KindDeleteQuest     Kind = "delete_quest"
	KindPublishCourse   Kind = "publish_course"
)

type State struct {
	mu      sync.Mutex
	open    map[Kind]bool
	payload map[Kind]any
}

func New() *State {
	return &State{
		open:    map[Kind]bool{},
		payload: map[Kind]any{},
	}
}

// Open opens the modal with its contextual payload, replacing whatever
// payload an earlier open left behind.
func (s *State) Open(kind Kind, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[kind] = true
	s.payload[kind] = payload
}

// Close closes the modal and clears its payload. The clear completes before
// any subsequent Open of the same modal can observe it.
func (s *State) Close(kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.open, kind)
	delete(s.payload, kind)
}

func (s *State) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = map[Kind]bool{}
	s.payload = map[Kind]any{}
}

func (s *State) IsOpen(kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open[kind]
}

// Payload returns the modal's contextual payload. ok is false when the modal
// is closed (a closed modal never exposes stale context).
func (s *State) Payload(kind Kind) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open[kind] {
		return nil, false
	}
	return s.payload[kind], true
}

// OpenKinds returns the modals currently open. With independent flags more
// than one can be open at a time (e.g. a confirm on top of an editor).
func (s *State) OpenKinds() []Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Kind, 0, len(s.open))
	for k := range s.open {
		out = append(out, k)
	}
	return out
}
