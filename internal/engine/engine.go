// Package engine composes the outline store, navigation state, modal state,
// and generation adapter into the façade the presentation layer consumes.
// Each Engine is an independent authoring session with an explicit
// create -> Load -> Dispose lifecycle; nothing lives in package globals.
package engine

import (
	"context"

	"courseforge/internal/api"
	"courseforge/internal/generate"
	"courseforge/internal/logging"
	"courseforge/internal/modal"
	"courseforge/internal/model"
	"courseforge/internal/nav"
	"courseforge/internal/outline"
)

type Config struct {
	Logger *logging.Logger
	API    api.Client
}

type Engine struct {
	log *logging.Logger

	Outline *outline.Store
	Nav     *nav.State
	Modals  *modal.State
	Gen     *generate.Adapter
}

func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	store := outline.New(log, cfg.API)
	e := &Engine{
		log:     log.With("component", "engine"),
		Outline: store,
		Nav:     nav.New(),
		Modals:  modal.New(),
		Gen:     generate.New(log, cfg.API, store),
	}
	// Expanding a lesson node lazily loads its linked tasks; expanding a
	// quest node reloads its lessons if the initial load degraded to empty.
	// Both ensure calls no-op once their content is present, so a failed
	// load is retried simply by collapsing and re-expanding the node. The
	// callback runs outside the nav lock.
	e.Nav.SetOnExpand(func(id string, kind model.NodeKind) {
		ctx := context.Background()
		switch kind {
		case model.NodeKindLesson:
			if err := e.Outline.EnsureLessonTasks(ctx, id); err != nil {
				e.log.Warn("lazy task load failed", "lesson_id", id, "error", err)
			}
		case model.NodeKindQuest:
			if err := e.Outline.EnsureQuestLessons(ctx, id); err != nil {
				e.log.Warn("lesson reload failed", "quest_id", id, "error", err)
			}
		}
	})
	return e
}

// Load fetches the course tree. Selection, expansion, and modal state reset
// with it: a freshly loaded course starts from a clean navigational slate.
func (e *Engine) Load(ctx context.Context, courseID string) error {
	if err := e.Outline.LoadCourse(ctx, courseID); err != nil {
		return err
	}
	e.Nav.Reset()
	e.Modals.CloseAll()
	return nil
}

// Dispose ends the session. Persistence calls already issued run to
// completion server-side; their results are ignored locally.
func (e *Engine) Dispose() {
	e.Outline.Dispose()
	e.Nav.Reset()
	e.Modals.CloseAll()
}
