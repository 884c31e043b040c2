// Package generate wraps the bulk/AI-assisted generation operations. Each
// operation is fire-and-forget from the tree's perspective until it resolves;
// it then triggers a full refetch-and-merge of the affected subtree, because
// generation creates entities whose ids and counts are not predictable
// client-side.
package generate

import (
	"context"

	"courseforge/internal/api"
	"courseforge/internal/logging"
	"courseforge/internal/model"
	"courseforge/internal/outline"
)

type Adapter struct {
	log   *logging.Logger
	api   api.Client
	store *outline.Store
}

func New(log *logging.Logger, client api.Client, store *outline.Store) *Adapter {
	if log == nil {
		log = logging.Nop()
	}
	return &Adapter{
		log:   log.With("component", "generate"),
		api:   client,
		store: store,
	}
}

// Result summarizes one bulk operation after the tree refresh.
type Result struct {
	CreatedCount int
	CreatedIDs   []string
}

// CanGenerateContent gates the content-generation actions: offered only while
// some lesson still lacks content.
func (a *Adapter) CanGenerateContent() bool {
	return a.store.HasLessonsWithoutContent()
}

// GenerateLessons asks the service to create lessons for every quest lacking
// them, then merges the new subtree.
func (a *Adapter) GenerateLessons(ctx context.Context) (Result, error) {
	course, ok := a.store.Course()
	if !ok {
		return Result{}, outline.ErrNotLoaded
	}
	res, err := a.api.GenerateLessons(ctx, course.ID)
	if err != nil {
		return Result{}, err
	}
	return a.finish(ctx, "generate.lessons", res)
}

// GenerateLessonContent generates step content for lessons lacking it.
func (a *Adapter) GenerateLessonContent(ctx context.Context) (Result, error) {
	course, ok := a.store.Course()
	if !ok {
		return Result{}, outline.ErrNotLoaded
	}
	res, err := a.api.GenerateLessonContent(ctx, course.ID)
	if err != nil {
		return Result{}, err
	}
	return a.finish(ctx, "generate.content", res)
}

// BulkCreateTasks creates a batch of tasks under the quest.
func (a *Adapter) BulkCreateTasks(ctx context.Context, questID string, drafts []model.Task) (Result, error) {
	res, err := a.api.BulkCreateTasks(ctx, questID, drafts)
	if err != nil {
		return Result{}, err
	}
	return a.finish(ctx, "tasks.bulk", res)
}

// RefineCourse runs an AI refinement pass over the whole course.
func (a *Adapter) RefineCourse(ctx context.Context, instructions string) (Result, error) {
	course, ok := a.store.Course()
	if !ok {
		return Result{}, outline.ErrNotLoaded
	}
	res, err := a.api.RefineCourse(ctx, course.ID, instructions)
	if err != nil {
		return Result{}, err
	}
	return a.finish(ctx, "course.refine", res)
}

// finish folds a successful bulk response back into the tree. The refresh is
// a coarse refetch-merge, not a fine-grained patch: the store keeps its task
// cache for surviving lessons and drops slots for removed ones.
func (a *Adapter) finish(ctx context.Context, op string, res *api.BulkResult) (Result, error) {
	out := Result{
		CreatedCount: res.CreatedCount,
		CreatedIDs:   append([]string(nil), res.CreatedIDs...),
	}
	if out.CreatedCount == 0 {
		out.CreatedCount = len(out.CreatedIDs)
	}
	if err := a.store.RefreshContent(ctx); err != nil {
		// Generation already happened server-side; a failed refresh leaves
		// the tree stale, not wrong. Surface it so the caller can retry.
		a.log.Warn("subtree refresh after bulk operation failed", "op", op, "error", err)
		return out, err
	}
	a.log.Info("bulk operation merged", "op", op, "created", out.CreatedCount)
	return out, nil
}
