package outline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"courseforge/internal/api"
	"courseforge/internal/model"
)

// fakeClient is an in-memory api.Client with programmable failures, call
// recording, and a per-call hook for interleaving tests.
type fakeClient struct {
	mu sync.Mutex

	course         model.Course
	quests         []model.Quest
	lessonsByQuest map[string][]model.Lesson
	tasksByQuest   map[string][]model.Task

	deletion api.QuestDeletion
	publish  api.PublishResult
	bulk     api.BulkResult

	failOn   map[string]error
	failOnce map[string]error
	calls    []string
	// onCall runs before the op executes, outside the store's lock. Used to
	// simulate mutations landing while a fetch is in flight.
	onCall func(op string)

	nextID int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		lessonsByQuest: map[string][]model.Lesson{},
		tasksByQuest:   map[string][]model.Task{},
		failOn:         map[string]error{},
		failOnce:       map[string]error{},
		deletion:       api.QuestDeletion{QuestDeleted: true},
		publish:        api.PublishResult{Status: model.CourseStatusPublished, BadgeID: "badge-1"},
		bulk:           api.BulkResult{Success: true},
	}
}

func (f *fakeClient) fail(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn[op] = fmt.Errorf("%s: injected failure", op)
}

// failNext fails only the next call to op; later calls (e.g. a saga
// compensation) succeed.
func (f *fakeClient) failNext(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOnce[op] = fmt.Errorf("%s: injected one-shot failure", op)
}

// callCount counts calls to op regardless of their arguments. Calls are
// recorded as "op arg1 arg2", so the op matches exactly or as a prefix.
func (f *fakeClient) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op || strings.HasPrefix(c, op+" ") {
			n++
		}
	}
	return n
}

func (f *fakeClient) clearFail(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failOn, op)
}

func (f *fakeClient) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

// begin records the call and returns the injected error, if any.
func (f *fakeClient) begin(op string, args ...string) error {
	f.mu.Lock()
	rec := op
	for _, a := range args {
		rec += " " + a
	}
	f.calls = append(f.calls, rec)
	err := f.failOn[op]
	if err == nil {
		if once, ok := f.failOnce[op]; ok {
			err = once
			delete(f.failOnce, op)
		}
	}
	hook := f.onCall
	f.mu.Unlock()
	if hook != nil {
		hook(op)
	}
	return err
}

func (f *fakeClient) assignID(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return fmt.Sprintf("%s-%03d", prefix, f.nextID)
}

func (f *fakeClient) GetCourse(ctx context.Context, courseID string) (*model.Course, error) {
	if err := f.begin("GetCourse", courseID); err != nil {
		return nil, err
	}
	c := f.course.Clone()
	return &c, nil
}

func (f *fakeClient) ListQuests(ctx context.Context, courseID string) ([]model.Quest, error) {
	if err := f.begin("ListQuests", courseID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Quest(nil), f.quests...), nil
}

func (f *fakeClient) ListLessons(ctx context.Context, questID string) ([]model.Lesson, error) {
	if err := f.begin("ListLessons", questID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOn["ListLessons:"+questID]; ok {
		return nil, err
	}
	out := make([]model.Lesson, 0, len(f.lessonsByQuest[questID]))
	for _, l := range f.lessonsByQuest[questID] {
		out = append(out, l.Clone())
	}
	return out, nil
}

func (f *fakeClient) ListTasks(ctx context.Context, questID string) ([]model.Task, error) {
	if err := f.begin("ListTasks", questID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Task(nil), f.tasksByQuest[questID]...), nil
}

func (f *fakeClient) CreateQuest(ctx context.Context, courseID string, draft model.Quest) (*model.Quest, error) {
	if err := f.begin("CreateQuest", courseID); err != nil {
		return nil, err
	}
	created := draft.Clone()
	created.ID = f.assignID("qst")
	created.CourseID = courseID
	return &created, nil
}

func (f *fakeClient) CreateLesson(ctx context.Context, questID string, draft model.Lesson) (*model.Lesson, error) {
	if err := f.begin("CreateLesson", questID); err != nil {
		return nil, err
	}
	created := draft.Clone()
	created.ID = f.assignID("lsn")
	created.QuestID = questID
	return &created, nil
}

func (f *fakeClient) CreateTask(ctx context.Context, questID string, draft model.Task) (*model.Task, error) {
	if err := f.begin("CreateTask", questID); err != nil {
		return nil, err
	}
	created := draft.Clone()
	created.ID = f.assignID("tsk")
	created.QuestID = questID
	return &created, nil
}

func (f *fakeClient) UpdateCourse(ctx context.Context, courseID string, patch model.CoursePatch) error {
	return f.begin("UpdateCourse", courseID)
}

func (f *fakeClient) UpdateQuest(ctx context.Context, questID string, patch model.QuestPatch) error {
	return f.begin("UpdateQuest", questID)
}

func (f *fakeClient) UpdateLesson(ctx context.Context, lessonID string, patch model.LessonPatch) (*model.Lesson, error) {
	if err := f.begin("UpdateLesson", lessonID); err != nil {
		return nil, err
	}
	stored := model.Lesson{ID: lessonID}
	if patch.Content != nil {
		stored.Content = patch.Content.Clone()
	}
	return &stored, nil
}

func (f *fakeClient) UpdateTask(ctx context.Context, taskID string, patch model.TaskPatch) error {
	return f.begin("UpdateTask", taskID)
}

func (f *fakeClient) ReorderQuests(ctx context.Context, courseID string, orderedIDs []string) error {
	return f.begin("ReorderQuests", orderedIDs...)
}

func (f *fakeClient) ReorderLessons(ctx context.Context, questID string, orderedIDs []string) error {
	return f.begin("ReorderLessons", orderedIDs...)
}

func (f *fakeClient) ReorderSteps(ctx context.Context, lessonID string, orderedIDs []string) error {
	return f.begin("ReorderSteps", orderedIDs...)
}

func (f *fakeClient) LinkTask(ctx context.Context, lessonID, taskID string) error {
	return f.begin("LinkTask", lessonID, taskID)
}

func (f *fakeClient) UnlinkTask(ctx context.Context, lessonID, taskID string) error {
	return f.begin("UnlinkTask", lessonID, taskID)
}

func (f *fakeClient) DeleteQuest(ctx context.Context, questID string, deleteContent bool) (*api.QuestDeletion, error) {
	if err := f.begin("DeleteQuest", questID, fmt.Sprintf("content=%v", deleteContent)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.deletion
	return &d, nil
}

func (f *fakeClient) DeleteLesson(ctx context.Context, lessonID string) error {
	return f.begin("DeleteLesson", lessonID)
}

func (f *fakeClient) PublishCourse(ctx context.Context, courseID string) (*api.PublishResult, error) {
	if err := f.begin("PublishCourse", courseID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.publish
	return &p, nil
}

func (f *fakeClient) GenerateLessons(ctx context.Context, courseID string) (*api.BulkResult, error) {
	if err := f.begin("GenerateLessons", courseID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.bulk
	return &b, nil
}

func (f *fakeClient) GenerateLessonContent(ctx context.Context, courseID string) (*api.BulkResult, error) {
	if err := f.begin("GenerateLessonContent", courseID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.bulk
	return &b, nil
}

func (f *fakeClient) BulkCreateTasks(ctx context.Context, questID string, drafts []model.Task) (*api.BulkResult, error) {
	if err := f.begin("BulkCreateTasks", questID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.bulk
	return &b, nil
}

func (f *fakeClient) RefineCourse(ctx context.Context, courseID, instructions string) (*api.BulkResult, error) {
	if err := f.begin("RefineCourse", courseID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.bulk
	return &b, nil
}

var _ api.Client = (*fakeClient)(nil)
