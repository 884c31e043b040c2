package outline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseforge/internal/logging"
	"courseforge/internal/model"
)

func TestLoadCourse_PopulatesTreeWithoutTasks(t *testing.T) {
	s, fc := loadedStore(t)

	course, ok := s.Course()
	require.True(t, ok)
	assert.Equal(t, "Intro to Go", course.Title)
	assert.Equal(t, model.CourseStatusDraft, course.Status)

	quests := s.Quests()
	require.Len(t, quests, 2)
	assert.Equal(t, []string{"qst-1", "qst-2"}, []string{quests[0].ID, quests[1].ID})

	assert.Equal(t, []string{"lsn-a", "lsn-b"}, lessonIDsOf(s, "qst-1"))
	assert.Equal(t, []string{"lsn-c"}, lessonIDsOf(s, "qst-2"))

	// Tasks are lazy: no slot loaded, no fetch issued.
	_, loaded := s.TasksOf("lsn-a")
	assert.False(t, loaded)
	assert.Zero(t, fc.callCount("ListTasks"))
}

func TestLoadCourse_LessonFailureDegradesQuestToEmpty(t *testing.T) {
	fc := seededFake()
	fc.fail("ListLessons:qst-2")
	s := New(logging.Nop(), fc)

	require.NoError(t, s.LoadCourse(context.Background(), "crs-1"))

	// qst-1 loads fine, qst-2 degrades to an empty lesson list.
	assert.Equal(t, []string{"lsn-a", "lsn-b"}, lessonIDsOf(s, "qst-1"))
	assert.Empty(t, s.LessonsOf("qst-2"))
	require.Len(t, s.Quests(), 2)
}

func TestLoadCourse_CourseFetchFailureIsReturned(t *testing.T) {
	fc := seededFake()
	fc.fail("GetCourse")
	s := New(logging.Nop(), fc)

	require.Error(t, s.LoadCourse(context.Background(), "crs-1"))
	_, ok := s.Course()
	assert.False(t, ok)
}

func TestEnsureQuestLessons_RecoversDegradedQuest(t *testing.T) {
	fc := seededFake()
	fc.fail("ListLessons:qst-2")
	s := New(logging.Nop(), fc)
	require.NoError(t, s.LoadCourse(context.Background(), "crs-1"))
	require.Empty(t, s.LessonsOf("qst-2"))

	// Service recovered; the next ensure refetches just this quest.
	fc.clearFail("ListLessons:qst-2")
	require.NoError(t, s.EnsureQuestLessons(context.Background(), "qst-2"))
	assert.Equal(t, []string{"lsn-c"}, lessonIDsOf(s, "qst-2"))

	// A quest with lessons loaded never refetches.
	before := fc.callCount("ListLessons")
	require.NoError(t, s.EnsureQuestLessons(context.Background(), "qst-2"))
	assert.Equal(t, before, fc.callCount("ListLessons"))
}

func TestEnsureQuestLessons_FailurePropagatesAndStaysRetryable(t *testing.T) {
	fc := seededFake()
	fc.fail("ListLessons:qst-2")
	s := New(logging.Nop(), fc)
	require.NoError(t, s.LoadCourse(context.Background(), "crs-1"))

	require.Error(t, s.EnsureQuestLessons(context.Background(), "qst-2"))
	assert.Empty(t, s.LessonsOf("qst-2"))

	fc.clearFail("ListLessons:qst-2")
	require.NoError(t, s.EnsureQuestLessons(context.Background(), "qst-2"))
	assert.Equal(t, []string{"lsn-c"}, lessonIDsOf(s, "qst-2"))
}

func TestEnsureQuestLessons_UnknownQuest(t *testing.T) {
	s, _ := loadedStore(t)

	err := s.EnsureQuestLessons(context.Background(), "qst-gone")
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "quest", nf.Kind)
}

func TestRefreshContent_MergesAndPrunesTaskCache(t *testing.T) {
	s, fc := loadedStore(t)
	require.NoError(t, s.EnsureLessonTasks(context.Background(), "lsn-a"))

	// Server-side: lsn-b disappeared, a generated lesson arrived.
	fc.mu.Lock()
	fc.lessonsByQuest["qst-1"] = []model.Lesson{
		fc.lessonsByQuest["qst-1"][0],
		{ID: "lsn-gen", QuestID: "qst-1", Title: "Generated", SequenceOrder: 2,
			Content: model.LessonContent{Version: 1}},
	}
	fc.mu.Unlock()

	require.NoError(t, s.RefreshContent(context.Background()))

	assert.Equal(t, []string{"lsn-a", "lsn-gen"}, lessonIDsOf(s, "qst-1"))
	// Surviving lesson keeps its cache slot; nothing refetched.
	tasks, loaded := s.TasksOf("lsn-a")
	require.True(t, loaded)
	require.Len(t, tasks, 1)
	assert.Equal(t, "tsk-1", tasks[0].ID)
	assert.Equal(t, 1, fc.callCount("ListTasks"))
}

func TestDispose_DropsStateAndIgnoresLateResults(t *testing.T) {
	s, _ := loadedStore(t)
	s.Dispose()

	_, ok := s.Course()
	assert.False(t, ok)
	assert.Empty(t, s.Quests())

	// A continuation arriving after Dispose must not resurrect state.
	require.NoError(t, s.LoadCourse(context.Background(), "crs-1"))
	_, ok = s.Course()
	assert.False(t, ok)
}

func TestRevision_BumpsOnMutation(t *testing.T) {
	s, _ := loadedStore(t)
	before := s.Revision()
	require.NoError(t, s.UpdateQuest(context.Background(), "qst-1", model.QuestPatch{Title: strPtr("Basics II")}))
	assert.Greater(t, s.Revision(), before)
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
