package outline

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseforge/internal/logging"
	"courseforge/internal/model"
)

func TestPlanReorder(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		moving  string
		target  string
		want    []string
		wantOK  bool
	}{
		{
			name: "move last before first",
			ids:  []string{"a", "b", "c"}, moving: "c", target: "a",
			want: []string{"c", "a", "b"}, wantOK: true,
		},
		{
			name: "move first after middle",
			ids:  []string{"a", "b", "c"}, moving: "a", target: "c",
			want: []string{"b", "a", "c"}, wantOK: true,
		},
		{
			name: "stale moving id",
			ids:  []string{"a", "b"}, moving: "zzz", target: "a",
			wantOK: false,
		},
		{
			name: "stale target id",
			ids:  []string{"a", "b"}, moving: "a", target: "zzz",
			wantOK: false,
		},
		{
			name: "identity move",
			ids:  []string{"a", "b"}, moving: "a", target: "a",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := planReorder(tt.ids, tt.moving, tt.target)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestReorderLessons_MoveLastBeforeFirst(t *testing.T) {
	fc := seededFake()
	fc.lessonsByQuest["qst-1"] = []model.Lesson{
		{ID: "L1", QuestID: "qst-1", Title: "one", SequenceOrder: 1},
		{ID: "L2", QuestID: "qst-1", Title: "two", SequenceOrder: 2},
		{ID: "L3", QuestID: "qst-1", Title: "three", SequenceOrder: 3},
	}
	s := New(logging.Nop(), fc)
	require.NoError(t, s.LoadCourse(context.Background(), "crs-1"))

	require.NoError(t, s.ReorderLessons(context.Background(), "L3", "L1"))

	assert.Equal(t, []string{"L3", "L1", "L2"}, lessonIDsOf(s, "qst-1"))
	assert.Equal(t, []int{1, 2, 3}, sequenceOrdersOf(s, "qst-1"))

	// One batch call carrying the full new ordering, not one per sibling.
	assert.Equal(t, 1, fc.callCount("ReorderLessons"))
	assert.Equal(t, "ReorderLessons L3 L1 L2", fc.lastCall())
}

func TestReorderLessons_StaleIDIsNoOp(t *testing.T) {
	s, fc := loadedStore(t)
	before := s.dump()

	require.NoError(t, s.ReorderLessons(context.Background(), "lsn-gone", "lsn-a"))
	require.NoError(t, s.ReorderLessons(context.Background(), "lsn-a", "lsn-gone"))
	// Lessons in different quests: also a stale reference, also a no-op.
	require.NoError(t, s.ReorderLessons(context.Background(), "lsn-a", "lsn-c"))

	assert.Equal(t, before, s.dump())
	assert.Zero(t, fc.callCount("ReorderLessons"))
}

func TestReorderLessons_RollbackOnFailure(t *testing.T) {
	s, fc := loadedStore(t)
	before := s.dump()
	fc.fail("ReorderLessons")

	err := s.ReorderLessons(context.Background(), "lsn-b", "lsn-a")
	require.Error(t, err)
	assert.Equal(t, before, s.dump())
}

func TestReorderQuests(t *testing.T) {
	s, fc := loadedStore(t)

	require.NoError(t, s.ReorderQuests(context.Background(), "qst-2", "qst-1"))

	quests := s.Quests()
	require.Len(t, quests, 2)
	assert.Equal(t, "qst-2", quests[0].ID)
	assert.Equal(t, 0, quests[0].OrderIndex)
	assert.Equal(t, 1, quests[1].OrderIndex)
	assert.Equal(t, 1, fc.callCount("ReorderQuests"))
}

func TestReorderSteps(t *testing.T) {
	s, fc := loadedStore(t)

	require.NoError(t, s.ReorderSteps(context.Background(), "lsn-a", "stp-2", "stp-1"))

	steps, ok := s.StepsOf("lsn-a")
	require.True(t, ok)
	require.Len(t, steps, 2)
	assert.Equal(t, "stp-2", steps[0].ID)
	assert.Equal(t, 0, steps[0].Order)
	assert.Equal(t, "stp-1", steps[1].ID)
	assert.Equal(t, 1, steps[1].Order)
	assert.Equal(t, 1, fc.callCount("ReorderSteps"))
}

// Ordering invariant: after any sequence of reorders, each sibling group's
// order values are a contiguous range with no duplicates.
func TestReorder_OrderingInvariantUnderRandomMoves(t *testing.T) {
	fc := seededFake()
	fc.lessonsByQuest["qst-1"] = []model.Lesson{
		{ID: "L1", QuestID: "qst-1", SequenceOrder: 1},
		{ID: "L2", QuestID: "qst-1", SequenceOrder: 2},
		{ID: "L3", QuestID: "qst-1", SequenceOrder: 3},
		{ID: "L4", QuestID: "qst-1", SequenceOrder: 4},
		{ID: "L5", QuestID: "qst-1", SequenceOrder: 5},
	}
	s := New(logging.Nop(), fc)
	require.NoError(t, s.LoadCourse(context.Background(), "crs-1"))

	ids := []string{"L1", "L2", "L3", "L4", "L5"}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		moving := ids[rng.Intn(len(ids))]
		target := ids[rng.Intn(len(ids))]
		require.NoError(t, s.ReorderLessons(context.Background(), moving, target))
		assert.Equal(t, []int{1, 2, 3, 4, 5}, sequenceOrdersOf(s, "qst-1"))
	}
}
