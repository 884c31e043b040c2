package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseforge/internal/model"
)

func sampleTree() Tree {
	return Tree{
		Course: model.Course{ID: "crs-1", Title: "Intro to Go", Status: model.CourseStatusDraft},
		Quests: []QuestNode{
			{
				Quest: model.Quest{ID: "qst-1", Title: "Basics", OrderIndex: 0},
				Lessons: []LessonNode{
					{
						Lesson: model.Lesson{
							ID: "lsn-1", Title: "Hello", SequenceOrder: 1,
							LinkedTaskIDs: []string{"tsk-1", "tsk-2"},
						},
					},
				},
			},
		},
		Missing: true,
	}
}

func TestWrite_JSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTree(), "json", false))

	var decoded Tree
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "crs-1", decoded.Course.ID)
	assert.True(t, decoded.Missing)
}

func TestWrite_TreeShowsMarkersAndUnloadedHint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTree(), "tree", false))

	out := buf.String()
	assert.Contains(t, out, "Intro to Go")
	assert.Contains(t, out, "(no content)")
	assert.Contains(t, out, "2 linked task(s), not loaded")
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Write(&buf, sampleTree(), "edn", false))
}

func TestWrite_TreeFormatNeedsTree(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Write(&buf, map[string]string{"k": "v"}, "tree", false))
}
