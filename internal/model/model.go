package model

import "strings"

type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
)

type Course struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      CourseStatus `json:"status"`
}

// Quest is a project attached to a course. Quests own an ordered sequence of
// lessons; OrderIndex is a contiguous 0-based position within the course.
type Quest struct {
	ID             string `json:"id"`
	CourseID       string `json:"course_id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	HeaderImageURL string `json:"header_image_url,omitempty"`
	OrderIndex     int    `json:"order_index"`
	XPThreshold    int    `json:"xp_threshold,omitempty"`
}

// Lesson belongs to exactly one quest. SequenceOrder is a contiguous 1-based
// position within the quest. LinkedTaskIDs is the authoritative side of the
// task<->lesson relation; the per-lesson task cache mirrors it.
type Lesson struct {
	ID            string        `json:"id"`
	QuestID       string        `json:"quest_id"`
	Title         string        `json:"title"`
	SequenceOrder int           `json:"sequence_order"`
	Content       LessonContent `json:"content"`
	LinkedTaskIDs []string      `json:"linked_task_ids,omitempty"`
}

type LessonContent struct {
	Version int    `json:"version"`
	Steps   []Step `json:"steps"`
}

// Step is embedded in its lesson's content; it has no identity outside the
// lesson. Not-yet-persisted steps carry a client-generated temp id.
type Step struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	Order    int    `json:"order"`
	VideoURL string `json:"video_url,omitempty"`
	FileURL  string `json:"file_url,omitempty"`
}

// Task is owned by a quest and referenced by zero or more lessons.
type Task struct {
	ID          string `json:"id"`
	QuestID     string `json:"quest_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Pillar      string `json:"pillar,omitempty"`
	XPValue     int    `json:"xp_value"`
	IsRequired  bool   `json:"is_required"`
}

// NodeKind identifies what an outline node refers to (selection, modals).
type NodeKind string

const (
	NodeKindQuest  NodeKind = "quest"
	NodeKindLesson NodeKind = "lesson"
	NodeKindStep   NodeKind = "step"
	NodeKindTask   NodeKind = "task"
)

// HasContent reports whether the step carries any authored substance:
// non-blank text, a video reference, or an attached file.
func (s Step) HasContent() bool {
	return strings.TrimSpace(s.Content) != "" ||
		strings.TrimSpace(s.VideoURL) != "" ||
		strings.TrimSpace(s.FileURL) != ""
}

// LinksTask reports whether the lesson's authoritative link set contains taskID.
func (l Lesson) LinksTask(taskID string) bool {
	for _, id := range l.LinkedTaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}
