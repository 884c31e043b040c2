package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"courseforge/internal/logging"
	"courseforge/internal/model"
)

// Client is the JSON-over-HTTP persistence collaborator. The outline store
// talks to the course service exclusively through this interface; tests swap
// in an in-memory fake.
type Client interface {
	GetCourse(ctx context.Context, courseID string) (*model.Course, error)
	ListQuests(ctx context.Context, courseID string) ([]model.Quest, error)
	ListLessons(ctx context.Context, questID string) ([]model.Lesson, error)
	ListTasks(ctx context.Context, questID string) ([]model.Task, error)

	CreateQuest(ctx context.Context, courseID string, draft model.Quest) (*model.Quest, error)
	CreateLesson(ctx context.Context, questID string, draft model.Lesson) (*model.Lesson, error)
	CreateTask(ctx context.Context, questID string, draft model.Task) (*model.Task, error)

	UpdateCourse(ctx context.Context, courseID string, patch model.CoursePatch) error
	UpdateQuest(ctx context.Context, questID string, patch model.QuestPatch) error
	// UpdateLesson returns the stored lesson so server-assigned step ids can
	// be merged back over client temp ids.
	UpdateLesson(ctx context.Context, lessonID string, patch model.LessonPatch) (*model.Lesson, error)
	UpdateTask(ctx context.Context, taskID string, patch model.TaskPatch) error

	ReorderQuests(ctx context.Context, courseID string, orderedIDs []string) error
	ReorderLessons(ctx context.Context, questID string, orderedIDs []string) error
	ReorderSteps(ctx context.Context, lessonID string, orderedIDs []string) error

	LinkTask(ctx context.Context, lessonID, taskID string) error
	UnlinkTask(ctx context.Context, lessonID, taskID string) error

	DeleteQuest(ctx context.Context, questID string, deleteContent bool) (*QuestDeletion, error)
	DeleteLesson(ctx context.Context, lessonID string) error

	PublishCourse(ctx context.Context, courseID string) (*PublishResult, error)

	GenerateLessons(ctx context.Context, courseID string) (*BulkResult, error)
	GenerateLessonContent(ctx context.Context, courseID string) (*BulkResult, error)
	BulkCreateTasks(ctx context.Context, questID string, drafts []model.Task) (*BulkResult, error)
	RefineCourse(ctx context.Context, courseID, instructions string) (*BulkResult, error)
}

// QuestDeletion reports what a quest delete actually did. A requested hard
// delete may be downgraded to a detach; DeletionReason then says why.
type QuestDeletion struct {
	QuestDeleted   bool   `json:"quest_deleted"`
	DeletionReason string `json:"deletion_reason,omitempty"`
}

// PublishResult acknowledges the publish side effects performed by the
// collaborator (completion-badge provisioning happens server-side).
type PublishResult struct {
	Status  model.CourseStatus `json:"status"`
	BadgeID string             `json:"badge_id,omitempty"`
}

// BulkResult is the shared response shape of the generation endpoints.
type BulkResult struct {
	Success      bool        `json:"success"`
	CreatedCount int         `json:"created_count,omitempty"`
	CreatedIDs   []string    `json:"created_ids,omitempty"`
	Error        ErrorDetail `json:"error,omitempty"`
}

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type client struct {
	log  *logging.Logger
	cfg  Config
	http *http.Client
}

// New builds the HTTP client. BaseURL is required; Timeout defaults to 30s.
func New(log *logging.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("missing API base URL")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		log:  log.With("client", "courseAPI"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}
