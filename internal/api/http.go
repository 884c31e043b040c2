package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"courseforge/internal/model"
)

// do issues one JSON request. in/out may be nil. Non-2xx responses come back
// as *Error with the server's code when the body carries one.
func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Status: resp.StatusCode,
			Code:   errorCode(raw),
			Err:    fmt.Errorf("%s %s: http %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func errorCode(raw []byte) string {
	var envelope struct {
		Error ErrorDetail `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	return envelope.Error.Code
}

func (c *client) GetCourse(ctx context.Context, courseID string) (*model.Course, error) {
	var out struct {
		Course model.Course `json:"course"`
	}
	if err := c.do(ctx, http.MethodGet, "/courses/"+url.PathEscape(courseID), nil, &out); err != nil {
		return nil, err
	}
	return &out.Course, nil
}

func (c *client) ListQuests(ctx context.Context, courseID string) ([]model.Quest, error) {
	var out struct {
		Quests []model.Quest `json:"quests"`
	}
	if err := c.do(ctx, http.MethodGet, "/courses/"+url.PathEscape(courseID)+"/quests", nil, &out); err != nil {
		return nil, err
	}
	return out.Quests, nil
}

func (c *client) ListLessons(ctx context.Context, questID string) ([]model.Lesson, error) {
	var out struct {
		Lessons []model.Lesson `json:"lessons"`
	}
	if err := c.do(ctx, http.MethodGet, "/quests/"+url.PathEscape(questID)+"/lessons", nil, &out); err != nil {
		return nil, err
	}
	return out.Lessons, nil
}

func (c *client) ListTasks(ctx context.Context, questID string) ([]model.Task, error) {
	var out struct {
		Tasks []model.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/quests/"+url.PathEscape(questID)+"/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *client) CreateQuest(ctx context.Context, courseID string, draft model.Quest) (*model.Quest, error) {
	var out struct {
		Quest model.Quest `json:"quest"`
	}
	if err := c.do(ctx, http.MethodPost, "/courses/"+url.PathEscape(courseID)+"/quests", draft, &out); err != nil {
		return nil, err
	}
	return &out.Quest, nil
}

func (c *client) CreateLesson(ctx context.Context, questID string, draft model.Lesson) (*model.Lesson, error) {
	var out struct {
		Lesson model.Lesson `json:"lesson"`
	}
	if err := c.do(ctx, http.MethodPost, "/quests/"+url.PathEscape(questID)+"/lessons", draft, &out); err != nil {
		return nil, err
	}
	return &out.Lesson, nil
}

func (c *client) CreateTask(ctx context.Context, questID string, draft model.Task) (*model.Task, error) {
	var out struct {
		Task model.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/quests/"+url.PathEscape(questID)+"/tasks", draft, &out); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

func (c *client) UpdateCourse(ctx context.Context, courseID string, patch model.CoursePatch) error {
	return c.do(ctx, http.MethodPut, "/courses/"+url.PathEscape(courseID), patch, nil)
}

func (c *client) UpdateQuest(ctx context.Context, questID string, patch model.QuestPatch) error {
	return c.do(ctx, http.MethodPut, "/quests/"+url.PathEscape(questID), patch, nil)
}

func (c *client) UpdateLesson(ctx context.Context, lessonID string, patch model.LessonPatch) (*model.Lesson, error) {
	var out struct {
		Lesson model.Lesson `json:"lesson"`
	}
	if err := c.do(ctx, http.MethodPut, "/lessons/"+url.PathEscape(lessonID), patch, &out); err != nil {
		return nil, err
	}
	return &out.Lesson, nil
}

func (c *client) UpdateTask(ctx context.Context, taskID string, patch model.TaskPatch) error {
	return c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(taskID), patch, nil)
}

type reorderRequest struct {
	OrderedIDs []string `json:"ordered_ids"`
}

func (c *client) ReorderQuests(ctx context.Context, courseID string, orderedIDs []string) error {
	return c.do(ctx, http.MethodPut, "/courses/"+url.PathEscape(courseID)+"/quests/reorder", reorderRequest{OrderedIDs: orderedIDs}, nil)
}

func (c *client) ReorderLessons(ctx context.Context, questID string, orderedIDs []string) error {
	return c.do(ctx, http.MethodPut, "/quests/"+url.PathEscape(questID)+"/lessons/reorder", reorderRequest{OrderedIDs: orderedIDs}, nil)
}

func (c *client) ReorderSteps(ctx context.Context, lessonID string, orderedIDs []string) error {
	return c.do(ctx, http.MethodPut, "/lessons/"+url.PathEscape(lessonID)+"/steps/reorder", reorderRequest{OrderedIDs: orderedIDs}, nil)
}

func (c *client) LinkTask(ctx context.Context, lessonID, taskID string) error {
	return c.do(ctx, http.MethodPost, "/lessons/"+url.PathEscape(lessonID)+"/tasks/"+url.PathEscape(taskID), nil, nil)
}

func (c *client) UnlinkTask(ctx context.Context, lessonID, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/lessons/"+url.PathEscape(lessonID)+"/tasks/"+url.PathEscape(taskID), nil, nil)
}

func (c *client) DeleteQuest(ctx context.Context, questID string, deleteContent bool) (*QuestDeletion, error) {
	path := "/quests/" + url.PathEscape(questID) + "?delete_content=" + strconv.FormatBool(deleteContent)
	var out QuestDeletion
	if err := c.do(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) DeleteLesson(ctx context.Context, lessonID string) error {
	return c.do(ctx, http.MethodDelete, "/lessons/"+url.PathEscape(lessonID), nil, nil)
}

func (c *client) PublishCourse(ctx context.Context, courseID string) (*PublishResult, error) {
	var out PublishResult
	if err := c.do(ctx, http.MethodPost, "/courses/"+url.PathEscape(courseID)+"/publish", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) GenerateLessons(ctx context.Context, courseID string) (*BulkResult, error) {
	return c.bulk(ctx, "/courses/"+url.PathEscape(courseID)+"/generate/lessons", nil)
}

func (c *client) GenerateLessonContent(ctx context.Context, courseID string) (*BulkResult, error) {
	return c.bulk(ctx, "/courses/"+url.PathEscape(courseID)+"/generate/content", nil)
}

func (c *client) BulkCreateTasks(ctx context.Context, questID string, drafts []model.Task) (*BulkResult, error) {
	in := struct {
		Tasks []model.Task `json:"tasks"`
	}{Tasks: drafts}
	return c.bulk(ctx, "/quests/"+url.PathEscape(questID)+"/tasks/bulk", in)
}

func (c *client) RefineCourse(ctx context.Context, courseID, instructions string) (*BulkResult, error) {
	in := struct {
		Instructions string `json:"instructions"`
	}{Instructions: instructions}
	return c.bulk(ctx, "/courses/"+url.PathEscape(courseID)+"/refine", in)
}

// bulk posts to a generation endpoint. The endpoints signal failure through
// the success flag as well as HTTP status, so both paths produce an *Error.
func (c *client) bulk(ctx context.Context, path string, in any) (*BulkResult, error) {
	var out BulkResult
	if err := c.do(ctx, http.MethodPost, path, in, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		detail := out.Error
		c.log.Warn("bulk operation reported failure", "path", path, "code", detail.Code, "message", detail.Message)
		return &out, &Error{Code: detail.Code, Err: fmt.Errorf("bulk operation failed: %s", detail.String())}
	}
	return &out, nil
}
