package outline

import (
	"context"
	"strings"
)

// DeletionReason classifies why a requested hard delete was downgraded to a
// detach. The server's reason set is not assumed exhaustive: anything
// unrecognized maps to ReasonUnknown with the raw code preserved.
type DeletionReason string

const (
	ReasonUsedInOtherCourses DeletionReason = "used_in_other_courses"
	ReasonHasEnrollments     DeletionReason = "has_enrollments"
	ReasonUnknown            DeletionReason = "unknown"
)

func classifyDeletionReason(raw string) DeletionReason {
	switch DeletionReason(strings.TrimSpace(raw)) {
	case ReasonUsedInOtherCourses:
		return ReasonUsedInOtherCourses
	case ReasonHasEnrollments:
		return ReasonHasEnrollments
	case "":
		return ""
	default:
		return ReasonUnknown
	}
}

// QuestDeleteOutcome reports what a quest delete did. The quest always leaves
// the course on success; ContentDeleted says whether the underlying content
// was hard-deleted too, and Reason/RawReason why not. A detach-only result is
// informational, not a failure.
type QuestDeleteOutcome struct {
	ContentDeleted bool
	Reason         DeletionReason
	RawReason      string
}

// DeleteQuest removes the quest along with its lessons and their cache slots.
// deleteContent asks the server to also hard-delete the underlying content if
// nothing else uses it.
func (s *Store) DeleteQuest(ctx context.Context, questID string, deleteContent bool) (QuestDeleteOutcome, error) {
	s.mu.Lock()
	if _, ok := s.quests[questID]; !ok {
		s.mu.Unlock()
		return QuestDeleteOutcome{}, NotFoundError{Kind: "quest", ID: questID}
	}
	snap := s.snapshotLocked()
	delete(s.quests, questID)
	for id, l := range s.lessons {
		if l.QuestID == questID {
			delete(s.lessons, id)
			delete(s.tasks, id)
		}
	}
	s.resequenceQuestsLocked()
	s.rev++
	s.mu.Unlock()

	res, err := s.api.DeleteQuest(ctx, questID, deleteContent)
	if err != nil {
		s.rollback("quest.delete", snap, err)
		return QuestDeleteOutcome{}, err
	}

	out := QuestDeleteOutcome{ContentDeleted: res.QuestDeleted}
	if !res.QuestDeleted {
		out.RawReason = res.DeletionReason
		out.Reason = classifyDeletionReason(res.DeletionReason)
	}
	if deleteContent && !out.ContentDeleted {
		s.log.Info("hard delete downgraded to detach",
			"quest_id", questID, "reason", string(out.Reason), "raw_reason", out.RawReason)
	}
	return out, nil
}

// DeleteLesson removes the lesson and its cache slot and resequences the
// surviving siblings.
func (s *Store) DeleteLesson(ctx context.Context, lessonID string) error {
	s.mu.Lock()
	l, ok := s.lessons[lessonID]
	if !ok {
		s.mu.Unlock()
		return NotFoundError{Kind: "lesson", ID: lessonID}
	}
	questID := l.QuestID
	snap := s.snapshotLocked()
	delete(s.lessons, lessonID)
	delete(s.tasks, lessonID)
	s.resequenceLessonsLocked(questID)
	s.rev++
	s.mu.Unlock()

	if err := s.api.DeleteLesson(ctx, lessonID); err != nil {
		s.rollback("lesson.delete", snap, err)
		return err
	}
	return nil
}

func (s *Store) resequenceQuestsLocked() {
	for i, q := range s.questsOrderedLocked() {
		s.quests[q.ID].OrderIndex = i
	}
}

func (s *Store) resequenceLessonsLocked(questID string) {
	for i, l := range s.lessonsOfLocked(questID) {
		s.lessons[l.ID].SequenceOrder = i + 1
	}
}
