package outline

import (
	"context"
)

// Reorder operations exist per sibling level: quests within the course,
// lessons within a quest, steps within a lesson. Each removes the moving item
// from the ordered sibling list, reinserts it at the target's position, and
// reassigns contiguous indices to every sibling. The whole new ordering
// persists as one batch call.
//
// A stale moving or target id makes the operation a silent no-op: the
// caller's view was already out of date and will self-correct on next read.

// planReorder returns the sibling ids in their new order. ok is false when
// either id is missing from the group (or the move is an identity).
func planReorder(ids []string, movingID, targetID string) (ordered []string, ok bool) {
	if movingID == targetID {
		return nil, false
	}
	movingIdx := -1
	for i, id := range ids {
		if id == movingID {
			movingIdx = i
			break
		}
	}
	if movingIdx < 0 {
		return nil, false
	}
	rest := make([]string, 0, len(ids)-1)
	for i, id := range ids {
		if i != movingIdx {
			rest = append(rest, id)
		}
	}
	insertAt := -1
	for i, id := range rest {
		if id == targetID {
			insertAt = i
			break
		}
	}
	if insertAt < 0 {
		return nil, false
	}
	ordered = make([]string, 0, len(ids))
	ordered = append(ordered, rest[:insertAt]...)
	ordered = append(ordered, movingID)
	ordered = append(ordered, rest[insertAt:]...)
	return ordered, true
}

// ReorderQuests moves movingID to targetID's position among the course's
// quests and reassigns order_index 0..n-1.
func (s *Store) ReorderQuests(ctx context.Context, movingID, targetID string) error {
	s.mu.Lock()
	if s.course == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	courseID := s.course.ID
	ids := make([]string, 0, len(s.quests))
	for _, q := range s.questsOrderedLocked() {
		ids = append(ids, q.ID)
	}
	ordered, ok := planReorder(ids, movingID, targetID)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	snap := s.snapshotLocked()
	for i, id := range ordered {
		s.quests[id].OrderIndex = i
	}
	s.rev++
	s.mu.Unlock()

	if err := s.api.ReorderQuests(ctx, courseID, ordered); err != nil {
		s.rollback("quest.reorder", snap, err)
		return err
	}
	return nil
}

// ReorderLessons moves movingID to targetID's position within their shared
// quest and reassigns sequence_order 1..n. Lessons in different quests make
// the call a no-op.
func (s *Store) ReorderLessons(ctx context.Context, movingID, targetID string) error {
	s.mu.Lock()
	moving, okM := s.lessons[movingID]
	target, okT := s.lessons[targetID]
	if !okM || !okT || moving.QuestID != target.QuestID {
		s.mu.Unlock()
		return nil
	}
	questID := moving.QuestID
	siblings := s.lessonsOfLocked(questID)
	ids := make([]string, 0, len(siblings))
	for _, l := range siblings {
		ids = append(ids, l.ID)
	}
	ordered, ok := planReorder(ids, movingID, targetID)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	snap := s.snapshotLocked()
	for i, id := range ordered {
		s.lessons[id].SequenceOrder = i + 1
	}
	s.rev++
	s.mu.Unlock()

	if err := s.api.ReorderLessons(ctx, questID, ordered); err != nil {
		s.rollback("lesson.reorder", snap, err)
		return err
	}
	return nil
}

// ReorderSteps moves movingID to targetID's position within the lesson's
// steps and reassigns order 0..n-1.
func (s *Store) ReorderSteps(ctx context.Context, lessonID, movingID, targetID string) error {
	s.mu.Lock()
	l, okL := s.lessons[lessonID]
	if !okL {
		s.mu.Unlock()
		return nil
	}
	ids := make([]string, 0, len(l.Content.Steps))
	for _, st := range l.Content.Steps {
		ids = append(ids, st.ID)
	}
	ordered, ok := planReorder(ids, movingID, targetID)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	snap := s.snapshotLocked()
	byID := make(map[string]int, len(ordered))
	for i, id := range ordered {
		byID[id] = i
	}
	for i := range l.Content.Steps {
		l.Content.Steps[i].Order = byID[l.Content.Steps[i].ID]
	}
	sortStepsLocked(l)
	s.rev++
	s.mu.Unlock()

	if err := s.api.ReorderSteps(ctx, lessonID, ordered); err != nil {
		s.rollback("step.reorder", snap, err)
		return err
	}
	return nil
}
