package model

// Deep-copy helpers. The outline store snapshots the whole tree before every
// optimistic mutation, so clones must not share any mutable backing arrays.

func (c Course) Clone() Course {
	return c
}

func (q Quest) Clone() Quest {
	return q
}

func (l Lesson) Clone() Lesson {
	out := l
	out.Content = l.Content.Clone()
	if l.LinkedTaskIDs != nil {
		out.LinkedTaskIDs = append([]string(nil), l.LinkedTaskIDs...)
	}
	return out
}

func (c LessonContent) Clone() LessonContent {
	out := c
	if c.Steps != nil {
		out.Steps = append([]Step(nil), c.Steps...)
	}
	return out
}

func (t Task) Clone() Task {
	return t
}
