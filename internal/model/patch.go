package model

// Patch structs carry only changed fields; nil means "leave as is". They map
// one-to-one onto the persistence layer's partial PUT payloads.

type CoursePatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type QuestPatch struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	HeaderImageURL *string `json:"header_image_url,omitempty"`
	XPThreshold    *int    `json:"xp_threshold,omitempty"`
}

type LessonPatch struct {
	Title   *string        `json:"title,omitempty"`
	Content *LessonContent `json:"content,omitempty"`
}

type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Pillar      *string `json:"pillar,omitempty"`
	XPValue     *int    `json:"xp_value,omitempty"`
	IsRequired  *bool   `json:"is_required,omitempty"`
}

func (p CoursePatch) Apply(c *Course) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
}

func (p QuestPatch) Apply(q *Quest) {
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Description != nil {
		q.Description = *p.Description
	}
	if p.HeaderImageURL != nil {
		q.HeaderImageURL = *p.HeaderImageURL
	}
	if p.XPThreshold != nil {
		q.XPThreshold = *p.XPThreshold
	}
}

func (p LessonPatch) Apply(l *Lesson) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Content != nil {
		l.Content = p.Content.Clone()
	}
}

func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Pillar != nil {
		t.Pillar = *p.Pillar
	}
	if p.XPValue != nil {
		t.XPValue = *p.XPValue
	}
	if p.IsRequired != nil {
		t.IsRequired = *p.IsRequired
	}
}
