package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"courseforge/internal/model"
)

// Tree is the printable shape of one course outline. The CLI assembles it
// from the engine's views; this package only renders.
type Tree struct {
	Course  model.Course `json:"course"`
	Quests  []QuestNode  `json:"quests"`
	Missing bool         `json:"has_lessons_without_content"`
}

type QuestNode struct {
	Quest   model.Quest  `json:"quest"`
	Lessons []LessonNode `json:"lessons"`
}

type LessonNode struct {
	Lesson      model.Lesson `json:"lesson"`
	Tasks       []model.Task `json:"tasks,omitempty"`
	TasksLoaded bool         `json:"tasks_loaded"`
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idStyle     = lipgloss.NewStyle().Faint(true)
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	taskStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

// WriteTree renders the outline as an indented text tree.
func WriteTree(w io.Writer, t Tree) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(t.Course.Title))
	b.WriteString(" ")
	b.WriteString(statusStyle.Render("[" + string(t.Course.Status) + "]"))
	b.WriteString(" ")
	b.WriteString(idStyle.Render(t.Course.ID))
	b.WriteString("\n")

	for _, qn := range t.Quests {
		fmt.Fprintf(&b, "  %d. %s %s\n",
			qn.Quest.OrderIndex+1,
			titleStyle.Render(qn.Quest.Title),
			idStyle.Render(qn.Quest.ID))
		for _, ln := range qn.Lessons {
			marker := ""
			if lessonEmpty(ln.Lesson) {
				marker = " " + emptyStyle.Render("(no content)")
			}
			fmt.Fprintf(&b, "     %d.%d %s%s %s\n",
				qn.Quest.OrderIndex+1,
				ln.Lesson.SequenceOrder,
				ln.Lesson.Title,
				marker,
				idStyle.Render(ln.Lesson.ID))
			for _, st := range ln.Lesson.Content.Steps {
				fmt.Fprintf(&b, "         - %s (%s)\n", st.Title, st.Type)
			}
			switch {
			case !ln.TasksLoaded && len(ln.Lesson.LinkedTaskIDs) > 0:
				fmt.Fprintf(&b, "         %s\n",
					idStyle.Render(fmt.Sprintf("%d linked task(s), not loaded", len(ln.Lesson.LinkedTaskIDs))))
			default:
				for _, task := range ln.Tasks {
					fmt.Fprintf(&b, "         %s %s (%d xp)\n",
						taskStyle.Render("task:"), task.Title, task.XPValue)
				}
			}
		}
	}

	if t.Missing {
		b.WriteString(emptyStyle.Render("Some lessons have no content yet; `courseforge generate content` can fill them."))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func lessonEmpty(l model.Lesson) bool {
	if len(l.Content.Steps) == 0 {
		return true
	}
	for _, st := range l.Content.Steps {
		if st.HasContent() {
			return false
		}
	}
	return true
}
