package cli

import (
	"github.com/spf13/cobra"

	"courseforge/internal/engine"
	"courseforge/internal/format"
)

func newOutlineCmd(app *App) *cobra.Command {
	var withTasks bool

	cmd := &cobra.Command{
		Use:   "outline <course-id>",
		Short: "Load a course and print its outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := app.newEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.Load(cmd.Context(), args[0]); err != nil {
				return err
			}
			if withTasks {
				if err := eng.Outline.LoadAllLessonTasks(cmd.Context()); err != nil {
					return err
				}
			}

			tree := buildTree(eng)
			return format.Write(cmd.OutOrStdout(), tree, app.Format, app.PrettyJSON)
		},
	}

	cmd.Flags().BoolVar(&withTasks, "tasks", false, "also fetch linked tasks (one fetch per quest)")
	return cmd
}

func buildTree(eng *engine.Engine) format.Tree {
	course, _ := eng.Outline.Course()
	tree := format.Tree{
		Course:  course,
		Missing: eng.Outline.HasLessonsWithoutContent(),
	}
	for _, q := range eng.Outline.Quests() {
		qn := format.QuestNode{Quest: q}
		for _, l := range eng.Outline.LessonsOf(q.ID) {
			tasks, loaded := eng.Outline.TasksOf(l.ID)
			qn.Lessons = append(qn.Lessons, format.LessonNode{
				Lesson:      l,
				Tasks:       tasks,
				TasksLoaded: loaded,
			})
		}
		tree.Quests = append(tree.Quests, qn)
	}
	return tree
}
