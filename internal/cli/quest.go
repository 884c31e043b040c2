package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"courseforge/internal/outline"
)

func newQuestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Quest operations",
	}
	cmd.AddCommand(newQuestDeleteCmd(app))
	return cmd
}

func newQuestDeleteCmd(app *App) *cobra.Command {
	var deleteContent bool

	cmd := &cobra.Command{
		Use:   "delete <course-id> <quest-id>",
		Short: "Remove a quest from its course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := app.newEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.Load(cmd.Context(), args[0]); err != nil {
				return err
			}
			out, err := eng.Outline.DeleteQuest(cmd.Context(), args[1], deleteContent)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case out.ContentDeleted:
				fmt.Fprintln(w, "quest removed, content deleted")
			case deleteContent:
				// Downgraded to detach: say why, specifically.
				reason := describeReason(out)
				fmt.Fprintf(w, "quest removed; content kept (%s)\n", reason)
			default:
				fmt.Fprintln(w, "quest removed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&deleteContent, "delete-content", false, "also hard-delete the underlying content if unused elsewhere")
	return cmd
}

func describeReason(out outline.QuestDeleteOutcome) string {
	switch out.Reason {
	case outline.ReasonUsedInOtherCourses:
		return "used in other courses"
	case outline.ReasonHasEnrollments:
		return "has active enrollments"
	case outline.ReasonUnknown:
		if out.RawReason != "" {
			return "not deleted: " + out.RawReason
		}
		return "not deleted, reason unknown"
	default:
		return "not deleted, reason unknown"
	}
}
