package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Bulk/AI-assisted generation",
	}
	cmd.AddCommand(newGenerateLessonsCmd(app))
	cmd.AddCommand(newGenerateContentCmd(app))
	return cmd
}

func newGenerateLessonsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lessons <course-id>",
		Short: "Generate lessons for quests that have none",
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
			res, err := eng.Gen.GenerateLessons(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %d lesson(s)\n", res.CreatedCount)
			return nil
		},
	}
}

func newGenerateContentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "content <course-id>",
		Short: "Generate step content for lessons lacking it",
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
			if !eng.Gen.CanGenerateContent() {
				fmt.Fprintln(cmd.OutOrStdout(), "every lesson already has content")
				return nil
			}
			res, err := eng.Gen.GenerateLessonContent(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "filled %d lesson(s)\n", res.CreatedCount)
			return nil
		},
	}
}
