package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <course-id>",
		Short: "Publish a draft course",
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
			out, err := eng.Outline.PublishCourse(cmd.Context())
			if err != nil {
				return err
			}
			if out.BadgeID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "published; completion badge %s provisioned\n", out.BadgeID)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "published")
			return nil
		},
	}
}
