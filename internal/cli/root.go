package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the tutor-desk command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tutor-desk",
		Short: "Tutoring subscriptions and lesson scheduling",
		Long: `tutor-desk manages tutoring subscriptions built from weekly time slots,
turns recurring schedules into dated lessons and tracks which days are paid.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewPreviewCommand())

	return cmd
}
