package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tutor-desk/internal/service"
	schedule_service "tutor-desk/internal/service/schedule"

	"github.com/spf13/cobra"
)

// PreviewOptions holds the flags of the preview command.
type PreviewOptions struct {
	From     string
	To       string
	Days     string // comma separated, 0=Sunday .. 6=Saturday
	Time     string
	Duration int
	Limit    int
	JSON     bool
}

func NewPreviewCommand() *cobra.Command {
	opts := &PreviewOptions{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the lessons a weekly recurrence would create",
		Example: `  tutor-desk preview --from 2024-01-01 --to 2024-01-31 --days 1,3 --time 15:00 --duration 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "last date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Days, "days", "", "weekdays, e.g. 1,3 for Monday and Wednesday")
	cmd.Flags().StringVar(&opts.Time, "time", "", "start time (HH:MM)")
	cmd.Flags().IntVar(&opts.Duration, "duration", 60, "lesson length in minutes")
	cmd.Flags().IntVar(&opts.Limit, "limit", schedule_service.PreviewLimit, "maximum lessons to print, 0 for all")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("days")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

func runPreview(cmd *cobra.Command, opts *PreviewOptions) error {
	days, err := parseDays(opts.Days)
	if err != nil {
		return err
	}

	recurrence, err := schedule_service.ParseRecurrence(service.RecurrenceRequest{
		DaysOfWeek:      days,
		StartDate:       opts.From,
		EndDate:         opts.To,
		Time:            opts.Time,
		DurationMinutes: opts.Duration,
	})
	if err != nil {
		return err
	}

	occurrences := schedule_service.Expand(recurrence)
	shown := occurrences
	if opts.Limit > 0 {
		shown = schedule_service.Truncate(occurrences, opts.Limit)
	}

	out := cmd.OutOrStdout()
	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(service.PreviewResult{Total: len(occurrences), Occurrences: shown})
	}

	for _, occ := range shown {
		fmt.Fprintf(out, "%s  %s-%s\n",
			occ.StartsAt.Format("Mon 2006-01-02"),
			occ.StartsAt.Format("15:04"),
			occ.EndsAt.Format("15:04"),
		)
	}
	fmt.Fprintf(out, "total: %d\n", len(occurrences))
	return nil
}

func parseDays(value string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		days = append(days, d)
	}
	return days, nil
}
