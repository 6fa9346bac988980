package cmd

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/eventcal/eventcal"
	"github.com/teemow/eventcal/internal/codec"
)

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Work with the calendar",
	}

	cmd.AddCommand(newListEventsCmd())
	cmd.AddCommand(newImportPeopleCmd())
	return cmd
}

func newListEventsCmd() *cobra.Command {
	var (
		after  string
		before string
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "list-events",
		Short: "List the calendar's events",
		Long: `List the calendar's events, following pages until --limit entries were
printed or the listing ends. Times are ISO-8601, e.g. 2025-01-01T00:00:00Z.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			opts := eventcal.ListEventsOptions{}
			var err error
			if opts.After, err = parseTimeFlag("after", after); err != nil {
				return err
			}
			if opts.Before, err = parseTimeFlag("before", before); err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			entries, err := eventcal.Collect(eventcal.Take(client.Calendar().ListEvents(cmd.Context(), opts), limit))
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}

			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				if entry.Event == nil {
					continue
				}
				rows = append(rows, []string{
					entry.Event.APIID,
					formatTime(entry.Event.StartAt),
					codec.FormatDuration(entry.Event.Duration()),
					entry.Event.Name,
				})
			}
			return writeTable(cmd.OutOrStdout(), []string{"ID", "START", "DURATION", "NAME"}, rows)
		},
	}

	cmd.Flags().StringVar(&after, "after", "", "Only events starting at or after this time")
	cmd.Flags().StringVar(&before, "before", "", "Only events starting before this time")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of events (0 for all)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table or json")
	return cmd
}

func newImportPeopleCmd() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "import-people ADDRESS...",
		Short: "Import people into the calendar",
		Long: `Import people into the calendar. Each address is either an email or
"Name <email>".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			people := make([]eventcal.PersonInfo, 0, len(args))
			for _, arg := range args {
				addr, err := mail.ParseAddress(arg)
				if err != nil {
					return fmt.Errorf("invalid address %q: %w", arg, err)
				}
				people = append(people, eventcal.PersonInfo{Email: addr.Address, Name: addr.Name})
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			err = client.Calendar().ImportPeople(cmd.Context(), eventcal.ImportPeopleRequest{
				Infos:     people,
				TagAPIIDs: tags,
			})
			if err != nil {
				return fmt.Errorf("failed to import people: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d people\n", len(people))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag ID to apply (repeatable)")
	return cmd
}

// parseTimeFlag parses an optional ISO-8601 flag value.
func parseTimeFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := codec.ParseTime(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &t, nil
}
