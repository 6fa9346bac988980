package cmd

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/eventcal/eventcal"
	"github.com/teemow/eventcal/internal/codec"
	"github.com/teemow/eventcal/internal/event"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event"},
		Short:   "Read and manage events",
	}

	cmd.AddCommand(newGetEventCmd())
	cmd.AddCommand(newCreateEventCmd())
	cmd.AddCommand(newUpdateEventCmd())
	cmd.AddCommand(newGuestsCmd())
	cmd.AddCommand(newGuestCmd())
	cmd.AddCommand(newAddGuestsCmd())
	cmd.AddCommand(newGuestStatusCmd())
	cmd.AddCommand(newAddHostCmd())
	cmd.AddCommand(newCouponCmd())
	return cmd
}

func newGetEventCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get EVENT_ID",
		Short: "Show an event and its hosts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			resp, err := client.Events().GetEvent(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get event: %w", err)
			}

			if output == outputJSON || resp.Event == nil {
				return writeJSON(cmd.OutOrStdout(), resp)
			}

			e := resp.Event
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "ID:         %s\n", e.APIID)
			fmt.Fprintf(w, "Name:       %s\n", e.Name)
			fmt.Fprintf(w, "Start:      %s\n", formatTime(e.StartAt))
			fmt.Fprintf(w, "End:        %s\n", formatTime(e.EndAt))
			fmt.Fprintf(w, "Duration:   %s\n", codec.FormatDuration(e.Summary().Duration()))
			fmt.Fprintf(w, "Timezone:   %s\n", orDash(e.Timezone))
			fmt.Fprintf(w, "Visibility: %s\n", orDash(e.Visibility))
			fmt.Fprintf(w, "URL:        %s\n", orDash(e.URL))
			for _, host := range resp.Hosts {
				fmt.Fprintf(w, "Host:       %s <%s>\n", host.Name, host.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table or json")
	return cmd
}

func newCreateEventCmd() *cobra.Command {
	var (
		name            string
		start           string
		end             string
		duration        codec.Duration
		timezone        string
		requireApproval bool
		meetingURL      string
		address         string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		Long: `Create an event. The end is given either with --end or as an ISO-8601
--duration such as PT1H30M.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startAt, err := codec.ParseTime(start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}

			var endAt time.Time
			switch {
			case end != "" && duration != 0:
				return errors.New("use either --end or --duration")
			case end != "":
				if endAt, err = codec.ParseTime(end); err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
			case duration > 0:
				endAt = startAt.Add(duration.Std())
			default:
				return errors.New("--end or --duration is required")
			}
			if !endAt.After(startAt) {
				return errors.New("the event must end after it starts")
			}
			if _, err := time.LoadLocation(timezone); err != nil {
				return fmt.Errorf("invalid --timezone: %w", err)
			}

			req := eventcal.CreateEventRequest{
				Name:                name,
				StartAt:             codec.NewTime(startAt),
				EndAt:               codec.NewTime(endAt),
				Timezone:            timezone,
				RequireRSVPApproval: requireApproval,
				MeetingURL:          meetingURL,
			}
			if address != "" {
				req.GeoAddressJSON = &eventcal.GeoLocation{Type: "manual", Address: address}
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			resp, err := client.Events().CreateEvent(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to create event: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created event %s\n", resp.APIID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Event name")
	cmd.Flags().StringVar(&start, "start", "", "Start time (ISO-8601)")
	cmd.Flags().StringVar(&end, "end", "", "End time (ISO-8601)")
	cmd.Flags().Var(&duration, "duration", "Event length as ISO-8601 duration, e.g. PT1H30M")
	cmd.Flags().StringVar(&timezone, "timezone", "UTC", "IANA time zone of the event")
	cmd.Flags().BoolVar(&requireApproval, "require-approval", false, "Require hosts to approve registrations")
	cmd.Flags().StringVar(&meetingURL, "meeting-url", "", "URL of the online meeting")
	cmd.Flags().StringVar(&address, "address", "", "Street address of the venue")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newUpdateEventCmd() *cobra.Command {
	var (
		name       string
		visibility string
	)

	cmd := &cobra.Command{
		Use:   "update EVENT_ID",
		Short: "Change an event's name or visibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && visibility == "" {
				return errors.New("nothing to update: set --name or --visibility")
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			err = client.Events().UpdateEvent(cmd.Context(), eventcal.UpdateEventRequest{
				EventAPIID: args[0],
				Name:       name,
				Visibility: visibility,
			})
			if err != nil {
				return fmt.Errorf("failed to update event: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated event %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&visibility, "visibility", "", "New visibility: public, members-only or private")
	return cmd
}

func newGuestsCmd() *cobra.Command {
	var (
		status        string
		sortColumn    string
		sortDirection string
		limit         int
		output        string
	)

	cmd := &cobra.Command{
		Use:   "guests EVENT_ID",
		Short: "List an event's guests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			seq := client.Events().GetGuests(cmd.Context(), args[0], eventcal.GuestsOptions{
				ApprovalStatus: status,
				SortColumn:     sortColumn,
				SortDirection:  sortDirection,
			})
			entries, err := eventcal.Collect(eventcal.Take(seq, limit))
			if err != nil {
				return fmt.Errorf("failed to list guests: %w", err)
			}

			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				g := entry.Guest
				if g == nil {
					continue
				}
				registered := "-"
				if g.RegisteredAt != nil {
					registered = formatTime(*g.RegisteredAt)
				}
				rows = append(rows, []string{g.APIID, g.ApprovalStatus, orDash(g.Email), orDash(g.Name), registered})
			}
			return writeTable(cmd.OutOrStdout(), []string{"ID", "STATUS", "EMAIL", "NAME", "REGISTERED"}, rows)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only guests with this approval status")
	cmd.Flags().StringVar(&sortColumn, "sort-column", "", "Column to sort by")
	cmd.Flags().StringVar(&sortDirection, "sort-direction", "", "Sort direction: asc or desc")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of guests (0 for all)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table or json")
	return cmd
}

func newGuestCmd() *cobra.Command {
	var lookup eventcal.GuestLookup

	cmd := &cobra.Command{
		Use:   "guest EVENT_ID",
		Short: "Show a single guest",
		Long:  `Show a single guest, looked up by exactly one of --id, --email or --proxy-key.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			resp, err := client.Events().GetGuest(cmd.Context(), args[0], lookup)
			if errors.Is(err, eventcal.ErrInvalidGuestLookup) {
				return errors.New("set exactly one of --id, --email or --proxy-key")
			}
			if err != nil {
				return fmt.Errorf("failed to get guest: %w", err)
			}

			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&lookup.APIID, "id", "", "Guest ID")
	cmd.Flags().StringVar(&lookup.Email, "email", "", "Guest email")
	cmd.Flags().StringVar(&lookup.ProxyKey, "proxy-key", "", "Guest proxy key")
	return cmd
}

func newAddGuestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-guests EVENT_ID ADDRESS...",
		Short: "Add guests to an event",
		Long: `Add guests to an event. Each address is either an email or
"Name <email>".`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			guests := make([]eventcal.EventGuestItem, 0, len(args)-1)
			for _, arg := range args[1:] {
				addr, err := mail.ParseAddress(arg)
				if err != nil {
					return fmt.Errorf("invalid address %q: %w", arg, err)
				}
				guests = append(guests, eventcal.EventGuestItem{Email: addr.Address, Name: addr.Name})
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			err = client.Events().AddGuests(cmd.Context(), eventcal.AddGuestsRequest{EventAPIID: args[0], Guests: guests})
			if err != nil {
				return fmt.Errorf("failed to add guests: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %d guests to event %s\n", len(guests), args[0])
			return nil
		},
	}
}

func newGuestStatusCmd() *cobra.Command {
	var (
		status string
		refund bool
	)

	cmd := &cobra.Command{
		Use:   "guest-status EVENT_ID EMAIL",
		Short: "Approve or decline a guest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != event.GuestStatusApproved && status != event.GuestStatusDeclined {
				return fmt.Errorf("--status must be %s or %s", event.GuestStatusApproved, event.GuestStatusDeclined)
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			err = client.Events().UpdateGuestStatus(cmd.Context(), eventcal.UpdateGuestStatusRequest{
				EventAPIID:   args[0],
				Guest:        eventcal.EventGuestItem{Email: args[1]},
				Status:       status,
				ShouldRefund: refund,
			})
			if err != nil {
				return fmt.Errorf("failed to update guest status: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Guest %s is now %s\n", args[1], status)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "New status: approved or declined")
	cmd.Flags().BoolVar(&refund, "refund", false, "Refund the guest's ticket")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newAddHostCmd() *cobra.Command {
	var req eventcal.AddHostRequest

	cmd := &cobra.Command{
		Use:   "add-host EVENT_ID EMAIL",
		Short: "Add a host to an event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.EventAPIID = args[0]
			req.Email = args[1]

			client, err := newClient()
			if err != nil {
				return err
			}

			if err := client.Events().AddHost(cmd.Context(), req); err != nil {
				return fmt.Errorf("failed to add host: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s as host of event %s\n", req.Email, req.EventAPIID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Display name of the host")
	cmd.Flags().StringVar(&req.AccessLevel, "access-level", event.AccessLevelManager, "Access level: none, check-in or manager")
	cmd.Flags().BoolVar(&req.IsVisible, "visible", true, "Show the host on the event page")
	return cmd
}

func newCouponCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coupon",
		Short: "Manage coupons",
	}

	cmd.AddCommand(newCreateCouponCmd())
	cmd.AddCommand(newUpdateCouponCmd())
	return cmd
}

func newCreateCouponCmd() *cobra.Command {
	var req eventcal.CreateCouponRequest

	cmd := &cobra.Command{
		Use:   "create EVENT_ID",
		Short: "Create a coupon for an event",
		Long:  `Create a coupon. Give either --percent-off, or --cents-off together with --currency.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.EventAPIID = args[0]
			switch {
			case req.PercentOff > 0 && req.CentsOff > 0:
				return errors.New("use either --percent-off or --cents-off")
			case req.PercentOff > 0:
				if req.PercentOff > 100 {
					return errors.New("--percent-off must not exceed 100")
				}
				req.DiscountType = event.DiscountPercent
			case req.CentsOff > 0:
				if req.Currency == "" {
					return errors.New("--currency is required with --cents-off")
				}
				req.DiscountType = event.DiscountCents
			default:
				return errors.New("--percent-off or --cents-off is required")
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			if err := client.Events().CreateCoupon(cmd.Context(), req); err != nil {
				return fmt.Errorf("failed to create coupon: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created coupon %s\n", req.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Code, "code", "", "Code guests enter at checkout")
	cmd.Flags().IntVar(&req.RemainingCount, "remaining", 0, "How often the code can be used")
	cmd.Flags().IntVar(&req.PercentOff, "percent-off", 0, "Discount in percent")
	cmd.Flags().IntVar(&req.CentsOff, "cents-off", 0, "Discount in cents")
	cmd.Flags().StringVar(&req.Currency, "currency", "", "Currency of --cents-off, e.g. usd")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("remaining")
	return cmd
}

func newUpdateCouponCmd() *cobra.Command {
	var remaining int

	cmd := &cobra.Command{
		Use:   "update CODE",
		Short: "Change how often a coupon can still be used",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if remaining < 0 {
				return errors.New("--remaining must not be negative")
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			err = client.Events().UpdateCoupon(cmd.Context(), eventcal.UpdateCouponRequest{Code: args[0], RemainingCount: remaining})
			if err != nil {
				return fmt.Errorf("failed to update coupon: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Coupon %s now has %d remaining uses\n", args[0], remaining)
			return nil
		},
	}

	cmd.Flags().IntVar(&remaining, "remaining", 0, "New number of remaining uses")
	_ = cmd.MarkFlagRequired("remaining")
	return cmd
}
