package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/eventify/internal/events"
	"github.com/user/eventify/internal/forms"
	"github.com/user/eventify/internal/query"
	"github.com/user/eventify/internal/render"
	"github.com/user/eventify/internal/types"
)

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd, eventsMineCmd, eventsShowCmd,
		eventsCreateCmd, eventsUpdateCmd, eventsDeleteCmd, eventsJoinCmd)

	eventsListCmd.Flags().String("search", "", "case-insensitive title search")
	eventsListCmd.Flags().String("date", "", "single calendar date (YYYY-MM-DD)")
	eventsListCmd.Flags().String("range", "", "today | current-week | last-week | current-month | last-month")
	eventsListCmd.MarkFlagsMutuallyExclusive("date", "range")

	eventsMineCmd.Flags().Int("page", 1, "page number")

	for _, cmd := range []*cobra.Command{eventsCreateCmd, eventsUpdateCmd} {
		cmd.Flags().String("title", "", "event title")
		cmd.Flags().String("date-time", "", "event date-time (e.g. 2026-09-15T18:30)")
		cmd.Flags().String("location", "", "event location")
		cmd.Flags().String("description", "", "event description")
	}
	_ = eventsCreateCmd.MarkFlagRequired("title")
	_ = eventsCreateCmd.MarkFlagRequired("date-time")
	_ = eventsCreateCmd.MarkFlagRequired("location")
	_ = eventsCreateCmd.MarkFlagRequired("description")
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Browse and manage events",
}

func eventForm(cmd *cobra.Command) forms.EventForm {
	title, _ := cmd.Flags().GetString("title")
	dateTime, _ := cmd.Flags().GetString("date-time")
	location, _ := cmd.Flags().GetString("location")
	description, _ := cmd.Flags().GetString("description")
	return forms.EventForm{
		Title:       title,
		DateTime:    dateTime,
		Location:    location,
		Description: description,
	}
}

func printEvents(list []types.EventRecord) error {
	if len(list) == 0 {
		fmt.Println("No events found.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tWHEN\tLOCATION\tATTENDEES")
	for _, e := range list {
		when := e.DateTime
		if t, ok := e.When(); ok {
			when = t.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			e.ID, e.Title, when, e.Location, e.AttendeeCount)
	}
	return w.Flush()
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events, filtered and sorted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		dateStr, _ := cmd.Flags().GetString("date")
		rangeStr, _ := cmd.Flags().GetString("range")

		var filter query.FilterState
		filter.SetSearch(search)
		if dateStr != "" {
			date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", dateStr)
			}
			filter.SetDate(date)
		}
		if rangeStr != "" {
			r, err := query.ParseRange(rangeStr)
			if err != nil {
				return err
			}
			filter.SetRange(r)
		}

		a := newApp()
		all, err := a.events.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch events: %w", err)
		}
		return printEvents(query.Apply(all, filter, time.Now()))
	},
}

var eventsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your own events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		if page < 1 {
			page = 1
		}

		a := newApp()
		if _, err := a.requireUser(cmd.Context()); err != nil {
			return err
		}
		mine, err := a.events.Mine(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch my events: %w", err)
		}

		size := a.cfg.PageSize
		start := (page - 1) * size
		if start >= len(mine) {
			fmt.Printf("No events on page %d.\n", page)
			return nil
		}
		end := min(start+size, len(mine))
		if err := printEvents(mine[start:end]); err != nil {
			return err
		}
		if len(mine) > size {
			fmt.Printf("Page %d of %d (%d events).\n",
				page, (len(mine)+size-1)/size, len(mine))
		}
		return nil
	},
}

var eventsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one event in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		all, err := a.events.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch events: %w", err)
		}
		for i := range all {
			e := &all[i]
			if e.ID != types.EventID(args[0]) {
				continue
			}
			fmt.Printf("%s\n", e.Title)
			if t, ok := e.When(); ok {
				fmt.Printf("When:     %s\n", t.Format("Monday, 2 January 2006 at 15:04"))
			}
			fmt.Printf("Where:    %s\n", e.Location)
			fmt.Printf("Going:    %d\n", e.AttendeeCount)
			fmt.Printf("\n%s\n", render.Description(e.Description))
			return nil
		}
		return fmt.Errorf("event not found: %s", args[0])
	},
}

var eventsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new event",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		if _, err := a.requireUser(cmd.Context()); err != nil {
			return err
		}
		created, err := a.events.Create(cmd.Context(), eventForm(cmd))
		if err != nil {
			return err
		}
		fmt.Printf("Event %q created (id %s).\n", created.Title, created.ID)
		return nil
	},
}

var eventsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update one of your events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		if _, err := a.requireUser(cmd.Context()); err != nil {
			return err
		}
		if err := a.events.Update(cmd.Context(), types.EventID(args[0]), eventForm(cmd)); err != nil {
			return err
		}
		fmt.Println("Event updated.")
		return nil
	},
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		if _, err := a.requireUser(cmd.Context()); err != nil {
			return err
		}
		if err := a.events.Delete(cmd.Context(), types.EventID(args[0])); err != nil {
			return err
		}
		fmt.Println("Event deleted.")
		return nil
	},
}

var eventsJoinCmd = &cobra.Command{
	Use:   "join <id>",
	Short: "Join an event as an attendee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		userID, err := a.requireUser(cmd.Context())
		if err != nil {
			return err
		}

		all, err := a.events.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch events: %w", err)
		}
		for i := range all {
			e := &all[i]
			if e.ID != types.EventID(args[0]) {
				continue
			}
			status, err := a.events.Join(cmd.Context(), e, types.UserID(userID))
			if err != nil {
				return err
			}
			if status == events.StatusAlreadyJoined {
				fmt.Println("You have already joined this event.")
			} else {
				fmt.Printf("You have joined %q.\n", e.Title)
			}
			return nil
		}
		return fmt.Errorf("event not found: %s", args[0])
	},
}
