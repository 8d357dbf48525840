package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/chris/standup/internal/store"
	"github.com/chris/standup/internal/tracker"
	"github.com/chris/standup/internal/tui"
)

var addCmd = &cobra.Command{
	Use:   "add [note...]",
	Short: "Record a work note",
	Long: `Record a work note for today. With no arguments the note is read from
stdin, or an interactive prompt opens when stdin is a terminal.`,
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List a day's notes",
	RunE:    runList,
}

var editCmd = &cobra.Command{
	Use:   "edit <index> <note...>",
	Short: "Replace the text of a note",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEdit,
}

var rmCmd = &cobra.Command{
	Use:   "rm <index>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "List every day with notes, newest first",
	RunE:  runDays,
}

// Flags
var (
	addAt     string
	entryDate string
)

func init() {
	rootCmd.AddCommand(addCmd, listCmd, editCmd, rmCmd, daysCmd)

	addCmd.Flags().StringVar(&addAt, "at", "", "When the note was taken (15:04 today, or RFC 3339)")
	for _, c := range []*cobra.Command{listCmd, editCmd, rmCmd} {
		c.Flags().StringVarP(&entryDate, "date", "d", "", "Day (YYYY-MM-DD, today, yesterday)")
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	at, err := parseAt(addAt, time.Now())
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	if text == "" {
		if stdinIsTerminal() {
			entries, err := globalTracker.Entries(ctx, globalTracker.Today())
			if err != nil {
				return err
			}
			recent := make([]string, 0, len(entries))
			for _, e := range entries {
				recent = append(recent, e.Text)
			}
			var ok bool
			text, ok, err = tui.PromptNote(os.Stdin, cmd.OutOrStdout(), recent)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		} else if text, err = readStdin(); err != nil {
			return err
		}
	}

	e, err := globalTracker.Record(ctx, text, at)
	if err != nil {
		return fmt.Errorf("failed to record note: %w", err)
	}
	return printOutput(cmd.OutOrStdout(), e, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Noted for %s at %s\n", store.DayKey(e.Timestamp), e.Timestamp.Local().Format("3:04 PM"))
		return err
	})
}

func runList(cmd *cobra.Command, args []string) error {
	day, err := dayArg(entryDate)
	if err != nil {
		return err
	}
	entries, err := globalTracker.Entries(cmd.Context(), day)
	if err != nil {
		return err
	}
	return printOutput(cmd.OutOrStdout(), entries, func(w io.Writer) error {
		if len(entries) == 0 {
			_, err := fmt.Fprintf(w, "No notes for %s.\n", day)
			return err
		}
		for i, e := range entries {
			fmt.Fprintf(w, "%3d  %8s  %s  (%s)\n", i, e.Timestamp.Local().Format("3:04 PM"), e.Text, humanize.Time(e.Timestamp))
		}
		return nil
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	day, err := dayArg(entryDate)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("index must be a number: %q", args[0])
	}
	if err := globalTracker.UpdateEntry(cmd.Context(), day, index, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated note %d on %s\n", index, day)
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	day, err := dayArg(entryDate)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("index must be a number: %q", args[0])
	}
	if err := globalTracker.DeleteEntry(cmd.Context(), day, index); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d on %s\n", index, day)
	return nil
}

func runDays(cmd *cobra.Command, args []string) error {
	days, err := globalTracker.Days(cmd.Context())
	if err != nil {
		return err
	}
	return printOutput(cmd.OutOrStdout(), days, func(w io.Writer) error {
		return writeDays(w, days)
	})
}

// writeDays is the text form of the days listing.
func writeDays(w io.Writer, days []tracker.Day) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No notes yet.")
		return err
	}
	for _, d := range days {
		summarized := ""
		if d.Summary != "" {
			summarized = "  summarized"
		}
		t, _ := store.ParseDay(d.Day)
		if _, err := fmt.Fprintf(w, "%s  %-14s  %s%s\n", d.Day, t.Format("Mon Jan 2"), english.Plural(len(d.Entries), "note", ""), summarized); err != nil {
			return err
		}
	}
	return nil
}
