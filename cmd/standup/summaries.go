package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chris/standup/internal/store"
	"github.com/chris/standup/internal/tracker"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Write the standup update for a day",
	Long: `Send a day's notes to the selected provider and save the result as that
day's summary. Failures are printed and nothing is saved.`,
	RunE: runSummarize,
}

var summariesCmd = &cobra.Command{
	Use:   "summaries",
	Short: "List saved summaries, newest first",
	RunE:  runSummaries,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show, edit or delete a day's summary",
}

var summaryShowCmd = &cobra.Command{
	Use:   "show [day]",
	Short: "Print a saved summary",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSummaryShow,
}

var summaryEditCmd = &cobra.Command{
	Use:   "edit <day> [text...]",
	Short: "Replace a summary; text is read from stdin when omitted",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSummaryEdit,
}

var summaryDeleteCmd = &cobra.Command{
	Use:   "delete <day>",
	Short: "Delete a summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummaryDelete,
}

var summarizeDate string

func init() {
	rootCmd.AddCommand(summarizeCmd, summariesCmd, summaryCmd)
	summaryCmd.AddCommand(summaryShowCmd, summaryEditCmd, summaryDeleteCmd)

	summarizeCmd.Flags().StringVarP(&summarizeDate, "date", "d", "", "Day to summarize (YYYY-MM-DD, today, yesterday)")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	day, err := dayArg(summarizeDate)
	if err != nil {
		return err
	}
	out, err := globalTracker.SummarizeDay(cmd.Context(), day, tracker.JobManual)
	if err != nil {
		return err
	}
	return printOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, out.Text)
		return err
	})
}

func runSummaries(cmd *cobra.Command, args []string) error {
	summaries, err := globalTracker.Summaries(cmd.Context())
	if err != nil {
		return err
	}
	return printOutput(cmd.OutOrStdout(), summaries, func(w io.Writer) error {
		if len(summaries) == 0 {
			_, err := fmt.Fprintln(w, "No summaries yet.")
			return err
		}
		for i, s := range summaries {
			if i > 0 {
				fmt.Fprintln(w)
			}
			t, _ := store.ParseDay(s.Day)
			fmt.Fprintf(w, "# %s\n\n%s\n", t.Format("Jan 2, 2006"), strings.TrimSpace(s.Content))
		}
		return nil
	})
}

func runSummaryShow(cmd *cobra.Command, args []string) error {
	day := ""
	if len(args) == 1 {
		day = args[0]
	}
	day, err := dayArg(day)
	if err != nil {
		return err
	}
	content, ok, err := globalTracker.Summary(cmd.Context(), day)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no summary for %s", day)
	}
	return printOutput(cmd.OutOrStdout(), store.Summary{Day: day, Content: content}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, content)
		return err
	})
}

func runSummaryEdit(cmd *cobra.Command, args []string) error {
	day, err := dayArg(args[0])
	if err != nil {
		return err
	}
	content := strings.Join(args[1:], " ")
	if content == "" {
		if content, err = readStdin(); err != nil {
			return err
		}
	}
	if content == "" {
		return fmt.Errorf("summary text is empty")
	}
	if err := globalTracker.UpdateSummary(cmd.Context(), day, content); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved summary for %s\n", day)
	return nil
}

func runSummaryDelete(cmd *cobra.Command, args []string) error {
	day, err := dayArg(args[0])
	if err != nil {
		return err
	}
	if err := globalTracker.DeleteSummary(cmd.Context(), day); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted summary for %s\n", day)
	return nil
}
