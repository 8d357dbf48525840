package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Show or choose the summarization provider",
}

var providerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List providers and whether they are configured",
	RunE:  runProviderList,
}

var providerSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Select a configured provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runProviderSet,
}

var dirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Show or change the data folder",
}

var dirShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the data folder",
	RunE:  runDirShow,
}

var dirSetCmd = &cobra.Command{
	Use:   "set <path>",
	Short: "Use another data folder; existing notes are not moved",
	Args:  cobra.ExactArgs(1),
	RunE:  runDirSet,
}

var dirResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Go back to the default data folder",
	RunE:  runDirReset,
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent summarization runs",
	RunE:  runRuns,
}

var runsLimit int

func init() {
	rootCmd.AddCommand(providerCmd, dirCmd, runsCmd)
	providerCmd.AddCommand(providerListCmd, providerSetCmd)
	dirCmd.AddCommand(dirShowCmd, dirSetCmd, dirResetCmd)

	runsCmd.Flags().IntVar(&runsLimit, "limit", 10, "Maximum number of runs to show")
}

func runProviderList(cmd *cobra.Command, args []string) error {
	choices, err := globalTracker.Providers(cmd.Context())
	if err != nil {
		return err
	}
	return printOutput(cmd.OutOrStdout(), choices, func(w io.Writer) error {
		for _, c := range choices {
			mark := " "
			if c.Selected {
				mark = "*"
			}
			status := "not configured"
			if c.Configured {
				status = "configured"
			}
			fmt.Fprintf(w, "%s %-12s %-14s %s\n", mark, c.ID, c.Name, status)
		}
		return nil
	})
}

func runProviderSet(cmd *cobra.Command, args []string) error {
	if err := globalTracker.SetProvider(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Provider set to %s\n", args[0])
	return nil
}

func runDirShow(cmd *cobra.Command, args []string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), globalTracker.BaseDir(cmd.Context()))
	return err
}

func runDirSet(cmd *cobra.Command, args []string) error {
	if err := globalTracker.SetBaseDir(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Data folder set to %s\n", globalTracker.BaseDir(cmd.Context()))
	return nil
}

func runDirReset(cmd *cobra.Command, args []string) error {
	if err := globalTracker.ResetBaseDir(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Data folder reset to %s\n", globalTracker.BaseDir(cmd.Context()))
	return nil
}

func runRuns(cmd *cobra.Command, args []string) error {
	runs, err := globalTracker.Runs(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}
	return printOutput(cmd.OutOrStdout(), runs, func(w io.Writer) error {
		if len(runs) == 0 {
			_, err := fmt.Fprintln(w, "No runs yet.")
			return err
		}
		for _, r := range runs {
			fmt.Fprintf(w, "%-14s %-7s %s  %-12s %-10s %s\n",
				humanize.Time(r.StartedAt), r.Job, r.Day, r.Provider, r.Outcome, r.Duration().Round(time.Millisecond))
			if r.Detail != "" {
				fmt.Fprintf(w, "    %s\n", r.Detail)
			}
		}
		return nil
	})
}
