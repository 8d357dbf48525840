package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris/standup/config"
	"github.com/chris/standup/internal/service"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the launchd agent that keeps \"standup run\" going (macOS)",
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install and load the agent; it starts on login",
	RunE: withLaunchd(func(cmd *cobra.Command, l *service.Launchd) error {
		return l.Install(cmd.OutOrStdout())
	}),
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Unload and remove the agent",
	RunE: withLaunchd(func(cmd *cobra.Command, l *service.Launchd) error {
		return l.Uninstall(cmd.OutOrStdout())
	}),
}

var serviceRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the agent",
	RunE: withLaunchd(func(cmd *cobra.Command, l *service.Launchd) error {
		return l.Restart()
	}),
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the agent is loaded",
	RunE: withLaunchd(func(cmd *cobra.Command, l *service.Launchd) error {
		if l.Loaded() {
			fmt.Fprintf(cmd.OutOrStdout(), "loaded (logs: %s)\n", l.StderrLog())
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "not loaded")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(serviceInstallCmd, serviceUninstallCmd, serviceRestartCmd, serviceStatusCmd)
}

func withLaunchd(fn func(*cobra.Command, *service.Launchd) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		l, err := service.New("", config.ConfigDir())
		if err != nil {
			return err
		}
		return fn(cmd, l)
	}
}
