package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands",
	}
	cmd.AddCommand(adminHealthCmd())
	cmd.AddCommand(adminReadyCmd())
	cmd.AddCommand(adminStatsCmd())
	cmd.AddCommand(adminPurgeCmd())
	return cmd
}

func adminHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := apiClient.Health(context.Background())
			if err != nil {
				fatal("health", err)
			}
			output(resp, resp.Status)
		},
	}
}

func adminReadyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Check server readiness (includes database)",
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := apiClient.Ready(context.Background())
			if err != nil {
				fatal("ready", err)
			}
			output(resp, resp.Status)
		},
	}
}

func adminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show record counts",
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := apiClient.Stats(context.Background())
			if err != nil {
				fatal("stats", err)
			}
			if flagFmt == "table" {
				formatTable(
					[]string{"METRIC", "VALUE"},
					[][]string{
						{"Tasks", fmt.Sprintf("%d", resp.Tasks)},
						{"Contacts", fmt.Sprintf("%d", resp.Contacts)},
						{"Batches", fmt.Sprintf("%d", resp.Batches)},
						{"Label Specs", fmt.Sprintf("%d", resp.LabelSpecs)},
						{"Stability Protocols", fmt.Sprintf("%d", resp.StabilityProtocols)},
						{"Open Complaints", fmt.Sprintf("%d", resp.OpenComplaints)},
						{"Activity Entries", fmt.Sprintf("%d", resp.ActivityEntries)},
					},
				)
				return
			}
			output(resp, "")
		},
	}
}

func adminPurgeCmd() *cobra.Command {
	var retentionDays int
	cmd := &cobra.Command{
		Use:   "purge-activity",
		Short: "Delete activity entries older than the retention window",
		Run: func(cmd *cobra.Command, args []string) {
			purged, err := apiClient.Activity.Purge(context.Background(), retentionDays)
			if err != nil {
				fatal("purge activity", err)
			}
			output(map[string]int{"purged": purged}, fmt.Sprintf("%d", purged))
		},
	}
	cmd.Flags().IntVar(&retentionDays, "retention-days", 365, "Keep entries newer than this many days")
	return cmd
}
