package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/traceopshq/traceops/client"
)

func newStabilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stability",
		Short: "Manage stability protocols and timepoints",
	}
	cmd.AddCommand(stabilityCreateCmd())
	cmd.AddCommand(stabilityGetCmd())
	cmd.AddCommand(stabilityUpdateCmd())
	cmd.AddCommand(stabilityDeleteCmd())
	cmd.AddCommand(stabilityListCmd())
	cmd.AddCommand(stabilityPlanCmd())
	cmd.AddCommand(stabilityTimepointsCmd())
	cmd.AddCommand(stabilityPullCmd())
	return cmd
}

func stabilityCreateCmd() *cobra.Command {
	var product, batchID, startDate, schedule string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a stability protocol and plan its timepoints",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateProtocolRequest{
				Name:      args[0],
				Product:   product,
				BatchID:   batchID,
				StartDate: startDate,
				Schedule:  splitSchedule(schedule),
			}
			pw, err := apiClient.Stability.CreateProtocol(context.Background(), req)
			if err != nil {
				fatal("create protocol", err)
			}
			output(pw, pw.Protocol.ID)
		},
	}
	cmd.Flags().StringVar(&product, "product", "", "Product name")
	cmd.Flags().StringVar(&batchID, "batch", "", "Batch ID")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&schedule, "schedule", "0,1M,3M,6M,12M,24M", "Comma-separated interval labels")
	return cmd
}

func stabilityGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a protocol by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			p, err := apiClient.Stability.GetProtocol(context.Background(), args[0])
			if err != nil {
				fatal("get protocol", err)
			}
			output(p, p.ID)
		},
	}
}

func stabilityUpdateCmd() *cobra.Command {
	var name, product, batchID, startDate, schedule string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a protocol (timepoints are replanned)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateProtocolRequest{}
			if name != "" {
				req.Name = &name
			}
			if product != "" {
				req.Product = &product
			}
			if batchID != "" {
				req.BatchID = &batchID
			}
			if startDate != "" {
				req.StartDate = &startDate
			}
			if schedule != "" {
				s := splitSchedule(schedule)
				req.Schedule = &s
			}
			pw, err := apiClient.Stability.UpdateProtocol(context.Background(), args[0], req)
			if err != nil {
				fatal("update protocol", err)
			}
			output(pw, pw.Protocol.ID)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Protocol name")
	cmd.Flags().StringVar(&product, "product", "", "Product name")
	cmd.Flags().StringVar(&batchID, "batch", "", "Batch ID")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&schedule, "schedule", "", "Comma-separated interval labels")
	return cmd
}

func stabilityDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a protocol and its timepoints",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Stability.DeleteProtocol(context.Background(), args[0]); err != nil {
				fatal("delete protocol", err)
			}
			fmt.Println("deleted")
		},
	}
}

func stabilityListCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stability protocols",
		Run: func(cmd *cobra.Command, args []string) {
			protocols, _, err := apiClient.Stability.ListProtocols(context.Background(), limit, offset)
			if err != nil {
				fatal("list protocols", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "NAME", "BATCH", "START", "SCHEDULE"}
				var rows [][]string
				for _, p := range protocols {
					rows = append(rows, []string{
						p.ID, p.Name, p.BatchID, p.StartDate, strings.Join(p.Schedule, ","),
					})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, p := range protocols {
					fmt.Println(p.ID)
				}
				return
			}
			output(protocols, "")
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func stabilityPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <id>",
		Short: "Re-expand a protocol's schedule into timepoints",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result, err := apiClient.Stability.Plan(context.Background(), args[0])
			if err != nil {
				fatal("plan protocol", err)
			}
			if len(result.Errors) > 0 {
				for _, e := range result.Errors {
					fmt.Fprintf(os.Stderr, "Warning: unparseable schedule label %q\n", e.Label)
				}
			}
			output(result, "")
		},
	}
}

func stabilityTimepointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timepoints <id>",
		Short: "List a protocol's timepoints",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			tps, err := apiClient.Stability.Timepoints(context.Background(), args[0])
			if err != nil {
				fatal("list timepoints", err)
			}
			if flagFmt == "table" {
				headers := []string{"LABEL", "PLANNED", "ACTUAL"}
				var rows [][]string
				for _, tp := range tps {
					rows = append(rows, []string{tp.Label, tp.PlannedDate, orDash(tp.ActualDate)})
				}
				formatTable(headers, rows)
				return
			}
			output(tps, "")
		},
	}
}

func stabilityPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull <id> <label> <actual-date>",
		Short: "Record the actual pull date for a timepoint",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			tp, err := apiClient.Stability.RecordActual(context.Background(), args[0], args[1], args[2])
			if err != nil {
				fatal("record pull", err)
			}
			output(tp, tp.Label)
		},
	}
}

func splitSchedule(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
