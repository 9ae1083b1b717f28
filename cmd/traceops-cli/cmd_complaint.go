package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/traceopshq/traceops/client"
)

func newComplaintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complaint",
		Short: "Manage quality complaints",
	}
	cmd.AddCommand(complaintCreateCmd())
	cmd.AddCommand(complaintGetCmd())
	cmd.AddCommand(complaintUpdateCmd())
	cmd.AddCommand(complaintDeleteCmd())
	cmd.AddCommand(complaintListCmd())
	return cmd
}

func complaintCreateCmd() *cobra.Command {
	var batchID, severity string
	cmd := &cobra.Command{
		Use:   "create <description>",
		Short: "File a complaint",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateComplaintRequest{
				Description: args[0],
				BatchID:     batchID,
				Severity:    severity,
			}
			complaint, err := apiClient.Complaints.Create(context.Background(), req)
			if err != nil {
				fatal("create complaint", err)
			}
			output(complaint, complaint.ID)
		},
	}
	cmd.Flags().StringVar(&batchID, "batch", "", "Affected batch ID")
	cmd.Flags().StringVar(&severity, "severity", "", "Severity (low, medium, high, critical)")
	return cmd
}

func complaintGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a complaint by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			complaint, err := apiClient.Complaints.Get(context.Background(), args[0])
			if err != nil {
				fatal("get complaint", err)
			}
			output(complaint, complaint.ID)
		},
	}
}

func complaintUpdateCmd() *cobra.Command {
	var severity, status, description string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a complaint",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateComplaintRequest{}
			if severity != "" {
				req.Severity = &severity
			}
			if status != "" {
				req.Status = &status
			}
			if description != "" {
				req.Description = &description
			}
			complaint, err := apiClient.Complaints.Update(context.Background(), args[0], req)
			if err != nil {
				fatal("update complaint", err)
			}
			output(complaint, complaint.ID)
		},
	}
	cmd.Flags().StringVar(&severity, "severity", "", "Severity")
	cmd.Flags().StringVar(&status, "status", "", "Status (open, investigating, closed)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	return cmd
}

func complaintDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a complaint",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Complaints.Delete(context.Background(), args[0]); err != nil {
				fatal("delete complaint", err)
			}
			fmt.Println("deleted")
		},
	}
}

func complaintListCmd() *cobra.Command {
	var status, batchID string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List complaints",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.ComplaintListOptions{
				Status:  status,
				BatchID: batchID,
				Limit:   limit,
				Offset:  offset,
			}
			complaints, _, err := apiClient.Complaints.List(context.Background(), opts)
			if err != nil {
				fatal("list complaints", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "BATCH", "SEVERITY", "STATUS", "DESCRIPTION"}
				var rows [][]string
				for _, c := range complaints {
					rows = append(rows, []string{
						c.ID,
						orDash(c.BatchID),
						c.Severity, c.Status,
						truncateCell(c.Description, tableCellMax),
					})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, c := range complaints {
					fmt.Println(c.ID)
				}
				return
			}
			output(complaints, "")
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&batchID, "batch", "", "Filter by batch ID")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}
