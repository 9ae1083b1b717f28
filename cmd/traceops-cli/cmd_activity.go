package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/traceopshq/traceops/client"
)

func newActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Query and record audit activity",
	}
	cmd.AddCommand(activityQueryCmd())
	cmd.AddCommand(activityRecordCmd())
	return cmd
}

func activityQueryCmd() *cobra.Command {
	var entityType, entityID, field, action, actor, since string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the activity log",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.ActivityQueryOptions{
				EntityType: entityType,
				EntityID:   entityID,
				Field:      field,
				Action:     action,
				Actor:      actor,
				Limit:      limit,
				Offset:     offset,
			}
			if since != "" {
				t, err := time.Parse(time.RFC3339, since)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: --since must be RFC3339 (e.g. 2026-01-02T15:04:05Z)\n")
					os.Exit(1)
				}
				opts.Since = &t
			}
			records, _, err := apiClient.Activity.Query(context.Background(), opts)
			if err != nil {
				fatal("query activity", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "ENTITY", "FIELD", "ACTION", "ACTOR", "AT"}
				var rows [][]string
				for _, r := range records {
					rows = append(rows, []string{
						fmt.Sprintf("%d", r.ID),
						r.EntityType + "/" + r.EntityID,
						orDash(r.Field), r.Action, r.Actor,
						r.CreatedAt.Format(time.RFC3339),
					})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, r := range records {
					fmt.Println(r.ID)
				}
				return
			}
			output(records, "")
		},
	}
	cmd.Flags().StringVar(&entityType, "entity-type", "", "Filter by entity type")
	cmd.Flags().StringVar(&entityID, "entity-id", "", "Filter by entity ID")
	cmd.Flags().StringVar(&field, "field", "", "Filter by field name")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action")
	cmd.Flags().StringVar(&actor, "actor", "", "Filter by actor")
	cmd.Flags().StringVar(&since, "since", "", "Only entries at or after this RFC3339 time")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func activityRecordCmd() *cobra.Command {
	var field, action, oldJSON, newJSON, message string
	cmd := &cobra.Command{
		Use:   "record <entity-type> <entity-id>",
		Short: "Write a manual activity entry",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.RecordActivityRequest{
				EntityType: args[0],
				EntityID:   args[1],
				Field:      field,
				Action:     action,
				Message:    message,
			}
			if oldJSON != "" {
				req.OldValue = json.RawMessage(oldJSON)
			}
			if newJSON != "" {
				req.NewValue = json.RawMessage(newJSON)
			}
			rec, err := apiClient.Activity.Record(context.Background(), req)
			if err != nil {
				fatal("record activity", err)
			}
			output(rec, fmt.Sprintf("%d", rec.ID))
		},
	}
	cmd.Flags().StringVar(&field, "field", "", "Field name")
	cmd.Flags().StringVar(&action, "action", "update", "Action (create, update, delete, note)")
	cmd.Flags().StringVar(&oldJSON, "old", "", "Old value as JSON")
	cmd.Flags().StringVar(&newJSON, "new", "", "New value as JSON")
	cmd.Flags().StringVar(&message, "message", "", "Free-form note")
	return cmd
}
