package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/traceopshq/traceops/client"
)

func newLabelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage label specs with derived lot and expiry",
	}
	cmd.AddCommand(labelCreateCmd())
	cmd.AddCommand(labelGetCmd())
	cmd.AddCommand(labelUpdateCmd())
	cmd.AddCommand(labelDeleteCmd())
	cmd.AddCommand(labelListCmd())
	return cmd
}

func labelCreateCmd() *cobra.Command {
	var batchID, batchDate string
	var shelfLife int
	cmd := &cobra.Command{
		Use:   "create <product-name>",
		Short: "Create a label spec (lot and expiry are derived)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateLabelSpecRequest{
				ProductName:     args[0],
				BatchID:         batchID,
				BatchDate:       batchDate,
				ShelfLifeMonths: shelfLife,
			}
			spec, err := apiClient.LabelSpecs.Create(context.Background(), req)
			if err != nil {
				fatal("create label spec", err)
			}
			output(spec, spec.ID)
		},
	}
	cmd.Flags().StringVar(&batchID, "batch", "", "Batch ID")
	cmd.Flags().StringVar(&batchDate, "date", "", "Batch date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&shelfLife, "shelf-life", 0, "Shelf life in months")
	return cmd
}

func labelGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a label spec by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			spec, err := apiClient.LabelSpecs.Get(context.Background(), args[0])
			if err != nil {
				fatal("get label spec", err)
			}
			output(spec, spec.ID)
		},
	}
}

func labelUpdateCmd() *cobra.Command {
	var productName, batchID, batchDate, lotNumber, expiryDate string
	var shelfLife int
	var override bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a label spec",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateLabelSpecRequest{}
			if productName != "" {
				req.ProductName = &productName
			}
			if batchID != "" {
				req.BatchID = &batchID
			}
			if batchDate != "" {
				req.BatchDate = &batchDate
			}
			if cmd.Flags().Changed("shelf-life") {
				req.ShelfLifeMonths = &shelfLife
			}
			if cmd.Flags().Changed("override") {
				req.OverrideLotExpiry = &override
			}
			if lotNumber != "" {
				req.LotNumber = &lotNumber
			}
			if expiryDate != "" {
				req.ExpiryDate = &expiryDate
			}
			spec, err := apiClient.LabelSpecs.Update(context.Background(), args[0], req)
			if err != nil {
				fatal("update label spec", err)
			}
			output(spec, spec.ID)
		},
	}
	cmd.Flags().StringVar(&productName, "product", "", "Product name")
	cmd.Flags().StringVar(&batchID, "batch", "", "Batch ID")
	cmd.Flags().StringVar(&batchDate, "date", "", "Batch date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&shelfLife, "shelf-life", 0, "Shelf life in months")
	cmd.Flags().BoolVar(&override, "override", false, "Override derived lot/expiry")
	cmd.Flags().StringVar(&lotNumber, "lot", "", "Manual lot number (requires --override)")
	cmd.Flags().StringVar(&expiryDate, "expiry", "", "Manual expiry date (requires --override)")
	return cmd
}

func labelDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a label spec",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.LabelSpecs.Delete(context.Background(), args[0]); err != nil {
				fatal("delete label spec", err)
			}
			fmt.Println("deleted")
		},
	}
}

func labelListCmd() *cobra.Command {
	var batchID string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List label specs",
		Run: func(cmd *cobra.Command, args []string) {
			if limit < 0 || offset < 0 {
				fmt.Fprintf(os.Stderr, "Error: --limit and --offset must be non-negative\n")
				os.Exit(1)
			}
			specs, _, err := apiClient.LabelSpecs.List(context.Background(), batchID, limit, offset)
			if err != nil {
				fatal("list label specs", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "PRODUCT", "BATCH", "LOT", "EXPIRY"}
				var rows [][]string
				for _, s := range specs {
					rows = append(rows, []string{s.ID, s.ProductName, s.BatchID, s.LotNumber, s.ExpiryDate})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, s := range specs {
					fmt.Println(s.ID)
				}
				return
			}
			output(specs, "")
		},
	}
	cmd.Flags().StringVar(&batchID, "batch", "", "Filter by batch ID")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}
