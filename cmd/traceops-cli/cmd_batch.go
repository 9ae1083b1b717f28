package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/traceopshq/traceops/client"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Manage production batches and their attachments",
	}
	cmd.AddCommand(batchCreateCmd())
	cmd.AddCommand(batchGetCmd())
	cmd.AddCommand(batchUpdateCmd())
	cmd.AddCommand(batchDeleteCmd())
	cmd.AddCommand(batchListCmd())
	cmd.AddCommand(batchAttachCmd())
	cmd.AddCommand(batchAttachmentsCmd())
	cmd.AddCommand(batchDownloadCmd())
	return cmd
}

func batchCreateCmd() *cobra.Command {
	var product, status string
	var shelfLife int
	cmd := &cobra.Command{
		Use:   "create <id> <batch-date>",
		Short: "Create a batch (date as YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateBatchRequest{
				ID:              args[0],
				BatchDate:       args[1],
				Product:         product,
				ShelfLifeMonths: shelfLife,
				Status:          status,
			}
			batch, err := apiClient.Batches.Create(context.Background(), req)
			if err != nil {
				fatal("create batch", err)
			}
			output(batch, batch.ID)
		},
	}
	cmd.Flags().StringVar(&product, "product", "", "Product name")
	cmd.Flags().IntVar(&shelfLife, "shelf-life", 0, "Shelf life in months")
	cmd.Flags().StringVar(&status, "status", "", "Batch status")
	return cmd
}

func batchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a batch by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			batch, err := apiClient.Batches.Get(context.Background(), args[0])
			if err != nil {
				fatal("get batch", err)
			}
			output(batch, batch.ID)
		},
	}
}

func batchUpdateCmd() *cobra.Command {
	var product, batchDate, status string
	var shelfLife int
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a batch",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateBatchRequest{}
			if product != "" {
				req.Product = &product
			}
			if batchDate != "" {
				req.BatchDate = &batchDate
			}
			if cmd.Flags().Changed("shelf-life") {
				req.ShelfLifeMonths = &shelfLife
			}
			if status != "" {
				req.Status = &status
			}
			batch, err := apiClient.Batches.Update(context.Background(), args[0], req)
			if err != nil {
				fatal("update batch", err)
			}
			output(batch, batch.ID)
		},
	}
	cmd.Flags().StringVar(&product, "product", "", "Product name")
	cmd.Flags().StringVar(&batchDate, "date", "", "Batch date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&shelfLife, "shelf-life", 0, "Shelf life in months")
	cmd.Flags().StringVar(&status, "status", "", "Batch status")
	return cmd
}

func batchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a batch",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Batches.Delete(context.Background(), args[0]); err != nil {
				fatal("delete batch", err)
			}
			fmt.Println("deleted")
		},
	}
}

func batchListCmd() *cobra.Command {
	var status, product string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List batches",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.BatchListOptions{
				Status:  status,
				Product: product,
				Limit:   limit,
				Offset:  offset,
			}
			batches, _, err := apiClient.Batches.List(context.Background(), opts)
			if err != nil {
				fatal("list batches", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "PRODUCT", "DATE", "SHELF-LIFE", "STATUS"}
				var rows [][]string
				for _, b := range batches {
					rows = append(rows, []string{
						b.ID, b.Product, b.BatchDate,
						fmt.Sprintf("%dm", b.ShelfLifeMonths), b.Status,
					})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, b := range batches {
					fmt.Println(b.ID)
				}
				return
			}
			output(batches, "")
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&product, "product", "", "Filter by product")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func batchAttachCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "attach <batch-id> <file>",
		Short: "Upload a file as a batch attachment",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			f, err := os.Open(args[1])
			if err != nil {
				fatal("open file", err)
			}
			defer f.Close()

			name := filepath.Base(args[1])
			contentType := mime.TypeByExtension(filepath.Ext(name))
			att, err := apiClient.Batches.UploadAttachment(context.Background(), args[0], kind, name, contentType, f)
			if err != nil {
				fatal("upload attachment", err)
			}
			output(att, att.ID)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Attachment kind (coa, spec, photo, ...)")
	return cmd
}

func batchAttachmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attachments <batch-id>",
		Short: "List attachments on a batch",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			atts, err := apiClient.Batches.ListAttachments(context.Background(), args[0])
			if err != nil {
				fatal("list attachments", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "KIND", "NAME", "SIZE"}
				var rows [][]string
				for _, a := range atts {
					rows = append(rows, []string{a.ID, a.Kind, a.Name, fmt.Sprintf("%d", a.SizeBytes)})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, a := range atts {
					fmt.Println(a.ID)
				}
				return
			}
			output(atts, "")
		},
	}
}

func batchDownloadCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "download <batch-id> <attachment-id>",
		Short: "Download an attachment",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := apiClient.Batches.DownloadAttachment(context.Background(), args[0], args[1])
			if err != nil {
				fatal("download attachment", err)
			}
			if outPath == "" || outPath == "-" {
				if _, err := os.Stdout.Write(data); err != nil {
					fatal("write stdout", err)
				}
				return
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				fatal("write file", err)
			}
			fmt.Printf("wrote %d bytes to %s\n", len(data), outPath)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default: stdout)")
	return cmd
}
