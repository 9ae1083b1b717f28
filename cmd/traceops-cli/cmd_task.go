package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/traceopshq/traceops/client"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(taskCreateCmd())
	cmd.AddCommand(taskGetCmd())
	cmd.AddCommand(taskUpdateCmd())
	cmd.AddCommand(taskDeleteCmd())
	cmd.AddCommand(taskListCmd())
	return cmd
}

func taskCreateCmd() *cobra.Command {
	var description, status, priority, assignee, dueDate string
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateTaskRequest{
				Title:       args[0],
				Description: description,
				Status:      status,
				Priority:    priority,
				Assignee:    assignee,
				DueDate:     dueDate,
			}
			task, err := apiClient.Tasks.Create(context.Background(), req)
			if err != nil {
				fatal("create task", err)
			}
			output(task, task.ID)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&status, "status", "", "Task status")
	cmd.Flags().StringVar(&priority, "priority", "", "Task priority")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee user ID")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date (YYYY-MM-DD)")
	return cmd
}

func taskGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a task by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			task, err := apiClient.Tasks.Get(context.Background(), args[0])
			if err != nil {
				fatal("get task", err)
			}
			output(task, task.ID)
		},
	}
}

func taskUpdateCmd() *cobra.Command {
	var title, description, status, priority, assignee, dueDate string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateTaskRequest{}
			if title != "" {
				req.Title = &title
			}
			if description != "" {
				req.Description = &description
			}
			if status != "" {
				req.Status = &status
			}
			if priority != "" {
				req.Priority = &priority
			}
			if assignee != "" {
				req.Assignee = &assignee
			}
			if dueDate != "" {
				req.DueDate = &dueDate
			}
			task, err := apiClient.Tasks.Update(context.Background(), args[0], req)
			if err != nil {
				fatal("update task", err)
			}
			output(task, task.ID)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&status, "status", "", "Task status")
	cmd.Flags().StringVar(&priority, "priority", "", "Task priority")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee user ID")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date (YYYY-MM-DD)")
	return cmd
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Tasks.Delete(context.Background(), args[0]); err != nil {
				fatal("delete task", err)
			}
			fmt.Println("deleted")
		},
	}
}

func taskListCmd() *cobra.Command {
	var status, assignee, search string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Run: func(cmd *cobra.Command, args []string) {
			if limit < 0 {
				fmt.Fprintf(os.Stderr, "Error: --limit must be non-negative\n")
				os.Exit(1)
			}
			if offset < 0 {
				fmt.Fprintf(os.Stderr, "Error: --offset must be non-negative\n")
				os.Exit(1)
			}
			opts := &client.TaskListOptions{
				Status:   status,
				Assignee: assignee,
				Search:   search,
				Limit:    limit,
				Offset:   offset,
			}
			tasks, _, err := apiClient.Tasks.List(context.Background(), opts)
			if err != nil {
				fatal("list tasks", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "STATUS", "PRIORITY", "DUE", "TITLE"}
				var rows [][]string
				for _, t := range tasks {
					rows = append(rows, []string{
						t.ID, t.Status, t.Priority,
						orDash(t.DueDate),
						truncateCell(t.Title, tableCellMax),
					})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, t := range tasks {
					fmt.Println(t.ID)
				}
				return
			}
			output(tasks, "")
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Filter by assignee")
	cmd.Flags().StringVar(&search, "search", "", "Title substring filter")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}
