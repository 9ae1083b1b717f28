package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/traceopshq/traceops/client"
)

func newContactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage contacts",
	}
	cmd.AddCommand(contactCreateCmd())
	cmd.AddCommand(contactGetCmd())
	cmd.AddCommand(contactUpdateCmd())
	cmd.AddCommand(contactDeleteCmd())
	cmd.AddCommand(contactListCmd())
	return cmd
}

func contactCreateCmd() *cobra.Command {
	var email, phone, company string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a contact",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateContactRequest{
				Name:    args[0],
				Email:   email,
				Phone:   phone,
				Company: company,
			}
			contact, err := apiClient.Contacts.Create(context.Background(), req)
			if err != nil {
				fatal("create contact", err)
			}
			output(contact, contact.ID)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&company, "company", "", "Company name")
	return cmd
}

func contactGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a contact by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			contact, err := apiClient.Contacts.Get(context.Background(), args[0])
			if err != nil {
				fatal("get contact", err)
			}
			output(contact, contact.ID)
		},
	}
}

func contactUpdateCmd() *cobra.Command {
	var name, email, phone, company string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a contact",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateContactRequest{}
			if name != "" {
				req.Name = &name
			}
			if email != "" {
				req.Email = &email
			}
			if phone != "" {
				req.Phone = &phone
			}
			if company != "" {
				req.Company = &company
			}
			contact, err := apiClient.Contacts.Update(context.Background(), args[0], req)
			if err != nil {
				fatal("update contact", err)
			}
			output(contact, contact.ID)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Contact name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&company, "company", "", "Company name")
	return cmd
}

func contactDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Contacts.Delete(context.Background(), args[0]); err != nil {
				fatal("delete contact", err)
			}
			fmt.Println("deleted")
		},
	}
}

func contactListCmd() *cobra.Command {
	var search string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Run: func(cmd *cobra.Command, args []string) {
			if limit < 0 || offset < 0 {
				fmt.Fprintf(os.Stderr, "Error: --limit and --offset must be non-negative\n")
				os.Exit(1)
			}
			contacts, _, err := apiClient.Contacts.List(context.Background(), search, limit, offset)
			if err != nil {
				fatal("list contacts", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "NAME", "EMAIL", "COMPANY"}
				var rows [][]string
				for _, c := range contacts {
					rows = append(rows, []string{c.ID, c.Name, c.Email, c.Company})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, c := range contacts {
					fmt.Println(c.ID)
				}
				return
			}
			output(contacts, "")
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Name/email substring filter")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}
