package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
	"github.com/vbonduro/urbanhomes/internal/domain"
)

func (a *app) inquiriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inquiries",
		Aliases: []string{"inquiry"},
		Short:   "Review contact inquiries",
	}
	cmd.AddCommand(a.inquiriesListCmd(), a.inquiriesStatusCmd(), a.inquiriesDeleteCmd())
	return cmd
}

func (a *app) inquiriesListCmd() *cobra.Command {
	var (
		f      domain.InquiryFilter
		status string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inquiries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			f.Status = domain.InquiryStatus(strings.ToUpper(status))
			if f.Status != "" && !f.Status.Valid() {
				return fmt.Errorf("unknown inquiry status %q", status)
			}
			list, err := a.inquiries.List(cmd.Context(), f)
			if err != nil {
				return a.check(err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, list)
			}
			if len(list.Inquiries) == 0 {
				fmt.Fprintln(out, "No inquiries yet")
				return nil
			}
			rows := make([][]string, 0, len(list.Inquiries))
			for _, inq := range list.Inquiries {
				rows = append(rows, []string{
					inq.ID, inq.Name, inq.Email, string(inq.Status),
					inq.CreatedAt.Local().Format("2006-01-02 15:04"), truncate(inq.Message, 40),
				})
			}
			printTable(out, []string{"ID", "Name", "Email", "Status", "Received", "Message"}, rows)
			pg := list.Pagination
			printFooter(out, "Page %d of %d (%d inquiries)", pg.Page, pg.Pages, pg.Total)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&status, "status", "", "NEW, CONTACTED or CLOSED")
	flags.IntVar(&f.Page, "page", 1, "page number")
	flags.IntVar(&f.Limit, "limit", 0, "page size (backend default when 0)")
	flags.BoolVar(&asJSON, "json", false, "print the raw JSON response")
	return cmd
}

func (a *app) inquiriesStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <NEW|CONTACTED|CLOSED>",
		Short: "Change an inquiry's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			status := domain.InquiryStatus(strings.ToUpper(args[1]))
			if !status.Valid() {
				return fmt.Errorf("unknown inquiry status %q", args[1])
			}
			inq, err := a.inquiries.UpdateStatus(cmd.Context(), args[0], status)
			if err != nil {
				if apiclient.IsNotFound(err) {
					return fmt.Errorf("inquiry %s not found", args[0])
				}
				return a.check(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Inquiry from %s is now %s\n", inq.Name, inq.Status)
			return nil
		},
	}
}

func (a *app) inquiriesDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an inquiry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Delete inquiry %s? [y/N] ", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}
			if err := a.inquiries.Delete(cmd.Context(), args[0]); err != nil {
				if apiclient.IsNotFound(err) {
					return fmt.Errorf("inquiry %s not found", args[0])
				}
				return a.check(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted inquiry %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
