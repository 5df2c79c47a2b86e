package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"alcyxob/donation-share/internal/client"
	"alcyxob/donation-share/internal/domain"

	"github.com/spf13/cobra"
)

const emptyListCTA = "No donations yet. Be the first to share something: donate give --help"

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List donations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			donations, err := a.api.ListDonations(cmd.Context())
			if err != nil {
				return fmt.Errorf("list donations: %w", err)
			}
			renderList(a.out, donations)
			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one donation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			donation, err := a.api.GetDonation(cmd.Context(), args[0])
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("donation %s not found", args[0])
			}
			if err != nil {
				return err
			}
			renderDetail(a.out, donation)
			return nil
		},
	}
}

func renderList(w io.Writer, donations []domain.Donation) {
	if len(donations) == 0 {
		fmt.Fprintln(w, emptyListCTA)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tLOCATION\tSTATUS\tPOSTED")
	for _, d := range donations {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, truncate(d.Title, 40), d.Category, d.Location, d.Status, d.CreatedAt.Local().Format(time.DateOnly))
	}
	tw.Flush()
}

func renderDetail(w io.Writer, d *domain.Donation) {
	fmt.Fprintf(w, "%s\n%s\n", d.Title, strings.Repeat("=", len([]rune(d.Title))))
	fmt.Fprintf(w, "Status:    %s\n", d.Status)
	fmt.Fprintf(w, "Category:  %s\n", d.Category)
	fmt.Fprintf(w, "Location:  %s\n", d.Location)
	fmt.Fprintf(w, "Posted:    %s\n", d.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "\n%s\n\n", d.Description)

	contact := d.DonorName + " <" + d.DonorEmail + ">"
	if d.DonorPhone != "" {
		contact += ", " + d.DonorPhone
	}
	fmt.Fprintf(w, "Donor:     %s\n", contact)
	fmt.Fprintln(w, "Photos:")
	for _, u := range d.ImageURLs {
		fmt.Fprintf(w, "  %s\n", u)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
