package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mapalengke/backend/internal/domain"
	"github.com/mapalengke/backend/internal/usecase"
	"github.com/spf13/cobra"
)

var browseSort string

// browseCmd prints one category of the directory as a table
var browseCmd = &cobra.Command{
	Use:   "browse [category]",
	Short: "Print the vendors of a category",
	Long: `Prints the vendors selling in a browsing category, e.g.

  mapalengke browse fish --sort stall
  mapalengke browse "vegetables & fruits"`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	mode, err := usecase.ParseSortMode(browseSort)
	if err != nil {
		return fmt.Errorf("--sort must be alpha or stall, got %q", browseSort)
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.directory.BrowseCategory(cmd.Context(), usecase.BrowseRequest{
		Category: args[0],
		Sort:     mode,
	})
	if err != nil {
		return err
	}

	return renderVendors(cmd.OutOrStdout(), result)
}

// renderVendors writes the directory as an aligned table
func renderVendors(w io.Writer, result *usecase.BrowseResult) error {
	if result.Total == 0 {
		_, err := fmt.Fprintf(w, "No vendors found for %q\n", result.Category)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STALL\tVENDOR\tAVAILABLE\tMEAT\tCONTACT")
	for _, v := range result.Vendors {
		stall := "-"
		if v.Stall != nil && v.Stall.StallNumber != "" {
			stall = v.Stall.StallNumber
		}
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t%s\n",
			stall,
			v.BusinessName,
			v.AvailableProductCount,
			v.ProductCount,
			meatBadges(v.MeatTypes),
			orDash(v.ContactNumber))
	}
	fmt.Fprintf(tw, "\n%d vendor(s), sorted by %s\n", result.Total, result.Sort)
	return tw.Flush()
}

func meatBadges(m domain.MeatTypes) string {
	var badges []string
	if m.Pork {
		badges = append(badges, "pork")
	}
	if m.Beef {
		badges = append(badges, "beef")
	}
	if m.Chicken {
		badges = append(badges, "chicken")
	}
	if len(badges) == 0 {
		return "-"
	}
	return strings.Join(badges, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
