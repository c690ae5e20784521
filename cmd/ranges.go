package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tayloree/storefront-catalog/internal/catalog"
	"github.com/tayloree/storefront-catalog/internal/display"
)

var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "Compare configured price ranges by matching items",
	Long: "Runs the current search, genre and tag filters once per configured price\n" +
		"range and reports how many items each range keeps plus its top item.",
	Example: `  storecli ranges --catalog catalog.json
  storecli ranges -f catalog.json --genre rpg --sort rating
  storecli ranges -f catalog.json --query souls --json`,
	RunE: runRanges,
}

func init() {
	rootCmd.AddCommand(rangesCmd)
	registerListingFlags(rangesCmd.Flags())
}

func runRanges(cmd *cobra.Command, _ []string) error {
	key, err := validateSortMode()
	if err != nil {
		return err
	}

	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	items, err := sess.loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	rows := compareRanges(items, currentFilterState(), key, sess.options())
	if flagJSON {
		return display.PrintRangesJSON(cmd.OutOrStdout(), rows)
	}
	display.PrintRanges(cmd.OutOrStdout(), rows)
	return nil
}

// compareRanges evaluates state once per configured range, replacing only the
// price range id. Rows keep the configured order.
func compareRanges(items []catalog.Item, state catalog.FilterState, key catalog.SortKey, opts catalog.Options) []display.RangeJSON {
	ranges := opts.PriceRanges
	if len(ranges) == 0 {
		ranges = catalog.DefaultPriceRanges()
	}
	controller := catalog.NewController(opts)

	rows := make([]display.RangeJSON, 0, len(ranges))
	for _, r := range ranges {
		next := state
		next.PriceRangeID = r.ID
		res := controller.Results(items, next, key)

		row := display.RangeJSON{
			ID:    r.ID,
			Label: r.Label,
			Min:   r.Min,
			Max:   r.Max,
			Count: len(res.Items),
		}
		if len(res.Items) > 0 {
			row.TopTitle = display.ItemTitle(res.Items[0].Item)
		}
		rows = append(rows, row)
	}
	return rows
}
