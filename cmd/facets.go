package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tayloree/storefront-catalog/internal/catalog"
	"github.com/tayloree/storefront-catalog/internal/display"
)

var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Show price, genre and tag counts for the catalog",
	Long: "Counts are taken after the search term is applied but before price, genre\n" +
		"and tag filters, so they show what each filter option would leave.",
	Example: `  storecli facets --catalog catalog.json
  storecli facets -f catalog.json --query dark --json`,
	RunE: runFacets,
}

func init() {
	rootCmd.AddCommand(facetsCmd)
	facetsCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "Search term applied before counting")
}

func runFacets(cmd *cobra.Command, _ []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	items, err := sess.loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	counts := catalog.Facets(items, flagQuery, sess.options())

	if flagJSON {
		return display.PrintFacetsJSON(cmd.OutOrStdout(), counts)
	}
	display.PrintFacets(cmd.OutOrStdout(), counts, sess.ranges())
	return nil
}
