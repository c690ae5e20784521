package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tayloree/storefront-catalog/internal/catalog"
	"github.com/tayloree/storefront-catalog/internal/display"
)

var (
	flagConfig      string
	flagCatalogFile string
	flagCatalogURL  string
	flagJSON        bool
	flagVerbose     bool
	flagQuery       string
	flagPrice       string
	flagGenres      []string
	flagTags        []string
	flagSort        string
	flagPage        int
	flagPageSize    int
	flagFacets      bool
	flagNoHistory   bool
)

var rootCmd = &cobra.Command{
	Use:   "storecli",
	Short: "Search, filter and sort a storefront catalog",
	Long: "CLI tool that loads a storefront catalog from a file or URL and lists it\n" +
		"with fuzzy search, price/genre/tag filters, live facet counts and sorting.\n\n" +
		"Agent-friendly mode: minor syntax issues are auto-corrected when intent is clear " +
		"(for example: -query hades, query=hades, --qurey hades).",
	Example: `  storecli --catalog catalog.json --query "dark souls"
  storecli --url https://shop.example/catalog --genre rpg --genre action
  storecli -f catalog.json --price under-50 --tag co-op --sort rating
  storecli facets -f catalog.json --query dark
  storecli ranges -f catalog.json --json
  storecli tui -f catalog.json
  storecli config init -f catalog.json`,
	RunE: runResults,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default: user config dir/storecli/config.yaml)")
	pf.StringVarP(&flagCatalogFile, "catalog", "f", "", "Load the catalog from a local JSON file")
	pf.StringVarP(&flagCatalogURL, "url", "u", "", "Fetch the catalog from this URL")
	pf.BoolVar(&flagJSON, "json", false, "Output as JSON")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log pipeline diagnostics to stderr")

	registerListingFlags(rootCmd.Flags())
	rootCmd.Flags().IntVar(&flagPage, "page", 1, "Page number to show")
	rootCmd.Flags().BoolVar(&flagFacets, "facets", false, "Also show facet counts for the filter options")
}

// Execute runs the root command.
func Execute() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	resetCLIState()

	normalizedArgs, notes := normalizeCLIArgs(args)
	for _, note := range notes {
		fmt.Fprintf(stderr, "note: %s\n", note)
	}

	if len(normalizedArgs) == 0 {
		if err := printQuickStart(stdout, !isTTY(stdout)); err != nil {
			cliErr := classifyCLIError(err)
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
			return cliErr.ExitCode
		}
		return ExitSuccess
	}

	if shouldAutoJSON(normalizedArgs, isTTY(stdout)) {
		normalizedArgs = append(normalizedArgs, "--json")
	}

	setCommandIO(rootCmd, stdout, stderr)
	rootCmd.SetArgs(normalizedArgs)

	if err := rootCmd.Execute(); err != nil {
		cliErr := classifyCLIError(err)
		if hasJSONPreference(normalizedArgs) {
			if jerr := printCLIErrorJSON(stderr, cliErr); jerr != nil {
				fmt.Fprintln(stderr, formatCLIErrorText(classifyCLIError(jerr)))
				return ExitInternal
			}
		} else {
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
		}
		return cliErr.ExitCode
	}
	return ExitSuccess
}

func setCommandIO(cmd *cobra.Command, stdout, stderr io.Writer) {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	for _, child := range cmd.Commands() {
		setCommandIO(child, stdout, stderr)
	}
}

func resetCLIState() {
	flagConfig = ""
	flagCatalogFile = ""
	flagCatalogURL = ""
	flagJSON = false
	flagVerbose = false
	flagQuery = ""
	flagPrice = ""
	flagGenres = nil
	flagTags = nil
	flagSort = ""
	flagPage = 1
	flagPageSize = 0
	flagFacets = false
	flagNoHistory = false
	flagForce = false
	resetFlagState(rootCmd)
}

// resetFlagState clears cobra's per-run flag bookkeeping so runCLI can be
// invoked repeatedly in one process.
func resetFlagState(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Name == "help" {
			_ = f.Value.Set("false")
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlagState(child)
	}
}

func registerListingFlags(f *pflag.FlagSet) {
	f.StringVarP(&flagQuery, "query", "q", "", "Search term matched against titles, tags and aliases")
	f.StringVarP(&flagPrice, "price", "p", "", "Price range id (see `storecli ranges`)")
	f.StringSliceVarP(&flagGenres, "genre", "g", nil, "Genre filter; repeat for any-of matching")
	f.StringSliceVarP(&flagTags, "tag", "t", nil, "Tag filter; repeat to require every tag")
	f.StringVar(&flagSort, "sort", "", "Sort by popularity, price-asc, price-desc, newest or rating")
	f.IntVarP(&flagPageSize, "page-size", "n", 0, "Results per page (0 = config default)")
	f.BoolVar(&flagNoHistory, "no-history", false, "Do not record the search term")
}

func validateSortMode() (catalog.SortKey, error) {
	key, err := catalog.ParseSortKey(flagSort)
	if err != nil {
		return "", invalidArgsError(
			"invalid value for --sort (use popularity, price-asc, price-desc, newest, or rating)",
			"storecli -f catalog.json --sort price-asc",
			"storecli -f catalog.json --sort rating",
		).because(err)
	}
	return key, nil
}

func currentFilterState() catalog.FilterState {
	return catalog.FilterState{
		PriceRangeID: strings.TrimSpace(flagPrice),
		Genres:       append([]string(nil), flagGenres...),
		Tags:         append([]string(nil), flagTags...),
		SearchTerm:   strings.TrimSpace(flagQuery),
	}
}

func validatePriceFlag(ranges []catalog.PriceRange) error {
	if flagPrice == "" {
		return nil
	}
	if _, err := catalog.FindPriceRange(ranges, flagPrice); err != nil {
		ids := make([]string, 0, len(ranges))
		for _, r := range ranges {
			ids = append(ids, r.ID)
		}
		return invalidArgsError(
			fmt.Sprintf("unknown price range %q (use one of: %s)", flagPrice, strings.Join(ids, ", ")),
			"storecli ranges -f catalog.json",
		).because(err)
	}
	return nil
}

func runResults(cmd *cobra.Command, _ []string) error {
	key, err := validateSortMode()
	if err != nil {
		return err
	}

	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	if err := validatePriceFlag(sess.ranges()); err != nil {
		return err
	}

	items, err := sess.loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	state := currentFilterState()
	res := catalog.GetResults(items, state, key, sess.options())
	sess.recordSearch(state.SearchTerm)

	if len(res.Items) == 0 {
		return notFoundError(
			"no items match your search and filters",
			"Relax filters like --price/--genre/--tag or shorten --query.",
		)
	}

	pageSize := flagPageSize
	if pageSize <= 0 {
		pageSize = sess.cfg.PageSize
	}
	listing := display.Listing{
		Page:       catalog.Paginate(res.Items, flagPage, pageSize),
		State:      state,
		Comparator: res.Comparator,
		Ranges:     sess.ranges(),
	}
	if flagFacets {
		listing.Facets = &res.Facets
	}

	if flagJSON {
		return display.PrintPageJSON(cmd.OutOrStdout(), listing)
	}
	display.PrintPage(cmd.OutOrStdout(), listing)
	return nil
}
