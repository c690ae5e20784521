package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tayloree/storefront-catalog/internal/catalog"
	"github.com/tayloree/storefront-catalog/internal/display"
	"golang.org/x/term"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the catalog interactively in the terminal",
	Example: `  storecli tui --catalog catalog.json
  storecli tui -f catalog.json --genre rpg --sort rating
  storecli tui --url https://shop.example/catalog.json --query souls`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	registerListingFlags(tuiCmd.Flags())
}

func runTUI(cmd *cobra.Command, _ []string) error {
	key, err := validateSortMode()
	if err != nil {
		return err
	}
	if !flagJSON && !isInteractiveSession(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return invalidArgsError(
			"`storecli tui` requires an interactive terminal",
			"Use `storecli --catalog catalog.json --json` in pipelines.",
		)
	}

	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	if err := validatePriceFlag(sess.ranges()); err != nil {
		return err
	}
	state := currentFilterState()

	if flagJSON {
		items, err := sess.loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		res := catalog.GetResults(items, state, key, sess.options())
		return display.PrintPageJSON(cmd.OutOrStdout(), display.Listing{
			Page:       catalog.Paginate(res.Items, 1, 0),
			State:      state,
			Comparator: res.Comparator,
		})
	}

	model := newLoadingCatalogTUIModel(tuiLoadConfig{
		ctx:          cmd.Context(),
		opts:         sess.options(),
		load:         sess.loadCatalog,
		initialState: state,
		initialSort:  key,
	})

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("running tui: %w", err)
	}

	final, ok := finalModel.(catalogTUIModel)
	if !ok {
		return nil
	}
	if final.fatalErr != nil {
		return final.fatalErr
	}
	sess.recordSearch(final.state.SearchTerm)
	return nil
}

// tuiLoader fetches the catalog for the browser.
type tuiLoader func(ctx context.Context) ([]catalog.Item, error)

func isInteractiveSession(stdin io.Reader, stdout io.Writer) bool {
	inputFile, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(inputFile.Fd())) {
		return false
	}
	return isTTY(stdout)
}
