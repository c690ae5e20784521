package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tayloree/storefront-catalog/internal/display"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent search terms",
	Example: `  storecli history
  storecli history --json
  storecli history clear`,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recorded search terms",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	terms, err := sess.recorder().Terms()
	if err != nil {
		return fmt.Errorf("reading search history %s: %w", sess.cfg.HistoryPath, err)
	}

	if flagJSON {
		return display.PrintHistoryJSON(cmd.OutOrStdout(), terms)
	}
	display.PrintHistory(cmd.OutOrStdout(), terms)
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	if err := sess.recorder().Clear(); err != nil {
		return err
	}
	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]bool{"cleared": true})
	}
	cmd.Println("Search history cleared.")
	return nil
}
