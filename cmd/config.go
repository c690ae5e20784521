package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/tayloree/storefront-catalog/internal/catalog"
	"github.com/tayloree/storefront-catalog/internal/config"
)

var flagForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the storecli config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Long: "Writes the defaults and the built-in price ranges to --config (or the default\n" +
		"location), ready to edit. --catalog and --url are stored as the catalog source.\n" +
		"An existing file is kept unless --force is given.",
	Example: `  storecli config init
  storecli config init --catalog ~/games/catalog.json
  storecli config init --config ./storecli.yaml --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := firstNonEmpty(flagConfig, config.DefaultPath())
	if _, err := os.Stat(path); err == nil && !flagForce {
		return invalidArgsError(
			fmt.Sprintf("config %s already exists", path),
			"storecli config init --force",
		)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.DefaultConfig()
	cfg.CatalogFile = flagCatalogFile
	cfg.CatalogURL = flagCatalogURL
	cfg.SetRanges(catalog.DefaultPriceRanges())
	if err := cfg.Save(path); err != nil {
		return err
	}

	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"path": path})
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}
