package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/storefront-catalog/internal/catalog"
	"github.com/tayloree/storefront-catalog/internal/config"
)

const testCatalogJSON = `{
  "items": [
    {"id": "1", "title": "Dark Souls", "price": 39.99, "genres": ["RPG", "Action"], "tags": ["souls-like", "hard"], "rating": 4.8, "releaseDate": "2011-09-22", "popularity": 90},
    {"id": "2", "title": "Stardew Valley", "price": 14.99, "genres": ["Simulation"], "tags": ["farming", "co-op"], "rating": 4.9, "releaseDate": "2016-02-26", "popularity": 95},
    {"id": "3", "title": "Elden Ring", "price": 59.99, "genres": ["RPG"], "tags": ["souls-like", "open-world"], "rating": 4.7, "releaseDate": "2022-02-25", "popularity": 99},
    {"id": "4", "title": "Doki Doki Literature Club", "price": 0, "genres": ["Visual Novel"], "tags": ["psychological"], "rating": 4.2, "popularity": 40}
  ]
}`

// isolateCLI points config and history at a temp dir and writes a catalog.
func isolateCLI(t *testing.T) (catalogPath, configPath string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	catalogPath = filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalogJSON), 0o644))
	configPath = filepath.Join(dir, "config.yaml")
	historyPath := filepath.Join(dir, "history.json")
	require.NoError(t, os.WriteFile(configPath, []byte("history_path: "+historyPath+"\n"), 0o644))
	return catalogPath, configPath
}

func TestRunCLI_CompletionZsh(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"completion", "zsh"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "#compdef storecli")
	assert.Empty(t, stderr.String())
}

func TestRunCLI_HelpFacets(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"help", "facets"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "storecli facets [flags]")
	assert.Empty(t, stderr.String())
}

func TestRunCLI_TolerantRewriteWithoutLoadingCatalog(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"facets", "-query", "dark", "--help"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "storecli facets [flags]")
	assert.Contains(t, stderr.String(), "interpreted `-query` as `--query`")
}

func TestRunCLI_DoubleDashBoundary(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"facets", "--", "query", "dark", "--help"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "storecli facets [flags]")
	assert.False(t, strings.Contains(stderr.String(), "interpreted `query` as `--query`"))
}

func TestRunCLI_SearchJSON(t *testing.T) {
	catalogPath, configPath := isolateCLI(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"--config", configPath, "--catalog", catalogPath, "--query", "souls", "--json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var page struct {
		Items []struct {
			ID         string   `json:"id"`
			MatchScore *float64 `json:"matchScore"`
		} `json:"items"`
		Total    int    `json:"total"`
		SortedBy string `json:"sortedBy"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &page))
	require.NotEmpty(t, page.Items)
	assert.Equal(t, "1", page.Items[0].ID)
	require.NotNil(t, page.Items[0].MatchScore)
	assert.Equal(t, 80.0, *page.Items[0].MatchScore)
	assert.Equal(t, "relevance", page.SortedBy)
}

func TestRunCLI_FilterAndSortJSON(t *testing.T) {
	catalogPath, configPath := isolateCLI(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{
		"--config", configPath, "-f", catalogPath,
		"-g", "rpg", "-t", "souls", "--sort", "price-desc", "--json",
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var page struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &page))
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "3", page.Items[0].ID)
	assert.Equal(t, "1", page.Items[1].ID)
}

func TestRunCLI_NoMatchesIsNotFound(t *testing.T) {
	catalogPath, configPath := isolateCLI(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"--config", configPath, "-f", catalogPath, "--genre", "racing"}, &stdout, &stderr)

	assert.Equal(t, ExitNotFound, code)
	assert.Contains(t, stderr.String(), "NOT_FOUND")
}

func TestRunCLI_UnknownPriceRangeIsInvalidArgs(t *testing.T) {
	catalogPath, configPath := isolateCLI(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"--config", configPath, "-f", catalogPath, "--price", "cheap"}, &stdout, &stderr)

	assert.Equal(t, ExitInvalidArgs, code)
	assert.Contains(t, stderr.String(), "under-50")
}

func TestRunCLI_MissingCatalogSource(t *testing.T) {
	_, configPath := isolateCLI(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"--config", configPath, "facets"}, &stdout, &stderr)

	assert.Equal(t, ExitInvalidArgs, code)
	assert.Contains(t, stderr.String(), "no catalog source configured")
}

func TestRunCLI_FacetsJSON(t *testing.T) {
	catalogPath, configPath := isolateCLI(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"facets", "--config", configPath, "-f", catalogPath, "--json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var counts struct {
		PriceRanges map[string]int `json:"priceRanges"`
		Genres      map[string]int `json:"genres"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &counts))
	assert.Equal(t, 1, counts.PriceRanges["free"])
	assert.Equal(t, 3, counts.PriceRanges["under-50"])
	assert.Equal(t, 2, counts.Genres["rpg"])
}

func TestRunCLI_RangesJSON(t *testing.T) {
	catalogPath, configPath := isolateCLI(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"ranges", "--config", configPath, "-f", catalogPath, "--genre", "rpg", "--json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var rows []struct {
		ID       string `json:"id"`
		Count    int    `json:"count"`
		TopTitle string `json:"topTitle"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rows))
	require.Len(t, rows, 5)
	byID := map[string]int{}
	for _, r := range rows {
		byID[r.ID] = r.Count
	}
	assert.Equal(t, 1, byID["under-50"])
	assert.Equal(t, 1, byID["50-100"])
	assert.Equal(t, 0, byID["free"])
}

func TestRunCLI_HistoryRecordsSearches(t *testing.T) {
	catalogPath, configPath := isolateCLI(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	require.Equal(t, 0, runCLI([]string{"--config", configPath, "-f", catalogPath, "-q", "elden", "--json"}, &stdout, &stderr), stderr.String())
	require.Equal(t, 0, runCLI([]string{"--config", configPath, "-f", catalogPath, "-q", "stardew", "--json"}, &stdout, &stderr), stderr.String())

	stdout.Reset()
	code := runCLI([]string{"history", "--config", configPath, "--json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var terms []string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &terms))
	assert.Equal(t, []string{"stardew", "elden"}, terms)

	stdout.Reset()
	require.Equal(t, 0, runCLI([]string{"history", "clear", "--config", configPath, "--json"}, &stdout, &stderr))
	stdout.Reset()
	require.Equal(t, 0, runCLI([]string{"history", "--config", configPath, "--json"}, &stdout, &stderr))
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &terms))
	assert.Empty(t, terms)
}

func TestRunCLI_CorruptHistoryStillSearchesButHistoryFails(t *testing.T) {
	catalogPath, configPath := isolateCLI(t)
	historyPath := filepath.Join(filepath.Dir(configPath), "history.json")
	require.NoError(t, os.WriteFile(historyPath, []byte(`{"search-history":"oops"}`), 0o600))
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"--config", configPath, "-f", catalogPath, "-q", "elden", "--json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	stderr.Reset()
	code = runCLI([]string{"history", "--config", configPath, "--json"}, &stdout, &stderr)
	assert.Equal(t, ExitInternal, code)
	assert.Contains(t, stderr.String(), "corrupt search history")
	assert.Contains(t, stderr.String(), "storecli history clear")

	require.Equal(t, 0, runCLI([]string{"history", "clear", "--config", configPath, "--json"}, &stdout, &stderr))
	require.Equal(t, 0, runCLI([]string{"history", "--config", configPath, "--json"}, &stdout, &stderr))
}

func TestRunCLI_ConfigInitWritesLoadableDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "nested", "storecli.yaml")
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"config", "init", "--config", path, "-f", "/srv/catalog.json", "--json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var out map[string]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, path, out["path"])

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/catalog.json", cfg.CatalogFile)
	assert.Equal(t, catalog.DefaultPriceRanges(), cfg.Ranges())

	stderr.Reset()
	code = runCLI([]string{"config", "init", "--config", path}, &stdout, &stderr)
	assert.Equal(t, ExitInvalidArgs, code)
	assert.Contains(t, stderr.String(), "already exists")

	code = runCLI([]string{"config", "init", "--config", path, "--force", "--json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.CatalogFile)
}
