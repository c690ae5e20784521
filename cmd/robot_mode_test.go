package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/storefront-catalog/internal/api"
	"github.com/tayloree/storefront-catalog/internal/catalog"
	"github.com/tayloree/storefront-catalog/internal/history"
)

func TestShouldAutoJSON(t *testing.T) {
	assert.True(t, shouldAutoJSON([]string{"facets", "--catalog", "c.json"}, false))
	assert.False(t, shouldAutoJSON([]string{"facets", "--catalog", "c.json", "--json"}, false))
	assert.False(t, shouldAutoJSON([]string{"completion", "zsh"}, false))
	assert.False(t, shouldAutoJSON([]string{"--help"}, false))
	assert.False(t, shouldAutoJSON([]string{"facets", "--catalog", "c.json"}, true))
}

func TestFirstCommand_SkipsFlagValues(t *testing.T) {
	assert.Equal(t, "ranges", firstCommand([]string{"--catalog", "c.json", "ranges"}))
	assert.Equal(t, "history", firstCommand([]string{"-f", "c.json", "-v", "history"}))
	assert.Equal(t, "", firstCommand([]string{"-q", "tui"}))
}

func TestPrintQuickStart_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := printQuickStart(&buf, true)
	require.NoError(t, err)

	var payload quickStartJSON
	err = json.Unmarshal(buf.Bytes(), &payload)
	require.NoError(t, err)

	assert.Equal(t, "storecli", payload.Name)
	assert.NotEmpty(t, payload.Usage)
	assert.Len(t, payload.Examples, 3)
}

func TestPrintCLIErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	err := printCLIErrorJSON(&buf, classifyCLIError(invalidArgsError("bad flag", "storecli --catalog catalog.json")))
	require.NoError(t, err)

	var payload map[string]any
	err = json.Unmarshal(buf.Bytes(), &payload)
	require.NoError(t, err)

	errorObject, ok := payload["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "INVALID_ARGS", errorObject["code"])
	assert.Equal(t, "bad flag", errorObject["message"])
}

func TestClassifyCLIError_MatchesWrappedSentinels(t *testing.T) {
	_, rangeErr := catalog.FindPriceRange(catalog.DefaultPriceRanges(), "cheap")
	_, sortErr := catalog.ParseSortKey("alphabetical")
	_, itemErr := catalog.Evaluate(catalog.Item{ID: "x"}, "hades")

	tests := []struct {
		name string
		err  error
		code string
		exit int
	}{
		{"price range", fmt.Errorf("resolving price filter: %w", rangeErr), "INVALID_ARGS", ExitInvalidArgs},
		{"sort key", sortErr, "INVALID_ARGS", ExitInvalidArgs},
		{"malformed item", itemErr, "UPSTREAM_ERROR", ExitUpstream},
		{"status", fmt.Errorf("fetching catalog: %w", fmt.Errorf("%w 502", api.ErrUnexpectedStatus)), "UPSTREAM_ERROR", ExitUpstream},
		{"payload", fmt.Errorf("fetching catalog: %w", api.ErrInvalidPayload), "UPSTREAM_ERROR", ExitUpstream},
		{"transport", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("refused")}, "UPSTREAM_ERROR", ExitUpstream},
		{"timeout", fmt.Errorf("fetching catalog: %w", context.DeadlineExceeded), "UPSTREAM_ERROR", ExitUpstream},
		{"history", fmt.Errorf("%w: bad", history.ErrCorrupt), "INTERNAL_ERROR", ExitInternal},
		{"unknown", errors.New("boom"), "INTERNAL_ERROR", ExitInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyCLIError(tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.exit, got.ExitCode)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyCLIError_MessageTextAloneIsInternal(t *testing.T) {
	got := classifyCLIError(errors.New("no items match: unexpected status from fetching catalog"))
	assert.Equal(t, "INTERNAL_ERROR", got.Code)
}

func TestClassifyCLIError_FlagParseErrors(t *testing.T) {
	parse := func(args ...string) error {
		fs := pflag.NewFlagSet("storecli", pflag.ContinueOnError)
		fs.SetOutput(io.Discard)
		fs.String("query", "", "")
		return fs.Parse(args)
	}

	unknown := classifyCLIError(parse("--qurey", "hades"))
	assert.Equal(t, "INVALID_ARGS", unknown.Code)
	assert.Contains(t, unknown.Suggestions, "Try `--query`.")

	missing := classifyCLIError(parse("--query"))
	assert.Equal(t, "INVALID_ARGS", missing.Code)
	assert.Equal(t, ExitInvalidArgs, missing.ExitCode)
}

func TestClassifyCLIError_KeepsTypedCause(t *testing.T) {
	flagSort = "alphabetical"
	t.Cleanup(func() { flagSort = "" })

	_, err := validateSortMode()

	got := classifyCLIError(err)
	assert.Equal(t, "INVALID_ARGS", got.Code)
	assert.ErrorIs(t, got, catalog.ErrUnknownSortKey)
}
