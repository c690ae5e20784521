package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tayloree/storefront-catalog/internal/api"
	"github.com/tayloree/storefront-catalog/internal/catalog"
	"github.com/tayloree/storefront-catalog/internal/config"
	"github.com/tayloree/storefront-catalog/internal/history"
	"github.com/tayloree/storefront-catalog/internal/logging"
	"go.uber.org/zap"
)

// session bundles what every command needs: resolved config, a logger and
// the catalog source.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newSession(cmd *cobra.Command) (*session, error) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, invalidArgsError(
			err.Error(),
			"Fix the config file or point --config at another one.",
		).because(err)
	}

	level := cfg.LogLevel
	if flagVerbose {
		level = "debug"
	}
	logger, err := logging.New(level, cmd.ErrOrStderr())
	if err != nil {
		return nil, invalidArgsError(err.Error(), "Set log_level to debug, info, warn or error.").because(err)
	}
	return &session{cfg: cfg, logger: logger}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func (s *session) ranges() []catalog.PriceRange {
	return s.cfg.Ranges()
}

func (s *session) options() catalog.Options {
	return catalog.Options{Logger: s.logger, PriceRanges: s.ranges()}
}

// catalogSource reports where the catalog will be read from. Flags win over
// config, and a file wins over a URL.
func (s *session) catalogSource() (file, url string) {
	file = firstNonEmpty(flagCatalogFile, s.cfg.CatalogFile)
	if file != "" {
		return file, ""
	}
	return "", firstNonEmpty(flagCatalogURL, s.cfg.CatalogURL)
}

func (s *session) loadCatalog(ctx context.Context) ([]catalog.Item, error) {
	file, url := s.catalogSource()

	var (
		resp   *api.CatalogResponse
		err    error
		source string
	)
	switch {
	case file != "":
		source = file
		resp, err = api.LoadCatalogFile(file)
		if err != nil {
			return nil, invalidArgsError(err.Error(), "Check the path passed to --catalog.").because(err)
		}
	case url != "":
		source = url
		resp, err = api.NewClient(url).FetchCatalog(ctx)
		if err != nil {
			return nil, upstreamError("fetching catalog", err)
		}
	default:
		return nil, invalidArgsError(
			"no catalog source configured (use --catalog FILE or --url URL)",
			"storecli --catalog catalog.json",
			"storecli --url https://shop.example/catalog.json",
		)
	}

	items := api.ToCatalog(resp.Items)
	if len(items) == 0 {
		return nil, notFoundError(
			fmt.Sprintf("catalog from %s is empty", source),
			"Point --catalog or --url at a non-empty catalog.",
		)
	}
	s.logger.Debug("catalog loaded", zap.String("source", source), zap.Int("items", len(items)))
	return items, nil
}

func (s *session) recorder() *history.Recorder {
	return history.NewRecorder(history.NewFileStore(s.cfg.HistoryPath), s.cfg.HistoryLimit)
}

// recordSearch stores a non-blank term. History is best effort; failures are
// logged and never fail the command.
func (s *session) recordSearch(term string) {
	if flagNoHistory || term == "" {
		return
	}
	if err := s.recorder().Record(term); err != nil {
		s.logger.Warn("recording search history", zap.String("term", term), zap.Error(err))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
