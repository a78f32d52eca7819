package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recto-project/recto/internal/config"
	"github.com/recto-project/recto/internal/iiif"
	"github.com/recto-project/recto/internal/presentation"
	"github.com/recto-project/recto/internal/query"
	"github.com/recto-project/recto/internal/repo"
	"github.com/recto-project/recto/internal/source"
	"github.com/recto-project/recto/internal/web/router"
	"github.com/recto-project/recto/internal/web/server"
)

var serveDebug bool

func init() {
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable development logging")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the IIIF Presentation API server",
	Long:  "Load recto.yml and the queries file, then serve manifests until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(serveDebug)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		spec, err := config.LoadQueries(cfg.Solr.Queries)
		if err != nil {
			return fmt.Errorf("failed to load queries: %w", err)
		}

		pres := buildPresentation(cfg, spec, logger)

		handler := router.New(router.Config{
			Presentation:   pres,
			Logger:         logger,
			Version:        Version,
			RequestTimeout: cfg.Server.RequestTimeout,
		})

		serverConfig := server.DefaultConfig(handler)
		serverConfig.Address = cfg.Server.Address()
		serverConfig.ReadTimeout = cfg.Server.ReadTimeout
		serverConfig.WriteTimeout = cfg.Server.WriteTimeout

		srv, err := server.New(serverConfig)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		shutdown := server.NewGracefulShutdown(srv, &server.ShutdownConfig{
			Timeout: cfg.Server.ShutdownTimeout,
			Logger:  logger,
		})
		return shutdown.Start()
	},
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildPresentation wires the query engine, search index, identifier
// translator, and image service into the presentation context.
func buildPresentation(cfg *config.Config, spec *source.QuerySpec, logger *zap.Logger) *presentation.Context {
	engine := query.NewEngine()

	solr := source.NewSolrService(source.SolrConfig{
		Endpoint:  cfg.Solr.Endpoint,
		Spec:      spec,
		TextField: cfg.Solr.TextField,
		URIField:  cfg.Solr.URIField,
		Engine:    engine,
		Logger:    logger,
	})

	return &presentation.Context{
		Translator: &repo.Translator{
			Endpoint: cfg.Repository.Endpoint,
			Prefix:   cfg.Repository.Prefix,
			PathSep:  cfg.Repository.PathSep,
		},
		Repo:   solr,
		Search: solr,
		Images: &iiif.HTTPInfoService{
			Endpoint: cfg.Image.Endpoint,
			Logger:   logger,
		},
		BaseURL:        cfg.IIIF.BaseURL,
		LogoURL:        cfg.IIIF.LogoURL,
		ThumbnailWidth: cfg.IIIF.ThumbnailWidth,
		Logger:         logger,
	}
}
