package main

import (
	"log"

	"github.com/ponunion/cms/api"
	"github.com/ponunion/cms/config"
	"github.com/ponunion/cms/importer"
	"github.com/ponunion/cms/logger"
	"github.com/ponunion/cms/newsstore"
	"github.com/ponunion/cms/scraper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg := logger.New("cms-server", cfg.LogLevel)

	store, err := newsstore.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open news store: %v", err)
	}
	defer store.Close()

	client, err := scraper.NewClient(cfg.SourceURL, cfg.UserAgent)
	if err != nil {
		log.Fatalf("Failed to create scraper: %v", err)
	}

	svc := importer.NewService(client, store, logg)
	server := api.NewServer(svc, store, cfg.CORSOrigin, logg)

	logg.Info("starting server", "addr", cfg.Addr, "source", cfg.SourceURL)
	if err := server.Router().Run(cfg.Addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
