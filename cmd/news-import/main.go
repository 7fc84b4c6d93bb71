// Command news-import runs the scrape-then-import pipeline from the
// terminal. By default it prints the scraped articles as JSON; with -import
// it persists everything it scraped.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ponunion/cms/config"
	"github.com/ponunion/cms/importer"
	"github.com/ponunion/cms/logger"
	"github.com/ponunion/cms/newsstore"
	"github.com/ponunion/cms/scraper"
)

func main() {
	doImport := flag.Bool("import", false, "import the scraped articles instead of printing them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg := logger.New("news-import", cfg.LogLevel)

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
	ctx := context.Background()

	articles, err := svc.Scrape(ctx)
	if err != nil {
		log.Fatalf("Scrape failed: %v", err)
	}

	if !*doImport {
		out, err := json.MarshalIndent(articles, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode articles: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	result, err := svc.Import(ctx, articles)
	if errors.Is(err, importer.ErrEmptyBatch) {
		fmt.Println(result.Message)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Println(result.Message)
}
