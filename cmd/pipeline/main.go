package main

import (
	"context"
	"flag"

	"github.com/trust-assembly/headline-engine/pipeline"
	"github.com/trust-assembly/headline-engine/scraper"
	"github.com/trust-assembly/headline-engine/store"
	"github.com/trust-assembly/headline-engine/transformer"
	"github.com/trust-assembly/headline-engine/utils"
	"github.com/trust-assembly/headline-engine/utils/dotenv"
	. "github.com/trust-assembly/headline-engine/utils/log"
)

// One-shot pipeline run, for cron jobs and manual backfills.
var (
	scrapeLimit    = flag.Int("scrape_limit", 5, "articles to scrape per enabled site")
	transformLimit = flag.Int("transform_limit", 10, "articles to transform in this run")
	transformOnly  = flag.Bool("transform_only", false, "skip scraping, only transform and deploy")
)

func main() {
	flag.Parse()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		panic(err)
	}
	utils.DatabaseSetupAndMigration(db)

	entityStore := store.NewStore(db)
	coordinator := scraper.NewCoordinator(entityStore, scraper.NewHTMLExtractor(), scraper.NewDiscoverySource())
	engine := transformer.NewEngine(entityStore, transformer.NewCLIProvider())
	fullPipeline := pipeline.NewPipeline(coordinator, engine, entityStore)

	ctx := context.Background()
	var result *pipeline.Result
	if *transformOnly {
		result, err = fullPipeline.RunTransformOnly(ctx, *transformLimit)
	} else {
		result, err = fullPipeline.RunFull(ctx, *scrapeLimit, *transformLimit)
	}
	if err != nil {
		Log.Fatalf("pipeline run failed: %v", err)
	}
	Log.Infof("pipeline run complete: %+v", result.Counts())
}
