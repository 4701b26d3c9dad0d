package main

import (
	"os"

	"github.com/trust-assembly/headline-engine/pipeline"
	"github.com/trust-assembly/headline-engine/scheduler"
	"github.com/trust-assembly/headline-engine/scraper"
	"github.com/trust-assembly/headline-engine/seed"
	"github.com/trust-assembly/headline-engine/server"
	"github.com/trust-assembly/headline-engine/server/auth"
	"github.com/trust-assembly/headline-engine/server/middlewares"
	"github.com/trust-assembly/headline-engine/store"
	"github.com/trust-assembly/headline-engine/transformer"
	"github.com/trust-assembly/headline-engine/utils"
	"github.com/trust-assembly/headline-engine/utils/dotenv"
	. "github.com/trust-assembly/headline-engine/utils/flag"
	. "github.com/trust-assembly/headline-engine/utils/log"

	"github.com/gin-gonic/gin"
)

func main() {
	ParseFlags()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	if !IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		panic(err)
	}
	utils.DatabaseSetupAndMigration(db)

	entityStore := store.NewStore(db)
	if seedPath := os.Getenv("SEED_CONFIG_PATH"); seedPath != "" {
		if err := seed.FromFile(entityStore, seedPath); err != nil {
			Log.Errorf("seeding failed: %v", err)
		}
	}

	extractor := scraper.NewHTMLExtractor()
	provider := transformer.NewCLIProvider()
	coordinator := scraper.NewCoordinator(entityStore, extractor, scraper.NewDiscoverySource())
	engine := transformer.NewEngine(entityStore, provider)
	fullPipeline := pipeline.NewPipeline(coordinator, engine, entityStore)
	pipelineScheduler := scheduler.NewScheduler(fullPipeline, scheduler.DefaultConfig())

	middlewares.Setup(auth.NewGoogleVerifier(os.Getenv("GOOGLE_OAUTH_AUDIENCE")), entityStore)

	router := server.NewRouter(&server.Handlers{
		Store:     entityStore,
		Scraper:   coordinator,
		Engine:    engine,
		Pipeline:  fullPipeline,
		Scheduler: pipelineScheduler,
		Extractor: extractor,
		Provider:  provider,
	})

	Log.Info("api server starts up")
	router.Run(":8080")
}
