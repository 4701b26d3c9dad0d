// Package server exposes the headline replacement engine over HTTP. Routes
// are JSON in/out; automation routes always carry {"success": ...}, error
// bodies are {"error": string} with 400/401/404/500 statuses.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/trust-assembly/headline-engine/pipeline"
	"github.com/trust-assembly/headline-engine/scheduler"
	"github.com/trust-assembly/headline-engine/scraper"
	"github.com/trust-assembly/headline-engine/server/middlewares"
	"github.com/trust-assembly/headline-engine/store"
	"github.com/trust-assembly/headline-engine/transformer"
)

// Handlers bundles everything the HTTP surface needs. Each request acquires
// nothing beyond these long-lived collaborators; per-request state lives in
// the gin context.
type Handlers struct {
	Store     *store.Store
	Scraper   *scraper.Coordinator
	Engine    *transformer.Engine
	Pipeline  *pipeline.Pipeline
	Scheduler *scheduler.Scheduler
	Extractor scraper.Extractor
	Provider  transformer.Provider
}

// NewRouter wires every route onto a gin engine with CORS defaults.
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.Default()
	// Article URLs arrive percent-encoded as a single path segment; match on
	// the raw path and leave unescaping to the handlers, otherwise the decoded
	// slashes split the param across segments and the route never matches.
	router.UseRawPath = true
	router.UnescapePathValues = false
	router.Use(cors.Default())

	automation := router.Group("/automation")
	{
		automation.POST("/scrape", h.ScrapeHandler)
		automation.POST("/transform", h.TransformHandler)
		automation.POST("/full-pipeline", h.FullPipelineHandler)
		automation.GET("/replacements/:url", h.ReplacementsHandler)
		automation.GET("/status", h.StatusHandler)
		automation.GET("/sites", h.SitesHandler)
		automation.GET("/creators", h.CreatorsHandler)

		automation.GET("/schedule/status", h.ScheduleStatusHandler)
		automation.POST("/schedule/start", h.ScheduleStartHandler)
		automation.POST("/schedule/stop", h.ScheduleStopHandler)
		automation.POST("/schedule/config", h.ScheduleConfigHandler)
		automation.GET("/schedule/logs", h.ScheduleLogsHandler)
	}

	router.GET("/headline", h.TransformedHeadlineHandler)
	router.GET("/parsedArticle", h.ParsedArticleHandler)
	router.POST("/headlines", h.CreatorEditsHandler)

	router.GET("/replacements", h.ListReplacementsHandler)
	router.POST("/replacements", middlewares.Identity(), h.SubmitReplacementHandler)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.LoginHandler)
		authGroup.POST("/register", h.RegisterHandler)
		authGroup.GET("/me", middlewares.Identity(), h.MeHandler)
	}

	return router
}
