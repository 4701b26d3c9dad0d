package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/trust-assembly/headline-engine/model"
	"github.com/trust-assembly/headline-engine/scheduler"
	Logger "github.com/trust-assembly/headline-engine/utils/log"
)

type scrapeRequest struct {
	Url   string `json:"url"`
	Limit int    `json:"limit"`
}

// ScrapeHandler scrapes a single URL when one is supplied, otherwise runs
// the batch scrape across every enabled site.
func (h *Handlers) ScrapeHandler(c *gin.Context) {
	req := scrapeRequest{Limit: 5}
	// An empty body is fine, defaults apply.
	c.ShouldBindJSON(&req)

	var articleIDs []string
	var err error
	if req.Url != "" {
		var id string
		id, err = h.Scraper.ScrapeAndSave(c.Request.Context(), req.Url, nil)
		if id != "" {
			articleIDs = []string{id}
		}
	} else {
		articleIDs, err = h.Scraper.ScrapeLatestArticles(c.Request.Context(), req.Limit)
	}

	if err != nil {
		Logger.Log.Errorf("scraping error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to scrape articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    fmt.Sprintf("Scraped %d articles", len(articleIDs)),
		"articleIds": emptyIfNil(articleIDs),
	})
}

type transformRequest struct {
	MaxArticles int `json:"maxArticles"`
}

// TransformHandler transforms pending articles and auto-deploys whatever was
// generated.
func (h *Handlers) TransformHandler(c *gin.Context) {
	req := transformRequest{MaxArticles: 5}
	c.ShouldBindJSON(&req)

	transformationIDs, err := h.Engine.ProcessArticlesForTransformation(c.Request.Context(), req.MaxArticles)
	if err != nil {
		Logger.Log.Errorf("transformation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to transform headlines"})
		return
	}
	deploymentIDs := h.Engine.DeployTransformations(transformationIDs)

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"message":           fmt.Sprintf("Transformed %d headlines and deployed %d replacements", len(transformationIDs), len(deploymentIDs)),
		"transformationIds": emptyIfNil(transformationIDs),
		"deploymentIds":     emptyIfNil(deploymentIDs),
	})
}

type fullPipelineRequest struct {
	ScrapeLimit    int `json:"scrapeLimit"`
	TransformLimit int `json:"transformLimit"`
}

// FullPipelineHandler runs scrape, transform and deploy sequentially in one
// request.
func (h *Handlers) FullPipelineHandler(c *gin.Context) {
	req := fullPipelineRequest{ScrapeLimit: 3, TransformLimit: 5}
	c.ShouldBindJSON(&req)

	result, err := h.Pipeline.RunFull(c.Request.Context(), req.ScrapeLimit, req.TransformLimit)
	if err != nil {
		Logger.Log.Errorf("pipeline error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Full pipeline failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Full pipeline completed successfully",
		"pipeline_results": gin.H{
			"scraped_articles":          len(result.ArticleIDs),
			"generated_transformations": len(result.TransformationIDs),
			"deployed_replacements":     len(result.DeploymentIDs),
		},
		"article_ids":        emptyIfNil(result.ArticleIDs),
		"transformation_ids": emptyIfNil(result.TransformationIDs),
		"deployment_ids":     emptyIfNil(result.DeploymentIDs),
	})
}

// ReplacementsHandler answers "what active replacements exist for this URL",
// highest confidence first.
func (h *Handlers) ReplacementsHandler(c *gin.Context) {
	rawURL, err := url.QueryUnescape(c.Param("url"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid url parameter"})
		return
	}

	replacements, err := h.Engine.GetActiveReplacements(rawURL)
	if err != nil {
		Logger.Log.Errorf("get replacements error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get replacements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"url":          rawURL,
		"replacements": replacements,
	})
}

// StatusHandler reports entity counts across the whole pipeline.
func (h *Handlers) StatusHandler(c *gin.Context) {
	status, err := h.Store.GetSystemStatus()
	if err != nil {
		Logger.Log.Errorf("status error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "system_status": status})
}

type siteView struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	BaseUrl   string    `json:"base_url"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// SitesHandler lists every configured site.
func (h *Handlers) SitesHandler(c *gin.Context) {
	sites, err := h.Store.AllSites()
	if err != nil {
		Logger.Log.Errorf("get sites error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get sites"})
		return
	}

	views := make([]siteView, 0, len(sites))
	if err := copier.Copy(&views, &sites); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get sites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sites": views})
}

type creatorView struct {
	Id               string    `json:"id"`
	Name             string    `json:"name"`
	CreatedAt        time.Time `json:"created_at"`
	StyleDescription *string   `json:"style_description"`
	Active           *bool     `json:"active"`
}

// CreatorsHandler lists creators with their prompt metadata, mirroring the
// creators LEFT JOIN creator_prompts admin view.
func (h *Handlers) CreatorsHandler(c *gin.Context) {
	creators, err := h.Store.AllCreators()
	if err != nil {
		Logger.Log.Errorf("get creators error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get creators"})
		return
	}

	views := make([]creatorView, 0, len(creators))
	for _, creator := range creators {
		view := creatorView{Id: creator.Id, Name: creator.Name, CreatedAt: creator.CreatedAt}
		if len(creator.Prompts) > 0 {
			prompt := creator.Prompts[0]
			view.StyleDescription = &prompt.StyleDescription
			view.Active = &prompt.Active
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "creators": views})
}

// ScheduleStatusHandler reports scheduler lifecycle state plus recent
// pipeline statistics.
func (h *Handlers) ScheduleStatusHandler(c *gin.Context) {
	stats, err := h.Store.GetPipelineStats()
	if err != nil {
		Logger.Log.Errorf("schedule status error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get schedule status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"schedule_status": h.Scheduler.GetStatus(),
		"statistics":      stats,
	})
}

func (h *Handlers) ScheduleStartHandler(c *gin.Context) {
	h.Scheduler.Start()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Automated pipeline started"})
}

func (h *Handlers) ScheduleStopHandler(c *gin.Context) {
	h.Scheduler.Stop()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Automated pipeline stopped"})
}

// ScheduleConfigHandler merges the posted fields into the schedule config,
// restarting a running scheduler so new intervals apply.
func (h *Handlers) ScheduleConfigHandler(c *gin.Context) {
	var update struct {
		ScrapeIntervalMinutes    int `json:"scrape_interval_minutes"`
		TransformIntervalMinutes int `json:"transform_interval_minutes"`
		MaxArticlesPerScrape     int `json:"max_articles_per_scrape"`
		MaxArticlesPerTransform  int `json:"max_articles_per_transform"`
	}
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid configuration body"})
		return
	}

	newConfig := h.Scheduler.UpdateConfig(scheduler.Config{
		ScrapeIntervalMinutes:    update.ScrapeIntervalMinutes,
		TransformIntervalMinutes: update.TransformIntervalMinutes,
		MaxArticlesPerScrape:     update.MaxArticlesPerScrape,
		MaxArticlesPerTransform:  update.MaxArticlesPerTransform,
	})
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Configuration updated",
		"new_config": newConfig,
	})
}

// ScheduleLogsHandler returns recent pipeline run records.
func (h *Handlers) ScheduleLogsHandler(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	logs, err := h.Store.GetPipelineLogs(limit)
	if err != nil {
		Logger.Log.Errorf("schedule logs error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get logs"})
		return
	}
	if logs == nil {
		logs = []model.PipelineLog{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logs": logs})
}

// emptyIfNil keeps JSON arrays as [] instead of null.
func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
