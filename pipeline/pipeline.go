// Package pipeline sequences the scrape, transform and deploy steps into one
// logical run. Steps are awaited in order; nothing is parallelized across
// articles or creators because the inter-call delays are part of the
// contract with external sites and providers.
package pipeline

import (
	"context"
	"time"

	"github.com/trust-assembly/headline-engine/model"
	Logger "github.com/trust-assembly/headline-engine/utils/log"
)

// Scraper is the scraping step as seen by the pipeline.
type Scraper interface {
	ScrapeLatestArticles(ctx context.Context, limit int) ([]string, error)
}

// Engine is the transformation/deployment step as seen by the pipeline.
type Engine interface {
	ProcessArticlesForTransformation(ctx context.Context, maxArticles int) ([]string, error)
	DeployTransformations(transformationIDs []string) []string
}

// LogStore records pipeline runs, best-effort.
type LogStore interface {
	InsertPipelineLog(pipelineType string, results interface{}, status string) error
}

// Result carries the ids produced by each step of a run.
type Result struct {
	ArticleIDs        []string `json:"article_ids"`
	TransformationIDs []string `json:"transformation_ids"`
	DeploymentIDs     []string `json:"deployment_ids"`
}

// Counts summarizes a run for logging and responses.
func (r *Result) Counts() map[string]interface{} {
	return map[string]interface{}{
		"timestamp":                 time.Now().Format(time.RFC3339),
		"scraped_articles":          len(r.ArticleIDs),
		"generated_transformations": len(r.TransformationIDs),
		"deployed_replacements":     len(r.DeploymentIDs),
	}
}

// Pipeline bundles the steps with best-effort run logging.
type Pipeline struct {
	scraper Scraper
	engine  Engine
	logs    LogStore
}

func NewPipeline(scraper Scraper, engine Engine, logs LogStore) *Pipeline {
	return &Pipeline{scraper: scraper, engine: engine, logs: logs}
}

// RunFull executes scrape -> transform -> deploy sequentially. The run's
// outcome is recorded in pipeline_logs; logging failure never fails the run.
func (p *Pipeline) RunFull(ctx context.Context, scrapeLimit int, transformLimit int) (*Result, error) {
	Logger.Log.Info("running full automation pipeline")
	result := &Result{}

	Logger.Log.Info("step 1: scraping articles")
	articleIDs, err := p.scraper.ScrapeLatestArticles(ctx, scrapeLimit)
	if err != nil {
		p.logError(model.PipelineTypeFull, err)
		return nil, err
	}
	result.ArticleIDs = articleIDs

	Logger.Log.Info("step 2: transforming headlines")
	transformationIDs, err := p.engine.ProcessArticlesForTransformation(ctx, transformLimit)
	if err != nil {
		p.logError(model.PipelineTypeFull, err)
		return nil, err
	}
	result.TransformationIDs = transformationIDs

	Logger.Log.Info("step 3: deploying replacements")
	result.DeploymentIDs = p.engine.DeployTransformations(transformationIDs)

	p.logSuccess(model.PipelineTypeFull, result)
	Logger.Log.Infof("pipeline completed: %d scraped, %d transformed, %d deployed",
		len(result.ArticleIDs), len(result.TransformationIDs), len(result.DeploymentIDs))
	return result, nil
}

// RunTransformOnly executes transform -> deploy without scraping, for the
// more frequent transformation-only schedule.
func (p *Pipeline) RunTransformOnly(ctx context.Context, maxArticles int) (*Result, error) {
	transformationIDs, err := p.engine.ProcessArticlesForTransformation(ctx, maxArticles)
	if err != nil {
		p.logError(model.PipelineTypeTransformOnly, err)
		return nil, err
	}
	if len(transformationIDs) == 0 {
		Logger.Log.Info("no articles pending transformation")
		return &Result{}, nil
	}

	result := &Result{
		TransformationIDs: transformationIDs,
		DeploymentIDs:     p.engine.DeployTransformations(transformationIDs),
	}
	p.logSuccess(model.PipelineTypeTransformOnly, result)
	return result, nil
}

func (p *Pipeline) logSuccess(pipelineType string, result *Result) {
	if p.logs == nil {
		return
	}
	if err := p.logs.InsertPipelineLog(pipelineType, result.Counts(), model.PipelineLogStatusSuccess); err != nil {
		Logger.Log.Errorf("error logging pipeline run: %v", err)
	}
}

func (p *Pipeline) logError(pipelineType string, runErr error) {
	if p.logs == nil {
		return
	}
	results := map[string]interface{}{"error": runErr.Error()}
	if err := p.logs.InsertPipelineLog(pipelineType, results, model.PipelineLogStatusError); err != nil {
		Logger.Log.Errorf("error logging pipeline error: %v", err)
	}
}
