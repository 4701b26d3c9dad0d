package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/trust-assembly/headline-engine/model"
	"gorm.io/datatypes"
)

// SystemStatus mirrors the nested count structure of the automation status
// endpoint.
type SystemStatus struct {
	Sites struct {
		Total   int64 `json:"total"`
		Enabled int64 `json:"enabled"`
	} `json:"sites"`
	Articles struct {
		Total                 int64 `json:"total"`
		PendingTransformation int64 `json:"pending_transformation"`
		Transformed           int64 `json:"transformed"`
	} `json:"articles"`
	Transformations struct {
		Total int64 `json:"total"`
	} `json:"transformations"`
	Deployments struct {
		Total  int64 `json:"total"`
		Active int64 `json:"active"`
	} `json:"deployments"`
	Creators struct {
		Total int64 `json:"total"`
	} `json:"creators"`
}

// GetSystemStatus counts every pipeline entity for the status endpoint.
func (s *Store) GetSystemStatus() (*SystemStatus, error) {
	var status SystemStatus

	counts := []struct {
		dest  *int64
		model interface{}
		where []interface{}
	}{
		{&status.Sites.Total, &model.Site{}, nil},
		{&status.Sites.Enabled, &model.Site{}, []interface{}{"enabled = ?", true}},
		{&status.Articles.Total, &model.Article{}, nil},
		{&status.Articles.PendingTransformation, &model.Article{}, []interface{}{"status = ?", model.ArticleStatusScraped}},
		{&status.Articles.Transformed, &model.Article{}, []interface{}{"status = ?", model.ArticleStatusTransformed}},
		{&status.Transformations.Total, &model.Transformation{}, nil},
		{&status.Deployments.Total, &model.Deployment{}, nil},
		{&status.Deployments.Active, &model.Deployment{}, []interface{}{"status = ?", model.DeploymentStatusActive}},
		{&status.Creators.Total, &model.Creator{}, nil},
	}

	for _, c := range counts {
		query := s.DB.Model(c.model)
		if c.where != nil {
			query = query.Where(c.where[0], c.where[1:]...)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return nil, errors.Wrap(err, "fail to count system status")
		}
	}
	return &status, nil
}

// InsertPipelineLog writes one run record. Callers treat failures as
// best-effort: log and move on, never fail the pipeline over its own logging.
func (s *Store) InsertPipelineLog(pipelineType string, results interface{}, status string) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return errors.Wrap(err, "fail to marshal pipeline results")
	}
	entry := model.PipelineLog{
		Id:           uuid.New().String(),
		PipelineType: pipelineType,
		Results:      datatypes.JSON(raw),
		Status:       status,
	}
	return errors.Wrap(s.DB.Create(&entry).Error, "fail to insert pipeline log")
}

// GetPipelineLogs returns the most recent run records.
func (s *Store) GetPipelineLogs(limit int) ([]model.PipelineLog, error) {
	var logs []model.PipelineLog
	err := s.DB.Order("created_at DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list pipeline logs")
	}
	return logs, nil
}

// PipelineStats summarizes recent pipeline activity for the schedule status
// endpoint.
type PipelineStats struct {
	PipelineRuns struct {
		Last24h   int64 `json:"last_24h"`
		Last7d    int64 `json:"last_7d"`
		Errors24h int64 `json:"errors_24h"`
	} `json:"pipeline_runs"`
	ArticlesScraped struct {
		Last24h int64 `json:"last_24h"`
		Last7d  int64 `json:"last_7d"`
	} `json:"articles_scraped"`
	TransformationsCreated struct {
		Last24h int64 `json:"last_24h"`
		Last7d  int64 `json:"last_7d"`
	} `json:"transformations_created"`
}

// GetPipelineStats aggregates run/scrape/transform counts over the trailing
// 24 hours and 7 days.
func (s *Store) GetPipelineStats() (*PipelineStats, error) {
	var stats PipelineStats
	now := time.Now()
	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	counts := []struct {
		dest  *int64
		model interface{}
		query string
		args  []interface{}
	}{
		{&stats.PipelineRuns.Last24h, &model.PipelineLog{}, "pipeline_type = ? AND created_at > ?", []interface{}{model.PipelineTypeFull, dayAgo}},
		{&stats.PipelineRuns.Last7d, &model.PipelineLog{}, "pipeline_type = ? AND created_at > ?", []interface{}{model.PipelineTypeFull, weekAgo}},
		{&stats.PipelineRuns.Errors24h, &model.PipelineLog{}, "pipeline_type = ? AND status = ? AND created_at > ?", []interface{}{model.PipelineTypeFull, model.PipelineLogStatusError, dayAgo}},
		{&stats.ArticlesScraped.Last24h, &model.Article{}, "scraped_at > ?", []interface{}{dayAgo}},
		{&stats.ArticlesScraped.Last7d, &model.Article{}, "scraped_at > ?", []interface{}{weekAgo}},
		{&stats.TransformationsCreated.Last24h, &model.Transformation{}, "created_at > ?", []interface{}{dayAgo}},
		{&stats.TransformationsCreated.Last7d, &model.Transformation{}, "created_at > ?", []interface{}{weekAgo}},
	}

	for _, c := range counts {
		if err := s.DB.Model(c.model).Where(c.query, c.args...).Count(c.dest).Error; err != nil {
			return nil, errors.Wrap(err, "fail to aggregate pipeline stats")
		}
	}
	return &stats, nil
}
