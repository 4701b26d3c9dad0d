package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PipelineLogStatusSuccess = "success"
	PipelineLogStatusError   = "error"

	PipelineTypeFull          = "full_pipeline"
	PipelineTypeTransformOnly = "transform_only"
)

/*

PipelineLog records one pipeline run, best-effort

Writing a log row must never block or fail the run it describes.

Id: primary key
CreatedAt: time when entity is created

PipelineType: "full_pipeline" or "transform_only"
Results: run counters (or error detail) as JSONB
Status: "success" or "error"
*/
type PipelineLog struct {
	Id           string `gorm:"primaryKey"`
	CreatedAt    time.Time
	PipelineType string
	Results      datatypes.JSON
	Status       string
}
