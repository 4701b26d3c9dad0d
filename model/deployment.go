package model

import "time"

// Deployment status only ever moves active -> retired. Retirement is a
// manual/administrative action, nothing in the pipeline re-activates.
const (
	DeploymentStatusActive  = "active"
	DeploymentStatusRetired = "retired"
)

/*

Deployment marks a Transformation live for client retrieval

Id: primary key
TransformationID:
Transformation: the deployed candidate, "belongs-to" relation

Status: "active" or "retired", see constants
DeploymentDate: time the transformation went live
ViewsCount: monotonically increasing view counter
ClickThroughCount: monotonically increasing click counter
*/
type Deployment struct {
	Id                string `gorm:"primaryKey"`
	TransformationID  string `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Transformation    *Transformation
	Status            string `gorm:"index"`
	DeploymentDate    time.Time
	ViewsCount        int64
	ClickThroughCount int64
}
