package transformer

import "context"

// TransformResult is what the external transformation capability yields.
type TransformResult struct {
	TransformedHeadline string
	ProviderUsed        string
}

// Provider is the opaque external headline transformation capability. The
// engine's scheduling, persistence and scoring logic never depends on how
// the rewrite is produced.
type Provider interface {
	Transform(ctx context.Context, headline string, author string, content string, promptTemplate string) (*TransformResult, error)
}
