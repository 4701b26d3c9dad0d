// Package transformer produces and deploys candidate replacement headlines.
// For each eligible article it walks the active creator personas in name
// order, calls the external provider, scores confidence and appends an
// immutable transformation row. Per-creator failures are isolated: a failed
// rewrite is simply absent, never retried within the same pass.
package transformer

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/trust-assembly/headline-engine/model"
	"github.com/trust-assembly/headline-engine/store"
	Logger "github.com/trust-assembly/headline-engine/utils/log"
)

const (
	// providerTimeout bounds one provider call; a timeout is a provider
	// failure, not a process-ending fault.
	providerTimeout = 30 * time.Second

	// defaultCallDelay is the mandatory pause between provider calls to
	// respect provider rate limits.
	defaultCallDelay = 1500 * time.Millisecond

	// contentMaxLength caps how much article body is substituted into the
	// prompt, bounding provider cost and latency.
	contentMaxLength = 2000
)

// Store is the slice of the entity store the engine needs.
type Store interface {
	GetArticlesForTransformation(limit int) ([]model.Article, error)
	GetActiveCreatorPrompts() ([]model.CreatorPrompt, error)
	InsertTransformation(transformation *model.Transformation) (string, error)
	MarkArticleTransformed(articleID string) error
	InsertDeployment(transformationID string) (string, error)
	GetActiveReplacements(url string) ([]store.ReplacementView, error)
}

// Engine runs the transformation and deployment steps of the pipeline.
type Engine struct {
	store    Store
	provider Provider

	// CallDelay is overridable so tests don't sleep.
	CallDelay time.Duration
}

func NewEngine(entityStore Store, provider Provider) *Engine {
	return &Engine{
		store:     entityStore,
		provider:  provider,
		CallDelay: defaultCallDelay,
	}
}

// BuildPrompt substitutes the article into a creator's prompt template. The
// body is truncated before substitution; a missing author becomes "Unknown".
func BuildPrompt(template string, article *model.Article) string {
	content := article.OriginalContent
	if len(content) > contentMaxLength {
		// Back up to a rune boundary so the cut never emits invalid UTF-8.
		cut := contentMaxLength
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}
	author := "Unknown"
	if article.Author != nil && *article.Author != "" {
		author = *article.Author
	}

	prompt := strings.Replace(template, "{headline}", article.Headline, 1)
	prompt = strings.Replace(prompt, "{content}", content, 1)
	prompt = strings.Replace(prompt, "{author}", author, 1)
	return prompt
}

// TransformWithCreatorPrompt produces one candidate transformation. Returns
// (nil, nil) on provider failure: the error is logged and the batch moves on.
func (e *Engine) TransformWithCreatorPrompt(ctx context.Context, article *model.Article, creatorPrompt *model.CreatorPrompt) (*model.Transformation, error) {
	prompt := BuildPrompt(creatorPrompt.PromptTemplate, article)

	creatorName := creatorPrompt.CreatorID
	if creatorPrompt.Creator != nil {
		creatorName = creatorPrompt.Creator.Name
	}
	Logger.Log.Infof("transforming %q with %s style", article.Headline, creatorName)

	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	author := ""
	if article.Author != nil {
		author = *article.Author
	}

	start := time.Now()
	result, err := e.provider.Transform(callCtx, article.Headline, author, article.OriginalContent, prompt)
	if err != nil {
		Logger.Log.Errorf("error transforming with %s: %v", creatorName, err)
		return nil, nil
	}
	processingTime := time.Since(start)

	return &model.Transformation{
		ArticleID:           article.Id,
		CreatorID:           creatorPrompt.CreatorID,
		OriginalHeadline:    article.Headline,
		TransformedHeadline: result.TransformedHeadline,
		ProviderUsed:        result.ProviderUsed,
		PromptUsed:          creatorPrompt.PromptTemplate,
		ConfidenceScore:     ConfidenceScore(article.Headline, result.TransformedHeadline),
		ProcessingTimeMs:    processingTime.Milliseconds(),
	}, nil
}

// ProcessArticlesForTransformation walks the cross product of eligible
// articles and active creator prompts, persisting every successful rewrite.
// Articles come most-recently-scraped first; creators in name order. After
// an article has been offered to every creator it is marked transformed
// regardless of per-creator outcomes.
func (e *Engine) ProcessArticlesForTransformation(ctx context.Context, maxArticles int) ([]string, error) {
	articles, err := e.store.GetArticlesForTransformation(maxArticles)
	if err != nil {
		return nil, err
	}
	creatorPrompts, err := e.store.GetActiveCreatorPrompts()
	if err != nil {
		return nil, err
	}

	Logger.Log.Infof("processing %d articles with %d creator styles", len(articles), len(creatorPrompts))

	var transformationIDs []string
	for i := range articles {
		article := articles[i]
		for j := range creatorPrompts {
			if ctx.Err() != nil {
				return transformationIDs, ctx.Err()
			}

			transformation, err := e.TransformWithCreatorPrompt(ctx, &article, &creatorPrompts[j])
			if err == nil && transformation != nil {
				id, insertErr := e.store.InsertTransformation(transformation)
				if insertErr != nil {
					Logger.Log.Errorf("error saving transformation for article %s: %v", article.Id, insertErr)
				} else {
					transformationIDs = append(transformationIDs, id)
				}
			}

			// Mandatory delay after every provider call, failed ones included,
			// to avoid rate limiting.
			if e.CallDelay > 0 {
				select {
				case <-ctx.Done():
					return transformationIDs, ctx.Err()
				case <-time.After(e.CallDelay):
				}
			}
		}

		if err := e.store.MarkArticleTransformed(article.Id); err != nil {
			Logger.Log.Errorf("error marking article %s transformed: %v", article.Id, err)
		}
	}
	return transformationIDs, nil
}

// DeployTransformations promotes the given transformations to active
// deployments. Per-item failures are skipped, not fatal to the batch.
func (e *Engine) DeployTransformations(transformationIDs []string) []string {
	var deploymentIDs []string
	for _, transformationID := range transformationIDs {
		id, err := e.store.InsertDeployment(transformationID)
		if err != nil {
			Logger.Log.Errorf("error deploying transformation %s: %v", transformationID, err)
			continue
		}
		deploymentIDs = append(deploymentIDs, id)
	}
	Logger.Log.Infof("deployed %d transformations", len(deploymentIDs))
	return deploymentIDs
}

// GetActiveReplacements answers the retrieval query for an
// (already-normalized or raw) URL, ordered per the store contract.
func (e *Engine) GetActiveReplacements(url string) ([]store.ReplacementView, error) {
	return e.store.GetActiveReplacements(url)
}
