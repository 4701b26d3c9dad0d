package transformer

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trust-assembly/headline-engine/model"
	"github.com/trust-assembly/headline-engine/store"
)

// fakeEngineStore is an in-memory Store for engine tests.
type fakeEngineStore struct {
	articles []model.Article
	prompts  []model.CreatorPrompt

	inserted          []model.Transformation
	markedTransformed []string
	deployed          []string
	failDeploymentFor map[string]bool
}

func (f *fakeEngineStore) GetArticlesForTransformation(limit int) ([]model.Article, error) {
	if limit < len(f.articles) {
		return f.articles[:limit], nil
	}
	return f.articles, nil
}

func (f *fakeEngineStore) GetActiveCreatorPrompts() ([]model.CreatorPrompt, error) {
	return f.prompts, nil
}

func (f *fakeEngineStore) InsertTransformation(transformation *model.Transformation) (string, error) {
	f.inserted = append(f.inserted, *transformation)
	return transformation.OriginalHeadline + "/" + transformation.CreatorID, nil
}

func (f *fakeEngineStore) MarkArticleTransformed(articleID string) error {
	f.markedTransformed = append(f.markedTransformed, articleID)
	return nil
}

func (f *fakeEngineStore) InsertDeployment(transformationID string) (string, error) {
	if f.failDeploymentFor[transformationID] {
		return "", errors.New("deployment failure")
	}
	f.deployed = append(f.deployed, transformationID)
	return "deployment-" + transformationID, nil
}

func (f *fakeEngineStore) GetActiveReplacements(url string) ([]store.ReplacementView, error) {
	return nil, nil
}

func newTestEngine(s Store, p Provider) *Engine {
	engine := NewEngine(s, p)
	engine.CallDelay = 0
	return engine
}

func TestBuildPrompt(t *testing.T) {
	author := "Jane Doe"
	article := &model.Article{
		Headline:        "Big News Today",
		OriginalContent: "Something happened.",
		Author:          &author,
	}

	prompt := BuildPrompt("H: {headline} C: {content} A: {author}", article)
	assert.Equal(t, "H: Big News Today C: Something happened. A: Jane Doe", prompt)
}

func TestBuildPromptMissingAuthor(t *testing.T) {
	article := &model.Article{Headline: "Big News", OriginalContent: "Body"}
	prompt := BuildPrompt("{author}", article)
	assert.Equal(t, "Unknown", prompt)
}

func TestBuildPromptTruncatesOnRuneBoundary(t *testing.T) {
	// 667 three-byte runes is 2001 bytes; the 2000-byte cap lands mid-rune and
	// must back up instead of splitting it.
	article := &model.Article{
		Headline:        "Big News",
		OriginalContent: strings.Repeat("你", 667),
	}

	prompt := BuildPrompt("{content}", article)
	assert.True(t, utf8.ValidString(prompt))
	assert.Equal(t, 1998, len(prompt))
	assert.Equal(t, 666, utf8.RuneCountInString(prompt))
}

func TestProcessArticlesWalksCreatorsInOrder(t *testing.T) {
	entityStore := &fakeEngineStore{
		articles: []model.Article{
			{Id: "a1", Headline: "First Headline", OriginalContent: "body"},
			{Id: "a2", Headline: "Second Headline", OriginalContent: "body"},
		},
		prompts: []model.CreatorPrompt{
			{Id: "p1", CreatorID: "c1", PromptTemplate: "{headline}", Creator: &model.Creator{Id: "c1", Name: "Alpha"}},
			{Id: "p2", CreatorID: "c2", PromptTemplate: "{headline}", Creator: &model.Creator{Id: "c2", Name: "Beta"}},
		},
	}
	provider := &FakeProvider{Rewrite: map[string]string{
		"First Headline":  "Completely Different Words Here",
		"Second Headline": "Another Replacement Entirely Written",
	}}

	engine := newTestEngine(entityStore, provider)
	ids, err := engine.ProcessArticlesForTransformation(context.Background(), 10)
	require.NoError(t, err)

	// 2 articles x 2 creators, article-major order.
	assert.Len(t, ids, 4)
	assert.Equal(t, []string{"First Headline", "First Headline", "Second Headline", "Second Headline"}, provider.Calls)
	assert.Equal(t, []string{"a1", "a2"}, entityStore.markedTransformed)
}

func TestProcessArticlesIsolatesProviderFailures(t *testing.T) {
	entityStore := &fakeEngineStore{
		articles: []model.Article{
			{Id: "a1", Headline: "Failing Headline", OriginalContent: "body"},
			{Id: "a2", Headline: "Working Headline", OriginalContent: "body"},
		},
		prompts: []model.CreatorPrompt{
			{Id: "p1", CreatorID: "c1", PromptTemplate: "{headline}"},
		},
	}
	provider := &FakeProvider{
		Rewrite: map[string]string{"Working Headline": "Fresh Wording Throughout Instead"},
		FailFor: map[string]bool{"Failing Headline": true},
	}

	engine := newTestEngine(entityStore, provider)
	ids, err := engine.ProcessArticlesForTransformation(context.Background(), 10)
	require.NoError(t, err)

	assert.Len(t, ids, 1)
	require.Len(t, entityStore.inserted, 1)
	assert.Equal(t, "Working Headline", entityStore.inserted[0].OriginalHeadline)

	// The failed article is still marked transformed so it is not reprocessed
	// forever.
	assert.Equal(t, []string{"a1", "a2"}, entityStore.markedTransformed)
}

func TestProcessArticlesDelaysAfterFailedCalls(t *testing.T) {
	entityStore := &fakeEngineStore{
		articles: []model.Article{{Id: "a1", Headline: "Failing Headline", OriginalContent: "body"}},
		prompts: []model.CreatorPrompt{
			{Id: "p1", CreatorID: "c1", PromptTemplate: "{headline}"},
			{Id: "p2", CreatorID: "c2", PromptTemplate: "{headline}"},
			{Id: "p3", CreatorID: "c3", PromptTemplate: "{headline}"},
		},
	}
	// No canned rewrites, so every provider call errors.
	provider := &FakeProvider{FailFor: map[string]bool{"Failing Headline": true}}

	engine := NewEngine(entityStore, provider)
	engine.CallDelay = 30 * time.Millisecond

	start := time.Now()
	ids, err := engine.ProcessArticlesForTransformation(context.Background(), 10)
	require.NoError(t, err)
	elapsed := time.Since(start)

	assert.Empty(t, ids)
	assert.Len(t, provider.Calls, 3)
	// The rate-limit pause applies after failed calls too.
	assert.GreaterOrEqual(t, elapsed, 3*engine.CallDelay)
}

func TestProcessArticlesStampsConfidence(t *testing.T) {
	entityStore := &fakeEngineStore{
		articles: []model.Article{{Id: "a1", Headline: "Original Headline Text", OriginalContent: "body"}},
		prompts:  []model.CreatorPrompt{{Id: "p1", CreatorID: "c1", PromptTemplate: "{headline}"}},
	}
	provider := &FakeProvider{Rewrite: map[string]string{
		"Original Headline Text": "Original Headline Text",
	}}

	engine := newTestEngine(entityStore, provider)
	_, err := engine.ProcessArticlesForTransformation(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, entityStore.inserted, 1)
	assert.Equal(t, 0.6, entityStore.inserted[0].ConfidenceScore)
	assert.Equal(t, "test", entityStore.inserted[0].ProviderUsed)
}

func TestDeployTransformationsSkipsFailures(t *testing.T) {
	entityStore := &fakeEngineStore{failDeploymentFor: map[string]bool{"t2": true}}
	engine := newTestEngine(entityStore, &FakeProvider{})

	ids := engine.DeployTransformations([]string{"t1", "t2", "t3"})
	assert.Equal(t, []string{"deployment-t1", "deployment-t3"}, ids)
}
