// Package store is the persistence layer for the headline replacement
// pipeline. All natural-key dedup is optimistic: writers race on the unique
// index and resolve a conflict by re-reading the existing row, there are no
// pessimistic locks.
package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/trust-assembly/headline-engine/model"
	"github.com/trust-assembly/headline-engine/utils"
	"gorm.io/gorm"
)

// Store wraps a gorm connection with the pipeline's query surface.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// GetOrCreateArticle looks an article up by its normalized URL and inserts it
// when absent, returning the row id either way. Concurrent callers racing on
// the same URL are resolved through the unique index on articles.url: the
// loser of the race re-reads and returns the winner's id.
func (s *Store) GetOrCreateArticle(article *model.Article) (string, error) {
	article.Url = utils.CleanURL(article.Url)

	var existing model.Article
	if err := s.DB.Where("url = ?", article.Url).First(&existing).Error; err == nil {
		return existing.Id, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errors.Wrap(err, "fail to look up article by url")
	}

	article.Id = uuid.New().String()
	if article.ScrapedAt.IsZero() {
		article.ScrapedAt = time.Now()
	}
	if article.Status == "" {
		article.Status = model.ArticleStatusScraped
	}

	if err := s.DB.Create(article).Error; err != nil {
		// Most likely a unique violation from a concurrent insert of the same
		// URL. Re-read; only surface the original error if the row truly isn't
		// there.
		if rerr := s.DB.Where("url = ?", article.Url).First(&existing).Error; rerr == nil {
			return existing.Id, nil
		}
		return "", errors.Wrap(err, "fail to create article")
	}
	return article.Id, nil
}

// GetOrCreateCreator is the analogous dedup on creators.name.
func (s *Store) GetOrCreateCreator(name string) (string, error) {
	var existing model.Creator
	if err := s.DB.Where("name = ?", name).First(&existing).Error; err == nil {
		return existing.Id, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errors.Wrap(err, "fail to look up creator by name")
	}

	creator := model.Creator{Id: uuid.New().String(), Name: name}
	if err := s.DB.Create(&creator).Error; err != nil {
		if rerr := s.DB.Where("name = ?", name).First(&existing).Error; rerr == nil {
			return existing.Id, nil
		}
		return "", errors.Wrap(err, "fail to create creator")
	}
	return creator.Id, nil
}

// GetArticleByURL returns nil when no article matches the normalized URL.
func (s *Store) GetArticleByURL(url string) (*model.Article, error) {
	var article model.Article
	err := s.DB.Where("url = ?", utils.CleanURL(url)).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to look up article by url")
	}
	return &article, nil
}

// EnabledSites returns every site the batch scraper may crawl.
func (s *Store) EnabledSites() ([]model.Site, error) {
	var sites []model.Site
	if err := s.DB.Where("enabled = ?", true).Order("name").Find(&sites).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list enabled sites")
	}
	return sites, nil
}

// AllSites lists every configured site, for the admin surface.
func (s *Store) AllSites() ([]model.Site, error) {
	var sites []model.Site
	if err := s.DB.Order("name").Find(&sites).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list sites")
	}
	return sites, nil
}

// GetActiveCreatorPrompts returns only prompts with active=true, each with
// its creator preloaded, ordered by creator name so pipeline iteration is
// deterministic.
func (s *Store) GetActiveCreatorPrompts() ([]model.CreatorPrompt, error) {
	var prompts []model.CreatorPrompt
	err := s.DB.
		Joins("JOIN creators ON creators.id = creator_prompts.creator_id").
		Where("creator_prompts.active = ?", true).
		Order("creators.name ASC").
		Preload("Creator").
		Find(&prompts).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list active creator prompts")
	}
	return prompts, nil
}

// GetArticlesForTransformation returns scraped articles that have no
// transformation row at all, most recently scraped first, capped at limit.
// This predicate is the pipeline's backpressure: an article with any
// transformation is never handed out again.
func (s *Store) GetArticlesForTransformation(limit int) ([]model.Article, error) {
	var articles []model.Article
	err := s.DB.
		Where("status = ?", model.ArticleStatusScraped).
		Where("NOT EXISTS (SELECT 1 FROM transformations WHERE transformations.article_id = articles.id)").
		Order("scraped_at DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list articles for transformation")
	}
	return articles, nil
}

// InsertTransformation appends one transformation row. Rows are immutable
// history, there is no uniqueness constraint on (article, creator).
func (s *Store) InsertTransformation(transformation *model.Transformation) (string, error) {
	transformation.Id = uuid.New().String()
	if err := s.DB.Create(transformation).Error; err != nil {
		return "", errors.Wrap(err, "fail to insert transformation")
	}
	return transformation.Id, nil
}

// MarkArticleTransformed advances the article's status. The transition is
// one-way; a transformed article is never moved back to scraped.
func (s *Store) MarkArticleTransformed(articleID string) error {
	err := s.DB.Model(&model.Article{}).
		Where("id = ?", articleID).
		Update("status", model.ArticleStatusTransformed).Error
	return errors.Wrap(err, "fail to mark article transformed")
}

// InsertDeployment promotes a transformation to an active deployment.
func (s *Store) InsertDeployment(transformationID string) (string, error) {
	deployment := model.Deployment{
		Id:               uuid.New().String(),
		TransformationID: transformationID,
		Status:           model.DeploymentStatusActive,
		DeploymentDate:   time.Now(),
	}
	if err := s.DB.Create(&deployment).Error; err != nil {
		return "", errors.Wrap(err, "fail to insert deployment")
	}
	return deployment.Id, nil
}

// RetireDeployment transitions a deployment active -> retired. There is no
// re-activation path.
func (s *Store) RetireDeployment(deploymentID string) error {
	err := s.DB.Model(&model.Deployment{}).
		Where("id = ?", deploymentID).
		Update("status", model.DeploymentStatusRetired).Error
	return errors.Wrap(err, "fail to retire deployment")
}

// IncrementDeploymentViews bumps the monotonic view counter.
func (s *Store) IncrementDeploymentViews(deploymentID string) error {
	err := s.DB.Model(&model.Deployment{}).
		Where("id = ?", deploymentID).
		Update("views_count", gorm.Expr("views_count + 1")).Error
	return errors.Wrap(err, "fail to increment deployment views")
}

// RecordClickThrough bumps the monotonic click counter.
func (s *Store) RecordClickThrough(deploymentID string) error {
	err := s.DB.Model(&model.Deployment{}).
		Where("id = ?", deploymentID).
		Update("click_through_count", gorm.Expr("click_through_count + 1")).Error
	return errors.Wrap(err, "fail to record click through")
}

// ReplacementView is one active replacement as served to the extension.
type ReplacementView struct {
	OriginalHeadline    string  `json:"original_headline"`
	TransformedHeadline string  `json:"transformed_headline"`
	CreatorName         string  `json:"creator_name"`
	ConfidenceScore     float64 `json:"confidence_score"`
	ViewsCount          int64   `json:"views_count"`
	ClickThroughCount   int64   `json:"click_through_count"`
}

// GetActiveReplacements answers "what active replacements exist for this
// URL", ordered by confidence descending with creator name as tie break.
func (s *Store) GetActiveReplacements(url string) ([]ReplacementView, error) {
	var views []ReplacementView
	err := s.DB.
		Table("deployments").
		Select(`transformations.original_headline,
			transformations.transformed_headline,
			creators.name AS creator_name,
			transformations.confidence_score,
			deployments.views_count,
			deployments.click_through_count`).
		Joins("JOIN transformations ON deployments.transformation_id = transformations.id").
		Joins("JOIN articles ON transformations.article_id = articles.id").
		Joins("JOIN creators ON transformations.creator_id = creators.id").
		Where("articles.url = ? AND deployments.status = ?", utils.CleanURL(url), model.DeploymentStatusActive).
		Order("transformations.confidence_score DESC, creators.name ASC").
		Scan(&views).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to query active replacements")
	}
	return views, nil
}

// CreatorEdit is the simple (non-automated) view of a creator's headline for
// an article.
type CreatorEdit struct {
	Url      string `json:"url"`
	Creator  string `json:"creator"`
	Headline string `json:"headline"`
}

// GetAllCreatorEdits lists every creator's candidate headline for the given
// URL regardless of deployment state.
func (s *Store) GetAllCreatorEdits(url string) ([]CreatorEdit, error) {
	var edits []CreatorEdit
	err := s.DB.
		Table("creators").
		Select("articles.url, creators.name AS creator, transformations.transformed_headline AS headline").
		Joins("JOIN transformations ON creators.id = transformations.creator_id").
		Joins("JOIN articles ON transformations.article_id = articles.id").
		Where("articles.url = ?", utils.CleanURL(url)).
		Scan(&edits).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to query creator edits")
	}
	return edits, nil
}
