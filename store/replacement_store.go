package store

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/trust-assembly/headline-engine/model"
	"github.com/trust-assembly/headline-engine/utils"
)

// CreateHeadlineReplacement validates and persists a user submission together
// with its citations. Validation failures happen before any row is written.
func (s *Store) CreateHeadlineReplacement(replacement *model.HeadlineReplacement) (string, error) {
	if err := replacement.Validate(); err != nil {
		return "", err
	}

	replacement.Id = uuid.New().String()
	replacement.Url = utils.CleanURL(replacement.Url)
	for i := range replacement.Citations {
		replacement.Citations[i].Id = uuid.New().String()
		replacement.Citations[i].HeadlineReplacementID = replacement.Id
	}

	if err := s.DB.Create(replacement).Error; err != nil {
		return "", errors.Wrap(err, "fail to create headline replacement")
	}
	return replacement.Id, nil
}

// GetHeadlineReplacements lists submissions for a URL, newest first, with
// citations preloaded.
func (s *Store) GetHeadlineReplacements(url string) ([]model.HeadlineReplacement, error) {
	var replacements []model.HeadlineReplacement
	err := s.DB.
		Where("url = ?", utils.CleanURL(url)).
		Order("created_at DESC").
		Preload("Citations").
		Find(&replacements).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list headline replacements")
	}
	return replacements, nil
}
