package store

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/trust-assembly/headline-engine/model"
	"gorm.io/gorm"
)

// AllCreators lists every creator with its prompts preloaded, for the admin
// surface.
func (s *Store) AllCreators() ([]model.Creator, error) {
	var creators []model.Creator
	err := s.DB.Order("name").Preload("Prompts").Find(&creators).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list creators")
	}
	return creators, nil
}

// UpsertCreatorPrompt replaces a creator's prompt configuration. A creator
// keeps one prompt row; seeding the same creator twice updates it in place.
func (s *Store) UpsertCreatorPrompt(creatorID string, promptTemplate string, styleDescription string, active bool) (string, error) {
	var existing model.CreatorPrompt
	err := s.DB.Where("creator_id = ?", creatorID).First(&existing).Error
	if err == nil {
		existing.PromptTemplate = promptTemplate
		existing.StyleDescription = styleDescription
		existing.Active = active
		if uerr := s.DB.Save(&existing).Error; uerr != nil {
			return "", errors.Wrap(uerr, "fail to update creator prompt")
		}
		return existing.Id, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errors.Wrap(err, "fail to look up creator prompt")
	}

	prompt := model.CreatorPrompt{
		Id:               uuid.New().String(),
		CreatorID:        creatorID,
		PromptTemplate:   promptTemplate,
		StyleDescription: styleDescription,
		Active:           active,
	}
	if err := s.DB.Create(&prompt).Error; err != nil {
		return "", errors.Wrap(err, "fail to create creator prompt")
	}
	return prompt.Id, nil
}
