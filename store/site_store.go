package store

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/trust-assembly/headline-engine/model"
	"gorm.io/gorm"
)

// GetOrCreateSite dedups on sites.base_url with the same optimistic
// unique-index fallback the article path uses. When the site already exists
// its name, enabled flag and selectors are refreshed from the given record.
func (s *Store) GetOrCreateSite(site *model.Site) (string, error) {
	var existing model.Site
	err := s.DB.Where("base_url = ?", site.BaseUrl).First(&existing).Error
	if err == nil {
		existing.Name = site.Name
		existing.Enabled = site.Enabled
		existing.ScrapeSelectorsJSON = site.ScrapeSelectorsJSON
		if uerr := s.DB.Save(&existing).Error; uerr != nil {
			return "", errors.Wrap(uerr, "fail to update site")
		}
		return existing.Id, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errors.Wrap(err, "fail to look up site by base url")
	}

	site.Id = uuid.New().String()
	if err := s.DB.Create(site).Error; err != nil {
		if rerr := s.DB.Where("base_url = ?", site.BaseUrl).First(&existing).Error; rerr == nil {
			return existing.Id, nil
		}
		return "", errors.Wrap(err, "fail to create site")
	}
	return site.Id, nil
}

// SetSiteEnabled flips the admin scrape toggle.
func (s *Store) SetSiteEnabled(siteID string, enabled bool) error {
	err := s.DB.Model(&model.Site{}).Where("id = ?", siteID).Update("enabled", enabled).Error
	return errors.Wrap(err, "fail to toggle site")
}
