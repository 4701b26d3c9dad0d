// Package seed loads site and creator configuration from YAML into the
// database. Seeding is idempotent: sites dedup on base_url, creators on name,
// and a creator's prompt is updated in place on re-seed.
package seed

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/trust-assembly/headline-engine/model"
	"github.com/trust-assembly/headline-engine/store"
	Logger "github.com/trust-assembly/headline-engine/utils/log"
	"gopkg.in/yaml.v2"
)

type siteConfig struct {
	Name      string `yaml:"name"`
	BaseUrl   string `yaml:"base_url"`
	Enabled   *bool  `yaml:"enabled"`
	Selectors struct {
		Headline string `yaml:"headline"`
		Content  string `yaml:"content"`
		Author   string `yaml:"author"`
	} `yaml:"selectors"`
}

type creatorConfig struct {
	Name             string `yaml:"name"`
	PromptTemplate   string `yaml:"prompt_template"`
	StyleDescription string `yaml:"style_description"`
	Active           *bool  `yaml:"active"`
}

// Config is the top level seed file layout.
type Config struct {
	Sites    []siteConfig    `yaml:"sites"`
	Creators []creatorConfig `yaml:"creators"`
}

// ParseConfig decodes a seed file.
func ParseConfig(raw []byte) (*Config, error) {
	var config Config
	if err := yaml.UnmarshalStrict(raw, &config); err != nil {
		return nil, errors.Wrap(err, "fail to parse seed config")
	}
	return &config, nil
}

// FromFile seeds the database from the YAML file at path.
func FromFile(s *store.Store, path string) error {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "fail to read seed config")
	}
	config, err := ParseConfig(raw)
	if err != nil {
		return err
	}
	return Apply(s, config)
}

// Apply writes the parsed configuration through the store's dedup paths.
func Apply(s *store.Store, config *Config) error {
	for _, sc := range config.Sites {
		if sc.BaseUrl == "" {
			return errors.Errorf("site %q has no base_url", sc.Name)
		}
		site := model.Site{
			Name:    sc.Name,
			BaseUrl: sc.BaseUrl,
			Enabled: sc.Enabled == nil || *sc.Enabled,
		}
		if err := site.SetSelectors(model.ScrapeSelectors{
			Headline: sc.Selectors.Headline,
			Content:  sc.Selectors.Content,
			Author:   sc.Selectors.Author,
		}); err != nil {
			return errors.Wrap(err, "fail to encode selectors")
		}
		id, err := s.GetOrCreateSite(&site)
		if err != nil {
			return err
		}
		Logger.Log.Infof("seeded site %s (%s)", sc.Name, id)
	}

	for _, cc := range config.Creators {
		if cc.Name == "" {
			return errors.New("creator with empty name in seed config")
		}
		creatorID, err := s.GetOrCreateCreator(cc.Name)
		if err != nil {
			return err
		}
		if cc.PromptTemplate == "" {
			continue
		}
		active := cc.Active == nil || *cc.Active
		if _, err := s.UpsertCreatorPrompt(creatorID, cc.PromptTemplate, cc.StyleDescription, active); err != nil {
			return err
		}
		Logger.Log.Infof("seeded creator %s", cc.Name)
	}
	return nil
}
