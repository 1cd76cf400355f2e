package rss

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FeedGroup is a set of feed URLs sharing a category hint.
type FeedGroup struct {
	Category string   `yaml:"category" validate:"required"`
	URLs     []string `yaml:"urls" validate:"required,min=1,dive,url"`
}

// FeedsConfig is the feeds file layout:
//
//	groups:
//	  - category: Technology
//	    urls:
//	      - https://...
type FeedsConfig struct {
	Groups []FeedGroup `yaml:"groups" validate:"required,min=1,dive"`
}

// LoadFeeds reads the feed groups from a YAML file.
func LoadFeeds(path string) ([]FeedGroup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse feeds %s: %w", path, err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid feeds %s: %w", path, err)
	}
	return cfg.Groups, nil
}

// DefaultFeeds is used when no feeds file is configured.
func DefaultFeeds() []FeedGroup {
	return []FeedGroup{
		{Category: "General News", URLs: []string{
			"http://feeds.bbci.co.uk/news/world/rss.xml",
			"https://rss.nytimes.com/services/xml/rss/nyt/World.xml",
			"https://www.reutersagency.com/feed/?best-regions=europe&post_type=best",
		}},
		{Category: "Technology", URLs: []string{
			"https://techcrunch.com/feed/",
			"https://www.wired.com/feed/rss",
			"https://www.technologyreview.com/feed/",
		}},
		{Category: "Finance", URLs: []string{
			"https://www.bloomberg.com/feed/podcast/etf-report",
			"https://www.cnbc.com/id/100003114/device/rss/rss.html",
			"https://www.ft.com/rss/home",
		}},
		{Category: "Sports", URLs: []string{
			"https://www.espn.com/espn/rss/news",
			"https://feeds.bbci.co.uk/sport/rss.xml",
			"https://www.skysports.com/rss/12040",
		}},
		{Category: "Entertainment", URLs: []string{
			"https://variety.com/feed/",
			"https://www.hollywoodreporter.com/feed/",
			"https://www.billboard.com/feed/",
		}},
		{Category: "Science", URLs: []string{
			"https://www.nasa.gov/rss/dyn/breaking_news.rss",
			"https://www.sciencedaily.com/rss/all.xml",
			"https://arstechnica.com/science/feed/",
		}},
	}
}
