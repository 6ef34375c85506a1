package scrape

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/forum-harvester/internal/fetch"
)

// Config captures every knob that influences a harvest run. All values
// originate from Viper so the harvester can be configured via files or
// env vars.
type Config struct {
	Site            string
	Tag             string
	PageSize        int
	SeedURL         string
	UserAgent       string
	RequestTimeout  time.Duration
	RateLimitPerSec int
	AllowedDomains  []string
	Selectors       Selectors
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Site:            v.GetString("harvester.site"),
		Tag:             v.GetString("harvester.tag"),
		PageSize:        v.GetInt("harvester.page_size"),
		SeedURL:         v.GetString("harvester.seed_url"),
		UserAgent:       v.GetString("harvester.user_agent"),
		RequestTimeout:  v.GetDuration("harvester.request_timeout"),
		RateLimitPerSec: v.GetInt("harvester.rate_limit_per_domain"),
		AllowedDomains:  v.GetStringSlice("harvester.allowed_domains"),
		Selectors:       LoadSelectors(v),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.SeedURL == "" {
		if c.Site == "" || c.Tag == "" {
			return fmt.Errorf("either harvester.seed_url or harvester.site and harvester.tag must be set")
		}
		if c.PageSize <= 0 {
			return fmt.Errorf("harvester.page_size must be > 0")
		}
	}
	if c.UserAgent == "" {
		return fmt.Errorf("harvester.user_agent must be set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("harvester.request_timeout must be > 0")
	}
	if c.RateLimitPerSec <= 0 {
		return fmt.Errorf("harvester.rate_limit_per_domain must be > 0")
	}
	return c.Selectors.Validate()
}

// Seed resolves the starting listing URL: an explicit seed wins,
// otherwise it is built from the site, topic tag, and page size. Every
// later URL is discovered through next links, never constructed.
func (c Config) Seed() string {
	if c.SeedURL != "" {
		return c.SeedURL
	}
	return fmt.Sprintf("%s/questions/tagged/%s?tab=newest&pagesize=%d",
		c.Site, url.PathEscape(c.Tag), c.PageSize)
}

// FetchConfig derives the fetch collaborator's configuration.
func (c Config) FetchConfig() fetch.Config {
	return fetch.Config{
		UserAgent:          c.UserAgent,
		RequestTimeout:     c.RequestTimeout,
		RateLimitPerDomain: c.RateLimitPerSec,
		AllowedDomains:     c.AllowedDomains,
	}
}
