package source

import (
	"github.com/temminks/fantastic-umbrella/config"
	"github.com/temminks/fantastic-umbrella/services/cache"
)

// CreateSources creates all the course sources based on the configuration
func CreateSources(cfg *config.Config, cacheSvc cache.CacheService) []Source {
	return []Source{
		NewFreesamples(cfg.FreesamplesURL, cacheSvc),
		NewReddit(cfg.RedditURL, cacheSvc),
		NewDsmenders(cfg.DsmendersURL, cfg.DsmendersPages, cacheSvc),
		NewFacebook(cfg.FacebookGroups, cacheSvc),
	}
}
