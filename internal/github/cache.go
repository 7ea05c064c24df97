package github

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	gh "github.com/google/go-github/v68/github"
	"github.com/stahnma/repolist/internal/cache"
)

// cachingClient serves list pages from a cache keyed by request URL and
// stores every successfully fetched page.
type cachingClient struct {
	inner  Client
	cache  *cache.Cache
	logger *log.Logger
}

// WithCache wraps client so repeated page requests are answered from c.
func WithCache(client Client, c *cache.Cache, logger *log.Logger) Client {
	return &cachingClient{inner: client, cache: c, logger: logger}
}

func (c *cachingClient) ListRepos(ctx context.Context, path string, opts *ListOptions) ([]Repo, *gh.Response, error) {
	u, err := withQuery(path, opts)
	if err != nil {
		return nil, nil, err
	}
	key := "repos:" + u
	if val, found := c.cache.Get(key); found {
		if page, ok := val.([]json.RawMessage); ok {
			c.logger.Debug("cache hit", "key", key)
			return wrapPage(page), nil, nil
		}
	}
	c.logger.Debug("cache miss", "key", key)

	repos, resp, err := c.inner.ListRepos(ctx, path, opts)
	if err != nil {
		return nil, resp, err
	}
	page := make([]json.RawMessage, len(repos))
	for i, r := range repos {
		page[i] = r.Raw()
	}
	c.cache.Set(key, page)
	return repos, resp, nil
}
