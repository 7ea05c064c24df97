package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v68/github"
	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"
)

// ListOptions are the query parameters sent to the repository list endpoints.
type ListOptions struct {
	Visibility  string `url:"visibility,omitempty"`
	Affiliation string `url:"affiliation,omitempty"`
	Page        int    `url:"page,omitempty"`
	PerPage     int    `url:"per_page,omitempty"`
}

// Client defines the GitHub API methods used by this application.
type Client interface {
	ListRepos(ctx context.Context, path string, opts *ListOptions) ([]Repo, *gh.Response, error)
}

// ClientOptions configure the real client.
type ClientOptions struct {
	// BaseURL points at a GitHub Enterprise API root. Empty means api.github.com.
	BaseURL   string
	UserAgent string
	// HTTPClient is used as the transport underneath oauth2. Nil means
	// http.DefaultClient.
	HTTPClient *http.Client
}

// realClient wraps the go-github client to implement Client.
type realClient struct {
	inner *gh.Client
}

// NewClient creates a new GitHub API client authenticated with the given token.
func NewClient(token string, opts ClientOptions) (Client, error) {
	ctx := context.Background()
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	inner := gh.NewClient(oauth2.NewClient(ctx, ts))
	if opts.BaseURL != "" {
		var err error
		inner, err = inner.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API URL %q: %w", opts.BaseURL, err)
		}
	}
	if opts.UserAgent != "" {
		inner.UserAgent = opts.UserAgent
	}
	return &realClient{inner: inner}, nil
}

func (c *realClient) ListRepos(ctx context.Context, path string, opts *ListOptions) ([]Repo, *gh.Response, error) {
	u, err := withQuery(path, opts)
	if err != nil {
		return nil, nil, err
	}
	req, err := c.inner.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, err
	}
	var page []json.RawMessage
	resp, err := c.inner.Do(ctx, req, &page)
	if err != nil {
		return nil, resp, err
	}
	return wrapPage(page), resp, nil
}

func withQuery(path string, opts *ListOptions) (string, error) {
	if opts == nil {
		return path, nil
	}
	v, err := query.Values(opts)
	if err != nil {
		return "", fmt.Errorf("encoding query for %s: %w", path, err)
	}
	if len(v) == 0 {
		return path, nil
	}
	return path + "?" + v.Encode(), nil
}

func wrapPage(page []json.RawMessage) []Repo {
	repos := make([]Repo, len(page))
	for i, raw := range page {
		repos[i] = NewRepo(raw)
	}
	return repos
}
