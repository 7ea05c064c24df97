package github

import (
	"context"
	"fmt"
	"io"
	"iter"
	"net/url"

	"github.com/charmbracelet/log"
)

// PerPage is the fixed page size requested from the list endpoints. A page
// holding fewer records is the last one.
const PerPage = 100

// Fetcher turns the paginated list endpoints into lazy record sequences.
type Fetcher struct {
	client Client
	logger *log.Logger
}

// NewFetcher creates a Fetcher over client. A nil logger discards output.
func NewFetcher(client Client, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Fetcher{client: client, logger: logger}
}

// MyRepos lists repositories of the authenticated user. Empty visibility or
// affiliation values are left out of the request.
func (f *Fetcher) MyRepos(ctx context.Context, visibility, affiliation string) iter.Seq2[Repo, error] {
	return f.paginate(ctx, "user/repos", ListOptions{
		Visibility:  visibility,
		Affiliation: affiliation,
	})
}

// OwnerRepos lists repositories of each owner in turn, in the order given.
func (f *Fetcher) OwnerRepos(ctx context.Context, owners ...string) iter.Seq2[Repo, error] {
	return func(yield func(Repo, error) bool) {
		for _, owner := range owners {
			path := fmt.Sprintf("users/%s/repos", url.PathEscape(owner))
			for r, err := range f.paginate(ctx, path, ListOptions{}) {
				if !yield(r, err) || err != nil {
					return
				}
			}
		}
	}
}

// paginate requests pages until one comes back short. The first error is
// yielded once and ends the sequence.
func (f *Fetcher) paginate(ctx context.Context, path string, opts ListOptions) iter.Seq2[Repo, error] {
	return func(yield func(Repo, error) bool) {
		for page := 1; ; page++ {
			opts.Page = page
			opts.PerPage = PerPage
			repos, resp, err := f.client.ListRepos(ctx, path, &opts)
			if err != nil {
				yield(Repo{}, fmt.Errorf("listing %s (page %d): %w", path, page, err))
				return
			}
			if resp != nil {
				f.logger.Debug("fetched page", "path", path, "page", page, "count", len(repos), "rate_remaining", resp.Rate.Remaining)
			} else {
				f.logger.Debug("fetched page", "path", path, "page", page, "count", len(repos))
			}
			for _, r := range repos {
				if !yield(r, nil) {
					return
				}
			}
			if len(repos) < PerPage {
				return
			}
		}
	}
}
