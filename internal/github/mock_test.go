package github

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v68/github"
)

// mockClient implements Client for testing.
type mockClient struct {
	listReposFn func(ctx context.Context, path string, opts *ListOptions) ([]Repo, *gh.Response, error)
}

func (m *mockClient) ListRepos(ctx context.Context, path string, opts *ListOptions) ([]Repo, *gh.Response, error) {
	return m.listReposFn(ctx, path, opts)
}

// okResponse returns a plain 200 response.
func okResponse() *gh.Response {
	return &gh.Response{
		Response: &http.Response{StatusCode: 200},
	}
}

// makeRepo builds a well-formed repository object named owner/name.
func makeRepo(owner, name string) Repo {
	return NewRepo([]byte(fmt.Sprintf(
		`{"full_name":%q,"archived":false,"fork":false,"language":null,"topics":[]}`,
		owner+"/"+name)))
}

// makePage builds n repositories for owner, numbered from start.
func makePage(owner string, start, n int) []Repo {
	page := make([]Repo, n)
	for i := range page {
		page[i] = makeRepo(owner, fmt.Sprintf("repo%d", start+i))
	}
	return page
}

type pageCall struct {
	path string
	opts ListOptions
}

// pagedClient serves pages[path][page-1] and records every call.
func pagedClient(pages map[string][][]Repo, calls *[]pageCall) *mockClient {
	return &mockClient{
		listReposFn: func(_ context.Context, path string, opts *ListOptions) ([]Repo, *gh.Response, error) {
			*calls = append(*calls, pageCall{path: path, opts: *opts})
			byPage := pages[path]
			if opts.Page-1 < len(byPage) {
				return byPage[opts.Page-1], okResponse(), nil
			}
			return nil, okResponse(), nil
		},
	}
}
