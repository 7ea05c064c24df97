package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNoToken is returned when no GitHub token can be found.
var ErrNoToken = errors.New("no GitHub token found: set GH_TOKEN or GITHUB_TOKEN, or log in with `gh auth login`")

// defaultHost is the gh CLI hosts.yml key for github.com.
const defaultHost = "github.com"

// ghHost is the subset of a gh CLI hosts.yml entry we read.
type ghHost struct {
	OAuthToken string `yaml:"oauth_token"`
}

// ResolveToken returns the configured token, falling back to the token
// stored by the gh CLI for the API host.
func (c Config) ResolveToken() (string, error) {
	if c.GitHubToken != "" {
		return c.GitHubToken, nil
	}
	path, err := ghHostsFile()
	if err != nil {
		return "", ErrNoToken
	}
	token, err := tokenFromHostsFile(path, hostFor(c.APIURL))
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// tokenFromHostsFile reads the oauth token for host from a gh hosts.yml file.
// A missing file is not an error.
func tokenFromHostsFile(path, host string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	hosts := map[string]ghHost{}
	if err := yaml.Unmarshal(data, &hosts); err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	return hosts[host].OAuthToken, nil
}

func ghHostsFile() (string, error) {
	if dir := os.Getenv("GH_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "hosts.yml"), nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gh", "hosts.yml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gh", "hosts.yml"), nil
}

// hostFor maps an API URL to the gh CLI host key.
func hostFor(apiURL string) string {
	if apiURL == "" {
		return defaultHost
	}
	u, err := url.Parse(apiURL)
	if err != nil || u.Hostname() == "" || u.Hostname() == "api.github.com" {
		return defaultHost
	}
	return u.Hostname()
}
