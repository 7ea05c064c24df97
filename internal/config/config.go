package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	GitHubToken string
	APIURL      string
	DebugMode   bool
	CacheFile   string
	CacheTTL    time.Duration
	NoCache     bool
}

// FromEnvironment creates a Config from environment variables.
//
//	GH_TOKEN, GITHUB_TOKEN   API token, first one set wins
//	GITHUB_API_URL           API root for GitHub Enterprise
//	DEBUG                    debug logging
//	REPOLIST_CACHE_FILE      enables the page cache at this path
//	REPOLIST_CACHE_TTL       page cache lifetime, e.g. "30m"
func FromEnvironment() Config {
	v := viper.New()
	v.AutomaticEnv()
	_ = v.BindEnv("token", "GH_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("api_url", "GITHUB_API_URL")
	_ = v.BindEnv("debug", "DEBUG")
	_ = v.BindEnv("cache_file", "REPOLIST_CACHE_FILE")
	_ = v.BindEnv("cache_ttl", "REPOLIST_CACHE_TTL")

	return Config{
		GitHubToken: v.GetString("token"),
		APIURL:      v.GetString("api_url"),
		DebugMode:   truthy(v.GetString("debug")),
		CacheFile:   v.GetString("cache_file"),
		CacheTTL:    v.GetDuration("cache_ttl"),
	}
}

func truthy(s string) bool {
	return s != "" && s != "0" && strings.ToLower(s) != "false"
}
