package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stahnma/repolist/internal/cache"
	"github.com/stahnma/repolist/internal/config"
	ghub "github.com/stahnma/repolist/internal/github"
)

// ProjectURL is sent in the User-Agent header.
const ProjectURL = "https://github.com/stahnma/repolist"

// App holds shared application state.
type App struct {
	Config   config.Config
	Cache    *cache.Cache // nil when the page cache is disabled
	GHClient ghub.Client
	Logger   *log.Logger
	Version  string
	GitSHA   string
	GitDirty string
}

// NewApp creates a new App from the given configuration. Log output goes to
// logOut, never to the listing output.
func NewApp(cfg config.Config, logOut io.Writer, version, gitSHA, gitDirty string) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   newLogger(logOut, cfg.DebugMode),
		Version:  version,
		GitSHA:   gitSHA,
		GitDirty: gitDirty,
	}
	if cfg.CacheFile != "" {
		c, err := cache.LoadFromFile(cfg.CacheFile, cfg.CacheTTL)
		var corrupt *cache.CorruptError
		switch {
		case errors.As(err, &corrupt):
			a.Logger.Warn(corrupt.Error())
		case err != nil:
			return nil, fmt.Errorf("loading cache: %w", err)
		}
		a.Cache = c
		a.Logger.Debug("page cache loaded", "file", cfg.CacheFile, "entries", c.Len())
	}
	return a, nil
}

func newLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "repolist",
	})
}

// UserAgent identifies this tool to the API.
func (a *App) UserAgent() string {
	return fmt.Sprintf("repolist/%s (+%s)", a.Version, ProjectURL)
}

func (a *App) versionString() string {
	v := a.Version
	if a.GitSHA != "" {
		v += " (" + a.GitSHA
		if a.GitDirty != "" {
			v += ", dirty"
		}
		v += ")"
	}
	return v
}

// openClient returns the GitHub client along with a release func that must
// be called once the listing is over, however it ended. With useCache the
// client answers from the page cache and release persists it.
func (a *App) openClient(useCache bool, logger *log.Logger) (ghub.Client, func(), error) {
	client := a.GHClient
	if client == nil {
		token, err := a.Config.ResolveToken()
		if err != nil {
			return nil, nil, err
		}
		client, err = ghub.NewClient(token, ghub.ClientOptions{
			BaseURL:   a.Config.APIURL,
			UserAgent: a.UserAgent(),
		})
		if err != nil {
			return nil, nil, err
		}
	}
	if !useCache {
		return client, func() {}, nil
	}
	release := func() {
		if err := a.SaveCache(); err != nil {
			logger.Error("saving cache", "file", a.Config.CacheFile, "err", err)
		}
	}
	return ghub.WithCache(client, a.Cache, logger), release, nil
}

// SaveCache saves the cache to disk if a cache file is configured.
func (a *App) SaveCache() error {
	if a.Cache == nil || a.Config.CacheFile == "" {
		return nil
	}
	return a.Cache.SaveToFile(a.Config.CacheFile)
}

// NewRootCommand creates the repolist command.
func (a *App) NewRootCommand() *cobra.Command {
	if a.Logger == nil {
		a.Logger = newLogger(os.Stderr, a.Config.DebugMode)
	}
	var opts listOptions
	rootCmd := &cobra.Command{
		Use:   "repolist [flags] [OWNER...]",
		Short: "List & filter GitHub repositories",
		Long: `List & filter GitHub repositories belonging to you or to the given users
and organizations. Archived repositories and forks are left out unless asked for.

Visit ` + ProjectURL + ` for more information.`,
		Version: a.versionString(),
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd, args, opts)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{msg: err.Error()}
	})

	opts.bindFlags(rootCmd)
	rootCmd.Flags().BoolP("version", "V", false, "Show the program's version and exit")
	rootCmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Bypass the page cache")
	rootCmd.Flags().BoolVar(&opts.clearCache, "clear-cache", false, "Empty the page cache before listing")
	rootCmd.Flags().BoolVar(&opts.debug, "debug", false, "Log requests and filter decisions to stderr")

	return rootCmd
}
