package commands

import (
	"fmt"
	"iter"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stahnma/repolist/internal/filter"
	"github.com/stahnma/repolist/internal/format"
	ghub "github.com/stahnma/repolist/internal/github"
)

var affiliations = map[string]bool{
	"owner":               true,
	"collaborator":        true,
	"organization_member": true,
}

// validate rejects flag combinations that make no sense for the given owners.
func (o listOptions) validate(owners []string, affiliationSet bool) error {
	if affiliationSet {
		for _, a := range strings.Split(o.affiliation, ",") {
			if !affiliations[a] {
				return &UsageError{msg: `--affiliation value must be a comma-separated list of "owner", "collaborator", and/or "organization_member"`}
			}
		}
	}
	if len(owners) > 0 && o.visibility != "" {
		return &UsageError{msg: "Public/private options cannot be used when listing repositories for other users"}
	}
	if len(owners) > 0 && affiliationSet {
		return &UsageError{msg: "--affiliation cannot be used when listing repositories for other users"}
	}
	return nil
}

func (a *App) runList(cmd *cobra.Command, owners []string, opts listOptions) error {
	if err := opts.validate(owners, cmd.Flags().Changed("affiliation")); err != nil {
		return err
	}
	logger := a.Logger
	if opts.debug {
		logger = a.Logger.With()
		logger.SetLevel(log.DebugLevel)
	}
	if cmd.Flags().Changed("language") {
		opts.filters.Language = &opts.language
	}
	matcher := filter.Build(opts.filters)
	logger.Debug("filters", "match", matcher)

	f, err := format.New(opts.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	useCache := a.Cache != nil && !a.Config.NoCache && !opts.noCache
	if a.Cache != nil && opts.clearCache {
		logger.Info("page cache cleared", "entries", a.Cache.Len())
		a.Cache.Flush()
		if !useCache {
			if err := a.SaveCache(); err != nil {
				return fmt.Errorf("saving cache: %w", err)
			}
		}
	}

	client, release, err := a.openClient(useCache, logger)
	if err != nil {
		return err
	}
	defer release()

	ctx := cmd.Context()
	fetcher := ghub.NewFetcher(client, logger)
	var repos iter.Seq2[ghub.Repo, error]
	if len(owners) > 0 {
		repos = fetcher.OwnerRepos(ctx, owners...)
	} else {
		repos = fetcher.MyRepos(ctx, opts.visibility, opts.affiliation)
	}

	if err := stream(repos, matcher, f); err != nil {
		return err
	}
	logger.Debug("done", "emitted", f.Count())
	return nil
}

// stream pulls repositories one at a time and emits those that match. The
// formatter is always closed; it is told the run faulted unless the sequence
// was drained without error.
func stream(repos iter.Seq2[ghub.Repo, error], m *filter.Matcher, f format.Formatter) (err error) {
	if err := f.Open(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	faulted := true
	defer func() {
		if cerr := f.Close(faulted); cerr != nil && err == nil {
			err = fmt.Errorf("writing output: %w", cerr)
		}
	}()

	for r, ferr := range repos {
		if ferr != nil {
			return ferr
		}
		ok, merr := m.Match(r)
		if merr != nil {
			return merr
		}
		if !ok {
			continue
		}
		if err := f.Emit(r); err != nil {
			return err
		}
	}
	faulted = false
	return nil
}
