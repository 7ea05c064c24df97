package commands

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stahnma/repolist/internal/filter"
	"github.com/stahnma/repolist/internal/format"
)

// choice is a boolean-looking flag that stores a fixed value into a target
// shared with other flags. Flags sharing a target are mutually exclusive
// selections: whichever appears last on the command line wins.
type choice[T any] struct {
	target *T
	value  T
}

func (c *choice[T]) String() string { return "false" }

func (c *choice[T]) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if on {
		*c.target = c.value
	}
	return nil
}

func (c *choice[T]) Type() string { return "bool" }

func addChoice[T any](fs *pflag.FlagSet, target *T, value T, name, shorthand, usage string) {
	f := fs.VarPF(&choice[T]{target: target, value: value}, name, shorthand, usage)
	f.NoOptDefVal = "true"
}

// listOptions are the parsed command-line selections.
type listOptions struct {
	filters     filter.Options
	format      format.Kind
	language    string
	visibility  string
	affiliation string

	// Per-invocation switches; they never change the App's Config.
	noCache    bool
	clearCache bool
	debug      bool
}

func (o *listOptions) bindFlags(cmd *cobra.Command) {
	fs := cmd.Flags()

	addChoice(fs, &o.filters.Archived, filter.Include, "archived", "A", "Include archived repositories")
	addChoice(fs, &o.filters.Archived, filter.Only, "archived-only", "", "Only list archived repositories")
	addChoice(fs, &o.filters.Forks, filter.Include, "forks", "F", "Include forks")
	addChoice(fs, &o.filters.Forks, filter.Only, "forks-only", "", "Only list forks")

	addChoice(fs, &o.format, format.JSON, "json", "J", "Output a JSON object for each repository")
	addChoice(fs, &o.format, format.Array, "array", "", "Output an array of JSON objects")

	fs.StringVarP(&o.language, "language", "L", "", "Only show repositories for the given programming `NAME`")
	fs.StringArrayVarP(&o.filters.Topics, "topic", "T", nil, "Only show repositories with the given `TOPIC` (repeatable; all must match)")
	fs.BoolVar(&o.filters.NoTopics, "no-topics", false, "Only show repositories without any topics")

	addChoice(fs, &o.visibility, "private", "private-only", "", "Only show private repositories (only for the authenticating user)")
	addChoice(fs, &o.visibility, "public", "public-only", "", "Only show public repositories (only for the authenticating user)")
	fs.StringVar(&o.affiliation, "affiliation", "", `Only show repositories with the given affiliations, a comma-separated list of "owner", "collaborator", and/or "organization_member" (only for the authenticating user)`)
}
