package filter

// Mode selects how a boolean repository attribute (archived, fork) is treated.
type Mode int

const (
	// Exclude drops repositories that have the attribute. It is the default.
	Exclude Mode = iota
	// Include keeps repositories regardless of the attribute.
	Include
	// Only keeps just the repositories that have the attribute.
	Only
)

func (m Mode) String() string {
	switch m {
	case Exclude:
		return "exclude"
	case Include:
		return "include"
	case Only:
		return "only"
	}
	return "unknown"
}

// Options is the filter selection parsed from the command line.
type Options struct {
	Archived Mode
	Forks    Mode
	Language *string // nil means no language filter
	Topics   []string
	NoTopics bool
}

// Build constructs the Matcher for opts.
func Build(opts Options) *Matcher {
	m := &Matcher{}
	m.Add(modeFilter("archived", opts.Archived))
	m.Add(modeFilter("fork", opts.Forks))
	if opts.Language != nil {
		m.Add(LanguageEquals{Language: *opts.Language})
	}
	for _, t := range opts.Topics {
		m.Add(TopicIncludes{Topic: t})
	}
	if opts.NoTopics {
		m.Add(TopicsEmpty{})
	}
	return m
}

func modeFilter(field string, mode Mode) Filter {
	switch mode {
	case Include:
		return Always{}
	case Only:
		return FieldEquals{Field: field, Value: true}
	default:
		return FieldEquals{Field: field, Value: false}
	}
}
