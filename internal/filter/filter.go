// Package filter decides which repositories make it to the output.
//
// A Matcher is a conjunction of Filters. Every Filter is a small value type
// so the pipeline built from the command line can be inspected and tested on
// its own. Filters read repository fields through the github.Repo accessors
// and return their shape errors unchanged: a record missing a field that an
// active filter needs stops the run.
package filter

import (
	"fmt"
	"strings"

	ghub "github.com/stahnma/repolist/internal/github"
)

// Filter is a pure predicate over a repository.
type Filter interface {
	Match(r ghub.Repo) (bool, error)
	String() string
}

// FieldEquals matches when the boolean field equals Value.
type FieldEquals struct {
	Field string
	Value bool
}

func (f FieldEquals) Match(r ghub.Repo) (bool, error) {
	v, err := r.Bool(f.Field)
	if err != nil {
		return false, err
	}
	return v == f.Value, nil
}

func (f FieldEquals) String() string {
	return fmt.Sprintf("%s == %t", f.Field, f.Value)
}

// LanguageEquals matches the primary language case-insensitively. A
// repository without a detected language never matches.
type LanguageEquals struct {
	Language string
}

func (f LanguageEquals) Match(r ghub.Repo) (bool, error) {
	lang, ok, err := r.Language()
	if err != nil || !ok {
		return false, err
	}
	return strings.EqualFold(lang, f.Language), nil
}

func (f LanguageEquals) String() string {
	return fmt.Sprintf("language ~= %q", f.Language)
}

// TopicIncludes matches when Topic is among the repository topics, ignoring case.
type TopicIncludes struct {
	Topic string
}

func (f TopicIncludes) Match(r ghub.Repo) (bool, error) {
	topics, err := r.Topics()
	if err != nil {
		return false, err
	}
	for _, t := range topics {
		if strings.EqualFold(t, f.Topic) {
			return true, nil
		}
	}
	return false, nil
}

func (f TopicIncludes) String() string {
	return fmt.Sprintf("topics contains %q", f.Topic)
}

// TopicsEmpty matches repositories with no topics at all.
type TopicsEmpty struct{}

func (TopicsEmpty) Match(r ghub.Repo) (bool, error) {
	topics, err := r.Topics()
	if err != nil {
		return false, err
	}
	return len(topics) == 0, nil
}

func (TopicsEmpty) String() string { return "topics == []" }

// Always matches everything.
type Always struct{}

func (Always) Match(ghub.Repo) (bool, error) { return true, nil }

func (Always) String() string { return "true" }

// Matcher is an ordered conjunction of filters. The zero value matches
// every repository.
type Matcher struct {
	filters []Filter
}

// Add appends f to the conjunction.
func (m *Matcher) Add(f Filter) {
	m.filters = append(m.filters, f)
}

// Filters returns the filters in insertion order.
func (m *Matcher) Filters() []Filter {
	return append([]Filter(nil), m.filters...)
}

// Match reports whether every filter matches r. Evaluation stops at the
// first filter that fails or errors.
func (m *Matcher) Match(r ghub.Repo) (bool, error) {
	for _, f := range m.filters {
		ok, err := f.Match(r)
		if err != nil {
			return false, fmt.Errorf("filter %s: %w", f, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (m *Matcher) String() string {
	if len(m.filters) == 0 {
		return "true"
	}
	parts := make([]string, len(m.filters))
	for i, f := range m.filters {
		parts[i] = f.String()
	}
	return strings.Join(parts, " && ")
}
