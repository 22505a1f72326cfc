// accountfilter
//
// Regex selection of accounts by display name. Patterns are compiled once
// at startup so a bad pattern fails the run before any api call is made.
package accountfilter

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ssosweep/ssosweep/internal/ssosession"
)

var ErrBadPattern = errors.New("invalid filter pattern")

// Matcher holds compiled include and exclude patterns. Matching is case
// insensitive and unanchored, a name is selected when every include
// pattern matches it and no exclude pattern does.
type Matcher struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

func New(includeOnly, exclude []string) (*Matcher, error) {
	matcher := &Matcher{}
	var err error
	if matcher.include, err = compile(includeOnly); err != nil {
		return nil, err
	}
	if matcher.exclude, err = compile(exclude); err != nil {
		return nil, err
	}
	return matcher, nil
}

func compile(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %s, %w", pattern, err, ErrBadPattern)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func (m *Matcher) Matches(name string) bool {
	for _, re := range m.include {
		if !re.MatchString(name) {
			return false
		}
	}
	for _, re := range m.exclude {
		if re.MatchString(name) {
			return false
		}
	}
	return true
}

// Apply returns the selected accounts preserving input order.
func (m *Matcher) Apply(accounts []ssosession.Account) []ssosession.Account {
	selected := make([]ssosession.Account, 0, len(accounts))
	for _, account := range accounts {
		if m.Matches(account.Name) {
			selected = append(selected, account)
		}
	}
	return selected
}
