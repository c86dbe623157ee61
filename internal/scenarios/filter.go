package scenarios

import (
	"fmt"
	"regexp"
	"strings"
)

// RegexList is a set of patterns. It implements pflag.Value so it can be
// filled from repeated command line flags.
type RegexList struct {
	patterns []*regexp.Regexp
}

// ParseRegexList compiles each non-empty pattern.
func ParseRegexList(patterns ...string) (RegexList, error) {
	var r RegexList
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := r.Set(p); err != nil {
			return RegexList{}, err
		}
	}
	return r, nil
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

func (r *RegexList) Type() string { return "regex" }

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// Filter selects scenarios by their "Suite/Name" identifier.
type Filter struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// Match reports whether the scenario should run.
func (f Filter) Match(id ID) bool {
	name := id.String()
	return (!f.MustMatch.IsDefined() || f.MustMatch.AnyMatch(name)) &&
		!f.MustNotMatch.AnyMatch(name)
}

// Describe explains the filter in one line, or returns "" when it selects everything.
func (f Filter) Describe() string {
	var parts []string
	if f.MustMatch.IsDefined() {
		parts = append(parts, "skip any not matching "+f.MustMatch.String())
	}
	if f.MustNotMatch.IsDefined() {
		parts = append(parts, "skip any matching "+f.MustNotMatch.String())
	}
	return strings.Join(parts, "; ")
}
