package platform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FatihZee/tele-bot/domain/model"
)

// Matcher identifies the owning platform of a URL by substring rules. Rules
// are fixed at construction and matched in their configured order.
type Matcher struct {
	rules []model.PlatformRule
}

// NewMatcher validates the configured rules. An empty rule list, a rule
// without a name or a rule without at least one non-empty pattern is a
// configuration error.
func NewMatcher(rules []model.PlatformRule) (*Matcher, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("platform rules: rule list is empty")
	}
	for i, rule := range rules {
		if strings.TrimSpace(rule.Name) == "" {
			return nil, fmt.Errorf("platform rules: rule %d has no name", i)
		}
		if len(rule.Patterns) == 0 {
			return nil, fmt.Errorf("platform rules: rule %q has no patterns", rule.Name)
		}
		for _, pattern := range rule.Patterns {
			if strings.TrimSpace(pattern) == "" {
				return nil, fmt.Errorf("platform rules: rule %q has an empty pattern", rule.Name)
			}
		}
	}
	return &Matcher{rules: rules}, nil
}

// Identify returns the name of the first rule with a pattern contained in
// the URL. Matching is case-insensitive; rule and pattern order break ties.
func (m *Matcher) Identify(rawURL string) (string, bool) {
	lowered := strings.ToLower(rawURL)
	for _, rule := range m.rules {
		for _, pattern := range rule.Patterns {
			if strings.Contains(lowered, strings.ToLower(pattern)) {
				return rule.Name, true
			}
		}
	}
	return "", false
}

// SupportedPlatforms lists the configured platform names, alphabetically
// sorted and comma separated.
func (m *Matcher) SupportedPlatforms() string {
	names := make([]string, 0, len(m.rules))
	for _, rule := range m.rules {
		names = append(names, rule.Name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
