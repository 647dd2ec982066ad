package domain

import "github.com/bmatcuk/doublestar/v4"

// ExclusionRule excludes transitive dependencies whose organization and name
// match the given glob patterns. An empty pattern matches everything.
type ExclusionRule struct {
	Org  string `yaml:"org" json:"org"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

// Matches reports whether the rule applies to the given module.
func (r ExclusionRule) Matches(id ModuleID) bool {
	return matchPattern(r.Org, id.Org.String()) && matchPattern(r.Name, id.Name.String())
}

// String returns the canonical "org/name" pattern form.
func (r ExclusionRule) String() string {
	org, name := r.Org, r.Name
	if org == "" {
		org = "*"
	}
	if name == "" {
		name = "*"
	}
	return org + "/" + name
}

func matchPattern(pattern, value string) bool {
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(pattern, value)
	return err == nil && ok
}
