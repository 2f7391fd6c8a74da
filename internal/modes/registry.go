package modes

import "github.com/duyet/duyetbot-agent-sub001/internal/github"

// Canonical mode identifiers. Lowercase, case-sensitive everywhere.
const (
	ModeTag        = "tag"
	ModeAgent      = "agent"
	ModeContinuous = "continuous"
)

var (
	tagMode        = &TagMode{}
	agentMode      = &AgentMode{}
	continuousMode = &ContinuousMode{}

	// detectionOrder is both the canonical validity list and the
	// precedence order for auto-detection: tag before agent before
	// continuous, first match wins. Several predicates can hold at once
	// (a trigger-phrase comment with continuousMode set still resolves to
	// tag), so the order is load-bearing.
	detectionOrder = []Mode{tagMode, agentMode, continuousMode}
)

// GetMode evaluates the trigger predicates in canonical order and returns
// the first matching mode. Returns nil when no predicate holds, which means
// the event carries no automation signal at all; callers treat that as
// "nothing to do", never as an error to swallow.
func GetMode(ev *github.Context) Mode {
	for _, m := range detectionOrder {
		if m.ShouldTrigger(ev) {
			return m
		}
	}
	return nil
}

// GetModeByName returns the singleton for a canonical mode name, or nil for
// any other string. Lookups are referentially stable: the same name always
// yields the same instance, so callers may compare modes by identity.
func GetModeByName(name string) Mode {
	for _, m := range detectionOrder {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// IsValidMode reports whether name is exactly one of the three canonical
// lowercase mode names.
func IsValidMode(name string) bool {
	return GetModeByName(name) != nil
}

// ValidModes returns the canonical mode name list in precedence order.
func ValidModes() []string {
	names := make([]string, 0, len(detectionOrder))
	for _, m := range detectionOrder {
		names = append(names, m.Name())
	}
	return names
}
