package modes

import (
	"context"
	"fmt"
	"strings"

	"github.com/duyet/duyetbot-agent-sub001/internal/config"
	"github.com/duyet/duyetbot-agent-sub001/internal/github"
)

// AgentMode runs autonomously: on an explicit prompt, a manual dispatch, a
// freshly opened issue, or an issue labeled for agent pickup.
type AgentMode struct{}

// Name returns the canonical mode identifier.
func (m *AgentMode) Name() string { return ModeAgent }

// Description returns a short summary of the mode.
func (m *AgentMode) Description() string {
	return "Autonomous runs from explicit prompts, manual dispatch or issue lifecycle events"
}

// ShouldTrigger reports whether an autonomous run applies. Label matching
// is a case-sensitive exact string match; an empty or missing label list
// never triggers.
func (m *AgentMode) ShouldTrigger(ev *github.Context) bool {
	if ev == nil {
		return false
	}
	if config.ParseInputs(ev.Inputs).Prompt != "" {
		return true
	}
	if ev.EventName == github.EventWorkflowDispatch {
		return true
	}
	if ev.EventName == github.EventIssues {
		switch ev.EventAction {
		case github.ActionOpened:
			return true
		case github.ActionLabeled:
			return ev.HasLabel(config.DefaultAgentLabel)
		}
	}
	return false
}

// PrepareContext builds the per-run context, optionally pre-seeded with a
// partial preparation result.
func (m *AgentMode) PrepareContext(ev *github.Context, partial *PrepareResult) *ModeContext {
	return newModeContext(ModeAgent, ev, partial)
}

// AllowedTools returns the tool surface for agent runs.
func (m *AgentMode) AllowedTools() []string { return agentAllowedTools() }

// DisallowedTools returns nothing; agent mode restricts no tools.
func (m *AgentMode) DisallowedTools() []string { return nil }

// ShouldCreateTrackingComment reports that agent runs track progress in a
// comment when an issue/PR exists.
func (m *AgentMode) ShouldCreateTrackingComment() bool { return true }

// GeneratePrompt renders the task prompt: the explicit prompt input, the
// issue title and body, or a fixed fallback when neither exists, followed
// by repository context and the issue/PR reference.
func (m *AgentMode) GeneratePrompt(mc *ModeContext) string {
	ev := mc.Event

	var b strings.Builder
	switch {
	case mc.Inputs.Prompt != "":
		b.WriteString(mc.Inputs.Prompt)
	case ev.Issue != nil && ev.Issue.Title != "":
		body := ev.Issue.Body
		if body == "" {
			body = "(No description)"
		}
		fmt.Fprintf(&b, "Issue: %s\n\n%s", ev.Issue.Title, body)
	default:
		b.WriteString("Review the repository and address pending maintenance tasks.")
	}

	fmt.Fprintf(&b, "\n\n## Repository Context\n\nRepository: %s\n", ev.GetRepositoryFullName())

	if ev.HasEntity() {
		kind, path := "Issue", "issues"
		if ev.IsPR {
			kind, path = "Pull Request", "pull"
		}
		fmt.Fprintf(&b, "\n## %s Reference\n\nhttps://github.com/%s/%s/%s/%d\n",
			kind, ev.Repository.Owner, ev.Repository.Name, path, ev.EntityNumber)
	}

	return b.String()
}

// SystemPrompt renders the GitHub context block for agent runs.
func (m *AgentMode) SystemPrompt(mc *ModeContext) string {
	return githubContextBlock(mc.Event)
}

// Prepare runs the shared preparation protocol for an agent run.
func (m *AgentMode) Prepare(ctx context.Context, opts PrepareOptions) (*PrepareResult, error) {
	return prepareRun(ctx, m, opts)
}

// githubContextBlock renders the shared system-prompt section surfacing the
// originating event: actor, event name with optional action, repository and
// run id.
func githubContextBlock(ev *github.Context) string {
	var b strings.Builder
	b.WriteString("## GitHub Context\n\n")
	fmt.Fprintf(&b, "- Actor: %s\n", ev.Actor)
	if ev.GetEventAction() != "" {
		fmt.Fprintf(&b, "- Event: %s (%s)\n", ev.GetEventName(), ev.GetEventAction())
	} else {
		fmt.Fprintf(&b, "- Event: %s\n", ev.GetEventName())
	}
	fmt.Fprintf(&b, "- Repository: %s\n", ev.GetRepositoryFullName())
	fmt.Fprintf(&b, "- Run ID: %s\n", ev.RunID)
	return b.String()
}
