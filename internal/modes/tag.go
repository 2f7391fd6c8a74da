package modes

import (
	"context"
	"fmt"
	"strings"

	"github.com/duyet/duyetbot-agent-sub001/internal/config"
	"github.com/duyet/duyetbot-agent-sub001/internal/github"
)

// TagMode reacts to explicit mentions: a trigger phrase in a comment or
// issue/PR body, or a configured assignee/label. It always needs an
// issue/PR to attach to.
type TagMode struct{}

// Name returns the canonical mode identifier.
func (m *TagMode) Name() string { return ModeTag }

// Description returns a short summary of the mode.
func (m *TagMode) Description() string {
	return "Triggered by a mention, assignee or label on an issue or PR"
}

// ShouldTrigger reports whether the event mentions the bot. The trigger
// phrase is matched verbatim against the comment body first, then the issue
// body and title; assignee and label triggers are exact matches against the
// configured identifiers.
func (m *TagMode) ShouldTrigger(ev *github.Context) bool {
	if ev == nil || !ev.HasEntity() {
		return false
	}
	in := config.ParseInputs(ev.Inputs)

	if phrase := in.TriggerPhrase; phrase != "" {
		if strings.Contains(ev.GetTriggerCommentBody(), phrase) {
			return true
		}
		if ev.Issue != nil && (strings.Contains(ev.Issue.Body, phrase) || strings.Contains(ev.Issue.Title, phrase)) {
			return true
		}
	}

	if in.AssigneeTrigger != "" && ev.HasAssignee(strings.TrimPrefix(in.AssigneeTrigger, "@")) {
		return true
	}
	if in.LabelTrigger != "" && ev.HasLabel(in.LabelTrigger) {
		return true
	}

	return false
}

// PrepareContext builds the per-run context, optionally pre-seeded with a
// partial preparation result.
func (m *TagMode) PrepareContext(ev *github.Context, partial *PrepareResult) *ModeContext {
	return newModeContext(ModeTag, ev, partial)
}

// AllowedTools returns the tool surface for tag runs.
func (m *TagMode) AllowedTools() []string { return tagAllowedTools() }

// DisallowedTools returns nothing; tag mode restricts no tools.
func (m *TagMode) DisallowedTools() []string { return nil }

// ShouldCreateTrackingComment reports that tag runs track progress in a
// comment.
func (m *TagMode) ShouldCreateTrackingComment() bool { return true }

// GeneratePrompt renders the task prompt: identity framing, the triggering
// text verbatim, and the fixed instruction block.
func (m *TagMode) GeneratePrompt(mc *ModeContext) string {
	ev := mc.Event

	request := ev.GetTriggerCommentBody()
	if request == "" && ev.Issue != nil {
		request = ev.Issue.Body
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, an AI coding assistant for the repository %s.\n\n",
		mc.Inputs.BotName, ev.GetRepositoryFullName())
	b.WriteString("A user mentioned you with the following request:\n\n")
	b.WriteString(request)
	b.WriteString("\n\n## Instructions\n\n")
	b.WriteString("1. Read the request carefully and inspect the relevant code.\n")
	b.WriteString("2. Make the necessary changes on a dedicated branch.\n")
	b.WriteString("3. Update the tracking comment with your progress and results.\n")
	b.WriteString("4. Open a pull request when code changes are required.\n")
	return b.String()
}

// SystemPrompt returns empty; tag runs use the caller's default framing.
func (m *TagMode) SystemPrompt(mc *ModeContext) string { return "" }

// Prepare runs the shared preparation protocol for a tag run.
func (m *TagMode) Prepare(ctx context.Context, opts PrepareOptions) (*PrepareResult, error) {
	return prepareRun(ctx, m, opts)
}
