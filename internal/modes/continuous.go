package modes

import (
	"context"
	"fmt"
	"strings"

	"github.com/duyet/duyetbot-agent-sub001/internal/config"
	"github.com/duyet/duyetbot-agent-sub001/internal/github"
)

// ContinuousMode processes a stream of tasks from a task source in one run,
// gated purely on the continuousMode configuration flag.
type ContinuousMode struct{}

// Name returns the canonical mode identifier.
func (m *ContinuousMode) Name() string { return ModeContinuous }

// Description returns a short summary of the mode.
func (m *ContinuousMode) Description() string {
	return "Processes queued tasks sequentially until exhausted or capped"
}

// ShouldTrigger reports whether continuous mode is switched on. The flag
// must be the exact lowercase string "true"; no other trigger signal is
// consulted and no issue/PR context is required.
func (m *ContinuousMode) ShouldTrigger(ev *github.Context) bool {
	if ev == nil {
		return false
	}
	return ev.GetInput(config.InputContinuousMode) == "true"
}

// PrepareContext builds the per-run context, optionally pre-seeded with a
// partial preparation result.
func (m *ContinuousMode) PrepareContext(ev *github.Context, partial *PrepareResult) *ModeContext {
	return newModeContext(ModeContinuous, ev, partial)
}

// AllowedTools returns the agent tool surface plus the continuous-mode
// capability flag tool.
func (m *ContinuousMode) AllowedTools() []string { return continuousAllowedTools() }

// DisallowedTools returns nothing; continuous mode restricts no tools.
func (m *ContinuousMode) DisallowedTools() []string { return nil }

// ShouldCreateTrackingComment reports that continuous runs track progress
// in a comment when an issue/PR exists.
func (m *ContinuousMode) ShouldCreateTrackingComment() bool { return true }

// GeneratePrompt renders the continuous-mode configuration, the optional
// initial context, and the fixed sequential task-processing protocol.
// Numeric and boolean settings render verbatim: an explicit "0" or "false"
// is shown as given, only unset values fall back to defaults.
func (m *ContinuousMode) GeneratePrompt(mc *ModeContext) string {
	in := mc.Inputs

	var b strings.Builder
	b.WriteString("## Continuous Mode Configuration\n\n")
	fmt.Fprintf(&b, "- **Max Tasks**: %s\n", in.MaxTasks)
	fmt.Fprintf(&b, "- **Task Source**: %s\n", in.TaskSource)
	fmt.Fprintf(&b, "- **Auto Merge**: %s\n", in.AutoMerge)
	fmt.Fprintf(&b, "- **Close Issues**: %s\n", in.CloseIssues)

	if in.Prompt != "" {
		b.WriteString("\n## Initial Context\n\n")
		b.WriteString(in.Prompt)
		b.WriteString("\n")
	}

	b.WriteString("\n## Instructions\n\n")
	b.WriteString("1. Fetch open tasks from the task source, oldest first.\n")
	b.WriteString("2. Process exactly one task at a time; never start the next task before the current one is finished.\n")
	b.WriteString("3. For each task: implement the change on a dedicated branch, run the checks, then open a pull request.\n")
	b.WriteString("4. When Auto Merge is \"true\", merge the pull request once checks pass; otherwise leave it for review.\n")
	b.WriteString("5. When Close Issues is \"true\", close the source issue after its change lands.\n")
	b.WriteString("6. Stop once Max Tasks tasks are processed or the task source is empty.\n")
	return b.String()
}

// SystemPrompt renders the continuous-mode settings block followed by the
// shared GitHub context block.
func (m *ContinuousMode) SystemPrompt(mc *ModeContext) string {
	var b strings.Builder
	b.WriteString("## Continuous Mode Settings\n\n")
	fmt.Fprintf(&b, "- **Delay Between Tasks**: %ss\n", mc.Inputs.DelayBetweenTasks)
	b.WriteString("\n")
	b.WriteString(githubContextBlock(mc.Event))
	return b.String()
}

// Prepare runs the shared preparation protocol for a continuous run.
func (m *ContinuousMode) Prepare(ctx context.Context, opts PrepareOptions) (*PrepareResult, error) {
	return prepareRun(ctx, m, opts)
}
