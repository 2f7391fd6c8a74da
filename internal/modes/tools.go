package modes

// Tool identifiers handed to the downstream execution engine. Tag and agent
// share a broad base; continuous additionally advertises its capability
// flag tool so the engine knows it may loop over tasks.
var (
	baseTools = []string{
		"Bash",
		"Edit",
		"MultiEdit",
		"Glob",
		"Grep",
		"LS",
		"Read",
		"Write",
		"github_create_issue_comment",
		"github_update_issue_comment",
		"github_create_pull_request",
		"github_push_files",
	}

	gitTools = []string{
		"git_status",
		"git_diff_unstaged",
		"git_diff_staged",
		"git_commit",
		"git_log",
	}

	// ContinuousModeTool marks continuous-mode capability to the engine.
	ContinuousModeTool = "continuous_mode"
)

func tagAllowedTools() []string {
	return concatTools(baseTools, gitTools)
}

func agentAllowedTools() []string {
	return concatTools(baseTools, gitTools, []string{"github_create_issue", "github_close_issue"})
}

func continuousAllowedTools() []string {
	return concatTools(agentAllowedTools(), []string{ContinuousModeTool})
}

// concatTools returns a fresh slice so callers cannot mutate the shared
// tool lists.
func concatTools(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
