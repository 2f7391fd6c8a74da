package runner

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/duyet/duyetbot-agent-sub001/internal/webhook"
)

// Runner is the narrow adapter to the downstream execution engine: it shells
// out to a configured agent CLI, feeding the synthesized prompt on stdin and
// the prepared run metadata through the environment. Everything upstream of
// this point is pure decision work.
type Runner struct {
	command string
	timeout time.Duration
}

// New creates a runner that executes command per task.
func New(command string) *Runner {
	return &Runner{
		command: command,
		timeout: 30 * time.Minute,
	}
}

// Execute runs one prepared task to completion.
func (r *Runner) Execute(ctx context.Context, task *webhook.Task) error {
	if task == nil {
		return fmt.Errorf("runner: task is nil")
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := []string{
		"--allowedTools", strings.Join(task.AllowedTools, ","),
	}
	if len(task.DisallowedTools) > 0 {
		args = append(args, "--disallowedTools", strings.Join(task.DisallowedTools, ","))
	}
	if task.SystemPrompt != "" {
		args = append(args, "--append-system-prompt", task.SystemPrompt)
	}

	cmd := exec.CommandContext(runCtx, r.command, args...)
	cmd.Stdin = strings.NewReader(task.Prompt)
	cmd.Env = append(os.Environ(),
		"TASK_ID="+task.ID,
		"TASK_MODE="+task.Mode,
		"REPO_FULL_NAME="+task.Repo,
		"ENTITY_NUMBER="+strconv.Itoa(task.Number),
		"BASE_BRANCH="+task.BaseBranch,
		"TRACKING_COMMENT_ID="+strconv.FormatInt(task.CommentID, 10),
		"GITHUB_TOKEN="+task.Token,
	)

	log.Printf("[runner] executing task %s (%s mode) on %s", task.ID, task.Mode, task.Repo)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("agent command failed for task %s: %w\nOutput: %s", task.ID, err, truncate(string(output), 2000))
	}

	log.Printf("[runner] task %s finished (%d bytes of output)", task.ID, len(output))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
