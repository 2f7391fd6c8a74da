package modes

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/duyet/duyetbot-agent-sub001/internal/config"
	"github.com/duyet/duyetbot-agent-sub001/internal/github"
)

// trackingMarker is the hidden HTML marker embedded in tracking comments.
// Find-by-marker keeps comment creation idempotent per (entity, mode).
func trackingMarker(mode string) string {
	return fmt.Sprintf("<!-- duyetbot:%s -->", mode)
}

// resolveBaseBranch applies the configured base branch when set, falling
// back to the fixed default. Comparison is against the empty string only.
func resolveBaseBranch(in config.Inputs) string {
	if in.BaseBranch != "" {
		return in.BaseBranch
	}
	return config.DefaultBaseBranch
}

// GenerateTaskID synthesizes the deterministic run-unique task id:
// {mode}-{owner}-{repo}-{runID}, with the repository full name lowercased
// and its slash replaced by a hyphen. Falls back to the current unix
// timestamp when the event carries no run id.
func GenerateTaskID(mode string, ev *github.Context) string {
	repo := strings.ToLower(strings.ReplaceAll(ev.GetRepositoryFullName(), "/", "-"))
	run := ev.RunID
	if run == "" {
		run = strconv.FormatInt(time.Now().Unix(), 10)
	}
	return fmt.Sprintf("%s-%s-%s", mode, repo, run)
}

// prepareRun is the shared preparation protocol behind every mode's
// Prepare: resolve the base branch, synthesize the task id and, when the
// event has an associated issue/PR, find or create the tracking comment.
//
// Comment creation is the only fallible step and it never fails the run:
// errors degrade to a result with CommentID 0 and an explicit reason code.
func prepareRun(ctx context.Context, mode Mode, opts PrepareOptions) (*PrepareResult, error) {
	ev := opts.Event
	inputs := config.ParseInputs(ev.Inputs)

	base := resolveBaseBranch(inputs)
	result := &PrepareResult{
		ShouldExecute: true,
		TaskID:        GenerateTaskID(mode.Name(), ev),
		Branch: BranchInfo{
			BaseBranch:    base,
			CurrentBranch: base,
		},
	}

	if !ev.HasEntity() {
		log.Printf("[modes] %s mode running without issue/PR context (whole-repository run %s)", mode.Name(), result.TaskID)
		return result, nil
	}
	if !mode.ShouldCreateTrackingComment() {
		return result, nil
	}

	id, err := ensureTrackingComment(ctx, mode, opts, inputs, result.TaskID)
	if err != nil {
		// Degraded, not fatal: the run proceeds without a tracking comment.
		log.Printf("[modes] %s mode could not create tracking comment on %s#%d: %v",
			mode.Name(), ev.GetRepositoryFullName(), ev.EntityNumber, err)
		result.CommentUnavailable = CommentUnavailableCreateFailed
		return result, nil
	}
	result.CommentID = id

	return result, nil
}

// ensureTrackingComment finds an existing marked comment or creates a new
// one, returning its id.
func ensureTrackingComment(ctx context.Context, mode Mode, opts PrepareOptions, inputs config.Inputs, taskID string) (int64, error) {
	if opts.Client == nil {
		return 0, fmt.Errorf("no github client")
	}

	ev := opts.Event
	marker := trackingMarker(mode.Name())

	existing, err := github.FindBotComment(ctx, opts.Client,
		ev.Repository.Owner, ev.Repository.Name, ev.EntityNumber,
		inputs.BotName, marker)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		log.Printf("[modes] reusing tracking comment %d for %s", existing.ID, taskID)
		return existing.ID, nil
	}

	created, err := github.CreateIssueComment(ctx, opts.Client, github.CreateCommentParams{
		Owner:       ev.Repository.Owner,
		Repo:        ev.Repository.Name,
		IssueNumber: ev.EntityNumber,
		Body:        initialCommentBody(marker, inputs.BotName, ev.TriggerUser),
	})
	if err != nil {
		return 0, err
	}
	log.Printf("[modes] created tracking comment %d for %s", created.ID, taskID)
	return created.ID, nil
}

// initialCommentBody renders the first tracking comment: a working notice
// with the hidden idempotency marker appended.
func initialCommentBody(marker, botName, user string) string {
	if user == "" {
		user = "user"
	}
	return fmt.Sprintf("%s is working on @%s's request... <img src=\"https://github.githubassets.com/images/spinners/octocat-spinner-32.gif\" width=\"20\" height=\"20\" alt=\"loading\" />\n\n%s",
		botName, user, marker)
}
