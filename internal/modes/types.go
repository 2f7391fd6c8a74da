package modes

import (
	"context"

	gh "github.com/google/go-github/v66/github"

	"github.com/duyet/duyetbot-agent-sub001/internal/config"
	"github.com/duyet/duyetbot-agent-sub001/internal/github"
)

// Mode is the shared capability contract of the three behavioral variants
// (tag, agent, continuous). Implementations are stateless package singletons
// safe to share across concurrent runs; only Prepare performs I/O.
type Mode interface {
	// Name returns the canonical lowercase mode identifier.
	Name() string

	// Description returns a short human-readable summary of the mode.
	Description() string

	// ShouldTrigger reports whether this mode applies to the event.
	// Pure and total: no network or file access, never panics for a
	// well-formed descriptor.
	ShouldTrigger(ev *github.Context) bool

	// PrepareContext builds a ModeContext from the event and an optional
	// partially-known preparation result (pre-seeding comment id, task id
	// and branch info before Prepare has run).
	PrepareContext(ev *github.Context, partial *PrepareResult) *ModeContext

	// AllowedTools returns the ordered tool identifiers the downstream
	// execution engine may use under this mode.
	AllowedTools() []string

	// DisallowedTools returns tools the mode withholds. Currently empty
	// for all three modes; kept as a per-mode override point.
	DisallowedTools() []string

	// ShouldCreateTrackingComment reports whether Prepare should create a
	// tracking comment when the event carries an entity number.
	ShouldCreateTrackingComment() bool

	// GeneratePrompt synthesizes the task prompt handed to the downstream
	// execution engine. Deterministic for a given context.
	GeneratePrompt(mc *ModeContext) string

	// SystemPrompt synthesizes auxiliary system framing. An empty string
	// means the caller should fall back to its default system prompt.
	SystemPrompt(mc *ModeContext) string

	// Prepare runs the mode's preparation protocol: task-id synthesis,
	// base-branch resolution and idempotent tracking-comment creation.
	// The only operation permitted to perform I/O.
	Prepare(ctx context.Context, opts PrepareOptions) (*PrepareResult, error)
}

// PrepareOptions bundles the collaborators Prepare needs.
type PrepareOptions struct {
	Event *github.Context

	// Client is the authenticated GitHub client used for comment lookup
	// and creation. May be nil when the event carries no entity number.
	Client *gh.Client

	// Token is the credential passed through to downstream collaborators.
	// This package never inspects it.
	Token string
}

// BranchInfo is the branch triple consumed by downstream git operations.
type BranchInfo struct {
	// BaseBranch is the branch execution starts from.
	BaseBranch string

	// WorkBranch is the divergent working branch, empty until the
	// execution engine creates one.
	WorkBranch string

	// CurrentBranch is the branch currently checked out.
	CurrentBranch string
}

// Reason codes for a degraded-but-successful preparation.
const (
	// CommentUnavailableCreateFailed marks a run whose tracking comment
	// could not be created or found; the run still executes.
	CommentUnavailableCreateFailed = "tracking-comment-create-failed"
)

// PrepareResult is produced once by Prepare and consumed immediately to
// enrich the ModeContext. Never mutated afterwards.
type PrepareResult struct {
	// ShouldExecute is false only on an unrecoverable precondition.
	// No current mode sets it false; reserved for future gating.
	ShouldExecute bool

	// CommentID is the tracking comment id, 0 when no entity context
	// exists or creation degraded.
	CommentID int64

	// CommentUnavailable carries a reason code when comment creation
	// failed. The degradation is explicit so callers and tests can assert
	// on it without scraping logs.
	CommentUnavailable string

	// TaskID is the deterministic run-unique identifier:
	// {mode}-{owner}-{repo}-{runID}.
	TaskID string

	Branch BranchInfo
}

// ModeContext is the per-run execution context assembled by PrepareContext.
// It starts unprepared (mode + event + parsed inputs only) and becomes
// prepared once enriched with a PrepareResult; prepared fields are exposed
// through (value, ok) accessors so an unset task id can never be mistaken
// for a real one. Read-only after enrichment.
type ModeContext struct {
	ModeName string
	Event    *github.Context
	Inputs   config.Inputs

	prep *PrepareResult
}

// Prepared reports whether the context has been enriched with a
// preparation result.
func (c *ModeContext) Prepared() bool { return c.prep != nil }

// CommentID returns the tracking comment id when prepared and present.
func (c *ModeContext) CommentID() (int64, bool) {
	if c.prep == nil || c.prep.CommentID == 0 {
		return 0, false
	}
	return c.prep.CommentID, true
}

// TaskID returns the task id when prepared.
func (c *ModeContext) TaskID() (string, bool) {
	if c.prep == nil {
		return "", false
	}
	return c.prep.TaskID, true
}

// Branch returns the branch info when prepared.
func (c *ModeContext) Branch() (BranchInfo, bool) {
	if c.prep == nil {
		return BranchInfo{}, false
	}
	return c.prep.Branch, true
}

// newModeContext builds a ModeContext for mode, optionally enriched with a
// partial preparation result. Shared by all three PrepareContext
// implementations.
func newModeContext(mode string, ev *github.Context, partial *PrepareResult) *ModeContext {
	mc := &ModeContext{
		ModeName: mode,
		Event:    ev,
	}
	if ev != nil {
		mc.Inputs = config.ParseInputs(ev.Inputs)
	} else {
		mc.Inputs = config.ParseInputs(nil)
	}
	if partial != nil {
		mc.prep = partial
	}
	return mc
}
