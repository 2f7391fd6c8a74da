package github

import (
	"encoding/json"
	"fmt"
)

// EventType defines supported GitHub webhook events
type EventType string

const (
	EventIssueComment             EventType = "issue_comment"
	EventIssues                   EventType = "issues"
	EventPullRequest              EventType = "pull_request"
	EventPullRequestReview        EventType = "pull_request_review"
	EventPullRequestReviewComment EventType = "pull_request_review_comment"
	EventWorkflowDispatch         EventType = "workflow_dispatch"
	EventSchedule                 EventType = "schedule"
)

// EventAction defines GitHub event actions
type EventAction string

const (
	ActionOpened   EventAction = "opened"
	ActionClosed   EventAction = "closed"
	ActionCreated  EventAction = "created"
	ActionEdited   EventAction = "edited"
	ActionAssigned EventAction = "assigned"
	ActionLabeled  EventAction = "labeled"
)

// Context is the immutable per-run event descriptor. It is constructed once
// by the inbound adapter (webhook handler or entrypoint) and read-only to
// everything downstream: mode detection, context building, preparation and
// prompt synthesis all consume it without mutating it.
type Context struct {
	EventName   EventType
	EventAction EventAction
	Repository  Repository
	Actor       string

	// Issue/PR identification. EntityNumber is 0 when the event has no
	// associated issue or pull request (workflow_dispatch, schedule).
	IsPR         bool
	EntityNumber int

	// RunID correlates one automation run across logs, task ids and the
	// tracking comment. Numeric string (workflow run id or unix timestamp).
	RunID string

	// Trigger information
	TriggerUser    string
	TriggerComment *Comment
	Issue          *Issue

	// Inputs is the flat string-keyed configuration map (trigger phrases,
	// mode toggles, numeric limits and boolean flags all arrive as strings).
	Inputs map[string]string

	// Raw payload for additional data
	Payload any
}

// Repository represents a GitHub repository
type Repository struct {
	Owner    string
	Name     string
	FullName string
}

// Comment represents a GitHub comment
type Comment struct {
	ID        int64
	Body      string
	User      string
	CreatedAt string
	UpdatedAt string
}

// Issue represents a GitHub issue as carried in an event payload.
// Pull requests reuse the same shape (PRs share issue numbering).
type Issue struct {
	Number    int
	Title     string
	Body      string
	State     string
	Author    string
	Labels    []string
	Assignees []string
}

// ParseWebhookEvent parses a GitHub webhook event into a Context.
// Unknown event types still produce a Context (actor + repository only) so
// mode detection stays total; only malformed JSON is an error.
func ParseWebhookEvent(eventType string, payload []byte) (*Context, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	ctx := &Context{
		EventName: EventType(eventType),
		Payload:   data,
	}

	// Parse repository
	if repo, ok := data["repository"].(map[string]any); ok {
		ctx.Repository = Repository{
			Owner:    getStringField(repo, "owner", "login"),
			Name:     getStringField(repo, "name"),
			FullName: getStringField(repo, "full_name"),
		}
	}

	// Parse sender/actor
	if sender, ok := data["sender"].(map[string]any); ok {
		ctx.Actor = getStringField(sender, "login")
		ctx.TriggerUser = ctx.Actor
	}

	ctx.EventAction = EventAction(getStringField(data, "action"))

	// Parse event-specific data
	switch EventType(eventType) {
	case EventIssueComment:
		parseIssueComment(ctx, data)
	case EventIssues:
		parseIssues(ctx, data)
	case EventPullRequest, EventPullRequestReview, EventPullRequestReviewComment:
		parsePullRequest(ctx, data)
	case EventWorkflowDispatch, EventSchedule:
		// No entity context; repository/actor parsed above is all there is.
	}

	return ctx, nil
}

func parseIssueComment(ctx *Context, data map[string]any) {
	if comment, ok := data["comment"].(map[string]any); ok {
		ctx.TriggerComment = &Comment{
			ID:        int64(getNumberField(comment, "id")),
			Body:      getStringField(comment, "body"),
			User:      getStringField(comment, "user", "login"),
			CreatedAt: getStringField(comment, "created_at"),
			UpdatedAt: getStringField(comment, "updated_at"),
		}
	}

	if issue, ok := data["issue"].(map[string]any); ok {
		ctx.EntityNumber = int(getNumberField(issue, "number"))
		ctx.Issue = parseIssuePayload(issue)

		// Comments on PRs arrive as issue_comment with a pull_request key.
		if pullRequest, hasPR := issue["pull_request"]; hasPR && pullRequest != nil {
			ctx.IsPR = true
		}
	}
}

func parseIssues(ctx *Context, data map[string]any) {
	ctx.IsPR = false

	if issue, ok := data["issue"].(map[string]any); ok {
		ctx.EntityNumber = int(getNumberField(issue, "number"))
		ctx.Issue = parseIssuePayload(issue)
	}
}

func parsePullRequest(ctx *Context, data map[string]any) {
	ctx.IsPR = true

	if pr, ok := data["pull_request"].(map[string]any); ok {
		ctx.EntityNumber = int(getNumberField(pr, "number"))
		ctx.Issue = parseIssuePayload(pr)
	}

	// Review bodies and review comments both act as the trigger comment.
	if review, ok := data["review"].(map[string]any); ok {
		ctx.TriggerComment = &Comment{
			ID:        int64(getNumberField(review, "id")),
			Body:      getStringField(review, "body"),
			User:      getStringField(review, "user", "login"),
			CreatedAt: getStringField(review, "submitted_at"),
		}
	}
	if comment, ok := data["comment"].(map[string]any); ok {
		ctx.TriggerComment = &Comment{
			ID:        int64(getNumberField(comment, "id")),
			Body:      getStringField(comment, "body"),
			User:      getStringField(comment, "user", "login"),
			CreatedAt: getStringField(comment, "created_at"),
			UpdatedAt: getStringField(comment, "updated_at"),
		}
	}
}

func parseIssuePayload(issue map[string]any) *Issue {
	parsed := &Issue{
		Number: int(getNumberField(issue, "number")),
		Title:  getStringField(issue, "title"),
		Body:   getStringField(issue, "body"),
		State:  getStringField(issue, "state"),
		Author: getStringField(issue, "user", "login"),
	}

	if labels, ok := issue["labels"].([]any); ok {
		for _, l := range labels {
			if label, ok := l.(map[string]any); ok {
				if name := getStringField(label, "name"); name != "" {
					parsed.Labels = append(parsed.Labels, name)
				}
			}
		}
	}
	if assignees, ok := issue["assignees"].([]any); ok {
		for _, a := range assignees {
			if assignee, ok := a.(map[string]any); ok {
				if login := getStringField(assignee, "login"); login != "" {
					parsed.Assignees = append(parsed.Assignees, login)
				}
			}
		}
	}

	return parsed
}

// --- Accessors used by modes and prompt synthesis ---

// GetEventName returns the GitHub event name as a string.
func (c *Context) GetEventName() string { return string(c.EventName) }

// GetEventAction returns the GitHub event action as a string.
func (c *Context) GetEventAction() string { return string(c.EventAction) }

// GetRepositoryFullName returns owner/name if available.
func (c *Context) GetRepositoryFullName() string {
	if c.Repository.FullName != "" {
		return c.Repository.FullName
	}
	if c.Repository.Owner != "" && c.Repository.Name != "" {
		return c.Repository.Owner + "/" + c.Repository.Name
	}
	return ""
}

// HasEntity reports whether the event is tied to an issue or pull request.
func (c *Context) HasEntity() bool { return c.EntityNumber > 0 }

// GetTriggerCommentBody returns the body of the trigger comment if present.
func (c *Context) GetTriggerCommentBody() string {
	if c.TriggerComment == nil {
		return ""
	}
	return c.TriggerComment.Body
}

// GetInput returns the configuration input for key, or "" when unset.
// All inputs are strings; callers apply their own empty-vs-value rules.
func (c *Context) GetInput(key string) string {
	if c.Inputs == nil {
		return ""
	}
	return c.Inputs[key]
}

// HasLabel reports whether the event's issue carries a label with exactly
// the given name. Case-sensitive; a missing issue or empty label list never
// matches.
func (c *Context) HasLabel(name string) bool {
	if c.Issue == nil {
		return false
	}
	for _, l := range c.Issue.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// HasAssignee reports whether the event's issue is assigned to login.
func (c *Context) HasAssignee(login string) bool {
	if c.Issue == nil {
		return false
	}
	for _, a := range c.Issue.Assignees {
		if a == login {
			return true
		}
	}
	return false
}

// Helper functions for safe map access
func getStringField(data map[string]any, keys ...string) string {
	current := data
	for i, key := range keys {
		if i == len(keys)-1 {
			if val, ok := current[key].(string); ok {
				return val
			}
			return ""
		}
		if next, ok := current[key].(map[string]any); ok {
			current = next
		} else {
			return ""
		}
	}
	return ""
}

func getNumberField(data map[string]any, keys ...string) float64 {
	current := data
	for i, key := range keys {
		if i == len(keys)-1 {
			if val, ok := current[key].(float64); ok {
				return val
			}
			return 0
		}
		if next, ok := current[key].(map[string]any); ok {
			current = next
		} else {
			return 0
		}
	}
	return 0
}
