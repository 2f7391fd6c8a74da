package github

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v66/github"
)

// CommentRef identifies a created comment.
type CommentRef struct {
	ID      int64
	HTMLURL string
}

// BotComment is an existing comment found on an issue or PR.
type BotComment struct {
	ID   int64
	Body string
}

// CreateCommentParams holds the parameters for CreateIssueComment.
type CreateCommentParams struct {
	Owner       string
	Repo        string
	IssueNumber int
	Body        string
}

// CreateIssueComment creates a comment on an issue or PR and returns its
// identity. PRs share issue numbering, so the same call covers both.
func CreateIssueComment(ctx context.Context, client *gh.Client, p CreateCommentParams) (*CommentRef, error) {
	comment, _, err := client.Issues.CreateComment(ctx, p.Owner, p.Repo, p.IssueNumber, &gh.IssueComment{
		Body: gh.String(p.Body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create comment on %s/%s#%d: %w", p.Owner, p.Repo, p.IssueNumber, err)
	}
	if comment == nil || comment.ID == nil {
		return nil, fmt.Errorf("create comment on %s/%s#%d returned no id", p.Owner, p.Repo, p.IssueNumber)
	}
	return &CommentRef{
		ID:      comment.GetID(),
		HTMLURL: comment.GetHTMLURL(),
	}, nil
}

// UpdateIssueComment replaces the body of an existing comment.
func UpdateIssueComment(ctx context.Context, client *gh.Client, owner, repo string, commentID int64, body string) error {
	_, _, err := client.Issues.EditComment(ctx, owner, repo, commentID, &gh.IssueComment{
		Body: gh.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to update comment %d on %s/%s: %w", commentID, owner, repo, err)
	}
	return nil
}

// FindBotComment scans the comments of an issue/PR for one written by
// botUsername whose body contains marker. Markers are hidden HTML comments,
// so find-then-reuse keeps tracking-comment creation idempotent per entity.
// Returns nil (no error) when no matching comment exists.
func FindBotComment(ctx context.Context, client *gh.Client, owner, repo string, issueNumber int, botUsername, marker string) (*BotComment, error) {
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := client.Issues.ListComments(ctx, owner, repo, issueNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments on %s/%s#%d: %w", owner, repo, issueNumber, err)
		}

		for _, c := range comments {
			if botUsername != "" && c.GetUser().GetLogin() != botUsername {
				continue
			}
			if marker != "" && !strings.Contains(c.GetBody(), marker) {
				continue
			}
			return &BotComment{ID: c.GetID(), Body: c.GetBody()}, nil
		}

		if resp == nil || resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}
